package commands

import (
	"context"
	"log/slog"

	"github.com/thoreinstein/uimpit/internal/backup"
	"github.com/thoreinstein/uimpit/internal/config"
	"github.com/thoreinstein/uimpit/internal/document"
	"github.com/thoreinstein/uimpit/internal/errors"
	"github.com/thoreinstein/uimpit/internal/locale"
	"github.com/thoreinstein/uimpit/internal/logging"
	"github.com/thoreinstein/uimpit/internal/paths"
)

// env is what a command needs after flags and settings are merged.
type env struct {
	Settings   config.Settings
	ConfigPath string
	LangDir    string
	Language   string
	Backups    *backup.Manager
}

// isInteractive is swapped out by tests.
var isInteractive = logging.IsInteractive

// sessionBackups is shared so an editor session backs each file up once.
var sessionBackups *backup.Manager

// resolveEnv merges flags over settings. Flags win. A broken settings
// file is an error.
func resolveEnv() (*env, error) {
	if settingsLoadErr != nil {
		return nil, errors.NewConfigError(settingsLoadErr)
	}
	return newEnv()
}

// newEnv is resolveEnv for commands that still work with broken settings.
// Defaults stand in for them.
func newEnv() (*env, error) {
	s := config.Settings{
		ConfigPath: paths.DefaultConfigFile,
		LangDir:    paths.DefaultLangDir,
		Language:   locale.DefaultLanguage,
		Backup:     config.Backup{Enabled: true, Retention: config.DefaultRetention},
	}
	if settings != nil {
		s = *settings
	}

	e := &env{
		Settings:   s,
		ConfigPath: firstNonEmpty(configFlag, s.ConfigPath),
		LangDir:    firstNonEmpty(langDirFlag, s.LangDir),
		Language:   firstNonEmpty(langFlag, s.Language),
	}

	var err error
	if e.ConfigPath, err = paths.ExpandHome(e.ConfigPath); err != nil {
		return nil, errors.NewSystemError(err, "Set config_path to an absolute path")
	}
	if e.LangDir, err = paths.ExpandHome(e.LangDir); err != nil {
		return nil, errors.NewSystemError(err, "Set lang_dir to an absolute path")
	}

	if sessionBackups == nil {
		sessionBackups = backup.NewManager(backup.WithRetentionCount(s.Backup.Retention))
	}
	e.Backups = sessionBackups
	return e, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// loadDocument loads the config and logs any recovery warnings.
func (e *env) loadDocument(ctx context.Context) (*document.Document, error) {
	logger := logging.FromContext(ctx)
	doc, err := document.Load(e.ConfigPath)
	if err != nil {
		return nil, errors.NewSystemError(err, "Check that the config file is readable")
	}

	logger.Debug("loaded config", "path", e.ConfigPath, "origin", doc.Origin().String())
	for _, w := range doc.Warnings() {
		logger.Warn("config file problem", "path", e.ConfigPath, "error", w)
	}
	if logger.Enabled(ctx, logging.LevelTrace) {
		for id, v := range doc.Values() {
			logger.Log(ctx, logging.LevelTrace, "field", "id", id.String(), "value", v.String())
		}
	}
	return doc, nil
}

func (e *env) loadCatalog(ctx context.Context) (*locale.Catalog, error) {
	c, err := locale.Load(e.LangDir, logging.FromContext(ctx))
	if err != nil {
		return nil, errors.NewSystemError(err, "Check the lang_dir setting")
	}
	if _, ok := c.Language(e.Language); !ok {
		logging.FromContext(ctx).Warn("language not available, using English",
			slog.String("language", e.Language), slog.String("dir", e.LangDir))
	}
	return c, nil
}

// saveDocument backs the current file up, once per session, then writes doc.
func (e *env) saveDocument(ctx context.Context, doc *document.Document) error {
	logger := logging.FromContext(ctx)
	if e.Settings.Backup.Enabled {
		if err := e.Backups.EnsureBackedUp(e.ConfigPath); err != nil {
			return errors.NewSystemError(err, "Disable backups with: uimpit settings set backup.enabled false")
		}
	}
	if err := document.Save(doc, e.ConfigPath); err != nil {
		return errors.NewSystemError(err, "Check that the config directory is writable")
	}
	logger.Info("saved config", "path", e.ConfigPath)
	return nil
}
