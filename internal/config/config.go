package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/thoreinstein/uimpit/internal/errors"
	"github.com/thoreinstein/uimpit/internal/paths"
	"github.com/thoreinstein/uimpit/pkg/fileutil"
)

// Settings is the tool's configuration.
type Settings struct {
	ConfigPath string `mapstructure:"config_path" yaml:"config_path"`
	LangDir    string `mapstructure:"lang_dir" yaml:"lang_dir"`
	Language   string `mapstructure:"language" yaml:"language"`
	Editor     string `mapstructure:"editor" yaml:"editor,omitempty"`
	Backup     Backup `mapstructure:"backup" yaml:"backup"`
}

// Backup controls the copies taken before a config file is overwritten.
type Backup struct {
	Enabled   bool `mapstructure:"enabled" yaml:"enabled"`
	Retention int  `mapstructure:"retention" yaml:"retention"`
}

// Setting keys.
const (
	KeyConfigPath      = "config_path"
	KeyLangDir         = "lang_dir"
	KeyLanguage        = "language"
	KeyEditor          = "editor"
	KeyBackupEnabled   = "backup.enabled"
	KeyBackupRetention = "backup.retention"
)

// DefaultRetention is the number of backups kept per config file.
const DefaultRetention = 5

// Keys returns every recognized setting key in display order.
func Keys() []string {
	return []string{
		KeyConfigPath,
		KeyLangDir,
		KeyLanguage,
		KeyEditor,
		KeyBackupEnabled,
		KeyBackupRetention,
	}
}

// Init resets Viper and registers search paths, env binding and defaults.
// Call it once at startup, before Load.
func Init() {
	viper.Reset()

	viper.SetConfigName("settings")
	viper.SetConfigType("yaml")

	viper.AddConfigPath(".")
	viper.AddConfigPath(paths.SettingsDir())

	viper.SetEnvPrefix("UIMPIT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault(KeyConfigPath, paths.DefaultConfigFile)
	viper.SetDefault(KeyLangDir, paths.DefaultLangDir)
	viper.SetDefault(KeyLanguage, "en")
	viper.SetDefault(KeyEditor, "")
	viper.SetDefault(KeyBackupEnabled, true)
	viper.SetDefault(KeyBackupRetention, DefaultRetention)
}

// Load reads the settings file. With an explicit path the file must exist;
// with an empty path the search paths are tried and defaults are used when
// nothing is found.
func Load(path string) (*Settings, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
		switch {
		case missing && path != "":
			return nil, errors.Wrapf(errors.ErrNotFound, "settings file %s", path)
		case missing:
			// implicit search found nothing; defaults apply
		default:
			return nil, errors.Wrap(err, "reading settings file")
		}
	}

	return Current()
}

// Current unmarshals and validates the settings Viper holds now.
func Current() (*Settings, error) {
	var s Settings
	if err := viper.Unmarshal(&s); err != nil {
		return nil, errors.Wrap(err, "unmarshaling settings")
	}
	if errs := Validate(&s); len(errs) > 0 {
		return nil, errors.Wrap(errors.Join(errs...), "validating settings")
	}
	return &s, nil
}

// FileUsed returns the settings file Viper read, or the default location
// under the XDG config home when none was read.
func FileUsed() string {
	if f := viper.ConfigFileUsed(); f != "" {
		return f
	}
	return paths.SettingsFile()
}

// Get returns the string form of a setting and whether the key is known.
func Get(key string) (string, bool) {
	if !isKey(key) {
		return "", false
	}
	return viper.GetString(key), true
}

// Set validates value for key, applies it and writes the settings file.
func Set(key, value string) error {
	if !isKey(key) {
		return errors.Wrapf(ErrUnknownKey, "%s (known: %s)", key, strings.Join(Keys(), ", "))
	}

	prev := viper.Get(key)
	viper.Set(key, value)
	if _, err := Current(); err != nil {
		viper.Set(key, prev)
		return err
	}

	return Save(FileUsed())
}

// Save writes the current settings to path as YAML.
func Save(path string) error {
	s, err := Current()
	if err != nil {
		return err
	}
	if err := paths.EnsureDir(filepath.Dir(path), 0); err != nil {
		return errors.Wrap(err, "creating settings directory")
	}
	if err := fileutil.AtomicWriteYAML(path, s, 0o600); err != nil {
		return errors.Wrap(err, "writing settings file")
	}
	return nil
}

func isKey(key string) bool {
	for _, k := range Keys() {
		if k == key {
			return true
		}
	}
	return false
}
