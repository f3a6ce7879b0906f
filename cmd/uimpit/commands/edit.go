package commands

import (
	"context"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/uimpit/internal/document"
	"github.com/thoreinstein/uimpit/internal/errors"
	"github.com/thoreinstein/uimpit/internal/gui"
	"github.com/thoreinstein/uimpit/internal/logging"
	"github.com/thoreinstein/uimpit/internal/paths"
)

func init() {
	rootCmd.AddCommand(editCmd)
}

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the form editor",
	Long: `Open the terminal form editor on the server config.

Keys:
  Up/Down, j/k     move between fields
  Tab/Shift-Tab    jump to the next or previous category
  Enter            edit a number, or flip a switch
  Space            flip a switch
  s                save
  R                reset every value to its default (not saved until s)
  L                switch language
  q, Ctrl-C        quit

Fields that depend on roleplay are locked while roleplay_enabled is off.
While the editor is open, logs go to the log file only.`,
	Example: `  uimpit edit
  uimpit edit -c server/config.json --lang fr

  See Also: uimpit set, uimpit list`,
	Args: userArgs(cobra.NoArgs),
	RunE: runEdit,
}

func runEdit(cmd *cobra.Command, _ []string) error {
	if !isInteractive() {
		return errors.NewUserError(
			errors.New("the form editor needs an interactive terminal"),
			"Use 'uimpit list' and 'uimpit set' from scripts")
	}

	e, err := resolveEnv()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	doc, err := e.loadDocument(ctx)
	if err != nil {
		return err
	}
	catalog, err := e.loadCatalog(ctx)
	if err != nil {
		return err
	}

	// The terminal belongs to the editor from here on.
	ctx, closeLog, err := editorLogging(ctx)
	if err != nil {
		return err
	}
	defer closeLog()

	editor, err := gui.New(ctx, gui.Options{
		Document: doc,
		Catalog:  catalog,
		Language: e.Language,
		Save:     e.saveDocument,
		Warnings: doc.Warnings(),
	})
	if err != nil {
		return errors.NewSystemError(err, "")
	}

	if _, err := editor.Run(); err != nil {
		return errors.NewSystemError(err, "Check that the terminal supports full-screen programs")
	}
	return nil
}

// editorLogging returns a context whose logger writes only to the log
// file: --log-file when given, otherwise the state-dir log.
func editorLogging(ctx context.Context) (context.Context, func(), error) {
	sink := logSink
	closeFn := func() {}
	if sink == nil {
		f, err := openLogFile(paths.LogFile())
		if err != nil {
			// No file, no logs. The editor still runs.
			logging.FromContext(ctx).Debug("editor log file unavailable", "error", err)
			return logging.NewContext(ctx, logging.NewDiscard()), closeFn, nil
		}
		sink = f
		closeFn = func() { _ = f.Close() }
	}

	logger := logging.New(logging.Config{
		Level:  logLevel(),
		Output: io.Discard,
		File:   sink,
	})
	logger.Info("editor session", slog.String("log", "file"))
	return logging.NewContext(ctx, logger), closeFn, nil
}

// commitAndSave applies edits to doc and saves the result.
func commitAndSave(ctx context.Context, e *env, doc *document.Document, edits map[document.FieldID]document.Input) (*document.Document, error) {
	next, err := document.Commit(doc, edits)
	if err != nil {
		var inputErr *document.InputError
		if errors.As(err, &inputErr) {
			return nil, errors.NewUserError(err, "Numbers must be whole and between 0 and 999999999; switches take true or false")
		}
		return nil, errors.NewUserError(err, "Run 'uimpit list' to see the known fields")
	}
	if err := e.saveDocument(ctx, next); err != nil {
		return nil, err
	}
	return next, nil
}
