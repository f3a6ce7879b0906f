package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/uimpit/internal/document"
	"github.com/thoreinstein/uimpit/internal/editor"
	"github.com/thoreinstein/uimpit/internal/errors"
	"github.com/thoreinstein/uimpit/internal/validator"
	"github.com/thoreinstein/uimpit/pkg/fileutil"
)

// newLauncher is swapped out by tests.
var newLauncher = editor.New

func init() {
	rootCmd.AddCommand(openCmd)
}

var openCmd = &cobra.Command{
	Use:   "open",
	Short: "Open the config in a text editor, then validate it",
	Long: `Open the raw config.json in a text editor and validate it afterwards.

The editor is taken from the editor setting, then $EDITOR, then $VISUAL,
then nano or vi. A missing config file is created with the defaults first.
The file is backed up before the editor starts.`,
	Example: `  uimpit open
  EDITOR="code --wait" uimpit open

  See Also: uimpit edit, uimpit validate`,
	Args: userArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runOpenWithWriter(cmd, cmd.OutOrStdout())
	},
}

func runOpenWithWriter(cmd *cobra.Command, w io.Writer) error {
	e, err := resolveEnv()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	if !fileutil.Exists(e.ConfigPath) {
		if err := document.Save(document.New(), e.ConfigPath); err != nil {
			return errors.NewSystemError(err, "Check that the config directory is writable")
		}
		fmt.Fprintf(w, "Created %s with defaults.\n", e.ConfigPath)
	} else if e.Settings.Backup.Enabled {
		if err := e.Backups.EnsureBackedUp(e.ConfigPath); err != nil {
			return errors.NewSystemError(err, "Disable backups with: uimpit settings set backup.enabled false")
		}
	}

	if err := newLauncher(e.Settings.Editor).Open(ctx, e.ConfigPath); err != nil {
		return errors.NewSystemError(err, "Set the editor with: uimpit settings set editor <command>")
	}

	doc, err := e.loadDocument(ctx)
	if err != nil {
		return err
	}
	return reportValidation(w, e.ConfigPath, false, validator.Document(doc))
}
