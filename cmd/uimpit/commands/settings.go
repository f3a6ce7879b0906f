package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/uimpit/internal/config"
	"github.com/thoreinstein/uimpit/internal/errors"
	"github.com/thoreinstein/uimpit/pkg/fileutil"
)

func init() {
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsListCmd)
	settingsCmd.AddCommand(settingsEditCmd)
	rootCmd.AddCommand(settingsCmd)
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage uimpit's own settings",
	Long: `Manage the settings of uimpit itself, stored in settings.yaml.

settings.yaml is read from the current directory, then from
$XDG_CONFIG_HOME/uimpit. Environment variables UIMPIT_<KEY> override the
file, with dots in keys written as underscores (UIMPIT_BACKUP_RETENTION).
Command-line flags override both.

Without a subcommand, lists all settings.`,
	Example: `  # List all settings
  uimpit settings

  # Point uimpit at the server config
  uimpit settings set config_path /srv/beamng/Resources/Server/UIMPIT/config.json

See Also: uimpit doctor`,
	Args: userArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runSettingsListWithWriter(cmd.OutOrStdout())
	},
}

var settingsGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a setting",
	Long:  `Get a single setting by key. Nested keys use dot notation.`,
	Example: `  uimpit settings get language
  uimpit settings get backup.retention

See Also: uimpit settings set, uimpit settings list`,
	Args: userArgs(cobra.ExactArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSettingsGetWithWriter(args[0], cmd.OutOrStdout())
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Long: `Change a setting and write settings.yaml.

The value is validated before anything is written.`,
	Example: `  uimpit settings set language de
  uimpit settings set backup.enabled false
  uimpit settings set editor "code --wait"

See Also: uimpit settings get, uimpit settings list`,
	Args: userArgs(cobra.ExactArgs(2)),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSettingsSetWithWriter(args[0], args[1], cmd.OutOrStdout())
	},
}

var settingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all settings",
	Long:  `List all settings in YAML format, with the file they were read from.`,
	Example: `  uimpit settings list

See Also: uimpit settings get, uimpit settings set`,
	Args: userArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runSettingsListWithWriter(cmd.OutOrStdout())
	},
}

var settingsEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open settings.yaml in a text editor",
	Long: `Open settings.yaml in a text editor. A missing file is created with
the defaults first. The settings are checked again when the editor exits.`,
	Example: `  uimpit settings edit
  EDITOR=nano uimpit settings edit

See Also: uimpit settings list`,
	Args: userArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runSettingsEditWithWriter(cmd, cmd.OutOrStdout())
	},
}

// requireSettings reports a settings file that failed to load.
func requireSettings() error {
	if settingsLoadErr != nil {
		return errors.NewUserError(settingsLoadErr, "Fix it with: uimpit settings edit")
	}
	return nil
}

func runSettingsGetWithWriter(key string, w io.Writer) error {
	if err := requireSettings(); err != nil {
		return err
	}
	val, ok := config.Get(key)
	if !ok {
		return errors.NewUserError(
			errors.Wrapf(config.ErrUnknownKey, "%s", key),
			"Run 'uimpit settings list' to see the known keys")
	}
	fmt.Fprintln(w, val)
	return nil
}

func runSettingsSetWithWriter(key, value string, w io.Writer) error {
	if err := requireSettings(); err != nil {
		return err
	}
	if err := config.Set(key, value); err != nil {
		var fieldErr *config.FieldError
		if errors.Is(err, config.ErrUnknownKey) || errors.As(err, &fieldErr) {
			return errors.NewUserError(err, "Run 'uimpit settings list' to see the known keys")
		}
		return errors.NewUserError(err, "Check the value and that the settings directory is writable")
	}
	fmt.Fprintf(w, "Set %s = %s\n", key, value)
	return nil
}

func runSettingsListWithWriter(w io.Writer) error {
	if err := requireSettings(); err != nil {
		return err
	}
	s, err := config.Current()
	if err != nil {
		return errors.NewConfigError(err)
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return errors.Wrap(err, "marshaling settings")
	}

	source := config.FileUsed()
	if !fileutil.Exists(source) {
		source += " (not created yet; showing defaults)"
	}
	fmt.Fprintf(w, "# %s\n", source)
	fmt.Fprint(w, string(data))
	return nil
}

func runSettingsEditWithWriter(cmd *cobra.Command, w io.Writer) error {
	path := config.FileUsed()
	if !fileutil.Exists(path) {
		if err := config.Save(path); err != nil {
			return errors.NewSystemError(err, "Check that the settings directory is writable")
		}
		fmt.Fprintf(w, "Created %s\n", path)
	}

	editorCmd := ""
	if settings != nil {
		editorCmd = settings.Editor
	}
	if err := newLauncher(editorCmd).Open(cmd.Context(), path); err != nil {
		return errors.NewSystemError(err, "Set $EDITOR to your editor")
	}

	if _, err := config.Load(path); err != nil {
		return errors.NewUserError(err, "Run 'uimpit settings edit' again to fix it")
	}
	fmt.Fprintf(w, "Settings in %s are valid.\n", path)
	return nil
}
