// Package commands implements the CLI commands for uimpit.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/uimpit/cmd"
	"github.com/thoreinstein/uimpit/internal/config"
	"github.com/thoreinstein/uimpit/internal/errors"
	"github.com/thoreinstein/uimpit/internal/logging"
	"github.com/thoreinstein/uimpit/internal/paths"
)

var (
	// configFlag is the path to the game's config.json.
	configFlag string
	// settingsFlag is an explicit settings.yaml for the tool itself.
	settingsFlag string
	langDirFlag  string
	langFlag     string

	verbosity int
	quiet     bool
	logFormat string
	logFile   string

	// settingsLoadErr holds any error from loading settings.yaml. Commands
	// that need settings report it; settings and doctor commands tolerate it.
	settingsLoadErr error
	settings        *config.Settings

	// logSink is the open --log-file, if any.
	logSink io.Writer
)

func init() {
	cobra.OnInitialize(initSettings)

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configFlag, "config", "c", "",
		"path to the server config.json (default from settings: config.json)")
	pf.StringVar(&settingsFlag, "settings", "",
		"path to the uimpit settings file (default: ./settings.yaml or $XDG_CONFIG_HOME/uimpit/settings.yaml)")
	pf.StringVar(&langDirFlag, "lang-dir", "",
		"directory of language packs (default from settings: lang)")
	pf.StringVar(&langFlag, "lang", "",
		"language code for labels and messages (default from settings: en)")
	pf.CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv)")
	pf.BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	pf.StringVar(&logFormat, "log-format", "text",
		"log format: text, json")
	pf.StringVar(&logFile, "log-file", "",
		"write logs to file in JSON format")

	rootCmd.Version = cmd.Version
	rootCmd.SetVersionTemplate("uimpit version {{.Version}}\n")

	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	rootCmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return errors.NewUserError(err, fmt.Sprintf("Run '%s --help' for usage", c.CommandPath()))
	})
}

func initSettings() {
	config.Init()
	settings, settingsLoadErr = config.Load(settingsFlag)
}

var rootCmd = &cobra.Command{
	Use:   "uimpit",
	Short: "Editor for the UIMPIT server config",
	Long: `uimpit edits the config.json of the UIMPIT roleplay and economy mod.

Run without a subcommand to open the form editor. Every recognized setting
is always present: missing ones are filled in from the built-in defaults
when the file is loaded. Unrecognized keys are kept as they are.

Labels and messages come from the language packs in the lang directory.
English is built in.`,
	Example: `  # Open the form editor on ./config.json
  uimpit

  # Edit a config elsewhere, in German
  uimpit -c /srv/beamng/config.json --lang de

  # Change one value from a script
  uimpit set money.starting_money 5000

  # Check the setup
  uimpit doctor

  See Also: uimpit edit, uimpit list, uimpit doctor`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return setupLogging(cmd)
	},
	Args: userArgs(cobra.NoArgs),
	RunE: runEdit,
}

// setupLogging configures the default logger based on verbosity flags.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(errors.New("cannot use --quiet and --verbose together"), "Pick one of -q or -v")
	}

	format, ok := logging.ParseFormat(logFormat)
	if !ok {
		return errors.NewUserError(errors.Newf("invalid log format %q", logFormat), "Use --log-format text or --log-format json")
	}

	level := logLevel()
	opts := &slog.HandlerOptions{Level: level}

	var primary slog.Handler
	switch format {
	case logging.FormatJSON:
		primary = slog.NewJSONHandler(cmd.ErrOrStderr(), opts)
	default:
		primary = logging.NewHandler(cmd.ErrOrStderr(), opts)
	}

	handler := primary
	if logFile != "" {
		f, err := openLogFile(logFile)
		if err != nil {
			return err
		}
		logSink = f
		handler = logging.NewMultiHandler(primary, slog.NewJSONHandler(f, opts))
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))
	return nil
}

func logLevel() slog.Level {
	if quiet {
		return slog.LevelError
	}
	v := verbosity
	if v == 0 {
		v = logging.VerbosityFromEnv()
	}
	return logging.LevelFromVerbosity(v)
}

func openLogFile(path string) (*os.File, error) {
	if err := paths.EnsureDir(filepath.Dir(path), 0); err != nil {
		return nil, errors.NewUserError(err, "failed to create log directory")
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, errors.NewUserError(err, "failed to open log file")
	}
	return f, nil
}

// userArgs marks argument validation failures as user errors.
func userArgs(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return errors.NewUserError(err, fmt.Sprintf("Run '%s --help' for usage", cmd.CommandPath()))
		}
		return nil
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// PrintError writes err and any suggestion it carries. An ExitError
// without an underlying error only sets the exit code.
func PrintError(w io.Writer, err error) {
	var exitErr *errors.ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return
	}

	red := color.New(color.FgRed, color.Bold)
	red.Fprint(w, "Error: ")
	fmt.Fprintln(w, err)

	if errors.As(err, &exitErr) && exitErr.Suggestion != "" {
		fmt.Fprintf(w, "  %s\n", exitErr.Suggestion)
	}
}
