package commands

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/uimpit/internal/errors"
	"github.com/thoreinstein/uimpit/internal/validator"
)

var validateJSON bool

func init() {
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the config for values the server cannot use",
	Long: `Check the config file without changing it.

Errors are recognized fields holding a value of the wrong type or out of
range. Warnings are unrecognized keys and a file that could not be parsed.
Notes point out roleplay features switched on while roleplay is off.

Exits with status 1 when there are errors.`,
	Example: `  uimpit validate
  uimpit validate --json -c server/config.json

  See Also: uimpit doctor, uimpit list`,
	Args: userArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runValidateWithWriter(cmd, cmd.OutOrStdout())
	},
}

func runValidateWithWriter(cmd *cobra.Command, w io.Writer) error {
	e, err := resolveEnv()
	if err != nil {
		return err
	}
	doc, err := e.loadDocument(cmd.Context())
	if err != nil {
		return err
	}

	return reportValidation(w, e.ConfigPath, validateJSON, validator.Document(doc))
}

// reportValidation prints result and turns errors into a user error.
func reportValidation(w io.Writer, subject string, asJSON bool, result *validator.Result) error {
	format := validator.FormatText
	if asJSON {
		format = validator.FormatJSON
	}
	reporter := validator.NewReporter(w, format)
	reporter.Subject = subject
	if err := reporter.Report(result); err != nil {
		return errors.Wrap(err, "writing report")
	}

	if result.HasErrors() {
		return errors.NewUserError(
			errors.Newf("%s has %d invalid value(s)", subject, len(result.Errors())),
			"Fix them with 'uimpit set' or 'uimpit edit'")
	}
	return nil
}
