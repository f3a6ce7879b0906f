package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/uimpit/internal/config"
	"github.com/thoreinstein/uimpit/internal/doctor"
	"github.com/thoreinstein/uimpit/internal/errors"
	"github.com/thoreinstein/uimpit/internal/locale"
	"github.com/thoreinstein/uimpit/internal/logging"
)

var (
	doctorJSON    bool
	doctorQuiet   bool
	doctorVerbose bool
	doctorFix     bool
)

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false,
		"output results as JSON")
	doctorCmd.Flags().BoolVar(&doctorQuiet, "quiet", false,
		"suppress output, exit code only")
	doctorCmd.Flags().BoolVar(&doctorVerbose, "verbose", false,
		"show detailed check-by-check output")
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false,
		"repair file permissions where possible")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose setup problems",
	Long: `Run diagnostic checks on the server config, its permissions, the
language packs and the uimpit settings.

Output modes (mutually exclusive):
  (default)   Show errors and warnings
  --verbose   Show all checks including passed ones
  --quiet     No output, exit code only
  --json      Machine-readable JSON output

With --fix, permission problems are repaired and the checks run again.

Exit codes:
  0 - No errors (warnings may be present)
  1 - Errors present`,
	Example: `  uimpit doctor
  uimpit doctor --verbose
  uimpit doctor --fix

  See Also: uimpit validate, uimpit settings list`,
	Args:    userArgs(cobra.NoArgs),
	PreRunE: validateDoctorFlags,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runDoctorWithWriter(cmd, cmd.OutOrStdout())
	},
}

// validateDoctorFlags ensures output flags are mutually exclusive.
func validateDoctorFlags(_ *cobra.Command, _ []string) error {
	count := 0
	for _, set := range []bool{doctorJSON, doctorQuiet, doctorVerbose} {
		if set {
			count++
		}
	}
	if count > 1 {
		return errors.NewUserError(
			errors.New("flags --json, --quiet, and --verbose are mutually exclusive"),
			"Pick one output mode")
	}
	return nil
}

// newDoctorRunner builds the checks for e. Broken settings are reported
// by a check instead of stopping the run.
func newDoctorRunner(cmd *cobra.Command, e *env) *doctor.Runner {
	catalog, catalogErr := locale.Load(e.LangDir, logging.FromContext(cmd.Context()))

	return doctor.NewRunner(
		&doctor.SettingsCheck{File: config.FileUsed(), Err: settingsLoadErr},
		&doctor.ConfigFileCheck{Path: e.ConfigPath},
		&doctor.PermissionCheck{Path: e.ConfigPath},
		&doctor.LanguagePackCheck{Dir: e.LangDir, Catalog: catalog, Err: catalogErr},
	)
}

func runDoctorWithWriter(cmd *cobra.Command, w io.Writer) error {
	e, err := newEnv()
	if err != nil {
		return err
	}

	runner := newDoctorRunner(cmd, e)
	report := runner.Run()

	if doctorFix {
		fixes := applyFixes(runner)
		if len(fixes) > 0 {
			if !doctorQuiet && !doctorJSON {
				outputFixes(w, fixes)
			}
			report = runner.Run()
		}
	}

	if err := outputDoctorReport(w, report); err != nil {
		return err
	}

	if report.HasErrors() {
		return errors.NewExitError(nil, errors.ExitUser)
	}
	return nil
}

func applyFixes(runner *doctor.Runner) []doctor.FixResult {
	var results []doctor.FixResult
	for _, c := range runner.Checks() {
		if f, ok := c.(doctor.Fixer); ok && f.CanFix() {
			results = append(results, f.Fix()...)
		}
	}
	return results
}

func outputFixes(w io.Writer, fixes []doctor.FixResult) {
	for _, f := range fixes {
		if f.Error != nil {
			fmt.Fprintf(w, "%s could not fix %s: %v\n", color.RedString("✗"), f.Path, f.Error)
			continue
		}
		fmt.Fprintf(w, "%s %s: %s\n", color.GreenString("✓"), f.Path, f.Description)
	}
	fmt.Fprintln(w)
}

func outputDoctorReport(w io.Writer, report *doctor.Report) error {
	if doctorQuiet {
		return nil
	}
	if doctorJSON {
		return outputDoctorJSON(w, report)
	}
	return outputDoctorText(w, report)
}

func outputDoctorJSON(w io.Writer, report *doctor.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return errors.Wrap(err, "encoding JSON")
	}
	return nil
}

func outputDoctorText(w io.Writer, report *doctor.Report) error {
	// Normal mode shows only errors and warnings.
	showAll := doctorVerbose

	hasOutput := false
	for _, result := range report.Results {
		problem := result.Status == doctor.SeverityError || result.Status == doctor.SeverityWarning
		if !showAll && !problem {
			continue
		}

		hasOutput = true
		fmt.Fprintf(w, "%s [%s] %s: %s\n", statusIcon(result.Status), result.Category, result.Name, result.Message)

		if result.FixHint != "" && problem {
			fmt.Fprintf(w, "  hint: %s\n", result.FixHint)
		}
	}

	if hasOutput || showAll {
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Summary: %d passed, %d info, %d warnings, %d errors\n",
		report.Summary.Passed, report.Summary.Info, report.Summary.Warnings, report.Summary.Errors)

	return nil
}

func statusIcon(s doctor.Severity) string {
	switch s {
	case doctor.SeverityPass:
		return color.GreenString("✓")
	case doctor.SeverityInfo:
		return color.CyanString("ℹ")
	case doctor.SeverityWarning:
		return color.YellowString("⚠")
	case doctor.SeverityError:
		return color.RedString("✗")
	default:
		return "?"
	}
}
