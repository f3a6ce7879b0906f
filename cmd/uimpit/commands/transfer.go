package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/uimpit/internal/errors"
	"github.com/thoreinstein/uimpit/internal/translate"
	"github.com/thoreinstein/uimpit/internal/validator"
	"github.com/thoreinstein/uimpit/pkg/fileutil"
)

var (
	exportFormat string
	exportOutput string
	importFormat string
)

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "",
		"output format: json, yaml, toml (default: from --output extension, else yaml)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "",
		"write to file instead of stdout")
	importCmd.Flags().StringVarP(&importFormat, "format", "f", "",
		"input format: json, yaml, toml (default: from file extension)")

	rootCmd.AddCommand(exportCmd, importCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the config as JSON, YAML or TOML",
	Long: `Write the config, with defaults filled in, in another format.

Categories and fields come out in the order the editor shows them.
Unrecognized keys are included. TOML has no null, so null values are left
out of TOML output.`,
	Example: `  uimpit export
  uimpit export --format toml
  uimpit export -o backup.yaml

  See Also: uimpit import`,
	Args: userArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runExportWithWriter(cmd, cmd.OutOrStdout())
	},
}

func runExportWithWriter(cmd *cobra.Command, w io.Writer) error {
	format, err := exportFormatFor(exportFormat, exportOutput)
	if err != nil {
		return err
	}

	e, err := resolveEnv()
	if err != nil {
		return err
	}
	doc, err := e.loadDocument(cmd.Context())
	if err != nil {
		return err
	}

	data, err := translate.Export(doc, format)
	if err != nil {
		return errors.NewSystemError(err, "")
	}

	if exportOutput == "" {
		_, err = w.Write(data)
		return err
	}
	if err := fileutil.AtomicWriteFile(exportOutput, data, 0o644); err != nil {
		return errors.NewSystemError(err, "Check that the output directory is writable")
	}
	fmt.Fprintf(w, "Exported %s to %s (%s)\n", e.ConfigPath, exportOutput, format)
	return nil
}

// exportFormatFor picks the flag, then the output extension, then YAML.
func exportFormatFor(flag, output string) (translate.Format, error) {
	switch {
	case flag != "":
		f, err := translate.ParseFormat(flag)
		if err != nil {
			return "", errors.NewUserError(err, "Use --format json, yaml or toml")
		}
		return f, nil
	case output != "":
		if f, err := translate.FormatFromPath(output); err == nil {
			return f, nil
		}
	}
	return translate.FormatYAML, nil
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the config with a JSON, YAML or TOML file",
	Long: `Read a JSON, YAML or TOML file and save it as the config.

Missing settings are filled in from the defaults, as on load. Unrecognized
keys are kept. The current config is backed up first. The result is
validated and problems are reported, but the file is saved either way so
it can be fixed in the editor.`,
	Example: `  uimpit import backup.yaml
  uimpit import settings.txt --format toml

  See Also: uimpit export, uimpit backup restore`,
	Args: userArgs(cobra.ExactArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImportWithWriter(cmd, args[0], cmd.OutOrStdout())
	},
}

func runImportWithWriter(cmd *cobra.Command, path string, w io.Writer) error {
	var (
		format translate.Format
		err    error
	)
	if importFormat != "" {
		format, err = translate.ParseFormat(importFormat)
	} else {
		format, err = translate.FormatFromPath(path)
	}
	if err != nil {
		return errors.NewUserError(err, "Use --format json, yaml or toml")
	}

	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		return errors.NewUserError(err, "Check the file path")
	}
	doc, err := translate.Import(data, format)
	if err != nil {
		return errors.NewUserError(err, fmt.Sprintf("Check that %s is valid %s", path, format))
	}

	e, err := resolveEnv()
	if err != nil {
		return err
	}
	if err := e.saveDocument(cmd.Context(), doc); err != nil {
		return err
	}
	fmt.Fprintf(w, "Imported %s into %s\n", path, e.ConfigPath)

	result := validator.Document(doc)
	if result.HasErrors() || result.HasWarnings() {
		return reportValidation(w, e.ConfigPath, false, result)
	}
	return nil
}
