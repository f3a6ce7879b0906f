package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/uimpit/internal/locale"
)

var langListJSON bool

func init() {
	langListCmd.Flags().BoolVar(&langListJSON, "json", false, "Output in JSON format")
	langCmd.AddCommand(langListCmd)
	rootCmd.AddCommand(langCmd)
}

var langCmd = &cobra.Command{
	Use:   "lang",
	Short: "Inspect language packs",
	Long: `Inspect the language packs used for labels and messages.

A language pack is a <code>.json file in the lang directory holding a flat
map of keys to text, with lang_name as the display name. English is built
in; keys a pack lacks fall back to English.`,
	Example: `  uimpit lang list

  See Also: uimpit doctor`,
}

var langListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available languages",
	Long: `List the available languages, the current one marked, with the number
of keys each pack is missing.`,
	Example: `  uimpit lang list
  uimpit lang list --json --lang-dir ./lang

  See Also: uimpit settings set language`,
	Args: userArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runLangListWithWriter(cmd, cmd.OutOrStdout())
	},
}

type languageOutput struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	RTL     bool   `json:"rtl"`
	Path    string `json:"path,omitempty"`
	Missing int    `json:"missing_keys"`
	Current bool   `json:"current"`
}

func runLangListWithWriter(cmd *cobra.Command, w io.Writer) error {
	e, err := resolveEnv()
	if err != nil {
		return err
	}
	catalog, err := e.loadCatalog(cmd.Context())
	if err != nil {
		return err
	}

	current := catalog.Translator(e.Language).Language().Code
	langs := catalog.Languages()
	out := make([]languageOutput, len(langs))
	for i, l := range langs {
		out[i] = languageOutput{
			Code:    l.Code,
			Name:    l.Name,
			RTL:     l.RTL,
			Path:    l.Path,
			Missing: len(catalog.Missing(l.Code)),
			Current: l.Code == current,
		}
	}

	if langListJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	bold := color.New(color.Bold)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n",
		bold.Sprint("CODE"), bold.Sprint("NAME"), bold.Sprint("DIRECTION"), bold.Sprint("MISSING"))
	for _, l := range out {
		marker := " "
		if l.Current {
			marker = color.GreenString("*")
		}
		dir := "ltr"
		if l.RTL {
			dir = "rtl"
		}
		missing := "-"
		if l.Missing > 0 {
			missing = color.YellowString("%d", l.Missing)
		}
		if l.Code == locale.DefaultLanguage {
			missing = "built-in"
		}
		fmt.Fprintf(tw, "%s %s\t%s\t%s\t%s\n", marker, l.Code, l.Name, dir, missing)
	}
	return tw.Flush()
}
