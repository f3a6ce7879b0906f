package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/uimpit/internal/cli/prompt"
	"github.com/thoreinstein/uimpit/internal/document"
	"github.com/thoreinstein/uimpit/internal/errors"
	"github.com/thoreinstein/uimpit/internal/logging"
)

var (
	listJSON bool
	resetYes bool
)

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	resetCmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "Reset without asking")

	rootCmd.AddCommand(getCmd, setCmd, listCmd, resetCmd)
}

var getCmd = &cobra.Command{
	Use:   "get <category.field>",
	Short: "Print one config value",
	Long: `Print the value of one recognized field.

Fields are named category.field, for example money.starting_money. A field
missing from the file prints its default.`,
	Example: `  uimpit get money.starting_money
  uimpit get features.roleplay_enabled

  See Also: uimpit set, uimpit list`,
	Args: userArgs(cobra.ExactArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGetWithWriter(cmd, args[0], cmd.OutOrStdout())
	},
}

func runGetWithWriter(cmd *cobra.Command, name string, w io.Writer) error {
	id, err := parseField(name)
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

	fmt.Fprintln(w, doc.Text(id))
	return nil
}

var setCmd = &cobra.Command{
	Use:   "set <category.field> <value>",
	Short: "Change one config value and save",
	Long: `Change the value of one recognized field and save the file.

Numbers must be whole and between 0 and 999999999. An empty value means 0.
Switches take true/false, yes/no, on/off or 1/0.

The file is backed up before the first write. Fields that depend on roleplay
can be set while roleplay is off; the server ignores them until it is on.`,
	Example: `  uimpit set money.starting_money 5000
  uimpit set features.roleplay_enabled false

  See Also: uimpit get, uimpit backup list`,
	Args: userArgs(cobra.ExactArgs(2)),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSetWithWriter(cmd, args[0], args[1], cmd.OutOrStdout())
	},
}

func runSetWithWriter(cmd *cobra.Command, name, value string, w io.Writer) error {
	id, err := parseField(name)
	if err != nil {
		return err
	}
	in, err := document.InputFor(id, value)
	if err != nil {
		return errors.NewUserError(err, "Switches take true or false")
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

	if document.Disabled(doc)[id] {
		logging.FromContext(ctx).Warn("field is locked while roleplay is off", "field", id.String())
	}

	next, err := commitAndSave(ctx, e, doc, map[document.FieldID]document.Input{id: in})
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%s = %s\n", id, next.Text(id))
	return nil
}

// parseField parses and checks a field name given on the command line.
func parseField(name string) (document.FieldID, error) {
	id, err := document.ParseFieldID(name)
	if err != nil {
		return document.FieldID{}, errors.NewUserError(err, "Run 'uimpit list' to see the known fields")
	}
	if _, ok := document.Lookup(id); !ok {
		return document.FieldID{}, errors.NewUserError(
			errors.Wrapf(errors.ErrUnknownField, "%s", id),
			"Run 'uimpit list' to see the known fields")
	}
	return id, nil
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List every config value",
	Long: `List every recognized field with its value and default.

Values that differ from the default are highlighted. Fields locked because
roleplay is off are marked. Unrecognized keys in the file are listed last;
they are kept as-is when the file is saved.`,
	Example: `  uimpit list
  uimpit list --json

  See Also: uimpit get, uimpit search`,
	Args: userArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runListWithWriter(cmd, cmd.OutOrStdout())
	},
}

// fieldOutput is one field in list --json output.
type fieldOutput struct {
	Field   string          `json:"field"`
	Kind    string          `json:"kind"`
	Value   json.RawMessage `json:"value"`
	Default json.RawMessage `json:"default"`
	Locked  bool            `json:"locked"`
	Invalid bool            `json:"invalid,omitempty"`
}

type listOutput struct {
	Path            string        `json:"path"`
	RoleplayEnabled bool          `json:"roleplay_enabled"`
	Fields          []fieldOutput `json:"fields"`
	Extras          []string      `json:"extras,omitempty"`
}

func runListWithWriter(cmd *cobra.Command, w io.Writer) error {
	e, err := resolveEnv()
	if err != nil {
		return err
	}
	doc, err := e.loadDocument(cmd.Context())
	if err != nil {
		return err
	}

	if listJSON {
		return outputListJSON(w, e.ConfigPath, doc)
	}
	return outputListTabular(w, doc)
}

func outputListJSON(w io.Writer, path string, doc *document.Document) error {
	disabled := document.Disabled(doc)
	out := listOutput{
		Path:            path,
		RoleplayEnabled: document.RoleplayEnabled(doc),
		Fields:          make([]fieldOutput, 0, len(document.Fields())),
		Extras:          doc.Extras(),
	}
	for _, spec := range document.Fields() {
		def, err := spec.Default.MarshalJSON()
		if err != nil {
			return errors.Wrapf(err, "encoding %s", spec.ID)
		}
		f := fieldOutput{
			Field:   spec.ID.String(),
			Kind:    spec.Kind().String(),
			Default: def,
			Locked:  disabled[spec.ID],
		}
		if v, ok := doc.Get(spec.ID); ok {
			raw, err := v.MarshalJSON()
			if err != nil {
				return errors.Wrapf(err, "encoding %s", spec.ID)
			}
			f.Value = raw
		} else if raw, ok := doc.Raw(spec.ID); ok {
			f.Value = raw
			f.Invalid = true
		}
		out.Fields = append(out.Fields, f)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func outputListTabular(w io.Writer, doc *document.Document) error {
	bold := color.New(color.Bold)
	changed := color.New(color.FgYellow)
	locked := color.New(color.FgHiBlack)
	bad := color.New(color.FgRed)

	disabled := document.Disabled(doc)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t%s\t\n", bold.Sprint("FIELD"), bold.Sprint("VALUE"), bold.Sprint("DEFAULT"))

	for _, spec := range document.Fields() {
		value := doc.Text(spec.ID)
		_, typed := doc.Get(spec.ID)
		switch {
		case !typed:
			value = bad.Sprint(value)
		case value != spec.Default.String():
			value = changed.Sprint(value)
		}

		note := ""
		if disabled[spec.ID] {
			note = locked.Sprint("(locked: roleplay off)")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", spec.ID, value, spec.Default, note)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if extras := doc.Extras(); len(extras) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Unrecognized keys (kept as-is):")
		for _, k := range extras {
			fmt.Fprintf(w, "  %s\n", k)
		}
	}
	return nil
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset every value to its default and save",
	Long: `Replace the whole config with the built-in defaults and save it.

Unrecognized keys are dropped. The current file is backed up first, so a
reset can be undone with 'uimpit backup restore'.

Asks for confirmation unless --yes is given. Without a terminal, --yes is
required.`,
	Example: `  uimpit reset
  uimpit reset --yes

  See Also: uimpit backup restore`,
	Args: userArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runResetWithIO(cmd, prompt.NewWithIO(os.Stdin, cmd.OutOrStdout()), cmd.OutOrStdout())
	},
}

func runResetWithIO(cmd *cobra.Command, p *prompt.Prompter, w io.Writer) error {
	e, err := resolveEnv()
	if err != nil {
		return err
	}

	if !resetYes {
		if !isInteractive() {
			return errors.NewUserError(
				errors.New("refusing to reset without confirmation"),
				"Pass --yes to reset from a script")
		}
		ok, err := p.Confirm(fmt.Sprintf("Reset %s to defaults?", e.ConfigPath))
		if err != nil {
			return errors.NewUserError(err, "Pass --yes to skip the question")
		}
		if !ok {
			fmt.Fprintln(w, "Cancelled.")
			return nil
		}
	}

	if err := e.saveDocument(cmd.Context(), document.Reset()); err != nil {
		return err
	}
	fmt.Fprintf(w, "Reset %s to defaults.\n", e.ConfigPath)
	return nil
}
