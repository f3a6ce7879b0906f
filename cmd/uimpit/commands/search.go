package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/uimpit/internal/errors"
	"github.com/thoreinstein/uimpit/internal/search"
)

var (
	searchInteractive bool
	searchJSON        bool
	searchCategory    string
	searchChanged     bool
)

func init() {
	searchCmd.Flags().BoolVarP(&searchInteractive, "interactive", "i", false, "Pick a field with a fuzzy finder")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "Output in JSON format")
	searchCmd.Flags().StringVar(&searchCategory, "category", "", "Only fields of this category")
	searchCmd.Flags().BoolVar(&searchChanged, "changed", false, "Only fields that differ from the default")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Find config fields by name or label",
	Long: `Find config fields whose name or translated label contains the query.

The search is case-insensitive. Exact names come first, then names starting
with the query, then names containing it, then label-only matches.

With -i, a fuzzy finder opens with a preview of the label, value, default
and lock state of the highlighted field. The chosen field is printed.`,
	Example: `  uimpit search money
  uimpit search --changed
  uimpit search -i
  uimpit search --lang de geld

  See Also: uimpit list, uimpit get`,
	Args: userArgs(cobra.MaximumNArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSearchWithWriter(cmd, args, cmd.OutOrStdout())
	},
}

func runSearchWithWriter(cmd *cobra.Command, args []string, w io.Writer) error {
	var query string
	if len(args) > 0 {
		query = args[0]
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

	entries := search.Entries(doc, catalog.Translator(e.Language))
	results := search.Search(entries, query, search.Options{
		Category: searchCategory,
		Changed:  searchChanged,
	})

	switch {
	case searchInteractive:
		if !isInteractive() {
			return errors.NewUserError(errors.New("--interactive needs a terminal"), "Drop -i to print matches")
		}
		return runInteractiveSearch(w, results)
	case searchJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}
	return outputSearchTabular(w, results)
}

func outputSearchTabular(w io.Writer, results []search.Entry) error {
	if len(results) == 0 {
		fmt.Fprintln(w, "No fields found.")
		return nil
	}

	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)
	gray := color.New(color.FgHiBlack)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t%s\t\n", bold.Sprint("FIELD"), bold.Sprint("VALUE"), bold.Sprint("LABEL"))
	for _, r := range results {
		value := r.Value
		if r.Locked {
			value = gray.Sprint(value + " (locked)")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t\n", green.Sprint(r.Key), value, gray.Sprint(truncate(r.Label, 50)))
	}
	return tw.Flush()
}

func runInteractiveSearch(w io.Writer, entries []search.Entry) error {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No fields found.")
		return nil
	}

	idx, err := fuzzyfinder.Find(
		entries,
		func(i int) string {
			return fmt.Sprintf("%s  %s", entries[i].Key, entries[i].Label)
		},
		fuzzyfinder.WithPreviewWindow(func(i, _, _ int) string {
			if i == -1 {
				return ""
			}
			return previewText(entries[i])
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return nil
		}
		return errors.Wrap(err, "interactive search failed")
	}

	fmt.Fprintln(w, entries[idx].Key)
	return nil
}

func previewText(e search.Entry) string {
	state := "editable"
	if e.Locked {
		state = "locked while roleplay is off"
	}
	return fmt.Sprintf("%s\n%s\n\nCategory: %s\nValue:    %s\nDefault:  %s\nType:     %s\nState:    %s",
		e.Label, e.Key, e.Category, e.Value, e.Default, e.Kind, state)
}

// truncate shortens s to maxLen runes, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
