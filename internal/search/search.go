// Package search finds config fields by key or translated label.
package search

import (
	"slices"
	"strings"

	"github.com/thoreinstein/uimpit/internal/document"
	"github.com/thoreinstein/uimpit/internal/locale"
)

// Entry is one recognized field as shown to the user.
type Entry struct {
	ID       document.FieldID `json:"-"`
	Key      string           `json:"field"`
	Label    string           `json:"label"`
	Category string           `json:"category"`
	Kind     string           `json:"kind"`
	Value    string           `json:"value"`
	Default  string           `json:"default"`
	Locked   bool             `json:"locked"`
}

// Entries describes every recognized field of doc in display order, with
// labels from tr.
func Entries(doc *document.Document, tr *locale.Translator) []Entry {
	disabled := document.Disabled(doc)
	fields := document.Fields()
	out := make([]Entry, len(fields))
	for i, f := range fields {
		out[i] = Entry{
			ID:       f.ID,
			Key:      f.ID.String(),
			Label:    tr.T(f.ID.Field),
			Category: tr.T(f.ID.Category + "_settings_title"),
			Kind:     f.Kind().String(),
			Value:    doc.Text(f.ID),
			Default:  f.Default.String(),
			Locked:   disabled[f.ID],
		}
	}
	return out
}

// Options narrows a search.
type Options struct {
	// Category keeps only fields of this category. Empty matches all.
	Category string
	// Changed keeps only fields whose value differs from the default.
	Changed bool
}

// Search returns the entries matching query, case-insensitively against
// the key and the label. An empty query matches everything. Better
// matches come first; ties keep display order.
func Search(entries []Entry, query string, opts Options) []Entry {
	query = strings.ToLower(strings.TrimSpace(query))

	var results []Entry
	for _, e := range entries {
		if !matchesFilters(e, opts) {
			continue
		}
		if query == "" || scoreMatch(e, query) > 0 {
			results = append(results, e)
		}
	}

	slices.SortStableFunc(results, func(a, b Entry) int {
		return scoreMatch(b, query) - scoreMatch(a, query)
	})
	return results
}

func matchesFilters(e Entry, opts Options) bool {
	if opts.Category != "" && e.ID.Category != opts.Category {
		return false
	}
	if opts.Changed && e.Value == e.Default {
		return false
	}
	return true
}

// scoreMatch returns a score indicating match quality.
//
// Scoring:
//   - 100: exact field name or key
//   - 75: field name starts with query
//   - 50: key contains query
//   - 25: label contains query
//   - 0: no match or empty query
func scoreMatch(e Entry, query string) int {
	if query == "" {
		return 0
	}

	name := strings.ToLower(e.ID.Field)
	key := strings.ToLower(e.Key)
	label := strings.ToLower(e.Label)

	switch {
	case name == query || key == query:
		return 100
	case strings.HasPrefix(name, query):
		return 75
	case strings.Contains(key, query):
		return 50
	case strings.Contains(label, query):
		return 25
	}
	return 0
}
