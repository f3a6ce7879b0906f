package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/thoreinstein/uimpit/internal/errors"
)

// Format specifies the output format for validation reports.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Reporter formats and writes validation results.
type Reporter struct {
	out    io.Writer
	format Format
	// Subject names what was validated, e.g. the config path.
	Subject string
}

// NewReporter creates a new Reporter.
func NewReporter(out io.Writer, format Format) *Reporter {
	return &Reporter{
		out:    out,
		format: format,
	}
}

type jsonReport struct {
	Subject  string  `json:"subject,omitempty"`
	Valid    bool    `json:"valid"`
	Errors   int     `json:"errors"`
	Warnings int     `json:"warnings"`
	Issues   []Issue `json:"issues"`
}

// Report writes the validation result to the output.
func (r *Reporter) Report(result *Result) error {
	if result == nil {
		result = &Result{}
	}

	switch r.format {
	case FormatJSON:
		return r.reportJSON(result)
	default:
		return r.reportText(result)
	}
}

func (r *Reporter) reportJSON(result *Result) error {
	issues := result.Issues
	if issues == nil {
		issues = []Issue{}
	}
	encoder := json.NewEncoder(r.out)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return errors.Wrap(encoder.Encode(jsonReport{
		Subject:  r.Subject,
		Valid:    !result.HasErrors(),
		Errors:   len(result.Errors()),
		Warnings: len(result.Warnings()),
		Issues:   issues,
	}), "encoding JSON report")
}

func (r *Reporter) reportText(result *Result) error {
	subject := ""
	if r.Subject != "" {
		subject = r.Subject + ": "
	}

	errs := result.Errors()
	warnings := result.Warnings()
	infos := result.Infos()

	if len(errs) == 0 && len(warnings) == 0 {
		fmt.Fprintln(r.out, color.GreenString("✓ %sValidation passed", subject))
	} else {
		var summary []string
		if len(errs) > 0 {
			summary = append(summary, color.RedString("%d error(s)", len(errs)))
		}
		if len(warnings) > 0 {
			summary = append(summary, color.YellowString("%d warning(s)", len(warnings)))
		}
		verdict := "Validation failed"
		if len(errs) == 0 {
			verdict = "Validation passed with warnings"
		}
		fmt.Fprintf(r.out, "%s%s: %s\n", subject, verdict, strings.Join(summary, ", "))
	}

	r.section("Errors", errs, color.FgRed)
	r.section("Warnings", warnings, color.FgYellow)
	r.section("Notes", infos, color.FgCyan)
	return nil
}

func (r *Reporter) section(title string, issues []Issue, c color.Attribute) {
	if len(issues) == 0 {
		return
	}
	fmt.Fprintf(r.out, "\n%s:\n", title)
	for _, i := range issues {
		r.printIssue(i, c)
	}
}

func (r *Reporter) printIssue(i Issue, c color.Attribute) {
	printer := color.New(c).SprintFunc()
	dim := color.New(color.FgHiBlack)

	// Format:  • field: message (context) [value]
	var sb strings.Builder
	sb.WriteString("  • ")

	if i.Field != "" {
		sb.WriteString(printer(i.Field))
		sb.WriteString(": ")
	}

	sb.WriteString(i.Message)

	if len(i.Context) > 0 {
		var ctxParts []string
		for k, v := range i.Context {
			ctxParts = append(ctxParts, fmt.Sprintf("%s=%s", k, v))
		}
		sort.Strings(ctxParts)
		sb.WriteString(" ")
		sb.WriteString(dim.Sprintf("(%s)", strings.Join(ctxParts, ", ")))
	}

	if i.Value != nil {
		valStr := fmt.Sprintf("%v", i.Value)
		if len(valStr) > 50 {
			valStr = valStr[:47] + "..."
		}
		sb.WriteString(dim.Sprintf(" [%s]", valStr))
	}

	fmt.Fprintln(r.out, sb.String())
}
