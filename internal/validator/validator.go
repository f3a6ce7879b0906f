package validator

import (
	"fmt"
	"strings"

	"github.com/thoreinstein/uimpit/internal/errors"
)

// Severity represents the impact of a validation issue.
type Severity int

const (
	// SeverityError marks a value the server cannot use.
	SeverityError Severity = iota
	// SeverityWarning marks something unusual that is kept as-is.
	SeverityWarning
	// SeverityInfo is an informational note.
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// MarshalText encodes the severity by name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a severity name.
func (s *Severity) UnmarshalText(b []byte) error {
	switch string(b) {
	case "error":
		*s = SeverityError
	case "warning":
		*s = SeverityWarning
	case "info":
		*s = SeverityInfo
	default:
		return errors.Newf("unknown severity %q", b)
	}
	return nil
}

// Issue represents a single validation problem.
type Issue struct {
	Severity Severity `json:"severity"`
	// Field is the dotted key the issue refers to, if any.
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	// Value is the offending value as written in the file.
	Value   any               `json:"value,omitempty"`
	Context map[string]string `json:"context,omitempty"`
}

// Error implements the error interface.
func (i Issue) Error() string {
	var sb strings.Builder
	sb.WriteString(i.Severity.String())
	sb.WriteString(": ")
	if i.Field != "" {
		sb.WriteString(i.Field)
		sb.WriteString(": ")
	}
	sb.WriteString(i.Message)
	if i.Value != nil {
		fmt.Fprintf(&sb, " (got %v)", i.Value)
	}
	return sb.String()
}

// Result aggregates validation issues.
type Result struct {
	Issues []Issue `json:"issues"`
}

func (r *Result) add(s Severity, field, message string, value any) *Issue {
	r.Issues = append(r.Issues, Issue{
		Severity: s,
		Field:    field,
		Message:  message,
		Value:    value,
	})
	return &r.Issues[len(r.Issues)-1]
}

// AddError adds an error issue to the result.
func (r *Result) AddError(field, message string, value any) *Issue {
	return r.add(SeverityError, field, message, value)
}

// AddWarning adds a warning issue to the result.
func (r *Result) AddWarning(field, message string, value any) *Issue {
	return r.add(SeverityWarning, field, message, value)
}

// AddInfo adds an info issue to the result.
func (r *Result) AddInfo(field, message string, value any) *Issue {
	return r.add(SeverityInfo, field, message, value)
}

// HasErrors reports whether any issue is an error.
func (r *Result) HasErrors() bool { return len(r.Errors()) > 0 }

// HasWarnings reports whether any issue is a warning.
func (r *Result) HasWarnings() bool { return len(r.Warnings()) > 0 }

// Errors returns the error issues.
func (r *Result) Errors() []Issue { return r.filter(SeverityError) }

// Warnings returns the warning issues.
func (r *Result) Warnings() []Issue { return r.filter(SeverityWarning) }

// Infos returns the info issues.
func (r *Result) Infos() []Issue { return r.filter(SeverityInfo) }

func (r *Result) filter(s Severity) []Issue {
	if r == nil {
		return nil
	}
	var res []Issue
	for _, i := range r.Issues {
		if i.Severity == s {
			res = append(res, i)
		}
	}
	return res
}

// Err returns the issues as a joined error when there are errors, else nil.
func (r *Result) Err() error {
	errs := r.Errors()
	if len(errs) == 0 {
		return nil
	}
	joined := make([]error, len(errs))
	for i, e := range errs {
		joined[i] = e
	}
	return errors.Join(joined...)
}
