package validator

import (
	"encoding/json"
	"testing"

	"github.com/thoreinstein/uimpit/internal/errors"
)

func TestSeverity_String(t *testing.T) {
	tests := []struct {
		s    Severity
		want string
	}{
		{SeverityError, "error"},
		{SeverityWarning, "warning"},
		{SeverityInfo, "info"},
		{Severity(99), "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.s.String(); got != tt.want {
				t.Errorf("Severity.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSeverity_JSON(t *testing.T) {
	data, err := json.Marshal(Issue{Severity: SeverityWarning, Message: "m"})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"severity":"warning","message":"m"}` {
		t.Errorf("Marshal = %s", data)
	}

	var i Issue
	if err := json.Unmarshal([]byte(`{"severity":"info","message":"m"}`), &i); err != nil {
		t.Fatal(err)
	}
	if i.Severity != SeverityInfo {
		t.Errorf("Severity = %v, want info", i.Severity)
	}

	if err := json.Unmarshal([]byte(`{"severity":"fatal"}`), &i); err == nil {
		t.Error("expected error for unknown severity")
	}
}

func TestIssue_Error(t *testing.T) {
	tests := []struct {
		name string
		i    Issue
		want string
	}{
		{
			name: "error with field and value",
			i: Issue{
				Severity: SeverityError,
				Field:    "money.starting_money",
				Message:  "must be a whole number",
				Value:    `"lots"`,
			},
			want: `error: money.starting_money: must be a whole number (got "lots")`,
		},
		{
			name: "warning without field",
			i: Issue{
				Severity: SeverityWarning,
				Message:  "file was recovered",
			},
			want: "warning: file was recovered",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.i.Error(); got != tt.want {
				t.Errorf("Issue.Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResult(t *testing.T) {
	var nilResult *Result
	if nilResult.HasErrors() || nilResult.HasWarnings() {
		t.Error("nil result should have no issues")
	}

	r := &Result{}
	if r.Err() != nil {
		t.Error("empty result should have nil Err")
	}

	r.AddWarning("extra.key", "unknown", nil)
	r.AddInfo("features.zigzag_bonus_enabled", "no effect", nil)
	if r.HasErrors() {
		t.Error("warnings and infos are not errors")
	}
	if !r.HasWarnings() {
		t.Error("expected warnings")
	}

	r.AddError("money.tax", "bad", 1).Context = map[string]string{"k": "v"}
	if !r.HasErrors() {
		t.Error("expected errors")
	}
	if got := len(r.Errors()); got != 1 {
		t.Errorf("Errors() = %d, want 1", got)
	}
	if got := len(r.Infos()); got != 1 {
		t.Errorf("Infos() = %d, want 1", got)
	}
	if r.Issues[2].Context["k"] != "v" {
		t.Error("context set through returned issue was lost")
	}

	var issue Issue
	if !errors.As(r.Err(), &issue) || issue.Field != "money.tax" {
		t.Errorf("Err() should wrap the error issue, got %v", r.Err())
	}
}
