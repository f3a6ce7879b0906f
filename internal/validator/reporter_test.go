package validator

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"
)

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}

func TestReporter_Report(t *testing.T) {
	result := &Result{}
	result.AddError("money.starting_money", "must be a whole number", `"lots"`)
	result.AddWarning("weather", "not a recognized setting; kept as-is", nil)
	result.AddInfo("features.zigzag_bonus_enabled", "has no effect", nil).
		Context = map[string]string{"gated_by": "features.roleplay_enabled"}

	t.Run("text format", func(t *testing.T) {
		var buf bytes.Buffer
		reporter := NewReporter(&buf, FormatText)
		reporter.Subject = "config.json"
		if err := reporter.Report(result); err != nil {
			t.Fatalf("Report() error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"config.json: Validation failed",
			"1 error(s)",
			"1 warning(s)",
			"money.starting_money: must be a whole number",
			`["lots"]`,
			"Notes:",
			"(gated_by=features.roleplay_enabled)",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("output missing %q:\n%s", want, output)
			}
		}
	})

	t.Run("json format", func(t *testing.T) {
		var buf bytes.Buffer
		if err := NewReporter(&buf, FormatJSON).Report(result); err != nil {
			t.Fatalf("Report() error: %v", err)
		}

		var decoded struct {
			Valid    bool
			Errors   int
			Warnings int
			Issues   []Issue
		}
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("failed to decode JSON output: %v", err)
		}
		if decoded.Valid {
			t.Error("valid = true, want false")
		}
		if decoded.Errors != 1 || decoded.Warnings != 1 {
			t.Errorf("counts = %d/%d, want 1/1", decoded.Errors, decoded.Warnings)
		}
		if len(decoded.Issues) != 3 || decoded.Issues[2].Severity != SeverityInfo {
			t.Errorf("issues = %+v", decoded.Issues)
		}
	})

	t.Run("warnings only", func(t *testing.T) {
		r := &Result{}
		r.AddWarning("weather", "unknown", nil)

		var buf bytes.Buffer
		if err := NewReporter(&buf, FormatText).Report(r); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(buf.String(), "Validation passed with warnings") {
			t.Errorf("unexpected output: %s", buf.String())
		}
	})

	t.Run("empty result", func(t *testing.T) {
		var buf bytes.Buffer
		if err := NewReporter(&buf, FormatText).Report(&Result{}); err != nil {
			t.Fatalf("Report() error: %v", err)
		}
		if !strings.Contains(buf.String(), "Validation passed") {
			t.Error("output missing success message")
		}

		buf.Reset()
		if err := NewReporter(&buf, FormatJSON).Report(nil); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(buf.String(), `"issues": []`) {
			t.Errorf("nil result should encode empty issues: %s", buf.String())
		}
	})
}
