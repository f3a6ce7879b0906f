package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"
)

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Level:  slog.LevelInfo,
		Format: FormatJSON,
		Output: &buf,
	})

	logger.Info("saved config", "path", "config.json")

	var parsed map[string]any
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v\noutput: %s", err, buf.String())
	}
	if parsed["msg"] != "saved config" {
		t.Errorf("msg = %v, want %q", parsed["msg"], "saved config")
	}
	if parsed["path"] != "config.json" {
		t.Errorf("path = %v, want %q", parsed["path"], "config.json")
	}
}

func TestNew_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Level:  slog.LevelInfo,
		Format: FormatText,
		Output: &buf,
	})

	logger.Info("saved config", "fields", 28)

	output := buf.String()
	for _, want := range []string{"INFO", "saved config", "fields=28"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q: %s", want, output)
		}
	}
}

func TestNew_UnknownFormatDefaultsToText(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Level:  slog.LevelInfo,
		Format: Format("xml"),
		Output: &buf,
	})

	logger.Info("hello")

	var parsed map[string]any
	if err := json.Unmarshal(buf.Bytes(), &parsed); err == nil {
		t.Error("unknown format should default to text, not JSON")
	}
}

func TestNew_FileFanOut(t *testing.T) {
	var console, file bytes.Buffer
	logger := New(Config{
		Level:  slog.LevelInfo,
		Format: FormatText,
		Output: &console,
		File:   &file,
	})

	logger.Warn("recovered from corrupt file", "path", "config.json")

	if !strings.Contains(console.String(), "recovered from corrupt file") {
		t.Errorf("console missing record: %q", console.String())
	}

	var parsed map[string]any
	if err := json.Unmarshal(file.Bytes(), &parsed); err != nil {
		t.Fatalf("file output is not JSON: %v\n%s", err, file.String())
	}
	if parsed["level"] != "WARN" {
		t.Errorf("level = %v, want WARN", parsed["level"])
	}
}

func TestNew_FileOnly(t *testing.T) {
	var file bytes.Buffer
	logger := New(Config{
		Level:  slog.LevelDebug,
		Output: io.Discard,
		File:   &file,
	})

	logger.Debug("editor started")

	if !strings.Contains(file.String(), "editor started") {
		t.Errorf("file missing record: %q", file.String())
	}
}

func TestNewDiscard(t *testing.T) {
	logger := NewDiscard()
	// must accept calls at every level without panicking
	logger.Debug("debug", "key", "value")
	logger.Info("info", "count", 42)
	logger.Error("error", "err", io.EOF)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
		ok   bool
	}{
		{"", FormatText, true},
		{"text", FormatText, true},
		{"json", FormatJSON, true},
		{"yaml", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseFormat(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseFormat(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	tests := []struct {
		name      string
		level     slog.Level
		wantDebug bool
		wantInfo  bool
		wantWarn  bool
	}{
		{"trace shows everything", LevelTrace, true, true, true},
		{"info hides debug", slog.LevelInfo, false, true, true},
		{"warn hides info", slog.LevelWarn, false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(Config{Level: tt.level, Format: FormatJSON, Output: &buf})

			logger.Debug("debug-msg")
			logger.Info("info-msg")
			logger.Warn("warn-msg")

			out := buf.String()
			if got := strings.Contains(out, "debug-msg"); got != tt.wantDebug {
				t.Errorf("debug present = %v, want %v", got, tt.wantDebug)
			}
			if got := strings.Contains(out, "info-msg"); got != tt.wantInfo {
				t.Errorf("info present = %v, want %v", got, tt.wantInfo)
			}
			if got := strings.Contains(out, "warn-msg"); got != tt.wantWarn {
				t.Errorf("warn present = %v, want %v", got, tt.wantWarn)
			}
		})
	}
}

func TestLevelFromVerbosity(t *testing.T) {
	tests := []struct {
		verbosity int
		want      slog.Level
	}{
		{-1, slog.LevelWarn},
		{0, slog.LevelWarn},
		{1, slog.LevelInfo},
		{2, slog.LevelDebug},
		{3, LevelTrace},
		{4, LevelTrace},
	}

	for _, tt := range tests {
		if got := LevelFromVerbosity(tt.verbosity); got != tt.want {
			t.Errorf("LevelFromVerbosity(%d) = %v, want %v", tt.verbosity, got, tt.want)
		}
	}
}

func TestVerbosityFromEnv(t *testing.T) {
	tests := []struct {
		val  string
		want int
	}{
		{"", 0},
		{"1", 2},
		{"true", 2},
		{"2", 3},
		{"yes", 0},
	}
	for _, tt := range tests {
		t.Run(tt.val, func(t *testing.T) {
			t.Setenv("UIMPIT_DEBUG", tt.val)
			if got := VerbosityFromEnv(); got != tt.want {
				t.Errorf("VerbosityFromEnv() with %q = %d, want %d", tt.val, got, tt.want)
			}
		})
	}
}

func TestContext(t *testing.T) {
	logger := NewDiscard()
	ctx := NewContext(context.Background(), logger)

	if got := FromContext(ctx); got != logger {
		t.Error("FromContext did not return the stored logger")
	}
	if got := FromContext(context.Background()); got != slog.Default() {
		t.Error("FromContext without a logger should return slog.Default()")
	}
}

func TestForTest(t *testing.T) {
	logger := ForTest(t)
	if !logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("ForTest logger should be enabled at Debug")
	}
	logger.Debug("visible with -v", "field", "money.starting_money")
}

func TestTestWriter_TrimsNewline(t *testing.T) {
	tw := &testWriter{t: t}

	for _, in := range []string{"line\n", "no newline", ""} {
		n, err := tw.Write([]byte(in))
		if err != nil {
			t.Fatalf("Write(%q) error: %v", in, err)
		}
		if n != len(in) {
			t.Errorf("Write(%q) = %d, want %d", in, n, len(in))
		}
	}
}
