package editor

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectEditor(t *testing.T) {
	tests := []struct {
		name   string
		editor string
		visual string
		want   string
	}{
		{name: "EDITOR wins", editor: "nvim", visual: "code", want: "nvim"},
		{name: "VISUAL when EDITOR empty", editor: "", visual: "code", want: "code"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("EDITOR", tt.editor)
			t.Setenv("VISUAL", tt.visual)
			assert.Equal(t, tt.want, detectEditor())
		})
	}
}

func TestDetectEditor_Fallback(t *testing.T) {
	t.Setenv("EDITOR", "")
	t.Setenv("VISUAL", "")

	want := "vi"
	if _, err := exec.LookPath("nano"); err == nil {
		want = "nano"
	}
	assert.Equal(t, want, detectEditor())
}

func mockEditor(t *testing.T) (script, output string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("mock editor is a shell script")
	}
	dir := t.TempDir()
	script = filepath.Join(dir, "mock-editor.sh")
	output = filepath.Join(dir, "output.txt")
	body := "#!/bin/sh\necho \"$@\" > " + output + "\n"
	require.NoError(t, os.WriteFile(script, []byte(body), 0o755))
	return script, output
}

func TestOpen_FromEnvironment(t *testing.T) {
	script, output := mockEditor(t)
	t.Setenv("EDITOR", script)

	target := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, Open(context.Background(), target))

	got, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, target, strings.TrimSpace(string(got)))
}

func TestLauncher_CommandWithArgs(t *testing.T) {
	script, output := mockEditor(t)
	t.Setenv("EDITOR", "non-existent-binary-12345")

	var stdout bytes.Buffer
	l := &Launcher{Command: script + " --wait", Stdout: &stdout, Stderr: &stdout}
	require.NoError(t, l.Open(context.Background(), "config.json"))

	got, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "--wait config.json", strings.TrimSpace(string(got)))
}

func TestOpen_MissingEditor(t *testing.T) {
	t.Setenv("EDITOR", "non-existent-binary-12345")
	t.Setenv("VISUAL", "")

	err := Open(context.Background(), "test.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-existent-binary-12345")
}
