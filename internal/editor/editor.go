// Package editor launches the user's text editor on a file.
package editor

import (
	"context"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/thoreinstein/uimpit/internal/errors"
)

// Launcher runs an editor command attached to the terminal.
type Launcher struct {
	// Command overrides the environment, e.g. the editor setting.
	// It may carry arguments such as "code --wait".
	Command string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// New returns a Launcher bound to the process's standard streams.
func New(command string) *Launcher {
	return &Launcher{
		Command: command,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}
}

// Open blocks until the editor exits.
func (l *Launcher) Open(ctx context.Context, path string) error {
	argv := strings.Fields(l.Command)
	if len(argv) == 0 {
		argv = []string{detectEditor()}
	}
	argv = append(argv, path)

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = l.Stdin
	cmd.Stdout = l.Stdout
	cmd.Stderr = l.Stderr

	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "running editor %s", argv[0])
	}
	return nil
}

// Open launches the editor from the environment on path.
func Open(ctx context.Context, path string) error {
	return New("").Open(ctx, path)
}

// detectEditor picks $EDITOR, then $VISUAL, then nano, then vi.
func detectEditor() string {
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}
	if visual := os.Getenv("VISUAL"); visual != "" {
		return visual
	}
	if _, err := exec.LookPath("nano"); err == nil {
		return "nano"
	}
	return "vi"
}
