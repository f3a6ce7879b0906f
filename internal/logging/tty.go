package logging

import (
	"io"
	"os"

	"golang.org/x/term"
)

// IsTTY reports whether w is a terminal. Anything with an Fd method is
// checked; other writers are never terminals.
func IsTTY(w any) bool {
	if f, ok := w.(interface{ Fd() uintptr }); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// IsInteractive reports whether both stdin and stdout are terminals. The
// form editor, confirmation prompts and the fuzzy finder require it.
func IsInteractive() bool {
	return IsTTY(os.Stdin) && IsTTY(os.Stdout)
}

// SupportsColor returns true if the given writer supports ANSI color codes.
// It returns false if:
//   - The writer is not a TTY
//   - The NO_COLOR environment variable is set
//   - The TERM environment variable is set to "dumb"
func SupportsColor(w io.Writer) bool {
	return supportsColor(w, IsTTY(w))
}

func supportsColor(w io.Writer, isTTY bool) bool {
	// https://no-color.org
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return isTTY
}
