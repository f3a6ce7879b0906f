// Package prompt provides interactive CLI prompts for user input.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/thoreinstein/uimpit/internal/errors"
)

// Sentinel errors for prompts.
var (
	ErrNoChoices        = errors.New("nothing to select from")
	ErrInvalidSelection = errors.New("invalid selection")
	ErrCancelled        = errors.Wrap(errors.ErrCancelled, "prompt")
)

// Prompter reads answers from a reader and writes questions to a writer.
type Prompter struct {
	reader *bufio.Reader
	writer io.Writer
}

// New creates a Prompter on stdin and stdout.
func New() *Prompter {
	return NewWithIO(os.Stdin, os.Stdout)
}

// NewWithIO creates a Prompter with custom IO for testing.
func NewWithIO(r io.Reader, w io.Writer) *Prompter {
	return &Prompter{reader: bufio.NewReader(r), writer: w}
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line == "" {
			return "", ErrCancelled
		}
		if !errors.Is(err, io.EOF) {
			return "", errors.Wrap(err, "reading answer")
		}
	}
	return strings.TrimSpace(line), nil
}

// Confirm asks a yes/no question. An empty answer means no.
// Unrecognized answers ask again.
func (p *Prompter) Confirm(question string) (bool, error) {
	for {
		fmt.Fprintf(p.writer, "%s [y/N]: ", question)
		answer, err := p.readLine()
		if err != nil {
			return false, err
		}
		switch strings.ToLower(answer) {
		case "y", "yes":
			return true, nil
		case "", "n", "no":
			return false, nil
		}
		fmt.Fprintln(p.writer, "Please answer y or n.")
	}
}

// Select asks the user to pick one of choices by number, rendering each
// with label. A single choice is returned without prompting and an empty
// answer picks the first.
func Select[T any](p *Prompter, title string, choices []T, label func(T) string) (T, error) {
	var zero T
	if len(choices) == 0 {
		return zero, ErrNoChoices
	}
	if len(choices) == 1 {
		return choices[0], nil
	}

	fmt.Fprintf(p.writer, "%s:\n", title)
	for i, c := range choices {
		fmt.Fprintf(p.writer, "  [%d] %s\n", i+1, label(c))
	}
	fmt.Fprintf(p.writer, "Select [1]: ")

	input, err := p.readLine()
	if err != nil {
		return zero, err
	}
	if input == "" {
		return choices[0], nil
	}

	n, err := strconv.Atoi(input)
	if err != nil {
		return zero, errors.Wrapf(ErrInvalidSelection, "%q is not a number", input)
	}
	if n < 1 || n > len(choices) {
		return zero, errors.Wrapf(ErrInvalidSelection, "%d is out of range [1-%d]", n, len(choices))
	}
	return choices[n-1], nil
}
