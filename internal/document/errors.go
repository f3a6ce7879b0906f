package document

import "fmt"

// InputError reports a field input that cannot be committed. The document
// passed to Commit is left untouched.
type InputError struct {
	// Field is the field whose input was rejected.
	Field FieldID
	// Input is the offending text, or the rendered toggle state.
	Input string
	// Err is the reason, one of ErrNotInteger, ErrOutOfRange,
	// ErrKindMismatch or errors.ErrUnknownField.
	Err error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid input for %s: %q: %v", e.Field, e.Input, e.Err)
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// IOError reports a config file that could not be read or written.
type IOError struct {
	// Op is "read" or "write".
	Op string
	// Path is the file involved.
	Path string
	// Err is the underlying failure.
	Err error
}

func (e *IOError) Error() string {
	return e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *IOError) Unwrap() error {
	return e.Err
}
