// Package errors provides error handling conventions for the uimpit CLI.
//
// It re-exports the wrapping helpers from github.com/cockroachdb/errors so
// the rest of the module imports a single errors package, defines sentinel
// errors for common failure conditions, and provides an ExitError type for
// CLI exit code handling.
//
// # Exit Codes
//
//   - ExitSuccess (0): Command completed successfully
//   - ExitUser (1): User-related error (invalid input, configuration, etc.)
//   - ExitSystem (2): System-related error (I/O, permissions, etc.)
//
// # ExitError
//
// [ExitError] wraps an underlying error with an exit code and optional
// suggestion. It supports [errors.Is] and [errors.As]:
//
//	err := errors.NewUserError(errors.ErrInvalidConfig, "Check your config file")
//	var exitErr *errors.ExitError
//	if errors.As(err, &exitErr) {
//	    if exitErr.Suggestion != "" {
//	        fmt.Println("Suggestion:", exitErr.Suggestion)
//	    }
//	    os.Exit(exitErr.Code)
//	}
package errors
