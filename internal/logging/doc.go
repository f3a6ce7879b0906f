// Package logging configures log/slog for uimpit.
//
// Console output uses [Handler], a compact colorized text format, or the
// standard JSON handler with --log-format json. A --log-file receives JSON
// records through [MultiHandler]. While the form editor owns the terminal
// the console handler is replaced by io.Discard so only the file sees
// records.
//
//	logger := logging.New(logging.Config{
//		Level:  logging.LevelFromVerbosity(verbosity),
//		Format: logging.FormatText,
//	})
//	ctx = logging.NewContext(ctx, logger)
//
// Tests use [ForTest] so records show up in the test log.
package logging
