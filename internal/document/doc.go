// Package document owns the in-memory model of the UIMPIT mod's config.json.
//
// A [Document] is a two-level mapping, category → field → value, where every
// field named by the compiled-in defaults table is guaranteed to be present
// after [Load]. Values are a tagged variant ([Value]) holding either an
// integer in 0..[MaxInt] or a boolean. Anything the defaults table does not
// know about, and recognized fields holding values of the wrong type, are
// preserved verbatim so that a save never drops data written by other tools.
// The one exception is a recognized category that is not an object: it is
// replaced by defaults and its old value is quoted in the load warning.
//
// The package exposes four operations:
//
//   - [Load] reads a file, falling back to defaults when it is missing or
//     unparsable, then fills in every absent field.
//   - [Commit] applies edited field inputs and returns a new document, or an
//     [*InputError] leaving the original untouched.
//   - [Save] writes the document back as indented JSON, atomically.
//   - [Reset] returns a fresh copy of the defaults.
//
// [Disabled] computes which fields the roleplay toggle makes unavailable. It
// is presentation policy only: disabled fields keep and round-trip their
// stored values.
package document
