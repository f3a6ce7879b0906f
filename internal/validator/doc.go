// Package validator checks a config document and reports what it finds.
//
// Findings are [Issue] values grouped in a [Result]. Errors are values the
// game server cannot use (wrong type, out of range). Warnings are keys the
// editor does not recognize or a file that had to be recovered. Info notes
// settings that currently have no effect because roleplay is off.
//
//	result := validator.Document(doc)
//	validator.NewReporter(os.Stdout, validator.FormatText).Report(result)
package validator
