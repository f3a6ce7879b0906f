package document

import (
	"slices"
	"strconv"
	"strings"

	"github.com/thoreinstein/uimpit/internal/errors"
)

// Input is an edited field value as captured from an input control: the
// text of a numeric box or the state of a toggle.
type Input struct {
	kind   Kind
	text   string
	toggle bool
}

// Text returns an input for an integer field.
func Text(s string) Input {
	return Input{kind: KindInt, text: s}
}

// Toggle returns an input for a boolean field.
func Toggle(on bool) Input {
	return Input{kind: KindBool, toggle: on}
}

// String renders the raw input.
func (in Input) String() string {
	if in.kind == KindBool {
		return strconv.FormatBool(in.toggle)
	}
	return in.text
}

// Commit applies edits to a copy of doc and returns the copy.
//
// Text inputs are parsed as base-10 integers; empty text becomes 0. Toggle
// inputs are taken as-is. If any input is rejected, Commit returns an
// *InputError and no document; doc itself is never modified.
func Commit(doc *Document, edits map[FieldID]Input) (*Document, error) {
	if doc == nil {
		return nil, errors.New("commit: nil document")
	}

	ids := make([]FieldID, 0, len(edits))
	for id := range edits {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, compareFieldIDs)

	values := make(map[FieldID]Value, len(edits))
	for _, id := range ids {
		v, err := resolveInput(id, edits[id])
		if err != nil {
			return nil, err
		}
		values[id] = v
	}

	next := doc.Clone()
	for id, v := range values {
		next.set(id, v)
	}
	return next, nil
}

// resolveInput converts an input to a typed value for a recognized field.
func resolveInput(id FieldID, in Input) (Value, error) {
	spec, ok := Lookup(id)
	if !ok {
		return Value{}, &InputError{Field: id, Input: in.String(), Err: errors.ErrUnknownField}
	}
	if spec.Kind() != in.kind {
		return Value{}, &InputError{Field: id, Input: in.String(), Err: ErrKindMismatch}
	}
	if in.kind == KindBool {
		return Bool(in.toggle), nil
	}
	n, err := ParseInt(in.text)
	if err != nil {
		return Value{}, &InputError{Field: id, Input: in.text, Err: err}
	}
	return Int(n), nil
}

// InputFor builds the Input matching a field's kind from command-line text.
func InputFor(id FieldID, text string) (Input, error) {
	spec, ok := Lookup(id)
	if !ok {
		return Input{}, &InputError{Field: id, Input: text, Err: errors.ErrUnknownField}
	}
	if spec.Kind() == KindBool {
		b, err := ParseBool(text)
		if err != nil {
			return Input{}, &InputError{Field: id, Input: text, Err: err}
		}
		return Toggle(b), nil
	}
	return Text(text), nil
}

// compareFieldIDs orders recognized fields by display order, then unknown
// fields lexically.
func compareFieldIDs(a, b FieldID) int {
	ia, ib := fieldOrder(a), fieldOrder(b)
	switch {
	case ia >= 0 && ib >= 0:
		return ia - ib
	case ia >= 0:
		return -1
	case ib >= 0:
		return 1
	default:
		return strings.Compare(a.String(), b.String())
	}
}
