package gui

import (
	"github.com/thoreinstein/uimpit/internal/document"
	"github.com/thoreinstein/uimpit/internal/errors"
)

// maxDigits caps integer input at the width of document.MaxInt.
const maxDigits = 9

var (
	errFieldDisabled = errors.New("field is disabled while roleplay is off")
	errWrongKind     = errors.New("field does not take this kind of input")
)

// form is the editing state behind the screen: the committed document,
// the edits not yet committed and the field under the cursor.
type form struct {
	fields  []document.FieldSpec
	doc     *document.Document
	saved   *document.Document
	pending map[document.FieldID]document.Input
	cursor  int
}

func newForm(doc *document.Document) *form {
	return &form{
		fields:  document.Fields(),
		doc:     doc,
		saved:   doc.Clone(),
		pending: make(map[document.FieldID]document.Input),
	}
}

func (f *form) current() document.FieldSpec {
	return f.fields[f.cursor]
}

// move shifts the cursor by delta fields, clamped to the form.
func (f *form) move(delta int) {
	f.cursor = clamp(f.cursor+delta, len(f.fields))
}

// jump moves to the first field of the next (delta > 0) or previous
// category, wrapping around.
func (f *form) jump(delta int) {
	cats := document.Categories()
	idx := 0
	for i, c := range cats {
		if c == f.current().ID.Category {
			idx = i
		}
	}
	idx = (idx + delta%len(cats) + len(cats)) % len(cats)
	for i, spec := range f.fields {
		if spec.ID.Category == cats[idx] {
			f.cursor = i
			return
		}
	}
}

// focus puts the cursor on id. Unknown ids are ignored.
func (f *form) focus(id document.FieldID) {
	for i, spec := range f.fields {
		if spec.ID == id {
			f.cursor = i
			return
		}
	}
}

// roleplay reports the gating toggle as currently shown, pending edit
// included.
func (f *form) roleplay() bool {
	if in, ok := f.pending[document.GatingField]; ok {
		return in.String() == "true"
	}
	return document.RoleplayEnabled(f.doc)
}

func (f *form) disabled(id document.FieldID) bool {
	return !f.roleplay() && document.IsGated(id)
}

// text is the value shown for a field.
func (f *form) text(id document.FieldID) string {
	if in, ok := f.pending[id]; ok {
		return in.String()
	}
	return f.doc.Text(id)
}

func (f *form) boolValue(id document.FieldID) bool {
	if in, ok := f.pending[id]; ok {
		return in.String() == "true"
	}
	if v, ok := f.doc.Get(id); ok && v.Kind() == document.KindBool {
		return v.Bool()
	}
	spec, _ := document.Lookup(id)
	return spec.Default.Bool()
}

func (f *form) check(id document.FieldID, kind document.Kind) error {
	spec, ok := document.Lookup(id)
	if !ok {
		return errors.ErrUnknownField
	}
	if spec.Kind() != kind {
		return errWrongKind
	}
	if f.disabled(id) {
		return errFieldDisabled
	}
	return nil
}

// setText records an integer edit. Parsing is left to commit.
func (f *form) setText(id document.FieldID, text string) error {
	if err := f.check(id, document.KindInt); err != nil {
		return err
	}
	if text == f.doc.Text(id) {
		delete(f.pending, id)
		return nil
	}
	f.pending[id] = document.Text(text)
	return nil
}

// toggle flips a boolean field.
func (f *form) toggle(id document.FieldID) error {
	if err := f.check(id, document.KindBool); err != nil {
		return err
	}
	next := !f.boolValue(id)
	if v, ok := f.doc.Get(id); ok && v.Kind() == document.KindBool && v.Bool() == next {
		delete(f.pending, id)
		return nil
	}
	f.pending[id] = document.Toggle(next)
	return nil
}

// isPending reports whether id has an uncommitted edit.
func (f *form) isPending(id document.FieldID) bool {
	_, ok := f.pending[id]
	return ok
}

// dirty reports whether there is anything that saving would change.
func (f *form) dirty() bool {
	return len(f.pending) > 0 || !f.doc.Equal(f.saved)
}

// commit applies the pending edits. On an input error the form is left
// exactly as it was.
func (f *form) commit() (*document.Document, error) {
	next, err := document.Commit(f.doc, f.pending)
	if err != nil {
		return nil, err
	}
	f.doc = next
	clear(f.pending)
	return next, nil
}

// markSaved records doc as the content on disk.
func (f *form) markSaved(doc *document.Document) {
	f.saved = doc.Clone()
}

// reset replaces the document with the defaults. Nothing is written until
// the next save.
func (f *form) reset() {
	f.doc = document.Reset()
	clear(f.pending)
}

func clamp(i, n int) int {
	if n <= 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
