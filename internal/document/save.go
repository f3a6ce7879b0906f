package document

import (
	"bytes"
	"encoding/json"
	"io/fs"
	"os"

	"github.com/thoreinstein/uimpit/internal/errors"
	"github.com/thoreinstein/uimpit/pkg/fileutil"
)

// Indent is the indentation used when writing config files.
const Indent = "    "

// DefaultFilePerm is the mode for newly created config files.
const DefaultFilePerm fs.FileMode = 0o644

// Save writes doc to path as indented JSON. Recognized categories and
// fields come first in display order, followed by preserved unknown keys in
// lexical order. Non-ASCII text is written as-is.
//
// The write is atomic; an existing file keeps its permissions. Failures are
// returned as *IOError.
func Save(doc *Document, path string) error {
	data, err := Encode(doc)
	if err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}

	perm := DefaultFilePerm
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	if err := fileutil.AtomicWriteFile(path, data, perm); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}

// Encode renders doc exactly as Save writes it.
func Encode(doc *Document) ([]byte, error) {
	compact, err := doc.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compact, "", Indent); err != nil {
		return nil, errors.Wrap(err, "indenting JSON")
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// MarshalJSON implements json.Marshaler with a canonical key order.
func (d *Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true

	for _, c := range defaultsTable {
		fields, ok := d.categories[c.name]
		if !ok {
			continue
		}
		if err := writeKey(&buf, c.name, &first); err != nil {
			return nil, err
		}
		if err := marshalCategory(&buf, c, fields); err != nil {
			return nil, errors.Wrapf(err, "category %s", c.name)
		}
	}

	for _, k := range sortedKeys(d.extra) {
		if err := writeKey(&buf, k, &first); err != nil {
			return nil, err
		}
		if err := writeRaw(&buf, d.extra[k]); err != nil {
			return nil, errors.Wrapf(err, "key %s", k)
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func marshalCategory(buf *bytes.Buffer, c categorySpec, fields map[string]entry) error {
	buf.WriteByte('{')
	first := true
	seen := make(map[string]bool, len(c.fields))

	writeEntry := func(name string, e entry) error {
		if err := writeKey(buf, name, &first); err != nil {
			return err
		}
		if e.raw != nil {
			return writeRaw(buf, e.raw)
		}
		b, err := e.val.MarshalJSON()
		if err != nil {
			return errors.Wrapf(err, "field %s", name)
		}
		buf.Write(b)
		return nil
	}

	for _, f := range c.fields {
		e, ok := fields[f.ID.Field]
		if !ok {
			continue
		}
		seen[f.ID.Field] = true
		if err := writeEntry(f.ID.Field, e); err != nil {
			return err
		}
	}
	for _, name := range sortedKeys(fields) {
		if seen[name] {
			continue
		}
		if err := writeEntry(name, fields[name]); err != nil {
			return err
		}
	}

	buf.WriteByte('}')
	return nil
}

func writeKey(buf *bytes.Buffer, key string, first *bool) error {
	if !*first {
		buf.WriteByte(',')
	}
	*first = false
	b, err := marshalNoEscape(key)
	if err != nil {
		return errors.Wrapf(err, "encoding key %q", key)
	}
	buf.Write(b)
	buf.WriteByte(':')
	return nil
}

func writeRaw(buf *bytes.Buffer, raw json.RawMessage) error {
	return json.Compact(buf, raw)
}

// marshalNoEscape encodes v without HTML escaping so non-ASCII and
// markup characters survive verbatim.
func marshalNoEscape(v any) ([]byte, error) {
	var b bytes.Buffer
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(b.Bytes(), "\n"), nil
}
