package document

import (
	"bytes"
	"encoding/json"
	"os"

	"github.com/thoreinstein/uimpit/internal/errors"
	"github.com/thoreinstein/uimpit/pkg/fileutil"
)

// Load reads the config document at path.
//
// A missing file yields the defaults. A file that is not a JSON object also
// yields the defaults, with the parse failure reported through Warnings
// rather than as an error. In every case the defaulting pass then inserts
// each recognized field that is absent, without overwriting present values.
//
// The only error returned is an *IOError for a file that exists but cannot
// be read.
func Load(path string) (*Document, error) {
	data, err := fileutil.ReadConfigFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return New(), nil
		}
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}

	d, err := Parse(data)
	if err != nil {
		d = New()
		d.origin = OriginRecovered
		d.warnings = append(d.warnings, errors.Wrapf(err, "parsing %s, using defaults", path))
	}
	return d, nil
}

// Parse decodes a config document from JSON and applies the defaulting pass.
// It fails only when data is not a JSON object.
func Parse(data []byte) (*Document, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, errors.Wrap(err, "decoding JSON")
	}
	if top == nil {
		return nil, errors.New("top-level value is not an object")
	}

	d := &Document{
		categories: make(map[string]map[string]entry, len(defaultsTable)),
		extra:      make(map[string]json.RawMessage),
		origin:     OriginFile,
	}

	for key, raw := range top {
		if !IsCategory(key) {
			d.extra[key] = raw
			continue
		}
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
			d.warnings = append(d.warnings,
				errors.Newf("category %q is not an object, using defaults (was %s)", key, clip(raw)))
			continue
		}
		cat := make(map[string]entry, len(fields))
		for name, fraw := range fields {
			cat[name] = decodeEntry(FieldID{Category: key, Field: name}, fraw)
		}
		d.categories[key] = cat
	}

	d.fillDefaults()
	return d, nil
}

// decodeEntry converts a field's JSON to a typed value when the field is
// recognized and the JSON matches its kind; otherwise it keeps the bytes.
func decodeEntry(id FieldID, raw json.RawMessage) entry {
	spec, ok := Lookup(id)
	if !ok {
		return entry{raw: raw}
	}
	switch spec.Kind() {
	case KindBool:
		var b bool
		if err := json.Unmarshal(raw, &b); err == nil && !isNull(raw) {
			return entry{val: Bool(b)}
		}
	case KindInt:
		if trimmed := bytes.TrimSpace(raw); len(trimmed) == 0 || trimmed[0] == '"' {
			break
		}
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		var num json.Number
		if err := dec.Decode(&num); err == nil {
			if n, err := num.Int64(); err == nil && InRange(n) {
				return entry{val: Int(n)}
			}
		}
	}
	return entry{raw: raw}
}

// maxWarningValue caps how much of a discarded value a warning quotes.
const maxWarningValue = 200

func clip(raw json.RawMessage) string {
	s := string(bytes.TrimSpace(raw))
	if len(s) <= maxWarningValue {
		return s
	}
	return s[:maxWarningValue] + "..."
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}
