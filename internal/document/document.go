package document

import (
	"bytes"
	"encoding/json"
	"maps"
	"slices"
	"sort"
)

// Origin records where a loaded document's contents came from.
type Origin int

const (
	// OriginDefaults means no file existed and the defaults were used.
	OriginDefaults Origin = iota
	// OriginFile means the document was parsed from the file.
	OriginFile
	// OriginRecovered means the file existed but could not be parsed, so
	// the defaults were used instead. See Document.Warnings.
	OriginRecovered
)

func (o Origin) String() string {
	switch o {
	case OriginDefaults:
		return "defaults"
	case OriginFile:
		return "file"
	case OriginRecovered:
		return "recovered"
	default:
		return "unknown"
	}
}

// entry is a single field slot. A nil raw means val is authoritative.
type entry struct {
	val Value
	raw json.RawMessage
}

// Document is a config document. The zero value is not usable; obtain one
// from New, Load, Reset or Commit.
type Document struct {
	// categories holds every recognized category, keyed by field name.
	categories map[string]map[string]entry
	// extra holds unrecognized top-level keys verbatim.
	extra map[string]json.RawMessage

	origin   Origin
	warnings []error
}

// New returns a document holding a deep copy of the defaults.
func New() *Document {
	d := &Document{
		categories: make(map[string]map[string]entry, len(defaultsTable)),
		extra:      make(map[string]json.RawMessage),
		origin:     OriginDefaults,
	}
	d.fillDefaults()
	return d
}

// Reset returns a fresh document equal to the defaults. Unknown keys carried
// by the previous document are not retained.
func Reset() *Document {
	return New()
}

// fillDefaults inserts every absent recognized category and field. Present
// values are never touched.
func (d *Document) fillDefaults() {
	for _, c := range defaultsTable {
		fields, ok := d.categories[c.name]
		if !ok {
			fields = make(map[string]entry, len(c.fields))
			d.categories[c.name] = fields
		}
		for _, f := range c.fields {
			if _, ok := fields[f.ID.Field]; !ok {
				fields[f.ID.Field] = entry{val: f.Default}
			}
		}
	}
}

// Origin reports where the document's contents came from.
func (d *Document) Origin() Origin { return d.origin }

// Warnings returns non-fatal problems found while loading.
func (d *Document) Warnings() []error { return slices.Clone(d.warnings) }

// Get returns the typed value of a field. ok is false for unknown fields and
// for recognized fields whose stored value is not of the expected type.
func (d *Document) Get(id FieldID) (Value, bool) {
	e, ok := d.categories[id.Category][id.Field]
	if !ok || e.raw != nil {
		return Value{}, false
	}
	return e.val, true
}

// Raw returns a field value kept verbatim because it is unknown or does not
// match the field's type.
func (d *Document) Raw(id FieldID) (json.RawMessage, bool) {
	e, ok := d.categories[id.Category][id.Field]
	if !ok || e.raw == nil {
		return nil, false
	}
	return slices.Clone(e.raw), true
}

// Text returns the field's value as it would be shown in an input box.
func (d *Document) Text(id FieldID) string {
	e, ok := d.categories[id.Category][id.Field]
	if !ok {
		return ""
	}
	if e.raw != nil {
		var s string
		if err := json.Unmarshal(e.raw, &s); err == nil {
			return s
		}
		return string(e.raw)
	}
	return e.val.String()
}

// Has reports whether the document holds any value for id.
func (d *Document) Has(id FieldID) bool {
	_, ok := d.categories[id.Category][id.Field]
	return ok
}

// Extras returns the unrecognized keys the document preserves, as
// "category" for top-level keys and "category.field" for unknown fields of
// recognized categories. The result is sorted.
func (d *Document) Extras() []string {
	var keys []string
	for k := range d.extra {
		keys = append(keys, k)
	}
	for cat, fields := range d.categories {
		for name := range fields {
			id := FieldID{Category: cat, Field: name}
			if _, ok := Lookup(id); !ok {
				keys = append(keys, id.String())
			}
		}
	}
	sort.Strings(keys)
	return keys
}

// Mismatched returns the recognized fields whose stored value is not of the
// field's type or is out of range, in display order.
func (d *Document) Mismatched() []FieldID {
	var ids []FieldID
	for _, f := range Fields() {
		if e, ok := d.categories[f.ID.Category][f.ID.Field]; ok && e.raw != nil {
			ids = append(ids, f.ID)
		}
	}
	return ids
}

// Clone returns a deep copy of d.
func (d *Document) Clone() *Document {
	c := &Document{
		categories: make(map[string]map[string]entry, len(d.categories)),
		extra:      make(map[string]json.RawMessage, len(d.extra)),
		origin:     d.origin,
		warnings:   slices.Clone(d.warnings),
	}
	for cat, fields := range d.categories {
		cf := make(map[string]entry, len(fields))
		for name, e := range fields {
			cf[name] = entry{val: e.val, raw: slices.Clone(e.raw)}
		}
		c.categories[cat] = cf
	}
	for k, v := range d.extra {
		c.extra[k] = slices.Clone(v)
	}
	return c
}

// Equal reports whether two documents serialize to the same content,
// ignoring formatting and load metadata.
func (d *Document) Equal(other *Document) bool {
	if d == nil || other == nil {
		return d == other
	}
	a, errA := d.MarshalJSON()
	b, errB := other.MarshalJSON()
	return errA == nil && errB == nil && bytes.Equal(a, b)
}

// Values returns the typed values of every recognized field holding one,
// keyed by field.
func (d *Document) Values() map[FieldID]Value {
	out := make(map[FieldID]Value)
	for _, f := range Fields() {
		if v, ok := d.Get(f.ID); ok {
			out[f.ID] = v
		}
	}
	return out
}

// set stores a typed value, replacing any verbatim value.
func (d *Document) set(id FieldID, v Value) {
	fields, ok := d.categories[id.Category]
	if !ok {
		fields = make(map[string]entry)
		d.categories[id.Category] = fields
	}
	fields[id.Field] = entry{val: v}
}

// sortedKeys returns the keys of m in lexical order.
func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
