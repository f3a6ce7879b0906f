package document

import (
	"strings"

	"github.com/thoreinstein/uimpit/internal/errors"
)

// Category names.
const (
	CategoryFeatures = "features"
	CategoryGeneral  = "general"
	CategoryMoney    = "money"
	CategoryCivilian = "civilian"
	CategoryPolice   = "police"
)

// FieldID names a single field as category plus field name.
type FieldID struct {
	Category string
	Field    string
}

// String returns the dotted form, e.g. "money.starting_money".
func (id FieldID) String() string {
	return id.Category + "." + id.Field
}

// ParseFieldID parses the dotted form produced by FieldID.String.
func ParseFieldID(s string) (FieldID, error) {
	category, field, ok := strings.Cut(strings.TrimSpace(s), ".")
	if !ok || category == "" || field == "" || strings.Contains(field, ".") {
		return FieldID{}, errors.Newf("malformed field %q (want category.field)", s)
	}
	return FieldID{Category: category, Field: field}, nil
}

// FieldSpec describes a recognized field and its default.
type FieldSpec struct {
	ID      FieldID
	Default Value
}

// Kind returns the field's type, implied by its default.
func (s FieldSpec) Kind() Kind { return s.Default.Kind() }

type categorySpec struct {
	name   string
	fields []FieldSpec
}

func field(category, name string, def Value) FieldSpec {
	return FieldSpec{ID: FieldID{Category: category, Field: name}, Default: def}
}

// defaultsTable is the compiled-in source of truth for every recognized field.
// Its order is the order used by the editor and by Save.
var defaultsTable = []categorySpec{
	{
		name: CategoryFeatures,
		fields: []FieldSpec{
			field(CategoryFeatures, "roleplay_enabled", Bool(true)),
			field(CategoryFeatures, "money_per_minute_enabled", Bool(true)),
			field(CategoryFeatures, "cool_message_enabled", Bool(true)),
			field(CategoryFeatures, "speeding_bonus_enabled", Bool(true)),
			field(CategoryFeatures, "zigzag_bonus_enabled", Bool(true)),
			field(CategoryFeatures, "police_features_enabled", Bool(true)),
		},
	},
	{
		name: CategoryGeneral,
		fields: []FieldSpec{
			field(CategoryGeneral, "autosave_interval_ms", Int(120000)),
		},
	},
	{
		name: CategoryMoney,
		fields: []FieldSpec{
			field(CategoryMoney, "money_per_minute_interval_ms", Int(60000)),
			field(CategoryMoney, "money_per_minute_amount", Int(10)),
			field(CategoryMoney, "starting_money", Int(3333)),
			field(CategoryMoney, "cool_message_interval_ms", Int(30000)),
		},
	},
	{
		name: CategoryCivilian,
		fields: []FieldSpec{
			field(CategoryCivilian, "speeding_limit_kmh", Int(100)),
			field(CategoryCivilian, "speeding_bonus_duration_ms", Int(60000)),
			field(CategoryCivilian, "speeding_cooldown_ms", Int(200000)),
			field(CategoryCivilian, "speeding_bonus_per_second", Int(1)),
			field(CategoryCivilian, "zigzag_bonus_duration_ms", Int(120000)),
			field(CategoryCivilian, "zigzag_cooldown_ms", Int(200000)),
			field(CategoryCivilian, "zigzag_final_bonus_amount", Int(50)),
			field(CategoryCivilian, "zigzag_prorated_bonus", Int(5)),
			field(CategoryCivilian, "min_speed_kmh_for_zigzag", Int(10)),
			field(CategoryCivilian, "zigzag_min_turns", Int(5)),
			field(CategoryCivilian, "wanted_fail_penalty", Int(50)),
		},
	},
	{
		name: CategoryPolice,
		fields: []FieldSpec{
			field(CategoryPolice, "police_proximity_range_m", Int(150)),
			field(CategoryPolice, "busted_range_m", Int(20)),
			field(CategoryPolice, "busted_stop_time_ms", Int(7000)),
			field(CategoryPolice, "busted_speed_limit_kmh", Int(5)),
			field(CategoryPolice, "police_bonus_per_second", Int(2)),
			field(CategoryPolice, "bust_bonus_amount", Int(100)),
		},
	},
}

var (
	fieldIndex    = make(map[FieldID]int)
	categoryIndex = make(map[string]int)
)

func init() {
	i := 0
	for ci, c := range defaultsTable {
		categoryIndex[c.name] = ci
		for _, f := range c.fields {
			fieldIndex[f.ID] = i
			i++
		}
	}
}

// Categories returns the recognized category names in display order.
func Categories() []string {
	names := make([]string, len(defaultsTable))
	for i, c := range defaultsTable {
		names[i] = c.name
	}
	return names
}

// IsCategory reports whether name is a recognized category.
func IsCategory(name string) bool {
	_, ok := categoryIndex[name]
	return ok
}

// Fields returns every recognized field in display order.
func Fields() []FieldSpec {
	specs := make([]FieldSpec, 0, len(fieldIndex))
	for _, c := range defaultsTable {
		specs = append(specs, c.fields...)
	}
	return specs
}

// FieldsOf returns the recognized fields of a category, or nil.
func FieldsOf(category string) []FieldSpec {
	ci, ok := categoryIndex[category]
	if !ok {
		return nil
	}
	return append([]FieldSpec(nil), defaultsTable[ci].fields...)
}

// Lookup returns the FieldSpec of a recognized field.
func Lookup(id FieldID) (FieldSpec, bool) {
	ci, ok := categoryIndex[id.Category]
	if !ok {
		return FieldSpec{}, false
	}
	for _, f := range defaultsTable[ci].fields {
		if f.ID == id {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// Defaults returns a deep copy of the defaults table as a nested map.
func Defaults() map[string]map[string]Value {
	out := make(map[string]map[string]Value, len(defaultsTable))
	for _, c := range defaultsTable {
		fields := make(map[string]Value, len(c.fields))
		for _, f := range c.fields {
			fields[f.ID.Field] = f.Default
		}
		out[c.name] = fields
	}
	return out
}

// fieldOrder returns the display position of a recognized field, or -1.
func fieldOrder(id FieldID) int {
	if i, ok := fieldIndex[id]; ok {
		return i
	}
	return -1
}
