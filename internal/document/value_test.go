package document

import (
	"testing"
)

func TestParseFieldID(t *testing.T) {
	tests := []struct {
		input   string
		want    FieldID
		wantErr bool
	}{
		{input: "money.starting_money", want: FieldID{"money", "starting_money"}},
		{input: "  police.busted_range_m ", want: FieldID{"police", "busted_range_m"}},
		{input: "money", wantErr: true},
		{input: ".starting_money", wantErr: true},
		{input: "money.", wantErr: true},
		{input: "a.b.c", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFieldID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFieldID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseFieldID(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestValueString(t *testing.T) {
	if got := Int(42).String(); got != "42" {
		t.Errorf("Int(42).String() = %q", got)
	}
	if got := Bool(false).String(); got != "false" {
		t.Errorf("Bool(false).String() = %q", got)
	}
	if (Value{}).IsValid() {
		t.Error("zero Value should be invalid")
	}
	if _, err := (Value{}).MarshalJSON(); err == nil {
		t.Error("marshaling zero Value should fail")
	}
}

func TestParseBool(t *testing.T) {
	for _, s := range []string{"true", "TRUE", "1", "yes", "on"} {
		if b, err := ParseBool(s); err != nil || !b {
			t.Errorf("ParseBool(%q) = %v, %v", s, b, err)
		}
	}
	for _, s := range []string{"false", "0", "No", "off"} {
		if b, err := ParseBool(s); err != nil || b {
			t.Errorf("ParseBool(%q) = %v, %v", s, b, err)
		}
	}
	if _, err := ParseBool("perhaps"); err == nil {
		t.Error("ParseBool(perhaps) should fail")
	}
}

func TestDefaultsTableShape(t *testing.T) {
	want := map[string]int{
		CategoryFeatures: 6,
		CategoryGeneral:  1,
		CategoryMoney:    4,
		CategoryCivilian: 11,
		CategoryPolice:   6,
	}
	for cat, n := range want {
		if got := len(FieldsOf(cat)); got != n {
			t.Errorf("len(FieldsOf(%s)) = %d, want %d", cat, got, n)
		}
	}
	if got := len(Fields()); got != 28 {
		t.Errorf("len(Fields()) = %d, want 28", got)
	}
	for _, f := range FieldsOf(CategoryFeatures) {
		if f.Kind() != KindBool {
			t.Errorf("%s should be boolean", f.ID)
		}
	}
	if _, ok := Lookup(FieldID{"money", "nope"}); ok {
		t.Error("Lookup should fail for unknown field")
	}
}
