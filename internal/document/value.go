package document

import (
	"strconv"
	"strings"

	"github.com/thoreinstein/uimpit/internal/errors"
)

// Bounds for integer fields.
const (
	MinInt int64 = 0
	MaxInt int64 = 999_999_999
)

// Kind is the type of a field's value.
type Kind int

const (
	// KindInt is a non-negative integer bounded by MaxInt.
	KindInt Kind = iota + 1
	// KindBool is a true/false toggle.
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "integer"
	case KindBool:
		return "boolean"
	default:
		return "unknown"
	}
}

// Value is a typed field value. The zero Value is invalid.
type Value struct {
	kind Kind
	n    int64
	b    bool
}

// Int returns an integer Value.
func Int(n int64) Value {
	return Value{kind: KindInt, n: n}
}

// Bool returns a boolean Value.
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Kind reports the value's type.
func (v Value) Kind() Kind { return v.kind }

// Int returns the integer payload. It is 0 for boolean values.
func (v Value) Int() int64 { return v.n }

// Bool returns the boolean payload. It is false for integer values.
func (v Value) Bool() bool { return v.b }

// IsValid reports whether v holds a value.
func (v Value) IsValid() bool { return v.kind == KindInt || v.kind == KindBool }

// String renders the value the way it appears in JSON.
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.n, 10)
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return ""
	}
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.IsValid() {
		return nil, errors.New("marshaling invalid value")
	}
	return []byte(v.String()), nil
}

// InRange reports whether n is an acceptable integer field value.
func InRange(n int64) bool {
	return n >= MinInt && n <= MaxInt
}

// Sentinel errors describing why an input was rejected.
var (
	// ErrNotInteger indicates text that does not parse as a base-10 integer.
	ErrNotInteger = errors.New("not an integer")

	// ErrOutOfRange indicates an integer outside MinInt..MaxInt.
	ErrOutOfRange = errors.Newf("must be between %d and %d", MinInt, MaxInt)

	// ErrKindMismatch indicates an input whose type does not match the field.
	ErrKindMismatch = errors.New("input type does not match field type")

	// ErrNotBoolean indicates text that is not a recognized boolean spelling.
	ErrNotBoolean = errors.New("not a boolean")
)

// ParseInt parses integer field text. Surrounding whitespace is ignored and
// empty text yields 0.
func ParseInt(text string) (int64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return 0, ErrOutOfRange
		}
		return 0, ErrNotInteger
	}
	if !InRange(n) {
		return 0, ErrOutOfRange
	}
	return n, nil
}

// ParseBool parses boolean text as accepted on the command line.
func ParseBool(text string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "true", "1", "yes", "on":
		return true, nil
	case "false", "0", "no", "off":
		return false, nil
	default:
		return false, ErrNotBoolean
	}
}
