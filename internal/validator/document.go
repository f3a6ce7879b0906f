package validator

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/thoreinstein/uimpit/internal/document"
	"github.com/thoreinstein/uimpit/internal/errors"
)

// Document validates doc.
func Document(doc *document.Document) *Result {
	result := &Result{}

	for _, w := range doc.Warnings() {
		result.AddWarning("", w.Error(), nil)
	}

	for _, id := range doc.Mismatched() {
		spec, _ := document.Lookup(id)
		raw, _ := doc.Raw(id)
		checkRaw(result, spec, raw)
	}

	for _, key := range doc.Extras() {
		result.AddWarning(key, "not a recognized setting; kept as-is", nil)
	}

	if !document.RoleplayEnabled(doc) {
		for _, f := range document.Fields() {
			if !document.IsGated(f.ID) || f.Kind() != document.KindBool {
				continue
			}
			if v, ok := doc.Get(f.ID); ok && v.Bool() {
				result.AddInfo(f.ID.String(), "has no effect while "+document.GatingField.String()+" is false", nil).
					Context = map[string]string{"gated_by": document.GatingField.String()}
			}
		}
	}

	return result
}

func checkRaw(result *Result, spec document.FieldSpec, raw json.RawMessage) {
	field := spec.ID.String()
	value := string(raw)

	if spec.Kind() == document.KindBool {
		result.AddError(field, "must be true or false", value)
		return
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] != '"' {
		var num json.Number
		if err := json.Unmarshal(trimmed, &num); err == nil {
			if _, err := strconv.ParseInt(num.String(), 10, 64); err == nil || isIntOverflow(err) {
				result.AddError(field, document.ErrOutOfRange.Error(), value)
				return
			}
		}
	}
	result.AddError(field, "must be a whole number", value)
}

func isIntOverflow(err error) bool {
	var ne *strconv.NumError
	return errors.As(err, &ne) && ne.Err == strconv.ErrRange
}
