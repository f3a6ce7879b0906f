package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/uimpit/internal/document"
)

func parse(t *testing.T, data string) *document.Document {
	t.Helper()
	doc, err := document.Parse([]byte(data))
	require.NoError(t, err)
	return doc
}

func fields(issues []Issue) []string {
	var out []string
	for _, i := range issues {
		out = append(out, i.Field)
	}
	return out
}

func TestDocument_Defaults(t *testing.T) {
	result := Document(document.New())
	assert.Empty(t, result.Issues)
}

func TestDocument_Mismatched(t *testing.T) {
	doc := parse(t, `{
		"money": {"starting_money": "lots", "money_per_minute_amount": -5, "cool_message_interval_ms": 1.5},
		"general": {"autosave_interval_ms": 99999999999999999999},
		"features": {"cool_message_enabled": 1}
	}`)

	result := Document(doc)
	errs := result.Errors()
	require.Len(t, errs, 5)

	byField := map[string]Issue{}
	for _, e := range errs {
		byField[e.Field] = e
	}
	assert.Equal(t, "must be true or false", byField["features.cool_message_enabled"].Message)
	assert.Equal(t, "must be a whole number", byField["money.starting_money"].Message)
	assert.Equal(t, `"lots"`, byField["money.starting_money"].Value)
	assert.Equal(t, document.ErrOutOfRange.Error(), byField["money.money_per_minute_amount"].Message)
	assert.Equal(t, document.ErrOutOfRange.Error(), byField["general.autosave_interval_ms"].Message)
	assert.Equal(t, "must be a whole number", byField["money.cool_message_interval_ms"].Message)
}

func TestDocument_Extras(t *testing.T) {
	doc := parse(t, `{"money": {"tax_rate": 5}, "weather": {"rain": true}, "version": 3}`)

	result := Document(doc)
	assert.False(t, result.HasErrors())
	assert.ElementsMatch(t, []string{"money.tax_rate", "version", "weather"}, fields(result.Warnings()))
}

func TestDocument_GatedNotes(t *testing.T) {
	doc := parse(t, `{"features": {"roleplay_enabled": false, "zigzag_bonus_enabled": false}}`)

	result := Document(doc)
	assert.False(t, result.HasErrors())
	assert.False(t, result.HasWarnings())
	assert.ElementsMatch(t,
		[]string{"features.speeding_bonus_enabled", "features.police_features_enabled"},
		fields(result.Infos()))
	assert.Equal(t, "features.roleplay_enabled", result.Infos()[0].Context["gated_by"])
}

func TestDocument_RecoveredFile(t *testing.T) {
	path := t.TempDir() + "/config.json"
	require.NoError(t, writeFile(path, "{not json"))

	doc, err := document.Load(path)
	require.NoError(t, err)

	result := Document(doc)
	require.Len(t, result.Warnings(), 1)
	assert.Empty(t, result.Warnings()[0].Field)
}
