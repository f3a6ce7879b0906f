package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabled(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantEmpty bool
	}{
		{"roleplay on", `{"features":{"roleplay_enabled":true}}`, true},
		{"roleplay default", `{}`, true},
		{"roleplay malformed counts as on", `{"features":{"roleplay_enabled":"no"}}`, true},
		{"roleplay off", `{"features":{"roleplay_enabled":false}}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse([]byte(tt.content))
			require.NoError(t, err)

			disabled := Disabled(doc)
			if tt.wantEmpty {
				assert.Empty(t, disabled)
				return
			}

			assert.True(t, disabled[FieldID{CategoryFeatures, "speeding_bonus_enabled"}])
			assert.True(t, disabled[FieldID{CategoryFeatures, "zigzag_bonus_enabled"}])
			assert.True(t, disabled[FieldID{CategoryFeatures, "police_features_enabled"}])
			for _, f := range FieldsOf(CategoryCivilian) {
				assert.True(t, disabled[f.ID], f.ID.String())
			}
			for _, f := range FieldsOf(CategoryPolice) {
				assert.True(t, disabled[f.ID], f.ID.String())
			}

			assert.False(t, disabled[GatingField])
			assert.False(t, disabled[FieldID{CategoryFeatures, "money_per_minute_enabled"}])
			assert.False(t, disabled[FieldID{CategoryFeatures, "cool_message_enabled"}])
			for _, f := range FieldsOf(CategoryMoney) {
				assert.False(t, disabled[f.ID], f.ID.String())
			}
			assert.False(t, disabled[FieldID{CategoryGeneral, "autosave_interval_ms"}])
		})
	}
}

func TestDisabled_DoesNotChangeValues(t *testing.T) {
	doc, err := Parse([]byte(`{"features":{"roleplay_enabled":false,"police_features_enabled":true}}`))
	require.NoError(t, err)
	before := doc.Values()

	_ = Disabled(doc)

	assert.Equal(t, before, doc.Values())
}

func TestIsGatedCategory(t *testing.T) {
	assert.True(t, IsGatedCategory(CategoryCivilian))
	assert.True(t, IsGatedCategory(CategoryPolice))
	assert.False(t, IsGatedCategory(CategoryFeatures))
	assert.False(t, IsGatedCategory(CategoryMoney))
	assert.Equal(t, []string{CategoryCivilian, CategoryPolice}, DependentCategories())
}
