package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/uimpit/internal/errors"
)

var startingMoney = FieldID{CategoryMoney, "starting_money"}

func TestCommit_ParsesText(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int64
	}{
		{"plain number", "500", 500},
		{"surrounding whitespace", "  42 \t", 42},
		{"empty text is zero", "", 0},
		{"whitespace only is zero", "   ", 0},
		{"leading zeros", "007", 7},
		{"maximum", "999999999", MaxInt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := New()
			next, err := Commit(doc, map[FieldID]Input{startingMoney: Text(tt.text)})
			require.NoError(t, err)

			v, ok := next.Get(startingMoney)
			require.True(t, ok)
			assert.Equal(t, tt.want, v.Int())
		})
	}
}

func TestCommit_RejectsBadText(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr error
	}{
		{"letters", "abc", ErrNotInteger},
		{"mixed", "12a", ErrNotInteger},
		{"decimal", "1.5", ErrNotInteger},
		{"negative", "-1", ErrOutOfRange},
		{"too large", "1000000000", ErrOutOfRange},
		{"overflows int64", "99999999999999999999", ErrOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := New()
			before, err := doc.MarshalJSON()
			require.NoError(t, err)

			next, err := Commit(doc, map[FieldID]Input{
				{CategoryMoney, "money_per_minute_amount"}: Text("77"),
				startingMoney: Text(tt.text),
			})
			require.Error(t, err)
			assert.Nil(t, next)

			var inErr *InputError
			require.ErrorAs(t, err, &inErr)
			assert.Equal(t, startingMoney, inErr.Field)
			assert.Equal(t, tt.text, inErr.Input)
			assert.ErrorIs(t, err, tt.wantErr)

			after, err := doc.MarshalJSON()
			require.NoError(t, err)
			assert.Equal(t, string(before), string(after), "original document modified")
		})
	}
}

func TestCommit_Toggles(t *testing.T) {
	doc := New()
	next, err := Commit(doc, map[FieldID]Input{GatingField: Toggle(false)})
	require.NoError(t, err)

	v, _ := next.Get(GatingField)
	assert.False(t, v.Bool())

	v, _ = doc.Get(GatingField)
	assert.True(t, v.Bool(), "Commit must not mutate its input")
}

func TestCommit_KindMismatchAndUnknownField(t *testing.T) {
	doc := New()

	_, err := Commit(doc, map[FieldID]Input{GatingField: Text("1")})
	assert.ErrorIs(t, err, ErrKindMismatch)

	_, err = Commit(doc, map[FieldID]Input{startingMoney: Toggle(true)})
	assert.ErrorIs(t, err, ErrKindMismatch)

	_, err = Commit(doc, map[FieldID]Input{{"money", "bogus"}: Text("1")})
	assert.ErrorIs(t, err, errors.ErrUnknownField)
}

func TestCommit_ReplacesVerbatimValueAndKeepsExtras(t *testing.T) {
	doc, err := Parse([]byte(`{"money":{"starting_money":"lots","note":"x"},"extra":true}`))
	require.NoError(t, err)

	next, err := Commit(doc, map[FieldID]Input{startingMoney: Text("12")})
	require.NoError(t, err)

	v, ok := next.Get(startingMoney)
	require.True(t, ok)
	assert.Equal(t, int64(12), v.Int())
	assert.Empty(t, next.Mismatched())
	assert.Equal(t, []string{"extra", "money.note"}, next.Extras())
}

func TestCommit_DisabledFieldsRoundTrip(t *testing.T) {
	doc, err := Parse([]byte(`{"features":{"roleplay_enabled":false},"police":{"busted_range_m":33}}`))
	require.NoError(t, err)
	require.NotEmpty(t, Disabled(doc))

	next, err := Commit(doc, map[FieldID]Input{startingMoney: Text("1")})
	require.NoError(t, err)

	v, _ := next.Get(FieldID{CategoryPolice, "busted_range_m"})
	assert.Equal(t, int64(33), v.Int())
}

func TestInputFor(t *testing.T) {
	in, err := InputFor(GatingField, "off")
	require.NoError(t, err)
	assert.Equal(t, Toggle(false), in)

	in, err = InputFor(startingMoney, "12")
	require.NoError(t, err)
	assert.Equal(t, Text("12"), in)

	_, err = InputFor(GatingField, "maybe")
	assert.ErrorIs(t, err, ErrNotBoolean)

	_, err = InputFor(FieldID{"nope", "x"}, "1")
	assert.ErrorIs(t, err, errors.ErrUnknownField)
}
