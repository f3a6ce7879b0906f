package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitError_Message(t *testing.T) {
	assert.Equal(t, "money.nope: unknown field",
		NewUserError(Wrapf(ErrUnknownField, "%s", "money.nope"), "").Error())
	assert.Equal(t, "exit code 1", NewExitError(nil, ExitUser).Error())
}

func TestExitError_FindsSentinelThroughChain(t *testing.T) {
	cause := Wrapf(ErrUnknownField, "%s", "police.radar")
	err := fmt.Errorf("set: %w", NewUserError(cause, "Run: uimpit list"))

	assert.ErrorIs(t, err, ErrUnknownField)
	assert.NotErrorIs(t, err, ErrCancelled)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, ExitUser, exitErr.Code)
	assert.Equal(t, "Run: uimpit list", exitErr.Suggestion)
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name       string
		err        *ExitError
		wantCode   int
		wantSuggst string
	}{
		{"user", NewUserError(ErrCancelled, "Pass --yes"), ExitUser, "Pass --yes"},
		{"system", NewSystemError(New("disk full"), ""), ExitSystem, ""},
		{"config", NewConfigError(ErrNotFound), ExitUser, "Run: uimpit doctor"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCode, tt.err.Code)
			assert.Equal(t, tt.wantSuggst, tt.err.Suggestion)
		})
	}
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"plain error", New("boom"), ExitSystem},
		{"bare sentinel", ErrUnknownField, ExitSystem},
		{"user error", NewUserError(ErrUnknownField, ""), ExitUser},
		{"cancelled prompt", Wrap(NewUserError(ErrCancelled, ""), "reset"), ExitUser},
		{"wrapped system error", Wrap(NewSystemError(ErrNotFound, ""), "saving"), ExitSystem},
		{"silent failure", NewExitError(nil, ExitUser), ExitUser},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CodeOf(tt.err))
		})
	}
}
