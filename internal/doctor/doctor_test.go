package doctor

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCheck struct {
	mock.Mock
}

func (m *mockCheck) Name() string     { return m.Called().String(0) }
func (m *mockCheck) Category() string { return m.Called().String(0) }

func (m *mockCheck) Run() *CheckResult {
	return m.Called().Get(0).(*CheckResult)
}

func newMockCheck(t *testing.T, name string, result *CheckResult) *mockCheck {
	t.Helper()
	m := &mockCheck{}
	m.On("Name").Return(name).Maybe()
	m.On("Category").Return("test").Maybe()
	m.On("Run").Return(result).Maybe()
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func TestNewRunner(t *testing.T) {
	r := NewRunner()
	require.NotNil(t, r)
	assert.Empty(t, r.Checks())

	a := newMockCheck(t, "a", &CheckResult{})
	r = NewRunner(a)
	assert.Len(t, r.Checks(), 1)
}

func TestRunner_AddCheckPreservesOrder(t *testing.T) {
	r := NewRunner()
	names := []string{"first", "second", "third"}
	for _, name := range names {
		r.AddCheck(newMockCheck(t, name, &CheckResult{}))
	}

	for i, want := range names {
		assert.Equal(t, want, r.Checks()[i].Name())
	}
}

func TestRunner_Run(t *testing.T) {
	tests := []struct {
		name         string
		statuses     []Severity
		wantPassed   int
		wantInfo     int
		wantWarnings int
		wantErrors   int
	}{
		{name: "empty runner"},
		{
			name:       "all pass",
			statuses:   []Severity{SeverityPass, SeverityPass},
			wantPassed: 2,
		},
		{
			name:         "mixed",
			statuses:     []Severity{SeverityPass, SeverityInfo, SeverityWarning, SeverityError, SeverityWarning},
			wantPassed:   1,
			wantInfo:     1,
			wantWarnings: 2,
			wantErrors:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRunner()
			r.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
			for _, s := range tt.statuses {
				r.AddCheck(newMockCheck(t, "check", &CheckResult{Name: "check", Category: "test", Status: s}))
			}

			report := r.Run()
			assert.Len(t, report.Results, len(tt.statuses))
			assert.Equal(t, tt.wantPassed, report.Summary.Passed)
			assert.Equal(t, tt.wantInfo, report.Summary.Info)
			assert.Equal(t, tt.wantWarnings, report.Summary.Warnings)
			assert.Equal(t, tt.wantErrors, report.Summary.Errors)
			assert.Equal(t, tt.wantErrors > 0, report.HasErrors())
			assert.Equal(t, tt.wantWarnings > 0, report.HasWarnings())
			assert.Equal(t, 2026, report.Timestamp.Year())
		})
	}
}

func TestRunner_RunFillsNameAndCategory(t *testing.T) {
	r := NewRunner(newMockCheck(t, "named", &CheckResult{Status: SeverityPass}))

	report := r.Run()
	require.Len(t, report.Results, 1)
	assert.Equal(t, "named", report.Results[0].Name)
	assert.Equal(t, "test", report.Results[0].Category)
}

func TestReport_JSON(t *testing.T) {
	r := NewRunner(newMockCheck(t, "x", &CheckResult{
		Name:     "x",
		Category: "config",
		Status:   SeverityWarning,
		Message:  "something",
	}))

	data, err := json.Marshal(r.Run())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	results := decoded["results"].([]any)
	first := results[0].(map[string]any)
	assert.Equal(t, "warning", first["status"])
	assert.Equal(t, "config", first["category"])
	assert.NotContains(t, first, "fixable")
}

func TestSeverity_String(t *testing.T) {
	assert.Equal(t, "pass", SeverityPass.String())
	assert.Equal(t, "info", SeverityInfo.String())
	assert.Equal(t, "warning", SeverityWarning.String())
	assert.Equal(t, "error", SeverityError.String())
	assert.Equal(t, "unknown", Severity(42).String())

	_, err := Severity(42).MarshalText()
	assert.Error(t, err)
}
