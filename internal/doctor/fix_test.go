package doctor

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPermissionFixer_CanFix(t *testing.T) {
	tests := []struct {
		name   string
		issues []pathIssue
		want   bool
	}{
		{name: "no issues"},
		{
			name:   "non-fixable issue",
			issues: []pathIssue{{Path: "/a", Type: "file", Severity: SeverityError}},
		},
		{
			name:   "fixable issue",
			issues: []pathIssue{{Path: "/a", Type: "file", Severity: SeverityWarning, Fixable: true}},
			want:   true,
		},
		{
			name: "mixed issues",
			issues: []pathIssue{
				{Path: "/a", Severity: SeverityError},
				{Path: "/b", Severity: SeverityWarning, Fixable: true},
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &PermissionFixer{}
			f.setIssues(tt.issues)
			assert.Equal(t, tt.want, f.CanFix())
		})
	}
}

func TestPermissionFixer_Fix(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not meaningful on windows")
	}

	dir := t.TempDir()
	file := filepath.Join(dir, "config.json")
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.WriteFile(file, []byte("{}"), 0o600))
	require.NoError(t, os.Chmod(file, 0o666))
	require.NoError(t, os.Mkdir(sub, 0o755))
	require.NoError(t, os.Chmod(sub, 0o777))

	f := &PermissionFixer{}
	f.setIssues([]pathIssue{
		{Path: file, Type: "file", Fixable: true},
		{Path: sub, Type: "directory", Fixable: true},
		{Path: filepath.Join(dir, "x"), Type: "socket", Fixable: true},
		{Path: filepath.Join(dir, "y"), Type: "file"},
		{Path: filepath.Join(dir, "gone"), Type: "file", Fixable: true},
	})
	assert.Equal(t, 4, f.CountFixable())

	results := f.Fix()
	require.Len(t, results, 4)

	assert.True(t, results[0].Fixed)
	assert.Equal(t, "chmod 0644", results[0].Description)
	assert.True(t, results[1].Fixed)
	assert.Equal(t, "chmod 0755", results[1].Description)
	assert.False(t, results[2].Fixed)
	assert.Error(t, results[2].Error)
	assert.False(t, results[3].Fixed)
	assert.ErrorIs(t, results[3].Error, os.ErrNotExist)

	info, err := os.Stat(file)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
	info, err = os.Stat(sub)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
}
