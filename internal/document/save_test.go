package document

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	doc, err := Parse([]byte(`{
		"features": {"roleplay_enabled": false, "legacy_flag": [1, 2]},
		"money": {"starting_money": 500},
		"server": {"name": "Ünïcødé <server>", "slots": 32}
	}`))
	require.NoError(t, err)

	require.NoError(t, Save(doc, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.True(t, doc.Equal(loaded), "round trip changed the document")
	assert.Equal(t, OriginFile, loaded.Origin())

	// A second save of the loaded document is byte-identical.
	first, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, Save(loaded, path))
	second, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestSave_Format(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	doc, err := Parse([]byte(`{"zeta": "Grüß <b>", "alpha": 1}`))
	require.NoError(t, err)
	require.NoError(t, Save(doc, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)

	assert.True(t, strings.HasPrefix(text, "{\n    \"features\": {\n        \"roleplay_enabled\": true,"), text)
	assert.True(t, strings.HasSuffix(text, "}\n"))
	assert.Contains(t, text, `"zeta": "Grüß <b>"`, "non-ASCII and markup must not be escaped")

	// Recognized categories in display order, then extras lexically.
	var order []string
	for _, key := range append(Categories(), "alpha", "zeta") {
		order = append(order, `"`+key+`": `)
	}
	last := -1
	for _, key := range order {
		idx := strings.Index(text, key)
		require.GreaterOrEqual(t, idx, 0, "missing %s", key)
		assert.Greater(t, idx, last, "%s out of order", key)
		last = idx
	}

	assert.True(t, json.Valid(data))
}

func TestSave_PreservesPermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o600))

	require.NoError(t, Save(New(), path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestSave_FollowsSymlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on Windows")
	}

	dir := t.TempDir()
	real := filepath.Join(dir, "real.json")
	require.NoError(t, os.WriteFile(real, []byte("{}"), 0o600))
	link := filepath.Join(dir, "config.json")
	require.NoError(t, os.Symlink(real, link))

	doc, err := Load(link)
	require.NoError(t, err)
	doc, err = Commit(doc, map[FieldID]Input{{CategoryMoney, "starting_money"}: Text("42")})
	require.NoError(t, err)
	require.NoError(t, Save(doc, link))

	info, err := os.Lstat(link)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&os.ModeSymlink, "symlink was replaced by a regular file")

	loaded, err := Load(real)
	require.NoError(t, err)
	v, _ := loaded.Get(FieldID{CategoryMoney, "starting_money"})
	assert.Equal(t, int64(42), v.Int())

	info, err = os.Stat(real)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestSave_UnwritablePathIsIOError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "config.json")

	err := Save(New(), path)
	require.Error(t, err)

	var ioErr *IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "write", ioErr.Op)
	assert.Equal(t, path, ioErr.Path)
}

func TestReset(t *testing.T) {
	doc, err := Parse([]byte(`{"money":{"starting_money":1},"extra":1,"police":{"busted_range_m":"x"}}`))
	require.NoError(t, err)

	fresh := Reset()
	assert.True(t, fresh.Equal(New()))
	assert.Empty(t, fresh.Extras())
	assert.Empty(t, fresh.Mismatched())
	requireAllDefaults(t, fresh)

	// The old document is unaffected.
	v, _ := doc.Get(startingMoney)
	assert.Equal(t, int64(1), v.Int())
}

func TestDefaults_DeepCopy(t *testing.T) {
	d := Defaults()
	d[CategoryMoney]["starting_money"] = Int(1)
	delete(d, CategoryPolice)

	again := Defaults()
	assert.Equal(t, Int(3333), again[CategoryMoney]["starting_money"])
	assert.Contains(t, again, CategoryPolice)
}
