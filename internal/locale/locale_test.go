package locale

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/thoreinstein/uimpit/internal/document"
	"github.com/thoreinstein/uimpit/internal/logging"
)

func writePack(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoad_MissingDirKeepsEnglish(t *testing.T) {
	cat, err := Load(filepath.Join(t.TempDir(), "nope"), logging.ForTest(t))
	require.NoError(t, err)

	langs := cat.Languages()
	require.Len(t, langs, 1)
	assert.Equal(t, "en", langs[0].Code)
	assert.Equal(t, "English", langs[0].Name)
	assert.False(t, langs[0].RTL)

	assert.Equal(t, "Save", cat.Translator("en").T("save_button"))
}

func TestLoad_Packs(t *testing.T) {
	dir := t.TempDir()
	writePack(t, dir, "he.json", `{"lang_name": "עברית", "save_button": "שמור"}`)
	writePack(t, dir, "de.json", `{"lang_name": "Deutsch", "save_button": "Speichern", "reset_button": "Zurücksetzen"}`)
	writePack(t, dir, "ar.json", `{"save_button": "حفظ"}`)
	writePack(t, dir, "notes.txt", `ignored`)

	cat, err := Load(dir, logging.ForTest(t))
	require.NoError(t, err)
	assert.Empty(t, cat.Problems())

	var codes []string
	for _, l := range cat.Languages() {
		codes = append(codes, l.Code)
	}
	assert.ElementsMatch(t, []string{"en", "he", "de", "ar"}, codes)

	he, ok := cat.Language("he")
	require.True(t, ok)
	assert.Equal(t, "עברית", he.Name)
	assert.True(t, he.RTL)

	ar, ok := cat.Language("ar")
	require.True(t, ok)
	assert.True(t, ar.RTL)
	assert.NotEqual(t, "ar", ar.Name, "display name falls back to the language's own name")

	de, _ := cat.Language("de")
	assert.False(t, de.RTL)
	assert.Equal(t, filepath.Join(dir, "de.json"), de.Path)
}

func TestTranslator_Fallback(t *testing.T) {
	dir := t.TempDir()
	writePack(t, dir, "he.json", `{"lang_name": "עברית", "save_button": "שמור"}`)

	cat, err := Load(dir, logging.ForTest(t))
	require.NoError(t, err)

	tr := cat.Translator("he")
	assert.Equal(t, "he", tr.Language().Code)
	assert.Equal(t, "שמור", tr.T("save_button"))
	assert.Equal(t, "Reset to defaults", tr.T("reset_button"), "missing key falls back to English")
	assert.Equal(t, "no_such_key", tr.T("no_such_key"), "unknown key falls back to itself")

	assert.Equal(t, "en", cat.Translator("xx").Language().Code, "unknown language gets English")
}

func TestLoad_DiskEnglishOverridesBuiltIn(t *testing.T) {
	dir := t.TempDir()
	writePack(t, dir, "en.json", `{"lang_name": "English (server)", "save_button": "Write config"}`)

	cat, err := Load(dir, logging.ForTest(t))
	require.NoError(t, err)

	tr := cat.Translator("en")
	assert.Equal(t, "Write config", tr.T("save_button"))
	assert.Equal(t, "Error", tr.T("error_title"), "built-in keys stay available")
	assert.Equal(t, "English (server)", tr.Language().Name)
}

func TestLoad_BrokenPacksAreSkipped(t *testing.T) {
	dir := t.TempDir()
	writePack(t, dir, "fr.json", `{"save_button": `)
	writePack(t, dir, "es.json", `["not", "an", "object"]`)
	writePack(t, dir, "it.json", `{"save_button": 3}`)
	writePack(t, dir, "not a language.json", `{"save_button": "x"}`)
	writePack(t, dir, "de.json", `{"save_button": "Speichern"}`)

	cat, err := Load(dir, logging.ForTest(t))
	require.NoError(t, err)

	assert.Len(t, cat.Problems(), 4)
	_, ok := cat.Language("fr")
	assert.False(t, ok)
	_, ok = cat.Language("de")
	assert.True(t, ok)

	var pe *PackError
	require.ErrorAs(t, cat.Problems()[0], &pe)
	assert.Equal(t, dir, filepath.Dir(pe.Path))
}

func TestMissing(t *testing.T) {
	dir := t.TempDir()
	writePack(t, dir, "de.json", `{"lang_name": "Deutsch", "save_button": "Speichern"}`)

	cat, err := Load(dir, logging.ForTest(t))
	require.NoError(t, err)

	missing := cat.Missing("de")
	assert.Contains(t, missing, "reset_button")
	assert.NotContains(t, missing, "save_button")
	assert.NotContains(t, missing, "lang_name")
	assert.IsIncreasing(t, missing)

	assert.Empty(t, cat.Missing("en"))
}

func TestNext(t *testing.T) {
	dir := t.TempDir()
	writePack(t, dir, "de.json", `{"lang_name": "Deutsch"}`)

	cat, err := Load(dir, logging.ForTest(t))
	require.NoError(t, err)

	assert.Equal(t, "en", cat.Next("de").Code)
	assert.Equal(t, "de", cat.Next("en").Code)
	assert.Equal(t, "en", cat.Next("zz").Code)
}

func TestIsRTL(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"he", true},
		{"ar", true},
		{"fa", true},
		{"en", false},
		{"ru", false},
		{"zh", false},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRTL(language.MustParse(tt.code)))
		})
	}
}

// Every label the editor asks for must exist in the built-in pack.
func TestEnglishPackCoversEditor(t *testing.T) {
	var pack map[string]string
	require.NoError(t, json.Unmarshal(englishPack, &pack))

	for _, c := range document.Categories() {
		assert.Contains(t, pack, c+"_settings_title")
	}
	for _, f := range document.Fields() {
		assert.Contains(t, pack, f.ID.Field)
	}
	for _, k := range []string{
		"window_title", "save_button", "reset_button",
		"success_save_title", "success_save_message",
		"error_title", "error_invalid_input",
		"confirm_reset_title", "confirm_reset_message",
	} {
		assert.Contains(t, pack, k)
	}
}
