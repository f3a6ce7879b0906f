package locale

import (
	_ "embed"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/thoreinstein/uimpit/internal/errors"
	"github.com/thoreinstein/uimpit/pkg/fileutil"
)

// DefaultLanguage is the code of the compiled-in pack.
const DefaultLanguage = "en"

// NameKey holds a pack's display name.
const NameKey = "lang_name"

//go:embed en.json
var englishPack []byte

// rtlScripts are the scripts written right to left.
var rtlScripts = map[string]bool{
	"Arab": true,
	"Hebr": true,
	"Syrc": true,
	"Thaa": true,
	"Nkoo": true,
	"Adlm": true,
	"Rohg": true,
}

// Language describes one loaded pack.
type Language struct {
	Code string       `json:"code"`
	Tag  language.Tag `json:"-"`
	Name string       `json:"name"`
	RTL  bool         `json:"rtl"`
	Path string       `json:"path,omitempty"`
}

// PackError records a pack file that could not be loaded.
type PackError struct {
	Path string
	Err  error
}

func (e *PackError) Error() string {
	return e.Path + ": " + e.Err.Error()
}

func (e *PackError) Unwrap() error {
	return e.Err
}

// Catalog is the set of loaded language packs.
type Catalog struct {
	bundle   *i18n.Bundle
	langs    map[string]Language
	keys     map[string]map[string]bool
	problems []error
}

// Load reads every *.json file in dir. A missing dir leaves only the
// built-in English pack. Files that fail to parse are skipped, logged and
// reported by Problems.
func Load(dir string, logger *slog.Logger) (*Catalog, error) {
	if logger == nil {
		logger = slog.Default()
	}

	c := &Catalog{
		bundle: i18n.NewBundle(language.English),
		langs:  make(map[string]Language),
		keys:   make(map[string]map[string]bool),
	}
	c.bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	if err := c.add(DefaultLanguage, "", englishPack); err != nil {
		return nil, errors.Wrap(err, "loading built-in English pack")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Debug("language directory not found", "dir", dir)
			return c, nil
		}
		return nil, errors.Wrapf(err, "reading language directory %s", dir)
	}

	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		path := filepath.Join(dir, e.Name())
		code := strings.TrimSuffix(e.Name(), ".json")

		data, err := fileutil.ReadFileWithLimit(path)
		if err == nil {
			err = c.add(code, path, data)
		}
		if err != nil {
			logger.Warn("skipping language pack", "path", path, "error", err)
			c.problems = append(c.problems, &PackError{Path: path, Err: err})
			continue
		}
		logger.Debug("loaded language pack", "code", code, "path", path)
	}

	return c, nil
}

func (c *Catalog) add(code, path string, data []byte) error {
	var flat map[string]any
	if err := json.Unmarshal(data, &flat); err != nil {
		return errors.Wrap(err, "parsing pack")
	}
	if flat == nil {
		return errors.New("pack is not a JSON object")
	}
	for k, v := range flat {
		if _, ok := v.(string); !ok {
			return errors.Newf("key %q: value must be a string", k)
		}
	}

	tag, err := language.Parse(code)
	if err != nil {
		return errors.Wrapf(err, "file name %q is not a language code", code)
	}

	// go-i18n takes the language from the file name
	mf, err := c.bundle.ParseMessageFileBytes(data, tag.String()+".json")
	if err != nil {
		return errors.Wrap(err, "loading pack")
	}

	keys := c.keys[code]
	if keys == nil {
		keys = make(map[string]bool)
		c.keys[code] = keys
	}
	for _, m := range mf.Messages {
		keys[m.ID] = true
	}

	name, _ := flat[NameKey].(string)
	if name == "" {
		name = display.Self.Name(tag)
	}
	if name == "" {
		name = code
	}
	if prev, ok := c.langs[code]; ok && path == "" {
		path = prev.Path
	}

	c.langs[code] = Language{
		Code: code,
		Tag:  tag,
		Name: name,
		RTL:  IsRTL(tag),
		Path: path,
	}
	return nil
}

// IsRTL reports whether tag's script is written right to left.
func IsRTL(tag language.Tag) bool {
	script, _ := tag.Script()
	return rtlScripts[script.String()]
}

// Languages returns every loaded language sorted by display name.
func (c *Catalog) Languages() []Language {
	out := make([]Language, 0, len(c.langs))
	for _, l := range c.langs {
		out = append(out, l)
	}
	slices.SortFunc(out, func(a, b Language) int {
		if n := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); n != 0 {
			return n
		}
		return strings.Compare(a.Code, b.Code)
	})
	return out
}

// Language returns the pack for code.
func (c *Catalog) Language(code string) (Language, bool) {
	l, ok := c.langs[code]
	return l, ok
}

// Problems returns the errors for packs that were skipped.
func (c *Catalog) Problems() []error {
	return slices.Clone(c.problems)
}

// Missing returns the English keys absent from code's pack, sorted. An
// unknown code reports every English key.
func (c *Catalog) Missing(code string) []string {
	have := c.keys[code]
	var missing []string
	for k := range c.keys[DefaultLanguage] {
		if !have[k] {
			missing = append(missing, k)
		}
	}
	slices.Sort(missing)
	return missing
}

// Translator returns a translator for code. Unknown codes get English.
func (c *Catalog) Translator(code string) *Translator {
	lang, ok := c.langs[code]
	if !ok {
		lang = c.langs[DefaultLanguage]
	}
	return &Translator{
		lang:      lang,
		localizer: i18n.NewLocalizer(c.bundle, lang.Tag.String(), DefaultLanguage),
	}
}

// Next returns the language after code in Languages order, wrapping around.
func (c *Catalog) Next(code string) Language {
	langs := c.Languages()
	for i, l := range langs {
		if l.Code == code {
			return langs[(i+1)%len(langs)]
		}
	}
	return c.langs[DefaultLanguage]
}

// Translator resolves keys for one language.
type Translator struct {
	lang      Language
	localizer *i18n.Localizer
}

// Language returns the language this translator serves.
func (t *Translator) Language() Language {
	return t.lang
}

// T returns the text for key, falling back to English and then to key.
func (t *Translator) T(key string) string {
	msg, err := t.localizer.Localize(&i18n.LocalizeConfig{MessageID: key})
	if err != nil || msg == "" {
		return key
	}
	return msg
}
