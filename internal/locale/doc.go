// Package locale loads the language packs that label the editor.
//
// A language pack is a flat JSON object in <lang dir>/<code>.json mapping
// translation keys to text. The "lang_name" key holds the language's display
// name. Packs are loaded into a go-i18n bundle whose default language is the
// English pack compiled into the binary, so every key resolves even when the
// lang directory is missing.
//
//	cat, err := locale.Load("lang", logger)
//	tr := cat.Translator("he")
//	tr.T("save_button")
//
// A key missing from the selected pack falls back to English and then to the
// key itself.
package locale
