// Package translate converts config documents between JSON, YAML and TOML.
//
// JSON is the format the server reads. YAML and TOML are offered for
// export and import only; an imported document goes through the same
// defaulting pass as one loaded from disk.
package translate

import (
	"path/filepath"
	"strings"

	"github.com/thoreinstein/uimpit/internal/errors"
)

// Format is a serialization format.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// ErrUnknownFormat is returned for a format name or extension that is not
// JSON, YAML or TOML.
var ErrUnknownFormat = errors.New("unknown format")

// Formats lists the supported formats.
func Formats() []Format {
	return []Format{FormatJSON, FormatYAML, FormatTOML}
}

// ParseFormat accepts a format name, case-insensitively. "yml" is YAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	}
	return "", errors.Wrapf(ErrUnknownFormat, "%q (want json, yaml or toml)", s)
}

// FormatFromPath infers a format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", errors.Wrapf(ErrUnknownFormat, "%s has no extension", path)
	}
	return ParseFormat(ext)
}
