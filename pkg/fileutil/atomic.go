// Package fileutil provides file system helpers shared by the config, backup
// and settings code: size-limited reads, atomic writes and hashed copies.
package fileutil

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/uimpit/internal/errors"
)

// AtomicWriteFile writes data to path through a temp file in the same
// directory followed by a rename, so an interrupted write leaves the
// original intact. The data is synced before the rename.
//
// When path is a symbolic link the link is kept and its target is replaced.
// The parent directory of the final target must exist.
func AtomicWriteFile(path string, data []byte, perm os.FileMode) error {
	path, err := resolveLink(path)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".uimpit-*.tmp")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	tmpName := tmp.Name()

	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return errors.Wrap(err, "writing temp file")
	}
	if err := tmp.Chmod(perm); err != nil {
		return errors.Wrap(err, "setting file permissions")
	}
	if err := tmp.Sync(); err != nil {
		return errors.Wrap(err, "syncing temp file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "closing temp file")
	}
	if err := os.Rename(tmpName, path); err != nil {
		return errors.Wrap(err, "renaming temp file")
	}

	committed = true
	return nil
}

// maxLinkHops bounds symlink resolution so a cycle fails instead of looping.
const maxLinkHops = 40

// resolveLink follows path through symbolic links to the file they name. The
// final target need not exist. Paths that are not links are returned as is.
func resolveLink(path string) (string, error) {
	for range maxLinkHops {
		info, err := os.Lstat(path)
		if err != nil || info.Mode()&os.ModeSymlink == 0 {
			return path, nil
		}
		target, err := os.Readlink(path)
		if err != nil {
			return "", errors.Wrapf(err, "reading symlink %s", path)
		}
		if !filepath.IsAbs(target) {
			target = filepath.Join(filepath.Dir(path), target)
		}
		path = target
	}
	return "", errors.Newf("too many levels of symbolic links at %s", path)
}

// AtomicWriteJSON writes v as 2-space indented JSON with a trailing newline.
// HTML characters are not escaped.
func AtomicWriteJSON(path string, v any, perm os.FileMode) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, "marshaling JSON")
	}
	return AtomicWriteFile(path, buf.Bytes(), perm)
}

// AtomicWriteYAML writes v as YAML with a trailing newline.
func AtomicWriteYAML(path string, v any, perm os.FileMode) (err error) {
	// yaml.Marshal panics on unmarshalable types
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf("marshaling YAML: %v", r)
		}
	}()

	data, err := yaml.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "marshaling YAML")
	}
	if len(data) > 0 && data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}
	return AtomicWriteFile(path, data, perm)
}
