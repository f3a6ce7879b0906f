package fileutil

import (
	"io"
	"os"

	"github.com/thoreinstein/uimpit/internal/errors"
)

// MaxFileSize is the largest file ReadFileWithLimit accepts (1MB). Language
// packs and import sources are a few kilobytes.
const MaxFileSize = 1024 * 1024

// MaxConfigSize is the largest file ReadConfigFile accepts. Config files may
// carry large keys written by other tools, so the cap only guards against
// reading something that is clearly not a config.
const MaxConfigSize = 256 * 1024 * 1024

// ErrFileTooLarge indicates that a file exceeded its read limit.
var ErrFileTooLarge = errors.New("file exceeds maximum size")

// ReadFileWithLimit reads a file up to MaxFileSize. A missing file yields an
// error satisfying errors.Is(err, os.ErrNotExist).
func ReadFileWithLimit(path string) ([]byte, error) {
	return readFileMax(path, MaxFileSize)
}

// ReadConfigFile reads a config file up to MaxConfigSize.
func ReadConfigFile(path string) ([]byte, error) {
	return readFileMax(path, MaxConfigSize)
}

func readFileMax(path string, limit int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening file")
	}
	defer f.Close()

	tooLarge := errors.Wrapf(ErrFileTooLarge, "limit %d bytes", limit)
	if info, err := f.Stat(); err == nil && info.Size() > limit {
		return nil, tooLarge
	}

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, errors.Wrap(err, "reading file")
	}
	if int64(len(data)) > limit {
		return nil, tooLarge
	}
	return data, nil
}

// Exists reports whether path names an existing file or directory.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
