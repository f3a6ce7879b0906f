package fileutil

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"io/fs"
	"os"

	"github.com/thoreinstein/uimpit/internal/errors"
)

// CopyFile copies src to dst, creating or truncating dst with src's
// permissions. It returns the hex SHA-256 of the copied bytes and the mode.
func CopyFile(src, dst string) (string, fs.FileMode, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", 0, errors.Wrap(err, "opening source")
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return "", 0, errors.Wrap(err, "stat source")
	}
	mode := info.Mode().Perm()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return "", 0, errors.Wrap(err, "creating destination")
	}

	h := sha256.New()
	if _, err := io.Copy(io.MultiWriter(out, h), in); err != nil {
		out.Close()
		return "", 0, errors.Wrap(err, "copying")
	}
	if err := out.Close(); err != nil {
		return "", 0, errors.Wrap(err, "closing destination")
	}
	return hex.EncodeToString(h.Sum(nil)), mode, nil
}

// HashFile returns the hex SHA-256 of a file's contents.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Wrap(err, "opening file")
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", errors.Wrap(err, "hashing file")
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
