package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
)

// AppName is the directory name used under each XDG base directory.
const AppName = "uimpit"

// Default locations of the game config and language packs, relative to the
// working directory.
const (
	DefaultConfigFile = "config.json"
	DefaultLangDir    = "lang"
	SettingsFileName  = "settings.yaml"
)

var (
	// ErrHomeDirNotFound indicates the user's home directory could not be determined.
	ErrHomeDirNotFound = errors.New("home directory not found")

	// ErrInvalidPath indicates the provided path is malformed or invalid.
	ErrInvalidPath = errors.New("invalid path")
)

// DefaultDirPerm is the permission for directories uimpit creates.
const DefaultDirPerm = 0o700

// EnsureDir creates the directory and any necessary parents. If perm is 0,
// DefaultDirPerm is used. Existing directories keep their permissions.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultDirPerm
	}
	return os.MkdirAll(path, perm)
}

// ResolveHome returns the user's home directory.
func ResolveHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(ErrHomeDirNotFound, err.Error())
	}
	return home, nil
}

// ConfigHome returns the XDG config home directory.
func ConfigHome() string {
	return xdg.ConfigHome
}

// DataHome returns the XDG data home directory.
func DataHome() string {
	return xdg.DataHome
}

// StateHome returns the XDG state home directory.
func StateHome() string {
	return xdg.StateHome
}

// Reload re-reads the XDG environment variables. Tests that set
// XDG_CONFIG_HOME or XDG_DATA_HOME call it after t.Setenv.
func Reload() {
	xdg.Reload()
}

// SettingsDir returns <ConfigHome>/uimpit.
func SettingsDir() string {
	return filepath.Join(ConfigHome(), AppName)
}

// SettingsFile returns <ConfigHome>/uimpit/settings.yaml.
func SettingsFile() string {
	return filepath.Join(SettingsDir(), SettingsFileName)
}

// BackupDir returns <DataHome>/uimpit/backups.
func BackupDir() string {
	return filepath.Join(DataHome(), AppName, "backups")
}

// LogFile returns <StateHome>/uimpit/uimpit.log, the log destination used by
// the form editor when no --log-file is given.
func LogFile() string {
	return filepath.Join(StateHome(), AppName, AppName+".log")
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := ResolveHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// Abs expands a leading "~" and makes path absolute. An empty path is
// rejected with ErrInvalidPath.
func Abs(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", errors.Wrap(ErrInvalidPath, "empty path")
	}
	expanded, err := ExpandHome(path)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", errors.Wrapf(ErrInvalidPath, "%s: %v", path, err)
	}
	return abs, nil
}
