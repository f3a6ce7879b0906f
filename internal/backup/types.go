package backup

import (
	"io/fs"
	"time"

	"github.com/thoreinstein/uimpit/internal/errors"
)

// ManifestVersion is the manifest format version.
const ManifestVersion = 1

// DefaultRetentionCount is the number of backups kept per config file.
const DefaultRetentionCount = 5

var (
	// ErrNoBackupsFound indicates no backups exist for the config file.
	ErrNoBackupsFound = errors.New("no backups found")

	// ErrBackupCorrupted indicates the stored copy no longer matches its
	// manifest hash.
	ErrBackupCorrupted = errors.New("backup corrupted")

	// ErrNothingToBackUp indicates the config file does not exist yet.
	ErrNothingToBackUp = errors.New("nothing to back up")
)

// Manifest describes one backup. It is stored as manifest.json.
type Manifest struct {
	Version     int       `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
	ConfigPath  string    `json:"config_path"`
	File        File      `json:"file"`
	ToolVersion string    `json:"tool_version"`

	// ID is the backup directory name, e.g. 20260123T100712. It is filled
	// in when the manifest is read.
	ID string `json:"-"`
}

// File describes the copied config file.
type File struct {
	Name       string      `json:"name"`
	SHA256Hash string      `json:"sha256_hash"`
	Mode       fs.FileMode `json:"mode"`
	Size       int64       `json:"size"`
}
