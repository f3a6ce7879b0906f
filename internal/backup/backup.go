package backup

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/thoreinstein/uimpit/internal/errors"
	"github.com/thoreinstein/uimpit/internal/paths"
	"github.com/thoreinstein/uimpit/pkg/fileutil"
)

// Version is set at build time via ldflags.
var Version = "dev"

const (
	manifestName = "manifest.json"
	idLayout     = "20060102T150405"
)

// Manager creates, lists, restores and prunes backups.
type Manager struct {
	rootDir        string
	retentionCount int
	now            func() time.Time

	mu      sync.Mutex
	session map[string]*sync.Once
}

// Option configures a Manager.
type Option func(*Manager)

// WithBackupDir sets the root backup directory.
func WithBackupDir(dir string) Option {
	return func(m *Manager) {
		m.rootDir = dir
	}
}

// WithRetentionCount sets the number of backups kept per config file.
// Values below 1 are ignored.
func WithRetentionCount(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.retentionCount = n
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a Manager. By default backups go to paths.BackupDir.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		rootDir:        paths.BackupDir(),
		retentionCount: DefaultRetentionCount,
		now:            time.Now,
		session:        make(map[string]*sync.Once),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Backup copies configPath into a new backup directory and prunes the slot
// down to the retention count. A missing file yields ErrNothingToBackUp.
func (m *Manager) Backup(configPath string) (*Manifest, error) {
	abs, err := paths.Abs(configPath)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errors.Wrapf(ErrNothingToBackUp, "%s does not exist", configPath)
		}
		return nil, errors.Wrapf(err, "stat %s", configPath)
	}
	if info.IsDir() {
		return nil, errors.Newf("%s is a directory", configPath)
	}

	created := m.now().UTC()
	id, dir, err := m.newBackupDir(abs, created)
	if err != nil {
		return nil, err
	}

	name := filepath.Base(abs)
	hash, mode, err := fileutil.CopyFile(abs, filepath.Join(dir, name))
	if err != nil {
		os.RemoveAll(dir)
		return nil, errors.Wrapf(err, "copying %s", configPath)
	}

	manifest := &Manifest{
		Version:    ManifestVersion,
		CreatedAt:  created,
		ConfigPath: abs,
		File: File{
			Name:       name,
			SHA256Hash: hash,
			Mode:       mode,
			Size:       info.Size(),
		},
		ToolVersion: Version,
		ID:          id,
	}

	if err := fileutil.AtomicWriteJSON(filepath.Join(dir, manifestName), manifest, 0o600); err != nil {
		os.RemoveAll(dir)
		return nil, errors.Wrap(err, "writing manifest")
	}

	if err := m.Prune(abs, m.retentionCount); err != nil {
		return manifest, errors.Wrap(err, "pruning old backups")
	}
	return manifest, nil
}

// newBackupDir creates a unique backup directory for created. Backups taken
// within the same second get a numeric suffix.
func (m *Manager) newBackupDir(abs string, created time.Time) (string, string, error) {
	slot := m.slotDir(abs)
	if err := paths.EnsureDir(slot, 0); err != nil {
		return "", "", errors.Wrap(err, "creating backup directory")
	}

	base := created.Format(idLayout)
	for n := 1; n < 1000; n++ {
		id := base
		if n > 1 {
			id = base + "-" + strconv.Itoa(n)
		}
		dir := filepath.Join(slot, id)
		err := os.Mkdir(dir, paths.DefaultDirPerm)
		if err == nil {
			return id, dir, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", "", errors.Wrap(err, "creating backup directory")
		}
	}
	return "", "", errors.Newf("too many backups at %s", base)
}

// EnsureBackedUp backs configPath up once per Manager. Later calls for the
// same file are no-ops. A missing file is not an error. A failed backup is
// retried on the next call.
func (m *Manager) EnsureBackedUp(configPath string) error {
	abs, err := paths.Abs(configPath)
	if err != nil {
		return err
	}

	m.mu.Lock()
	once, ok := m.session[abs]
	if !ok {
		once = &sync.Once{}
		m.session[abs] = once
	}
	m.mu.Unlock()

	var backupErr error
	once.Do(func() {
		_, backupErr = m.Backup(abs)
		if errors.Is(backupErr, ErrNothingToBackUp) {
			backupErr = nil
			return
		}
		if backupErr != nil {
			m.mu.Lock()
			delete(m.session, abs)
			m.mu.Unlock()
		}
	})

	if backupErr != nil {
		return errors.Wrapf(backupErr, "backing up %s", configPath)
	}
	return nil
}

// Restore verifies backup id of configPath and writes it back. The current
// file is backed up first unless it already matches the backup.
func (m *Manager) Restore(configPath, id string) (*Manifest, error) {
	abs, err := paths.Abs(configPath)
	if err != nil {
		return nil, err
	}

	manifest, err := m.Get(abs, id)
	if err != nil {
		return nil, err
	}

	src := filepath.Join(m.slotDir(abs), manifest.ID, manifest.File.Name)
	data, err := fileutil.ReadConfigFile(src)
	if err != nil {
		return nil, errors.Wrapf(err, "reading backup %s", manifest.ID)
	}
	sum := sha256.Sum256(data)
	if hex.EncodeToString(sum[:]) != manifest.File.SHA256Hash {
		return nil, errors.Wrapf(ErrBackupCorrupted, "backup %s hash mismatch", manifest.ID)
	}

	if current, err := fileutil.HashFile(abs); err == nil && current != manifest.File.SHA256Hash {
		if _, err := m.Backup(abs); err != nil {
			return nil, errors.Wrap(err, "backing up current file before restore")
		}
	}

	if err := fileutil.AtomicWriteFile(abs, data, manifest.File.Mode.Perm()); err != nil {
		return nil, errors.Wrapf(err, "restoring %s", configPath)
	}
	return manifest, nil
}

// List returns the backups of configPath, newest first.
func (m *Manager) List(configPath string) ([]Manifest, error) {
	abs, err := paths.Abs(configPath)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(m.slotDir(abs))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoBackupsFound
		}
		return nil, errors.Wrap(err, "reading backup directory")
	}

	manifests := make([]Manifest, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		manifest, err := m.Get(abs, entry.Name())
		if err != nil {
			// not a backup directory
			continue
		}
		manifests = append(manifests, *manifest)
	}

	if len(manifests) == 0 {
		return nil, ErrNoBackupsFound
	}

	slices.SortFunc(manifests, func(a, b Manifest) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return compareIDs(b.ID, a.ID)
	})
	return manifests, nil
}

// Prune removes all but the newest keep backups of configPath.
func (m *Manager) Prune(configPath string, keep int) error {
	if keep < 0 {
		return errors.New("keep must be non-negative")
	}

	manifests, err := m.List(configPath)
	if err != nil {
		if errors.Is(err, ErrNoBackupsFound) {
			return nil
		}
		return err
	}

	abs, _ := paths.Abs(configPath)
	for i := keep; i < len(manifests); i++ {
		if err := os.RemoveAll(filepath.Join(m.slotDir(abs), manifests[i].ID)); err != nil {
			return errors.Wrapf(err, "removing backup %s", manifests[i].ID)
		}
	}
	return nil
}

// Get returns the manifest of one backup. An empty id selects the newest.
func (m *Manager) Get(configPath, id string) (*Manifest, error) {
	abs, err := paths.Abs(configPath)
	if err != nil {
		return nil, err
	}

	if id == "" {
		all, err := m.List(abs)
		if err != nil {
			return nil, err
		}
		return &all[0], nil
	}
	if strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return nil, errors.Newf("invalid backup ID %q", id)
	}

	data, err := os.ReadFile(filepath.Join(m.slotDir(abs), id, manifestName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errors.Wrapf(ErrNoBackupsFound, "backup %s not found", id)
		}
		return nil, errors.Wrap(err, "reading manifest")
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, errors.Wrap(err, "parsing manifest")
	}
	manifest.ID = id
	return &manifest, nil
}

// SlotDir returns the directory holding configPath's backups.
func (m *Manager) SlotDir(configPath string) (string, error) {
	abs, err := paths.Abs(configPath)
	if err != nil {
		return "", err
	}
	return m.slotDir(abs), nil
}

func (m *Manager) slotDir(abs string) string {
	sum := sha256.Sum256([]byte(abs))
	return filepath.Join(m.rootDir, filepath.Base(abs)+"-"+hex.EncodeToString(sum[:4]))
}

// compareIDs orders IDs by timestamp then numeric suffix.
func compareIDs(a, b string) int {
	ab, an := splitID(a)
	bb, bn := splitID(b)
	if c := strings.Compare(ab, bb); c != 0 {
		return c
	}
	return an - bn
}

func splitID(id string) (string, int) {
	base, suffix, ok := strings.Cut(id, "-")
	if !ok {
		return id, 1
	}
	n, err := strconv.Atoi(suffix)
	if err != nil {
		return id, 0
	}
	return base, n
}
