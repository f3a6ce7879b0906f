package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/thoreinstein/uimpit/internal/errors"
)

func TestResolveHome(t *testing.T) {
	got, err := ResolveHome()
	want, _ := os.UserHomeDir()

	if err != nil {
		if !errors.Is(err, ErrHomeDirNotFound) {
			t.Errorf("unexpected error type: %v", err)
		}
	} else if got != want {
		t.Errorf("ResolveHome() = %q, want %q", got, want)
	}
}

func TestXDGDirs(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(tmp, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(tmp, "state"))
	Reload()
	t.Cleanup(Reload)

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"SettingsDir", SettingsDir(), filepath.Join(tmp, "config", "uimpit")},
		{"SettingsFile", SettingsFile(), filepath.Join(tmp, "config", "uimpit", "settings.yaml")},
		{"BackupDir", BackupDir(), filepath.Join(tmp, "data", "uimpit", "backups")},
		{"LogFile", LogFile(), filepath.Join(tmp, "state", "uimpit", "uimpit.log")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s() = %q, want %q", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestExpandHome(t *testing.T) {
	home, err := ResolveHome()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		in   string
		want string
	}{
		{"~", home},
		{"~/server/config.json", filepath.Join(home, "server", "config.json")},
		{"config.json", "config.json"},
		{"/srv/config.json", "/srv/config.json"},
		{"~other/config.json", "~other/config.json"},
	}
	for _, tt := range tests {
		got, err := ExpandHome(tt.in)
		if err != nil {
			t.Fatalf("ExpandHome(%q) error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ExpandHome(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAbs(t *testing.T) {
	got, err := Abs("config.json")
	if err != nil {
		t.Fatalf("Abs() error: %v", err)
	}
	if !filepath.IsAbs(got) || filepath.Base(got) != "config.json" {
		t.Errorf("Abs(config.json) = %q", got)
	}

	if _, err := Abs("  "); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("Abs(blank) error = %v, want ErrInvalidPath", err)
	}
}

func TestEnsureDir(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("creates new directory with default perms", func(t *testing.T) {
		path := filepath.Join(tmpDir, "new-dir")
		if err := EnsureDir(path, 0); err != nil {
			t.Fatalf("EnsureDir failed: %v", err)
		}
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("stat failed: %v", err)
		}
		if !info.IsDir() {
			t.Errorf("expected directory, got file")
		}
		if info.Mode().Perm() != DefaultDirPerm {
			t.Errorf("expected perm %o, got %o", DefaultDirPerm, info.Mode().Perm())
		}
	})

	t.Run("creates nested directories", func(t *testing.T) {
		path := filepath.Join(tmpDir, "backups", "config.json", "20260101T000000")
		if err := EnsureDir(path, 0o755); err != nil {
			t.Fatalf("EnsureDir failed: %v", err)
		}
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("stat failed: %v", err)
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		path := filepath.Join(tmpDir, "existing")
		if err := os.Mkdir(path, 0o755); err != nil {
			t.Fatal(err)
		}
		if err := EnsureDir(path, 0o700); err != nil {
			t.Errorf("EnsureDir failed on existing directory: %v", err)
		}
		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if info.Mode().Perm() != 0o755 {
			t.Errorf("expected original perm 0755 to be preserved, got %o", info.Mode().Perm())
		}
	})
}
