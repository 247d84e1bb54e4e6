package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// mockFS implements FileSystem for loader tests.
type mockFS struct {
	homeDir     string
	homeErr     error
	files       map[string][]byte
	readErrPath string
}

func (m *mockFS) UserHomeDir() (string, error) {
	return m.homeDir, m.homeErr
}

func (m *mockFS) ReadFile(path string) ([]byte, error) {
	if m.readErrPath != "" && path == m.readErrPath {
		return nil, os.ErrPermission
	}
	if data, ok := m.files[path]; ok {
		return data, nil
	}
	return nil, os.ErrNotExist
}

func configPathFor(home string) string {
	return filepath.Join(home, ".config", ConfigDir, ConfigFile)
}

func TestLoadReturnsDefaultsWhenNoFile(t *testing.T) {
	loader := NewLoaderWithFS(&mockFS{homeDir: "/home/user", files: map[string][]byte{}})

	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	want := DefaultConfig()
	if cfg.Expand != want.Expand {
		t.Errorf("expected default config, got %+v", cfg.Expand)
	}
}

func TestLoadReturnsDefaultsWhenNoHomeDir(t *testing.T) {
	loader := NewLoaderWithFS(&mockFS{homeErr: errors.New("no home")})

	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.Expand.CommandTimeoutSeconds != DefaultConfig().Expand.CommandTimeoutSeconds {
		t.Errorf("expected defaults when home dir unavailable")
	}
}

func TestLoadMergesDotfileOverDefaults(t *testing.T) {
	home := "/home/user"
	fs := &mockFS{
		homeDir: home,
		files: map[string][]byte{
			configPathFor(home): []byte(`{"expand": {"command_timeout_seconds": 5, "max_concurrent_resolves": 2}}`),
		},
	}

	cfg, err := NewLoaderWithFS(fs).Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Expand.CommandTimeoutSeconds != 5 {
		t.Errorf("command_timeout_seconds = %d, want 5", cfg.Expand.CommandTimeoutSeconds)
	}
	if cfg.Expand.MaxConcurrentResolves != 2 {
		t.Errorf("max_concurrent_resolves = %d, want 2", cfg.Expand.MaxConcurrentResolves)
	}
	// Untouched keys keep defaults
	if cfg.Expand.MaxImportFileSize != DefaultConfig().Expand.MaxImportFileSize {
		t.Errorf("max_import_file_size should keep default")
	}
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	home := "/home/user"
	fs := &mockFS{
		homeDir: home,
		files:   map[string][]byte{configPathFor(home): []byte(`{not json`)},
	}

	if _, err := NewLoaderWithFS(fs).Load(); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}

func TestLoadPropagatesPermissionErrors(t *testing.T) {
	home := "/home/user"
	fs := &mockFS{homeDir: home, readErrPath: configPathFor(home)}

	if _, err := NewLoaderWithFS(fs).Load(); err == nil {
		t.Fatal("expected error for unreadable config file")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	home := "/home/user"
	fs := &mockFS{
		homeDir: home,
		files: map[string][]byte{
			configPathFor(home): []byte(`{"expand": {"max_concurrent_resolves": 0}}`),
		},
	}

	if _, err := NewLoaderWithFS(fs).Load(); err == nil {
		t.Fatal("expected validation error for zero max_concurrent_resolves")
	}
}
