package credential

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/wpforge/wprelease/internal/defs"
)

// storeFile is the on-disk layout: project scope -> key -> value.
type storeFile struct {
	Projects map[string]map[string]string `yaml:"projects"`
}

// FileStore is a Provider persisted as YAML in the user's config directory.
// Every project gets its own scope, keyed by plugin slug. The file is
// created on first Set with mode 0600.
type FileStore struct {
	mu     sync.Mutex
	path   string
	scope  string
	logger *slog.Logger
}

// Compile-time interface compliance check.
var _ Provider = (*FileStore)(nil)

// DefaultStorePath returns <user config dir>/wprelease/credentials.yaml.
func DefaultStorePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate user config directory: %v: %w", err, ErrStore)
	}
	return filepath.Join(dir, defs.ConfigDirName, defs.CredentialsYAML), nil
}

// NewFileStore creates a FileStore at path scoped to scope.
func NewFileStore(path, scope string, logger *slog.Logger) *FileStore {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &FileStore{
		path:   path,
		scope:  scope,
		logger: logger.With("module", "credential"),
	}
}

// Path returns the store file path.
func (s *FileStore) Path() string {
	return s.path
}

// Get implements Provider. An unreadable store reads as empty.
func (s *FileStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.load()
	if err != nil {
		s.logger.Warn("credential store unreadable", "path", s.path, "error", err)
		return "", false
	}
	v, ok := f.Projects[s.scope][key]
	return v, ok
}

// Set implements Provider.
func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.load()
	if err != nil {
		return err
	}
	if f.Projects[s.scope] == nil {
		f.Projects[s.scope] = make(map[string]string)
	}
	f.Projects[s.scope][key] = value

	if err := s.save(f); err != nil {
		return err
	}
	s.logger.Debug("credential stored", "scope", s.scope, "key", key)
	return nil
}

// load reads the store file. A missing file is an empty store.
func (s *FileStore) load() (*storeFile, error) {
	f := &storeFile{Projects: make(map[string]map[string]string)}

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return f, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %v: %w", s.path, err, ErrStore)
	}
	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("parse %s: %v: %w", s.path, err, ErrStore)
	}
	if f.Projects == nil {
		f.Projects = make(map[string]map[string]string)
	}
	return f, nil
}

// save writes f atomically with owner-only permissions.
func (s *FileStore) save(f *storeFile) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshal credentials: %v: %w", err, ErrStore)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create %s: %v: %w", dir, err, ErrStore)
	}

	tmp, err := os.CreateTemp(dir, ".credentials-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %v: %w", err, ErrStore)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod temp file: %v: %w", err, ErrStore)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %v: %w", err, ErrStore)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %v: %w", err, ErrStore)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace %s: %v: %w", s.path, err, ErrStore)
	}
	return nil
}
