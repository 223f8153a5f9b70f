package credential

import (
	"maps"
	"sync"
)

// Keys understood by the credential store.
const (
	KeyHost     = "ftp.host"
	KeyUser     = "ftp.user"
	KeyPassword = "ftp.password"
	KeyPort     = "ftp.port"
	KeyPath     = "ftp.path"
	KeyEnabled  = "ftp.enabled"
)

// Keys returns every store key in display order.
func Keys() []string {
	return []string{KeyHost, KeyUser, KeyPassword, KeyPort, KeyPath, KeyEnabled}
}

// Provider is a key/value credential store scoped to one project.
type Provider interface {
	// Get returns the value stored under key and whether it was set.
	Get(key string) (string, bool)

	// Set stores value under key.
	Set(key, value string) error
}

// MemoryStore is an in-process Provider.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// Compile-time interface compliance check.
var _ Provider = (*MemoryStore)(nil)

// NewMemoryStore creates a MemoryStore seeded with values.
func NewMemoryStore(values map[string]string) *MemoryStore {
	m := make(map[string]string, len(values))
	maps.Copy(m, values)
	return &MemoryStore{values: m}
}

// Get implements Provider.
func (s *MemoryStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// Set implements Provider.
func (s *MemoryStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}
