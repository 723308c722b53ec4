package secrets

import (
	"context"
	"sort"
)

// Manager serves secret lookups from a lazily populated cache.
//
// The cache is all-or-nothing: the first lookup fetches the complete secret
// set for the base path in one backend call, and every later lookup is
// served from memory without contacting the backend again. A failed fetch
// leaves the cache unloaded, so the next lookup retries. Secrets are
// assumed stable for the process lifetime; there is no invalidation.
//
// Manager is not safe for concurrent use; resolution is a single-threaded,
// synchronous affair and callers needing concurrency serialise externally.
type Manager struct {
	backend  Backend
	basePath string
	strict   bool

	loaded bool
	values map[string]string
}

// NewManager wraps backend with the caching lookup layer. A nil backend
// gets the null implementation, so a Manager is always safe to consult.
func NewManager(backend Backend, basePath string) *Manager {
	if backend == nil {
		backend = NullBackend{}
	}
	return &Manager{backend: backend, basePath: basePath}
}

// NewManagerFromEnv builds a Manager from the conventional VAULT_*
// variables. When no address is configured the null backend is selected
// and the manager simply reports no secrets.
func NewManagerFromEnv(lookup func(string) (string, bool)) (*Manager, error) {
	cfg := ConfigFromEnv(lookup)
	if cfg.Address == "" {
		return NewManager(NullBackend{}, cfg.BasePath), nil
	}
	backend, err := NewVaultBackend(cfg)
	if err != nil {
		return nil, err
	}
	return NewManager(backend, cfg.BasePath), nil
}

// SetStrict makes a failed backend fetch an error surfaced from Load
// instead of an empty secret set.
func (m *Manager) SetStrict(strict bool) { m.strict = strict }

// Strict reports whether strict failure mode is enabled.
func (m *Manager) Strict() bool { return m.strict }

// Load populates the cache if it has not been loaded yet. In non-strict
// mode a backend failure is swallowed and the manager behaves as if the
// store held no secrets.
func (m *Manager) Load() error {
	if m.loaded {
		return nil
	}
	values, err := m.backend.FetchAll(context.Background(), m.basePath)
	if err != nil {
		if m.strict {
			return err
		}
		return nil
	}
	m.values = values
	m.loaded = true
	return nil
}

// Get returns the secret for key. The first call triggers the single
// backend fetch; a failed fetch reads as not-found.
func (m *Manager) Get(key string) (string, bool) {
	if err := m.Load(); err != nil {
		return "", false
	}
	value, ok := m.values[key]
	return value, ok
}

// Keys returns the sorted names of all cached secrets.
func (m *Manager) Keys() []string {
	if err := m.Load(); err != nil {
		return nil
	}
	keys := make([]string, 0, len(m.values))
	for key := range m.values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Loaded reports whether the one-shot fetch has succeeded.
func (m *Manager) Loaded() bool { return m.loaded }
