package secrets

import (
	"context"
	"errors"
	"testing"
)

// fakeBackend counts fetches and can be primed to fail.
type fakeBackend struct {
	values  map[string]string
	err     error
	fetches int
}

func (f *fakeBackend) FetchAll(_ context.Context, basePath string) (map[string]string, error) {
	f.fetches++
	if f.err != nil {
		return nil, f.err
	}
	return f.values, nil
}

func TestManagerSingleFetch(t *testing.T) {
	backend := &fakeBackend{values: map[string]string{"DB_PASSWORD": "hunter2", "API_KEY": "abc"}}
	m := NewManager(backend, "app/prod")

	if v, ok := m.Get("DB_PASSWORD"); !ok || v != "hunter2" {
		t.Errorf("Get(DB_PASSWORD) = %q, %t", v, ok)
	}
	if v, ok := m.Get("API_KEY"); !ok || v != "abc" {
		t.Errorf("Get(API_KEY) = %q, %t", v, ok)
	}
	if _, ok := m.Get("MISSING"); ok {
		t.Error("Expected MISSING to be absent")
	}

	// Three lookups, one backend call.
	if backend.fetches != 1 {
		t.Errorf("Expected exactly 1 fetch, got %d", backend.fetches)
	}
}

func TestManagerKeys(t *testing.T) {
	backend := &fakeBackend{values: map[string]string{"B": "2", "A": "1"}}
	m := NewManager(backend, "")

	keys := m.Keys()
	if len(keys) != 2 || keys[0] != "A" || keys[1] != "B" {
		t.Errorf("Keys() = %v, want [A B]", keys)
	}
	if backend.fetches != 1 {
		t.Errorf("Expected exactly 1 fetch, got %d", backend.fetches)
	}
}

func TestManagerDegradesOnBackendFailure(t *testing.T) {
	backend := &fakeBackend{err: &BackendError{Op: "read", Err: errors.New("connection refused")}}
	m := NewManager(backend, "app")

	if _, ok := m.Get("ANY"); ok {
		t.Error("Expected lookup to miss when the backend is down")
	}
	if m.Loaded() {
		t.Error("Expected cache to stay unloaded after a failed fetch")
	}

	// The failure did not poison the cache: recovery is picked up by the
	// next lookup.
	backend.err = nil
	backend.values = map[string]string{"ANY": "value"}
	if v, ok := m.Get("ANY"); !ok || v != "value" {
		t.Errorf("Get after recovery = %q, %t", v, ok)
	}
}

func TestManagerStrictSurfacesFailure(t *testing.T) {
	backend := &fakeBackend{err: &BackendError{Op: "read", Err: errors.New("permission denied")}}
	m := NewManager(backend, "app")
	m.SetStrict(true)

	err := m.Load()
	var be *BackendError
	if !errors.As(err, &be) {
		t.Fatalf("Expected *BackendError, got: %v", err)
	}
}

func TestManagerNilBackend(t *testing.T) {
	m := NewManager(nil, "")
	if _, ok := m.Get("ANY"); ok {
		t.Error("Expected the null backend to hold no secrets")
	}
	if err := m.Load(); err != nil {
		t.Errorf("Expected the null backend to never fail, got: %v", err)
	}
}

func TestConfigFromEnv(t *testing.T) {
	env := map[string]string{
		"VAULT_ADDR":    "https://vault.internal:8200",
		"VAULT_TOKEN":   "s.token",
		"VAULT_PATH":    "app/prod",
		"VAULT_TIMEOUT": "10",
	}
	lookup := func(name string) (string, bool) {
		v, ok := env[name]
		return v, ok
	}

	cfg := ConfigFromEnv(lookup)
	if cfg.Address != "https://vault.internal:8200" {
		t.Errorf("Address = %q", cfg.Address)
	}
	if cfg.Token != "s.token" {
		t.Errorf("Token = %q", cfg.Token)
	}
	if cfg.BasePath != "app/prod" {
		t.Errorf("BasePath = %q", cfg.BasePath)
	}
	if cfg.Timeout.Seconds() != 10 {
		t.Errorf("Timeout = %v, want 10s", cfg.Timeout)
	}
}

func TestConfigFromEnvDefaults(t *testing.T) {
	cfg := ConfigFromEnv(func(string) (string, bool) { return "", false })
	if cfg.Address != "" {
		t.Errorf("Expected empty address, got %q", cfg.Address)
	}
	if cfg.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", cfg.Timeout, DefaultTimeout)
	}
}
