// Package envault is a typed environment-variable manager. It merges the
// process environment, optional (possibly encrypted) dotenv files,
// in-memory streams and a remote secrets store under a defined precedence,
// then exposes the result through typed accessors.
package envault

import (
	"sort"

	"github.com/envaultproject/envault/secrets"
)

// Env is the resolved environment produced by one resolution pass. Every
// key and value is a string, matching the process environment contract.
// Env is not safe for concurrent use.
type Env struct {
	snapshot      map[string]string
	exported      map[string]struct{}
	sink          Sink
	secrets       *secrets.Manager
	preferSecrets bool
	logger        Logger
}

// New performs a resolution pass over the configured sources and returns
// the effective environment. With no options it simply wraps the current
// process environment (and whatever secrets backend the VAULT_* variables
// describe).
func New(opts ...Option) (*Env, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return resolve(cfg)
}

// Lookup returns the value for key and whether it was found. The resolved
// snapshot is consulted first, then the secrets store for keys not found
// locally. When the backend is the preferred source the order inverts and
// a store value wins over the local one.
func (e *Env) Lookup(key string) (string, bool) {
	value, ok := e.snapshot[key]
	if (!ok || e.preferSecrets) && e.secrets != nil {
		if secret, found := e.secrets.Get(key); found {
			return secret, true
		}
	}
	return value, ok
}

// Get returns the value for key, or def when unset.
func (e *Env) Get(key, def string) string {
	if value, ok := e.Lookup(key); ok {
		return value
	}
	return def
}

// Int reads key as an integer. An unset key yields def; a value that will
// not convert yields def and a *ConversionError.
func (e *Env) Int(key string, def int) (int, error) {
	raw, ok := e.Lookup(key)
	if !ok {
		return def, nil
	}
	value, err := ParseInt(raw)
	if err != nil {
		return def, &ConversionError{Key: key, Value: raw, Kind: "int", Err: err}
	}
	return value, nil
}

// Float reads key as a float64.
func (e *Env) Float(key string, def float64) (float64, error) {
	raw, ok := e.Lookup(key)
	if !ok {
		return def, nil
	}
	value, err := ParseFloat(raw)
	if err != nil {
		return def, &ConversionError{Key: key, Value: raw, Kind: "float", Err: err}
	}
	return value, nil
}

// Bool reads key as a boolean. See ParseBool for the accepted spellings.
func (e *Env) Bool(key string, def bool) (bool, error) {
	raw, ok := e.Lookup(key)
	if !ok {
		return def, nil
	}
	value, err := ParseBool(raw)
	if err != nil {
		return def, &ConversionError{Key: key, Value: raw, Kind: "bool", Err: err}
	}
	return value, nil
}

// List reads key as a comma-separated list. An unset key yields def.
func (e *Env) List(key string, def []string) []string {
	raw, ok := e.Lookup(key)
	if !ok {
		return def
	}
	return ParseList(raw)
}

// IsSet reports whether key resolves to a value.
func (e *Env) IsSet(key string) bool {
	_, ok := e.Lookup(key)
	return ok
}

// IsAllSet reports whether every named key resolves.
func (e *Env) IsAllSet(keys ...string) bool {
	for _, key := range keys {
		if !e.IsSet(key) {
			return false
		}
	}
	return true
}

// IsAnySet reports whether at least one named key resolves.
func (e *Env) IsAnySet(keys ...string) bool {
	for _, key := range keys {
		if e.IsSet(key) {
			return true
		}
	}
	return false
}

// Set updates the snapshot only. Use Export to push to the live
// environment.
func (e *Env) Set(key, value string) {
	e.snapshot[key] = value
}

// Unset removes key from the snapshot.
func (e *Env) Unset(key string) {
	delete(e.snapshot, key)
}

// Keys returns the sorted keys of the resolved snapshot. Secrets are not
// included unless they were merged.
func (e *Env) Keys() []string {
	keys := make([]string, 0, len(e.snapshot))
	for key := range e.snapshot {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Environ returns the snapshot in "key=value" form, sorted.
func (e *Env) Environ() []string {
	environ := make([]string, 0, len(e.snapshot))
	for key, value := range e.snapshot {
		environ = append(environ, key+"="+value)
	}
	sort.Strings(environ)
	return environ
}

// Export writes the whole snapshot to the sink, regardless of the update
// setting the environment was resolved with.
func (e *Env) Export() error {
	return pushAll(e.sink, e.snapshot)
}

// Secrets exposes the secrets manager backing this environment.
func (e *Env) Secrets() *secrets.Manager {
	return e.secrets
}
