// Package secrets provides read-only access to a remote secrets store with
// a lazy, all-or-nothing in-process cache. The store itself is a narrow
// capability: anything that can return the full secret set for a base path
// can serve as a backend.
package secrets

import (
	"context"
	"fmt"
)

// Backend fetches the complete secret mapping stored under basePath.
// Implementations may block on network I/O; they are expected to honour
// ctx cancellation and deadlines.
type Backend interface {
	FetchAll(ctx context.Context, basePath string) (map[string]string, error)
}

// BackendError wraps a connectivity, authentication or timeout failure from
// the remote store. The Manager degrades it to an empty secret set unless
// strict mode is requested.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("secrets backend %s: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// NullBackend is the no-op backend selected when no store is configured.
// It reports an empty secret set and never fails, so code paths that
// consult secrets work identically with or without a reachable store.
type NullBackend struct{}

func (NullBackend) FetchAll(context.Context, string) (map[string]string, error) {
	return map[string]string{}, nil
}
