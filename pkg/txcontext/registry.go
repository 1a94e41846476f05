package txcontext

import (
	"context"
	"sync"
)

// Registry is a key to resource store scoped to a single execution context.
// It replaces implicit thread-local state: the registry travels through
// context.Context, so every logical task owns exactly one isolated set of
// bindings and no resource is ever shared across concurrent contexts.
//
// The mutex only serializes reentrant access from nested calls within the
// owning context; cross-context sharing remains a caller error.
type Registry struct {
	mu        sync.Mutex
	resources map[any]any
}

// NewRegistry creates an empty registry for one execution context.
func NewRegistry() *Registry {
	return &Registry{resources: make(map[any]any)}
}

// Get returns the resource bound for key, if any. No side effects.
func (r *Registry) Get(key any) (any, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.resources[key]
	return v, ok
}

// Bind associates value with key. At most one binding per key may exist;
// binding an occupied key returns ErrAlreadyBound.
func (r *Registry) Bind(key, value any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.resources[key]; ok {
		return ErrAlreadyBound
	}
	r.resources[key] = value
	return nil
}

// Unbind removes the binding for key and returns the bound resource.
// Returns ErrNotBound if the key has no binding.
func (r *Registry) Unbind(key any) (any, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.resources[key]
	if !ok {
		return nil, ErrNotBound
	}
	delete(r.resources, key)
	return v, nil
}

// UnbindIfPossible removes the binding for key if present. Unlike Unbind it
// tolerates an absent binding, which happens when transaction completion is
// observed on a different context than the one that created the binding.
func (r *Registry) UnbindIfPossible(key any) (any, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.resources[key]
	if ok {
		delete(r.resources, key)
	}
	return v, ok
}

// Suspend removes the binding for key without discarding it, returning the
// resource so it can be rebound later via Resume. A nested transaction
// started while the binding is suspended will not observe it.
func (r *Registry) Suspend(key any) (any, bool) {
	return r.UnbindIfPossible(key)
}

// Resume rebinds a previously suspended resource.
func (r *Registry) Resume(key, value any) error {
	return r.Bind(key, value)
}

type registryKey struct{}

// WithRegistry returns a context carrying a fresh Registry. If the context
// already carries one, it is returned unchanged so nested transaction scopes
// share the bindings of their execution context.
func WithRegistry(ctx context.Context) context.Context {
	if _, ok := RegistryFromContext(ctx); ok {
		return ctx
	}
	return context.WithValue(ctx, registryKey{}, NewRegistry())
}

// RegistryFromContext returns the registry of the current execution context.
func RegistryFromContext(ctx context.Context) (*Registry, bool) {
	r, ok := ctx.Value(registryKey{}).(*Registry)
	return r, ok
}
