package txcontext

import (
	"context"
	"sync"
)

// Status reports how a transaction completed.
type Status int

const (
	// StatusCommitted means the transaction committed successfully.
	StatusCommitted Status = iota
	// StatusRolledBack means the transaction was rolled back.
	StatusRolledBack
	// StatusUnknown means the outcome could not be determined.
	StatusUnknown
)

func (s Status) String() string {
	switch s {
	case StatusCommitted:
		return "committed"
	case StatusRolledBack:
		return "rolled_back"
	default:
		return "unknown"
	}
}

// Synchronization receives ordered transaction lifecycle callbacks. For a
// given transaction, BeforeCommit always precedes BeforeCompletion, which
// always precedes AfterCompletion. Suspend and Resume may interleave any
// number of times before completion.
//
// AfterCompletion may be invoked from a different execution context than the
// one the transaction ran on; implementations must tolerate that.
type Synchronization interface {
	// Suspend is called when the transaction is suspended so a nested
	// transaction can run. Implementations detach their registry bindings.
	Suspend(ctx context.Context)
	// Resume is called when a suspended transaction becomes active again.
	Resume(ctx context.Context)
	// BeforeCommit runs before the transaction manager commits. Returning
	// an error aborts the commit and rolls the transaction back.
	BeforeCommit(ctx context.Context, readOnly bool) error
	// BeforeCompletion runs before commit or rollback physically happens.
	BeforeCompletion(ctx context.Context)
	// AfterCompletion runs after the transaction completed with the given
	// status. It must be idempotent.
	AfterCompletion(ctx context.Context, status Status)
}

// Scope represents one ambient transaction: its synchronization list and
// activity flags. Scopes are carried in context.Context and stack naturally
// when transactions nest.
type Scope struct {
	mu       sync.Mutex
	syncs    []Synchronization
	active   bool
	actual   bool
	readOnly bool
}

func (s *Scope) isActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

func (s *Scope) deactivate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = false
}

func (s *Scope) register(sync Synchronization) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return ErrNoTransaction
	}
	s.syncs = append(s.syncs, sync)
	return nil
}

// synchronizations returns a snapshot so callbacks can run without holding
// the scope lock (a callback may register further resources).
func (s *Scope) synchronizations() []Synchronization {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Synchronization, len(s.syncs))
	copy(out, s.syncs)
	return out
}

type scopeKey struct{}

func withScope(ctx context.Context, s *Scope) context.Context {
	return context.WithValue(ctx, scopeKey{}, s)
}

func scopeFromContext(ctx context.Context) (*Scope, bool) {
	s, ok := ctx.Value(scopeKey{}).(*Scope)
	return s, ok
}

// SynchronizationActive reports whether a transaction scope accepting
// synchronizations is active in this context.
func SynchronizationActive(ctx context.Context) bool {
	s, ok := scopeFromContext(ctx)
	return ok && s.isActive()
}

// ActualTransactionActive reports whether the active scope is backed by an
// actual transaction, as opposed to a synchronization-only scope.
func ActualTransactionActive(ctx context.Context) bool {
	s, ok := scopeFromContext(ctx)
	if !ok || !s.isActive() {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.actual
}

// TransactionReadOnly reports whether the active scope was started read-only.
func TransactionReadOnly(ctx context.Context) bool {
	s, ok := scopeFromContext(ctx)
	if !ok || !s.isActive() {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readOnly
}

// RegisterSynchronization registers a lifecycle callback with the active
// transaction scope. Fails with ErrNoTransaction outside a transaction.
func RegisterSynchronization(ctx context.Context, sync Synchronization) error {
	if sync == nil {
		return ErrNilSynchronization
	}
	s, ok := scopeFromContext(ctx)
	if !ok {
		return ErrNoTransaction
	}
	return s.register(sync)
}
