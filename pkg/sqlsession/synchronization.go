package sqlsession

import (
	"context"
	"log/slog"
	"sync"

	"github.com/dmitrymomot/txsession/pkg/txcontext"
)

// sessionSynchronization drives holder cleanup at transaction completion.
// It is registered with the ambient transaction manager exactly once per
// holder, at the moment the holder is first bound.
type sessionSynchronization struct {
	holder   *sessionHolder
	factory  Factory
	registry *txcontext.Registry
	log      *slog.Logger

	mu     sync.Mutex
	active bool
}

var _ txcontext.Synchronization = (*sessionSynchronization)(nil)

func (s *sessionSynchronization) isActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

func (s *sessionSynchronization) deactivate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = false
}

// Suspend detaches the holder from the ambient registry so a nested
// transaction gets its own session. The session itself stays open.
func (s *sessionSynchronization) Suspend(ctx context.Context) {
	if s.isActive() {
		s.log.DebugContext(ctx, "transaction synchronization suspending session")
		s.registry.Suspend(holderKey{factory: s.factory})
	}
}

// Resume rebinds the holder after a nested transaction completed.
func (s *sessionSynchronization) Resume(ctx context.Context) {
	if s.isActive() {
		s.log.DebugContext(ctx, "transaction synchronization resuming session")
		if err := s.registry.Resume(holderKey{factory: s.factory}, s.holder); err != nil {
			s.log.ErrorContext(ctx, "failed to resume session binding", slog.Any("error", err))
		}
	}
}

// BeforeCommit flushes the wrapped session so batched work is actually
// executed. It only runs under an actual transaction: in a
// synchronization-only scope there is nothing backing the commit.
func (s *sessionSynchronization) BeforeCommit(ctx context.Context, readOnly bool) error {
	if !txcontext.ActualTransactionActive(ctx) {
		return nil
	}
	s.log.DebugContext(ctx, "transaction synchronization committing session")
	if err := s.holder.session.Commit(ctx, false); err != nil {
		if s.holder.translator != nil {
			if _, ok := AsPersistenceError(err); ok {
				if translated := s.holder.translator.Translate(err); translated != nil {
					return translated
				}
			}
		}
		return err
	}
	return nil
}

// BeforeCompletion closes the session before commit or rollback physically
// happens, provided every caller has released it. This runs eagerly because
// AfterCompletion may be observed on a different execution context than the
// one the binding lives in.
func (s *sessionSynchronization) BeforeCompletion(ctx context.Context) {
	if !s.holder.open() {
		s.log.DebugContext(ctx, "transaction synchronization deregistering session")
		s.registry.UnbindIfPossible(holderKey{factory: s.factory})
		s.deactivate()
		s.log.DebugContext(ctx, "transaction synchronization closing session")
		if err := s.holder.session.Close(); err != nil {
			s.log.ErrorContext(ctx, "failed to close session", slog.Any("error", err))
		}
	}
}

// AfterCompletion is the idempotent final cleanup. The holder reset runs
// unconditionally so the handle is left consistent even when completion
// arrives on a context that never saw BeforeCompletion.
func (s *sessionSynchronization) AfterCompletion(ctx context.Context, status txcontext.Status) {
	if s.isActive() {
		s.log.DebugContext(ctx, "transaction synchronization deregistering session", slog.String("status", status.String()))
		s.registry.UnbindIfPossible(holderKey{factory: s.factory})
		s.deactivate()
		if err := s.holder.session.Close(); err != nil {
			s.log.ErrorContext(ctx, "failed to close session", slog.Any("error", err))
		}
	}
	s.holder.reset()
}
