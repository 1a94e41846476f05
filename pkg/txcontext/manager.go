package txcontext

import (
	"context"
	"log/slog"
)

// Manager drives transaction scopes and their synchronization callbacks.
// It owns the decision of when a transaction completes; resource adapters
// react to that decision through their registered Synchronizations.
//
// The manager deliberately knows nothing about connections or drivers. The
// physical commit or rollback of the underlying resource is performed by the
// synchronizations themselves during BeforeCommit and completion.
type Manager struct {
	log *slog.Logger
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithLogger sets the structured logger used for lifecycle debug logging.
func WithLogger(log *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

// NewManager creates a transaction manager.
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{log: slog.Default()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

type txOptions struct {
	actual   bool
	readOnly bool
}

// TxOption configures a single transaction.
type TxOption func(*txOptions)

// WithReadOnly marks the transaction read-only. The flag is forwarded to
// BeforeCommit so synchronizations can skip flushing batched work.
func WithReadOnly() TxOption {
	return func(o *txOptions) { o.readOnly = true }
}

// WithoutActualTransaction activates synchronization without an actual
// backing transaction. Synchronizations still receive completion callbacks,
// but BeforeCommit participants treat the scope as non-transactional.
func WithoutActualTransaction() TxOption {
	return func(o *txOptions) { o.actual = false }
}

// WithinTransaction executes fn inside the ambient transaction of ctx,
// starting a new one when none is active. Returning an error from fn rolls
// the transaction back; returning nil commits it.
//
// Callback ordering on success: BeforeCommit for every synchronization, then
// BeforeCompletion, then AfterCompletion(StatusCommitted). On failure,
// BeforeCommit is skipped and completion runs with StatusRolledBack.
func (m *Manager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error, opts ...TxOption) error {
	if s, ok := scopeFromContext(ctx); ok && s.isActive() {
		// Join the ambient transaction; the outer scope drives completion.
		return fn(ctx)
	}
	return m.run(ctx, fn, opts)
}

// WithinNewTransaction always executes fn in a fresh transaction. An active
// ambient transaction is suspended first: each of its synchronizations
// detaches its registry bindings so the inner transaction cannot observe
// them, and resumes in reverse registration order once the inner
// transaction completed.
func (m *Manager) WithinNewTransaction(ctx context.Context, fn func(ctx context.Context) error, opts ...TxOption) error {
	if outer, ok := scopeFromContext(ctx); ok && outer.isActive() {
		suspended := outer.synchronizations()
		m.log.DebugContext(ctx, "suspending ambient transaction", slog.Int("synchronizations", len(suspended)))
		for _, s := range suspended {
			s.Suspend(ctx)
		}
		defer func() {
			for i := len(suspended) - 1; i >= 0; i-- {
				suspended[i].Resume(ctx)
			}
			m.log.DebugContext(ctx, "resumed ambient transaction")
		}()
	}
	return m.run(ctx, fn, opts)
}

func (m *Manager) run(ctx context.Context, fn func(ctx context.Context) error, opts []TxOption) error {
	o := txOptions{actual: true}
	for _, opt := range opts {
		opt(&o)
	}

	ctx = WithRegistry(ctx)
	scope := &Scope{active: true, actual: o.actual, readOnly: o.readOnly}
	ctx = withScope(ctx, scope)

	m.log.DebugContext(ctx, "transaction started", slog.Bool("actual", o.actual), slog.Bool("read_only", o.readOnly))

	if err := fn(ctx); err != nil {
		m.complete(ctx, scope, StatusRolledBack)
		return err
	}
	if err := m.beforeCommit(ctx, scope); err != nil {
		m.complete(ctx, scope, StatusRolledBack)
		return err
	}
	m.complete(ctx, scope, StatusCommitted)
	return nil
}

func (m *Manager) beforeCommit(ctx context.Context, scope *Scope) error {
	readOnly := TransactionReadOnly(ctx)
	for _, s := range scope.synchronizations() {
		if err := s.BeforeCommit(ctx, readOnly); err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) complete(ctx context.Context, scope *Scope, status Status) {
	syncs := scope.synchronizations()
	for _, s := range syncs {
		s.BeforeCompletion(ctx)
	}
	scope.deactivate()
	for _, s := range syncs {
		s.AfterCompletion(ctx, status)
	}
	m.log.DebugContext(ctx, "transaction completed", slog.String("status", status.String()))
}
