package sqlsession

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/txsession/pkg/txcontext"
)

// holderKey is the registry key for a factory's session holder. Wrapping
// the factory keeps the binding private to this package even when other
// components bind the same factory value for their own purposes.
type holderKey struct {
	factory Factory
}

// Coordinator implements the session sharing policy: one session per
// ambient transaction, otherwise one session per call. It is stateless
// apart from its logger; all bookkeeping lives in the execution context's
// txcontext.Registry.
type Coordinator struct {
	log *slog.Logger
}

// CoordinatorOption configures a Coordinator.
type CoordinatorOption func(*Coordinator)

// WithLogger sets the structured logger used for debug logging.
func WithLogger(log *slog.Logger) CoordinatorOption {
	return func(c *Coordinator) {
		if log != nil {
			c.log = log
		}
	}
}

// NewCoordinator creates a session coordinator.
func NewCoordinator(opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{log: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Acquire returns the session bound to the ambient transaction of ctx,
// opening and binding a new one when none exists. Outside a transaction it
// always opens a fresh session that the caller must pass to Release.
//
// Requesting an executor mode different from the one already bound fails
// with ErrExecutorModeMismatch without mutating the registry.
func (c *Coordinator) Acquire(ctx context.Context, factory Factory, mode ExecutorMode, translator ErrorTranslator) (Session, error) {
	if factory == nil {
		return nil, ErrNilFactory
	}
	if mode == ModeDefault {
		mode = factory.DefaultExecutorMode()
	}

	if h := c.boundHolder(ctx, factory); h != nil && h.synchronized() {
		if h.executorMode() != mode {
			return nil, ErrExecutorModeMismatch
		}
		h.requested()
		c.log.DebugContext(ctx, "fetched session from current transaction", slog.String("executor_mode", mode.String()))
		return h.session, nil
	}

	c.log.DebugContext(ctx, "creating a new session", slog.String("executor_mode", mode.String()))
	session, err := factory.OpenSession(ctx, mode)
	if err != nil {
		return nil, err
	}

	if err := c.registerHolder(ctx, factory, mode, translator, session); err != nil {
		_ = session.Close()
		return nil, err
	}
	return session, nil
}

// registerHolder binds the freshly opened session into the ambient registry
// and registers its transaction synchronization, provided synchronization is
// active and the factory can cooperate. A factory that cannot cooperate is
// skipped silently unless its underlying data source is itself managed
// transactionally, which would make sharing unsafe.
func (c *Coordinator) registerHolder(ctx context.Context, factory Factory, mode ExecutorMode, translator ErrorTranslator, session Session) error {
	if !txcontext.SynchronizationActive(ctx) {
		c.log.DebugContext(ctx, "session not registered for synchronization: synchronization is not active")
		return nil
	}
	reg, ok := txcontext.RegistryFromContext(ctx)
	if !ok {
		c.log.DebugContext(ctx, "session not registered for synchronization: no ambient registry")
		return nil
	}

	if ta, ok := factory.(TransactionAware); !ok || !ta.TransactionAware() {
		if keyer, ok := factory.(DataSourceKeyer); ok {
			if _, bound := reg.Get(keyer.DataSourceKey()); bound {
				return ErrUnsupportedTransactionBinding
			}
		}
		c.log.DebugContext(ctx, "session not registered for synchronization: data source is not transactional")
		return nil
	}

	h := newSessionHolder(session, mode, translator)
	if err := reg.Bind(holderKey{factory: factory}, h); err != nil {
		return err
	}
	sync := &sessionSynchronization{
		holder:   h,
		factory:  factory,
		registry: reg,
		log:      c.log,
		active:   true,
	}
	if err := txcontext.RegisterSynchronization(ctx, sync); err != nil {
		_, _ = reg.UnbindIfPossible(holderKey{factory: factory})
		return err
	}
	h.markSynchronized()
	h.requested()
	c.log.DebugContext(ctx, "registered transaction synchronization for session")
	return nil
}

// Release returns a session obtained from Acquire. A session bound to the
// ambient transaction only has its reference count decremented; closing is
// deferred to transaction completion because the session may be re-acquired
// before the transaction ends. Any other session is closed immediately.
func (c *Coordinator) Release(ctx context.Context, session Session, factory Factory) error {
	if session == nil {
		return ErrNilSession
	}
	if h := c.boundHolder(ctx, factory); h != nil && h.session == session {
		c.log.DebugContext(ctx, "releasing transactional session")
		h.released()
		return nil
	}
	c.log.DebugContext(ctx, "closing non-transactional session")
	return session.Close()
}

// IsTransactional reports whether session is the one bound to the ambient
// transaction for factory. The facade uses it to decide whether to
// self-commit or defer the commit to the transaction manager.
func (c *Coordinator) IsTransactional(ctx context.Context, session Session, factory Factory) bool {
	h := c.boundHolder(ctx, factory)
	return h != nil && h.session == session
}

func (c *Coordinator) boundHolder(ctx context.Context, factory Factory) *sessionHolder {
	if factory == nil {
		return nil
	}
	reg, ok := txcontext.RegistryFromContext(ctx)
	if !ok {
		return nil
	}
	v, ok := reg.Get(holderKey{factory: factory})
	if !ok {
		return nil
	}
	h, _ := v.(*sessionHolder)
	return h
}
