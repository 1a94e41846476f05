package sqlsession

import "context"

// ManagedSession is a session-shaped facade that is safe to share between
// call sites: every operation re-resolves the active session through the
// coordinator, so the facade never caches a session across a transaction
// suspend/resume boundary.
//
// Per call it acquires the ambient (or a fresh) session, delegates the
// operation, self-commits when the session is not bound to an ambient
// transaction, and releases the session exactly once on every exit path.
type ManagedSession struct {
	factory    Factory
	mode       ExecutorMode
	translator ErrorTranslator
	coord      *Coordinator
}

var _ Session = (*ManagedSession)(nil)

// ManagedOption configures a ManagedSession.
type ManagedOption func(*ManagedSession)

// WithExecutorMode pins the executor mode used for every acquired session.
func WithExecutorMode(mode ExecutorMode) ManagedOption {
	return func(m *ManagedSession) { m.mode = mode }
}

// WithErrorTranslator sets the translator applied to persistence-kind
// failures raised by delegated operations.
func WithErrorTranslator(t ErrorTranslator) ManagedOption {
	return func(m *ManagedSession) { m.translator = t }
}

// WithCoordinator sets the coordinator; a default one is created otherwise.
func WithCoordinator(c *Coordinator) ManagedOption {
	return func(m *ManagedSession) {
		if c != nil {
			m.coord = c
		}
	}
}

// NewManagedSession creates a shareable session facade over factory.
func NewManagedSession(factory Factory, opts ...ManagedOption) *ManagedSession {
	m := &ManagedSession{
		factory: factory,
		mode:    ModeDefault,
	}
	if factory != nil {
		m.mode = factory.DefaultExecutorMode()
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.coord == nil {
		m.coord = NewCoordinator()
	}
	return m
}

// Factory returns the factory the facade opens sessions from.
func (m *ManagedSession) Factory() Factory {
	return m.factory
}

// ExecutorMode returns the executor mode the facade acquires sessions with.
func (m *ManagedSession) ExecutorMode() ExecutorMode {
	return m.mode
}

func (m *ManagedSession) SelectOne(ctx context.Context, query string, args ...any) (any, error) {
	var row any
	err := m.execute(ctx, func(ctx context.Context, s Session) error {
		var opErr error
		row, opErr = s.SelectOne(ctx, query, args...)
		return opErr
	})
	if err != nil {
		return nil, err
	}
	return row, nil
}

func (m *ManagedSession) SelectList(ctx context.Context, query string, args ...any) ([]any, error) {
	var rows []any
	err := m.execute(ctx, func(ctx context.Context, s Session) error {
		var opErr error
		rows, opErr = s.SelectList(ctx, query, args...)
		return opErr
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (m *ManagedSession) Exec(ctx context.Context, stmt string, args ...any) (int64, error) {
	var affected int64
	err := m.execute(ctx, func(ctx context.Context, s Session) error {
		var opErr error
		affected, opErr = s.Exec(ctx, stmt, args...)
		return opErr
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}

// Connection resolves the active session and returns its connection handle.
// The handle is only valid inside an ambient transaction, where the session
// outlives the call.
func (m *ManagedSession) Connection() any {
	var conn any
	_ = m.execute(context.Background(), func(_ context.Context, s Session) error {
		conn = s.Connection()
		return nil
	})
	return conn
}

// Commit is rejected: the facade decides commit boundaries itself.
func (m *ManagedSession) Commit(ctx context.Context, force bool) error {
	return ErrManualTransactionControl
}

// Rollback is rejected: the facade decides rollback boundaries itself.
func (m *ManagedSession) Rollback(ctx context.Context, force bool) error {
	return ErrManualTransactionControl
}

// Close is rejected: session lifetime is owned by the coordinator.
func (m *ManagedSession) Close() error {
	return ErrManualTransactionControl
}

// execute implements the acquire, delegate, decide-commit, release protocol
// shared by every facade operation. Release runs exactly once per
// invocation regardless of how the delegated operation exits.
func (m *ManagedSession) execute(ctx context.Context, op func(ctx context.Context, s Session) error) error {
	session, err := m.coord.Acquire(ctx, m.factory, m.mode, m.translator)
	if err != nil {
		return err
	}

	err = func() error {
		if opErr := op(ctx, session); opErr != nil {
			return opErr
		}
		if !m.coord.IsTransactional(ctx, session, m.factory) {
			// Force the commit even when nothing was written: some engines
			// require an explicit boundary before the connection can be
			// returned to its pool.
			return session.Commit(ctx, true)
		}
		return nil
	}()

	if err != nil {
		if m.translator != nil {
			if _, ok := AsPersistenceError(err); ok {
				// Close the session before translating so a failing
				// translator cannot leak the connection.
				_ = m.coord.Release(ctx, session, m.factory)
				if translated := m.translator.Translate(err); translated != nil {
					return translated
				}
				return err
			}
		}
		_ = m.coord.Release(ctx, session, m.factory)
		return err
	}

	return m.coord.Release(ctx, session, m.factory)
}
