package pg

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/txsession/pkg/sqlsession"
)

// Factory opens coordinated sessions over a pgx connection pool. A single
// factory instance is the resource identity the session coordinator keys
// its bookkeeping by, so share one factory per pool across all call sites.
type Factory struct {
	pool *pgxpool.Pool
	mode sqlsession.ExecutorMode
	log  *slog.Logger
}

var (
	_ sqlsession.Factory          = (*Factory)(nil)
	_ sqlsession.TransactionAware = (*Factory)(nil)
	_ sqlsession.DataSourceKeyer  = (*Factory)(nil)
)

// FactoryOption configures a Factory.
type FactoryOption func(*Factory)

// WithDefaultExecutorMode sets the executor mode used when callers do not
// request one explicitly. Defaults to ModeSimple.
func WithDefaultExecutorMode(mode sqlsession.ExecutorMode) FactoryOption {
	return func(f *Factory) {
		if mode != sqlsession.ModeDefault {
			f.mode = mode
		}
	}
}

// WithFactoryLogger sets the structured logger for session debug logging.
func WithFactoryLogger(log *slog.Logger) FactoryOption {
	return func(f *Factory) {
		if log != nil {
			f.log = log
		}
	}
}

// NewFactory creates a session factory over pool.
func NewFactory(pool *pgxpool.Pool, opts ...FactoryOption) *Factory {
	f := &Factory{
		pool: pool,
		mode: sqlsession.ModeSimple,
		log:  slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// OpenSession acquires a pooled connection and wraps it in a session. The
// session begins its transaction lazily, on the first executed statement.
func (f *Factory) OpenSession(ctx context.Context, mode sqlsession.ExecutorMode) (sqlsession.Session, error) {
	if mode == sqlsession.ModeDefault {
		mode = f.mode
	}
	conn, err := f.pool.Acquire(ctx)
	if err != nil {
		return nil, errors.Join(ErrFailedToOpenSession, err)
	}
	s := &session{
		id:   uuid.New(),
		conn: conn,
		mode: mode,
		log:  f.log,
	}
	f.log.DebugContext(ctx, "opened postgres session",
		slog.String("session_id", s.id.String()),
		slog.String("executor_mode", mode.String()),
	)
	return s, nil
}

// DefaultExecutorMode returns the factory's default executor mode.
func (f *Factory) DefaultExecutorMode() sqlsession.ExecutorMode {
	return f.mode
}

// TransactionAware reports that pg sessions can participate in ambient
// transaction synchronization.
func (f *Factory) TransactionAware() bool {
	return true
}

// DataSourceKey identifies the underlying pool in the ambient registry.
func (f *Factory) DataSourceKey() any {
	return f.pool
}
