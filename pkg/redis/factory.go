package redis

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/txsession/pkg/sqlsession"
)

// Factory opens coordinated sessions over a go-redis client. It exists to
// show that the session coordinator is engine-agnostic: a Redis session
// buffers commands in a MULTI/EXEC pipeline and flushes them at commit,
// mirroring the batch executor of the SQL backend.
type Factory struct {
	client *redis.Client
	mode   sqlsession.ExecutorMode
	log    *slog.Logger
}

var (
	_ sqlsession.Factory          = (*Factory)(nil)
	_ sqlsession.TransactionAware = (*Factory)(nil)
	_ sqlsession.DataSourceKeyer  = (*Factory)(nil)
)

// FactoryOption configures a Factory.
type FactoryOption func(*Factory)

// WithDefaultExecutorMode sets the executor mode used when callers do not
// request one explicitly. Defaults to ModeBatch, the natural fit for
// MULTI/EXEC pipelining.
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

// NewFactory creates a session factory over client.
func NewFactory(client *redis.Client, opts ...FactoryOption) *Factory {
	f := &Factory{
		client: client,
		mode:   sqlsession.ModeBatch,
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// OpenSession creates a session over the shared client. Sessions do not
// hold a dedicated connection; batched sessions own a transactional
// pipeline instead.
func (f *Factory) OpenSession(ctx context.Context, mode sqlsession.ExecutorMode) (sqlsession.Session, error) {
	if mode == sqlsession.ModeDefault {
		mode = f.mode
	}
	s := &session{
		id:     uuid.New(),
		client: f.client,
		mode:   mode,
		log:    f.log,
	}
	f.log.DebugContext(ctx, "opened redis session",
		slog.String("session_id", s.id.String()),
		slog.String("executor_mode", mode.String()),
	)
	return s, nil
}

// DefaultExecutorMode returns the factory's default executor mode.
func (f *Factory) DefaultExecutorMode() sqlsession.ExecutorMode {
	return f.mode
}

// TransactionAware reports that redis sessions can participate in ambient
// transaction synchronization.
func (f *Factory) TransactionAware() bool {
	return true
}

// DataSourceKey identifies the underlying client in the ambient registry.
func (f *Factory) DataSourceKey() any {
	return f.client
}
