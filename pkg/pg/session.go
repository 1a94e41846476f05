package pg

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/txsession/pkg/sqlsession"
)

// session is one unit of work over a single pooled connection. All driver
// failures are wrapped as sqlsession.PersistenceError so the coordinator
// and facade can recognize the failure kind.
//
// The transaction begins lazily on the first statement. Commit flushes any
// queued batch and commits the transaction; Close rolls back whatever was
// not committed and returns the connection to the pool.
type session struct {
	id    uuid.UUID
	conn  *pgxpool.Conn
	mode  sqlsession.ExecutorMode
	log   *slog.Logger
	tx    pgx.Tx
	batch *pgx.Batch
	dirty bool
	done  bool
}

var _ sqlsession.Session = (*session)(nil)

func (s *session) begin(ctx context.Context) (pgx.Tx, error) {
	if s.tx != nil {
		return s.tx, nil
	}
	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return nil, sqlsession.NewPersistenceError(err)
	}
	s.tx = tx
	return tx, nil
}

func (s *session) SelectOne(ctx context.Context, query string, args ...any) (any, error) {
	rows, err := s.selectMaps(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	switch len(rows) {
	case 0:
		return nil, nil
	case 1:
		return rows[0], nil
	default:
		return nil, sqlsession.NewPersistenceError(ErrTooManyRows)
	}
}

func (s *session) SelectList(ctx context.Context, query string, args ...any) ([]any, error) {
	rows, err := s.selectMaps(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	out := make([]any, len(rows))
	for i, r := range rows {
		out[i] = r
	}
	return out, nil
}

func (s *session) selectMaps(ctx context.Context, query string, args ...any) ([]map[string]any, error) {
	if s.done {
		return nil, ErrSessionClosed
	}
	// Flush queued writes first so reads observe them within the session.
	if err := s.flush(ctx); err != nil {
		return nil, err
	}
	tx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, sqlsession.NewPersistenceError(err)
	}
	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, sqlsession.NewPersistenceError(err)
	}
	return maps, nil
}

func (s *session) Exec(ctx context.Context, stmt string, args ...any) (int64, error) {
	if s.done {
		return 0, ErrSessionClosed
	}
	if s.mode == sqlsession.ModeBatch {
		if s.batch == nil {
			s.batch = &pgx.Batch{}
		}
		s.batch.Queue(stmt, args...)
		s.dirty = true
		return 0, nil
	}
	tx, err := s.begin(ctx)
	if err != nil {
		return 0, err
	}
	tag, err := tx.Exec(ctx, stmt, args...)
	if err != nil {
		return 0, sqlsession.NewPersistenceError(err)
	}
	s.dirty = true
	return tag.RowsAffected(), nil
}

// flush sends the queued batch, if any.
func (s *session) flush(ctx context.Context) error {
	if s.batch == nil || s.batch.Len() == 0 {
		s.batch = nil
		return nil
	}
	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}
	n := s.batch.Len()
	br := tx.SendBatch(ctx, s.batch)
	s.batch = nil
	for range n {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return sqlsession.NewPersistenceError(err)
		}
	}
	if err := br.Close(); err != nil {
		return sqlsession.NewPersistenceError(err)
	}
	s.log.DebugContext(ctx, "flushed batched statements",
		slog.String("session_id", s.id.String()),
		slog.Int("statements", n),
	)
	return nil
}

// Commit flushes batched work and commits the transaction when a statement
// ran or force is set. With neither, there is no boundary to end.
func (s *session) Commit(ctx context.Context, force bool) error {
	if s.done {
		return ErrSessionClosed
	}
	if err := s.flush(ctx); err != nil {
		return err
	}
	if s.tx == nil || (!s.dirty && !force) {
		return nil
	}
	if err := s.tx.Commit(ctx); err != nil {
		return sqlsession.NewPersistenceError(err)
	}
	s.log.DebugContext(ctx, "committed postgres session", slog.String("session_id", s.id.String()))
	s.tx = nil
	s.dirty = false
	return nil
}

// Rollback discards batched work and rolls back the transaction when a
// statement ran or force is set.
func (s *session) Rollback(ctx context.Context, force bool) error {
	if s.done {
		return ErrSessionClosed
	}
	s.batch = nil
	if s.tx == nil || (!s.dirty && !force) {
		return nil
	}
	if err := s.tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return sqlsession.NewPersistenceError(err)
	}
	s.log.DebugContext(ctx, "rolled back postgres session", slog.String("session_id", s.id.String()))
	s.tx = nil
	s.dirty = false
	return nil
}

// Close rolls back uncommitted work and returns the connection to the pool.
// Closing an already closed session is a no-op.
func (s *session) Close() error {
	if s.done {
		return nil
	}
	s.done = true
	s.batch = nil
	if s.tx != nil {
		// Completion callbacks run without the original request context.
		if err := s.tx.Rollback(context.Background()); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			s.conn.Release()
			return sqlsession.NewPersistenceError(err)
		}
		s.tx = nil
	}
	s.conn.Release()
	s.log.Debug("closed postgres session", slog.String("session_id", s.id.String()))
	return nil
}

// Connection returns the pooled connection backing this session.
func (s *session) Connection() any {
	return s.conn
}
