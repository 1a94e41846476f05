package redis

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/txsession/pkg/sqlsession"
)

// session is one unit of work against Redis. Statements are raw commands:
// the statement string is the command name and args are its arguments.
//
// In batch mode mutating commands queue into a transactional pipeline that
// is executed atomically (MULTI/EXEC) at commit and discarded on rollback.
// Reads always go to the server directly, so queued writes only become
// visible after commit — standard Redis transaction semantics.
type session struct {
	id     uuid.UUID
	client *redis.Client
	mode   sqlsession.ExecutorMode
	log    *slog.Logger
	pipe   redis.Pipeliner
	dirty  bool
	done   bool
}

var _ sqlsession.Session = (*session)(nil)

func commandArgs(stmt string, args []any) []any {
	out := make([]any, 0, len(args)+1)
	out = append(out, stmt)
	return append(out, args...)
}

func (s *session) SelectOne(ctx context.Context, query string, args ...any) (any, error) {
	if s.done {
		return nil, ErrSessionClosed
	}
	v, err := s.client.Do(ctx, commandArgs(query, args)...).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, sqlsession.NewPersistenceError(err)
	}
	return v, nil
}

func (s *session) SelectList(ctx context.Context, query string, args ...any) ([]any, error) {
	v, err := s.SelectOne(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	switch reply := v.(type) {
	case nil:
		return nil, nil
	case []any:
		return reply, nil
	default:
		return []any{reply}, nil
	}
}

func (s *session) Exec(ctx context.Context, stmt string, args ...any) (int64, error) {
	if s.done {
		return 0, ErrSessionClosed
	}
	if s.mode == sqlsession.ModeBatch {
		if s.pipe == nil {
			s.pipe = s.client.TxPipeline()
		}
		s.pipe.Do(ctx, commandArgs(stmt, args)...)
		s.dirty = true
		return 0, nil
	}
	if err := s.client.Do(ctx, commandArgs(stmt, args)...).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return 0, sqlsession.NewPersistenceError(err)
	}
	s.dirty = true
	return 1, nil
}

// Commit executes the queued pipeline. With nothing queued and no force
// there is no boundary to end; Redis needs no explicit commit for
// immediate commands.
func (s *session) Commit(ctx context.Context, force bool) error {
	if s.done {
		return ErrSessionClosed
	}
	if s.pipe == nil || !s.dirty {
		return nil
	}
	if _, err := s.pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		s.pipe = nil
		return sqlsession.NewPersistenceError(err)
	}
	s.log.DebugContext(ctx, "committed redis pipeline", slog.String("session_id", s.id.String()))
	s.pipe = nil
	s.dirty = false
	return nil
}

// Rollback discards the queued pipeline.
func (s *session) Rollback(ctx context.Context, force bool) error {
	if s.done {
		return ErrSessionClosed
	}
	if s.pipe != nil {
		s.pipe.Discard()
		s.pipe = nil
	}
	s.dirty = false
	return nil
}

// Close discards uncommitted work. The client is shared with the factory,
// so there is no connection to release.
func (s *session) Close() error {
	if s.done {
		return nil
	}
	s.done = true
	if s.pipe != nil {
		s.pipe.Discard()
		s.pipe = nil
	}
	s.log.Debug("closed redis session", slog.String("session_id", s.id.String()))
	return nil
}

// Connection returns the shared client backing this session.
func (s *session) Connection() any {
	return s.client
}
