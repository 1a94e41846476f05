package sqlsession_test

import (
	"context"

	"github.com/dmitrymomot/txsession/pkg/sqlsession"
)

// fakeSession records lifecycle calls so tests can assert commit and close
// counts precisely.
type fakeSession struct {
	mode      sqlsession.ExecutorMode
	commits   []bool // force flag per commit
	rollbacks int
	closes    int

	row       any
	opErr     error
	commitErr error
}

func (s *fakeSession) SelectOne(ctx context.Context, query string, args ...any) (any, error) {
	if s.opErr != nil {
		return nil, s.opErr
	}
	return s.row, nil
}

func (s *fakeSession) SelectList(ctx context.Context, query string, args ...any) ([]any, error) {
	if s.opErr != nil {
		return nil, s.opErr
	}
	if s.row == nil {
		return nil, nil
	}
	return []any{s.row}, nil
}

func (s *fakeSession) Exec(ctx context.Context, stmt string, args ...any) (int64, error) {
	if s.opErr != nil {
		return 0, s.opErr
	}
	return 1, nil
}

func (s *fakeSession) Commit(ctx context.Context, force bool) error {
	if s.commitErr != nil {
		return s.commitErr
	}
	s.commits = append(s.commits, force)
	return nil
}

func (s *fakeSession) Rollback(ctx context.Context, force bool) error {
	s.rollbacks++
	return nil
}

func (s *fakeSession) Close() error {
	s.closes++
	return nil
}

func (s *fakeSession) Connection() any { return s }

// fakeFactory opens fakeSessions and remembers every one it opened.
type fakeFactory struct {
	mode   sqlsession.ExecutorMode
	aware  bool
	opened []*fakeSession

	// template for the next opened session
	row       any
	opErr     error
	commitErr error
}

func newFakeFactory() *fakeFactory {
	return &fakeFactory{mode: sqlsession.ModeSimple, aware: true}
}

func (f *fakeFactory) OpenSession(ctx context.Context, mode sqlsession.ExecutorMode) (sqlsession.Session, error) {
	s := &fakeSession{
		mode:      mode,
		row:       f.row,
		opErr:     f.opErr,
		commitErr: f.commitErr,
	}
	f.opened = append(f.opened, s)
	return s, nil
}

func (f *fakeFactory) DefaultExecutorMode() sqlsession.ExecutorMode { return f.mode }

func (f *fakeFactory) TransactionAware() bool { return f.aware }

// keyedFactory is a non-cooperating factory that still advertises the
// registry key of its underlying data source.
type keyedFactory struct {
	fakeFactory
	key any
}

func (f *keyedFactory) DataSourceKey() any { return f.key }
