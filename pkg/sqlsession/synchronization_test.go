package sqlsession_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/txsession/pkg/sqlsession"
	"github.com/dmitrymomot/txsession/pkg/txcontext"
)

func TestSessionSynchronization_BeforeCommit(t *testing.T) {
	t.Parallel()

	t.Run("commit failure is translated", func(t *testing.T) {
		t.Parallel()
		translated := errors.New("constraint violated at commit")
		translator := sqlsession.TranslatorFunc(func(err error) error {
			if _, ok := sqlsession.AsPersistenceError(err); ok {
				return translated
			}
			return nil
		})

		factory := newFakeFactory()
		factory.commitErr = sqlsession.NewPersistenceError(errors.New("sqlstate 23503"))
		coord := sqlsession.NewCoordinator()
		mgr := txcontext.NewManager()

		err := mgr.WithinTransaction(context.Background(), func(ctx context.Context) error {
			s, err := coord.Acquire(ctx, factory, sqlsession.ModeDefault, translator)
			require.NoError(t, err)
			return coord.Release(ctx, s, factory)
		})
		assert.ErrorIs(t, err, translated)

		// Rolled back: the session still gets closed exactly once.
		require.Len(t, factory.opened, 1)
		assert.Equal(t, 1, factory.opened[0].closes)
	})

	t.Run("commit failure without translator propagates", func(t *testing.T) {
		t.Parallel()
		cause := errors.New("commit refused")
		factory := newFakeFactory()
		factory.commitErr = sqlsession.NewPersistenceError(cause)
		coord := sqlsession.NewCoordinator()
		mgr := txcontext.NewManager()

		err := mgr.WithinTransaction(context.Background(), func(ctx context.Context) error {
			s, err := coord.Acquire(ctx, factory, sqlsession.ModeDefault, nil)
			require.NoError(t, err)
			return coord.Release(ctx, s, factory)
		})
		assert.ErrorIs(t, err, cause)
	})

	t.Run("no flush without an actual transaction", func(t *testing.T) {
		t.Parallel()
		factory := newFakeFactory()
		coord := sqlsession.NewCoordinator()
		mgr := txcontext.NewManager()

		err := mgr.WithinTransaction(context.Background(), func(ctx context.Context) error {
			s, err := coord.Acquire(ctx, factory, sqlsession.ModeDefault, nil)
			require.NoError(t, err)
			return coord.Release(ctx, s, factory)
		}, txcontext.WithoutActualTransaction())
		require.NoError(t, err)

		// Synchronization-only scope: completion still closes the session,
		// but nothing commits it.
		session := factory.opened[0]
		assert.Empty(t, session.commits)
		assert.Equal(t, 1, session.closes)
	})
}

func TestPersistenceError(t *testing.T) {
	t.Parallel()

	t.Run("wraps and unwraps", func(t *testing.T) {
		t.Parallel()
		cause := errors.New("driver failure")
		err := sqlsession.NewPersistenceError(cause)

		pe, ok := sqlsession.AsPersistenceError(err)
		require.True(t, ok)
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, cause, pe.Unwrap())
	})

	t.Run("nil stays nil", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, sqlsession.NewPersistenceError(nil))
	})

	t.Run("does not double wrap", func(t *testing.T) {
		t.Parallel()
		inner := sqlsession.NewPersistenceError(errors.New("x"))
		outer := sqlsession.NewPersistenceError(inner)
		assert.Equal(t, inner, outer)
	})

	t.Run("plain errors are not persistence kind", func(t *testing.T) {
		t.Parallel()
		_, ok := sqlsession.AsPersistenceError(errors.New("plain"))
		assert.False(t, ok)
	})
}
