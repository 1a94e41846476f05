package redis_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/txsession/pkg/redis"
	"github.com/dmitrymomot/txsession/pkg/sqlsession"
)

func newTestClient(t *testing.T) *goredis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestSessionSimpleMode(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client := newTestClient(t)
	factory := redis.NewFactory(client, redis.WithDefaultExecutorMode(sqlsession.ModeSimple))

	sess, err := factory.OpenSession(ctx, sqlsession.ModeDefault)
	require.NoError(t, err)
	defer sess.Close() //nolint:errcheck

	affected, err := sess.Exec(ctx, "SET", "greeting", "hello")
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	got, err := sess.SelectOne(ctx, "GET", "greeting")
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
}

func TestSessionBatchMode(t *testing.T) {
	t.Parallel()

	t.Run("writes invisible until commit", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		client := newTestClient(t)
		factory := redis.NewFactory(client)

		sess, err := factory.OpenSession(ctx, sqlsession.ModeBatch)
		require.NoError(t, err)
		defer sess.Close() //nolint:errcheck

		affected, err := sess.Exec(ctx, "SET", "pending", "1")
		require.NoError(t, err)
		assert.Zero(t, affected, "queued commands report no affected count")

		got, err := sess.SelectOne(ctx, "GET", "pending")
		require.NoError(t, err)
		assert.Nil(t, got, "queued write must not be visible before commit")

		require.NoError(t, sess.Commit(ctx, false))

		got, err = sess.SelectOne(ctx, "GET", "pending")
		require.NoError(t, err)
		assert.Equal(t, "1", got)
	})

	t.Run("rollback discards queued commands", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		client := newTestClient(t)
		factory := redis.NewFactory(client)

		sess, err := factory.OpenSession(ctx, sqlsession.ModeBatch)
		require.NoError(t, err)
		defer sess.Close() //nolint:errcheck

		_, err = sess.Exec(ctx, "SET", "discarded", "1")
		require.NoError(t, err)
		require.NoError(t, sess.Rollback(ctx, false))
		require.NoError(t, sess.Commit(ctx, false))

		got, err := sess.SelectOne(ctx, "GET", "discarded")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("close discards queued commands", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		client := newTestClient(t)
		factory := redis.NewFactory(client)

		sess, err := factory.OpenSession(ctx, sqlsession.ModeBatch)
		require.NoError(t, err)

		_, err = sess.Exec(ctx, "SET", "abandoned", "1")
		require.NoError(t, err)
		require.NoError(t, sess.Close())

		assert.Equal(t, int64(0), client.Exists(ctx, "abandoned").Val())
	})
}

func TestSessionClosed(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client := newTestClient(t)
	factory := redis.NewFactory(client)

	sess, err := factory.OpenSession(ctx, sqlsession.ModeDefault)
	require.NoError(t, err)
	require.NoError(t, sess.Close())
	require.NoError(t, sess.Close(), "close is idempotent")

	_, err = sess.SelectOne(ctx, "GET", "k")
	assert.ErrorIs(t, err, redis.ErrSessionClosed)

	_, err = sess.Exec(ctx, "SET", "k", "v")
	assert.ErrorIs(t, err, redis.ErrSessionClosed)

	assert.ErrorIs(t, sess.Commit(ctx, false), redis.ErrSessionClosed)
	assert.ErrorIs(t, sess.Rollback(ctx, false), redis.ErrSessionClosed)
}

func TestSessionSelectList(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client := newTestClient(t)
	factory := redis.NewFactory(client, redis.WithDefaultExecutorMode(sqlsession.ModeSimple))

	sess, err := factory.OpenSession(ctx, sqlsession.ModeDefault)
	require.NoError(t, err)
	defer sess.Close() //nolint:errcheck

	_, err = sess.Exec(ctx, "RPUSH", "queue", "a", "b", "c")
	require.NoError(t, err)

	items, err := sess.SelectList(ctx, "LRANGE", "queue", "0", "-1")
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b", "c"}, items)

	t.Run("missing key yields no items", func(t *testing.T) {
		items, err := sess.SelectList(ctx, "LRANGE", "missing", "0", "-1")
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("scalar reply wraps into a list", func(t *testing.T) {
		_, err := sess.Exec(ctx, "SET", "scalar", "x")
		require.NoError(t, err)

		items, err := sess.SelectList(ctx, "GET", "scalar")
		require.NoError(t, err)
		assert.Equal(t, []any{"x"}, items)
	})
}

func TestFactoryDefaults(t *testing.T) {
	t.Parallel()

	client := newTestClient(t)

	factory := redis.NewFactory(client)
	assert.Equal(t, sqlsession.ModeBatch, factory.DefaultExecutorMode())
	assert.True(t, factory.TransactionAware())
	assert.Same(t, client, factory.DataSourceKey())

	simple := redis.NewFactory(client, redis.WithDefaultExecutorMode(sqlsession.ModeSimple))
	assert.Equal(t, sqlsession.ModeSimple, simple.DefaultExecutorMode())
}
