package txcontext_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/txsession/pkg/txcontext"
)

func TestRegistry_BindGetUnbind(t *testing.T) {
	t.Parallel()

	t.Run("get on empty registry", func(t *testing.T) {
		t.Parallel()
		reg := txcontext.NewRegistry()

		v, ok := reg.Get("key")
		assert.False(t, ok)
		assert.Nil(t, v)
	})

	t.Run("bind then get", func(t *testing.T) {
		t.Parallel()
		reg := txcontext.NewRegistry()

		require.NoError(t, reg.Bind("key", "value"))
		v, ok := reg.Get("key")
		assert.True(t, ok)
		assert.Equal(t, "value", v)
	})

	t.Run("double bind fails", func(t *testing.T) {
		t.Parallel()
		reg := txcontext.NewRegistry()

		require.NoError(t, reg.Bind("key", "first"))
		err := reg.Bind("key", "second")
		assert.ErrorIs(t, err, txcontext.ErrAlreadyBound)

		// Original binding must survive the failed bind.
		v, ok := reg.Get("key")
		assert.True(t, ok)
		assert.Equal(t, "first", v)
	})

	t.Run("unbind returns the resource", func(t *testing.T) {
		t.Parallel()
		reg := txcontext.NewRegistry()

		require.NoError(t, reg.Bind("key", "value"))
		v, err := reg.Unbind("key")
		require.NoError(t, err)
		assert.Equal(t, "value", v)

		_, ok := reg.Get("key")
		assert.False(t, ok)
	})

	t.Run("unbind absent key fails", func(t *testing.T) {
		t.Parallel()
		reg := txcontext.NewRegistry()

		_, err := reg.Unbind("key")
		assert.ErrorIs(t, err, txcontext.ErrNotBound)
	})

	t.Run("unbind if possible tolerates absence", func(t *testing.T) {
		t.Parallel()
		reg := txcontext.NewRegistry()

		v, ok := reg.UnbindIfPossible("key")
		assert.False(t, ok)
		assert.Nil(t, v)

		require.NoError(t, reg.Bind("key", "value"))
		v, ok = reg.UnbindIfPossible("key")
		assert.True(t, ok)
		assert.Equal(t, "value", v)
	})
}

func TestRegistry_SuspendResume(t *testing.T) {
	t.Parallel()

	t.Run("suspend removes without discarding", func(t *testing.T) {
		t.Parallel()
		reg := txcontext.NewRegistry()

		require.NoError(t, reg.Bind("key", "value"))
		v, ok := reg.Suspend("key")
		require.True(t, ok)
		assert.Equal(t, "value", v)

		_, ok = reg.Get("key")
		assert.False(t, ok)

		require.NoError(t, reg.Resume("key", v))
		got, ok := reg.Get("key")
		assert.True(t, ok)
		assert.Equal(t, "value", got)
	})

	t.Run("resume over existing binding fails", func(t *testing.T) {
		t.Parallel()
		reg := txcontext.NewRegistry()

		require.NoError(t, reg.Bind("key", "inner"))
		assert.ErrorIs(t, reg.Resume("key", "outer"), txcontext.ErrAlreadyBound)
	})
}

func TestWithRegistry(t *testing.T) {
	t.Parallel()

	t.Run("creates registry once", func(t *testing.T) {
		t.Parallel()
		ctx := txcontext.WithRegistry(context.Background())
		reg, ok := txcontext.RegistryFromContext(ctx)
		require.True(t, ok)

		ctx2 := txcontext.WithRegistry(ctx)
		reg2, ok := txcontext.RegistryFromContext(ctx2)
		require.True(t, ok)
		assert.Same(t, reg, reg2)
	})

	t.Run("absent without WithRegistry", func(t *testing.T) {
		t.Parallel()
		_, ok := txcontext.RegistryFromContext(context.Background())
		assert.False(t, ok)
	})
}
