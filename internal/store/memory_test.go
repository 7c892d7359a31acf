package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorage_CRUD(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()

	_, err := s.Get(ctx, KeyAPIKey)
	assert.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, s.Set(ctx, KeyAPIKey, "k"))
	require.NoError(t, s.Set(ctx, KeyIsLoggedIn, "true"))
	v, err := s.Get(ctx, KeyAPIKey)
	require.NoError(t, err)
	assert.Equal(t, "k", v)

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{KeyAPIKey, KeyIsLoggedIn}, keys)

	require.NoError(t, s.Remove(ctx, KeyAPIKey))
	require.NoError(t, s.Remove(ctx, "never-set"))
	_, err = s.Get(ctx, KeyAPIKey)
	assert.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, s.Clear(ctx))
	keys, err = s.Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestMemoryStorage_Subscribe(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()

	changes, cancel := s.Subscribe()
	require.NoError(t, s.Set(ctx, "a", "1"))
	require.NoError(t, s.Remove(ctx, "a"))

	assert.Equal(t, Change{Key: "a", Value: "1"}, <-changes)
	assert.Equal(t, Change{Key: "a", Removed: true}, <-changes)

	cancel()
	cancel()
	_, open := <-changes
	assert.False(t, open)

	// writes after cancel must not panic
	require.NoError(t, s.Set(ctx, "b", "2"))
}

func TestNotifier_DropsWhenFull(t *testing.T) {
	n := newNotifier()
	ch, cancel := n.subscribe()
	defer cancel()

	for i := 0; i < subscriberBuffer+5; i++ {
		n.publish(Change{Key: "k"})
	}
	assert.Len(t, ch, subscriberBuffer)
}
