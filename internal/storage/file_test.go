package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, ok, err := s.Get(ctx, "tasks_v1")
	require.NoError(t, err)
	assert.False(t, ok, "absent key should not be an error")

	prev, err := s.Set(ctx, "tasks_v1", []byte(`[{"id":"a"}]`))
	require.NoError(t, err)
	assert.Nil(t, prev)

	prev, err = s.Set(ctx, "tasks_v1", []byte(`[]`))
	require.NoError(t, err)
	assert.Equal(t, []byte(`[{"id":"a"}]`), prev)

	got, ok, err := s.Get(ctx, "tasks_v1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte(`[]`), got)

	require.NoError(t, s.Delete(ctx, "tasks_v1"))
	_, ok, err = s.Get(ctx, "tasks_v1")
	require.NoError(t, err)
	assert.False(t, ok)

	// Deleting again is a no-op.
	require.NoError(t, s.Delete(ctx, "tasks_v1"))
}

func TestFileStore_KeysAreIsolated(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = s.Set(ctx, "a", []byte(`1`))
	require.NoError(t, err)
	_, err = s.Set(ctx, "b", []byte(`2`))
	require.NoError(t, err)

	got, ok, err := s.Get(ctx, "a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte(`1`), got)
}
