package jsonstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/tada/internal/store"
)

func TestStore_GetMissing(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "not-yet"))

	v, ok, err := s.Get(context.Background(), "tasks")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestStore_SetThenGet(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "data")
	s := New(dir)

	require.NoError(t, s.Set(ctx, "tasks", `[{"id":"1","text":"a","completed":false}]`))

	v, ok, err := s.Get(ctx, "tasks")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"1","text":"a","completed":false}]`, v)

	// value is stored verbatim in <dir>/tasks.json
	raw, err := os.ReadFile(filepath.Join(dir, "tasks.json"))
	require.NoError(t, err)
	assert.Equal(t, v, string(raw))
}

func TestStore_Overwrite(t *testing.T) {
	ctx := context.Background()
	s := New(t.TempDir())

	require.NoError(t, s.Set(ctx, "tasks", "first"))
	require.NoError(t, s.Set(ctx, "tasks", "second"))

	v, _, err := s.Get(ctx, "tasks")
	require.NoError(t, err)
	assert.Equal(t, "second", v)

	_, err = os.Stat(s.Path("tasks") + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file should be renamed away")
}

func TestStore_KeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	s := New(t.TempDir())

	require.NoError(t, s.Set(ctx, "a", "1"))
	require.NoError(t, s.Set(ctx, "b", "2"))

	a, _, err := s.Get(ctx, "a")
	require.NoError(t, err)
	b, _, err := s.Get(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "1", a)
	assert.Equal(t, "2", b)
}

func TestStore_RejectsPathKeys(t *testing.T) {
	s := New(t.TempDir())

	err := s.Set(context.Background(), "../tasks", "x")
	assert.ErrorIs(t, err, store.ErrInvalidKey)

	_, _, err = s.Get(context.Background(), "a/b")
	assert.ErrorIs(t, err, store.ErrInvalidKey)
}

func TestStore_EmptyValue(t *testing.T) {
	ctx := context.Background()
	s := New(t.TempDir())

	require.NoError(t, s.Set(ctx, "tasks", ""))

	v, ok, err := s.Get(ctx, "tasks")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, v)
}
