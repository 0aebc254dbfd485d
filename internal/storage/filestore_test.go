package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadDelete(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	path, name, err := store.Write([]byte("attachment body"))
	require.NoError(t, err)
	assert.NotEmpty(t, path)
	assert.NotEmpty(t, name)

	data, err := store.Read(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("attachment body"), data)

	require.NoError(t, store.Delete(path))
	_, err = store.Read(path)
	assert.ErrorIs(t, err, ErrMissing)
}

func TestWriteGeneratesUniqueNames(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, first, err := store.Write([]byte("a"))
	require.NoError(t, err)
	_, second, err := store.Write([]byte("a"))
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestDeleteMissingIsNoError(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	assert.NoError(t, store.Delete("does/not/exist.bin"))
}
