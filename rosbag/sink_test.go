package rosbag

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySinkWritePositionPatch(t *testing.T) {
	s := NewMemorySink()
	_, err := s.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, uint64(5), s.Position())

	require.NoError(t, s.Patch(0, []byte("H")))
	require.NoError(t, s.Close())

	b, err := s.Bytes()
	require.NoError(t, err)
	assert.Equal(t, []byte("Hello"), b)
}

func TestMemorySinkBytesBeforeCloseErrors(t *testing.T) {
	s := NewMemorySink()
	_, err := s.Bytes()
	assert.ErrorIs(t, err, ErrNotClosed)
}

func TestFileSinkRefusesExistingPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bag.bag")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	_, err := NewFileSink(path)
	assert.ErrorIs(t, err, ErrFileExists)

	contents, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, []byte("x"), contents)
}

func TestFileSinkWriteAndPatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bag.bag")

	s, err := NewFileSink(path)
	require.NoError(t, err)
	_, err = s.Write([]byte("abcdef"))
	require.NoError(t, err)
	require.NoError(t, s.Patch(0, []byte("A")))
	require.NoError(t, s.Close())

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("Abcdef"), contents)
}
