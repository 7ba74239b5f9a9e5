package utils

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("admin123")
	require.NoError(t, err)
	assert.NotEqual(t, "admin123", hash)

	assert.True(t, CheckPasswordHash("admin123", hash))
	assert.False(t, CheckPasswordHash("admin124", hash))
	assert.False(t, CheckPasswordHash("admin123", ""))
}

func TestHashPassword_Empty(t *testing.T) {
	_, err := HashPassword("")
	assert.ErrorIs(t, err, ErrEmptyPassword)
}

func TestStoredFileName(t *testing.T) {
	name := StoredFileName("../../etc/Blade.JPG")
	assert.True(t, strings.HasSuffix(name, ".jpg"))
	assert.NotContains(t, name, "/")
	assert.Len(t, name, 36+len(".jpg"))

	assert.NotEqual(t, StoredFileName("a.png"), StoredFileName("a.png"))
}

func TestSaveStream(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "workorder")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	rel, err := saveStream(dir, "blade.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(rel, "workorder/"))
	data, err := os.ReadFile(filepath.Join(dir, filepath.Base(rel)))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	broken := io.MultiReader(strings.NewReader("partial"), iotest.ErrReader(errors.New("connection reset")))
	_, err = saveStream(dir, "crack.png", broken)
	assert.ErrorContains(t, err, "connection reset")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "failed upload must not leave a partial file")
}
