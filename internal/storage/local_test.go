package storage

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalDriver_SaveGetDelete(t *testing.T) {
	dir := t.TempDir()
	driver, err := NewLocalDriver(dir)
	require.NoError(t, err)

	ctx := context.Background()
	key := "abcdef123456.pdf"
	content := []byte("receipt body")

	require.NoError(t, driver.Save(ctx, key, bytes.NewReader(content), int64(len(content)), "application/pdf"))

	_, err = os.Stat(filepath.Join(dir, "ab", "cd", key))
	assert.NoError(t, err)

	rc, contentType, err := driver.Get(ctx, key)
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	rc.Close()
	require.NoError(t, err)
	assert.Equal(t, content, body)
	assert.Equal(t, "application/pdf", contentType)

	require.NoError(t, driver.Delete(ctx, key))
	_, _, err = driver.Get(ctx, key)
	assert.ErrorIs(t, err, ErrObjectNotFound)

	assert.NoError(t, driver.Delete(ctx, key))
}

func TestLocalDriver_RejectsPathKeys(t *testing.T) {
	driver, err := NewLocalDriver(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", "../etc/passwd", "a/b", `a\b`} {
		err := driver.Save(context.Background(), key, bytes.NewReader(nil), 0, "text/plain")
		assert.Error(t, err, key)
	}
}
