package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLocalFileStorage_SaveAndRead(t *testing.T) {
	tempDir := t.TempDir()
	logger := zap.NewNop()
	fs := NewLocalFileStorage(tempDir, logger)
	ctx := context.Background()

	t.Run("saves object successfully", func(t *testing.T) {
		content := []byte("upload bytes")

		err := fs.Save(ctx, "tmp/85e16d7b-58ed-43bc-8dce-7d3ff7d69f41", content)

		require.NoError(t, err)
		assert.FileExists(t, filepath.Join(tempDir, "tmp", "85e16d7b-58ed-43bc-8dce-7d3ff7d69f41"))

		read, err := fs.Read(ctx, "tmp/85e16d7b-58ed-43bc-8dce-7d3ff7d69f41")
		require.NoError(t, err)
		assert.Equal(t, content, read)
	})

	t.Run("creates parent directories", func(t *testing.T) {
		err := fs.Save(ctx, "deep/nested/dir/object", []byte("content"))

		require.NoError(t, err)
		assert.FileExists(t, filepath.Join(tempDir, "deep", "nested", "dir", "object"))
	})

	t.Run("overwrites existing object", func(t *testing.T) {
		require.NoError(t, fs.Save(ctx, "tmp/overwrite", []byte("original")))
		require.NoError(t, fs.Save(ctx, "tmp/overwrite", []byte("updated")))

		content, err := fs.Read(ctx, "tmp/overwrite")
		require.NoError(t, err)
		assert.Equal(t, []byte("updated"), content)
	})

	t.Run("read of missing object fails", func(t *testing.T) {
		_, err := fs.Read(ctx, "tmp/never-written")
		assert.Error(t, err)
	})
}

func TestLocalFileStorage_Exists(t *testing.T) {
	tempDir := t.TempDir()
	fs := NewLocalFileStorage(tempDir, zap.NewNop())
	ctx := context.Background()

	t.Run("absent object", func(t *testing.T) {
		assert.False(t, fs.Exists(ctx, "tmp/85e16d7b-58ed-43bc-8dce-7d3ff7d69f41"))
	})

	t.Run("present object", func(t *testing.T) {
		require.NoError(t, fs.Save(ctx, "tmp/85e16d7b-58ed-43bc-8dce-7d3ff7d69f41", []byte("x")))
		assert.True(t, fs.Exists(ctx, "tmp/85e16d7b-58ed-43bc-8dce-7d3ff7d69f41"))
	})

	t.Run("directory is not an object", func(t *testing.T) {
		require.NoError(t, os.MkdirAll(filepath.Join(tempDir, "tmp", "a-directory"), 0755))
		assert.False(t, fs.Exists(ctx, "tmp/a-directory"))
	})

	t.Run("escaping path reads as absent", func(t *testing.T) {
		assert.False(t, fs.Exists(ctx, "../../etc/passwd"))
	})
}

func TestLocalFileStorage_Delete(t *testing.T) {
	tempDir := t.TempDir()
	fs := NewLocalFileStorage(tempDir, zap.NewNop())
	ctx := context.Background()

	t.Run("deletes existing object", func(t *testing.T) {
		require.NoError(t, fs.Save(ctx, "tmp/to-delete", []byte("x")))

		err := fs.Delete(ctx, "tmp/to-delete")

		require.NoError(t, err)
		assert.False(t, fs.Exists(ctx, "tmp/to-delete"))
	})

	t.Run("deleting absent object is a no-op", func(t *testing.T) {
		assert.NoError(t, fs.Delete(ctx, "tmp/never-existed"))
	})
}

func TestLocalFileStorage_PathValidation(t *testing.T) {
	tempDir := t.TempDir()
	fs := NewLocalFileStorage(tempDir, zap.NewNop())
	ctx := context.Background()

	t.Run("rejects traversal on save", func(t *testing.T) {
		err := fs.Save(ctx, "../escape", []byte("x"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "escapes base directory")
	})

	t.Run("rejects traversal on delete", func(t *testing.T) {
		err := fs.Delete(ctx, "../../escape")
		assert.Error(t, err)
	})

	t.Run("rejects sibling with similar prefix", func(t *testing.T) {
		// If base is /tmp/test123, /tmp/test123_malicious must not pass.
		err := fs.Save(ctx, "../"+filepath.Base(tempDir)+"_malicious/file", []byte("x"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "escapes base directory")
	})
}
