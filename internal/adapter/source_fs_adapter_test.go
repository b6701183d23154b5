package adapter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "modc.dev/pkg/modc/internal/model"
)

func TestLocalSourceFSAdapter_Walk(t *testing.T) {
	t.Run("non recursive skips nested files", func(t *testing.T) {
		adapter := NewLocalSourceFSAdapter()

		root := t.TempDir()
		writeTestFile(t, filepath.Join(root, "MODULE.bazel"), "module(name = 'a')\n")

		nestedDir := filepath.Join(root, "nested")
		mustMkdir(t, nestedDir)
		writeTestFile(t, filepath.Join(nestedDir, "MODULE.bazel"), "module(name = 'b')\n")

		visited := walkAll(t, adapter, root, false)

		assert.Contains(t, visited, filepath.Join(root, "MODULE.bazel"))
		assert.NotContains(t, visited, nestedDir)
		assert.NotContains(t, visited, filepath.Join(nestedDir, "MODULE.bazel"))
	})

	t.Run("recursive visits nested files", func(t *testing.T) {
		adapter := NewLocalSourceFSAdapter()

		root := t.TempDir()
		child := filepath.Join(root, "nested", "MODULE.bazel")
		mustMkdir(t, filepath.Dir(child))
		writeTestFile(t, child, "module(name = 'b')\n")

		visited := walkAll(t, adapter, root, true)

		assert.Contains(t, visited, child)
	})

	t.Run("recursive skips vcs metadata", func(t *testing.T) {
		adapter := NewLocalSourceFSAdapter()

		root := t.TempDir()
		hidden := filepath.Join(root, ".git", "MODULE.bazel")
		mustMkdir(t, filepath.Dir(hidden))
		writeTestFile(t, hidden, "")

		visited := walkAll(t, adapter, root, true)

		assert.NotContains(t, visited, hidden)
	})

	t.Run("cancelled context stops the walk", func(t *testing.T) {
		adapter := NewLocalSourceFSAdapter()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := adapter.Walk(ctx, m.Path(t.TempDir()), true, func(string, os.FileInfo, error) error {
			return nil
		})
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestLocalSourceFSAdapter_ReadFile(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	path := filepath.Join(t.TempDir(), "MODULE.bazel")
	writeTestFile(t, path, "module_import('a')\n")

	content, err := adapter.ReadFile(context.Background(), m.Path(path))
	require.NoError(t, err)
	assert.Equal(t, "module_import('a')\n", string(content))

	_, err = adapter.ReadFile(context.Background(), m.Path(filepath.Join(t.TempDir(), "missing")))
	require.Error(t, err)
}

func TestLocalSourceFSAdapter_FileInfo(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	root := t.TempDir()

	info, err := adapter.FileInfo(context.Background(), m.Path(root))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	_, err = adapter.FileInfo(context.Background(), m.Path(filepath.Join(root, "missing")))
	assert.True(t, os.IsNotExist(err))
}

func walkAll(t *testing.T, adapter *LocalSourceFSAdapter, root string, recursive bool) []string {
	t.Helper()

	var visited []string

	err := adapter.Walk(context.Background(), m.Path(root), recursive, func(path string, _ os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		visited = append(visited, path)

		return nil
	})
	require.NoError(t, err)

	return visited
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()

	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func mustMkdir(t *testing.T, path string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(path, 0o750))
}
