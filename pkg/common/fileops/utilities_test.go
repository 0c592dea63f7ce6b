package fileops

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExists(t *testing.T) {
	tempDir := t.TempDir()

	t.Run("file exists", func(t *testing.T) {
		filePath := filepath.Join(tempDir, "test.txt")
		require.NoError(t, os.WriteFile(filePath, []byte("test"), 0644))

		exists, err := Exists(filePath)
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("file does not exist", func(t *testing.T) {
		exists, err := Exists(filepath.Join(tempDir, "nonexistent.txt"))
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("directory exists", func(t *testing.T) {
		dirPath := filepath.Join(tempDir, "testdir")
		require.NoError(t, os.Mkdir(dirPath, 0755))

		exists, err := Exists(dirPath)
		require.NoError(t, err)
		assert.True(t, exists)
	})
}

func TestEnsureDir(t *testing.T) {
	tempDir := t.TempDir()

	t.Run("create nested directories", func(t *testing.T) {
		dirPath := filepath.Join(tempDir, "a", "b", "c")
		require.NoError(t, EnsureDir(dirPath))

		info, err := os.Stat(dirPath)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("directory already exists", func(t *testing.T) {
		dirPath := filepath.Join(tempDir, "existing")
		require.NoError(t, os.Mkdir(dirPath, 0755))
		assert.NoError(t, EnsureDir(dirPath))
	})
}

func TestEnsureParentDir(t *testing.T) {
	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "parent", "child", "file.txt")

	require.NoError(t, EnsureParentDir(filePath))

	info, err := os.Stat(filepath.Dir(filePath))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestReadString(t *testing.T) {
	tempDir := t.TempDir()

	t.Run("read existing file", func(t *testing.T) {
		filePath := filepath.Join(tempDir, "test.txt")
		require.NoError(t, os.WriteFile(filePath, []byte("  hello world  \n"), 0644))

		result, err := ReadString(filePath)
		require.NoError(t, err)
		assert.Equal(t, "hello world", result)
	})

	t.Run("read non-existent file returns empty string", func(t *testing.T) {
		result, err := ReadString(filepath.Join(tempDir, "nonexistent.txt"))
		require.NoError(t, err)
		assert.Empty(t, result)
	})
}

func TestReadBytesStrict(t *testing.T) {
	tempDir := t.TempDir()

	t.Run("read existing file", func(t *testing.T) {
		filePath := filepath.Join(tempDir, "test.txt")
		content := []byte{0x01, 0x02, 0x03}
		require.NoError(t, os.WriteFile(filePath, content, 0644))

		result, err := ReadBytesStrict(filePath)
		require.NoError(t, err)
		assert.Equal(t, content, result)
	})

	t.Run("read non-existent file errors", func(t *testing.T) {
		_, err := ReadBytesStrict(filepath.Join(tempDir, "nonexistent.txt"))
		assert.Error(t, err)
	})
}

func TestWriteReadOnly(t *testing.T) {
	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "nested", "readonly.txt")
	content := []byte("immutable content")

	require.NoError(t, WriteReadOnly(filePath, content))

	data, err := os.ReadFile(filePath)
	require.NoError(t, err)
	assert.Equal(t, content, data)

	info, err := os.Stat(filePath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0444), info.Mode().Perm())
}

func TestSafeRemove(t *testing.T) {
	tempDir := t.TempDir()

	t.Run("remove existing file", func(t *testing.T) {
		filePath := filepath.Join(tempDir, "remove.txt")
		require.NoError(t, os.WriteFile(filePath, []byte("test"), 0644))
		require.NoError(t, SafeRemove(filePath))

		_, err := os.Stat(filePath)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("remove non-existent file is not an error", func(t *testing.T) {
		assert.NoError(t, SafeRemove(filepath.Join(tempDir, "nonexistent.txt")))
	})
}

func TestIsDirectoryAndIsFile(t *testing.T) {
	tempDir := t.TempDir()
	dirPath := filepath.Join(tempDir, "testdir")
	filePath := filepath.Join(tempDir, "file.txt")
	require.NoError(t, os.Mkdir(dirPath, 0755))
	require.NoError(t, os.WriteFile(filePath, []byte("test"), 0644))

	isDir, err := IsDirectory(dirPath)
	require.NoError(t, err)
	assert.True(t, isDir)

	isDir, err = IsDirectory(filePath)
	require.NoError(t, err)
	assert.False(t, isDir)

	isFile, err := IsFile(filePath)
	require.NoError(t, err)
	assert.True(t, isFile)

	isFile, err = IsFile(dirPath)
	require.NoError(t, err)
	assert.False(t, isFile)
}
