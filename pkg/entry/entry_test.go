package entry_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Who23/ink/pkg/entry"
	"github.com/Who23/ink/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepo(t *testing.T) (projectRoot, inkRoot string, s *store.Store) {
	t.Helper()
	projectRoot = t.TempDir()
	inkRoot = filepath.Join(projectRoot, ".ink")
	require.NoError(t, os.MkdirAll(inkRoot, 0755))
	s = store.New(inkRoot)
	require.NoError(t, s.Init())
	return
}

func TestNewEntrySamePathModeContentSameDigest(t *testing.T) {
	projectRoot, inkRoot, s := setupRepo(t)

	filePath := filepath.Join(projectRoot, "example")
	require.NoError(t, os.WriteFile(filePath, []byte("this is a test!"), 0644))

	e1, err1 := entry.New(s, filePath, inkRoot)
	require.NoError(t, err1)

	e2, err2 := entry.New(s, filePath, inkRoot)
	require.NoError(t, err2)

	assert.Equal(t, e1.EntryDigest, e2.EntryDigest)
	assert.Equal(t, "example", e1.Path)
}

func TestNewEntryRejectsPathOutsideProject(t *testing.T) {
	_, inkRoot, s := setupRepo(t)

	outside := t.TempDir()
	filePath := filepath.Join(outside, "outsider")
	require.NoError(t, os.WriteFile(filePath, []byte("x"), 0644))

	_, err := entry.New(s, filePath, inkRoot)
	assert.Error(t, err)
}

func TestWriteToMaterialisesContentAndMode(t *testing.T) {
	projectRoot, inkRoot, s := setupRepo(t)

	srcPath := filepath.Join(projectRoot, "example")
	require.NoError(t, os.WriteFile(srcPath, []byte("hello world"), 0644))

	e, err := entry.New(s, srcPath, inkRoot)
	require.NoError(t, err)

	destRoot := t.TempDir()
	require.NoError(t, e.WriteTo(s, destRoot))

	data, readErr := os.ReadFile(filepath.Join(destRoot, "example"))
	require.NoError(t, readErr)
	assert.Equal(t, "hello world", string(data))

	info, statErr := os.Stat(filepath.Join(destRoot, "example"))
	require.NoError(t, statErr)
	assert.Equal(t, os.FileMode(e.Permissions)&os.ModePerm, info.Mode().Perm())
}

func TestEntryDigestDifferentContentDiffers(t *testing.T) {
	projectRoot, inkRoot, s := setupRepo(t)

	p1 := filepath.Join(projectRoot, "a")
	p2 := filepath.Join(projectRoot, "b")
	require.NoError(t, os.WriteFile(p1, []byte("content one"), 0644))
	require.NoError(t, os.WriteFile(p2, []byte("content two"), 0644))

	e1, err1 := entry.New(s, p1, inkRoot)
	require.NoError(t, err1)
	e2, err2 := entry.New(s, p2, inkRoot)
	require.NoError(t, err2)

	assert.NotEqual(t, e1.EntryDigest, e2.EntryDigest)
}
