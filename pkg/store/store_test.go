package store_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Who23/ink/pkg/common/err"
	"github.com/Who23/ink/pkg/digest"
	"github.com/Who23/ink/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutAndReadAllRoundTrip(t *testing.T) {
	inkDir := t.TempDir()
	s := store.New(inkDir)
	require.NoError(t, s.Init())

	content := []byte("this is a test!")
	d, putErr := s.PutBytes(content)
	require.NoError(t, putErr)
	assert.Equal(t, digest.Sum(content), d)

	got, readErr := s.ReadAll(d)
	require.NoError(t, readErr)
	assert.Equal(t, content, got)
}

func TestPutFromSourceFile(t *testing.T) {
	inkDir := t.TempDir()
	s := store.New(inkDir)
	require.NoError(t, s.Init())

	srcDir := t.TempDir()
	srcPath := filepath.Join(srcDir, "example")
	content := []byte("this is a test!")
	require.NoError(t, os.WriteFile(srcPath, content, 0644))

	d, putErr := s.Put(srcPath)
	require.NoError(t, putErr)

	blobPath := filepath.Join(inkDir, "data", d.Hex())
	info, statErr := os.Stat(blobPath)
	require.NoError(t, statErr)
	assert.False(t, info.IsDir())

	got, readErr := s.ReadAll(d)
	require.NoError(t, readErr)
	assert.Equal(t, content, got)
}

func TestDedupOnWrite(t *testing.T) {
	inkDir := t.TempDir()
	s := store.New(inkDir)
	require.NoError(t, s.Init())

	content := []byte("duplicate content")
	d1, err1 := s.PutBytes(content)
	require.NoError(t, err1)

	blobPath := filepath.Join(inkDir, "data", d1.Hex())
	firstInfo, statErr := os.Stat(blobPath)
	require.NoError(t, statErr)

	d2, err2 := s.PutBytes(content)
	require.NoError(t, err2)
	assert.Equal(t, d1, d2)

	secondInfo, statErr := os.Stat(blobPath)
	require.NoError(t, statErr)
	assert.Equal(t, firstInfo.ModTime(), secondInfo.ModTime())
}

func TestOpenMissingBlobIsNotFound(t *testing.T) {
	inkDir := t.TempDir()
	s := store.New(inkDir)
	require.NoError(t, s.Init())

	_, openErr := s.Open(digest.Sum([]byte("never written")))
	require.Error(t, openErr)
	assert.Equal(t, err.CodeNotFound, err.GetCode(openErr))
}

func TestHas(t *testing.T) {
	inkDir := t.TempDir()
	s := store.New(inkDir)
	require.NoError(t, s.Init())

	d := digest.Sum([]byte("content"))
	has, hasErr := s.Has(d)
	require.NoError(t, hasErr)
	assert.False(t, has)

	_, putErr := s.PutBytes([]byte("content"))
	require.NoError(t, putErr)

	has, hasErr = s.Has(d)
	require.NoError(t, hasErr)
	assert.True(t, has)
}
