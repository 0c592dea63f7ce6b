// Package fileops provides low-level, atomic filesystem primitives shared
// across the store, entry, and repository packages.
package fileops

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// StreamChunkSize is the minimum chunk size used when streaming file
// content through a hasher or compressor. Files are never read into memory
// whole; content crosses this package in chunks of at least this size.
const StreamChunkSize = 128 * 1024

// AtomicWrite writes data to targetPath atomically: it writes to a temp
// file in the same directory, syncs it, applies mode, then renames it into
// place. The target is never observed in a partially-written state.
func AtomicWrite(targetPath string, data []byte, mode os.FileMode) error {
	dir := filepath.Dir(targetPath)
	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	defer func() {
		tmpFile.Close()
		os.Remove(tmpFile.Name())
	}()

	if err := writeTempFile(data, tmpFile); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	return renameTempFile(tmpFile.Name(), targetPath, mode)
}

// AtomicWriteFrom streams r into targetPath atomically, in chunks of
// StreamChunkSize, instead of requiring the full content in memory first.
func AtomicWriteFrom(targetPath string, r io.Reader, mode os.FileMode) error {
	dir := filepath.Dir(targetPath)
	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	defer func() {
		tmpFile.Close()
		os.Remove(tmpFile.Name())
	}()

	buf := make([]byte, StreamChunkSize)
	if _, err := io.CopyBuffer(tmpFile, r, buf); err != nil {
		return fmt.Errorf("stream temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("sync: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}

	return renameTempFile(tmpFile.Name(), targetPath, mode)
}

func writeTempFile(data []byte, tmpFile *os.File) error {
	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("write data: %w", err)
	}

	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("sync: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}

	return nil
}

// renameTempFile atomically replaces targetPath with the file at tmpPath,
// applying mode before the rename so the target never appears with the
// wrong permissions.
func renameTempFile(tmpPath string, targetPath string, mode os.FileMode) error {
	if err := os.Chmod(tmpPath, mode); err != nil {
		return fmt.Errorf("chmod: %w", err)
	}

	if err := os.Rename(tmpPath, targetPath); err != nil {
		return fmt.Errorf("rename: %w", err)
	}

	return nil
}
