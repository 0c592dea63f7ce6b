// Package entry binds a project-relative path, a unix permissions mode, and
// a blob digest into a stable identity: the file entry record that commits
// are built from.
package entry

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"

	"github.com/Who23/ink/pkg/common/err"
	"github.com/Who23/ink/pkg/common/fileops"
	"github.com/Who23/ink/pkg/digest"
	"github.com/Who23/ink/pkg/store"
)

const pkgName = "entry"

// regularFileTypeBit is the POSIX S_IFREG bit (the same value git's own file
// mode encoding uses for a regular file). New records Permissions as this bit
// OR'd with Mode().Perm() for every file; the file's actual type is not
// inspected, so entries do not distinguish file types.
const regularFileTypeBit = 0x8000

// Entry is an immutable (path, permissions, content digest) triple with its
// own digest, derived per the entry identity formula.
type Entry struct {
	Path          string
	Permissions   uint32
	ContentDigest digest.Digest
	EntryDigest   digest.Digest
}

// New builds an Entry for the file at absolutePath, hashing and storing its
// content via s, reading its unix permissions mode, and recording its path
// relative to inkRoot's parent (the project root). Fails if absolutePath
// does not lie inside the project.
func New(s *store.Store, absolutePath, inkRoot string) (Entry, error) {
	info, statErr := os.Stat(absolutePath)
	if statErr != nil {
		return Entry{}, err.New(pkgName, err.CodeIO, "new", "stat file", statErr).
			WithContext("path", absolutePath)
	}

	contentDigest, putErr := s.Put(absolutePath)
	if putErr != nil {
		return Entry{}, err.Wrap(putErr, pkgName, "new")
	}

	relPath, relErr := relativeToProjectRoot(absolutePath, inkRoot)
	if relErr != nil {
		return Entry{}, relErr
	}

	permissions := regularFileTypeBit | uint32(info.Mode().Perm())
	return newEntry(relPath, permissions, contentDigest), nil
}

func newEntry(path string, permissions uint32, contentDigest digest.Digest) Entry {
	return Entry{
		Path:          path,
		Permissions:   permissions,
		ContentDigest: contentDigest,
		EntryDigest:   computeDigest(path, permissions, contentDigest),
	}
}

// computeDigest implements entry_digest = SHA256(path || BE_u32(perm) || content_digest).
func computeDigest(path string, permissions uint32, contentDigest digest.Digest) digest.Digest {
	h := digest.NewHasher()
	h.Write([]byte(path))
	var permBuf [4]byte
	binary.BigEndian.PutUint32(permBuf[:], permissions)
	h.Write(permBuf[:])
	h.Write(contentDigest[:])
	return digest.FromSum(h.Sum(nil))
}

func relativeToProjectRoot(absolutePath, inkRoot string) (string, error) {
	projectRoot := filepath.Dir(filepath.Clean(inkRoot))
	cleanAbs, absErr := filepath.Abs(absolutePath)
	if absErr != nil {
		return "", err.New(pkgName, err.CodeIO, "new", "resolve absolute path", absErr)
	}

	rel, relErr := filepath.Rel(projectRoot, cleanAbs)
	if relErr != nil || strings.HasPrefix(rel, "..") {
		return "", err.New(pkgName, err.CodeIO, "new", "path is outside the project", relErr).
			WithContext("path", absolutePath).
			WithContext("project_root", projectRoot)
	}
	return filepath.ToSlash(rel), nil
}

// WriteTo materialises the entry's content at its Path under projectRoot, creating parent directories as needed and setting the
// entry's permission bits on the resulting file.
func (e Entry) WriteTo(s *store.Store, projectRoot string) error {
	fullPath := filepath.Join(projectRoot, filepath.FromSlash(e.Path))
	if mkErr := fileops.EnsureParentDir(fullPath); mkErr != nil {
		return err.New(pkgName, err.CodeIO, "write_to", "create parent directory", mkErr)
	}

	r, openErr := s.Open(e.ContentDigest)
	if openErr != nil {
		return err.Wrap(openErr, pkgName, "write_to")
	}
	defer r.Close()

	if writeErr := fileops.AtomicWriteFrom(fullPath, r, os.FileMode(e.Permissions)&os.ModePerm); writeErr != nil {
		return err.New(pkgName, err.CodeIO, "write_to", "materialise file", writeErr).
			WithContext("path", e.Path)
	}
	return nil
}

// Less orders two entries by EntryDigest, the ordering a commit's entry
// sequence is sorted by.
func Less(a, b Entry) bool {
	return a.EntryDigest.Less(b.EntryDigest)
}
