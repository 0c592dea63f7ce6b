// Package commit implements the commit record: an immutable, digest-named
// snapshot of a sorted set of file entries plus a timestamp, and the
// structural diff between two such snapshots.
package commit

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Who23/ink/pkg/codec"
	"github.com/Who23/ink/pkg/common/err"
	"github.com/Who23/ink/pkg/common/fileops"
	"github.com/Who23/ink/pkg/digest"
	"github.com/Who23/ink/pkg/entry"
	"github.com/Who23/ink/pkg/store"
)

const pkgName = "commit"

const commitDirName = "commit"

// Commit is an immutable snapshot: a sequence of file entries sorted
// ascending by EntryDigest, a unix-epoch-seconds timestamp, and the digest
// that names it.
type Commit struct {
	Entries   []entry.Entry
	Timestamp int64
	Digest    digest.Digest
}

// New builds a Commit from a set of absolute file paths at timestamp
// (unix-epoch seconds), converting each to a file entry under inkRoot and
// hashing its content into s. Rejects timestamps before the unix epoch.
func New(s *store.Store, paths []string, timestamp int64, inkRoot string) (Commit, error) {
	if timestamp < 0 {
		return Commit{}, err.New(pkgName, err.CodeWorkflow, "new",
			"commit timestamp precedes the unix epoch", nil).WithContext("timestamp", timestamp)
	}

	// Every path's blob is hashed and written to the store concurrently;
	// the commit record itself is only assembled once every entry here
	// has returned, so a blob write can never be missing when the record
	// referencing it is written.
	entries := make([]entry.Entry, len(paths))
	var g errgroup.Group
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			e, entErr := entry.New(s, p, inkRoot)
			if entErr != nil {
				return err.Wrap(entErr, pkgName, "new")
			}
			entries[i] = e
			return nil
		})
	}
	if waitErr := g.Wait(); waitErr != nil {
		return Commit{}, waitErr
	}

	sort.Slice(entries, func(i, j int) bool {
		return entry.Less(entries[i], entries[j])
	})

	return Commit{
		Entries:   entries,
		Timestamp: timestamp,
		Digest:    computeDigest(entries, timestamp),
	}, nil
}

func computeDigest(entries []entry.Entry, timestamp int64) digest.Digest {
	h := digest.NewHasher()
	for _, e := range entries {
		h.Write(e.EntryDigest[:])
	}
	var tsBuf [8]byte
	putUint64(tsBuf[:], uint64(timestamp))
	h.Write(tsBuf[:])
	return digest.FromSum(h.Sum(nil))
}

func putUint64(buf []byte, v uint64) {
	for i := 7; i >= 0; i-- {
		buf[i] = byte(v)
		v >>= 8
	}
}

func commitPath(inkRoot string, d digest.Digest) string {
	return filepath.Join(inkRoot, commitDirName, d.Hex())
}

// Write persists the serialised {entries, timestamp} record to
// commit/<hex(digest)>. It writes only that record: entry blobs are written
// by New via the store, and Write does not check that they are present. A
// second Write of a commit with the same digest (two commits at the same
// second with identical content collapse to one digest, per design) is a
// no-op: the record is already there and, being content-addressed,
// identical.
func (c Commit) Write(inkRoot string) error {
	path := commitPath(inkRoot, c.Digest)

	exists, existsErr := fileops.Exists(path)
	if existsErr != nil {
		return err.New(pkgName, err.CodeIO, "write", "check existing commit record", existsErr)
	}
	if exists {
		return nil
	}

	var buf bytes.Buffer
	w := codec.NewWriter(&buf)
	w.WriteUint64(uint64(c.Timestamp))
	w.WriteUint32(uint32(len(c.Entries)))
	for _, e := range c.Entries {
		w.WriteBytes([]byte(e.Path))
		w.WriteUint32(e.Permissions)
		w.WriteRaw(e.ContentDigest[:])
		w.WriteRaw(e.EntryDigest[:])
	}
	if flushErr := w.Flush(); flushErr != nil {
		return err.Wrap(flushErr, pkgName, "write")
	}

	if writeErr := fileops.WriteReadOnly(path, buf.Bytes()); writeErr != nil {
		return err.New(pkgName, err.CodeIO, "write", "persist commit record", writeErr).
			WithContext("digest", c.Digest.Hex())
	}
	return nil
}

// From reads and deserialises the commit named d from inkRoot, recomputing
// its digest and failing if it disagrees with d.
func From(inkRoot string, d digest.Digest) (Commit, error) {
	path := commitPath(inkRoot, d)
	data, readErr := os.ReadFile(path)
	if readErr != nil {
		if os.IsNotExist(readErr) {
			return Commit{}, err.New(pkgName, err.CodeNotFound, "from", "commit not found", readErr).
				WithContext("digest", d.Hex())
		}
		return Commit{}, err.New(pkgName, err.CodeIO, "from", "read commit record", readErr)
	}

	c, parseErr := parse(data)
	if parseErr != nil {
		return Commit{}, parseErr
	}

	if c.Digest != d {
		return Commit{}, err.New(pkgName, err.CodeIntegrity, "from",
			"Actual hash of commit does not match given hash of commit", nil).
			WithContext("expected", d.Hex()).
			WithContext("actual", c.Digest.Hex())
	}
	return c, nil
}

func parse(data []byte) (Commit, error) {
	r := codec.NewReader(bytes.NewReader(data))
	timestamp := r.ReadUint64()
	count := r.ReadUint32()

	entries := make([]entry.Entry, 0, count)
	for i := uint32(0); i < count; i++ {
		pathBytes := r.ReadBytes()
		perms := r.ReadUint32()
		contentDigest := r.ReadRaw(digest.Size)
		entryDigest := r.ReadRaw(digest.Size)
		if r.Err() != nil {
			break
		}
		entries = append(entries, entry.Entry{
			Path:          string(pathBytes),
			Permissions:   perms,
			ContentDigest: digest.FromSum(contentDigest),
			EntryDigest:   digest.FromSum(entryDigest),
		})
	}

	if rerr := r.Err(); rerr != nil {
		return Commit{}, err.Wrap(rerr, pkgName, "parse")
	}

	return Commit{
		Entries:   entries,
		Timestamp: int64(timestamp),
		Digest:    computeDigest(entries, int64(timestamp)),
	}, nil
}

// HashFromPrefix resolves a hex prefix to the single commit digest it
// identifies, searching candidates (typically every digest in the commit
// graph). Fails if zero or more than one candidate matches, or if prefix is
// longer than a full digest.
func HashFromPrefix(candidates []digest.Digest, prefix string) (digest.Digest, error) {
	if len(prefix) > digest.HexSize {
		return digest.Digest{}, err.New(pkgName, err.CodeNotFound, "hash_from_prefix",
			"prefix longer than a digest", nil).WithContext("prefix", prefix)
	}

	var matches []digest.Digest
	for _, c := range candidates {
		if c.HasPrefix(prefix) {
			matches = append(matches, c)
		}
	}

	switch len(matches) {
	case 0:
		return digest.Digest{}, err.New(pkgName, err.CodeNotFound, "hash_from_prefix",
			"no match", nil).WithContext("prefix", prefix)
	case 1:
		return matches[0], nil
	default:
		return digest.Digest{}, err.New(pkgName, err.CodeAmbiguous, "hash_from_prefix",
			"ambiguous prefix", nil).WithContext("prefix", prefix).WithContext("matches", len(matches))
	}
}

// Now returns the current unix-epoch-seconds timestamp, the clock source
// New expects callers to supply.
func Now() int64 {
	return time.Now().Unix()
}
