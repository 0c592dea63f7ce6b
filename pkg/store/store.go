// Package store implements ink's content blob store: file content is
// written once, deflate-compressed, under a flat directory keyed by the
// digest of its uncompressed bytes, and deduplicated on write.
package store

import (
	"compress/flate"
	"io"
	"os"
	"path/filepath"

	"github.com/Who23/ink/pkg/common/fileops"
	"github.com/Who23/ink/pkg/common/logger"
	"github.com/Who23/ink/pkg/digest"

	"github.com/Who23/ink/pkg/common/err"
)

const pkgName = "store"

const dataDirName = "data"

// Store is a content-addressed, deflate-compressed blob store rooted at an
// ink directory's data/ subdirectory.
type Store struct {
	root             string // path to .ink/data
	compressionLevel int
}

// New returns a Store rooted at <inkDir>/data, writing new blobs at
// flate.BestCompression until SetCompressionLevel overrides it. The
// directory is not created here; call Init for a fresh repository.
func New(inkDir string) *Store {
	return &Store{root: filepath.Join(inkDir, dataDirName), compressionLevel: flate.BestCompression}
}

// SetCompressionLevel overrides the deflate level used by subsequent Put/
// PutBytes calls, per store.compression_level (see pkg/config.TypedConfig.
// CompressionLevel). Invalid flate levels are ignored, leaving the prior
// level in place.
func (s *Store) SetCompressionLevel(level int) {
	if _, lvlErr := flate.NewWriter(io.Discard, level); lvlErr != nil {
		return
	}
	s.compressionLevel = level
}

// Init creates the data directory if it does not already exist.
func (s *Store) Init() error {
	if e := fileops.EnsureDir(s.root); e != nil {
		return err.New(pkgName, err.CodeIO, "init", "create data directory", e)
	}
	return nil
}

func (s *Store) pathFor(d digest.Digest) string {
	return filepath.Join(s.root, d.Hex())
}

// Has reports whether a blob for d is already present.
func (s *Store) Has(d digest.Digest) (bool, error) {
	ok, e := fileops.Exists(s.pathFor(d))
	if e != nil {
		return false, err.New(pkgName, err.CodeIO, "has", "stat blob", e)
	}
	return ok, nil
}

// Put streams the file at sourcePath in ≥128 KiB chunks, hashing and
// deflate-compressing it in a single pass into a temp file, then atomically
// promotes the temp file to data/<hex(digest)> if no blob with that digest
// exists yet. If a blob with the computed digest already exists, the temp
// file is discarded and the existing blob is left untouched.
//
// This is a single-pass write: the digest is only known once the whole
// source has been read, so there is no second pass whose hash could
// disagree with the first. A two-pass implementation that decides on
// existence before compressing must instead compare hashes across passes
// and fail on mismatch; this store sidesteps that failure mode entirely by
// construction.
func (s *Store) Put(sourcePath string) (digest.Digest, error) {
	src, openErr := os.Open(sourcePath)
	if openErr != nil {
		return digest.Digest{}, err.New(pkgName, err.CodeIO, "put", "open source file", openErr).
			WithContext("path", sourcePath)
	}
	defer src.Close()

	return s.putFrom(src)
}

func (s *Store) putFrom(src io.Reader) (digest.Digest, error) {
	if mkErr := fileops.EnsureDir(s.root); mkErr != nil {
		return digest.Digest{}, err.New(pkgName, err.CodeIO, "put", "ensure data directory", mkErr)
	}

	tmp, tmpErr := os.CreateTemp(s.root, ".tmp-*")
	if tmpErr != nil {
		return digest.Digest{}, err.New(pkgName, err.CodeIO, "put", "create temp file", tmpErr)
	}
	tmpPath := tmp.Name()
	defer func() {
		tmp.Close()
		os.Remove(tmpPath)
	}()

	hasher := digest.NewHasher()
	flw, flwErr := flate.NewWriter(tmp, s.compressionLevel)
	if flwErr != nil {
		return digest.Digest{}, err.New(pkgName, err.CodeIO, "put", "init deflate writer", flwErr)
	}

	buf := make([]byte, fileops.StreamChunkSize)
	tee := io.TeeReader(src, hasher)
	if _, copyErr := io.CopyBuffer(flw, tee, buf); copyErr != nil {
		return digest.Digest{}, err.New(pkgName, err.CodeIO, "put", "stream and compress", copyErr)
	}
	if closeErr := flw.Close(); closeErr != nil {
		return digest.Digest{}, err.New(pkgName, err.CodeIO, "put", "finish deflate stream", closeErr)
	}
	if syncErr := tmp.Sync(); syncErr != nil {
		return digest.Digest{}, err.New(pkgName, err.CodeIO, "put", "sync temp file", syncErr)
	}
	if closeErr := tmp.Close(); closeErr != nil {
		return digest.Digest{}, err.New(pkgName, err.CodeIO, "put", "close temp file", closeErr)
	}

	d := digest.FromSum(hasher.Sum(nil))
	finalPath := s.pathFor(d)

	exists, existsErr := fileops.Exists(finalPath)
	if existsErr != nil {
		return digest.Digest{}, err.New(pkgName, err.CodeIO, "put", "check existing blob", existsErr)
	}
	if exists {
		logger.Debug("blob already present, discarding duplicate write", "digest", d.Hex())
		return d, nil
	}

	if chmodErr := os.Chmod(tmpPath, 0444); chmodErr != nil {
		return digest.Digest{}, err.New(pkgName, err.CodeIO, "put", "chmod temp file", chmodErr)
	}
	if renameErr := os.Rename(tmpPath, finalPath); renameErr != nil {
		return digest.Digest{}, err.New(pkgName, err.CodeIO, "put", "promote temp file", renameErr)
	}

	logger.Debug("wrote blob", "digest", d.Hex())
	return d, nil
}

// PutBytes is Put for in-memory content, used when the caller already has
// the bytes rather than a source path (e.g. materializing test fixtures).
func (s *Store) PutBytes(data []byte) (digest.Digest, error) {
	return s.putFrom(bytesReader(data))
}

func bytesReader(data []byte) io.Reader {
	return &sliceReader{data: data}
}

type sliceReader struct {
	data []byte
	pos  int
}

func (r *sliceReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}

// Open materialises a decompressing reader over the blob named d. The
// caller must close it.
func (s *Store) Open(d digest.Digest) (io.ReadCloser, error) {
	f, openErr := os.Open(s.pathFor(d))
	if openErr != nil {
		if os.IsNotExist(openErr) {
			return nil, err.New(pkgName, err.CodeNotFound, "open", "blob not found", openErr).
				WithContext("digest", d.Hex())
		}
		return nil, err.New(pkgName, err.CodeIO, "open", "open blob file", openErr)
	}
	return &decompressingReadCloser{file: f, fr: flate.NewReader(f)}, nil
}

// ReadAll reads and decompresses a blob fully into memory. Intended for
// small records and tests; large file materialization should prefer Open
// and stream via fileops.StreamChunkSize-sized buffers.
func (s *Store) ReadAll(d digest.Digest) ([]byte, error) {
	r, openErr := s.Open(d)
	if openErr != nil {
		return nil, openErr
	}
	defer r.Close()

	data, readErr := io.ReadAll(r)
	if readErr != nil {
		return nil, err.New(pkgName, err.CodeIO, "read_all", "decompress blob", readErr).
			WithContext("digest", d.Hex())
	}
	return data, nil
}

type decompressingReadCloser struct {
	file *os.File
	fr   io.ReadCloser
}

func (d *decompressingReadCloser) Read(p []byte) (int, error) {
	return d.fr.Read(p)
}

func (d *decompressingReadCloser) Close() error {
	ferr := d.fr.Close()
	cerr := d.file.Close()
	if ferr != nil {
		return ferr
	}
	return cerr
}
