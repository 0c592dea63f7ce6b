// Package codec implements the deterministic binary encoding used for every
// on-disk record in ink: commits and the commit graph. Entries are never
// compressed (only content blobs are, in pkg/store); the codec favors a
// simple, versionable framing over density.
//
// Every record begins with a one-byte format version so a future encoding
// change can be detected on read rather than silently misparsed.
package codec

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/Who23/ink/pkg/common/err"
)

const pkgName = "codec"

// Version1 is the only wire format ink currently writes.
const Version1 byte = 1

// Writer wraps a byte-oriented sink with the fixed-width primitives used to
// build a record: bytes, length-prefixed byte strings, and big-endian
// integers.
type Writer struct {
	w   *bufio.Writer
	err error
}

// NewWriter wraps w, writing the format version byte immediately.
func NewWriter(w io.Writer) *Writer {
	bw := &Writer{w: bufio.NewWriter(w)}
	bw.WriteByte(Version1)
	return bw
}

func (w *Writer) WriteByte(b byte) {
	if w.err != nil {
		return
	}
	w.err = w.w.WriteByte(b)
}

// WriteUint32 writes v as 4 big-endian bytes.
func (w *Writer) WriteUint32(v uint32) {
	if w.err != nil {
		return
	}
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	_, w.err = w.w.Write(buf[:])
}

// WriteUint64 writes v as 8 big-endian bytes.
func (w *Writer) WriteUint64(v uint64) {
	if w.err != nil {
		return
	}
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	_, w.err = w.w.Write(buf[:])
}

// WriteBytes writes a uint32 length prefix followed by data.
func (w *Writer) WriteBytes(data []byte) {
	w.WriteUint32(uint32(len(data)))
	if w.err != nil {
		return
	}
	_, w.err = w.w.Write(data)
}

// WriteRaw writes data with no length prefix, for fixed-width fields such
// as a 32-byte digest.
func (w *Writer) WriteRaw(data []byte) {
	if w.err != nil {
		return
	}
	_, w.err = w.w.Write(data)
}

// Flush drains the underlying buffer and returns the first error
// encountered across the writer's lifetime, if any.
func (w *Writer) Flush() error {
	if w.err != nil {
		return err.New(pkgName, err.CodeIO, "write", "failed writing record", w.err)
	}
	if ferr := w.w.Flush(); ferr != nil {
		return err.New(pkgName, err.CodeIO, "flush", "failed flushing record", ferr)
	}
	return nil
}

// Reader is the mirror of Writer: fixed-width and length-prefixed reads
// from a byte-oriented source, tracking the first error encountered so
// callers can chain reads without checking every one.
type Reader struct {
	r       *bufio.Reader
	err     error
	Version byte
}

// NewReader wraps r and reads the leading version byte.
func NewReader(r io.Reader) *Reader {
	br := &Reader{r: bufio.NewReader(r)}
	b, rerr := br.r.ReadByte()
	if rerr != nil {
		br.err = rerr
		return br
	}
	br.Version = b
	if b != Version1 {
		br.err = err.New(pkgName, err.CodeSerialization, "read_version",
			"unsupported record version", nil).WithContext("version", b)
	}
	return br
}

func (r *Reader) ReadUint32() uint32 {
	if r.err != nil {
		return 0
	}
	var buf [4]byte
	if _, r.err = io.ReadFull(r.r, buf[:]); r.err != nil {
		return 0
	}
	return binary.BigEndian.Uint32(buf[:])
}

func (r *Reader) ReadUint64() uint64 {
	if r.err != nil {
		return 0
	}
	var buf [8]byte
	if _, r.err = io.ReadFull(r.r, buf[:]); r.err != nil {
		return 0
	}
	return binary.BigEndian.Uint64(buf[:])
}

// ReadBytes reads a uint32 length prefix followed by that many bytes.
func (r *Reader) ReadBytes() []byte {
	if r.err != nil {
		return nil
	}
	n := r.ReadUint32()
	if r.err != nil {
		return nil
	}
	buf := make([]byte, n)
	if _, r.err = io.ReadFull(r.r, buf); r.err != nil {
		return nil
	}
	return buf
}

// ReadRaw reads exactly n bytes with no length prefix.
func (r *Reader) ReadRaw(n int) []byte {
	if r.err != nil {
		return nil
	}
	buf := make([]byte, n)
	if _, r.err = io.ReadFull(r.r, buf); r.err != nil {
		return nil
	}
	return buf
}

// Err returns the first error encountered, or nil if every read so far has
// succeeded. An error that already carries a code is returned as is; a
// truncated record (EOF) is wrapped as a serialization error, and any
// other read failure as an I/O error.
func (r *Reader) Err() error {
	if r.err == nil {
		return nil
	}
	if err.GetCode(r.err) != "" {
		return r.err
	}
	if r.err == io.EOF || r.err == io.ErrUnexpectedEOF {
		return err.New(pkgName, err.CodeSerialization, "read", "truncated record", r.err)
	}
	return err.New(pkgName, err.CodeIO, "read", "failed reading record", r.err)
}
