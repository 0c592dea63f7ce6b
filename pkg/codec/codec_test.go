package codec_test

import (
	"bytes"
	"testing"

	"github.com/Who23/ink/pkg/codec"
	inkerr "github.com/Who23/ink/pkg/common/err"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := codec.NewWriter(&buf)
	w.WriteUint32(42)
	w.WriteUint64(9999999999)
	w.WriteBytes([]byte("hello"))
	w.WriteRaw([]byte{1, 2, 3, 4})
	require.NoError(t, w.Flush())

	r := codec.NewReader(&buf)
	assert.Equal(t, codec.Version1, r.Version)
	assert.Equal(t, uint32(42), r.ReadUint32())
	assert.Equal(t, uint64(9999999999), r.ReadUint64())
	assert.Equal(t, []byte("hello"), r.ReadBytes())
	assert.Equal(t, []byte{1, 2, 3, 4}, r.ReadRaw(4))
	assert.NoError(t, r.Err())
}

func TestReadTruncatedRecordIsSerializationError(t *testing.T) {
	var buf bytes.Buffer
	w := codec.NewWriter(&buf)
	w.WriteUint32(100)
	require.NoError(t, w.Flush())

	// Truncate: drop the last byte of the uint32 payload.
	truncated := buf.Bytes()[:buf.Len()-1]

	r := codec.NewReader(bytes.NewReader(truncated))
	r.ReadUint32()
	assert.Error(t, r.Err())
	assert.Equal(t, inkerr.CodeSerialization, inkerr.GetCode(r.Err()))
}

func TestReadUnsupportedVersion(t *testing.T) {
	r := codec.NewReader(bytes.NewReader([]byte{0xFF, 0, 0, 0, 0}))
	assert.Error(t, r.Err())
}
