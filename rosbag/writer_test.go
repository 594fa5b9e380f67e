package rosbag

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// readU32 reads a record's 4-byte length prefix.
func readU32(b []byte, off int) uint32 {
	return binary.LittleEndian.Uint32(b[off : off+4])
}

func TestEmptyBag(t *testing.T) {
	sink := NewMemorySink()
	w, err := NewWriter(sink, nil)
	require.NoError(t, err)
	require.NoError(t, w.Open())
	require.NoError(t, w.Close())

	b, err := sink.Bytes()
	require.NoError(t, err)

	assert.True(t, len(b) >= 4109)
	assert.Equal(t, Magic, b[0:13])

	// BAGHEADER + padding span exactly 4096 bytes starting at 13.
	headerD := readU32(b, 13)
	headerLen := int(headerD) + 4
	padLen := int(readU32(b, 13+headerLen))
	assert.Equal(t, 4096, headerLen+4+padLen)

	indexPos := binary.LittleEndian.Uint64(extractFieldValue(t, b[13:13+headerLen], "index_pos"))
	connCount := binary.LittleEndian.Uint32(extractFieldValue(t, b[13:13+headerLen], "conn_count"))
	chunkCount := binary.LittleEndian.Uint32(extractFieldValue(t, b[13:13+headerLen], "chunk_count"))

	assert.EqualValues(t, 4109, indexPos)
	assert.EqualValues(t, 0, connCount)
	assert.EqualValues(t, 0, chunkCount)
}

// extractFieldValue is a small test-only header field scanner; it is not
// a bag reader (it never interprets record bodies or chunk contents).
func extractFieldValue(t *testing.T, headerBytes []byte, key string) []byte {
	t.Helper()
	d := readU32(headerBytes, 0)
	body := headerBytes[4 : 4+d]
	offset := 0
	for offset < len(body) {
		fieldLen := int(readU32(body, offset))
		offset += 4
		field := body[offset : offset+fieldLen]
		offset += fieldLen
		eq := bytes.IndexByte(field, '=')
		if string(field[:eq]) == key {
			return field[eq+1:]
		}
	}
	t.Fatalf("field %q not found", key)
	return nil
}

func TestInt8AutoSchema(t *testing.T) {
	sink := NewMemorySink()
	w, err := NewWriter(sink, nil)
	require.NoError(t, err)
	require.NoError(t, w.Open())

	_, err = w.AddConnection("/foo", "std_msgs/msg/Int8", nil)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	b, err := sink.Bytes()
	require.NoError(t, err)

	assert.Equal(t, 2, bytes.Count(b, []byte("int8 data")))
	assert.Equal(t, 2, bytes.Count(b, []byte("27ffa0c9c4b8fb8492252bcad9e5c57b")))
}

func TestFourConnectionsMixedWrites(t *testing.T) {
	sink := NewMemorySink()
	w, err := NewWriter(sink, nil)
	require.NoError(t, err)
	require.NoError(t, w.Open())

	c0, err := w.AddConnection("/foo", "test_msgs/msg/Test", &AddConnectionOptions{
		MsgDef: "MESSAGE_DEFINITION", MD5Sum: "HASH",
	})
	require.NoError(t, err)
	c1, err := w.AddConnection("/foo", "test_msgs/msg/Test", &AddConnectionOptions{
		MsgDef: "MESSAGE_DEFINITION", MD5Sum: "HASH", Latching: 1, HasLatching: true,
	})
	require.NoError(t, err)
	c2, err := w.AddConnection("/bar", "test_msgs/msg/Bar", &AddConnectionOptions{
		MsgDef: "OTHER_DEFINITION", MD5Sum: "HASH", CallerID: "src", HasCallerID: true,
	})
	require.NoError(t, err)
	_, err = w.AddConnection("/baz", "test_msgs/msg/Baz", &AddConnectionOptions{
		MsgDef: "NEVER_WRITTEN", MD5Sum: "HASH",
	})
	require.NoError(t, err)

	require.NoError(t, w.Write(c0, 42, []byte("DEADBEEF")))
	require.NoError(t, w.Write(c1, 42, []byte("DEADBEEF")))
	require.NoError(t, w.Write(c2, 43, []byte("SECRET")))
	require.NoError(t, w.Write(c2, 43, []byte("SUBSEQUENT")))

	require.NoError(t, w.Close())

	b, err := sink.Bytes()
	require.NoError(t, err)

	assert.Equal(t, 1, bytes.Count(b, []byte{'o', 'p', '=', byte(OpChunk)}))
	assert.Equal(t, 1, bytes.Count(b, []byte{'o', 'p', '=', byte(OpChunkInfo)}))
	assert.Equal(t, 4, bytes.Count(b, []byte("MESSAGE_DEFINITION")))
	assert.Equal(t, 2, bytes.Count(b, []byte("latching=1")))
	assert.Equal(t, 2, bytes.Count(b, []byte("OTHER_DEFINITION")))
	assert.Equal(t, 2, bytes.Count(b, []byte("callerid=src")))
	assert.Equal(t, 2, bytes.Count(b, []byte("NEVER_WRITTEN")))
	assert.Equal(t, 2, bytes.Count(b, []byte("DEADBEEF")))
	assert.Equal(t, 1, bytes.Count(b, []byte("SECRET")))
	assert.Equal(t, 1, bytes.Count(b, []byte("SUBSEQUENT")))
}

func TestInMemoryMode(t *testing.T) {
	sink := NewMemorySink()
	w, err := NewWriter(sink, nil)
	require.NoError(t, err)
	require.NoError(t, w.Open())

	c, err := w.AddConnection("/foo", "std_msgs/msg/Int8", nil)
	require.NoError(t, err)
	require.NoError(t, w.Write(c, 123, []byte{0x42}))
	require.NoError(t, w.Close())

	b, err := sink.Bytes()
	require.NoError(t, err)
	assert.Greater(t, len(b), 4100)
	assert.Contains(t, b, byte(0x42))
}

func TestOverwriteProtection(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "exists.bag")
	require.NoError(t, os.WriteFile(path, []byte("preexisting"), 0o644))

	_, err := NewFileSink(path)
	assert.ErrorIs(t, err, ErrFileExists)

	contents, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, []byte("preexisting"), contents)
}

func TestWriteBeforeOpenFails(t *testing.T) {
	w, err := NewWriter(NewMemorySink(), nil)
	require.NoError(t, err)

	_, err = w.AddConnection("/foo", "std_msgs/msg/Int8", nil)
	assert.ErrorIs(t, err, ErrNotOpen)

	err = w.Write(ConnectionHandle{}, 0, nil)
	assert.ErrorIs(t, err, ErrNotOpen)
}

func TestUnknownConnectionFails(t *testing.T) {
	w, err := NewWriter(NewMemorySink(), nil)
	require.NoError(t, err)
	require.NoError(t, w.Open())

	err = w.Write(ConnectionHandle{id: 99}, 0, nil)
	assert.ErrorIs(t, err, &UnknownConnectionError{})
}

func TestSchemaRequiredForUnknownMsgType(t *testing.T) {
	w, err := NewWriter(NewMemorySink(), nil)
	require.NoError(t, err)
	require.NoError(t, w.Open())

	_, err = w.AddConnection("/foo", "my_pkg/msg/Custom", nil)
	assert.ErrorIs(t, err, &SchemaRequiredError{})
}

func TestDuplicateConnectionRejected(t *testing.T) {
	w, err := NewWriter(NewMemorySink(), nil)
	require.NoError(t, err)
	require.NoError(t, w.Open())

	opts := &AddConnectionOptions{MsgDef: "D", MD5Sum: "M"}
	_, err = w.AddConnection("/foo", "t", opts)
	require.NoError(t, err)
	_, err = w.AddConnection("/foo", "t", opts)
	assert.ErrorIs(t, err, ErrDuplicateConnection)
}

func TestOpenIsIdempotentWhenAlreadyOpen(t *testing.T) {
	sink := NewMemorySink()
	w, err := NewWriter(sink, nil)
	require.NoError(t, err)
	require.NoError(t, w.Open())
	posAfterFirstOpen := sink.Position()
	require.NoError(t, w.Open())
	assert.Equal(t, posAfterFirstOpen, sink.Position())
}

func TestCloseIsIdempotentWhenAlreadyClosed(t *testing.T) {
	w, err := NewWriter(NewMemorySink(), nil)
	require.NoError(t, err)
	require.NoError(t, w.Open())
	require.NoError(t, w.Close())
	assert.NoError(t, w.Close())
}

func TestChunkRotationOnThreshold(t *testing.T) {
	sink := NewMemorySink()
	w, err := NewWriter(sink, &WriterOptions{ChunkThreshold: 64, CompressionFormat: CompressionNone})
	require.NoError(t, err)
	require.NoError(t, w.Open())

	c, err := w.AddConnection("/foo", "std_msgs/msg/Int8", nil)
	require.NoError(t, err)

	payload := bytes.Repeat([]byte{0xAA}, 40)
	for i := 0; i < 5; i++ {
		require.NoError(t, w.Write(c, int64(i), payload))
	}
	require.NoError(t, w.Close())

	b, err := sink.Bytes()
	require.NoError(t, err)
	assert.Greater(t, bytes.Count(b, []byte{byte(OpChunk)}), 1)
}

func TestUnsupportedCompressionRejected(t *testing.T) {
	_, err := NewWriter(NewMemorySink(), &WriterOptions{CompressionFormat: "bz2"})
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestReopenAfterCloseFails(t *testing.T) {
	w, err := NewWriter(NewMemorySink(), nil)
	require.NoError(t, err)
	require.NoError(t, w.Open())
	require.NoError(t, w.Close())
	assert.ErrorIs(t, w.Open(), ErrAlreadyClosed)
}
