package rosbag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewChunkSentinels(t *testing.T) {
	c := newChunk()
	assert.Equal(t, int64(-1), c.pos)
	assert.Equal(t, int64(0), c.startTime())
	assert.Equal(t, int64(0), c.end)
}

func TestChunkAppendTracksOffsetAndSize(t *testing.T) {
	c := newChunk()
	o1 := c.Append([]byte("hello"))
	o2 := c.Append([]byte("!!"))
	assert.Equal(t, 0, o1)
	assert.Equal(t, 5, o2)
	assert.Equal(t, 7, c.Offset())
	assert.Equal(t, []byte("hello!!"), c.Finalize())
}

func TestChunkRecordMessageUpdatesRangeAndOrder(t *testing.T) {
	c := newChunk()
	c.recordMessage(2, 100, 0)
	c.recordMessage(1, 50, 10)
	c.recordMessage(2, 200, 20)

	assert.Equal(t, int64(50), c.startTime())
	assert.Equal(t, int64(200), c.end)
	assert.Equal(t, []uint32{2, 1}, c.connOrder)
	assert.Len(t, c.connections[2], 2)
	assert.Len(t, c.connections[1], 1)
}
