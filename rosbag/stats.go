package rosbag

// ConnectionStats summarizes one connection as tracked by the Writer
// itself (never by re-parsing the bytes it wrote).
type ConnectionStats struct {
	ID           uint32
	Topic        string
	MsgType      string
	MessageCount int
}

// Stats reports the Writer's in-process bookkeeping: one row per
// connection with the number of messages written to it across all
// chunks (flushed and active). The chunk count is reported separately by
// ChunkCount. This is writer-side accounting, not a bag reader.
func (w *Writer) Stats() []ConnectionStats {
	counts := make(map[uint32]int, w.registry.len())
	for _, c := range w.flushed {
		for cid, entries := range c.connections {
			counts[cid] += len(entries)
		}
	}
	if w.active != nil {
		for cid, entries := range w.active.connections {
			counts[cid] += len(entries)
		}
	}

	out := make([]ConnectionStats, 0, w.registry.len())
	for id := uint32(0); id < uint32(w.registry.len()); id++ {
		conn, _ := w.registry.get(id)
		out = append(out, ConnectionStats{
			ID:           conn.ID,
			Topic:        conn.Topic,
			MsgType:      conn.MsgType,
			MessageCount: counts[id],
		})
	}
	return out
}

// ChunkCount returns the number of chunks flushed so far, plus one more
// if the active chunk is non-empty (it will become a chunk at Close).
func (w *Writer) ChunkCount() int {
	n := len(w.flushed)
	if w.active != nil && w.active.size > 0 {
		n++
	}
	return n
}
