package rosbag

// WriterOptions configures a Writer. NewWriter replaces zero-valued
// fields with their defaults, so the zero value behaves like
// DefaultWriterOptions.
type WriterOptions struct {
	// ChunkThreshold is the chunk body size, in bytes, past which the
	// active chunk is flushed after the message that crossed it. Values
	// <= 0 mean the default of 1 MiB.
	ChunkThreshold int
	// CompressionFormat must be CompressionNone or empty (treated as
	// CompressionNone); anything else is rejected with ErrUnsupported.
	CompressionFormat string
}

// DefaultWriterOptions returns the default configuration: a 1 MiB chunk
// threshold and no chunk compression.
func DefaultWriterOptions() *WriterOptions {
	return &WriterOptions{
		ChunkThreshold:    defaultChunkThreshold,
		CompressionFormat: CompressionNone,
	}
}

// ConnectionHandle is an opaque reference to a Connection, valid only
// against the Writer that produced it.
type ConnectionHandle struct {
	id uint32
}

// AddConnectionOptions carries the optional extension fields for
// AddConnection.
type AddConnectionOptions struct {
	MsgDef   string // empty means "look up in the predefined schema table"
	MD5Sum   string // empty means "look up in the predefined schema table"
	CallerID string
	HasCallerID bool
	Latching    int
	HasLatching bool
}

// Writer orchestrates the open/addConnection/write/close lifecycle for a
// single ROS1 bag v2.0 file. It is single-owner and not safe for
// concurrent use.
type Writer struct {
	sink  Sink
	opts  WriterOptions
	phase Phase

	registry *connectionRegistry
	active   *Chunk
	flushed  []*Chunk
}

// NewWriter returns a Writer in the Fresh phase, targeting sink. opts may
// be nil to use DefaultWriterOptions.
func NewWriter(sink Sink, opts *WriterOptions) (*Writer, error) {
	if opts == nil {
		opts = DefaultWriterOptions()
	}
	if opts.CompressionFormat == "" {
		opts.CompressionFormat = CompressionNone
	}
	if opts.CompressionFormat != CompressionNone {
		return nil, ErrUnsupported
	}
	if opts.ChunkThreshold <= 0 {
		opts.ChunkThreshold = defaultChunkThreshold
	}
	return &Writer{
		sink:     sink,
		opts:     *opts,
		phase:    PhaseFresh,
		registry: newConnectionRegistry(),
	}, nil
}

// Open writes the magic, a preliminary BAGHEADER, and its padding, then
// installs an empty active chunk. It is a no-op if already Open.
func (w *Writer) Open() error {
	switch w.phase {
	case PhaseOpen:
		return nil
	case PhaseClosed:
		return ErrAlreadyClosed
	}

	if _, err := w.sink.Write(Magic); err != nil {
		return ioErr(err)
	}

	prelim := w.bagHeaderBytes(0, 0, 0)
	if _, err := w.sink.Write(prelim); err != nil {
		return ioErr(err)
	}
	if err := w.writePadding(len(prelim)); err != nil {
		return err
	}

	w.active = newChunk()
	w.phase = PhaseOpen
	return nil
}

// bagHeaderBytes serializes a BAGHEADER record (header only; it carries
// no body) with the given field values.
func (w *Writer) bagHeaderBytes(indexPos uint64, connCount, chunkCount uint32) []byte {
	h := NewHeader()
	h.SetU64("index_pos", indexPos)
	h.SetU32("conn_count", connCount)
	h.SetU32("chunk_count", chunkCount)
	return h.BytesWithOp(OpBagHeader)
}

// writePadding emits the padding record that completes the fixed
// bagHeaderEnvelope-byte region reserved at offset 13. headerLen is the
// size, in bytes, of the BAGHEADER record just written (including its own
// 4-byte length prefix).
func (w *Writer) writePadding(headerLen int) error {
	padLen := bagHeaderEnvelope - 4 - headerLen
	rec := putU32(nil, uint32(padLen))
	rec = append(rec, spaces(padLen)...)
	_, err := w.sink.Write(rec)
	return ioErr(err)
}

func spaces(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return b
}

// AddConnection registers a new connection. If opts is nil, or its
// MsgDef/MD5Sum are empty, they are looked up in the predefined schema
// table for msgtype; if no entry exists there either, SchemaRequiredError
// is returned.
func (w *Writer) AddConnection(topic, msgtype string, opts *AddConnectionOptions) (ConnectionHandle, error) {
	if w.phase != PhaseOpen {
		return ConnectionHandle{}, ErrNotOpen
	}
	if opts == nil {
		opts = &AddConnectionOptions{}
	}

	msgdef, md5sum := opts.MsgDef, opts.MD5Sum
	if msgdef == "" || md5sum == "" {
		d, m, ok := lookupSchema(msgtype)
		if !ok {
			return ConnectionHandle{}, &SchemaRequiredError{MsgType: msgtype}
		}
		if msgdef == "" {
			msgdef = d
		}
		if md5sum == "" {
			md5sum = m
		}
	}

	conn, err := w.registry.add(topic, msgtype, msgdef, md5sum, opts.CallerID, opts.HasCallerID, opts.Latching, opts.HasLatching)
	if err != nil {
		return ConnectionHandle{}, err
	}

	w.active.Append(w.connectionRecordBytes(conn))
	return ConnectionHandle{id: conn.ID}, nil
}

// connectionRecordBytes serializes the pair of headers that make up one
// CONNECTION record: an outer header {op=CONNECTION, conn, topic} and a
// body that is itself a serialized header carrying the full schema.
func (w *Writer) connectionRecordBytes(c *Connection) []byte {
	outer := NewHeader().SetU32("conn", c.ID).SetString("topic", c.Topic)
	outerBytes := outer.BytesWithOp(OpConnection)

	inner := NewHeader().
		SetString("topic", c.Topic).
		SetString("type", c.MsgType).
		SetString("md5sum", c.MD5Sum).
		SetString("message_definition", c.MsgDef)
	if c.HasCallerID {
		inner.SetString("callerid", c.CallerID)
	}
	if c.HasLatching {
		inner.SetInt("latching", c.Latching)
	}
	innerBytes := inner.Bytes()

	rec := append([]byte{}, outerBytes...)
	rec = putU32(rec, uint32(len(innerBytes)))
	rec = append(rec, innerBytes...)
	return rec
}

// Write appends a message to the active chunk, rotating to a new chunk
// if the size threshold is exceeded afterward.
func (w *Writer) Write(handle ConnectionHandle, timestampNs int64, payload []byte) error {
	if w.phase != PhaseOpen {
		return ErrNotOpen
	}
	if _, ok := w.registry.get(handle.id); !ok {
		return &UnknownConnectionError{ID: handle.id}
	}

	offset := w.active.Offset()

	msgHeader := NewHeader().SetU32("conn", handle.id).SetTime("time", timestampNs)
	rec := msgHeader.BytesWithOp(OpMsgData)
	rec = putU32(rec, uint32(len(payload)))
	rec = append(rec, payload...)
	w.active.Append(rec)

	w.active.recordMessage(handle.id, timestampNs, offset)

	if w.active.size > w.opts.ChunkThreshold {
		if err := w.flushActive(); err != nil {
			return err
		}
		w.active = newChunk()
	}
	return nil
}

// flushActive writes the active chunk's CHUNK record and its per
// connection IDXDATA records to the sink, then appends it to flushed.
func (w *Writer) flushActive() error {
	c := w.active
	c.pos = int64(w.sink.Position())

	chunkHeader := NewHeader().
		SetString("compression", CompressionNone).
		SetU32("size", uint32(c.size))
	if _, err := w.sink.Write(chunkHeader.BytesWithOp(OpChunk)); err != nil {
		return ioErr(err)
	}
	body := c.Finalize()
	if _, err := w.sink.Write(putU32(nil, uint32(len(body)))); err != nil {
		return ioErr(err)
	}
	if _, err := w.sink.Write(body); err != nil {
		return ioErr(err)
	}

	for _, cid := range c.connOrder {
		entries := c.connections[cid]
		idxHeader := NewHeader().
			SetU32("ver", 1).
			SetU32("conn", cid).
			SetU32("count", uint32(len(entries)))
		if _, err := w.sink.Write(idxHeader.BytesWithOp(OpIndexData)); err != nil {
			return ioErr(err)
		}
		data := putU32(nil, uint32(12*len(entries)))
		for _, e := range entries {
			data = putTime(data, e.timestamp)
			data = putU32(data, e.offset)
		}
		if _, err := w.sink.Write(data); err != nil {
			return ioErr(err)
		}
	}

	w.flushed = append(w.flushed, c)
	return nil
}

// Close flushes any pending chunk, writes the tail (connection records
// followed by one CHUNK_INFO per flushed chunk), and back-patches the
// BAGHEADER at offset 13. It is a no-op if already Closed.
func (w *Writer) Close() error {
	if w.phase == PhaseClosed {
		return nil
	}
	if w.phase != PhaseOpen {
		return ErrNotOpen
	}

	if w.active != nil && w.active.pos == -1 && w.active.size > 0 {
		if err := w.flushActive(); err != nil {
			return err
		}
		w.active = nil
	}

	indexPos := w.sink.Position()

	for id := uint32(0); id < uint32(w.registry.len()); id++ {
		conn, _ := w.registry.get(id)
		if _, err := w.sink.Write(w.connectionRecordBytes(conn)); err != nil {
			return ioErr(err)
		}
	}

	for _, c := range w.flushed {
		infoHeader := NewHeader().
			SetU32("ver", 1).
			SetU64("chunk_pos", uint64(c.pos)).
			SetTime("start_time", c.startTime()).
			SetTime("end_time", c.end).
			SetU32("count", uint32(len(c.connections)))
		if _, err := w.sink.Write(infoHeader.BytesWithOp(OpChunkInfo)); err != nil {
			return ioErr(err)
		}
		data := putU32(nil, uint32(8*len(c.connections)))
		for _, cid := range c.connOrder {
			entries := c.connections[cid]
			data = putU32(data, cid)
			data = putU32(data, uint32(len(entries)))
		}
		if _, err := w.sink.Write(data); err != nil {
			return ioErr(err)
		}
	}

	final := w.bagHeaderBytes(indexPos, uint32(w.registry.len()), uint32(len(w.flushed)))
	padLen := bagHeaderEnvelope - 4 - len(final)
	padRec := putU32(nil, uint32(padLen))
	padRec = append(padRec, spaces(padLen)...)

	if err := w.sink.Patch(13, final); err != nil {
		return err
	}
	if err := w.sink.Patch(uint64(13+len(final)), padRec); err != nil {
		return err
	}

	if err := w.sink.Close(); err != nil {
		return ioErr(err)
	}
	w.phase = PhaseClosed
	return nil
}

// Phase returns the writer's current lifecycle phase.
func (w *Writer) Phase() Phase {
	return w.phase
}
