package rosbag

import "strconv"

// Header is an ordered key-to-value map, serialized as a sequence of
// length-prefixed "key=value" fields. Insertion order is preserved and
// defines serialization order.
type Header struct {
	fields []headerField
}

type headerField struct {
	key   string
	value []byte
}

// NewHeader returns an empty Header.
func NewHeader() *Header {
	return &Header{}
}

// SetU32 inserts a field whose value is a little-endian uint32.
func (h *Header) SetU32(key string, v uint32) *Header {
	h.fields = append(h.fields, headerField{key, putU32(nil, v)})
	return h
}

// SetU64 inserts a field whose value is a little-endian uint64.
func (h *Header) SetU64(key string, v uint64) *Header {
	h.fields = append(h.fields, headerField{key, putU64(nil, v)})
	return h
}

// SetString inserts a field whose value is the raw bytes of s.
func (h *Header) SetString(key string, v string) *Header {
	h.fields = append(h.fields, headerField{key, []byte(v)})
	return h
}

// SetTime inserts a field whose value is the 8-byte (sec, nsec) encoding
// of a nanosecond timestamp.
func (h *Header) SetTime(key string, nanos int64) *Header {
	h.fields = append(h.fields, headerField{key, putTime(nil, nanos)})
	return h
}

// SetInt inserts a field whose value is the decimal string form of v, used
// for the "latching" connection extension field.
func (h *Header) SetInt(key string, v int) *Header {
	return h.SetString(key, strconv.Itoa(v))
}

// Bytes serializes the header with no leading opcode field.
func (h *Header) Bytes() []byte {
	return h.serialize(nil)
}

// BytesWithOp serializes the header with a synthetic leading "op" field
// whose value is the single opcode byte.
func (h *Header) BytesWithOp(op OpCode) []byte {
	return h.serialize(&op)
}

func (h *Header) serialize(op *OpCode) []byte {
	fields := h.fields
	if op != nil {
		opField := headerField{"op", []byte{byte(*op)}}
		fields = append([]headerField{opField}, fields...)
	}

	var body []byte
	for _, f := range fields {
		fieldLen := len(f.key) + 1 + len(f.value)
		body = putU32(body, uint32(fieldLen))
		body = append(body, f.key...)
		body = append(body, '=')
		body = append(body, f.value...)
	}

	out := putU32(nil, uint32(len(body)))
	out = append(out, body...)
	return out
}
