package rosbag

import "encoding/binary"

// putU8 appends a single byte and returns the updated slice.
func putU8(buf []byte, v uint8) []byte {
	return append(buf, v)
}

// putU32 appends a little-endian uint32 and returns the updated slice.
func putU32(buf []byte, v uint32) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	return append(buf, tmp[:]...)
}

// putU64 appends a little-endian uint64 and returns the updated slice.
func putU64(buf []byte, v uint64) []byte {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	return append(buf, tmp[:]...)
}

// putTime appends the 8-byte wire form of a nanosecond timestamp: a
// little-endian sec:u32 followed by a little-endian nsec:u32.
func putTime(buf []byte, nanos int64) []byte {
	sec := uint32(nanos / 1e9)
	nsec := uint32(nanos % 1e9)
	buf = putU32(buf, sec)
	buf = putU32(buf, nsec)
	return buf
}

// getU32 reads a little-endian uint32 at offset.
func getU32(buf []byte, offset int) uint32 {
	return binary.LittleEndian.Uint32(buf[offset:])
}

// getU64 reads a little-endian uint64 at offset.
func getU64(buf []byte, offset int) uint64 {
	return binary.LittleEndian.Uint64(buf[offset:])
}
