package protocol

import (
	"bytes"
	"errors"
)

const (
	// maxVarInt32Bytes is the longest valid encoding of a 32-bit varint.
	maxVarInt32Bytes = 5
	maxVarInt64Bytes = 10
)

var errVarIntTooLarge = errors.New("varint exceeds maximum length")

// ReadVarInt32 reads a 32-bit variable-length integer from buf. The encoding
// stores 7 bits per byte, least significant group first, with the high bit
// set on every byte except the last.
func ReadVarInt32(buf *bytes.Buffer) (int32, error) {
	var v uint32
	for i := 0; i < maxVarInt32Bytes; i++ {
		b, err := buf.ReadByte()
		if err != nil {
			return 0, err
		}

		v |= uint32(b&0x7f) << (i * 7)
		if b&0x80 == 0 {
			return int32(v), nil
		}
	}
	return 0, errVarIntTooLarge
}

// ReadVarInt64 reads a 64-bit variable-length integer from buf.
func ReadVarInt64(buf *bytes.Buffer) (int64, error) {
	var v uint64
	for i := 0; i < maxVarInt64Bytes; i++ {
		b, err := buf.ReadByte()
		if err != nil {
			return 0, err
		}

		v |= uint64(b&0x7f) << (i * 7)
		if b&0x80 == 0 {
			return int64(v), nil
		}
	}
	return 0, errVarIntTooLarge
}

// WriteVarInt32 appends the variable-length encoding of v to buf.
func WriteVarInt32(buf *bytes.Buffer, v int32) {
	u := uint32(v)
	for u >= 0x80 {
		buf.WriteByte(byte(u) | 0x80)
		u >>= 7
	}
	buf.WriteByte(byte(u))
}

// WriteVarInt64 appends the variable-length encoding of v to buf.
func WriteVarInt64(buf *bytes.Buffer, v int64) {
	u := uint64(v)
	for u >= 0x80 {
		buf.WriteByte(byte(u) | 0x80)
		u >>= 7
	}
	buf.WriteByte(byte(u))
}

// VarInt32Size returns the number of bytes WriteVarInt32 produces for v.
func VarInt32Size(v int32) int {
	u := uint32(v)
	n := 1
	for u >= 0x80 {
		u >>= 7
		n++
	}
	return n
}
