package packet

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/quartzmc/quartz/protocol"
)

// maxStringLength bounds varint-prefixed strings. The protocol caps chat and
// identifier strings well below this.
const maxStringLength = 1 << 16

// Field helpers shared by the packet implementations. Fixed-width fields are
// big-endian on the wire; strings and length prefixes are varints.

func ReadString(buf *bytes.Buffer) (string, error) {
	length, err := protocol.ReadVarInt32(buf)
	if err != nil {
		return "", err
	}
	if length < 0 || length > maxStringLength {
		return "", fmt.Errorf("string length %d out of range", length)
	}
	if buf.Len() < int(length) {
		return "", fmt.Errorf("string truncated: need %d bytes, have %d", length, buf.Len())
	}
	return string(buf.Next(int(length))), nil
}

func WriteString(buf *bytes.Buffer, s string) {
	protocol.WriteVarInt32(buf, int32(len(s)))
	buf.WriteString(s)
}

func ReadBool(buf *bytes.Buffer) (bool, error) {
	b, err := buf.ReadByte()
	return b != 0, err
}

func WriteBool(buf *bytes.Buffer, v bool) {
	if v {
		buf.WriteByte(1)
	} else {
		buf.WriteByte(0)
	}
}

func ReadUint8(buf *bytes.Buffer) (uint8, error) {
	return buf.ReadByte()
}

func ReadUint16(buf *bytes.Buffer) (v uint16, err error) {
	err = binary.Read(buf, binary.BigEndian, &v)
	return
}

func WriteUint16(buf *bytes.Buffer, v uint16) {
	_ = binary.Write(buf, binary.BigEndian, v)
}

func ReadInt32(buf *bytes.Buffer) (v int32, err error) {
	err = binary.Read(buf, binary.BigEndian, &v)
	return
}

func WriteInt32(buf *bytes.Buffer, v int32) {
	_ = binary.Write(buf, binary.BigEndian, v)
}

func ReadInt64(buf *bytes.Buffer) (v int64, err error) {
	err = binary.Read(buf, binary.BigEndian, &v)
	return
}

func WriteInt64(buf *bytes.Buffer, v int64) {
	_ = binary.Write(buf, binary.BigEndian, v)
}

func ReadFloat64(buf *bytes.Buffer) (float64, error) {
	var bits uint64
	if err := binary.Read(buf, binary.BigEndian, &bits); err != nil {
		return 0, err
	}
	return math.Float64frombits(bits), nil
}

func WriteFloat64(buf *bytes.Buffer, v float64) {
	_ = binary.Write(buf, binary.BigEndian, math.Float64bits(v))
}

// ReadByteSlice reads a varint-prefixed byte slice.
func ReadByteSlice(buf *bytes.Buffer) ([]byte, error) {
	length, err := protocol.ReadVarInt32(buf)
	if err != nil {
		return nil, err
	}
	if length < 0 || buf.Len() < int(length) {
		return nil, fmt.Errorf("byte slice truncated: need %d bytes, have %d", length, buf.Len())
	}
	data := make([]byte, length)
	copy(data, buf.Next(int(length)))
	return data, nil
}

// WriteByteSlice writes a varint-prefixed byte slice.
func WriteByteSlice(buf *bytes.Buffer, p []byte) {
	protocol.WriteVarInt32(buf, int32(len(p)))
	buf.Write(p)
}
