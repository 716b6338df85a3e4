package protocol

import (
	"errors"
	"fmt"
	"io"
)

const (
	// maxFrameSize bounds the declared length of a single frame. Anything
	// larger than this is treated as a corrupted stream rather than a
	// legitimate packet.
	maxFrameSize = 1024 * 1024 * 8

	readChunkSize = 1024 * 64
)

// ErrMalformedFrame is returned when a length prefix cannot be decoded or
// declares a length beyond maxFrameSize. Frame boundaries are unrecoverable
// after this, so the connection must be torn down.
var ErrMalformedFrame = errors.New("malformed frame")

// Decoder splits a byte stream into length-prefixed frames. Bytes are handed
// in with Push in whatever pieces the transport delivers them; Next pops one
// complete frame at a time. A partial frame is retained until the remaining
// bytes arrive.
type Decoder struct {
	buf []byte
}

// Push appends stream bytes to the decoder's internal buffer.
func (d *Decoder) Push(p []byte) {
	d.buf = append(d.buf, p...)
}

// Next returns the payload of the next complete frame. The second return
// value reports whether a frame was available; if false, the buffer holds an
// incomplete frame and nothing is consumed. A malformed or oversized length
// prefix returns ErrMalformedFrame.
func (d *Decoder) Next() ([]byte, bool, error) {
	length, prefixLen, err := peekVarInt32(d.buf)
	if err != nil {
		return nil, false, err
	}
	if prefixLen == 0 {
		return nil, false, nil
	}

	if length < 0 || length > maxFrameSize {
		return nil, false, fmt.Errorf("%w: declared length %d", ErrMalformedFrame, length)
	}

	total := prefixLen + int(length)
	if len(d.buf) < total {
		return nil, false, nil
	}

	payload := make([]byte, length)
	copy(payload, d.buf[prefixLen:total])
	d.buf = d.buf[total:]
	return payload, true, nil
}

// peekVarInt32 decodes a varint from the start of p without consuming it.
// It reports a prefix length of 0 if p ends before the varint does.
func peekVarInt32(p []byte) (int32, int, error) {
	var v uint32
	for i := 0; i < maxVarInt32Bytes; i++ {
		if i >= len(p) {
			return 0, 0, nil
		}

		b := p[i]
		v |= uint32(b&0x7f) << (i * 7)
		if b&0x80 == 0 {
			return int32(v), i + 1, nil
		}
	}
	return 0, 0, fmt.Errorf("%w: length prefix too long", ErrMalformedFrame)
}

// Reader reads length-prefixed frames from an underlying stream.
type Reader struct {
	r       io.Reader
	dec     Decoder
	scratch []byte
}

// NewReader creates a Reader that decodes frames from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{
		r:       r,
		scratch: make([]byte, readChunkSize),
	}
}

// ReadFrame blocks until one full frame has been received and returns its
// payload. Frames are returned in stream order. A read may deliver bytes
// together with an error; frames completed by those bytes are returned
// before the error surfaces.
func (r *Reader) ReadFrame() ([]byte, error) {
	for {
		payload, ok, err := r.dec.Next()
		if err != nil {
			return nil, err
		}
		if ok {
			return payload, nil
		}

		n, err := r.r.Read(r.scratch)
		if n > 0 {
			r.dec.Push(r.scratch[:n])
		}
		if err != nil {
			if payload, ok, derr := r.dec.Next(); derr == nil && ok {
				return payload, nil
			}
			return nil, err
		}
	}
}
