package protocol

import (
	"bytes"
	"io"

	"github.com/quartzmc/quartz/internal"
)

// Writer writes length-prefixed frames to an underlying stream.
type Writer struct {
	w io.Writer
}

// NewWriter creates a Writer that encodes frames to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteFrame prefixes data with its varint-encoded length and writes the
// whole frame in a single call to the underlying writer.
func (w *Writer) WriteFrame(data []byte) (err error) {
	buf := internal.BufferPool.Get().(*bytes.Buffer)
	defer func() {
		buf.Reset()
		internal.BufferPool.Put(buf)
	}()

	WriteVarInt32(buf, int32(len(data)))
	buf.Write(data)
	if _, err = w.w.Write(buf.Bytes()); err != nil {
		return err
	}
	return
}
