package internal

import (
	"bytes"
	"sync"
)

// BufferPool recycles scratch buffers used for frame and packet encoding.
// Callers must Reset a buffer before returning it to the pool.
var BufferPool = sync.Pool{
	New: func() any {
		return bytes.NewBuffer(make([]byte, 0, 1024))
	},
}
