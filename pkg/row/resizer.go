package row

// Resizer grows the memory backing a row buffer.
type Resizer interface {
	// Resize returns a slice of at least minimum bytes whose prefix holds
	// existing.
	Resize(minimum int, existing []byte) []byte
}

// MemoryResizer allocates from the Go heap, at least doubling each time.
type MemoryResizer struct {
	// InitialCapacity is the smallest allocation made. Zero means 64 bytes.
	InitialCapacity int
}

// DefaultResizer is shared by buffers created without one.
var DefaultResizer Resizer = &MemoryResizer{}

func (r *MemoryResizer) Resize(minimum int, existing []byte) []byte {
	n := 2 * cap(existing)
	if n < r.initial() {
		n = r.initial()
	}
	if n < minimum {
		n = minimum
	}
	buf := make([]byte, n)
	copy(buf, existing)
	return buf
}

func (r *MemoryResizer) initial() int {
	if r == nil || r.InitialCapacity <= 0 {
		return 64
	}
	return r.InitialCapacity
}
