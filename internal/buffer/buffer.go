package buffer

// Buffer accumulates byte sequences segment by segment in a single slice,
// enforcing an upper bound on the total amount of memory it may occupy.
// Segments stay valid until Clear is called.
type Buffer struct {
	memory  []byte
	begin   int
	maxSize int
}

func New(initialSize, maxSize int) *Buffer {
	return &Buffer{
		memory:  make([]byte, 0, initialSize),
		maxSize: maxSize,
	}
}

// Append writes data into the current segment. If the limit would be
// exceeded, the data is discarded and false is returned.
func (b *Buffer) Append(data []byte) (ok bool) {
	if len(b.memory)+len(data) > b.maxSize {
		return false
	}

	b.memory = append(b.memory, data...)
	return true
}

// AppendByte writes a single byte, respecting the limit.
func (b *Buffer) AppendByte(c byte) (ok bool) {
	if len(b.memory)+1 > b.maxSize {
		return false
	}

	b.memory = append(b.memory, c)
	return true
}

// SegmentLength returns the number of bytes in the unfinished segment.
func (b *Buffer) SegmentLength() int {
	return len(b.memory) - b.begin
}

// Trunc cuts the last n bytes off the current segment. Previously finished
// segments stay intact.
func (b *Buffer) Trunc(n int) {
	if seglen := b.SegmentLength(); n > seglen {
		n = seglen
	}

	b.memory = b.memory[:len(b.memory)-n]
}

// Preview returns the current segment without finishing it.
func (b *Buffer) Preview() []byte {
	return b.memory[b.begin:]
}

// Finish completes the current segment and returns it.
func (b *Buffer) Finish() []byte {
	segment := b.memory[b.begin:]
	b.begin = len(b.memory)

	return segment
}

// Clear resets the buffer. Segments returned earlier must not be used after.
func (b *Buffer) Clear() {
	b.begin = 0
	b.memory = b.memory[:0]
}
