package twswire

// FrameBuffer accumulates the payload of one outgoing message. It is owned
// by a single writer and is not safe for concurrent use.
type FrameBuffer struct {
	buf []byte
}

// NewFrameBuffer returns an empty buffer with room for capacity bytes.
func NewFrameBuffer(capacity int) *FrameBuffer {
	if capacity < 0 {
		capacity = 0
	}
	return &FrameBuffer{buf: make([]byte, 0, capacity)}
}

// Append adds raw bytes to the buffer.
func (b *FrameBuffer) Append(p []byte) {
	b.buf = append(b.buf, p...)
}

// AppendField adds the wire form of f. The buffer is left untouched on error.
func (b *FrameBuffer) AppendField(f Field) error {
	buf, err := AppendField(b.buf, f)
	if err != nil {
		return err
	}
	b.buf = buf
	return nil
}

// Bytes returns a view of the accumulated bytes. The view must not be
// modified and is only valid until the next Append.
func (b *FrameBuffer) Bytes() []byte {
	return b.buf[:len(b.buf):len(b.buf)]
}

// Len returns the number of accumulated bytes.
func (b *FrameBuffer) Len() int {
	return len(b.buf)
}

// Take hands the accumulated bytes to the caller and leaves the buffer empty.
func (b *FrameBuffer) Take() []byte {
	out := b.buf
	b.buf = nil
	return out
}
