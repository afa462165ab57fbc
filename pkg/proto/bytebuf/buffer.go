// Package bytebuf implements the protocol's byte buffer abstraction: a
// byte range with independent read and write cursors that acts as both a
// proto.Source and a proto.Sink. It is the concrete Source the stream
// serializer (pkg/proto/stream) accumulates partially-received frames
// into, and the concrete Sink packet codecs serialize into before a
// frame's length prefix is known.
//
// The original implementation inherits this type from a stream-buffer
// base in the standard library it was built on; per the design notes
// that inheritance is dropped here in favor of owning a growable slice
// directly and exposing Source/Sink as the capability interfaces in
// pkg/proto (which, in Go, are just io.Reader and io.Writer).
package bytebuf

import "go.mcproto.dev/mcproto/pkg/proto"

// Buffer is a growable byte range with a read cursor and a write cursor.
// Invariant: 0 <= read <= write <= len(data).
//
// Buffer's Read never blocks: if no unread bytes are currently buffered
// it returns (0, nil) rather than io.EOF, since a Buffer cannot know
// whether more bytes will be appended later via Write. This is the
// non-blocking discipline proto.Source documents.
type Buffer struct {
	data  []byte
	read  int
	write int
}

var (
	_ proto.Source = (*Buffer)(nil)
	_ proto.Sink   = (*Buffer)(nil)
)

// New returns an empty Buffer.
func New() *Buffer { return &Buffer{} }

// Read copies up to len(p) unread bytes into p and advances the read
// cursor. It returns (0, nil), not an error, when nothing is currently
// buffered.
func (b *Buffer) Read(p []byte) (int, error) {
	n := copy(p, b.data[b.read:b.write])
	b.read += n
	return n, nil
}

// Write appends p to the buffer, growing its backing storage as needed,
// and advances the write cursor. It never returns a short write.
func (b *Buffer) Write(p []byte) (int, error) {
	b.data = append(b.data, p...)
	b.write += len(p)
	return len(p), nil
}

// Len returns the number of unread bytes.
func (b *Buffer) Len() int { return b.write - b.read }

// Bytes returns the slice of currently unread bytes. The slice is
// invalidated by the next Write or Compact call.
func (b *Buffer) Bytes() []byte { return b.data[b.read:b.write] }

// Discard advances the read cursor by n bytes without copying them out,
// as if they had been Read and thrown away. It panics if n exceeds Len,
// which would indicate a logic error in the caller.
func (b *Buffer) Discard(n int) {
	if n > b.Len() {
		panic("bytebuf: Discard beyond write cursor")
	}
	b.read += n
}

// SeekRead repositions the read cursor to an absolute offset within
// [0, write]. It is used by codecs that need to re-examine bytes they
// have already consumed, such as verifying a packet codec left the body
// buffer's read cursor at the frame's declared length.
func (b *Buffer) SeekRead(offset int) {
	if offset < 0 || offset > b.write {
		panic("bytebuf: SeekRead out of range")
	}
	b.read = offset
}

// ReadCursor returns the current read cursor position.
func (b *Buffer) ReadCursor() int { return b.read }

// Reset clears the buffer for reuse, retaining its backing storage.
func (b *Buffer) Reset() {
	b.data = b.data[:0]
	b.read = 0
	b.write = 0
}

// Compact discards already-read bytes from the backing storage, sliding
// remaining unread bytes (if any) to the front. This bounds the
// buffer's growth across many frames to the size of the largest single
// frame rather than the sum of all frames ever processed.
func (b *Buffer) Compact() {
	if b.read == 0 {
		return
	}
	n := copy(b.data, b.data[b.read:b.write])
	b.data = b.data[:n]
	b.write = n
	b.read = 0
}
