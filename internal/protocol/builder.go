package protocol

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Builder constructs little-endian struct message bodies for sending to
// the Game Coordinator.
type Builder struct {
	buf bytes.Buffer
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Reset clears the builder for reuse.
func (b *Builder) Reset() {
	b.buf.Reset()
}

// WriteInt16 writes an int16 in little-endian order.
func (b *Builder) WriteInt16(v int16) *Builder {
	binary.Write(&b.buf, binary.LittleEndian, v)
	return b
}

// WriteUint16 writes a uint16 in little-endian order.
func (b *Builder) WriteUint16(v uint16) *Builder {
	binary.Write(&b.buf, binary.LittleEndian, v)
	return b
}

// WriteUint32 writes a uint32 in little-endian order.
func (b *Builder) WriteUint32(v uint32) *Builder {
	binary.Write(&b.buf, binary.LittleEndian, v)
	return b
}

// WriteUint64 writes a uint64 in little-endian order.
func (b *Builder) WriteUint64(v uint64) *Builder {
	binary.Write(&b.buf, binary.LittleEndian, v)
	return b
}

// WriteBytes writes raw bytes.
func (b *Builder) WriteBytes(data []byte) *Builder {
	b.buf.Write(data)
	return b
}

// Build returns the constructed body bytes.
func (b *Builder) Build() []byte {
	return b.buf.Bytes()
}

// Len returns the current size of the body being built.
func (b *Builder) Len() int {
	return b.buf.Len()
}

// String returns a hex dump of the current body for debugging.
func (b *Builder) String() string {
	data := b.buf.Bytes()
	return fmt.Sprintf("Builder[%d bytes]: %x", len(data), data)
}

// Reader decodes little-endian struct message bodies. Read errors are
// sticky: after the first short read every subsequent call returns zero
// and Err reports the failure.
type Reader struct {
	data []byte
	off  int
	err  error
}

// NewReader creates a Reader over a message body.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

func (r *Reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if r.off+n > len(r.data) {
		r.err = fmt.Errorf("struct body truncated at offset %d: want %d more bytes, have %d", r.off, n, len(r.data)-r.off)
		return nil
	}
	chunk := r.data[r.off : r.off+n]
	r.off += n
	return chunk
}

// Int16 reads a little-endian int16.
func (r *Reader) Int16() int16 {
	chunk := r.take(2)
	if chunk == nil {
		return 0
	}
	return int16(binary.LittleEndian.Uint16(chunk))
}

// Uint32 reads a little-endian uint32.
func (r *Reader) Uint32() uint32 {
	chunk := r.take(4)
	if chunk == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(chunk)
}

// Uint64 reads a little-endian uint64.
func (r *Reader) Uint64() uint64 {
	chunk := r.take(8)
	if chunk == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(chunk)
}

// Err returns the first read failure, if any.
func (r *Reader) Err() error {
	return r.err
}
