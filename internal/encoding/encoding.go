// Package encoding provides the canonical length-prefixed binary framing
// used for Fiat-Shamir transcripts and wire marshaling. Every variable
// length field is preceded by its length as a big-endian uint32 so that
// concatenated encodings are injective.
package encoding

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math/big"
)

// ErrShortBuffer is returned when a read runs past the end of the input.
var ErrShortBuffer = errors.New("encoding: short buffer")

// Writer accumulates canonically framed fields.
type Writer struct {
	buf bytes.Buffer
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// WriteTag appends a fixed domain-separation tag without a length prefix.
// Tags must be distinct constants per use site.
func (w *Writer) WriteTag(tag string) {
	w.buf.WriteString(tag)
}

// WriteBytes appends a length-prefixed byte string.
func (w *Writer) WriteBytes(b []byte) {
	var l [4]byte
	binary.BigEndian.PutUint32(l[:], uint32(len(b)))
	w.buf.Write(l[:])
	w.buf.Write(b)
}

// WriteUint32 appends a fixed-width big-endian uint32.
func (w *Writer) WriteUint32(v uint32) {
	var l [4]byte
	binary.BigEndian.PutUint32(l[:], v)
	w.buf.Write(l[:])
}

// WriteScalar appends v as a fixed-width big-endian integer of the given
// byte width. v must be non-negative and fit in width bytes.
func (w *Writer) WriteScalar(v *big.Int, width int) {
	w.buf.Write(v.FillBytes(make([]byte, width)))
}

// Bytes returns the accumulated encoding.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Reader consumes fields written by Writer.
type Reader struct {
	data []byte
	off  int
}

// NewReader wraps data for reading.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// ReadBytes consumes a length-prefixed byte string.
func (r *Reader) ReadBytes() ([]byte, error) {
	if r.off+4 > len(r.data) {
		return nil, ErrShortBuffer
	}
	n := int(binary.BigEndian.Uint32(r.data[r.off:]))
	r.off += 4
	if r.off+n > len(r.data) {
		return nil, ErrShortBuffer
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b, nil
}

// ReadUint32 consumes a fixed-width big-endian uint32.
func (r *Reader) ReadUint32() (uint32, error) {
	if r.off+4 > len(r.data) {
		return 0, ErrShortBuffer
	}
	v := binary.BigEndian.Uint32(r.data[r.off:])
	r.off += 4
	return v, nil
}

// ReadScalar consumes a fixed-width big-endian integer of the given width.
func (r *Reader) ReadScalar(width int) (*big.Int, error) {
	if r.off+width > len(r.data) {
		return nil, ErrShortBuffer
	}
	v := new(big.Int).SetBytes(r.data[r.off : r.off+width])
	r.off += width
	return v, nil
}

// Remaining reports how many bytes are left unread.
func (r *Reader) Remaining() int {
	return len(r.data) - r.off
}
