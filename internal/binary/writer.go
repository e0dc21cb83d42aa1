package binary

import (
	"fmt"
	"math"
)

// Writer writes values into a preallocated byte slice, advancing a cursor.
// The writer never grows the slice: writes that do not fit fail with
// ErrShortBuffer and leave the buffer untouched.
type Writer struct {
	buf []byte
	pos int
}

// NewWriter creates a writer positioned at the start of buf.
func NewWriter(buf []byte) *Writer {
	return &Writer{buf: buf}
}

// Pos returns the current write position.
func (w *Writer) Pos() int {
	return w.pos
}

// Remaining returns the number of bytes left after the cursor.
func (w *Writer) Remaining() int {
	if w.pos >= len(w.buf) {
		return 0
	}
	return len(w.buf) - w.pos
}

// Bytes returns the portion of the buffer written so far.
func (w *Writer) Bytes() []byte {
	return w.buf[:w.pos]
}

// reserve returns the next n bytes of the buffer and advances the cursor.
func (w *Writer) reserve(n int) ([]byte, error) {
	if w.Remaining() < n {
		return nil, fmt.Errorf("%w: writing %d bytes at %d, buffer holds %d", ErrShortBuffer, n, w.pos, len(w.buf))
	}
	b := w.buf[w.pos : w.pos+n]
	w.pos += n
	return b, nil
}

// WriteBytes writes the given bytes at the current position.
func (w *Writer) WriteBytes(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	b, err := w.reserve(len(data))
	if err != nil {
		return err
	}
	copy(b, data)
	return nil
}

// WriteUint8 writes an unsigned 8-bit integer.
func (w *Writer) WriteUint8(v uint8) error {
	b, err := w.reserve(1)
	if err != nil {
		return err
	}
	b[0] = v
	return nil
}

// WriteUint16 writes an unsigned 16-bit integer.
func (w *Writer) WriteUint16(v uint16) error {
	b, err := w.reserve(2)
	if err != nil {
		return err
	}
	Order.PutUint16(b, v)
	return nil
}

// WriteUint32 writes an unsigned 32-bit integer.
func (w *Writer) WriteUint32(v uint32) error {
	b, err := w.reserve(4)
	if err != nil {
		return err
	}
	Order.PutUint32(b, v)
	return nil
}

// WriteUint64 writes an unsigned 64-bit integer.
func (w *Writer) WriteUint64(v uint64) error {
	b, err := w.reserve(8)
	if err != nil {
		return err
	}
	Order.PutUint64(b, v)
	return nil
}

// WriteUintN writes an unsigned integer of n bytes (1, 2, 4, or 8).
func (w *Writer) WriteUintN(v uint64, n int) error {
	b, err := w.reserve(n)
	if err != nil {
		return err
	}
	encodeUint(b, v, n)
	return nil
}

// WriteFloat32 writes an IEEE-754 single precision value.
func (w *Writer) WriteFloat32(v float32) error {
	return w.WriteUint32(math.Float32bits(v))
}

// WriteFloat64 writes an IEEE-754 double precision value.
func (w *Writer) WriteFloat64(v float64) error {
	return w.WriteUint64(math.Float64bits(v))
}

// encodeUint encodes a variable-width unsigned integer into a buffer.
func encodeUint(buf []byte, v uint64, size int) {
	switch size {
	case 1:
		buf[0] = uint8(v)
	case 2:
		Order.PutUint16(buf, uint16(v))
	case 4:
		Order.PutUint32(buf, uint32(v))
	case 8:
		Order.PutUint64(buf, v)
	default:
		for i := 0; i < size; i++ {
			buf[i] = byte(v >> (8 * i))
		}
	}
}
