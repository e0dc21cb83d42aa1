package alloc

import (
	"errors"
	"fmt"
)

// ErrExhausted is returned when a request does not fit in what is left of a
// PreAlloc buffer.
var ErrExhausted = errors.New("alloc: preallocated buffer exhausted")

// PreAlloc serves successive requests out of a single caller-owned buffer.
// It never grows the buffer and never frees it.
type PreAlloc struct {
	buf      []byte
	off      int
	requests []int
}

// NewPreAlloc wraps buf. The buffer stays owned by the caller.
func NewPreAlloc(buf []byte) *PreAlloc {
	return &PreAlloc{buf: buf}
}

// Alloc reserves the next n bytes and returns them for writing.
func (p *PreAlloc) Alloc(n int) ([]byte, error) {
	b, err := p.take(n)
	if err != nil {
		return nil, err
	}
	p.requests = append(p.requests, n)
	return b, nil
}

// Next returns the next n bytes for reading. It advances the same cursor as
// Alloc but is not recorded as a request.
func (p *PreAlloc) Next(n int) ([]byte, error) {
	return p.take(n)
}

func (p *PreAlloc) take(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("alloc: negative request %d", n)
	}
	if p.Remaining() < n {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, %d available",
			ErrExhausted, n, p.off, p.Remaining())
	}
	b := p.buf[p.off : p.off+n : p.off+n]
	p.off += n
	return b, nil
}

// Offset returns the cursor position.
func (p *PreAlloc) Offset() int {
	return p.off
}

// Remaining returns the number of bytes after the cursor.
func (p *PreAlloc) Remaining() int {
	return len(p.buf) - p.off
}

// Len returns the size of the wrapped buffer.
func (p *PreAlloc) Len() int {
	return len(p.buf)
}

// Bytes returns the portion of the buffer consumed so far.
func (p *PreAlloc) Bytes() []byte {
	return p.buf[:p.off]
}

// Requests returns the sizes of the Alloc calls served since the last Reset.
func (p *PreAlloc) Requests() []int {
	result := make([]int, len(p.requests))
	copy(result, p.requests)
	return result
}

// Reset rewinds the cursor to the start of the buffer. The contents are
// kept so a packed buffer can be read back.
func (p *PreAlloc) Reset() {
	p.off = 0
	p.requests = p.requests[:0]
}

// Sum adds up request sizes collected before a pack.
func Sum(requests ...int) int {
	var total int
	for _, n := range requests {
		total += n
	}
	return total
}
