// Package hilbert converts between N-dimensional integer coordinates and
// their index along a Hilbert curve of order m, using Skilling's transpose
// method. A curve of order m covers the cube [0, 2^m)^dim and visits every
// cell exactly once, each step moving to a face-adjacent cell.
package hilbert

import (
	"errors"
	"fmt"
)

// ErrOrder is returned when the order and dimension cannot be represented
// in a 64-bit index, or a coordinate does not fit in m bits.
var ErrOrder = errors.New("hilbert: coordinate does not fit curve order")

// Check validates an order and dimension pair.
func Check(m, dim int) error {
	if dim < 1 {
		return fmt.Errorf("%w: dimension %d", ErrOrder, dim)
	}
	if m < 1 || m*dim > 64 {
		return fmt.Errorf("%w: order %d in %d dimensions needs %d index bits", ErrOrder, m, dim, m*dim)
	}
	return nil
}

// Encode returns the Hilbert index of coord on the order-m curve.
func Encode(coord []uint64, m int) (uint64, error) {
	if err := Check(m, len(coord)); err != nil {
		return 0, err
	}
	for i, c := range coord {
		if m < 64 && c >= 1<<uint(m) {
			return 0, fmt.Errorf("%w: axis %d value %d >= 2^%d", ErrOrder, i, c, m)
		}
	}

	x := make([]uint64, len(coord))
	copy(x, coord)
	axesToTranspose(x, m)
	return interleave(x, m), nil
}

// Decode returns the coordinate at index h on the order-m curve in dim
// dimensions.
func Decode(h uint64, m, dim int) ([]uint64, error) {
	if err := Check(m, dim); err != nil {
		return nil, err
	}
	if bits := m * dim; bits < 64 && h >= 1<<uint(bits) {
		return nil, fmt.Errorf("%w: index %d >= 2^%d", ErrOrder, h, bits)
	}

	x := deinterleave(h, m, dim)
	transposeToAxes(x, m)
	return x, nil
}

// Order returns the smallest curve order whose cube holds every extent,
// never less than 1.
func Order(extents []int) int {
	m := 1
	for _, e := range extents {
		for e > 1<<uint(m) {
			m++
		}
	}
	return m
}

func axesToTranspose(x []uint64, b int) {
	n := len(x)
	M := uint64(1) << uint(b-1)

	// inverse undo
	for q := M; q > 1; q >>= 1 {
		p := q - 1
		for i := 0; i < n; i++ {
			if x[i]&q != 0 {
				x[0] ^= p
			} else {
				t := (x[0] ^ x[i]) & p
				x[0] ^= t
				x[i] ^= t
			}
		}
	}

	// gray encode
	for i := 1; i < n; i++ {
		x[i] ^= x[i-1]
	}
	var t uint64
	for q := M; q > 1; q >>= 1 {
		if x[n-1]&q != 0 {
			t ^= q - 1
		}
	}
	for i := 0; i < n; i++ {
		x[i] ^= t
	}
}

func transposeToAxes(x []uint64, b int) {
	n := len(x)
	N := uint64(2) << uint(b-1)

	// gray decode by H ^ (H/2)
	t := x[n-1] >> 1
	for i := n - 1; i > 0; i-- {
		x[i] ^= x[i-1]
	}
	x[0] ^= t

	// undo excess work
	for q := uint64(2); q != N; q <<= 1 {
		p := q - 1
		for i := n - 1; i >= 0; i-- {
			if x[i]&q != 0 {
				x[0] ^= p
			} else {
				t := (x[0] ^ x[i]) & p
				x[0] ^= t
				x[i] ^= t
			}
		}
	}
}

// interleave packs the transposed form into one index, most significant
// bit first, axis 0 leading within each bit level.
func interleave(x []uint64, b int) uint64 {
	var h uint64
	for bit := b - 1; bit >= 0; bit-- {
		for i := range x {
			h = h<<1 | (x[i]>>uint(bit))&1
		}
	}
	return h
}

func deinterleave(h uint64, b, n int) []uint64 {
	x := make([]uint64, n)
	pos := b*n - 1
	for bit := b - 1; bit >= 0; bit-- {
		for i := 0; i < n; i++ {
			x[i] |= ((h >> uint(pos)) & 1) << uint(bit)
			pos--
		}
	}
	return x
}
