package shape

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Errors reported by shape construction and coordinate conversion.
var (
	ErrInvalidExtent = errors.New("invalid extent")
	ErrDimension     = errors.New("dimension mismatch")
)

// Key is a grid coordinate, one signed component per axis.
type Key []int

// NewKey returns a key from the given components.
func NewKey(c ...int) Key {
	k := make(Key, len(c))
	copy(k, c)
	return k
}

// Zero returns a key of dim zero components.
func Zero(dim int) Key {
	return make(Key, dim)
}

// Clone returns an independent copy of k.
func (k Key) Clone() Key {
	return NewKey(k...)
}

// Equal reports whether k and o have the same components.
func (k Key) Equal(o Key) bool {
	if len(k) != len(o) {
		return false
	}
	for i := range k {
		if k[i] != o[i] {
			return false
		}
	}
	return true
}

// Add returns k + o component-wise.
func (k Key) Add(o Key) Key {
	r := k.Clone()
	for i := range r {
		r[i] += o[i]
	}
	return r
}

func (k Key) String() string {
	parts := make([]string, len(k))
	for i, c := range k {
		parts[i] = strconv.Itoa(c)
	}
	return "(" + strings.Join(parts, ",") + ")"
}

// Shape describes the extents of an N-dimensional grid.
type Shape struct {
	extents []int
	strides []int
	size    int
}

// New creates a shape with the given extents. At least one axis is
// required; zero extents are allowed and describe an empty grid.
func New(extents ...int) (*Shape, error) {
	if len(extents) == 0 {
		return nil, fmt.Errorf("%w: shape needs at least one axis", ErrInvalidExtent)
	}
	s := &Shape{
		extents: make([]int, len(extents)),
		strides: make([]int, len(extents)),
	}
	size := 1
	for i, e := range extents {
		if e < 0 {
			return nil, fmt.Errorf("%w: axis %d has extent %d", ErrInvalidExtent, i, e)
		}
		s.extents[i] = e
		s.strides[i] = size
		size *= e
	}
	s.size = size
	return s, nil
}

// MustNew is like New but panics on error. Intended for tests and
// package-level fixtures.
func MustNew(extents ...int) *Shape {
	s, err := New(extents...)
	if err != nil {
		panic(err)
	}
	return s
}

// Dim returns the number of axes.
func (s *Shape) Dim() int {
	return len(s.extents)
}

// Size returns the total number of elements.
func (s *Shape) Size() int {
	return s.size
}

// Extent returns the extent of the given axis.
func (s *Shape) Extent(axis int) int {
	return s.extents[axis]
}

// Extents returns a copy of all extents.
func (s *Shape) Extents() []int {
	r := make([]int, len(s.extents))
	copy(r, s.extents)
	return r
}

// Stride returns the offset distance between neighbours along axis.
func (s *Shape) Stride(axis int) int {
	return s.strides[axis]
}

// Contains reports whether every component of k lies in [0, extent).
func (s *Shape) Contains(k Key) bool {
	if len(k) != len(s.extents) {
		return false
	}
	for i, c := range k {
		if c < 0 || c >= s.extents[i] {
			return false
		}
	}
	return true
}

// Check validates k against the shape. On failure it returns the first
// offending axis and ok=false.
func (s *Shape) Check(k Key) (axis int, ok bool) {
	for i, c := range k {
		if c < 0 || c >= s.extents[i] {
			return i, false
		}
	}
	return -1, true
}

// ToOffset converts k to its linear offset, failing if k has the wrong
// dimensionality or lies outside the shape.
func (s *Shape) ToOffset(k Key) (int, error) {
	if len(k) != len(s.extents) {
		return 0, fmt.Errorf("%w: key %v has %d components, shape has %d", ErrDimension, k, len(k), len(s.extents))
	}
	if axis, ok := s.Check(k); !ok {
		return 0, &RangeError{Axis: axis, Value: k[axis], Extent: s.extents[axis]}
	}
	return s.Offset(k), nil
}

// Offset converts k to its linear offset without any validation.
func (s *Shape) Offset(k Key) int {
	off := 0
	for i, c := range k {
		off += c * s.strides[i]
	}
	return off
}

// FromOffset converts a linear offset back to its coordinate.
func (s *Shape) FromOffset(off int) Key {
	k := make(Key, len(s.extents))
	for i := len(s.extents) - 1; i >= 0; i-- {
		if s.strides[i] == 0 {
			continue
		}
		k[i] = off / s.strides[i]
		off -= k[i] * s.strides[i]
	}
	return k
}

// Equal reports whether both shapes have identical extents.
func (s *Shape) Equal(o *Shape) bool {
	if s == nil || o == nil {
		return s == o
	}
	if len(s.extents) != len(o.extents) {
		return false
	}
	for i := range s.extents {
		if s.extents[i] != o.extents[i] {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of s.
func (s *Shape) Clone() *Shape {
	c, _ := New(s.extents...)
	return c
}

// Swap exchanges the contents of two shapes.
func (s *Shape) Swap(o *Shape) {
	*s, *o = *o, *s
}

func (s *Shape) String() string {
	return Key(s.extents).String()
}

// RangeError reports a coordinate component outside [0, extent).
type RangeError struct {
	Axis   int
	Value  int
	Extent int
}

// Negative reports whether the offending component was below zero.
func (e *RangeError) Negative() bool {
	return e.Value < 0
}

func (e *RangeError) Error() string {
	if e.Negative() {
		return fmt.Sprintf("x[%d]=%d is negative", e.Axis, e.Value)
	}
	return fmt.Sprintf("x[%d]=%d >= %d", e.Axis, e.Value, e.Extent)
}
