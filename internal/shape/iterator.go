package shape

import "fmt"

// Iterator visits every coordinate of a shape in offset order.
type Iterator struct {
	s       *Shape
	key     Key
	off     int
	started bool
}

// Iterator returns an iterator over the whole shape.
func (s *Shape) Iterator() *Iterator {
	return &Iterator{s: s, key: Zero(s.Dim())}
}

// Next advances to the next coordinate and reports whether one exists.
func (it *Iterator) Next() bool {
	if !it.started {
		it.started = true
		return it.s.size > 0
	}
	if it.off >= it.s.size {
		return false
	}
	it.off++
	if it.off >= it.s.size {
		return false
	}
	for i := range it.key {
		it.key[i]++
		if it.key[i] < it.s.extents[i] {
			break
		}
		it.key[i] = 0
	}
	return true
}

// Key returns the current coordinate. The returned key is reused by the
// iterator; clone it to keep it past the next call to Next.
func (it *Iterator) Key() Key {
	return it.key
}

// Offset returns the linear offset of the current coordinate.
func (it *Iterator) Offset() int {
	return it.off
}

// Volume returns the number of coordinates visited by a full pass.
func (it *Iterator) Volume() int {
	return it.s.size
}

// Reset rewinds the iterator to before the first coordinate.
func (it *Iterator) Reset() {
	for i := range it.key {
		it.key[i] = 0
	}
	it.off = 0
	it.started = false
}

// SubIterator visits the coordinates of an inclusive start/stop
// hyper-rectangle inside a shape, in the same relative order as Iterator.
type SubIterator struct {
	s       *Shape
	start   Key
	stop    Key
	key     Key
	empty   bool
	started bool
	done    bool
}

// SubIterator returns an iterator over the inclusive box [start, stop].
// Both corners must lie inside the shape. If stop is below start on any
// axis the iterator is empty.
func (s *Shape) SubIterator(start, stop Key) (*SubIterator, error) {
	if len(start) != s.Dim() || len(stop) != s.Dim() {
		return nil, fmt.Errorf("%w: sub-region corners must have %d components", ErrDimension, s.Dim())
	}
	for _, corner := range []Key{start, stop} {
		if axis, ok := s.Check(corner); !ok {
			return nil, &RangeError{Axis: axis, Value: corner[axis], Extent: s.extents[axis]}
		}
	}
	it := &SubIterator{
		s:     s,
		start: start.Clone(),
		stop:  stop.Clone(),
		key:   start.Clone(),
	}
	for i := range start {
		if stop[i] < start[i] {
			it.empty = true
		}
	}
	return it, nil
}

// Margin returns a sub-iterator that skips m cells on both sides of every
// axis. A margin that consumes an axis entirely yields an empty iterator.
func (s *Shape) Margin(m int) *SubIterator {
	start := make(Key, s.Dim())
	stop := make(Key, s.Dim())
	empty := s.size == 0
	for i, e := range s.extents {
		start[i] = m
		stop[i] = e - 1 - m
		if stop[i] < start[i] {
			empty = true
		}
	}
	return &SubIterator{s: s, start: start, stop: stop, key: start.Clone(), empty: empty}
}

// Next advances to the next coordinate and reports whether one exists.
func (it *SubIterator) Next() bool {
	if it.empty || it.done {
		return false
	}
	if !it.started {
		it.started = true
		return true
	}
	for i := range it.key {
		it.key[i]++
		if it.key[i] <= it.stop[i] {
			return true
		}
		it.key[i] = it.start[i]
	}
	it.done = true
	return false
}

// Key returns the current coordinate. The returned key is reused by the
// iterator.
func (it *SubIterator) Key() Key {
	return it.key
}

// Offset returns the linear offset of the current coordinate in the
// enclosing shape.
func (it *SubIterator) Offset() int {
	return it.s.Offset(it.key)
}

// Start returns the lower corner of the box.
func (it *SubIterator) Start() Key { return it.start.Clone() }

// Stop returns the upper (inclusive) corner of the box.
func (it *SubIterator) Stop() Key { return it.stop.Clone() }

// Volume returns the number of coordinates in the box.
func (it *SubIterator) Volume() int {
	if it.empty {
		return 0
	}
	v := 1
	for i := range it.start {
		v *= it.stop[i] - it.start[i] + 1
	}
	return v
}

// Reset rewinds the iterator to before the first coordinate.
func (it *SubIterator) Reset() {
	copy(it.key, it.start)
	it.started = false
	it.done = false
}

// Walker is the common contract of Iterator and SubIterator.
type Walker interface {
	Next() bool
	Key() Key
	Offset() int
	Volume() int
	Reset()
}

var (
	_ Walker = (*Iterator)(nil)
	_ Walker = (*SubIterator)(nil)
)
