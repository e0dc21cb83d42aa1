package shape

import (
	"errors"
	"testing"
)

func TestNewShape(t *testing.T) {
	s, err := New(4, 3, 2)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if s.Dim() != 3 {
		t.Errorf("expected dim 3, got %d", s.Dim())
	}
	if s.Size() != 24 {
		t.Errorf("expected size 24, got %d", s.Size())
	}
	wantStrides := []int{1, 4, 12}
	for i, w := range wantStrides {
		if s.Stride(i) != w {
			t.Errorf("stride[%d]: got %d, want %d", i, s.Stride(i), w)
		}
	}
}

func TestNewShapeInvalid(t *testing.T) {
	tests := []struct {
		name    string
		extents []int
	}{
		{"no axes", nil},
		{"negative", []int{3, -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.extents...)
			if !errors.Is(err, ErrInvalidExtent) {
				t.Errorf("expected ErrInvalidExtent, got %v", err)
			}
		})
	}
}

func TestOffsetBijection(t *testing.T) {
	s := MustNew(5, 4, 3)
	seen := make(map[int]bool)
	for x := 0; x < 5; x++ {
		for y := 0; y < 4; y++ {
			for z := 0; z < 3; z++ {
				k := NewKey(x, y, z)
				off, err := s.ToOffset(k)
				if err != nil {
					t.Fatalf("ToOffset(%v): %v", k, err)
				}
				if off < 0 || off >= s.Size() {
					t.Fatalf("offset %d out of [0,%d)", off, s.Size())
				}
				if seen[off] {
					t.Fatalf("offset %d produced twice", off)
				}
				seen[off] = true
				if back := s.FromOffset(off); !back.Equal(k) {
					t.Errorf("FromOffset(%d) = %v, want %v", off, back, k)
				}
			}
		}
	}
	if len(seen) != s.Size() {
		t.Errorf("expected %d offsets, got %d", s.Size(), len(seen))
	}
}

func TestToOffsetBounds(t *testing.T) {
	s := MustNew(4, 4, 4)
	for axis := 0; axis < 3; axis++ {
		low := NewKey(0, 0, 0)
		low[axis] = -1
		_, err := s.ToOffset(low)
		var re *RangeError
		if !errors.As(err, &re) {
			t.Fatalf("axis %d: expected RangeError, got %v", axis, err)
		}
		if re.Axis != axis || !re.Negative() {
			t.Errorf("axis %d: got axis %d negative=%v", axis, re.Axis, re.Negative())
		}

		high := NewKey(0, 0, 0)
		high[axis] = 4
		_, err = s.ToOffset(high)
		if !errors.As(err, &re) {
			t.Fatalf("axis %d: expected RangeError, got %v", axis, err)
		}
		if re.Axis != axis || re.Negative() || re.Extent != 4 {
			t.Errorf("axis %d: unexpected error %+v", axis, re)
		}
	}

	if _, err := s.ToOffset(NewKey(1, 1)); !errors.Is(err, ErrDimension) {
		t.Errorf("expected ErrDimension for short key, got %v", err)
	}
}

func TestIteratorOrder(t *testing.T) {
	s := MustNew(3, 2)
	it := s.Iterator()
	var offsets []int
	var keys []Key
	for it.Next() {
		offsets = append(offsets, it.Offset())
		keys = append(keys, it.Key().Clone())
	}
	if len(offsets) != 6 {
		t.Fatalf("expected 6 coordinates, got %d", len(offsets))
	}
	for i, off := range offsets {
		if off != i {
			t.Errorf("position %d: offset %d", i, off)
		}
		if s.Offset(keys[i]) != off {
			t.Errorf("key %v does not map to offset %d", keys[i], off)
		}
	}
	if !keys[1].Equal(NewKey(1, 0)) {
		t.Errorf("axis 0 should vary fastest, second key is %v", keys[1])
	}

	it.Reset()
	n := 0
	for it.Next() {
		n++
	}
	if n != 6 {
		t.Errorf("after Reset expected 6 coordinates, got %d", n)
	}
}

func TestIteratorEmptyShape(t *testing.T) {
	s := MustNew(3, 0)
	it := s.Iterator()
	if it.Next() {
		t.Error("empty shape should produce no coordinates")
	}
}

func TestSubIterator(t *testing.T) {
	s := MustNew(5, 5, 5)
	sub, err := s.SubIterator(NewKey(1, 2, 3), NewKey(2, 3, 4))
	if err != nil {
		t.Fatalf("SubIterator failed: %v", err)
	}
	if sub.Volume() != 8 {
		t.Errorf("expected volume 8, got %d", sub.Volume())
	}

	prev := -1
	count := 0
	for sub.Next() {
		k := sub.Key()
		for i := range k {
			if k[i] < sub.start[i] || k[i] > sub.stop[i] {
				t.Fatalf("key %v escapes box", k)
			}
		}
		if sub.Offset() <= prev {
			t.Errorf("offsets must increase: %d after %d", sub.Offset(), prev)
		}
		prev = sub.Offset()
		count++
	}
	if count != 8 {
		t.Errorf("expected 8 coordinates, got %d", count)
	}
	if sub.Next() {
		t.Error("exhausted iterator returned another coordinate")
	}

	sub.Reset()
	if !sub.Next() || !sub.Key().Equal(NewKey(1, 2, 3)) {
		t.Errorf("Reset should restart at the start corner, got %v", sub.Key())
	}
}

func TestSubIteratorErrors(t *testing.T) {
	s := MustNew(4, 4)
	if _, err := s.SubIterator(NewKey(0, 0), NewKey(4, 1)); err == nil {
		t.Error("expected error for stop outside shape")
	}
	if _, err := s.SubIterator(NewKey(0), NewKey(1, 1)); !errors.Is(err, ErrDimension) {
		t.Errorf("expected ErrDimension, got %v", err)
	}

	sub, err := s.SubIterator(NewKey(2, 2), NewKey(1, 3))
	if err != nil {
		t.Fatalf("SubIterator failed: %v", err)
	}
	if sub.Volume() != 0 || sub.Next() {
		t.Error("inverted box should be empty")
	}
}

func TestMargin(t *testing.T) {
	s := MustNew(6, 4)
	m := s.Margin(1)
	if m.Volume() != 8 {
		t.Errorf("expected volume 8, got %d", m.Volume())
	}
	n := 0
	for m.Next() {
		n++
	}
	if n != 8 {
		t.Errorf("expected 8 coordinates, got %d", n)
	}

	if s.Margin(2).Volume() != 0 {
		t.Error("margin consuming an axis should be empty")
	}
}
