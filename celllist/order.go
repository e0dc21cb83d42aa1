package celllist

import (
	"fmt"
	"slices"

	"github.com/robert-malhotra/go-ndgrid/internal/hilbert"
	"github.com/robert-malhotra/go-ndgrid/internal/shape"
)

// Key is a cell coordinate inside the unpadded domain.
type Key = shape.Key

// Order generates the sequence in which cells are visited.
type Order interface {
	// Name identifies the strategy.
	Name() string

	// ComputeKey records the cell at k.
	ComputeKey(k Key) error

	// Finalize converts the recorded keys into linear cell ids of the
	// padded grid. It is a no-op when called again before Reset.
	Finalize() error

	// Keys returns the linear cell ids recorded so far. Orders that key
	// cells by something else return nothing until Finalize.
	Keys() []int

	// Reset forgets every recorded key.
	Reset()
}

// grid holds the unpadded domain and the padded cell grid.
type grid struct {
	domain  *shape.Shape
	padded  *shape.Shape
	padding int
}

func newGrid(cells []int, padding int) (grid, error) {
	if padding < 0 {
		return grid{}, fmt.Errorf("negative padding %d", padding)
	}
	domain, err := shape.New(cells...)
	if err != nil {
		return grid{}, err
	}
	ext := make([]int, len(cells))
	for i, e := range cells {
		ext[i] = e + 2*padding
	}
	padded, err := shape.New(ext...)
	if err != nil {
		return grid{}, err
	}
	return grid{domain: domain, padded: padded, padding: padding}, nil
}

// linearID returns the padded-grid id of domain coordinate k.
func (g grid) linearID(k Key) int {
	id := 0
	for i, c := range k {
		id += (c + g.padding) * g.padded.Stride(i)
	}
	return id
}

func (g grid) checkDomain(k Key) error {
	if len(k) != g.domain.Dim() {
		return fmt.Errorf("%w: key %v for a %d-D grid", ErrCellRange, k, g.domain.Dim())
	}
	if axis, ok := g.domain.Check(k); !ok {
		return fmt.Errorf("%w: x[%d]=%d outside [0, %d)", ErrCellRange, axis, k[axis], g.domain.Extent(axis))
	}
	return nil
}

// Linear visits cells in memory order.
type Linear struct {
	grid
	keys []int
}

// NewLinear returns a linear order over a domain of the given cell
// extents, padded by padding cells on every side.
func NewLinear(cells []int, padding int) (*Linear, error) {
	g, err := newGrid(cells, padding)
	if err != nil {
		return nil, err
	}
	return &Linear{grid: g}, nil
}

func (o *Linear) Name() string { return "linear" }

// ComputeKey appends the padded linear id of k.
func (o *Linear) ComputeKey(k Key) error {
	if err := o.checkDomain(k); err != nil {
		return err
	}
	o.keys = append(o.keys, o.linearID(k))
	return nil
}

// Finalize does nothing: keys are linear ids from the start.
func (o *Linear) Finalize() error { return nil }

func (o *Linear) Keys() []int { return o.keys }

func (o *Linear) Reset() { o.keys = o.keys[:0] }

// Hilbert visits cells along a Hilbert curve.
type Hilbert struct {
	grid
	m         int
	curve     []uint64 // raw curve indices, pending Finalize
	keys      []int
	finalized bool
}

// NewHilbert returns a Hilbert order of curve order m over a domain of the
// given cell extents, padded by padding cells on every side. With m == 0
// the smallest order covering the domain is chosen. An order too small for
// the domain fails with ErrCurveOrder.
func NewHilbert(cells []int, padding, m int) (*Hilbert, error) {
	g, err := newGrid(cells, padding)
	if err != nil {
		return nil, err
	}
	if m == 0 {
		m = hilbert.Order(cells)
	}
	if err := hilbert.Check(m, len(cells)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCurveOrder, err)
	}
	for i, e := range cells {
		if m < 63 && e > 1<<uint(m) {
			return nil, fmt.Errorf("%w: axis %d has %d cells, order %d covers %d", ErrCurveOrder, i, e, m, 1<<uint(m))
		}
	}
	return &Hilbert{grid: g, m: m}, nil
}

func (o *Hilbert) Name() string { return "hilbert" }

// CurveOrder returns m.
func (o *Hilbert) CurveOrder() int { return o.m }

// ComputeKey appends the Hilbert index of k. The index is not a cell id
// until Finalize.
func (o *Hilbert) ComputeKey(k Key) error {
	if o.finalized {
		return ErrFinalized
	}
	if err := o.checkDomain(k); err != nil {
		return err
	}
	coord := make([]uint64, len(k))
	for i, c := range k {
		coord[i] = uint64(c)
	}
	h, err := hilbert.Encode(coord, o.m)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCurveOrder, err)
	}
	o.curve = append(o.curve, h)
	return nil
}

// Finalize sorts the keys along the curve and replaces each with the
// padded linear id of its cell.
func (o *Hilbert) Finalize() error {
	if o.finalized {
		return nil
	}
	slices.Sort(o.curve)
	k := make(Key, o.domain.Dim())
	o.keys = slices.Grow(o.keys[:0], len(o.curve))
	for _, h := range o.curve {
		coord, err := hilbert.Decode(h, o.m, len(k))
		if err != nil {
			return fmt.Errorf("%w: %w", ErrCurveOrder, err)
		}
		for j, c := range coord {
			k[j] = int(c)
		}
		o.keys = append(o.keys, o.linearID(k))
	}
	o.finalized = true
	return nil
}

func (o *Hilbert) Keys() []int { return o.keys }

// CurveKeys returns the recorded curve indices, in curve order once
// finalized.
func (o *Hilbert) CurveKeys() []uint64 { return o.curve }

func (o *Hilbert) Reset() {
	o.curve = o.curve[:0]
	o.keys = o.keys[:0]
	o.finalized = false
}

var (
	_ Order = (*Linear)(nil)
	_ Order = (*Hilbert)(nil)
)
