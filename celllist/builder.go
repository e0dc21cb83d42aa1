package celllist

import (
	"fmt"

	"go.uber.org/zap"
)

// Builder buckets positions inside a box into a padded cell grid.
type Builder struct {
	box   Box
	div   []int
	grid  grid
	order Order
	list  *CellList
	log   *zap.Logger
}

// NewBuilder splits box into div[i] cells along axis i.
func NewBuilder(box Box, div []int, opts ...Option) (*Builder, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	if len(div) != box.Dim() {
		return nil, fmt.Errorf("%d divisions for a %d-D box", len(div), box.Dim())
	}
	for i, d := range div {
		if d < 1 {
			return nil, fmt.Errorf("axis %d: %d divisions", i, d)
		}
	}

	g, err := newGrid(div, o.padding)
	if err != nil {
		return nil, err
	}

	var ord Order
	if o.hilbert {
		ord, err = NewHilbert(div, o.padding, o.order)
	} else {
		ord, err = NewLinear(div, o.padding)
	}
	if err != nil {
		return nil, err
	}

	return &Builder{
		box:   box,
		div:   append([]int(nil), div...),
		grid:  g,
		order: ord,
		list:  New(g.padded.Size()),
		log:   o.logger,
	}, nil
}

// Build clears the list, computes the traversal order over every domain
// cell, and inserts each position under the id of its cell. Element ids are
// indices into positions.
func (b *Builder) Build(positions [][]float64) error {
	b.list.Clear()
	b.order.Reset()

	it := b.grid.domain.Iterator()
	for it.Next() {
		if err := b.order.ComputeKey(it.Key()); err != nil {
			return err
		}
	}
	if err := b.order.Finalize(); err != nil {
		return err
	}

	for id, p := range positions {
		cell, err := b.Cell(p)
		if err != nil {
			return fmt.Errorf("element %d: %w", id, err)
		}
		if err := b.list.Insert(cell, id); err != nil {
			return err
		}
	}

	b.log.Debug("cell list built",
		zap.String("order", b.order.Name()),
		zap.Int("elements", len(positions)),
		zap.Int("cells", b.list.CellCount()),
		zap.Int("domain_cells", len(b.order.Keys())))
	return nil
}

// Cell returns the padded-grid cell id of position p.
func (b *Builder) Cell(p []float64) (int, error) {
	if len(p) != b.box.Dim() {
		return 0, fmt.Errorf("%w: %d-D position in a %d-D box", ErrOutsideDomain, len(p), b.box.Dim())
	}
	k := b.box.CellCoord(p, b.div)
	for i := range k {
		k[i] += b.grid.padding
	}
	off, err := b.grid.padded.ToOffset(k)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrOutsideDomain, p)
	}
	return off, nil
}

// Visit calls fn for every domain cell in traversal order with the ids of
// the elements in it. Visiting stops when fn returns false.
func (b *Builder) Visit(fn func(cell int, ids []int) bool) {
	for _, cell := range b.order.Keys() {
		if !fn(cell, b.list.Range(cell)) {
			return
		}
	}
}

// Neighbors returns cell and every cell adjacent to it, faces, edges and
// corners included, that lies on the padded grid.
func (b *Builder) Neighbors(cell int) []int {
	if cell < 0 || cell >= b.grid.padded.Size() {
		return nil
	}
	center := b.grid.padded.FromOffset(cell)
	dim := len(center)

	lo := make(Key, dim)
	hi := make(Key, dim)
	for i, c := range center {
		lo[i] = max(c-1, 0)
		hi[i] = min(c+1, b.grid.padded.Extent(i)-1)
	}
	it, err := b.grid.padded.SubIterator(lo, hi)
	if err != nil {
		return nil
	}
	out := make([]int, 0, it.Volume())
	for it.Next() {
		out = append(out, it.Offset())
	}
	return out
}

// List returns the cell list.
func (b *Builder) List() *CellList { return b.list }

// Order returns the traversal order.
func (b *Builder) Order() Order { return b.order }

// Box returns the spatial domain.
func (b *Builder) Box() Box { return b.box }

// Grid returns the extents of the padded cell grid.
func (b *Builder) Grid() []int { return b.grid.padded.Extents() }

// DomainCell returns the padded-grid id of domain cell k.
func (b *Builder) DomainCell(k Key) (int, error) {
	if err := b.grid.checkDomain(k); err != nil {
		return 0, err
	}
	return b.grid.linearID(k), nil
}
