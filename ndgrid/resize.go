package ndgrid

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/robert-malhotra/go-ndgrid/internal/layout"
	"github.com/robert-malhotra/go-ndgrid/internal/shape"
)

// Resize replaces the grid's shape. Elements whose coordinate is valid in
// both the old and the new shape keep their value; new elements are zero.
// The result always owns its memory: owned memory is freed, borrowed memory
// is detached and left to its owner.
func (g *Grid[T]) Resize(extents ...int) error {
	next, err := shape.New(extents...)
	if err != nil {
		return fmt.Errorf("resize: %w", err)
	}
	if next.Dim() != g.shape.Dim() {
		return fmt.Errorf("%w: resize from %d to %d axes", ErrDimensionMismatch, g.shape.Dim(), next.Dim())
	}

	store, err := layout.New(g.store.Tag(), g.desc)
	if err != nil {
		return err
	}
	mem := g.heap.AllocTagged(layout.Required(g.desc, next.Size()), g.desc.Type.String())
	if err := store.Bind(next.Size(), mem); err != nil {
		g.heap.Free(mem)
		return err
	}

	copied := 0
	if g.store.Bound() {
		common := make([]int, g.shape.Dim())
		for i := range common {
			common[i] = min(g.shape.Extent(i), next.Extent(i))
		}
		inter, _ := shape.New(common...)
		it := inter.Iterator()
		for it.Next() {
			k := it.Key()
			layout.CopyElement(store, next.Offset(k), g.store, g.shape.Offset(k))
			copied++
		}
	}

	g.log.Debug("grid resized",
		zap.Stringer("from", g.shape),
		zap.Stringer("to", next),
		zap.Int("copied", copied),
		zap.Stringer("released", g.ownership))

	if err := g.Release(); err != nil {
		g.heap.Free(mem)
		return err
	}
	g.shape = next
	g.store = store
	g.block = mem
	g.ownership = Owned
	return nil
}

// Duplicate returns a deep copy with independent, owned memory.
func (g *Grid[T]) Duplicate() (*Grid[T], error) {
	store, err := layout.New(g.store.Tag(), g.desc)
	if err != nil {
		return nil, err
	}
	d := &Grid[T]{
		shape:       g.shape.Clone(),
		desc:        g.desc,
		store:       store,
		heap:        g.heap,
		boundsCheck: g.boundsCheck,
		log:         g.log,
	}
	if !g.store.Bound() {
		return d, nil
	}
	if err := d.SetMemory(); err != nil {
		return nil, err
	}
	copy(d.store.Bytes(), g.store.Bytes())
	return d, nil
}

// Swap exchanges memory, shape, and ownership with o in constant time.
func (g *Grid[T]) Swap(o *Grid[T]) {
	g.shape, o.shape = o.shape, g.shape
	g.store, o.store = o.store, g.store
	g.ownership, o.ownership = o.ownership, g.ownership
	g.heap, o.heap = o.heap, g.heap
	g.block, o.block = o.block, g.block

	g.log.Debug("grids swapped",
		zap.Stringer("shape", g.shape),
		zap.Stringer("ownership", g.ownership),
		zap.Stringer("other_shape", o.shape),
		zap.Stringer("other_ownership", o.ownership))
}
