package ndgrid

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/robert-malhotra/go-ndgrid/internal/binary"
	"github.com/robert-malhotra/go-ndgrid/internal/shape"
)

// Packing
//
// A packed buffer holds, for every element visited, the selected fields in
// ascending field-index order, and nothing else. Elements are visited in
// offset order for the whole grid or in the sub-iterator's order for a
// region. The format does not depend on the grid's layout, so a buffer
// packed from an interleaved grid unpacks into a per-field one.
//
// Sizing and filling are separate so the caller allocates once:
//
//	n, err := g.PackRequest(fields, sub)
//	buf := ndgrid.NewBuffer(make([]byte, n))
//	err = g.Pack(buf, fields, sub)
//
// A sub-iterator is rewound before every use, so the same iterator can be
// passed to PackRequest, Pack, and Unpack.

// PackRequest returns the exact number of bytes Pack will consume for the
// given fields over sub, or over the whole grid when sub is nil. An empty
// field list selects every field.
func (g *Grid[T]) PackRequest(fields []int, sub *SubIterator) (int, error) {
	sel, err := g.selectFields(fields)
	if err != nil {
		return 0, err
	}
	w, err := g.region(sub)
	if err != nil {
		return 0, err
	}
	return w.Volume() * g.selectedSize(sel), nil
}

// Pack writes the selected fields of every visited element into mem as a
// single request. Nothing is written when mem is too small.
func (g *Grid[T]) Pack(mem *Buffer, fields []int, sub *SubIterator) error {
	if !g.store.Bound() {
		return g.fail(ErrNotInitialized, CodeNotInitialized)
	}
	sel, err := g.selectFields(fields)
	if err != nil {
		return err
	}
	walk, err := g.region(sub)
	if err != nil {
		return err
	}

	n := walk.Volume() * g.selectedSize(sel)
	buf, err := mem.Alloc(n)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrShortBuffer, err)
	}

	w := binary.NewWriter(buf)
	for walk.Next() {
		off := g.shape.Offset(walk.Key())
		for _, f := range sel {
			if err := w.WriteBytes(g.store.Field(off, f)); err != nil {
				return fmt.Errorf("%w: %w", ErrShortBuffer, err)
			}
		}
	}
	if w.Pos() != n {
		return fmt.Errorf("pack: wrote %d of %d bytes", w.Pos(), n)
	}

	g.log.Debug("grid packed",
		zap.Ints("fields", sel),
		zap.Int("elements", walk.Volume()),
		zap.Int("bytes", n))
	return nil
}

// Unpack reads what Pack wrote for the same fields and region back into
// the grid. Fields outside the selection and elements outside the region
// are left untouched. The grid must already have the right shape.
func (g *Grid[T]) Unpack(mem *Buffer, fields []int, sub *SubIterator) error {
	if !g.store.Bound() {
		return g.fail(ErrNotInitialized, CodeNotInitialized)
	}
	sel, err := g.selectFields(fields)
	if err != nil {
		return err
	}
	walk, err := g.region(sub)
	if err != nil {
		return err
	}

	n := walk.Volume() * g.selectedSize(sel)
	buf, err := mem.Next(n)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrShortBuffer, err)
	}

	r := binary.NewReader(buf)
	for walk.Next() {
		off := g.shape.Offset(walk.Key())
		for _, f := range sel {
			dst := g.store.Field(off, f)
			src, err := r.ReadBytes(len(dst))
			if err != nil {
				return fmt.Errorf("%w: %w", ErrShortBuffer, err)
			}
			copy(dst, src)
		}
	}
	if r.Remaining() != 0 {
		return fmt.Errorf("unpack: %d bytes left unread", r.Remaining())
	}

	g.log.Debug("grid unpacked",
		zap.Ints("fields", sel),
		zap.Int("elements", walk.Volume()),
		zap.Int("bytes", n))
	return nil
}

// selectFields validates a field list and returns it in ascending order.
func (g *Grid[T]) selectFields(fields []int) ([]int, error) {
	nf := len(g.desc.Fields)
	if len(fields) == 0 {
		all := make([]int, nf)
		for i := range all {
			all[i] = i
		}
		return all, nil
	}

	sel := slices.Clone(fields)
	slices.Sort(sel)
	for i, f := range sel {
		if f < 0 || f >= nf {
			return nil, fmt.Errorf("%w: field %d not in [0, %d)", ErrFieldSubset, f, nf)
		}
		if i > 0 && sel[i-1] == f {
			return nil, fmt.Errorf("%w: field %d selected twice", ErrFieldSubset, f)
		}
	}
	return sel, nil
}

func (g *Grid[T]) selectedSize(sel []int) int {
	size := 0
	for _, f := range sel {
		size += g.desc.Fields[f].Size
	}
	return size
}

// region returns a rewound walker over sub, or over the whole grid. A
// non-empty sub must lie inside the grid.
func (g *Grid[T]) region(sub *SubIterator) (shape.Walker, error) {
	if sub == nil {
		return g.shape.Iterator(), nil
	}
	start, stop := sub.Start(), sub.Stop()
	if len(start) != g.shape.Dim() {
		return nil, fmt.Errorf("%w: region has %d axes, grid has %d", ErrDimensionMismatch, len(start), g.shape.Dim())
	}
	if sub.Volume() > 0 {
		for _, corner := range []Key{start, stop} {
			if _, err := g.shape.ToOffset(corner); err != nil {
				return nil, g.translate(err, false)
			}
		}
	}
	sub.Reset()
	return sub, nil
}
