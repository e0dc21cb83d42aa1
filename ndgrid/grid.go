package ndgrid

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"

	"go.uber.org/zap"

	"github.com/robert-malhotra/go-ndgrid/internal/alloc"
	"github.com/robert-malhotra/go-ndgrid/internal/dtype"
	"github.com/robert-malhotra/go-ndgrid/internal/layout"
	"github.com/robert-malhotra/go-ndgrid/internal/shape"
)

// Grid is an N-dimensional array of elements of type T.
//
// A grid is created with a shape but without memory. Memory is attached
// with SetMemory or SetExternalMemory before any element access. A Grid is
// not safe for concurrent use.
type Grid[T any] struct {
	shape     *shape.Shape
	desc      *dtype.Descriptor
	store     layout.Store
	ownership Ownership
	heap      *alloc.Heap
	block     []byte // owned block as allocated, untrimmed by the store

	boundsCheck bool
	log         *zap.Logger
	lastErr     int
}

// New creates an unbound grid with the given extents.
func New[T any](extents []int, opts ...Option) (*Grid[T], error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	desc, err := dtype.For[T]()
	if err != nil {
		return nil, fmt.Errorf("element type: %w", err)
	}
	s, err := shape.New(extents...)
	if err != nil {
		return nil, fmt.Errorf("grid shape: %w", err)
	}

	tag := o.layout
	if !o.layoutSet {
		tag = layout.Select(desc.Type, layout.Interleaved)
	}
	store, err := layout.New(tag, desc)
	if err != nil {
		return nil, err
	}

	return &Grid[T]{
		shape:       s,
		desc:        desc,
		store:       store,
		heap:        o.heap,
		boundsCheck: o.boundsCheck,
		log:         o.logger,
	}, nil
}

// SetMemory allocates owned memory for every element. On a grid bound to
// borrowed memory the binding is replaced and the caller's block is left
// alone.
func (g *Grid[T]) SetMemory() error {
	if g.ownership == Owned {
		return ErrAlreadyBound
	}
	g.detach()

	mem := g.heap.AllocTagged(layout.Required(g.desc, g.shape.Size()), g.desc.Type.String())
	if err := g.store.Bind(g.shape.Size(), mem); err != nil {
		g.heap.Free(mem)
		return err
	}
	g.block = mem
	g.ownership = Owned
	g.log.Debug("grid memory bound",
		zap.Stringer("shape", g.shape),
		zap.Int("bytes", len(mem)),
		zap.Stringer("ownership", g.ownership),
		zap.Stringer("layout", g.store.Tag()))
	return nil
}

// SetExternalMemory binds caller-owned memory. The grid never frees it.
// Any previous binding is released first.
func (g *Grid[T]) SetExternalMemory(mem []byte) error {
	need := layout.Required(g.desc, g.shape.Size())
	if len(mem) < need {
		return fmt.Errorf("%w: need %d bytes, got %d", ErrShortMemory, need, len(mem))
	}
	if err := g.Release(); err != nil {
		return err
	}
	if err := g.store.Bind(g.shape.Size(), mem); err != nil {
		return err
	}
	g.ownership = Borrowed
	g.log.Debug("grid memory bound",
		zap.Stringer("shape", g.shape),
		zap.Int("bytes", need),
		zap.Stringer("ownership", g.ownership),
		zap.Stringer("layout", g.store.Tag()))
	return nil
}

// Release detaches the grid's memory, freeing it if owned. The grid keeps
// its shape and may be bound again.
func (g *Grid[T]) Release() error {
	switch g.ownership {
	case Owned:
		g.store.Unbind()
		mem := g.block
		g.block = nil
		g.ownership = Unbound
		if err := g.heap.Free(mem); err != nil {
			return fmt.Errorf("releasing grid memory: %w", err)
		}
	case Borrowed:
		g.detach()
	}
	return nil
}

// detach drops a borrowed binding without freeing it.
func (g *Grid[T]) detach() {
	if g.ownership == Borrowed {
		g.store.Unbind()
		g.ownership = Unbound
	}
}

// Ownership reports whether the grid owns its memory.
func (g *Grid[T]) Ownership() Ownership {
	return g.ownership
}

// Initialized reports whether memory is bound.
func (g *Grid[T]) Initialized() bool {
	return g.store.Bound()
}

// Shape returns the extents of every axis.
func (g *Grid[T]) Shape() []int {
	return g.shape.Extents()
}

// Dim returns the number of axes.
func (g *Grid[T]) Dim() int {
	return g.shape.Dim()
}

// Size returns the number of elements.
func (g *Grid[T]) Size() int {
	return g.shape.Size()
}

// Descriptor returns the element type description.
func (g *Grid[T]) Descriptor() *dtype.Descriptor {
	return g.desc
}

// Layout returns the memory layout in use.
func (g *Grid[T]) Layout() Layout {
	return g.store.Tag()
}

// FieldIndex returns the index of the named field.
func (g *Grid[T]) FieldIndex(name string) (int, bool) {
	return g.desc.FieldIndex(name)
}

// FieldNames returns the element field names in index order.
func (g *Grid[T]) FieldNames() []string {
	return g.desc.Names()
}

// LastError returns the code of the most recent failed access, or
// CodeNone.
func (g *Grid[T]) LastError() int {
	return g.lastErr
}

// Iterator returns an iterator over every coordinate.
func (g *Grid[T]) Iterator() *Iterator {
	return g.shape.Iterator()
}

// SubIterator returns an iterator over the inclusive box [start, stop].
func (g *Grid[T]) SubIterator(start, stop Key) (*SubIterator, error) {
	it, err := g.shape.SubIterator(start, stop)
	if err != nil {
		return nil, g.translate(err, false)
	}
	return it, nil
}

// MarginIterator returns an iterator that skips m cells at both ends of
// every axis.
func (g *Grid[T]) MarginIterator(m int) *SubIterator {
	return g.shape.Margin(m)
}

// offset validates k and returns its linear offset.
func (g *Grid[T]) offset(k Key) (int, error) {
	return g.offsetAs(k, false)
}

func (g *Grid[T]) offsetAs(k Key, source bool) (int, error) {
	if !g.store.Bound() {
		return 0, g.fail(ErrNotInitialized, CodeNotInitialized)
	}
	if len(k) != g.shape.Dim() {
		return 0, fmt.Errorf("%w: key %v has %d components, grid has %d axes",
			ErrDimensionMismatch, k, len(k), g.shape.Dim())
	}
	if !g.boundsCheck {
		return g.shape.Offset(k), nil
	}
	off, err := g.shape.ToOffset(k)
	if err != nil {
		return 0, g.translate(err, source)
	}
	return off, nil
}

// translate turns a shape range error into a BoundsError and records it.
func (g *Grid[T]) translate(err error, source bool) error {
	var re *shape.RangeError
	if !errors.As(err, &re) {
		if errors.Is(err, shape.ErrDimension) {
			return fmt.Errorf("%w: %v", ErrDimensionMismatch, err)
		}
		return err
	}
	code := CodeOverflow
	if re.Negative() {
		code = CodeNegative
	}
	if source {
		code += CodeSourceOverflow - CodeOverflow
	}
	return g.fail(&BoundsError{Axis: re.Axis, Value: re.Value, Extent: re.Extent, Code: code}, code)
}

func (g *Grid[T]) fail(err error, code int) error {
	g.lastErr = code
	g.log.Debug("grid access failed", zap.Int("code", code), zap.Error(err))
	return err
}

// Get returns a copy of the element at k.
func (g *Grid[T]) Get(k Key) (T, error) {
	var v T
	off, err := g.offset(k)
	if err != nil {
		return v, err
	}
	g.load(off, &v)
	return v, nil
}

// Set stores v at k.
func (g *Grid[T]) Set(k Key, v T) error {
	off, err := g.offset(k)
	if err != nil {
		return err
	}
	g.save(off, v)
	return nil
}

// At is like Get but panics on error.
func (g *Grid[T]) At(k Key) T {
	v, err := g.Get(k)
	if err != nil {
		panic(err)
	}
	return v
}

func (g *Grid[T]) load(off int, v *T) {
	rv := reflect.ValueOf(v).Elem()
	for f := range g.desc.Fields {
		// sizes are fixed by the descriptor, decoding cannot fail
		_ = g.desc.DecodeField(f, g.store.Field(off, f), rv)
	}
}

func (g *Grid[T]) save(off int, v T) {
	rv := reflect.ValueOf(v)
	for f := range g.desc.Fields {
		_ = g.desc.EncodeField(f, g.store.Field(off, f), rv)
	}
}

// GetField returns field f of the element at k. V must be the field's Go
// type.
func GetField[V, T any](g *Grid[T], k Key, f int) (V, error) {
	var v V
	if err := g.checkField(f, reflect.TypeFor[V]()); err != nil {
		return v, err
	}
	off, err := g.offset(k)
	if err != nil {
		return v, err
	}
	fd := &g.desc.Fields[f]
	err = dtype.Decode(fd.Type, g.store.Field(off, f), reflect.ValueOf(&v).Elem())
	return v, err
}

// SetField stores v into field f of the element at k. V must be the
// field's Go type.
func SetField[V, T any](g *Grid[T], k Key, f int, v V) error {
	if err := g.checkField(f, reflect.TypeFor[V]()); err != nil {
		return err
	}
	off, err := g.offset(k)
	if err != nil {
		return err
	}
	fd := &g.desc.Fields[f]
	return dtype.Encode(fd.Type, g.store.Field(off, f), reflect.ValueOf(v))
}

func (g *Grid[T]) checkField(f int, t reflect.Type) error {
	if f < 0 || f >= len(g.desc.Fields) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrFieldIndex, f, len(g.desc.Fields))
	}
	if want := g.desc.Fields[f].Type.GoType; t != want {
		return fmt.Errorf("%w: field %s is %v, not %v", ErrTypeMismatch, g.desc.Fields[f].Name, want, t)
	}
	return nil
}

// SetFrom copies the element at k2 of src to k1 of g. Failures on the
// source side carry the source codes.
func (g *Grid[T]) SetFrom(k1 Key, src *Grid[T], k2 Key) error {
	dst, err := g.offset(k1)
	if err != nil {
		return err
	}
	if !src.store.Bound() {
		return g.fail(fmt.Errorf("source: %w", ErrNotInitialized), CodeNotInitialized)
	}
	from, err := src.offsetAs(k2, true)
	if err != nil {
		if be := (*BoundsError)(nil); errors.As(err, &be) {
			g.lastErr = be.Code
		}
		return err
	}
	layout.CopyElement(g.store, dst, src.store, from)
	return nil
}

// Fill sets every byte of the grid's memory to b.
func (g *Grid[T]) Fill(b byte) error {
	if !g.store.Bound() {
		return g.fail(ErrNotInitialized, CodeNotInitialized)
	}
	mem := g.store.Bytes()
	for i := range mem {
		mem[i] = b
	}
	return nil
}

// Bytes returns the bound memory. Its arrangement depends on Layout.
func (g *Grid[T]) Bytes() []byte {
	if !g.store.Bound() {
		return nil
	}
	return g.store.Bytes()
}

// Equal reports whether both grids have the same shape and element
// values, whatever their layouts.
func (g *Grid[T]) Equal(o *Grid[T]) bool {
	if !g.shape.Equal(o.shape) || g.store.Bound() != o.store.Bound() {
		return false
	}
	if !g.store.Bound() {
		return true
	}
	if g.store.Tag() == o.store.Tag() {
		return bytes.Equal(g.store.Bytes(), o.store.Bytes())
	}
	for i := 0; i < g.shape.Size(); i++ {
		for f := range g.desc.Fields {
			if !bytes.Equal(g.store.Field(i, f), o.store.Field(i, f)) {
				return false
			}
		}
	}
	return true
}

// Remove deletes element i of a one-dimensional grid, shifting the
// following elements down by one.
func (g *Grid[T]) Remove(i int) error {
	if g.shape.Dim() != 1 {
		return fmt.Errorf("%w: remove needs a 1-D grid, grid has %d axes", ErrDimensionMismatch, g.shape.Dim())
	}
	if _, err := g.offset(Key{i}); err != nil {
		return err
	}

	n := g.shape.Size()
	next, err := shape.New(n - 1)
	if err != nil {
		return err
	}

	scratch := g.heap.AllocTagged(layout.Required(g.desc, n-1), "remove")
	defer g.heap.Free(scratch)

	tmp, _ := layout.New(g.store.Tag(), g.desc)
	if err := tmp.Bind(n-1, scratch); err != nil {
		return err
	}
	for j, dst := 0, 0; j < n; j++ {
		if j == i {
			continue
		}
		layout.CopyElement(tmp, dst, g.store, j)
		dst++
	}

	mem := g.store.Unbind()
	copy(mem, tmp.Bytes())
	if err := g.store.Bind(n-1, mem); err != nil {
		return err
	}
	g.shape = next
	return nil
}

// String summarises the grid.
func (g *Grid[T]) String() string {
	return fmt.Sprintf("Grid[%v]%v %s %s", g.desc.Type, g.shape, g.store.Tag(), g.ownership)
}
