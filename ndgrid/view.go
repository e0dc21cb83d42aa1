package ndgrid

import (
	"fmt"
	"reflect"

	"github.com/robert-malhotra/go-ndgrid/internal/dtype"
)

// View addresses one element of a grid in place. It stays valid until the
// grid is resized, swapped, released, or rebound.
type View[T any] struct {
	g   *Grid[T]
	off int
}

// View returns a view of the element at k.
func (g *Grid[T]) View(k Key) (View[T], error) {
	off, err := g.offset(k)
	if err != nil {
		return View[T]{}, err
	}
	return View[T]{g: g, off: off}, nil
}

// Offset returns the element's linear offset.
func (v View[T]) Offset() int {
	return v.off
}

// NumFields returns the number of fields.
func (v View[T]) NumFields() int {
	return len(v.g.desc.Fields)
}

// Raw returns the packed bytes of field f, aliasing the grid's memory.
func (v View[T]) Raw(f int) []byte {
	return v.g.store.Field(v.off, f)
}

// Field decodes field f.
func (v View[T]) Field(f int) any {
	fd := &v.g.desc.Fields[f]
	val := reflect.New(fd.Type.GoType).Elem()
	_ = dtype.Decode(fd.Type, v.Raw(f), val)
	return val.Interface()
}

// SetField stores val into field f. val must have the field's Go type.
func (v View[T]) SetField(f int, val any) error {
	if err := v.g.checkField(f, reflect.TypeOf(val)); err != nil {
		return err
	}
	fd := &v.g.desc.Fields[f]
	return dtype.Encode(fd.Type, v.Raw(f), reflect.ValueOf(val))
}

// Load returns a copy of the whole element.
func (v View[T]) Load() T {
	var e T
	v.g.load(v.off, &e)
	return e
}

// Store overwrites the whole element.
func (v View[T]) Store(e T) {
	v.g.save(v.off, e)
}

func (v View[T]) String() string {
	return fmt.Sprintf("%v", v.Load())
}
