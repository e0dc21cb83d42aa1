// Package layout maps (element index, field index) pairs to byte ranges of
// a flat memory block.
//
// A grid of n elements whose element type has fields f0..fk can be stored
// two ways, selected once per grid by a [Tag]:
//
//   - Interleaved: all fields of element 0, then all fields of element 1,
//     and so on. Field f of element i lives at i*stride + offset(f), where
//     stride is the packed element size. Implemented by [Interleaved].
//
//   - PerField: all elements' field 0, then all elements' field 1, and so
//     on. Field f of element i lives at n*offset(f) + i*size(f).
//     Implemented by [PerField].
//
// Both need exactly n*stride bytes. A [Store] does not own its memory; the
// caller binds a block with [Store.Bind] and decides whether to free it.
//
// # Selecting a Layout
//
// Use [Select] to honour a type's own preference:
//
//	tag := layout.Select(reflect.TypeFor[T](), layout.Interleaved)
//	store, err := layout.New(tag, desc)
//	err = store.Bind(n, mem)
//	copy(store.Field(i, f), src)
//
// # Key Types
//
//   - [Store]: element/field addressing over a bound block
//   - [Interleaved]: array-of-structs storage
//   - [PerField]: struct-of-arrays storage
package layout
