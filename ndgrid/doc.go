// Package ndgrid provides a typed N-dimensional grid container with a
// selectable memory layout and a field-subset pack/unpack protocol.
//
// # Elements
//
// The element type T is any fixed-size, pointer-free Go type: a number,
// a bool, a fixed-length array, or a struct of those. Its fields are the
// struct fields in declaration order, or the value itself for a non-struct
// type. Field names come from a FieldNames() method, from `grid:"name"`
// tags, or are generated as prop0, prop1, ...
//
// # Layouts
//
// Elements are stored either Interleaved (all fields of one element
// together) or PerField (one contiguous run per field). The choice is made
// once per grid, from WithLayout or from a MemoryLayout() method on T, and
// is invisible to every accessor:
//
//	g, err := ndgrid.New[Particle]([]int{16, 16, 16}, ndgrid.WithLayout(ndgrid.PerField))
//	err = g.SetMemory()
//	err = g.Set(ndgrid.K(1, 2, 3), Particle{Mass: 1})
//	m, err := ndgrid.GetField[float64](g, ndgrid.K(1, 2, 3), 1)
//
// # Memory
//
// A grid owns memory it allocates with SetMemory and merely borrows memory
// bound with SetExternalMemory. Owned memory is freed by Release and
// Resize; borrowed memory never is. Swap exchanges ownership along with the
// data.
//
// # Errors
//
// Accesses fail with ErrNotInitialized before memory is bound and with a
// *BoundsError when a coordinate component is negative or not below its
// extent. Each failure class has a numeric code (see CodeOf and
// LastError).
package ndgrid
