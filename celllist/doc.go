// Package celllist buckets elements by spatial cell and decides the order
// in which cells are visited.
//
// A [CellList] maps a linear cell id to the ids of the elements inside that
// cell. An [Order] produces the sequence of cell ids to visit: [Linear]
// follows memory order, [Hilbert] follows a Hilbert curve so that cells
// visited one after the other are also close in space.
//
// Orders work in two phases. ComputeKey is called once per domain cell,
// then Finalize turns the accumulated keys into linear cell ids:
//
//	ord, _ := celllist.NewHilbert([]int{16, 16, 16}, 1, 0)
//	it := domain.Iterator()
//	for it.Next() {
//		ord.ComputeKey(it.Key())
//	}
//	ord.Finalize()
//	for _, cell := range ord.Keys() { ... }
//
// A [Builder] does all of this for a set of positions inside a [Box].
// Cells are laid out on a grid padded by a margin on every side so that
// each domain cell has a full neighbourhood; positions that fall in the
// margin are stored in the padding cells.
package celllist
