// Package alloc provides memory management for grid storage and for the
// pack/unpack protocol.
//
// # Heap
//
// The [Heap] type hands out owned byte blocks for grids that allocate their
// own storage and keeps statistics about them:
//
//   - Allocation tracking: every live block is recorded with an optional tag
//     so a leak can be traced back to its owner.
//   - Free checking: freeing a block twice, or freeing memory the heap never
//     handed out, is an error.
//   - Statistics: counts and byte totals are available through [Heap.Stats].
//
// A single Heap may be shared by many grids; all methods are safe for
// concurrent use. Tracking keeps every live block reachable until it is
// freed, so it is opt-in: a nil *Heap is a valid allocator that records
// nothing.
//
// # PreAlloc
//
// [PreAlloc] wraps a caller-owned buffer with a sequential cursor. Packing
// first asks every participant for its request size, sums them with [Sum],
// the caller provides a buffer of that size, and the participants then
// carve their regions out of it in the same order:
//
//	n, _ := g.PackRequest(fields, nil)
//	mem := alloc.NewPreAlloc(make([]byte, n))
//	err := g.Pack(mem, fields, nil)
//
// Unpacking walks the same buffer with [PreAlloc.Next] after a
// [PreAlloc.Reset].
package alloc
