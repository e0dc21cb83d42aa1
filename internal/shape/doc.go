// Package shape maps N-dimensional grid coordinates to flat storage offsets.
//
// A [Shape] owns the extent of every axis together with a precomputed stride
// table. Offsets use mixed-radix conversion with axis 0 varying fastest:
//
//	offset = k[0]*stride[0] + k[1]*stride[1] + ... + k[n-1]*stride[n-1]
//	stride[0] = 1, stride[i] = stride[i-1] * extent[i-1]
//
// # Iteration
//
// [Iterator] walks every coordinate of a shape in offset order. [SubIterator]
// walks an inclusive start/stop hyper-rectangle in the same relative order,
// computing offsets lazily. Both iterators are resumable: the pack and unpack
// protocol of the grid container relies on two iterators built from the same
// arguments visiting exactly the same sequence.
//
//	it := s.Iterator()
//	for it.Next() {
//		k, off := it.Key(), it.Offset()
//		...
//	}
package shape
