package ndgrid

import (
	"github.com/robert-malhotra/go-ndgrid/internal/alloc"
	"github.com/robert-malhotra/go-ndgrid/internal/layout"
	"github.com/robert-malhotra/go-ndgrid/internal/shape"
)

// Key is a grid coordinate, one component per axis.
type Key = shape.Key

// Iterator visits every coordinate of a grid in offset order.
type Iterator = shape.Iterator

// SubIterator visits an inclusive box of coordinates.
type SubIterator = shape.SubIterator

// Layout selects how element fields are placed in memory.
type Layout = layout.Tag

const (
	Interleaved = layout.Interleaved
	PerField    = layout.PerField
)

// Buffer is caller-owned memory consumed sequentially by Pack and Unpack.
type Buffer = alloc.PreAlloc

// NewBuffer wraps b for packing or unpacking.
func NewBuffer(b []byte) *Buffer {
	return alloc.NewPreAlloc(b)
}

// Heap provides owned grid memory.
type Heap = alloc.Heap

// NewHeap returns an empty heap.
func NewHeap() *Heap {
	return alloc.NewHeap()
}

// K builds a key from its components.
func K(c ...int) Key {
	return shape.NewKey(c...)
}

// Ownership tells whether a grid frees its memory.
type Ownership uint8

const (
	Unbound  Ownership = iota // no memory attached
	Owned                     // allocated from the grid's heap, freed by the grid
	Borrowed                  // supplied by the caller, never freed by the grid
)

func (o Ownership) String() string {
	switch o {
	case Owned:
		return "owned"
	case Borrowed:
		return "borrowed"
	default:
		return "unbound"
	}
}
