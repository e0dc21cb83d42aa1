package alloc

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"unsafe"
)

var (
	// ErrDoubleFree is returned when a block is freed twice or was never
	// allocated by the heap.
	ErrDoubleFree = errors.New("alloc: block not owned by heap")

	// ErrLeak is returned by Validate when blocks are still live.
	ErrLeak = errors.New("alloc: live allocations remain")
)

// Heap hands out owned memory blocks and tracks them until they are freed.
// A nil *Heap allocates with make and tracks nothing, leaving unreleased
// blocks to the garbage collector.
type Heap struct {
	mu sync.Mutex

	// live maps the first byte of each outstanding block to its record
	live map[*byte]Allocation

	// seq orders allocations for reporting
	seq uint64

	stats Stats
}

// Allocation describes a live block.
type Allocation struct {
	Size int
	Tag  string // Optional tag for debugging
	seq  uint64
}

// Stats contains allocation statistics.
type Stats struct {
	TotalAllocations uint64 // Number of allocations made
	TotalBytesAlloc  uint64 // Total bytes allocated
	TotalBytesFree   uint64 // Total bytes freed
	LargestAlloc     uint64 // Largest single allocation
	Live             int    // Blocks allocated but not yet freed
}

// NewHeap creates an empty heap.
func NewHeap() *Heap {
	return &Heap{live: make(map[*byte]Allocation)}
}

// Alloc returns a zeroed block of n bytes.
// A zero-size request returns an empty, untracked slice.
func (h *Heap) Alloc(n int) []byte {
	return h.AllocTagged(n, "")
}

// AllocTagged allocates a block with an optional tag for debugging.
func (h *Heap) AllocTagged(n int, tag string) []byte {
	if n < 0 {
		panic("alloc: negative allocation size")
	}
	if n == 0 {
		return []byte{}
	}

	buf := make([]byte, n)
	if h == nil {
		return buf
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.seq++
	h.live[unsafe.SliceData(buf)] = Allocation{Size: n, Tag: tag, seq: h.seq}

	h.stats.TotalAllocations++
	h.stats.TotalBytesAlloc += uint64(n)
	if uint64(n) > h.stats.LargestAlloc {
		h.stats.LargestAlloc = uint64(n)
	}
	h.stats.Live++

	return buf
}

// Free returns a block obtained from Alloc. The slice must start at the
// beginning of the block; its length is ignored.
func (h *Heap) Free(buf []byte) error {
	if h == nil || cap(buf) == 0 {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	key := unsafe.SliceData(buf)
	a, ok := h.live[key]
	if !ok {
		return fmt.Errorf("%w: %d-byte block at %p", ErrDoubleFree, cap(buf), key)
	}
	delete(h.live, key)

	h.stats.TotalBytesFree += uint64(a.Size)
	h.stats.Live--
	return nil
}

// Owns reports whether buf is a live block of this heap.
func (h *Heap) Owns(buf []byte) bool {
	if h == nil || cap(buf) == 0 {
		return false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.live[unsafe.SliceData(buf)]
	return ok
}

// Stats returns a copy of the allocation statistics.
func (h *Heap) Stats() Stats {
	if h == nil {
		return Stats{}
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stats
}

// Allocations returns the live blocks in allocation order.
func (h *Heap) Allocations() []Allocation {
	if h == nil {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	result := make([]Allocation, 0, len(h.live))
	for _, a := range h.live {
		result = append(result, a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].seq < result[j].seq })
	return result
}

// Validate checks the heap accounting and reports any block still live.
func (h *Heap) Validate() error {
	if h == nil {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.stats.Live != len(h.live) {
		return fmt.Errorf("alloc: live count %d disagrees with %d tracked blocks", h.stats.Live, len(h.live))
	}
	if h.stats.TotalBytesFree > h.stats.TotalBytesAlloc {
		return fmt.Errorf("alloc: freed %d bytes but only allocated %d", h.stats.TotalBytesFree, h.stats.TotalBytesAlloc)
	}
	if len(h.live) == 0 {
		return nil
	}

	var bytes int
	for _, a := range h.live {
		bytes += a.Size
	}
	return fmt.Errorf("%w: %d blocks, %d bytes", ErrLeak, len(h.live), bytes)
}

// Reset forgets every allocation and clears the statistics.
// This is primarily useful for testing.
func (h *Heap) Reset() {
	if h == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	clear(h.live)
	h.seq = 0
	h.stats = Stats{}
}
