package layout

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/robert-malhotra/go-ndgrid/internal/dtype"
)

// Tag selects how element fields are placed in memory.
type Tag uint8

const (
	Interleaved Tag = iota
	PerField
)

func (t Tag) String() string {
	switch t {
	case Interleaved:
		return "interleaved"
	case PerField:
		return "per-field"
	default:
		return fmt.Sprintf("Tag(%d)", uint8(t))
	}
}

// ParseTag converts a configuration string to a Tag.
func ParseTag(s string) (Tag, error) {
	switch s {
	case "interleaved", "aos", "":
		return Interleaved, nil
	case "per-field", "perfield", "soa":
		return PerField, nil
	default:
		return 0, fmt.Errorf("unknown layout %q", s)
	}
}

var (
	// ErrShortMemory is returned by Bind when the block cannot hold n elements.
	ErrShortMemory = errors.New("layout: memory block too small")

	// ErrNotBound is the panic value for field access on an unbound store.
	ErrNotBound = errors.New("layout: no memory bound")
)

// Store addresses the fields of n elements inside a bound memory block.
type Store interface {
	// Tag returns the placement scheme.
	Tag() Tag

	// Descriptor returns the element type the store was built for.
	Descriptor() *dtype.Descriptor

	// Bind attaches mem as storage for n elements, replacing any previous
	// binding. Only the first Required(n) bytes are used.
	Bind(n int, mem []byte) error

	// Unbind detaches and returns the bound block.
	Unbind() []byte

	// Bound reports whether memory is attached.
	Bound() bool

	// Len returns the number of elements bound.
	Len() int

	// Field returns the bytes of field f of element i.
	Field(i, f int) []byte

	// Bytes returns the bound block, trimmed to Required(Len()).
	Bytes() []byte
}

// MemoryLayoutHinter is implemented by element types that prefer a layout.
// The method is called on the zero value.
type MemoryLayoutHinter interface {
	MemoryLayout() Tag
}

// Select returns the layout preferred by t, or def when t states none.
func Select(t reflect.Type, def Tag) Tag {
	if h, ok := reflect.Zero(t).Interface().(MemoryLayoutHinter); ok {
		return h.MemoryLayout()
	}
	return def
}

// New creates an unbound store for elements described by desc.
func New(tag Tag, desc *dtype.Descriptor) (Store, error) {
	if desc == nil {
		return nil, fmt.Errorf("nil descriptor")
	}

	switch tag {
	case Interleaved:
		return NewInterleaved(desc), nil
	case PerField:
		return NewPerField(desc), nil
	default:
		return nil, fmt.Errorf("unsupported layout: %v", tag)
	}
}

// Required returns the bytes needed for n elements.
func Required(desc *dtype.Descriptor, n int) int {
	return n * desc.Size
}

// CopyElement copies every field of element si in src to element di in dst.
// Both stores must describe the same element type.
func CopyElement(dst Store, di int, src Store, si int) {
	for f := range src.Descriptor().Fields {
		copy(dst.Field(di, f), src.Field(si, f))
	}
}

// base holds what both stores share.
type base struct {
	desc *dtype.Descriptor
	mem  []byte
	n    int
}

func (b *base) Descriptor() *dtype.Descriptor {
	return b.desc
}

func (b *base) Bind(n int, mem []byte) error {
	if n < 0 {
		return fmt.Errorf("negative element count %d", n)
	}
	need := Required(b.desc, n)
	if len(mem) < need {
		return fmt.Errorf("%w: %d elements of %d bytes need %d, got %d",
			ErrShortMemory, n, b.desc.Size, need, len(mem))
	}
	b.mem = mem[:need:need]
	b.n = n
	return nil
}

func (b *base) Unbind() []byte {
	mem := b.mem
	b.mem = nil
	b.n = 0
	return mem
}

func (b *base) Bound() bool {
	return b.mem != nil
}

func (b *base) Len() int {
	return b.n
}

func (b *base) Bytes() []byte {
	return b.mem
}

func (b *base) check() {
	if b.mem == nil {
		panic(ErrNotBound)
	}
}
