package layout

import "github.com/robert-malhotra/go-ndgrid/internal/dtype"

// Interleaved stores each element's fields contiguously.
type Interleaved struct {
	base
}

// NewInterleaved creates an unbound interleaved store.
func NewInterleaved(desc *dtype.Descriptor) *Interleaved {
	return &Interleaved{base{desc: desc}}
}

func (s *Interleaved) Tag() Tag {
	return Interleaved
}

// Field returns the bytes of field f of element i.
func (s *Interleaved) Field(i, f int) []byte {
	s.check()
	fd := &s.desc.Fields[f]
	off := i*s.desc.Size + fd.Offset
	return s.mem[off : off+fd.Size : off+fd.Size]
}

// Element returns all packed fields of element i.
func (s *Interleaved) Element(i int) []byte {
	s.check()
	off := i * s.desc.Size
	return s.mem[off : off+s.desc.Size : off+s.desc.Size]
}
