package layout

import "github.com/robert-malhotra/go-ndgrid/internal/dtype"

// PerField stores one contiguous run per field.
type PerField struct {
	base
}

// NewPerField creates an unbound per-field store.
func NewPerField(desc *dtype.Descriptor) *PerField {
	return &PerField{base{desc: desc}}
}

func (s *PerField) Tag() Tag {
	return PerField
}

// Field returns the bytes of field f of element i.
func (s *PerField) Field(i, f int) []byte {
	s.check()
	fd := &s.desc.Fields[f]
	off := s.n*fd.Offset + i*fd.Size
	return s.mem[off : off+fd.Size : off+fd.Size]
}

// Run returns the contiguous run holding field f of every element.
func (s *PerField) Run(f int) []byte {
	s.check()
	fd := &s.desc.Fields[f]
	off := s.n * fd.Offset
	end := off + s.n*fd.Size
	return s.mem[off:end:end]
}
