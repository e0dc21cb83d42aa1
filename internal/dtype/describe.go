package dtype

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
)

const tagName = "grid"

var (
	// ErrUnsupportedType is returned for element types that are not
	// fixed-size and pointer-free.
	ErrUnsupportedType = errors.New("dtype: unsupported element type")

	// ErrFieldNames is returned when a FieldNamer reports the wrong number
	// of names or a duplicate name.
	ErrFieldNames = errors.New("dtype: invalid field names")
)

// FieldNamer is implemented by element types that declare their field
// names. The method is called on the zero value.
type FieldNamer interface {
	FieldNames() []string
}

// Field is one top-level field of an element.
type Field struct {
	Name   string
	Offset int // byte offset inside the packed element
	Size   int
	Type   *Datatype
	index  int // struct field index, -1 when the element itself is the field
}

// Descriptor describes a grid element type.
type Descriptor struct {
	Type     reflect.Type
	Fields   []Field
	Size     int  // packed element size
	HasNames bool // names were declared, not synthesised
	compound bool
}

var cache sync.Map // reflect.Type -> *Descriptor or error

// For returns the descriptor for T.
func For[T any]() (*Descriptor, error) {
	return Describe(reflect.TypeFor[T]())
}

// Describe builds the descriptor for t, or returns the cached one.
func Describe(t reflect.Type) (*Descriptor, error) {
	if v, ok := cache.Load(t); ok {
		if err, isErr := v.(error); isErr {
			return nil, err
		}
		return v.(*Descriptor), nil
	}

	d, err := describe(t)
	if err != nil {
		cache.Store(t, err)
		return nil, err
	}
	actual, _ := cache.LoadOrStore(t, d)
	return actual.(*Descriptor), nil
}

func describe(t reflect.Type) (*Descriptor, error) {
	if !NoPointers(t) {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedType, t)
	}
	dt, err := FromGoType(t)
	if err != nil {
		return nil, err
	}

	d := &Descriptor{Type: t, Size: dt.Size}
	if dt.Class == ClassCompound {
		d.compound = true
		for _, m := range dt.Members {
			d.Fields = append(d.Fields, Field{
				Name:   m.Name,
				Offset: m.Offset,
				Size:   m.Type.Size,
				Type:   m.Type,
				index:  m.index,
			})
			if sf := t.Field(m.index); sf.Tag.Get(tagName) != "" {
				d.HasNames = true
			}
		}
	} else {
		d.Fields = []Field{{Offset: 0, Size: dt.Size, Type: dt, index: -1}}
	}

	if !d.HasNames {
		for i := range d.Fields {
			d.Fields[i].Name = fmt.Sprintf("prop%d", i)
		}
	}

	if namer, ok := reflect.Zero(t).Interface().(FieldNamer); ok {
		names := namer.FieldNames()
		if len(names) != len(d.Fields) {
			return nil, fmt.Errorf("%w: %v declares %d names for %d fields",
				ErrFieldNames, t, len(names), len(d.Fields))
		}
		for i, n := range names {
			d.Fields[i].Name = n
		}
		d.HasNames = true
	}

	seen := make(map[string]bool, len(d.Fields))
	for _, f := range d.Fields {
		if seen[f.Name] {
			return nil, fmt.Errorf("%w: %v has duplicate field %q", ErrFieldNames, t, f.Name)
		}
		seen[f.Name] = true
	}
	return d, nil
}

// NumFields returns the number of top-level fields.
func (d *Descriptor) NumFields() int {
	return len(d.Fields)
}

// FieldIndex returns the index of the named field.
func (d *Descriptor) FieldIndex(name string) (int, bool) {
	for i, f := range d.Fields {
		if f.Name == name {
			return i, true
		}
	}
	return -1, false
}

// Names returns the field names in index order.
func (d *Descriptor) Names() []string {
	names := make([]string, len(d.Fields))
	for i, f := range d.Fields {
		names[i] = f.Name
	}
	return names
}

// FieldValue returns field f of the element held in elem.
func (d *Descriptor) FieldValue(elem reflect.Value, f int) reflect.Value {
	if idx := d.Fields[f].index; idx >= 0 {
		return elem.Field(idx)
	}
	return elem
}

// EncodeElement packs every field of elem into dst.
func (d *Descriptor) EncodeElement(dst []byte, elem reflect.Value) error {
	for f := range d.Fields {
		if err := d.EncodeField(f, dst[d.Fields[f].Offset:], elem); err != nil {
			return err
		}
	}
	return nil
}

// DecodeElement unpacks src into the settable elem.
func (d *Descriptor) DecodeElement(src []byte, elem reflect.Value) error {
	for f := range d.Fields {
		if err := d.DecodeField(f, src[d.Fields[f].Offset:], elem); err != nil {
			return err
		}
	}
	return nil
}

// EncodeField packs field f of elem into the start of dst.
func (d *Descriptor) EncodeField(f int, dst []byte, elem reflect.Value) error {
	fd := &d.Fields[f]
	if err := Encode(fd.Type, dst[:fd.Size], d.FieldValue(elem, f)); err != nil {
		return fmt.Errorf("field %s: %w", fd.Name, err)
	}
	return nil
}

// DecodeField unpacks field f of the settable elem from the start of src.
func (d *Descriptor) DecodeField(f int, src []byte, elem reflect.Value) error {
	fd := &d.Fields[f]
	if err := Decode(fd.Type, src[:fd.Size], d.FieldValue(elem, f)); err != nil {
		return fmt.Errorf("field %s: %w", fd.Name, err)
	}
	return nil
}

// HasFieldNames reports whether the element type declares field names.
func HasFieldNames(d *Descriptor) bool {
	return d.HasNames
}

// IsCompound reports whether the element is a composite of named fields
// rather than a single value.
func IsCompound(d *Descriptor) bool {
	return d.compound
}

// NoPointers reports whether t is fixed-size and holds no pointers, so its
// packed bytes fully describe it.
func NoPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	case reflect.Array:
		return NoPointers(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if !NoPointers(t.Field(i).Type) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
