package dtype

import (
	"fmt"
	"reflect"
	"strings"
)

// Class identifies the family of a datatype.
type Class uint8

const (
	ClassFixedPoint Class = iota
	ClassFloatPoint
	ClassBool
	ClassArray
	ClassCompound
)

func (c Class) String() string {
	switch c {
	case ClassFixedPoint:
		return "fixed-point"
	case ClassFloatPoint:
		return "float-point"
	case ClassBool:
		return "bool"
	case ClassArray:
		return "array"
	case ClassCompound:
		return "compound"
	default:
		return fmt.Sprintf("Class(%d)", uint8(c))
	}
}

// Datatype describes how one Go value is packed.
type Datatype struct {
	Class  Class
	Size   int // packed size in bytes
	Signed bool

	// GoType is the Go type the datatype was derived from.
	GoType reflect.Type

	// Array
	ArrayLen int
	Base     *Datatype

	// Compound
	Members []Member
}

// Member is one field of a compound datatype.
type Member struct {
	Name   string
	Offset int // byte offset inside the packed compound
	Type   *Datatype
	index  int // struct field index
}

func (dt *Datatype) String() string {
	switch dt.Class {
	case ClassFixedPoint:
		if dt.Signed {
			return fmt.Sprintf("int%d", dt.Size*8)
		}
		return fmt.Sprintf("uint%d", dt.Size*8)
	case ClassFloatPoint:
		return fmt.Sprintf("float%d", dt.Size*8)
	case ClassBool:
		return "bool"
	case ClassArray:
		return fmt.Sprintf("[%d]%s", dt.ArrayLen, dt.Base)
	case ClassCompound:
		var sb strings.Builder
		sb.WriteString("{")
		for i, m := range dt.Members {
			if i > 0 {
				sb.WriteString("; ")
			}
			fmt.Fprintf(&sb, "%s %s", m.Name, m.Type)
		}
		sb.WriteString("}")
		return sb.String()
	}
	return dt.Class.String()
}

// FromGoType derives the packed datatype for t.
func FromGoType(t reflect.Type) (*Datatype, error) {
	switch t.Kind() {
	case reflect.Int, reflect.Uint:
		// packed as 64-bit on every platform
		return &Datatype{Class: ClassFixedPoint, Size: 8, Signed: t.Kind() == reflect.Int, GoType: t}, nil
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return &Datatype{Class: ClassFixedPoint, Size: int(t.Size()), Signed: true, GoType: t}, nil
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &Datatype{Class: ClassFixedPoint, Size: int(t.Size()), GoType: t}, nil
	case reflect.Float32, reflect.Float64:
		return &Datatype{Class: ClassFloatPoint, Size: int(t.Size()), GoType: t}, nil
	case reflect.Bool:
		return &Datatype{Class: ClassBool, Size: 1, GoType: t}, nil
	case reflect.Array:
		base, err := FromGoType(t.Elem())
		if err != nil {
			return nil, fmt.Errorf("array element: %w", err)
		}
		return &Datatype{
			Class:    ClassArray,
			Size:     t.Len() * base.Size,
			GoType:   t,
			ArrayLen: t.Len(),
			Base:     base,
		}, nil
	case reflect.Struct:
		return fromStruct(t)
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedType, t)
	}
}

func fromStruct(t reflect.Type) (*Datatype, error) {
	dt := &Datatype{Class: ClassCompound, GoType: t}
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			return nil, fmt.Errorf("%w: %v has unexported field %s", ErrUnsupportedType, t, sf.Name)
		}
		mt, err := FromGoType(sf.Type)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", sf.Name, err)
		}
		name := sf.Name
		if tag, ok := sf.Tag.Lookup(tagName); ok && tag != "" {
			name = tag
		}
		dt.Members = append(dt.Members, Member{
			Name:   name,
			Offset: dt.Size,
			Type:   mt,
			index:  i,
		})
		dt.Size += mt.Size
	}
	if len(dt.Members) == 0 {
		return nil, fmt.Errorf("%w: %v has no fields", ErrUnsupportedType, t)
	}
	return dt, nil
}
