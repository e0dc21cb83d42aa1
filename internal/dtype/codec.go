package dtype

import (
	"fmt"
	"reflect"

	"github.com/robert-malhotra/go-ndgrid/internal/binary"
)

// Encode packs v, which must match dt, into dst.
func Encode(dt *Datatype, dst []byte, v reflect.Value) error {
	return encode(dt, binary.NewWriter(dst), v)
}

// Decode unpacks src into the settable v, which must match dt.
func Decode(dt *Datatype, src []byte, v reflect.Value) error {
	return decode(dt, binary.NewReader(src), v)
}

func encode(dt *Datatype, w *binary.Writer, v reflect.Value) error {
	switch dt.Class {
	case ClassFixedPoint:
		if dt.Signed {
			return w.WriteUintN(uint64(v.Int()), dt.Size)
		}
		return w.WriteUintN(v.Uint(), dt.Size)

	case ClassFloatPoint:
		if dt.Size == 4 {
			return w.WriteFloat32(float32(v.Float()))
		}
		return w.WriteFloat64(v.Float())

	case ClassBool:
		var b uint8
		if v.Bool() {
			b = 1
		}
		return w.WriteUint8(b)

	case ClassArray:
		for i := 0; i < dt.ArrayLen; i++ {
			if err := encode(dt.Base, w, v.Index(i)); err != nil {
				return err
			}
		}
		return nil

	case ClassCompound:
		for _, m := range dt.Members {
			if err := encode(m.Type, w, v.Field(m.index)); err != nil {
				return fmt.Errorf("member %s: %w", m.Name, err)
			}
		}
		return nil

	default:
		return fmt.Errorf("unsupported datatype class for encoding: %v", dt.Class)
	}
}

func decode(dt *Datatype, r *binary.Reader, v reflect.Value) error {
	switch dt.Class {
	case ClassFixedPoint:
		u, err := r.ReadUintN(dt.Size)
		if err != nil {
			return err
		}
		if dt.Signed {
			// sign-extend from dt.Size bytes
			shift := 64 - 8*uint(dt.Size)
			v.SetInt(int64(u<<shift) >> shift)
		} else {
			v.SetUint(u)
		}
		return nil

	case ClassFloatPoint:
		if dt.Size == 4 {
			f, err := r.ReadFloat32()
			if err != nil {
				return err
			}
			v.SetFloat(float64(f))
			return nil
		}
		f, err := r.ReadFloat64()
		if err != nil {
			return err
		}
		v.SetFloat(f)
		return nil

	case ClassBool:
		b, err := r.ReadUint8()
		if err != nil {
			return err
		}
		v.SetBool(b != 0)
		return nil

	case ClassArray:
		for i := 0; i < dt.ArrayLen; i++ {
			if err := decode(dt.Base, r, v.Index(i)); err != nil {
				return err
			}
		}
		return nil

	case ClassCompound:
		for _, m := range dt.Members {
			if err := decode(m.Type, r, v.Field(m.index)); err != nil {
				return fmt.Errorf("member %s: %w", m.Name, err)
			}
		}
		return nil

	default:
		return fmt.Errorf("unsupported datatype class for decoding: %v", dt.Class)
	}
}
