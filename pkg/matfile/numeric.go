package matfile

import (
	"encoding/binary"
	"fmt"
	"math"
)

// A Numeric is one owned real or imaginary part of an array: raw payload
// bytes tagged with the element type that produced them. Values are
// decoded on demand with the byte order of the file the part came from.
type Numeric struct {
	Type DataType
	Data []byte

	order binary.ByteOrder
}

// Len returns the number of values in the part.
func (n *Numeric) Len() int {
	width, ok := n.Type.Size()
	if !ok {
		return 0
	}
	return len(n.Data) / width
}

// Values decodes the part into the natural Go slice for its type, e.g.
// []float64 for miDOUBLE or []int16 for miINT16.
func (n *Numeric) Values() (any, error) {
	switch n.Type {
	case TypeInt8:
		return n.Int8s()
	case TypeUint8:
		return n.Uint8s()
	case TypeInt16:
		return n.Int16s()
	case TypeUint16:
		return n.Uint16s()
	case TypeInt32:
		return n.Int32s()
	case TypeUint32:
		return n.Uint32s()
	case TypeSingle:
		return n.Float32s()
	case TypeDouble:
		return n.Float64s()
	case TypeInt64:
		return n.Int64s()
	case TypeUint64:
		return n.Uint64s()
	default:
		return nil, fmt.Errorf("%w: part holds %s", ErrTypeMismatch, n.Type)
	}
}

// Int8s decodes the part as int8 values; the part must be tagged miINT8.
func (n *Numeric) Int8s() ([]int8, error) {
	if n.Type != TypeInt8 {
		return nil, n.mismatch(TypeInt8)
	}
	out := make([]int8, len(n.Data))
	for i, b := range n.Data {
		out[i] = int8(b)
	}
	return out, nil
}

// Uint8s decodes the part as uint8 values; the part must be tagged miUINT8.
func (n *Numeric) Uint8s() ([]uint8, error) {
	if n.Type != TypeUint8 {
		return nil, n.mismatch(TypeUint8)
	}
	out := make([]uint8, len(n.Data))
	copy(out, n.Data)
	return out, nil
}

// Int16s decodes the part as int16 values; the part must be tagged miINT16.
func (n *Numeric) Int16s() ([]int16, error) {
	if n.Type != TypeInt16 {
		return nil, n.mismatch(TypeInt16)
	}
	out := make([]int16, n.Len())
	for i := range out {
		out[i] = int16(n.order.Uint16(n.Data[2*i:]))
	}
	return out, nil
}

// Uint16s decodes the part as uint16 values; the part must be tagged miUINT16.
func (n *Numeric) Uint16s() ([]uint16, error) {
	if n.Type != TypeUint16 {
		return nil, n.mismatch(TypeUint16)
	}
	out := make([]uint16, n.Len())
	for i := range out {
		out[i] = n.order.Uint16(n.Data[2*i:])
	}
	return out, nil
}

// Int32s decodes the part as int32 values; the part must be tagged miINT32.
func (n *Numeric) Int32s() ([]int32, error) {
	if n.Type != TypeInt32 {
		return nil, n.mismatch(TypeInt32)
	}
	out := make([]int32, n.Len())
	for i := range out {
		out[i] = int32(n.order.Uint32(n.Data[4*i:]))
	}
	return out, nil
}

// Uint32s decodes the part as uint32 values; the part must be tagged miUINT32.
func (n *Numeric) Uint32s() ([]uint32, error) {
	if n.Type != TypeUint32 {
		return nil, n.mismatch(TypeUint32)
	}
	out := make([]uint32, n.Len())
	for i := range out {
		out[i] = n.order.Uint32(n.Data[4*i:])
	}
	return out, nil
}

// Int64s decodes the part as int64 values; the part must be tagged miINT64.
func (n *Numeric) Int64s() ([]int64, error) {
	if n.Type != TypeInt64 {
		return nil, n.mismatch(TypeInt64)
	}
	out := make([]int64, n.Len())
	for i := range out {
		out[i] = int64(n.order.Uint64(n.Data[8*i:]))
	}
	return out, nil
}

// Uint64s decodes the part as uint64 values; the part must be tagged miUINT64.
func (n *Numeric) Uint64s() ([]uint64, error) {
	if n.Type != TypeUint64 {
		return nil, n.mismatch(TypeUint64)
	}
	out := make([]uint64, n.Len())
	for i := range out {
		out[i] = n.order.Uint64(n.Data[8*i:])
	}
	return out, nil
}

// Float32s decodes the part as float32 values; the part must be tagged
// miSINGLE.
func (n *Numeric) Float32s() ([]float32, error) {
	if n.Type != TypeSingle {
		return nil, n.mismatch(TypeSingle)
	}
	out := make([]float32, n.Len())
	for i := range out {
		out[i] = math.Float32frombits(n.order.Uint32(n.Data[4*i:]))
	}
	return out, nil
}

// Float64s decodes the part as float64 values; the part must be tagged
// miDOUBLE.
func (n *Numeric) Float64s() ([]float64, error) {
	if n.Type != TypeDouble {
		return nil, n.mismatch(TypeDouble)
	}
	out := make([]float64, n.Len())
	for i := range out {
		out[i] = math.Float64frombits(n.order.Uint64(n.Data[8*i:]))
	}
	return out, nil
}

func (n *Numeric) mismatch(want DataType) error {
	return fmt.Errorf("%w: part holds %s, want %s", ErrTypeMismatch, n.Type, want)
}
