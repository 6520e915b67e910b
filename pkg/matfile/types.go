package matfile

import "fmt"

// DataType identifies the on-disk encoding of one data element.
type DataType uint32

const (
	TypeInt8       DataType = 1
	TypeUint8      DataType = 2
	TypeInt16      DataType = 3
	TypeUint16     DataType = 4
	TypeInt32      DataType = 5
	TypeUint32     DataType = 6
	TypeSingle     DataType = 7
	TypeDouble     DataType = 9
	TypeInt64      DataType = 12
	TypeUint64     DataType = 13
	TypeMatrix     DataType = 14
	TypeCompressed DataType = 15
	TypeUTF8       DataType = 16
	TypeUTF16      DataType = 17
	TypeUTF32      DataType = 18
)

// Codes 8, 10 and 11 are reserved by the format and never written by
// known producers. They pass the tag range check but carry no element
// width, so anything that needs a numeric meaning rejects them.

func (t DataType) String() string {
	switch t {
	case TypeInt8:
		return "miINT8"
	case TypeUint8:
		return "miUINT8"
	case TypeInt16:
		return "miINT16"
	case TypeUint16:
		return "miUINT16"
	case TypeInt32:
		return "miINT32"
	case TypeUint32:
		return "miUINT32"
	case TypeSingle:
		return "miSINGLE"
	case TypeDouble:
		return "miDOUBLE"
	case TypeInt64:
		return "miINT64"
	case TypeUint64:
		return "miUINT64"
	case TypeMatrix:
		return "miMATRIX"
	case TypeCompressed:
		return "miCOMPRESSED"
	case TypeUTF8:
		return "miUTF8"
	case TypeUTF16:
		return "miUTF16"
	case TypeUTF32:
		return "miUTF32"
	default:
		return fmt.Sprintf("type(%d)", uint32(t))
	}
}

// Size returns the width in bytes of one value of type t. The second
// result is false for anything outside the fixed-width numeric set
// (matrix, compressed, the UTF encodings and the reserved codes).
func (t DataType) Size() (int, bool) {
	switch t {
	case TypeInt8, TypeUint8:
		return 1, true
	case TypeInt16, TypeUint16:
		return 2, true
	case TypeInt32, TypeUint32, TypeSingle:
		return 4, true
	case TypeDouble, TypeInt64, TypeUint64:
		return 8, true
	}
	return 0, false
}

// IsNumeric reports whether t may tag an array's real or imaginary part.
func (t DataType) IsNumeric() bool {
	_, ok := t.Size()
	return ok
}

// valid reports whether t is inside the tag enumeration range.
func (t DataType) valid() bool {
	return t >= TypeInt8 && t <= TypeUTF32
}

// ArrayClass is the structural kind of a matrix variable, stored in the
// low byte of its flags field.
type ArrayClass uint8

const (
	ClassCell   ArrayClass = 1
	ClassStruct ArrayClass = 2
	ClassObject ArrayClass = 3
	ClassChar   ArrayClass = 4
	ClassSparse ArrayClass = 5
	ClassDouble ArrayClass = 6
	ClassSingle ArrayClass = 7
	ClassInt8   ArrayClass = 8
	ClassUint8  ArrayClass = 9
	ClassInt16  ArrayClass = 10
	ClassUint16 ArrayClass = 11
	ClassInt32  ArrayClass = 12
	ClassUint32 ArrayClass = 13
	ClassInt64  ArrayClass = 14
	ClassUint64 ArrayClass = 15
)

func (c ArrayClass) String() string {
	switch c {
	case ClassCell:
		return "mxCELL_CLASS"
	case ClassStruct:
		return "mxSTRUCT_CLASS"
	case ClassObject:
		return "mxOBJECT_CLASS"
	case ClassChar:
		return "mxCHAR_CLASS"
	case ClassSparse:
		return "mxSPARSE_CLASS"
	case ClassDouble:
		return "mxDOUBLE_CLASS"
	case ClassSingle:
		return "mxSINGLE_CLASS"
	case ClassInt8:
		return "mxINT8_CLASS"
	case ClassUint8:
		return "mxUINT8_CLASS"
	case ClassInt16:
		return "mxINT16_CLASS"
	case ClassUint16:
		return "mxUINT16_CLASS"
	case ClassInt32:
		return "mxINT32_CLASS"
	case ClassUint32:
		return "mxUINT32_CLASS"
	case ClassInt64:
		return "mxINT64_CLASS"
	case ClassUint64:
		return "mxUINT64_CLASS"
	default:
		return fmt.Sprintf("class(%d)", uint8(c))
	}
}

// IsNumeric reports whether c is one of the numeric classes the decoder
// reconstructs. The structural classes (cell, struct, object, char,
// sparse) are rejected during decode.
func (c ArrayClass) IsNumeric() bool {
	return c >= ClassDouble && c <= ClassUint64
}

// known reports whether c is inside the class enumeration range.
func (c ArrayClass) known() bool {
	return c >= ClassCell && c <= ClassUint64
}
