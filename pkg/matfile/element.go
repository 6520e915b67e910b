package matfile

import (
	"encoding/binary"
	"fmt"
)

const (
	// tagSize is the length of every element tag.
	tagSize = 8

	// smallMax is the most payload a small tag can inline.
	smallMax = 4
)

// An Element is one tag-length-value unit of the stream. Exactly one of
// Data and Array is set: matrix elements hold their decoded variable,
// everything else holds an owned copy of the raw payload.
type Element struct {
	// Type is the element's data type. For an element that arrived
	// compressed this is the inflated inner element's type; the
	// compressed wrapper itself never surfaces.
	Type DataType

	// Size is the payload length in bytes.
	Size uint32

	// Small records that the element used the inline tag encoding.
	Small bool

	// Compressed records that the element was inflated during decode.
	Compressed bool

	// Data is the owned raw payload, nil for matrix elements.
	Data []byte

	// Array is the decoded variable of a matrix element, nil otherwise.
	Array *Array
}

// tag is one decoded 8-byte element tag.
type tag struct {
	typ   DataType
	size  uint32
	small bool
}

// readTag decodes the tag at the start of b. The small encoding puts two
// non-zero 16-bit halves (size then type) in the first word and inlines
// the payload in the remaining four tag bytes; a zero in either half
// means the large encoding, 32-bit type then 32-bit size.
func readTag(b []byte, order binary.ByteOrder) (tag, error) {
	if len(b) < tagSize {
		return tag{}, fmt.Errorf("%w: %d bytes remain, tag needs %d", ErrTruncated, len(b), tagSize)
	}
	sizeHalf := order.Uint16(b[0:2])
	typeHalf := order.Uint16(b[2:4])
	var tg tag
	if sizeHalf != 0 && typeHalf != 0 {
		tg = tag{typ: DataType(typeHalf), size: uint32(sizeHalf), small: true}
		if tg.size > smallMax {
			return tag{}, fmt.Errorf("%w: small tag claims %d payload bytes", ErrCorruptStream, tg.size)
		}
	} else {
		tg = tag{typ: DataType(order.Uint32(b[0:4])), size: order.Uint32(b[4:8])}
	}
	if !tg.typ.valid() {
		return tag{}, fmt.Errorf("%w: element type %d out of range", ErrCorruptStream, uint32(tg.typ))
	}
	return tg, nil
}

// inline returns the payload bytes a small tag carries inside b, which
// must be the same slice readTag decoded.
func (tg tag) inline(b []byte) []byte {
	return b[4 : 4+tg.size]
}
