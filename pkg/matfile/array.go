package matfile

import (
	"fmt"
	"math"
)

// An Array is one decoded matrix variable: flags word, dimension
// extents, name and one or two numeric parts. It exclusively owns all
// of them.
type Array struct {
	// Flags is the 64-bit array flags field; the low byte is the class.
	Flags uint64

	// Dims holds the dimension extents in stream order.
	Dims []int32

	// Name is the variable name as stored, without any terminator.
	Name string

	// Real is the real part. Imag is nil for non-complex arrays.
	Real Numeric
	Imag *Numeric
}

// Class returns the array class from the low flags byte.
func (a *Array) Class() ArrayClass {
	return ArrayClass(a.Flags & 0xff)
}

// IsComplex reports whether the array carries an imaginary part.
func (a *Array) IsComplex() bool {
	return a.Imag != nil
}

// NumElements returns the product of the dimension extents.
func (a *Array) NumElements() int {
	count := 1
	for _, ext := range a.Dims {
		count *= int(ext)
	}
	return count
}

// parseArray reconstructs one variable from the body of a matrix
// element: flags, dimensions and name sub-elements in fixed order, then
// a real part and, when bytes remain, exactly one imaginary part ending
// flush with the body.
func (d *decoder) parseArray(body []byte) (*Array, error) {
	tg, payload, cur, err := d.readSub(body, 0)
	if err != nil {
		return nil, err
	}
	if tg.typ != TypeUint32 || tg.size != 8 {
		return nil, fmt.Errorf("%w: array flags tagged %s size %d, want %s size 8",
			ErrCorruptStream, tg.typ, tg.size, TypeUint32)
	}
	arr := &Array{Flags: d.order.Uint64(payload)}

	tg, payload, cur, err = d.readSub(body, align8(cur))
	if err != nil {
		return nil, err
	}
	if tg.typ != TypeInt32 {
		return nil, fmt.Errorf("%w: dimensions tagged %s, want %s", ErrCorruptStream, tg.typ, TypeInt32)
	}
	if tg.size%4 != 0 {
		return nil, fmt.Errorf("%w: dimensions size %d not a multiple of 4", ErrCorruptStream, tg.size)
	}
	arr.Dims = make([]int32, tg.size/4)
	for i := range arr.Dims {
		arr.Dims[i] = int32(d.order.Uint32(payload[4*i:]))
	}

	tg, payload, cur, err = d.readSub(body, align8(cur))
	if err != nil {
		return nil, err
	}
	if tg.typ != TypeInt8 {
		return nil, fmt.Errorf("%w: array name tagged %s, want %s", ErrCorruptStream, tg.typ, TypeInt8)
	}
	arr.Name = string(payload)

	class := arr.Class()
	switch {
	case class.IsNumeric():
	case class.known():
		return nil, fmt.Errorf("%w: %q is %s", ErrUnsupportedClass, arr.Name, class)
	default:
		return nil, fmt.Errorf("%w: array class %d out of range", ErrCorruptStream, uint8(class))
	}

	cur = align8(cur)
	arr.Real, cur, err = d.readPart(body, cur, arr.Dims)
	if err != nil {
		return nil, fmt.Errorf("real part of %q: %w", arr.Name, err)
	}
	if cur == len(body) {
		return arr, nil
	}

	imag, cur, err := d.readPart(body, cur, arr.Dims)
	if err != nil {
		return nil, fmt.Errorf("imaginary part of %q: %w", arr.Name, err)
	}
	if cur != len(body) {
		return nil, fmt.Errorf("%w: %d trailing bytes after imaginary part of %q",
			ErrCorruptStream, len(body)-cur, arr.Name)
	}
	arr.Imag = &imag
	return arr, nil
}

// readSub reads the sub-element at off inside a matrix body and returns
// its tag, a view of its payload and the cursor just past the payload.
// Padding is the caller's business: the flags, dimensions and name
// sub-elements are 8-byte aligned, numeric parts are not. A body that
// ends unpadded can leave off past its end, so the bound is checked
// before slicing.
func (d *decoder) readSub(body []byte, off int) (tag, []byte, int, error) {
	if off > len(body) {
		return tag{}, nil, 0, fmt.Errorf("%w: matrix body ends at %d, sub-element expected at %d",
			ErrTruncated, len(body), off)
	}
	tg, err := readTag(body[off:], d.order)
	if err != nil {
		return tag{}, nil, 0, err
	}
	if tg.small {
		return tg, tg.inline(body[off:]), off + tagSize, nil
	}
	start := off + tagSize
	if int64(tg.size) > int64(len(body)-start) {
		return tag{}, nil, 0, fmt.Errorf("%w: sub-element %s declares %d bytes, %d remain in body",
			ErrTruncated, tg.typ, tg.size, len(body)-start)
	}
	end := start + int(tg.size)
	return tg, body[start:end], end, nil
}

// readPart reads one numeric part, checks its declared size against the
// dimensions and copies the payload into an owned buffer.
func (d *decoder) readPart(body []byte, off int, dims []int32) (Numeric, int, error) {
	tg, payload, next, err := d.readSub(body, off)
	if err != nil {
		return Numeric{}, 0, err
	}
	width, ok := tg.typ.Size()
	if !ok {
		return Numeric{}, 0, fmt.Errorf("%w: part tagged %s is not numeric", ErrCorruptStream, tg.typ)
	}
	want, err := partSize(width, dims)
	if err != nil {
		return Numeric{}, 0, err
	}
	if int64(tg.size) != want {
		return Numeric{}, 0, fmt.Errorf("%w: part declares %d bytes, dimensions require %d",
			ErrSizeMismatch, tg.size, want)
	}
	data := make([]byte, len(payload))
	copy(data, payload)
	return Numeric{Type: tg.typ, Data: data, order: d.order}, next, nil
}

// partSize computes the byte size the dimensions imply for a part with
// the given element width. A zero extent anywhere gives size zero.
func partSize(width int, dims []int32) (int64, error) {
	count := int64(1)
	for _, ext := range dims {
		if ext < 0 {
			return 0, fmt.Errorf("%w: negative dimension extent %d", ErrCorruptStream, ext)
		}
		if count == 0 || ext == 0 {
			count = 0
			continue
		}
		if int64(ext) > math.MaxInt64/count {
			return 0, fmt.Errorf("%w: dimension product overflows", ErrTooLarge)
		}
		count *= int64(ext)
	}
	if count > math.MaxInt64/int64(width) {
		return 0, fmt.Errorf("%w: dimension product overflows", ErrTooLarge)
	}
	return count * int64(width), nil
}
