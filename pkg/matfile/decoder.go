package matfile

import (
	"encoding/binary"
	"fmt"

	"github.com/samcharles93/matkit/internal/tape"
)

// decoder walks one element stream. The byte order is fixed once per
// decode from the header and threaded through every multi-byte read;
// nothing in the package keeps order state anywhere else.
type decoder struct {
	order binary.ByteOrder
}

// align8 rounds n up to the next multiple of 8.
func align8(n int) int {
	return (n + 7) &^ 7
}

// parseElements decodes every element in data. The first damaged
// element fails the whole stream; only fully decoded elements are ever
// returned.
func (d *decoder) parseElements(data []byte) ([]Element, error) {
	elems := tape.New[Element](8)
	for offset := 0; offset < len(data); {
		tg, err := readTag(data[offset:], d.order)
		if err != nil {
			return nil, fmt.Errorf("element at offset %d: %w", offset, err)
		}

		if tg.small {
			payload := make([]byte, tg.size)
			copy(payload, tg.inline(data[offset:]))
			elems.Append(Element{Type: tg.typ, Size: tg.size, Small: true, Data: payload})
			offset += tagSize
			continue
		}

		start := offset + tagSize
		if int64(tg.size) > int64(len(data)-start) {
			return nil, fmt.Errorf("%w: element %s at offset %d declares %d bytes, %d remain",
				ErrTruncated, tg.typ, offset, tg.size, len(data)-start)
		}
		span := data[start : start+int(tg.size)]

		elem := Element{Type: tg.typ, Size: tg.size}
		payload := span
		if tg.typ == TypeCompressed {
			inner, inflated, err := d.inflateElement(span)
			if err != nil {
				return nil, fmt.Errorf("compressed element at offset %d: %w", offset, err)
			}
			elem.Type = inner.typ
			elem.Size = inner.size
			elem.Small = inner.small
			elem.Compressed = true
			payload = inflated
			// The outer cursor moves by the compressed span; the
			// decompressor has already verified the span holds exactly
			// one inflate unit, so declared size == consumed size.
			offset = start + int(tg.size)
		} else {
			offset = start + align8(int(tg.size))
		}

		switch {
		case elem.Type == TypeMatrix:
			arr, err := d.parseArray(payload)
			if err != nil {
				return nil, err
			}
			elem.Array = arr
		case elem.Compressed:
			// Inflated buffers are tape-owned already; hand them over.
			elem.Data = payload
		default:
			elem.Data = make([]byte, len(payload))
			copy(elem.Data, payload)
		}
		elems.Append(elem)
	}
	return elems.Purge(), nil
}
