package matfile

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/samcharles93/matkit/internal/tape"
)

// minInflateBuf is the smallest workspace allocated for decompression.
// The declared compressed size is only a lower bound on the inflated
// size, so tiny spans still get a useful starting capacity.
const minInflateBuf = 128

// inflateElement inflates the payload of a compressed element and
// returns the inner element's tag together with its purged, tape-owned
// payload. The span must hold exactly one zlib unit that inflates to
// exactly one element: leftover compressed input or surplus inflated
// output both fail the decode.
func (d *decoder) inflateElement(compressed []byte) (tag, []byte, error) {
	capacity := len(compressed)
	if capacity < minInflateBuf {
		capacity = minInflateBuf
	}
	tp := tape.New[byte](capacity)

	br := bytes.NewReader(compressed)
	zr, err := zlib.NewReader(br)
	if err != nil {
		return tag{}, nil, fmt.Errorf("%w: zlib: %v", ErrCorruptStream, err)
	}

	off := tp.Push(tagSize)
	if _, err := io.ReadFull(zr, tp.Slice(off, tagSize)); err != nil {
		return tag{}, nil, fmt.Errorf("%w: inner tag: %v", ErrCorruptStream, err)
	}
	tg, err := readTag(tp.Slice(off, tagSize), d.order)
	if err != nil {
		return tag{}, nil, err
	}

	// Replace the tag bytes on the tape with the inner payload so the
	// purged buffer carries payload only.
	if tg.small {
		var inline [smallMax]byte
		copy(inline[:], tg.inline(tp.Slice(off, tagSize)))
		tp.Pop(tagSize)
		n := tp.Push(int(tg.size))
		copy(tp.Slice(n, int(tg.size)), inline[:tg.size])
	} else {
		tp.Pop(tagSize)
		n := tp.Push(int(tg.size))
		if _, err := io.ReadFull(zr, tp.Slice(n, int(tg.size))); err != nil {
			return tag{}, nil, fmt.Errorf("%w: inflating %d byte %s payload: %v",
				ErrCorruptStream, tg.size, tg.typ, err)
		}
	}

	var scratch [1]byte
	switch n, err := zr.Read(scratch[:]); {
	case n != 0:
		return tag{}, nil, fmt.Errorf("%w: inflated data continues past the inner element", ErrCorruptStream)
	case err != io.EOF:
		return tag{}, nil, fmt.Errorf("%w: zlib: %v", ErrCorruptStream, err)
	}
	if err := zr.Close(); err != nil {
		return tag{}, nil, fmt.Errorf("%w: zlib: %v", ErrCorruptStream, err)
	}
	if br.Len() != 0 {
		return tag{}, nil, fmt.Errorf("%w: %d unconsumed compressed bytes", ErrCorruptStream, br.Len())
	}
	return tg, tp.Purge(), nil
}
