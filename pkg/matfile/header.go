package matfile

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// headerSize is the fixed length of the file preamble.
const headerSize = 128

// endianMark is "MI" as a 16-bit value, written by every producer in its
// own native byte order. Reading it back with both orders and seeing
// which one matches recovers the order the rest of the file uses.
const endianMark uint16 = 0x4d49

// blankSubsys is the all-spaces filler some writers store instead of a
// zero subsystem offset.
const blankSubsys uint64 = 0x2020202020202020

// Header is the 128-byte preamble of a level 5 MAT-file.
type Header struct {
	// Text is the raw 116-byte description field, human-readable ASCII
	// and not necessarily null-terminated.
	Text [116]byte

	// SubsysOffset is the byte offset of subsystem data, zero or ASCII
	// blanks when the file has none.
	SubsysOffset uint64

	// Version is the declared format version, 0x0100 for level 5.
	Version uint16

	// Order is the byte order the file was written in, recovered from
	// the endianness marker. Every multi-byte read below the header
	// uses it.
	Order binary.ByteOrder
}

// decodeHeader reads the preamble and establishes the byte order for the
// rest of the decode.
func decodeHeader(data []byte) (Header, error) {
	if len(data) < headerSize {
		return Header{}, fmt.Errorf("%w: %d byte header, need %d", ErrTruncated, len(data), headerSize)
	}
	var h Header
	copy(h.Text[:], data[:116])
	switch {
	case binary.LittleEndian.Uint16(data[126:128]) == endianMark:
		h.Order = binary.LittleEndian
	case binary.BigEndian.Uint16(data[126:128]) == endianMark:
		h.Order = binary.BigEndian
	default:
		return Header{}, fmt.Errorf("%w: endianness marker %q", ErrCorruptStream, data[126:128])
	}
	h.SubsysOffset = h.Order.Uint64(data[116:124])
	h.Version = h.Order.Uint16(data[124:126])
	return h, nil
}

// Description returns the header text with trailing NULs and padding
// spaces removed.
func (h *Header) Description() string {
	return strings.TrimRight(string(h.Text[:]), "\x00 ")
}

// HasSubsystem reports whether the file declares subsystem data.
func (h *Header) HasSubsystem() bool {
	return h.SubsysOffset != 0 && h.SubsysOffset != blankSubsys
}
