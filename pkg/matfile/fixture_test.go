package matfile

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/klauspost/compress/zlib"
)

// matBuilder assembles MAT-file images for tests in either byte order.
type matBuilder struct {
	order binary.ByteOrder
	buf   bytes.Buffer
}

func newBuilder(order binary.ByteOrder) *matBuilder {
	return &matBuilder{order: order}
}

// header appends a minimal 128-byte preamble.
func (b *matBuilder) header(desc string) *matBuilder {
	return b.headerFull(desc, 0, 0x0100)
}

func (b *matBuilder) headerFull(desc string, subsys uint64, version uint16) *matBuilder {
	var h [headerSize]byte
	copy(h[:116], desc)
	b.order.PutUint64(h[116:124], subsys)
	b.order.PutUint16(h[124:126], version)
	b.order.PutUint16(h[126:128], endianMark)
	b.buf.Write(h[:])
	return b
}

func (b *matBuilder) largeTag(typ DataType, size uint32) *matBuilder {
	var t [tagSize]byte
	b.order.PutUint32(t[0:4], uint32(typ))
	b.order.PutUint32(t[4:8], size)
	b.buf.Write(t[:])
	return b
}

// small appends one small-encoded element, payload inlined in the tag.
func (b *matBuilder) small(typ DataType, payload []byte) *matBuilder {
	var t [tagSize]byte
	b.order.PutUint16(t[0:2], uint16(len(payload)))
	b.order.PutUint16(t[2:4], uint16(typ))
	copy(t[4:], payload)
	b.buf.Write(t[:])
	return b
}

// raw appends one large element, payload padded to 8 bytes.
func (b *matBuilder) raw(typ DataType, payload []byte) *matBuilder {
	b.largeTag(typ, uint32(len(payload)))
	b.buf.Write(payload)
	for n := len(payload); n%8 != 0; n++ {
		b.buf.WriteByte(0)
	}
	return b
}

// matrix appends one matrix element wrapping body.
func (b *matBuilder) matrix(body []byte) *matBuilder {
	return b.raw(TypeMatrix, body)
}

// compressed appends one compressed element wrapping the given inner
// element bytes. Compressed spans are never padded.
func (b *matBuilder) compressed(inner []byte) *matBuilder {
	z := deflate(inner)
	b.largeTag(TypeCompressed, uint32(len(z)))
	b.buf.Write(z)
	return b
}

func (b *matBuilder) bytes() []byte {
	return b.buf.Bytes()
}

// deflate compresses raw into a single zlib unit.
func deflate(raw []byte) []byte {
	var z bytes.Buffer
	zw := zlib.NewWriter(&z)
	if _, err := zw.Write(raw); err != nil {
		panic(err)
	}
	if err := zw.Close(); err != nil {
		panic(err)
	}
	return z.Bytes()
}

// element returns one large element's bytes without trailing padding,
// the form expected inside a compressed span.
func element(order binary.ByteOrder, typ DataType, payload []byte) []byte {
	b := newBuilder(order)
	b.largeTag(typ, uint32(len(payload)))
	b.buf.Write(payload)
	return b.bytes()
}

type bodyPart struct {
	typ  DataType
	data []byte
}

// matrixBody builds a matrix element body: flags, dims and name
// sub-elements padded to 8 bytes, then the numeric parts unpadded.
func matrixBody(order binary.ByteOrder, flags uint64, dims []int32, name string, parts ...bodyPart) []byte {
	b := newBuilder(order)

	var fl [8]byte
	order.PutUint64(fl[:], flags)
	b.raw(TypeUint32, fl[:])

	db := make([]byte, 4*len(dims))
	for i, d := range dims {
		order.PutUint32(db[4*i:], uint32(d))
	}
	b.raw(TypeInt32, db)

	b.raw(TypeInt8, []byte(name))

	for _, p := range parts {
		b.largeTag(p.typ, uint32(len(p.data)))
		b.buf.Write(p.data)
	}
	return b.bytes()
}

func doubleBytes(order binary.ByteOrder, vals ...float64) []byte {
	out := make([]byte, 8*len(vals))
	for i, v := range vals {
		order.PutUint64(out[8*i:], math.Float64bits(v))
	}
	return out
}

// hilbertFile builds the canonical single-variable fixture: a 2x2
// double named "hilbert".
func hilbertFile(order binary.ByteOrder) []byte {
	body := matrixBody(order, uint64(ClassDouble), []int32{2, 2}, "hilbert",
		bodyPart{TypeDouble, doubleBytes(order, 1, 0.5, 0.5, 1.0/3.0)})
	return newBuilder(order).header("test file").matrix(body).bytes()
}
