// Command genfixtures writes small MAT-files for manual smoke-testing of
// the matkit CLI and server. Run it with a target directory:
//
//	go run ./scripts -out testdata
package main

import (
	"bytes"
	"encoding/binary"
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zlib"
)

func main() {
	out := flag.String("out", ".", "directory to write fixtures into")
	flag.Parse()

	if err := os.MkdirAll(*out, 0o755); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	fixtures := map[string][]byte{
		"empty.mat":    emptyFile(),
		"hilbert.mat":  hilbertFile(false),
		"zhilbert.mat": hilbertFile(true),
		"complex.mat":  complexFile(),
	}
	for name, data := range fixtures {
		path := filepath.Join(*out, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
		fmt.Printf("wrote %s (%d bytes)\n", path, len(data))
	}
}

const (
	typeInt8   = 1
	typeInt32  = 5
	typeUint32 = 6
	typeDouble = 9
	typeMatrix = 14
	typeCompr  = 15

	classDouble = 6
)

func header(desc string) []byte {
	h := make([]byte, 128)
	copy(h[:116], desc)
	binary.LittleEndian.PutUint16(h[124:126], 0x0100)
	binary.LittleEndian.PutUint16(h[126:128], 0x4d49) // "MI"
	return h
}

// element encodes one large element; padded controls trailing alignment,
// which compressed inner elements must not carry.
func element(typ, size uint32, payload []byte, padded bool) []byte {
	var b bytes.Buffer
	var tag [8]byte
	binary.LittleEndian.PutUint32(tag[0:4], typ)
	binary.LittleEndian.PutUint32(tag[4:8], size)
	b.Write(tag[:])
	b.Write(payload)
	if padded {
		for n := len(payload); n%8 != 0; n++ {
			b.WriteByte(0)
		}
	}
	return b.Bytes()
}

func matrixBody(name string, dims []int32, parts ...[]byte) []byte {
	var b bytes.Buffer

	var flags [8]byte
	binary.LittleEndian.PutUint64(flags[:], classDouble)
	b.Write(element(typeUint32, 8, flags[:], true))

	db := make([]byte, 4*len(dims))
	for i, d := range dims {
		binary.LittleEndian.PutUint32(db[4*i:], uint32(d))
	}
	b.Write(element(typeInt32, uint32(len(db)), db, true))

	b.Write(element(typeInt8, uint32(len(name)), []byte(name), true))

	for _, p := range parts {
		b.Write(element(typeDouble, uint32(len(p)), p, false))
	}
	return b.Bytes()
}

func doubles(vals ...float64) []byte {
	out := make([]byte, 8*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint64(out[8*i:], math.Float64bits(v))
	}
	return out
}

func emptyFile() []byte {
	return header("MATLAB 5.0 MAT-file, written by matkit genfixtures")
}

func hilbertFile(compressed bool) []byte {
	body := matrixBody("hilbert", []int32{2, 2}, doubles(1, 0.5, 0.5, 1.0/3.0))
	matrix := element(typeMatrix, uint32(len(body)), body, !compressed)
	if !compressed {
		return append(header("hilbert fixture"), matrix...)
	}

	var z bytes.Buffer
	zw := zlib.NewWriter(&z)
	if _, err := zw.Write(matrix); err != nil {
		panic(err)
	}
	if err := zw.Close(); err != nil {
		panic(err)
	}
	compr := element(typeCompr, uint32(z.Len()), z.Bytes(), false)
	return append(header("compressed hilbert fixture"), compr...)
}

func complexFile() []byte {
	body := matrixBody("wave", []int32{1, 4},
		doubles(0, 1, 0, -1),
		doubles(1, 0, -1, 0))
	matrix := element(typeMatrix, uint32(len(body)), body, true)
	return append(header("complex fixture"), matrix...)
}
