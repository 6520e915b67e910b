// Package matfile reads level 5 MAT-files.
//
// A MAT-file is a self-describing tag-length-value container of named,
// typed, multi-dimensional numeric arrays. The package decodes a whole
// file up front, transparently inflating compressed elements, into a
// File that owns every byte it exposes. Structural array classes (cell,
// struct, object, char, sparse) are rejected, not coerced.
package matfile

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// File is one fully decoded container: the header plus every element of
// the stream in order. All payloads are owned copies; a File never
// aliases the bytes it was decoded from.
type File struct {
	Header   Header
	Elements []Element
}

// Decode parses a complete MAT-file image. On any failure it returns
// (nil, err); a partially decoded container never escapes.
func Decode(data []byte) (*File, error) {
	hdr, err := decodeHeader(data)
	if err != nil {
		return nil, err
	}
	d := decoder{order: hdr.Order}
	elems, err := d.parseElements(data[headerSize:])
	if err != nil {
		return nil, err
	}
	return &File{Header: hdr, Elements: elems}, nil
}

// Open reads and decodes the MAT-file at path. The file is mapped
// read-only while decoding where mmap is available, with a plain read
// fallback; the File holds only copies, so the mapping is released
// before Open returns.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size64 := stat.Size()
	if size64 > int64(int(^uint(0)>>1)) {
		return nil, fmt.Errorf("%w: %d bytes cannot be indexed on this architecture", ErrTooLarge, size64)
	}
	size := int(size64)
	if size < headerSize {
		return nil, fmt.Errorf("%w: %d byte file, header needs %d", ErrTruncated, size, headerSize)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
	if err == nil {
		mf, decodeErr := Decode(data)
		_ = unix.Munmap(data)
		return mf, decodeErr
	}

	data, err = readAllAt(f, size)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// OpenReaderAt reads and decodes a MAT-file from a random-access source
// of known size.
func OpenReaderAt(r io.ReaderAt, size int64) (*File, error) {
	if size < 0 || size > int64(int(^uint(0)>>1)) {
		return nil, fmt.Errorf("%w: source size %d", ErrTooLarge, size)
	}
	data, err := readAllAt(r, int(size))
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

func readAllAt(r io.ReaderAt, size int) ([]byte, error) {
	out := make([]byte, size)
	var off int64
	for off < int64(size) {
		n, err := r.ReadAt(out[off:], off)
		off += int64(n)
		if err == nil {
			continue
		}
		if err == io.EOF {
			if off == int64(size) {
				break
			}
			return nil, fmt.Errorf("%w: source ended at %d of %d bytes", ErrTruncated, off, size)
		}
		return nil, err
	}
	return out, nil
}

// Array returns the decoded variable with the given name.
func (f *File) Array(name string) (*Array, error) {
	for i := range f.Elements {
		if a := f.Elements[i].Array; a != nil && a.Name == name {
			return a, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrVariableNotFound, name)
}

// Who returns the names of every matrix variable in stream order. The
// strings are shared with the decoded arrays, not copied.
func (f *File) Who() []string {
	names := make([]string, 0, len(f.Elements))
	for i := range f.Elements {
		if a := f.Elements[i].Array; a != nil {
			names = append(names, a.Name)
		}
	}
	return names
}

// Close releases the decoded contents as one unit. It is safe on nil
// and on a partially populated File, and may be called more than once.
func (f *File) Close() error {
	if f == nil {
		return nil
	}
	for i := range f.Elements {
		f.Elements[i].Data = nil
		f.Elements[i].Array = nil
	}
	f.Elements = nil
	return nil
}
