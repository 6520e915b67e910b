package matfile

import "errors"

var (
	// ErrTruncated reports a declared size that runs past the end of the
	// input, or a source shorter than the 128-byte header.
	ErrTruncated = errors.New("truncated MAT-file")

	// ErrCorruptStream reports structural damage: a tag type out of
	// range, sub-elements out of order, trailing bytes inside a matrix
	// body, a broken compressed stream or a bad endianness marker.
	ErrCorruptStream = errors.New("corrupt MAT-file stream")

	// ErrUnsupportedClass reports a structural array class (cell,
	// struct, object, char, sparse) that the decoder rejects outright.
	ErrUnsupportedClass = errors.New("unsupported MAT-file array class")

	// ErrSizeMismatch reports a numeric part whose declared size
	// disagrees with the size derived from the dimensions.
	ErrSizeMismatch = errors.New("MAT-file element size mismatch")

	// ErrTooLarge reports a declared size that cannot be satisfied by a
	// sane allocation.
	ErrTooLarge = errors.New("MAT-file element too large")

	// ErrVariableNotFound reports a lookup for a variable the container
	// does not hold.
	ErrVariableNotFound = errors.New("variable not found")

	// ErrTypeMismatch reports a typed accessor called on a numeric part
	// holding a different element type.
	ErrTypeMismatch = errors.New("numeric type mismatch")
)
