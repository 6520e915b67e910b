// Package tape provides the growable append-only buffers pkg/matfile uses
// as decode workspace.
package tape

// A Tape is a contiguous growable buffer with monotonic append, bounded
// pop and a terminal Purge that hands the storage to the caller.
//
// Growth relocates the backing array, so Push returns the offset of the
// reserved region rather than a slice. Callers derive views with Slice
// and must not retain one across a Push.
type Tape[T any] struct {
	buf  []T
	dead bool
}

// New returns a Tape with room for capacity items before the first grow.
func New[T any](capacity int) *Tape[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &Tape[T]{buf: make([]T, 0, capacity)}
}

// Len reports the number of items currently on the tape.
func (t *Tape[T]) Len() int {
	t.check()
	return len(t.buf)
}

// Push reserves space for n more items and returns the offset of the
// first reserved slot. The backing store at least doubles when it grows.
func (t *Tape[T]) Push(n int) int {
	t.check()
	if n < 0 {
		panic("tape: negative push")
	}
	off := len(t.buf)
	need := off + n
	if need > cap(t.buf) {
		newCap := 2 * cap(t.buf)
		if newCap < need {
			newCap = need
		}
		grown := make([]T, off, newCap)
		copy(grown, t.buf)
		t.buf = grown
	}
	t.buf = t.buf[:need]
	return off
}

// Pop discards the last n items, saturating at zero.
func (t *Tape[T]) Pop(n int) {
	t.check()
	if n < 0 {
		panic("tape: negative pop")
	}
	if n > len(t.buf) {
		n = len(t.buf)
	}
	t.buf = t.buf[:len(t.buf)-n]
}

// Slice returns a view of n items starting at off, valid until the next
// Push.
func (t *Tape[T]) Slice(off, n int) []T {
	t.check()
	return t.buf[off : off+n]
}

// Append copies vals onto the end of the tape.
func (t *Tape[T]) Append(vals ...T) {
	off := t.Push(len(vals))
	copy(t.buf[off:], vals)
}

// Purge shrinks the storage to the logical length, transfers it to the
// caller and kills the tape. Any further use of the tape panics.
func (t *Tape[T]) Purge() []T {
	t.check()
	out := t.buf
	if len(out) < cap(out) {
		out = make([]T, len(t.buf))
		copy(out, t.buf)
	}
	t.buf = nil
	t.dead = true
	return out
}

func (t *Tape[T]) check() {
	if t.dead {
		panic("tape: use after purge")
	}
}
