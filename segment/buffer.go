package segment

import (
	"fmt"
	"math/bits"
)

// Buffer is the output of the fill pass while it is being written. Slots
// start unwritten and are written in order through a single cursor. A slot
// can only be read after it was written, and the backing slice is released
// by Finish only when every slot has been written exactly once.
type Buffer[E any] struct {
	slots   []E
	written []uint64 // one bit per slot
	cursor  int
}

func NewBuffer[E any](n int) *Buffer[E] {
	return &Buffer[E]{
		slots:   make([]E, n),
		written: make([]uint64, (n+63)/64),
	}
}

// Len is the number of slots in the buffer.
func (b *Buffer[E]) Len() int {
	return len(b.slots)
}

// Cursor is the index of the next slot to write.
func (b *Buffer[E]) Cursor() int {
	return b.cursor
}

// Write stores v at the cursor and advances it.
func (b *Buffer[E]) Write(v E) error {
	i := b.cursor
	if i >= len(b.slots) {
		return fmt.Errorf("%w: slot %d of %d", ErrOverrun, i, len(b.slots))
	}
	word, bit := i/64, uint64(1)<<(i%64)
	if b.written[word]&bit != 0 {
		return fmt.Errorf("%w: slot %d written twice", ErrMismatch, i)
	}
	b.written[word] |= bit
	b.slots[i] = v
	b.cursor++
	return nil
}

// At returns slot i if it has been written.
func (b *Buffer[E]) At(i int) (E, bool) {
	var zero E
	if i < 0 || i >= len(b.slots) {
		return zero, false
	}
	if b.written[i/64]&(uint64(1)<<(i%64)) == 0 {
		return zero, false
	}
	return b.slots[i], true
}

// Finish checks the fill post-condition and hands over the slots. The buffer
// must not be used afterwards.
func (b *Buffer[E]) Finish() ([]E, error) {
	if b.cursor != len(b.slots) {
		return nil, fmt.Errorf("%w: wrote %d of %d slots", ErrMismatch, b.cursor, len(b.slots))
	}
	count := 0
	for _, w := range b.written {
		count += bits.OnesCount64(w)
	}
	if count != len(b.slots) {
		return nil, fmt.Errorf("%w: %d of %d slots written", ErrMismatch, count, len(b.slots))
	}
	out := b.slots
	b.slots, b.written = nil, nil
	return out, nil
}
