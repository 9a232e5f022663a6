package segment

import "fmt"

// DefaultMaxLen bounds the length of a single evaluation unless WithMaxLen
// sets another limit. Length rejects anything larger with ErrTooLong instead
// of letting the accumulator wrap.
const DefaultMaxLen = 1 << 28

// Option configures one evaluation.
type Option func(*options)

type options struct {
	maxLen int
}

// WithMaxLen sets the length limit of an evaluation. A non-positive n keeps
// DefaultMaxLen.
func WithMaxLen(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxLen = n
		}
	}
}

func newOptions(opts []Option) options {
	o := options{maxLen: DefaultMaxLen}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Length runs the length inference pass: the number of slots Fill will write
// for segs. It looks only at counts, targets and payload lengths, never at
// element values.
func Length[E any](segs []Segment[E], opts ...Option) (int, error) {
	if err := Validate(segs); err != nil {
		return 0, err
	}
	limit := newOptions(opts).maxLen

	n := 0
	for i, s := range segs {
		next, ok := n, true
		switch s.kind {
		case Literal, CycleAll:
			next, ok = grow(n, len(s.elems), limit)
		case RepeatCount:
			next, ok = grow(n, s.n, limit)
		case RepeatToIndex, CycleToIndex:
			// absolute target: only ever grows the length
			next = max(n, s.n)
			ok = next <= limit
		case CycleCount:
			k := len(s.elems)
			ok = s.n <= (limit-n)/k
			if ok {
				next = n + k*s.n
			}
		}
		if !ok {
			return 0, &SegmentError{Index: i, Kind: s.kind, Err: fmt.Errorf("%w (%d)", ErrTooLong, limit)}
		}
		n = next
	}
	return n, nil
}

func grow(n, add, limit int) (int, bool) {
	if add > limit-n {
		return 0, false
	}
	return n + add, true
}
