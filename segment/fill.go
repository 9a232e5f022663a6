package segment

import "fmt"

// Fill runs the fill pass: it writes every slot of an n-slot buffer exactly
// once, segment by segment, and returns the finished values. n must be the
// result of Length for the same segments; any disagreement aborts with
// ErrOverrun or ErrMismatch and no values are returned.
func Fill[E any](segs []Segment[E], n int) ([]E, error) {
	if err := Validate(segs); err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: length %d", ErrNegative, n)
	}

	buf := NewBuffer[E](n)
	for i, s := range segs {
		if err := fillSegment(buf, s); err != nil {
			return nil, &SegmentError{Index: i, Kind: s.kind, Err: err}
		}
	}
	return buf.Finish()
}

func fillSegment[E any](buf *Buffer[E], s Segment[E]) error {
	switch s.kind {
	case Literal, CycleAll:
		for _, x := range s.elems {
			if err := buf.Write(x); err != nil {
				return err
			}
		}

	case RepeatCount:
		for range s.n {
			if err := buf.Write(s.elem); err != nil {
				return err
			}
		}

	case RepeatToIndex:
		for buf.Cursor() < s.n {
			if err := buf.Write(s.elem); err != nil {
				return err
			}
		}

	case CycleCount:
		k := len(s.elems)
		total := k * s.n
		cycle := 0
		for range total {
			if err := buf.Write(s.elems[cycle]); err != nil {
				return err
			}
			cycle++
			if cycle == k {
				cycle = 0
			}
		}

	case CycleToIndex:
		// the cycle restarts at src[0] where this segment starts, not at
		// the absolute index
		k := len(s.elems)
		cycle := 0
		for buf.Cursor() < s.n {
			if err := buf.Write(s.elems[cycle]); err != nil {
				return err
			}
			cycle++
			if cycle == k {
				cycle = 0
			}
		}

	default:
		return ErrUnknownKind
	}
	return nil
}

// Eval validates segs, infers their length and fills the result. Each call
// owns its buffer and limit; concurrent calls share nothing.
func Eval[E any](segs []Segment[E], opts ...Option) ([]E, error) {
	n, err := Length(segs, opts...)
	if err != nil {
		return nil, err
	}
	return Fill(segs, n)
}

// MustEval is Eval for segment lists known to be well formed, such as
// package-level tables. It panics on error.
func MustEval[E any](segs ...Segment[E]) []E {
	vals, err := Eval(segs)
	if err != nil {
		panic(err)
	}
	return vals
}
