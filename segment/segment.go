// Package segment evaluates ordered segment lists into fixed-length arrays.
//
// Evaluation runs in two passes over the same segments. Length computes the
// total output size from counts and targets alone; Fill then writes every
// output slot exactly once, left to right. Both passes must agree on how many
// slots each segment occupies.
package segment

import (
	"fmt"
	"strings"
)

// Kind selects how a segment contributes to the output.
type Kind int

const (
	// Literal inserts its elements verbatim.
	Literal Kind = iota
	// RepeatCount inserts one element n times.
	RepeatCount
	// RepeatToIndex inserts one element until the cursor reaches an absolute target.
	RepeatToIndex
	// CycleCount inserts its source concatenated m times.
	CycleCount
	// CycleToIndex inserts source elements cyclically until the cursor reaches a target.
	CycleToIndex
	// CycleAll inserts its source once.
	CycleAll
)

var kindNames = [...]string{
	Literal:       "Literal",
	RepeatCount:   "RepeatCount",
	RepeatToIndex: "RepeatToIndex",
	CycleCount:    "CycleCount",
	CycleToIndex:  "CycleToIndex",
	CycleAll:      "CycleAll",
}

func (k Kind) String() string {
	if 0 <= k && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ToIndex reports whether the segment's n is an absolute target rather than a count.
func (k Kind) ToIndex() bool {
	return k == RepeatToIndex || k == CycleToIndex
}

// Segment is one clause of an array construction. Its payload is fixed at
// construction; neither pass modifies it.
//
// elems holds the Literal values or the cycle source, elem the repeated
// value, and n the count, multiplier or absolute target depending on kind.
type Segment[E any] struct {
	kind  Kind
	elems []E
	elem  E
	n     int
}

// NewLiteral inserts xs verbatim.
func NewLiteral[E any](xs ...E) Segment[E] {
	return Segment[E]{kind: Literal, elems: clone(xs)}
}

// NewRepeatCount inserts e count times.
func NewRepeatCount[E any](e E, count int) Segment[E] {
	return Segment[E]{kind: RepeatCount, elem: e, n: count}
}

// NewRepeatToIndex pads with e up to the absolute position target.
func NewRepeatToIndex[E any](e E, target int) Segment[E] {
	return Segment[E]{kind: RepeatToIndex, elem: e, n: target}
}

// NewCycleCount inserts src concatenated m times.
func NewCycleCount[E any](src []E, m int) Segment[E] {
	return Segment[E]{kind: CycleCount, elems: clone(src), n: m}
}

// NewCycleToIndex cycles src up to the absolute position target.
func NewCycleToIndex[E any](src []E, target int) Segment[E] {
	return Segment[E]{kind: CycleToIndex, elems: clone(src), n: target}
}

// NewCycleAll inserts src once.
func NewCycleAll[E any](src []E) Segment[E] {
	return Segment[E]{kind: CycleAll, elems: clone(src)}
}

// Kind returns the segment's kind.
func (s Segment[E]) Kind() Kind { return s.kind }

// Elems returns a copy of the literal values or cycle source.
func (s Segment[E]) Elems() []E { return clone(s.elems) }

// Elem returns the repeated element of a RepeatCount or RepeatToIndex segment.
func (s Segment[E]) Elem() E { return s.elem }

// N returns the count, multiplier or absolute target.
func (s Segment[E]) N() int { return s.n }

func (s Segment[E]) String() string {
	switch s.kind {
	case Literal:
		return "[" + join(s.elems) + "]"
	case RepeatCount:
		return fmt.Sprintf("[%v; %d]", s.elem, s.n)
	case RepeatToIndex:
		return fmt.Sprintf("[%v; ..%d]", s.elem, s.n)
	case CycleCount:
		return fmt.Sprintf("[*[%s]; %d]", join(s.elems), s.n)
	case CycleToIndex:
		return fmt.Sprintf("[*[%s]; ..%d]", join(s.elems), s.n)
	case CycleAll:
		return fmt.Sprintf("[*[%s]]", join(s.elems))
	}
	return s.kind.String()
}

// Validate reports the first ill-formed segment in segs.
func Validate[E any](segs []Segment[E]) error {
	for i, s := range segs {
		if s.kind < Literal || s.kind > CycleAll {
			return &SegmentError{Index: i, Kind: s.kind, Err: ErrUnknownKind}
		}
		if s.n < 0 {
			return &SegmentError{Index: i, Kind: s.kind, Err: ErrNegative}
		}
		if (s.kind == CycleCount || s.kind == CycleToIndex) && len(s.elems) == 0 {
			return &SegmentError{Index: i, Kind: s.kind, Err: ErrEmptyCycle}
		}
	}
	return nil
}

func clone[E any](xs []E) []E {
	if len(xs) == 0 {
		return nil
	}
	out := make([]E, len(xs))
	copy(out, xs)
	return out
}

func join[E any](xs []E) string {
	var sb strings.Builder
	for i, x := range xs {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%v", x)
	}
	return sb.String()
}
