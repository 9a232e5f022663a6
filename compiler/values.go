package compiler

import (
	"strconv"
	"strings"

	"github.com/thiremani/segarr/types"
)

// Value is one evaluated element. String renders it as a Go literal and
// Native returns the plain Go value for encoding.
type Value interface {
	Type() types.Type
	String() string
	Native() any
}

type Int struct {
	T types.Int
	V int64
}

func (i Int) Type() types.Type { return i.T }
func (i Int) String() string   { return strconv.FormatInt(i.V, 10) }
func (i Int) Native() any      { return i.V }

type Uint struct {
	T types.Int
	V uint64
}

func (u Uint) Type() types.Type { return u.T }
func (u Uint) String() string   { return strconv.FormatUint(u.V, 10) }
func (u Uint) Native() any      { return u.V }

type Float struct {
	T types.Float
	V float64
}

func (f Float) Type() types.Type { return f.T }

func (f Float) Native() any {
	if f.T.Width == 32 {
		return float32(f.V)
	}
	return f.V
}

// String always yields a float literal, so 2 renders as 2.0.
func (f Float) String() string {
	s := strconv.FormatFloat(f.V, 'g', -1, int(f.T.Width))
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

type Str struct {
	V string
}

func (s Str) Type() types.Type { return types.Str{} }
func (s Str) String() string   { return strconv.Quote(s.V) }
func (s Str) Native() any      { return s.V }

type Bool struct {
	V bool
}

func (b Bool) Type() types.Type { return types.Bool{} }
func (b Bool) String() string   { return strconv.FormatBool(b.V) }
func (b Bool) Native() any      { return b.V }

// Array is a fixed-size array element, e.g. one row of a [N][2]int table.
type Array struct {
	T     types.Array
	Elems []Value
}

func (a Array) Type() types.Type { return a.T }

// String renders the elements as an untyped composite literal, which Go
// accepts for elements of an array literal.
func (a Array) String() string {
	return "{" + joinValues(a.Elems) + "}"
}

func (a Array) Native() any {
	out := make([]any, len(a.Elems))
	for i, e := range a.Elems {
		out[i] = e.Native()
	}
	return out
}

func joinValues(vals []Value) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = v.String()
	}
	return strings.Join(parts, ", ")
}

// Natives converts evaluated values for encoding.
func Natives(vals []Value) []any {
	out := make([]any, len(vals))
	for i, v := range vals {
		out[i] = v.Native()
	}
	return out
}
