// Package types describes the element types a segarr declaration may use.
package types

import (
	"fmt"
	"math"
)

type Kind int

const (
	IntKind Kind = iota
	FloatKind
	StrKind
	BoolKind
	ArrayKind
)

// Type is the interface for all element types.
type Type interface {
	String() string
	Kind() Kind
}

// Int is a signed or unsigned integer of the given bit width. Plain marks
// Go's int and uint, which are treated as 64 bits wide.
type Int struct {
	Width    uint32 // 8, 16, 32, 64
	Unsigned bool
	Plain    bool
}

func (i Int) String() string {
	name := "int"
	if i.Unsigned {
		name = "uint"
	}
	if i.Plain {
		return name
	}
	return fmt.Sprintf("%s%d", name, i.Width)
}

func (i Int) Kind() Kind {
	return IntKind
}

// MinInt and MaxInt are the bounds of a signed Int.
func (i Int) MinInt() int64 {
	return -1 << (i.Width - 1)
}

func (i Int) MaxInt() int64 {
	return 1<<(i.Width-1) - 1
}

// MaxUint is the upper bound of an unsigned Int.
func (i Int) MaxUint() uint64 {
	if i.Width == 64 {
		return math.MaxUint64
	}
	return 1<<i.Width - 1
}

// Float represents a floating-point type with a given precision.
type Float struct {
	Width uint32 // 32, 64
}

func (f Float) String() string {
	return fmt.Sprintf("float%d", f.Width)
}

func (f Float) Kind() Kind {
	return FloatKind
}

type Str struct{}

func (s Str) String() string { return "string" }
func (s Str) Kind() Kind     { return StrKind }

type Bool struct{}

func (b Bool) String() string { return "bool" }
func (b Bool) Kind() Kind     { return BoolKind }

// Array is a fixed-size array element type such as [2]int.
type Array struct {
	Len  int
	Elem Type
}

func (a Array) String() string {
	return fmt.Sprintf("[%d]%s", a.Len, a.Elem.String())
}

func (a Array) Kind() Kind { return ArrayKind }

var (
	I8      Type = Int{Width: 8}
	I16     Type = Int{Width: 16}
	I32     Type = Int{Width: 32}
	I64     Type = Int{Width: 64}
	IntType Type = Int{Width: 64, Plain: true}
	U8      Type = Int{Width: 8, Unsigned: true}
	U16     Type = Int{Width: 16, Unsigned: true}
	U32     Type = Int{Width: 32, Unsigned: true}
	U64     Type = Int{Width: 64, Unsigned: true}
	Uint    Type = Int{Width: 64, Unsigned: true, Plain: true}
	F32     Type = Float{Width: 32}
	F64     Type = Float{Width: 64}
)

var named = map[string]Type{
	"int":     IntType,
	"int8":    I8,
	"int16":   I16,
	"int32":   I32,
	"int64":   I64,
	"uint":    Uint,
	"uint8":   U8,
	"uint16":  U16,
	"uint32":  U32,
	"uint64":  U64,
	"byte":    U8,
	"rune":    I32,
	"float32": F32,
	"float64": F64,
	"string":  Str{},
	"bool":    Bool{},
}

// Lookup resolves a type name. byte and rune resolve to uint8 and int32.
func Lookup(name string) (Type, bool) {
	t, ok := named[name]
	return t, ok
}

// Equal performs structural equality on types with a dispatcher by Kind.
func Equal(a, b Type) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch a.Kind() {
	case IntKind:
		return a.(Int) == b.(Int)
	case FloatKind:
		return a.(Float).Width == b.(Float).Width
	case StrKind, BoolKind:
		return true
	case ArrayKind:
		aa, ba := a.(Array), b.(Array)
		return aa.Len == ba.Len && Equal(aa.Elem, ba.Elem)
	default:
		panic(fmt.Sprintf("Equal: unhandled kind %v", a.Kind()))
	}
}

// Scalar returns the innermost non-array element type of t.
func Scalar(t Type) Type {
	for t.Kind() == ArrayKind {
		t = t.(Array).Elem
	}
	return t
}
