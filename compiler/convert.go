package compiler

import (
	"fmt"
	"math"

	"github.com/thiremani/segarr/ast"
	"github.com/thiremani/segarr/types"
)

// convert evaluates expr as a constant of type t. Integers widen to floats
// and characters to integers; floats never narrow to integers.
func (c *Compiler) convert(t types.Type, expr ast.Expression) (Value, error) {
	switch t := t.(type) {
	case types.Int:
		return c.convertInt(t, expr)
	case types.Float:
		return c.convertFloat(t, expr)
	case types.Str:
		if sl, ok := expr.(*ast.StringLiteral); ok {
			return Str{V: sl.Value}, nil
		}
		return nil, fmt.Errorf("cannot use %s as string", expr)
	case types.Bool:
		if id, ok := expr.(*ast.Identifier); ok && (id.Value == "true" || id.Value == "false") {
			return Bool{V: id.Value == "true"}, nil
		}
		return nil, fmt.Errorf("cannot use %s as bool", expr)
	case types.Array:
		return c.convertArray(t, expr)
	}
	return nil, fmt.Errorf("unsupported element type %s", t)
}

func (c *Compiler) convertInt(t types.Int, expr ast.Expression) (Value, error) {
	v, err := c.foldInt(expr)
	if err != nil {
		return nil, err
	}

	if t.Unsigned {
		if v.Sign() < 0 || v.BitLen() > int(t.Width) {
			return nil, fmt.Errorf("constant %s overflows %s", v, t)
		}
		return Uint{T: t, V: v.Uint64()}, nil
	}
	if !v.IsInt64() || v.Int64() < t.MinInt() || v.Int64() > t.MaxInt() {
		return nil, fmt.Errorf("constant %s overflows %s", v, t)
	}
	return Int{T: t, V: v.Int64()}, nil
}

func (c *Compiler) convertFloat(t types.Float, expr ast.Expression) (Value, error) {
	f, err := c.foldFloat(expr)
	if err != nil {
		return nil, err
	}

	limit := math.MaxFloat64
	if t.Width == 32 {
		limit = math.MaxFloat32
	}
	if math.IsInf(f, 0) || math.IsNaN(f) || math.Abs(f) > limit {
		return nil, fmt.Errorf("constant %s overflows %s", expr, t)
	}
	if t.Width == 32 {
		f = float64(float32(f))
	}
	return Float{T: t, V: f}, nil
}

// convertArray builds an array element from a list literal of exactly the
// right length, a declared array of the same type, or an inline array(...).
func (c *Compiler) convertArray(t types.Array, expr ast.Expression) (Value, error) {
	switch e := expr.(type) {
	case *ast.ListLiteral:
		if len(e.Elems) != t.Len {
			return nil, fmt.Errorf("%s has %d elements, want %d for %s", e, len(e.Elems), t.Len, t)
		}
		elems := make([]Value, len(e.Elems))
		for i, x := range e.Elems {
			v, err := c.convert(t.Elem, x)
			if err != nil {
				return nil, c.at(x.Tok(), err)
			}
			elems[i] = v
		}
		return Array{T: t, Elems: elems}, nil

	case *ast.Identifier:
		res, err := c.lookup(e)
		if err != nil {
			return nil, err
		}
		if !types.Equal(res.Type, t) {
			return nil, fmt.Errorf("cannot use %s (%s) as %s", e.Value, res.Type, t)
		}
		return Array{T: t, Elems: res.Values}, nil

	case *ast.NestedArray:
		elem, vals, err := c.evalNested(e)
		if err != nil {
			return nil, err
		}
		got := types.Array{Len: len(vals), Elem: elem}
		if !types.Equal(got, t) {
			return nil, fmt.Errorf("cannot use %s (%s) as %s", e, got, t)
		}
		return Array{T: t, Elems: vals}, nil
	}
	return nil, fmt.Errorf("cannot use %s as %s", expr, t)
}

// cycleSource resolves the source of a cycle clause to values of type elem.
func (c *Compiler) cycleSource(elem types.Type, expr ast.Expression) ([]Value, error) {
	switch e := expr.(type) {
	case *ast.ListLiteral:
		vals := make([]Value, len(e.Elems))
		for i, x := range e.Elems {
			v, err := c.convert(elem, x)
			if err != nil {
				return nil, c.at(x.Tok(), err)
			}
			vals[i] = v
		}
		return vals, nil

	case *ast.Identifier:
		res, err := c.lookup(e)
		if err != nil {
			return nil, err
		}
		if !types.Equal(res.Type.Elem, elem) {
			return nil, fmt.Errorf("cannot cycle %s (%s) into %s elements", e.Value, res.Type, elem)
		}
		return res.Values, nil

	case *ast.NestedArray:
		got, vals, err := c.evalNested(e)
		if err != nil {
			return nil, err
		}
		if !types.Equal(got, elem) {
			return nil, fmt.Errorf("cannot cycle %s elements into %s elements", got, elem)
		}
		return vals, nil
	}
	return nil, fmt.Errorf("cycle source %s must be a list, a declared array or array(...)", expr)
}
