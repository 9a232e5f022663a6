// Package compiler evaluates parsed segarr declarations into constant
// arrays and emits them as Go source or LLVM IR.
package compiler

import (
	"errors"
	"fmt"

	"github.com/thiremani/segarr/ast"
	"github.com/thiremani/segarr/segment"
	"github.com/thiremani/segarr/token"
	"github.com/thiremani/segarr/types"
)

// Result is one evaluated declaration.
type Result struct {
	Name   string
	Token  token.Token
	Type   types.Array
	Values []Value
}

// Unit holds every declaration of a compilation in source order.
type Unit struct {
	Results []*Result
}

func (u *Unit) Lookup(name string) (*Result, bool) {
	for _, r := range u.Results {
		if r.Name == name {
			return r, true
		}
	}
	return nil, false
}

type Compiler struct {
	// MaxLen limits every array this compiler evaluates. Zero means
	// segment.DefaultMaxLen.
	MaxLen   int
	Scope    *Scope[*Result]
	Errors   []*token.CompileError
	declared map[string]*ast.Decl
	failed   map[string]bool
	current  string // declaration being evaluated
}

func NewCompiler() *Compiler {
	return &Compiler{
		Scope:    NewScope[*Result](),
		Errors:   []*token.CompileError{},
		declared: make(map[string]*ast.Decl),
		failed:   make(map[string]bool),
	}
}

// Compile evaluates the declarations of files in order. A declaration may
// only reference declarations before it, in its own file or an earlier one.
// Declarations with errors are left out of the unit.
func Compile(files []*ast.File) (*Unit, []*token.CompileError) {
	return NewCompiler().Compile(files)
}

// Compile is the package level Compile using c's settings.
func (c *Compiler) Compile(files []*ast.File) (*Unit, []*token.CompileError) {
	for _, f := range files {
		for _, d := range f.Decls {
			if prev, ok := c.declared[d.Name.Value]; ok {
				c.addError(d.Token, "redeclaration of %s (previous declaration at %s:%d:%d)",
					d.Name.Value, prev.Token.FileName, prev.Token.Line, prev.Token.Column)
				continue
			}
			c.declared[d.Name.Value] = d
		}
	}

	for _, f := range files {
		for _, d := range f.Decls {
			if c.declared[d.Name.Value] != d {
				continue
			}
			c.compileDecl(d)
		}
	}
	return &Unit{Results: c.Scope.Ordered()}, c.Errors
}

func (c *Compiler) compileDecl(d *ast.Decl) {
	c.current = d.Name.Value
	defer func() { c.current = "" }()

	elem, err := c.resolveType(d.Type)
	if err != nil {
		c.failed[d.Name.Value] = true
		c.report(d.Type.Tok(), err)
		return
	}

	vals, err := c.evalClauses(elem, d.Clauses)
	if err != nil {
		c.failed[d.Name.Value] = true
		c.report(d.Token, err)
		return
	}

	c.Scope.Put(d.Name.Value, &Result{
		Name:   d.Name.Value,
		Token:  d.Token,
		Type:   types.Array{Len: len(vals), Elem: elem},
		Values: vals,
	})
}

// evalClauses turns clauses into segments and evaluates them.
func (c *Compiler) evalClauses(elem types.Type, clauses []ast.Clause) ([]Value, error) {
	segs := make([]segment.Segment[Value], 0, len(clauses))
	for _, cl := range clauses {
		seg, err := c.buildSegment(elem, cl)
		if err != nil {
			return nil, c.at(cl.Tok(), err)
		}
		segs = append(segs, seg)
	}

	vals, err := segment.Eval(segs, segment.WithMaxLen(c.MaxLen))
	if err != nil {
		var se *segment.SegmentError
		if errors.As(err, &se) && se.Index >= 0 && se.Index < len(clauses) {
			return nil, c.at(clauses[se.Index].Tok(), err)
		}
		return nil, err
	}
	return vals, nil
}

func (c *Compiler) buildSegment(elem types.Type, cl ast.Clause) (segment.Segment[Value], error) {
	var zero segment.Segment[Value]

	switch cl := cl.(type) {
	case *ast.ListClause:
		vals := make([]Value, len(cl.Elems))
		for i, x := range cl.Elems {
			v, err := c.convert(elem, x)
			if err != nil {
				return zero, c.at(x.Tok(), err)
			}
			vals[i] = v
		}
		return segment.NewLiteral(vals...), nil

	case *ast.RepeatClause:
		v, err := c.convert(elem, cl.Elem)
		if err != nil {
			return zero, c.at(cl.Elem.Tok(), err)
		}
		n, err := c.foldCount(cl.Count)
		if err != nil {
			return zero, c.at(cl.Count.Tok(), err)
		}
		if cl.ToIndex {
			return segment.NewRepeatToIndex(v, n), nil
		}
		return segment.NewRepeatCount(v, n), nil

	case *ast.CycleClause:
		src, err := c.cycleSource(elem, cl.Source)
		if err != nil {
			return zero, c.at(cl.Source.Tok(), err)
		}
		if cl.Count == nil {
			return segment.NewCycleAll(src), nil
		}
		n, err := c.foldCount(cl.Count)
		if err != nil {
			return zero, c.at(cl.Count.Tok(), err)
		}
		if cl.ToIndex {
			return segment.NewCycleToIndex(src, n), nil
		}
		return segment.NewCycleCount(src, n), nil
	}
	return zero, fmt.Errorf("unknown clause %T", cl)
}

// evalNested evaluates array(T, clauses) and returns its element type.
func (c *Compiler) evalNested(na *ast.NestedArray) (types.Type, []Value, error) {
	elem, err := c.resolveType(na.Type)
	if err != nil {
		return nil, nil, c.at(na.Type.Tok(), err)
	}
	vals, err := c.evalClauses(elem, na.Clauses)
	if err != nil {
		return nil, nil, c.at(na.Token, err)
	}
	return elem, vals, nil
}

func (c *Compiler) resolveType(te ast.TypeExpr) (types.Type, error) {
	switch te := te.(type) {
	case *ast.NamedType:
		if t, ok := types.Lookup(te.Name); ok {
			return t, nil
		}
		return nil, c.at(te.Token, fmt.Errorf("unknown type %s", te.Name))
	case *ast.ArrayType:
		n, err := c.foldCount(te.Len)
		if err != nil {
			return nil, c.at(te.Len.Tok(), err)
		}
		if n < 0 {
			return nil, c.at(te.Len.Tok(), fmt.Errorf("negative array length %d", n))
		}
		elem, err := c.resolveType(te.Elem)
		if err != nil {
			return nil, err
		}
		return types.Array{Len: n, Elem: elem}, nil
	}
	return nil, fmt.Errorf("unknown type expression %s", te)
}

// lookup resolves a reference to an earlier declaration.
func (c *Compiler) lookup(id *ast.Identifier) (*Result, error) {
	if res, ok := c.Scope.Get(id.Value); ok {
		return res, nil
	}
	if id.Value == c.current {
		return nil, c.at(id.Token, fmt.Errorf("%s refers to itself", id.Value))
	}
	if c.failed[id.Value] {
		return nil, c.at(id.Token, fmt.Errorf("%s has errors", id.Value))
	}
	if d, ok := c.declared[id.Value]; ok {
		return nil, c.at(id.Token, fmt.Errorf("%s is used before its declaration at %s:%d:%d",
			id.Value, d.Token.FileName, d.Token.Line, d.Token.Column))
	}
	return nil, c.at(id.Token, fmt.Errorf("undefined: %s", id.Value))
}

// at anchors err at tok unless it already carries a position.
func (c *Compiler) at(tok token.Token, err error) error {
	var ce *token.CompileError
	if errors.As(err, &ce) {
		return err
	}
	return &token.CompileError{Token: tok, Msg: err.Error()}
}

func (c *Compiler) report(tok token.Token, err error) {
	var ce *token.CompileError
	if !errors.As(c.at(tok, err), &ce) {
		return
	}
	c.Errors = append(c.Errors, ce)
}

func (c *Compiler) addError(tok token.Token, format string, args ...any) {
	c.Errors = append(c.Errors, &token.CompileError{
		Token: tok,
		Msg:   fmt.Sprintf(format, args...),
	})
}
