package ast

import (
	"bytes"
	"strings"

	"github.com/thiremani/segarr/token"
)

// The base Node interface
type Node interface {
	Tok() token.Token
	String() string
}

// All expression nodes implement this
type Expression interface {
	Node
	expressionNode()
}

// TypeExpr is an element type: a named type or a fixed-size array of one.
type TypeExpr interface {
	Node
	typeNode()
}

// Clause is one bracketed segment of a declaration.
type Clause interface {
	Node
	clauseNode()
}

// File is a parsed .seg file.
type File struct {
	Name  string
	Decls []*Decl
}

func (f *File) Tok() token.Token {
	if len(f.Decls) > 0 {
		return f.Decls[0].Tok()
	}
	return token.Token{Type: token.EOF, FileName: f.Name}
}

func (f *File) String() string {
	var out bytes.Buffer
	for _, d := range f.Decls {
		out.WriteString(d.String())
		out.WriteString("\n")
	}
	return out.String()
}

// Decl declares one array: Name = Type clause, clause, ...
type Decl struct {
	Token   token.Token // the name token
	Name    *Identifier
	Type    TypeExpr
	Clauses []Clause
}

func (d *Decl) Tok() token.Token { return d.Token }
func (d *Decl) String() string {
	var out bytes.Buffer
	out.WriteString(d.Name.String())
	out.WriteString(" = ")
	out.WriteString(d.Type.String())
	if len(d.Clauses) > 0 {
		out.WriteString(" ")
		out.WriteString(joinNodes(d.Clauses))
	}
	return out.String()
}

// Types
type NamedType struct {
	Token token.Token
	Name  string
}

func (nt *NamedType) typeNode()        {}
func (nt *NamedType) Tok() token.Token { return nt.Token }
func (nt *NamedType) String() string   { return nt.Name }

type ArrayType struct {
	Token token.Token // the [ token
	Len   Expression
	Elem  TypeExpr
}

func (at *ArrayType) typeNode()        {}
func (at *ArrayType) Tok() token.Token { return at.Token }
func (at *ArrayType) String() string {
	return "[" + at.Len.String() + "]" + at.Elem.String()
}

// Clauses

// ListClause is [a, b, c]: the values verbatim.
type ListClause struct {
	Token token.Token // the [ token
	Elems []Expression
}

func (lc *ListClause) clauseNode()      {}
func (lc *ListClause) Tok() token.Token { return lc.Token }
func (lc *ListClause) String() string   { return "[" + joinNodes(lc.Elems) + "]" }

// RepeatClause is [e; n] or, with ToIndex, [e; ..n].
type RepeatClause struct {
	Token   token.Token // the [ token
	Elem    Expression
	Count   Expression
	ToIndex bool
}

func (rc *RepeatClause) clauseNode()      {}
func (rc *RepeatClause) Tok() token.Token { return rc.Token }
func (rc *RepeatClause) String() string {
	return "[" + rc.Elem.String() + "; " + rangePrefix(rc.ToIndex) + rc.Count.String() + "]"
}

// CycleClause is [*src; n], [*src; ..n] or, with a nil Count, [*src].
type CycleClause struct {
	Token   token.Token // the * token
	Source  Expression
	Count   Expression
	ToIndex bool
}

func (cc *CycleClause) clauseNode()      {}
func (cc *CycleClause) Tok() token.Token { return cc.Token }
func (cc *CycleClause) String() string {
	if cc.Count == nil {
		return "[*" + cc.Source.String() + "]"
	}
	return "[*" + cc.Source.String() + "; " + rangePrefix(cc.ToIndex) + cc.Count.String() + "]"
}

// Expressions
type Identifier struct {
	Token token.Token // the token.IDENT token
	Value string
}

func (i *Identifier) expressionNode()  {}
func (i *Identifier) Tok() token.Token { return i.Token }
func (i *Identifier) String() string   { return i.Value }

type IntegerLiteral struct {
	Token token.Token
	Value uint64
}

func (il *IntegerLiteral) expressionNode()  {}
func (il *IntegerLiteral) Tok() token.Token { return il.Token }
func (il *IntegerLiteral) String() string   { return il.Token.Literal }

type FloatLiteral struct {
	Token token.Token
	Value float64
}

func (fl *FloatLiteral) expressionNode()  {}
func (fl *FloatLiteral) Tok() token.Token { return fl.Token }
func (fl *FloatLiteral) String() string   { return fl.Token.Literal }

type StringLiteral struct {
	Token token.Token
	Value string
}

func (sl *StringLiteral) expressionNode()  {}
func (sl *StringLiteral) Tok() token.Token { return sl.Token }
func (sl *StringLiteral) String() string   { return sl.Token.Literal }

type CharLiteral struct {
	Token token.Token
	Value rune
}

func (cl *CharLiteral) expressionNode()  {}
func (cl *CharLiteral) Tok() token.Token { return cl.Token }
func (cl *CharLiteral) String() string   { return cl.Token.Literal }

// ListLiteral is a bracketed value list used as an element or cycle source.
type ListLiteral struct {
	Token token.Token // the [ token
	Elems []Expression
}

func (ll *ListLiteral) expressionNode()  {}
func (ll *ListLiteral) Tok() token.Token { return ll.Token }
func (ll *ListLiteral) String() string   { return "[" + joinNodes(ll.Elems) + "]" }

// NestedArray is an inline evaluation, array(T, clause, clause), usable as
// a cycle source or element.
type NestedArray struct {
	Token   token.Token // the array token
	Type    TypeExpr
	Clauses []Clause
}

func (na *NestedArray) expressionNode()  {}
func (na *NestedArray) Tok() token.Token { return na.Token }
func (na *NestedArray) String() string {
	if len(na.Clauses) == 0 {
		return "array(" + na.Type.String() + ")"
	}
	return "array(" + na.Type.String() + ", " + joinNodes(na.Clauses) + ")"
}

type PrefixExpression struct {
	Token    token.Token // The prefix token, e.g. -
	Operator string
	Right    Expression
}

func (pe *PrefixExpression) expressionNode()  {}
func (pe *PrefixExpression) Tok() token.Token { return pe.Token }
func (pe *PrefixExpression) String() string {
	return "(" + pe.Operator + pe.Right.String() + ")"
}

type InfixExpression struct {
	Token    token.Token // The operator token, e.g. +
	Left     Expression
	Operator string
	Right    Expression
}

func (ie *InfixExpression) expressionNode()  {}
func (ie *InfixExpression) Tok() token.Token { return ie.Token }
func (ie *InfixExpression) String() string {
	var out bytes.Buffer

	out.WriteString("(")
	out.WriteString(ie.Left.String())
	out.WriteString(" " + ie.Operator + " ")
	out.WriteString(ie.Right.String())
	out.WriteString(")")

	return out.String()
}

type CallExpression struct {
	Token     token.Token // The '(' token
	Function  *Identifier
	Arguments []Expression
}

func (ce *CallExpression) expressionNode()  {}
func (ce *CallExpression) Tok() token.Token { return ce.Token }
func (ce *CallExpression) String() string {
	return ce.Function.String() + "(" + joinNodes(ce.Arguments) + ")"
}

func rangePrefix(toIndex bool) string {
	if toIndex {
		return ".."
	}
	return ""
}

func joinNodes[N Node](nodes []N) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = n.String()
	}
	return strings.Join(parts, ", ")
}
