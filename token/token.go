package token

import (
	"fmt"
	"strconv"
)

type TokenType int

const (
	ILLEGAL TokenType = iota
	EOF
	COMMENT

	literal_beg
	// Identifiers + literals
	IDENT  // ints, table, len, ...
	INT    // 1343456, 0xff, 1_000
	FLOAT  // 123.45
	CHAR   // 'a'
	STRING // "abc"
	literal_end

	operator_beg
	// Operators and delimiters
	ASSIGN // =

	ADD // +
	SUB // -
	MUL // *
	QUO // /
	REM // %

	LPAREN    // (
	LBRACK    // [
	COMMA     // ,
	SEMICOLON // ;
	RANGE     // ..

	RPAREN // )
	RBRACK // ]
	operator_end

	NEWLINE
)

var tokens = [...]string{
	ILLEGAL: "ILLEGAL",

	EOF:     "EOF",
	COMMENT: "COMMENT",

	IDENT:  "IDENT",
	INT:    "INT",
	FLOAT:  "FLOAT",
	CHAR:   "CHAR",
	STRING: "STRING",

	ASSIGN: "=",

	ADD: "+",
	SUB: "-",
	MUL: "*",
	QUO: "/",
	REM: "%",

	LPAREN:    "(",
	LBRACK:    "[",
	COMMA:     ",",
	SEMICOLON: ";",
	RANGE:     "..",

	RPAREN: ")",
	RBRACK: "]",

	NEWLINE: "NEWLINE",
}

type Token struct {
	Type     TokenType
	Literal  string
	FileName string
	Line     int
	Column   int
}

func (t Token) IsLiteral() bool {
	return literal_beg < t.Type && t.Type < literal_end
}

func (t Token) IsOperator() bool {
	return operator_beg < t.Type && t.Type < operator_end
}

func (t Token) String() string {
	return t.Type.String()
}

func (tokenType TokenType) String() string {
	s := ""
	if 0 <= tokenType && tokenType < TokenType(len(tokens)) {
		s = tokens[tokenType]
	}

	if s == "" {
		s = "token(" + strconv.Itoa(int(tokenType)) + ")"
	}

	return s
}

// CompileError is a diagnostic anchored at a source token.
type CompileError struct {
	Token Token
	Msg   string
}

func (ce *CompileError) Error() string {
	return fmt.Sprintf("%s:%d:%d:%s", ce.Token.FileName, ce.Token.Line, ce.Token.Column, ce.Msg)
}
