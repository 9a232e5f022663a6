package parser

import (
	"fmt"

	"github.com/thiremani/segarr/ast"
	"github.com/thiremani/segarr/lexer"
	"github.com/thiremani/segarr/token"
	"github.com/thiremani/segarr/types"
)

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

type Parser struct {
	l      *lexer.Lexer
	errors []*token.CompileError

	curToken  token.Token
	peekToken token.Token

	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn
}

func New(l *lexer.Lexer) *Parser {
	p := &Parser{
		l:      l,
		errors: []*token.CompileError{},
	}

	p.prefixParseFns = make(map[token.TokenType]prefixParseFn)
	p.registerPrefix(token.IDENT, p.parseIdentifier)
	p.registerPrefix(token.INT, p.parseIntegerLiteral)
	p.registerPrefix(token.FLOAT, p.parseFloatLiteral)
	p.registerPrefix(token.STRING, p.parseStringLiteral)
	p.registerPrefix(token.CHAR, p.parseCharLiteral)
	p.registerPrefix(token.SUB, p.parsePrefixExpression)
	p.registerPrefix(token.LPAREN, p.parseGroupedExpression)
	p.registerPrefix(token.LBRACK, p.parseListLiteral)

	p.infixParseFns = make(map[token.TokenType]infixParseFn)
	p.registerInfix(token.ADD, p.parseInfixExpression)
	p.registerInfix(token.SUB, p.parseInfixExpression)
	p.registerInfix(token.MUL, p.parseInfixExpression)
	p.registerInfix(token.QUO, p.parseInfixExpression)
	p.registerInfix(token.REM, p.parseInfixExpression)
	p.registerInfix(token.LPAREN, p.parseCallExpression)

	// Read two tokens, so curToken and peekToken are both set
	p.nextToken()
	p.nextToken()

	return p
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.TokenType) bool {
	return p.peekToken.Type == t
}

func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) Errors() []*token.CompileError {
	return p.errors
}

func (p *Parser) addError(tok token.Token, format string, args ...any) {
	p.errors = append(p.errors, &token.CompileError{
		Token: tok,
		Msg:   fmt.Sprintf(format, args...),
	})
}

func (p *Parser) peekError(t token.TokenType) {
	p.addError(p.peekToken, "expected next token to be %s, got %s instead", t, p.peekToken)
}

func (p *Parser) stmtEnded() bool {
	return p.peekTokenIs(token.NEWLINE) || p.peekTokenIs(token.EOF)
}

// ParseFile parses declarations until EOF. A declaration with errors is
// dropped and parsing resumes on the next line.
func (p *Parser) ParseFile(name string) *ast.File {
	file := &ast.File{Name: name}
	seen := map[string]*ast.Decl{}

	for !p.curTokenIs(token.EOF) {
		if p.curTokenIs(token.NEWLINE) {
			p.nextToken()
			continue
		}

		prevLen := len(p.errors)
		decl := p.parseDecl()
		if decl != nil && len(p.errors) == prevLen {
			if prev, ok := seen[decl.Name.Value]; ok {
				p.addError(decl.Token, "redeclaration of %s (previous declaration at %d:%d)",
					decl.Name.Value, prev.Token.Line, prev.Token.Column)
			} else {
				seen[decl.Name.Value] = decl
				file.Decls = append(file.Decls, decl)
			}
		}
		if len(p.errors) > prevLen {
			p.skipLine()
		}
		p.nextToken()
	}

	return file
}

// skipLine advances until the current token ends a line.
func (p *Parser) skipLine() {
	for !p.curTokenIs(token.NEWLINE) && !p.curTokenIs(token.EOF) {
		p.nextToken()
	}
}

func (p *Parser) parseDecl() *ast.Decl {
	if !p.curTokenIs(token.IDENT) {
		p.addError(p.curToken, "expected a declaration name, got %s", p.curToken)
		return nil
	}
	decl := &ast.Decl{
		Token: p.curToken,
		Name:  &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal},
	}
	if types.IsReserved(decl.Name.Value) {
		p.addError(p.curToken, "%s is reserved and cannot be declared", decl.Name.Value)
		return nil
	}

	if !p.expectPeek(token.ASSIGN) {
		return nil
	}
	p.nextToken()
	decl.Type = p.parseType()
	if decl.Type == nil {
		return nil
	}

	if p.stmtEnded() {
		return decl
	}
	decl.Clauses = p.parseClauses(token.EOF)
	if decl.Clauses == nil {
		return nil
	}

	if !p.stmtEnded() {
		p.addError(p.peekToken, "expected end of line after declaration %s, got %s", decl.Name.Value, p.peekToken)
		return nil
	}
	return decl
}

// parseClauses parses one or more comma separated clauses starting at the
// peek token. A newline may follow a comma. A trailing comma is allowed
// only before end.
func (p *Parser) parseClauses(end token.TokenType) []ast.Clause {
	clauses := []ast.Clause{}
	for {
		if !p.expectPeek(token.LBRACK) {
			return nil
		}
		clause := p.parseClause()
		if clause == nil {
			return nil
		}
		clauses = append(clauses, clause)

		if !p.peekTokenIs(token.COMMA) {
			return clauses
		}
		p.nextToken()
		for p.peekTokenIs(token.NEWLINE) {
			p.nextToken()
		}
		if p.peekTokenIs(end) {
			return clauses
		}
	}
}

// parseType parses an element type starting at the current token.
func (p *Parser) parseType() ast.TypeExpr {
	switch p.curToken.Type {
	case token.IDENT:
		return &ast.NamedType{Token: p.curToken, Name: p.curToken.Literal}
	case token.LBRACK:
		at := &ast.ArrayType{Token: p.curToken}
		p.nextToken()
		at.Len = p.parseExpression(LOWEST)
		if at.Len == nil || !p.expectPeek(token.RBRACK) {
			return nil
		}
		p.nextToken()
		at.Elem = p.parseType()
		if at.Elem == nil {
			return nil
		}
		return at
	}
	p.addError(p.curToken, "expected a type, got %s", p.curToken)
	return nil
}

// parseClause parses one bracketed clause; the current token is its [.
func (p *Parser) parseClause() ast.Clause {
	lbrack := p.curToken

	if p.peekTokenIs(token.RBRACK) {
		p.nextToken()
		return &ast.ListClause{Token: lbrack, Elems: []ast.Expression{}}
	}

	if p.peekTokenIs(token.MUL) {
		p.nextToken()
		cc := &ast.CycleClause{Token: p.curToken}
		p.nextToken()
		cc.Source = p.parseExpression(LOWEST)
		if cc.Source == nil {
			return nil
		}
		if p.peekTokenIs(token.SEMICOLON) {
			p.nextToken()
			cc.ToIndex, cc.Count = p.parseCount()
			if cc.Count == nil {
				return nil
			}
		}
		if !p.expectPeek(token.RBRACK) {
			return nil
		}
		return cc
	}

	p.nextToken()
	first := p.parseExpression(LOWEST)
	if first == nil {
		return nil
	}

	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
		rc := &ast.RepeatClause{Token: lbrack, Elem: first}
		rc.ToIndex, rc.Count = p.parseCount()
		if rc.Count == nil || !p.expectPeek(token.RBRACK) {
			return nil
		}
		return rc
	}

	elems := p.parseExpressionListFrom(first, token.RBRACK)
	if elems == nil {
		return nil
	}
	return &ast.ListClause{Token: lbrack, Elems: elems}
}

// parseCount parses the part after ';': either n or ..n.
func (p *Parser) parseCount() (bool, ast.Expression) {
	p.nextToken()
	toIndex := false
	if p.curTokenIs(token.RANGE) {
		toIndex = true
		p.nextToken()
	}
	return toIndex, p.parseExpression(LOWEST)
}

// Parse lexes and parses one source file.
func Parse(fileName, src string) (*ast.File, []*token.CompileError) {
	p := New(lexer.New(fileName, src))
	file := p.ParseFile(fileName)
	return file, p.Errors()
}
