package parser

import (
	"strconv"
	"unicode/utf8"

	"github.com/thiremani/segarr/ast"
	"github.com/thiremani/segarr/token"
)

const (
	_ int = iota
	LOWEST
	SUM     // + or -
	PRODUCT // *, / or %
	PREFIX  // -x
	CALL    // len(x)
)

var precedences = map[token.TokenType]int{
	token.ADD:    SUM,
	token.SUB:    SUM,
	token.MUL:    PRODUCT,
	token.QUO:    PRODUCT,
	token.REM:    PRODUCT,
	token.LPAREN: CALL,
}

func (p *Parser) registerPrefix(tokenType token.TokenType, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

func (p *Parser) registerInfix(tokenType token.TokenType, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}

func (p *Parser) peekPrecedence() int {
	if p, ok := precedences[p.peekToken.Type]; ok {
		return p
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if p, ok := precedences[p.curToken.Type]; ok {
		return p
	}
	return LOWEST
}

func (p *Parser) noPrefixParseFnError(tok token.Token) {
	p.addError(tok, "no prefix parse function for %s found", tok.Type)
}

func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken)
		return nil
	}
	leftExp := prefix()
	if leftExp == nil {
		return nil
	}

	for precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}
		p.nextToken()
		leftExp = infix(leftExp)
		if leftExp == nil {
			return nil
		}
	}

	return leftExp
}

func (p *Parser) parseIdentifier() ast.Expression {
	if p.curToken.Literal == "array" && p.peekTokenIs(token.LPAREN) {
		return p.parseNestedArray()
	}
	return &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
}

// parseNestedArray parses array(T, clause, ...); the current token is array.
func (p *Parser) parseNestedArray() ast.Expression {
	na := &ast.NestedArray{Token: p.curToken}
	p.nextToken()
	p.nextToken()
	na.Type = p.parseType()
	if na.Type == nil {
		return nil
	}

	if p.peekTokenIs(token.COMMA) {
		p.nextToken()
		if !p.peekTokenIs(token.RPAREN) {
			na.Clauses = p.parseClauses(token.RPAREN)
			if na.Clauses == nil {
				return nil
			}
		}
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return na
}

func (p *Parser) parseIntegerLiteral() ast.Expression {
	lit := &ast.IntegerLiteral{Token: p.curToken}

	value, err := strconv.ParseUint(p.curToken.Literal, 0, 64)
	if err != nil {
		p.addError(p.curToken, "could not parse %q as integer: %v", p.curToken.Literal, err)
		return nil
	}

	lit.Value = value
	return lit
}

func (p *Parser) parseFloatLiteral() ast.Expression {
	lit := &ast.FloatLiteral{Token: p.curToken}

	value, err := strconv.ParseFloat(p.curToken.Literal, 64)
	if err != nil {
		p.addError(p.curToken, "could not parse %q as float: %v", p.curToken.Literal, err)
		return nil
	}

	lit.Value = value
	return lit
}

func (p *Parser) parseStringLiteral() ast.Expression {
	value, err := strconv.Unquote(p.curToken.Literal)
	if err != nil {
		p.addError(p.curToken, "invalid string literal %s", p.curToken.Literal)
		return nil
	}
	return &ast.StringLiteral{Token: p.curToken, Value: value}
}

func (p *Parser) parseCharLiteral() ast.Expression {
	value, err := strconv.Unquote(p.curToken.Literal)
	if err != nil || utf8.RuneCountInString(value) != 1 {
		p.addError(p.curToken, "invalid character literal %s", p.curToken.Literal)
		return nil
	}
	r, _ := utf8.DecodeRuneInString(value)
	return &ast.CharLiteral{Token: p.curToken, Value: r}
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	expression := &ast.PrefixExpression{
		Token:    p.curToken,
		Operator: p.curToken.Literal,
	}

	p.nextToken()
	expression.Right = p.parseExpression(PREFIX)
	if expression.Right == nil {
		return nil
	}

	return expression
}

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	expression := &ast.InfixExpression{
		Token:    p.curToken,
		Operator: p.curToken.Literal,
		Left:     left,
	}

	precedence := p.curPrecedence()
	p.nextToken()
	expression.Right = p.parseExpression(precedence)
	if expression.Right == nil {
		return nil
	}

	return expression
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	p.nextToken()

	exp := p.parseExpression(LOWEST)
	if exp == nil || !p.expectPeek(token.RPAREN) {
		return nil
	}

	return exp
}

func (p *Parser) parseListLiteral() ast.Expression {
	list := &ast.ListLiteral{Token: p.curToken}
	if p.peekTokenIs(token.RBRACK) {
		p.nextToken()
		list.Elems = []ast.Expression{}
		return list
	}

	p.nextToken()
	first := p.parseExpression(LOWEST)
	if first == nil {
		return nil
	}
	list.Elems = p.parseExpressionListFrom(first, token.RBRACK)
	if list.Elems == nil {
		return nil
	}
	return list
}

func (p *Parser) parseCallExpression(function ast.Expression) ast.Expression {
	ident, ok := function.(*ast.Identifier)
	if !ok {
		p.addError(p.curToken, "cannot call %s", function)
		return nil
	}
	exp := &ast.CallExpression{Token: p.curToken, Function: ident}
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		exp.Arguments = []ast.Expression{}
		return exp
	}

	p.nextToken()
	first := p.parseExpression(LOWEST)
	if first == nil {
		return nil
	}
	exp.Arguments = p.parseExpressionListFrom(first, token.RPAREN)
	if exp.Arguments == nil {
		return nil
	}
	return exp
}

// parseExpressionListFrom continues a comma separated list whose first
// element is already parsed, through the closing end token. A trailing
// comma is allowed.
func (p *Parser) parseExpressionListFrom(first ast.Expression, end token.TokenType) []ast.Expression {
	list := []ast.Expression{first}

	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		if p.peekTokenIs(end) {
			break
		}
		p.nextToken()
		exp := p.parseExpression(LOWEST)
		if exp == nil {
			return nil
		}
		list = append(list, exp)
	}

	if !p.expectPeek(end) {
		return nil
	}

	return list
}
