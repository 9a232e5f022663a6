package lexer

import (
	"unicode"

	"github.com/thiremani/segarr/token"
)

type Lexer struct {
	fileName     string
	input        []rune
	position     int  // current position in input (points to current rune)
	readPosition int  // current reading position in input (after current rune)
	curr         rune // current rune under examination
	line         int
	column       int
	depth        int // open ( and [ nesting; newlines inside are not tokens
}

func New(fileName, input string) *Lexer {
	l := &Lexer{fileName: fileName, input: []rune(input), line: 1}
	l.readRune()
	return l
}

func (l *Lexer) NextToken() token.Token {
	l.skipWhitespace()

	tok := token.Token{FileName: l.fileName, Line: l.line, Column: l.column}

	switch l.curr {
	case '\n':
		tok.Type, tok.Literal = token.NEWLINE, "\n"
	case '=':
		tok.Type, tok.Literal = token.ASSIGN, "="
	case '+':
		tok.Type, tok.Literal = token.ADD, "+"
	case '-':
		tok.Type, tok.Literal = token.SUB, "-"
	case '*':
		tok.Type, tok.Literal = token.MUL, "*"
	case '/':
		tok.Type, tok.Literal = token.QUO, "/"
	case '%':
		tok.Type, tok.Literal = token.REM, "%"
	case ',':
		tok.Type, tok.Literal = token.COMMA, ","
	case ';':
		tok.Type, tok.Literal = token.SEMICOLON, ";"
	case '(':
		l.depth++
		tok.Type, tok.Literal = token.LPAREN, "("
	case ')':
		l.closeDepth()
		tok.Type, tok.Literal = token.RPAREN, ")"
	case '[':
		l.depth++
		tok.Type, tok.Literal = token.LBRACK, "["
	case ']':
		l.closeDepth()
		tok.Type, tok.Literal = token.RBRACK, "]"
	case '.':
		if l.peekRune() == '.' {
			l.readRune()
			tok.Type, tok.Literal = token.RANGE, ".."
		} else {
			tok.Type, tok.Literal = token.ILLEGAL, "."
		}
	case '"':
		tok.Literal, tok.Type = l.readQuoted('"', token.STRING)
		return tok
	case '\'':
		tok.Literal, tok.Type = l.readQuoted('\'', token.CHAR)
		return tok
	case 0:
		tok.Type, tok.Literal = token.EOF, ""
		return tok
	default:
		if IsLetter(l.curr) {
			tok.Type = token.IDENT
			tok.Literal = l.readIdentifier()
			return tok
		}
		if IsDigit(l.curr) {
			tok.Literal, tok.Type = l.readNumber()
			return tok
		}
		tok.Type, tok.Literal = token.ILLEGAL, string(l.curr)
	}

	l.readRune()
	return tok
}

func (l *Lexer) closeDepth() {
	if l.depth > 0 {
		l.depth--
	}
}

// skipWhitespace skips blanks and comments. Newlines are skipped only
// inside brackets; at depth 0 they end a declaration.
func (l *Lexer) skipWhitespace() {
	for {
		switch {
		case l.curr == ' ' || l.curr == '\t' || l.curr == '\r':
			l.readRune()
		case l.curr == '\n' && l.depth > 0:
			l.readRune()
		case l.curr == '#':
			for l.curr != '\n' && l.curr != 0 {
				l.readRune()
			}
		default:
			return
		}
	}
}

func (l *Lexer) readRune() {
	if l.curr == '\n' {
		l.line++
		l.column = 0
	}
	if l.readPosition >= len(l.input) {
		l.curr = 0
	} else {
		l.curr = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
	l.column++
}

func (l *Lexer) peekRune() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *Lexer) readIdentifier() string {
	position := l.position
	for IsLetterOrDigit(l.curr) {
		l.readRune()
	}
	return string(l.input[position:l.position])
}

// readNumber reads an integer (decimal, 0x, 0o, 0b, with _ separators) or a
// decimal float. A '.' followed by another '.' is left for the RANGE token,
// so 0..5 lexes as INT RANGE INT.
func (l *Lexer) readNumber() (string, token.TokenType) {
	position := l.position
	if l.curr == '0' && isBasePrefix(l.peekRune()) {
		l.readRune()
		l.readRune()
		for isHexDigit(l.curr) || l.curr == '_' {
			l.readRune()
		}
		return string(l.input[position:l.position]), token.INT
	}

	typ := token.INT
	l.readDigits()
	if l.curr == '.' && IsDigit(l.peekRune()) {
		typ = token.FLOAT
		l.readRune()
		l.readDigits()
	}
	if l.curr == 'e' || l.curr == 'E' {
		next := l.peekRune()
		if IsDigit(next) || next == '+' || next == '-' {
			typ = token.FLOAT
			l.readRune()
			if l.curr == '+' || l.curr == '-' {
				l.readRune()
			}
			l.readDigits()
		}
	}
	return string(l.input[position:l.position]), typ
}

func (l *Lexer) readDigits() {
	for IsDigit(l.curr) || l.curr == '_' {
		l.readRune()
	}
}

// readQuoted reads a quoted literal including its quotes. An unterminated
// literal is ILLEGAL.
func (l *Lexer) readQuoted(quote rune, typ token.TokenType) (string, token.TokenType) {
	position := l.position
	l.readRune()
	for l.curr != quote {
		if l.curr == 0 || l.curr == '\n' {
			return string(l.input[position:l.position]), token.ILLEGAL
		}
		if l.curr == '\\' {
			l.readRune()
			if l.curr == 0 {
				return string(l.input[position:l.position]), token.ILLEGAL
			}
		}
		l.readRune()
	}
	l.readRune()
	return string(l.input[position:l.position]), typ
}

func IsLetter(ch rune) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_' || ch >= 0x80 && unicode.IsLetter(ch)
}

func IsDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

func IsLetterOrDigit(ch rune) bool {
	return IsLetter(ch) || IsDigit(ch)
}

func isBasePrefix(ch rune) bool {
	return ch == 'x' || ch == 'X' || ch == 'o' || ch == 'O' || ch == 'b' || ch == 'B'
}

func isHexDigit(ch rune) bool {
	return IsDigit(ch) || 'a' <= ch && ch <= 'f' || 'A' <= ch && ch <= 'F'
}
