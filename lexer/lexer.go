// Package lexer turns source text into a flat token.Token stream for the
// parser. Lexing never aborts: each unexpected character, and each
// unterminated string, produces a token.Error token in place of a normal
// token and scanning continues, so the parser can still report every syntax error it can
// in one pass (spec.md §4.1, §4.2).
package lexer

import (
	"strconv"
	"strings"

	"nilan/token"
)

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func isAlpha(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
func isAlphaNumeric(c byte) bool { return isAlpha(c) || isDigit(c) }

// Lexer scans one immutable source string into tokens.
type Lexer struct {
	source string
	start  int
	pos    int
}

// New creates a Lexer over source.
func New(source string) *Lexer {
	return &Lexer{source: source}
}

// Scan runs the lexer to completion and returns every token it
// produced, terminated by a single Eof token.
func Scan(source string) []token.Token {
	l := New(source)
	var tokens []token.Token
	for {
		tok := l.Next()
		tokens = append(tokens, tok)
		if tok.Kind == token.Eof {
			return tokens
		}
	}
}

func (l *Lexer) isAtEnd() bool { return l.pos >= len(l.source) }

func (l *Lexer) advance() byte {
	c := l.source[l.pos]
	l.pos++
	return c
}

func (l *Lexer) peek() byte {
	if l.isAtEnd() {
		return 0
	}
	return l.source[l.pos]
}

func (l *Lexer) peekNext() byte {
	if l.pos+1 >= len(l.source) {
		return 0
	}
	return l.source[l.pos+1]
}

func (l *Lexer) match(expected byte) bool {
	if l.isAtEnd() || l.source[l.pos] != expected {
		return false
	}
	l.pos++
	return true
}

func (l *Lexer) span() token.Span {
	return token.Span{Start: l.start, End: l.pos}
}

func (l *Lexer) make(kind token.Kind) token.Token {
	return token.Make(kind, l.source[l.start:l.pos], l.span())
}

func (l *Lexer) errorToken(message string) token.Token {
	return token.MakeLiteral(token.Error, l.source[l.start:l.pos], message, l.span())
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		switch l.peek() {
		case ' ', '\r', '\t', '\n':
			l.pos++
		case '/':
			if l.peekNext() == '/' {
				for l.peek() != '\n' && !l.isAtEnd() {
					l.pos++
				}
			} else {
				return
			}
		default:
			return
		}
	}
}

// Next scans and returns the single next token, advancing past it.
// Calling Next again after an Eof token keeps returning Eof.
func (l *Lexer) Next() token.Token {
	l.skipWhitespaceAndComments()
	l.start = l.pos

	if l.isAtEnd() {
		return l.make(token.Eof)
	}

	c := l.advance()

	switch {
	case isAlpha(c):
		return l.identifier()
	case isDigit(c):
		return l.number()
	}

	switch c {
	case '(':
		return l.make(token.LeftParen)
	case ')':
		return l.make(token.RightParen)
	case '{':
		return l.make(token.LeftBrace)
	case '}':
		return l.make(token.RightBrace)
	case ',':
		return l.make(token.Comma)
	case '.':
		return l.make(token.Dot)
	case ';':
		return l.make(token.Semicolon)
	case '-':
		return l.make(token.Minus)
	case '+':
		return l.make(token.Plus)
	case '*':
		return l.make(token.Star)
	case '/':
		return l.make(token.Slash)
	case '!':
		if l.match('=') {
			return l.make(token.BangEqual)
		}
		return l.make(token.Bang)
	case '=':
		if l.match('=') {
			return l.make(token.EqualEqual)
		}
		return l.make(token.Equal)
	case '<':
		if l.match('=') {
			return l.make(token.LessEqual)
		}
		return l.make(token.Less)
	case '>':
		if l.match('=') {
			return l.make(token.GreaterEqual)
		}
		return l.make(token.Greater)
	case '"':
		return l.string()
	}

	return l.errorToken("unexpected character '" + string(c) + "'")
}

func (l *Lexer) identifier() token.Token {
	for isAlphaNumeric(l.peek()) {
		l.pos++
	}
	text := l.source[l.start:l.pos]
	if kind, ok := token.Keywords[text]; ok {
		return l.make(kind)
	}
	return token.MakeLiteral(token.Identifier, text, text, l.span())
}

func (l *Lexer) number() token.Token {
	for isDigit(l.peek()) {
		l.pos++
	}
	if l.peek() == '.' && isDigit(l.peekNext()) {
		l.pos++
		for isDigit(l.peek()) {
			l.pos++
		}
	}
	text := l.source[l.start:l.pos]
	n, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return l.errorToken("invalid number '" + text + "'")
	}
	return token.MakeLiteral(token.Number, text, n, l.span())
}

func (l *Lexer) string() token.Token {
	var sb strings.Builder
	for l.peek() != '"' && !l.isAtEnd() {
		sb.WriteByte(l.advance())
	}
	if l.isAtEnd() {
		return l.errorToken("unterminated string")
	}
	l.pos++ // consume closing quote
	return token.MakeLiteral(token.String, l.source[l.start:l.pos], sb.String(), l.span())
}
