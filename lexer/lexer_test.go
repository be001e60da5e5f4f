package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"nilan/token"
)

func kinds(tokens []token.Token) []token.Kind {
	out := make([]token.Kind, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Kind
	}
	return out
}

func TestScanOperators(t *testing.T) {
	tokens := Scan("==/=*+>-<!=<=>=!")
	assert.Equal(t, []token.Kind{
		token.EqualEqual, token.Slash, token.Equal, token.Star, token.Plus,
		token.Greater, token.Minus, token.Less, token.BangEqual, token.LessEqual,
		token.GreaterEqual, token.Bang, token.Eof,
	}, kinds(tokens))
}

func TestScanPunctuation(t *testing.T) {
	tokens := Scan("(){},.;")
	assert.Equal(t, []token.Kind{
		token.LeftParen, token.RightParen, token.LeftBrace, token.RightBrace,
		token.Comma, token.Dot, token.Semicolon, token.Eof,
	}, kinds(tokens))
}

func TestScanNumber(t *testing.T) {
	tokens := Scan("123.45")
	assert.Len(t, tokens, 2)
	assert.Equal(t, token.Number, tokens[0].Kind)
	assert.Equal(t, 123.45, tokens[0].NumberValue())
}

func TestScanNumberWithoutTrailingDigitStopsBeforeDot(t *testing.T) {
	tokens := Scan("1.")
	assert.Equal(t, []token.Kind{token.Number, token.Dot, token.Eof}, kinds(tokens))
	assert.Equal(t, 1.0, tokens[0].NumberValue())
}

func TestScanString(t *testing.T) {
	tokens := Scan(`"hello world"`)
	assert.Len(t, tokens, 2)
	assert.Equal(t, token.String, tokens[0].Kind)
	assert.Equal(t, "hello world", tokens[0].StringValue())
}

func TestScanUnterminatedStringProducesErrorToken(t *testing.T) {
	tokens := Scan(`"hello`)
	assert.Equal(t, token.Error, tokens[0].Kind)
}

func TestScanIdentifiersAndKeywords(t *testing.T) {
	tokens := Scan("fun add class x")
	assert.Equal(t, []token.Kind{
		token.Fun, token.Identifier, token.Class, token.Identifier, token.Eof,
	}, kinds(tokens))
}

func TestScanSkipsLineComments(t *testing.T) {
	tokens := Scan("1 // a comment\n+ 2")
	assert.Equal(t, []token.Kind{token.Number, token.Plus, token.Number, token.Eof}, kinds(tokens))
}
