package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sail-lang/sail/token"
)

func scanTypes(t *testing.T, src string) []token.Type {
	t.Helper()
	toks, err := New(src).Scan()
	assert.NoError(t, err)
	types := make([]token.Type, len(toks))
	for i, tok := range toks {
		types[i] = tok.Type
	}
	return types
}

func TestLexer_Punctuators(t *testing.T) {
	tests := []struct {
		input    string
		expected []token.Type
	}{
		{"(){},.-+;*/", []token.Type{
			token.LeftParen, token.RightParen, token.LeftBrace, token.RightBrace,
			token.Comma, token.Dot, token.Minus, token.Plus, token.Semicolon,
			token.Star, token.Slash, token.EOF,
		}},
		{"! != = == > >= < <=", []token.Type{
			token.Bang, token.BangEqual, token.Equal, token.EqualEqual,
			token.Greater, token.GreaterEqual, token.Less, token.LessEqual, token.EOF,
		}},
		{"|| && | & ^ ~", []token.Type{
			token.PipePipe, token.AmpAmp, token.Pipe, token.Amp, token.Caret, token.Tilde, token.EOF,
		}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, scanTypes(t, tt.input))
	}
}

func TestLexer_Keywords(t *testing.T) {
	src := "and class else false fn for if null or return super this true let while"
	expected := []token.Type{
		token.And, token.Class, token.Else, token.False, token.Fn, token.For,
		token.If, token.Null, token.Or, token.Return, token.Super, token.This,
		token.True, token.Let, token.While, token.EOF,
	}
	assert.Equal(t, expected, scanTypes(t, src))
}

func TestLexer_Identifiers(t *testing.T) {
	toks, err := New("let x = foo_bar123;").Scan()
	assert.NoError(t, err)
	assert.Equal(t, token.Identifier, toks[1].Type)
	assert.Equal(t, "x", toks[1].Lexeme)
	assert.Equal(t, token.Identifier, toks[3].Type)
	assert.Equal(t, "foo_bar123", toks[3].Lexeme)
}

func TestLexer_Numbers(t *testing.T) {
	toks, err := New("42 3.14").Scan()
	assert.NoError(t, err)
	assert.Equal(t, token.Number, toks[0].Type)
	assert.Equal(t, 42.0, toks[0].Literal.Num)
	assert.Equal(t, token.Number, toks[1].Type)
	assert.Equal(t, 3.14, toks[1].Literal.Num)
}

func TestLexer_Strings(t *testing.T) {
	toks, err := New(`"hello world"`).Scan()
	assert.NoError(t, err)
	assert.Equal(t, token.String, toks[0].Type)
	assert.Equal(t, "hello world", toks[0].Literal.Str)
}

func TestLexer_StringSpansLines(t *testing.T) {
	toks, err := New("\"a\nb\"\nnull").Scan()
	assert.NoError(t, err)
	assert.Equal(t, "a\nb", toks[0].Literal.Str)
	assert.Equal(t, 3, toks[1].Line)
}

func TestLexer_UnterminatedString(t *testing.T) {
	_, err := New(`"unterminated`).Scan()
	assert.Error(t, err)
	var lexErr *Error
	assert.ErrorAs(t, err, &lexErr)
}

func TestLexer_Comments(t *testing.T) {
	toks, err := New("let x = 1; // trailing comment\nlet y = 2;").Scan()
	assert.NoError(t, err)
	assert.Equal(t, 2, toks[5].Line) // second "let" at line 2
}

func TestLexer_UnexpectedCharacter(t *testing.T) {
	_, err := New("@").Scan()
	assert.Error(t, err)
}

func TestLexer_Determinism(t *testing.T) {
	src := `class Foo < Bar { init(x) { this.x = x; } }`
	a := scanTypes(t, src)
	b := scanTypes(t, src)
	assert.Equal(t, a, b)
}
