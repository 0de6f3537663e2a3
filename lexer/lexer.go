// Package lexer implements lexical analysis (tokenization) of Sail source
// code. It scans the source text byte by byte, producing the token stream
// the parser consumes.
//
// The control structure — a byte-at-a-time NextToken switch with Peek and
// Advance helpers, and line tracking that increments on '\n' — is adapted
// directly from go-mix's lexer.Lexer, retargeted at Sail's smaller
// punctuator set and keyword table.
package lexer

import (
	"fmt"

	"github.com/sail-lang/sail/token"
)

// Error is a lexical error: an unrecognized character or an unterminated
// string literal, anchored to the line it occurred on.
type Error struct {
	Line    int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// Lexer scans Sail source text into tokens.
type Lexer struct {
	src     string
	start   int // start of the token currently being scanned
	current int // index of the next unread byte
	line    int
}

// New creates a Lexer over src, ready to Scan.
func New(src string) *Lexer {
	return &Lexer{src: src, line: 1}
}

// Scan tokenizes the entire source, returning the full token stream
// terminated by a single EOF token, or the first *Error encountered.
func (l *Lexer) Scan() ([]token.Token, error) {
	var tokens []token.Token
	for {
		tok, err := l.nextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens, nil
		}
	}
}

func (l *Lexer) atEnd() bool { return l.current >= len(l.src) }

func (l *Lexer) advance() byte {
	c := l.src[l.current]
	l.current++
	return c
}

func (l *Lexer) peek() byte {
	if l.atEnd() {
		return 0
	}
	return l.src[l.current]
}

func (l *Lexer) peekNext() byte {
	if l.current+1 >= len(l.src) {
		return 0
	}
	return l.src[l.current+1]
}

// match consumes the next byte only if it equals want, reporting whether it
// did.
func (l *Lexer) match(want byte) bool {
	if l.atEnd() || l.src[l.current] != want {
		return false
	}
	l.current++
	return true
}

func (l *Lexer) lexeme() string { return l.src[l.start:l.current] }

func (l *Lexer) tok(t token.Type) token.Token {
	return token.New(t, l.lexeme(), l.line)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func isAlpha(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
func isAlphaNumeric(c byte) bool { return isAlpha(c) || isDigit(c) }

// nextToken skips whitespace and comments, then scans and returns exactly
// one token (EOF at end of input).
func (l *Lexer) nextToken() (token.Token, error) {
	l.skipWhitespaceAndComments()
	l.start = l.current

	if l.atEnd() {
		return token.New(token.EOF, "", l.line), nil
	}

	c := l.advance()

	switch c {
	case '(':
		return l.tok(token.LeftParen), nil
	case ')':
		return l.tok(token.RightParen), nil
	case '{':
		return l.tok(token.LeftBrace), nil
	case '}':
		return l.tok(token.RightBrace), nil
	case ',':
		return l.tok(token.Comma), nil
	case '.':
		return l.tok(token.Dot), nil
	case '-':
		return l.tok(token.Minus), nil
	case '+':
		return l.tok(token.Plus), nil
	case ';':
		return l.tok(token.Semicolon), nil
	case '*':
		return l.tok(token.Star), nil
	case '/':
		return l.tok(token.Slash), nil
	case '^':
		return l.tok(token.Caret), nil
	case '~':
		return l.tok(token.Tilde), nil
	case '!':
		if l.match('=') {
			return l.tok(token.BangEqual), nil
		}
		return l.tok(token.Bang), nil
	case '=':
		if l.match('=') {
			return l.tok(token.EqualEqual), nil
		}
		return l.tok(token.Equal), nil
	case '<':
		if l.match('=') {
			return l.tok(token.LessEqual), nil
		}
		return l.tok(token.Less), nil
	case '>':
		if l.match('=') {
			return l.tok(token.GreaterEqual), nil
		}
		return l.tok(token.Greater), nil
	case '&':
		if l.match('&') {
			return l.tok(token.AmpAmp), nil
		}
		return l.tok(token.Amp), nil
	case '|':
		if l.match('|') {
			return l.tok(token.PipePipe), nil
		}
		return l.tok(token.Pipe), nil
	case '"':
		return l.readString()
	default:
		if isDigit(c) {
			return l.readNumber(), nil
		}
		if isAlpha(c) {
			return l.readIdentifier(), nil
		}
		return token.Token{}, &Error{Line: l.line, Message: fmt.Sprintf("unexpected character %q", c)}
	}
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		switch l.peek() {
		case ' ', '\t', '\r':
			l.current++
		case '\n':
			l.line++
			l.current++
		case '/':
			if l.peekNext() == '/' {
				for l.peek() != '\n' && !l.atEnd() {
					l.current++
				}
			} else {
				return
			}
		default:
			return
		}
	}
}

// readString scans a "..." literal. Newlines are permitted inside strings
// and still advance the line counter; there is no escape processing.
func (l *Lexer) readString() (token.Token, error) {
	startLine := l.line
	for l.peek() != '"' && !l.atEnd() {
		if l.peek() == '\n' {
			l.line++
		}
		l.current++
	}
	if l.atEnd() {
		return token.Token{}, &Error{Line: l.line, Message: "unterminated string"}
	}
	l.current++ // consume closing quote
	value := l.src[l.start+1 : l.current-1]
	t := l.tok(token.String)
	t.Line = startLine
	t.Literal = token.StrLit(value)
	return t, nil
}

func (l *Lexer) readNumber() token.Token {
	for isDigit(l.peek()) {
		l.current++
	}
	if l.peek() == '.' && isDigit(l.peekNext()) {
		l.current++ // consume '.'
		for isDigit(l.peek()) {
			l.current++
		}
	}
	t := l.tok(token.Number)
	var n float64
	fmt.Sscanf(l.lexeme(), "%g", &n)
	t.Literal = token.NumLit(n)
	return t
}

func (l *Lexer) readIdentifier() token.Token {
	for isAlphaNumeric(l.peek()) {
		l.current++
	}
	return l.tok(token.Lookup(l.lexeme()))
}
