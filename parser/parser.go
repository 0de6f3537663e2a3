// Package parser implements a hand-written recursive-descent parser for
// Sail, turning a token stream into a slice of ast.Stmt.
//
// The grammar is exactly spec.md §4.2's precedence cascade
// (assignment → logic_or → logic_and → equality → comparison → term →
// factor → unary → call → primary). Error handling follows go-mix's
// error-collection idiom (parser/parser.go's Errors/addError/HasErrors):
// a malformed program never escapes Parse as a panic (the internal
// parseAbort panic is recovered per declaration); the parser records an
// Error and resynchronizes so a single file can report more than one
// mistake.
package parser

import (
	"fmt"

	"github.com/sail-lang/sail/ast"
	"github.com/sail-lang/sail/token"
)

// Error is a structural parse error anchored to the offending token.
type Error struct {
	Tok     token.Token
	Message string
}

func (e *Error) Error() string {
	if e.Tok.Type == token.EOF {
		return fmt.Sprintf("line %d at end: %s", e.Tok.Line, e.Message)
	}
	return fmt.Sprintf("line %d at '%s': %s", e.Tok.Line, e.Tok.Lexeme, e.Message)
}

// maxArgs is the parameter/argument count limit spec.md §4.2 enforces
// (reported as an error, parsing still continues).
const maxArgs = 255

// Parser holds the token stream and parsing state.
type Parser struct {
	tokens  []token.Token
	current int
	errors  []error
}

// New builds a Parser over a complete, EOF-terminated token slice (as
// produced by lexer.Lexer.Scan).
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse consumes the whole token stream and returns the program's
// statements. Parse errors are collected, not returned directly; call
// Errors() after Parse to check for them.
func (p *Parser) Parse() []ast.Stmt {
	var stmts []ast.Stmt
	for !p.isAtEnd() {
		if stmt := p.declaration(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

// Errors returns every Error collected during Parse.
func (p *Parser) Errors() []error { return p.errors }

// HasErrors reports whether Parse encountered at least one malformed
// construct.
func (p *Parser) HasErrors() bool { return len(p.errors) > 0 }

// ---- token stream helpers ------------------------------------------------

func (p *Parser) peek() token.Token     { return p.tokens[p.current] }
func (p *Parser) previous() token.Token { return p.tokens[p.current-1] }
func (p *Parser) isAtEnd() bool         { return p.peek().Type == token.EOF }

func (p *Parser) advance() token.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) check(t token.Type) bool {
	if p.isAtEnd() {
		return t == token.EOF
	}
	return p.peek().Type == t
}

func (p *Parser) match(types ...token.Type) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

// consume advances past the next token if it matches t, else records an
// Error and returns the zero Token.
func (p *Parser) consume(t token.Type, message string) token.Token {
	if p.check(t) {
		return p.advance()
	}
	p.addError(p.peek(), message)
	return token.Token{}
}

func (p *Parser) addError(tok token.Token, message string) {
	p.errors = append(p.errors, &Error{Tok: tok, Message: message})
}

// synchronize discards tokens until it reaches a likely statement boundary,
// so the parser can keep going and report further errors in the same pass.
func (p *Parser) synchronize() {
	p.advance()
	for !p.isAtEnd() {
		if p.previous().Type == token.Semicolon {
			return
		}
		switch p.peek().Type {
		case token.Class, token.Fn, token.Let, token.For, token.If, token.While, token.Return:
			return
		}
		p.advance()
	}
}

// ---- declarations ---------------------------------------------------------

func (p *Parser) declaration() (stmt ast.Stmt) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(parseAbort); ok {
				p.synchronize()
				stmt = nil
				return
			}
			panic(r)
		}
	}()

	switch {
	case p.match(token.Class):
		return p.classDeclaration()
	case p.match(token.Fn):
		return p.function("function")
	case p.match(token.Let):
		return p.varDeclaration()
	default:
		return p.statement()
	}
}

// parseAbort is the sentinel a hard parse failure panics with so declaration
// can synchronize at a single recovery point, in the manner of a Pratt
// parser's error-token escape but scoped to one declaration at a time.
type parseAbort struct{}

func (p *Parser) abort(tok token.Token, message string) {
	p.addError(tok, message)
	panic(parseAbort{})
}

func (p *Parser) classDeclaration() ast.Stmt {
	name := p.consume(token.Identifier, "expected class name")

	var superclass *ast.Variable
	if p.match(token.Less) {
		p.consume(token.Identifier, "expected superclass name")
		superclass = ast.NewVariable(p.previous())
	}

	p.consume(token.LeftBrace, "expected '{' before class body")

	var methods []*ast.Function
	for !p.check(token.RightBrace) && !p.isAtEnd() {
		methods = append(methods, p.function("method"))
	}

	p.consume(token.RightBrace, "expected '}' after class body")
	return ast.NewClass(name, superclass, methods)
}

func (p *Parser) function(kind string) *ast.Function {
	name := p.consume(token.Identifier, fmt.Sprintf("expected %s name", kind))

	p.consume(token.LeftParen, fmt.Sprintf("expected '(' after %s name", kind))
	var params []token.Token
	if !p.check(token.RightParen) {
		for {
			if len(params) >= maxArgs {
				p.addError(p.peek(), fmt.Sprintf("can't have more than %d parameters", maxArgs))
			}
			params = append(params, p.consume(token.Identifier, "expected parameter name"))
			if !p.match(token.Comma) {
				break
			}
		}
	}
	p.consume(token.RightParen, "expected ')' after parameters")

	p.consume(token.LeftBrace, fmt.Sprintf("expected '{' before %s body", kind))
	body := p.block()
	return ast.NewFunction(name, params, body, kind == "method" && name.Lexeme == "init")
}

func (p *Parser) varDeclaration() ast.Stmt {
	name := p.consume(token.Identifier, "expected variable name")

	var initializer ast.Expr
	if p.match(token.Equal) {
		initializer = p.expression()
	}

	p.consume(token.Semicolon, "expected ';' after variable declaration")
	return ast.NewVar(name, initializer)
}

// ---- statements ------------------------------------------------------------

func (p *Parser) statement() ast.Stmt {
	switch {
	case p.match(token.For):
		return p.forStatement()
	case p.match(token.If):
		return p.ifStatement()
	case p.match(token.Return):
		return p.returnStatement()
	case p.match(token.While):
		return p.whileStatement()
	case p.match(token.LeftBrace):
		return ast.NewBlock(p.block())
	default:
		return p.expressionStatement()
	}
}

func (p *Parser) block() []ast.Stmt {
	var stmts []ast.Stmt
	for !p.check(token.RightBrace) && !p.isAtEnd() {
		if stmt := p.declaration(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	p.consume(token.RightBrace, "expected '}' after block")
	return stmts
}

// forStatement desugars `for (init; cond; incr) body` into a Block wrapping
// a While, per spec.md §4.2 — there is no dedicated ast.For node.
func (p *Parser) forStatement() ast.Stmt {
	p.consume(token.LeftParen, "expected '(' after 'for'")

	var initializer ast.Stmt
	switch {
	case p.match(token.Semicolon):
		initializer = nil
	case p.match(token.Let):
		initializer = p.varDeclaration()
	default:
		initializer = p.expressionStatement()
	}

	var cond ast.Expr
	if !p.check(token.Semicolon) {
		cond = p.expression()
	}
	p.consume(token.Semicolon, "expected ';' after loop condition")

	var increment ast.Expr
	if !p.check(token.RightParen) {
		increment = p.expression()
	}
	p.consume(token.RightParen, "expected ')' after for clauses")

	body := p.statement()

	if increment != nil {
		body = ast.NewBlock([]ast.Stmt{body, ast.NewExprStmt(increment)})
	}
	if cond == nil {
		cond = ast.NewLiteral(token.Literal{Kind: token.BoolLiteral, Bool: true})
	}
	body = ast.NewWhile(cond, body)

	if initializer != nil {
		body = ast.NewBlock([]ast.Stmt{initializer, body})
	}
	return body
}

func (p *Parser) ifStatement() ast.Stmt {
	p.consume(token.LeftParen, "expected '(' after 'if'")
	cond := p.expression()
	p.consume(token.RightParen, "expected ')' after if condition")

	then := p.statement()
	var els ast.Stmt
	if p.match(token.Else) {
		els = p.statement()
	}
	return ast.NewIf(cond, then, els)
}

func (p *Parser) returnStatement() ast.Stmt {
	keyword := p.previous()
	var value ast.Expr
	if !p.check(token.Semicolon) {
		value = p.expression()
	}
	p.consume(token.Semicolon, "expected ';' after return value")
	return ast.NewReturn(keyword, value)
}

func (p *Parser) whileStatement() ast.Stmt {
	p.consume(token.LeftParen, "expected '(' after 'while'")
	cond := p.expression()
	p.consume(token.RightParen, "expected ')' after while condition")
	body := p.statement()
	return ast.NewWhile(cond, body)
}

func (p *Parser) expressionStatement() ast.Stmt {
	expr := p.expression()
	p.consume(token.Semicolon, "expected ';' after expression")
	return ast.NewExprStmt(expr)
}

// ---- expressions ------------------------------------------------------------

func (p *Parser) expression() ast.Expr { return p.assignment() }

func (p *Parser) assignment() ast.Expr {
	expr := p.or()

	if p.match(token.Equal) {
		equals := p.previous()
		value := p.assignment()

		switch target := expr.(type) {
		case *ast.Variable:
			return ast.NewAssign(target.Name, value)
		case *ast.Get:
			return ast.NewSet(target.Object, target.Name, value)
		default:
			p.addError(equals, "invalid assignment target")
			return expr
		}
	}
	return expr
}

func (p *Parser) or() ast.Expr {
	expr := p.and()
	for p.match(token.Or) {
		op := p.previous()
		right := p.and()
		expr = ast.NewLogical(expr, op, right)
	}
	return expr
}

func (p *Parser) and() ast.Expr {
	expr := p.equality()
	for p.match(token.And) {
		op := p.previous()
		right := p.equality()
		expr = ast.NewLogical(expr, op, right)
	}
	return expr
}

func (p *Parser) equality() ast.Expr {
	expr := p.comparison()
	for p.match(token.BangEqual, token.EqualEqual) {
		op := p.previous()
		right := p.comparison()
		expr = ast.NewBinary(expr, op, right)
	}
	return expr
}

func (p *Parser) comparison() ast.Expr {
	expr := p.term()
	for p.match(token.Greater, token.GreaterEqual, token.Less, token.LessEqual) {
		op := p.previous()
		right := p.term()
		expr = ast.NewBinary(expr, op, right)
	}
	return expr
}

func (p *Parser) term() ast.Expr {
	expr := p.factor()
	for p.match(token.Minus, token.Plus) {
		op := p.previous()
		right := p.factor()
		expr = ast.NewBinary(expr, op, right)
	}
	return expr
}

func (p *Parser) factor() ast.Expr {
	expr := p.unary()
	for p.match(token.Slash, token.Star) {
		op := p.previous()
		right := p.unary()
		expr = ast.NewBinary(expr, op, right)
	}
	return expr
}

func (p *Parser) unary() ast.Expr {
	if p.match(token.Bang, token.Minus) {
		op := p.previous()
		right := p.unary()
		return ast.NewUnary(op, right)
	}
	return p.call()
}

func (p *Parser) call() ast.Expr {
	expr := p.primary()

	for {
		switch {
		case p.match(token.LeftParen):
			expr = p.finishCall(expr)
		case p.match(token.Dot):
			name := p.consume(token.Identifier, "expected property name after '.'")
			expr = ast.NewGet(expr, name)
		default:
			return expr
		}
	}
}

func (p *Parser) finishCall(callee ast.Expr) ast.Expr {
	var args []ast.Expr
	if !p.check(token.RightParen) {
		for {
			if len(args) >= maxArgs {
				p.addError(p.peek(), fmt.Sprintf("can't have more than %d arguments", maxArgs))
			}
			args = append(args, p.expression())
			if !p.match(token.Comma) {
				break
			}
		}
	}
	paren := p.consume(token.RightParen, "expected ')' after arguments")
	return ast.NewCall(callee, paren, args)
}

func (p *Parser) primary() ast.Expr {
	switch {
	case p.match(token.False):
		return ast.NewLiteral(token.Literal{Kind: token.BoolLiteral, Bool: false})
	case p.match(token.True):
		return ast.NewLiteral(token.Literal{Kind: token.BoolLiteral, Bool: true})
	case p.match(token.Null):
		return ast.NewLiteral(token.Literal{Kind: token.NilLiteral})
	case p.match(token.Number, token.String):
		return ast.NewLiteral(p.previous().Literal)
	case p.match(token.Super):
		keyword := p.previous()
		p.consume(token.Dot, "expected '.' after 'super'")
		method := p.consume(token.Identifier, "expected superclass method name")
		return ast.NewSuper(keyword, method)
	case p.match(token.This):
		return ast.NewThis(p.previous())
	case p.match(token.Identifier):
		return ast.NewVariable(p.previous())
	case p.match(token.LeftParen):
		expr := p.expression()
		p.consume(token.RightParen, "expected ')' after expression")
		return ast.NewGrouping(expr)
	default:
		p.abort(p.peek(), "expected expression")
		return nil
	}
}
