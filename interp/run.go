package interp

import (
	"github.com/sail-lang/sail/ast"
	"github.com/sail-lang/sail/lexer"
	"github.com/sail-lang/sail/parser"
	"github.com/sail-lang/sail/resolver"
)

// Compile runs source through the lexer, parser, and resolver, in that
// order, and returns the parsed program plus its scope-distance table.
// Lex errors are terminal (the lexer itself only ever returns the
// first); parse and resolve errors are collected so a single source can
// report more than one mistake before compilation is abandoned.
func Compile(source string) ([]ast.Stmt, resolver.Table, []error) {
	tokens, err := lexer.New(source).Scan()
	if err != nil {
		return nil, nil, []error{err}
	}

	p := parser.New(tokens)
	stmts := p.Parse()
	if p.HasErrors() {
		return nil, nil, p.Errors()
	}

	res := resolver.New()
	table := res.Resolve(stmts)
	if res.HasErrors() {
		return nil, nil, res.Errors()
	}

	return stmts, table, nil
}

// Run compiles source and interprets it against it, reusing it's globals
// and environment across calls so a REPL session's bindings persist
// between lines. It returns every compile error found, or a single
// runtime error if compilation succeeded but execution failed.
func Run(it *Interpreter, source string) []error {
	stmts, table, errs := Compile(source)
	if len(errs) > 0 {
		return errs
	}
	it.Resolve(table)
	if err := it.Interpret(stmts); err != nil {
		return []error{err}
	}
	return nil
}
