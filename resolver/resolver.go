// Package resolver performs a single static pass over a parsed program,
// computing for every variable-like expression the number of enclosing
// lexical scopes to skip before reaching its binding. The result is a
// side table the interpreter consults instead of walking the environment
// chain by name at every lookup.
//
// go-mix has no equivalent pass: it interprets directly over a mutable
// scope chain and resolves names dynamically at each access. This
// package is grounded on the resolve-then-interpret split found in the
// reference Lox-in-Go interpreter in the retrieval pack, adapted to key
// its table by the ast package's monotonic node ids instead of raw
// expression-pointer identity.
package resolver

import (
	"fmt"

	"github.com/sail-lang/sail/ast"
)

// Error is a static resolution error: a duplicate declaration, an
// out-of-place return/this/super, or a self-referencing initializer.
type Error struct {
	Line    int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// Table maps an ast.Node's id to the number of enclosing environments to
// skip before reaching its binding. Absence of an entry means global.
type Table map[int]int

type functionKind int

const (
	noFunction functionKind = iota
	inFunction
	inMethod
	inInitializer
)

type classKind int

const (
	noClass classKind = iota
	inClass
	inSubclass
)

// Resolver walks a program once, producing a Table and collecting Errors.
type Resolver struct {
	scopes          []map[string]bool
	table           Table
	currentFunction functionKind
	currentClass    classKind
	errors          []error
}

// New creates a Resolver ready to Resolve a program.
func New() *Resolver {
	return &Resolver{table: make(Table)}
}

// Resolve walks stmts and returns the populated scope-distance Table.
// Call Errors afterward to check for static errors.
func (r *Resolver) Resolve(stmts []ast.Stmt) Table {
	r.resolveStmts(stmts)
	return r.table
}

// Errors returns every Error collected during Resolve.
func (r *Resolver) Errors() []error { return r.errors }

// HasErrors reports whether Resolve found at least one static error.
func (r *Resolver) HasErrors() bool { return len(r.errors) > 0 }

func (r *Resolver) addError(line int, message string) {
	r.errors = append(r.errors, &Error{Line: line, Message: message})
}

// ---- scope stack -----------------------------------------------------------

func (r *Resolver) beginScope() { r.scopes = append(r.scopes, map[string]bool{}) }
func (r *Resolver) endScope()   { r.scopes = r.scopes[:len(r.scopes)-1] }

func (r *Resolver) declare(name string, line int) {
	if len(r.scopes) == 0 {
		return
	}
	scope := r.scopes[len(r.scopes)-1]
	if _, ok := scope[name]; ok {
		r.addError(line, fmt.Sprintf("'%s' already declared in this scope", name))
	}
	scope[name] = false
}

func (r *Resolver) define(name string) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name] = true
}

func (r *Resolver) resolveLocal(node ast.Node, name string) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name]; ok {
			r.table[node.NodeID()] = len(r.scopes) - 1 - i
			return
		}
	}
	// Not found in any scope: treated as global, no table entry written.
}

// ---- statements -------------------------------------------------------------

func (r *Resolver) resolveStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		r.resolveStmt(s)
	}
}

func (r *Resolver) resolveStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.Block:
		r.beginScope()
		r.resolveStmts(s.Stmts)
		r.endScope()

	case *ast.Var:
		r.declare(s.Name.Lexeme, s.Name.Line)
		if s.Initializer != nil {
			r.resolveExpr(s.Initializer)
		}
		r.define(s.Name.Lexeme)

	case *ast.Function:
		r.declare(s.Name.Lexeme, s.Name.Line)
		r.define(s.Name.Lexeme)
		r.resolveFunction(s, inFunction)

	case *ast.Class:
		r.resolveClass(s)

	case *ast.ExprStmt:
		r.resolveExpr(s.Expr)

	case *ast.If:
		r.resolveExpr(s.Cond)
		r.resolveStmt(s.Then)
		if s.Else != nil {
			r.resolveStmt(s.Else)
		}

	case *ast.While:
		r.resolveExpr(s.Cond)
		r.resolveStmt(s.Body)

	case *ast.Return:
		if r.currentFunction == noFunction {
			r.addError(s.Keyword.Line, "cannot return from top-level code")
		}
		if s.Value != nil {
			if r.currentFunction == inInitializer {
				r.addError(s.Keyword.Line, "cannot return a value from an initializer")
			}
			r.resolveExpr(s.Value)
		}
	}
}

func (r *Resolver) resolveFunction(fn *ast.Function, kind functionKind) {
	enclosingFunction := r.currentFunction
	r.currentFunction = kind

	r.beginScope()
	for _, param := range fn.Params {
		r.declare(param.Lexeme, param.Line)
		r.define(param.Lexeme)
	}
	r.resolveStmts(fn.Body)
	r.endScope()

	r.currentFunction = enclosingFunction
}

func (r *Resolver) resolveClass(cls *ast.Class) {
	enclosingClass := r.currentClass
	r.currentClass = inClass

	r.declare(cls.Name.Lexeme, cls.Name.Line)
	r.define(cls.Name.Lexeme)

	if cls.Superclass != nil {
		if cls.Superclass.Name.Lexeme == cls.Name.Lexeme {
			r.addError(cls.Superclass.Name.Line, "a class can't inherit from itself")
		}
		r.resolveExpr(cls.Superclass)
		r.currentClass = inSubclass

		r.beginScope()
		r.scopes[len(r.scopes)-1]["super"] = true
	}

	r.beginScope()
	r.scopes[len(r.scopes)-1]["this"] = true

	for _, method := range cls.Methods {
		kind := inMethod
		if method.Name.Lexeme == "init" {
			kind = inInitializer
		}
		r.resolveFunction(method, kind)
	}

	r.endScope()

	if cls.Superclass != nil {
		r.endScope()
	}

	r.currentClass = enclosingClass
}

// ---- expressions ------------------------------------------------------------

func (r *Resolver) resolveExpr(expr ast.Expr) {
	switch e := expr.(type) {
	case *ast.Variable:
		if len(r.scopes) > 0 {
			if defined, ok := r.scopes[len(r.scopes)-1][e.Name.Lexeme]; ok && !defined {
				r.addError(e.Name.Line, fmt.Sprintf("can't read local variable '%s' in its own initializer", e.Name.Lexeme))
			}
		}
		r.resolveLocal(e, e.Name.Lexeme)

	case *ast.Assign:
		r.resolveExpr(e.Value)
		r.resolveLocal(e, e.Name.Lexeme)

	case *ast.This:
		if r.currentClass == noClass {
			r.addError(e.Keyword.Line, "can't use 'this' outside of a class")
			return
		}
		r.resolveLocal(e, "this")

	case *ast.Super:
		if r.currentClass == noClass {
			r.addError(e.Keyword.Line, "can't use 'super' outside of a class")
		} else if r.currentClass != inSubclass {
			r.addError(e.Keyword.Line, "can't use 'super' in a class with no superclass")
		}
		r.resolveLocal(e, "super")

	case *ast.Binary:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)

	case *ast.Logical:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)

	case *ast.Unary:
		r.resolveExpr(e.Right)

	case *ast.Grouping:
		r.resolveExpr(e.Inner)

	case *ast.Call:
		r.resolveExpr(e.Callee)
		for _, arg := range e.Args {
			r.resolveExpr(arg)
		}

	case *ast.Get:
		r.resolveExpr(e.Object)

	case *ast.Set:
		r.resolveExpr(e.Value)
		r.resolveExpr(e.Object)

	case *ast.Literal:
		// no names to resolve
	}
}
