package interp

import (
	"fmt"
	"io"

	"github.com/sail-lang/sail/ast"
	"github.com/sail-lang/sail/resolver"
	"github.com/sail-lang/sail/token"
)

// Interpreter walks the AST against a live global environment and a
// current environment (initially equal), consulting a resolver.Table to
// resolve variable-like expressions without walking the chain by name.
//
// Its shape — an output io.Writer, a global environment created once, a
// current environment that gets swapped for the duration of a block —
// is grounded on eval.Evaluator (Scp/Writer fields, SetWriter). Unlike
// go-mix, which has no separate resolution pass, variable and this
// lookups here first consult locals and fall back to the global
// environment when the resolver recorded no depth; super always reads
// at its recorded depth.
type Interpreter struct {
	globals *Environment
	env     *Environment
	locals  resolver.Table
	out     io.Writer
}

// New creates an Interpreter with Sail's builtin globals installed and
// output directed at out.
func New(out io.Writer) *Interpreter {
	globals := NewEnvironment(nil)
	it := &Interpreter{globals: globals, env: globals, locals: resolver.Table{}, out: out}
	registerBuiltins(globals)
	return it
}

// Resolve merges the scope-distance table a resolver.Resolver produced
// for the program about to be interpreted into the interpreter's
// running table. Merging rather than replacing matters for the REPL:
// each line is compiled with its own fresh Resolver, but closures
// defined on an earlier line must keep resolving against their original
// depths when invoked from a later one.
func (it *Interpreter) Resolve(table resolver.Table) {
	for id, depth := range table {
		it.locals[id] = depth
	}
}

// Interpret runs a program's statements in order, stopping at the first
// error (a RuntimeError, or a misplaced returnSignal that escaped every
// enclosing function call).
func (it *Interpreter) Interpret(stmts []ast.Stmt) error {
	for _, stmt := range stmts {
		if err := it.execute(stmt); err != nil {
			return err
		}
	}
	return nil
}

// ---- statement execution ---------------------------------------------------

func (it *Interpreter) execute(stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case *ast.ExprStmt:
		_, err := it.evaluate(s.Expr)
		return err

	case *ast.Block:
		return it.executeBlock(s.Stmts, NewEnvironment(it.env))

	case *ast.Var:
		var value Value = NilValue
		if s.Initializer != nil {
			v, err := it.evaluate(s.Initializer)
			if err != nil {
				return err
			}
			value = v
		}
		it.env.Define(s.Name.Lexeme, value)
		return nil

	case *ast.If:
		cond, err := it.evaluate(s.Cond)
		if err != nil {
			return err
		}
		if Truthy(cond) {
			return it.execute(s.Then)
		}
		if s.Else != nil {
			return it.execute(s.Else)
		}
		return nil

	case *ast.While:
		for {
			cond, err := it.evaluate(s.Cond)
			if err != nil {
				return err
			}
			if !Truthy(cond) {
				return nil
			}
			if err := it.execute(s.Body); err != nil {
				return err
			}
		}

	case *ast.Function:
		fn := &Function{Decl: s, Closure: it.env, IsInitializer: false}
		it.env.Define(s.Name.Lexeme, fn)
		return nil

	case *ast.Class:
		return it.executeClass(s)

	case *ast.Return:
		var value Value = NilValue
		if s.Value != nil {
			v, err := it.evaluate(s.Value)
			if err != nil {
				return err
			}
			value = v
		}
		return &returnSignal{value: value}

	default:
		return fmt.Errorf("interp: unhandled statement type %T", stmt)
	}
}

// executeBlock swaps the current environment for env for the duration of
// stmts, restoring the previous environment on every exit path —
// including a returnSignal or any other error — via defer, satisfying
// the scoped-acquisition contract.
func (it *Interpreter) executeBlock(stmts []ast.Stmt, env *Environment) error {
	previous := it.env
	it.env = env
	defer func() { it.env = previous }()

	for _, stmt := range stmts {
		if err := it.execute(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (it *Interpreter) executeClass(c *ast.Class) error {
	var superclass *Class
	if c.Superclass != nil {
		v, err := it.evaluate(c.Superclass)
		if err != nil {
			return err
		}
		sc, ok := v.(*Class)
		if !ok {
			return &RuntimeError{Tok: c.Superclass.Name, Message: "superclass must be a class"}
		}
		superclass = sc
	}

	it.env.Define(c.Name.Lexeme, NilValue)

	methodEnv := it.env
	if superclass != nil {
		methodEnv = NewEnvironment(it.env)
		methodEnv.Define("super", superclass)
	}

	methods := make(map[string]*Function, len(c.Methods))
	for _, m := range c.Methods {
		methods[m.Name.Lexeme] = &Function{Decl: m, Closure: methodEnv, IsInitializer: m.IsInitializer}
	}

	class := &Class{Name: c.Name.Lexeme, Superclass: superclass, Methods: methods}
	return it.env.Assign(c.Name, class)
}

// ---- expression evaluation --------------------------------------------------

func (it *Interpreter) evaluate(expr ast.Expr) (Value, error) {
	switch e := expr.(type) {
	case *ast.Literal:
		return literalValue(e.Value), nil

	case *ast.Grouping:
		return it.evaluate(e.Inner)

	case *ast.Unary:
		right, err := it.evaluate(e.Right)
		if err != nil {
			return nil, err
		}
		switch e.Op.Type {
		case token.Bang:
			return Bool(!Truthy(right)), nil
		case token.Minus:
			n, ok := asNumber(right)
			if !ok {
				return nil, &RuntimeError{Tok: e.Op, Message: "operand must be a number"}
			}
			return Number(-n), nil
		}
		return nil, &RuntimeError{Tok: e.Op, Message: "unknown unary operator"}

	case *ast.Binary:
		return it.evaluateBinary(e)

	case *ast.Logical:
		left, err := it.evaluate(e.Left)
		if err != nil {
			return nil, err
		}
		if e.Op.Type == token.Or {
			if Truthy(left) {
				return left, nil
			}
		} else {
			if !Truthy(left) {
				return left, nil
			}
		}
		return it.evaluate(e.Right)

	case *ast.Variable:
		return it.lookUpVariable(e.Name, e)

	case *ast.Assign:
		value, err := it.evaluate(e.Value)
		if err != nil {
			return nil, err
		}
		if distance, ok := it.locals[e.NodeID()]; ok {
			it.env.AssignAt(distance, e.Name, value)
		} else if err := it.globals.Assign(e.Name, value); err != nil {
			return nil, err
		}
		return value, nil

	case *ast.Call:
		return it.evaluateCall(e)

	case *ast.Get:
		obj, err := it.evaluate(e.Object)
		if err != nil {
			return nil, err
		}
		inst, ok := obj.(*Instance)
		if !ok {
			return nil, &RuntimeError{Tok: e.Name, Message: "only instances have properties"}
		}
		return inst.Get(e.Name)

	case *ast.Set:
		obj, err := it.evaluate(e.Object)
		if err != nil {
			return nil, err
		}
		inst, ok := obj.(*Instance)
		if !ok {
			return nil, &RuntimeError{Tok: e.Name, Message: "only instances have fields"}
		}
		value, err := it.evaluate(e.Value)
		if err != nil {
			return nil, err
		}
		inst.Set(e.Name, value)
		return value, nil

	case *ast.This:
		return it.lookUpVariable(e.Keyword, e)

	case *ast.Super:
		return it.evaluateSuper(e)

	default:
		return nil, fmt.Errorf("interp: unhandled expression type %T", expr)
	}
}

func literalValue(lit token.Literal) Value {
	switch lit.Kind {
	case token.StrLiteral:
		return String(lit.Str)
	case token.NumLiteral:
		return Number(lit.Num)
	case token.BoolLiteral:
		return Bool(lit.Bool)
	default:
		return NilValue
	}
}

func (it *Interpreter) lookUpVariable(name token.Token, node ast.Node) (Value, error) {
	if distance, ok := it.locals[node.NodeID()]; ok {
		return it.env.GetAt(distance, name.Lexeme), nil
	}
	return it.globals.Get(name)
}

func (it *Interpreter) evaluateBinary(e *ast.Binary) (Value, error) {
	left, err := it.evaluate(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := it.evaluate(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Op.Type {
	case token.Plus:
		if ls, ok := left.(String); ok {
			if rs, ok := right.(String); ok {
				return ls + rs, nil
			}
		}
		ln, lok := asNumber(left)
		rn, rok := asNumber(right)
		if !lok || !rok {
			return nil, &RuntimeError{Tok: e.Op, Message: "operands must be two numbers or two strings"}
		}
		return Number(ln + rn), nil

	case token.Minus, token.Star, token.Slash, token.Greater, token.GreaterEqual, token.Less, token.LessEqual:
		ln, lok := asNumber(left)
		rn, rok := asNumber(right)
		if !lok || !rok {
			return nil, &RuntimeError{Tok: e.Op, Message: "operands must be numbers"}
		}
		switch e.Op.Type {
		case token.Minus:
			return Number(ln - rn), nil
		case token.Star:
			return Number(ln * rn), nil
		case token.Slash:
			return Number(ln / rn), nil
		case token.Greater:
			return Bool(ln > rn), nil
		case token.GreaterEqual:
			return Bool(ln >= rn), nil
		case token.Less:
			return Bool(ln < rn), nil
		case token.LessEqual:
			return Bool(ln <= rn), nil
		}

	case token.EqualEqual:
		return Bool(valuesEqual(left, right)), nil
	case token.BangEqual:
		return Bool(!valuesEqual(left, right)), nil
	}
	return nil, &RuntimeError{Tok: e.Op, Message: "unknown binary operator"}
}

func (it *Interpreter) evaluateCall(e *ast.Call) (Value, error) {
	callee, err := it.evaluate(e.Callee)
	if err != nil {
		return nil, err
	}

	args := make([]Value, len(e.Args))
	for i, argExpr := range e.Args {
		v, err := it.evaluate(argExpr)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	callable, ok := callee.(Callable)
	if !ok {
		return nil, &RuntimeError{Tok: e.Paren, Message: "can only call functions and classes"}
	}

	arity := callable.Arity()
	if arity != VariadicArity && arity != len(args) {
		return nil, &RuntimeError{
			Tok:     e.Paren,
			Message: fmt.Sprintf("expected %d arguments but got %d", arity, len(args)),
		}
	}

	return callable.Call(it, args)
}

func (it *Interpreter) evaluateSuper(e *ast.Super) (Value, error) {
	distance := it.locals[e.NodeID()]
	superVal := it.env.GetAt(distance, "super")
	superclass, ok := superVal.(*Class)
	if !ok {
		return nil, &RuntimeError{Tok: e.Keyword, Message: "'super' is not bound to a class"}
	}

	thisVal := it.env.GetAt(distance-1, "this")
	instance, ok := thisVal.(*Instance)
	if !ok {
		return nil, &RuntimeError{Tok: e.Keyword, Message: "'this' is not bound to an instance"}
	}

	method, ok := superclass.FindMethod(e.Method.Lexeme)
	if !ok {
		return nil, &RuntimeError{Tok: e.Method, Message: fmt.Sprintf("undefined property '%s'", e.Method.Lexeme)}
	}
	return &BoundMethod{Receiver: instance, Method: method}, nil
}
