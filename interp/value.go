// Package interp walks the AST against a live environment, producing
// values and side effects.
//
// The Value model follows the shape of go-mix's objects.GoMixObject
// family (GetType/ToString/ToObject on every concrete type), retargeted
// at Sail's smaller, dynamically-typed value set: numbers, strings,
// booleans, nil, user functions, classes, bound methods, instances, and
// host-provided natives. Class/Instance/BoundMethod have no equivalent in
// go-mix's objects.GoMixStruct (which carries no superclass field); their
// shape is grounded on the reference Lox-in-Go interpreter found in the
// retrieval pack instead.
package interp

import (
	"fmt"
	"strconv"

	"github.com/sail-lang/sail/ast"
	"github.com/sail-lang/sail/token"
)

// Kind identifies a Value's runtime variant.
type Kind string

const (
	NumberKind      Kind = "number"
	StringKind      Kind = "string"
	BoolKind        Kind = "bool"
	NilKind         Kind = "nil"
	FunctionKind    Kind = "function"
	ClassKind       Kind = "class"
	BoundMethodKind Kind = "bound method"
	InstanceKind    Kind = "instance"
	NativeKind      Kind = "native function"
)

// Value is implemented by every runtime value Sail programs can produce.
type Value interface {
	Kind() Kind
	String() string
}

// Callable is implemented by every Value that can appear as the callee of
// a Call expression: user functions, classes (construction), bound
// methods, and natives.
type Callable interface {
	Value
	// Arity returns the number of arguments this callable accepts, or
	// VariadicArity if any count is accepted.
	Arity() int
	Call(it *Interpreter, args []Value) (Value, error)
}

// VariadicArity is the sentinel Arity a variadic Callable (only natives,
// in Sail) returns to signal that any argument count is accepted.
const VariadicArity = -1

// Number is a double-precision value.
type Number float64

func (Number) Kind() Kind { return NumberKind }
func (n Number) String() string {
	return strconv.FormatFloat(float64(n), 'g', -1, 64)
}

// String is a Sail string value.
type String string

func (String) Kind() Kind       { return StringKind }
func (s String) String() string { return string(s) }

// Bool is a Sail boolean value.
type Bool bool

func (Bool) Kind() Kind       { return BoolKind }
func (b Bool) String() string { return strconv.FormatBool(bool(b)) }

// Nil is the single null value.
type Nil struct{}

func (Nil) Kind() Kind     { return NilKind }
func (Nil) String() string { return "null" }

// NilValue is the canonical Nil instance; comparisons and returns use
// this rather than constructing fresh Nil{} values.
var NilValue = Nil{}

// Function is a user-defined function or method: its declaration plus
// the environment it closed over at definition time.
type Function struct {
	Decl          *ast.Function
	Closure       *Environment
	IsInitializer bool
}

func (*Function) Kind() Kind { return FunctionKind }
func (f *Function) String() string {
	return fmt.Sprintf("<fn %s>", f.Decl.Name.Lexeme)
}
func (f *Function) Arity() int { return len(f.Decl.Params) }

// Call runs the function body in a fresh environment enclosing its
// closure, with parameters bound to args. A bare return inside an
// initializer (or falling off the end of one) always yields the bound
// receiver, never the return expression's value.
func (f *Function) Call(it *Interpreter, args []Value) (Value, error) {
	env := NewEnvironment(f.Closure)
	for i, param := range f.Decl.Params {
		env.Define(param.Lexeme, args[i])
	}

	err := it.executeBlock(f.Decl.Body, env)
	if err != nil {
		if rs, ok := err.(*returnSignal); ok {
			if f.IsInitializer {
				return f.boundThis()
			}
			return rs.value, nil
		}
		return nil, err
	}

	if f.IsInitializer {
		return f.boundThis()
	}
	return NilValue, nil
}

// boundThis retrieves the receiver a bound method's Bind call injected
// directly into its Closure.
func (f *Function) boundThis() (Value, error) {
	return f.Closure.Get(token.Token{Type: token.This, Lexeme: "this"})
}

// Bind returns a copy of f whose closure additionally defines "this" as
// instance, so the method body resolves `this` there. Grounded on the
// reference Lox interpreter's bindThis pattern (go-mix has no method
// binding: it pushes `this`/`self` directly into a fresh call scope
// instead of threading it through a closure).
func (f *Function) Bind(instance *Instance) *Function {
	env := NewEnvironment(f.Closure)
	env.Define("this", instance)
	return &Function{Decl: f.Decl, Closure: env, IsInitializer: f.IsInitializer}
}

// Class is a callable class value: calling it constructs an Instance and
// runs its "init" method, if any.
type Class struct {
	Name       string
	Superclass *Class
	Methods    map[string]*Function
}

func (*Class) Kind() Kind        { return ClassKind }
func (c *Class) String() string { return c.Name }

// FindMethod looks up a method by name, walking the superclass chain on
// miss.
func (c *Class) FindMethod(name string) (*Function, bool) {
	if m, ok := c.Methods[name]; ok {
		return m, true
	}
	if c.Superclass != nil {
		return c.Superclass.FindMethod(name)
	}
	return nil, false
}

func (c *Class) Arity() int {
	if init, ok := c.FindMethod("init"); ok {
		return init.Arity()
	}
	return 0
}

func (c *Class) Call(it *Interpreter, args []Value) (Value, error) {
	instance := &Instance{Class: c, Fields: make(map[string]Value)}
	if init, ok := c.FindMethod("init"); ok {
		if _, err := init.Bind(instance).Call(it, args); err != nil {
			return nil, err
		}
	}
	return instance, nil
}

// BoundMethod pairs a receiver with one of its class's methods. Sail's
// Get expression produces one when a property access resolves to a
// method rather than a field; Super produces one bound to the current
// `this` rather than the raw unbound method.
type BoundMethod struct {
	Receiver *Instance
	Method   *Function
}

func (*BoundMethod) Kind() Kind { return BoundMethodKind }
func (b *BoundMethod) String() string {
	return fmt.Sprintf("<bound method %s of %s>", b.Method.Decl.Name.Lexeme, b.Receiver.String())
}
func (b *BoundMethod) Arity() int { return b.Method.Arity() }
func (b *BoundMethod) Call(it *Interpreter, args []Value) (Value, error) {
	return b.Method.Bind(b.Receiver).Call(it, args)
}

// Instance is a live object: a reference to its class plus a mutable
// field map.
type Instance struct {
	Class  *Class
	Fields map[string]Value
}

func (*Instance) Kind() Kind { return InstanceKind }
func (i *Instance) String() string {
	return fmt.Sprintf("<%s instance>", i.Class.Name)
}

// Get reads a field, or binds and returns a method if name isn't a
// field.
func (i *Instance) Get(name token.Token) (Value, error) {
	if v, ok := i.Fields[name.Lexeme]; ok {
		return v, nil
	}
	if m, ok := i.Class.FindMethod(name.Lexeme); ok {
		return &BoundMethod{Receiver: i, Method: m}, nil
	}
	return nil, &RuntimeError{Tok: name, Message: fmt.Sprintf("undefined property '%s'", name.Lexeme)}
}

// Set writes a field unconditionally, creating it if absent.
func (i *Instance) Set(name token.Token, value Value) {
	i.Fields[name.Lexeme] = value
}

// NativeFunc is the Go function a Native wraps.
type NativeFunc func(it *Interpreter, args []Value) (Value, error)

// Native is a host-provided builtin (print, millis, seconds).
type Native struct {
	Name     string
	ArityVal int
	Fn       NativeFunc
}

func (*Native) Kind() Kind       { return NativeKind }
func (n *Native) String() string { return fmt.Sprintf("<native fn %s>", n.Name) }
func (n *Native) Arity() int     { return n.ArityVal }
func (n *Native) Call(it *Interpreter, args []Value) (Value, error) {
	return n.Fn(it, args)
}

// Truthy implements Lox-tradition truthiness: only Nil and the boolean
// false are falsey (spec's "recommended" rule over the draft that also
// treats 0 and "" as falsey).
func Truthy(v Value) bool {
	switch val := v.(type) {
	case Nil:
		return false
	case Bool:
		return bool(val)
	default:
		return true
	}
}

// asNumber coerces v to a float64: numbers pass through, booleans coerce
// to 0/1, everything else fails.
func asNumber(v Value) (float64, bool) {
	switch val := v.(type) {
	case Number:
		return float64(val), true
	case Bool:
		if val {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// valuesEqual implements structural equality: different variants compare
// unequal, Nil == Nil is true, and float equality follows IEEE-754 (so
// NaN != NaN).
func valuesEqual(a, b Value) bool {
	switch av := a.(type) {
	case Nil:
		_, ok := b.(Nil)
		return ok
	case Number:
		bv, ok := b.(Number)
		return ok && float64(av) == float64(bv)
	case String:
		bv, ok := b.(String)
		return ok && av == bv
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case *Instance:
		bv, ok := b.(*Instance)
		return ok && av == bv
	default:
		return a == b
	}
}
