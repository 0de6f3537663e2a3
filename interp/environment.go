package interp

import (
	"fmt"

	"github.com/sail-lang/sail/token"
)

// Environment is one link in the scope chain: a mutable binding map plus
// a pointer to the enclosing environment. The LookUp/Bind/Assign
// chain-walking shape is reused directly from go-mix's scope.Scope;
// GetAt/AssignAt (skip exactly d links, no chain walking) are new,
// grounded on the reference Lox interpreter's environment.assignAt /
// Interpreter.locals lookup pattern the resolver's depth table exists to
// drive.
type Environment struct {
	values    map[string]Value
	enclosing *Environment
}

// NewEnvironment creates an Environment enclosed by parent, or a fresh
// global scope if parent is nil.
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{values: make(map[string]Value), enclosing: parent}
}

// Define binds name in this environment, overwriting any existing
// binding. Used both for fresh declarations and for the
// define-placeholder-then-assign pattern Class declarations use.
func (e *Environment) Define(name string, v Value) {
	e.values[name] = v
}

// Get walks the enclosing chain looking for name.
func (e *Environment) Get(name token.Token) (Value, error) {
	if v, ok := e.values[name.Lexeme]; ok {
		return v, nil
	}
	if e.enclosing != nil {
		return e.enclosing.Get(name)
	}
	return nil, &RuntimeError{Tok: name, Message: fmt.Sprintf("undefined variable '%s'", name.Lexeme)}
}

// Assign walks the enclosing chain and updates the first binding found.
func (e *Environment) Assign(name token.Token, v Value) error {
	if _, ok := e.values[name.Lexeme]; ok {
		e.values[name.Lexeme] = v
		return nil
	}
	if e.enclosing != nil {
		return e.enclosing.Assign(name, v)
	}
	return &RuntimeError{Tok: name, Message: fmt.Sprintf("undefined variable '%s'", name.Lexeme)}
}

// Ancestor follows enclosing exactly distance times. The resolver
// guarantees the chain is long enough for any depth it records.
func (e *Environment) Ancestor(distance int) *Environment {
	env := e
	for i := 0; i < distance; i++ {
		env = env.enclosing
	}
	return env
}

// GetAt reads name directly out of the environment distance links up,
// with no further chain walking.
func (e *Environment) GetAt(distance int, name string) Value {
	return e.Ancestor(distance).values[name]
}

// AssignAt writes name directly into the environment distance links up.
func (e *Environment) AssignAt(distance int, name token.Token, v Value) {
	e.Ancestor(distance).values[name.Lexeme] = v
}
