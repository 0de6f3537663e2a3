package interp

import (
	"fmt"

	"github.com/sail-lang/sail/token"
)

// RuntimeError is any failure surfaced while evaluating an AST: a type
// error, arity mismatch, undefined variable, undefined property,
// non-callable call, non-instance field access, or non-class superclass.
type RuntimeError struct {
	Tok     token.Token
	Message string
}

func (e *RuntimeError) Error() string {
	if e.Tok.Type == token.EOF {
		return fmt.Sprintf("line %d at end: %s", e.Tok.Line, e.Message)
	}
	return fmt.Sprintf("line %d: %s", e.Tok.Line, e.Message)
}

// returnSignal is threaded through execute/executeBlock as a Go error to
// propagate a `return` statement's value back to the enclosing
// Function.Call, mirroring go-mix's ReturnValue wrapper threaded through
// Eval's results but using Go's ordinary error-return plumbing (spec's
// option (b), "thread ControlFlow<Value>") rather than an exception.
type returnSignal struct {
	value Value
}

func (*returnSignal) Error() string { return "return outside of function" }
