package interp

import (
	"fmt"
	"time"
)

// registerBuiltins installs Sail's three global natives before any user
// code runs, in the manner of go-mix's objects.Builtins registration
// table (objects/builtins.go) — a name plus a callback, bound once into
// the global environment rather than dispatched through a separate
// IsBuiltin/InvokeBuiltin lookup path, since Sail natives are ordinary
// Callable values once installed.
func registerBuiltins(globals *Environment) {
	for _, n := range []*Native{
		{Name: "print", ArityVal: VariadicArity, Fn: nativePrint},
		{Name: "millis", ArityVal: 0, Fn: nativeMillis},
		{Name: "seconds", ArityVal: 0, Fn: nativeSeconds},
	} {
		globals.Define(n.Name, n)
	}
}

// nativePrint writes each argument on its own line to the interpreter's
// configured writer, grounded on objects/builtins.go's println but
// emitting one line per argument (spec's print contract) rather than
// space-joining them onto a single line.
func nativePrint(it *Interpreter, args []Value) (Value, error) {
	for _, arg := range args {
		fmt.Fprintln(it.out, arg.String())
	}
	return NilValue, nil
}

// nativeMillis returns the Unix epoch in milliseconds, grounded on
// std/time.go's now_ms (time.Now().UnixMilli()).
func nativeMillis(it *Interpreter, args []Value) (Value, error) {
	return Number(time.Now().UnixMilli()), nil
}

// nativeSeconds returns the Unix epoch in seconds, grounded on
// std/time.go's now (time.Now().Unix()).
func nativeSeconds(it *Interpreter, args []Value) (Value, error) {
	return Number(time.Now().Unix()), nil
}
