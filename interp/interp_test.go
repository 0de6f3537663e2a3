package interp

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sail-lang/sail/token"
)

func run(t *testing.T, src string) (string, []error) {
	t.Helper()
	var buf bytes.Buffer
	it := New(&buf)
	errs := Run(it, src)
	return buf.String(), errs
}

func runOK(t *testing.T, src string) string {
	t.Helper()
	out, errs := run(t, src)
	require.Empty(t, errs, "unexpected errors: %v", errs)
	return out
}

func TestInterp_ClosuresCaptureByReference(t *testing.T) {
	out := runOK(t, `
		fn make() { let i = 0; fn tick() { i = i + 1; print(i); } return tick; }
		let t = make(); t(); t(); t();
	`)
	assert.Equal(t, "1\n2\n3\n", out)
}

func TestInterp_ClassesMethodsAndThis(t *testing.T) {
	out := runOK(t, `
		class Greeter { init(who) { this.who = who; } hi() { print("hello " + this.who); } }
		Greeter("world").hi();
	`)
	assert.Equal(t, "hello world\n", out)
}

func TestInterp_InheritanceWithSuper(t *testing.T) {
	out := runOK(t, `
		class A { speak() { print("A"); } }
		class B < A { speak() { super.speak(); print("B"); } }
		B().speak();
	`)
	assert.Equal(t, "A\nB\n", out)
}

func TestInterp_ForDesugarsToWhile(t *testing.T) {
	out := runOK(t, `for (let i = 0; i < 3; i = i + 1) print(i);`)
	assert.Equal(t, "0\n1\n2\n", out)
}

func TestInterp_ScopeShadowingObeysResolution(t *testing.T) {
	out := runOK(t, `
		let a = "global";
		{ fn show() { print(a); } let a = "local"; show(); }
	`)
	assert.Equal(t, "global\n", out)
}

func TestInterp_RuntimeErrorSurfacesWithLine(t *testing.T) {
	_, errs := run(t, `print(1 + "x");`)
	require.Len(t, errs, 1)
	rerr, ok := errs[0].(*RuntimeError)
	require.True(t, ok)
	assert.Equal(t, 1, rerr.Tok.Line)
}

func TestInterp_ShortCircuitOr(t *testing.T) {
	out := runOK(t, `fn boom() { print("boom"); return true; } true or boom();`)
	assert.Equal(t, "", out)
}

func TestInterp_ShortCircuitAnd(t *testing.T) {
	out := runOK(t, `fn boom() { print("boom"); return true; } false and boom();`)
	assert.Equal(t, "", out)
}

func TestInterp_InitializerReturnsInstance(t *testing.T) {
	out := runOK(t, `
		class Box { init(v) { this.v = v; } }
		let b = Box(5);
		print(b.v);
	`)
	assert.Equal(t, "5\n", out)
}

func TestInterp_NumericEquality(t *testing.T) {
	out := runOK(t, `print(1 == 1); print(1 == 2); print(null == null);`)
	assert.Equal(t, "true\nfalse\ntrue\n", out)
}

func TestInterp_TruthyRule(t *testing.T) {
	out := runOK(t, `
		if (0) { print("zero is truthy"); } else { print("zero is falsey"); }
		if ("") { print("empty string is truthy"); } else { print("empty string is falsey"); }
		if (null) { print("unreachable"); } else { print("nil is falsey"); }
	`)
	assert.Equal(t, "zero is truthy\nempty string is truthy\nnil is falsey\n", out)
}

func TestInterp_DivisionByZeroIsNotAnError(t *testing.T) {
	out := runOK(t, `print(1 / 0); print(-1 / 0); print(0 / 0);`)
	assert.Equal(t, "+Inf\n-Inf\nNaN\n", out)
}

func TestInterp_StringConcatenation(t *testing.T) {
	out := runOK(t, `print("foo" + "bar");`)
	assert.Equal(t, "foobar\n", out)
}

func TestInterp_UndefinedVariableIsRuntimeError(t *testing.T) {
	_, errs := run(t, `print(nope);`)
	require.Len(t, errs, 1)
	_, ok := errs[0].(*RuntimeError)
	assert.True(t, ok)
}

func TestInterp_CallingNonCallableIsRuntimeError(t *testing.T) {
	_, errs := run(t, `let x = 1; x();`)
	require.Len(t, errs, 1)
	_, ok := errs[0].(*RuntimeError)
	assert.True(t, ok)
}

func TestInterp_ArityMismatchIsRuntimeError(t *testing.T) {
	_, errs := run(t, `fn add(a, b) { return a + b; } add(1);`)
	require.Len(t, errs, 1)
}

func TestInterp_MillisAndSecondsReturnNumbers(t *testing.T) {
	var buf bytes.Buffer
	it := New(&buf)
	errs := Run(it, `let m = millis(); let s = seconds();`)
	require.Empty(t, errs)

	m, err := it.globals.Get(token.New(token.Identifier, "m", 1))
	require.NoError(t, err)
	_, ok := m.(Number)
	assert.True(t, ok)

	s, err := it.globals.Get(token.New(token.Identifier, "s", 1))
	require.NoError(t, err)
	_, ok = s.(Number)
	assert.True(t, ok)
}

func TestInterp_REPLPersistsGlobalsAcrossRuns(t *testing.T) {
	var buf bytes.Buffer
	it := New(&buf)

	errs := Run(it, `let counter = 0; fn bump() { counter = counter + 1; print(counter); }`)
	require.Empty(t, errs)

	errs = Run(it, `bump();`)
	require.Empty(t, errs)

	errs = Run(it, `bump();`)
	require.Empty(t, errs)

	assert.Equal(t, "1\n2\n", buf.String())
}
