package resolver

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sail-lang/sail/ast"
	"github.com/sail-lang/sail/lexer"
	"github.com/sail-lang/sail/parser"
)

func resolveSrc(t *testing.T, src string) (*Resolver, []ast.Stmt) {
	t.Helper()
	toks, err := lexer.New(src).Scan()
	require.NoError(t, err)
	p := parser.New(toks)
	stmts := p.Parse()
	require.False(t, p.HasErrors(), "unexpected parse errors: %v", p.Errors())

	r := New()
	r.Resolve(stmts)
	return r, stmts
}

func TestResolver_GlobalLeftUnresolved(t *testing.T) {
	r, stmts := resolveSrc(t, "let x = 1; print(x);")
	es := stmts[1].(*ast.ExprStmt)
	call := es.Expr.(*ast.Call)
	ref := call.Args[0].(*ast.Variable)
	_, ok := r.table[ref.NodeID()]
	assert.False(t, ok, "global reference should have no table entry")
}

func TestResolver_LocalResolvedAtDepthZero(t *testing.T) {
	r, stmts := resolveSrc(t, "{ let x = 1; print(x); }")
	block := stmts[0].(*ast.Block)
	es := block.Stmts[1].(*ast.ExprStmt)
	call := es.Expr.(*ast.Call)
	ref := call.Args[0].(*ast.Variable)
	depth, ok := r.table[ref.NodeID()]
	require.True(t, ok)
	assert.Equal(t, 0, depth)
}

func TestResolver_NestedScopeDepth(t *testing.T) {
	r, stmts := resolveSrc(t, "{ let x = 1; { let y = 2; print(x); } }")
	outer := stmts[0].(*ast.Block)
	inner := outer.Stmts[1].(*ast.Block)
	es := inner.Stmts[1].(*ast.ExprStmt)
	call := es.Expr.(*ast.Call)
	ref := call.Args[0].(*ast.Variable)
	depth, ok := r.table[ref.NodeID()]
	require.True(t, ok)
	assert.Equal(t, 1, depth)
}

func TestResolver_SelfReferenceInInitializerIsError(t *testing.T) {
	r, _ := resolveSrc(t, "{ let x = x; }")
	assert.True(t, r.HasErrors())
}

func TestResolver_DuplicateLocalDeclarationIsError(t *testing.T) {
	r, _ := resolveSrc(t, "{ let x = 1; let x = 2; }")
	assert.True(t, r.HasErrors())
}

func TestResolver_DuplicateGlobalDeclarationIsAllowed(t *testing.T) {
	r, _ := resolveSrc(t, "let x = 1; let x = 2;")
	assert.False(t, r.HasErrors())
}

func TestResolver_ReturnOutsideFunctionIsError(t *testing.T) {
	r, _ := resolveSrc(t, "return 1;")
	assert.True(t, r.HasErrors())
}

func TestResolver_ReturnValueFromInitializerIsError(t *testing.T) {
	r, _ := resolveSrc(t, "class Foo { init() { return 1; } }")
	assert.True(t, r.HasErrors())
}

func TestResolver_BareReturnFromInitializerIsAllowed(t *testing.T) {
	r, _ := resolveSrc(t, "class Foo { init() { return; } }")
	assert.False(t, r.HasErrors())
}

func TestResolver_ThisOutsideClassIsError(t *testing.T) {
	r, _ := resolveSrc(t, "print(this);")
	assert.True(t, r.HasErrors())
}

func TestResolver_SuperOutsideClassIsError(t *testing.T) {
	r, _ := resolveSrc(t, "print(super.foo);")
	assert.True(t, r.HasErrors())
}

func TestResolver_SuperWithNoSuperclassIsError(t *testing.T) {
	r, _ := resolveSrc(t, "class Foo { bar() { return super.bar(); } }")
	assert.True(t, r.HasErrors())
}

func TestResolver_SuperWithSuperclassIsOK(t *testing.T) {
	r, _ := resolveSrc(t, "class A { bar() { return 1; } } class B < A { bar() { return super.bar(); } }")
	assert.False(t, r.HasErrors())
}

func TestResolver_ClassCannotInheritFromItself(t *testing.T) {
	r, _ := resolveSrc(t, "class Foo < Foo { }")
	assert.True(t, r.HasErrors())
}

func TestResolver_Purity(t *testing.T) {
	toks, err := lexer.New("{ let x = 1; { print(x); } }").Scan()
	require.NoError(t, err)
	p := parser.New(toks)
	stmts := p.Parse()

	r1 := New()
	t1 := r1.Resolve(stmts)
	r2 := New()
	t2 := r2.Resolve(stmts)
	if diff := cmp.Diff(t1, t2); diff != "" {
		t.Errorf("resolving the same program twice produced different tables (-first +second):\n%s", diff)
	}
}
