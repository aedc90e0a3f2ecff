package lowering

import (
	"testing"

	"github.com/covalent-lang/covalent/internal/analyzer"
	"github.com/covalent-lang/covalent/internal/ast"
	"github.com/covalent-lang/covalent/internal/typesystem"
)

// TestLowerScenario1 lowers spec scenario 1 (`let x = 1 + 2.0`) end to end
// through the analyzer and checks the module carries the five fixed
// helpers plus one synthetic entry function.
func TestLowerScenario1(t *testing.T) {
	exprs := []ast.Expr{
		ast.VarDeclare{
			Name: "x",
			Val: ast.BinaryExpr{
				Op:    typesystem.OpAdd,
				Left:  ast.LiteralExpr{Value: ast.IntLiteral(1)},
				Right: ast.LiteralExpr{Value: ast.FloatLiteral(2.0)},
			},
		},
	}

	typed, err := analyzer.New().AnalyzProg(exprs, nil)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}

	rt, err := Lower("test-module", typed)
	if err != nil {
		t.Fatalf("lower: %v", err)
	}

	names := map[string]bool{}
	for _, fn := range rt.Module.Funcs {
		names[fn.Name()] = true
	}
	if !names["main.test-module"] {
		t.Fatalf("expected a synthetic main.test-module entry function, got %v", names)
	}
	if len(rt.Module.Funcs) != 6 {
		t.Fatalf("expected 5 fixed helpers + 1 entry function, got %d: %v", len(rt.Module.Funcs), names)
	}
}

// TestLowerForwardReferencingFunctions lowers two user functions where one
// calls the other before its declaration, checking both symbol names are
// namespaced by moduleID and the call resolves regardless of declare order.
func TestLowerForwardReferencingFunctions(t *testing.T) {
	functions := []ast.Function{
		{Name: ast.Ident{Val: "f"}, Body: []ast.Expr{ast.FnCall{Name: "g"}}},
		{Name: ast.Ident{Val: "g"}, Body: []ast.Expr{ast.LiteralExpr{Value: ast.IntLiteral(42)}}},
	}

	typed, err := analyzer.New().AnalyzProg(nil, functions)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}

	rt, err := Lower("mod2", typed)
	if err != nil {
		t.Fatalf("lower: %v", err)
	}

	names := map[string]bool{}
	for _, fn := range rt.Module.Funcs {
		names[fn.Name()] = true
	}
	if !names["f.mod2"] || !names["g.mod2"] {
		t.Fatalf("expected namespaced f.mod2 and g.mod2, got %v", names)
	}
}
