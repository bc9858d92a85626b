package printer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csurf/csurf/ast"
	"github.com/csurf/csurf/parser"
)

func intSpec() ast.Specifier {
	return ast.Specifier{&ast.SpecType{Type: &ast.BuiltinType{Kind: ast.Tint}}}
}

func parse(t *testing.T, src string) *ast.TranslationUnit {
	t.Helper()
	tu, err := parser.Parse("t.c", src)
	require.NoError(t, err)
	return tu
}

func TestPrint_DeclAndFunction(t *testing.T) {
	tu := &ast.TranslationUnit{
		SourceFile: "t.c",
		Defs: []ast.Def{
			&ast.DeclDef{
				Spec: intSpec(),
				Names: []*ast.InitName{
					{Name: &ast.Name{Ident: "x", Decl: &ast.JustBase{}}, Init: &ast.NoInit{}},
				},
			},
			&ast.FuncDef{
				Spec: intSpec(),
				Name: &ast.Name{
					Ident: "f",
					Decl: &ast.ProtoType{
						Decl: &ast.JustBase{},
						Params: []*ast.Param{
							{Spec: intSpec(), Name: &ast.Name{Ident: "x", Decl: &ast.JustBase{}}},
						},
					},
				},
				Body: &ast.Block{
					Stmts: []ast.Stmt{
						&ast.ReturnStmt{Value: &ast.BinaryExpr{
							Op:    ast.OpAdd,
							Left:  &ast.VarExpr{Name: "x"},
							Right: &ast.ConstExpr{Kind: ast.ConstInt, Value: "1"},
						}},
					},
				},
			},
		},
	}

	want := "int x;\n" +
		"\n" +
		"int f(int x) {\n" +
		"\treturn x + 1;\n" +
		"}\n"
	assert.Equal(t, want, Print(tu))
}

func TestPrint_ControlFlow(t *testing.T) {
	tu := parse(t, `
int f(int n) {
	int i;
	for (i = 0; i < n; i++) g(i);
	if (n > 1) return 1; else return 0;
}
`)
	want := "int f(int n) {\n" +
		"\tint i;\n" +
		"\tfor (i = 0; i < n; i++)\n" +
		"\t\tg(i);\n" +
		"\tif (n > 1)\n" +
		"\t\treturn 1;\n" +
		"\telse\n" +
		"\t\treturn 0;\n" +
		"}\n"
	assert.Equal(t, want, Print(tu))
}

func TestPrint_Declarators(t *testing.T) {
	tu := parse(t, "int *a[3];\nint (*fp)(int, char);\n")
	want := "int *a[3];\n" +
		"\n" +
		"int (*fp)(int, char);\n"
	assert.Equal(t, want, Print(tu))
}

func TestPrint_StructEnumTypedef(t *testing.T) {
	tu := parse(t, `
struct point { int x, y; };
enum color { RED, GREEN = 3 };
typedef unsigned int uint_t;
`)
	want := "struct point { int x, y; };\n" +
		"\n" +
		"enum color { RED, GREEN = 3 };\n" +
		"\n" +
		"typedef unsigned int uint_t;\n"
	assert.Equal(t, want, Print(tu))
}

func TestPrint_Initializers(t *testing.T) {
	tu := parse(t, "struct point p = { .x = 1, .y = 2 };\nint a[4] = { [2] = 9 };\n")
	want := "struct point p = { .x = 1, .y = 2 };\n" +
		"\n" +
		"int a[4] = { [2] = 9 };\n"
	assert.Equal(t, want, Print(tu))
}

func TestExprString_Precedence(t *testing.T) {
	x := &ast.VarExpr{Name: "x"}
	y := &ast.VarExpr{Name: "y"}
	z := &ast.VarExpr{Name: "z"}

	// (x + y) * z rebuilt without paren nodes still needs parentheses.
	mul := &ast.BinaryExpr{
		Op:    ast.OpMul,
		Left:  &ast.BinaryExpr{Op: ast.OpAdd, Left: x, Right: y},
		Right: z,
	}
	assert.Equal(t, "(x + y) * z", ExprString(mul))

	// x + y * z needs none.
	add := &ast.BinaryExpr{
		Op:    ast.OpAdd,
		Left:  x,
		Right: &ast.BinaryExpr{Op: ast.OpMul, Left: y, Right: z},
	}
	assert.Equal(t, "x + y * z", ExprString(add))

	// Right-nested assignment prints without parentheses.
	chain := &ast.BinaryExpr{
		Op:    ast.OpAssign,
		Left:  x,
		Right: &ast.BinaryExpr{Op: ast.OpAssign, Left: y, Right: z},
	}
	assert.Equal(t, "x = y = z", ExprString(chain))

	// Unary over a binary operand.
	neg := &ast.UnaryExpr{
		Op:      ast.OpMinus,
		Operand: &ast.BinaryExpr{Op: ast.OpAdd, Left: x, Right: y},
	}
	assert.Equal(t, "-(x + y)", ExprString(neg))
}

func TestExprString_PostfixAndCalls(t *testing.T) {
	e := &ast.UnaryExpr{
		Op: ast.OpPostInc,
		Operand: &ast.CallExpr{
			Fn: &ast.IndexExpr{
				Array: &ast.MemberPtrExpr{X: &ast.VarExpr{Name: "p"}, Field: "ops"},
				Index: &ast.ConstExpr{Kind: ast.ConstInt, Value: "0"},
			},
			Args: []ast.Expr{&ast.VarExpr{Name: "a"}, &ast.VarExpr{Name: "b"}},
		},
	}
	assert.Equal(t, "p->ops[0](a, b)++", ExprString(e))
}

// Printing a parsed unit and reparsing the output must reach a fixed
// point on the first print.
func TestPrint_ReparseStable(t *testing.T) {
	sources := []string{
		"int x = 1;\n",
		"int f(void) {\n\treturn sizeof(int);\n}\n",
		"void g(int *p, ...) {\n\twhile (*p)\n\t\tp++;\n}\n",
		"struct s { int a : 4; unsigned b; };\n",
		"int h(int n) {\n\tswitch (n) {\n\tcase 1 ... 3:\n\t\tbreak;\n\tdefault:\n\t\tbreak;\n\t}\n\treturn n;\n}\n",
		"char *msg = \"hi\\n\";\n",
		"#pragma once\n\nint x;\n",
	}
	for _, src := range sources {
		once := Print(parse(t, src))
		again := Print(parse(t, once))
		assert.Equal(t, once, again, "source: %s", src)
	}
}
