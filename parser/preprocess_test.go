package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csurf/csurf/ast"
)

func TestPreprocess_BlanksDirectives(t *testing.T) {
	src := "#include <stdio.h>\nint x;\n#define N 4\nint y;\n"
	want := "\nint x;\n\nint y;\n"
	assert.Equal(t, want, Preprocess(src))
}

func TestPreprocess_KeepsPragmas(t *testing.T) {
	src := "#pragma pack(1)\nint x;\n"
	assert.Equal(t, src, Preprocess(src))
}

func TestPreprocess_JoinsContinuations(t *testing.T) {
	src := "#define TWICE(x) \\\n\t((x) + (x))\nint y;\n"
	// The directive spans two physical lines; both are blanked and the
	// line count is preserved.
	want := "\n\nint y;\n"
	assert.Equal(t, want, Preprocess(src))
}

func TestParse_PragmaDef(t *testing.T) {
	tu, err := Parse("p.c", "#pragma GCC diagnostic push\nint x;\n")
	require.NoError(t, err)
	require.Len(t, tu.Defs, 2)

	pd, ok := tu.Defs[0].(*ast.PragmaDef)
	require.True(t, ok)
	body, ok := pd.Expr.(*ast.ConstExpr)
	require.True(t, ok)
	assert.Equal(t, "GCC diagnostic push", body.Value)

	_, ok = tu.Defs[1].(*ast.DeclDef)
	assert.True(t, ok)
}

func TestParse_DirectivesInvisibleToGrammar(t *testing.T) {
	src := `#include <stdio.h>

int main(void) {
	return 0;
}
`
	tu, err := Parse("m.c", src)
	require.NoError(t, err)
	require.Len(t, tu.Defs, 1)
	fd, ok := tu.Defs[0].(*ast.FuncDef)
	require.True(t, ok)
	// Line numbers still point into the original file.
	assert.Equal(t, 3, fd.DefPos().Line)
}
