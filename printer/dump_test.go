package printer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/csurf/csurf/ast"
)

func TestDump_SmallTree(t *testing.T) {
	tu := &ast.TranslationUnit{
		SourceFile: "t.c",
		Defs: []ast.Def{
			&ast.DeclDef{
				Spec: intSpec(),
				Names: []*ast.InitName{
					{Name: &ast.Name{Ident: "x", Decl: &ast.JustBase{}}, Init: &ast.NoInit{}},
				},
			},
		},
	}

	want := "TranslationUnit SourceFile=\"t.c\"\n" +
		"\tDefs: DeclDef\n" +
		"\t\tSpec: SpecType\n" +
		"\t\t\tType: BuiltinType Kind=int\n" +
		"\t\tNames: InitName\n" +
		"\t\t\tName: Name Ident=\"x\"\n" +
		"\t\t\t\tDecl: JustBase\n" +
		"\t\t\tInit: NoInit\n"
	assert.Equal(t, want, Dump(tu, false))
}

func TestDump_ColorWrapsTypeNames(t *testing.T) {
	tu := &ast.TranslationUnit{SourceFile: "t.c"}
	out := Dump(tu, true)
	assert.True(t, strings.HasPrefix(out, "\x1b[36mTranslationUnit\x1b[0m"))
}

func TestDump_ElidesZeroLocations(t *testing.T) {
	tu := parse(t, "int f(void) {\n\treturn 0;\n}\n")
	out := Dump(tu, false)
	assert.Contains(t, out, "FuncDef loc=t.c:1")
	assert.NotContains(t, out, "loc=t.c:0")
}
