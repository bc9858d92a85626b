package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renameX(name string) string {
	if name == "x" {
		return "y"
	}
	return name
}

func TestRenameVars_EndToEnd(t *testing.T) {
	tu := sampleUnit()
	out := RenameVars("x-to-y", renameX).Transform(tu)
	require.NotSame(t, tu, out)

	// Global: int x; → int y;
	decl := out.Defs[0].(*DeclDef)
	assert.Equal(t, "y", decl.Names[0].Name.Ident)
	assert.True(t, sameSlice(tu.Defs[0].(*DeclDef).Spec, decl.Spec), "specifier survives unchanged")

	// Function: name f untouched, parameter and use renamed.
	fd := out.Defs[1].(*FuncDef)
	orig := tu.Defs[1].(*FuncDef)
	assert.Equal(t, "f", fd.Name.Ident)
	assert.Equal(t, "y", fd.Name.Decl.(*ProtoType).Params[0].Name.Ident)
	ret := fd.Body.Stmts[0].(*ReturnStmt)
	be := ret.Value.(*BinaryExpr)
	assert.Equal(t, "y", be.Left.(*VarExpr).Name)
	assert.Same(t, orig.Body.Stmts[0].(*ReturnStmt).Value.(*BinaryExpr).Right, be.Right,
		"the literal operand stays shared")
	sampleUnitCheck(t, tu)
}

// sampleUnitCheck asserts tu still looks like a fresh sampleUnit and
// returns it.
func sampleUnitCheck(t *testing.T, tu *TranslationUnit) *TranslationUnit {
	t.Helper()
	require.Equal(t, "x", tu.Defs[0].(*DeclDef).Names[0].Name.Ident)
	fd := tu.Defs[1].(*FuncDef)
	require.Equal(t, "x", fd.Name.Decl.(*ProtoType).Params[0].Name.Ident)
	require.Equal(t, "x", fd.Body.Stmts[0].(*ReturnStmt).Value.(*BinaryExpr).Left.(*VarExpr).Name)
	return tu
}

func TestRenameVars_NoMatchReturnsSameUnit(t *testing.T) {
	tu := sampleUnit()
	out := RenameVars("id", func(name string) string { return name }).Transform(tu)
	assert.Same(t, tu, out)
}

func TestRenameVars_LeavesFieldsAndTypedefs(t *testing.T) {
	tu := &TranslationUnit{Defs: []Def{
		&TypedefDef{
			Spec:  intSpec(),
			Names: []*Name{{Ident: "x", Decl: &JustBase{}}},
		},
		&TypeDeclDef{
			Spec: Specifier{&SpecType{Type: &StructType{
				Tag:     "s",
				HasBody: true,
				Fields: []*FieldGroup{{
					Spec:   intSpec(),
					Fields: []*Field{{Name: &Name{Ident: "x", Decl: &JustBase{}}}},
				}},
			}}},
		},
	}}
	out := RenameVars("x-to-y", renameX).Transform(tu)
	assert.Same(t, tu, out, "neither typedef names nor field names are variables")
}

func TestPrefixVars(t *testing.T) {
	tu := sampleUnit()
	out := PrefixVars("p_").Transform(tu)
	fd := out.Defs[1].(*FuncDef)
	assert.Equal(t, "p_f", fd.Name.Ident)
	assert.Equal(t, "p_x", fd.Name.Decl.(*ProtoType).Params[0].Name.Ident)
	ret := fd.Body.Stmts[0].(*ReturnStmt)
	assert.Equal(t, "p_x", ret.Value.(*BinaryExpr).Left.(*VarExpr).Name)
}

func TestRenameVars_DescendsRenamedDeclarator(t *testing.T) {
	// int x[x]; both the declared name and the size expression rename.
	tu := &TranslationUnit{Defs: []Def{
		&DeclDef{
			Spec: intSpec(),
			Names: []*InitName{{
				Name: &Name{Ident: "x", Decl: &ArrayType{Decl: &JustBase{}, Size: &VarExpr{Name: "x"}}},
				Init: &NoInit{},
			}},
		},
	}}
	out := RenameVars("x-to-y", renameX).Transform(tu)
	name := out.Defs[0].(*DeclDef).Names[0].Name
	assert.Equal(t, "y", name.Ident)
	assert.Equal(t, "y", name.Decl.(*ArrayType).Size.(*VarExpr).Name,
		"array size under a renamed name is still visited")
}
