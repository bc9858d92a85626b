package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripNops_DeletesFromSequences(t *testing.T) {
	ret := &ReturnStmt{Value: intLit("0")}
	tu := &TranslationUnit{Defs: []Def{
		&FuncDef{
			Spec: intSpec(),
			Name: &Name{Ident: "f", Decl: &ProtoType{Decl: &JustBase{}}},
			Body: &Block{Stmts: []Stmt{&NopStmt{}, ret, &NopStmt{}}},
		},
	}}
	out := StripNops().Transform(tu)
	require.NotSame(t, tu, out)

	body := out.Defs[0].(*FuncDef).Body
	require.Len(t, body.Stmts, 1)
	assert.Same(t, Stmt(ret), body.Stmts[0], "the surviving statement stays shared")
}

func TestStripNops_SingleSlotBecomesEmptyBlock(t *testing.T) {
	tu := &TranslationUnit{Defs: []Def{
		&FuncDef{
			Spec: intSpec(),
			Name: &Name{Ident: "f", Decl: &ProtoType{Decl: &JustBase{}}},
			Body: &Block{Stmts: []Stmt{
				&WhileStmt{Cond: intLit("1"), Body: &NopStmt{}},
			}},
		},
	}}
	out := StripNops().Transform(tu)
	ws := out.Defs[0].(*FuncDef).Body.Stmts[0].(*WhileStmt)
	bs, ok := ws.Body.(*BlockStmt)
	require.True(t, ok, "a loop body cannot be deleted outright, got %T", ws.Body)
	assert.Empty(t, bs.Body.Stmts)
}

func TestStripNops_NoNopsReturnsSame(t *testing.T) {
	tu := sampleUnit()
	out := StripNops().Transform(tu)
	assert.Same(t, tu, out)
}
