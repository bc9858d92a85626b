package ast

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckLabels_Valid(t *testing.T) {
	tu := &TranslationUnit{Defs: []Def{
		funcOf("f", nil, &Block{Stmts: []Stmt{
			&LabelStmt{Label: "again", Body: &NopStmt{}},
			&GotoStmt{Label: "again"},
		}}),
	}}
	assert.NoError(t, CheckLabels{}.Check(tu))
}

func TestCheckLabels_Duplicate(t *testing.T) {
	tu := &TranslationUnit{Defs: []Def{
		funcOf("f", nil, &Block{Stmts: []Stmt{
			&LabelStmt{BaseStmt: BaseStmt{Loc: Loc{File: "a.c", Line: 2}}, Label: "l", Body: &NopStmt{}},
			&LabelStmt{BaseStmt: BaseStmt{Loc: Loc{File: "a.c", Line: 4}}, Label: "l", Body: &NopStmt{}},
		}}),
	}}
	err := CheckLabels{}.Check(tu)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `label "l" already defined`)
	assert.Contains(t, err.Error(), "a.c:4")
}

func TestCheckLabels_GotoUndefined(t *testing.T) {
	tu := &TranslationUnit{Defs: []Def{
		funcOf("f", nil, &Block{Stmts: []Stmt{
			&GotoStmt{BaseStmt: BaseStmt{Loc: Loc{File: "a.c", Line: 3}}, Label: "nowhere"},
		}}),
	}}
	err := CheckLabels{}.Check(tu)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `goto undefined label "nowhere"`)
}

func TestCheckLabels_ScopedPerFunction(t *testing.T) {
	// The same label in two functions is not a duplicate.
	tu := &TranslationUnit{Defs: []Def{
		funcOf("f", nil, &Block{Stmts: []Stmt{&LabelStmt{Label: "l", Body: &NopStmt{}}}}),
		funcOf("g", nil, &Block{Stmts: []Stmt{&LabelStmt{Label: "l", Body: &NopStmt{}}}}),
	}}
	assert.NoError(t, CheckLabels{}.Check(tu))
}

type failingCheck struct{ err error }

func (f failingCheck) Name() string                 { return "failing" }
func (f failingCheck) Check(*TranslationUnit) error { return f.err }

type countingCheck struct{ calls *int }

func (c countingCheck) Name() string                 { return "counting" }
func (c countingCheck) Check(*TranslationUnit) error { *c.calls = *c.calls + 1; return nil }

func TestCheckChain_StopsAtFirstError(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	chain := CheckChain{failingCheck{err: boom}, countingCheck{calls: &calls}}
	err := chain.Run(&TranslationUnit{})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, calls, "later checks do not run after a failure")
}

func TestCheckChain_RunsAllOnSuccess(t *testing.T) {
	calls := 0
	chain := CheckChain{countingCheck{calls: &calls}, countingCheck{calls: &calls}}
	require.NoError(t, chain.Run(&TranslationUnit{}))
	assert.Equal(t, 2, calls)
}
