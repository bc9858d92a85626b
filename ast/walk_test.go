package ast

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intLit(v string) *ConstExpr { return &ConstExpr{Kind: ConstInt, Value: v} }

func intSpec() Specifier {
	return Specifier{&SpecType{Type: &BuiltinType{Kind: Tint}}}
}

// sampleUnit is "int x; int f(int x) { return x + 1; }".
func sampleUnit() *TranslationUnit {
	return &TranslationUnit{
		SourceFile: "sample.c",
		Defs: []Def{
			&DeclDef{
				Spec:  intSpec(),
				Names: []*InitName{{Name: &Name{Ident: "x", Decl: &JustBase{}}, Init: &NoInit{}}},
			},
			&FuncDef{
				Spec: intSpec(),
				Name: &Name{Ident: "f", Decl: &ProtoType{
					Decl:   &JustBase{},
					Params: []*Param{{Spec: intSpec(), Name: &Name{Ident: "x", Decl: &JustBase{}}}},
				}},
				Body: &Block{Stmts: []Stmt{
					&ReturnStmt{Value: &BinaryExpr{Op: OpAdd, Left: &VarExpr{Name: "x"}, Right: intLit("1")}},
				}},
			},
		},
	}
}

func TestVisitIdentity_ReturnsSameObject(t *testing.T) {
	tu := sampleUnit()
	out := Visit(NopVisitor{}, tu)
	assert.Same(t, tu, out, "untouched unit should come back as the same object")
}

func TestVisitIdentity_SharesEverySubtree(t *testing.T) {
	tu := sampleUnit()
	out := Visit(NopVisitor{}, tu)
	require.Same(t, tu, out)
	fd := out.Defs[1].(*FuncDef)
	orig := tu.Defs[1].(*FuncDef)
	assert.Same(t, orig.Name, fd.Name)
	assert.Same(t, orig.Body, fd.Body)
	assert.Same(t, orig.Body.Stmts[0], fd.Body.Stmts[0])
}

type binarySkipper struct {
	NopVisitor
}

func (binarySkipper) VisitExpr(e Expr) Action[Expr] {
	if _, ok := e.(*BinaryExpr); ok {
		return SkipChildren[Expr]()
	}
	return DoChildren[Expr]()
}

func (binarySkipper) VisitVarUse(name string) string { return strings.ToUpper(name) }

func TestSkipChildren_LeavesSubtreeUntouched(t *testing.T) {
	tu := sampleUnit()
	out := Visit(binarySkipper{}, tu)
	// The only variable use sits under the skipped binary expression,
	// so nothing in the unit changes at all.
	assert.Same(t, tu, out)
}

type binaryReplacer struct {
	NopVisitor
	replacement Expr
}

func (r *binaryReplacer) VisitExpr(e Expr) Action[Expr] {
	if _, ok := e.(*BinaryExpr); ok {
		return ChangeTo(r.replacement)
	}
	return DoChildren[Expr]()
}

func (r *binaryReplacer) VisitVarUse(name string) string { return strings.ToUpper(name) }

func TestChangeTo_BypassesReplacementChildren(t *testing.T) {
	tu := sampleUnit()
	repl := &VarExpr{Name: "z"}
	out := Visit(&binaryReplacer{replacement: repl}, tu)
	require.NotSame(t, tu, out)

	ret := out.Defs[1].(*FuncDef).Body.Stmts[0].(*ReturnStmt)
	assert.Same(t, Expr(repl), ret.Value, "replacement inserted verbatim")
	assert.Equal(t, "z", repl.Name, "replacement children are not visited")
	assert.Same(t, tu.Defs[0], out.Defs[0], "unrelated definition stays shared")
}

type binaryRewriter struct {
	NopVisitor
}

func (binaryRewriter) VisitExpr(e Expr) Action[Expr] {
	if be, ok := e.(*BinaryExpr); ok {
		sub := &BinaryExpr{Op: OpMul, Left: be.Left, Right: be.Right}
		return ChangeDoChildrenPost[Expr](sub, func(e Expr) Expr {
			return &ParenExpr{Inner: e}
		})
	}
	return DoChildren[Expr]()
}

func (binaryRewriter) VisitVarUse(name string) string { return strings.ToUpper(name) }

func TestChangeDoChildrenPost_VisitsSubstituteThenAppliesPost(t *testing.T) {
	tu := sampleUnit()
	out := Visit(binaryRewriter{}, tu)
	require.NotSame(t, tu, out)

	ret := out.Defs[1].(*FuncDef).Body.Stmts[0].(*ReturnStmt)
	paren := ret.Value.(*ParenExpr)
	inner := paren.Inner.(*BinaryExpr)
	assert.Equal(t, OpMul, inner.Op, "substituted node survives")
	assert.Equal(t, "X", inner.Left.(*VarExpr).Name, "substitute's children are visited")
	assert.Equal(t, "1", inner.Right.(*ConstExpr).Value)
}

type exprStmtSplitter struct {
	NopVisitor
}

func (exprStmtSplitter) VisitStmt(s Stmt) Action[[]Stmt] {
	if es, ok := s.(*ExprStmt); ok {
		return ChangeTo([]Stmt{
			&ExprStmt{BaseStmt: es.BaseStmt, Expr: es.Expr},
			&NopStmt{BaseStmt: es.BaseStmt},
		})
	}
	return DoChildren[[]Stmt]()
}

func TestListDispatch_SplicesIntoSequence(t *testing.T) {
	tu := &TranslationUnit{Defs: []Def{
		&FuncDef{
			Spec: intSpec(),
			Name: &Name{Ident: "f", Decl: &ProtoType{Decl: &JustBase{}}},
			Body: &Block{Stmts: []Stmt{
				&ExprStmt{Expr: &VarExpr{Name: "a"}},
				&ReturnStmt{Value: intLit("0")},
			}},
		},
	}}
	out := Visit(exprStmtSplitter{}, tu)
	body := out.Defs[0].(*FuncDef).Body
	require.Len(t, body.Stmts, 3)
	assert.IsType(t, &ExprStmt{}, body.Stmts[0])
	assert.IsType(t, &NopStmt{}, body.Stmts[1])
	assert.Same(t, tu.Defs[0].(*FuncDef).Body.Stmts[1], body.Stmts[2], "untouched trailing statement stays shared")
}

func TestListDispatch_WrapsMultiResultInSingleSlot(t *testing.T) {
	tu := &TranslationUnit{Defs: []Def{
		&FuncDef{
			Spec: intSpec(),
			Name: &Name{Ident: "f", Decl: &ProtoType{Decl: &JustBase{}}},
			Body: &Block{Stmts: []Stmt{
				&WhileStmt{Cond: intLit("1"), Body: &ExprStmt{Expr: &VarExpr{Name: "a"}}},
			}},
		},
	}}
	out := Visit(exprStmtSplitter{}, tu)
	ws := out.Defs[0].(*FuncDef).Body.Stmts[0].(*WhileStmt)
	bs, ok := ws.Body.(*BlockStmt)
	require.True(t, ok, "a loop body rewriting to two statements gets a synthetic block, got %T", ws.Body)
	assert.Len(t, bs.Body.Stmts, 2)
	assert.Empty(t, bs.Body.Attrs)
	assert.Empty(t, bs.Body.Defs)
}

type scopeRecorder struct {
	NopVisitor
	depth    int
	enters   int
	balanced bool
}

func newScopeRecorder() *scopeRecorder { return &scopeRecorder{balanced: true} }

func (r *scopeRecorder) EnterScope() {
	r.depth++
	r.enters++
}

func (r *scopeRecorder) ExitScope() {
	r.depth--
	if r.depth < 0 {
		r.balanced = false
	}
}

func TestScopeHooks_BracketProtoBodyAndEnum(t *testing.T) {
	tu := sampleUnit()
	tu.Defs = append(tu.Defs, &TypeDeclDef{
		Spec: Specifier{&SpecType{Type: &EnumType{
			Tag:     "color",
			Items:   []*EnumItem{{Name: "red", Value: &NothingExpr{}}},
			HasBody: true,
		}}},
	})
	r := newScopeRecorder()
	Visit(r, tu)
	assert.True(t, r.balanced, "an exit should never outrun its enter")
	assert.Equal(t, 0, r.depth, "every scope entered must be exited")
	assert.Equal(t, 3, r.enters, "prototype, function body, enum body")
}

type attrDeleter struct {
	NopVisitor
}

func (attrDeleter) VisitAttr(*Attribute) Action[[]*Attribute] {
	return ChangeTo([]*Attribute{})
}

func TestAttrDeletion_AtFixedSlotPanicsWithContractError(t *testing.T) {
	tu := &TranslationUnit{Defs: []Def{
		&DeclDef{
			Spec: Specifier{
				&SpecAttr{Attr: &Attribute{Name: "packed"}},
				&SpecType{Type: &BuiltinType{Kind: Tint}},
			},
			Names: []*InitName{{Name: &Name{Ident: "x", Decl: &JustBase{}}, Init: &NoInit{}}},
		},
	}}
	defer func() {
		r := recover()
		require.NotNil(t, r, "deleting a specifier attribute must panic")
		ce, ok := r.(*ContractError)
		require.True(t, ok, "panic value should be *ContractError, got %T", r)
		assert.Equal(t, "VisitAttr", ce.Hook)
		assert.Equal(t, 0, ce.Got)
		assert.Contains(t, ce.Error(), "want exactly 1")
	}()
	Visit(attrDeleter{}, tu)
}

func TestAttrDeletion_AtListSlotIsAllowed(t *testing.T) {
	tu := &TranslationUnit{Defs: []Def{
		&DeclDef{
			Spec: intSpec(),
			Names: []*InitName{{
				Name: &Name{Ident: "x", Decl: &JustBase{}, Attrs: []*Attribute{{Name: "unused"}}},
				Init: &NoInit{},
			}},
		},
	}}
	out := Visit(attrDeleter{}, tu)
	require.NotSame(t, tu, out)
	name := out.Defs[0].(*DeclDef).Names[0].Name
	assert.Empty(t, name.Attrs, "name attributes are a sequence, deletion is fine there")
}

type upperUses struct {
	NopVisitor
}

func (upperUses) VisitVarUse(name string) string { return strings.ToUpper(name) }

func TestVarUse_RewritesUsesOnly(t *testing.T) {
	tu := sampleUnit()
	out := Visit(upperUses{}, tu)
	require.NotSame(t, tu, out)

	assert.Same(t, tu.Defs[0], out.Defs[0], "a use-free definition stays shared")
	fd := out.Defs[1].(*FuncDef)
	ret := fd.Body.Stmts[0].(*ReturnStmt)
	assert.Equal(t, "X", ret.Value.(*BinaryExpr).Left.(*VarExpr).Name)
	assert.Equal(t, "x", fd.Name.Decl.(*ProtoType).Params[0].Name.Ident,
		"declared names are not uses")
}
