package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChainEmpty(t *testing.T) {
	tu := &TranslationUnit{SourceFile: "test.c"}
	result := Chain().Transform(tu)
	assert.Same(t, tu, result, "empty chain returns same unit")
}

func TestChainOrdering(t *testing.T) {
	var order []string
	step := func(name string) Transform {
		return TransformFunc{
			N: name,
			F: func(tu *TranslationUnit) *TranslationUnit {
				order = append(order, name)
				return tu
			},
		}
	}
	Chain(step("first"), step("second"), step("third")).Transform(&TranslationUnit{})
	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestChainPipeline(t *testing.T) {
	// Each transform appends to SourceFile to verify chaining
	appendTransform := func(name, suffix string) Transform {
		return TransformFunc{
			N: name,
			F: func(tu *TranslationUnit) *TranslationUnit {
				return &TranslationUnit{SourceFile: tu.SourceFile + suffix}
			},
		}
	}
	tu := &TranslationUnit{SourceFile: "start"}
	result := Chain(
		appendTransform("a", "+a"),
		appendTransform("b", "+b"),
	).Transform(tu)
	assert.Equal(t, "start+a+b", result.SourceFile)
}

func TestTransformNames(t *testing.T) {
	assert.Equal(t, "chain", Chain().Name())
	tf := TransformFunc{N: "my-transform", F: func(tu *TranslationUnit) *TranslationUnit { return tu }}
	assert.Equal(t, "my-transform", tf.Name())
	assert.Equal(t, "strip-nops", StripNops().Name())
	assert.Equal(t, "uniquify-locals", UniquifyLocals().Name())
	assert.Equal(t, "prefix-vars", PrefixVars("p_").Name())
}

func TestMapNoCopy_IdentityKeepsSlice(t *testing.T) {
	in := []Expr{intLit("1"), intLit("2")}
	out, changed := mapNoCopy(in, func(e Expr) Expr { return e })
	assert.False(t, changed)
	assert.True(t, sameSlice(in, out))
}

func TestMapNoCopy_ChangeRebuildsOnce(t *testing.T) {
	a, b := intLit("1"), intLit("2")
	in := []Expr{a, b}
	repl := intLit("9")
	out, changed := mapNoCopy(in, func(e Expr) Expr {
		if e == Expr(b) {
			return repl
		}
		return e
	})
	assert.True(t, changed)
	assert.False(t, sameSlice(in, out))
	assert.Same(t, Expr(a), out[0], "unchanged prefix elements stay shared")
	assert.Same(t, Expr(repl), out[1])
	assert.Same(t, Expr(a), in[0], "input is never mutated")
	assert.Same(t, Expr(b), in[1])
}

func TestMapNoCopyList_IdentityKeepsSlice(t *testing.T) {
	in := []Stmt{&NopStmt{}, &ReturnStmt{Value: intLit("0")}}
	out, changed := mapNoCopyList(in, func(s Stmt) []Stmt { return []Stmt{s} })
	assert.False(t, changed)
	assert.True(t, sameSlice(in, out))
}

func TestMapNoCopyList_Deletion(t *testing.T) {
	ret := &ReturnStmt{Value: intLit("0")}
	in := []Stmt{&NopStmt{}, ret, &NopStmt{}}
	out, changed := mapNoCopyList(in, func(s Stmt) []Stmt {
		if _, ok := s.(*NopStmt); ok {
			return nil
		}
		return []Stmt{s}
	})
	assert.True(t, changed)
	assert.Equal(t, []Stmt{ret}, out)
}

func TestMapNoCopyList_Split(t *testing.T) {
	es := &ExprStmt{Expr: intLit("1")}
	in := []Stmt{es}
	out, changed := mapNoCopyList(in, func(s Stmt) []Stmt {
		return []Stmt{s, &NopStmt{}}
	})
	assert.True(t, changed)
	assert.Len(t, out, 2)
	assert.Same(t, Stmt(es), out[0])
}

func TestSameSlice(t *testing.T) {
	s := Specifier{&SpecType{Type: &BuiltinType{Kind: Tint}}}
	assert.True(t, sameSlice(s, s))
	assert.True(t, sameSlice(Specifier{}, Specifier(nil)), "empty sequences are interchangeable")
	assert.False(t, sameSlice(s, Specifier{&SpecType{Type: &BuiltinType{Kind: Tint}}}))
	assert.False(t, sameSlice(s, s[:0]))
}
