package ast

import (
	"fmt"

	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
)

// UniquifyLocals returns a Transform that alpha-renames variable
// declarations so that no name is declared twice anywhere in the unit:
// a declaration whose name was already used becomes name_2, name_3 and
// so on, and every use inside its scope follows. Names with no
// collision are untouched, as are fields and typedefs.
//
// The pass is a worked example of a stateful visitor: all of its state
// lives in the scope stack driven by EnterScope/ExitScope.
func UniquifyLocals() Transform {
	return VisitorTransform("uniquify-locals", newUniquifier())
}

// bindings maps an original name to its unique replacement within one
// lexical scope.
type bindings map[string]string

type uniquifier struct {
	NopVisitor
	scopes *arraylist.List // stack of bindings, innermost last
	seen   *treeset.Set    // every declared name handed out so far
	counts map[string]int  // next suffix to try per original name

	// A function's parameters are declared in the prototype scope of
	// its declarator, which closes before the body block opens. The
	// bindings of the most recently closed head scope are carried over
	// into the body so parameter uses resolve.
	inFuncHead    bool
	fnParams      bindings
	enteringBlock bool
}

func newUniquifier() *uniquifier {
	u := &uniquifier{
		scopes: arraylist.New(),
		seen:   treeset.NewWith(utils.StringComparator),
		counts: make(map[string]int),
	}
	u.scopes.Add(bindings{}) // file scope, never popped
	return u
}

func (u *uniquifier) VisitDef(d Def) Action[[]Def] {
	if _, ok := d.(*FuncDef); ok {
		u.inFuncHead = true
		u.fnParams = nil
	}
	return DoChildren[[]Def]()
}

func (u *uniquifier) VisitBlock(b *Block) Action[*Block] {
	u.enteringBlock = true
	return DoChildren[*Block]()
}

func (u *uniquifier) EnterScope() {
	sc := bindings{}
	if u.enteringBlock && u.inFuncHead {
		for name, unique := range u.fnParams {
			sc[name] = unique
		}
		u.inFuncHead = false
		u.fnParams = nil
	}
	u.enteringBlock = false
	u.scopes.Add(sc)
}

func (u *uniquifier) ExitScope() {
	idx := u.scopes.Size() - 1
	top, _ := u.scopes.Get(idx)
	u.scopes.Remove(idx)
	if u.inFuncHead {
		// Nested prototype scopes close first; the declarator's own
		// parameter scope closes last and wins.
		u.fnParams = top.(bindings)
	}
}

func (u *uniquifier) VisitVarUse(name string) string {
	for i := u.scopes.Size() - 1; i >= 0; i-- {
		sc, _ := u.scopes.Get(i)
		if unique, ok := sc.(bindings)[name]; ok {
			return unique
		}
	}
	return name
}

func (u *uniquifier) VisitName(kind NameKind, spec Specifier, n *Name) Action[*Name] {
	if kind != NameVar || n.Ident == "" {
		return DoChildren[*Name]()
	}
	unique := u.fresh(n.Ident)
	top, _ := u.scopes.Get(u.scopes.Size() - 1)
	top.(bindings)[n.Ident] = unique
	if unique == n.Ident {
		return DoChildren[*Name]()
	}
	cp := *n
	cp.Ident = unique
	return ChangeDoChildrenPost(&cp, func(n *Name) *Name { return n })
}

// fresh returns name itself the first time it is declared, and a
// suffixed variant on every collision.
func (u *uniquifier) fresh(name string) string {
	if !u.seen.Contains(name) {
		u.seen.Add(name)
		return name
	}
	n := u.counts[name]
	if n == 0 {
		n = 1 // the original spelling counts as _1
	}
	for {
		n++
		candidate := fmt.Sprintf("%s_%d", name, n)
		if !u.seen.Contains(candidate) {
			u.counts[name] = n
			u.seen.Add(candidate)
			return candidate
		}
	}
}
