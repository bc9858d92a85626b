package ast

import "fmt"

// Action is a visitor's decision for one node, made before the node's
// children are visited. The zero value means DoChildren, so an embedded
// NopVisitor hook can be overridden selectively.
//
// List-result node kinds (statements, definitions, attributes) use the
// same type instantiated at a slice type, e.g. Action[[]Stmt]: ChangeTo
// then replaces one node with any number of nodes.
type Action[N any] struct {
	kind actionKind
	node N
	post func(N) N
}

type actionKind int

const (
	doChildren actionKind = iota
	skipChildren
	changeTo
	changeDoChildrenPost
)

// DoChildren keeps the current node and visits its children. The node is
// rebuilt only if a child changes.
func DoChildren[N any]() Action[N] { return Action[N]{} }

// SkipChildren keeps the current node unchanged and never visits its
// children.
func SkipChildren[N any]() Action[N] { return Action[N]{kind: skipChildren} }

// ChangeTo replaces the current node with n verbatim. n's children are
// not visited.
func ChangeTo[N any](n N) Action[N] { return Action[N]{kind: changeTo, node: n} }

// ChangeDoChildrenPost substitutes n for the current node, visits n's
// children (rebuilding if they change), then applies post to the result.
func ChangeDoChildrenPost[N any](n N, post func(N) N) Action[N] {
	return Action[N]{kind: changeDoChildrenPost, node: n, post: post}
}

// Visitor is the capability contract a rewrite pass implements. Each
// VisitX hook fires in pre-order and returns an Action deciding what
// happens at that node; VisitVarUse rewrites variable references
// directly; EnterScope and ExitScope bracket blocks, prototype parameter
// lists, and enum bodies.
//
// Embed NopVisitor and override only the hooks a pass needs.
type Visitor interface {
	VisitExpr(e Expr) Action[Expr]
	VisitInit(i Init) Action[Init]
	VisitStmt(s Stmt) Action[[]Stmt]
	VisitBlock(b *Block) Action[*Block]
	VisitDef(d Def) Action[[]Def]
	VisitTypeSpec(t TypeSpec) Action[TypeSpec]
	VisitSpec(s Specifier) Action[Specifier]
	VisitDeclType(d DeclType) Action[DeclType]

	// VisitName fires for every declared name. kind tells the pass
	// whether the name declares a variable, a struct/union field, or a
	// typedef; spec is the fully visited enclosing specifier.
	VisitName(kind NameKind, spec Specifier, n *Name) Action[*Name]

	// VisitAttr may expand one attribute into zero or more, except at
	// single-attribute positions, where a result of length != 1 is a
	// contract violation.
	VisitAttr(a *Attribute) Action[[]*Attribute]

	// VisitVarUse rewrites a variable reference's name. Renaming a use
	// is total, so there is no Action wrapper.
	VisitVarUse(name string) string

	EnterScope()
	ExitScope()
}

// NopVisitor is the do-nothing contract: every hook returns DoChildren,
// the name hook is the identity, and the scope hooks do nothing.
// Visiting a tree with it returns the tree itself, untouched.
type NopVisitor struct{}

func (NopVisitor) VisitExpr(Expr) Action[Expr]                      { return DoChildren[Expr]() }
func (NopVisitor) VisitInit(Init) Action[Init]                      { return DoChildren[Init]() }
func (NopVisitor) VisitStmt(Stmt) Action[[]Stmt]                    { return DoChildren[[]Stmt]() }
func (NopVisitor) VisitBlock(*Block) Action[*Block]                 { return DoChildren[*Block]() }
func (NopVisitor) VisitDef(Def) Action[[]Def]                       { return DoChildren[[]Def]() }
func (NopVisitor) VisitTypeSpec(TypeSpec) Action[TypeSpec]          { return DoChildren[TypeSpec]() }
func (NopVisitor) VisitSpec(Specifier) Action[Specifier]            { return DoChildren[Specifier]() }
func (NopVisitor) VisitDeclType(DeclType) Action[DeclType]          { return DoChildren[DeclType]() }
func (NopVisitor) VisitName(NameKind, Specifier, *Name) Action[*Name] {
	return DoChildren[*Name]()
}
func (NopVisitor) VisitAttr(*Attribute) Action[[]*Attribute] { return DoChildren[[]*Attribute]() }
func (NopVisitor) VisitVarUse(name string) string            { return name }
func (NopVisitor) EnterScope()                               {}
func (NopVisitor) ExitScope()                                {}

// ContractError reports a visitor hook whose result violates a
// fixed-multiplicity expectation of its call site, e.g. an attribute
// hook returning two attributes where the grammar holds exactly one.
// It signals a pass implemented against the wrong contract, so the
// engine panics with it immediately instead of continuing.
type ContractError struct {
	Hook string // the offending hook, e.g. "VisitAttr"
	Site string // the call site that had the fixed expectation
	Got  int    // number of nodes the hook produced
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("visitor contract violation: %s returned %d nodes at %s, want exactly 1", e.Hook, e.Got, e.Site)
}
