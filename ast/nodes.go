package ast

import "fmt"

// Node is the interface for all AST nodes.
type Node interface {
	node()
}

// Loc is a position in the original source.
type Loc struct {
	File string
	Line int // 1-based line number, 0 if unknown
}

func (l Loc) String() string {
	if l.Line == 0 {
		return l.File
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// Expr is the interface for expression nodes.
type Expr interface {
	Node
	expr()
}

// Stmt is the interface for statement nodes.
type Stmt interface {
	Node
	stmt()
	StmtPos() Loc
}

// BaseStmt provides the source position common to all statements.
type BaseStmt struct {
	Loc Loc
}

func (b BaseStmt) StmtPos() Loc { return b.Loc }

// Def is the interface for top-level and block-local definitions.
type Def interface {
	Node
	def()
	DefPos() Loc
}

// BaseDef provides the source position common to all definitions.
type BaseDef struct {
	Loc Loc
}

func (b BaseDef) DefPos() Loc { return b.Loc }

// TypeSpec is the interface for type specifier nodes.
type TypeSpec interface {
	Node
	typeSpec()
}

// DeclType is the interface for declarator type nodes. A declarator type
// describes how a name modifies its base specifier: pointer to, array of,
// function returning, or just the base itself.
type DeclType interface {
	Node
	declType()
}

// SpecElem is the interface for specifier elements. A Specifier is an
// ordered sequence of these.
type SpecElem interface {
	Node
	specElem()
}

// Specifier is an ordered list of specifier elements, e.g.
// [static, unsigned, int].
type Specifier []SpecElem

// Init is the interface for initializer nodes.
type Init interface {
	Node
	initExpr()
}

// Designator is the interface for compound-initializer designators
// (.field = and [index] = forms).
type Designator interface {
	Node
	designator()
}

// TranslationUnit is the root node: an ordered sequence of top-level
// definitions produced from one source file.
type TranslationUnit struct {
	SourceFile string
	Defs       []Def
}

func (t *TranslationUnit) node() {}

// --- Expressions ---

// UnaryOp is a unary operator tag.
type UnaryOp int

const (
	OpMinus  UnaryOp = iota // -x
	OpPlus                  // +x
	OpNot                   // !x
	OpBNot                  // ~x
	OpAddrOf                // &x
	OpDeref                 // *x
	OpPreInc                // ++x
	OpPreDec                // --x
	OpPostInc               // x++
	OpPostDec               // x--
)

var unaryOpNames = [...]string{"-", "+", "!", "~", "&", "*", "++", "--", "++", "--"}

func (op UnaryOp) String() string {
	if int(op) < len(unaryOpNames) {
		return unaryOpNames[op]
	}
	return "?"
}

// Postfix reports whether the operator is written after its operand.
func (op UnaryOp) Postfix() bool { return op == OpPostInc || op == OpPostDec }

// BinaryOp is a binary operator tag. Assignment forms are binary
// operators here, as in the surface grammar.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpAnd // &&
	OpOr  // ||
	OpBAnd
	OpBOr
	OpXor
	OpShl
	OpShr
	OpEq
	OpNe
	OpLt
	OpGt
	OpLe
	OpGe
	OpAssign
	OpAddAssign
	OpSubAssign
	OpMulAssign
	OpDivAssign
	OpModAssign
	OpBAndAssign
	OpBOrAssign
	OpXorAssign
	OpShlAssign
	OpShrAssign
)

var binaryOpNames = [...]string{
	"+", "-", "*", "/", "%", "&&", "||", "&", "|", "^", "<<", ">>",
	"==", "!=", "<", ">", "<=", ">=",
	"=", "+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "<<=", ">>=",
}

func (op BinaryOp) String() string {
	if int(op) < len(binaryOpNames) {
		return binaryOpNames[op]
	}
	return "?"
}

// IsAssign reports whether the operator is an assignment form.
func (op BinaryOp) IsAssign() bool { return op >= OpAssign }

// NothingExpr is the absent expression: a bare return value, a missing
// array size, an omitted for-loop clause. Absent expressions are always
// represented by this tag, never by a nil Expr.
type NothingExpr struct{}

func (n *NothingExpr) node() {}
func (n *NothingExpr) expr() {}

// UnaryExpr represents op operand (prefix or postfix).
type UnaryExpr struct {
	Op      UnaryOp
	Operand Expr
}

func (u *UnaryExpr) node() {}
func (u *UnaryExpr) expr() {}

// BinaryExpr represents left op right.
type BinaryExpr struct {
	Op    BinaryOp
	Left  Expr
	Right Expr
}

func (b *BinaryExpr) node() {}
func (b *BinaryExpr) expr() {}

// CondExpr represents cond ? then : else.
type CondExpr struct {
	Cond Expr
	Then Expr
	Else Expr
}

func (c *CondExpr) node() {}
func (c *CondExpr) expr() {}

// CastExpr represents (spec decl)init. The initializer is usually a
// SingleInit expression but may be a CompoundInit for compound literals.
type CastExpr struct {
	Spec Specifier
	Decl DeclType
	Init Init
}

func (c *CastExpr) node() {}
func (c *CastExpr) expr() {}

// CallExpr represents fn(args...).
type CallExpr struct {
	Fn   Expr
	Args []Expr
}

func (c *CallExpr) node() {}
func (c *CallExpr) expr() {}

// CommaExpr represents e1, e2, ..., en.
type CommaExpr struct {
	Exprs []Expr
}

func (c *CommaExpr) node() {}
func (c *CommaExpr) expr() {}

// ConstKind tags the literal form of a constant.
type ConstKind int

const (
	ConstInt ConstKind = iota
	ConstFloat
	ConstChar
	ConstString
)

// ConstExpr is a literal constant. The value is kept in source form.
type ConstExpr struct {
	Kind  ConstKind
	Value string
}

func (c *ConstExpr) node() {}
func (c *ConstExpr) expr() {}

// ParenExpr represents (inner).
type ParenExpr struct {
	Inner Expr
}

func (p *ParenExpr) node() {}
func (p *ParenExpr) expr() {}

// VarExpr is a variable or function reference by name.
type VarExpr struct {
	Name string
}

func (v *VarExpr) node() {}
func (v *VarExpr) expr() {}

// SizeofExpr represents sizeof expr.
type SizeofExpr struct {
	Operand Expr
}

func (s *SizeofExpr) node() {}
func (s *SizeofExpr) expr() {}

// SizeofType represents sizeof(type).
type SizeofType struct {
	Spec Specifier
	Decl DeclType
}

func (s *SizeofType) node() {}
func (s *SizeofType) expr() {}

// AlignofExpr represents __alignof__ expr.
type AlignofExpr struct {
	Operand Expr
}

func (a *AlignofExpr) node() {}
func (a *AlignofExpr) expr() {}

// AlignofType represents __alignof__(type).
type AlignofType struct {
	Spec Specifier
	Decl DeclType
}

func (a *AlignofType) node() {}
func (a *AlignofType) expr() {}

// IndexExpr represents array[index].
type IndexExpr struct {
	Array Expr
	Index Expr
}

func (i *IndexExpr) node() {}
func (i *IndexExpr) expr() {}

// MemberExpr represents x.field.
type MemberExpr struct {
	X     Expr
	Field string
}

func (m *MemberExpr) node() {}
func (m *MemberExpr) expr() {}

// MemberPtrExpr represents x->field.
type MemberPtrExpr struct {
	X     Expr
	Field string
}

func (m *MemberPtrExpr) node() {}
func (m *MemberPtrExpr) expr() {}

// BodyExpr is a GNU statement expression: ({ ... }).
type BodyExpr struct {
	Body *Block
}

func (b *BodyExpr) node() {}
func (b *BodyExpr) expr() {}

// LabelAddrExpr is a GNU label address: &&label.
type LabelAddrExpr struct {
	Label string
}

func (l *LabelAddrExpr) node() {}
func (l *LabelAddrExpr) expr() {}

// PatternExpr is an opaque expression placeholder used by pattern-based
// tooling. It has no children and traversal never descends into it.
type PatternExpr struct {
	Name string
}

func (p *PatternExpr) node() {}
func (p *PatternExpr) expr() {}

// --- Initializers ---

// NoInit is the absent initializer.
type NoInit struct{}

func (n *NoInit) node()     {}
func (n *NoInit) initExpr() {}

// SingleInit is a plain expression initializer.
type SingleInit struct {
	Expr Expr
}

func (s *SingleInit) node()     {}
func (s *SingleInit) initExpr() {}

// CompoundInit is a brace-enclosed initializer list.
type CompoundInit struct {
	Items []InitItem
}

func (c *CompoundInit) node()     {}
func (c *CompoundInit) initExpr() {}

// InitItem is one designator/initializer pair inside a CompoundInit.
type InitItem struct {
	What Designator
	Init Init
}

// NextInit designates the next element in order (no explicit designator).
type NextInit struct{}

func (n *NextInit) node()       {}
func (n *NextInit) designator() {}

// FieldInit designates .field followed by a nested designator.
type FieldInit struct {
	Field string
	Next  Designator
}

func (f *FieldInit) node()       {}
func (f *FieldInit) designator() {}

// IndexInit designates [index] followed by a nested designator.
type IndexInit struct {
	Index Expr
	Next  Designator
}

func (i *IndexInit) node()       {}
func (i *IndexInit) designator() {}

// RangeInit designates the GNU [lo ... hi] element range.
type RangeInit struct {
	Lo Expr
	Hi Expr
}

func (r *RangeInit) node()       {}
func (r *RangeInit) designator() {}

// --- Statements ---

// NopStmt is the empty statement: a bare semicolon.
type NopStmt struct {
	BaseStmt
}

func (n *NopStmt) node() {}
func (n *NopStmt) stmt() {}

// ExprStmt is an expression evaluated for its side effects.
type ExprStmt struct {
	BaseStmt
	Expr Expr
}

func (e *ExprStmt) node() {}
func (e *ExprStmt) stmt() {}

// BlockStmt is a brace-enclosed block in statement position.
type BlockStmt struct {
	BaseStmt
	Body *Block
}

func (b *BlockStmt) node() {}
func (b *BlockStmt) stmt() {}

// SeqStmt is two statements in sequence without a surrounding scope.
type SeqStmt struct {
	BaseStmt
	First  Stmt
	Second Stmt
}

func (s *SeqStmt) node() {}
func (s *SeqStmt) stmt() {}

// IfStmt represents if (cond) then else els. Else is a NopStmt when
// absent.
type IfStmt struct {
	BaseStmt
	Cond Expr
	Then Stmt
	Else Stmt
}

func (i *IfStmt) node() {}
func (i *IfStmt) stmt() {}

// WhileStmt represents while (cond) body.
type WhileStmt struct {
	BaseStmt
	Cond Expr
	Body Stmt
}

func (w *WhileStmt) node() {}
func (w *WhileStmt) stmt() {}

// DoWhileStmt represents do body while (cond);.
type DoWhileStmt struct {
	BaseStmt
	Cond Expr
	Body Stmt
}

func (d *DoWhileStmt) node() {}
func (d *DoWhileStmt) stmt() {}

// ForStmt represents for (init; cond; step) body. Omitted clauses are
// NothingExpr.
type ForStmt struct {
	BaseStmt
	Init Expr
	Cond Expr
	Step Expr
	Body Stmt
}

func (f *ForStmt) node() {}
func (f *ForStmt) stmt() {}

// BreakStmt represents break;.
type BreakStmt struct {
	BaseStmt
}

func (b *BreakStmt) node() {}
func (b *BreakStmt) stmt() {}

// ContinueStmt represents continue;.
type ContinueStmt struct {
	BaseStmt
}

func (c *ContinueStmt) node() {}
func (c *ContinueStmt) stmt() {}

// ReturnStmt represents return value;. Value is NothingExpr for a bare
// return.
type ReturnStmt struct {
	BaseStmt
	Value Expr
}

func (r *ReturnStmt) node() {}
func (r *ReturnStmt) stmt() {}

// SwitchStmt represents switch (expr) body.
type SwitchStmt struct {
	BaseStmt
	Expr Expr
	Body Stmt
}

func (s *SwitchStmt) node() {}
func (s *SwitchStmt) stmt() {}

// CaseStmt represents case expr: body.
type CaseStmt struct {
	BaseStmt
	Expr Expr
	Body Stmt
}

func (c *CaseStmt) node() {}
func (c *CaseStmt) stmt() {}

// CaseRangeStmt represents the GNU case lo ... hi: body.
type CaseRangeStmt struct {
	BaseStmt
	Lo   Expr
	Hi   Expr
	Body Stmt
}

func (c *CaseRangeStmt) node() {}
func (c *CaseRangeStmt) stmt() {}

// DefaultStmt represents default: body.
type DefaultStmt struct {
	BaseStmt
	Body Stmt
}

func (d *DefaultStmt) node() {}
func (d *DefaultStmt) stmt() {}

// LabelStmt represents label: body.
type LabelStmt struct {
	BaseStmt
	Label string
	Body  Stmt
}

func (l *LabelStmt) node() {}
func (l *LabelStmt) stmt() {}

// GotoStmt represents goto label;.
type GotoStmt struct {
	BaseStmt
	Label string
}

func (g *GotoStmt) node() {}
func (g *GotoStmt) stmt() {}

// CompGotoStmt is the GNU computed goto: goto *target;.
type CompGotoStmt struct {
	BaseStmt
	Target Expr
}

func (c *CompGotoStmt) node() {}
func (c *CompGotoStmt) stmt() {}

// AsmStmt is an inline assembly statement. The template and constraint
// strings are opaque to traversal; only operand expressions are visited.
type AsmStmt struct {
	BaseStmt
	Template []string
	Outputs  []AsmOperand
	Inputs   []AsmOperand
	Clobbers []string
	Volatile bool
}

func (a *AsmStmt) node() {}
func (a *AsmStmt) stmt() {}

// AsmOperand is one constraint/expression pair of an AsmStmt.
type AsmOperand struct {
	Constraint string
	Expr       Expr
}

// --- Definitions ---

// FuncDef is a function definition: specifier, declarator name, body.
type FuncDef struct {
	BaseDef
	Spec Specifier
	Name *Name
	Body *Block
}

func (f *FuncDef) node() {}
func (f *FuncDef) def()  {}

// DeclDef is a variable declaration group: one specifier shared by one
// or more initialized names, e.g. int x = 1, *p;.
type DeclDef struct {
	BaseDef
	Spec  Specifier
	Names []*InitName
}

func (d *DeclDef) node() {}
func (d *DeclDef) def()  {}

// InitName is one declared name with its optional initializer.
type InitName struct {
	Name *Name
	Init Init
}

// TypedefDef is a type alias declaration: typedef spec name, name...;.
type TypedefDef struct {
	BaseDef
	Spec  Specifier
	Names []*Name
}

func (t *TypedefDef) node() {}
func (t *TypedefDef) def()  {}

// TypeDeclDef is a type-only declaration with no declared names, e.g.
// struct S { int a; };.
type TypeDeclDef struct {
	BaseDef
	Spec Specifier
}

func (t *TypeDeclDef) node() {}
func (t *TypeDeclDef) def()  {}

// AsmDef is a file-scope raw assembly block.
type AsmDef struct {
	BaseDef
	Template string
}

func (a *AsmDef) node() {}
func (a *AsmDef) def()  {}

// PragmaDef is a #pragma directive carried as an expression.
type PragmaDef struct {
	BaseDef
	Expr Expr
}

func (p *PragmaDef) node() {}
func (p *PragmaDef) def()  {}

// TransformerDef is an opaque definition-to-definitions rewrite pattern
// used by pattern-based tooling. Traversal never descends into it.
type TransformerDef struct {
	BaseDef
	From *DeclDef
	To   []Def
}

func (t *TransformerDef) node() {}
func (t *TransformerDef) def()  {}

// ExprTransformerDef is an opaque expression-to-expression rewrite
// pattern. Traversal never descends into it.
type ExprTransformerDef struct {
	BaseDef
	From Expr
	To   Expr
}

func (e *ExprTransformerDef) node() {}
func (e *ExprTransformerDef) def()  {}

// --- Type specifiers ---

// BuiltinKind tags the simple built-in type specifiers.
type BuiltinKind int

const (
	Tvoid BuiltinKind = iota
	Tbool
	Tchar
	Tshort
	Tint
	Tlong
	Tint64
	Tfloat
	Tdouble
	Tsigned
	Tunsigned
)

var builtinNames = [...]string{
	"void", "_Bool", "char", "short", "int", "long", "__int64",
	"float", "double", "signed", "unsigned",
}

func (k BuiltinKind) String() string {
	if int(k) < len(builtinNames) {
		return builtinNames[k]
	}
	return "?"
}

// BuiltinType is a simple built-in type specifier. It has no children.
type BuiltinType struct {
	Kind BuiltinKind
}

func (b *BuiltinType) node()     {}
func (b *BuiltinType) typeSpec() {}

// NamedType is a reference to a typedef name.
type NamedType struct {
	Name string
}

func (n *NamedType) node()     {}
func (n *NamedType) typeSpec() {}

// StructType is struct tag { fields } attrs. HasBody distinguishes a
// definition with an empty field list from a bare reference.
type StructType struct {
	Tag     string
	Fields  []*FieldGroup
	HasBody bool
	Attrs   []*Attribute
}

func (s *StructType) node()     {}
func (s *StructType) typeSpec() {}

// UnionType is union tag { fields } attrs, with the same body convention
// as StructType.
type UnionType struct {
	Tag     string
	Fields  []*FieldGroup
	HasBody bool
	Attrs   []*Attribute
}

func (u *UnionType) node()     {}
func (u *UnionType) typeSpec() {}

// EnumType is enum tag { items } attrs, with the same body convention as
// StructType. The enumerator list opens a scope for its items.
type EnumType struct {
	Tag     string
	Items   []*EnumItem
	HasBody bool
	Attrs   []*Attribute
}

func (e *EnumType) node()     {}
func (e *EnumType) typeSpec() {}

// EnumItem is one enumerator: name and optional value expression
// (NothingExpr when absent).
type EnumItem struct {
	Name  string
	Value Expr
	Loc   Loc
}

// TypeofExpr is the GNU typeof(expr).
type TypeofExpr struct {
	Expr Expr
}

func (t *TypeofExpr) node()     {}
func (t *TypeofExpr) typeSpec() {}

// TypeofType is the GNU typeof(type).
type TypeofType struct {
	Spec Specifier
	Decl DeclType
}

func (t *TypeofType) node()     {}
func (t *TypeofType) typeSpec() {}

// FieldGroup is one specifier shared by one or more struct/union fields.
type FieldGroup struct {
	Spec   Specifier
	Fields []*Field
}

// Field is one declared struct/union field with an optional bitfield
// width (nil when absent).
type Field struct {
	Name     *Name
	Bitfield Expr
}

// --- Specifier elements ---

// StorageKind tags a storage class specifier element.
type StorageKind int

const (
	StorageAuto StorageKind = iota
	StorageStatic
	StorageExtern
	StorageRegister
	StorageTypedef
)

var storageNames = [...]string{"auto", "static", "extern", "register", "typedef"}

func (k StorageKind) String() string {
	if int(k) < len(storageNames) {
		return storageNames[k]
	}
	return "?"
}

// SpecStorage is a storage class element.
type SpecStorage struct {
	Kind StorageKind
}

func (s *SpecStorage) node()     {}
func (s *SpecStorage) specElem() {}

// SpecInline is the inline function marker.
type SpecInline struct{}

func (s *SpecInline) node()     {}
func (s *SpecInline) specElem() {}

// SpecAttr wraps an attribute appearing in specifier position. This is a
// single-attribute slot: a visitor's attribute hook must produce exactly
// one replacement here.
type SpecAttr struct {
	Attr *Attribute
}

func (s *SpecAttr) node()     {}
func (s *SpecAttr) specElem() {}

// SpecType wraps a type specifier.
type SpecType struct {
	Type TypeSpec
}

func (s *SpecType) node()     {}
func (s *SpecType) specElem() {}

// SpecPattern is an opaque specifier placeholder used by pattern-based
// tooling. Traversal never descends into it.
type SpecPattern struct {
	Name string
}

func (s *SpecPattern) node()     {}
func (s *SpecPattern) specElem() {}

// --- Declarator types ---

// JustBase is the trivial declarator: the name denotes the base type
// itself.
type JustBase struct{}

func (j *JustBase) node()     {}
func (j *JustBase) declType() {}

// ParenType is a parenthesized declarator with attributes on either
// side.
type ParenType struct {
	Before []*Attribute
	Decl   DeclType
	After  []*Attribute
}

func (p *ParenType) node()     {}
func (p *ParenType) declType() {}

// PtrType is pointer-to-decl with pointer attributes.
type PtrType struct {
	Attrs []*Attribute
	Decl  DeclType
}

func (p *PtrType) node()     {}
func (p *PtrType) declType() {}

// ArrayType is array-of-decl. Size is NothingExpr for an incomplete
// array.
type ArrayType struct {
	Decl  DeclType
	Attrs []*Attribute
	Size  Expr
}

func (a *ArrayType) node()     {}
func (a *ArrayType) declType() {}

// ProtoType is function-of-decl with a parameter list. The parameter
// list opens a scope.
type ProtoType struct {
	Decl   DeclType
	Params []*Param
	Vararg bool
}

func (p *ProtoType) node()     {}
func (p *ProtoType) declType() {}

// Param is one prototype parameter: specifier plus declared name. An
// abstract parameter carries a Name with an empty identifier.
type Param struct {
	Spec Specifier
	Name *Name
}

// --- Names and attributes ---

// NameKind tells a visitor what sort of declaration a visited name comes
// from.
type NameKind int

const (
	NameVar NameKind = iota
	NameField
	NameType
)

func (k NameKind) String() string {
	switch k {
	case NameField:
		return "field"
	case NameType:
		return "type"
	default:
		return "var"
	}
}

// Name is one declared name: the identifier, the declarator type shaping
// it, and any trailing attributes.
type Name struct {
	Ident string
	Decl  DeclType
	Attrs []*Attribute
	Loc   Loc
}

func (n *Name) node() {}

// Attribute is a named attribute with ordered argument expressions, e.g.
// aligned(8).
type Attribute struct {
	Name string
	Args []Expr
}

func (a *Attribute) node() {}

// Block is a lexical scope: attributes, local definitions, statements,
// and the set of labels defined inside it.
type Block struct {
	Attrs  []*Attribute
	Defs   []Def
	Stmts  []Stmt
	Labels []string
}

func (b *Block) node() {}
