package ast

import "fmt"

// This file is the dispatch engine and the per-node-kind traversal
// rules. Traversal is pre-order: a visitor's hook decides what happens
// at a node before its children are visited, and a node is rebuilt only
// when a child actually changed, so visiting an untouched subtree is
// O(1) and returns the original object.

// visit drives one node of a single-result kind through the visitor's
// start hook, applying the hook's Action semantics.
func visit[N any](v Visitor, start func(N) Action[N], children func(Visitor, N) N, node N) N {
	a := start(node)
	switch a.kind {
	case skipChildren:
		return node
	case changeTo:
		return a.node
	case changeDoChildrenPost:
		return a.post(children(v, a.node))
	default:
		return children(v, node)
	}
}

// visitList drives one node of a list-result kind. SkipChildren yields
// the original node as a singleton; ChangeTo yields the replacement
// sequence unvisited; ChangeDoChildrenPost visits the children of every
// substituted element before applying post to the whole sequence.
func visitList[N any](v Visitor, start func(N) Action[[]N], children func(Visitor, N) N, node N) []N {
	a := start(node)
	switch a.kind {
	case skipChildren:
		return []N{node}
	case changeTo:
		return a.node
	case changeDoChildrenPost:
		out, _ := mapNoCopy(a.node, func(n N) N { return children(v, n) })
		return a.post(out)
	default:
		return []N{children(v, node)}
	}
}

// Visit rewrites a whole translation unit through v. This is the entry
// point passes call; the result is the input itself when nothing
// changed.
func Visit(v Visitor, tu *TranslationUnit) *TranslationUnit {
	defs, changed := mapNoCopyList(tu.Defs, func(d Def) []Def { return VisitDef(v, d) })
	if !changed {
		return tu
	}
	cp := *tu
	cp.Defs = defs
	return &cp
}

// VisitExpr visits one expression.
func VisitExpr(v Visitor, e Expr) Expr {
	return visit(v, v.VisitExpr, childrenExpr, e)
}

// VisitInit visits one initializer.
func VisitInit(v Visitor, i Init) Init {
	return visit(v, v.VisitInit, childrenInit, i)
}

// VisitStmt visits one statement, which may rewrite into any number of
// statements.
func VisitStmt(v Visitor, s Stmt) []Stmt {
	return visitList(v, v.VisitStmt, childrenStmt, s)
}

// VisitBlock visits one block.
func VisitBlock(v Visitor, b *Block) *Block {
	return visit(v, v.VisitBlock, childrenBlock, b)
}

// VisitDef visits one definition, which may rewrite into any number of
// definitions.
func VisitDef(v Visitor, d Def) []Def {
	return visitList(v, v.VisitDef, childrenDef, d)
}

// VisitTypeSpec visits one type specifier.
func VisitTypeSpec(v Visitor, t TypeSpec) TypeSpec {
	return visit(v, v.VisitTypeSpec, childrenTypeSpec, t)
}

// VisitSpec visits one specifier sequence.
func VisitSpec(v Visitor, s Specifier) Specifier {
	return visit(v, v.VisitSpec, childrenSpec, s)
}

// VisitDeclType visits one declarator type.
func VisitDeclType(v Visitor, d DeclType) DeclType {
	return visit(v, v.VisitDeclType, childrenDeclType, d)
}

// VisitName visits one declared name. spec must be the already visited
// enclosing specifier, so the hook sees the final specifier alongside
// the name.
func VisitName(v Visitor, kind NameKind, spec Specifier, n *Name) *Name {
	start := func(n *Name) Action[*Name] { return v.VisitName(kind, spec, n) }
	return visit(v, start, childrenName, n)
}

// VisitAttr visits one attribute, which may rewrite into any number of
// attributes.
func VisitAttr(v Visitor, a *Attribute) []*Attribute {
	return visitList(v, v.VisitAttr, childrenAttr, a)
}

// VisitAttrs visits an attribute sequence through the list rule.
func VisitAttrs(v Visitor, attrs []*Attribute) []*Attribute {
	out, _ := visitAttrs(v, attrs)
	return out
}

func visitAttrs(v Visitor, attrs []*Attribute) ([]*Attribute, bool) {
	return mapNoCopyList(attrs, func(a *Attribute) []*Attribute { return VisitAttr(v, a) })
}

// visitOneStmt visits a statement occupying a single-statement grammar
// slot (an if branch, a loop body). When the statement rewrites to zero
// or many statements, the results are wrapped in a synthetic block
// carrying no attributes or definitions of its own.
func visitOneStmt(v Visitor, s Stmt) Stmt {
	sl := VisitStmt(v, s)
	if len(sl) == 1 {
		return sl[0]
	}
	return &BlockStmt{BaseStmt: BaseStmt{Loc: s.StmtPos()}, Body: &Block{Stmts: sl}}
}

// --- Expression rule ---

func childrenExpr(v Visitor, e Expr) Expr {
	ve := func(x Expr) Expr { return VisitExpr(v, x) }
	switch ex := e.(type) {
	case *NothingExpr, *ConstExpr, *LabelAddrExpr, *PatternExpr:
		return e

	case *VarExpr:
		name := v.VisitVarUse(ex.Name)
		if name == ex.Name {
			return e
		}
		return &VarExpr{Name: name}

	case *UnaryExpr:
		operand := ve(ex.Operand)
		if operand == ex.Operand {
			return e
		}
		return &UnaryExpr{Op: ex.Op, Operand: operand}

	case *BinaryExpr:
		left := ve(ex.Left)
		right := ve(ex.Right)
		if left == ex.Left && right == ex.Right {
			return e
		}
		return &BinaryExpr{Op: ex.Op, Left: left, Right: right}

	case *CondExpr:
		cond := ve(ex.Cond)
		then := ve(ex.Then)
		els := ve(ex.Else)
		if cond == ex.Cond && then == ex.Then && els == ex.Else {
			return e
		}
		return &CondExpr{Cond: cond, Then: then, Else: els}

	case *CastExpr:
		spec := VisitSpec(v, ex.Spec)
		decl := VisitDeclType(v, ex.Decl)
		ini := VisitInit(v, ex.Init)
		if sameSlice(spec, ex.Spec) && decl == ex.Decl && ini == ex.Init {
			return e
		}
		return &CastExpr{Spec: spec, Decl: decl, Init: ini}

	case *CallExpr:
		fn := ve(ex.Fn)
		args, ac := mapNoCopy(ex.Args, ve)
		if fn == ex.Fn && !ac {
			return e
		}
		return &CallExpr{Fn: fn, Args: args}

	case *CommaExpr:
		exprs, changed := mapNoCopy(ex.Exprs, ve)
		if !changed {
			return e
		}
		return &CommaExpr{Exprs: exprs}

	case *ParenExpr:
		inner := ve(ex.Inner)
		if inner == ex.Inner {
			return e
		}
		return &ParenExpr{Inner: inner}

	case *SizeofExpr:
		operand := ve(ex.Operand)
		if operand == ex.Operand {
			return e
		}
		return &SizeofExpr{Operand: operand}

	case *SizeofType:
		spec := VisitSpec(v, ex.Spec)
		decl := VisitDeclType(v, ex.Decl)
		if sameSlice(spec, ex.Spec) && decl == ex.Decl {
			return e
		}
		return &SizeofType{Spec: spec, Decl: decl}

	case *AlignofExpr:
		operand := ve(ex.Operand)
		if operand == ex.Operand {
			return e
		}
		return &AlignofExpr{Operand: operand}

	case *AlignofType:
		spec := VisitSpec(v, ex.Spec)
		decl := VisitDeclType(v, ex.Decl)
		if sameSlice(spec, ex.Spec) && decl == ex.Decl {
			return e
		}
		return &AlignofType{Spec: spec, Decl: decl}

	case *IndexExpr:
		array := ve(ex.Array)
		index := ve(ex.Index)
		if array == ex.Array && index == ex.Index {
			return e
		}
		return &IndexExpr{Array: array, Index: index}

	case *MemberExpr:
		x := ve(ex.X)
		if x == ex.X {
			return e
		}
		return &MemberExpr{X: x, Field: ex.Field}

	case *MemberPtrExpr:
		x := ve(ex.X)
		if x == ex.X {
			return e
		}
		return &MemberPtrExpr{X: x, Field: ex.Field}

	case *BodyExpr:
		body := VisitBlock(v, ex.Body)
		if body == ex.Body {
			return e
		}
		return &BodyExpr{Body: body}

	default:
		panic(fmt.Sprintf("ast: unknown expression type %T", e))
	}
}

// --- Initializer rule ---

func childrenInit(v Visitor, i Init) Init {
	switch in := i.(type) {
	case *NoInit:
		return i

	case *SingleInit:
		e := VisitExpr(v, in.Expr)
		if e == in.Expr {
			return i
		}
		return &SingleInit{Expr: e}

	case *CompoundInit:
		items, changed := mapNoCopy(in.Items, func(it InitItem) InitItem {
			what := childrenDesignator(v, it.What)
			ini := VisitInit(v, it.Init)
			if what == it.What && ini == it.Init {
				return it
			}
			return InitItem{What: what, Init: ini}
		})
		if !changed {
			return i
		}
		return &CompoundInit{Items: items}

	default:
		panic(fmt.Sprintf("ast: unknown initializer type %T", i))
	}
}

// Designators have no hook of their own; their index expressions are
// visited through the expression rule.
func childrenDesignator(v Visitor, d Designator) Designator {
	switch dw := d.(type) {
	case *NextInit:
		return d

	case *FieldInit:
		next := childrenDesignator(v, dw.Next)
		if next == dw.Next {
			return d
		}
		return &FieldInit{Field: dw.Field, Next: next}

	case *IndexInit:
		index := VisitExpr(v, dw.Index)
		next := childrenDesignator(v, dw.Next)
		if index == dw.Index && next == dw.Next {
			return d
		}
		return &IndexInit{Index: index, Next: next}

	case *RangeInit:
		lo := VisitExpr(v, dw.Lo)
		hi := VisitExpr(v, dw.Hi)
		if lo == dw.Lo && hi == dw.Hi {
			return d
		}
		return &RangeInit{Lo: lo, Hi: hi}

	default:
		panic(fmt.Sprintf("ast: unknown designator type %T", d))
	}
}

// --- Statement rule ---

func childrenStmt(v Visitor, s Stmt) Stmt {
	switch st := s.(type) {
	case *NopStmt, *BreakStmt, *ContinueStmt, *GotoStmt:
		return s

	case *ExprStmt:
		e := VisitExpr(v, st.Expr)
		if e == st.Expr {
			return s
		}
		return &ExprStmt{BaseStmt: st.BaseStmt, Expr: e}

	case *BlockStmt:
		body := VisitBlock(v, st.Body)
		if body == st.Body {
			return s
		}
		return &BlockStmt{BaseStmt: st.BaseStmt, Body: body}

	case *SeqStmt:
		first := visitOneStmt(v, st.First)
		second := visitOneStmt(v, st.Second)
		if first == st.First && second == st.Second {
			return s
		}
		return &SeqStmt{BaseStmt: st.BaseStmt, First: first, Second: second}

	case *IfStmt:
		cond := VisitExpr(v, st.Cond)
		then := visitOneStmt(v, st.Then)
		els := visitOneStmt(v, st.Else)
		if cond == st.Cond && then == st.Then && els == st.Else {
			return s
		}
		return &IfStmt{BaseStmt: st.BaseStmt, Cond: cond, Then: then, Else: els}

	case *WhileStmt:
		cond := VisitExpr(v, st.Cond)
		body := visitOneStmt(v, st.Body)
		if cond == st.Cond && body == st.Body {
			return s
		}
		return &WhileStmt{BaseStmt: st.BaseStmt, Cond: cond, Body: body}

	case *DoWhileStmt:
		cond := VisitExpr(v, st.Cond)
		body := visitOneStmt(v, st.Body)
		if cond == st.Cond && body == st.Body {
			return s
		}
		return &DoWhileStmt{BaseStmt: st.BaseStmt, Cond: cond, Body: body}

	case *ForStmt:
		ini := VisitExpr(v, st.Init)
		cond := VisitExpr(v, st.Cond)
		step := VisitExpr(v, st.Step)
		body := visitOneStmt(v, st.Body)
		if ini == st.Init && cond == st.Cond && step == st.Step && body == st.Body {
			return s
		}
		return &ForStmt{BaseStmt: st.BaseStmt, Init: ini, Cond: cond, Step: step, Body: body}

	case *ReturnStmt:
		value := VisitExpr(v, st.Value)
		if value == st.Value {
			return s
		}
		return &ReturnStmt{BaseStmt: st.BaseStmt, Value: value}

	case *SwitchStmt:
		e := VisitExpr(v, st.Expr)
		body := visitOneStmt(v, st.Body)
		if e == st.Expr && body == st.Body {
			return s
		}
		return &SwitchStmt{BaseStmt: st.BaseStmt, Expr: e, Body: body}

	case *CaseStmt:
		e := VisitExpr(v, st.Expr)
		body := visitOneStmt(v, st.Body)
		if e == st.Expr && body == st.Body {
			return s
		}
		return &CaseStmt{BaseStmt: st.BaseStmt, Expr: e, Body: body}

	case *CaseRangeStmt:
		lo := VisitExpr(v, st.Lo)
		hi := VisitExpr(v, st.Hi)
		body := visitOneStmt(v, st.Body)
		if lo == st.Lo && hi == st.Hi && body == st.Body {
			return s
		}
		return &CaseRangeStmt{BaseStmt: st.BaseStmt, Lo: lo, Hi: hi, Body: body}

	case *DefaultStmt:
		body := visitOneStmt(v, st.Body)
		if body == st.Body {
			return s
		}
		return &DefaultStmt{BaseStmt: st.BaseStmt, Body: body}

	case *LabelStmt:
		body := visitOneStmt(v, st.Body)
		if body == st.Body {
			return s
		}
		return &LabelStmt{BaseStmt: st.BaseStmt, Label: st.Label, Body: body}

	case *CompGotoStmt:
		target := VisitExpr(v, st.Target)
		if target == st.Target {
			return s
		}
		return &CompGotoStmt{BaseStmt: st.BaseStmt, Target: target}

	case *AsmStmt:
		visitOperands := func(ops []AsmOperand) ([]AsmOperand, bool) {
			return mapNoCopy(ops, func(op AsmOperand) AsmOperand {
				e := VisitExpr(v, op.Expr)
				if e == op.Expr {
					return op
				}
				return AsmOperand{Constraint: op.Constraint, Expr: e}
			})
		}
		outputs, oc := visitOperands(st.Outputs)
		inputs, ic := visitOperands(st.Inputs)
		if !oc && !ic {
			return s
		}
		cp := *st
		cp.Outputs = outputs
		cp.Inputs = inputs
		return &cp

	default:
		panic(fmt.Sprintf("ast: unknown statement type %T", s))
	}
}

// --- Block rule ---

// childrenBlock brackets the block with the scope hooks. The deferred
// exit keeps enter/exit calls paired no matter what the visitor does to
// the block's contents.
func childrenBlock(v Visitor, b *Block) *Block {
	v.EnterScope()
	defer v.ExitScope()
	attrs, ac := visitAttrs(v, b.Attrs)
	defs, dc := mapNoCopyList(b.Defs, func(d Def) []Def { return VisitDef(v, d) })
	stmts, sc := mapNoCopyList(b.Stmts, func(s Stmt) []Stmt { return VisitStmt(v, s) })
	if !ac && !dc && !sc {
		return b
	}
	cp := *b
	cp.Attrs = attrs
	cp.Defs = defs
	cp.Stmts = stmts
	return &cp
}

// --- Definition rule ---

func childrenDef(v Visitor, d Def) Def {
	switch df := d.(type) {
	case *FuncDef:
		spec := VisitSpec(v, df.Spec)
		name := VisitName(v, NameVar, spec, df.Name)
		body := VisitBlock(v, df.Body)
		if sameSlice(spec, df.Spec) && name == df.Name && body == df.Body {
			return d
		}
		return &FuncDef{BaseDef: df.BaseDef, Spec: spec, Name: name, Body: body}

	case *DeclDef:
		spec := VisitSpec(v, df.Spec)
		names, nc := mapNoCopy(df.Names, func(in *InitName) *InitName {
			name := VisitName(v, NameVar, spec, in.Name)
			ini := VisitInit(v, in.Init)
			if name == in.Name && ini == in.Init {
				return in
			}
			return &InitName{Name: name, Init: ini}
		})
		if sameSlice(spec, df.Spec) && !nc {
			return d
		}
		return &DeclDef{BaseDef: df.BaseDef, Spec: spec, Names: names}

	case *TypedefDef:
		spec := VisitSpec(v, df.Spec)
		names, nc := mapNoCopy(df.Names, func(n *Name) *Name {
			return VisitName(v, NameType, spec, n)
		})
		if sameSlice(spec, df.Spec) && !nc {
			return d
		}
		return &TypedefDef{BaseDef: df.BaseDef, Spec: spec, Names: names}

	case *TypeDeclDef:
		spec := VisitSpec(v, df.Spec)
		if sameSlice(spec, df.Spec) {
			return d
		}
		return &TypeDeclDef{BaseDef: df.BaseDef, Spec: spec}

	case *AsmDef:
		return d

	case *PragmaDef:
		e := VisitExpr(v, df.Expr)
		if e == df.Expr {
			return d
		}
		return &PragmaDef{BaseDef: df.BaseDef, Expr: e}

	case *TransformerDef, *ExprTransformerDef:
		// Opaque extension points: no children are visited.
		return d

	default:
		panic(fmt.Sprintf("ast: unknown definition type %T", d))
	}
}

// --- Type specifier rule ---

func childrenTypeSpec(v Visitor, t TypeSpec) TypeSpec {
	switch ts := t.(type) {
	case *BuiltinType, *NamedType:
		return t

	case *StructType:
		fields, fc := mapNoCopy(ts.Fields, func(fg *FieldGroup) *FieldGroup {
			return childrenFieldGroup(v, fg)
		})
		attrs, ac := visitAttrs(v, ts.Attrs)
		if !fc && !ac {
			return t
		}
		cp := *ts
		cp.Fields = fields
		cp.Attrs = attrs
		return &cp

	case *UnionType:
		fields, fc := mapNoCopy(ts.Fields, func(fg *FieldGroup) *FieldGroup {
			return childrenFieldGroup(v, fg)
		})
		attrs, ac := visitAttrs(v, ts.Attrs)
		if !fc && !ac {
			return t
		}
		cp := *ts
		cp.Fields = fields
		cp.Attrs = attrs
		return &cp

	case *EnumType:
		items, ic := visitEnumItems(v, ts.Items)
		attrs, ac := visitAttrs(v, ts.Attrs)
		if !ic && !ac {
			return t
		}
		cp := *ts
		cp.Items = items
		cp.Attrs = attrs
		return &cp

	case *TypeofExpr:
		e := VisitExpr(v, ts.Expr)
		if e == ts.Expr {
			return t
		}
		return &TypeofExpr{Expr: e}

	case *TypeofType:
		spec := VisitSpec(v, ts.Spec)
		decl := VisitDeclType(v, ts.Decl)
		if sameSlice(spec, ts.Spec) && decl == ts.Decl {
			return t
		}
		return &TypeofType{Spec: spec, Decl: decl}

	default:
		panic(fmt.Sprintf("ast: unknown type specifier %T", t))
	}
}

// visitEnumItems brackets the enumerator list with the scope hooks: the
// enumerators are names declared in the scope the enum body opens.
func visitEnumItems(v Visitor, items []*EnumItem) ([]*EnumItem, bool) {
	v.EnterScope()
	defer v.ExitScope()
	return mapNoCopy(items, func(it *EnumItem) *EnumItem {
		value := VisitExpr(v, it.Value)
		if value == it.Value {
			return it
		}
		return &EnumItem{Name: it.Name, Value: value, Loc: it.Loc}
	})
}

func childrenFieldGroup(v Visitor, fg *FieldGroup) *FieldGroup {
	spec := VisitSpec(v, fg.Spec)
	fields, fc := mapNoCopy(fg.Fields, func(f *Field) *Field {
		name := VisitName(v, NameField, spec, f.Name)
		bitfield := f.Bitfield
		if bitfield != nil {
			bitfield = VisitExpr(v, bitfield)
		}
		if name == f.Name && bitfield == f.Bitfield {
			return f
		}
		return &Field{Name: name, Bitfield: bitfield}
	})
	if sameSlice(spec, fg.Spec) && !fc {
		return fg
	}
	return &FieldGroup{Spec: spec, Fields: fields}
}

// --- Specifier rule ---

func childrenSpec(v Visitor, s Specifier) Specifier {
	out, changed := mapNoCopy(s, func(el SpecElem) SpecElem { return childrenSpecElem(v, el) })
	if !changed {
		return s
	}
	return Specifier(out)
}

func childrenSpecElem(v Visitor, el SpecElem) SpecElem {
	switch se := el.(type) {
	case *SpecStorage, *SpecInline, *SpecPattern:
		return el

	case *SpecAttr:
		// A specifier holds exactly one attribute per element, so the
		// attribute hook may not delete or split here.
		al := VisitAttr(v, se.Attr)
		if len(al) != 1 {
			panic(&ContractError{Hook: "VisitAttr", Site: "specifier attribute", Got: len(al)})
		}
		if al[0] == se.Attr {
			return el
		}
		return &SpecAttr{Attr: al[0]}

	case *SpecType:
		ts := VisitTypeSpec(v, se.Type)
		if ts == se.Type {
			return el
		}
		return &SpecType{Type: ts}

	default:
		panic(fmt.Sprintf("ast: unknown specifier element %T", el))
	}
}

// --- Declarator type rule ---

func childrenDeclType(v Visitor, d DeclType) DeclType {
	switch dt := d.(type) {
	case *JustBase:
		return d

	case *ParenType:
		before, bc := visitAttrs(v, dt.Before)
		decl := VisitDeclType(v, dt.Decl)
		after, ac := visitAttrs(v, dt.After)
		if !bc && decl == dt.Decl && !ac {
			return d
		}
		return &ParenType{Before: before, Decl: decl, After: after}

	case *PtrType:
		attrs, ac := visitAttrs(v, dt.Attrs)
		decl := VisitDeclType(v, dt.Decl)
		if !ac && decl == dt.Decl {
			return d
		}
		return &PtrType{Attrs: attrs, Decl: decl}

	case *ArrayType:
		decl := VisitDeclType(v, dt.Decl)
		attrs, ac := visitAttrs(v, dt.Attrs)
		size := VisitExpr(v, dt.Size)
		if decl == dt.Decl && !ac && size == dt.Size {
			return d
		}
		return &ArrayType{Decl: decl, Attrs: attrs, Size: size}

	case *ProtoType:
		return childrenProto(v, dt)

	default:
		panic(fmt.Sprintf("ast: unknown declarator type %T", d))
	}
}

// childrenProto brackets the parameter list with the scope hooks: the
// parameter names live in the scope the prototype opens.
func childrenProto(v Visitor, p *ProtoType) DeclType {
	v.EnterScope()
	defer v.ExitScope()
	decl := VisitDeclType(v, p.Decl)
	params, pc := mapNoCopy(p.Params, func(pa *Param) *Param {
		spec := VisitSpec(v, pa.Spec)
		name := VisitName(v, NameVar, spec, pa.Name)
		if sameSlice(spec, pa.Spec) && name == pa.Name {
			return pa
		}
		return &Param{Spec: spec, Name: name}
	})
	if decl == p.Decl && !pc {
		return p
	}
	return &ProtoType{Decl: decl, Params: params, Vararg: p.Vararg}
}

// --- Name and attribute rules ---

func childrenName(v Visitor, n *Name) *Name {
	decl := VisitDeclType(v, n.Decl)
	attrs, ac := visitAttrs(v, n.Attrs)
	if decl == n.Decl && !ac {
		return n
	}
	cp := *n
	cp.Decl = decl
	cp.Attrs = attrs
	return &cp
}

func childrenAttr(v Visitor, a *Attribute) *Attribute {
	args, changed := mapNoCopy(a.Args, func(e Expr) Expr { return VisitExpr(v, e) })
	if !changed {
		return a
	}
	return &Attribute{Name: a.Name, Args: args}
}
