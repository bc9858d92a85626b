// Package printer renders translation units back to C-like source
// text. The output is meant for humans and golden tests; it preserves
// the shape of the tree, not the original file's whitespace.
package printer

import (
	"fmt"
	"strings"

	"github.com/csurf/csurf/ast"
)

// ExprString renders a single expression. Parentheses are inserted
// where operator precedence requires them.
func ExprString(e ast.Expr) string {
	p := &printer{}
	return p.expr(e)
}

// Print serializes a translation unit to source text.
func Print(tu *ast.TranslationUnit) string {
	p := &printer{}
	for i, d := range tu.Defs {
		if i > 0 {
			p.blank()
		}
		p.def(d)
	}
	return p.sb.String()
}

type printer struct {
	sb     strings.Builder
	indent int
}

func (p *printer) line(format string, args ...any) {
	p.writeIndent()
	fmt.Fprintf(&p.sb, format, args...)
	p.sb.WriteByte('\n')
}

func (p *printer) blank() {
	p.sb.WriteByte('\n')
}

func (p *printer) writeIndent() {
	for range p.indent {
		p.sb.WriteByte('\t')
	}
}

// --- Definitions ---

func (p *printer) def(d ast.Def) {
	switch df := d.(type) {
	case *ast.FuncDef:
		p.line("%s %s {", p.spec(df.Spec), p.name(df.Name))
		p.indent++
		p.blockBody(df.Body)
		p.indent--
		p.line("}")

	case *ast.DeclDef:
		var names []string
		for _, in := range df.Names {
			s := p.name(in.Name)
			if _, none := in.Init.(*ast.NoInit); !none {
				s += " = " + p.initStr(in.Init)
			}
			names = append(names, s)
		}
		p.line("%s %s;", p.spec(df.Spec), strings.Join(names, ", "))

	case *ast.TypedefDef:
		var names []string
		for _, n := range df.Names {
			names = append(names, p.name(n))
		}
		p.line("%s %s;", p.spec(df.Spec), strings.Join(names, ", "))

	case *ast.TypeDeclDef:
		p.line("%s;", p.spec(df.Spec))

	case *ast.AsmDef:
		p.line("__asm__(%s);", df.Template)

	case *ast.PragmaDef:
		p.line("#pragma %s", p.expr(df.Expr))

	case *ast.TransformerDef, *ast.ExprTransformerDef:
		p.line("/* opaque rewrite pattern */")
	}
}

// --- Specifiers and declarators ---

func (p *printer) spec(s ast.Specifier) string {
	var parts []string
	for _, el := range s {
		switch se := el.(type) {
		case *ast.SpecStorage:
			parts = append(parts, se.Kind.String())
		case *ast.SpecInline:
			parts = append(parts, "inline")
		case *ast.SpecAttr:
			parts = append(parts, p.attrStr(se.Attr))
		case *ast.SpecType:
			parts = append(parts, p.typeSpec(se.Type))
		case *ast.SpecPattern:
			parts = append(parts, "@"+se.Name)
		}
	}
	return strings.Join(parts, " ")
}

// attrStr prints bare qualifiers as keywords and everything else in
// attribute syntax.
func (p *printer) attrStr(a *ast.Attribute) string {
	if (a.Name == "const" || a.Name == "volatile") && len(a.Args) == 0 {
		return a.Name
	}
	s := a.Name
	if len(a.Args) > 0 {
		var args []string
		for _, e := range a.Args {
			args = append(args, p.expr(e))
		}
		s += "(" + strings.Join(args, ", ") + ")"
	}
	return "__attribute__((" + s + "))"
}

func (p *printer) attrsSuffix(attrs []*ast.Attribute) string {
	var sb strings.Builder
	for _, a := range attrs {
		sb.WriteByte(' ')
		sb.WriteString(p.attrStr(a))
	}
	return sb.String()
}

func (p *printer) typeSpec(t ast.TypeSpec) string {
	switch ts := t.(type) {
	case *ast.BuiltinType:
		return ts.Kind.String()
	case *ast.NamedType:
		return ts.Name
	case *ast.StructType:
		return p.composite("struct", ts.Tag, ts.Fields, ts.HasBody) + p.attrsSuffix(ts.Attrs)
	case *ast.UnionType:
		return p.composite("union", ts.Tag, ts.Fields, ts.HasBody) + p.attrsSuffix(ts.Attrs)
	case *ast.EnumType:
		return p.enum(ts)
	case *ast.TypeofExpr:
		return "typeof(" + p.expr(ts.Expr) + ")"
	case *ast.TypeofType:
		return "typeof(" + p.typeName(ts.Spec, ts.Decl) + ")"
	default:
		return fmt.Sprintf("/* %T */", t)
	}
}

func (p *printer) composite(kw, tag string, fields []*ast.FieldGroup, hasBody bool) string {
	s := kw
	if tag != "" {
		s += " " + tag
	}
	if !hasBody {
		return s
	}
	var sb strings.Builder
	sb.WriteString(s + " { ")
	for _, fg := range fields {
		var names []string
		for _, f := range fg.Fields {
			ns := p.name(f.Name)
			if f.Bitfield != nil {
				if ns != "" {
					ns += " "
				}
				ns += ": " + p.expr(f.Bitfield)
			}
			names = append(names, ns)
		}
		sb.WriteString(p.spec(fg.Spec) + " " + strings.Join(names, ", ") + "; ")
	}
	sb.WriteString("}")
	return sb.String()
}

func (p *printer) enum(e *ast.EnumType) string {
	s := "enum"
	if e.Tag != "" {
		s += " " + e.Tag
	}
	if !e.HasBody {
		return s
	}
	var items []string
	for _, it := range e.Items {
		is := it.Name
		if _, none := it.Value.(*ast.NothingExpr); !none {
			is += " = " + p.expr(it.Value)
		}
		items = append(items, is)
	}
	return s + " { " + strings.Join(items, ", ") + " }" + p.attrsSuffix(e.Attrs)
}

// name renders a declared name with its declarator shape.
func (p *printer) name(n *ast.Name) string {
	return p.decl(n.Decl, n.Ident) + p.attrsSuffix(n.Attrs)
}

// typeName renders an abstract type, e.g. for casts and sizeof.
func (p *printer) typeName(spec ast.Specifier, d ast.DeclType) string {
	ds := p.decl(d, "")
	if ds == "" {
		return p.spec(spec)
	}
	return p.spec(spec) + " " + ds
}

// decl renders a declarator around name, innermost out.
func (p *printer) decl(d ast.DeclType, name string) string {
	switch dt := d.(type) {
	case *ast.JustBase:
		return name

	case *ast.ParenType:
		return "(" + p.decl(dt.Decl, name) + ")"

	case *ast.PtrType:
		s := "*"
		for _, a := range dt.Attrs {
			if (a.Name == "const" || a.Name == "volatile") && len(a.Args) == 0 {
				s += a.Name + " "
			} else {
				s += p.attrStr(a) + " "
			}
		}
		return s + p.decl(dt.Decl, name)

	case *ast.ArrayType:
		size := ""
		if _, none := dt.Size.(*ast.NothingExpr); !none {
			size = p.expr(dt.Size)
		}
		return p.decl(dt.Decl, name) + "[" + size + "]"

	case *ast.ProtoType:
		var params []string
		for _, pa := range dt.Params {
			ns := p.decl(pa.Name.Decl, pa.Name.Ident)
			if ns == "" {
				params = append(params, p.spec(pa.Spec))
			} else {
				params = append(params, p.spec(pa.Spec)+" "+ns)
			}
		}
		if dt.Vararg {
			params = append(params, "...")
		}
		if len(params) == 0 {
			params = []string{"void"}
		}
		return p.decl(dt.Decl, name) + "(" + strings.Join(params, ", ") + ")"

	default:
		return name
	}
}

// --- Blocks and statements ---

func (p *printer) blockBody(b *ast.Block) {
	for _, a := range b.Attrs {
		p.line("%s;", p.attrStr(a))
	}
	for _, d := range b.Defs {
		p.def(d)
	}
	for _, s := range b.Stmts {
		p.stmt(s)
	}
}

func (p *printer) stmt(s ast.Stmt) {
	switch st := s.(type) {
	case *ast.NopStmt:
		p.line(";")

	case *ast.ExprStmt:
		p.line("%s;", p.expr(st.Expr))

	case *ast.BlockStmt:
		p.line("{")
		p.indent++
		p.blockBody(st.Body)
		p.indent--
		p.line("}")

	case *ast.SeqStmt:
		p.stmt(st.First)
		p.stmt(st.Second)

	case *ast.IfStmt:
		p.line("if (%s)", p.expr(st.Cond))
		p.nested(st.Then)
		if _, nop := st.Else.(*ast.NopStmt); !nop {
			p.line("else")
			p.nested(st.Else)
		}

	case *ast.WhileStmt:
		p.line("while (%s)", p.expr(st.Cond))
		p.nested(st.Body)

	case *ast.DoWhileStmt:
		p.line("do")
		p.nested(st.Body)
		p.line("while (%s);", p.expr(st.Cond))

	case *ast.ForStmt:
		p.line("for (%s; %s; %s)", p.clause(st.Init), p.clause(st.Cond), p.clause(st.Step))
		p.nested(st.Body)

	case *ast.BreakStmt:
		p.line("break;")

	case *ast.ContinueStmt:
		p.line("continue;")

	case *ast.ReturnStmt:
		if _, none := st.Value.(*ast.NothingExpr); none {
			p.line("return;")
		} else {
			p.line("return %s;", p.expr(st.Value))
		}

	case *ast.SwitchStmt:
		p.line("switch (%s)", p.expr(st.Expr))
		p.nested(st.Body)

	case *ast.CaseStmt:
		p.line("case %s:", p.expr(st.Expr))
		p.nested(st.Body)

	case *ast.CaseRangeStmt:
		p.line("case %s ... %s:", p.expr(st.Lo), p.expr(st.Hi))
		p.nested(st.Body)

	case *ast.DefaultStmt:
		p.line("default:")
		p.nested(st.Body)

	case *ast.LabelStmt:
		p.line("%s:", st.Label)
		p.stmt(st.Body)

	case *ast.GotoStmt:
		p.line("goto %s;", st.Label)

	case *ast.CompGotoStmt:
		p.line("goto *%s;", p.expr(st.Target))

	case *ast.AsmStmt:
		p.asm(st)
	}
}

// nested prints a sub-statement, indenting unless it is already a
// block.
func (p *printer) nested(s ast.Stmt) {
	if _, block := s.(*ast.BlockStmt); block {
		p.stmt(s)
		return
	}
	p.indent++
	p.stmt(s)
	p.indent--
}

func (p *printer) clause(e ast.Expr) string {
	if _, none := e.(*ast.NothingExpr); none {
		return ""
	}
	return p.expr(e)
}

func (p *printer) asm(st *ast.AsmStmt) {
	s := "asm "
	if st.Volatile {
		s += "volatile "
	}
	s += "(" + strings.Join(st.Template, " ")
	operands := func(ops []ast.AsmOperand) string {
		var parts []string
		for _, op := range ops {
			parts = append(parts, op.Constraint+" ("+p.expr(op.Expr)+")")
		}
		return strings.Join(parts, ", ")
	}
	if len(st.Outputs) > 0 || len(st.Inputs) > 0 || len(st.Clobbers) > 0 {
		s += " : " + operands(st.Outputs)
	}
	if len(st.Inputs) > 0 || len(st.Clobbers) > 0 {
		s += " : " + operands(st.Inputs)
	}
	if len(st.Clobbers) > 0 {
		s += " : " + strings.Join(st.Clobbers, ", ")
	}
	p.line("%s);", s)
}

// --- Expressions ---

// expr renders an expression. Binary operands are parenthesized when
// their operator binds less tightly than the parent's, so the printed
// text parses back to the same tree.
func (p *printer) expr(e ast.Expr) string {
	return p.exprPrec(e, 0)
}

// binPrec orders binary operators loosest (1) to tightest. Assignment
// forms share the lowest level.
func binPrec(op ast.BinaryOp) int {
	if op.IsAssign() {
		return 1
	}
	switch op {
	case ast.OpOr:
		return 2
	case ast.OpAnd:
		return 3
	case ast.OpBOr:
		return 4
	case ast.OpXor:
		return 5
	case ast.OpBAnd:
		return 6
	case ast.OpEq, ast.OpNe:
		return 7
	case ast.OpLt, ast.OpGt, ast.OpLe, ast.OpGe:
		return 8
	case ast.OpShl, ast.OpShr:
		return 9
	case ast.OpAdd, ast.OpSub:
		return 10
	default:
		return 11
	}
}

func (p *printer) exprPrec(e ast.Expr, min int) string {
	switch ex := e.(type) {
	case *ast.NothingExpr:
		return ""

	case *ast.ConstExpr:
		return ex.Value

	case *ast.VarExpr:
		return ex.Name

	case *ast.PatternExpr:
		return "@" + ex.Name

	case *ast.LabelAddrExpr:
		return "&&" + ex.Label

	case *ast.ParenExpr:
		return "(" + p.expr(ex.Inner) + ")"

	case *ast.UnaryExpr:
		if ex.Op.Postfix() {
			return p.exprPrec(ex.Operand, 12) + ex.Op.String()
		}
		return ex.Op.String() + p.exprPrec(ex.Operand, 12)

	case *ast.BinaryExpr:
		prec := binPrec(ex.Op)
		// Assignment is right-associative; everything else left.
		lmin, rmin := prec, prec+1
		if ex.Op.IsAssign() {
			lmin, rmin = prec+1, prec
		}
		s := p.exprPrec(ex.Left, lmin) + " " + ex.Op.String() + " " + p.exprPrec(ex.Right, rmin)
		if prec < min {
			return "(" + s + ")"
		}
		return s

	case *ast.CondExpr:
		s := p.exprPrec(ex.Cond, 2) + " ? " + p.expr(ex.Then) + " : " + p.exprPrec(ex.Else, 1)
		if min > 1 {
			return "(" + s + ")"
		}
		return s

	case *ast.CommaExpr:
		var parts []string
		for _, sub := range ex.Exprs {
			parts = append(parts, p.exprPrec(sub, 1))
		}
		s := strings.Join(parts, ", ")
		if min > 0 {
			return "(" + s + ")"
		}
		return s

	case *ast.CastExpr:
		if si, ok := ex.Init.(*ast.SingleInit); ok {
			return "(" + p.typeName(ex.Spec, ex.Decl) + ")" + p.exprPrec(si.Expr, 12)
		}
		return "(" + p.typeName(ex.Spec, ex.Decl) + ")" + p.initStr(ex.Init)

	case *ast.CallExpr:
		var args []string
		for _, a := range ex.Args {
			args = append(args, p.exprPrec(a, 1))
		}
		return p.exprPrec(ex.Fn, 12) + "(" + strings.Join(args, ", ") + ")"

	case *ast.IndexExpr:
		return p.exprPrec(ex.Array, 12) + "[" + p.expr(ex.Index) + "]"

	case *ast.MemberExpr:
		return p.exprPrec(ex.X, 12) + "." + ex.Field

	case *ast.MemberPtrExpr:
		return p.exprPrec(ex.X, 12) + "->" + ex.Field

	case *ast.SizeofExpr:
		return "sizeof " + p.exprPrec(ex.Operand, 12)

	case *ast.SizeofType:
		return "sizeof(" + p.typeName(ex.Spec, ex.Decl) + ")"

	case *ast.AlignofExpr:
		return "__alignof__ " + p.exprPrec(ex.Operand, 12)

	case *ast.AlignofType:
		return "__alignof__(" + p.typeName(ex.Spec, ex.Decl) + ")"

	case *ast.BodyExpr:
		sub := &printer{indent: p.indent + 1}
		sub.blockBody(ex.Body)
		return "({\n" + sub.sb.String() + strings.Repeat("\t", p.indent) + "})"

	default:
		return fmt.Sprintf("/* %T */", e)
	}
}

// --- Initializers ---

func (p *printer) initStr(i ast.Init) string {
	switch in := i.(type) {
	case *ast.NoInit:
		return ""
	case *ast.SingleInit:
		return p.exprPrec(in.Expr, 1)
	case *ast.CompoundInit:
		var items []string
		for _, it := range in.Items {
			ds := p.designStr(it.What)
			if ds != "" {
				items = append(items, ds+" = "+p.initStr(it.Init))
			} else {
				items = append(items, p.initStr(it.Init))
			}
		}
		return "{ " + strings.Join(items, ", ") + " }"
	default:
		return ""
	}
}

func (p *printer) designStr(d ast.Designator) string {
	switch dw := d.(type) {
	case *ast.NextInit:
		return ""
	case *ast.FieldInit:
		return "." + dw.Field + p.designStr(dw.Next)
	case *ast.IndexInit:
		return "[" + p.expr(dw.Index) + "]" + p.designStr(dw.Next)
	case *ast.RangeInit:
		return "[" + p.expr(dw.Lo) + " ... " + p.expr(dw.Hi) + "]"
	default:
		return ""
	}
}
