package parser

import (
	"fmt"
	"os"
	"strings"

	"github.com/csurf/csurf/ast"
)

// Parser consumes one token stream and builds AST nodes. Use Parse or
// ParseFile; the zero value is not usable.
type Parser struct {
	lex      *Lexer
	name     string
	tok      Token
	ahead    *Token
	typedefs map[string]bool
}

// ParseFile reads a source file and parses it into a translation unit.
func ParseFile(filename string) (*ast.TranslationUnit, error) {
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filename, err)
	}
	return Parse(filename, string(src))
}

// Parse parses raw source into a translation unit. The name parameter
// is used for error messages and node positions.
func Parse(name, src string) (tu *ast.TranslationUnit, err error) {
	p := &Parser{lex: NewLexer(Preprocess(src)), name: name, typedefs: map[string]bool{}}
	defer func() {
		if r := recover(); r != nil {
			pe, ok := r.(parseBail)
			if !ok {
				panic(r)
			}
			tu, err = nil, pe.err
		}
	}()
	p.advance()
	tu = &ast.TranslationUnit{SourceFile: name}
	for p.tok.Kind != TokEOF {
		tu.Defs = append(tu.Defs, p.def())
	}
	return tu, nil
}

// parseBail carries a parse error up through the recursive descent.
type parseBail struct{ err error }

func (p *Parser) fail(format string, args ...any) {
	panic(parseBail{fmt.Errorf("%s:%d: %s", p.name, p.tok.Line, fmt.Sprintf(format, args...))})
}

func (p *Parser) advance() {
	if p.ahead != nil {
		p.tok, p.ahead = *p.ahead, nil
		return
	}
	t, err := p.lex.Next()
	if err != nil {
		panic(parseBail{fmt.Errorf("%s:%w", p.name, err)})
	}
	p.tok = t
}

func (p *Parser) peek() Token {
	if p.ahead == nil {
		t, err := p.lex.Next()
		if err != nil {
			panic(parseBail{fmt.Errorf("%s:%w", p.name, err)})
		}
		p.ahead = &t
	}
	return *p.ahead
}

// is reports whether the current token is the given keyword or
// punctuator.
func (p *Parser) is(text string) bool {
	return (p.tok.Kind == TokPunct || p.tok.Kind == TokKeyword) && p.tok.Text == text
}

func (p *Parser) accept(text string) bool {
	if p.is(text) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expect(text string) {
	if !p.accept(text) {
		p.fail("expected %q, got %q", text, p.tok.Text)
	}
}

func (p *Parser) ident() string {
	if p.tok.Kind != TokIdent {
		p.fail("expected identifier, got %q", p.tok.Text)
	}
	s := p.tok.Text
	p.advance()
	return s
}

func (p *Parser) loc() ast.Loc { return ast.Loc{File: p.name, Line: p.tok.Line} }

// --- Definitions ---

func (p *Parser) def() ast.Def {
	base := ast.BaseDef{Loc: p.loc()}

	if p.is("asm") || p.is("__asm__") {
		p.advance()
		p.expect("(")
		if p.tok.Kind != TokString {
			p.fail("expected string literal in asm, got %q", p.tok.Text)
		}
		template := p.tok.Text
		p.advance()
		p.expect(")")
		p.expect(";")
		return &ast.AsmDef{BaseDef: base, Template: template}
	}

	if p.is("#") {
		return p.pragma(base)
	}

	spec, sawTypedef := p.specifier()
	if p.accept(";") {
		return &ast.TypeDeclDef{BaseDef: base, Spec: spec}
	}

	if sawTypedef {
		var names []*ast.Name
		for {
			n := p.declarator()
			if n.Ident == "" {
				p.fail("typedef declares no name")
			}
			p.typedefs[n.Ident] = true
			names = append(names, n)
			if !p.accept(",") {
				break
			}
		}
		p.expect(";")
		return &ast.TypedefDef{BaseDef: base, Spec: spec, Names: names}
	}

	first := p.declarator()
	if p.is("{") {
		return &ast.FuncDef{BaseDef: base, Spec: spec, Name: first, Body: p.block()}
	}

	names := []*ast.InitName{p.initName(first)}
	for p.accept(",") {
		names = append(names, p.initName(p.declarator()))
	}
	p.expect(";")
	return &ast.DeclDef{BaseDef: base, Spec: spec, Names: names}
}

// pragma parses a #pragma directive. The body is kept as a raw token
// string so arbitrary vendor pragmas survive a parse/print cycle.
func (p *Parser) pragma(base ast.BaseDef) ast.Def {
	line := p.tok.Line
	p.advance()
	if p.tok.Kind != TokIdent || p.tok.Text != "pragma" {
		p.fail("unsupported preprocessor directive %q", p.tok.Text)
	}
	p.advance()
	var parts []string
	for p.tok.Kind != TokEOF && p.tok.Line == line {
		parts = append(parts, p.tok.Text)
		p.advance()
	}
	body := &ast.ConstExpr{Kind: ast.ConstString, Value: strings.Join(parts, " ")}
	return &ast.PragmaDef{BaseDef: base, Expr: body}
}

func (p *Parser) initName(n *ast.Name) *ast.InitName {
	if p.accept("=") {
		return &ast.InitName{Name: n, Init: p.initializer()}
	}
	return &ast.InitName{Name: n, Init: &ast.NoInit{}}
}

// --- Specifiers ---

var builtinKinds = map[string]ast.BuiltinKind{
	"void": ast.Tvoid, "_Bool": ast.Tbool, "char": ast.Tchar,
	"short": ast.Tshort, "int": ast.Tint, "long": ast.Tlong,
	"__int64": ast.Tint64, "float": ast.Tfloat, "double": ast.Tdouble,
	"signed": ast.Tsigned, "unsigned": ast.Tunsigned,
}

var storageKinds = map[string]ast.StorageKind{
	"auto": ast.StorageAuto, "static": ast.StorageStatic,
	"extern": ast.StorageExtern, "register": ast.StorageRegister,
	"typedef": ast.StorageTypedef,
}

// startsSpec reports whether the current token can open a declaration
// specifier.
func (p *Parser) startsSpec() bool {
	if p.tok.Kind == TokKeyword {
		switch p.tok.Text {
		case "struct", "union", "enum", "typeof", "__typeof__",
			"const", "volatile", "inline", "__inline__", "__attribute__":
			return true
		}
		if _, ok := builtinKinds[p.tok.Text]; ok {
			return true
		}
		if _, ok := storageKinds[p.tok.Text]; ok {
			return true
		}
		return false
	}
	return p.tok.Kind == TokIdent && p.typedefs[p.tok.Text]
}

// specifier parses a specifier element sequence. The second result
// reports whether a typedef storage class was present.
func (p *Parser) specifier() (ast.Specifier, bool) {
	var spec ast.Specifier
	sawTypedef := false
	sawType := false
	for {
		switch {
		case p.tok.Kind == TokKeyword && isStorageKeyword(p.tok.Text):
			kind := storageKinds[p.tok.Text]
			if kind == ast.StorageTypedef {
				sawTypedef = true
			}
			spec = append(spec, &ast.SpecStorage{Kind: kind})
			p.advance()

		case p.is("inline") || p.is("__inline__"):
			spec = append(spec, &ast.SpecInline{})
			p.advance()

		case p.is("const") || p.is("volatile"):
			// Qualifiers ride as attributes in specifier position.
			spec = append(spec, &ast.SpecAttr{Attr: &ast.Attribute{Name: p.tok.Text}})
			p.advance()

		case p.is("__attribute__"):
			for _, a := range p.attributes() {
				spec = append(spec, &ast.SpecAttr{Attr: a})
			}

		case p.tok.Kind == TokKeyword && isBuiltinKeyword(p.tok.Text):
			spec = append(spec, &ast.SpecType{Type: &ast.BuiltinType{Kind: builtinKinds[p.tok.Text]}})
			sawType = true
			p.advance()

		case p.is("struct"), p.is("union"):
			spec = append(spec, &ast.SpecType{Type: p.structOrUnion()})
			sawType = true

		case p.is("enum"):
			spec = append(spec, &ast.SpecType{Type: p.enumType()})
			sawType = true

		case p.is("typeof") || p.is("__typeof__"):
			spec = append(spec, &ast.SpecType{Type: p.typeofSpec()})
			sawType = true

		case p.tok.Kind == TokIdent && p.typedefs[p.tok.Text] && !sawType:
			spec = append(spec, &ast.SpecType{Type: &ast.NamedType{Name: p.tok.Text}})
			sawType = true
			p.advance()

		default:
			if len(spec) == 0 {
				p.fail("expected declaration specifier, got %q", p.tok.Text)
			}
			return spec, sawTypedef
		}
	}
}

func isBuiltinKeyword(text string) bool {
	_, ok := builtinKinds[text]
	return ok
}

func isStorageKeyword(text string) bool {
	_, ok := storageKinds[text]
	return ok
}

func (p *Parser) typeofSpec() ast.TypeSpec {
	p.advance()
	p.expect("(")
	if p.startsSpec() {
		spec, decl := p.typeName()
		p.expect(")")
		return &ast.TypeofType{Spec: spec, Decl: decl}
	}
	e := p.expr()
	p.expect(")")
	return &ast.TypeofExpr{Expr: e}
}

func (p *Parser) structOrUnion() ast.TypeSpec {
	isUnion := p.is("union")
	p.advance()
	attrs := p.attributes()
	tag := ""
	if p.tok.Kind == TokIdent {
		tag = p.ident()
	}
	var fields []*ast.FieldGroup
	hasBody := false
	if p.accept("{") {
		hasBody = true
		for !p.accept("}") {
			fields = append(fields, p.fieldGroup())
		}
	}
	attrs = append(attrs, p.attributes()...)
	if isUnion {
		return &ast.UnionType{Tag: tag, Fields: fields, HasBody: hasBody, Attrs: attrs}
	}
	return &ast.StructType{Tag: tag, Fields: fields, HasBody: hasBody, Attrs: attrs}
}

func (p *Parser) fieldGroup() *ast.FieldGroup {
	spec, _ := p.specifier()
	var fields []*ast.Field
	for {
		var f ast.Field
		if p.is(":") {
			// Unnamed bitfield.
			f.Name = &ast.Name{Decl: &ast.JustBase{}, Loc: p.loc()}
		} else {
			f.Name = p.declarator()
		}
		if p.accept(":") {
			f.Bitfield = p.condExpr()
		}
		fields = append(fields, &f)
		if !p.accept(",") {
			break
		}
	}
	p.expect(";")
	return &ast.FieldGroup{Spec: spec, Fields: fields}
}

func (p *Parser) enumType() ast.TypeSpec {
	p.advance()
	attrs := p.attributes()
	tag := ""
	if p.tok.Kind == TokIdent {
		tag = p.ident()
	}
	var items []*ast.EnumItem
	hasBody := false
	if p.accept("{") {
		hasBody = true
		for !p.accept("}") {
			it := &ast.EnumItem{Loc: p.loc(), Name: p.ident(), Value: &ast.NothingExpr{}}
			if p.accept("=") {
				it.Value = p.condExpr()
			}
			items = append(items, it)
			if !p.accept(",") {
				p.expect("}")
				break
			}
		}
	}
	attrs = append(attrs, p.attributes()...)
	return &ast.EnumType{Tag: tag, Items: items, HasBody: hasBody, Attrs: attrs}
}

// attributes parses zero or more __attribute__((...)) groups.
func (p *Parser) attributes() []*ast.Attribute {
	var attrs []*ast.Attribute
	for p.accept("__attribute__") {
		p.expect("(")
		p.expect("(")
		for !p.is(")") {
			a := &ast.Attribute{Name: p.ident()}
			if p.accept("(") {
				for !p.is(")") {
					a.Args = append(a.Args, p.assignExpr())
					if !p.accept(",") {
						break
					}
				}
				p.expect(")")
			}
			attrs = append(attrs, a)
			if !p.accept(",") {
				break
			}
		}
		p.expect(")")
		p.expect(")")
	}
	return attrs
}

// --- Declarators ---

// declarator parses a (possibly abstract) declarator. An abstract
// declarator yields a Name with an empty identifier.
func (p *Parser) declarator() *ast.Name {
	if p.accept("*") {
		attrs := p.pointerQualifiers()
		n := p.declarator()
		n.Decl = &ast.PtrType{Attrs: attrs, Decl: n.Decl}
		return n
	}
	return p.directDeclarator()
}

func (p *Parser) pointerQualifiers() []*ast.Attribute {
	var attrs []*ast.Attribute
	for {
		if p.is("const") || p.is("volatile") {
			attrs = append(attrs, &ast.Attribute{Name: p.tok.Text})
			p.advance()
			continue
		}
		if p.is("__attribute__") {
			attrs = append(attrs, p.attributes()...)
			continue
		}
		return attrs
	}
}

func (p *Parser) directDeclarator() *ast.Name {
	n := &ast.Name{Decl: &ast.JustBase{}, Loc: p.loc()}
	switch {
	case p.tok.Kind == TokIdent:
		n.Ident = p.tok.Text
		p.advance()
	case p.is("(") && p.parenIsDeclarator():
		p.advance()
		n = p.declarator()
		p.expect(")")
		n.Decl = &ast.ParenType{Decl: n.Decl}
	}
	for {
		switch {
		case p.accept("["):
			size := ast.Expr(&ast.NothingExpr{})
			if !p.is("]") {
				size = p.assignExpr()
			}
			p.expect("]")
			n.Decl = &ast.ArrayType{Decl: n.Decl, Size: size}
		case p.accept("("):
			params, vararg := p.params()
			p.expect(")")
			n.Decl = &ast.ProtoType{Decl: n.Decl, Params: params, Vararg: vararg}
		default:
			n.Attrs = append(n.Attrs, p.attributes()...)
			return n
		}
	}
}

// parenIsDeclarator disambiguates "(" after a declarator core: a nested
// declarator when the paren encloses a pointer, another paren, or a
// plain identifier; a parameter list otherwise.
func (p *Parser) parenIsDeclarator() bool {
	t := p.peek()
	switch t.Kind {
	case TokPunct:
		return t.Text == "*" || t.Text == "("
	case TokIdent:
		return !p.typedefs[t.Text]
	default:
		return false
	}
}

func (p *Parser) params() ([]*ast.Param, bool) {
	if p.is(")") {
		return nil, false
	}
	var params []*ast.Param
	vararg := false
	for {
		if p.accept("...") {
			vararg = true
			break
		}
		spec, _ := p.specifier()
		params = append(params, &ast.Param{Spec: spec, Name: p.declarator()})
		if !p.accept(",") {
			break
		}
	}
	if !vararg && len(params) == 1 && isBareVoid(params[0]) {
		return nil, false
	}
	return params, vararg
}

// isBareVoid recognizes the "(void)" empty parameter list.
func isBareVoid(pa *ast.Param) bool {
	if pa.Name.Ident != "" || len(pa.Spec) != 1 {
		return false
	}
	if _, ok := pa.Name.Decl.(*ast.JustBase); !ok {
		return false
	}
	st, ok := pa.Spec[0].(*ast.SpecType)
	if !ok {
		return false
	}
	bt, ok := st.Type.(*ast.BuiltinType)
	return ok && bt.Kind == ast.Tvoid
}

// typeName parses an abstract type name: specifier plus abstract
// declarator.
func (p *Parser) typeName() (ast.Specifier, ast.DeclType) {
	spec, _ := p.specifier()
	n := p.declarator()
	if n.Ident != "" {
		p.fail("unexpected name %q in type", n.Ident)
	}
	return spec, n.Decl
}

// --- Blocks and statements ---

func (p *Parser) block() *ast.Block {
	p.expect("{")
	b := &ast.Block{}
	for !p.accept("}") {
		if p.tok.Kind == TokEOF {
			p.fail("unexpected end of input in block")
		}
		if p.startsSpec() {
			b.Defs = append(b.Defs, p.def())
			continue
		}
		st := p.stmt()
		if ls, ok := st.(*ast.LabelStmt); ok {
			b.Labels = append(b.Labels, ls.Label)
		}
		b.Stmts = append(b.Stmts, st)
	}
	return b
}

func (p *Parser) stmt() ast.Stmt {
	base := ast.BaseStmt{Loc: p.loc()}
	switch {
	case p.accept(";"):
		return &ast.NopStmt{BaseStmt: base}

	case p.is("{"):
		return &ast.BlockStmt{BaseStmt: base, Body: p.block()}

	case p.accept("if"):
		p.expect("(")
		cond := p.expr()
		p.expect(")")
		then := p.stmt()
		els := ast.Stmt(&ast.NopStmt{BaseStmt: base})
		if p.accept("else") {
			els = p.stmt()
		}
		return &ast.IfStmt{BaseStmt: base, Cond: cond, Then: then, Else: els}

	case p.accept("while"):
		p.expect("(")
		cond := p.expr()
		p.expect(")")
		return &ast.WhileStmt{BaseStmt: base, Cond: cond, Body: p.stmt()}

	case p.accept("do"):
		body := p.stmt()
		p.expect("while")
		p.expect("(")
		cond := p.expr()
		p.expect(")")
		p.expect(";")
		return &ast.DoWhileStmt{BaseStmt: base, Cond: cond, Body: body}

	case p.accept("for"):
		p.expect("(")
		ini := p.forClause(";")
		cond := p.forClause(";")
		step := p.forClause(")")
		return &ast.ForStmt{BaseStmt: base, Init: ini, Cond: cond, Step: step, Body: p.stmt()}

	case p.accept("break"):
		p.expect(";")
		return &ast.BreakStmt{BaseStmt: base}

	case p.accept("continue"):
		p.expect(";")
		return &ast.ContinueStmt{BaseStmt: base}

	case p.accept("return"):
		value := ast.Expr(&ast.NothingExpr{})
		if !p.is(";") {
			value = p.expr()
		}
		p.expect(";")
		return &ast.ReturnStmt{BaseStmt: base, Value: value}

	case p.accept("goto"):
		if p.accept("*") {
			target := p.expr()
			p.expect(";")
			return &ast.CompGotoStmt{BaseStmt: base, Target: target}
		}
		label := p.ident()
		p.expect(";")
		return &ast.GotoStmt{BaseStmt: base, Label: label}

	case p.accept("switch"):
		p.expect("(")
		e := p.expr()
		p.expect(")")
		return &ast.SwitchStmt{BaseStmt: base, Expr: e, Body: p.stmt()}

	case p.accept("case"):
		lo := p.condExpr()
		if p.accept("...") {
			hi := p.condExpr()
			p.expect(":")
			return &ast.CaseRangeStmt{BaseStmt: base, Lo: lo, Hi: hi, Body: p.stmt()}
		}
		p.expect(":")
		return &ast.CaseStmt{BaseStmt: base, Expr: lo, Body: p.stmt()}

	case p.accept("default"):
		p.expect(":")
		return &ast.DefaultStmt{BaseStmt: base, Body: p.stmt()}

	case p.is("asm") || p.is("__asm__"):
		return p.asmStmt(base)

	case p.tok.Kind == TokIdent && p.peek().Kind == TokPunct && p.peek().Text == ":":
		label := p.ident()
		p.advance() // ":"
		return &ast.LabelStmt{BaseStmt: base, Label: label, Body: p.stmt()}

	default:
		e := p.expr()
		p.expect(";")
		return &ast.ExprStmt{BaseStmt: base, Expr: e}
	}
}

// forClause parses one for-loop clause up to term, yielding NothingExpr
// when the clause is empty.
func (p *Parser) forClause(term string) ast.Expr {
	if p.accept(term) {
		return &ast.NothingExpr{}
	}
	e := p.expr()
	p.expect(term)
	return e
}

func (p *Parser) asmStmt(base ast.BaseStmt) ast.Stmt {
	p.advance()
	st := &ast.AsmStmt{BaseStmt: base}
	if p.accept("volatile") {
		st.Volatile = true
	}
	p.expect("(")
	for p.tok.Kind == TokString {
		st.Template = append(st.Template, p.tok.Text)
		p.advance()
	}
	if p.accept(":") {
		st.Outputs = p.asmOperands()
	}
	if p.accept(":") {
		st.Inputs = p.asmOperands()
	}
	if p.accept(":") {
		for p.tok.Kind == TokString {
			st.Clobbers = append(st.Clobbers, p.tok.Text)
			p.advance()
			if !p.accept(",") {
				break
			}
		}
	}
	p.expect(")")
	p.expect(";")
	return st
}

func (p *Parser) asmOperands() []ast.AsmOperand {
	var ops []ast.AsmOperand
	for p.tok.Kind == TokString {
		constraint := p.tok.Text
		p.advance()
		p.expect("(")
		e := p.expr()
		p.expect(")")
		ops = append(ops, ast.AsmOperand{Constraint: constraint, Expr: e})
		if !p.accept(",") {
			break
		}
	}
	return ops
}

// --- Initializers ---

func (p *Parser) initializer() ast.Init {
	if !p.is("{") {
		return &ast.SingleInit{Expr: p.assignExpr()}
	}
	p.advance()
	ci := &ast.CompoundInit{}
	for !p.accept("}") {
		ci.Items = append(ci.Items, p.initItem())
		if !p.accept(",") {
			p.expect("}")
			break
		}
	}
	return ci
}

func (p *Parser) initItem() ast.InitItem {
	what := p.designator()
	if _, plain := what.(*ast.NextInit); !plain {
		p.expect("=")
	}
	return ast.InitItem{What: what, Init: p.initializer()}
}

func (p *Parser) designator() ast.Designator {
	switch {
	case p.accept("."):
		return &ast.FieldInit{Field: p.ident(), Next: p.designator()}
	case p.accept("["):
		lo := p.condExpr()
		if p.accept("...") {
			hi := p.condExpr()
			p.expect("]")
			return &ast.RangeInit{Lo: lo, Hi: hi}
		}
		p.expect("]")
		return &ast.IndexInit{Index: lo, Next: p.designator()}
	default:
		return &ast.NextInit{}
	}
}

// --- Expressions ---

// expr parses a full expression including the comma operator.
func (p *Parser) expr() ast.Expr {
	e := p.assignExpr()
	if !p.is(",") {
		return e
	}
	exprs := []ast.Expr{e}
	for p.accept(",") {
		exprs = append(exprs, p.assignExpr())
	}
	return &ast.CommaExpr{Exprs: exprs}
}

var assignOps = map[string]ast.BinaryOp{
	"=": ast.OpAssign, "+=": ast.OpAddAssign, "-=": ast.OpSubAssign,
	"*=": ast.OpMulAssign, "/=": ast.OpDivAssign, "%=": ast.OpModAssign,
	"&=": ast.OpBAndAssign, "|=": ast.OpBOrAssign, "^=": ast.OpXorAssign,
	"<<=": ast.OpShlAssign, ">>=": ast.OpShrAssign,
}

func (p *Parser) assignExpr() ast.Expr {
	e := p.condExpr()
	if p.tok.Kind == TokPunct {
		if op, ok := assignOps[p.tok.Text]; ok {
			p.advance()
			return &ast.BinaryExpr{Op: op, Left: e, Right: p.assignExpr()}
		}
	}
	return e
}

func (p *Parser) condExpr() ast.Expr {
	e := p.binExpr(0)
	if p.accept("?") {
		then := p.expr()
		p.expect(":")
		return &ast.CondExpr{Cond: e, Then: then, Else: p.condExpr()}
	}
	return e
}

// binLevels orders the binary operators from loosest to tightest.
var binLevels = []map[string]ast.BinaryOp{
	{"||": ast.OpOr},
	{"&&": ast.OpAnd},
	{"|": ast.OpBOr},
	{"^": ast.OpXor},
	{"&": ast.OpBAnd},
	{"==": ast.OpEq, "!=": ast.OpNe},
	{"<": ast.OpLt, ">": ast.OpGt, "<=": ast.OpLe, ">=": ast.OpGe},
	{"<<": ast.OpShl, ">>": ast.OpShr},
	{"+": ast.OpAdd, "-": ast.OpSub},
	{"*": ast.OpMul, "/": ast.OpDiv, "%": ast.OpMod},
}

func (p *Parser) binExpr(level int) ast.Expr {
	if level == len(binLevels) {
		return p.castExpr()
	}
	e := p.binExpr(level + 1)
	for {
		if p.tok.Kind != TokPunct {
			return e
		}
		op, ok := binLevels[level][p.tok.Text]
		if !ok {
			return e
		}
		p.advance()
		e = &ast.BinaryExpr{Op: op, Left: e, Right: p.binExpr(level + 1)}
	}
}

func (p *Parser) castExpr() ast.Expr {
	if p.is("(") && p.peekStartsType() {
		p.advance()
		spec, decl := p.typeName()
		p.expect(")")
		if p.is("{") {
			// Compound literal.
			return &ast.CastExpr{Spec: spec, Decl: decl, Init: p.initializer()}
		}
		return &ast.CastExpr{Spec: spec, Decl: decl, Init: &ast.SingleInit{Expr: p.castExpr()}}
	}
	return p.unaryExpr()
}

func (p *Parser) peekStartsType() bool {
	t := p.peek()
	if t.Kind == TokKeyword {
		if _, ok := builtinKinds[t.Text]; ok {
			return true
		}
		switch t.Text {
		case "struct", "union", "enum", "const", "volatile",
			"typeof", "__typeof__", "__attribute__":
			return true
		}
		return false
	}
	return t.Kind == TokIdent && p.typedefs[t.Text]
}

var prefixOps = map[string]ast.UnaryOp{
	"-": ast.OpMinus, "+": ast.OpPlus, "!": ast.OpNot, "~": ast.OpBNot,
	"&": ast.OpAddrOf, "*": ast.OpDeref, "++": ast.OpPreInc, "--": ast.OpPreDec,
}

func (p *Parser) unaryExpr() ast.Expr {
	switch {
	case p.is("&&"):
		// GNU address-of-label.
		p.advance()
		return &ast.LabelAddrExpr{Label: p.ident()}

	case p.accept("sizeof"):
		if p.is("(") && p.peekStartsType() {
			p.advance()
			spec, decl := p.typeName()
			p.expect(")")
			return &ast.SizeofType{Spec: spec, Decl: decl}
		}
		return &ast.SizeofExpr{Operand: p.unaryExpr()}

	case p.is("__alignof__") || p.is("_Alignof"):
		p.advance()
		if p.is("(") && p.peekStartsType() {
			p.advance()
			spec, decl := p.typeName()
			p.expect(")")
			return &ast.AlignofType{Spec: spec, Decl: decl}
		}
		return &ast.AlignofExpr{Operand: p.unaryExpr()}
	}

	if p.tok.Kind == TokPunct {
		if op, ok := prefixOps[p.tok.Text]; ok {
			p.advance()
			return &ast.UnaryExpr{Op: op, Operand: p.castExpr()}
		}
	}
	return p.postfixExpr()
}

func (p *Parser) postfixExpr() ast.Expr {
	e := p.primaryExpr()
	for {
		switch {
		case p.accept("["):
			index := p.expr()
			p.expect("]")
			e = &ast.IndexExpr{Array: e, Index: index}
		case p.accept("("):
			var args []ast.Expr
			for !p.is(")") {
				args = append(args, p.assignExpr())
				if !p.accept(",") {
					break
				}
			}
			p.expect(")")
			e = &ast.CallExpr{Fn: e, Args: args}
		case p.accept("."):
			e = &ast.MemberExpr{X: e, Field: p.ident()}
		case p.accept("->"):
			e = &ast.MemberPtrExpr{X: e, Field: p.ident()}
		case p.accept("++"):
			e = &ast.UnaryExpr{Op: ast.OpPostInc, Operand: e}
		case p.accept("--"):
			e = &ast.UnaryExpr{Op: ast.OpPostDec, Operand: e}
		default:
			return e
		}
	}
}

func (p *Parser) primaryExpr() ast.Expr {
	switch p.tok.Kind {
	case TokInt:
		e := &ast.ConstExpr{Kind: ast.ConstInt, Value: p.tok.Text}
		p.advance()
		return e
	case TokFloat:
		e := &ast.ConstExpr{Kind: ast.ConstFloat, Value: p.tok.Text}
		p.advance()
		return e
	case TokChar:
		e := &ast.ConstExpr{Kind: ast.ConstChar, Value: p.tok.Text}
		p.advance()
		return e
	case TokString:
		e := &ast.ConstExpr{Kind: ast.ConstString, Value: p.tok.Text}
		p.advance()
		return e
	case TokIdent:
		e := &ast.VarExpr{Name: p.tok.Text}
		p.advance()
		return e
	}
	if p.is("(") {
		if t := p.peek(); t.Kind == TokPunct && t.Text == "{" {
			// GNU statement expression.
			p.advance()
			body := p.block()
			p.expect(")")
			return &ast.BodyExpr{Body: body}
		}
		p.advance()
		e := p.expr()
		p.expect(")")
		return &ast.ParenExpr{Inner: e}
	}
	p.fail("expected expression, got %q", p.tok.Text)
	return nil
}
