package ast

// RenameVars returns a Transform that rewrites every variable use and
// every declared variable name through rename. Struct fields and
// typedef names keep their spelling: renaming applies to NameVar
// declarations only.
func RenameVars(name string, rename func(string) string) Transform {
	return VisitorTransform(name, &renamer{rename: rename})
}

// PrefixVars returns a Transform that prepends prefix to every variable
// name in the unit.
func PrefixVars(prefix string) Transform {
	return RenameVars("prefix-vars", func(name string) string { return prefix + name })
}

type renamer struct {
	NopVisitor
	rename func(string) string
}

func (r *renamer) VisitVarUse(name string) string { return r.rename(name) }

func (r *renamer) VisitName(kind NameKind, spec Specifier, n *Name) Action[*Name] {
	if kind != NameVar {
		return DoChildren[*Name]()
	}
	renamed := r.rename(n.Ident)
	if renamed == n.Ident {
		return DoChildren[*Name]()
	}
	cp := *n
	cp.Ident = renamed
	// The declarator under the renamed name still holds visitable
	// children (array sizes, parameter lists), so keep descending.
	return ChangeDoChildrenPost(&cp, func(n *Name) *Name { return n })
}
