package ast

import (
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
)

// Symbols is the name inventory of a translation unit, one ordered set
// per namespace.
type Symbols struct {
	Vars   *treeset.Set // declared objects and functions
	Fields *treeset.Set // struct and union members
	Types  *treeset.Set // typedef names plus struct/union/enum tags
	Uses   *treeset.Set // every variable occurrence in expression position
}

// CollectSymbols walks the unit without rewriting it and returns the
// names it declares and uses.
func CollectSymbols(tu *TranslationUnit) *Symbols {
	c := &collector{
		syms: &Symbols{
			Vars:   treeset.NewWith(utils.StringComparator),
			Fields: treeset.NewWith(utils.StringComparator),
			Types:  treeset.NewWith(utils.StringComparator),
			Uses:   treeset.NewWith(utils.StringComparator),
		},
	}
	Visit(c, tu)
	return c.syms
}

type collector struct {
	NopVisitor
	syms *Symbols
}

func (c *collector) VisitName(kind NameKind, spec Specifier, n *Name) Action[*Name] {
	if n.Ident != "" {
		switch kind {
		case NameField:
			c.syms.Fields.Add(n.Ident)
		case NameType:
			c.syms.Types.Add(n.Ident)
		default:
			c.syms.Vars.Add(n.Ident)
		}
	}
	return DoChildren[*Name]()
}

func (c *collector) VisitTypeSpec(t TypeSpec) Action[TypeSpec] {
	switch ts := t.(type) {
	case *StructType:
		if ts.Tag != "" {
			c.syms.Types.Add(ts.Tag)
		}
	case *UnionType:
		if ts.Tag != "" {
			c.syms.Types.Add(ts.Tag)
		}
	case *EnumType:
		if ts.Tag != "" {
			c.syms.Types.Add(ts.Tag)
		}
	}
	return DoChildren[TypeSpec]()
}

func (c *collector) VisitVarUse(name string) string {
	c.syms.Uses.Add(name)
	return name
}
