package ast

// StripNops returns a Transform that deletes empty statements from
// statement sequences. An empty statement in a single-statement slot
// (a loop body, an if branch) is kept as an empty block instead, since
// the slot cannot be left vacant.
func StripNops() Transform {
	return VisitorTransform("strip-nops", nopStripper{})
}

type nopStripper struct{ NopVisitor }

func (nopStripper) VisitStmt(s Stmt) Action[[]Stmt] {
	if _, ok := s.(*NopStmt); ok {
		return ChangeTo([]Stmt{})
	}
	return DoChildren[[]Stmt]()
}
