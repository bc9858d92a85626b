package ast

import "fmt"

// Check validates a translation unit without modifying it.
type Check interface {
	Name() string
	Check(tu *TranslationUnit) error
}

// CheckChain runs checks in order, stopping at the first error.
type CheckChain []Check

// Run executes each check in sequence. Returns nil if all pass.
func (cc CheckChain) Run(tu *TranslationUnit) error {
	for _, c := range cc {
		if err := c.Check(tu); err != nil {
			return err
		}
	}
	return nil
}

// CheckLabels reports duplicate labels and gotos to undefined labels.
// Label scope is the whole enclosing function body.
type CheckLabels struct{}

func (CheckLabels) Name() string { return "labels" }

func (CheckLabels) Check(tu *TranslationUnit) error {
	for _, d := range tu.Defs {
		fd, ok := d.(*FuncDef)
		if !ok {
			continue
		}
		lc := &labelCheck{
			defined: map[string]Loc{},
			used:    map[string]Loc{},
		}
		VisitBlock(lc, fd.Body)
		if lc.err != nil {
			return lc.err
		}
		for label, loc := range lc.used {
			if _, ok := lc.defined[label]; !ok {
				return fmt.Errorf("%s: goto undefined label %q", loc, label)
			}
		}
	}
	return nil
}

type labelCheck struct {
	NopVisitor
	defined map[string]Loc
	used    map[string]Loc
	err     error
}

func (lc *labelCheck) VisitStmt(s Stmt) Action[[]Stmt] {
	switch st := s.(type) {
	case *LabelStmt:
		if prev, ok := lc.defined[st.Label]; ok && lc.err == nil {
			lc.err = fmt.Errorf("%s: label %q already defined at %s", st.Loc, st.Label, prev)
		}
		lc.defined[st.Label] = st.Loc
	case *GotoStmt:
		if _, ok := lc.used[st.Label]; !ok {
			lc.used[st.Label] = st.Loc
		}
	}
	return DoChildren[[]Stmt]()
}
