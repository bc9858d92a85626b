package ast

// Transform rewrites a translation unit. Implementations must not mutate
// the input.
type Transform interface {
	Name() string
	Transform(tu *TranslationUnit) *TranslationUnit
}

// TransformFunc adapts a named function to the Transform interface.
type TransformFunc struct {
	N string
	F func(*TranslationUnit) *TranslationUnit
}

func (t TransformFunc) Name() string { return t.N }

func (t TransformFunc) Transform(tu *TranslationUnit) *TranslationUnit { return t.F(tu) }

// Chain composes transforms left-to-right into a single Transform.
// Each transform receives the output of the previous one.
func Chain(transforms ...Transform) Transform {
	return TransformFunc{
		N: "chain",
		F: func(tu *TranslationUnit) *TranslationUnit {
			for _, t := range transforms {
				tu = t.Transform(tu)
			}
			return tu
		},
	}
}

// VisitorTransform adapts a visitor into a named pipeline stage.
func VisitorTransform(name string, v Visitor) Transform {
	return TransformFunc{
		N: name,
		F: func(tu *TranslationUnit) *TranslationUnit { return Visit(v, tu) },
	}
}

// --- Copy-on-write traversal helpers ---
// These are the only change-detection mechanism in the engine: a slice
// is rebuilt when at least one element maps to a different object, and
// returned as-is otherwise.

// mapNoCopy applies fn to each element. Returns (newSlice, true) if any
// element changed, or (original, false) if all elements are identical.
func mapNoCopy[T any](items []T, fn func(T) T) ([]T, bool) {
	var out []T
	modified := false
	for i, item := range items {
		newItem := fn(item)
		if any(newItem) != any(item) {
			if !modified {
				out = make([]T, len(items))
				copy(out[:i], items[:i])
				modified = true
			}
		}
		if modified {
			out[i] = newItem
		}
	}
	if !modified {
		return items, false
	}
	return out, true
}

// mapNoCopyList applies fn to each element, where fn may return zero,
// one, or many replacements. Returns (original, false) when every
// element maps to a single-element slice holding the element itself;
// otherwise concatenates all replacement slices in order. Deleting a
// node (empty result) and splitting a node (multi-element result) both
// go through here.
func mapNoCopyList[T any](items []T, fn func(T) []T) ([]T, bool) {
	for i, item := range items {
		rl := fn(item)
		if len(rl) == 1 && any(rl[0]) == any(item) {
			continue
		}
		out := make([]T, 0, len(items)+len(rl))
		out = append(out, items[:i]...)
		out = append(out, rl...)
		for _, rest := range items[i+1:] {
			out = append(out, fn(rest)...)
		}
		return out, true
	}
	return items, false
}

// sameSlice reports whether two slices are the same sequence object.
// Empty sequences are interchangeable: they have no children to lose.
func sameSlice[T any](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	return &a[0] == &b[0]
}
