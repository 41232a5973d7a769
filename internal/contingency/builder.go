package contingency

import (
	"sort"

	"github.com/agentic-research/adtree/internal/adtree"
)

// Build materializes the k-deep contingency tree for attrs. attrs may be
// given in any order; the walk itself always proceeds in ascending
// attribute-index order (the only order an AD-tree's node ranges support),
// and the result is index-translated back to the caller's requested order,
// which is what gives contingency tables permutation invariance: querying
// the same subset in a different attribute order yields the same counts,
// just reindexed.
func Build(tree *adtree.Tree, attrs []int) (*Table, error) {
	if len(attrs) == 0 {
		return nil, &QueryError{Reason: "empty attribute subset"}
	}
	seen := make(map[int]bool, len(attrs))
	for _, a := range attrs {
		if a < 1 || a > tree.D() {
			return nil, &QueryError{Reason: "attribute out of range"}
		}
		if seen[a] {
			return nil, &QueryError{Reason: "duplicate attribute in subset"}
		}
		seen[a] = true
	}

	sorted := append([]int(nil), attrs...)
	sort.Ints(sorted)

	perm := make([]int, len(attrs)) // perm[i] = index of attrs[i] within sorted
	for i, a := range attrs {
		for j, s := range sorted {
			if s == a {
				perm[i] = j
				break
			}
		}
	}

	arities := make([]int, len(attrs))
	for i, a := range attrs {
		arities[i] = tree.Arity(a)
	}

	root := walk(tree, sorted)

	return &Table{
		attrs:   append([]int(nil), attrs...),
		arities: arities,
		sorted:  sorted,
		perm:    perm,
		root:    root,
		total:   tree.N(),
	}, nil
}

// expandFrame asks for AD-node `node` to be expanded at depth `depth`
// (number of sorted-order attributes already consumed), writing its
// resulting cell into *target.
type expandFrame struct {
	node   *adtree.Node
	depth  int
	target **cell
}

// fixupFrame completes one Vary expansion: the MCV slot of `container` is
// reconstructed by subtracting every other populated sibling slot from it.
// `remaining` is how many further attribute dimensions lie below
// container's kids (0 means the kids are themselves leaf cells).
type fixupFrame struct {
	container *cell
	mcv       int
	remaining int
}

// stackItem is either an expandFrame or a fixupFrame; exactly one of the
// two embedded pointers is non-nil.
type stackItem struct {
	expand *expandFrame
	fixup  *fixupFrame
}

// walk runs the explicit work-stack algorithm over the sealed AD-tree,
// producing the cell tree in `sorted` attribute order.
func walk(tree *adtree.Tree, sorted []int) *cell {
	k := len(sorted)
	var root *cell

	stack := []stackItem{{expand: &expandFrame{node: tree.Root(), depth: 0, target: &root}}}

	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if item.fixup != nil {
			applyFixup(item.fixup)
			continue
		}

		f := item.expand
		if f.node.Count() == 0 {
			continue // zero-count AD-node (only the root of an empty dataset): target slot remains 0
		}
		if f.depth == k {
			// Leaf write: AD.count into the current output slot.
			*f.target = &cell{n: f.node.Count()}
			continue
		}

		attr := sorted[f.depth]
		vn := f.node.Vary(attr)
		mcv := vn.MCV()
		arity := tree.Arity(attr)

		container := &cell{kids: make([]*cell, arity)}
		*f.target = container

		remaining := k - f.depth - 1

		// Push the MCV-fixup marker before the children so it is
		// processed after them (LIFO): it runs once every sibling slot
		// this level can populate has been fully expanded, including
		// their own nested fixups.
		stack = append(stack, stackItem{fixup: &fixupFrame{container: container, mcv: mcv, remaining: remaining}})

		// Push children in descending value order so they pop (and so
		// execute) in ascending order, giving the walk a deterministic
		// visit order.
		for v := arity; v >= 1; v-- {
			var child *adtree.Node
			if v == mcv {
				child = f.node // the MCV slot aggregates via the same AD-node at the next level
			} else {
				child = vn.Child(v)
			}
			if child == nil {
				continue // absent AD-node: target slot remains 0 (no write)
			}
			stack = append(stack, stackItem{expand: &expandFrame{
				node:   child,
				depth:  f.depth + 1,
				target: &container.kids[v-1],
			}})
		}
	}

	return root
}

// applyFixup subtracts every non-MCV sibling subtree from the MCV subtree,
// elementwise, so the MCV slot carries its true (reconstructed) count.
func applyFixup(f *fixupFrame) {
	arity := len(f.container.kids)
	mcvIdx := f.mcv - 1
	for v := 1; v <= arity; v++ {
		if v == f.mcv {
			continue
		}
		f.container.kids[mcvIdx] = subtractInto(f.container.kids[mcvIdx], f.container.kids[v-1], f.remaining)
	}
}

// subtractInto subtracts sib from mcv in place over `remaining` further
// attribute dimensions (0 means mcv/sib are leaf cells holding a scalar
// count). If mcv becomes fully zero it collapses to nil, never only
// partially, so downstream lookups short-circuit on the absent pointer
// exactly as they do for a never-allocated zero AD-node.
func subtractInto(mcv, sib *cell, remaining int) *cell {
	if sib == nil || mcv == nil {
		return mcv
	}
	if remaining == 0 {
		mcv.n -= sib.n
		if mcv.n == 0 {
			return nil
		}
		return mcv
	}
	allZero := true
	for i := range mcv.kids {
		mcv.kids[i] = subtractInto(mcv.kids[i], sib.kids[i], remaining-1)
		if mcv.kids[i] != nil {
			allZero = false
		}
	}
	if allZero {
		return nil
	}
	return mcv
}
