// Package contingency materializes the joint-count table for an arbitrary
// subset of attributes with a single stack-driven walk over a sealed
// adtree.Tree. The walk is expressed as an explicit work stack rather than
// recursion.
package contingency

import "fmt"

// QueryError reports an invalid contingency query: an unknown attribute, an
// empty subset, or a duplicate attribute. It is fatal to the single query
// only; the AD-tree it was issued against remains valid.
type QueryError struct {
	Reason string
}

func (e *QueryError) Error() string { return "contingency: query error: " + e.Reason }

// cell is a tagged-union node of the contingency tree: a nil *cell means a
// count of 0 (the collapsed-zero fast path is simply the absent pointer,
// mirroring how a zero AD-node is never allocated). A non-nil cell is
// either a leaf (kids == nil, n holds the count) or an interior node (kids
// holds one slot per value of the attribute at this depth).
type cell struct {
	n    int64
	kids []*cell
}

// Table is the k-deep contingency tree: shape arity(attrs[0]) x ... x
// arity(attrs[k-1]), indexed directly by modality with no MCV-slot
// rotation.
type Table struct {
	attrs   []int // requested order, as given by the caller
	arities []int // arities, matching attrs order
	sorted  []int // ascending permutation of attrs actually walked
	perm    []int // perm[i] = position of attrs[i] within sorted
	root    *cell // built over `sorted` order
	total   int64
}

// Attrs returns the attribute list this table is indexed by, in the order
// the caller requested it.
func (t *Table) Attrs() []int { return append([]int(nil), t.attrs...) }

// Sum returns N, the record count of the tree the table was built from,
// which equals the total of all cells.
func (t *Table) Sum() int64 { return t.total }

// Get returns the count for modality tuple `vals`, given in the same
// attribute order as Attrs(). A partial prefix of length < len(Attrs())
// returns the marginal count for that prefix.
func (t *Table) Get(vals []int) int64 {
	if len(vals) > len(t.attrs) {
		panic(fmt.Sprintf("contingency: Get: %d values exceeds %d attributes", len(vals), len(t.attrs)))
	}
	// Translate from requested order to the sorted walk order: the
	// permutation only reorders dimensions, so a prefix request in
	// requested order must first be scattered into sorted-order slots
	// before any are known; we therefore require full tuples for sorted
	// traversal and handle prefixes by recursing from the root.
	c := t.root
	// Build a full-length lookup in sorted order, with "unknown" sentinel
	// -1 for dimensions beyond the given prefix.
	sortedVals := make([]int, len(t.sorted))
	for i := range sortedVals {
		sortedVals[i] = -1
	}
	for i, v := range vals {
		sortedVals[t.perm[i]] = v
	}
	return sumMatching(c, sortedVals)
}

// sumMatching walks the sorted-order cell tree, summing over any dimension
// whose requested value is -1 (a free/marginalized dimension) and indexing
// directly into the ones that are pinned.
func sumMatching(c *cell, sortedVals []int) int64 {
	if c == nil {
		return 0
	}
	if len(sortedVals) == 0 {
		return c.n
	}
	want := sortedVals[0]
	rest := sortedVals[1:]
	if want == -1 {
		var sum int64
		for _, k := range c.kids {
			sum += sumMatching(k, rest)
		}
		return sum
	}
	if want < 1 || want > len(c.kids) {
		return 0
	}
	return sumMatching(c.kids[want-1], rest)
}

// Entry is one non-zero cell of a sparse enumeration of the table.
type Entry struct {
	Values []int // in Attrs() order
	Count  int64
}

// Entries returns every non-zero cell, in lexicographic order of the
// modality tuples taken in ascending attribute-index order (the walk
// order). Values are reported in Attrs() order; when that differs from
// ascending order, the entries are not re-sorted to match it.
func (t *Table) Entries() []Entry {
	var out []Entry
	sortedVals := make([]int, len(t.sorted))
	var walk func(c *cell, depth int)
	walk = func(c *cell, depth int) {
		if c == nil {
			return
		}
		if depth == len(t.sorted) {
			vals := make([]int, len(t.attrs))
			for i := range t.attrs {
				vals[i] = sortedVals[t.perm[i]]
			}
			out = append(out, Entry{Values: vals, Count: c.n})
			return
		}
		for v := 1; v <= len(c.kids); v++ {
			if c.kids[v-1] == nil {
				continue
			}
			sortedVals[depth] = v
			walk(c.kids[v-1], depth+1)
		}
	}
	walk(t.root, 0)
	return out
}
