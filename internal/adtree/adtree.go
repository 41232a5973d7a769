// Package adtree implements the sparse, MCV-compressed All-Dimensions tree:
// a precomputed structure for fast conjunctive-count queries over a
// categorical record.Source. Construction partitions record subsets with
// github.com/RoaringBitmap/roaring bitmaps, tracking which rows satisfy the
// conjunctive query a node represents as an intersectable, countable set
// rather than indexing rows by value.
package adtree

import (
	"fmt"
	"math"

	"github.com/RoaringBitmap/roaring"
	"github.com/agentic-research/adtree/internal/record"
)

// SaturationError reports N >= 2^63 or an arity >= 2^31, checked before any
// build begins. Build also returns it for a source with zero attributes or
// a non-positive arity.
type SaturationError struct {
	Reason string
}

func (e *SaturationError) Error() string { return "adtree: saturation: " + e.Reason }

// Node is an AD-node: the count of a conjunctive query over a contiguous
// attribute range [start, D], plus one Vary child per attribute in range.
type Node struct {
	start  int
	count  int64
	varies []*Vary // varies[j-start] is the Vary-node for attribute j
}

// Count returns |{records satisfying this node's query}|.
func (n *Node) Count() int64 { return n.count }

// Vary returns the Vary-node for attribute j, which must lie in [n.start, D].
func (n *Node) Vary(j int) *Vary {
	idx := j - n.start
	if idx < 0 || idx >= len(n.varies) {
		panic(fmt.Sprintf("adtree: Vary: attribute %d out of range for node starting at %d", j, n.start))
	}
	return n.varies[idx]
}

// Vary is the free-attribute node under an AD-node: the Most-Common-Value of
// attribute j among the records satisfying the parent query, plus one
// AD-child slot per value. The slot at v = MCV is always absent (nil).
type Vary struct {
	attr     int
	mcv      int
	children []*Node // children[v-1]; nil at v == mcv and wherever the subquery count is 0
}

// MCV returns the Most-Common-Value of this Vary-node's attribute.
func (v *Vary) MCV() int { return v.mcv }

// Child returns the AD-node for value v, or nil if that subquery has count 0
// (or v == MCV, whose count must be reconstructed by subtraction).
func (v *Vary) Child(val int) *Node {
	if val < 1 || val > len(v.children) {
		panic(fmt.Sprintf("adtree: Child: value %d out of range [1,%d]", val, len(v.children)))
	}
	return v.children[val-1]
}

// Tree is the sealed, read-only AD-tree. It borrows the record.Source for
// construction only; once built it no longer holds a reference to it.
type Tree struct {
	root    *Node
	d       int
	arities []int
	n       int64
	sealed  bool
}

// D returns the number of attributes the tree was built over.
func (t *Tree) D() int { return t.d }

// Arity returns the arity of attribute j.
func (t *Tree) Arity(j int) int { return t.arities[j-1] }

// N returns the total record count the tree was built from.
func (t *Tree) N() int64 { return t.n }

// Root returns the root AD-node. Panics if the tree is not yet sealed:
// querying an unsealed tree is a programming fault, not a reported error.
func (t *Tree) Root() *Node {
	if !t.sealed {
		panic("adtree: Root: query against an unsealed tree")
	}
	return t.root
}

// Sealed reports whether construction has completed.
func (t *Tree) Sealed() bool { return t.sealed }

// Build constructs a sealed AD-tree over src in one call. The root AD-node
// spans the entire attribute range [1, D] over all N record indices. An
// empty dataset (N = 0) yields a sealed tree with count 0; its root still
// holds one Vary-node per attribute, each with MCV 1 and every child slot
// absent.
func Build(src record.Source) (*Tree, error) {
	d := src.D()
	if d == 0 {
		return nil, &SaturationError{Reason: "zero attributes"}
	}
	n := src.N()
	if int64(n) >= math.MaxInt64 {
		return nil, &SaturationError{Reason: fmt.Sprintf("record count %d saturates 64-bit counters", n)}
	}
	arities := make([]int, d)
	for j := 1; j <= d; j++ {
		a := src.Arity(j)
		if a < 1 {
			return nil, &SaturationError{Reason: fmt.Sprintf("attribute %d has non-positive arity %d", j, a)}
		}
		if int64(a) >= (1 << 31) {
			return nil, &SaturationError{Reason: fmt.Sprintf("attribute %d arity %d saturates 32-bit values", j, a)}
		}
		arities[j-1] = a
	}

	all := roaring.New()
	if n > 0 {
		all.AddRange(0, uint64(n))
	}

	root := buildNode(src, 1, all, d, arities)

	return &Tree{
		root:    root,
		d:       d,
		arities: arities,
		n:       int64(n),
		sealed:  true,
	}, nil
}

// buildNode recursively builds an AD-node over subrange [start, D] and
// record subset R.
func buildNode(src record.Source, start int, r *roaring.Bitmap, d int, arities []int) *Node {
	node := &Node{
		start:  start,
		count:  int64(r.GetCardinality()),
		varies: make([]*Vary, d-start+1),
	}
	for j := start; j <= d; j++ {
		node.varies[j-start] = buildVary(src, j, r, d, arities)
	}
	return node
}

// buildVary partitions R by attribute j's value, selects the MCV (ties
// broken by smallest value), and recursively builds AD-nodes for every
// non-MCV, non-empty bucket. When j == D the child AD-node still holds the
// bucket's count; it is simply a leaf with no further Vary children, since
// buildNode's own subrange [j+1, D] is empty at that point.
func buildVary(src record.Source, j int, r *roaring.Bitmap, d int, arities []int) *Vary {
	arity := arities[j-1]
	buckets := make([]*roaring.Bitmap, arity+1) // 1-indexed; buckets[0] unused
	for v := 1; v <= arity; v++ {
		buckets[v] = roaring.New()
	}

	iter := r.Iterator()
	for iter.HasNext() {
		row := iter.Next()
		v := src.Value(int(row), j)
		buckets[v].Add(row)
	}

	mcv := 1
	mcvSize := buckets[1].GetCardinality()
	for v := 2; v <= arity; v++ {
		if buckets[v].GetCardinality() > mcvSize {
			mcv = v
			mcvSize = buckets[v].GetCardinality()
		}
	}

	vn := &Vary{attr: j, mcv: mcv, children: make([]*Node, arity)}
	for v := 1; v <= arity; v++ {
		if v == mcv || buckets[v].IsEmpty() {
			continue
		}
		vn.children[v-1] = buildNode(src, j+1, buckets[v], d, arities)
	}
	return vn
}
