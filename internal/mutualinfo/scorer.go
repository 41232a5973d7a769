// Package mutualinfo computes, per cached attribute subset, the mutual
// information of every ordered bipartition and selects which bipartitions
// survive a pruning threshold.
package mutualinfo

import (
	"math"

	"github.com/agentic-research/adtree/internal/cache"
	"github.com/agentic-research/adtree/internal/contingency"
)

// Bipartition is one ordered split (X, Y) of a cached subset S, together
// with its mutual information I(X; Y).
type Bipartition struct {
	S  []int
	X  []int
	Y  []int
	MI float64
}

// Level computes I(X; Y) for every ordered bipartition of every cached
// subset of size k (k >= 2). Bipartitions are enumerated with a
// binary-mask trick: the lowest-indexed position of S is always fixed into
// X, which yields exactly 2^(k-1) - 1 bipartitions and avoids the X<->Y
// duplicate.
func Level(c *cache.Cache, k int) ([]Bipartition, error) {
	if k < 2 {
		return nil, nil
	}
	subsets := c.Level(k)
	n := totalCount(c)

	var out []Bipartition
	for _, s := range subsets {
		joint, ok := c.Get(s)
		if !ok {
			continue
		}
		full := 1 << uint(k)
		for mask := 1; mask < full-1; mask++ {
			if mask&1 == 0 {
				continue // bit 0 (S's lowest-indexed attribute) must be in X
			}
			x, y := splitByMask(s, mask)
			xt, ok := c.Get(x)
			if !ok {
				continue
			}
			yt, ok := c.Get(y)
			if !ok {
				continue
			}
			mi := mutualInformation(joint, xt, yt, n)
			out = append(out, Bipartition{S: s, X: x, Y: y, MI: mi})
		}
	}
	return out, nil
}

func splitByMask(s []int, mask int) (x, y []int) {
	for i, attr := range s {
		if mask&(1<<uint(i)) != 0 {
			x = append(x, attr)
		} else {
			y = append(y, attr)
		}
	}
	return x, y
}

func totalCount(c *cache.Cache) int64 {
	level1 := c.Level(1)
	if len(level1) == 0 {
		return 0
	}
	t, ok := c.Get(level1[0])
	if !ok {
		return 0
	}
	return t.Sum()
}

// mutualInformation evaluates I(X;Y) directly from the joint
// contingency.Table over S: for every non-zero joint cell (which the
// table's sparsity already guarantees by omission), split its modality
// tuple into the X and Y sub-tuples and look up the corresponding
// marginals in the X and Y tables. 0*log(0) never arises because
// zero-count entries are never visited.
func mutualInformation(joint, xt, yt *contingency.Table, n int64) float64 {
	if n == 0 {
		return 0
	}
	xPos := contingency.Positions(joint.Attrs(), xt.Attrs())
	yPos := contingency.Positions(joint.Attrs(), yt.Attrs())

	var mi float64
	for _, e := range joint.Entries() {
		c := e.Count
		if c == 0 {
			continue
		}
		aX := contingency.Pick(e.Values, xPos)
		aY := contingency.Pick(e.Values, yPos)
		cX := xt.Get(aX)
		cY := yt.Get(aY)
		if cX == 0 || cY == 0 {
			continue
		}
		mi += (float64(c) / float64(n)) * math.Log(float64(n)*float64(c)/(float64(cX)*float64(cY)))
	}
	return mi
}
