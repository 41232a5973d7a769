// Package pairing computes, for each surviving bipartition, the
// Laplace-smoothed odds-ratio-like score of every modality pair and ranks
// them.
package pairing

import (
	"sort"

	"github.com/agentic-research/adtree/internal/cache"
	"github.com/agentic-research/adtree/internal/contingency"
	"github.com/agentic-research/adtree/internal/mutualinfo"
)

// Score is one pairing-score record: a joint modality tuple (AX, AY) under
// bipartition (X, Y) of subset S, its joint count, and its Laplace-smoothed
// ratio score.
type Score struct {
	S     []int
	X, Y  []int
	AX    []int
	AY    []int
	Count int64
	Value float64
}

// Level computes scores for every surviving bipartition at a level: for
// each modality tuple with joint count c > 0, discard it if either marginal
// is below minSupport (t_alpha), otherwise compute
//
//	score = (c+1)(N+2) / ((c_X+1)(c_Y+1))
//
// and return every surviving record sorted ascending by score, ties broken
// by production order (subset, then bipartition, then modality tuple),
// which is the per-level rank the caller observes.
func Level(c *cache.Cache, survivors []mutualinfo.Bipartition, n int64, minSupport int64) ([]Score, error) {
	var out []Score
	for _, bp := range survivors {
		joint, ok := c.Get(bp.S)
		if !ok {
			continue
		}
		xt, ok := c.Get(bp.X)
		if !ok {
			continue
		}
		yt, ok := c.Get(bp.Y)
		if !ok {
			continue
		}
		xPos := contingency.Positions(joint.Attrs(), xt.Attrs())
		yPos := contingency.Positions(joint.Attrs(), yt.Attrs())

		for _, e := range joint.Entries() {
			if e.Count == 0 {
				continue
			}
			aX := contingency.Pick(e.Values, xPos)
			aY := contingency.Pick(e.Values, yPos)
			cX := xt.Get(aX)
			cY := yt.Get(aY)
			if cX < minSupport || cY < minSupport {
				continue
			}
			score := float64(e.Count+1) * float64(n+2) / (float64(cX+1) * float64(cY+1))
			out = append(out, Score{
				S: bp.S, X: bp.X, Y: bp.Y,
				AX: aX, AY: aY,
				Count: e.Count,
				Value: score,
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	return out, nil
}
