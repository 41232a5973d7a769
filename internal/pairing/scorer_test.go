package pairing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/adtree/internal/adtree"
	"github.com/agentic-research/adtree/internal/cache"
	"github.com/agentic-research/adtree/internal/mutualinfo"
	"github.com/agentic-research/adtree/internal/record"
)

func buildCache(t *testing.T, arities []int, rows [][]int, lMax int) (*cache.Cache, int64) {
	t.Helper()
	tbl, err := record.New(arities, rows)
	require.NoError(t, err)
	tree, err := adtree.Build(tbl)
	require.NoError(t, err)
	c, err := cache.Build(tree, lMax)
	require.NoError(t, err)
	return c, tree.N()
}

// Tiny uniform table: every pairing score = (1+1)(4+2)/((2+1)(2+1)) = 12/9.
func TestLevelTinyUniform(t *testing.T) {
	c, n := buildCache(t, []int{2, 2}, [][]int{{1, 1}, {1, 2}, {2, 1}, {2, 2}}, 2)
	survivors := []mutualinfo.Bipartition{{S: []int{1, 2}, X: []int{1}, Y: []int{2}}}
	scores, err := Level(c, survivors, n, 0)
	require.NoError(t, err)
	require.Len(t, scores, 4)
	for _, s := range scores {
		assert.InDelta(t, 12.0/9.0, s.Value, 1e-9)
	}
}

// Perfect correlation, absent cells never scored, and appending a
// record never resurrects an absent cell.
func TestLevelPerfectCorrelationAndEmptyCellsIgnored(t *testing.T) {
	c, n := buildCache(t, []int{2, 2}, [][]int{{1, 1}, {1, 1}, {2, 2}, {2, 2}, {1, 1}}, 2)
	survivors := []mutualinfo.Bipartition{{S: []int{1, 2}, X: []int{1}, Y: []int{2}}}
	scores, err := Level(c, survivors, n, 0)
	require.NoError(t, err)
	require.Len(t, scores, 2) // (1,1) and (2,2) only

	for _, s := range scores {
		assert.NotEqual(t, [2][]int{{2}, {1}}, [2][]int{s.AX, s.AY}, "the (2,1) cell must never be scored")
	}
}

func TestLevelDiscardsBelowMinSupport(t *testing.T) {
	c, n := buildCache(t, []int{2, 2}, [][]int{{1, 1}, {1, 1}, {2, 2}, {2, 2}}, 2)
	survivors := []mutualinfo.Bipartition{{S: []int{1, 2}, X: []int{1}, Y: []int{2}}}
	scores, err := Level(c, survivors, n, 3) // marginal support is only 2
	require.NoError(t, err)
	assert.Empty(t, scores)
}
