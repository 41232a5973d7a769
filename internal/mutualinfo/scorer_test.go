package mutualinfo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/adtree/internal/adtree"
	"github.com/agentic-research/adtree/internal/cache"
	"github.com/agentic-research/adtree/internal/record"
)

func buildCache(t *testing.T, arities []int, rows [][]int, lMax int) *cache.Cache {
	t.Helper()
	tbl, err := record.New(arities, rows)
	require.NoError(t, err)
	tree, err := adtree.Build(tbl)
	require.NoError(t, err)
	c, err := cache.Build(tree, lMax)
	require.NoError(t, err)
	return c
}

// Tiny uniform table: I({1};{2}) = 0.
func TestLevelIndependentAttributes(t *testing.T) {
	c := buildCache(t, []int{2, 2}, [][]int{{1, 1}, {1, 2}, {2, 1}, {2, 2}}, 2)
	bps, err := Level(c, 2)
	require.NoError(t, err)
	require.Len(t, bps, 1)
	assert.InDelta(t, 0.0, bps[0].MI, 1e-9)
}

// Perfect correlation: I({1};{2}) = ln 2.
func TestLevelPerfectCorrelation(t *testing.T) {
	c := buildCache(t, []int{2, 2}, [][]int{{1, 1}, {1, 1}, {2, 2}, {2, 2}}, 2)
	bps, err := Level(c, 2)
	require.NoError(t, err)
	require.Len(t, bps, 1)
	assert.InDelta(t, math.Log(2), bps[0].MI, 1e-9)
}

func TestLevelBelowTwoReturnsNil(t *testing.T) {
	bps, err := Level(nil, 1)
	require.NoError(t, err)
	assert.Nil(t, bps)
}

func TestPruneKeepsAtOrAboveThreshold(t *testing.T) {
	bps := []Bipartition{{MI: 0.1}, {MI: 0.5}, {MI: 0.9}}
	out := Prune(bps, 0.5)
	require.Len(t, out, 2)
	assert.Equal(t, 0.5, out[0].MI)
	assert.Equal(t, 0.9, out[1].MI)
}

func TestElbowFlatCurveKeepsNothingPruned(t *testing.T) {
	bps := []Bipartition{{MI: 1}, {MI: 1}, {MI: 1}}
	mu := Elbow(bps, DefaultElbowParams())
	assert.Equal(t, 1.0, mu)
}
