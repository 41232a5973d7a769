package grouping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/adtree/internal/pairing"
)

// The same modality multiset (A1=a, A2=b, A3=c) as the top-ranked
// pairing under all three bipartitions of a level-3 subset collapses into
// one score group of size 3, whose score is the minimum of the three ranks.
func TestGroupsCollapsesSharedAssignment(t *testing.T) {
	mk := func(x, y, ax, ay []int, val float64) pairing.Score {
		return pairing.Score{S: []int{1, 2, 3}, X: x, Y: y, AX: ax, AY: ay, Value: val}
	}
	level3 := []pairing.Score{
		mk([]int{1}, []int{2, 3}, []int{1}, []int{2, 3}, 0.1),
		mk([]int{2}, []int{1, 3}, []int{2}, []int{1, 3}, 0.2),
		mk([]int{3}, []int{1, 2}, []int{3}, []int{1, 2}, 0.3),
	}
	groups := Groups(map[int][]pairing.Score{3: level3}, 10)
	require.Len(t, groups, 1)
	assert.Len(t, groups[0].Members, 3)
	assert.Equal(t, 1, groups[0].Score) // minimum rank among the three
}

func TestGroupsKeepsDistinctAssignmentsSeparate(t *testing.T) {
	a := pairing.Score{S: []int{1, 2}, X: []int{1}, Y: []int{2}, AX: []int{1}, AY: []int{1}, Value: 0.1}
	b := pairing.Score{S: []int{1, 2}, X: []int{1}, Y: []int{2}, AX: []int{2}, AY: []int{2}, Value: 0.2}
	groups := Groups(map[int][]pairing.Score{2: {a, b}}, 10)
	require.Len(t, groups, 2)
}

func TestGroupsRespectsFirstsNCutoff(t *testing.T) {
	a := pairing.Score{S: []int{1, 2}, X: []int{1}, Y: []int{2}, AX: []int{1}, AY: []int{1}, Value: 0.1}
	b := pairing.Score{S: []int{1, 2}, X: []int{1}, Y: []int{2}, AX: []int{2}, AY: []int{2}, Value: 0.2}
	groups := Groups(map[int][]pairing.Score{2: {a, b}}, 1)
	require.Len(t, groups, 1)
}

func TestHigherLevelSupersetFoldsIn(t *testing.T) {
	seed := pairing.Score{S: []int{1, 2}, X: []int{1}, Y: []int{2}, AX: []int{1}, AY: []int{1}, Value: 0.1}
	superset := pairing.Score{S: []int{1, 2, 3}, X: []int{1}, Y: []int{2, 3}, AX: []int{1}, AY: []int{1, 5}, Value: 0.4}
	groups := Groups(map[int][]pairing.Score{2: {seed}, 3: {superset}}, 10)
	require.Len(t, groups, 1)
	assert.Len(t, groups[0].Members, 2)
}
