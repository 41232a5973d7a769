package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/adtree/internal/adtree"
	"github.com/agentic-research/adtree/internal/record"
)

func buildTree(t *testing.T, arities []int, rows [][]int) *adtree.Tree {
	t.Helper()
	tbl, err := record.New(arities, rows)
	require.NoError(t, err)
	tree, err := adtree.Build(tbl)
	require.NoError(t, err)
	return tree
}

func TestBuildPopulatesEveryLevel(t *testing.T) {
	tree := buildTree(t, []int{2, 2, 2}, [][]int{{1, 1, 1}, {1, 2, 1}, {2, 1, 2}, {2, 2, 2}})
	c, err := Build(tree, 2)
	require.NoError(t, err)

	assert.Equal(t, [][]int{{1}, {2}, {3}}, c.Level(1))
	assert.Equal(t, [][]int{{1, 2}, {1, 3}, {2, 3}}, c.Level(2))
	assert.Nil(t, c.Level(3)) // beyond L_max

	t1, ok := c.Get([]int{1})
	require.True(t, ok)
	assert.Equal(t, int64(4), t1.Sum())

	// Get normalizes the requested order.
	t12a, ok := c.Get([]int{1, 2})
	require.True(t, ok)
	t12b, ok := c.Get([]int{2, 1})
	require.True(t, ok)
	assert.Equal(t, t12a.Sum(), t12b.Sum())
}

func TestGetMissingSubset(t *testing.T) {
	tree := buildTree(t, []int{2, 2}, [][]int{{1, 1}})
	c, err := Build(tree, 1)
	require.NoError(t, err)

	_, ok := c.Get([]int{1, 2})
	assert.False(t, ok)
}

func TestCombinationsLexicographic(t *testing.T) {
	got := combinations(4, 2)
	want := [][]int{{1, 2}, {1, 3}, {1, 4}, {2, 3}, {2, 4}, {3, 4}}
	assert.Equal(t, want, got)
}

func TestBuildRejectsInvalidLMax(t *testing.T) {
	tree := buildTree(t, []int{2}, [][]int{{1}})
	_, err := Build(tree, 0)
	require.Error(t, err)
	_, err = Build(tree, 5)
	require.Error(t, err)
}
