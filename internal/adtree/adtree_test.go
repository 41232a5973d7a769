package adtree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/adtree/internal/record"
)

func mustTable(t *testing.T, arities []int, rows [][]int) *record.Table {
	t.Helper()
	tbl, err := record.New(arities, rows)
	require.NoError(t, err)
	return tbl
}

// Tiny uniform table, D=2, arities [2,2], N=4.
func TestBuildTinyUniform(t *testing.T) {
	tbl := mustTable(t, []int{2, 2}, [][]int{{1, 1}, {1, 2}, {2, 1}, {2, 2}})
	tree, err := Build(tbl)
	require.NoError(t, err)

	assert.True(t, tree.Sealed())
	assert.Equal(t, int64(4), tree.N())
	assert.Equal(t, int64(4), tree.Root().Count())
}

// D=3, arities [3,3,3], N=9, records enumerating (i,i,i) thrice for i in {1,2,3}.
// Vary_1's MCV must break ties to the smallest value: 1.
func TestBuildMCVTieBreak(t *testing.T) {
	var rows [][]int
	for i := 1; i <= 3; i++ {
		for k := 0; k < 3; k++ {
			rows = append(rows, []int{i, i, i})
		}
	}
	tbl := mustTable(t, []int{3, 3, 3}, rows)
	tree, err := Build(tbl)
	require.NoError(t, err)

	root := tree.Root()
	assert.Equal(t, int64(9), root.Count())
	v1 := root.Vary(1)
	assert.Equal(t, 1, v1.MCV())
	assert.Nil(t, v1.Child(1)) // MCV slot is never allocated
	assert.NotNil(t, v1.Child(2))
	assert.Equal(t, int64(3), v1.Child(2).Count())
}

func TestBuildEmptyDataset(t *testing.T) {
	tbl := mustTable(t, []int{2}, nil)
	tree, err := Build(tbl)
	require.NoError(t, err)
	assert.Equal(t, int64(0), tree.N())
	assert.Equal(t, int64(0), tree.Root().Count())
}

func TestRootPanicsUnsealed(t *testing.T) {
	tree := &Tree{}
	assert.Panics(t, func() { tree.Root() })
}

// zeroAttrSource is a minimal record.Source with no attributes, used to
// exercise Build's defensive D==0 check (record.Table's own constructor
// already rejects an empty header before Build ever sees one).
type zeroAttrSource struct{}

func (zeroAttrSource) D() int             { return 0 }
func (zeroAttrSource) Arity(int) int      { return 0 }
func (zeroAttrSource) Value(int, int) int { return 0 }
func (zeroAttrSource) N() int             { return 0 }

func TestBuildRejectsZeroAttributes(t *testing.T) {
	_, err := Build(zeroAttrSource{})
	require.Error(t, err)
	var se *SaturationError
	assert.ErrorAs(t, err, &se)
}
