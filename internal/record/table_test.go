package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidTable(t *testing.T) {
	tbl, err := New([]int{2, 2}, [][]int{{1, 1}, {1, 2}, {2, 1}, {2, 2}})
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.D())
	assert.Equal(t, 4, tbl.N())
	assert.Equal(t, 2, tbl.Arity(1))
	assert.Equal(t, 1, tbl.Value(0, 1))
	assert.Equal(t, 2, tbl.Value(3, 2))
}

func TestNewRejectsEmptyHeader(t *testing.T) {
	_, err := New(nil, nil)
	require.Error(t, err)
	var ce *ConstructionError
	assert.ErrorAs(t, err, &ce)
}

func TestNewRejectsNonPositiveArity(t *testing.T) {
	_, err := New([]int{0}, nil)
	require.Error(t, err)
}

func TestNewRejectsRowLengthMismatch(t *testing.T) {
	_, err := New([]int{2, 2}, [][]int{{1}})
	require.Error(t, err)
}

func TestNewRejectsValueOutOfRange(t *testing.T) {
	_, err := New([]int{2}, [][]int{{3}})
	require.Error(t, err)

	_, err = New([]int{2}, [][]int{{0}})
	require.Error(t, err)
}

func TestValuePanicsOutOfRange(t *testing.T) {
	tbl, err := New([]int{2}, [][]int{{1}})
	require.NoError(t, err)
	assert.Panics(t, func() { tbl.Value(5, 1) })
	assert.Panics(t, func() { tbl.Arity(2) })
}
