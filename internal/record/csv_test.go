package record

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCSVFirstSeenOrderMapping(t *testing.T) {
	src := "color,shape\nred,circle\nblue,square\nred,square\n"
	tbl, mapping, err := loadCSV(strings.NewReader(src))
	require.NoError(t, err)

	assert.Equal(t, 2, tbl.D())
	assert.Equal(t, 3, tbl.N())
	assert.Equal(t, []string{"color", "shape"}, mapping.Names)

	// "red" is seen first -> value 1; "blue" second -> value 2.
	assert.Equal(t, 1, tbl.Value(0, 1))
	assert.Equal(t, 2, tbl.Value(1, 1))
	assert.Equal(t, 1, tbl.Value(2, 1))

	name, ok := mapping.Value(1, 1)
	require.True(t, ok)
	assert.Equal(t, "red", name)
}

func TestLoadCSVRejectsRowLengthMismatch(t *testing.T) {
	src := "a,b\n1,2\n3\n"
	_, _, err := loadCSV(strings.NewReader(src))
	require.Error(t, err)
}

func TestSortedNames(t *testing.T) {
	m := &ColumnMapping{Names: []string{"zeta", "alpha", "mid"}}
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, m.SortedNames())
}
