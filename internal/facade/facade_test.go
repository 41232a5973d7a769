package facade

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/adtree/api"
	"github.com/agentic-research/adtree/internal/config"
	"github.com/agentic-research/adtree/internal/record"
)

// End-to-end run over perfectly-correlated data: Run should produce a
// level-2 pairing list whose top score is the (1,1)/(2,2) pair, and the
// report should round-trip through Save/LoadReport unchanged.
func TestRunAndReportRoundTrip(t *testing.T) {
	tbl, err := record.New([]int{2, 2}, [][]int{{1, 1}, {1, 1}, {2, 2}, {2, 2}})
	require.NoError(t, err)

	cfg := config.Default()
	cfg.LMax = 2
	cfg.FirstsN = 10

	f, err := Run(tbl, nil, cfg)
	require.NoError(t, err)

	pairings := f.Pairings(2)
	require.NotEmpty(t, pairings)
	for _, p := range pairings {
		assert.Equal(t, p.AX, p.AY, "only the (1,1) and (2,2) cells are non-zero")
	}

	report := f.Report("", "test-source", api.Query{Fields: []string{"a", "b"}}, []string{"a", "b"})
	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, 2, report.LMax)

	path := t.TempDir() + "/report.json"
	require.NoError(t, SaveReport(path, report))

	loaded, err := LoadReport(path)
	require.NoError(t, err)
	assert.Equal(t, report.RunID, loaded.RunID)
	assert.Equal(t, report.TAlpha, loaded.TAlpha)
	assert.Equal(t, len(report.Levels[2]), len(loaded.Levels[2]))
	if len(report.Levels[2]) > 0 {
		assert.InDelta(t, float64(report.Levels[2][0].Score), float64(loaded.Levels[2][0].Score), 1e-9)
	}
}

func TestContingencyFallsBackBeyondLMax(t *testing.T) {
	tbl, err := record.New([]int{2, 2, 2}, [][]int{{1, 1, 1}, {2, 2, 2}})
	require.NoError(t, err)
	cfg := config.Default()
	cfg.LMax = 1
	cfg.FirstsN = 5

	f, err := Run(tbl, nil, cfg)
	require.NoError(t, err)

	ct, err := f.Contingency([]int{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, int64(2), ct.Sum())
}

func TestRowsForPairing(t *testing.T) {
	tbl, err := record.New([]int{2, 2}, [][]int{{1, 1}, {1, 1}, {2, 2}})
	require.NoError(t, err)
	cfg := config.Default()
	cfg.LMax = 2
	f, err := Run(tbl, nil, cfg)
	require.NoError(t, err)

	p := api.Pairing{X: []int{1}, Y: []int{2}, AX: []int{1}, AY: []int{1}}
	rows := f.RowsForPairing(p)
	assert.ElementsMatch(t, []int{0, 1}, rows)
}
