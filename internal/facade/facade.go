// Package facade orchestrates the full pipeline — AD-tree construction,
// cache population, per-level mutual-information pruning, pairing scoring,
// and score grouping — behind the single entry point the CLI and MCP
// surfaces both call through. It is the only package that wires the
// AD-tree, cache, and scoring stages together end to end.
package facade

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/google/uuid"

	"github.com/agentic-research/adtree/api"
	"github.com/agentic-research/adtree/internal/adtree"
	"github.com/agentic-research/adtree/internal/cache"
	"github.com/agentic-research/adtree/internal/config"
	"github.com/agentic-research/adtree/internal/contingency"
	"github.com/agentic-research/adtree/internal/grouping"
	"github.com/agentic-research/adtree/internal/mutualinfo"
	"github.com/agentic-research/adtree/internal/pairing"
	"github.com/agentic-research/adtree/internal/record"
)

// Facade is the sealed result of a mining run: the AD-tree, its cache, and
// every level's full ascending-sorted pairing-score list, ready to be
// queried or rendered into an api.Report.
type Facade struct {
	cfg     config.Config
	tree    *adtree.Tree
	cache   *cache.Cache
	mu      map[int]float64
	levels  map[int][]pairing.Score
	groups  []grouping.Group
	src     record.Source
	mapping *record.ColumnMapping
}

// Run builds the AD-tree over src, populates the cache up to cfg.LMax,
// scores and prunes every level's bipartitions by mutual information,
// scores the survivors, and groups overlapping top results. mapping may be
// nil; when present it lets Pairings render human-readable attribute and
// category names.
func Run(src record.Source, mapping *record.ColumnMapping, cfg config.Config) (*Facade, error) {
	tree, err := adtree.Build(src)
	if err != nil {
		return nil, fmt.Errorf("facade: build tree: %w", err)
	}
	lMax := cfg.LMax
	if lMax > tree.D() {
		lMax = tree.D()
	}
	c, err := cache.Build(tree, lMax)
	if err != nil {
		return nil, fmt.Errorf("facade: build cache: %w", err)
	}

	n := tree.N()
	mu := make(map[int]float64, lMax)
	levels := make(map[int][]pairing.Score, lMax)

	for k := 2; k <= lMax; k++ {
		bps, err := mutualinfo.Level(c, k)
		if err != nil {
			return nil, fmt.Errorf("facade: mutual information level %d: %w", k, err)
		}
		mutualinfo.SortAscending(bps)
		threshold := mutualinfo.Elbow(bps, cfg.ElbowParams())
		mu[k] = threshold
		survivors := mutualinfo.Prune(bps, threshold)

		scores, err := pairing.Level(c, survivors, n, cfg.TAlpha)
		if err != nil {
			return nil, fmt.Errorf("facade: pairing scores level %d: %w", k, err)
		}
		levels[k] = scores
	}

	groups := grouping.Groups(levels, cfg.FirstsN)

	return &Facade{
		cfg:     cfg,
		tree:    tree,
		cache:   c,
		mu:      mu,
		levels:  levels,
		groups:  groups,
		src:     src,
		mapping: mapping,
	}, nil
}

// Pairings returns the top FirstsN pairing scores of `level`, ranked
// ascending by score, rendered as api.Pairing values.
func (f *Facade) Pairings(level int) []api.Pairing {
	full := f.levels[level]
	n := len(full)
	if n > f.cfg.FirstsN {
		n = f.cfg.FirstsN
	}
	out := make([]api.Pairing, n)
	for i := 0; i < n; i++ {
		out[i] = f.toPairing(full[i], level, i+1)
	}
	return out
}

// Groups returns the score groups computed over every level's top-F
// pairings, sorted ascending by aggregate score.
func (f *Facade) Groups() []api.ScoreGroup {
	out := make([]api.ScoreGroup, len(f.groups))
	for i, g := range f.groups {
		members := make([]api.Pairing, len(g.Members))
		for j, m := range g.Members {
			members[j] = f.toPairing(m.Score, m.Level, m.Rank)
		}
		out[i] = api.ScoreGroup{Score: g.Score, Members: members}
	}
	return out
}

// Contingency returns the joint contingency table for `subset` (any order).
// Subsets within cfg.LMax are served from the cache; larger subsets fall
// back to a fresh contingency.Build over the sealed tree, since the cache
// is an accelerator, not the only path to an answer.
func (f *Facade) Contingency(subset []int) (*contingency.Table, error) {
	if t, ok := f.cache.Get(subset); ok {
		return t, nil
	}
	return contingency.Build(f.tree, subset)
}

// RowsForPairing returns the 0-indexed row numbers of the source dataset
// that satisfy a pairing's full conjunction (every X attribute at its AX
// value, every Y attribute at its AY value).
func (f *Facade) RowsForPairing(p api.Pairing) []int {
	var out []int
	for i := 0; i < f.src.N(); i++ {
		if rowMatches(f.src, i, p.X, p.AX) && rowMatches(f.src, i, p.Y, p.AY) {
			out = append(out, i)
		}
	}
	return out
}

func rowMatches(src record.Source, row int, attrs, vals []int) bool {
	for i, attr := range attrs {
		if src.Value(row, attr) != vals[i] {
			return false
		}
	}
	return true
}

func (f *Facade) toPairing(s pairing.Score, level, rank int) api.Pairing {
	p := api.Pairing{
		Level:       level,
		Rank:        rank,
		Subset:      s.S,
		X:           s.X,
		Y:           s.Y,
		AX:          s.AX,
		AY:          s.AY,
		Cardinality: s.Count,
		Score:       api.Score(s.Value),
	}
	if f.mapping != nil {
		p.Names = f.names(s)
	}
	return p
}

func (f *Facade) names(s pairing.Score) []api.ValueName {
	out := make([]api.ValueName, 0, len(s.X)+len(s.Y))
	add := func(attrs, vals []int) {
		for i, attr := range attrs {
			name := ""
			if attr >= 1 && attr <= len(f.mapping.Names) {
				name = f.mapping.Names[attr-1]
			}
			value, _ := f.mapping.Value(attr, vals[i])
			out = append(out, api.ValueName{Attribute: name, Value: value})
		}
	}
	add(s.X, s.AX)
	add(s.Y, s.AY)
	return out
}

// Report assembles the self-describing serialized report of a mining run.
// A blank runID is replaced with a freshly generated UUID.
func (f *Facade) Report(runID, sourceID string, query api.Query, metaFields []string) api.Report {
	if runID == "" {
		runID = uuid.New().String()
	}
	muOut := make(map[int]api.Score, len(f.mu))
	for k, v := range f.mu {
		muOut[k] = api.Score(v)
	}
	levelsOut := make(map[int][]api.Pairing, len(f.levels))
	var keys []int
	for k := range f.levels {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	for _, k := range keys {
		levelsOut[k] = f.Pairings(k)
	}
	return api.Report{
		RunID:      runID,
		SourceID:   sourceID,
		Query:      query,
		MetaFields: metaFields,
		TAlpha:     f.cfg.TAlpha,
		LMax:       f.cache.LMax(),
		Mu:         muOut,
		FirstsN:    f.cfg.FirstsN,
		Levels:     levelsOut,
		Groups:     f.Groups(),
	}
}

// SaveReport writes a report to path as indented JSON.
func SaveReport(path string, r api.Report) error {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("facade: marshal report: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("facade: write report %s: %w", path, err)
	}
	return nil
}

// LoadReport reads back a report previously written by SaveReport.
func LoadReport(path string) (api.Report, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return api.Report{}, fmt.Errorf("facade: read report %s: %w", path, err)
	}
	var r api.Report
	if err := json.Unmarshal(b, &r); err != nil {
		return api.Report{}, fmt.Errorf("facade: unmarshal report %s: %w", path, err)
	}
	return r, nil
}
