// Package cache builds and holds, for every attribute subset up to a
// maximum arity L_max, the sparse contingency table for that subset.
// Tables are built level by level (all singletons, then all pairs, ...),
// each level in lexicographic order of its attribute-index tuple.
package cache

import (
	"fmt"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/agentic-research/adtree/internal/adtree"
	"github.com/agentic-research/adtree/internal/contingency"
)

// Cache is a sealed, build-then-read object. Queries against an unsealed
// cache are a programming fault.
type Cache struct {
	lMax   int
	levels []map[string][]int  // levels[k-1]: key -> sorted attribute subset (for stable iteration)
	tables []map[string]*contingency.Table // tables[k-1]: key -> table
	order  [][]string          // order[k-1]: keys in lexicographic subset order
	hot    *lru.Cache[string, *contingency.Table]
	sealed bool
}

// hotCacheSize bounds the read-through view cache sitting in front of the
// exhaustive per-level store. The authoritative data always lives in
// `tables` (never evicted, since every built subset must remain queryable);
// `hot` only memoizes repeated Get() calls from the mutual-information and
// pairing scorers, which each revisit the same subset many times per level.
const hotCacheSize = 512

// Build fills the cache for every k in {1,...,lMax} and every combination S
// of k attribute indices drawn from {1,...,D}, each derived from a
// contingency.Table built over the sealed tree.
func Build(tree *adtree.Tree, lMax int) (*Cache, error) {
	if lMax < 1 || lMax > tree.D() {
		return nil, fmt.Errorf("cache: invalid L_max %d for D=%d attributes", lMax, tree.D())
	}
	hot, err := lru.New[string, *contingency.Table](hotCacheSize)
	if err != nil {
		return nil, fmt.Errorf("cache: create hot cache: %w", err)
	}

	c := &Cache{
		lMax:   lMax,
		levels: make([]map[string][]int, lMax),
		tables: make([]map[string]*contingency.Table, lMax),
		order:  make([][]string, lMax),
		hot:    hot,
	}

	for k := 1; k <= lMax; k++ {
		subsets := combinations(tree.D(), k)
		keys := make([]string, 0, len(subsets))
		byKey := make(map[string][]int, len(subsets))
		tbls := make(map[string]*contingency.Table, len(subsets))
		for _, s := range subsets {
			key := subsetKey(s)
			table, err := contingency.Build(tree, s)
			if err != nil {
				return nil, fmt.Errorf("cache: build level %d subset %v: %w", k, s, err)
			}
			keys = append(keys, key)
			byKey[key] = s
			tbls[key] = table
		}
		c.levels[k-1] = byKey
		c.tables[k-1] = tbls
		c.order[k-1] = keys
	}

	c.sealed = true
	return c, nil
}

// LMax returns the maximum subset arity the cache was built up to.
func (c *Cache) LMax() int { return c.lMax }

// Level returns, in lexicographic order of attribute-index tuple, every
// subset of size k the cache holds.
func (c *Cache) Level(k int) [][]int {
	if !c.sealed {
		panic("cache: Level: query against an unsealed cache")
	}
	if k < 1 || k > c.lMax {
		return nil
	}
	keys := c.order[k-1]
	out := make([][]int, 0, len(keys))
	for _, key := range keys {
		out = append(out, c.levels[k-1][key])
	}
	return out
}

// Get returns the contingency table for `subset` (any order; it is
// normalized internally). The bool is false if that subset was never built
// (size > L_max, or containing an attribute index the cache wasn't built
// over).
func (c *Cache) Get(subset []int) (*contingency.Table, bool) {
	if !c.sealed {
		panic("cache: Get: query against an unsealed cache")
	}
	k := len(subset)
	if k < 1 || k > c.lMax {
		return nil, false
	}
	sorted := append([]int(nil), subset...)
	sortInts(sorted)
	key := subsetKey(sorted)

	if t, ok := c.hot.Get(key); ok {
		return t, true
	}
	t, ok := c.tables[k-1][key]
	if ok {
		c.hot.Add(key, t)
	}
	return t, ok
}

func subsetKey(s []int) string {
	parts := make([]string, len(s))
	for i, v := range s {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

func sortInts(s []int) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

// combinations returns every k-combination of {1,...,d}, in lexicographic
// order.
func combinations(d, k int) [][]int {
	if k > d {
		return nil
	}
	var out [][]int
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i + 1
	}
	for {
		out = append(out, append([]int(nil), idx...))
		// advance to next combination in lexicographic order
		i := k - 1
		for i >= 0 && idx[i] == d-k+i+1 {
			i--
		}
		if i < 0 {
			break
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
	return out
}
