// Package grouping collapses overlapping top-ranked pairing scores into
// equivalence classes that share the same underlying combined modality
// tuple across different bipartitions and levels.
package grouping

import (
	"sort"

	"github.com/agentic-research/adtree/internal/pairing"
)

// Member is one pairing score folded into a Group, annotated with the rank
// it held within its own level's full sorted list (the per-level rank is
// part of the observable contract).
type Member struct {
	Score pairing.Score
	Level int
	Rank  int // 1-indexed position within the level's full ascending-sorted list
}

// Group is an equivalence class of pairing scores whose combined modality
// assignments (attribute -> value, across X and Y) each contain the seed
// member's (the first member) assignment. Members are tested only against
// the seed, not against each other, so two higher-level members need not be
// comparable under subset inclusion. Its aggregate Score is the minimum
// per-level rank among its members.
type Group struct {
	Members []Member
	Score   int
}

// assignment is the canonical (attribute -> value) form of a pairing
// score's combined modality tuple (a_X union a_Y), used to test the subset
// relation grouping folds scores on.
type assignment map[int]int

func combinedAssignment(s pairing.Score) assignment {
	m := make(assignment, len(s.X)+len(s.Y))
	for i, a := range s.X {
		m[a] = s.AX[i]
	}
	for i, a := range s.Y {
		m[a] = s.AY[i]
	}
	return m
}

// contains reports whether every (attribute, value) pair of small also
// appears in big — i.e. big's combined modality tuple is a superset of (or
// equal to) small's. Two same-level scores for the same subset S, just
// under different bipartitions, have identical assignments and so satisfy
// this relation in both directions, which is how three bipartitions of one
// subset sharing a top-ranked modality tuple collapse into a single group.
func contains(big, small assignment) bool {
	for a, v := range small {
		if bv, ok := big[a]; !ok || bv != v {
			return false
		}
	}
	return true
}

type item struct {
	score    pairing.Score
	level    int
	rank     int
	m        assignment
	consumed bool
}

// Groups collapses overlapping pairings into equivalence classes: for each
// level ascending, seed a new group from every not-yet-consumed score, fold
// in same-level scores whose combined assignment is a superset-or-equal,
// then fold in scores from every higher level whose assignment is a proper
// superset, removing them from their level's pool so they cannot seed
// their own group. `levelScores` holds each level's FULL ascending-sorted
// pairing score list (ranks are measured against the full list, which is
// the tie-break contract callers observe); only the first `firstsN` of
// each level are eligible to join or seed a group.
func Groups(levelScores map[int][]pairing.Score, firstsN int) []Group {
	levels := sortedLevelKeys(levelScores)

	pools := make(map[int][]*item, len(levels))
	for _, lvl := range levels {
		full := levelScores[lvl]
		n := len(full)
		if n > firstsN {
			n = firstsN
		}
		its := make([]*item, n)
		for i := 0; i < n; i++ {
			its[i] = &item{score: full[i], level: lvl, rank: i + 1, m: combinedAssignment(full[i])}
		}
		pools[lvl] = its
	}

	var groups []Group
	for _, lvl := range levels {
		for _, seed := range pools[lvl] {
			if seed.consumed {
				continue
			}
			seed.consumed = true
			members := []*item{seed}

			for _, other := range pools[lvl] {
				if other == seed || other.consumed {
					continue
				}
				if contains(other.m, seed.m) {
					other.consumed = true
					members = append(members, other)
				}
			}

			for _, hl := range levels {
				if hl <= lvl {
					continue
				}
				for _, other := range pools[hl] {
					if other.consumed {
						continue
					}
					if contains(other.m, seed.m) {
						other.consumed = true
						members = append(members, other)
					}
				}
			}

			groups = append(groups, newGroup(members))
		}
	}

	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Score < groups[j].Score })
	return groups
}

func newGroup(items []*item) Group {
	g := Group{Members: make([]Member, len(items))}
	best := items[0].rank
	for i, it := range items {
		g.Members[i] = Member{Score: it.score, Level: it.level, Rank: it.rank}
		if it.rank < best {
			best = it.rank
		}
	}
	g.Score = best
	return g
}

func sortedLevelKeys(levelScores map[int][]pairing.Score) []int {
	keys := make([]int, 0, len(levelScores))
	for k := range levelScores {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
