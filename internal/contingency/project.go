package contingency

// Positions returns, for each attribute in sub (a subset of full, in any
// order), its index within full. Both C5 and C6 use this to split a joint
// modality tuple over S into its X and Y sub-tuples without resorting
// attributes.
func Positions(full, sub []int) []int {
	index := make(map[int]int, len(full))
	for i, a := range full {
		index[a] = i
	}
	positions := make([]int, len(sub))
	for i, a := range sub {
		positions[i] = index[a]
	}
	return positions
}

// Pick projects a modality tuple (in `full` order) onto the given
// positions, returning the sub-tuple in the corresponding sub order.
func Pick(vals []int, positions []int) []int {
	out := make([]int, len(positions))
	for i, p := range positions {
		out[i] = vals[p]
	}
	return out
}
