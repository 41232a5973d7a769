// Package record holds the immutable symbolic dataset the AD-tree is built
// over: an arity per column and a row-major matrix of dense positive
// integers. Columns never change once a Table is constructed.
package record

import "fmt"

// Source is the capability every record-bearing object exposes to the core:
// arity(j), value(i,j), and N. Table is the in-memory implementation built
// from the CSV ingestion contract; eventstore.Source is the adapter over an
// external Windows-event log store. The core only ever depends on this
// interface, never on a concrete loader.
type Source interface {
	// D returns the number of attributes (columns).
	D() int
	// Arity returns the number of distinct values attribute j (1-indexed) can take.
	Arity(j int) int
	// Value returns the value of attribute j (1-indexed) for record i (0-indexed).
	// The returned value is in {1,...,Arity(j)}.
	Value(i, j int) int
	// N returns the number of records.
	N() int
}

// ConstructionError reports a malformed input table. It is fatal: no
// partial table is ever surfaced.
type ConstructionError struct {
	Reason string
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("record: construction error: %s", e.Reason)
}

// Table is the in-memory symbolic record table. Once built it is read-only:
// arities and rows never change.
type Table struct {
	arities []int   // arities[j-1] = arity of attribute j
	rows    [][]int // rows[i][j-1] = value of attribute j for record i
}

// New validates and constructs a Table from a dense row-major matrix.
// Every arity must be >= 1 and every value must be in {1,...,arity(j)}; 0 is
// reserved and never a valid value. Saturation (N >= 2^63) is checked by the
// caller before rows are ever materialized in Go, since a slice index would
// already have overflowed well before that point; this constructor enforces
// the per-column arity ceiling of 2^31.
func New(arities []int, rows [][]int) (*Table, error) {
	if len(arities) == 0 {
		return nil, &ConstructionError{Reason: "empty header: at least one attribute required"}
	}
	for j, a := range arities {
		if a < 1 {
			return nil, &ConstructionError{Reason: fmt.Sprintf("attribute %d: non-positive arity %d", j+1, a)}
		}
		if a >= (1 << 31) {
			return nil, &ConstructionError{Reason: fmt.Sprintf("attribute %d: arity %d saturates the 32-bit value space", j+1, a)}
		}
	}
	D := len(arities)
	for i, row := range rows {
		if len(row) != D {
			return nil, &ConstructionError{Reason: fmt.Sprintf("record %d: row length %d != %d attributes", i, len(row), D)}
		}
		for j, v := range row {
			if v <= 0 {
				return nil, &ConstructionError{Reason: fmt.Sprintf("record %d attribute %d: non-positive value %d", i, j+1, v)}
			}
			if v > arities[j] {
				return nil, &ConstructionError{Reason: fmt.Sprintf("record %d attribute %d: value %d exceeds arity %d", i, j+1, v, arities[j])}
			}
		}
	}
	return &Table{arities: append([]int(nil), arities...), rows: rows}, nil
}

func (t *Table) D() int { return len(t.arities) }

func (t *Table) Arity(j int) int {
	if j < 1 || j > len(t.arities) {
		panic(fmt.Sprintf("record: arity: attribute %d out of range [1,%d]", j, len(t.arities)))
	}
	return t.arities[j-1]
}

func (t *Table) Value(i, j int) int {
	if i < 0 || i >= len(t.rows) {
		panic(fmt.Sprintf("record: value: row %d out of range [0,%d)", i, len(t.rows)))
	}
	if j < 1 || j > len(t.arities) {
		panic(fmt.Sprintf("record: value: attribute %d out of range [1,%d]", j, len(t.arities)))
	}
	return t.rows[i][j-1]
}

func (t *Table) N() int { return len(t.rows) }
