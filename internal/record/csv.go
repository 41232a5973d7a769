package record

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
)

// ColumnMapping is the bijective value<->string translation exposed to
// callers so result reports can be rendered back into human-readable
// category names.
type ColumnMapping struct {
	Names    []string          // attribute names, in column order
	ToValue  []map[string]int  // ToValue[j-1][raw] = dense integer value
	ToString []map[int]string // ToString[j-1][value] = raw string
}

// Value returns the raw string for attribute j (1-indexed), value v.
func (m *ColumnMapping) Value(j, v int) (string, bool) {
	s, ok := m.ToString[j-1][v]
	return s, ok
}

// LoadCSV implements a two-step file ingestion contract: the first line is
// a header of D comma-separated attribute names; subsequent lines are D
// comma-separated raw category strings. Each column's distinct string set
// is enumerated and mapped bijectively to {1,...,arity(j)} in first-seen
// order.
func LoadCSV(path string) (*Table, *ColumnMapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("record: open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	return loadCSV(f)
}

func loadCSV(r io.Reader) (*Table, *ColumnMapping, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("record: read header: %w", err)
	}
	if len(header) == 0 {
		return nil, nil, &ConstructionError{Reason: "empty header"}
	}
	D := len(header)

	toValue := make([]map[string]int, D)
	toString := make([]map[int]string, D)
	next := make([]int, D)
	for j := 0; j < D; j++ {
		toValue[j] = make(map[string]int)
		toString[j] = make(map[int]string)
		next[j] = 1
	}

	var rows [][]int
	lineNo := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("record: read row %d: %w", lineNo, err)
		}
		lineNo++
		if len(rec) != D {
			return nil, nil, &ConstructionError{Reason: fmt.Sprintf("row %d: %d fields != %d header fields", lineNo, len(rec), D)}
		}
		row := make([]int, D)
		for j, raw := range rec {
			v, ok := toValue[j][raw]
			if !ok {
				v = next[j]
				toValue[j][raw] = v
				toString[j][v] = raw
				next[j]++
			}
			row[j] = v
		}
		rows = append(rows, row)
	}

	arities := make([]int, D)
	for j := 0; j < D; j++ {
		arities[j] = len(toValue[j])
		if arities[j] == 0 {
			// A column with zero observed values still needs arity >= 1;
			// this only happens on an all-header, zero-row input.
			arities[j] = 1
		}
	}

	table, err := New(arities, rows)
	if err != nil {
		return nil, nil, err
	}

	mapping := &ColumnMapping{
		Names:    append([]string(nil), header...),
		ToValue:  toValue,
		ToString: toString,
	}
	return table, mapping, nil
}

// SortedNames returns the mapping's attribute names sorted for deterministic
// display.
func (m *ColumnMapping) SortedNames() []string {
	out := append([]string(nil), m.Names...)
	sort.Strings(out)
	return out
}
