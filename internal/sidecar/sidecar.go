// Package sidecar persists a record.Table and its column mapping into a
// small SQLite file between the CLI's `build` and `mine` steps: a single
// schema, a JSON payload column, and PRAGMA tuning for a bulk one-shot
// write (journal_mode=MEMORY, synchronous=OFF) since the sidecar is never
// concurrently written.
package sidecar

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/agentic-research/adtree/internal/record"
)

// payload is the JSON-serialized form of a record.Table plus its
// ColumnMapping, round-tripped through the sidecar's single `dataset` row.
type payload struct {
	Arities  []int             `json:"arities"`
	Rows     [][]int           `json:"rows"`
	Names    []string          `json:"names"`
	ToValue  []map[string]int  `json:"to_value"`
	ToString []map[int]string  `json:"to_string"`
}

// Save writes table and mapping into the SQLite file at path (created if
// absent), replacing the dataset row a previous Save left there. The file
// itself is not removed first; the build command deletes it beforehand.
func Save(path string, table *record.Table, mapping *record.ColumnMapping) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("sidecar: open %s: %w", path, err)
	}
	defer func() { _ = db.Close() }()

	if _, err := db.Exec("PRAGMA journal_mode = MEMORY"); err != nil {
		return fmt.Errorf("sidecar: pragma journal_mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA synchronous = OFF"); err != nil {
		return fmt.Errorf("sidecar: pragma synchronous: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS dataset (id INTEGER PRIMARY KEY, payload JSON NOT NULL)`); err != nil {
		return fmt.Errorf("sidecar: create schema: %w", err)
	}

	rows := make([][]int, table.N())
	d := table.D()
	for i := range rows {
		row := make([]int, d)
		for j := 1; j <= d; j++ {
			row[j-1] = table.Value(i, j)
		}
		rows[i] = row
	}
	arities := make([]int, d)
	for j := 1; j <= d; j++ {
		arities[j-1] = table.Arity(j)
	}

	p := payload{Arities: arities, Rows: rows}
	if mapping != nil {
		p.Names = mapping.Names
		p.ToValue = mapping.ToValue
		p.ToString = mapping.ToString
	}
	blob, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("sidecar: marshal payload: %w", err)
	}

	if _, err := db.Exec(`DELETE FROM dataset`); err != nil {
		return fmt.Errorf("sidecar: clear dataset: %w", err)
	}
	if _, err := db.Exec(`INSERT INTO dataset (id, payload) VALUES (1, ?)`, string(blob)); err != nil {
		return fmt.Errorf("sidecar: insert payload: %w", err)
	}
	return nil
}

// Load reads back the record.Table and ColumnMapping a prior Save wrote.
func Load(path string) (*record.Table, *record.ColumnMapping, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, nil, fmt.Errorf("sidecar: open %s: %w", path, err)
	}
	defer func() { _ = db.Close() }()

	var blob string
	if err := db.QueryRow(`SELECT payload FROM dataset WHERE id = 1`).Scan(&blob); err != nil {
		return nil, nil, fmt.Errorf("sidecar: read dataset from %s: %w", path, err)
	}
	var p payload
	if err := json.Unmarshal([]byte(blob), &p); err != nil {
		return nil, nil, fmt.Errorf("sidecar: unmarshal payload: %w", err)
	}

	table, err := record.New(p.Arities, p.Rows)
	if err != nil {
		return nil, nil, fmt.Errorf("sidecar: %w", err)
	}
	var mapping *record.ColumnMapping
	if len(p.Names) > 0 {
		mapping = &record.ColumnMapping{Names: p.Names, ToValue: p.ToValue, ToString: p.ToString}
	}
	return table, mapping, nil
}
