// Package eventstore adapts a SQLite table of discretized Windows security
// event log records into a record.Source. It is the second record.Source
// implementation alongside record.Table, meant for an actual
// authentication-log corpus rather than a CSV export.
package eventstore

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/agentic-research/adtree/internal/record"
)

// Fields is the fixed column set pulled from the events table: the actor,
// target, and workstation identity fields of a 4624/4625-class Windows
// logon event, plus the event's own identifiers. SystemTime is not listed
// here: it is handled specially, binned into an hour-of-day bucket rather
// than used verbatim (a raw timestamp has arity == N and carries no
// co-occurrence signal).
var Fields = []string{
	"EventID",
	"SubjectUserSid",
	"SubjectUserName",
	"SubjectDomainName",
	"TargetUserSid",
	"TargetUserName",
	"TargetDomainName",
	"WorkstationName",
	"IpAddress",
	"LogonType",
	"LogonProcessName",
}

// TimeField is the column binned into an hour-of-day category and appended
// after Fields as the last attribute.
const TimeField = "SystemTime"

// Source is a record.Source backed by a SQLite table. Like record.Table, it
// loads once into memory (the AD-tree build is a single full scan regardless
// of source) and is immutable thereafter.
type Source struct {
	table   *record.Table
	mapping *record.ColumnMapping
}

// Mapping returns the bijective value<->string translation table derived
// from the event rows, for rendering facade results back into names.
func (s *Source) Mapping() *record.ColumnMapping { return s.mapping }

func (s *Source) D() int             { return s.table.D() }
func (s *Source) Arity(j int) int    { return s.table.Arity(j) }
func (s *Source) Value(i, j int) int { return s.table.Value(i, j) }
func (s *Source) N() int             { return s.table.N() }

// Load reads every row of the `events` table (in EventRecordID order, for a
// deterministic, reproducible AD-tree layout) from the SQLite database at
// dbPath, discretizes SystemTime into an hour-of-day bucket, and maps every
// other field's distinct values to dense integers in first-seen order
// (the same bijection contract record.LoadCSV uses).
func Load(dbPath string) (*Source, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("eventstore: open %s: %w", dbPath, err)
	}
	defer func() { _ = db.Close() }()

	query := fmt.Sprintf(
		"SELECT %s, %s FROM events ORDER BY EventRecordID",
		quoteList(Fields), TimeField,
	)
	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("eventstore: query events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	D := len(Fields) + 1 // + the binned time column
	toValue := make([]map[string]int, D)
	toString := make([]map[int]string, D)
	next := make([]int, D)
	for j := 0; j < D; j++ {
		toValue[j] = make(map[string]int)
		toString[j] = make(map[int]string)
		next[j] = 1
	}

	var matrix [][]int
	scanDest := make([]any, D)
	raw := make([]sql.NullString, D)
	for i := range raw {
		scanDest[i] = &raw[i]
	}

	for rows.Next() {
		if err := rows.Scan(scanDest...); err != nil {
			return nil, fmt.Errorf("eventstore: scan row: %w", err)
		}
		row := make([]int, D)
		for j := 0; j < D-1; j++ {
			row[j] = intern(raw[j].String, toValue[j], toString[j], &next[j])
		}
		row[D-1] = intern(hourBucket(raw[D-1].String), toValue[D-1], toString[D-1], &next[D-1])
		matrix = append(matrix, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("eventstore: iterate rows: %w", err)
	}

	arities := make([]int, D)
	for j := 0; j < D; j++ {
		arities[j] = len(toValue[j])
		if arities[j] == 0 {
			arities[j] = 1
		}
	}

	table, err := record.New(arities, matrix)
	if err != nil {
		return nil, fmt.Errorf("eventstore: %w", err)
	}

	names := append(append([]string(nil), Fields...), TimeField+"_hour")
	return &Source{
		table: table,
		mapping: &record.ColumnMapping{
			Names:    names,
			ToValue:  toValue,
			ToString: toString,
		},
	}, nil
}

func intern(raw string, toValue map[string]int, toString map[int]string, next *int) int {
	if v, ok := toValue[raw]; ok {
		return v
	}
	v := *next
	toValue[raw] = v
	toString[v] = raw
	*next++
	return v
}

// hourBucket discretizes an RFC 3339 timestamp into one of 24 hour-of-day
// categories. A value that fails to parse falls back to a single "unknown"
// bucket rather than aborting the whole load.
func hourBucket(ts string) string {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return "unknown"
	}
	return fmt.Sprintf("h%02d", t.Hour())
}

// quoteList joins fields for a SELECT clause, preserving order: scanDest
// depends on this matching Fields' index-for-index.
func quoteList(fields []string) string {
	b := ""
	for i, f := range fields {
		if i > 0 {
			b += ", "
		}
		b += f
	}
	return b
}
