// Package tracestore persists simulator run history in a pure-Go,
// cgo-free embedded SQLite database, so a `_lastTrace` from a failing
// run survives process exit and a later invocation can look up that
// run by its RunID to replay it deterministically.
package tracestore

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/quint-lang/quint-core/internal/simulator"
	"github.com/quint-lang/quint-core/internal/value"
)

// Store wraps a SQLite database holding one row per recorded run.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the run-history database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("tracestore: %w", err)
	}
	const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id     TEXT PRIMARY KEY,
	seed       INTEGER NOT NULL,
	verdict    TEXT NOT NULL,
	trace      TEXT NOT NULL
);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("tracestore: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Record is one stored run.
type Record struct {
	RunID   string
	Seed    int64
	Verdict string
	Trace   []interface{}
}

// SaveRun persists report as a new row, keyed by its RunID.
func (s *Store) SaveRun(report simulator.Report) error {
	traceJSON, err := json.Marshal(traceToJSON(report.Trace))
	if err != nil {
		return fmt.Errorf("tracestore: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO runs (run_id, seed, verdict, trace) VALUES (?, ?, ?, ?)`,
		report.RunID.String(), report.Seed, report.Verdict.String(), string(traceJSON),
	)
	if err != nil {
		return fmt.Errorf("tracestore: %w", err)
	}
	return nil
}

// LookupByRunID retrieves a previously stored run.
func (s *Store) LookupByRunID(runID string) (*Record, error) {
	row := s.db.QueryRow(`SELECT run_id, seed, verdict, trace FROM runs WHERE run_id = ?`, runID)
	var rec Record
	var traceJSON string
	if err := row.Scan(&rec.RunID, &rec.Seed, &rec.Verdict, &traceJSON); err != nil {
		return nil, fmt.Errorf("tracestore: %w", err)
	}
	if err := json.Unmarshal([]byte(traceJSON), &rec.Trace); err != nil {
		return nil, fmt.Errorf("tracestore: %w", err)
	}
	return &rec, nil
}

// traceToJSON converts a trace of records into plain JSON-encodable
// data, since value.Record has no json.Marshaler of its own.
func traceToJSON(trace []value.Record) []interface{} {
	out := make([]interface{}, len(trace))
	for i, rec := range trace {
		out[i] = valueToJSON(rec)
	}
	return out
}

func valueToJSON(v value.Value) interface{} {
	switch t := v.(type) {
	case value.Bool:
		return t.V
	case value.Int:
		return t.V.String()
	case value.Str:
		return t.V
	case value.Tuple:
		elems := make([]interface{}, len(t.Elems))
		for i, e := range t.Elems {
			elems[i] = valueToJSON(e)
		}
		return elems
	case value.List:
		elems := t.Elems()
		out := make([]interface{}, len(elems))
		for i, e := range elems {
			out[i] = valueToJSON(e)
		}
		return out
	case value.Record:
		fields := map[string]interface{}{}
		names, _ := t.FieldNames().Enumerate()
		for _, n := range names {
			name := n.(value.Str).V
			if fv, ok := t.Field(name); ok {
				fields[name] = valueToJSON(fv)
			}
		}
		return fields
	default:
		return v.Inspect()
	}
}
