package store

import (
	"context"
	"fmt"
)

// QueryLogEntry records one executed stream query.
type QueryLogEntry struct {
	Seq       int64  // Assigned by the store on write
	ID        string // Query ID (UUIDv7)
	Entity    string
	Dialect   string
	Optimizer string
	SQL       string
	Params    []any
	Pushed    int // Operations translated to SQL
	Residual  int // Operations evaluated in-process
	Rows      int // Rows returned to the caller
}

// WriteQueryLog appends an entry and returns its seq.
// Uses ON CONFLICT(id) DO NOTHING for idempotency: writing the same ID
// twice keeps the first entry and returns its seq.
func (s *Store) WriteQueryLog(ctx context.Context, e QueryLogEntry) (int64, error) {
	params, err := marshalParams(e.Params)
	if err != nil {
		return 0, fmt.Errorf("write query log: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO query_log
		(id, entity, dialect, optimizer, sql_text, params, pushed_count, residual_count, row_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		e.ID,
		e.Entity,
		e.Dialect,
		e.Optimizer,
		e.SQL,
		params,
		e.Pushed,
		e.Residual,
		e.Rows,
	)
	if err != nil {
		return 0, fmt.Errorf("write query log: %w", err)
	}

	var seq int64
	if err := s.db.QueryRowContext(ctx, `SELECT seq FROM query_log WHERE id = ?`, e.ID).Scan(&seq); err != nil {
		return 0, fmt.Errorf("read query log seq: %w", err)
	}
	return seq, nil
}

// ReadQueryLog returns log entries for entity, or for every entity when
// entity is empty. Results are ordered by seq ASC, id ASC COLLATE BINARY.
//
// Returns an empty slice (not nil) if the log has no matching entries.
func (s *Store) ReadQueryLog(ctx context.Context, entity string) ([]QueryLogEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, id, entity, dialect, optimizer, sql_text, params, pushed_count, residual_count, row_count
		FROM query_log
		WHERE ? = '' OR entity = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, entity, entity)
	if err != nil {
		return nil, fmt.Errorf("query log: %w", err)
	}
	defer rows.Close()

	entries := []QueryLogEntry{}
	for rows.Next() {
		var e QueryLogEntry
		var params string
		if err := rows.Scan(&e.Seq, &e.ID, &e.Entity, &e.Dialect, &e.Optimizer, &e.SQL, &params, &e.Pushed, &e.Residual, &e.Rows); err != nil {
			return nil, fmt.Errorf("scan query log: %w", err)
		}
		if e.Params, err = unmarshalParams(params); err != nil {
			return nil, fmt.Errorf("entry %s: %w", e.ID, err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate query log: %w", err)
	}
	return entries, nil
}
