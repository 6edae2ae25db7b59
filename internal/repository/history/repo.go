// Package history appends and lists query-history records.
package history

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/halcyon-cloud/contactdex/internal/domain"
)

// Repo implements the append-only query history log.
type Repo struct {
	db *sql.DB
}

// New creates a history repository.
func New(database *sql.DB) *Repo {
	return &Repo{db: database}
}

// Append records one executed query. Entries are never mutated or deleted.
func (r *Repo) Append(ctx context.Context, queryText string, resultsCount, executionTimeMs int) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO query_history (query_text, results_count, execution_time_ms) VALUES (?, ?, ?)",
		queryText, resultsCount, executionTimeMs,
	)
	if err != nil {
		return fmt.Errorf("append query history: %w", err)
	}
	return nil
}

// List returns history entries newest first.
func (r *Repo) List(ctx context.Context, offset, limit int) ([]domain.QueryHistoryEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, query_text, results_count, execution_time_ms, created_at
		FROM query_history ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list query history: %w", err)
	}
	defer rows.Close()

	var entries []domain.QueryHistoryEntry
	for rows.Next() {
		var e domain.QueryHistoryEntry
		if err := rows.Scan(&e.ID, &e.QueryText, &e.ResultsCount, &e.ExecutionTimeMs, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan query history: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
