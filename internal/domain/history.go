package domain

import "time"

// QueryHistoryEntry is one append-only record of an executed search.
type QueryHistoryEntry struct {
	ID              int64
	QueryText       string
	ResultsCount    int
	ExecutionTimeMs int
	CreatedAt       time.Time
}
