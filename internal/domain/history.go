package domain

import "time"

// SearchLogEntry is one persisted row of the search history.
type SearchLogEntry struct {
	ChatID       int64
	Query        string
	HandleCount  int
	ResultCount  int
	QualityScore float64
	Elapsed      time.Duration
	Success      bool
}
