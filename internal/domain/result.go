package domain

import "time"

// ProcessedChannel summarizes how a single extracted handle fared.
type ProcessedChannel struct {
	Handle            string `json:"handle"`
	Found             bool   `json:"found"`
	Title             string `json:"title,omitempty"`
	ParticipantsCount int    `json:"participants_count,omitempty"`
	SimilarFound      int    `json:"similar_found,omitempty"`
	Error             string `json:"error,omitempty"`
}

// SearchResult is the outcome of one search invocation. Immutable once
// returned to the caller.
type SearchResult struct {
	Success           bool               `json:"success"`
	Error             string             `json:"error,omitempty"`
	ProcessedChannels []ProcessedChannel `json:"processed_channels"`
	Candidates        []*CandidateRecord `json:"candidates"`
	MinSubscribers    int                `json:"min_subscribers"`
	Elapsed           time.Duration      `json:"elapsed"`
	QualityScore      float64            `json:"quality_score"`
}

// TotalFound returns the size of the final ranked candidate list.
func (r *SearchResult) TotalFound() int {
	if r == nil {
		return 0
	}
	return len(r.Candidates)
}
