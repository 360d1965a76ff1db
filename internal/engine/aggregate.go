package engine

import (
	"sort"

	"github.com/avdeev/channel-scout-go/internal/domain"
)

// Aggregator merges strategy hits from one search invocation. Deduplication
// key is the channel's numeric ID: repeated hits keep the maximum score and
// the union of method tags in first-seen order.
type Aggregator struct {
	minSubscribers int
	records        map[int64]*domain.CandidateRecord
	order          []int64
	excluded       map[int64]struct{}
}

func NewAggregator(minSubscribers int) *Aggregator {
	return &Aggregator{
		minSubscribers: minSubscribers,
		records:        make(map[int64]*domain.CandidateRecord),
		excluded:       make(map[int64]struct{}),
	}
}

// Exclude marks a channel (typically a source) as never eligible.
func (a *Aggregator) Exclude(channelID int64) {
	a.excluded[channelID] = struct{}{}
}

// Add folds hits into the working set.
func (a *Aggregator) Add(hits ...Hit) {
	for _, hit := range hits {
		if hit.Profile == nil {
			continue
		}
		id := hit.Profile.ID
		if _, skip := a.excluded[id]; skip {
			continue
		}

		if record, exists := a.records[id]; exists {
			record.Merge(hit.Score, hit.Method)
			continue
		}

		a.records[id] = &domain.CandidateRecord{
			Profile:           hit.Profile,
			SimilarityScore:   hit.Score,
			Methods:           []string{hit.Method},
			ParticipantsCount: hit.Profile.ParticipantsCount,
		}
		a.order = append(a.order, id)
	}
}

// Finalize re-applies the subscriber threshold and returns the merged records
// sorted descending by (similarity score, participant count); ties beyond
// that keep discovery order. The full list is returned; presentation
// truncation is the caller's concern.
func (a *Aggregator) Finalize() []*domain.CandidateRecord {
	result := make([]*domain.CandidateRecord, 0, len(a.order))
	for _, id := range a.order {
		record := a.records[id]
		if record.ParticipantsCount < a.minSubscribers {
			continue
		}
		result = append(result, record)
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].SimilarityScore != result[j].SimilarityScore {
			return result[i].SimilarityScore > result[j].SimilarityScore
		}
		return result[i].ParticipantsCount > result[j].ParticipantsCount
	})

	return result
}
