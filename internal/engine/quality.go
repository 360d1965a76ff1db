package engine

import "github.com/avdeev/channel-scout-go/internal/domain"

const popularityThreshold = 10000

// QualityScore summarizes a result set in [0,1]: 0.3 × verified ratio +
// 0.4 × popular ratio (over 10k subscribers) + 0.3 × mean similarity score.
// An empty set scores exactly 0.
func QualityScore(records []*domain.CandidateRecord) float64 {
	if len(records) == 0 {
		return 0.0
	}

	verified := 0
	popular := 0
	scoreSum := 0.0

	for _, record := range records {
		if record.Profile != nil && record.Profile.Verified {
			verified++
		}
		if record.ParticipantsCount > popularityThreshold {
			popular++
		}
		scoreSum += record.SimilarityScore
	}

	n := float64(len(records))
	return 0.3*(float64(verified)/n) + 0.4*(float64(popular)/n) + 0.3*(scoreSum/n)
}
