package engine

import (
	"context"

	"github.com/avdeev/channel-scout-go/internal/domain"
)

// Method tags, in the fixed execution order of the strategies.
const (
	MethodRecommendation = "recommendation"
	MethodKeyword        = "keyword"
	MethodDescription    = "description"
	MethodCategory       = "category"
	MethodParticipants   = "participants"
)

// Hit is one scored candidate produced by a strategy.
type Hit struct {
	Profile *domain.ChannelProfile
	Score   float64
	Method  string
}

// Strategy proposes similar channels for a resolved source profile. Each
// strategy is independent, excludes the source from its own output, and
// absorbs transient directory failures instead of propagating them.
type Strategy interface {
	Name() string
	Discover(ctx context.Context, source *domain.ChannelProfile) ([]Hit, error)
}

// filterHits drops the source channel and candidates below the subscriber
// threshold, producing hits with the given score and method tag.
func filterHits(channels []*domain.ChannelProfile, source *domain.ChannelProfile, minSubscribers int, score float64, method string) []Hit {
	hits := make([]Hit, 0, len(channels))
	for _, ch := range channels {
		if ch == nil || ch.ID == source.ID {
			continue
		}
		if ch.ParticipantsCount < minSubscribers {
			continue
		}
		hits = append(hits, Hit{Profile: ch, Score: score, Method: method})
	}
	return hits
}
