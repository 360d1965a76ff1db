package engine

import (
	"context"

	"github.com/avdeev/channel-scout-go/internal/directory"
	"github.com/avdeev/channel-scout-go/internal/domain"
	"go.uber.org/zap"
)

const recommendationScore = 0.8

// RecommendationStrategy uses the provider's native similar-channel feature.
// It is the cheapest and highest-precision source, hence the top raw score.
type RecommendationStrategy struct {
	dir            directory.Directory
	minSubscribers int
	logger         *zap.Logger
}

func NewRecommendationStrategy(dir directory.Directory, minSubscribers int, logger *zap.Logger) *RecommendationStrategy {
	return &RecommendationStrategy{
		dir:            dir,
		minSubscribers: minSubscribers,
		logger:         logger,
	}
}

func (s *RecommendationStrategy) Name() string {
	return MethodRecommendation
}

func (s *RecommendationStrategy) Discover(ctx context.Context, source *domain.ChannelProfile) ([]Hit, error) {
	channels, err := s.dir.RecommendedChannels(ctx, source)
	if err != nil {
		s.logger.Warn("Recommendations call produced nothing",
			zap.Int64("source_id", source.ID),
			zap.Error(err),
		)
		return nil, nil
	}

	hits := filterHits(channels, source, s.minSubscribers, recommendationScore, MethodRecommendation)

	s.logger.Debug("Recommendation strategy finished",
		zap.Int64("source_id", source.ID),
		zap.Int("raw", len(channels)),
		zap.Int("hits", len(hits)),
	)
	return hits, nil
}
