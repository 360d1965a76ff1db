package engine

import (
	"context"

	"github.com/avdeev/channel-scout-go/internal/directory"
	"github.com/avdeev/channel-scout-go/internal/domain"
	"go.uber.org/zap"
)

const descriptionScore = 0.5

// DescriptionStrategy searches on the most important terms of the source
// description. It overlaps with the keyword strategy on purpose: the lower
// score means it only surfaces channels the others missed.
type DescriptionStrategy struct {
	dir            directory.Directory
	pacer          *Pacer
	minSubscribers int
	maxTerms       int
	searchLimit    int
	logger         *zap.Logger
}

func NewDescriptionStrategy(dir directory.Directory, pacer *Pacer, minSubscribers, maxTerms, searchLimit int, logger *zap.Logger) *DescriptionStrategy {
	return &DescriptionStrategy{
		dir:            dir,
		pacer:          pacer,
		minSubscribers: minSubscribers,
		maxTerms:       maxTerms,
		searchLimit:    searchLimit,
		logger:         logger,
	}
}

func (s *DescriptionStrategy) Name() string {
	return MethodDescription
}

func (s *DescriptionStrategy) Discover(ctx context.Context, source *domain.ChannelProfile) ([]Hit, error) {
	terms := extractTerms(source.About+" "+source.Title, s.maxTerms)
	if len(terms) == 0 {
		return nil, nil
	}

	hits := make([]Hit, 0)
	for _, term := range terms {
		if err := s.pacer.Wait(ctx); err != nil {
			return hits, nil
		}

		channels, err := s.dir.SearchByKeyword(ctx, term, s.searchLimit)
		if err != nil {
			s.logger.Warn("Description term search produced nothing",
				zap.String("term", term),
				zap.Error(err),
			)
			continue
		}

		hits = append(hits, filterHits(channels, source, s.minSubscribers, descriptionScore, MethodDescription)...)
	}

	s.logger.Debug("Description strategy finished",
		zap.Int64("source_id", source.ID),
		zap.Int("terms", len(terms)),
		zap.Int("hits", len(hits)),
	)
	return hits, nil
}
