package engine

import (
	"context"

	"github.com/avdeev/channel-scout-go/internal/directory"
	"github.com/avdeev/channel-scout-go/internal/domain"
	"go.uber.org/zap"
)

const categoryScore = 0.7

// CategoryStrategy classifies the source into static categories and searches
// with each category's canonical queries.
type CategoryStrategy struct {
	dir                directory.Directory
	pacer              *Pacer
	minSubscribers     int
	queriesPerCategory int
	searchLimit        int
	logger             *zap.Logger
}

func NewCategoryStrategy(dir directory.Directory, pacer *Pacer, minSubscribers, queriesPerCategory, searchLimit int, logger *zap.Logger) *CategoryStrategy {
	return &CategoryStrategy{
		dir:                dir,
		pacer:              pacer,
		minSubscribers:     minSubscribers,
		queriesPerCategory: queriesPerCategory,
		searchLimit:        searchLimit,
		logger:             logger,
	}
}

func (s *CategoryStrategy) Name() string {
	return MethodCategory
}

func (s *CategoryStrategy) Discover(ctx context.Context, source *domain.ChannelProfile) ([]Hit, error) {
	matched := classifyCategories(source.Title, source.About)

	names := make([]string, len(matched))
	for i, cat := range matched {
		names[i] = cat.name
	}
	s.logger.Debug("Source classified",
		zap.Int64("source_id", source.ID),
		zap.Strings("categories", names),
	)

	hits := make([]Hit, 0)
	for _, cat := range matched {
		queries := cat.queries
		if len(queries) > s.queriesPerCategory {
			queries = queries[:s.queriesPerCategory]
		}

		for _, query := range queries {
			if err := s.pacer.Wait(ctx); err != nil {
				return hits, nil
			}

			channels, err := s.dir.SearchByKeyword(ctx, query, s.searchLimit)
			if err != nil {
				s.logger.Warn("Category query produced nothing",
					zap.String("category", cat.name),
					zap.String("query", query),
					zap.Error(err),
				)
				continue
			}

			hits = append(hits, filterHits(channels, source, s.minSubscribers, categoryScore, MethodCategory)...)
		}
	}

	return hits, nil
}
