package engine

import (
	"context"

	"github.com/avdeev/channel-scout-go/internal/directory"
	"github.com/avdeev/channel-scout-go/internal/domain"
	"go.uber.org/zap"
)

const keywordScore = 0.6

// KeywordExpander proposes additional search terms for a source channel.
// Implementations may call an LLM; failures must degrade to the static table.
type KeywordExpander interface {
	Expand(ctx context.Context, title string, keywords []string) ([]string, error)
}

// KeywordStrategy derives keywords from the source title and description,
// expands them through the synonym table (and the optional expander), and
// issues one paced search per keyword.
type KeywordStrategy struct {
	dir            directory.Directory
	expander       KeywordExpander
	pacer          *Pacer
	minSubscribers int
	maxKeywords    int
	searchLimit    int
	logger         *zap.Logger
}

func NewKeywordStrategy(dir directory.Directory, expander KeywordExpander, pacer *Pacer, minSubscribers, maxKeywords, searchLimit int, logger *zap.Logger) *KeywordStrategy {
	return &KeywordStrategy{
		dir:            dir,
		expander:       expander,
		pacer:          pacer,
		minSubscribers: minSubscribers,
		maxKeywords:    maxKeywords,
		searchLimit:    searchLimit,
		logger:         logger,
	}
}

func (s *KeywordStrategy) Name() string {
	return MethodKeyword
}

func (s *KeywordStrategy) Discover(ctx context.Context, source *domain.ChannelProfile) ([]Hit, error) {
	keywords := s.buildKeywords(ctx, source)
	if len(keywords) == 0 {
		s.logger.Debug("No keywords derivable from source",
			zap.Int64("source_id", source.ID),
		)
		return nil, nil
	}

	hits := make([]Hit, 0)
	for _, keyword := range keywords {
		if err := s.pacer.Wait(ctx); err != nil {
			return hits, nil
		}

		channels, err := s.dir.SearchByKeyword(ctx, keyword, s.searchLimit)
		if err != nil {
			s.logger.Warn("Keyword search produced nothing",
				zap.String("keyword", keyword),
				zap.Error(err),
			)
			continue
		}

		matched := filterHits(channels, source, s.minSubscribers, keywordScore, MethodKeyword)
		s.logger.Debug("Keyword search finished",
			zap.String("keyword", keyword),
			zap.Int("hits", len(matched)),
		)
		hits = append(hits, matched...)
	}

	return hits, nil
}

// buildKeywords collects significant terms from title+description, lets the
// optional expander contribute, then applies the synonym table and the hard
// keyword cap.
func (s *KeywordStrategy) buildKeywords(ctx context.Context, source *domain.ChannelProfile) []string {
	terms := extractTerms(source.Title+" "+source.About, s.maxKeywords)

	if s.expander != nil && len(terms) > 0 {
		extra, err := s.expander.Expand(ctx, source.Title, terms)
		if err != nil {
			s.logger.Debug("Keyword expander unavailable, using static table only", zap.Error(err))
		} else {
			terms = append(terms, extra...)
		}
	}

	return expandTerms(terms, s.maxKeywords)
}
