package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/avdeev/channel-scout-go/internal/constants"
	"github.com/avdeev/channel-scout-go/internal/directory"
	"github.com/avdeev/channel-scout-go/internal/domain"
	"github.com/avdeev/channel-scout-go/pkg/errors"
	"go.uber.org/zap"
)

// ErrNoInputReferences is the user-visible message for inputs without a
// single recognizable channel reference.
const ErrNoInputReferences = "no channel references found"

// ProfileCache memoizes handle resolution. Implementations report hit/miss to
// the metrics collector themselves.
type ProfileCache interface {
	GetProfile(ctx context.Context, handle string) (*domain.ChannelProfile, bool)
	SetProfile(ctx context.Context, handle string, profile *domain.ChannelProfile)
}

type Config struct {
	MinSubscribers int
	SearchTimeout  time.Duration
}

// Engine runs the full discovery pipeline: extract handles, resolve each one,
// run the strategies in fixed order, aggregate, rank and score.
type Engine struct {
	dir        directory.Directory
	profiles   ProfileCache
	strategies []Strategy
	metrics    *MetricsCollector
	cfg        Config
	logger     *zap.Logger
}

// New assembles an engine with the five standard strategies in their fixed
// execution order. expander may be nil; profiles may be nil to disable
// memoization.
func New(dir directory.Directory, profiles ProfileCache, expander KeywordExpander, metrics *MetricsCollector, cfg Config, logger *zap.Logger) *Engine {
	// Zero is a valid threshold (no filtering); only negative means unset.
	if cfg.MinSubscribers < 0 {
		cfg.MinSubscribers = constants.EngineConfig.MinSubscribers
	}
	if cfg.SearchTimeout <= 0 {
		cfg.SearchTimeout = constants.EngineConfig.SearchTimeout
	}
	if metrics == nil {
		metrics = NewMetricsCollector()
	}

	searchPacer := NewPacer(constants.EngineConfig.SearchPacingInterval)
	termPacer := NewPacer(constants.EngineConfig.TermPacingInterval)

	strategies := []Strategy{
		NewRecommendationStrategy(dir, cfg.MinSubscribers, logger),
		NewKeywordStrategy(dir, expander, searchPacer, cfg.MinSubscribers,
			constants.EngineConfig.MaxKeywords, constants.EngineConfig.KeywordSearchLimit, logger),
		NewDescriptionStrategy(dir, termPacer, cfg.MinSubscribers,
			constants.EngineConfig.MaxImportantTerms, constants.EngineConfig.KeywordSearchLimit, logger),
		NewCategoryStrategy(dir, termPacer, cfg.MinSubscribers,
			constants.EngineConfig.MaxCategoryQueries, constants.EngineConfig.KeywordSearchLimit, logger),
		NewParticipantStrategy(dir, constants.EngineConfig.ParticipantSample, logger),
	}

	return &Engine{
		dir:        dir,
		profiles:   profiles,
		strategies: strategies,
		metrics:    metrics,
		cfg:        cfg,
		logger:     logger,
	}
}

// Metrics returns a snapshot of the cumulative counters.
func (e *Engine) Metrics() domain.PerformanceMetrics {
	return e.metrics.Snapshot()
}

// ResetMetrics zeroes the cumulative counters.
func (e *Engine) ResetMetrics() {
	e.metrics.Reset()
}

// MetricsCollector exposes the collector so the cache layer can be wired to
// report hits and misses into the same counters.
func (e *Engine) MetricsCollector() *MetricsCollector {
	return e.metrics
}

// Search runs one discovery invocation over free-form text. It always returns
// a structured result: partial failures are recorded per handle, provider
// faults are absorbed, and an unexpected panic is converted into a failed
// result rather than escaping to the caller.
func (e *Engine) Search(ctx context.Context, text string) *domain.SearchResult {
	start := time.Now()
	e.metrics.SearchStarted()

	result := e.searchSafe(ctx, text)
	result.Elapsed = time.Since(start)

	if result.Success {
		e.metrics.SearchSucceeded(len(result.Candidates))
	} else {
		e.metrics.SearchFailed()
	}

	e.logger.Info("Search finished",
		zap.Bool("success", result.Success),
		zap.Int("handles", len(result.ProcessedChannels)),
		zap.Int("found", len(result.Candidates)),
		zap.Float64("quality", result.QualityScore),
		zap.Duration("elapsed", result.Elapsed),
	)
	return result
}

func (e *Engine) searchSafe(ctx context.Context, text string) (result *domain.SearchResult) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("Search panicked", zap.Any("panic", r))
			fault := errors.NewEngineError("internal error", fmt.Errorf("%v", r))
			result = &domain.SearchResult{
				Success:        false,
				Error:          fault.Error(),
				MinSubscribers: e.cfg.MinSubscribers,
			}
		}
	}()
	return e.search(ctx, text)
}

func (e *Engine) search(ctx context.Context, text string) *domain.SearchResult {
	handles := ExtractHandles(text)
	if len(handles) == 0 {
		return &domain.SearchResult{
			Success:        false,
			Error:          ErrNoInputReferences,
			MinSubscribers: e.cfg.MinSubscribers,
		}
	}

	// Deadline expiry returns whatever has been aggregated so far.
	ctx, cancel := context.WithTimeout(ctx, e.cfg.SearchTimeout)
	defer cancel()

	agg := NewAggregator(e.cfg.MinSubscribers)
	processed := make([]domain.ProcessedChannel, 0, len(handles))

	for _, handle := range handles {
		if ctx.Err() != nil {
			e.logger.Warn("Search deadline reached, returning partial results",
				zap.String("next_handle", handle),
			)
			break
		}

		profile, err := e.resolveProfile(ctx, handle)
		if err != nil {
			reason := "temporarily unavailable"
			if directory.IsNotFound(err) {
				reason = "not found"
			}
			e.logger.Warn("Handle did not resolve",
				zap.String("handle", handle),
				zap.Error(err),
			)
			processed = append(processed, domain.ProcessedChannel{
				Handle: handle,
				Found:  false,
				Error:  reason,
			})
			continue
		}

		agg.Exclude(profile.ID)
		hitCount := e.runStrategies(ctx, profile, agg)

		processed = append(processed, domain.ProcessedChannel{
			Handle:            handle,
			Found:             true,
			Title:             profile.Title,
			ParticipantsCount: profile.ParticipantsCount,
			SimilarFound:      hitCount,
		})
	}

	candidates := agg.Finalize()

	return &domain.SearchResult{
		Success:           true,
		ProcessedChannels: processed,
		Candidates:        candidates,
		MinSubscribers:    e.cfg.MinSubscribers,
		QualityScore:      QualityScore(candidates),
	}
}

func (e *Engine) runStrategies(ctx context.Context, source *domain.ChannelProfile, agg *Aggregator) int {
	total := 0
	for _, strategy := range e.strategies {
		if ctx.Err() != nil {
			break
		}

		hits, err := strategy.Discover(ctx, source)
		if err != nil {
			// Strategies absorb their own provider failures; anything that
			// still escapes is logged and skipped, never fatal.
			e.logger.Warn("Strategy failed",
				zap.String("strategy", strategy.Name()),
				zap.Int64("source_id", source.ID),
				zap.Error(err),
			)
			continue
		}

		agg.Add(hits...)
		total += len(hits)
	}
	return total
}

func (e *Engine) resolveProfile(ctx context.Context, handle string) (*domain.ChannelProfile, error) {
	if e.profiles != nil {
		if profile, found := e.profiles.GetProfile(ctx, handle); found {
			return profile, nil
		}
	}

	profile, err := e.dir.ResolveProfile(ctx, handle)
	if err != nil {
		return nil, err
	}

	if e.profiles != nil {
		e.profiles.SetProfile(ctx, handle, profile)
	}
	return profile, nil
}
