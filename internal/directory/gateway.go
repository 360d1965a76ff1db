package directory

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/avdeev/channel-scout-go/internal/constants"
	"github.com/avdeev/channel-scout-go/internal/domain"
	"github.com/avdeev/channel-scout-go/internal/service/cache"
	"github.com/avdeev/channel-scout-go/internal/tgate"
	"github.com/avdeev/channel-scout-go/pkg/errors"
	"go.uber.org/zap"
)

// GatewayDirectory implements Directory over the MTProto session gateway with
// retry, exponential backoff and a failure-count circuit breaker. When the
// gateway is unreachable, profile resolution falls back to scraping the public
// t.me preview page.
type GatewayDirectory struct {
	client           *tgate.Client
	preview          *PreviewResolver
	cache            *cache.Service
	logger           *zap.Logger
	failureCount     int
	failureMu        sync.Mutex
	circuitOpenUntil *time.Time
	circuitMu        sync.RWMutex
}

func NewGatewayDirectory(client *tgate.Client, preview *PreviewResolver, cacheSvc *cache.Service, logger *zap.Logger) *GatewayDirectory {
	return &GatewayDirectory{
		client:  client,
		preview: preview,
		cache:   cacheSvc,
		logger:  logger,
	}
}

func (g *GatewayDirectory) ResolveProfile(ctx context.Context, handle string) (*domain.ChannelProfile, error) {
	handle = strings.TrimPrefix(strings.TrimSpace(handle), "@")
	if handle == "" {
		return nil, newError(KindNotFound, "resolve", nil)
	}

	raw, err := withRetry(g, ctx, "resolve", func() (*tgate.ChannelRaw, error) {
		return g.client.Resolve(ctx, handle)
	})
	if err != nil {
		dirErr := g.classify("resolve", err)
		if dirErr.Kind == KindTransient && g.preview != nil {
			g.logger.Warn("Gateway resolve failed, using preview fallback",
				zap.String("handle", handle),
				zap.Error(err),
			)
			if profile, pErr := g.preview.Resolve(ctx, handle); pErr == nil {
				return profile, nil
			}
		}
		return nil, dirErr
	}
	if raw == nil {
		return nil, newError(KindNotFound, "resolve", nil)
	}

	return mapChannel(raw), nil
}

func (g *GatewayDirectory) RecommendedChannels(ctx context.Context, source *domain.ChannelProfile) ([]*domain.ChannelProfile, error) {
	cacheKey := recommendationsKey(source.ID)
	if g.cache != nil {
		if cached, found := g.cache.GetChannels(ctx, cacheKey); found {
			return cached, nil
		}
	}

	raws, err := withRetry(g, ctx, "recommendations", func() ([]tgate.ChannelRaw, error) {
		return g.client.Recommendations(ctx, source.ID)
	})
	if err != nil {
		return nil, g.classify("recommendations", err)
	}

	channels := mapChannels(raws)
	if g.cache != nil {
		g.cache.SetChannels(ctx, cacheKey, channels, constants.CacheTTL.Recommendations)
	}
	return channels, nil
}

func (g *GatewayDirectory) SearchByKeyword(ctx context.Context, term string, limit int) ([]*domain.ChannelProfile, error) {
	cacheKey := searchKey(term, limit)
	if g.cache != nil {
		if cached, found := g.cache.GetChannels(ctx, cacheKey); found {
			return cached, nil
		}
	}

	raws, err := withRetry(g, ctx, "search", func() ([]tgate.ChannelRaw, error) {
		return g.client.Search(ctx, term, limit)
	})
	if err != nil {
		return nil, g.classify("search", err)
	}

	channels := mapChannels(raws)
	if g.cache != nil {
		g.cache.SetChannels(ctx, cacheKey, channels, constants.CacheTTL.KeywordSearch)
	}
	return channels, nil
}

func (g *GatewayDirectory) SampleParticipants(ctx context.Context, source *domain.ChannelProfile, limit int) ([]int64, error) {
	raws, err := withRetry(g, ctx, "participants", func() ([]tgate.ParticipantRaw, error) {
		return g.client.Participants(ctx, source.ID, limit)
	})
	if err != nil {
		return nil, g.classify("participants", err)
	}

	userIDs := make([]int64, 0, len(raws))
	for _, p := range raws {
		if p.Bot {
			continue
		}
		userIDs = append(userIDs, p.UserID)
	}
	return userIDs, nil
}

// withRetry runs call with backoff, tracking consecutive failures for the
// circuit breaker. Client errors (4xx) are not retried.
func withRetry[T any](g *GatewayDirectory, ctx context.Context, operation string, call func() (T, error)) (T, error) {
	var zero T

	if g.isCircuitOpen() {
		g.circuitMu.RLock()
		var remainingMs int64
		if g.circuitOpenUntil != nil {
			remainingMs = time.Until(*g.circuitOpenUntil).Milliseconds()
		}
		g.circuitMu.RUnlock()

		g.logger.Warn("Circuit breaker is open",
			zap.String("operation", operation),
			zap.Int64("retry_after_ms", remainingMs),
		)
		return zero, errors.NewAPIError("circuit breaker open", 503, map[string]any{
			"retry_after_ms": remainingMs,
		})
	}

	var lastErr error
	for attempt := 0; attempt < constants.RetryConfig.MaxAttempts; attempt++ {
		result, err := call()
		if err == nil {
			g.resetCircuit()
			return result, nil
		}

		lastErr = err

		// 4xx responses are definitive; retrying cannot change them.
		if apiErr, ok := err.(*errors.APIError); ok && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 && apiErr.StatusCode != 429 {
			return zero, err
		}

		count := g.incrementFailureCount()
		if count >= constants.CircuitBreakerConfig.FailureThreshold {
			g.openCircuit()
			break
		}

		if attempt < constants.RetryConfig.MaxAttempts-1 {
			delay := computeDelay(attempt)
			g.logger.Warn("Gateway call failed, retrying",
				zap.String("operation", operation),
				zap.Error(err),
				zap.Int("attempt", attempt+1),
				zap.Duration("delay", delay),
			)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return zero, ctx.Err()
			}
		}
	}

	return zero, lastErr
}

// classify maps transport errors to directory error kinds.
func (g *GatewayDirectory) classify(operation string, err error) *Error {
	if apiErr, ok := err.(*errors.APIError); ok {
		switch {
		case apiErr.StatusCode == 404:
			return newError(KindNotFound, operation, err)
		case apiErr.StatusCode == 403:
			return newError(KindPermissionDenied, operation, err)
		}
	}
	return newError(KindTransient, operation, err)
}

func (g *GatewayDirectory) isCircuitOpen() bool {
	g.circuitMu.RLock()
	defer g.circuitMu.RUnlock()

	if g.circuitOpenUntil == nil {
		return false
	}
	return !time.Now().After(*g.circuitOpenUntil)
}

func (g *GatewayDirectory) openCircuit() {
	g.circuitMu.Lock()
	defer g.circuitMu.Unlock()

	resetTime := time.Now().Add(constants.CircuitBreakerConfig.ResetTimeout)
	g.circuitOpenUntil = &resetTime

	g.failureMu.Lock()
	g.failureCount = 0
	g.failureMu.Unlock()

	g.logger.Error("Gateway circuit breaker opened",
		zap.Duration("reset_timeout", constants.CircuitBreakerConfig.ResetTimeout),
	)
}

func (g *GatewayDirectory) resetCircuit() {
	g.circuitMu.Lock()
	defer g.circuitMu.Unlock()

	g.failureMu.Lock()
	g.failureCount = 0
	g.failureMu.Unlock()

	g.circuitOpenUntil = nil
}

func (g *GatewayDirectory) incrementFailureCount() int {
	g.failureMu.Lock()
	defer g.failureMu.Unlock()
	g.failureCount++
	return g.failureCount
}

func computeDelay(attempt int) time.Duration {
	jitter := time.Duration(rand.Float64() * float64(constants.RetryConfig.Jitter))
	base := constants.RetryConfig.BaseDelay * time.Duration(math.Pow(2, float64(attempt)))
	return base + jitter
}

func mapChannels(raws []tgate.ChannelRaw) []*domain.ChannelProfile {
	channels := make([]*domain.ChannelProfile, len(raws))
	for i := range raws {
		channels[i] = mapChannel(&raws[i])
	}
	return channels
}

// mapChannel normalizes a raw gateway entity into a ChannelProfile.
func mapChannel(raw *tgate.ChannelRaw) *domain.ChannelProfile {
	profile := &domain.ChannelProfile{
		ID:    raw.ID,
		Title: raw.Title,
	}
	if raw.Username != nil {
		profile.Username = *raw.Username
	}
	if raw.About != nil {
		profile.About = *raw.About
	}
	if raw.ParticipantsCount != nil {
		profile.ParticipantsCount = *raw.ParticipantsCount
	}
	if raw.Verified != nil {
		profile.Verified = *raw.Verified
	}
	if raw.Scam != nil {
		profile.Scam = *raw.Scam
	}
	if raw.Fake != nil {
		profile.Fake = *raw.Fake
	}
	return profile
}

func recommendationsKey(channelID int64) string {
	return fmt.Sprintf("recommendations:%d", channelID)
}

func searchKey(term string, limit int) string {
	return fmt.Sprintf("search:%s:%d", strings.ToLower(term), limit)
}
