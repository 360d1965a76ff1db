package engine

import (
	"sync"

	"github.com/avdeev/channel-scout-go/internal/domain"
)

// MetricsCollector keeps cumulative engine counters. All methods are safe for
// concurrent use; the collector is scoped to one engine instance, never
// global. It implements the cache Stats interface for hit/miss counting.
type MetricsCollector struct {
	mu                 sync.Mutex
	totalSearches      int64
	successfulSearches int64
	failedSearches     int64
	avgResultCount     float64
	cacheHits          int64
	cacheMisses        int64
}

func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{}
}

func (m *MetricsCollector) SearchStarted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.totalSearches++
}

// SearchSucceeded records a completed search and updates the running average
// result count over successful searches.
func (m *MetricsCollector) SearchSucceeded(resultCount int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.successfulSearches++
	n := float64(m.successfulSearches)
	m.avgResultCount += (float64(resultCount) - m.avgResultCount) / n
}

func (m *MetricsCollector) SearchFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failedSearches++
}

func (m *MetricsCollector) CacheHit() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cacheHits++
}

func (m *MetricsCollector) CacheMiss() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cacheMisses++
}

func (m *MetricsCollector) Snapshot() domain.PerformanceMetrics {
	m.mu.Lock()
	defer m.mu.Unlock()
	return domain.PerformanceMetrics{
		TotalSearches:      m.totalSearches,
		SuccessfulSearches: m.successfulSearches,
		FailedSearches:     m.failedSearches,
		AvgResultCount:     m.avgResultCount,
		CacheHits:          m.cacheHits,
		CacheMisses:        m.cacheMisses,
	}
}

func (m *MetricsCollector) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.totalSearches = 0
	m.successfulSearches = 0
	m.failedSearches = 0
	m.avgResultCount = 0
	m.cacheHits = 0
	m.cacheMisses = 0
}
