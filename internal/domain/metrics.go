package domain

// PerformanceMetrics is a point-in-time snapshot of the engine counters.
type PerformanceMetrics struct {
	TotalSearches      int64   `json:"total_searches"`
	SuccessfulSearches int64   `json:"successful_searches"`
	FailedSearches     int64   `json:"failed_searches"`
	AvgResultCount     float64 `json:"avg_result_count"`
	CacheHits          int64   `json:"cache_hits"`
	CacheMisses        int64   `json:"cache_misses"`
}

// CacheHitRate returns hits/(hits+misses), or 0 when no lookups happened.
func (m PerformanceMetrics) CacheHitRate() float64 {
	total := m.CacheHits + m.CacheMisses
	if total == 0 {
		return 0
	}
	return float64(m.CacheHits) / float64(total)
}
