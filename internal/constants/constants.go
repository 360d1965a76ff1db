package constants

import "time"

var CacheTTL = struct {
	ChannelProfile  time.Duration
	KeywordSearch   time.Duration
	Recommendations time.Duration
}{
	ChannelProfile:  20 * time.Minute,
	KeywordSearch:   10 * time.Minute,
	Recommendations: 10 * time.Minute,
}

var WebSocketConfig = struct {
	MaxReconnectAttempts int
	ReconnectDelay       time.Duration
}{
	MaxReconnectAttempts: 5,
	ReconnectDelay:       5 * time.Second,
}

var RetryConfig = struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Jitter      time.Duration
}{
	MaxAttempts: 3,
	BaseDelay:   500 * time.Millisecond,
	Jitter:      250 * time.Millisecond,
}

var CircuitBreakerConfig = struct {
	FailureThreshold int
	ResetTimeout     time.Duration
}{
	FailureThreshold: 3,
	ResetTimeout:     30 * time.Second,
}

var APIConfig = struct {
	GatewayTimeout time.Duration
	PreviewBaseURL string
	PreviewTimeout time.Duration
}{
	GatewayTimeout: 10 * time.Second,
	PreviewBaseURL: "https://t.me",
	PreviewTimeout: 15 * time.Second,
}

var EngineConfig = struct {
	MinSubscribers       int
	SearchTimeout        time.Duration
	MaxKeywords          int
	MaxImportantTerms    int
	MaxCategoryQueries   int
	KeywordSearchLimit   int
	ParticipantSample    int
	SearchPacingInterval time.Duration
	TermPacingInterval   time.Duration
}{
	MinSubscribers:       1000,
	SearchTimeout:        90 * time.Second,
	MaxKeywords:          10,
	MaxImportantTerms:    5,
	MaxCategoryQueries:   3,
	KeywordSearchLimit:   20,
	ParticipantSample:    50,
	SearchPacingInterval: 300 * time.Millisecond,
	TermPacingInterval:   200 * time.Millisecond,
}

var DisplayConfig = struct {
	MaxResultsShown int
	TitleLimit      int
}{
	MaxResultsShown: 10,
	TitleLimit:      60,
}
