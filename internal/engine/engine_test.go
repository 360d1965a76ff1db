package engine

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/avdeev/channel-scout-go/internal/directory"
	"github.com/avdeev/channel-scout-go/internal/domain"
	"go.uber.org/zap"
)

type fakeDirectory struct {
	profiles        map[string]*domain.ChannelProfile
	recommendations map[int64][]*domain.ChannelProfile
	searchResults   map[string][]*domain.ChannelProfile
	resolveCalls    int
	resolvePanic    bool
}

func (f *fakeDirectory) ResolveProfile(_ context.Context, handle string) (*domain.ChannelProfile, error) {
	f.resolveCalls++
	if f.resolvePanic {
		panic("resolver exploded")
	}
	profile, ok := f.profiles[handle]
	if !ok {
		return nil, &directory.Error{Kind: directory.KindNotFound, Operation: "resolve"}
	}
	return profile, nil
}

func (f *fakeDirectory) RecommendedChannels(_ context.Context, source *domain.ChannelProfile) ([]*domain.ChannelProfile, error) {
	return f.recommendations[source.ID], nil
}

func (f *fakeDirectory) SearchByKeyword(_ context.Context, term string, _ int) ([]*domain.ChannelProfile, error) {
	return f.searchResults[term], nil
}

func (f *fakeDirectory) SampleParticipants(_ context.Context, _ *domain.ChannelProfile, _ int) ([]int64, error) {
	return nil, &directory.Error{Kind: directory.KindPermissionDenied, Operation: "participants"}
}

type fakeProfileCache struct {
	profiles map[string]*domain.ChannelProfile
	sets     int
}

func newFakeProfileCache() *fakeProfileCache {
	return &fakeProfileCache{profiles: make(map[string]*domain.ChannelProfile)}
}

func (c *fakeProfileCache) GetProfile(_ context.Context, handle string) (*domain.ChannelProfile, bool) {
	profile, ok := c.profiles[handle]
	return profile, ok
}

func (c *fakeProfileCache) SetProfile(_ context.Context, handle string, profile *domain.ChannelProfile) {
	c.sets++
	c.profiles[handle] = profile
}

func newTestEngine(dir *fakeDirectory, cache ProfileCache) *Engine {
	return New(dir, cache, nil, nil, Config{
		MinSubscribers: 1000,
		SearchTimeout:  30 * time.Second,
	}, zap.NewNop())
}

func TestSearchNoReferences(t *testing.T) {
	engine := newTestEngine(&fakeDirectory{}, nil)

	result := engine.Search(context.Background(), "просто текст без ссылок")

	if result.Success {
		t.Error("Success = true, want false for input without references")
	}
	if result.Error != ErrNoInputReferences {
		t.Errorf("Error = %q, want %q", result.Error, ErrNoInputReferences)
	}
	if len(result.Candidates) != 0 || len(result.ProcessedChannels) != 0 {
		t.Errorf("expected empty result, got %d candidates, %d processed",
			len(result.Candidates), len(result.ProcessedChannels))
	}

	snap := engine.Metrics()
	if snap.TotalSearches != 1 || snap.FailedSearches != 1 {
		t.Errorf("metrics = %+v, want 1 total / 1 failed", snap)
	}
}

func TestSearchEndToEnd(t *testing.T) {
	source := &domain.ChannelProfile{
		ID:                10,
		Username:          "technews",
		Title:             "Tech News",
		ParticipantsCount: 50000,
	}
	similar := &domain.ChannelProfile{
		ID:                100,
		Username:          "similar_tech",
		Title:             "Similar Tech",
		ParticipantsCount: 20000,
	}
	tiny := &domain.ChannelProfile{
		ID:                200,
		Username:          "tiny_tech",
		Title:             "Tiny Tech",
		ParticipantsCount: 500,
	}

	dir := &fakeDirectory{
		profiles:        map[string]*domain.ChannelProfile{"technews": source},
		recommendations: map[int64][]*domain.ChannelProfile{10: {similar}},
		searchResults:   map[string][]*domain.ChannelProfile{"technology": {similar, tiny}},
	}
	cache := newFakeProfileCache()
	engine := newTestEngine(dir, cache)

	result := engine.Search(context.Background(), "похожие на @technews")

	if !result.Success {
		t.Fatalf("Success = false, error %q", result.Error)
	}
	if len(result.ProcessedChannels) != 1 {
		t.Fatalf("ProcessedChannels = %d, want 1", len(result.ProcessedChannels))
	}

	processed := result.ProcessedChannels[0]
	if !processed.Found || processed.Title != "Tech News" || processed.ParticipantsCount != 50000 {
		t.Errorf("processed = %+v, want found Tech News with 50000 participants", processed)
	}

	if len(result.Candidates) != 1 {
		t.Fatalf("Candidates = %d, want exactly 1 (small channel filtered out)", len(result.Candidates))
	}

	candidate := result.Candidates[0]
	if candidate.Profile.ID != 100 {
		t.Errorf("candidate ID = %d, want 100", candidate.Profile.ID)
	}
	if candidate.SimilarityScore != 0.8 {
		t.Errorf("SimilarityScore = %v, want 0.8 (max of recommendation and keyword)", candidate.SimilarityScore)
	}
	if len(candidate.Methods) != 2 || candidate.Methods[0] != MethodRecommendation || candidate.Methods[1] != MethodKeyword {
		t.Errorf("Methods = %v, want [recommendation keyword]", candidate.Methods)
	}

	// One candidate: unverified, popular, score 0.8.
	wantQuality := 0.4 + 0.3*0.8
	if !almostEqual(result.QualityScore, wantQuality) {
		t.Errorf("QualityScore = %v, want %v", result.QualityScore, wantQuality)
	}

	if _, ok := cache.profiles["technews"]; !ok || cache.sets != 1 {
		t.Errorf("resolved profile was not cached (sets = %d)", cache.sets)
	}
}

func TestSearchZeroThresholdKeepsSmallChannels(t *testing.T) {
	source := &domain.ChannelProfile{
		ID:                10,
		Username:          "technews",
		Title:             "Tech News",
		ParticipantsCount: 50000,
	}
	tiny := &domain.ChannelProfile{
		ID:                200,
		Username:          "tiny_tech",
		Title:             "Tiny Tech",
		ParticipantsCount: 500,
	}

	dir := &fakeDirectory{
		profiles:        map[string]*domain.ChannelProfile{"technews": source},
		recommendations: map[int64][]*domain.ChannelProfile{10: {tiny}},
	}
	engine := New(dir, nil, nil, nil, Config{
		MinSubscribers: 0,
		SearchTimeout:  30 * time.Second,
	}, zap.NewNop())

	result := engine.Search(context.Background(), "@technews")

	if !result.Success {
		t.Fatalf("Success = false, error %q", result.Error)
	}
	if result.MinSubscribers != 0 {
		t.Errorf("MinSubscribers = %d, want the configured 0 to stay in effect", result.MinSubscribers)
	}
	if len(result.Candidates) != 1 || result.Candidates[0].Profile.ID != 200 {
		t.Fatalf("Candidates = %v, want the 500-subscriber channel to pass a zero threshold", result.Candidates)
	}
}

func TestSearchHandleNotFound(t *testing.T) {
	engine := newTestEngine(&fakeDirectory{profiles: map[string]*domain.ChannelProfile{}}, nil)

	result := engine.Search(context.Background(), "@ghost_channel")

	if !result.Success {
		t.Fatalf("Success = false, want true with per-handle failure recorded")
	}
	if len(result.ProcessedChannels) != 1 {
		t.Fatalf("ProcessedChannels = %d, want 1", len(result.ProcessedChannels))
	}

	processed := result.ProcessedChannels[0]
	if processed.Found || processed.Error != "not found" {
		t.Errorf("processed = %+v, want not found", processed)
	}
	if len(result.Candidates) != 0 || result.QualityScore != 0.0 {
		t.Errorf("expected empty candidates and zero quality, got %d / %v",
			len(result.Candidates), result.QualityScore)
	}
}

func TestSearchUsesProfileCache(t *testing.T) {
	cached := &domain.ChannelProfile{
		ID:                10,
		Username:          "наш_канал",
		Title:             "Наш Канал",
		ParticipantsCount: 5000,
	}
	cache := newFakeProfileCache()
	cache.profiles["nash_kanal"] = cached

	dir := &fakeDirectory{}
	engine := newTestEngine(dir, cache)

	result := engine.Search(context.Background(), "@nash_kanal")

	if !result.Success {
		t.Fatalf("Success = false, error %q", result.Error)
	}
	if dir.resolveCalls != 0 {
		t.Errorf("resolveCalls = %d, want 0 for cached handle", dir.resolveCalls)
	}
	if cache.sets != 0 {
		t.Errorf("SetProfile called %d times on cache hit, want 0", cache.sets)
	}
}

func TestSearchRecoversFromPanic(t *testing.T) {
	engine := newTestEngine(&fakeDirectory{resolvePanic: true}, nil)

	result := engine.Search(context.Background(), "@any_channel")

	if result.Success {
		t.Error("Success = true, want false after internal panic")
	}
	if !strings.Contains(result.Error, "internal error") {
		t.Errorf("Error = %q, want internal error message", result.Error)
	}

	snap := engine.Metrics()
	if snap.FailedSearches != 1 {
		t.Errorf("FailedSearches = %d, want 1", snap.FailedSearches)
	}
}
