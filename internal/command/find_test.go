package command

import (
	"context"
	"strings"
	"testing"

	"github.com/avdeev/channel-scout-go/internal/adapter"
	"github.com/avdeev/channel-scout-go/internal/domain"
	"go.uber.org/zap"
)

type fakeSearcher struct {
	result  *domain.SearchResult
	queries []string
}

func (f *fakeSearcher) Search(_ context.Context, text string) *domain.SearchResult {
	f.queries = append(f.queries, text)
	return f.result
}

func (f *fakeSearcher) Metrics() domain.PerformanceMetrics {
	return domain.PerformanceMetrics{TotalSearches: 7, SuccessfulSearches: 5, FailedSearches: 2}
}

type sentMessage struct {
	chatID int64
	text   string
}

type sentDocument struct {
	chatID   int64
	filename string
	data     []byte
}

func newTestDeps(searcher Searcher) (*Dependencies, *[]sentMessage, *[]sentDocument) {
	messages := &[]sentMessage{}
	documents := &[]sentDocument{}

	deps := &Dependencies{
		Engine:    searcher,
		Results:   NewResultStore(),
		Formatter: adapter.NewResponseFormatter("/"),
		SendMessage: func(_ context.Context, chatID int64, text string) error {
			*messages = append(*messages, sentMessage{chatID, text})
			return nil
		},
		SendDocument: func(_ context.Context, chatID int64, filename string, data []byte) error {
			*documents = append(*documents, sentDocument{chatID, filename, data})
			return nil
		},
		Logger: zap.NewNop(),
	}
	return deps, messages, documents
}

func successResult() *domain.SearchResult {
	return &domain.SearchResult{
		Success:        true,
		MinSubscribers: 1000,
		ProcessedChannels: []domain.ProcessedChannel{
			{Handle: "technews", Found: true, Title: "Tech News", ParticipantsCount: 50000, SimilarFound: 1},
		},
		Candidates: []*domain.CandidateRecord{
			{
				Profile: &domain.ChannelProfile{
					ID:                100,
					Username:          "similar_tech",
					Title:             "Similar Tech",
					ParticipantsCount: 20000,
				},
				SimilarityScore:   0.8,
				Methods:           []string{"recommendation", "keyword"},
				ParticipantsCount: 20000,
			},
		},
		QualityScore: 0.64,
	}
}

func TestFindCommandStoresResultAndReplies(t *testing.T) {
	searcher := &fakeSearcher{result: successResult()}
	deps, messages, _ := newTestDeps(searcher)
	cmd := NewFindCommand(deps)

	err := cmd.Execute(context.Background(), &Context{ChatID: 42}, "@technews")
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	if len(searcher.queries) != 1 || searcher.queries[0] != "@technews" {
		t.Errorf("queries = %v, want [@technews]", searcher.queries)
	}
	if _, ok := deps.Results.Get(42); !ok {
		t.Error("successful result was not stored for the chat")
	}
	if len(*messages) != 1 || !strings.Contains((*messages)[0].text, "Similar Tech") {
		t.Errorf("messages = %v, want one reply naming the candidate", *messages)
	}
}

func TestFindCommandEmptyArgs(t *testing.T) {
	searcher := &fakeSearcher{result: successResult()}
	deps, messages, _ := newTestDeps(searcher)
	cmd := NewFindCommand(deps)

	if err := cmd.Execute(context.Background(), &Context{ChatID: 42}, ""); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	if len(searcher.queries) != 0 {
		t.Error("engine was called for empty arguments")
	}
	if len(*messages) != 1 || !strings.HasPrefix((*messages)[0].text, "❌") {
		t.Errorf("messages = %v, want usage error", *messages)
	}
}

func TestFindCommandFailedSearchNotStored(t *testing.T) {
	searcher := &fakeSearcher{result: &domain.SearchResult{Success: false, Error: "no channel references found"}}
	deps, _, _ := newTestDeps(searcher)
	cmd := NewFindCommand(deps)

	if err := cmd.Execute(context.Background(), &Context{ChatID: 42}, "мусор"); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	if _, ok := deps.Results.Get(42); ok {
		t.Error("failed result must not be stored")
	}
}

func TestExportCommandUsesStoredResult(t *testing.T) {
	searcher := &fakeSearcher{result: successResult()}
	deps, messages, documents := newTestDeps(searcher)
	deps.Results.Set(42, successResult())
	cmd := NewExportCommand(deps)

	if err := cmd.Execute(context.Background(), &Context{ChatID: 42}, ""); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	if len(searcher.queries) != 0 {
		t.Error("engine was called although a stored result exists")
	}
	if len(*documents) != 1 {
		t.Fatalf("documents = %d, want 1", len(*documents))
	}

	doc := (*documents)[0]
	if !strings.HasPrefix(doc.filename, "channels_") || !strings.HasSuffix(doc.filename, ".csv") {
		t.Errorf("filename = %q, want channels_*.csv", doc.filename)
	}
	if !strings.Contains(string(doc.data), "Similar Tech") {
		t.Error("document does not contain the candidate row")
	}
	if len(*messages) != 1 {
		t.Errorf("messages = %d, want export caption", len(*messages))
	}
}

func TestExportCommandWithoutStoredResult(t *testing.T) {
	searcher := &fakeSearcher{result: successResult()}
	deps, messages, documents := newTestDeps(searcher)
	cmd := NewExportCommand(deps)

	if err := cmd.Execute(context.Background(), &Context{ChatID: 42}, ""); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	if len(*documents) != 0 {
		t.Error("document sent without any search")
	}
	if len(*messages) != 1 || !strings.HasPrefix((*messages)[0].text, "❌") {
		t.Errorf("messages = %v, want error reply", *messages)
	}
}

func TestExportCommandWithArgsRunsSearch(t *testing.T) {
	searcher := &fakeSearcher{result: successResult()}
	deps, _, documents := newTestDeps(searcher)
	cmd := NewExportCommand(deps)

	if err := cmd.Execute(context.Background(), &Context{ChatID: 42}, "@technews"); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	if len(searcher.queries) != 1 {
		t.Errorf("queries = %v, want one search", searcher.queries)
	}
	if len(*documents) != 1 {
		t.Errorf("documents = %d, want 1", len(*documents))
	}
}

func TestRegistryDispatch(t *testing.T) {
	searcher := &fakeSearcher{result: successResult()}
	deps, messages, _ := newTestDeps(searcher)

	registry := NewRegistry()
	registry.Register(NewFindCommand(deps))
	registry.Register(NewHelpCommand(deps))
	registry.Register(NewStatsCommand(deps))
	registry.Register(NewHistoryCommand(deps))
	registry.Register(NewExportCommand(deps))

	if registry.Count() != 5 {
		t.Errorf("Count() = %d, want 5", registry.Count())
	}

	if err := registry.Execute(context.Background(), &Context{ChatID: 1}, "HELP", ""); err != nil {
		t.Errorf("Execute(HELP) error: %v (lookup should be case-insensitive)", err)
	}
	if len(*messages) != 1 {
		t.Errorf("messages = %d, want help reply", len(*messages))
	}

	err := registry.Execute(context.Background(), &Context{ChatID: 1}, "nope", "")
	if err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Errorf("Execute(nope) = %v, want unknown command error", err)
	}
}

type fakeHistory struct {
	recorded []domain.SearchLogEntry
	recent   []domain.SearchLogEntry
}

func (f *fakeHistory) RecordSearch(_ context.Context, entry domain.SearchLogEntry) error {
	f.recorded = append(f.recorded, entry)
	return nil
}

func (f *fakeHistory) RecentSearches(_ context.Context, _ int64, _ int) ([]domain.SearchLogEntry, error) {
	return f.recent, nil
}

func TestHistoryCommand(t *testing.T) {
	searcher := &fakeSearcher{result: successResult()}
	deps, messages, _ := newTestDeps(searcher)
	deps.History = &fakeHistory{recent: []domain.SearchLogEntry{
		{ChatID: 42, Query: "@technews", ResultCount: 3, QualityScore: 0.64, Success: true},
		{ChatID: 42, Query: "мусор", ResultCount: 0, Success: false},
	}}
	cmd := NewHistoryCommand(deps)

	if err := cmd.Execute(context.Background(), &Context{ChatID: 42}, ""); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if len(*messages) != 1 {
		t.Fatalf("messages = %d, want 1", len(*messages))
	}
	reply := (*messages)[0].text
	if !strings.Contains(reply, "@technews") || !strings.Contains(reply, "мусор") {
		t.Errorf("reply = %q, want both recent queries listed", reply)
	}
}

func TestHistoryCommandDisabled(t *testing.T) {
	searcher := &fakeSearcher{result: successResult()}
	deps, messages, _ := newTestDeps(searcher)
	cmd := NewHistoryCommand(deps)

	if err := cmd.Execute(context.Background(), &Context{ChatID: 42}, ""); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if len(*messages) != 1 || !strings.HasPrefix((*messages)[0].text, "❌") {
		t.Errorf("messages = %v, want disabled-history error", *messages)
	}
}

func TestFindCommandRecordsHistory(t *testing.T) {
	searcher := &fakeSearcher{result: successResult()}
	deps, _, _ := newTestDeps(searcher)
	store := &fakeHistory{}
	deps.History = store
	cmd := NewFindCommand(deps)

	if err := cmd.Execute(context.Background(), &Context{ChatID: 42}, "@technews"); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	if len(store.recorded) != 1 {
		t.Fatalf("recorded = %d entries, want 1", len(store.recorded))
	}
	entry := store.recorded[0]
	if entry.ChatID != 42 || entry.Query != "@technews" || entry.ResultCount != 1 || !entry.Success {
		t.Errorf("entry = %+v, want chat 42, query @technews, 1 result, success", entry)
	}
}

func TestStatsCommand(t *testing.T) {
	searcher := &fakeSearcher{result: successResult()}
	deps, messages, _ := newTestDeps(searcher)
	cmd := NewStatsCommand(deps)

	if err := cmd.Execute(context.Background(), &Context{ChatID: 42}, ""); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if len(*messages) != 1 || !strings.Contains((*messages)[0].text, "Всего запросов: 7") {
		t.Errorf("messages = %v, want stats reply", *messages)
	}
}
