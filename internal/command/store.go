package command

import (
	"sync"

	"github.com/avdeev/channel-scout-go/internal/domain"
)

// ResultStore keeps the most recent successful search per chat so the export
// command can run without repeating the search. In-memory only; history
// persistence is a separate concern.
type ResultStore struct {
	mu      sync.RWMutex
	results map[int64]*domain.SearchResult
}

func NewResultStore() *ResultStore {
	return &ResultStore{results: make(map[int64]*domain.SearchResult)}
}

func (s *ResultStore) Set(chatID int64, result *domain.SearchResult) {
	if result == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[chatID] = result
}

func (s *ResultStore) Get(chatID int64) (*domain.SearchResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, ok := s.results[chatID]
	return result, ok
}
