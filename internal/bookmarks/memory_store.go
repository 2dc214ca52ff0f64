package bookmarks

import (
	"sync"

	"github.com/samvad-hq/samvad-reader/internal/domain"
)

// memoryStore keeps the bookmark set in process memory only. Used by tests
// and as a no-disk session mode; contents are lost on Close.
type memoryStore struct {
	mu        sync.Mutex
	bookmarks []domain.Bookmark
}

// NewMemoryStore returns an empty in-memory Store.
func NewMemoryStore() Store {
	return &memoryStore{bookmarks: []domain.Bookmark{}}
}

func (s *memoryStore) Close() error { return nil }

func (s *memoryStore) LoadAll() ([]domain.Bookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Bookmark, len(s.bookmarks))
	copy(out, s.bookmarks)
	return out, nil
}

func (s *memoryStore) SaveAll(bookmarks []domain.Bookmark) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.bookmarks = append([]domain.Bookmark{}, bookmarks...)
	return nil
}

func (s *memoryStore) Add(b domain.Bookmark) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.bookmarks, _ = appendUnique(s.bookmarks, b)
	return nil
}

func (s *memoryStore) Remove(b domain.Bookmark) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.bookmarks, _ = removeByURL(s.bookmarks, b.URL)
	return nil
}

func (s *memoryStore) Contains(b domain.Bookmark) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return indexOfURL(s.bookmarks, b.URL) >= 0, nil
}
