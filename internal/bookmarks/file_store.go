package bookmarks

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/samvad-hq/samvad-reader/internal/domain"
)

// fileStore implements a Store backed by a single JSON file. The payload is
// always written whole to a temp file and renamed into place, so a crash
// mid-write never leaves a partial payload for the next LoadAll.
type fileStore struct {
	path string
	mu   sync.Mutex
}

func newFileStore(path string) *fileStore {
	return &fileStore{path: path}
}

func (s *fileStore) Close() error { return nil }

// LoadAll returns the full persisted bookmark set. A missing file is the
// normal "no bookmarks yet" case.
func (s *fileStore) LoadAll() ([]domain.Bookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

// SaveAll replaces the persisted set atomically.
func (s *fileStore) SaveAll(bookmarks []domain.Bookmark) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(bookmarks)
}

// Add persists the bookmark unless its URL is already present.
func (s *fileStore) Add(b domain.Bookmark) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bookmarks, err := s.loadLocked()
	if err != nil {
		return err
	}
	bookmarks, changed := appendUnique(bookmarks, b)
	if !changed {
		return nil
	}
	return s.saveLocked(bookmarks)
}

// Remove deletes any entry matching the bookmark's URL.
func (s *fileStore) Remove(b domain.Bookmark) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bookmarks, err := s.loadLocked()
	if err != nil {
		return err
	}
	bookmarks, changed := removeByURL(bookmarks, b.URL)
	if !changed {
		return nil
	}
	return s.saveLocked(bookmarks)
}

// Contains reports whether an entry with the bookmark's URL exists.
func (s *fileStore) Contains(b domain.Bookmark) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bookmarks, err := s.loadLocked()
	if err != nil {
		return false, err
	}
	return indexOfURL(bookmarks, b.URL) >= 0, nil
}

func (s *fileStore) loadLocked() ([]domain.Bookmark, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return []domain.Bookmark{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read bookmarks file: %w", err)
	}
	return decodePayload(data)
}

func (s *fileStore) saveLocked(bookmarks []domain.Bookmark) error {
	data, err := encodePayload(bookmarks)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create storage directory: %w", err)
		}
	}

	tmp, err := os.CreateTemp(dir, ".bookmarks-*")
	if err != nil {
		return fmt.Errorf("create temp bookmarks file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write bookmarks file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close bookmarks file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace bookmarks file: %w", err)
	}
	return nil
}
