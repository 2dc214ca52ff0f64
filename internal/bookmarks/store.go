package bookmarks

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/samvad-hq/samvad-reader/internal/domain"
)

// Package bookmarks provides durable storage for the user's bookmark set.
// The whole set is persisted as one JSON array and addressed by article URL;
// backends differ only in where that payload lives.

// ErrDecode reports a persisted payload that is present but unparseable.
// It is surfaced rather than masked: treating corruption as an empty store
// would let the next SaveAll destroy the user's bookmarks.
var ErrDecode = errors.New("bookmarks: decode persisted payload")

// Store is the bookmark persistence contract. Lookup is by URL only; all
// other bookmark fields are payload, not identity.
type Store interface {
	Close() error
	// LoadAll returns every persisted bookmark in insertion order. A store
	// with no payload yet is a normal empty result, not an error.
	LoadAll() ([]domain.Bookmark, error)
	// SaveAll replaces the entire persisted set in one write.
	SaveAll(bookmarks []domain.Bookmark) error
	// Add persists the bookmark unless one with the same URL already exists;
	// duplicates are a no-op and never update the existing entry's fields.
	Add(b domain.Bookmark) error
	// Remove deletes any entry matching the bookmark's URL; absence is a no-op.
	Remove(b domain.Bookmark) error
	// Contains reports whether an entry with the bookmark's URL exists.
	Contains(b domain.Bookmark) (bool, error)
}

// NewStore creates the configured storage backend.
func NewStore(typ, path string) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))

	switch typ {
	case "", "memory":
		return NewMemoryStore(), nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path)
	case "file":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("file storage requires a path")
		}
		return newFileStore(path), nil
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

// encodePayload renders the full bookmark set as the persisted JSON array.
func encodePayload(bookmarks []domain.Bookmark) ([]byte, error) {
	if bookmarks == nil {
		bookmarks = []domain.Bookmark{}
	}
	data, err := json.Marshal(bookmarks)
	if err != nil {
		return nil, fmt.Errorf("encode bookmarks: %w", err)
	}
	return data, nil
}

// decodePayload parses the persisted JSON array. Absent or empty payloads
// decode to an empty set.
func decodePayload(data []byte) ([]domain.Bookmark, error) {
	if len(data) == 0 {
		return []domain.Bookmark{}, nil
	}
	var bookmarks []domain.Bookmark
	if err := json.Unmarshal(data, &bookmarks); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if bookmarks == nil {
		bookmarks = []domain.Bookmark{}
	}
	return bookmarks, nil
}

// indexOfURL finds the entry whose URL matches, or -1.
func indexOfURL(bookmarks []domain.Bookmark, url string) int {
	for i, b := range bookmarks {
		if b.URL == url {
			return i
		}
	}
	return -1
}

// appendUnique adds b unless its URL is already present. The second return
// reports whether the set changed.
func appendUnique(bookmarks []domain.Bookmark, b domain.Bookmark) ([]domain.Bookmark, bool) {
	if indexOfURL(bookmarks, b.URL) >= 0 {
		return bookmarks, false
	}
	return append(bookmarks, b), true
}

// removeByURL drops any entry matching the URL. The second return reports
// whether the set changed.
func removeByURL(bookmarks []domain.Bookmark, url string) ([]domain.Bookmark, bool) {
	i := indexOfURL(bookmarks, url)
	if i < 0 {
		return bookmarks, false
	}
	return append(bookmarks[:i], bookmarks[i+1:]...), true
}
