package bookmarks

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/samvad-hq/samvad-reader/internal/domain"
	bolt "go.etcd.io/bbolt"
)

const (
	bookmarkBucket = "bookmarks"
	// payloadKey is the single fixed key the whole encoded set lives under.
	payloadKey = "bookmarks.v1"
)

// boltStore implements a Store backed by BoltDB. Mutations run their whole
// read-modify-write cycle inside one Update transaction; bolt serializes
// writers, which is the single-writer guarantee concurrent Add/Remove
// callers rely on.
type boltStore struct {
	db *bolt.DB
}

// openBolt initializes a BoltDB-backed Store.
func openBolt(path string) (Store, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bookmarkBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}

	return &boltStore{db: db}, nil
}

// Close closes the BoltDB store.
func (s *boltStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// LoadAll returns the full persisted bookmark set.
func (s *boltStore) LoadAll() ([]domain.Bookmark, error) {
	var out []domain.Bookmark
	err := s.db.View(func(tx *bolt.Tx) error {
		bookmarks, err := readPayload(tx)
		if err != nil {
			return err
		}
		out = bookmarks
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SaveAll replaces the persisted set with the given bookmarks in one write.
func (s *boltStore) SaveAll(bookmarks []domain.Bookmark) error {
	data, err := encodePayload(bookmarks)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return writePayload(tx, data)
	})
}

// Add persists the bookmark unless its URL is already present.
func (s *boltStore) Add(b domain.Bookmark) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		bookmarks, err := readPayload(tx)
		if err != nil {
			return err
		}
		bookmarks, changed := appendUnique(bookmarks, b)
		if !changed {
			return nil
		}
		data, err := encodePayload(bookmarks)
		if err != nil {
			return err
		}
		return writePayload(tx, data)
	})
}

// Remove deletes any entry matching the bookmark's URL.
func (s *boltStore) Remove(b domain.Bookmark) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		bookmarks, err := readPayload(tx)
		if err != nil {
			return err
		}
		bookmarks, changed := removeByURL(bookmarks, b.URL)
		if !changed {
			return nil
		}
		data, err := encodePayload(bookmarks)
		if err != nil {
			return err
		}
		return writePayload(tx, data)
	})
}

// Contains reports whether an entry with the bookmark's URL exists.
func (s *boltStore) Contains(b domain.Bookmark) (bool, error) {
	var found bool
	err := s.db.View(func(tx *bolt.Tx) error {
		bookmarks, err := readPayload(tx)
		if err != nil {
			return err
		}
		found = indexOfURL(bookmarks, b.URL) >= 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return found, nil
}

func readPayload(tx *bolt.Tx) ([]domain.Bookmark, error) {
	bucket := tx.Bucket([]byte(bookmarkBucket))
	if bucket == nil {
		return nil, fmt.Errorf("bookmark bucket missing")
	}
	return decodePayload(bucket.Get([]byte(payloadKey)))
}

func writePayload(tx *bolt.Tx, data []byte) error {
	bucket := tx.Bucket([]byte(bookmarkBucket))
	if bucket == nil {
		return fmt.Errorf("bookmark bucket missing")
	}
	return bucket.Put([]byte(payloadKey), data)
}
