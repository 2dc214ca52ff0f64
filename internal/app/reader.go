package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/samvad-hq/samvad-reader/internal/bookmarks"
	"github.com/samvad-hq/samvad-reader/internal/config"
	"github.com/samvad-hq/samvad-reader/internal/domain"
	"github.com/samvad-hq/samvad-reader/internal/enrich"
	"github.com/samvad-hq/samvad-reader/internal/logger"
	"github.com/samvad-hq/samvad-reader/internal/session"
	"github.com/samvad-hq/samvad-reader/pkg/gnews"
	"github.com/samvad-hq/samvad-reader/pkg/httpclient"
)

// Reader wires together the feed client, category registry, and bookmark
// store behind the operations the CLI (or any other front end) consumes.
type Reader struct {
	cfg        *config.Config
	log        logger.Logger
	client     *gnews.Client
	categories *gnews.Registry
	store      bookmarks.Store
	enricher   session.Enricher
}

// NewReader builds a reader runtime from config.
func NewReader(cfg *config.Config, log logger.Logger) (*Reader, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = logger.NopLogger{}
	}

	categories := gnews.DefaultCategories()
	if strings.TrimSpace(cfg.CategoriesFile) != "" {
		loaded, err := gnews.LoadCategories(cfg.CategoriesFile)
		if err != nil {
			return nil, fmt.Errorf("load categories registry: %w", err)
		}
		categories = loaded
	}
	log.InfoObj("categories registry loaded", "categories_meta", map[string]any{
		"count": len(categories.All()),
	})

	store, err := bookmarks.NewStore(cfg.StorageType, cfg.BookmarksPath)
	if err != nil {
		return nil, fmt.Errorf("init bookmark storage: %w", err)
	}
	log.InfoObj("bookmark storage initialized", "storage_config", map[string]any{
		"type": cfg.StorageType,
		"path": cfg.BookmarksPath,
	})

	httpClient := httpclient.NewRestyClient(cfg.HTTPTimeout)
	client := gnews.NewClient(gnews.Options{
		BaseURL:    cfg.BaseURL,
		APIKey:     cfg.APIKey,
		Language:   cfg.Language,
		PageSize:   cfg.PageSize,
		Categories: categories,
		HTTPClient: httpClient,
	})

	var enricher session.Enricher
	if cfg.EnrichArticles {
		enricher = enrich.NewBackfiller(enrich.Options{
			HTTPClient: httpClient,
			Logger:     log,
		})
	}

	return &Reader{
		cfg:        cfg,
		log:        log,
		client:     client,
		categories: categories,
		store:      store,
		enricher:   enricher,
	}, nil
}

// Close releases the bookmark store.
func (r *Reader) Close() error {
	if r == nil || r.store == nil {
		return nil
	}
	return r.store.Close()
}

// Categories lists the configured reader tabs.
func (r *Reader) Categories() []gnews.Category { return r.categories.All() }

// HeadlinesFeed starts an accumulating feed for the given category.
func (r *Reader) HeadlinesFeed(category string) *session.Feed {
	return session.NewHeadlinesFeed(r.client, category, session.Options{
		Logger:   r.log,
		Enricher: r.enricher,
	})
}

// SearchFeed starts an accumulating feed for the given query.
func (r *Reader) SearchFeed(query string) *session.Feed {
	return session.NewSearchFeed(r.client, query, session.Options{
		Logger:   r.log,
		Enricher: r.enricher,
	})
}

// LoadPages drives a feed through up to `pages` LoadMore calls. It returns
// whatever accumulated, plus the first error encountered; an error does not
// discard already-loaded articles, and the feed's counter discipline decides
// which page a later call would request.
func (r *Reader) LoadPages(ctx context.Context, feed *session.Feed, pages int) ([]domain.Article, error) {
	if pages < 1 {
		pages = 1
	}
	var firstErr error
	for i := 0; i < pages; i++ {
		if err := feed.LoadMore(ctx); err != nil {
			r.log.ErrorObj("feed page fetch failed", "error", err.Error())
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return feed.Articles(), firstErr
}

// Bookmarks returns every persisted bookmark in insertion order.
func (r *Reader) Bookmarks() ([]domain.Bookmark, error) {
	return r.store.LoadAll()
}

// SaveArticle bookmarks an article; a duplicate URL is a silent no-op.
func (r *Reader) SaveArticle(a domain.Article) error {
	return r.store.Add(domain.BookmarkFromArticle(a))
}

// SaveBookmark persists an already-projected bookmark.
func (r *Reader) SaveBookmark(b domain.Bookmark) error {
	return r.store.Add(b)
}

// RemoveBookmark removes the entry for the given URL; absence is a no-op.
func (r *Reader) RemoveBookmark(url string) error {
	return r.store.Remove(domain.Bookmark{URL: url})
}

// IsBookmarked reports whether the URL is bookmarked.
func (r *Reader) IsBookmarked(url string) (bool, error) {
	return r.store.Contains(domain.Bookmark{URL: url})
}
