package session

import (
	"context"
	"strings"

	"github.com/samvad-hq/samvad-reader/internal/domain"
	"github.com/samvad-hq/samvad-reader/internal/logger"
	"github.com/samvad-hq/samvad-reader/pkg/gnews"
)

// Package session owns the caller side of the pagination contract: one Feed
// per category tab or search, holding the page counter and the accumulated
// article list. The feed client itself stays stateless.

// Enricher backfills missing article metadata after a page is fetched.
type Enricher interface {
	Enrich(ctx context.Context, articles []domain.Article) []domain.Article
}

// Feed accumulates pages of one logical feed (a category or a search query).
// A Feed is not safe for concurrent use; distinct feeds share no state and
// may be used from different goroutines freely.
type Feed struct {
	client   *gnews.Client
	log      logger.Logger
	enricher Enricher

	category string
	query    string
	search   bool

	pageSize int
	language string

	page     int
	total    int
	articles []domain.Article
}

// Options tunes a Feed beyond the client defaults.
type Options struct {
	PageSize int
	Language string
	Logger   logger.Logger
	Enricher Enricher
}

// NewHeadlinesFeed starts a category feed at page 1.
func NewHeadlinesFeed(client *gnews.Client, category string, opts Options) *Feed {
	f := newFeed(client, opts)
	f.category = category
	return f
}

// NewSearchFeed starts a search feed at page 1.
func NewSearchFeed(client *gnews.Client, query string, opts Options) *Feed {
	f := newFeed(client, opts)
	f.query = query
	f.search = true
	return f
}

func newFeed(client *gnews.Client, opts Options) *Feed {
	log := opts.Logger
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Feed{
		client:   client,
		log:      log,
		enricher: opts.Enricher,
		pageSize: opts.PageSize,
		language: opts.Language,
		page:     1,
	}
}

// LoadMore requests the current page and appends its articles on success.
//
// The page counter advances once the request resolves, success or not; a
// transiently failed page is skipped rather than re-requested. That matches
// the reader's long-standing behavior and callers depend on LoadMore never
// re-delivering a page.
func (f *Feed) LoadMore(ctx context.Context) error {
	if f.search && strings.TrimSpace(f.query) == "" {
		// Blank query: nothing to request, counter untouched.
		return nil
	}

	page, err := f.fetch(ctx)
	f.page++
	if err != nil {
		return err
	}

	articles := page.Articles
	if f.enricher != nil {
		articles = f.enricher.Enrich(ctx, articles)
	}

	f.total = page.TotalArticles
	f.articles = append(f.articles, articles...)
	f.log.DebugObj("feed page loaded", "feed_page", map[string]any{
		"category":    f.category,
		"query":       f.query,
		"page":        f.page - 1,
		"appended":    len(articles),
		"accumulated": len(f.articles),
	})
	return nil
}

func (f *Feed) fetch(ctx context.Context) (domain.FeedPage, error) {
	if f.search {
		return f.client.Search(ctx, gnews.SearchRequest{
			Query:    f.query,
			Page:     f.page,
			PageSize: f.pageSize,
			Language: f.language,
		})
	}
	return f.client.TopHeadlines(ctx, gnews.HeadlinesRequest{
		Category: f.category,
		Page:     f.page,
		PageSize: f.pageSize,
		Language: f.language,
	})
}

// Articles returns the accumulated list in page-then-item order.
func (f *Feed) Articles() []domain.Article {
	out := make([]domain.Article, len(f.articles))
	copy(out, f.articles)
	return out
}

// TotalArticles returns the total reported by the most recent successful page.
func (f *Feed) TotalArticles() int { return f.total }

// Page returns the page number the next LoadMore will request.
func (f *Feed) Page() int { return f.page }

// Reset discards accumulated state and starts the feed over at page 1.
func (f *Feed) Reset() {
	f.page = 1
	f.total = 0
	f.articles = nil
}
