package gnews

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/samvad-hq/samvad-reader/internal/domain"
	"github.com/samvad-hq/samvad-reader/pkg/httpclient"
)

// Package gnews implements a stateless client for the GNews v4 JSON API.
// The client performs one remote read per call and applies no caching,
// filtering, or retries; pagination state belongs to the caller.

const (
	// DefaultBaseURL is the public GNews API endpoint.
	DefaultBaseURL = "https://gnews.io/api/v4"
	// DefaultLanguage is used when a request carries no language.
	DefaultLanguage = "en"
	// DefaultPageSize is used when a request carries no page size.
	DefaultPageSize = 10

	defaultTimeout = 15 * time.Second
)

// ErrFetchFailed is the single failure condition for both feed operations.
// Transport errors, non-success statuses, and undecodable bodies all wrap it;
// the caller is not expected to distinguish the causes.
var ErrFetchFailed = errors.New("fetch failed")

// Options configures a Client. Zero values fall back to package defaults.
type Options struct {
	BaseURL    string
	APIKey     string
	Language   string
	PageSize   int
	Categories *Registry
	HTTPClient httpclient.Client
	Timeout    time.Duration
}

// Client issues headline and search requests against the GNews API.
// It keeps no state between calls; concurrent use is safe.
type Client struct {
	http       httpclient.Client
	baseURL    string
	apiKey     string
	language   string
	pageSize   int
	categories *Registry
}

// NewClient builds a Client from the given options.
func NewClient(opts Options) *Client {
	c := &Client{
		http:       opts.HTTPClient,
		baseURL:    strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"),
		apiKey:     opts.APIKey,
		language:   strings.TrimSpace(opts.Language),
		pageSize:   opts.PageSize,
		categories: opts.Categories,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.language == "" {
		c.language = DefaultLanguage
	}
	if c.pageSize <= 0 {
		c.pageSize = DefaultPageSize
	}
	if c.categories == nil {
		c.categories = DefaultCategories()
	}
	if c.http == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		c.http = httpclient.NewRestyClient(timeout)
	}
	return c
}

// HeadlinesRequest asks for one page of a category feed. Category is the
// reader-facing id ("General", "sports", ...); unknown ids resolve to the
// breaking-news topic rather than failing.
type HeadlinesRequest struct {
	Category string
	Page     int
	PageSize int
	Language string
}

// SearchRequest asks for one page of free-text search results. The caller is
// responsible for not issuing requests with a blank query; the client does
// not validate it.
type SearchRequest struct {
	Query    string
	Page     int
	PageSize int
	Language string
}

// TopHeadlines fetches one page of category headlines.
func (c *Client) TopHeadlines(ctx context.Context, req HeadlinesRequest) (domain.FeedPage, error) {
	query := c.baseQuery(req.Page, req.PageSize, req.Language)
	query["topic"] = c.categories.TopicFor(req.Category)
	return c.get(ctx, c.baseURL+"/top-headlines", query)
}

// Search fetches one page of search results for the given query string.
func (c *Client) Search(ctx context.Context, req SearchRequest) (domain.FeedPage, error) {
	query := c.baseQuery(req.Page, req.PageSize, req.Language)
	query["q"] = req.Query
	return c.get(ctx, c.baseURL+"/search", query)
}

// baseQuery assembles the parameters shared by both endpoints, normalizing
// out-of-range paging inputs to the client defaults.
func (c *Client) baseQuery(page, pageSize int, lang string) map[string]string {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = c.pageSize
	}
	lang = strings.TrimSpace(lang)
	if lang == "" {
		lang = c.language
	}
	return map[string]string{
		"lang":  lang,
		"max":   fmt.Sprintf("%d", pageSize),
		"page":  fmt.Sprintf("%d", page),
		"token": c.apiKey,
	}
}

func (c *Client) get(ctx context.Context, url string, query map[string]string) (domain.FeedPage, error) {
	resp, err := c.http.Get(ctx, url, query, nil)
	if err != nil {
		return domain.FeedPage{}, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	body := resp.Body()
	if resp.StatusCode() != http.StatusOK {
		return domain.FeedPage{}, fmt.Errorf("%w: status %d body: %s", ErrFetchFailed, resp.StatusCode(), responseSnippet(body))
	}

	var page domain.FeedPage
	if err := json.Unmarshal(body, &page); err != nil {
		return domain.FeedPage{}, fmt.Errorf("%w: decode response: %v", ErrFetchFailed, err)
	}
	return page, nil
}

// responseSnippet trims an error body for logging without flooding output.
func responseSnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}
