package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/samvad-hq/samvad-reader/internal/config"
	"github.com/samvad-hq/samvad-reader/internal/domain"
	"github.com/samvad-hq/samvad-reader/internal/logger"
)

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		AppName:     "samvad-reader",
		LogLevel:    "error",
		BaseURL:     baseURL,
		APIKey:      "k",
		Language:    "en",
		PageSize:    10,
		HTTPTimeout: 2 * time.Second,
		StorageType: "memory",
	}
}

func TestReaderFetchesAndBookmarks(t *testing.T) {
	page := domain.FeedPage{
		TotalArticles: 1,
		Articles: []domain.Article{{
			Title:  "headline",
			URL:    "https://x/1",
			Source: &domain.Source{Name: "Example Times"},
		}},
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(page)
	}))
	defer srv.Close()

	reader, err := NewReader(testConfig(srv.URL), logger.NopLogger{})
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	defer reader.Close()

	feed := reader.HeadlinesFeed("technology")
	articles, err := reader.LoadPages(context.Background(), feed, 1)
	if err != nil {
		t.Fatalf("LoadPages: %v", err)
	}
	if len(articles) != 1 || articles[0].URL != "https://x/1" {
		t.Fatalf("unexpected articles %+v", articles)
	}

	if err := reader.SaveArticle(articles[0]); err != nil {
		t.Fatalf("SaveArticle: %v", err)
	}
	saved, err := reader.IsBookmarked("https://x/1")
	if err != nil || !saved {
		t.Fatalf("expected article bookmarked, saved=%v err=%v", saved, err)
	}

	all, err := reader.Bookmarks()
	if err != nil {
		t.Fatalf("Bookmarks: %v", err)
	}
	if len(all) != 1 || all[0].SourceName != "Example Times" {
		t.Fatalf("unexpected bookmarks %+v", all)
	}

	if err := reader.RemoveBookmark("https://x/1"); err != nil {
		t.Fatalf("RemoveBookmark: %v", err)
	}
	saved, err = reader.IsBookmarked("https://x/1")
	if err != nil || saved {
		t.Fatalf("expected bookmark removed, saved=%v err=%v", saved, err)
	}
}

func TestReaderKeepsAccumulatedArticlesOnFetchFailure(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls > 1 {
			http.Error(w, "quota", http.StatusForbidden)
			return
		}
		json.NewEncoder(w).Encode(domain.FeedPage{
			TotalArticles: 1,
			Articles:      []domain.Article{{Title: "t", URL: "https://x/1"}},
		})
	}))
	defer srv.Close()

	reader, err := NewReader(testConfig(srv.URL), logger.NopLogger{})
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	defer reader.Close()

	feed := reader.SearchFeed("golang")
	articles, err := reader.LoadPages(context.Background(), feed, 2)
	if err == nil {
		t.Fatalf("expected fetch error from second page")
	}
	if len(articles) != 1 {
		t.Fatalf("expected page 1 articles kept, got %d", len(articles))
	}
}

func TestNewReaderRejectsNilConfig(t *testing.T) {
	if _, err := NewReader(nil, logger.NopLogger{}); err == nil {
		t.Fatalf("expected error for nil config")
	}
}
