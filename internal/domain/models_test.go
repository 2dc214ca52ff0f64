package domain

import "testing"

func TestBookmarkFromArticleProjectsSourceName(t *testing.T) {
	a := Article{
		Title:       "T",
		Description: "D",
		URL:         "https://x/1",
		Image:       "https://x/i.png",
		Source:      &Source{Name: "Example Times", URL: "https://example.com"},
		PublishedAt: "2026-08-01T00:00:00Z",
	}

	b := BookmarkFromArticle(a)
	if b.URL != a.URL || b.Title != a.Title || b.Description != a.Description {
		t.Fatalf("projection lost fields: %+v", b)
	}
	if b.Image != a.Image || b.PublishedAt != a.PublishedAt {
		t.Fatalf("projection lost fields: %+v", b)
	}
	if b.SourceName != "Example Times" {
		t.Fatalf("expected source name projected, got %q", b.SourceName)
	}
}

func TestBookmarkFromArticleWithoutSource(t *testing.T) {
	b := BookmarkFromArticle(Article{URL: "https://x/1", Title: "T"})
	if b.SourceName != "" {
		t.Fatalf("expected empty source name, got %q", b.SourceName)
	}
}
