package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/samvad-hq/samvad-reader/internal/domain"
	"github.com/samvad-hq/samvad-reader/pkg/gnews"
	"github.com/samvad-hq/samvad-reader/pkg/httpclient"
)

// stubResponse implements httpclient.Response.
type stubResponse struct {
	body       []byte
	statusCode int
}

func (s stubResponse) Body() []byte    { return s.body }
func (s stubResponse) StatusCode() int { return s.statusCode }

// scriptedClient replays one response per call and records the page
// parameter of each request.
type scriptedClient struct {
	responses []stubResponse
	calls     int
	pagesSeen []string
}

func (s *scriptedClient) Get(_ context.Context, _ string, query map[string]string, _ map[string]string) (httpclient.Response, error) {
	s.pagesSeen = append(s.pagesSeen, query["page"])
	if s.calls >= len(s.responses) {
		return nil, errors.New("no scripted response left")
	}
	resp := s.responses[s.calls]
	s.calls++
	return resp, nil
}

func pageResponse(t *testing.T, total int, urls ...string) stubResponse {
	t.Helper()
	page := domain.FeedPage{TotalArticles: total}
	for _, u := range urls {
		page.Articles = append(page.Articles, domain.Article{Title: "t:" + u, URL: u})
	}
	body, err := json.Marshal(page)
	if err != nil {
		t.Fatalf("marshal page: %v", err)
	}
	return stubResponse{body: body, statusCode: 200}
}

func newTestClient(stub *scriptedClient) *gnews.Client {
	return gnews.NewClient(gnews.Options{APIKey: "k", HTTPClient: stub})
}

func tenURLs(prefix string) []string {
	out := make([]string, 10)
	for i := range out {
		out[i] = fmt.Sprintf("https://x/%s/%d", prefix, i)
	}
	return out
}

func TestFeedAccumulatesPagesInOrder(t *testing.T) {
	stub := &scriptedClient{responses: []stubResponse{
		pageResponse(t, 42, tenURLs("p1")...),
		pageResponse(t, 42, tenURLs("p2")...),
	}}
	feed := NewHeadlinesFeed(newTestClient(stub), "technology", Options{})

	if err := feed.LoadMore(context.Background()); err != nil {
		t.Fatalf("LoadMore page 1: %v", err)
	}
	if err := feed.LoadMore(context.Background()); err != nil {
		t.Fatalf("LoadMore page 2: %v", err)
	}

	articles := feed.Articles()
	if len(articles) != 20 {
		t.Fatalf("expected 20 accumulated articles, got %d", len(articles))
	}
	// Page-then-item order: all of page 1 before any of page 2.
	if articles[0].URL != "https://x/p1/0" || articles[9].URL != "https://x/p1/9" {
		t.Fatalf("page 1 out of order: %q ... %q", articles[0].URL, articles[9].URL)
	}
	if articles[10].URL != "https://x/p2/0" || articles[19].URL != "https://x/p2/9" {
		t.Fatalf("page 2 out of order: %q ... %q", articles[10].URL, articles[19].URL)
	}

	if feed.TotalArticles() != 42 {
		t.Fatalf("expected total 42, got %d", feed.TotalArticles())
	}
	if feed.Page() != 3 {
		t.Fatalf("expected next page 3, got %d", feed.Page())
	}
	if got := stub.pagesSeen; len(got) != 2 || got[0] != "1" || got[1] != "2" {
		t.Fatalf("unexpected requested pages %v", got)
	}
}

func TestFeedAdvancesPageOnError(t *testing.T) {
	// First page fails; the counter still advances and the next call
	// requests page 2. The failed page is skipped, never re-requested.
	stub := &scriptedClient{responses: []stubResponse{
		{body: []byte("quota exceeded"), statusCode: 429},
		pageResponse(t, 5, "https://x/p2/0"),
	}}
	feed := NewHeadlinesFeed(newTestClient(stub), "sports", Options{})

	err := feed.LoadMore(context.Background())
	if !errors.Is(err, gnews.ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed, got %v", err)
	}
	if feed.Page() != 2 {
		t.Fatalf("expected counter advanced to 2 after failure, got %d", feed.Page())
	}
	if len(feed.Articles()) != 0 {
		t.Fatalf("failed page must append nothing")
	}

	if err := feed.LoadMore(context.Background()); err != nil {
		t.Fatalf("LoadMore after failure: %v", err)
	}
	if got := stub.pagesSeen; len(got) != 2 || got[0] != "1" || got[1] != "2" {
		t.Fatalf("unexpected requested pages %v", got)
	}
	if len(feed.Articles()) != 1 {
		t.Fatalf("expected 1 article after recovery, got %d", len(feed.Articles()))
	}
}

func TestSearchFeedSuppressesBlankQuery(t *testing.T) {
	stub := &scriptedClient{}
	feed := NewSearchFeed(newTestClient(stub), "   ", Options{})

	if err := feed.LoadMore(context.Background()); err != nil {
		t.Fatalf("blank query LoadMore returned error: %v", err)
	}
	if stub.calls != 0 || len(stub.pagesSeen) != 0 {
		t.Fatalf("blank query must not hit the network")
	}
	if feed.Page() != 1 {
		t.Fatalf("blank query must not advance the counter, got %d", feed.Page())
	}
}

type stubEnricher struct{}

func (stubEnricher) Enrich(_ context.Context, articles []domain.Article) []domain.Article {
	out := append([]domain.Article(nil), articles...)
	for i := range out {
		out[i].Description = "enriched"
	}
	return out
}

func TestFeedAppliesEnricher(t *testing.T) {
	stub := &scriptedClient{responses: []stubResponse{
		pageResponse(t, 1, "https://x/1"),
	}}
	feed := NewSearchFeed(newTestClient(stub), "golang", Options{Enricher: stubEnricher{}})

	if err := feed.LoadMore(context.Background()); err != nil {
		t.Fatalf("LoadMore: %v", err)
	}
	articles := feed.Articles()
	if len(articles) != 1 || articles[0].Description != "enriched" {
		t.Fatalf("enricher not applied: %+v", articles)
	}
}

func TestFeedReset(t *testing.T) {
	stub := &scriptedClient{responses: []stubResponse{
		pageResponse(t, 3, "https://x/1"),
		pageResponse(t, 3, "https://x/1"),
	}}
	feed := NewHeadlinesFeed(newTestClient(stub), "general", Options{})

	if err := feed.LoadMore(context.Background()); err != nil {
		t.Fatalf("LoadMore: %v", err)
	}
	feed.Reset()
	if feed.Page() != 1 || len(feed.Articles()) != 0 || feed.TotalArticles() != 0 {
		t.Fatalf("Reset left state behind: page=%d articles=%d", feed.Page(), len(feed.Articles()))
	}

	if err := feed.LoadMore(context.Background()); err != nil {
		t.Fatalf("LoadMore after Reset: %v", err)
	}
	if got := stub.pagesSeen; got[len(got)-1] != "1" {
		t.Fatalf("expected page 1 after Reset, got %v", got)
	}
}
