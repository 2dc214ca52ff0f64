package domain

// Domain contains core models shared by the feed client and the bookmark store.

// Source identifies the publication an article came from.
type Source struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// Article is a single news item as returned by the remote API. Articles are
// ephemeral: they live only as long as the feed session that fetched them.
// The URL is the article's identity; every other field is display payload.
type Article struct {
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	URL         string  `json:"url"`
	Image       string  `json:"image,omitempty"`
	Source      *Source `json:"source,omitempty"`
	PublishedAt string  `json:"publishedAt,omitempty"`
}

// Bookmark is a persisted snapshot of an article's display fields, keyed by
// URL. Once created it carries no reference to the Article or Source that
// produced it.
type Bookmark struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	SourceName  string `json:"sourceName,omitempty"`
	PublishedAt string `json:"publishedAt,omitempty"`
}

// FeedPage is one page of results from a headlines or search request. Pages
// are never merged by the client; accumulation belongs to the caller.
type FeedPage struct {
	TotalArticles int       `json:"totalArticles"`
	Articles      []Article `json:"articles"`
}

// BookmarkFromArticle projects an article into its persisted bookmark form,
// flattening Source.Name into SourceName.
func BookmarkFromArticle(a Article) Bookmark {
	b := Bookmark{
		URL:         a.URL,
		Title:       a.Title,
		Description: a.Description,
		Image:       a.Image,
		PublishedAt: a.PublishedAt,
	}
	if a.Source != nil {
		b.SourceName = a.Source.Name
	}
	return b
}
