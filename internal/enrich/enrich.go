package enrich

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/samvad-hq/samvad-reader/internal/domain"
	"github.com/samvad-hq/samvad-reader/internal/logger"
	"github.com/samvad-hq/samvad-reader/pkg/httpclient"
)

// Package enrich backfills missing article display fields (description,
// image) from the article page's OpenGraph tags. API responses routinely
// omit these; the reader shows nicer rows when they can be recovered.
// Enrichment is best-effort: any failure leaves the article as fetched.

const (
	maxHTMLBodyBytes = 1 << 20 // 1 MiB
	defaultTimeout   = 15 * time.Second
)

// Backfiller fetches article pages and fills only the fields the feed
// response left empty. Existing fields are never overwritten.
type Backfiller struct {
	client httpclient.Client
	log    logger.Logger
	delay  time.Duration
}

// Options tunes a Backfiller.
type Options struct {
	HTTPClient httpclient.Client
	Logger     logger.Logger
	// Delay throttles successive page fetches within one Enrich call.
	Delay time.Duration
}

// NewBackfiller constructs a Backfiller with the provided options.
func NewBackfiller(opts Options) *Backfiller {
	client := opts.HTTPClient
	if client == nil {
		client = httpclient.NewRestyClient(defaultTimeout)
	}
	log := opts.Logger
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Backfiller{client: client, log: log, delay: opts.Delay}
}

// Enrich iterates articles, fetching each incomplete article's page and
// merging OG metadata into the empty fields. Articles that are already
// complete are not fetched at all. On context cancellation the output holds
// whatever was processed so far plus the untouched remainder.
func (b *Backfiller) Enrich(ctx context.Context, articles []domain.Article) []domain.Article {
	out := append([]domain.Article(nil), articles...)

	for i, art := range articles {
		select {
		case <-ctx.Done():
			return out
		default:
		}

		if !needsBackfill(art) {
			continue
		}

		enriched, err := b.fetchAndMerge(ctx, art)
		if err != nil {
			b.log.WarnObj("article metadata backfill failed", "backfill_error", map[string]any{
				"url":   art.URL,
				"error": err.Error(),
			})
			continue
		}
		out[i] = enriched

		if b.delay > 0 && i < len(articles)-1 {
			timer := time.NewTimer(b.delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return out
			case <-timer.C:
			}
		}
	}

	return out
}

func needsBackfill(a domain.Article) bool {
	return strings.TrimSpace(a.Description) == "" || strings.TrimSpace(a.Image) == ""
}

func (b *Backfiller) fetchAndMerge(ctx context.Context, art domain.Article) (domain.Article, error) {
	resp, err := b.client.Get(ctx, art.URL, nil, nil)
	if err != nil {
		return art, fmt.Errorf("http fetch: %w", err)
	}

	if resp.StatusCode() != 200 {
		return art, fmt.Errorf("status %d", resp.StatusCode())
	}

	body := resp.Body()
	if len(body) > maxHTMLBodyBytes {
		body = body[:maxHTMLBodyBytes]
	}

	meta, err := parseMeta(body)
	if err != nil {
		return art, err
	}

	updated := art
	if strings.TrimSpace(updated.Description) == "" && meta.Description != "" {
		updated.Description = meta.Description
	}
	if strings.TrimSpace(updated.Image) == "" && meta.Image != "" {
		updated.Image = resolveURL(meta.Image, art.URL)
	}
	return updated, nil
}

type pageMeta struct {
	Description string
	Image       string
}

func parseMeta(body []byte) (pageMeta, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return pageMeta{}, fmt.Errorf("parse html: %w", err)
	}

	extract := func(sel string) string {
		if node := doc.Find(sel).First(); node.Length() > 0 {
			if val, ok := node.Attr("content"); ok {
				return strings.TrimSpace(val)
			}
		}
		return ""
	}

	pm := pageMeta{}
	pm.Description = firstNonEmpty(
		extract(`meta[property="og:description"]`),
		extract(`meta[name="description"]`),
	)
	pm.Image = extract(`meta[property="og:image"]`)
	return pm, nil
}

// resolveURL absolutizes a possibly relative image URL against the article page.
func resolveURL(raw, base string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if ref.IsAbs() {
		return raw
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return raw
	}
	return baseURL.ResolveReference(ref).String()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
