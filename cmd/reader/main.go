package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/samvad-hq/samvad-reader/internal/app"
	"github.com/samvad-hq/samvad-reader/internal/config"
	"github.com/samvad-hq/samvad-reader/internal/domain"
	"github.com/samvad-hq/samvad-reader/internal/logger"
	"github.com/samvad-hq/samvad-reader/internal/session"
)

const usage = `usage:
  reader categories
  reader headlines <category> [pages]
  reader search <query> [pages]
  reader bookmarks
  reader bookmark <url> [title]
  reader unbookmark <url>
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "reader: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("missing command")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if _, err := logger.Init(cfg); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reader, err := app.NewReader(cfg, logger.Default{})
	if err != nil {
		logger.ErrorObj("failed to initialize reader", "error", err)
		return err
	}
	defer reader.Close()

	switch args[0] {
	case "categories":
		return runCategories(reader)
	case "headlines":
		if len(args) < 2 {
			return fmt.Errorf("headlines requires a category")
		}
		return runFeed(ctx, reader, reader.HeadlinesFeed(args[1]), pagesArg(args, 2))
	case "search":
		if len(args) < 2 || strings.TrimSpace(args[1]) == "" {
			return fmt.Errorf("search requires a non-empty query")
		}
		return runFeed(ctx, reader, reader.SearchFeed(args[1]), pagesArg(args, 2))
	case "bookmarks":
		return runBookmarks(reader)
	case "bookmark":
		if len(args) < 2 {
			return fmt.Errorf("bookmark requires a url")
		}
		title := ""
		if len(args) > 2 {
			title = strings.Join(args[2:], " ")
		}
		return reader.SaveBookmark(domain.Bookmark{URL: args[1], Title: title})
	case "unbookmark":
		if len(args) < 2 {
			return fmt.Errorf("unbookmark requires a url")
		}
		return reader.RemoveBookmark(args[1])
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func pagesArg(args []string, idx int) int {
	if len(args) <= idx {
		return 1
	}
	n, err := strconv.Atoi(args[idx])
	if err != nil || n < 1 {
		return 1
	}
	return n
}

func runCategories(reader *app.Reader) error {
	for _, c := range reader.Categories() {
		fmt.Printf("%s\t%s\t(topic %s)\n", c.ID, c.Label, c.Topic)
	}
	return nil
}

func runFeed(ctx context.Context, reader *app.Reader, feed *session.Feed, pages int) error {
	articles, fetchErr := reader.LoadPages(ctx, feed, pages)

	for _, a := range articles {
		printArticle(reader, a)
	}

	// Accumulated articles stay visible; the failed page simply did not append.
	if fetchErr != nil {
		fmt.Printf("Error fetching news: %v\n", fetchErr)
	}
	return nil
}

func printArticle(reader *app.Reader, a domain.Article) {
	marker := " "
	if saved, err := reader.IsBookmarked(a.URL); err == nil && saved {
		marker = "*"
	}
	source := ""
	if a.Source != nil {
		source = a.Source.Name
	}
	fmt.Printf("%s %s\n    %s  %s  %s\n", marker, a.Title, a.URL, source, a.PublishedAt)
}

func runBookmarks(reader *app.Reader) error {
	saved, err := reader.Bookmarks()
	if err != nil {
		return fmt.Errorf("load bookmarks: %w", err)
	}
	if len(saved) == 0 {
		fmt.Println("no bookmarks")
		return nil
	}
	for _, b := range saved {
		fmt.Printf("%s\n    %s  %s  %s\n", b.Title, b.URL, b.SourceName, b.PublishedAt)
	}
	return nil
}
