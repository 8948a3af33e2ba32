// Package search implements the web_search tool used by the
// reasoning-action skills. It wraps Google Programmable Search and
// enriches the top hits with the actual page text so the model reasons
// over content, not just snippets.
package search

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"

	"github.com/jonathan/career-assistant/internal/fetch"
)

const (
	// maxResults is how many search hits are returned per query.
	maxResults = 5
	// enrichTop is how many of those hits get their page text fetched.
	enrichTop = 3
	// maxPageChars truncates fetched page text to keep prompts bounded.
	maxPageChars = 1500
)

// WebSearch is a react.Tool backed by Google Programmable Search.
type WebSearch struct {
	cx           string
	allowBrowser bool

	// Seams for tests; production paths go through customsearch and
	// fetch.ReadPage.
	searchFn   func(ctx context.Context, query string) ([]*customsearch.Result, error)
	readPageFn func(ctx context.Context, url string) (string, error)
}

// NewWebSearch creates the search tool. allowBrowser enables headless
// rendering for JS-heavy result pages.
func NewWebSearch(ctx context.Context, apiKey, cx string, allowBrowser bool) (*WebSearch, error) {
	if apiKey == "" || cx == "" {
		return nil, fmt.Errorf("search API key and engine ID are required")
	}

	svc, err := customsearch.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create customsearch service: %w", err)
	}

	w := &WebSearch{cx: cx, allowBrowser: allowBrowser}
	w.searchFn = func(ctx context.Context, query string) ([]*customsearch.Result, error) {
		resp, err := svc.Cse.List().Context(ctx).Cx(w.cx).Q(query).Num(maxResults).Do()
		if err != nil {
			return nil, err
		}
		return resp.Items, nil
	}
	w.readPageFn = func(ctx context.Context, url string) (string, error) {
		return fetch.ReadPage(ctx, url, fetch.DefaultOptions(), w.allowBrowser)
	}
	return w, nil
}

// Name implements react.Tool.
func (w *WebSearch) Name() string { return "web_search" }

// Description implements react.Tool.
func (w *WebSearch) Description() string {
	return "Searches the web for current information. Input is a plain search query; output is a numbered list of results with titles, links, snippets, and page excerpts."
}

// Run executes a search query and formats the results for the model.
func (w *WebSearch) Run(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", fmt.Errorf("empty search query")
	}

	items, err := w.searchFn(ctx, query)
	if err != nil {
		return "", fmt.Errorf("search failed: %w", err)
	}
	if len(items) == 0 {
		return "No results found for this query. Try different keywords.", nil
	}

	excerpts := w.fetchExcerpts(ctx, items)

	var b strings.Builder
	for i, item := range items {
		fmt.Fprintf(&b, "%d. %s\n   %s\n   %s\n", i+1, item.Title, item.Link, item.Snippet)
		if excerpt := excerpts[item.Link]; excerpt != "" {
			fmt.Fprintf(&b, "   Page excerpt: %s\n", excerpt)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// fetchExcerpts pulls page text for the top hits concurrently. Fetch
// failures are silently skipped; the snippet still covers those hits.
func (w *WebSearch) fetchExcerpts(ctx context.Context, items []*customsearch.Result) map[string]string {
	n := enrichTop
	if len(items) < n {
		n = len(items)
	}

	var mu sync.Mutex
	excerpts := make(map[string]string, n)

	g, gctx := errgroup.WithContext(ctx)
	for _, item := range items[:n] {
		link := item.Link
		g.Go(func() error {
			text, err := w.readPageFn(gctx, link)
			if err != nil || text == "" {
				return nil
			}
			if len(text) > maxPageChars {
				text = text[:maxPageChars] + "..."
			}
			mu.Lock()
			excerpts[link] = text
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return excerpts
}
