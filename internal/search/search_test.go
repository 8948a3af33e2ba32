package search

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/customsearch/v1"
)

func newTestSearch(results []*customsearch.Result, searchErr error, pages map[string]string) *WebSearch {
	return &WebSearch{
		cx: "test",
		searchFn: func(context.Context, string) ([]*customsearch.Result, error) {
			return results, searchErr
		},
		readPageFn: func(_ context.Context, url string) (string, error) {
			if text, ok := pages[url]; ok {
				return text, nil
			}
			return "", errors.New("unreachable")
		},
	}
}

func TestNewWebSearch_RequiresCredentials(t *testing.T) {
	_, err := NewWebSearch(context.Background(), "", "cx", false)
	require.Error(t, err)

	_, err = NewWebSearch(context.Background(), "key", "", false)
	require.Error(t, err)
}

func TestRun_FormatsNumberedResults(t *testing.T) {
	w := newTestSearch([]*customsearch.Result{
		{Title: "Go Jobs Berlin", Link: "https://example.com/1", Snippet: "Backend roles"},
		{Title: "Remote Go Roles", Link: "https://example.com/2", Snippet: "Fully remote"},
	}, nil, map[string]string{
		"https://example.com/1": "We are hiring Go engineers for our platform team.",
	})

	out, err := w.Run(context.Background(), "golang jobs berlin")
	require.NoError(t, err)

	assert.Contains(t, out, "1. Go Jobs Berlin")
	assert.Contains(t, out, "https://example.com/1")
	assert.Contains(t, out, "2. Remote Go Roles")
	assert.Contains(t, out, "Page excerpt: We are hiring Go engineers")
}

func TestRun_PageFetchFailureKeepsSnippet(t *testing.T) {
	w := newTestSearch([]*customsearch.Result{
		{Title: "Unreachable", Link: "https://example.com/dead", Snippet: "still useful"},
	}, nil, nil)

	out, err := w.Run(context.Background(), "anything")
	require.NoError(t, err)
	assert.Contains(t, out, "still useful")
	assert.NotContains(t, out, "Page excerpt")
}

func TestRun_LongPageTextTruncated(t *testing.T) {
	long := strings.Repeat("x", maxPageChars+100)
	w := newTestSearch([]*customsearch.Result{
		{Title: "Big Page", Link: "https://example.com/big", Snippet: "s"},
	}, nil, map[string]string{"https://example.com/big": long})

	out, err := w.Run(context.Background(), "anything")
	require.NoError(t, err)
	assert.Contains(t, out, "...")
	assert.Less(t, len(out), len(long))
}

func TestRun_NoResults(t *testing.T) {
	w := newTestSearch(nil, nil, nil)

	out, err := w.Run(context.Background(), "gibberish query")
	require.NoError(t, err)
	assert.Contains(t, out, "No results found")
}

func TestRun_EmptyQuery(t *testing.T) {
	w := newTestSearch(nil, nil, nil)
	_, err := w.Run(context.Background(), "   ")
	require.Error(t, err)
}

func TestRun_SearchFailure(t *testing.T) {
	w := newTestSearch(nil, errors.New("quota exceeded"), nil)
	_, err := w.Run(context.Background(), "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "search failed")
}

func TestToolMetadata(t *testing.T) {
	w := newTestSearch(nil, nil, nil)
	assert.Equal(t, "web_search", w.Name())
	assert.NotEmpty(t, w.Description())
}
