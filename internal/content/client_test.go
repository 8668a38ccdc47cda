package content

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(serverURL string) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: 5 * time.Second},
		baseURL:     serverURL,
		rateLimiter: newRateLimiter(0), // No rate limiting for tests
	}
}

func TestFetchContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/books/search-and-read", r.URL.Path)
		require.Equal(t, "dracula", r.URL.Query().Get("query"))

		response := searchAndReadResponse{
			Book:           bookRef{Title: "Dracula", Author: "Bram Stoker"},
			Content:        "Jonathan Harker's journal begins",
			WordCount:      5,
			EstimatedPages: 320,
			Source:         "gutenberg",
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	result, err := client.FetchContent(context.Background(), "dracula")
	require.NoError(t, err)
	assert.Equal(t, "Dracula", result.Title)
	assert.Equal(t, "Bram Stoker", result.Author)
	assert.Equal(t, "Jonathan Harker's journal begins", result.FullText)
	assert.Equal(t, 5, result.WordCount)
	assert.Equal(t, 320, result.EstimatedPages)
	assert.Equal(t, "gutenberg", result.Source)
}

func TestFetchContent_NormalizesMissingFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"content": "one two three four"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	result, err := client.FetchContent(context.Background(), "mystery book")
	require.NoError(t, err)
	assert.Equal(t, "mystery book", result.Title)
	assert.Equal(t, "Unknown", result.Author)
	assert.Equal(t, 4, result.WordCount)
	// Derived estimate is floored at 50 pages
	assert.Equal(t, 50, result.EstimatedPages)
}

func TestFetchContent_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail": "gutenberg mirror down"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.FetchContent(context.Background(), "dracula")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, err.Error(), "gutenberg mirror down")
}

func TestFetchContent_EmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"book": {"title": "Dracula"}, "content": "   "}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.FetchContent(context.Background(), "dracula")
	assert.ErrorIs(t, err, ErrEmptyContent)
}

func TestFetchContent_EmptyQuery(t *testing.T) {
	client := newTestClient("http://unused")

	_, err := client.FetchContent(context.Background(), "   ")
	assert.Error(t, err)
}

func TestFetchContent_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // Closed on purpose

	client := newTestClient(server.URL)

	_, err := client.FetchContent(context.Background(), "dracula")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestPopularBooks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/books/popular-books", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"title": "Dracula", "author": "Bram Stoker"}]`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	books, err := client.PopularBooks(context.Background())
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "Dracula", books[0].Title)
}

func TestEstimatePages(t *testing.T) {
	tests := []struct {
		wordCount int
		expected  int
	}{
		{0, 50},
		{100, 50},
		{12500, 50},
		{12501, 51},
		{250000, 1000},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, EstimatePages(tt.wordCount), "wordCount=%d", tt.wordCount)
	}
}
