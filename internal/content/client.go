// Package content retrieves full book text from the external book-content
// service. The client is read-only: a fetch has no side effects, and callers
// are expected to fall back to previously cached text when it fails.
package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

var (
	// ErrUnavailable covers transport failures and non-2xx responses.
	ErrUnavailable = errors.New("book content service unavailable")

	// ErrEmptyContent means the service answered but returned no usable text.
	ErrEmptyContent = errors.New("no usable book content returned")
)

// BookContent is the normalized fetch result.
type BookContent struct {
	Title          string `json:"title"`
	Author         string `json:"author"`
	FullText       string `json:"full_text"`
	WordCount      int    `json:"word_count"`
	EstimatedPages int    `json:"estimated_pages"`
	Source         string `json:"source"`
}

// BookSummary is a catalog entry from the popular-books endpoint.
type BookSummary struct {
	Title  string `json:"title"`
	Author string `json:"author"`
}

// Client fetches book content from the backend content service.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *rateLimiter
}

type rateLimiter struct {
	mu       sync.Mutex
	lastCall time.Time
	interval time.Duration
}

func newRateLimiter(interval time.Duration) *rateLimiter {
	return &rateLimiter{interval: interval}
}

func (r *rateLimiter) wait() {
	r.mu.Lock()
	defer r.mu.Unlock()

	since := time.Since(r.lastCall)
	if since < r.interval {
		time.Sleep(r.interval - since)
	}
	r.lastCall = time.Now()
}

// NewClient creates a content client for the given backend base URL with
// rate limiting.
func NewClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:     strings.TrimRight(baseURL, "/"),
		rateLimiter: newRateLimiter(time.Second), // 1 request per second
	}
}

// FetchContent retrieves the full text for a book title. Missing fields are
// normalized at this boundary: an absent word count is recomputed from the
// text, an absent page estimate is derived from the word count.
func (c *Client) FetchContent(ctx context.Context, query string) (*BookContent, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("query is required")
	}

	c.rateLimiter.wait()

	fetchURL := fmt.Sprintf("%s/books/search-and-read?query=%s", c.baseURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fetchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "Litty/1.0 (https://github.com/littyapp/litty)")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch book content: %w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := decodeDetail(resp)
		if detail != "" {
			return nil, fmt.Errorf("status %d (%s): %w", resp.StatusCode, detail, ErrUnavailable)
		}
		return nil, fmt.Errorf("status %d: %w", resp.StatusCode, ErrUnavailable)
	}

	var payload searchAndReadResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return normalize(query, &payload)
}

// PopularBooks lists the service's recommended titles.
func (c *Client) PopularBooks(ctx context.Context) ([]BookSummary, error) {
	c.rateLimiter.wait()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/books/popular-books", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "Litty/1.0 (https://github.com/littyapp/litty)")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch popular books: %w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d: %w", resp.StatusCode, ErrUnavailable)
	}

	var books []BookSummary
	if err := json.NewDecoder(resp.Body).Decode(&books); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return books, nil
}

// normalize validates the uncontrolled backend shape into a fixed result.
func normalize(query string, payload *searchAndReadResponse) (*BookContent, error) {
	if strings.TrimSpace(payload.Content) == "" {
		return nil, fmt.Errorf("%q: %w", query, ErrEmptyContent)
	}

	result := &BookContent{
		Title:          strings.TrimSpace(payload.Book.Title),
		Author:         strings.TrimSpace(payload.Book.Author),
		FullText:       payload.Content,
		WordCount:      payload.WordCount,
		EstimatedPages: payload.EstimatedPages,
		Source:         payload.Source,
	}

	if result.Title == "" {
		result.Title = query
	}
	if result.Author == "" {
		result.Author = "Unknown"
	}
	if result.WordCount <= 0 {
		result.WordCount = len(strings.Fields(payload.Content))
	}
	if result.EstimatedPages <= 0 {
		result.EstimatedPages = EstimatePages(result.WordCount)
	}

	return result, nil
}

// EstimatePages derives a page count from a word count when the backend
// does not provide one: 250 words per page, never fewer than 50 pages.
func EstimatePages(wordCount int) int {
	pages := (wordCount + 249) / 250
	if pages < 50 {
		pages = 50
	}
	return pages
}

func decodeDetail(resp *http.Response) string {
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return ""
	}
	return body.Detail
}

// Backend response types (internal)

type searchAndReadResponse struct {
	Book           bookRef `json:"book"`
	Content        string  `json:"content"`
	WordCount      int     `json:"word_count"`
	EstimatedPages int     `json:"estimated_pages"`
	Source         string  `json:"source"`
}

type bookRef struct {
	Title  string `json:"title"`
	Author string `json:"author"`
}
