package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/littyapp/litty/internal/library"
)

// RecommendedBook is a curated catalog entry. SearchQuery is the term the
// content service responds to, which can differ from the display title.
type RecommendedBook struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Cover       string `json:"cover"`
	SearchQuery string `json:"search_query"`
}

// recommendedBooks is the classics shelf shown to every user. Covers come
// from the Open Library covers API.
var recommendedBooks = []RecommendedBook{
	{
		Title:       "Dracula",
		Author:      "Bram Stoker",
		Cover:       "https://covers.openlibrary.org/b/id/10372354-M.jpg",
		SearchQuery: "dracula",
	},
	{
		Title:       "Frankenstein",
		Author:      "Mary Shelley",
		Cover:       "https://covers.openlibrary.org/b/id/8255505-M.jpg",
		SearchQuery: "frankenstein",
	},
	{
		Title:       "Pride and Prejudice",
		Author:      "Jane Austen",
		Cover:       "https://covers.openlibrary.org/b/id/8264674-M.jpg",
		SearchQuery: "pride and prejudice",
	},
	{
		Title:       "The Adventures of Sherlock Holmes",
		Author:      "Arthur Conan Doyle",
		Cover:       "https://covers.openlibrary.org/b/id/12697370-M.jpg",
		SearchQuery: "sherlock holmes",
	},
	{
		Title:       "Moby Dick",
		Author:      "Herman Melville",
		Cover:       "https://covers.openlibrary.org/b/id/8226458-M.jpg",
		SearchQuery: "moby dick",
	},
	{
		Title:       "The Odyssey",
		Author:      "Homer",
		Cover:       "https://covers.openlibrary.org/b/id/12880633-M.jpg",
		SearchQuery: "odyssey",
	},
}

// fallbackTotalPages is used when a recommended book is added without its
// content, so the reader still has a sensible page count.
const fallbackTotalPages = 300

// LibraryStats summarizes the collection.
type LibraryStats struct {
	Total     int `json:"total"`
	Started   int `json:"started"`
	Completed int `json:"completed"`
}

// LibraryService handles the business logic of growing the library: search,
// adding books with fetched content, and the curated recommendations.
type LibraryService struct {
	fetcher ContentFetcher
	store   *library.Store
}

// NewLibraryService creates a new LibraryService.
func NewLibraryService(fetcher ContentFetcher, store *library.Store) *LibraryService {
	return &LibraryService{
		fetcher: fetcher,
		store:   store,
	}
}

// Recommended returns the curated classics catalog.
func (s *LibraryService) Recommended() []RecommendedBook {
	books := make([]RecommendedBook, len(recommendedBooks))
	copy(books, recommendedBooks)
	return books
}

// AddFromSearch fetches a book by search query and adds it to the library.
// The title and author come from the content service; the cover is borrowed
// from the recommended catalog when the title matches, otherwise the default
// emoji cover is used. A title already in the library yields
// library.ErrDuplicateTitle and the collection is left untouched.
func (s *LibraryService) AddFromSearch(ctx context.Context, query string) (library.Book, error) {
	result, err := s.fetcher.FetchContent(ctx, query)
	if err != nil {
		return library.Book{}, fmt.Errorf("fetch %q: %w", query, err)
	}

	book := library.NewBook(
		result.Title,
		result.Author,
		matchCover(result.Title),
		result.EstimatedPages,
		result.FullText,
	)
	if err := s.store.Add(book); err != nil {
		return library.Book{}, err
	}
	return book, nil
}

// AddRecommended adds a book from the curated catalog, keeping the catalog's
// clean title, author and cover regardless of what the content service
// reports. A failed fetch still adds the book: it falls back to placeholder
// content and a default page count, so the shelf entry is never lost to a
// flaky upstream.
func (s *LibraryService) AddRecommended(ctx context.Context, title string) (library.Book, error) {
	rec, ok := findRecommended(title)
	if !ok {
		return library.Book{}, fmt.Errorf("%q is not a recommended book", title)
	}

	// Reject duplicates before the fetch so a stale upstream cannot delay
	// the answer.
	if _, err := s.store.FindByTitle(rec.Title); err == nil {
		return library.Book{}, fmt.Errorf("title %q: %w", rec.Title, library.ErrDuplicateTitle)
	}

	var book library.Book
	result, err := s.fetcher.FetchContent(ctx, rec.SearchQuery)
	if err == nil {
		book = library.NewBook(rec.Title, rec.Author, rec.Cover, result.EstimatedPages, result.FullText)
	} else {
		book = library.NewBook(rec.Title, rec.Author, rec.Cover, fallbackTotalPages, placeholderContent(rec))
	}

	if err := s.store.Add(book); err != nil {
		return library.Book{}, err
	}
	return book, nil
}

// CurrentlyReading returns the in-progress book to resume, or nil when no
// book is partway through. With several in progress the most recently added
// wins, matching the library's newest-first order.
func (s *LibraryService) CurrentlyReading() *library.Book {
	for _, b := range s.store.All() {
		if b.Started() && !b.Completed() {
			book := b
			return &book
		}
	}
	return nil
}

// Stats summarizes the collection for the dashboard.
func (s *LibraryService) Stats() LibraryStats {
	stats := LibraryStats{}
	for _, b := range s.store.All() {
		stats.Total++
		if b.Started() {
			stats.Started++
		}
		if b.Completed() {
			stats.Completed++
		}
	}
	return stats
}

// matchCover borrows a cover from the recommended catalog when the fetched
// title overlaps a catalog title in either direction.
func matchCover(title string) string {
	lower := strings.ToLower(title)
	for _, rec := range recommendedBooks {
		recLower := strings.ToLower(rec.Title)
		if strings.Contains(recLower, lower) || strings.Contains(lower, recLower) {
			return rec.Cover
		}
	}
	return library.DefaultCover
}

func findRecommended(title string) (RecommendedBook, bool) {
	for _, rec := range recommendedBooks {
		if strings.EqualFold(rec.Title, title) {
			return rec, true
		}
	}
	return RecommendedBook{}, false
}

func placeholderContent(rec RecommendedBook) string {
	return fmt.Sprintf(
		"# %s\n\n## by %s\n\nThis book has been added to your library. The full text content could not be loaded at this time.\n\nPlease try searching for this book to get the complete content.",
		rec.Title, rec.Author,
	)
}
