// Package library holds the user's persisted book collection and reading
// progress. The collection is an ordered sequence, newest first, persisted
// whole through a Repository: every mutation rewrites the full serialized
// blob, so the last writer wins. Per-record persistence can be introduced
// later by swapping the Repository implementation without touching callers.
package library

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

var (
	// ErrDuplicateTitle is returned by Add when a book with the same title
	// (case-insensitive) is already in the library.
	ErrDuplicateTitle = errors.New("book title already in library")

	// ErrNotFound is returned by lookups when no book matches.
	ErrNotFound = errors.New("book not found in library")
)

// Repository persists the whole collection as one unit. Load returns the
// ordered sequence (nil when nothing was ever saved); ReplaceAll overwrites
// whatever was stored before.
type Repository interface {
	Load() ([]Book, error)
	ReplaceAll(books []Book) error
}

// Store is the in-process view of the library. All operations are
// synchronous whole-collection read/modify/persist; the store is safe for
// concurrent use from HTTP handlers, but writers across processes are not
// coordinated.
type Store struct {
	mu    sync.RWMutex
	repo  Repository
	books []Book
	now   func() time.Time
}

// NewStore loads the persisted collection and returns a store over it.
func NewStore(repo Repository) (*Store, error) {
	books, err := repo.Load()
	if err != nil {
		return nil, fmt.Errorf("load library: %w", err)
	}
	return &Store{repo: repo, books: books, now: time.Now}, nil
}

// Add prepends a new book. It fails with ErrDuplicateTitle, leaving the
// store untouched, when a book with the same title already exists.
func (s *Store) Add(book Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range s.books {
		if strings.EqualFold(b.Title, book.Title) {
			return fmt.Errorf("%q: %w", book.Title, ErrDuplicateTitle)
		}
	}

	updated := append([]Book{book}, s.books...)
	if err := s.repo.ReplaceAll(updated); err != nil {
		return fmt.Errorf("persist library: %w", err)
	}
	s.books = updated
	return nil
}

// Remove deletes the book with the given id. Removing an unknown id is a
// no-op, not an error.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := make([]Book, 0, len(s.books))
	found := false
	for _, b := range s.books {
		if b.ID == id {
			found = true
			continue
		}
		updated = append(updated, b)
	}
	if !found {
		return nil
	}

	if err := s.repo.ReplaceAll(updated); err != nil {
		return fmt.Errorf("persist library: %w", err)
	}
	s.books = updated
	return nil
}

// UpdateProgress sets the pages-read counter for a book, clamped into
// [0, TotalPages], and stamps LastRead. Unknown ids are a no-op.
func (s *Store) UpdateProgress(id string, pagesRead int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, b := range s.books {
		if b.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil
	}

	updated := make([]Book, len(s.books))
	copy(updated, s.books)

	book := &updated[idx]
	if pagesRead < 0 {
		pagesRead = 0
	}
	if pagesRead > book.TotalPages {
		pagesRead = book.TotalPages
	}
	book.PagesRead = pagesRead
	now := s.now()
	book.LastRead = &now

	if err := s.repo.ReplaceAll(updated); err != nil {
		return fmt.Errorf("persist library: %w", err)
	}
	s.books = updated
	return nil
}

// All returns a copy of the collection in insertion order, newest first.
func (s *Store) All() []Book {
	s.mu.RLock()
	defer s.mu.RUnlock()

	books := make([]Book, len(s.books))
	copy(books, s.books)
	return books
}

// FindByID returns the book with the given id.
func (s *Store) FindByID(id string) (*Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, b := range s.books {
		if b.ID == id {
			book := b
			return &book, nil
		}
	}
	return nil, fmt.Errorf("id %s: %w", id, ErrNotFound)
}

// FindByTitle returns the book matching the title, case-insensitively.
func (s *Store) FindByTitle(title string) (*Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, b := range s.books {
		if strings.EqualFold(b.Title, title) {
			book := b
			return &book, nil
		}
	}
	return nil, fmt.Errorf("title %q: %w", title, ErrNotFound)
}

// Len returns the number of books in the library.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.books)
}
