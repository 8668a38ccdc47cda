// Package session drives one reading session at a time: open a book, page
// through it, persist forward progress, detect completion.
//
// The controller is a small state machine, Closed -> Opening -> Ready, and
// loops on page turns while Ready. Opening covers the content fetch; page
// navigation is rejected until the fetch settles. A fetch that loses a race
// with Close (or a newer Open) is discarded, never applied to a session it
// no longer belongs to.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/littyapp/litty/internal/content"
	"github.com/littyapp/litty/internal/library"
	"github.com/littyapp/litty/internal/paginate"
)

// State names the controller's lifecycle phase.
type State string

const (
	StateClosed  State = "closed"
	StateOpening State = "opening"
	StateReady   State = "ready"
)

// PlaceholderContent is shown when neither a fresh fetch nor cached text is
// available. A session must never be left unreadable.
const PlaceholderContent = "Content not available. Please try searching for this book again."

var (
	// ErrNotReady is returned for page navigation outside the Ready state.
	ErrNotReady = errors.New("no readable session open")

	// ErrFirstPage is returned when paging back from the first page.
	ErrFirstPage = errors.New("already at the first page")

	// ErrLastPage is returned when paging past the final page. The session
	// stays open for re-reading; completion is signaled separately.
	ErrLastPage = errors.New("already at the last page")
)

// ContentFetcher retrieves the full text for a book title.
type ContentFetcher interface {
	FetchContent(ctx context.Context, query string) (*content.BookContent, error)
}

// ProgressStore is the slice of the library the session needs: book lookup
// and progress persistence.
type ProgressStore interface {
	FindByID(id string) (*library.Book, error)
	UpdateProgress(id string, pagesRead int) error
}

// Summary describes a finished session, reported back on Close.
type Summary struct {
	BookID     string
	Title      string
	PagesRead  int // pages of forward progress made during this session
	Duration   time.Duration
	Completed  bool
	FromCache  bool // true when the session ran on cached or placeholder text
}

// Controller holds the single active reading session for this process.
type Controller struct {
	fetcher ContentFetcher
	store   ProgressStore
	now     func() time.Time

	mu          sync.Mutex
	state       State
	gen         uint64 // bumped on every Open/Close; stale fetches check it
	book        library.Book
	index       int
	pagesRead   int
	openedPages int // PagesRead at open time, for the close summary
	text        string
	fromCache   bool
	openedAt    time.Time
}

// NewController creates a controller in the Closed state.
func NewController(fetcher ContentFetcher, store ProgressStore) *Controller {
	return &Controller{
		fetcher: fetcher,
		store:   store,
		now:     time.Now,
		state:   StateClosed,
	}
}

// Open starts a session on the given library book. The current page resumes
// at the book's saved progress. The content fetch happens inline; on failure
// the session falls back to the book's cached content or a placeholder, so
// Open only errors when the book itself is unknown.
func (c *Controller) Open(ctx context.Context, bookID string) error {
	book, err := c.store.FindByID(bookID)
	if err != nil {
		return fmt.Errorf("open session: %w", err)
	}

	c.mu.Lock()
	c.state = StateOpening
	c.gen++
	gen := c.gen
	c.book = *book
	c.book.TotalPages = paginate.PageCount(c.book.TotalPages)
	c.pagesRead = c.book.PagesRead
	c.openedPages = c.book.PagesRead
	c.index = c.book.PagesRead
	if c.index > c.book.TotalPages-1 {
		c.index = c.book.TotalPages - 1
	}
	c.text = ""
	c.openedAt = c.now()
	title := c.book.Title
	c.mu.Unlock()

	fetched, fetchErr := c.fetcher.FetchContent(ctx, title)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen || c.state != StateOpening {
		// The session was closed or reopened mid-fetch; drop the result.
		return nil
	}

	switch {
	case fetchErr == nil && fetched != nil && fetched.FullText != "":
		c.text = fetched.FullText
		c.fromCache = false
	case book.Content != "":
		c.text = book.Content
		c.fromCache = true
	default:
		c.text = PlaceholderContent
		c.fromCache = true
	}
	c.state = StateReady
	return nil
}

// NextPage advances the session by one page and persists the new high-water
// progress mark. At the final page it returns ErrLastPage and the session
// stays open; completion is reported by Completed.
func (c *Controller) NextPage() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateReady {
		return "", ErrNotReady
	}
	if c.index+1 >= c.book.TotalPages {
		return "", ErrLastPage
	}

	c.index++
	if c.index > c.pagesRead {
		c.pagesRead = c.index
		if err := c.store.UpdateProgress(c.book.ID, c.pagesRead); err != nil {
			return "", fmt.Errorf("persist progress: %w", err)
		}
	}

	return paginate.Page(c.text, c.book.TotalPages, c.index), nil
}

// PreviousPage steps back one page. Reading progress never regresses.
func (c *Controller) PreviousPage() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateReady {
		return "", ErrNotReady
	}
	if c.index == 0 {
		return "", ErrFirstPage
	}

	c.index--
	return paginate.Page(c.text, c.book.TotalPages, c.index), nil
}

// Page returns the current page content.
func (c *Controller) Page() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateReady {
		return "", ErrNotReady
	}
	return paginate.Page(c.text, c.book.TotalPages, c.index), nil
}

// Completed reports whether the session sits on the final page. This is the
// sole completion signal; there is no separate finished state.
func (c *Controller) Completed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == StateReady && c.index+1 == c.book.TotalPages
}

// State returns the current lifecycle phase.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// View is a snapshot of the session for presentation.
type View struct {
	State       State  `json:"state"`
	BookID      string `json:"book_id,omitempty"`
	Title       string `json:"title,omitempty"`
	Author      string `json:"author,omitempty"`
	PageIndex   int    `json:"page_index"`
	TotalPages  int    `json:"total_pages"`
	Page        string `json:"page"`
	PagesRead   int    `json:"pages_read"`
	Completed   bool   `json:"completed"`
	FromCache   bool   `json:"from_cache"`
}

// Snapshot returns the session view. Outside Ready the page text is empty.
func (c *Controller) Snapshot() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	view := View{State: c.state}
	if c.state == StateClosed {
		return view
	}

	view.BookID = c.book.ID
	view.Title = c.book.Title
	view.Author = c.book.Author
	view.PageIndex = c.index
	view.TotalPages = c.book.TotalPages
	view.PagesRead = c.pagesRead
	if c.state == StateReady {
		view.Page = paginate.Page(c.text, c.book.TotalPages, c.index)
		view.Completed = c.index+1 == c.book.TotalPages
		view.FromCache = c.fromCache
	}
	return view
}

// Close ends the session and discards its ephemeral state. Persisted
// progress keeps whatever NextPage already wrote. The returned summary
// feeds the reading-log reporter; closing a closed session yields a zero
// summary.
func (c *Controller) Close() Summary {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateClosed {
		return Summary{}
	}

	summary := Summary{
		BookID:    c.book.ID,
		Title:     c.book.Title,
		PagesRead: c.pagesRead - c.openedPages,
		Duration:  c.now().Sub(c.openedAt),
		Completed: c.state == StateReady && c.index+1 == c.book.TotalPages,
		FromCache: c.fromCache,
	}

	c.gen++
	c.state = StateClosed
	c.book = library.Book{}
	c.text = ""
	c.index = 0
	c.pagesRead = 0
	c.openedPages = 0
	c.fromCache = false
	return summary
}
