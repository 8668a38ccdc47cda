package library

import (
	"time"

	"github.com/google/uuid"
)

// DefaultCover is used when no cover image URL is known for a book.
const DefaultCover = "📖"

// Book is one owned record in the personal library. ID is assigned at add
// time and never changes; TotalPages is fixed when the book is added.
type Book struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Author     string     `json:"author"`
	Cover      string     `json:"cover"` // image URL or a short glyph placeholder
	TotalPages int        `json:"totalPages"`
	PagesRead  int        `json:"pagesRead"`
	Content    string     `json:"content"` // full text cached at add time; may be stale
	LastRead   *time.Time `json:"lastRead"`
	AddedAt    time.Time  `json:"addedAt"`
}

// NewBook builds a library record with a fresh ID and zero progress.
func NewBook(title, author, cover string, totalPages int, content string) Book {
	if cover == "" {
		cover = DefaultCover
	}
	if totalPages < 1 {
		totalPages = 1
	}
	return Book{
		ID:         uuid.NewString(),
		Title:      title,
		Author:     author,
		Cover:      cover,
		TotalPages: totalPages,
		Content:    content,
		AddedAt:    time.Now(),
	}
}

// ProgressPercent returns the rounded completion percentage for display.
func (b Book) ProgressPercent() int {
	if b.TotalPages <= 0 {
		return 0
	}
	return int(float64(b.PagesRead)/float64(b.TotalPages)*100 + 0.5)
}

// Started reports whether any reading progress has been made.
func (b Book) Started() bool {
	return b.PagesRead > 0
}

// Completed reports whether the whole book has been read.
func (b Book) Completed() bool {
	return b.PagesRead >= b.TotalPages
}
