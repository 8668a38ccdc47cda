// Package librarystore persists the library collection as a single JSON
// blob under the well-known littyLibrary key. A write replaces the entire
// serialized collection; there is no per-record update or transaction log.
package librarystore

import (
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/littyapp/litty/internal/database/localstate"
	"github.com/littyapp/litty/internal/entities"
	"github.com/littyapp/litty/internal/library"
)

// Repository implements library.Repository over the key-value state table.
type Repository struct {
	state *localstate.Repository
}

// NewRepository creates a blob-backed library repository.
func NewRepository(state *localstate.Repository) *Repository {
	return &Repository{state: state}
}

// Load deserializes the stored collection. A never-written key yields an
// empty library, not an error.
func (r *Repository) Load() ([]library.Book, error) {
	entry, err := r.state.Get(entities.KeyLibrary)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read library blob: %w", err)
	}

	var books []library.Book
	if err := json.Unmarshal([]byte(entry.Value), &books); err != nil {
		return nil, fmt.Errorf("decode library blob: %w", err)
	}
	return books, nil
}

// ReplaceAll serializes the whole collection and overwrites the stored blob.
func (r *Repository) ReplaceAll(books []library.Book) error {
	if books == nil {
		books = []library.Book{}
	}
	data, err := json.Marshal(books)
	if err != nil {
		return fmt.Errorf("encode library blob: %w", err)
	}
	if err := r.state.Set(entities.KeyLibrary, string(data)); err != nil {
		return fmt.Errorf("write library blob: %w", err)
	}
	return nil
}
