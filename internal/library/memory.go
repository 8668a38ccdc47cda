package library

// MemoryRepository keeps the collection in memory. It exists so the store
// and the reading session can be exercised without a storage backend.
type MemoryRepository struct {
	books []Book
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Load() ([]Book, error) {
	books := make([]Book, len(r.books))
	copy(books, r.books)
	return books, nil
}

func (r *MemoryRepository) ReplaceAll(books []Book) error {
	r.books = make([]Book, len(books))
	copy(r.books, books)
	return nil
}
