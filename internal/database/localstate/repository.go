// Package localstate provides database operations for persisted client state.
//
// # Usage
//
//	repo := localstate.NewRepository(db)
//	entry, err := repo.Get(entities.KeyUsername)
package localstate

import (
	"gorm.io/gorm"

	"github.com/littyapp/litty/internal/entities"
)

// Repository handles all key-value state database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new local state repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Get retrieves an entry by key. Returns gorm.ErrRecordNotFound when the key
// has never been written.
func (r *Repository) Get(key string) (*entities.Entry, error) {
	var entry entities.Entry
	err := r.db.Where("key = ?", key).First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Set creates or replaces an entry. The write is whole-value: there is no
// partial update, and concurrent writers are not coordinated.
func (r *Repository) Set(key, value string) error {
	var entry entities.Entry
	result := r.db.Where("key = ?", key).First(&entry)

	if result.Error == gorm.ErrRecordNotFound {
		entry = entities.Entry{
			Key:   key,
			Value: value,
		}
		return r.db.Create(&entry).Error
	} else if result.Error != nil {
		return result.Error
	}

	entry.Value = value
	return r.db.Save(&entry).Error
}

// Delete removes an entry by key.
func (r *Repository) Delete(key string) error {
	return r.db.Where("key = ?", key).Delete(&entities.Entry{}).Error
}
