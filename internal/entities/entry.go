package entities

import (
	"time"
)

// Entry is a single persisted key-value pair. The whole library collection is
// serialized under one key, scalar user state lives under its own keys.
type Entry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"uniqueIndex;size:100" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Entry) TableName() string {
	return "entries"
}

// Well-known entry keys. The names are carried over from the original web
// client so an exported state dump stays recognizable.
const (
	// KeyLibrary holds the entire library collection as one JSON blob.
	// Writes replace the whole value; last writer wins.
	KeyLibrary = "littyLibrary"

	KeyUsername = "littyUsername"
	KeyUserID   = "littyUserID"
	KeyEmail    = "littyEmail"
	KeyToken    = "littyToken"

	// KeyStreak caches the most recent streak summary fetched from the
	// backend so it can be served while the backend is unreachable.
	KeyStreak = "littyStreak"
)
