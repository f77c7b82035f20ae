package store

import (
	"time"

	"gorm.io/gorm"
)

// Store owns all entity state. It is constructed once at startup with the
// database handle and passed to every handler; nothing in this package reads
// package-level state.
type Store struct {
	db *gorm.DB
}

// New creates a Store bound to db
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle for read-only report queries in tests
func (s *Store) DB() *gorm.DB {
	return s.db
}

func timeOrNow(t *time.Time) time.Time {
	if t != nil {
		return *t
	}
	return time.Now()
}
