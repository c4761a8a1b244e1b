package repositories

import (
	"github.com/pkg/errors"
)

var (
	ErrNotFound    = errors.New("record not found")
	ErrDuplicateID = errors.New("duplicate id")
)

// Store kinds accepted by New.
const (
	StoreMemory = "memory"
	StoreBadger = "badger"
)

// New returns the post repository for the given store kind.
func New(kind string) (PostRepository, error) {
	switch kind {
	case "", StoreMemory:
		return NewMemoryPostRepository(), nil
	case StoreBadger:
		return NewBadgerPostRepository()
	default:
		return nil, errors.Errorf("unknown store %q", kind)
	}
}
