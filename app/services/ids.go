package services

import (
	"crypto/rand"

	"github.com/google/uuid"
	"github.com/oklog/ulid"
	"github.com/pkg/errors"
)

// ID formats accepted by NewIDGenerator.
const (
	IDFormatUUID = "uuid"
	IDFormatULID = "ulid"
)

// IDGenerator hands out post ids. Implementations must be safe for concurrent use.
type IDGenerator interface {
	NewID() string
}

// IDGeneratorFunc adapts a function to IDGenerator.
type IDGeneratorFunc func() string

func (f IDGeneratorFunc) NewID() string {
	return f()
}

// NewUUIDGenerator returns random version 4 UUIDs.
func NewUUIDGenerator() IDGenerator {
	return IDGeneratorFunc(func() string {
		return uuid.New().String()
	})
}

// NewULIDGenerator returns ULIDs, which sort by creation time.
func NewULIDGenerator() IDGenerator {
	return IDGeneratorFunc(func() string {
		return ulid.MustNew(ulid.Now(), rand.Reader).String()
	})
}

// NewIDGenerator returns the generator for the named format.
func NewIDGenerator(format string) (IDGenerator, error) {
	switch format {
	case "", IDFormatUUID:
		return NewUUIDGenerator(), nil
	case IDFormatULID:
		return NewULIDGenerator(), nil
	default:
		return nil, errors.Errorf("unknown id format %q", format)
	}
}
