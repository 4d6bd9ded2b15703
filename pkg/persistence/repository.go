package persistence

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when no entity matches a key.
	ErrNotFound = errors.New("persistence: not found")
	// ErrConflict is returned when a versioned save carries a stale version.
	ErrConflict = errors.New("persistence: version conflict")
)

// Repository is the storage contract consumed by CRUD surfaces.
type Repository[T any] interface {
	Find(ctx context.Context, key any) (*T, error)
	List(ctx context.Context) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	Delete(ctx context.Context, key any) error
}
