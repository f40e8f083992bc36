// Package store persists registrations. Two implementations exist: an
// in-memory store for tests and credential-less development, and the
// PostgreSQL store used in deployments.
package store

import (
	"context"

	"skibazar/internal/registration/models"
)

// Store is the persistence contract for registrations. Implementations
// return sentinel.ErrNotFound for unknown identifiers and keep each
// operation atomic: a failed Create or Replace must not leave a partial
// item list visible to subsequent reads.
type Store interface {
	Create(ctx context.Context, reg *models.Registration) error
	GetByIdentifier(ctx context.Context, identifier string) (*models.Registration, error)
	Replace(ctx context.Context, reg *models.Registration) error
	ListAll(ctx context.Context) ([]*models.Registration, error)
}
