package store

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/orgauth/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite, mongo)
// implement this and expose sub-repositories per record kind. Uniqueness of
// user emails and record ids is enforced by the driver, not by callers.
type Store interface {
	Users() Users
	Organisations() Organisations

	// ApplyMigrations brings the schema (tables or indexes) up to date.
	ApplyMigrations() error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

type Users interface {
	// GetUserByEmail is an exact-match lookup used during login.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CountByEmail returns how many users hold email (0 or 1).
	CountByEmail(ctx context.Context, email string) (int64, error)

	// CreateUser inserts a new user. A duplicate email or id returns
	// ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdatePasswordHash replaces the stored digest and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, userID string, newHash string) error
}

type Organisations interface {
	// CreateOrganisation inserts a new organisation; a duplicate id returns
	// ErrAlreadyExists.
	CreateOrganisation(ctx context.Context, o domain.Organisation) error

	// GetOrganisationByID returns ErrNotFound when absent.
	GetOrganisationByID(ctx context.Context, id string) (domain.Organisation, error)

	// ListByOwner returns the organisations owned by ownerID, oldest first.
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Organisation, error)

	// UpdateDetails changes name and description only.
	UpdateDetails(ctx context.Context, id, name, description string) error
}
