package identity

import (
	"context"

	"github.com/shopgrove/marketplace/internal/domain"
)

// Repository defines the interface for user credential storage.
type Repository interface {
	// CreateUser inserts a user and fills in the generated fields.
	// A duplicate email fails with ErrEmailExists.
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)

	// IncrementLoginCounter atomically increments the login counter of the
	// user with the given email and returns the updated record. The
	// increment happens in the store, never as read-modify-write here.
	IncrementLoginCounter(ctx context.Context, email string) (*domain.User, error)
}
