package ports

import (
	"context"

	"github.com/buscaroli/shifts-api/internal/core/domain"
)

// UserRepository defines persistence operations for users and their
// embedded session tokens.
type UserRepository interface {
	// Create inserts user and returns it with the store-assigned ID.
	// A duplicate email yields domain.ErrEmailTaken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByIDAndToken returns the user only while token is still in its
	// active token list.
	FindByIDAndToken(ctx context.Context, id, token string) (*domain.User, error)

	// AddToken, RemoveToken and ClearTokens mutate the token list atomically
	// and return the updated user.
	AddToken(ctx context.Context, id, token string) (*domain.User, error)
	RemoveToken(ctx context.Context, id, token string) (*domain.User, error)
	ClearTokens(ctx context.Context, id string) (*domain.User, error)

	Update(ctx context.Context, id string, changes domain.UserChanges) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}
