package ports

import (
	"context"

	"github.com/buscaroli/shifts-api/internal/core/domain"
)

// SignupInput carries the fields accepted at account creation.
type SignupInput struct {
	Name     string
	Email    string
	Password string
}

// UpdateProfileInput carries a profile update. Fields lists every key the
// client submitted so the allow-list can be enforced before anything is applied.
type UpdateProfileInput struct {
	Fields   []string
	Name     *string
	Email    *string
	Password *string
}

// Session is returned by signup and login.
type Session struct {
	Profile domain.Profile
	Token   string
}

// AccountService defines account and session lifecycle use cases.
type AccountService interface {
	Signup(ctx context.Context, in SignupInput) (*Session, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	Logout(ctx context.Context, user *domain.User, token string) (domain.Profile, error)
	LogoutAll(ctx context.Context, user *domain.User) (domain.Profile, error)
	UpdateProfile(ctx context.Context, user *domain.User, in UpdateProfileInput) (domain.Profile, error)
	DeleteAccount(ctx context.Context, user *domain.User) (domain.Profile, error)
}

// Authenticator resolves an Authorization header to the calling user and
// the raw token presented.
type Authenticator interface {
	Authenticate(ctx context.Context, header string) (*domain.User, string, error)
}
