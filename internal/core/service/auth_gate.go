package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/buscaroli/shifts-api/internal/core/domain"
	"github.com/buscaroli/shifts-api/internal/core/ports"
)

const bearerPrefix = "Bearer "

// AuthGate resolves a bearer token to its user. A token is accepted only if
// its signature and expiry check out and it is still in the user's stored
// token list, so logged-out tokens are rejected even though they still verify.
type AuthGate struct {
	users  ports.UserRepository
	tokens ports.TokenIssuer
	log    zerolog.Logger
}

// NewAuthGate returns an AuthGate backed by users and tokens.
func NewAuthGate(users ports.UserRepository, tokens ports.TokenIssuer, log zerolog.Logger) *AuthGate {
	return &AuthGate{users: users, tokens: tokens, log: log}
}

// Authenticate checks an Authorization header value. Any failure returns
// domain.ErrUnauthenticated; the reason is logged at debug level only.
func (g *AuthGate) Authenticate(ctx context.Context, header string) (*domain.User, string, error) {
	token, ok := strings.CutPrefix(header, bearerPrefix)
	token = strings.TrimSpace(token)
	if !ok || token == "" {
		g.log.Debug().Msg("auth rejected: missing bearer token")
		return nil, "", domain.ErrUnauthenticated
	}

	userID, err := g.tokens.Verify(token)
	if err != nil {
		g.log.Debug().Err(err).Msg("auth rejected: token verification failed")
		return nil, "", domain.ErrUnauthenticated
	}

	user, err := g.users.FindByIDAndToken(ctx, userID, token)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			g.log.Error().Err(err).Str("user_id", userID).Msg("auth lookup failed")
		}
		return nil, "", domain.ErrUnauthenticated
	}

	return user, token, nil
}
