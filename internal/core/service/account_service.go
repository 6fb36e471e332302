package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/buscaroli/shifts-api/internal/core/domain"
	"github.com/buscaroli/shifts-api/internal/core/ports"
)

// AccountService implements signup, login, logout and profile management.
type AccountService struct {
	users    ports.UserRepository
	shifts   ports.ShiftRepository
	hasher   ports.PasswordHasher
	tokens   ports.TokenIssuer
	validate *validator.Validate
	log      zerolog.Logger
	now      func() time.Time
}

func NewAccountService(
	users ports.UserRepository,
	shifts ports.ShiftRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenIssuer,
	log zerolog.Logger,
) *AccountService {
	return &AccountService{
		users:    users,
		shifts:   shifts,
		hasher:   hasher,
		tokens:   tokens,
		validate: validator.New(),
		log:      log,
		now:      time.Now,
	}
}

// Signup creates the account, then opens its first session.
func (s *AccountService) Signup(ctx context.Context, in ports.SignupInput) (*ports.Session, error) {
	name, err := normalizeName(in.Name)
	if err != nil {
		return nil, err
	}
	email, err := s.normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}

	hash, err := s.hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	created, err := s.users.Create(ctx, &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Joined:       s.now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("signup: %w", err)
	}

	session, err := s.openSession(ctx, created.ID)
	if err != nil {
		return nil, fmt.Errorf("signup: %w", err)
	}

	s.log.Info().Str("user_id", created.ID).Msg("user signed up")
	return session, nil
}

// Login checks credentials and opens a new session. An unknown email and a
// wrong password both yield domain.ErrInvalidCredentials.
func (s *AccountService) Login(ctx context.Context, email, password string) (*ports.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || strings.TrimSpace(password) == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	session, err := s.openSession(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Msg("user logged in")
	return session, nil
}

// Logout ends the session identified by token, leaving other sessions intact.
func (s *AccountService) Logout(ctx context.Context, user *domain.User, token string) (domain.Profile, error) {
	updated, err := s.users.RemoveToken(ctx, user.ID, token)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("logout: %w", err)
	}
	return updated.Profile(), nil
}

// LogoutAll ends every session of user.
func (s *AccountService) LogoutAll(ctx context.Context, user *domain.User) (domain.Profile, error) {
	updated, err := s.users.ClearTokens(ctx, user.ID)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("logout all: %w", err)
	}
	s.log.Info().Str("user_id", user.ID).Msg("all sessions closed")
	return updated.Profile(), nil
}

// UpdateProfile applies an allow-listed update. Any field outside
// domain.UserUpdatableFields rejects the whole update before the store is touched.
func (s *AccountService) UpdateProfile(ctx context.Context, user *domain.User, in ports.UpdateProfileInput) (domain.Profile, error) {
	if err := domain.CheckUpdateFields(in.Fields, domain.UserUpdatableFields); err != nil {
		return domain.Profile{}, err
	}

	var changes domain.UserChanges
	if in.Name != nil {
		name, err := normalizeName(*in.Name)
		if err != nil {
			return domain.Profile{}, err
		}
		changes.Name = &name
	}
	if in.Email != nil {
		email, err := s.normalizeEmail(*in.Email)
		if err != nil {
			return domain.Profile{}, err
		}
		changes.Email = &email
	}
	if in.Password != nil {
		hash, err := s.hashPassword(*in.Password)
		if err != nil {
			return domain.Profile{}, err
		}
		changes.PasswordHash = &hash
	}

	updated, err := s.save(ctx, user.ID, changes)
	if err != nil {
		return domain.Profile{}, err
	}
	return updated.Profile(), nil
}

// DeleteAccount removes the user's shifts first, then the user.
func (s *AccountService) DeleteAccount(ctx context.Context, user *domain.User) (domain.Profile, error) {
	removed, err := s.shifts.DeleteByOwner(ctx, user.ID)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("delete account: remove shifts: %w", err)
	}

	if err := s.users.Delete(ctx, user.ID); err != nil {
		s.log.Error().Err(err).Str("user_id", user.ID).Int64("shifts_removed", removed).
			Msg("user delete failed after shifts were removed")
		return domain.Profile{}, fmt.Errorf("delete account: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Int64("shifts_removed", removed).Msg("account deleted")
	return user.Profile(), nil
}

// save is the only path that writes profile changes. Passwords reach it
// already hashed by hashPassword.
func (s *AccountService) save(ctx context.Context, id string, changes domain.UserChanges) (*domain.User, error) {
	updated, err := s.users.Update(ctx, id, changes)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return updated, nil
}

// hashPassword enforces the password policy and hashes the result.
func (s *AccountService) hashPassword(password string) (string, error) {
	password = strings.TrimSpace(password)
	if len(password) < domain.MinPasswordLength {
		return "", domain.Invalid(fmt.Sprintf("password must be at least %d characters", domain.MinPasswordLength))
	}
	return s.hasher.Hash(password)
}

func (s *AccountService) openSession(ctx context.Context, userID string) (*ports.Session, error) {
	token, err := s.tokens.Issue(userID)
	if err != nil {
		return nil, err
	}

	user, err := s.users.AddToken(ctx, userID, token)
	if err != nil {
		return nil, fmt.Errorf("store token: %w", err)
	}
	return &ports.Session{Profile: user.Profile(), Token: token}, nil
}

func (s *AccountService) normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := s.validate.Var(email, "required,email"); err != nil {
		return "", domain.Invalid("invalid email provided")
	}
	return email, nil
}

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domain.Invalid("name is required")
	}
	return name, nil
}
