package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/buscaroli/shifts-api/internal/core/domain"
	"github.com/buscaroli/shifts-api/internal/infrastructure/security"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// In-memory user repository
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users     map[string]*domain.User
	seq       int
	updateErr error
	deleteErr error
	updates   int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.Tokens = append([]string(nil), u.Tokens...)
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	r.seq++
	stored := cloneUser(user)
	stored.ID = fmt.Sprintf("user-%d", r.seq)
	r.users[stored.ID] = stored
	return cloneUser(stored), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByIDAndToken(_ context.Context, id, token string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok || !u.HasToken(token) {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) AddToken(_ context.Context, id, token string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.Tokens = append(u.Tokens, token)
	return cloneUser(u), nil
}

func (r *stubUserRepo) RemoveToken(_ context.Context, id, token string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	kept := u.Tokens[:0]
	for _, t := range u.Tokens {
		if t != token {
			kept = append(kept, t)
		}
	}
	u.Tokens = kept
	return cloneUser(u), nil
}

func (r *stubUserRepo) ClearTokens(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.Tokens = []string{}
	return cloneUser(u), nil
}

func (r *stubUserRepo) Update(_ context.Context, id string, c domain.UserChanges) (*domain.User, error) {
	r.updates++
	if r.updateErr != nil {
		return nil, r.updateErr
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if c.Email != nil {
		for otherID, other := range r.users {
			if otherID != id && other.Email == *c.Email {
				return nil, domain.ErrEmailTaken
			}
		}
		u.Email = *c.Email
	}
	if c.Name != nil {
		u.Name = *c.Name
	}
	if c.PasswordHash != nil {
		u.PasswordHash = *c.PasswordHash
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

// ---------------------------------------------------------------------------
// In-memory shift repository
// ---------------------------------------------------------------------------

type stubShiftRepo struct {
	shifts    map[string]*domain.Shift
	seq       int
	createErr error
	deleteErr error
	writes    int
}

func newStubShiftRepo() *stubShiftRepo {
	return &stubShiftRepo{shifts: make(map[string]*domain.Shift)}
}

func (r *stubShiftRepo) Create(_ context.Context, s *domain.Shift) (*domain.Shift, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.writes++
	r.seq++
	clone := *s
	clone.ID = fmt.Sprintf("shift-%d", r.seq)
	r.shifts[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubShiftRepo) FindByID(_ context.Context, id string) (*domain.Shift, error) {
	s, ok := r.shifts[id]
	if !ok {
		return nil, domain.ErrShiftNotFound
	}
	clone := *s
	return &clone, nil
}

func (r *stubShiftRepo) List(_ context.Context, f domain.ShiftFilter) ([]*domain.Shift, error) {
	var out []*domain.Shift
	for _, s := range r.shifts {
		if s.Owner != f.Owner {
			continue
		}
		if f.Paid != nil && s.Paid != *f.Paid {
			continue
		}
		clone := *s
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubShiftRepo) Update(_ context.Context, id, owner string, c domain.ShiftChanges) (*domain.Shift, error) {
	r.writes++
	s, ok := r.shifts[id]
	if !ok || s.Owner != owner {
		return nil, domain.ErrShiftNotFound
	}
	c.Apply(s)
	clone := *s
	return &clone, nil
}

func (r *stubShiftRepo) Delete(_ context.Context, id, owner string) error {
	r.writes++
	s, ok := r.shifts[id]
	if !ok || s.Owner != owner {
		return domain.ErrShiftNotFound
	}
	delete(r.shifts, id)
	return nil
}

func (r *stubShiftRepo) DeleteByOwner(_ context.Context, owner string) (int64, error) {
	if r.deleteErr != nil {
		return 0, r.deleteErr
	}
	var n int64
	for id, s := range r.shifts {
		if s.Owner == owner {
			delete(r.shifts, id)
			n++
		}
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// Idempotency store
// ---------------------------------------------------------------------------

type stubIdempotency struct {
	keys      map[string]string
	lookupErr error
}

func newStubIdempotency() *stubIdempotency {
	return &stubIdempotency{keys: make(map[string]string)}
}

func (s *stubIdempotency) Lookup(_ context.Context, owner, key string) (string, bool, error) {
	if s.lookupErr != nil {
		return "", false, s.lookupErr
	}
	id, ok := s.keys[owner+":"+key]
	return id, ok, nil
}

func (s *stubIdempotency) Remember(_ context.Context, owner, key, shiftID string) error {
	s.keys[owner+":"+key] = shiftID
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var errStoreDown = errors.New("mongo unavailable")

type fixture struct {
	users    *stubUserRepo
	shifts   *stubShiftRepo
	issuer   *security.JWTIssuer
	accounts *AccountService
	gate     *AuthGate
	shiftSvc *ShiftService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	issuer, err := security.NewJWTIssuer("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("new issuer: %v", err)
	}
	users := newStubUserRepo()
	shifts := newStubShiftRepo()
	hasher := security.NewBcryptHasher(bcrypt.MinCost)

	return &fixture{
		users:    users,
		shifts:   shifts,
		issuer:   issuer,
		accounts: NewAccountService(users, shifts, hasher, issuer, discardLogger),
		gate:     NewAuthGate(users, issuer, discardLogger),
		shiftSvc: NewShiftService(shifts, newStubIdempotency(), discardLogger),
	}
}
