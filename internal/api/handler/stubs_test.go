package handler

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/buscaroli/shifts-api/internal/api/middleware"
	"github.com/buscaroli/shifts-api/internal/core/domain"
	"github.com/buscaroli/shifts-api/internal/core/ports"
)

type stubAccountService struct {
	signupFn        func(ctx context.Context, in ports.SignupInput) (*ports.Session, error)
	loginFn         func(ctx context.Context, email, password string) (*ports.Session, error)
	logoutFn        func(ctx context.Context, user *domain.User, token string) (domain.Profile, error)
	logoutAllFn     func(ctx context.Context, user *domain.User) (domain.Profile, error)
	updateProfileFn func(ctx context.Context, user *domain.User, in ports.UpdateProfileInput) (domain.Profile, error)
	deleteAccountFn func(ctx context.Context, user *domain.User) (domain.Profile, error)
}

func (s *stubAccountService) Signup(ctx context.Context, in ports.SignupInput) (*ports.Session, error) {
	return s.signupFn(ctx, in)
}

func (s *stubAccountService) Login(ctx context.Context, email, password string) (*ports.Session, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAccountService) Logout(ctx context.Context, user *domain.User, token string) (domain.Profile, error) {
	return s.logoutFn(ctx, user, token)
}

func (s *stubAccountService) LogoutAll(ctx context.Context, user *domain.User) (domain.Profile, error) {
	return s.logoutAllFn(ctx, user)
}

func (s *stubAccountService) UpdateProfile(ctx context.Context, user *domain.User, in ports.UpdateProfileInput) (domain.Profile, error) {
	return s.updateProfileFn(ctx, user, in)
}

func (s *stubAccountService) DeleteAccount(ctx context.Context, user *domain.User) (domain.Profile, error) {
	return s.deleteAccountFn(ctx, user)
}

type stubShiftService struct {
	createFn func(ctx context.Context, in ports.CreateShiftInput) (*ports.CreateShiftResult, error)
	getFn    func(ctx context.Context, owner, id string) (*domain.Shift, error)
	listFn   func(ctx context.Context, filter domain.ShiftFilter) ([]*domain.Shift, error)
	updateFn func(ctx context.Context, owner, id string, in ports.UpdateShiftInput) (*domain.Shift, error)
	deleteFn func(ctx context.Context, owner, id string) (*domain.Shift, error)
}

func (s *stubShiftService) CreateShift(ctx context.Context, in ports.CreateShiftInput) (*ports.CreateShiftResult, error) {
	return s.createFn(ctx, in)
}

func (s *stubShiftService) GetShift(ctx context.Context, owner, id string) (*domain.Shift, error) {
	return s.getFn(ctx, owner, id)
}

func (s *stubShiftService) ListShifts(ctx context.Context, filter domain.ShiftFilter) ([]*domain.Shift, error) {
	return s.listFn(ctx, filter)
}

func (s *stubShiftService) UpdateShift(ctx context.Context, owner, id string, in ports.UpdateShiftInput) (*domain.Shift, error) {
	return s.updateFn(ctx, owner, id, in)
}

func (s *stubShiftService) DeleteShift(ctx context.Context, owner, id string) (*domain.Shift, error) {
	return s.deleteFn(ctx, owner, id)
}

var testUser = &domain.User{ID: "user-1", Name: "Matt", Email: "matt@email.com", Tokens: []string{"tok"}}

// newContext builds an echo context for method/target with an optional JSON
// body. When authed is true the context carries testUser as the Auth
// middleware would leave it.
func newContext(t *testing.T, method, target, body string, authed bool) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	e.Validator = NewValidator()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if authed {
		c.Set(middleware.UserKey, testUser)
		c.Set(middleware.TokenKey, "tok")
	}
	return c, rec
}
