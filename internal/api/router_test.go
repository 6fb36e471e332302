package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/buscaroli/shifts-api/internal/core/domain"
	"github.com/buscaroli/shifts-api/internal/core/ports"
)

// fakeGate accepts exactly one token.
type fakeGate struct{}

func (fakeGate) Authenticate(_ context.Context, header string) (*domain.User, string, error) {
	if header != "Bearer good" {
		return nil, "", domain.ErrUnauthenticated
	}
	return &domain.User{ID: "user-1", Name: "Matt", Email: "matt@email.com"}, "good", nil
}

type fakeAccounts struct{ ports.AccountService }

func (fakeAccounts) Signup(_ context.Context, in ports.SignupInput) (*ports.Session, error) {
	if in.Email == "taken@email.com" {
		return nil, domain.ErrEmailTaken
	}
	return &ports.Session{Profile: domain.Profile{Name: in.Name, Email: in.Email}, Token: "good"}, nil
}

func (fakeAccounts) Login(context.Context, string, string) (*ports.Session, error) {
	return nil, domain.ErrInvalidCredentials
}

type fakeShifts struct{ ports.ShiftService }

func (fakeShifts) CreateShift(_ context.Context, in ports.CreateShiftInput) (*ports.CreateShiftResult, error) {
	if in.Billed < 0 {
		return nil, domain.Invalid("amount billed cannot be a negative number")
	}
	return &ports.CreateShiftResult{Shift: &domain.Shift{
		ID: "shift-1", Where: in.Where, When: time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC),
		Billed: in.Billed, Description: in.Description, Owner: in.Owner,
	}}, nil
}

func (fakeShifts) GetShift(context.Context, string, string) (*domain.Shift, error) {
	return nil, domain.ErrShiftNotFound
}

func newTestRouter(t *testing.T) *echo.Echo {
	t.Helper()
	reg := prometheus.NewRegistry()
	return NewRouter(Deps{
		Accounts:   fakeAccounts{},
		Shifts:     fakeShifts{},
		Gate:       fakeGate{},
		Logger:     zerolog.Nop(),
		Registerer: reg,
		Gatherer:   reg,
	})
}

func do(e *echo.Echo, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRouter_PublicRoutes(t *testing.T) {
	e := newTestRouter(t)

	if rec := do(e, http.MethodGet, "/", "", ""); rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "<h1>") {
		t.Errorf("landing page: %d", rec.Code)
	}
	if rec := do(e, http.MethodGet, "/health", "", ""); rec.Code != http.StatusOK {
		t.Errorf("liveness: %d", rec.Code)
	}
	if rec := do(e, http.MethodGet, "/health/ready", "", ""); rec.Code != http.StatusOK {
		t.Errorf("readiness: %d", rec.Code)
	}

	do(e, http.MethodGet, "/health", "", "")
	rec := do(e, http.MethodGet, "/metrics", "", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "shifts_http_requests_total") {
		t.Errorf("metrics: %d", rec.Code)
	}
}

func TestRouter_SignupAndErrors(t *testing.T) {
	e := newTestRouter(t)

	rec := do(e, http.MethodPost, "/users/signup", `{"name":"Matt","email":"matt@email.com","password":"mattpassword"}`, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup: expected 201, got %d %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get(echo.HeaderXRequestID) == "" {
		t.Error("expected a request id header")
	}

	rec = do(e, http.MethodPost, "/users/signup", `{"name":"Matt","email":"taken@email.com","password":"mattpassword"}`, "")
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate: expected 409, got %d", rec.Code)
	}

	rec = do(e, http.MethodPost, "/users/login", `{"email":"matt@email.com","password":"nope"}`, "")
	if rec.Code != http.StatusUnauthorized || !strings.Contains(rec.Body.String(), `"error":"invalid credentials"`) {
		t.Errorf("login: expected 401, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_ProtectedRoutesRequireToken(t *testing.T) {
	e := newTestRouter(t)

	routes := []struct{ method, path string }{
		{http.MethodPost, "/users/logout"},
		{http.MethodPost, "/users/logoutAll"},
		{http.MethodGet, "/users/me"},
		{http.MethodPatch, "/users/me"},
		{http.MethodDelete, "/users/me"},
		{http.MethodPost, "/shifts"},
		{http.MethodPost, "/shifts/add"},
		{http.MethodGet, "/shifts"},
		{http.MethodGet, "/shifts/abc"},
		{http.MethodPatch, "/shifts/abc"},
		{http.MethodDelete, "/shifts/abc"},
	}
	for _, r := range routes {
		for _, token := range []string{"", "forged"} {
			rec := do(e, r.method, r.path, "", token)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("%s %s token=%q: expected 401, got %d", r.method, r.path, token, rec.Code)
			}
			if !strings.Contains(rec.Body.String(), `"error":"please authenticate"`) {
				t.Errorf("%s %s: expected uniform message, got %s", r.method, r.path, rec.Body.String())
			}
		}
	}
}

func TestRouter_ShiftScenario(t *testing.T) {
	e := newTestRouter(t)

	rec := do(e, http.MethodPost, "/shifts/add", `{"where":"Lymington","billed":205,"description":"Locum"}`, "good")
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"owner":"user-1"`) {
		t.Errorf("owner must be the caller: %s", rec.Body.String())
	}

	rec = do(e, http.MethodPost, "/shifts", `{"billed":-1,"description":"Locum"}`, "good")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("negative billed: expected 400, got %d", rec.Code)
	}

	rec = do(e, http.MethodGet, "/shifts/does-not-exist", "", "good")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown id: expected 404, got %d", rec.Code)
	}
}
