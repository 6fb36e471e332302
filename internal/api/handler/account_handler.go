package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/buscaroli/shifts-api/internal/api/metrics"
	"github.com/buscaroli/shifts-api/internal/core/ports"
)

// AccountHandler serves the /users routes.
type AccountHandler struct {
	service ports.AccountService
}

func NewAccountHandler(service ports.AccountService) *AccountHandler {
	return &AccountHandler{service: service}
}

// Signup creates an account and opens its first session.
//
// @Summary      Sign up
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Account details"
// @Success      201   {object}  sessionResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /users/signup [post]
func (h *AccountHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := c.Validate(&req); err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("signup", metrics.Outcome(err)).Inc()
		return err
	}

	session, err := h.service.Signup(c.Request().Context(), toSignupInput(req))
	metrics.AuthAttemptsTotal.WithLabelValues("signup", metrics.Outcome(err)).Inc()
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toSessionResponse(session))
}

// Login opens a new session for valid credentials.
//
// @Summary      Log in
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /users/login [post]
func (h *AccountHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	session, err := h.service.Login(c.Request().Context(), req.Email, req.Password)
	metrics.AuthAttemptsTotal.WithLabelValues("login", metrics.Outcome(err)).Inc()
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toSessionResponse(session))
}

// Logout ends the session of the presented token.
//
// @Summary      Log out
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  profileResponse
// @Failure      401  {object}  errorResponse
// @Router       /users/logout [post]
func (h *AccountHandler) Logout(c echo.Context) error {
	user, token, err := currentUser(c)
	if err != nil {
		return err
	}

	profile, err := h.service.Logout(c.Request().Context(), user, token)
	if err != nil {
		return err
	}

	metrics.SessionsClosedTotal.WithLabelValues("single").Inc()
	return c.JSON(http.StatusOK, toProfileResponse(profile))
}

// LogoutAll ends every session of the caller.
//
// @Summary      Log out everywhere
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  profileResponse
// @Failure      401  {object}  errorResponse
// @Router       /users/logoutAll [post]
func (h *AccountHandler) LogoutAll(c echo.Context) error {
	user, _, err := currentUser(c)
	if err != nil {
		return err
	}

	profile, err := h.service.LogoutAll(c.Request().Context(), user)
	if err != nil {
		return err
	}

	metrics.SessionsClosedTotal.WithLabelValues("all").Inc()
	return c.JSON(http.StatusOK, toProfileResponse(profile))
}

// Me returns the caller's profile.
//
// @Summary      Read own profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  profileResponse
// @Failure      401  {object}  errorResponse
// @Router       /users/me [get]
func (h *AccountHandler) Me(c echo.Context) error {
	user, _, err := currentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProfileResponse(user.Profile()))
}

// UpdateMe applies an allow-listed profile update.
//
// @Summary      Update own profile
// @Description  Only name, email and password may be sent; any other key rejects the whole update.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Fields to change"
// @Success      200   {object}  profileResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /users/me [patch]
func (h *AccountHandler) UpdateMe(c echo.Context) error {
	user, _, err := currentUser(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	fields, err := decodePatch(c, &req)
	if err != nil {
		return err
	}

	profile, err := h.service.UpdateProfile(c.Request().Context(), user, toUpdateProfileInput(fields, req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProfileResponse(profile))
}

// DeleteMe deletes the caller's account and all of their shifts.
//
// @Summary      Delete own account
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  profileResponse
// @Failure      401  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /users/me [delete]
func (h *AccountHandler) DeleteMe(c echo.Context) error {
	user, _, err := currentUser(c)
	if err != nil {
		return err
	}

	profile, err := h.service.DeleteAccount(c.Request().Context(), user)
	if err != nil {
		return err
	}

	metrics.AccountsDeletedTotal.Inc()
	return c.JSON(http.StatusOK, toProfileResponse(profile))
}
