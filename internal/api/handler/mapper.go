package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/buscaroli/shifts-api/internal/core/domain"
	"github.com/buscaroli/shifts-api/internal/core/ports"
)

const maxPatchBytes = 64 << 10

// --- Request → Service input ---

// decodePatch decodes a PATCH body into dst and returns every top-level key
// the client sent, sorted, so the allow-list can see fields dst ignores.
func decodePatch(c echo.Context, dst any) ([]string, error) {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxPatchBytes))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	fields := make([]string, 0, len(raw))
	for key, value := range raw {
		if bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
			return nil, domain.Invalid(key + " cannot be null")
		}
		fields = append(fields, key)
	}
	sort.Strings(fields)

	if err := json.Unmarshal(body, dst); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return fields, nil
}

func toSignupInput(req signupRequest) ports.SignupInput {
	return ports.SignupInput{Name: req.Name, Email: req.Email, Password: req.Password}
}

func toUpdateProfileInput(fields []string, req updateProfileRequest) ports.UpdateProfileInput {
	return ports.UpdateProfileInput{
		Fields:   fields,
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	}
}

func toCreateShiftInput(req createShiftRequest, owner, idempotencyKey string) (ports.CreateShiftInput, error) {
	in := ports.CreateShiftInput{
		Owner:          owner,
		Where:          req.Where,
		Description:    req.Description,
		Paid:           req.Paid,
		IdempotencyKey: idempotencyKey,
	}
	if req.Billed != nil {
		in.Billed = *req.Billed
	}
	if req.When != "" {
		when, err := domain.ParseShiftDate(req.When)
		if err != nil {
			return ports.CreateShiftInput{}, err
		}
		in.When = &when
	}
	return in, nil
}

func toUpdateShiftInput(fields []string, req updateShiftRequest) (ports.UpdateShiftInput, error) {
	changes := domain.ShiftChanges{
		Where:       req.Where,
		Billed:      req.Billed,
		Description: req.Description,
		Paid:        req.Paid,
	}
	if req.When != nil {
		when, err := domain.ParseShiftDate(*req.When)
		if err != nil {
			return ports.UpdateShiftInput{}, err
		}
		changes.When = &when
	}
	return ports.UpdateShiftInput{Fields: fields, Changes: changes}, nil
}

// --- Service result → HTTP response ---

func toProfileResponse(p domain.Profile) profileResponse {
	return profileResponse{Name: p.Name, Email: p.Email, Joined: p.Joined.UTC().Truncate(time.Millisecond)}
}

func toSessionResponse(s *ports.Session) sessionResponse {
	return sessionResponse{User: toProfileResponse(s.Profile), Token: s.Token}
}

func toShiftResponse(s *domain.Shift) shiftResponse {
	return shiftResponse{
		ID:          s.ID,
		Where:       s.Where,
		When:        domain.FormatShiftDate(s.When),
		Billed:      s.Billed,
		Description: s.Description,
		Paid:        s.Paid,
		Owner:       s.Owner,
	}
}

func toShiftResponses(shifts []*domain.Shift) []shiftResponse {
	out := make([]shiftResponse, len(shifts))
	for i, s := range shifts {
		out[i] = toShiftResponse(s)
	}
	return out
}
