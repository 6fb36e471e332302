package ports

import (
	"context"
	"time"

	"github.com/buscaroli/shifts-api/internal/core/domain"
)

// CreateShiftInput carries a new shift. Owner is always the authenticated
// caller, never taken from the request body.
type CreateShiftInput struct {
	Owner          string
	Where          string
	When           *time.Time
	Billed         float64
	Description    string
	Paid           bool
	IdempotencyKey string
}

// UpdateShiftInput carries a shift update. Fields lists every key the client
// submitted.
type UpdateShiftInput struct {
	Fields  []string
	Changes domain.ShiftChanges
}

// CreateShiftResult is returned by CreateShift.
type CreateShiftResult struct {
	Shift *domain.Shift
	// AlreadyExisted is true when the Idempotency-Key matched an earlier create.
	AlreadyExisted bool
}

// ShiftService defines owner-scoped shift use cases.
type ShiftService interface {
	CreateShift(ctx context.Context, in CreateShiftInput) (*CreateShiftResult, error)
	GetShift(ctx context.Context, owner, id string) (*domain.Shift, error)
	ListShifts(ctx context.Context, filter domain.ShiftFilter) ([]*domain.Shift, error)
	UpdateShift(ctx context.Context, owner, id string, in UpdateShiftInput) (*domain.Shift, error)
	DeleteShift(ctx context.Context, owner, id string) (*domain.Shift, error)
}
