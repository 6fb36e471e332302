package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/buscaroli/shifts-api/internal/core/domain"
	"github.com/buscaroli/shifts-api/internal/core/ports"
)

// IdempotencyStore remembers which shift an Idempotency-Key produced (Redis).
type IdempotencyStore interface {
	Lookup(ctx context.Context, owner, key string) (shiftID string, found bool, err error)
	Remember(ctx context.Context, owner, key, shiftID string) error
}

type ShiftService struct {
	repo        ports.ShiftRepository
	idempotency IdempotencyStore
	logger      zerolog.Logger
	now         func() time.Time
}

// NewShiftService returns a ShiftService. idempotency may be nil, in which
// case Idempotency-Key is ignored.
func NewShiftService(repo ports.ShiftRepository, idempotency IdempotencyStore, logger zerolog.Logger) *ShiftService {
	return &ShiftService{repo: repo, idempotency: idempotency, logger: logger, now: time.Now}
}

// CreateShift stores a new shift owned by in.Owner. If an idempotency key is
// provided and already seen for this owner, the earlier shift is returned
// without side effects.
func (s *ShiftService) CreateShift(ctx context.Context, in ports.CreateShiftInput) (*ports.CreateShiftResult, error) {
	if in.Owner == "" {
		return nil, domain.ErrUnauthenticated
	}

	if existing := s.replay(ctx, in.Owner, in.IdempotencyKey); existing != nil {
		return &ports.CreateShiftResult{Shift: existing, AlreadyExisted: true}, nil
	}

	shift := &domain.Shift{
		Owner:       in.Owner,
		Where:       strings.TrimSpace(in.Where),
		When:        domain.DateOf(s.now()),
		Billed:      in.Billed,
		Description: in.Description,
		Paid:        in.Paid,
	}
	if in.When != nil {
		shift.When = domain.DateOf(*in.When)
	}
	if err := shift.Validate(); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, shift)
	if err != nil {
		s.logger.Error().Err(err).Str("owner", in.Owner).Msg("failed to create shift")
		return nil, fmt.Errorf("create shift: %w", err)
	}

	if in.IdempotencyKey != "" && s.idempotency != nil {
		if err := s.idempotency.Remember(ctx, in.Owner, in.IdempotencyKey, created.ID); err != nil {
			s.logger.Warn().Err(err).Str("idempotency_key", in.IdempotencyKey).Msg("failed to record idempotency key")
		}
	}

	s.logger.Info().Str("shift_id", created.ID).Str("owner", in.Owner).Msg("shift created")
	return &ports.CreateShiftResult{Shift: created}, nil
}

// replay returns the shift an earlier request with the same key created, or
// nil. Store failures are logged and treated as a miss.
func (s *ShiftService) replay(ctx context.Context, owner, key string) *domain.Shift {
	if key == "" || s.idempotency == nil {
		return nil
	}

	id, found, err := s.idempotency.Lookup(ctx, owner, key)
	if err != nil {
		s.logger.Warn().Err(err).Str("idempotency_key", key).Msg("idempotency lookup failed, creating anyway")
		return nil
	}
	if !found {
		return nil
	}

	existing, err := s.GetShift(ctx, owner, id)
	if err != nil {
		s.logger.Debug().Err(err).Str("idempotency_key", key).Msg("idempotency key points at a missing shift")
		return nil
	}

	s.logger.Info().Str("idempotency_key", key).Str("shift_id", id).Msg("idempotent replay")
	return existing
}

// GetShift returns the shift only if owner owns it. A shift owned by someone
// else is reported as not found.
func (s *ShiftService) GetShift(ctx context.Context, owner, id string) (*domain.Shift, error) {
	shift, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if shift.Owner != owner {
		return nil, domain.ErrShiftNotFound
	}
	return shift, nil
}

// ListShifts returns the owner's shifts, optionally narrowed by paid status.
func (s *ShiftService) ListShifts(ctx context.Context, filter domain.ShiftFilter) ([]*domain.Shift, error) {
	if filter.Owner == "" {
		return nil, domain.ErrUnauthenticated
	}

	shifts, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list shifts: %w", err)
	}
	return shifts, nil
}

// UpdateShift applies an allow-listed update to a shift the owner owns.
// Disallowed fields and rule violations are rejected before any write.
func (s *ShiftService) UpdateShift(ctx context.Context, owner, id string, in ports.UpdateShiftInput) (*domain.Shift, error) {
	if err := domain.CheckUpdateFields(in.Fields, domain.ShiftUpdatableFields); err != nil {
		return nil, err
	}

	current, err := s.GetShift(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	changes := in.Changes
	if changes.Where != nil {
		where := strings.TrimSpace(*changes.Where)
		changes.Where = &where
	}
	if changes.When != nil {
		day := domain.DateOf(*changes.When)
		changes.When = &day
	}

	preview := *current
	changes.Apply(&preview)
	if err := preview.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, id, owner, changes)
	if err != nil {
		if errors.Is(err, domain.ErrShiftNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update shift: %w", err)
	}
	return updated, nil
}

// DeleteShift removes a shift the owner owns and returns it.
func (s *ShiftService) DeleteShift(ctx context.Context, owner, id string) (*domain.Shift, error) {
	current, err := s.GetShift(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Delete(ctx, id, owner); err != nil {
		if errors.Is(err, domain.ErrShiftNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("delete shift: %w", err)
	}

	s.logger.Info().Str("shift_id", id).Str("owner", owner).Msg("shift deleted")
	return current, nil
}
