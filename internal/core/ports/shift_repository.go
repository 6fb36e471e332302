package ports

import (
	"context"

	"github.com/buscaroli/shifts-api/internal/core/domain"
)

// ShiftRepository defines persistence operations for shifts.
type ShiftRepository interface {
	Create(ctx context.Context, shift *domain.Shift) (*domain.Shift, error)
	FindByID(ctx context.Context, id string) (*domain.Shift, error)
	List(ctx context.Context, filter domain.ShiftFilter) ([]*domain.Shift, error)
	// Update and Delete match on both id and owner.
	Update(ctx context.Context, id, owner string, changes domain.ShiftChanges) (*domain.Shift, error)
	Delete(ctx context.Context, id, owner string) error
	// DeleteByOwner removes every shift owned by owner and reports how many went.
	DeleteByOwner(ctx context.Context, owner string) (int64, error)
}
