// Package inventory administers the ledger's items and slot assignments.
// All operations here require the admin group; none of them are part of the
// dispense path, but they write through the same single-row ledger
// operations it reconciles with.
package inventory

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vendstack/barkeep/internal/auth"
	"github.com/vendstack/barkeep/internal/domain"
)

type machineRepo interface {
	GetByName(ctx context.Context, name string) (*domain.Machine, error)
}

type slotRepo interface {
	Get(ctx context.Context, machineID, number int32) (*domain.Slot, error)
	UpdateCount(ctx context.Context, machineID, number, newCount int32) error
	UpdateActive(ctx context.Context, machineID, number int32, active bool) error
	UpdateItem(ctx context.Context, machineID, number, itemID int32) error
}

type itemRepo interface {
	List(ctx context.Context) ([]domain.Item, error)
	Get(ctx context.Context, id int32) (*domain.Item, error)
	Create(ctx context.Context, name string, price int32) (*domain.Item, error)
	UpdateName(ctx context.Context, id int32, name string) error
	UpdatePrice(ctx context.Context, id int32, price int32) error
	Delete(ctx context.Context, id int32) error
}

// Service provides administrative item and slot operations.
type Service struct {
	machines   machineRepo
	slots      slotRepo
	items      itemRepo
	adminGroup string
	log        *slog.Logger
}

// New creates the inventory service.
func New(machines machineRepo, slots slotRepo, items itemRepo, adminGroup string, logger *slog.Logger) *Service {
	return &Service{
		machines:   machines,
		slots:      slots,
		items:      items,
		adminGroup: adminGroup,
		log:        logger.With("service", "inventory"),
	}
}

func (s *Service) requireAdmin(caller *auth.Identity) error {
	if caller == nil {
		return domain.ErrUnauthorized
	}
	if !caller.HasGroup(s.adminGroup) {
		return fmt.Errorf("user '%s' is not a member of '%s': %w", caller.Username, s.adminGroup, domain.ErrForbidden)
	}
	return nil
}
