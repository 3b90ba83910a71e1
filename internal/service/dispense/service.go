// Package dispense implements the dispense workflow: deciding whether a
// slot can be served, commanding the physical machine, and settling the
// ledger and directory afterwards.
//
// The three backing systems (ledger, directory, machine) share no
// transaction and fail independently. The workflow therefore runs as a
// strictly ordered sequence with one irreversibility boundary: everything
// before the drop command aborts cleanly; everything after it degrades
// gracefully, because the physical item is already out of the machine.
package dispense

import (
	"context"
	"log/slog"

	"github.com/vendstack/barkeep/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type machineRepo interface {
	GetByName(ctx context.Context, name string) (*domain.Machine, error)
	ListActive(ctx context.Context) ([]domain.Machine, error)
}

type slotRepo interface {
	GetWithItem(ctx context.Context, machineID, number int32) (*domain.SlotWithItem, error)
	ListWithItems(ctx context.Context, machineID *int32) ([]domain.SlotWithItem, error)
	UpdateCount(ctx context.Context, machineID, number, newCount int32) error
	UpdateActive(ctx context.Context, machineID, number int32, active bool) error
}

type dropLog interface {
	Create(ctx context.Context, drop domain.DropEvent) (domain.DropEvent, error)
}

type directory interface {
	GetUser(ctx context.Context, uid string) (*domain.DirectoryUser, error)
	ModifyUser(ctx context.Context, change domain.UserChangeSet) error
}

type deviceClient interface {
	Status(ctx context.Context, name string) (*domain.MachineStatus, error)
	Drop(ctx context.Context, name string, slot int32) error
}

// Service orchestrates dispensing across the ledger, the directory, and the
// machines. Each call is stateless; concurrent calls share nothing but the
// injected clients' connection pools.
type Service struct {
	machines machineRepo
	slots    slotRepo
	drops    dropLog
	dir      directory
	device   deviceClient
	log      *slog.Logger
}

// New creates the dispense service.
func New(machines machineRepo, slots slotRepo, drops dropLog, dir directory, device deviceClient, logger *slog.Logger) *Service {
	return &Service{
		machines: machines,
		slots:    slots,
		drops:    drops,
		dir:      dir,
		device:   device,
		log:      logger.With("service", "dispense"),
	}
}
