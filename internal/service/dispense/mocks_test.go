package dispense

import (
	"context"

	"github.com/vendstack/barkeep/internal/domain"
)

// ===========================================================================
// Manual mocks (moq-style with func fields)
// ===========================================================================

type mockMachineRepo struct {
	GetByNameFunc  func(ctx context.Context, name string) (*domain.Machine, error)
	ListActiveFunc func(ctx context.Context) ([]domain.Machine, error)
}

func (m *mockMachineRepo) GetByName(ctx context.Context, name string) (*domain.Machine, error) {
	if m.GetByNameFunc != nil {
		return m.GetByNameFunc(ctx, name)
	}
	return nil, domain.ErrNotFound
}

func (m *mockMachineRepo) ListActive(ctx context.Context) ([]domain.Machine, error) {
	if m.ListActiveFunc != nil {
		return m.ListActiveFunc(ctx)
	}
	return nil, nil
}

type mockSlotRepo struct {
	GetWithItemFunc   func(ctx context.Context, machineID, number int32) (*domain.SlotWithItem, error)
	ListWithItemsFunc func(ctx context.Context, machineID *int32) ([]domain.SlotWithItem, error)
	UpdateCountFunc   func(ctx context.Context, machineID, number, newCount int32) error
	UpdateActiveFunc  func(ctx context.Context, machineID, number int32, active bool) error

	countCalls  []countCall
	activeCalls []activeCall
}

type countCall struct {
	machineID, number, newCount int32
}

type activeCall struct {
	machineID, number int32
	active            bool
}

func (m *mockSlotRepo) GetWithItem(ctx context.Context, machineID, number int32) (*domain.SlotWithItem, error) {
	if m.GetWithItemFunc != nil {
		return m.GetWithItemFunc(ctx, machineID, number)
	}
	return nil, domain.ErrNotFound
}

func (m *mockSlotRepo) ListWithItems(ctx context.Context, machineID *int32) ([]domain.SlotWithItem, error) {
	if m.ListWithItemsFunc != nil {
		return m.ListWithItemsFunc(ctx, machineID)
	}
	return nil, nil
}

func (m *mockSlotRepo) UpdateCount(ctx context.Context, machineID, number, newCount int32) error {
	m.countCalls = append(m.countCalls, countCall{machineID, number, newCount})
	if m.UpdateCountFunc != nil {
		return m.UpdateCountFunc(ctx, machineID, number, newCount)
	}
	return nil
}

func (m *mockSlotRepo) UpdateActive(ctx context.Context, machineID, number int32, active bool) error {
	m.activeCalls = append(m.activeCalls, activeCall{machineID, number, active})
	if m.UpdateActiveFunc != nil {
		return m.UpdateActiveFunc(ctx, machineID, number, active)
	}
	return nil
}

type mockDropLog struct {
	CreateFunc func(ctx context.Context, drop domain.DropEvent) (domain.DropEvent, error)

	created []domain.DropEvent
}

func (m *mockDropLog) Create(ctx context.Context, drop domain.DropEvent) (domain.DropEvent, error) {
	m.created = append(m.created, drop)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, drop)
	}
	drop.ID = int64(len(m.created))
	return drop, nil
}

type mockDirectory struct {
	GetUserFunc    func(ctx context.Context, uid string) (*domain.DirectoryUser, error)
	ModifyUserFunc func(ctx context.Context, change domain.UserChangeSet) error

	modifications []domain.UserChangeSet
}

func (m *mockDirectory) GetUser(ctx context.Context, uid string) (*domain.DirectoryUser, error) {
	if m.GetUserFunc != nil {
		return m.GetUserFunc(ctx, uid)
	}
	return nil, nil
}

func (m *mockDirectory) ModifyUser(ctx context.Context, change domain.UserChangeSet) error {
	m.modifications = append(m.modifications, change)
	if m.ModifyUserFunc != nil {
		return m.ModifyUserFunc(ctx, change)
	}
	return nil
}

type mockDevice struct {
	StatusFunc func(ctx context.Context, name string) (*domain.MachineStatus, error)
	DropFunc   func(ctx context.Context, name string, slot int32) error

	dropCalls []dropCall
}

type dropCall struct {
	name string
	slot int32
}

func (m *mockDevice) Status(ctx context.Context, name string) (*domain.MachineStatus, error) {
	if m.StatusFunc != nil {
		return m.StatusFunc(ctx, name)
	}
	return &domain.MachineStatus{Name: name}, nil
}

func (m *mockDevice) Drop(ctx context.Context, name string, slot int32) error {
	m.dropCalls = append(m.dropCalls, dropCall{name, slot})
	if m.DropFunc != nil {
		return m.DropFunc(ctx, name, slot)
	}
	return nil
}
