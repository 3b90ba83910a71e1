package inventory

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendstack/barkeep/internal/auth"
	"github.com/vendstack/barkeep/internal/domain"
)

// ===========================================================================
// Manual mocks (moq-style with func fields)
// ===========================================================================

type mockMachineRepo struct {
	GetByNameFunc func(ctx context.Context, name string) (*domain.Machine, error)
}

func (m *mockMachineRepo) GetByName(ctx context.Context, name string) (*domain.Machine, error) {
	if m.GetByNameFunc != nil {
		return m.GetByNameFunc(ctx, name)
	}
	return nil, domain.ErrNotFound
}

type mockSlotRepo struct {
	GetFunc          func(ctx context.Context, machineID, number int32) (*domain.Slot, error)
	UpdateCountFunc  func(ctx context.Context, machineID, number, newCount int32) error
	UpdateActiveFunc func(ctx context.Context, machineID, number int32, active bool) error
	UpdateItemFunc   func(ctx context.Context, machineID, number, itemID int32) error

	countUpdates  []int32
	activeUpdates []bool
	itemUpdates   []int32
}

func (m *mockSlotRepo) Get(ctx context.Context, machineID, number int32) (*domain.Slot, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, machineID, number)
	}
	return nil, domain.ErrNotFound
}

func (m *mockSlotRepo) UpdateCount(ctx context.Context, machineID, number, newCount int32) error {
	m.countUpdates = append(m.countUpdates, newCount)
	if m.UpdateCountFunc != nil {
		return m.UpdateCountFunc(ctx, machineID, number, newCount)
	}
	return nil
}

func (m *mockSlotRepo) UpdateActive(ctx context.Context, machineID, number int32, active bool) error {
	m.activeUpdates = append(m.activeUpdates, active)
	if m.UpdateActiveFunc != nil {
		return m.UpdateActiveFunc(ctx, machineID, number, active)
	}
	return nil
}

func (m *mockSlotRepo) UpdateItem(ctx context.Context, machineID, number, itemID int32) error {
	m.itemUpdates = append(m.itemUpdates, itemID)
	if m.UpdateItemFunc != nil {
		return m.UpdateItemFunc(ctx, machineID, number, itemID)
	}
	return nil
}

type mockItemRepo struct {
	ListFunc        func(ctx context.Context) ([]domain.Item, error)
	GetFunc         func(ctx context.Context, id int32) (*domain.Item, error)
	CreateFunc      func(ctx context.Context, name string, price int32) (*domain.Item, error)
	UpdateNameFunc  func(ctx context.Context, id int32, name string) error
	UpdatePriceFunc func(ctx context.Context, id int32, price int32) error
	DeleteFunc      func(ctx context.Context, id int32) error

	deleted []int32
}

func (m *mockItemRepo) List(ctx context.Context) ([]domain.Item, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *mockItemRepo) Get(ctx context.Context, id int32) (*domain.Item, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockItemRepo) Create(ctx context.Context, name string, price int32) (*domain.Item, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, name, price)
	}
	return &domain.Item{ID: 1, Name: name, Price: price}, nil
}

func (m *mockItemRepo) UpdateName(ctx context.Context, id int32, name string) error {
	if m.UpdateNameFunc != nil {
		return m.UpdateNameFunc(ctx, id, name)
	}
	return nil
}

func (m *mockItemRepo) UpdatePrice(ctx context.Context, id int32, price int32) error {
	if m.UpdatePriceFunc != nil {
		return m.UpdatePriceFunc(ctx, id, price)
	}
	return nil
}

func (m *mockItemRepo) Delete(ctx context.Context, id int32) error {
	m.deleted = append(m.deleted, id)
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

type testDeps struct {
	machines *mockMachineRepo
	slots    *mockSlotRepo
	items    *mockItemRepo
}

func newTestService() (*Service, *testDeps) {
	deps := &testDeps{
		machines: &mockMachineRepo{},
		slots:    &mockSlotRepo{},
		items:    &mockItemRepo{},
	}
	svc := New(deps.machines, deps.slots, deps.items, "drink", slog.Default())
	return svc, deps
}

func adminCaller() *auth.Identity {
	return &auth.Identity{Username: "admin", Groups: []string{"drink"}}
}

func memberCaller() *auth.Identity {
	return &auth.Identity{Username: "bob", Groups: []string{"users"}}
}

func int32Ptr(n int32) *int32    { return &n }
func boolPtr(b bool) *bool      { return &b }
func stringPtr(s string) *string { return &s }

func seedSlot(deps *testDeps) {
	deps.machines.GetByNameFunc = func(_ context.Context, name string) (*domain.Machine, error) {
		if name != "snack" {
			return nil, domain.ErrNotFound
		}
		return &domain.Machine{ID: 2, Name: "snack", DisplayName: "Snack", Active: true}, nil
	}
	deps.slots.GetFunc = func(_ context.Context, machineID, number int32) (*domain.Slot, error) {
		if machineID != 2 || number != 3 {
			return nil, domain.ErrNotFound
		}
		return &domain.Slot{Machine: 2, Number: 3, Item: 7, Active: true, Count: int32Ptr(4)}, nil
	}
}

// ===========================================================================
// UpdateSlot tests
// ===========================================================================

func TestService_UpdateSlot_Count(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService()
	seedSlot(deps)

	slot, err := svc.UpdateSlot(context.Background(), adminCaller(), UpdateSlotInput{
		Machine: "snack", Number: 3, Count: int32Ptr(10),
	})
	require.NoError(t, err)
	assert.Equal(t, int32(3), slot.Number)
	assert.Equal(t, []int32{10}, deps.slots.countUpdates)
	assert.Empty(t, deps.slots.activeUpdates)
	assert.Empty(t, deps.slots.itemUpdates)
}

func TestService_UpdateSlot_Deactivate(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService()
	seedSlot(deps)

	_, err := svc.UpdateSlot(context.Background(), adminCaller(), UpdateSlotInput{
		Machine: "snack", Number: 3, Active: boolPtr(false),
	})
	require.NoError(t, err)
	assert.Equal(t, []bool{false}, deps.slots.activeUpdates)
}

func TestService_UpdateSlot_ItemMustExist(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService()
	seedSlot(deps)

	_, err := svc.UpdateSlot(context.Background(), adminCaller(), UpdateSlotInput{
		Machine: "snack", Number: 3, ItemID: int32Ptr(99),
	})
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, deps.slots.itemUpdates)
}

func TestService_UpdateSlot_ReassignItem(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService()
	seedSlot(deps)
	deps.items.GetFunc = func(_ context.Context, id int32) (*domain.Item, error) {
		return &domain.Item{ID: id, Name: "Water", Price: 25}, nil
	}

	_, err := svc.UpdateSlot(context.Background(), adminCaller(), UpdateSlotInput{
		Machine: "snack", Number: 3, ItemID: int32Ptr(8),
	})
	require.NoError(t, err)
	assert.Equal(t, []int32{8}, deps.slots.itemUpdates)
}

func TestService_UpdateSlot_NoFields(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService()
	seedSlot(deps)

	_, err := svc.UpdateSlot(context.Background(), adminCaller(), UpdateSlotInput{
		Machine: "snack", Number: 3,
	})
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestService_UpdateSlot_NegativeCount(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()

	_, err := svc.UpdateSlot(context.Background(), adminCaller(), UpdateSlotInput{
		Machine: "snack", Number: 3, Count: int32Ptr(-1),
	})
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestService_UpdateSlot_NonAdmin(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService()
	seedSlot(deps)

	_, err := svc.UpdateSlot(context.Background(), memberCaller(), UpdateSlotInput{
		Machine: "snack", Number: 3, Count: int32Ptr(5),
	})
	require.ErrorIs(t, err, domain.ErrForbidden)
	assert.Empty(t, deps.slots.countUpdates)
}

func TestService_UpdateSlot_Anonymous(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()

	_, err := svc.UpdateSlot(context.Background(), nil, UpdateSlotInput{
		Machine: "snack", Number: 3, Count: int32Ptr(5),
	})
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}

// ===========================================================================
// Item tests
// ===========================================================================

func TestService_ListItems_NoAuthRequired(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService()
	deps.items.ListFunc = func(_ context.Context) ([]domain.Item, error) {
		return []domain.Item{{ID: 1, Name: "Cola", Price: 50}}, nil
	}

	items, err := svc.ListItems(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestService_CreateItem(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()

	item, err := svc.CreateItem(context.Background(), adminCaller(), "  Root Beer ", 75)
	require.NoError(t, err)
	assert.Equal(t, "Root Beer", item.Name)
	assert.Equal(t, int32(75), item.Price)
}

func TestService_CreateItem_Invalid(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()

	_, err := svc.CreateItem(context.Background(), adminCaller(), "   ", 75)
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.CreateItem(context.Background(), adminCaller(), "Cola", -1)
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestService_CreateItem_NonAdmin(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()

	_, err := svc.CreateItem(context.Background(), memberCaller(), "Cola", 50)
	require.ErrorIs(t, err, domain.ErrForbidden)
}

func TestService_UpdateItem(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService()
	deps.items.GetFunc = func(_ context.Context, id int32) (*domain.Item, error) {
		return &domain.Item{ID: id, Name: "Cola", Price: 50}, nil
	}

	item, err := svc.UpdateItem(context.Background(), adminCaller(), UpdateItemInput{
		ID: 1, Price: int32Ptr(60),
	})
	require.NoError(t, err)
	assert.Equal(t, "Cola", item.Name)
	assert.Equal(t, int32(60), item.Price)
}

func TestService_UpdateItem_NoFields(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()

	_, err := svc.UpdateItem(context.Background(), adminCaller(), UpdateItemInput{ID: 1})
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestService_UpdateItem_Rename(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService()
	deps.items.GetFunc = func(_ context.Context, id int32) (*domain.Item, error) {
		return &domain.Item{ID: id, Name: "Cola", Price: 50}, nil
	}

	item, err := svc.UpdateItem(context.Background(), adminCaller(), UpdateItemInput{
		ID: 1, Name: stringPtr(" Cherry Cola "),
	})
	require.NoError(t, err)
	assert.Equal(t, "Cherry Cola", item.Name)
}

func TestService_DeleteItem(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService()

	err := svc.DeleteItem(context.Background(), adminCaller(), 4)
	require.NoError(t, err)
	assert.Equal(t, []int32{4}, deps.items.deleted)
}

func TestService_DeleteItem_NonAdmin(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService()

	err := svc.DeleteItem(context.Background(), memberCaller(), 4)
	require.ErrorIs(t, err, domain.ErrForbidden)
	assert.Empty(t, deps.items.deleted)
}
