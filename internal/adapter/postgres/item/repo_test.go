package item

import (
	"context"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendstack/barkeep/internal/domain"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestRepo_List(t *testing.T) {
	mock := newMock(t)
	repo := New(mock)

	rows := pgxmock.NewRows([]string{"id", "name", "price"}).
		AddRow(int32(9), "Cola", int32(50)).
		AddRow(int32(10), "Water", int32(25))
	mock.ExpectQuery(`SELECT id, name, price FROM items`).
		WillReturnRows(rows)

	items, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Cola", items[0].Name)
	assert.Equal(t, int32(25), items[1].Price)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepo_Create(t *testing.T) {
	mock := newMock(t)
	repo := New(mock)

	rows := pgxmock.NewRows([]string{"id", "name", "price"}).
		AddRow(int32(11), "Root Beer", int32(75))
	mock.ExpectQuery(`INSERT INTO items`).
		WithArgs("Root Beer", int32(75)).
		WillReturnRows(rows)

	it, err := repo.Create(context.Background(), "Root Beer", 75)
	require.NoError(t, err)
	assert.Equal(t, int32(11), it.ID)
	assert.Equal(t, "Root Beer", it.Name)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepo_UpdatePrice(t *testing.T) {
	mock := newMock(t)
	repo := New(mock)

	mock.ExpectExec(`UPDATE items SET price`).
		WithArgs(int32(80), int32(9)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.UpdatePrice(context.Background(), 9, 80)
	require.NoError(t, err)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepo_UpdateName_NotFound(t *testing.T) {
	mock := newMock(t)
	repo := New(mock)

	mock.ExpectExec(`UPDATE items SET name`).
		WithArgs("Soda", int32(99)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.UpdateName(context.Background(), 99, "Soda")
	require.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepo_Delete(t *testing.T) {
	mock := newMock(t)
	repo := New(mock)

	mock.ExpectExec(`DELETE FROM items`).
		WithArgs(int32(9)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := repo.Delete(context.Background(), 9)
	require.NoError(t, err)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepo_Delete_NotFound(t *testing.T) {
	mock := newMock(t)
	repo := New(mock)

	mock.ExpectExec(`DELETE FROM items`).
		WithArgs(int32(99)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Delete(context.Background(), 99)
	require.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}
