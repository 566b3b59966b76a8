package postgres

import (
	"context"
	"testing"
	"time"

	"escrow-ledger/internal/core/domain"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApplication(id, owner string) *domain.Application {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Application{
		ID:         id,
		Owner:      owner,
		Enabled:    false,
		OrderCount: 0,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func applicationColumns() []string {
	return []string{"id", "owner", "enabled", "order_count", "created_at", "updated_at"}
}

func applicationRow(app *domain.Application) *pgxmock.Rows {
	return pgxmock.NewRows(applicationColumns()).AddRow(
		app.ID, app.Owner, app.Enabled, app.OrderCount, app.CreatedAt, app.UpdatedAt,
	)
}

func TestApplicationRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewApplicationRepo(mock)
	app := newTestApplication("shop", "bob")

	mock.ExpectExec("INSERT INTO applications").
		WithArgs(app.ID, app.Owner, app.Enabled, app.OrderCount, app.CreatedAt, app.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.Create(context.Background(), app)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepo_GetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewApplicationRepo(mock)
	app := newTestApplication("shop", "bob")

	mock.ExpectQuery("SELECT .+ FROM applications WHERE id").
		WithArgs("shop").
		WillReturnRows(applicationRow(app))

	result, err := repo.GetByID(context.Background(), "shop")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "shop", result.ID)
	assert.Equal(t, "bob", result.Owner)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepo_GetByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewApplicationRepo(mock)

	mock.ExpectQuery("SELECT .+ FROM applications WHERE id").
		WithArgs("ghost").
		WillReturnRows(pgxmock.NewRows(applicationColumns()))

	result, err := repo.GetByID(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepo_GetByIDForUpdate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewApplicationRepo(mock)
	app := newTestApplication("shop", "bob")

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .+ FROM applications WHERE id .+ FOR UPDATE").
		WithArgs("shop").
		WillReturnRows(applicationRow(app))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	result, err := repo.GetByIDForUpdate(context.Background(), tx, "shop")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "shop", result.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepo_SetEnabled(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewApplicationRepo(mock)

	mock.ExpectExec("UPDATE applications SET enabled").
		WithArgs(true, "shop").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err = repo.SetEnabled(context.Background(), "shop", true)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepo_SetEnabled_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewApplicationRepo(mock)

	mock.ExpectExec("UPDATE applications SET enabled").
		WithArgs(true, "ghost").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err = repo.SetEnabled(context.Background(), "ghost", true)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "application not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepo_IncrementOrderCount(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewApplicationRepo(mock)

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE applications SET order_count").
		WithArgs("shop").
		WillReturnRows(pgxmock.NewRows([]string{"order_count"}).AddRow(int64(4)))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	count, err := repo.IncrementOrderCount(context.Background(), tx, "shop")
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepo_OrderCounts(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewApplicationRepo(mock)
	ids := []string{"shop", "ghost", "store"}

	mock.ExpectQuery("SELECT id, order_count FROM applications").
		WithArgs(ids).
		WillReturnRows(pgxmock.NewRows([]string{"id", "order_count"}).
			AddRow("shop", int64(5)).
			AddRow("store", int64(2)))

	counts, err := repo.OrderCounts(context.Background(), ids)
	require.NoError(t, err)
	assert.Equal(t, int64(5), counts["shop"])
	assert.Equal(t, int64(2), counts["store"])
	_, ok := counts["ghost"]
	assert.False(t, ok, "missing ids must be absent")
	assert.NoError(t, mock.ExpectationsWereMet())
}
