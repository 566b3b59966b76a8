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

func TestTokenRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTokenRepo(mock)
	token := &domain.Token{
		Symbol:        "GLD",
		LedgerAddress: "http://gld-ledger:9000",
		CreatedAt:     time.Now().UTC().Truncate(time.Microsecond),
	}

	mock.ExpectExec("INSERT INTO tokens").
		WithArgs(token.Symbol, token.LedgerAddress, token.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.Create(context.Background(), token)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepo_GetBySymbol(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTokenRepo(mock)
	now := time.Now().UTC().Truncate(time.Microsecond)

	mock.ExpectQuery("SELECT .+ FROM tokens WHERE symbol").
		WithArgs("GLD").
		WillReturnRows(pgxmock.NewRows([]string{"symbol", "ledger_address", "created_at"}).
			AddRow("GLD", "http://gld-ledger:9000", now))

	result, err := repo.GetBySymbol(context.Background(), "GLD")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "http://gld-ledger:9000", result.LedgerAddress)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepo_GetBySymbol_Unregistered(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTokenRepo(mock)

	mock.ExpectQuery("SELECT .+ FROM tokens WHERE symbol").
		WithArgs("TT").
		WillReturnRows(pgxmock.NewRows([]string{"symbol", "ledger_address", "created_at"}))

	result, err := repo.GetBySymbol(context.Background(), "TT")
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}
