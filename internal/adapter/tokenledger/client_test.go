package tokenledger

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"escrow-ledger/pkg/apperror"
)

func TestClient_TransferFrom_Success(t *testing.T) {
	var got transferRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/transfer-from", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	err := client.TransferFrom(context.Background(), "alice", "escrow-custodian", 7000)

	require.NoError(t, err)
	assert.Equal(t, "alice", got.From)
	assert.Equal(t, "escrow-custodian", got.To)
	assert.Equal(t, int64(7000), got.Amount)
}

func TestClient_Transfer_OmitsFrom(t *testing.T) {
	var raw map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/transfer", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	err := client.Transfer(context.Background(), "bob", 3000)

	require.NoError(t, err)
	assert.NotContains(t, raw, "from")
}

func TestClient_RejectionReasonPassesThroughVerbatim(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(errorResponse{Reason: "insufficient allowance"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	err := client.TransferFrom(context.Background(), "alice", "escrow-custodian", 7000)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "LEDGER_001", appErr.Code)
	assert.Equal(t, "insufficient allowance", appErr.Message)
}

func TestClient_MalformedErrorBodyIsUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("<html>nope</html>"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	err := client.Transfer(context.Background(), "bob", 1)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "LEDGER_002", appErr.Code)
}

func TestClient_ConnectionRefusedIsUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewClient(srv.URL, time.Second)
	err := client.TransferFrom(context.Background(), "alice", "escrow-custodian", 1)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "LEDGER_002", appErr.Code)
}

func TestClient_BalanceOf(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/balance/alice", r.URL.Path)
		_ = json.NewEncoder(w).Encode(balanceResponse{Balance: 123456})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	balance, err := client.BalanceOf(context.Background(), "alice")

	require.NoError(t, err)
	assert.Equal(t, int64(123456), balance)
}

func TestHTTPDialer_CachesClientsPerAddress(t *testing.T) {
	dialer := NewHTTPDialer(time.Second)

	first := dialer.Dial("http://gld-ledger:9000")
	second := dialer.Dial("http://gld-ledger:9000")
	other := dialer.Dial("http://slv-ledger:9000")

	assert.Same(t, first, second)
	assert.NotSame(t, first, other)
}

func TestMemoryLedger_AllowanceSpendDown(t *testing.T) {
	ledger := NewMemoryLedger("escrow-custodian")
	ledger.Mint("alice", 10000)
	ledger.Approve("alice", 7000)

	ctx := context.Background()
	require.NoError(t, ledger.TransferFrom(ctx, "alice", "escrow-custodian", 7000))

	err := ledger.TransferFrom(ctx, "alice", "escrow-custodian", 1)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "insufficient allowance", appErr.Message)

	balance, err := ledger.BalanceOf(ctx, "escrow-custodian")
	require.NoError(t, err)
	assert.Equal(t, int64(7000), balance)
}

func TestMemoryDialer_UnknownAddressIsUnreachable(t *testing.T) {
	dialer := NewMemoryDialer()

	ledger := dialer.Dial("http://nowhere:9000")
	err := ledger.Transfer(context.Background(), "bob", 1)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "LEDGER_002", appErr.Code)
}
