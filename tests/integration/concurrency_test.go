package integration

import (
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Concurrent payments to distinct order numbers must all settle and the
// escrowed balance must equal the sum of paid totals.
func TestConcurrentPaymentsConserveBalance(t *testing.T) {
	app := newTestApp(t)
	ownerToken := app.signup(t, "olivia")
	payerToken := app.signup(t, "alice")

	status, _ := app.do(t, http.MethodPost, "/api/v1/applications", ownerToken, map[string]string{"id": "shop-1"})
	require.Equal(t, http.StatusCreated, status)

	const workers = 20
	var wg sync.WaitGroup
	statuses := make([]int, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, _ := app.do(t, http.MethodPost, "/api/v1/payments", payerToken,
				payBody("shop-1", fmt.Sprintf("c%d", i), 100))
			statuses[i] = s
		}(i)
	}
	wg.Wait()

	for i, s := range statuses {
		assert.Equal(t, http.StatusCreated, s, "payment %d", i)
	}

	status, resp := app.do(t, http.MethodGet, "/api/v1/applications/shop-1/balance", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(workers*100), data(resp)["balance"])

	status, resp = app.do(t, http.MethodGet, "/api/v1/counts/orders/shop-1", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(workers), data(resp)["count"])
}
