package notify

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"escrow-ledger/config"
	"escrow-ledger/internal/core/domain"
)

// captureClient records requests and replays scripted responses.
type captureClient struct {
	requests chan *http.Request
	statuses []int
	errs     []error
	calls    int
}

func newCaptureClient(statuses []int, errs []error) *captureClient {
	return &captureClient{
		requests: make(chan *http.Request, 16),
		statuses: statuses,
		errs:     errs,
	}
}

func (c *captureClient) Do(req *http.Request) (*http.Response, error) {
	i := c.calls
	c.calls++
	c.requests <- req
	if c.errs != nil && c.errs[i] != nil {
		return nil, c.errs[i]
	}
	return &http.Response{
		StatusCode: c.statuses[i],
		Body:       io.NopCloser(strings.NewReader("")),
	}, nil
}

func newTestNotifier(client HTTPClient) *WebhookNotifier {
	return &WebhookNotifier{
		url:        "http://merchant.example/hooks",
		secret:     []byte("hook-secret"),
		httpClient: client,
		intervals:  []time.Duration{time.Millisecond, time.Millisecond},
		log:        zerolog.Nop(),
	}
}

func waitForRequest(t *testing.T, c *captureClient) *http.Request {
	t.Helper()
	select {
	case req := <-c.requests:
		return req
	case <-time.After(2 * time.Second):
		t.Fatal("no webhook request delivered")
		return nil
	}
}

func TestWebhookNotifier_SignsAndDeliversPayment(t *testing.T) {
	client := newCaptureClient([]int{http.StatusOK}, nil)
	notifier := newTestNotifier(client)

	paidAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	notifier.PaymentSucceeded(context.Background(), domain.PaymentSucceededEvent{
		AppID:    "shop-1",
		Currency: "GLD",
		OrderNo:  "ord-1",
		Amount:   7000,
		Payer:    "alice",
		PaidAt:   paidAt,
	})

	req := waitForRequest(t, client)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "http://merchant.example/hooks", req.URL.String())

	body, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	var payload WebhookPayload
	require.NoError(t, json.Unmarshal(body, &payload))

	assert.Equal(t, EventPaymentSucceeded, payload.EventType)

	var ev domain.PaymentSucceededEvent
	require.NoError(t, json.Unmarshal(payload.Data, &ev))
	assert.Equal(t, "shop-1", ev.AppID)
	assert.Equal(t, int64(7000), ev.Amount)

	mac := hmac.New(sha256.New, []byte("hook-secret"))
	mac.Write(payload.Data)
	assert.Equal(t, hex.EncodeToString(mac.Sum(nil)), payload.Signature)
}

func TestWebhookNotifier_RetriesOnFailure(t *testing.T) {
	client := newCaptureClient(
		[]int{0, http.StatusBadGateway, http.StatusOK},
		[]error{errors.New("connection refused"), nil, nil},
	)
	notifier := newTestNotifier(client)

	notifier.WithdrawalSucceeded(context.Background(), domain.WithdrawalSucceededEvent{
		AppID:       "shop-1",
		Amount:      99999,
		WithdrawnAt: time.Now(),
	})

	waitForRequest(t, client)
	waitForRequest(t, client)
	waitForRequest(t, client)
	assert.Equal(t, 3, client.calls)
}

func TestWebhookNotifier_NoURLSkipsDelivery(t *testing.T) {
	client := newCaptureClient(nil, nil)
	notifier := NewWebhookNotifier(config.WebhookConfig{}, zerolog.Nop())
	notifier.httpClient = client

	notifier.ApplicationCreated(context.Background(), domain.ApplicationCreatedEvent{AppID: "shop-1"})

	select {
	case <-client.requests:
		t.Fatal("expected no delivery")
	case <-time.After(50 * time.Millisecond):
	}
}
