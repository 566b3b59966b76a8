package notify

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"escrow-ledger/config"
	"escrow-ledger/internal/core/domain"
)

// webhookRetryIntervals spaces the redelivery attempts after a failed POST.
var webhookRetryIntervals = []time.Duration{
	15 * time.Second,
	60 * time.Second,
	2 * time.Minute,
	5 * time.Minute,
	10 * time.Minute,
}

// Event types carried in the webhook envelope.
const (
	EventApplicationCreated  = "APPLICATION_CREATED"
	EventPaymentSucceeded    = "PAYMENT_SUCCEEDED"
	EventWithdrawalSucceeded = "WITHDRAWAL_SUCCEEDED"
)

// WebhookPayload is the JSON envelope posted to the configured endpoint.
// Signature is the hex HMAC-SHA256 of the marshaled data, keyed with the
// shared webhook secret.
type WebhookPayload struct {
	EventType string          `json:"event_type"`
	Data      json.RawMessage `json:"data"`
	Signature string          `json:"signature"`
}

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// WebhookNotifier delivers ledger events to an external endpoint.
// Delivery is fire-and-forget; a failed delivery is retried a few times
// and then dropped with an error log, never surfaced to the caller.
type WebhookNotifier struct {
	url        string
	secret     []byte
	httpClient HTTPClient
	intervals  []time.Duration
	log        zerolog.Logger
}

// NewWebhookNotifier creates a notifier from webhook config. An empty URL
// yields a notifier that skips delivery entirely.
func NewWebhookNotifier(cfg config.WebhookConfig, log zerolog.Logger) *WebhookNotifier {
	return &WebhookNotifier{
		url:        cfg.URL,
		secret:     []byte(cfg.Secret),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		intervals:  webhookRetryIntervals,
		log:        log,
	}
}

func (n *WebhookNotifier) ApplicationCreated(_ context.Context, ev domain.ApplicationCreatedEvent) {
	n.enqueue(EventApplicationCreated, ev.AppID, ev)
}

func (n *WebhookNotifier) PaymentSucceeded(_ context.Context, ev domain.PaymentSucceededEvent) {
	n.enqueue(EventPaymentSucceeded, ev.AppID, ev)
}

func (n *WebhookNotifier) WithdrawalSucceeded(_ context.Context, ev domain.WithdrawalSucceededEvent) {
	n.enqueue(EventWithdrawalSucceeded, ev.AppID, ev)
}

func (n *WebhookNotifier) enqueue(eventType, appID string, data any) {
	if n.url == "" {
		n.log.Debug().Str("event_type", eventType).Msg("webhook: no URL configured, skipping")
		return
	}

	dataBytes, err := json.Marshal(data)
	if err != nil {
		n.log.Error().Err(err).Str("event_type", eventType).Msg("webhook: failed to marshal event")
		return
	}

	payload := WebhookPayload{
		EventType: eventType,
		Data:      dataBytes,
		Signature: n.sign(dataBytes),
	}

	go n.deliverWithRetries(payload, appID)
}

func (n *WebhookNotifier) sign(data []byte) string {
	mac := hmac.New(sha256.New, n.secret)
	mac.Write(data)
	return hex.EncodeToString(mac.Sum(nil))
}

// deliverWithRetries posts the payload, sleeping between attempts.
func (n *WebhookNotifier) deliverWithRetries(payload WebhookPayload, appID string) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		n.log.Error().Err(err).Str("app_id", appID).Msg("webhook: failed to marshal payload")
		return
	}

	for attempt := 0; attempt <= len(n.intervals); attempt++ {
		if attempt > 0 {
			time.Sleep(n.intervals[attempt-1])
		}

		req, err := http.NewRequest(http.MethodPost, n.url, bytes.NewReader(payloadBytes))
		if err != nil {
			n.log.Error().Err(err).Str("app_id", appID).Int("attempt", attempt+1).Msg("webhook: failed to create request")
			continue
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := n.httpClient.Do(req)
		if err != nil {
			n.log.Warn().Err(err).Str("app_id", appID).Int("attempt", attempt+1).Msg("webhook: delivery failed")
			continue
		}
		resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			n.log.Info().Str("app_id", appID).Str("event_type", payload.EventType).Int("attempt", attempt+1).Msg("webhook: delivered")
			return
		}

		n.log.Warn().Str("app_id", appID).Int("attempt", attempt+1).Int("status", resp.StatusCode).Msg("webhook: non-2xx response, retrying")
	}

	n.log.Error().Str("app_id", appID).Str("event_type", payload.EventType).Msg("webhook: all retry attempts exhausted")
}
