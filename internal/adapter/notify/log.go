package notify

import (
	"context"

	"github.com/rs/zerolog"

	"escrow-ledger/internal/core/domain"
)

// LogNotifier writes events to the structured log instead of delivering
// them anywhere. Used when no webhook endpoint is configured.
type LogNotifier struct {
	log zerolog.Logger
}

func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) ApplicationCreated(_ context.Context, ev domain.ApplicationCreatedEvent) {
	n.log.Info().
		Str("event_type", EventApplicationCreated).
		Str("app_id", ev.AppID).
		Str("owner", ev.Owner).
		Msg("application created")
}

func (n *LogNotifier) PaymentSucceeded(_ context.Context, ev domain.PaymentSucceededEvent) {
	n.log.Info().
		Str("event_type", EventPaymentSucceeded).
		Str("app_id", ev.AppID).
		Str("order_no", ev.OrderNo).
		Str("currency", ev.Currency).
		Int64("amount", ev.Amount).
		Msg("payment succeeded")
}

func (n *LogNotifier) WithdrawalSucceeded(_ context.Context, ev domain.WithdrawalSucceededEvent) {
	n.log.Info().
		Str("event_type", EventWithdrawalSucceeded).
		Str("app_id", ev.AppID).
		Str("currency", ev.Currency).
		Int64("amount", ev.Amount).
		Msg("withdrawal succeeded")
}
