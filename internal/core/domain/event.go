package domain

import "time"

// Event types emitted by the ledger. These are the only externally
// observable signals besides query results; payloads carry enough for a
// downstream consumer to reconstruct ledger state independently.
const (
	EventApplicationCreated  = "APPLICATION_CREATED"
	EventPaymentSucceeded    = "PAYMENT_SUCCEEDED"
	EventWithdrawalSucceeded = "WITHDRAWAL_SUCCEEDED"
)

// ApplicationCreatedEvent is emitted once when an application is registered.
type ApplicationCreatedEvent struct {
	AppID     string    `json:"app_id"`
	Owner     string    `json:"owner"`
	CreatedAt time.Time `json:"created_at"`
}

// PaymentSucceededEvent is emitted for every accepted payment, native or token.
type PaymentSucceededEvent struct {
	AppID    string    `json:"app_id"`
	Currency string    `json:"currency"` // "" for native
	OrderNo  string    `json:"order_no"`
	Amount   int64     `json:"amount"`
	Payer    string    `json:"payer"`
	PaidAt   time.Time `json:"paid_at"`
}

// WithdrawalSucceededEvent is emitted for every completed withdrawal.
type WithdrawalSucceededEvent struct {
	AppID       string    `json:"app_id"`
	Currency    string    `json:"currency"` // "" for native
	Amount      int64     `json:"amount"`
	WithdrawnAt time.Time `json:"withdrawn_at"`
}
