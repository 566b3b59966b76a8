package domain

import (
	"time"

	"github.com/google/uuid"
)

// Withdrawal is the payout log entry for a successful withdrawal. Native
// withdrawals record the outward transfer to the owner; token withdrawals
// additionally correspond to a Transfer on the external ledger.
type Withdrawal struct {
	ID        uuid.UUID `json:"id"`
	AppID     string    `json:"app_id"`
	Currency  string    `json:"currency"` // "" for native
	Amount    int64     `json:"amount"`
	Recipient string    `json:"recipient"`
	CreatedAt time.Time `json:"created_at"`
}
