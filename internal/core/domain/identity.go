package domain

import "time"

// Identity is a caller account. The name doubles as the address used in
// authorization checks, order records and external-ledger transfers.
type Identity struct {
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"` // Never expose
	CreatedAt    time.Time `json:"created_at"`
}
