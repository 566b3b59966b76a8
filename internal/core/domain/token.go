package domain

import "time"

// Token maps a short currency symbol to the external ledger that implements
// it. Registered once by the privileged administrator; immutable afterwards;
// never deleted. The native currency has no registry entry.
type Token struct {
	Symbol        string    `json:"symbol"`
	LedgerAddress string    `json:"ledger_address"`
	CreatedAt     time.Time `json:"created_at"`
}
