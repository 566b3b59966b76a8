package domain

import "time"

// NoOwner is the sentinel returned when resolving the owner of an application
// that does not exist. Callers use it to detect non-existence without an
// error path.
const NoOwner = ""

// Application represents a tenant registered with the escrow ledger.
// The id is unique and immutable once created; the owner is fixed at
// creation and never changes. Applications are never deleted.
type Application struct {
	ID         string    `json:"id"`
	Owner      string    `json:"owner"`
	Enabled    bool      `json:"enabled"`
	OrderCount int64     `json:"order_count"` // per-application append-only index length
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// IsOwnedBy reports whether caller is the application's owning identity.
func (a *Application) IsOwnedBy(caller string) bool {
	return a.Owner == caller
}
