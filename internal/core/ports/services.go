package ports

import (
	"context"
	"time"

	"escrow-ledger/internal/core/domain"
)

// HashService handles password hashing (Argon2id).
type HashService interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}

// AuthTokenService handles JWT bearer tokens whose subject is the caller
// identity.
type AuthTokenService interface {
	Generate(identity string) (string, time.Time, error)
	Validate(tokenString string) (string, error)
}

// OrderCache is the Redis-layer fast path for duplicate-order detection.
// A hit means the (application, orderNo) pair has already been consumed;
// the database remains authoritative on a miss.
type OrderCache interface {
	Get(ctx context.Context, key string) ([]byte, error) // nil on miss
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// TokenLedger is the external balance-tracking service for one registered
// token currency. The core depends only on these three operations and
// propagates their failure reasons unchanged.
type TokenLedger interface {
	// TransferFrom moves amount from payer to recipient using the payer's
	// allowance for the custodian.
	TransferFrom(ctx context.Context, payer, recipient string, amount int64) error
	// Transfer moves amount from the custodian's own holdings to recipient.
	Transfer(ctx context.Context, recipient string, amount int64) error
	BalanceOf(ctx context.Context, identity string) (int64, error)
}

// TokenLedgerDialer resolves a registered ledger address to a client.
type TokenLedgerDialer interface {
	Dial(address string) TokenLedger
}

// Notifier publishes the ledger's observable side effects. Delivery is
// best-effort and never consumed internally.
type Notifier interface {
	ApplicationCreated(ctx context.Context, ev domain.ApplicationCreatedEvent)
	PaymentSucceeded(ctx context.Context, ev domain.PaymentSucceededEvent)
	WithdrawalSucceeded(ctx context.Context, ev domain.WithdrawalSucceededEvent)
}

// --- Service Ports (Business Logic) ---

// AuthService defines identity registration and login.
type AuthService interface {
	Register(ctx context.Context, name, password string) (*domain.Identity, error)
	Login(ctx context.Context, name, password string) (string, time.Time, error) // token, expiry, error
}

// ApplicationService defines the application registry behavior.
type ApplicationService interface {
	Register(ctx context.Context, req RegisterApplicationRequest) (*domain.Application, error)
	SetStatus(ctx context.Context, id string, enabled bool, caller string) error
	// ResolveOwner returns domain.NoOwner for unknown applications; it never
	// fails on not-found.
	ResolveOwner(ctx context.Context, id string) (string, error)
	GetStatus(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context) (int64, error)
}

// RegisterApplicationRequest holds validated input for application creation.
type RegisterApplicationRequest struct {
	ID     string
	Owner  string
	Caller string
}

// TokenRegistryService defines the token registry behavior.
type TokenRegistryService interface {
	Register(ctx context.Context, req RegisterTokenRequest) (*domain.Token, error)
	// Resolve returns nil, nil when the symbol is not registered.
	Resolve(ctx context.Context, symbol string) (*domain.Token, error)
}

// RegisterTokenRequest holds validated input for token registration.
type RegisterTokenRequest struct {
	Symbol        string
	LedgerAddress string
	Caller        string
}

// PaymentService accepts payments into escrow.
type PaymentService interface {
	Pay(ctx context.Context, req PayRequest) (*domain.Order, error)
	TokenPay(ctx context.Context, req TokenPayRequest) (*domain.Order, error)
}

// PayRequest holds validated input for a native-currency payment.
type PayRequest struct {
	AppID          string
	OrderNo        string
	Total          int64
	ExpiredAt      int64 // Unix timestamp
	Payer          string
	AmountSupplied int64 // native funds supplied with the request
}

// TokenPayRequest holds validated input for an external-token payment.
type TokenPayRequest struct {
	AppID     string
	OrderNo   string
	Symbol    string
	Total     int64
	ExpiredAt int64 // Unix timestamp
	Payer     string
}

// WithdrawalService pays out accumulated balances to application owners.
type WithdrawalService interface {
	Withdraw(ctx context.Context, req WithdrawRequest) (*domain.Withdrawal, error)
	TokenWithdraw(ctx context.Context, req TokenWithdrawRequest) (*domain.Withdrawal, error)
}

// WithdrawRequest holds validated input for a native withdrawal.
type WithdrawRequest struct {
	AppID  string
	Amount int64
	Caller string
}

// TokenWithdrawRequest holds validated input for a token withdrawal.
type TokenWithdrawRequest struct {
	AppID  string
	Symbol string
	Amount int64
	Caller string
}

// QueryService is the read surface over the order log and balances. All
// lookups are total functions: missing orders and counts come back as
// zero/empty sentinels, never as errors.
type QueryService interface {
	Order(ctx context.Context, appID, orderNo string) (*domain.Order, error)
	// OrderMulti preserves the input order; misses yield zeroed records.
	OrderMulti(ctx context.Context, appID string, orderNos []string) ([]domain.Order, error)
	AppOrderCount(ctx context.Context, appID string) (int64, error)
	// AppOrderCountMulti preserves the input order; unknown ids count zero.
	AppOrderCountMulti(ctx context.Context, appIDs []string) ([]int64, error)
	TotalOrderCount(ctx context.Context) (int64, error)
	// PaginateAppOrders never fails for out-of-range offsets; it returns an
	// empty result instead.
	PaginateAppOrders(ctx context.Context, appID string, offset, limit int) ([]domain.Order, error)
	Balance(ctx context.Context, appID string, currency domain.Currency) (int64, error)
	Balances(ctx context.Context, appID string) (map[string]int64, error)
}
