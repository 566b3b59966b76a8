package dto

// RegisterRequest is the request body for identity registration.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=100"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

// LoginRequest is the request body for identity login.
type LoginRequest struct {
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterResponse is the response body for successful registration.
type RegisterResponse struct {
	Name string `json:"name"`
}

// LoginResponse is the response body for successful login.
type LoginResponse struct {
	Token  string `json:"token"`
	Expiry int64  `json:"expiry"` // Unix timestamp
}

// RegisterApplicationRequest is the request body for application registration.
type RegisterApplicationRequest struct {
	ID    string `json:"id" binding:"required,min=1,max=100"`
	Owner string `json:"owner,omitempty"` // defaults to the caller
}

// SetApplicationStatusRequest is the request body for enabling or disabling
// an application.
type SetApplicationStatusRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// ApplicationResponse is the response body for application reads.
type ApplicationResponse struct {
	ID      string `json:"id"`
	Owner   string `json:"owner"`
	Enabled bool   `json:"enabled"`
}

// CountResponse wraps a single counter value.
type CountResponse struct {
	Count int64 `json:"count"`
}

// RegisterTokenRequest is the request body for token registration.
type RegisterTokenRequest struct {
	Symbol        string `json:"symbol" binding:"required,min=1,max=20"`
	LedgerAddress string `json:"ledger_address" binding:"required,url"`
}

// TokenResponse is the response body for token reads.
type TokenResponse struct {
	Symbol        string `json:"symbol"`
	LedgerAddress string `json:"ledger_address"`
}

// PayRequest is the request body for a native-currency payment.
type PayRequest struct {
	AppID          string `json:"app_id" binding:"required"`
	OrderNo        string `json:"order_no" binding:"required,max=100"`
	Total          int64  `json:"total" binding:"required,gt=0"`
	ExpiredAt      int64  `json:"expired_at" binding:"required"`
	AmountSupplied int64  `json:"amount_supplied" binding:"required,gt=0"`
}

// TokenPayRequest is the request body for an external-token payment.
type TokenPayRequest struct {
	AppID     string `json:"app_id" binding:"required"`
	OrderNo   string `json:"order_no" binding:"required,max=100"`
	Symbol    string `json:"symbol" binding:"required"`
	Total     int64  `json:"total" binding:"required,gt=0"`
	ExpiredAt int64  `json:"expired_at" binding:"required"`
}

// OrderResponse is the response body for order reads. Zeroed fields mean the
// order number was never paid.
type OrderResponse struct {
	AppID          string `json:"app_id"`
	OrderNo        string `json:"order_no"`
	Currency       string `json:"currency"`
	RequestedTotal int64  `json:"requested_total"`
	PaidTotal      int64  `json:"paid_total"`
	Payer          string `json:"payer"`
	Seq            int64  `json:"seq"`
	AppSeq         int64  `json:"app_seq"`
	CreatedAt      string `json:"created_at,omitempty"`
}

// OrderQueryRequest is the request body for batch order lookup.
type OrderQueryRequest struct {
	AppID    string   `json:"app_id" binding:"required"`
	OrderNos []string `json:"order_nos" binding:"required,min=1,max=100"`
}

// OrderCountRequest is the request body for batch order counting.
type OrderCountRequest struct {
	AppIDs []string `json:"app_ids" binding:"required,min=1,max=100"`
}

// OrderCountsResponse preserves the request's application order.
type OrderCountsResponse struct {
	Counts []int64 `json:"counts"`
}

// OrderListResponse wraps a paginated order slice.
type OrderListResponse struct {
	Items  []OrderResponse `json:"items"`
	Offset int             `json:"offset"`
	Limit  int             `json:"limit"`
}

// WithdrawRequest is the request body for a native withdrawal.
type WithdrawRequest struct {
	AppID  string `json:"app_id" binding:"required"`
	Amount int64  `json:"amount" binding:"required,gt=0"`
}

// TokenWithdrawRequest is the request body for a token withdrawal.
type TokenWithdrawRequest struct {
	AppID  string `json:"app_id" binding:"required"`
	Symbol string `json:"symbol" binding:"required"`
	Amount int64  `json:"amount" binding:"required,gt=0"`
}

// WithdrawalResponse is the response body for completed withdrawals.
type WithdrawalResponse struct {
	ID        string `json:"id"`
	AppID     string `json:"app_id"`
	Currency  string `json:"currency"`
	Amount    int64  `json:"amount"`
	Recipient string `json:"recipient"`
	CreatedAt string `json:"created_at"`
}

// BalanceResponse is the response for a single-currency balance query.
type BalanceResponse struct {
	AppID    string `json:"app_id"`
	Currency string `json:"currency"`
	Balance  int64  `json:"balance"`
}

// BalancesResponse is the response for an all-currencies balance query.
// Keys are currency symbols; the native currency is the empty key.
type BalancesResponse struct {
	AppID    string           `json:"app_id"`
	Balances map[string]int64 `json:"balances"`
}
