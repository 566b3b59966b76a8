package domain

import "time"

// Order is the immutable record of one completed payment against one
// application. The key (AppID, OrderNo) is consumed at most once for the
// lifetime of the ledger. Seq and AppSeq place the order in the global and
// per-application append-only indices.
type Order struct {
	AppID          string    `json:"app_id"`
	OrderNo        string    `json:"order_no"`
	Currency       string    `json:"currency"` // "" for native
	RequestedTotal int64     `json:"requested_total"`
	PaidTotal      int64     `json:"paid_total"`
	Payer          string    `json:"payer"`
	Seq            int64     `json:"seq"`
	AppSeq         int64     `json:"app_seq"`
	CreatedAt      time.Time `json:"created_at"`
}

// IsZero reports whether o is the zeroed sentinel returned by batch queries
// for order numbers that were never paid.
func (o *Order) IsZero() bool {
	return o.OrderNo == "" && o.PaidTotal == 0 && o.Payer == ""
}

// OrderKey builds the cache key for a completed order.
func OrderKey(appID, orderNo string) string {
	return appID + ":" + orderNo
}
