package tokenledger

import (
	"sync"
	"time"

	"escrow-ledger/internal/core/ports"
)

// HTTPDialer builds ledger clients from registered ledger addresses.
// Clients are cached per address so repeated payments against the same
// token reuse one transport.
type HTTPDialer struct {
	timeout time.Duration

	mu      sync.Mutex
	clients map[string]*Client
}

// NewHTTPDialer creates a dialer with the given per-request timeout.
func NewHTTPDialer(timeout time.Duration) *HTTPDialer {
	return &HTTPDialer{
		timeout: timeout,
		clients: make(map[string]*Client),
	}
}

func (d *HTTPDialer) Dial(address string) ports.TokenLedger {
	d.mu.Lock()
	defer d.mu.Unlock()

	if c, ok := d.clients[address]; ok {
		return c
	}
	c := NewClient(address, d.timeout)
	d.clients[address] = c
	return c
}
