package tokenledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"escrow-ledger/pkg/apperror"
)

// Client talks JSON over HTTP to one external token ledger. Rejections
// carry the ledger's own reason string, which passes through to callers
// unchanged; transport failures surface separately so callers can tell a
// refusal from an outage.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a ledger client for the given base URL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type transferRequest struct {
	From   string `json:"from,omitempty"`
	To     string `json:"to"`
	Amount int64  `json:"amount"`
}

type errorResponse struct {
	Reason string `json:"reason"`
}

type balanceResponse struct {
	Balance int64 `json:"balance"`
}

// TransferFrom moves amount from payer to recipient using the payer's
// allowance for the caller.
func (c *Client) TransferFrom(ctx context.Context, payer, recipient string, amount int64) error {
	return c.post(ctx, "/v1/transfer-from", transferRequest{From: payer, To: recipient, Amount: amount})
}

// Transfer moves amount from the caller's own holdings to recipient.
func (c *Client) Transfer(ctx context.Context, recipient string, amount int64) error {
	return c.post(ctx, "/v1/transfer", transferRequest{To: recipient, Amount: amount})
}

// BalanceOf returns the ledger balance held by an identity.
func (c *Client) BalanceOf(ctx context.Context, identity string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/balance/"+identity, nil)
	if err != nil {
		return 0, apperror.ErrTokenLedgerUnreachable(fmt.Errorf("build request: %w", err))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, apperror.ErrTokenLedgerUnreachable(fmt.Errorf("ledger request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, c.decodeError(resp)
	}

	var body balanceResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, apperror.ErrTokenLedgerUnreachable(fmt.Errorf("decode balance: %w", err))
	}
	return body.Balance, nil
}

func (c *Client) post(ctx context.Context, path string, payload transferRequest) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("marshal transfer: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return apperror.ErrTokenLedgerUnreachable(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperror.ErrTokenLedgerUnreachable(fmt.Errorf("ledger request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.decodeError(resp)
	}
	return nil
}

// decodeError turns a non-200 ledger response into a pass-through rejection.
// A response without a parseable reason counts as an outage, not a refusal.
func (c *Client) decodeError(resp *http.Response) error {
	var body errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Reason == "" {
		return apperror.ErrTokenLedgerUnreachable(fmt.Errorf("ledger returned status %d", resp.StatusCode))
	}
	return apperror.ErrTokenLedger(body.Reason)
}
