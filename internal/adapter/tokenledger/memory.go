package tokenledger

import (
	"context"
	"sync"

	"escrow-ledger/internal/core/ports"
	"escrow-ledger/pkg/apperror"
)

// MemoryLedger is an in-process token ledger with ERC-20 style balances
// and allowances. It backs local development and integration tests where
// no external ledger service is running.
type MemoryLedger struct {
	mu         sync.Mutex
	balances   map[string]int64
	allowances map[string]map[string]int64 // owner -> spender -> amount
	custodian  string
}

// NewMemoryLedger creates an empty ledger. Transfers debit the custodian
// identity; TransferFrom spends allowances granted to it.
func NewMemoryLedger(custodian string) *MemoryLedger {
	return &MemoryLedger{
		balances:   make(map[string]int64),
		allowances: make(map[string]map[string]int64),
		custodian:  custodian,
	}
}

// Mint credits an identity out of thin air. Test setup only.
func (l *MemoryLedger) Mint(identity string, amount int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[identity] += amount
}

// Approve grants the custodian spending rights over owner's holdings.
func (l *MemoryLedger) Approve(owner string, amount int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.allowances[owner] == nil {
		l.allowances[owner] = make(map[string]int64)
	}
	l.allowances[owner][l.custodian] = amount
}

func (l *MemoryLedger) TransferFrom(_ context.Context, payer, recipient string, amount int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.allowances[payer][l.custodian] < amount {
		return apperror.ErrTokenLedger("insufficient allowance")
	}
	if l.balances[payer] < amount {
		return apperror.ErrTokenLedger("insufficient balance")
	}
	l.allowances[payer][l.custodian] -= amount
	l.balances[payer] -= amount
	l.balances[recipient] += amount
	return nil
}

func (l *MemoryLedger) Transfer(_ context.Context, recipient string, amount int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.balances[l.custodian] < amount {
		return apperror.ErrTokenLedger("insufficient balance")
	}
	l.balances[l.custodian] -= amount
	l.balances[recipient] += amount
	return nil
}

func (l *MemoryLedger) BalanceOf(_ context.Context, identity string) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[identity], nil
}

// MemoryDialer hands out preregistered in-process ledgers by address.
type MemoryDialer struct {
	mu      sync.Mutex
	ledgers map[string]*MemoryLedger
}

func NewMemoryDialer() *MemoryDialer {
	return &MemoryDialer{ledgers: make(map[string]*MemoryLedger)}
}

// Register binds a ledger to an address so Dial can find it.
func (d *MemoryDialer) Register(address string, ledger *MemoryLedger) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ledgers[address] = ledger
}

func (d *MemoryDialer) Dial(address string) ports.TokenLedger {
	d.mu.Lock()
	defer d.mu.Unlock()

	if l, ok := d.ledgers[address]; ok {
		return l
	}
	return unreachableLedger{address: address}
}

// unreachableLedger stands in for an address nothing was registered at.
type unreachableLedger struct {
	address string
}

func (u unreachableLedger) TransferFrom(context.Context, string, string, int64) error {
	return apperror.ErrTokenLedgerUnreachable(errNoLedger(u.address))
}

func (u unreachableLedger) Transfer(context.Context, string, int64) error {
	return apperror.ErrTokenLedgerUnreachable(errNoLedger(u.address))
}

func (u unreachableLedger) BalanceOf(context.Context, string) (int64, error) {
	return 0, apperror.ErrTokenLedgerUnreachable(errNoLedger(u.address))
}

type errNoLedger string

func (e errNoLedger) Error() string {
	return "no ledger registered at " + string(e)
}
