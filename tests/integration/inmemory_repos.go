package integration

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"escrow-ledger/internal/core/domain"
)

// --- In-Memory Identity Repo ---

type inMemoryIdentityRepo struct {
	mu         sync.RWMutex
	identities map[string]*domain.Identity
}

func newInMemoryIdentityRepo() *inMemoryIdentityRepo {
	return &inMemoryIdentityRepo{identities: make(map[string]*domain.Identity)}
}

func (r *inMemoryIdentityRepo) Create(_ context.Context, identity *domain.Identity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.identities[identity.Name]; ok {
		return fmt.Errorf("identity already exists")
	}
	cp := *identity
	r.identities[identity.Name] = &cp
	return nil
}

func (r *inMemoryIdentityRepo) GetByName(_ context.Context, name string) (*domain.Identity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	identity, ok := r.identities[name]
	if !ok {
		return nil, nil
	}
	cp := *identity
	return &cp, nil
}

// --- In-Memory Application Repo ---

type inMemoryApplicationRepo struct {
	mu   sync.RWMutex
	apps map[string]*domain.Application
}

func newInMemoryApplicationRepo() *inMemoryApplicationRepo {
	return &inMemoryApplicationRepo{apps: make(map[string]*domain.Application)}
}

func (r *inMemoryApplicationRepo) Create(_ context.Context, app *domain.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.apps[app.ID]; ok {
		return fmt.Errorf("application already exists")
	}
	cp := *app
	r.apps[app.ID] = &cp
	return nil
}

func (r *inMemoryApplicationRepo) GetByID(_ context.Context, id string) (*domain.Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	app, ok := r.apps[id]
	if !ok {
		return nil, nil
	}
	cp := *app
	return &cp, nil
}

func (r *inMemoryApplicationRepo) GetByIDForUpdate(ctx context.Context, _ pgx.Tx, id string) (*domain.Application, error) {
	return r.GetByID(ctx, id)
}

func (r *inMemoryApplicationRepo) SetEnabled(_ context.Context, id string, enabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.apps[id]
	if !ok {
		return fmt.Errorf("application not found: %s", id)
	}
	app.Enabled = enabled
	app.UpdatedAt = time.Now()
	return nil
}

func (r *inMemoryApplicationRepo) IncrementOrderCount(_ context.Context, _ pgx.Tx, id string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.apps[id]
	if !ok {
		return 0, fmt.Errorf("application not found: %s", id)
	}
	app.OrderCount++
	return app.OrderCount, nil
}

func (r *inMemoryApplicationRepo) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.apps)), nil
}

func (r *inMemoryApplicationRepo) OrderCounts(_ context.Context, ids []string) (map[string]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	counts := make(map[string]int64)
	for _, id := range ids {
		if app, ok := r.apps[id]; ok {
			counts[id] = app.OrderCount
		}
	}
	return counts, nil
}

// --- In-Memory Token Repo ---

type inMemoryTokenRepo struct {
	mu     sync.RWMutex
	tokens map[string]*domain.Token
}

func newInMemoryTokenRepo() *inMemoryTokenRepo {
	return &inMemoryTokenRepo{tokens: make(map[string]*domain.Token)}
}

func (r *inMemoryTokenRepo) Create(_ context.Context, token *domain.Token) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tokens[token.Symbol]; ok {
		return fmt.Errorf("token already registered")
	}
	cp := *token
	r.tokens[token.Symbol] = &cp
	return nil
}

func (r *inMemoryTokenRepo) GetBySymbol(_ context.Context, symbol string) (*domain.Token, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	token, ok := r.tokens[symbol]
	if !ok {
		return nil, nil
	}
	cp := *token
	return &cp, nil
}

// --- In-Memory Balance Repo ---

type balanceKey struct {
	appID    string
	currency string
}

type inMemoryBalanceRepo struct {
	mu       sync.RWMutex
	balances map[balanceKey]int64
}

func newInMemoryBalanceRepo() *inMemoryBalanceRepo {
	return &inMemoryBalanceRepo{balances: make(map[balanceKey]int64)}
}

func (r *inMemoryBalanceRepo) Get(_ context.Context, appID, currency string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.balances[balanceKey{appID, currency}], nil
}

func (r *inMemoryBalanceRepo) GetAll(_ context.Context, appID string) (map[string]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make(map[string]int64)
	for k, v := range r.balances {
		if k.appID == appID {
			all[k.currency] = v
		}
	}
	return all, nil
}

func (r *inMemoryBalanceRepo) GetForUpdate(ctx context.Context, _ pgx.Tx, appID, currency string) (int64, error) {
	return r.Get(ctx, appID, currency)
}

func (r *inMemoryBalanceRepo) Set(_ context.Context, _ pgx.Tx, appID, currency string, amount int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.balances[balanceKey{appID, currency}] = amount
	return nil
}

// --- In-Memory Order Repo ---

type inMemoryOrderRepo struct {
	mu     sync.RWMutex
	orders map[string]*domain.Order // keyed by appID:orderNo
	seq    int64
}

func newInMemoryOrderRepo() *inMemoryOrderRepo {
	return &inMemoryOrderRepo{orders: make(map[string]*domain.Order)}
}

func (r *inMemoryOrderRepo) Create(_ context.Context, _ pgx.Tx, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := domain.OrderKey(order.AppID, order.OrderNo)
	if _, ok := r.orders[key]; ok {
		return fmt.Errorf("order already exists")
	}
	r.seq++
	order.Seq = r.seq
	order.CreatedAt = time.Now()
	cp := *order
	r.orders[key] = &cp
	return nil
}

func (r *inMemoryOrderRepo) Get(_ context.Context, appID, orderNo string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[domain.OrderKey(appID, orderNo)]
	if !ok {
		return nil, nil
	}
	cp := *order
	return &cp, nil
}

func (r *inMemoryOrderRepo) Exists(_ context.Context, _ pgx.Tx, appID, orderNo string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.orders[domain.OrderKey(appID, orderNo)]
	return ok, nil
}

func (r *inMemoryOrderRepo) GetMulti(_ context.Context, appID string, orderNos []string) (map[string]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	found := make(map[string]domain.Order)
	for _, no := range orderNos {
		if order, ok := r.orders[domain.OrderKey(appID, no)]; ok {
			found[no] = *order
		}
	}
	return found, nil
}

func (r *inMemoryOrderRepo) ListByApp(_ context.Context, appID string, offset, limit int) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var all []domain.Order
	for _, order := range r.orders {
		if order.AppID == appID {
			all = append(all, *order)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].AppSeq < all[j].AppSeq })
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *inMemoryOrderRepo) TotalCount(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.orders)), nil
}

// --- In-Memory Withdrawal Repo ---

type inMemoryWithdrawalRepo struct {
	mu          sync.RWMutex
	withdrawals []domain.Withdrawal
}

func newInMemoryWithdrawalRepo() *inMemoryWithdrawalRepo {
	return &inMemoryWithdrawalRepo{}
}

func (r *inMemoryWithdrawalRepo) Create(_ context.Context, _ pgx.Tx, withdrawal *domain.Withdrawal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	withdrawal.CreatedAt = time.Now()
	r.withdrawals = append(r.withdrawals, *withdrawal)
	return nil
}

// --- In-Memory Transactor ---

// fakeTx satisfies pgx.Tx for services that stage work inside transaction
// blocks. It holds the transactor's lock until commit or rollback, which
// serializes transactional read-modify-write sequences the way row locks
// do against the real database. The in-memory repos apply writes
// immediately, so rollback does not undo them.
type fakeTx struct {
	pgx.Tx
	release *sync.Once
	mu      *sync.Mutex
}

func (t fakeTx) done() {
	t.release.Do(t.mu.Unlock)
}

func (t fakeTx) Commit(context.Context) error   { t.done(); return nil }
func (t fakeTx) Rollback(context.Context) error { t.done(); return nil }

type inMemoryTransactor struct {
	mu sync.Mutex
}

func newInMemoryTransactor() *inMemoryTransactor { return &inMemoryTransactor{} }

func (tr *inMemoryTransactor) Begin(context.Context) (pgx.Tx, error) {
	tr.mu.Lock()
	return fakeTx{release: new(sync.Once), mu: &tr.mu}, nil
}
