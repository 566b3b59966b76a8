package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"escrow-ledger/internal/app/metrics"
	"escrow-ledger/internal/core/domain"
	"escrow-ledger/internal/core/ports"
	"escrow-ledger/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// orderCacheTTL bounds the Redis fast path for duplicate detection. Entries
// that expire fall through to the authoritative database check.
const orderCacheTTL = 24 * time.Hour

// PaymentServiceImpl implements ports.PaymentService.
type PaymentServiceImpl struct {
	appRepo     ports.ApplicationRepository
	tokenRepo   ports.TokenRepository
	balanceRepo ports.BalanceRepository
	orderRepo   ports.OrderRepository
	orderCache  ports.OrderCache
	dialer      ports.TokenLedgerDialer
	transactor  ports.DBTransactor
	notifier    ports.Notifier
	custodian   string
	log         zerolog.Logger
}

// NewPaymentService creates a new PaymentServiceImpl. custodian is the
// identity under which external-token funds are held in escrow.
func NewPaymentService(
	appRepo ports.ApplicationRepository,
	tokenRepo ports.TokenRepository,
	balanceRepo ports.BalanceRepository,
	orderRepo ports.OrderRepository,
	orderCache ports.OrderCache,
	dialer ports.TokenLedgerDialer,
	transactor ports.DBTransactor,
	notifier ports.Notifier,
	custodian string,
	log zerolog.Logger,
) *PaymentServiceImpl {
	return &PaymentServiceImpl{
		appRepo:     appRepo,
		tokenRepo:   tokenRepo,
		balanceRepo: balanceRepo,
		orderRepo:   orderRepo,
		orderCache:  orderCache,
		dialer:      dialer,
		transactor:  transactor,
		notifier:    notifier,
		custodian:   custodian,
		log:         log,
	}
}

// Pay accepts a native-currency payment into escrow.
func (s *PaymentServiceImpl) Pay(ctx context.Context, req ports.PayRequest) (*domain.Order, error) {
	if req.Total <= 0 {
		return nil, apperror.Validation("total must be positive")
	}

	cacheKey := domain.OrderKey(req.AppID, req.OrderNo)

	// Begin database transaction
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	// Lock the application row; this serializes all bookkeeping for the app.
	app, err := s.appRepo.GetByIDForUpdate(ctx, dbTx, req.AppID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock application: %w", err))
	}
	if app == nil {
		metrics.RecordPayment("", req.Total, false)
		return nil, apperror.ErrApplicationNotFound()
	}

	// Business rule: the supplied amount must match the order total exactly.
	if req.AmountSupplied != req.Total {
		metrics.RecordPayment("", req.Total, false)
		return nil, apperror.ErrWrongPaymentAmount()
	}

	// Business rule: the order must not have expired.
	if time.Now().Unix() > req.ExpiredAt {
		metrics.RecordPayment("", req.Total, false)
		return nil, apperror.ErrOrderExpired()
	}

	// Duplicate check, after the request itself has been validated so the
	// error code never depends on cache residence. Layer 1 is the Redis
	// fast path; a completed order is never payable again, so a hit
	// short-circuits without the indexed lookup.
	cached, err := s.orderCache.Get(ctx, cacheKey)
	if err != nil {
		s.log.Warn().Err(err).Str("key", cacheKey).Msg("redis order check failed, falling through to DB")
	}
	if cached != nil {
		metrics.RecordPayment("", req.Total, false)
		return nil, apperror.ErrOrderAlreadyExists()
	}

	// Layer 2: authoritative DB duplicate check
	exists, err := s.orderRepo.Exists(ctx, dbTx, req.AppID, req.OrderNo)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("check duplicate order: %w", err))
	}
	if exists {
		metrics.RecordPayment("", req.Total, false)
		return nil, apperror.ErrOrderAlreadyExists()
	}

	order, err := s.recordOrder(ctx, dbTx, req.AppID, req.OrderNo, domain.Native(), req.Total, req.Payer)
	if err != nil {
		metrics.RecordPayment("", req.Total, false)
		return nil, err
	}

	// Commit
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.finishPayment(ctx, cacheKey, order)
	return order, nil
}

// TokenPay accepts an external-token payment into escrow. The token-support
// check runs before any other validation; the external transfer is the last
// side-effecting step before commit, so a remote failure rolls back every
// local write.
func (s *PaymentServiceImpl) TokenPay(ctx context.Context, req ports.TokenPayRequest) (*domain.Order, error) {
	if req.Total <= 0 {
		return nil, apperror.Validation("total must be positive")
	}

	// Business rule: the token must be registered before anything else.
	token, err := s.tokenRepo.GetBySymbol(ctx, req.Symbol)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("resolve token: %w", err))
	}
	if token == nil {
		metrics.RecordPayment(req.Symbol, req.Total, false)
		return nil, apperror.ErrTokenUnsupported()
	}

	cacheKey := domain.OrderKey(req.AppID, req.OrderNo)

	// Begin database transaction
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	app, err := s.appRepo.GetByIDForUpdate(ctx, dbTx, req.AppID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock application: %w", err))
	}
	if app == nil {
		metrics.RecordPayment(req.Symbol, req.Total, false)
		return nil, apperror.ErrApplicationNotFound()
	}

	if time.Now().Unix() > req.ExpiredAt {
		metrics.RecordPayment(req.Symbol, req.Total, false)
		return nil, apperror.ErrOrderExpired()
	}

	// Layer 1: Redis duplicate fast path, after the request validation so
	// the error code never depends on cache residence.
	cached, err := s.orderCache.Get(ctx, cacheKey)
	if err != nil {
		s.log.Warn().Err(err).Str("key", cacheKey).Msg("redis order check failed, falling through to DB")
	}
	if cached != nil {
		metrics.RecordPayment(req.Symbol, req.Total, false)
		return nil, apperror.ErrOrderAlreadyExists()
	}

	// Layer 2: authoritative DB duplicate check
	exists, err := s.orderRepo.Exists(ctx, dbTx, req.AppID, req.OrderNo)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("check duplicate order: %w", err))
	}
	if exists {
		metrics.RecordPayment(req.Symbol, req.Total, false)
		return nil, apperror.ErrOrderAlreadyExists()
	}

	order, err := s.recordOrder(ctx, dbTx, req.AppID, req.OrderNo, domain.TokenCurrency(req.Symbol), req.Total, req.Payer)
	if err != nil {
		metrics.RecordPayment(req.Symbol, req.Total, false)
		return nil, err
	}

	// Pull the funds from the payer into escrow. This is the final
	// side-effecting step: a failure here aborts before any local state
	// becomes visible, and the remote reason passes through verbatim.
	ledger := s.dialer.Dial(token.LedgerAddress)
	if err := ledger.TransferFrom(ctx, req.Payer, s.custodian, req.Total); err != nil {
		metrics.RecordPayment(req.Symbol, req.Total, false)
		if appErr, ok := err.(*apperror.AppError); ok {
			return nil, appErr
		}
		return nil, apperror.ErrTokenLedgerUnreachable(err)
	}

	// Commit
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.finishPayment(ctx, cacheKey, order)
	return order, nil
}

// recordOrder performs the shared bookkeeping for an accepted payment inside
// an open transaction: bump the per-application index, credit the balance
// with overflow protection, and append the order.
func (s *PaymentServiceImpl) recordOrder(
	ctx context.Context,
	dbTx pgx.Tx,
	appID, orderNo string,
	currency domain.Currency,
	total int64,
	payer string,
) (*domain.Order, error) {
	appSeq, err := s.appRepo.IncrementOrderCount(ctx, dbTx, appID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("increment order count: %w", err))
	}

	balance, err := s.balanceRepo.GetForUpdate(ctx, dbTx, appID, currency.Symbol())
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock balance: %w", err))
	}
	if balance > math.MaxInt64-total {
		return nil, apperror.ErrBalanceOverflow()
	}
	if err := s.balanceRepo.Set(ctx, dbTx, appID, currency.Symbol(), balance+total); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("credit balance: %w", err))
	}

	order := &domain.Order{
		AppID:          appID,
		OrderNo:        orderNo,
		Currency:       currency.Symbol(),
		RequestedTotal: total,
		PaidTotal:      total,
		Payer:          payer,
		AppSeq:         appSeq,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.orderRepo.Create(ctx, dbTx, order); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create order: %w", err))
	}
	return order, nil
}

// finishPayment runs the post-commit, best-effort side effects.
func (s *PaymentServiceImpl) finishPayment(ctx context.Context, cacheKey string, order *domain.Order) {
	if err := s.orderCache.Set(ctx, cacheKey, []byte("1"), orderCacheTTL); err != nil {
		s.log.Warn().Err(err).Str("key", cacheKey).Msg("failed to cache completed order in redis")
	}

	s.notifier.PaymentSucceeded(ctx, domain.PaymentSucceededEvent{
		AppID:    order.AppID,
		Currency: order.Currency,
		OrderNo:  order.OrderNo,
		Amount:   order.PaidTotal,
		Payer:    order.Payer,
		PaidAt:   order.CreatedAt,
	})

	metrics.RecordPayment(order.Currency, order.PaidTotal, true)

	s.log.Info().
		Str("app_id", order.AppID).
		Str("order_no", order.OrderNo).
		Str("currency", order.Currency).
		Int64("amount", order.PaidTotal).
		Int64("seq", order.Seq).
		Int64("app_seq", order.AppSeq).
		Msg("payment accepted")
}
