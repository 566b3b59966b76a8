package service

import (
	"context"
	"fmt"
	"time"

	"escrow-ledger/internal/app/metrics"
	"escrow-ledger/internal/core/domain"
	"escrow-ledger/internal/core/ports"
	"escrow-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// WithdrawalServiceImpl implements ports.WithdrawalService.
type WithdrawalServiceImpl struct {
	appRepo        ports.ApplicationRepository
	tokenRepo      ports.TokenRepository
	balanceRepo    ports.BalanceRepository
	withdrawalRepo ports.WithdrawalRepository
	dialer         ports.TokenLedgerDialer
	transactor     ports.DBTransactor
	auth           Authorizer
	notifier       ports.Notifier
	log            zerolog.Logger
}

// NewWithdrawalService creates a new WithdrawalServiceImpl.
func NewWithdrawalService(
	appRepo ports.ApplicationRepository,
	tokenRepo ports.TokenRepository,
	balanceRepo ports.BalanceRepository,
	withdrawalRepo ports.WithdrawalRepository,
	dialer ports.TokenLedgerDialer,
	transactor ports.DBTransactor,
	auth Authorizer,
	notifier ports.Notifier,
	log zerolog.Logger,
) *WithdrawalServiceImpl {
	return &WithdrawalServiceImpl{
		appRepo:        appRepo,
		tokenRepo:      tokenRepo,
		balanceRepo:    balanceRepo,
		withdrawalRepo: withdrawalRepo,
		dialer:         dialer,
		transactor:     transactor,
		auth:           auth,
		notifier:       notifier,
		log:            log,
	}
}

// Withdraw pays out part of an application's native balance to its owner.
func (s *WithdrawalServiceImpl) Withdraw(ctx context.Context, req ports.WithdrawRequest) (*domain.Withdrawal, error) {
	if req.Amount <= 0 {
		return nil, apperror.Validation("amount must be positive")
	}

	// Begin database transaction
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.authorizeOwner(ctx, dbTx, req.AppID, req.Caller, "", req.Amount); err != nil {
		return nil, err
	}

	w, err := s.debitAndRecord(ctx, dbTx, req.AppID, domain.Native(), req.Amount, req.Caller)
	if err != nil {
		metrics.RecordWithdrawal("", false)
		return nil, err
	}

	// Commit
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.finishWithdrawal(ctx, w)
	return w, nil
}

// TokenWithdraw pays out part of an application's token balance to its
// owner. The external transfer out of escrow is the last side-effecting
// step before commit; a remote failure rolls back the local debit.
func (s *WithdrawalServiceImpl) TokenWithdraw(ctx context.Context, req ports.TokenWithdrawRequest) (*domain.Withdrawal, error) {
	if req.Amount <= 0 {
		return nil, apperror.Validation("amount must be positive")
	}

	// Begin database transaction
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.authorizeOwner(ctx, dbTx, req.AppID, req.Caller, req.Symbol, req.Amount); err != nil {
		return nil, err
	}

	w, err := s.debitAndRecord(ctx, dbTx, req.AppID, domain.TokenCurrency(req.Symbol), req.Amount, req.Caller)
	if err != nil {
		metrics.RecordWithdrawal(req.Symbol, false)
		return nil, err
	}

	token, err := s.tokenRepo.GetBySymbol(ctx, req.Symbol)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("resolve token: %w", err))
	}
	if token == nil {
		metrics.RecordWithdrawal(req.Symbol, false)
		return nil, apperror.ErrTokenUnsupported()
	}

	// Push the funds out of escrow to the owner. The remote reason passes
	// through verbatim on failure.
	ledger := s.dialer.Dial(token.LedgerAddress)
	if err := ledger.Transfer(ctx, req.Caller, req.Amount); err != nil {
		metrics.RecordWithdrawal(req.Symbol, false)
		if appErr, ok := err.(*apperror.AppError); ok {
			return nil, appErr
		}
		return nil, apperror.ErrTokenLedgerUnreachable(err)
	}

	// Commit
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.finishWithdrawal(ctx, w)
	return w, nil
}

// authorizeOwner locks the application row and verifies the caller owns it.
// Unknown applications resolve to no owner and fail the same way a foreign
// caller does.
func (s *WithdrawalServiceImpl) authorizeOwner(ctx context.Context, dbTx pgx.Tx, appID, caller, symbol string, amount int64) error {
	app, err := s.appRepo.GetByIDForUpdate(ctx, dbTx, appID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("lock application: %w", err))
	}
	owner := domain.NoOwner
	if app != nil {
		owner = app.Owner
	}
	if !s.auth.CanManageApplication(caller, owner) {
		metrics.RecordWithdrawal(symbol, false)
		s.log.Warn().
			Str("app_id", appID).
			Str("caller", caller).
			Int64("amount", amount).
			Msg("withdrawal denied")
		return apperror.ErrUnauthorized()
	}
	return nil
}

// debitAndRecord performs the shared bookkeeping inside an open transaction:
// debit the balance under lock and append the payout record.
func (s *WithdrawalServiceImpl) debitAndRecord(
	ctx context.Context,
	dbTx pgx.Tx,
	appID string,
	currency domain.Currency,
	amount int64,
	recipient string,
) (*domain.Withdrawal, error) {
	balance, err := s.balanceRepo.GetForUpdate(ctx, dbTx, appID, currency.Symbol())
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock balance: %w", err))
	}
	if balance < amount {
		return nil, apperror.ErrInsufficientBalance()
	}
	if err := s.balanceRepo.Set(ctx, dbTx, appID, currency.Symbol(), balance-amount); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("debit balance: %w", err))
	}

	w := &domain.Withdrawal{
		ID:        uuid.New(),
		AppID:     appID,
		Currency:  currency.Symbol(),
		Amount:    amount,
		Recipient: recipient,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.withdrawalRepo.Create(ctx, dbTx, w); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create withdrawal: %w", err))
	}
	return w, nil
}

// finishWithdrawal runs the post-commit, best-effort side effects.
func (s *WithdrawalServiceImpl) finishWithdrawal(ctx context.Context, w *domain.Withdrawal) {
	s.notifier.WithdrawalSucceeded(ctx, domain.WithdrawalSucceededEvent{
		AppID:       w.AppID,
		Currency:    w.Currency,
		Amount:      w.Amount,
		WithdrawnAt: w.CreatedAt,
	})

	metrics.RecordWithdrawal(w.Currency, true)

	s.log.Info().
		Str("withdrawal_id", w.ID.String()).
		Str("app_id", w.AppID).
		Str("currency", w.Currency).
		Int64("amount", w.Amount).
		Str("recipient", w.Recipient).
		Msg("withdrawal completed")
}
