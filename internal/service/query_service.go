package service

import (
	"context"
	"fmt"

	"escrow-ledger/internal/core/domain"
	"escrow-ledger/internal/core/ports"
	"escrow-ledger/pkg/apperror"

	"github.com/rs/zerolog"
)

// QueryServiceImpl implements ports.QueryService. Every lookup is total:
// missing records come back as zeroed sentinels, never as errors.
type QueryServiceImpl struct {
	appRepo     ports.ApplicationRepository
	balanceRepo ports.BalanceRepository
	orderRepo   ports.OrderRepository
	log         zerolog.Logger
}

// NewQueryService creates a new QueryServiceImpl.
func NewQueryService(
	appRepo ports.ApplicationRepository,
	balanceRepo ports.BalanceRepository,
	orderRepo ports.OrderRepository,
	log zerolog.Logger,
) *QueryServiceImpl {
	return &QueryServiceImpl{
		appRepo:     appRepo,
		balanceRepo: balanceRepo,
		orderRepo:   orderRepo,
		log:         log,
	}
}

// Order returns the order, or a zeroed record when it was never paid.
func (s *QueryServiceImpl) Order(ctx context.Context, appID, orderNo string) (*domain.Order, error) {
	order, err := s.orderRepo.Get(ctx, appID, orderNo)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get order: %w", err))
	}
	if order == nil {
		return &domain.Order{AppID: appID}, nil
	}
	return order, nil
}

// OrderMulti returns one record per requested order number, preserving the
// input order. Misses yield zeroed records in place.
func (s *QueryServiceImpl) OrderMulti(ctx context.Context, appID string, orderNos []string) ([]domain.Order, error) {
	found, err := s.orderRepo.GetMulti(ctx, appID, orderNos)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get orders: %w", err))
	}
	out := make([]domain.Order, len(orderNos))
	for i, no := range orderNos {
		if order, ok := found[no]; ok {
			out[i] = order
		} else {
			out[i] = domain.Order{AppID: appID}
		}
	}
	return out, nil
}

// AppOrderCount returns the number of orders paid against one application.
// Unknown applications count zero.
func (s *QueryServiceImpl) AppOrderCount(ctx context.Context, appID string) (int64, error) {
	counts, err := s.appRepo.OrderCounts(ctx, []string{appID})
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("get order count: %w", err))
	}
	return counts[appID], nil
}

// AppOrderCountMulti returns one count per requested id, preserving the
// input order.
func (s *QueryServiceImpl) AppOrderCountMulti(ctx context.Context, appIDs []string) ([]int64, error) {
	counts, err := s.appRepo.OrderCounts(ctx, appIDs)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get order counts: %w", err))
	}
	out := make([]int64, len(appIDs))
	for i, id := range appIDs {
		out[i] = counts[id]
	}
	return out, nil
}

// TotalOrderCount returns the number of orders across all applications.
func (s *QueryServiceImpl) TotalOrderCount(ctx context.Context) (int64, error) {
	n, err := s.orderRepo.TotalCount(ctx)
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("count orders: %w", err))
	}
	return n, nil
}

// PaginateAppOrders pages through an application's orders in insertion
// order. Out-of-range offsets return an empty page.
func (s *QueryServiceImpl) PaginateAppOrders(ctx context.Context, appID string, offset, limit int) ([]domain.Order, error) {
	if offset < 0 || limit <= 0 {
		return nil, apperror.Validation("offset must be non-negative and limit positive")
	}
	orders, err := s.orderRepo.ListByApp(ctx, appID, offset, limit)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list orders: %w", err))
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return orders, nil
}

// Balance returns the escrow balance for one currency. Unknown applications
// and untouched currencies read as zero.
func (s *QueryServiceImpl) Balance(ctx context.Context, appID string, currency domain.Currency) (int64, error) {
	balance, err := s.balanceRepo.Get(ctx, appID, currency.Symbol())
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("get balance: %w", err))
	}
	return balance, nil
}

// Balances returns every non-zero balance held for an application, keyed by
// wire symbol.
func (s *QueryServiceImpl) Balances(ctx context.Context, appID string) (map[string]int64, error) {
	balances, err := s.balanceRepo.GetAll(ctx, appID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get balances: %w", err))
	}
	if balances == nil {
		balances = map[string]int64{}
	}
	return balances, nil
}
