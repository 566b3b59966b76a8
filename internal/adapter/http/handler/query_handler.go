package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"escrow-ledger/internal/adapter/http/dto"
	"escrow-ledger/internal/core/domain"
	"escrow-ledger/internal/core/ports"
	"escrow-ledger/pkg/apperror"
	"escrow-ledger/pkg/response"
)

// QueryHandler handles the public read surface over orders and balances.
type QueryHandler struct {
	querySvc ports.QueryService
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(querySvc ports.QueryService) *QueryHandler {
	return &QueryHandler{querySvc: querySvc}
}

// GetOrder handles GET /api/v1/applications/:id/orders/:orderNo. A
// never-paid order number returns a zeroed record, not a 404.
func (h *QueryHandler) GetOrder(c *gin.Context) {
	order, err := h.querySvc.Order(c.Request.Context(), c.Param("id"), c.Param("orderNo"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toOrderResponse(order))
}

// QueryOrders handles POST /api/v1/orders/query.
func (h *QueryHandler) QueryOrders(c *gin.Context) {
	var req dto.OrderQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	orders, err := h.querySvc.OrderMulti(c.Request.Context(), req.AppID, req.OrderNos)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.OrderResponse, len(orders))
	for i := range orders {
		items[i] = toOrderResponse(&orders[i])
	}
	response.OK(c, items)
}

// GetAppOrderCount handles GET /api/v1/counts/orders/:app.
func (h *QueryHandler) GetAppOrderCount(c *gin.Context) {
	count, err := h.querySvc.AppOrderCount(c.Request.Context(), c.Param("app"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.CountResponse{Count: count})
}

// QueryAppOrderCounts handles POST /api/v1/orders/count.
func (h *QueryHandler) QueryAppOrderCounts(c *gin.Context) {
	var req dto.OrderCountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	counts, err := h.querySvc.AppOrderCountMulti(c.Request.Context(), req.AppIDs)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.OrderCountsResponse{Counts: counts})
}

// GetTotalOrderCount handles GET /api/v1/counts/orders.
func (h *QueryHandler) GetTotalOrderCount(c *gin.Context) {
	count, err := h.querySvc.TotalOrderCount(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.CountResponse{Count: count})
}

// ListOrders handles GET /api/v1/applications/:id/orders?offset=0&limit=20.
func (h *QueryHandler) ListOrders(c *gin.Context) {
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil {
		response.Error(c, apperror.Validation("offset must be an integer"))
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil {
		response.Error(c, apperror.Validation("limit must be an integer"))
		return
	}

	orders, err := h.querySvc.PaginateAppOrders(c.Request.Context(), c.Param("id"), offset, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.OrderResponse, len(orders))
	for i := range orders {
		items[i] = toOrderResponse(&orders[i])
	}
	response.OK(c, dto.OrderListResponse{Items: items, Offset: offset, Limit: limit})
}

// GetBalance handles GET /api/v1/apps/:id/balance?currency=GLD. The empty
// currency reads the native balance.
func (h *QueryHandler) GetBalance(c *gin.Context) {
	appID := c.Param("id")
	symbol := c.Query("currency")

	currency := domain.Native()
	if symbol != "" {
		currency = domain.TokenCurrency(symbol)
	}

	balance, err := h.querySvc.Balance(c.Request.Context(), appID, currency)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.BalanceResponse{AppID: appID, Currency: symbol, Balance: balance})
}

// GetBalances handles GET /api/v1/apps/:id/balances.
func (h *QueryHandler) GetBalances(c *gin.Context) {
	appID := c.Param("id")

	balances, err := h.querySvc.Balances(c.Request.Context(), appID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.BalancesResponse{AppID: appID, Balances: balances})
}
