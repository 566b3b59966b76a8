package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"escrow-ledger/internal/adapter/http/dto"
	"escrow-ledger/internal/adapter/http/middleware"
	"escrow-ledger/internal/core/domain"
	"escrow-ledger/internal/core/ports"
	"escrow-ledger/pkg/apperror"
	"escrow-ledger/pkg/response"
)

// PaymentHandler handles payment endpoints. The authenticated caller is the
// payer; the request body never names one.
type PaymentHandler struct {
	paymentSvc ports.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentSvc ports.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentSvc: paymentSvc}
}

// Pay handles POST /api/v1/payments.
func (h *PaymentHandler) Pay(c *gin.Context) {
	payer, ok := middleware.Caller(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.PayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	order, err := h.paymentSvc.Pay(c.Request.Context(), ports.PayRequest{
		AppID:          req.AppID,
		OrderNo:        req.OrderNo,
		Total:          req.Total,
		ExpiredAt:      req.ExpiredAt,
		Payer:          payer,
		AmountSupplied: req.AmountSupplied,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toOrderResponse(order))
}

// TokenPay handles POST /api/v1/payments/token.
func (h *PaymentHandler) TokenPay(c *gin.Context) {
	payer, ok := middleware.Caller(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.TokenPayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	order, err := h.paymentSvc.TokenPay(c.Request.Context(), ports.TokenPayRequest{
		AppID:     req.AppID,
		OrderNo:   req.OrderNo,
		Symbol:    req.Symbol,
		Total:     req.Total,
		ExpiredAt: req.ExpiredAt,
		Payer:     payer,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toOrderResponse(order))
}

// toOrderResponse converts a domain.Order to its DTO. Zeroed orders keep an
// empty created_at so batch-query misses stay recognizable.
func toOrderResponse(o *domain.Order) dto.OrderResponse {
	resp := dto.OrderResponse{
		AppID:          o.AppID,
		OrderNo:        o.OrderNo,
		Currency:       o.Currency,
		RequestedTotal: o.RequestedTotal,
		PaidTotal:      o.PaidTotal,
		Payer:          o.Payer,
		Seq:            o.Seq,
		AppSeq:         o.AppSeq,
	}
	if !o.CreatedAt.IsZero() {
		resp.CreatedAt = o.CreatedAt.Format(time.RFC3339)
	}
	return resp
}
