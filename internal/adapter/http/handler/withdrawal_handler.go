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

// WithdrawalHandler handles payout endpoints. Only the application owner
// can withdraw; the check runs in the service against the stored owner.
type WithdrawalHandler struct {
	withdrawalSvc ports.WithdrawalService
}

// NewWithdrawalHandler creates a new WithdrawalHandler.
func NewWithdrawalHandler(withdrawalSvc ports.WithdrawalService) *WithdrawalHandler {
	return &WithdrawalHandler{withdrawalSvc: withdrawalSvc}
}

// Withdraw handles POST /api/v1/withdrawals.
func (h *WithdrawalHandler) Withdraw(c *gin.Context) {
	caller, ok := middleware.Caller(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	withdrawal, err := h.withdrawalSvc.Withdraw(c.Request.Context(), ports.WithdrawRequest{
		AppID:  req.AppID,
		Amount: req.Amount,
		Caller: caller,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toWithdrawalResponse(withdrawal))
}

// TokenWithdraw handles POST /api/v1/withdrawals/token.
func (h *WithdrawalHandler) TokenWithdraw(c *gin.Context) {
	caller, ok := middleware.Caller(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.TokenWithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	withdrawal, err := h.withdrawalSvc.TokenWithdraw(c.Request.Context(), ports.TokenWithdrawRequest{
		AppID:  req.AppID,
		Symbol: req.Symbol,
		Amount: req.Amount,
		Caller: caller,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toWithdrawalResponse(withdrawal))
}

func toWithdrawalResponse(w *domain.Withdrawal) dto.WithdrawalResponse {
	return dto.WithdrawalResponse{
		ID:        w.ID.String(),
		AppID:     w.AppID,
		Currency:  w.Currency,
		Amount:    w.Amount,
		Recipient: w.Recipient,
		CreatedAt: w.CreatedAt.Format(time.RFC3339),
	}
}
