package handler

import (
	"github.com/gin-gonic/gin"

	"escrow-ledger/internal/adapter/http/dto"
	"escrow-ledger/internal/adapter/http/middleware"
	"escrow-ledger/internal/core/ports"
	"escrow-ledger/pkg/apperror"
	"escrow-ledger/pkg/response"
)

// TokenHandler handles the token registry endpoints.
type TokenHandler struct {
	tokenSvc ports.TokenRegistryService
}

// NewTokenHandler creates a new TokenHandler.
func NewTokenHandler(tokenSvc ports.TokenRegistryService) *TokenHandler {
	return &TokenHandler{tokenSvc: tokenSvc}
}

// Register handles POST /api/v1/tokens. Administrator only.
func (h *TokenHandler) Register(c *gin.Context) {
	caller, ok := middleware.Caller(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.RegisterTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	token, err := h.tokenSvc.Register(c.Request.Context(), ports.RegisterTokenRequest{
		Symbol:        req.Symbol,
		LedgerAddress: req.LedgerAddress,
		Caller:        caller,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.TokenResponse{
		Symbol:        token.Symbol,
		LedgerAddress: token.LedgerAddress,
	})
}

// Get handles GET /api/v1/tokens/:symbol.
func (h *TokenHandler) Get(c *gin.Context) {
	symbol := c.Param("symbol")

	token, err := h.tokenSvc.Resolve(c.Request.Context(), symbol)
	if err != nil {
		response.Error(c, err)
		return
	}
	if token == nil {
		response.Error(c, apperror.ErrTokenUnsupported())
		return
	}

	response.OK(c, dto.TokenResponse{
		Symbol:        token.Symbol,
		LedgerAddress: token.LedgerAddress,
	})
}
