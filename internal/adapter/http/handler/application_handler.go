package handler

import (
	"github.com/gin-gonic/gin"

	"escrow-ledger/internal/adapter/http/dto"
	"escrow-ledger/internal/adapter/http/middleware"
	"escrow-ledger/internal/core/domain"
	"escrow-ledger/internal/core/ports"
	"escrow-ledger/pkg/apperror"
	"escrow-ledger/pkg/response"
)

// ApplicationHandler handles the application registry endpoints.
type ApplicationHandler struct {
	appSvc ports.ApplicationService
}

// NewApplicationHandler creates a new ApplicationHandler.
func NewApplicationHandler(appSvc ports.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{appSvc: appSvc}
}

// Register handles POST /api/v1/apps. The owner defaults to the caller;
// naming someone else requires the administrator.
func (h *ApplicationHandler) Register(c *gin.Context) {
	caller, ok := middleware.Caller(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.RegisterApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	owner := req.Owner
	if owner == "" {
		owner = caller
	}

	app, err := h.appSvc.Register(c.Request.Context(), ports.RegisterApplicationRequest{
		ID:     req.ID,
		Owner:  owner,
		Caller: caller,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ApplicationResponse{
		ID:      app.ID,
		Owner:   app.Owner,
		Enabled: app.Enabled,
	})
}

// SetStatus handles PUT /api/v1/apps/:id/status.
func (h *ApplicationHandler) SetStatus(c *gin.Context) {
	caller, ok := middleware.Caller(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.SetApplicationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	id := c.Param("id")
	if err := h.appSvc.SetStatus(c.Request.Context(), id, *req.Enabled, caller); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.ApplicationResponse{ID: id, Owner: caller, Enabled: *req.Enabled})
}

// Get handles GET /api/v1/apps/:id. Unknown applications read as the
// no-owner sentinel with a disabled status rather than a 404.
func (h *ApplicationHandler) Get(c *gin.Context) {
	id := c.Param("id")

	owner, err := h.appSvc.ResolveOwner(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	enabled := false
	if owner != domain.NoOwner {
		enabled, err = h.appSvc.GetStatus(c.Request.Context(), id)
		if err != nil {
			response.Error(c, err)
			return
		}
	}

	response.OK(c, dto.ApplicationResponse{ID: id, Owner: owner, Enabled: enabled})
}

// Count handles GET /api/v1/apps/count.
func (h *ApplicationHandler) Count(c *gin.Context) {
	count, err := h.appSvc.Count(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.CountResponse{Count: count})
}
