package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"blockbustre.backend/internal/domain/entities"
	domainerrors "blockbustre.backend/internal/domain/errors"
	"blockbustre.backend/internal/interfaces/http/middleware"
	"blockbustre.backend/internal/interfaces/http/response"
	"blockbustre.backend/internal/usecases"
)

// AccountService is the surface of the account usecase the handler needs
type AccountService interface {
	GetAccount(ctx context.Context, userID uuid.UUID) (*usecases.AccountView, error)
	UpdateAccount(ctx context.Context, userID uuid.UUID, input *entities.UpdateUserInput) (*usecases.AccountView, error)
	Dashboard(ctx context.Context, userID uuid.UUID) (*usecases.DashboardStats, error)
	RequestKYC(ctx context.Context, userID uuid.UUID) error
	GetAdminStatus(ctx context.Context, userID uuid.UUID) (*usecases.AdminStatus, error)
}

// AccountHandler handles the authenticated account surface
type AccountHandler struct {
	accountUsecase AccountService
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(accountUsecase AccountService) *AccountHandler {
	return &AccountHandler{accountUsecase: accountUsecase}
}

// Me returns the current user with profile and fee figures
// GET /api/v1/auth/me
func (h *AccountHandler) Me(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("authentication required"))
		return
	}

	view, err := h.accountUsecase.GetAccount(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

// GetProfile returns the account with profile
// GET /api/v1/account/profile
func (h *AccountHandler) GetProfile(c *gin.Context) {
	h.Me(c)
}

// UpdateProfile patches user and profile fields
// PUT /api/v1/account/profile
func (h *AccountHandler) UpdateProfile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("authentication required"))
		return
	}

	var input entities.UpdateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	view, err := h.accountUsecase.UpdateAccount(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

// Dashboard returns account statistics
// GET /api/v1/account/dashboard
func (h *AccountHandler) Dashboard(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("authentication required"))
		return
	}

	stats, err := h.accountUsecase.Dashboard(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, stats)
}

// RequestKYC records a KYC verification request
// POST /api/v1/account/kyc/request
func (h *AccountHandler) RequestKYC(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("authentication required"))
		return
	}

	if err := h.accountUsecase.RequestKYC(c.Request.Context(), userID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusAccepted, gin.H{
		"message": "KYC verification requested",
	})
}

// AdminStatus reports the caller's staff and role standing
// GET /api/v1/account/admin-status
func (h *AccountHandler) AdminStatus(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("authentication required"))
		return
	}

	status, err := h.accountUsecase.GetAdminStatus(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, status)
}
