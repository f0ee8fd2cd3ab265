package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"blockbustre.backend/internal/domain/entities"
	domainerrors "blockbustre.backend/internal/domain/errors"
	"blockbustre.backend/internal/interfaces/http/middleware"
	"blockbustre.backend/internal/interfaces/http/response"
	"blockbustre.backend/pkg/utils"
)

// TransactionService is the surface of the transaction usecase the handler needs
type TransactionService interface {
	Create(ctx context.Context, userID uuid.UUID, input *entities.CreateTransactionInput) (*entities.Transaction, error)
	Get(ctx context.Context, userID uuid.UUID, isStaff bool, id uuid.UUID) (*entities.Transaction, error)
	List(ctx context.Context, userID uuid.UUID, isStaff bool, filter entities.TransactionFilter, p utils.PaginationParams) ([]*entities.Transaction, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entities.TransactionStatus, errorMessage string) (*entities.Transaction, error)
}

// TransactionHandler handles payment transaction endpoints
type TransactionHandler struct {
	transactionUsecase TransactionService
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(transactionUsecase TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionUsecase: transactionUsecase}
}

// Create records a new transaction
// POST /api/v1/transactions
func (h *TransactionHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("authentication required"))
		return
	}

	var input entities.CreateTransactionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	tx, err := h.transactionUsecase.Create(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, tx)
}

// Get returns one transaction
// GET /api/v1/transactions/:id
func (h *TransactionHandler) Get(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("authentication required"))
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid transaction id")
		return
	}

	tx, err := h.transactionUsecase.Get(c.Request.Context(), userID, middleware.IsStaff(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, tx)
}

// List pages through transactions
// GET /api/v1/transactions
func (h *TransactionHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("authentication required"))
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	p := utils.GetPaginationParams(page, limit)

	filter := entities.TransactionFilter{
		Status: entities.TransactionStatus(c.Query("status")),
		Type:   entities.TransactionType(c.Query("type")),
	}

	transactions, total, err := h.transactionUsecase.List(c.Request.Context(), userID, middleware.IsStaff(c), filter, p)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"transactions": transactions,
		"pagination":   utils.CalculateMeta(total, p.Page, p.Limit),
	})
}

type updateTransactionStatusRequest struct {
	Status       string `json:"status" binding:"required"`
	ErrorMessage string `json:"errorMessage"`
}

// UpdateStatus advances the transaction lifecycle, staff only
// PUT /api/v1/transactions/:id/status
func (h *TransactionHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid transaction id")
		return
	}

	var req updateTransactionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	tx, err := h.transactionUsecase.UpdateStatus(c.Request.Context(), id, entities.TransactionStatus(req.Status), req.ErrorMessage)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, tx)
}
