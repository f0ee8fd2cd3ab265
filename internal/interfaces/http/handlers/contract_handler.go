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

// ContractService is the surface of the contract usecase the handler needs
type ContractService interface {
	Create(ctx context.Context, userID uuid.UUID, input *entities.CreateContractInput) (*entities.SmartContract, error)
	Get(ctx context.Context, userID uuid.UUID, isStaff bool, id uuid.UUID) (*entities.SmartContract, error)
	List(ctx context.Context, userID uuid.UUID, isStaff bool, filter entities.ContractFilter, p utils.PaginationParams) ([]*entities.SmartContract, int64, error)
	Update(ctx context.Context, userID uuid.UUID, isStaff bool, id uuid.UUID, input *entities.UpdateContractInput) (*entities.SmartContract, error)
	SoftDelete(ctx context.Context, userID uuid.UUID, isStaff bool, id uuid.UUID) error
	Restore(ctx context.Context, userID uuid.UUID, isStaff bool, id uuid.UUID) (*entities.SmartContract, error)
	EstimateFees(ctx context.Context, userID uuid.UUID, isStaff bool, id uuid.UUID) (*entities.SmartContract, error)
	Submit(ctx context.Context, userID uuid.UUID, isStaff bool, id uuid.UUID) (*entities.SmartContract, error)
	Deploy(ctx context.Context, id uuid.UUID) (*entities.SmartContract, error)
	ListDeploymentLogs(ctx context.Context, userID uuid.UUID, isStaff bool, id uuid.UUID) ([]*entities.ContractDeploymentLog, error)
}

// ContractHandler handles registration-record endpoints
type ContractHandler struct {
	contractUsecase ContractService
}

// NewContractHandler creates a new contract handler
func NewContractHandler(contractUsecase ContractService) *ContractHandler {
	return &ContractHandler{contractUsecase: contractUsecase}
}

func (h *ContractHandler) caller(c *gin.Context) (uuid.UUID, bool, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("authentication required"))
		return uuid.Nil, false, false
	}
	return userID, middleware.IsStaff(c), true
}

func contractID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid contract id")
		return uuid.Nil, false
	}
	return id, true
}

// Create opens a draft record
// POST /api/v1/contracts
func (h *ContractHandler) Create(c *gin.Context) {
	userID, _, ok := h.caller(c)
	if !ok {
		return
	}

	var input entities.CreateContractInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	contract, err := h.contractUsecase.Create(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, contract)
}

// Get returns one record, including soft-deleted ones
// GET /api/v1/contracts/:id
func (h *ContractHandler) Get(c *gin.Context) {
	userID, isStaff, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := contractID(c)
	if !ok {
		return
	}

	contract, err := h.contractUsecase.Get(c.Request.Context(), userID, isStaff, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, contract)
}

// List pages through records
// GET /api/v1/contracts
func (h *ContractHandler) List(c *gin.Context) {
	userID, isStaff, ok := h.caller(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	p := utils.GetPaginationParams(page, limit)

	filter := entities.ContractFilter{
		Status: entities.ContractStatus(c.Query("status")),
	}
	if raw := c.Query("categoryId"); raw != "" {
		categoryID, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, "invalid category id")
			return
		}
		filter.CategoryID = uuid.NullUUID{UUID: categoryID, Valid: true}
	}

	contracts, total, err := h.contractUsecase.List(c.Request.Context(), userID, isStaff, filter, p)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"contracts":  contracts,
		"pagination": utils.CalculateMeta(total, p.Page, p.Limit),
	})
}

// Update patches a draft or pending record
// PUT /api/v1/contracts/:id
func (h *ContractHandler) Update(c *gin.Context) {
	userID, isStaff, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := contractID(c)
	if !ok {
		return
	}

	var input entities.UpdateContractInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	contract, err := h.contractUsecase.Update(c.Request.Context(), userID, isStaff, id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, contract)
}

// Delete soft deletes a record
// DELETE /api/v1/contracts/:id
func (h *ContractHandler) Delete(c *gin.Context) {
	userID, isStaff, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := contractID(c)
	if !ok {
		return
	}

	if err := h.contractUsecase.SoftDelete(c.Request.Context(), userID, isStaff, id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"message": "Contract deleted",
	})
}

// Restore clears the deletion state
// POST /api/v1/contracts/:id/restore
func (h *ContractHandler) Restore(c *gin.Context) {
	userID, isStaff, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := contractID(c)
	if !ok {
		return
	}

	contract, err := h.contractUsecase.Restore(c.Request.Context(), userID, isStaff, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, contract)
}

// Estimate quotes deployment fees and persists them on the record
// POST /api/v1/contracts/:id/estimate
func (h *ContractHandler) Estimate(c *gin.Context) {
	userID, isStaff, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := contractID(c)
	if !ok {
		return
	}

	contract, err := h.contractUsecase.EstimateFees(c.Request.Context(), userID, isStaff, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"gasFeeEstimate": contract.GasFeeEstimate,
		"serviceFee":     contract.ServiceFee,
		"totalCost":      contract.TotalCost,
		"contract":       contract,
	})
}

// Submit queues a draft for deployment
// POST /api/v1/contracts/:id/submit
func (h *ContractHandler) Submit(c *gin.Context) {
	userID, isStaff, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := contractID(c)
	if !ok {
		return
	}

	contract, err := h.contractUsecase.Submit(c.Request.Context(), userID, isStaff, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, contract)
}

// Deploy picks a pending record up for processing, staff only
// POST /api/v1/contracts/:id/deploy
func (h *ContractHandler) Deploy(c *gin.Context) {
	id, ok := contractID(c)
	if !ok {
		return
	}

	contract, err := h.contractUsecase.Deploy(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, contract)
}

// DeploymentLogs returns the attempt history
// GET /api/v1/contracts/:id/logs
func (h *ContractHandler) DeploymentLogs(c *gin.Context) {
	userID, isStaff, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := contractID(c)
	if !ok {
		return
	}

	logs, err := h.contractUsecase.ListDeploymentLogs(c.Request.Context(), userID, isStaff, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"logs": logs})
}
