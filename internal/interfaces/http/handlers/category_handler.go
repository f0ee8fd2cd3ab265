package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"blockbustre.backend/internal/domain/entities"
	"blockbustre.backend/internal/interfaces/http/response"
)

// CatalogService is the category and template surface of the contract usecase
type CatalogService interface {
	ListCategories(ctx context.Context) ([]*entities.ContractCategory, error)
	CreateCategory(ctx context.Context, category *entities.ContractCategory) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	ListTemplates(ctx context.Context, categoryID uuid.UUID) ([]*entities.ContractTemplate, error)
	CreateTemplate(ctx context.Context, template *entities.ContractTemplate) error
	UpdateTemplate(ctx context.Context, template *entities.ContractTemplate) error
}

// CategoryHandler handles contract category and template endpoints
type CategoryHandler struct {
	contractUsecase CatalogService
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(contractUsecase CatalogService) *CategoryHandler {
	return &CategoryHandler{contractUsecase: contractUsecase}
}

// ListCategories returns the active categories
// GET /api/v1/categories
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.contractUsecase.ListCategories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"categories": categories})
}

type createCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	SortOrder   int    `json:"sortOrder"`
}

// CreateCategory adds a category, staff only
// POST /api/v1/categories
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	category := &entities.ContractCategory{
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		SortOrder:   req.SortOrder,
	}
	if err := h.contractUsecase.CreateCategory(c.Request.Context(), category); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, category)
}

// DeleteCategory removes an unused category, staff only
// DELETE /api/v1/categories/:id
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid category id")
		return
	}

	if err := h.contractUsecase.DeleteCategory(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"message": "Category deleted",
	})
}

// ListTemplates returns the templates for a category
// GET /api/v1/templates?categoryId=
func (h *CategoryHandler) ListTemplates(c *gin.Context) {
	categoryID, err := uuid.Parse(c.Query("categoryId"))
	if err != nil {
		response.BadRequest(c, "categoryId query parameter is required")
		return
	}

	templates, err := h.contractUsecase.ListTemplates(c.Request.Context(), categoryID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"templates": templates})
}

type templateRequest struct {
	CategoryID   string   `json:"categoryId" binding:"required,uuid"`
	Name         string   `json:"name" binding:"required"`
	Description  string   `json:"description"`
	TemplateCode string   `json:"templateCode" binding:"required"`
	Variables    []string `json:"variables"`
}

// CreateTemplate adds a template, staff only
// POST /api/v1/templates
func (h *CategoryHandler) CreateTemplate(c *gin.Context) {
	var req templateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	template := &entities.ContractTemplate{
		CategoryID:   uuid.MustParse(req.CategoryID),
		Name:         req.Name,
		Description:  req.Description,
		TemplateCode: req.TemplateCode,
		Variables:    req.Variables,
	}
	if err := h.contractUsecase.CreateTemplate(c.Request.Context(), template); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, template)
}

// UpdateTemplate edits a template, staff only
// PUT /api/v1/templates/:id
func (h *CategoryHandler) UpdateTemplate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid template id")
		return
	}

	var req templateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	template := &entities.ContractTemplate{
		ID:           id,
		CategoryID:   uuid.MustParse(req.CategoryID),
		Name:         req.Name,
		Description:  req.Description,
		TemplateCode: req.TemplateCode,
		Variables:    req.Variables,
	}
	if err := h.contractUsecase.UpdateTemplate(c.Request.Context(), template); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, template)
}
