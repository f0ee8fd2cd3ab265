package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"blockbustre.backend/internal/domain/entities"
	domainerrors "blockbustre.backend/internal/domain/errors"
	"blockbustre.backend/internal/interfaces/http/response"
)

// RoleService is the surface of the role usecase the handler needs
type RoleService interface {
	ListActive(ctx context.Context) ([]*entities.Role, error)
	Create(ctx context.Context, input *entities.CreateRoleInput) (*entities.Role, error)
	GrantPermission(ctx context.Context, roleID uuid.UUID, codename string) error
	RevokePermission(ctx context.Context, roleID uuid.UUID, codename string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// RoleHandler handles role management endpoints. The routes carry the staff
// requirement; the handler trusts it.
type RoleHandler struct {
	roleUsecase RoleService
}

// NewRoleHandler creates a new role handler
func NewRoleHandler(roleUsecase RoleService) *RoleHandler {
	return &RoleHandler{roleUsecase: roleUsecase}
}

// List returns active roles with their permission sets
// GET /api/v1/roles
func (h *RoleHandler) List(c *gin.Context) {
	roles, err := h.roleUsecase.ListActive(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]gin.H, 0, len(roles))
	for _, role := range roles {
		out = append(out, gin.H{
			"id":              role.ID,
			"name":            role.Name,
			"description":     role.Description,
			"permissions":     role.Permissions,
			"permissionCount": len(role.Permissions),
		})
	}
	response.Success(c, http.StatusOK, gin.H{"roles": out})
}

// Create adds a role
// POST /api/v1/roles
func (h *RoleHandler) Create(c *gin.Context) {
	var input entities.CreateRoleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	role, err := h.roleUsecase.Create(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, role)
}

// GrantPermission adds a permission codename to a role
// POST /api/v1/roles/:id/permissions
func (h *RoleHandler) GrantPermission(c *gin.Context) {
	roleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid role id")
		return
	}

	var input struct {
		Codename string `json:"codename" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.roleUsecase.GrantPermission(c.Request.Context(), roleID, input.Codename); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"message": "Permission granted",
	})
}

// RevokePermission removes a permission codename from a role
// DELETE /api/v1/roles/:id/permissions/:codename
func (h *RoleHandler) RevokePermission(c *gin.Context) {
	roleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid role id")
		return
	}

	if err := h.roleUsecase.RevokePermission(c.Request.Context(), roleID, c.Param("codename")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"message": "Permission revoked",
	})
}

// Delete removes a role
// DELETE /api/v1/roles/:id
func (h *RoleHandler) Delete(c *gin.Context) {
	roleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid role id"))
		return
	}

	if err := h.roleUsecase.Delete(c.Request.Context(), roleID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"message": "Role deleted",
	})
}
