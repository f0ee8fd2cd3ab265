package entities

import (
	"time"

	"github.com/google/uuid"
)

// Permission codenames are an explicit enumerated set rather than a
// framework-generated catalog. Grants outside this set are rejected.
const (
	PermUserView   = "view_user"
	PermUserAdd    = "add_user"
	PermUserChange = "change_user"
	PermUserDelete = "delete_user"

	PermRoleView   = "view_role"
	PermRoleAdd    = "add_role"
	PermRoleChange = "change_role"
	PermRoleDelete = "delete_role"

	PermContractView   = "view_contract"
	PermContractAdd    = "add_contract"
	PermContractChange = "change_contract"
	PermContractDelete = "delete_contract"

	PermTransactionView   = "view_transaction"
	PermTransactionAdd    = "add_transaction"
	PermTransactionChange = "change_transaction"
	PermTransactionDelete = "delete_transaction"
)

// AllPermissions lists every valid permission codename
var AllPermissions = []string{
	PermUserView, PermUserAdd, PermUserChange, PermUserDelete,
	PermRoleView, PermRoleAdd, PermRoleChange, PermRoleDelete,
	PermContractView, PermContractAdd, PermContractChange, PermContractDelete,
	PermTransactionView, PermTransactionAdd, PermTransactionChange, PermTransactionDelete,
}

// IsValidPermission reports whether a codename belongs to the enumerated set
func IsValidPermission(codename string) bool {
	for _, p := range AllPermissions {
		if p == codename {
			return true
		}
	}
	return false
}

// Role groups permission codenames for RBAC
type Role struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"isActive"`
	Permissions []string  `json:"permissions,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// HasPermission reports whether the role grants a permission codename
func (r *Role) HasPermission(codename string) bool {
	for _, p := range r.Permissions {
		if p == codename {
			return true
		}
	}
	return false
}

// CreateRoleInput represents input for creating a role
type CreateRoleInput struct {
	Name        string   `json:"name" binding:"required,min=1,max=100"`
	Description string   `json:"description,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
}
