package usecases

import (
	"context"

	"github.com/google/uuid"
	"blockbustre.backend/internal/domain/entities"
	domainerrors "blockbustre.backend/internal/domain/errors"
	"blockbustre.backend/internal/domain/repositories"
)

// RoleUsecase handles role management. All operations are staff-only; the
// HTTP layer enforces that before calls arrive here.
type RoleUsecase struct {
	roleRepo repositories.RoleRepository
}

// NewRoleUsecase creates a new role usecase
func NewRoleUsecase(roleRepo repositories.RoleRepository) *RoleUsecase {
	return &RoleUsecase{roleRepo: roleRepo}
}

// ListActive lists active roles with their permission sets
func (u *RoleUsecase) ListActive(ctx context.Context) ([]*entities.Role, error) {
	return u.roleRepo.ListActive(ctx)
}

// GetByID returns one role
func (u *RoleUsecase) GetByID(ctx context.Context, id uuid.UUID) (*entities.Role, error) {
	return u.roleRepo.GetByID(ctx, id)
}

// Create creates a role. Every requested codename must belong to the
// enumerated permission set; one bad codename rejects the whole request.
func (u *RoleUsecase) Create(ctx context.Context, input *entities.CreateRoleInput) (*entities.Role, error) {
	for _, codename := range input.Permissions {
		if !entities.IsValidPermission(codename) {
			return nil, domainerrors.NewError("unknown permission: "+codename, domainerrors.ErrInvalidInput)
		}
	}

	if _, err := u.roleRepo.GetByName(ctx, input.Name); err == nil {
		return nil, domainerrors.ErrAlreadyExists
	}

	role := &entities.Role{
		Name:        input.Name,
		Description: input.Description,
		IsActive:    true,
		Permissions: input.Permissions,
	}
	if err := u.roleRepo.Create(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

// GrantPermission adds a codename to a role. Granting a codename the role
// already holds is a no-op, not an error.
func (u *RoleUsecase) GrantPermission(ctx context.Context, roleID uuid.UUID, codename string) error {
	if !entities.IsValidPermission(codename) {
		return domainerrors.NewError("unknown permission: "+codename, domainerrors.ErrInvalidInput)
	}
	return u.roleRepo.GrantPermission(ctx, roleID, codename)
}

// RevokePermission removes a codename from a role
func (u *RoleUsecase) RevokePermission(ctx context.Context, roleID uuid.UUID, codename string) error {
	return u.roleRepo.RevokePermission(ctx, roleID, codename)
}

// Delete removes a role. Users referencing it keep their accounts; the
// database clears their role assignment.
func (u *RoleUsecase) Delete(ctx context.Context, id uuid.UUID) error {
	return u.roleRepo.Delete(ctx, id)
}
