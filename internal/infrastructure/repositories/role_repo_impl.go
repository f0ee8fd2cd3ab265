package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"blockbustre.backend/internal/domain/entities"
	domainerrors "blockbustre.backend/internal/domain/errors"
	"blockbustre.backend/internal/infrastructure/models"
)

// RoleRepository implements role and permission mapping operations
type RoleRepository struct {
	db *gorm.DB
}

// NewRoleRepository creates a new role repository
func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

// Create creates a role together with its permission rows
func (r *RoleRepository) Create(ctx context.Context, role *entities.Role) error {
	m := &models.Role{
		ID:          role.ID,
		Name:        role.Name,
		Description: role.Description,
		IsActive:    role.IsActive,
		CreatedAt:   role.CreatedAt,
		UpdatedAt:   role.UpdatedAt,
	}
	for _, codename := range role.Permissions {
		m.Permissions = append(m.Permissions, models.RolePermission{
			ID:       uuid.New(),
			RoleID:   role.ID,
			Codename: codename,
		})
	}
	return GetDB(ctx, r.db).WithContext(ctx).Create(m).Error
}

// GetByID gets a role with its permissions
func (r *RoleRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Role, error) {
	var m models.Role
	err := GetDB(ctx, r.db).WithContext(ctx).
		Preload("Permissions").
		Where("id = ?", id).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return roleToEntity(&m), nil
}

// GetByName gets a role by its unique name
func (r *RoleRepository) GetByName(ctx context.Context, name string) (*entities.Role, error) {
	var m models.Role
	err := GetDB(ctx, r.db).WithContext(ctx).
		Preload("Permissions").
		Where("name = ?", name).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return roleToEntity(&m), nil
}

// ListActive lists active roles ordered by name
func (r *RoleRepository) ListActive(ctx context.Context) ([]*entities.Role, error) {
	var roleModels []models.Role
	err := GetDB(ctx, r.db).WithContext(ctx).
		Preload("Permissions").
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&roleModels).Error
	if err != nil {
		return nil, err
	}

	var roles []*entities.Role
	for _, m := range roleModels {
		model := m
		roles = append(roles, roleToEntity(&model))
	}
	return roles, nil
}

// GrantPermission adds a permission to a role. Granting an already held
// permission is a no-op.
func (r *RoleRepository) GrantPermission(ctx context.Context, roleID uuid.UUID, codename string) error {
	var count int64
	db := GetDB(ctx, r.db).WithContext(ctx)
	if err := db.Model(&models.Role{}).Where("id = ?", roleID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return domainerrors.ErrNotFound
	}

	m := &models.RolePermission{
		ID:       uuid.New(),
		RoleID:   roleID,
		Codename: codename,
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "role_id"}, {Name: "codename"}},
		DoNothing: true,
	}).Create(m).Error
}

// RevokePermission removes a permission from a role
func (r *RoleRepository) RevokePermission(ctx context.Context, roleID uuid.UUID, codename string) error {
	result := GetDB(ctx, r.db).WithContext(ctx).
		Where("role_id = ? AND codename = ?", roleID, codename).
		Delete(&models.RolePermission{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// Delete removes a role. Users holding it fall back to no role via the
// SET NULL constraint.
func (r *RoleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := GetDB(ctx, r.db).WithContext(ctx)
	if err := db.Where("role_id = ?", id).Delete(&models.RolePermission{}).Error; err != nil {
		return err
	}
	result := db.Delete(&models.Role{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func roleToEntity(m *models.Role) *entities.Role {
	role := &entities.Role{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		IsActive:    m.IsActive,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	for _, p := range m.Permissions {
		role.Permissions = append(role.Permissions, p.Codename)
	}
	return role
}
