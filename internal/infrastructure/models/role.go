package models

import (
	"time"

	"github.com/google/uuid"
)

type Role struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Name        string    `gorm:"type:varchar(50);uniqueIndex;not null"`
	Description string    `gorm:"type:text"`
	IsActive    bool      `gorm:"default:true"`

	Permissions []RolePermission `gorm:"constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// RolePermission maps a role to one permission codename. The pair is
// unique so granting twice stays a single row.
type RolePermission struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	RoleID   uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_role_permission;not null"`
	Codename string    `gorm:"type:varchar(100);uniqueIndex:idx_role_permission;not null"`

	CreatedAt time.Time
}
