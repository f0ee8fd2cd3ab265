package repositories

import (
	"context"

	"github.com/google/uuid"
	"blockbustre.backend/internal/domain/entities"
)

// UserRepository defines account data operations
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	Update(ctx context.Context, user *entities.User) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	MarkVerified(ctx context.Context, id uuid.UUID) error
	SetSubscriptionState(ctx context.Context, id uuid.UUID, active bool) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, search string) ([]*entities.User, error)
}

// UserProfileRepository defines profile data operations
type UserProfileRepository interface {
	Create(ctx context.Context, profile *entities.UserProfile) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.UserProfile, error)
	Update(ctx context.Context, profile *entities.UserProfile) error
}

// RoleRepository defines role and permission-set operations
type RoleRepository interface {
	Create(ctx context.Context, role *entities.Role) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Role, error)
	GetByName(ctx context.Context, name string) (*entities.Role, error)
	ListActive(ctx context.Context) ([]*entities.Role, error)
	// GrantPermission is idempotent: granting a codename the role already
	// holds is a no-op.
	GrantPermission(ctx context.Context, roleID uuid.UUID, codename string) error
	RevokePermission(ctx context.Context, roleID uuid.UUID, codename string) error
	Delete(ctx context.Context, id uuid.UUID) error
}
