package repositories

import (
	"context"

	"github.com/google/uuid"
	"blockbustre.backend/internal/domain/entities"
	"blockbustre.backend/pkg/utils"
)

// ContractRepository defines registration-record operations
type ContractRepository interface {
	Create(ctx context.Context, contract *entities.SmartContract) error
	// GetByID returns the row regardless of deletion state; callers decide
	// whether a soft-deleted record is acceptable.
	GetByID(ctx context.Context, id uuid.UUID) (*entities.SmartContract, error)
	Update(ctx context.Context, contract *entities.SmartContract) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status entities.ContractStatus) error
	UpdateCosts(ctx context.Context, contract *entities.SmartContract) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Restore(ctx context.Context, id uuid.UUID) error
	// List excludes soft-deleted rows.
	List(ctx context.Context, filter entities.ContractFilter, p utils.PaginationParams) ([]*entities.SmartContract, int64, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error)
}

// ContractCategoryRepository defines category reference-data operations
type ContractCategoryRepository interface {
	Create(ctx context.Context, category *entities.ContractCategory) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.ContractCategory, error)
	ListActive(ctx context.Context) ([]*entities.ContractCategory, error)
	// Delete must fail with ErrProtectedReference while contracts reference
	// the category.
	Delete(ctx context.Context, id uuid.UUID) error
}

// ContractTemplateRepository defines template operations
type ContractTemplateRepository interface {
	Create(ctx context.Context, template *entities.ContractTemplate) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.ContractTemplate, error)
	Update(ctx context.Context, template *entities.ContractTemplate) error
	ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*entities.ContractTemplate, error)
}

// DeploymentLogRepository defines the append-only deployment log
type DeploymentLogRepository interface {
	Create(ctx context.Context, log *entities.ContractDeploymentLog) error
	ListByContract(ctx context.Context, contractID uuid.UUID) ([]*entities.ContractDeploymentLog, error)
	CountByContract(ctx context.Context, contractID uuid.UUID) (int64, error)
}
