package repositories

import (
	"context"

	"github.com/google/uuid"
	"blockbustre.backend/internal/domain/entities"
	"blockbustre.backend/pkg/utils"
)

// TransactionRepository defines financial-record operations
type TransactionRepository interface {
	Create(ctx context.Context, tx *entities.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Transaction, error)
	UpdateStatus(ctx context.Context, tx *entities.Transaction) error
	List(ctx context.Context, filter entities.TransactionFilter, p utils.PaginationParams) ([]*entities.Transaction, int64, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

// PaymentMethodRepository defines stored-instrument operations
type PaymentMethodRepository interface {
	Create(ctx context.Context, pm *entities.PaymentMethod) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.PaymentMethod, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*entities.PaymentMethod, error)
	// SetDefault marks one instrument default and clears the flag on the
	// user's others in the same statement batch.
	SetDefault(ctx context.Context, userID, id uuid.UUID) error
	Deactivate(ctx context.Context, id uuid.UUID) error
}

// SubscriptionRepository defines billing-agreement operations
type SubscriptionRepository interface {
	Create(ctx context.Context, sub *entities.Subscription) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Subscription, error)
	GetActiveByUser(ctx context.Context, userID uuid.UUID) (*entities.Subscription, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*entities.Subscription, error)
	Update(ctx context.Context, sub *entities.Subscription) error
	// ListExpiredActive returns active agreements whose period end passed.
	ListExpiredActive(ctx context.Context, limit int) ([]*entities.Subscription, error)
	MarkExpired(ctx context.Context, ids []uuid.UUID) error
}
