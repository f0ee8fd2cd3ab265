package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"blockbustre.backend/internal/domain/entities"
)

// SessionRepository defines session tracking operations
type SessionRepository interface {
	// Upsert creates or refreshes the row identified by session.SessionKey.
	Upsert(ctx context.Context, session *entities.UserSession) error
	GetByKey(ctx context.Context, sessionKey string) (*entities.UserSession, error)
	Deactivate(ctx context.Context, sessionKey string) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*entities.UserSession, error)
}

// LoginAttemptRepository defines the append-only attempt audit log
type LoginAttemptRepository interface {
	Create(ctx context.Context, attempt *entities.LoginAttempt) error
	ListByEmail(ctx context.Context, email string, since time.Time) ([]*entities.LoginAttempt, error)
	CountRecentFailures(ctx context.Context, email string, since time.Time) (int64, error)
}
