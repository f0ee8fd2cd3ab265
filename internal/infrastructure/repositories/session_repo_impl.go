package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"blockbustre.backend/internal/domain/entities"
	domainerrors "blockbustre.backend/internal/domain/errors"
	"blockbustre.backend/internal/infrastructure/models"
)

// SessionRepository implements user session tracking
type SessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Upsert records a session. A repeated session key refreshes the
// existing row instead of creating a second one.
func (r *SessionRepository) Upsert(ctx context.Context, session *entities.UserSession) error {
	m := &models.UserSession{
		ID:           session.ID,
		UserID:       session.UserID,
		SessionKey:   session.SessionKey,
		IPAddress:    session.IPAddress,
		UserAgent:    session.UserAgent,
		IsActive:     session.IsActive,
		CreatedAt:    session.CreatedAt,
		LastActivity: session.LastActivity,
	}
	return GetDB(ctx, r.db).WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "session_key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"user_id":       m.UserID,
			"ip_address":    m.IPAddress,
			"user_agent":    m.UserAgent,
			"is_active":     m.IsActive,
			"last_activity": m.LastActivity,
		}),
	}).Create(m).Error
}

// GetByKey gets a session by its key
func (r *SessionRepository) GetByKey(ctx context.Context, sessionKey string) (*entities.UserSession, error) {
	var m models.UserSession
	if err := GetDB(ctx, r.db).WithContext(ctx).Where("session_key = ?", sessionKey).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return sessionToEntity(&m), nil
}

// Deactivate marks a session inactive. Deactivating an already inactive
// or unknown session is a no-op.
func (r *SessionRepository) Deactivate(ctx context.Context, sessionKey string) error {
	return GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.UserSession{}).
		Where("session_key = ?", sessionKey).
		Updates(map[string]interface{}{
			"is_active":     false,
			"last_activity": time.Now(),
		}).Error
}

// ListByUser lists a user's sessions, newest activity first
func (r *SessionRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entities.UserSession, error) {
	var sessionModels []models.UserSession
	err := GetDB(ctx, r.db).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("last_activity DESC").
		Find(&sessionModels).Error
	if err != nil {
		return nil, err
	}

	var sessions []*entities.UserSession
	for _, m := range sessionModels {
		model := m
		sessions = append(sessions, sessionToEntity(&model))
	}
	return sessions, nil
}

func sessionToEntity(m *models.UserSession) *entities.UserSession {
	return &entities.UserSession{
		ID:           m.ID,
		UserID:       m.UserID,
		SessionKey:   m.SessionKey,
		IPAddress:    m.IPAddress,
		UserAgent:    m.UserAgent,
		IsActive:     m.IsActive,
		CreatedAt:    m.CreatedAt,
		LastActivity: m.LastActivity,
	}
}

// LoginAttemptRepository implements the append-only login audit trail
type LoginAttemptRepository struct {
	db *gorm.DB
}

// NewLoginAttemptRepository creates a new login attempt repository
func NewLoginAttemptRepository(db *gorm.DB) *LoginAttemptRepository {
	return &LoginAttemptRepository{db: db}
}

// Create appends one attempt record
func (r *LoginAttemptRepository) Create(ctx context.Context, attempt *entities.LoginAttempt) error {
	m := &models.LoginAttempt{
		ID:            attempt.ID,
		Email:         attempt.Email,
		IPAddress:     attempt.IPAddress,
		UserAgent:     attempt.UserAgent,
		Success:       attempt.Success,
		FailureReason: attempt.FailureReason,
		CreatedAt:     attempt.CreatedAt,
	}
	return GetDB(ctx, r.db).WithContext(ctx).Create(m).Error
}

// ListByEmail lists attempts for an email since the given time, newest first
func (r *LoginAttemptRepository) ListByEmail(ctx context.Context, email string, since time.Time) ([]*entities.LoginAttempt, error) {
	var attemptModels []models.LoginAttempt
	err := GetDB(ctx, r.db).WithContext(ctx).
		Where("email = ? AND created_at >= ?", email, since).
		Order("created_at DESC").
		Find(&attemptModels).Error
	if err != nil {
		return nil, err
	}

	var attempts []*entities.LoginAttempt
	for _, m := range attemptModels {
		model := m
		attempts = append(attempts, &entities.LoginAttempt{
			ID:            model.ID,
			Email:         model.Email,
			IPAddress:     model.IPAddress,
			UserAgent:     model.UserAgent,
			Success:       model.Success,
			FailureReason: model.FailureReason,
			CreatedAt:     model.CreatedAt,
		})
	}
	return attempts, nil
}

// CountRecentFailures counts failed attempts for an email since the given time
func (r *LoginAttemptRepository) CountRecentFailures(ctx context.Context, email string, since time.Time) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.LoginAttempt{}).
		Where("email = ? AND success = ? AND created_at >= ?", email, false, since).
		Count(&count).Error
	return count, err
}
