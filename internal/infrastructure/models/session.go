package models

import (
	"time"

	"github.com/google/uuid"
)

type UserSession struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	UserID uuid.UUID `gorm:"type:uuid;index;not null"`
	User   *User     `gorm:"constraint:OnDelete:CASCADE"`

	SessionKey string `gorm:"type:varchar(40);uniqueIndex;not null"`
	IPAddress  string `gorm:"type:varchar(45)"`
	UserAgent  string `gorm:"type:text"`
	IsActive   bool   `gorm:"default:true"`

	CreatedAt    time.Time
	LastActivity time.Time
}

// LoginAttempt is append-only audit data, never updated or deleted.
type LoginAttempt struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Email         string    `gorm:"type:varchar(255);index:idx_attempt_email_at,priority:1"`
	IPAddress     string    `gorm:"type:varchar(45);index:idx_attempt_ip_at,priority:1"`
	UserAgent     string    `gorm:"type:text"`
	Success       bool      `gorm:"default:false"`
	FailureReason string    `gorm:"type:varchar(100)"`

	CreatedAt time.Time `gorm:"index:idx_attempt_email_at,priority:2;index:idx_attempt_ip_at,priority:2"`
}
