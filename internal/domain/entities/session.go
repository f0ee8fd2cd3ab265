package entities

import (
	"time"

	"github.com/google/uuid"
)

// UserSession tracks an authenticated client. One row per session key,
// upserted on every login and deactivated (never deleted) on logout.
type UserSession struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"userId"`
	SessionKey   string    `json:"sessionKey"`
	IPAddress    string    `json:"ipAddress"`
	UserAgent    string    `json:"userAgent"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	LastActivity time.Time `json:"lastActivity"`
}

// LoginAttempt is an append-only audit record. Every call to the login
// operation produces exactly one, whatever the outcome.
type LoginAttempt struct {
	ID            uuid.UUID `json:"id"`
	Email         string    `json:"email"`
	IPAddress     string    `json:"ipAddress"`
	UserAgent     string    `json:"userAgent"`
	Success       bool      `json:"success"`
	FailureReason string    `json:"failureReason,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Failure reasons recorded on unsuccessful attempts. The HTTP response is a
// single undifferentiated message; the reasons are for the audit log only.
const (
	FailureUnknownEmail    = "unknown_email"
	FailureBadPassword     = "bad_password"
	FailureAccountDisabled = "account_disabled"
)
