package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// WalletType represents the kind of wallet attached to an account
type WalletType string

const (
	WalletTypeEthereum WalletType = "ethereum"
	WalletTypePolygon  WalletType = "polygon"
	WalletTypeBitcoin  WalletType = "bitcoin"
	WalletTypeOther    WalletType = "other"
)

// SubscriptionType represents the billing model of an account
type SubscriptionType string

const (
	SubscriptionPayAsYouGo SubscriptionType = "pay_as_you_go"
	SubscriptionRecurring  SubscriptionType = "subscription"
)

// Service fee percentages by subscription state. These are the only two
// values ServiceFeePercent ever returns.
const (
	SubscriberFeePercent = 10.0
	DefaultFeePercent    = 15.0
)

// User represents a registered account
type User struct {
	ID            uuid.UUID `json:"id"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"`
	FirstName     string    `json:"firstName"`
	LastName      string    `json:"lastName"`
	PhoneNumber   string    `json:"phoneNumber,omitempty"`
	DateOfBirth   null.Time `json:"dateOfBirth,omitempty"`
	Country       string    `json:"country,omitempty"`
	Language      string    `json:"language"`

	WalletAddress string     `json:"walletAddress,omitempty"`
	WalletType    WalletType `json:"walletType"`

	IsKYCVerified bool      `json:"isKycVerified"`
	KYCVerifiedAt null.Time `json:"kycVerifiedAt,omitempty"`

	SubscriptionType      SubscriptionType `json:"subscriptionType"`
	SubscriptionActive    bool             `json:"subscriptionActive"`
	SubscriptionStartDate null.Time        `json:"subscriptionStartDate,omitempty"`
	SubscriptionEndDate   null.Time        `json:"subscriptionEndDate,omitempty"`

	RoleID uuid.NullUUID `json:"-"`
	Role   *Role         `json:"role,omitempty"`

	IsActive   bool `json:"isActive"`
	IsVerified bool `json:"isVerified"`
	IsStaff    bool `json:"isStaff"`

	EmailNotifications bool `json:"emailNotifications"`
	SMSNotifications   bool `json:"smsNotifications"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FullName returns the display name of the user
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// IsSubscriber reports whether the user holds a currently active recurring
// subscription. A nil end date always means false.
func (u *User) IsSubscriber(now time.Time) bool {
	return u.SubscriptionType == SubscriptionRecurring &&
		u.SubscriptionActive &&
		u.SubscriptionEndDate.Valid &&
		u.SubscriptionEndDate.Time.After(now)
}

// ServiceFeePercent returns the platform fee applied to this user's
// deployments. Total function: exactly two possible values.
func (u *User) ServiceFeePercent(now time.Time) float64 {
	if u.IsSubscriber(now) {
		return SubscriberFeePercent
	}
	return DefaultFeePercent
}

// HasRolePermission reports whether the user's role grants the permission
// codename. No role, or a codename outside the role's set, is simply false.
func (u *User) HasRolePermission(codename string) bool {
	if u.Role == nil {
		return false
	}
	return u.Role.HasPermission(codename)
}

// RegisterInput represents input for account registration
type RegisterInput struct {
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required"`
	PasswordConfirm string `json:"passwordConfirm" binding:"required"`
	FirstName       string `json:"firstName" binding:"required,max=150"`
	LastName        string `json:"lastName" binding:"required,max=150"`
	PhoneNumber     string `json:"phoneNumber,omitempty" binding:"omitempty,e164"`
	Country         string `json:"country,omitempty" binding:"omitempty,max=100"`
	Language        string `json:"language,omitempty" binding:"omitempty,max=10"`

	Profile *ProfileInput `json:"profile,omitempty"`
}

// LoginInput represents input for user login
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginContext carries per-request client metadata into the auth flow
type LoginContext struct {
	SessionKey string
	IPAddress  string
	UserAgent  string
}

// AuthResponse represents authentication response
type AuthResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	SessionKey   string `json:"sessionKey"`
	User         *User  `json:"user"`
}

// UpdateUserInput represents a partial account update
type UpdateUserInput struct {
	FirstName          *string       `json:"firstName,omitempty"`
	LastName           *string       `json:"lastName,omitempty"`
	PhoneNumber        *string       `json:"phoneNumber,omitempty"`
	Country            *string       `json:"country,omitempty"`
	Language           *string       `json:"language,omitempty"`
	WalletAddress      *string       `json:"walletAddress,omitempty"`
	WalletType         *WalletType   `json:"walletType,omitempty"`
	EmailNotifications *bool         `json:"emailNotifications,omitempty"`
	SMSNotifications   *bool         `json:"smsNotifications,omitempty"`
	Profile            *ProfileInput `json:"profile,omitempty"`
}

// ChangePasswordInput represents input for changing the password
type ChangePasswordInput struct {
	OldPassword        string `json:"oldPassword" binding:"required"`
	NewPassword        string `json:"newPassword" binding:"required"`
	NewPasswordConfirm string `json:"newPasswordConfirm" binding:"required"`
}

// ResetPasswordInput represents the confirm step of a password reset
type ResetPasswordInput struct {
	Token              string `json:"token" binding:"required"`
	NewPassword        string `json:"newPassword" binding:"required"`
	NewPasswordConfirm string `json:"newPasswordConfirm" binding:"required"`
}
