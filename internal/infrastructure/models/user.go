package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	FirstName    string    `gorm:"type:varchar(150);not null"`
	LastName     string    `gorm:"type:varchar(150);not null"`
	PhoneNumber  string    `gorm:"type:varchar(17)"`
	DateOfBirth  *time.Time
	Country      string `gorm:"type:varchar(100)"`
	Language     string `gorm:"type:varchar(10);default:'en'"`

	WalletAddress string `gorm:"type:varchar(100)"`
	WalletType    string `gorm:"type:varchar(20);default:'ethereum'"`

	IsKYCVerified bool `gorm:"default:false"`
	KYCVerifiedAt *time.Time

	SubscriptionType      string `gorm:"type:varchar(20);default:'pay_as_you_go'"`
	SubscriptionActive    bool   `gorm:"default:false"`
	SubscriptionStartDate *time.Time
	SubscriptionEndDate   *time.Time

	// SET NULL on role deletion: users survive their role.
	RoleID *uuid.UUID `gorm:"type:uuid;index"`
	Role   *Role      `gorm:"constraint:OnDelete:SET NULL"`

	IsActive   bool `gorm:"default:true"`
	IsVerified bool `gorm:"default:false"`
	IsStaff    bool `gorm:"default:false"`

	EmailNotifications bool `gorm:"default:true"`
	SMSNotifications   bool `gorm:"default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

type UserProfile struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	User   *User     `gorm:"constraint:OnDelete:CASCADE"`

	CompanyName string `gorm:"type:varchar(200)"`
	JobTitle    string `gorm:"type:varchar(100)"`
	Industry    string `gorm:"type:varchar(100)"`

	AddressLine1  string `gorm:"type:varchar(255)"`
	AddressLine2  string `gorm:"type:varchar(255)"`
	City          string `gorm:"type:varchar(100)"`
	StateProvince string `gorm:"type:varchar(100)"`
	PostalCode    string `gorm:"type:varchar(20)"`

	Website         string `gorm:"type:varchar(255)"`
	LinkedinProfile string `gorm:"type:varchar(255)"`
	TwitterHandle   string `gorm:"type:varchar(50)"`

	Bio      string `gorm:"type:text"`
	Timezone string `gorm:"type:varchar(50);default:'UTC'"`

	ProfilePublic bool `gorm:"default:false"`
	ShowEmail     bool `gorm:"default:false"`
	ShowPhone     bool `gorm:"default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
