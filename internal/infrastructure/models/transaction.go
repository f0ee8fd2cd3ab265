package models

import (
	"time"

	"github.com/google/uuid"
)

type Transaction struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	UserID uuid.UUID `gorm:"type:uuid;index;not null"`
	User   *User     `gorm:"constraint:OnDelete:CASCADE"`

	ContractID *uuid.UUID     `gorm:"type:uuid;index"`
	Contract   *SmartContract `gorm:"constraint:OnDelete:SET NULL"`

	Type          string `gorm:"type:varchar(30);not null;index"`
	Status        string `gorm:"type:varchar(20);default:'pending';index"`
	PaymentMethod string `gorm:"type:varchar(20)"`

	Amount       string `gorm:"type:decimal(30,8);not null"`
	Currency     string `gorm:"type:varchar(10);default:'USD'"`
	ExchangeRate string `gorm:"type:decimal(30,8)"`

	ExternalTransactionID     string `gorm:"type:varchar(200);index"`
	BlockchainTransactionHash string `gorm:"type:varchar(100)"`
	PaymentIntentID           string `gorm:"type:varchar(200)"`

	Description  string `gorm:"type:text"`
	Metadata     string `gorm:"type:text"`
	ErrorMessage string `gorm:"type:text"`

	ProcessedAt *time.Time
	FailedAt    *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

type PaymentMethod struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	UserID uuid.UUID `gorm:"type:uuid;index;not null"`
	User   *User     `gorm:"constraint:OnDelete:CASCADE"`

	Type      string `gorm:"type:varchar(20);not null"`
	IsDefault bool   `gorm:"default:false"`
	IsActive  bool   `gorm:"default:true"`

	StripePaymentMethodID string `gorm:"type:varchar(200)"`
	CardLastFour          string `gorm:"type:varchar(4)"`
	CardBrand             string `gorm:"type:varchar(20)"`
	CardExpMonth          *int
	CardExpYear           *int

	WalletAddress string `gorm:"type:varchar(100)"`
	WalletType    string `gorm:"type:varchar(20)"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Subscription struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	UserID uuid.UUID `gorm:"type:uuid;index;not null"`
	User   *User     `gorm:"constraint:OnDelete:CASCADE"`

	StripeSubscriptionID string `gorm:"type:varchar(200);uniqueIndex"`
	Status               string `gorm:"type:varchar(20);default:'active';index"`

	PriceID  string `gorm:"type:varchar(200)"`
	Amount   string `gorm:"type:decimal(30,8);not null"`
	Currency string `gorm:"type:varchar(10);default:'USD'"`
	Interval string `gorm:"type:varchar(10);default:'month'"`

	CurrentPeriodStart time.Time `gorm:"not null"`
	CurrentPeriodEnd   time.Time `gorm:"not null;index"`
	CancelAtPeriodEnd  bool      `gorm:"default:false"`
	CancelledAt        *time.Time

	PaymentMethodID *uuid.UUID     `gorm:"type:uuid"`
	PaymentMethod   *PaymentMethod `gorm:"constraint:OnDelete:SET NULL"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
