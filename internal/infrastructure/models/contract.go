package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type ContractCategory struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Name        string    `gorm:"type:varchar(100);uniqueIndex;not null"`
	Description string    `gorm:"type:text"`
	Icon        string    `gorm:"type:varchar(50)"`
	IsActive    bool      `gorm:"default:true"`
	SortOrder   int       `gorm:"default:0"`

	CreatedAt time.Time
}

type SmartContract struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	UserID uuid.UUID `gorm:"type:uuid;index;not null"`
	User   *User     `gorm:"constraint:OnDelete:CASCADE"`

	CategoryID uuid.UUID         `gorm:"type:uuid;index;not null"`
	Category   *ContractCategory `gorm:"constraint:OnDelete:RESTRICT"`

	Title       string `gorm:"type:varchar(200);not null"`
	Description string `gorm:"type:text"`

	DocumentName     string `gorm:"type:varchar(255)"`
	DocumentHash     string `gorm:"type:varchar(64);index"`
	DocumentMetadata string `gorm:"type:text"`

	BlockchainNetwork string `gorm:"type:varchar(30);default:'ethereum_sepolia';index"`
	ContractAddress   string `gorm:"type:varchar(100)"`
	TransactionHash   string `gorm:"type:varchar(100)"`
	BlockNumber       *int64
	GasUsed           *int64
	GasPrice          *int64

	Status         string `gorm:"type:varchar(20);default:'draft';index"`
	GasFeeEstimate string `gorm:"type:decimal(30,8)"`
	ServiceFee     string `gorm:"type:decimal(30,8)"`
	TotalCost      string `gorm:"type:decimal(30,8)"`

	VerificationStatus    bool `gorm:"default:false"`
	VerificationTimestamp *time.Time
	ContractMetadata      string `gorm:"type:text"`

	ErrorMessage string `gorm:"type:text"`
	RetryCount   int    `gorm:"default:0"`

	IsDeleted bool `gorm:"default:false;index"`
	DeletedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

type ContractTemplate struct {
	ID         uuid.UUID         `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	CategoryID uuid.UUID         `gorm:"type:uuid;index;not null"`
	Category   *ContractCategory `gorm:"constraint:OnDelete:RESTRICT"`

	Name         string         `gorm:"type:varchar(200);not null"`
	Description  string         `gorm:"type:text"`
	TemplateCode string         `gorm:"type:text;not null"`
	Variables    pq.StringArray `gorm:"type:text[]"`
	IsActive     bool           `gorm:"default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type ContractDeploymentLog struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	ContractID uuid.UUID      `gorm:"type:uuid;index;not null"`
	Contract   *SmartContract `gorm:"constraint:OnDelete:CASCADE"`

	DeploymentAttempt int    `gorm:"not null"`
	Status            string `gorm:"type:varchar(20);not null"`
	Message           string `gorm:"type:text"`
	TransactionHash   string `gorm:"type:varchar(100)"`
	GasUsed           *int64
	ErrorDetails      string `gorm:"type:text"`

	CreatedAt time.Time
}
