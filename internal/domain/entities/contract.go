package entities

import (
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// ContractStatus represents the lifecycle of a registration record
type ContractStatus string

const (
	ContractStatusDraft      ContractStatus = "draft"
	ContractStatusPending    ContractStatus = "pending"
	ContractStatusProcessing ContractStatus = "processing"
	ContractStatusDeployed   ContractStatus = "deployed"
	ContractStatusVerified   ContractStatus = "verified"
	ContractStatusFailed     ContractStatus = "failed"
	ContractStatusCancelled  ContractStatus = "cancelled"
)

// BlockchainNetwork identifies the target chain for a registration
type BlockchainNetwork string

const (
	NetworkEthereumMainnet BlockchainNetwork = "ethereum_mainnet"
	NetworkEthereumSepolia BlockchainNetwork = "ethereum_sepolia"
	NetworkPolygonMainnet  BlockchainNetwork = "polygon_mainnet"
	NetworkPolygonMumbai   BlockchainNetwork = "polygon_mumbai"
	NetworkBSCMainnet      BlockchainNetwork = "bsc_mainnet"
	NetworkBSCTestnet      BlockchainNetwork = "bsc_testnet"
)

// IsValidNetwork reports whether a network value is supported
func IsValidNetwork(n BlockchainNetwork) bool {
	switch n {
	case NetworkEthereumMainnet, NetworkEthereumSepolia,
		NetworkPolygonMainnet, NetworkPolygonMumbai,
		NetworkBSCMainnet, NetworkBSCTestnet:
		return true
	}
	return false
}

// ContractCategory is reference data grouping registrations. Categories are
// protected: deletion is rejected while any contract references one.
type ContractCategory struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon,omitempty"`
	IsActive    bool      `json:"isActive"`
	SortOrder   int       `json:"sortOrder"`
	CreatedAt   time.Time `json:"createdAt"`
}

// SmartContract is a document registration record. Rows are soft deleted:
// the deletion state is the pair (IsDeleted, DeletedAt), cleared together by
// Restore. A soft-deleted row stays readable by direct key lookup.
type SmartContract struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CategoryID  uuid.UUID `json:"categoryId"`
	UserID      uuid.UUID `json:"userId"`

	DocumentName     string `json:"documentName,omitempty"`
	DocumentHash     string `json:"documentHash,omitempty"`
	DocumentMetadata string `json:"documentMetadata,omitempty"`

	BlockchainNetwork BlockchainNetwork `json:"blockchainNetwork"`
	ContractAddress   string            `json:"contractAddress,omitempty"`
	TransactionHash   string            `json:"transactionHash,omitempty"`
	BlockNumber       null.Int64        `json:"blockNumber,omitempty"`
	GasUsed           null.Int64        `json:"gasUsed,omitempty"`
	GasPrice          null.Int64        `json:"gasPrice,omitempty"`

	Status         ContractStatus `json:"status"`
	GasFeeEstimate null.String    `json:"gasFeeEstimate,omitempty"`
	ServiceFee     null.String    `json:"serviceFee,omitempty"`
	TotalCost      null.String    `json:"totalCost,omitempty"`

	VerificationStatus    bool      `json:"verificationStatus"`
	VerificationTimestamp null.Time `json:"verificationTimestamp,omitempty"`
	ContractMetadata      string    `json:"contractMetadata,omitempty"`

	ErrorMessage string `json:"errorMessage,omitempty"`
	RetryCount   int    `json:"retryCount"`

	IsDeleted bool      `json:"isDeleted"`
	DeletedAt null.Time `json:"deletedAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsDeployed reports whether the record reached the chain
func (c *SmartContract) IsDeployed() bool {
	return c.Status == ContractStatusDeployed && c.ContractAddress != ""
}

// IsVerified reports whether on-chain verification completed
func (c *SmartContract) IsVerified() bool {
	return c.VerificationStatus && c.VerificationTimestamp.Valid
}

// Editable reports whether user-facing fields may still change
func (c *SmartContract) Editable() bool {
	return c.Status == ContractStatusDraft || c.Status == ContractStatusPending
}

// CalculateTotalCost computes the service fee and total from the gas
// estimate: fee = estimate * percent/100, total = estimate + fee. Values are
// decimal strings; the computation is done in big.Float to avoid drift on
// large estimates. Returns false when no estimate is present.
func (c *SmartContract) CalculateTotalCost(feePercent float64) bool {
	if !c.GasFeeEstimate.Valid {
		return false
	}

	estimate, ok := new(big.Float).SetString(c.GasFeeEstimate.String)
	if !ok {
		return false
	}

	fee := new(big.Float).Mul(estimate, big.NewFloat(feePercent/100))
	total := new(big.Float).Add(estimate, fee)

	c.ServiceFee = null.StringFrom(formatAmount(fee))
	c.TotalCost = null.StringFrom(formatAmount(total))
	return true
}

// formatAmount renders a cost with 8 decimal places, matching the storage
// precision of the financial columns.
func formatAmount(v *big.Float) string {
	return fmt.Sprintf("%.8f", v)
}

// CreateContractInput represents input for creating a registration record
type CreateContractInput struct {
	Title             string            `json:"title" binding:"required,min=1,max=200"`
	Description       string            `json:"description" binding:"required"`
	CategoryID        string            `json:"categoryId" binding:"required,uuid"`
	BlockchainNetwork BlockchainNetwork `json:"blockchainNetwork,omitempty"`
	DocumentName      string            `json:"documentName,omitempty" binding:"omitempty,max=255"`
	DocumentHash      string            `json:"documentHash,omitempty" binding:"omitempty,len=64,hexadecimal"`
	DocumentMetadata  string            `json:"documentMetadata,omitempty"`
	ContractMetadata  string            `json:"contractMetadata,omitempty"`
}

// UpdateContractInput represents a partial update of a draft/pending record
type UpdateContractInput struct {
	Title             *string            `json:"title,omitempty" binding:"omitempty,min=1,max=200"`
	Description       *string            `json:"description,omitempty"`
	CategoryID        *string            `json:"categoryId,omitempty" binding:"omitempty,uuid"`
	BlockchainNetwork *BlockchainNetwork `json:"blockchainNetwork,omitempty"`
	DocumentName      *string            `json:"documentName,omitempty" binding:"omitempty,max=255"`
	DocumentHash      *string            `json:"documentHash,omitempty" binding:"omitempty,len=64,hexadecimal"`
	DocumentMetadata  *string            `json:"documentMetadata,omitempty"`
	ContractMetadata  *string            `json:"contractMetadata,omitempty"`
}

// ContractFilter narrows contract listings
type ContractFilter struct {
	UserID     uuid.NullUUID
	Status     ContractStatus
	CategoryID uuid.NullUUID
}

// ContractTemplate is a pre-built contract body with substitution variables
type ContractTemplate struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	CategoryID   uuid.UUID `json:"categoryId"`
	Description  string    `json:"description"`
	TemplateCode string    `json:"templateCode"`
	Variables    []string  `json:"variables"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ContractDeploymentLog is an append-only record of one deployment attempt
type ContractDeploymentLog struct {
	ID                uuid.UUID  `json:"id"`
	ContractID        uuid.UUID  `json:"contractId"`
	DeploymentAttempt int        `json:"deploymentAttempt"`
	Status            string     `json:"status"`
	Message           string     `json:"message"`
	TransactionHash   string     `json:"transactionHash,omitempty"`
	GasUsed           null.Int64 `json:"gasUsed,omitempty"`
	ErrorDetails      string     `json:"errorDetails,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
}
