package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// TransactionType classifies what a financial record paid for
type TransactionType string

const (
	TxTypeContractDeployment TransactionType = "contract_deployment"
	TxTypeGasPayment         TransactionType = "gas_payment"
	TxTypeServiceFee         TransactionType = "service_fee"
	TxTypeSubscription       TransactionType = "subscription"
	TxTypeRefund             TransactionType = "refund"
)

// TransactionStatus tracks settlement state
type TransactionStatus string

const (
	TxStatusPending    TransactionStatus = "pending"
	TxStatusProcessing TransactionStatus = "processing"
	TxStatusCompleted  TransactionStatus = "completed"
	TxStatusFailed     TransactionStatus = "failed"
	TxStatusCancelled  TransactionStatus = "cancelled"
	TxStatusRefunded   TransactionStatus = "refunded"
)

// PaymentRail identifies how a transaction was paid
type PaymentRail string

const (
	PaymentRailStripe   PaymentRail = "stripe"
	PaymentRailEthereum PaymentRail = "ethereum"
	PaymentRailUSDC     PaymentRail = "usdc"
	PaymentRailUSDT     PaymentRail = "usdt"
	PaymentRailBitcoin  PaymentRail = "bitcoin"
)

// IsValidTransactionType reports whether a type value is known
func IsValidTransactionType(t TransactionType) bool {
	switch t {
	case TxTypeContractDeployment, TxTypeGasPayment, TxTypeServiceFee,
		TxTypeSubscription, TxTypeRefund:
		return true
	}
	return false
}

// IsValidPaymentRail reports whether a payment method value is known
func IsValidPaymentRail(r PaymentRail) bool {
	switch r {
	case PaymentRailStripe, PaymentRailEthereum, PaymentRailUSDC,
		PaymentRailUSDT, PaymentRailBitcoin:
		return true
	}
	return false
}

// Transaction is a financial record owned by a user, optionally tied to a
// contract registration
type Transaction struct {
	ID         uuid.UUID     `json:"id"`
	UserID     uuid.UUID     `json:"userId"`
	ContractID uuid.NullUUID `json:"contractId,omitempty"`

	Type          TransactionType   `json:"type"`
	Status        TransactionStatus `json:"status"`
	PaymentMethod PaymentRail       `json:"paymentMethod"`

	Amount       string      `json:"amount"`
	Currency     string      `json:"currency"`
	ExchangeRate null.String `json:"exchangeRate,omitempty"`

	ExternalTransactionID     string `json:"externalTransactionId,omitempty"`
	BlockchainTransactionHash string `json:"blockchainTransactionHash,omitempty"`
	PaymentIntentID           string `json:"paymentIntentId,omitempty"`

	Description  string `json:"description,omitempty"`
	Metadata     string `json:"metadata,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty"`

	ProcessedAt null.Time `json:"processedAt,omitempty"`
	FailedAt    null.Time `json:"failedAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsCompleted reports settled state
func (t *Transaction) IsCompleted() bool { return t.Status == TxStatusCompleted }

// IsFailed reports failed state
func (t *Transaction) IsFailed() bool { return t.Status == TxStatusFailed }

// IsPending reports unsettled state
func (t *Transaction) IsPending() bool { return t.Status == TxStatusPending }

// CreateTransactionInput represents input for recording a transaction
type CreateTransactionInput struct {
	ContractID    string          `json:"contractId,omitempty" binding:"omitempty,uuid"`
	Type          TransactionType `json:"type" binding:"required"`
	PaymentMethod PaymentRail     `json:"paymentMethod" binding:"required"`
	Amount        string          `json:"amount" binding:"required"`
	Currency      string          `json:"currency,omitempty" binding:"omitempty,max=10"`
	Description   string          `json:"description,omitempty"`
	Metadata      string          `json:"metadata,omitempty"`

	ExternalTransactionID     string `json:"externalTransactionId,omitempty" binding:"omitempty,max=200"`
	BlockchainTransactionHash string `json:"blockchainTransactionHash,omitempty" binding:"omitempty,max=66"`
	PaymentIntentID           string `json:"paymentIntentId,omitempty" binding:"omitempty,max=200"`
}

// TransactionFilter narrows transaction listings
type TransactionFilter struct {
	UserID uuid.NullUUID
	Status TransactionStatus
	Type   TransactionType
}

// PaymentMethodType distinguishes stored payment instruments
type PaymentMethodType string

const (
	PaymentMethodStripeCard   PaymentMethodType = "stripe_card"
	PaymentMethodCryptoWallet PaymentMethodType = "crypto_wallet"
)

// PaymentMethod is a stored payment instrument for recurring billing
type PaymentMethod struct {
	ID        uuid.UUID         `json:"id"`
	UserID    uuid.UUID         `json:"userId"`
	Type      PaymentMethodType `json:"type"`
	IsDefault bool              `json:"isDefault"`
	IsActive  bool              `json:"isActive"`

	StripePaymentMethodID string     `json:"stripePaymentMethodId,omitempty"`
	CardLastFour          string     `json:"cardLastFour,omitempty"`
	CardBrand             string     `json:"cardBrand,omitempty"`
	CardExpMonth          null.Int   `json:"cardExpMonth,omitempty"`
	CardExpYear           null.Int   `json:"cardExpYear,omitempty"`

	WalletAddress string     `json:"walletAddress,omitempty"`
	WalletType    WalletType `json:"walletType,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreatePaymentMethodInput represents input for storing an instrument
type CreatePaymentMethodInput struct {
	Type      PaymentMethodType `json:"type" binding:"required,oneof=stripe_card crypto_wallet"`
	IsDefault bool              `json:"isDefault"`

	StripePaymentMethodID string `json:"stripePaymentMethodId,omitempty" binding:"omitempty,max=200"`
	CardLastFour          string `json:"cardLastFour,omitempty" binding:"omitempty,len=4,numeric"`
	CardBrand             string `json:"cardBrand,omitempty" binding:"omitempty,max=20"`
	CardExpMonth          int    `json:"cardExpMonth,omitempty" binding:"omitempty,min=1,max=12"`
	CardExpYear           int    `json:"cardExpYear,omitempty" binding:"omitempty,min=2000"`

	WalletAddress string     `json:"walletAddress,omitempty" binding:"omitempty,max=100"`
	WalletType    WalletType `json:"walletType,omitempty"`
}

// SubscriptionStatus tracks a billing agreement
type SubscriptionStatus string

const (
	SubStatusActive    SubscriptionStatus = "active"
	SubStatusCancelled SubscriptionStatus = "cancelled"
	SubStatusExpired   SubscriptionStatus = "expired"
	SubStatusPastDue   SubscriptionStatus = "past_due"
)

// Subscription is a recurring billing agreement with a period window
type Subscription struct {
	ID                   uuid.UUID          `json:"id"`
	UserID               uuid.UUID          `json:"userId"`
	StripeSubscriptionID string             `json:"stripeSubscriptionId"`
	Status               SubscriptionStatus `json:"status"`

	PriceID  string `json:"priceId"`
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
	Interval string `json:"interval"`

	CurrentPeriodStart time.Time `json:"currentPeriodStart"`
	CurrentPeriodEnd   time.Time `json:"currentPeriodEnd"`
	CancelAtPeriodEnd  bool      `json:"cancelAtPeriodEnd"`
	CancelledAt        null.Time `json:"cancelledAt,omitempty"`

	PaymentMethodID uuid.NullUUID `json:"paymentMethodId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsActive reports whether the agreement is currently in force
func (s *Subscription) IsActive() bool { return s.Status == SubStatusActive }

// DaysRemaining returns whole days until the period ends, never negative
func (s *Subscription) DaysRemaining(now time.Time) int {
	if s.CurrentPeriodEnd.IsZero() {
		return 0
	}
	d := int(s.CurrentPeriodEnd.Sub(now).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}

// CreateSubscriptionInput represents input for opening a billing agreement
type CreateSubscriptionInput struct {
	StripeSubscriptionID string `json:"stripeSubscriptionId" binding:"required,max=200"`
	PriceID              string `json:"priceId" binding:"required,max=200"`
	Amount               string `json:"amount" binding:"required"`
	Currency             string `json:"currency,omitempty" binding:"omitempty,max=10"`
	Interval             string `json:"interval,omitempty" binding:"omitempty,oneof=month year"`
	PaymentMethodID      string `json:"paymentMethodId,omitempty" binding:"omitempty,uuid"`
	PeriodDays           int    `json:"periodDays,omitempty" binding:"omitempty,min=1,max=366"`
}
