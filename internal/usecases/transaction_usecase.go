package usecases

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"blockbustre.backend/internal/domain/entities"
	domainerrors "blockbustre.backend/internal/domain/errors"
	"blockbustre.backend/internal/domain/repositories"
	"blockbustre.backend/pkg/utils"
)

// TransactionUsecase handles financial records
type TransactionUsecase struct {
	transactionRepo repositories.TransactionRepository
	contractRepo    repositories.ContractRepository
}

// NewTransactionUsecase creates a new transaction usecase
func NewTransactionUsecase(
	transactionRepo repositories.TransactionRepository,
	contractRepo repositories.ContractRepository,
) *TransactionUsecase {
	return &TransactionUsecase{
		transactionRepo: transactionRepo,
		contractRepo:    contractRepo,
	}
}

// Create records a transaction in pending status. Amounts are decimal
// strings; negative or unparsable amounts are rejected.
func (u *TransactionUsecase) Create(ctx context.Context, userID uuid.UUID, input *entities.CreateTransactionInput) (*entities.Transaction, error) {
	if !entities.IsValidTransactionType(input.Type) {
		return nil, domainerrors.NewError("unknown transaction type", domainerrors.ErrInvalidInput)
	}
	if !entities.IsValidPaymentRail(input.PaymentMethod) {
		return nil, domainerrors.NewError("unknown payment method", domainerrors.ErrInvalidInput)
	}

	amount, err := strconv.ParseFloat(input.Amount, 64)
	if err != nil || amount < 0 {
		return nil, domainerrors.NewError("amount must be a non-negative decimal", domainerrors.ErrInvalidInput)
	}

	tx := &entities.Transaction{
		UserID:        userID,
		Type:          input.Type,
		Status:        entities.TxStatusPending,
		PaymentMethod: input.PaymentMethod,
		Amount:        input.Amount,
		Currency:      input.Currency,
		Description:   input.Description,
		Metadata:      input.Metadata,

		ExternalTransactionID:     input.ExternalTransactionID,
		BlockchainTransactionHash: input.BlockchainTransactionHash,
		PaymentIntentID:           input.PaymentIntentID,
	}
	if tx.Currency == "" {
		tx.Currency = "USD"
	}

	if input.ContractID != "" {
		contractID, err := uuid.Parse(input.ContractID)
		if err != nil {
			return nil, domainerrors.ErrInvalidInput
		}
		contract, err := u.contractRepo.GetByID(ctx, contractID)
		if err != nil {
			return nil, err
		}
		if contract.UserID != userID {
			return nil, domainerrors.ErrForbidden
		}
		tx.ContractID = uuid.NullUUID{UUID: contractID, Valid: true}
	}

	if err := u.transactionRepo.Create(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// Get returns one transaction, owner or staff only
func (u *TransactionUsecase) Get(ctx context.Context, userID uuid.UUID, isStaff bool, id uuid.UUID) (*entities.Transaction, error) {
	tx, err := u.transactionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tx.UserID != userID && !isStaff {
		return nil, domainerrors.ErrForbidden
	}
	return tx, nil
}

// List pages through transactions. Non-staff callers only see their own.
func (u *TransactionUsecase) List(ctx context.Context, userID uuid.UUID, isStaff bool, filter entities.TransactionFilter, p utils.PaginationParams) ([]*entities.Transaction, int64, error) {
	if !isStaff {
		filter.UserID = uuid.NullUUID{UUID: userID, Valid: true}
	}
	return u.transactionRepo.List(ctx, filter, p)
}

// UpdateStatus moves a transaction through its lifecycle. Completed and
// failed are terminal; reaching them stamps the matching timestamp.
func (u *TransactionUsecase) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.TransactionStatus, errorMessage string) (*entities.Transaction, error) {
	tx, err := u.transactionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !validTransactionTransition(tx.Status, status) {
		return nil, domainerrors.ErrInvalidTransition
	}

	now := time.Now()
	tx.Status = status
	switch status {
	case entities.TxStatusCompleted:
		tx.ProcessedAt = null.TimeFrom(now)
	case entities.TxStatusFailed:
		tx.FailedAt = null.TimeFrom(now)
		tx.ErrorMessage = errorMessage
	}

	if err := u.transactionRepo.UpdateStatus(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

func validTransactionTransition(from, to entities.TransactionStatus) bool {
	switch from {
	case entities.TxStatusPending:
		return to == entities.TxStatusProcessing || to == entities.TxStatusCompleted ||
			to == entities.TxStatusFailed || to == entities.TxStatusCancelled
	case entities.TxStatusProcessing:
		return to == entities.TxStatusCompleted || to == entities.TxStatusFailed
	}
	return false
}
