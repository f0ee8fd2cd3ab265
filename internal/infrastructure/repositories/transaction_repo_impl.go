package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"

	"blockbustre.backend/internal/domain/entities"
	domainerrors "blockbustre.backend/internal/domain/errors"
	"blockbustre.backend/internal/infrastructure/models"
	"blockbustre.backend/pkg/utils"
)

// TransactionRepository implements financial-record operations
type TransactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Create creates a transaction record
func (r *TransactionRepository) Create(ctx context.Context, tx *entities.Transaction) error {
	m := &models.Transaction{
		ID:                        tx.ID,
		UserID:                    tx.UserID,
		Type:                      string(tx.Type),
		Status:                    string(tx.Status),
		PaymentMethod:             string(tx.PaymentMethod),
		Amount:                    tx.Amount,
		Currency:                  tx.Currency,
		ExchangeRate:              tx.ExchangeRate.String,
		ExternalTransactionID:     tx.ExternalTransactionID,
		BlockchainTransactionHash: tx.BlockchainTransactionHash,
		PaymentIntentID:           tx.PaymentIntentID,
		Description:               tx.Description,
		Metadata:                  tx.Metadata,
		ErrorMessage:              tx.ErrorMessage,
		ProcessedAt:               tx.ProcessedAt.Ptr(),
		FailedAt:                  tx.FailedAt.Ptr(),
		CreatedAt:                 tx.CreatedAt,
		UpdatedAt:                 tx.UpdatedAt,
	}
	if tx.ContractID.Valid {
		contractID := tx.ContractID.UUID
		m.ContractID = &contractID
	}
	return GetDB(ctx, r.db).WithContext(ctx).Create(m).Error
}

// GetByID gets a transaction by ID
func (r *TransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Transaction, error) {
	var m models.Transaction
	if err := GetDB(ctx, r.db).WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return transactionToEntity(&m), nil
}

// UpdateStatus persists a settlement transition together with its timestamps
// and error detail
func (r *TransactionRepository) UpdateStatus(ctx context.Context, tx *entities.Transaction) error {
	updates := map[string]interface{}{
		"status":        string(tx.Status),
		"error_message": tx.ErrorMessage,
		"updated_at":    time.Now(),
	}
	if tx.ProcessedAt.Valid {
		updates["processed_at"] = tx.ProcessedAt.Time
	}
	if tx.FailedAt.Valid {
		updates["failed_at"] = tx.FailedAt.Time
	}
	if tx.BlockchainTransactionHash != "" {
		updates["blockchain_transaction_hash"] = tx.BlockchainTransactionHash
	}

	result := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.Transaction{}).
		Where("id = ?", tx.ID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// List lists transactions matching the filter, newest first
func (r *TransactionRepository) List(ctx context.Context, filter entities.TransactionFilter, p utils.PaginationParams) ([]*entities.Transaction, int64, error) {
	query := GetDB(ctx, r.db).WithContext(ctx).Model(&models.Transaction{})

	if filter.UserID.Valid {
		query = query.Where("user_id = ?", filter.UserID.UUID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	if filter.Type != "" {
		query = query.Where("type = ?", string(filter.Type))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created_at DESC")
	if p.Limit > 0 {
		query = query.Limit(p.Limit).Offset(p.CalculateOffset())
	}

	var txModels []models.Transaction
	if err := query.Find(&txModels).Error; err != nil {
		return nil, 0, err
	}

	var txs []*entities.Transaction
	for _, m := range txModels {
		model := m
		txs = append(txs, transactionToEntity(&model))
	}
	return txs, total, nil
}

// CountByUser counts a user's transactions
func (r *TransactionRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.Transaction{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func transactionToEntity(m *models.Transaction) *entities.Transaction {
	t := &entities.Transaction{
		ID:                        m.ID,
		UserID:                    m.UserID,
		Type:                      entities.TransactionType(m.Type),
		Status:                    entities.TransactionStatus(m.Status),
		PaymentMethod:             entities.PaymentRail(m.PaymentMethod),
		Amount:                    m.Amount,
		Currency:                  m.Currency,
		ExchangeRate:              null.NewString(m.ExchangeRate, m.ExchangeRate != ""),
		ExternalTransactionID:     m.ExternalTransactionID,
		BlockchainTransactionHash: m.BlockchainTransactionHash,
		PaymentIntentID:           m.PaymentIntentID,
		Description:               m.Description,
		Metadata:                  m.Metadata,
		ErrorMessage:              m.ErrorMessage,
		ProcessedAt:               null.TimeFromPtr(m.ProcessedAt),
		FailedAt:                  null.TimeFromPtr(m.FailedAt),
		CreatedAt:                 m.CreatedAt,
		UpdatedAt:                 m.UpdatedAt,
	}
	if m.ContractID != nil {
		t.ContractID = uuid.NullUUID{UUID: *m.ContractID, Valid: true}
	}
	return t
}

// PaymentMethodRepository implements stored-instrument operations
type PaymentMethodRepository struct {
	db *gorm.DB
}

// NewPaymentMethodRepository creates a new payment method repository
func NewPaymentMethodRepository(db *gorm.DB) *PaymentMethodRepository {
	return &PaymentMethodRepository{db: db}
}

// Create stores a payment instrument
func (r *PaymentMethodRepository) Create(ctx context.Context, pm *entities.PaymentMethod) error {
	m := &models.PaymentMethod{
		ID:                    pm.ID,
		UserID:                pm.UserID,
		Type:                  string(pm.Type),
		IsDefault:             pm.IsDefault,
		IsActive:              pm.IsActive,
		StripePaymentMethodID: pm.StripePaymentMethodID,
		CardLastFour:          pm.CardLastFour,
		CardBrand:             pm.CardBrand,
		CardExpMonth:          pm.CardExpMonth.Ptr(),
		CardExpYear:           pm.CardExpYear.Ptr(),
		WalletAddress:         pm.WalletAddress,
		WalletType:            string(pm.WalletType),
		CreatedAt:             pm.CreatedAt,
		UpdatedAt:             pm.UpdatedAt,
	}
	return GetDB(ctx, r.db).WithContext(ctx).Create(m).Error
}

// GetByID gets a payment instrument by ID
func (r *PaymentMethodRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.PaymentMethod, error) {
	var m models.PaymentMethod
	if err := GetDB(ctx, r.db).WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return paymentMethodToEntity(&m), nil
}

// ListByUser lists a user's active instruments, default first
func (r *PaymentMethodRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entities.PaymentMethod, error) {
	var pmModels []models.PaymentMethod
	err := GetDB(ctx, r.db).WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("is_default DESC, created_at DESC").
		Find(&pmModels).Error
	if err != nil {
		return nil, err
	}

	var pms []*entities.PaymentMethod
	for _, m := range pmModels {
		model := m
		pms = append(pms, paymentMethodToEntity(&model))
	}
	return pms, nil
}

// SetDefault marks one instrument default and clears the flag on the rest
func (r *PaymentMethodRepository) SetDefault(ctx context.Context, userID, id uuid.UUID) error {
	db := GetDB(ctx, r.db).WithContext(ctx)

	result := db.Model(&models.PaymentMethod{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]interface{}{
			"is_default": true,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}

	return db.Model(&models.PaymentMethod{}).
		Where("user_id = ? AND id <> ?", userID, id).
		Updates(map[string]interface{}{
			"is_default": false,
			"updated_at": time.Now(),
		}).Error
}

// Deactivate retires an instrument
func (r *PaymentMethodRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	result := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.PaymentMethod{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_active":  false,
			"is_default": false,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func paymentMethodToEntity(m *models.PaymentMethod) *entities.PaymentMethod {
	return &entities.PaymentMethod{
		ID:                    m.ID,
		UserID:                m.UserID,
		Type:                  entities.PaymentMethodType(m.Type),
		IsDefault:             m.IsDefault,
		IsActive:              m.IsActive,
		StripePaymentMethodID: m.StripePaymentMethodID,
		CardLastFour:          m.CardLastFour,
		CardBrand:             m.CardBrand,
		CardExpMonth:          null.IntFromPtr(m.CardExpMonth),
		CardExpYear:           null.IntFromPtr(m.CardExpYear),
		WalletAddress:         m.WalletAddress,
		WalletType:            entities.WalletType(m.WalletType),
		CreatedAt:             m.CreatedAt,
		UpdatedAt:             m.UpdatedAt,
	}
}

// SubscriptionRepository implements billing-agreement operations
type SubscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new subscription repository
func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// Create opens a billing agreement
func (r *SubscriptionRepository) Create(ctx context.Context, sub *entities.Subscription) error {
	m := subscriptionToModel(sub)
	return GetDB(ctx, r.db).WithContext(ctx).Create(m).Error
}

// GetByID gets an agreement by ID
func (r *SubscriptionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Subscription, error) {
	var m models.Subscription
	if err := GetDB(ctx, r.db).WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return subscriptionToEntity(&m), nil
}

// GetActiveByUser gets the user's current active agreement
func (r *SubscriptionRepository) GetActiveByUser(ctx context.Context, userID uuid.UUID) (*entities.Subscription, error) {
	var m models.Subscription
	err := GetDB(ctx, r.db).WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, string(entities.SubStatusActive)).
		Order("created_at DESC").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return subscriptionToEntity(&m), nil
}

// ListByUser lists a user's agreements, newest first
func (r *SubscriptionRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entities.Subscription, error) {
	var subModels []models.Subscription
	err := GetDB(ctx, r.db).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&subModels).Error
	if err != nil {
		return nil, err
	}

	var subs []*entities.Subscription
	for _, m := range subModels {
		model := m
		subs = append(subs, subscriptionToEntity(&model))
	}
	return subs, nil
}

// Update persists state changes to an agreement
func (r *SubscriptionRepository) Update(ctx context.Context, sub *entities.Subscription) error {
	updates := map[string]interface{}{
		"status":               string(sub.Status),
		"current_period_start": sub.CurrentPeriodStart,
		"current_period_end":   sub.CurrentPeriodEnd,
		"cancel_at_period_end": sub.CancelAtPeriodEnd,
		"updated_at":           time.Now(),
	}
	if sub.CancelledAt.Valid {
		updates["cancelled_at"] = sub.CancelledAt.Time
	}

	result := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.Subscription{}).
		Where("id = ?", sub.ID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// ListExpiredActive returns active agreements whose period end has passed
func (r *SubscriptionRepository) ListExpiredActive(ctx context.Context, limit int) ([]*entities.Subscription, error) {
	var subModels []models.Subscription
	err := GetDB(ctx, r.db).WithContext(ctx).
		Where("status = ? AND current_period_end < ?", string(entities.SubStatusActive), time.Now()).
		Order("current_period_end ASC").
		Limit(limit).
		Find(&subModels).Error
	if err != nil {
		return nil, err
	}

	var subs []*entities.Subscription
	for _, m := range subModels {
		model := m
		subs = append(subs, subscriptionToEntity(&model))
	}
	return subs, nil
}

// MarkExpired flips the given agreements to expired in one statement
func (r *SubscriptionRepository) MarkExpired(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.Subscription{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"status":     string(entities.SubStatusExpired),
			"updated_at": time.Now(),
		}).Error
}

func subscriptionToModel(s *entities.Subscription) *models.Subscription {
	m := &models.Subscription{
		ID:                   s.ID,
		UserID:               s.UserID,
		StripeSubscriptionID: s.StripeSubscriptionID,
		Status:               string(s.Status),
		PriceID:              s.PriceID,
		Amount:               s.Amount,
		Currency:             s.Currency,
		Interval:             s.Interval,
		CurrentPeriodStart:   s.CurrentPeriodStart,
		CurrentPeriodEnd:     s.CurrentPeriodEnd,
		CancelAtPeriodEnd:    s.CancelAtPeriodEnd,
		CancelledAt:          s.CancelledAt.Ptr(),
		CreatedAt:            s.CreatedAt,
		UpdatedAt:            s.UpdatedAt,
	}
	if s.PaymentMethodID.Valid {
		pmID := s.PaymentMethodID.UUID
		m.PaymentMethodID = &pmID
	}
	return m
}

func subscriptionToEntity(m *models.Subscription) *entities.Subscription {
	s := &entities.Subscription{
		ID:                   m.ID,
		UserID:               m.UserID,
		StripeSubscriptionID: m.StripeSubscriptionID,
		Status:               entities.SubscriptionStatus(m.Status),
		PriceID:              m.PriceID,
		Amount:               m.Amount,
		Currency:             m.Currency,
		Interval:             m.Interval,
		CurrentPeriodStart:   m.CurrentPeriodStart,
		CurrentPeriodEnd:     m.CurrentPeriodEnd,
		CancelAtPeriodEnd:    m.CancelAtPeriodEnd,
		CancelledAt:          null.TimeFromPtr(m.CancelledAt),
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
	if m.PaymentMethodID != nil {
		s.PaymentMethodID = uuid.NullUUID{UUID: *m.PaymentMethodID, Valid: true}
	}
	return s
}
