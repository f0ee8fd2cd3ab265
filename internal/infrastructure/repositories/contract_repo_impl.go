package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"

	"blockbustre.backend/internal/domain/entities"
	domainerrors "blockbustre.backend/internal/domain/errors"
	"blockbustre.backend/internal/infrastructure/models"
	"blockbustre.backend/pkg/utils"
)

// ContractRepository implements registration-record operations
type ContractRepository struct {
	db *gorm.DB
}

// NewContractRepository creates a new contract repository
func NewContractRepository(db *gorm.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

// Create creates a registration record
func (r *ContractRepository) Create(ctx context.Context, contract *entities.SmartContract) error {
	m := contractToModel(contract)
	return GetDB(ctx, r.db).WithContext(ctx).Create(m).Error
}

// GetByID gets a record by ID regardless of deletion state
func (r *ContractRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.SmartContract, error) {
	var m models.SmartContract
	if err := GetDB(ctx, r.db).WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return contractToEntity(&m), nil
}

// Update updates the user-editable fields of a record
func (r *ContractRepository) Update(ctx context.Context, contract *entities.SmartContract) error {
	updates := map[string]interface{}{
		"title":              contract.Title,
		"description":        contract.Description,
		"category_id":        contract.CategoryID,
		"document_name":      contract.DocumentName,
		"document_hash":      contract.DocumentHash,
		"document_metadata":  contract.DocumentMetadata,
		"blockchain_network": string(contract.BlockchainNetwork),
		"contract_metadata":  contract.ContractMetadata,
		"updated_at":         time.Now(),
	}

	result := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.SmartContract{}).
		Where("id = ?", contract.ID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// UpdateStatus moves a record to a new lifecycle status
func (r *ContractRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.ContractStatus) error {
	result := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.SmartContract{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     string(status),
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

// UpdateCosts persists the gas estimate and derived fee columns, together
// with any chain results attached to the record
func (r *ContractRepository) UpdateCosts(ctx context.Context, contract *entities.SmartContract) error {
	updates := map[string]interface{}{
		"gas_fee_estimate": contract.GasFeeEstimate.String,
		"service_fee":      contract.ServiceFee.String,
		"total_cost":       contract.TotalCost.String,
		"updated_at":       time.Now(),
	}
	if contract.ContractAddress != "" {
		updates["contract_address"] = contract.ContractAddress
	}
	if contract.TransactionHash != "" {
		updates["transaction_hash"] = contract.TransactionHash
	}
	if contract.BlockNumber.Valid {
		updates["block_number"] = contract.BlockNumber.Int64
	}
	if contract.GasUsed.Valid {
		updates["gas_used"] = contract.GasUsed.Int64
	}
	if contract.GasPrice.Valid {
		updates["gas_price"] = contract.GasPrice.Int64
	}

	result := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.SmartContract{}).
		Where("id = ?", contract.ID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// SoftDelete marks a record deleted. The row survives and stays readable
// by direct lookup.
func (r *ContractRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	result := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.SmartContract{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]interface{}{
			"is_deleted": true,
			"deleted_at": time.Now(),
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

// Restore clears the deletion state pair
func (r *ContractRepository) Restore(ctx context.Context, id uuid.UUID) error {
	result := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.SmartContract{}).
		Where("id = ? AND is_deleted = ?", id, true).
		Updates(map[string]interface{}{
			"is_deleted": false,
			"deleted_at": nil,
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

// List lists non-deleted records matching the filter, newest first
func (r *ContractRepository) List(ctx context.Context, filter entities.ContractFilter, p utils.PaginationParams) ([]*entities.SmartContract, int64, error) {
	query := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.SmartContract{}).
		Where("is_deleted = ?", false)

	if filter.UserID.Valid {
		query = query.Where("user_id = ?", filter.UserID.UUID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	if filter.CategoryID.Valid {
		query = query.Where("category_id = ?", filter.CategoryID.UUID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created_at DESC")
	if p.Limit > 0 {
		query = query.Limit(p.Limit).Offset(p.CalculateOffset())
	}

	var contractModels []models.SmartContract
	if err := query.Find(&contractModels).Error; err != nil {
		return nil, 0, err
	}

	var contracts []*entities.SmartContract
	for _, m := range contractModels {
		model := m
		contracts = append(contracts, contractToEntity(&model))
	}
	return contracts, total, nil
}

// CountByUser counts a user's non-deleted records
func (r *ContractRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.SmartContract{}).
		Where("user_id = ? AND is_deleted = ?", userID, false).
		Count(&count).Error
	return count, err
}

// CountByCategory counts non-deleted records referencing a category
func (r *ContractRepository) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.SmartContract{}).
		Where("category_id = ? AND is_deleted = ?", categoryID, false).
		Count(&count).Error
	return count, err
}

func contractToModel(c *entities.SmartContract) *models.SmartContract {
	return &models.SmartContract{
		ID:                    c.ID,
		UserID:                c.UserID,
		CategoryID:            c.CategoryID,
		Title:                 c.Title,
		Description:           c.Description,
		DocumentName:          c.DocumentName,
		DocumentHash:          c.DocumentHash,
		DocumentMetadata:      c.DocumentMetadata,
		BlockchainNetwork:     string(c.BlockchainNetwork),
		ContractAddress:       c.ContractAddress,
		TransactionHash:       c.TransactionHash,
		BlockNumber:           c.BlockNumber.Ptr(),
		GasUsed:               c.GasUsed.Ptr(),
		GasPrice:              c.GasPrice.Ptr(),
		Status:                string(c.Status),
		GasFeeEstimate:        c.GasFeeEstimate.String,
		ServiceFee:            c.ServiceFee.String,
		TotalCost:             c.TotalCost.String,
		VerificationStatus:    c.VerificationStatus,
		VerificationTimestamp: c.VerificationTimestamp.Ptr(),
		ContractMetadata:      c.ContractMetadata,
		ErrorMessage:          c.ErrorMessage,
		RetryCount:            c.RetryCount,
		IsDeleted:             c.IsDeleted,
		DeletedAt:             c.DeletedAt.Ptr(),
		CreatedAt:             c.CreatedAt,
		UpdatedAt:             c.UpdatedAt,
	}
}

func contractToEntity(m *models.SmartContract) *entities.SmartContract {
	return &entities.SmartContract{
		ID:                    m.ID,
		UserID:                m.UserID,
		CategoryID:            m.CategoryID,
		Title:                 m.Title,
		Description:           m.Description,
		DocumentName:          m.DocumentName,
		DocumentHash:          m.DocumentHash,
		DocumentMetadata:      m.DocumentMetadata,
		BlockchainNetwork:     entities.BlockchainNetwork(m.BlockchainNetwork),
		ContractAddress:       m.ContractAddress,
		TransactionHash:       m.TransactionHash,
		BlockNumber:           null.Int64FromPtr(m.BlockNumber),
		GasUsed:               null.Int64FromPtr(m.GasUsed),
		GasPrice:              null.Int64FromPtr(m.GasPrice),
		Status:                entities.ContractStatus(m.Status),
		GasFeeEstimate:        null.NewString(m.GasFeeEstimate, m.GasFeeEstimate != ""),
		ServiceFee:            null.NewString(m.ServiceFee, m.ServiceFee != ""),
		TotalCost:             null.NewString(m.TotalCost, m.TotalCost != ""),
		VerificationStatus:    m.VerificationStatus,
		VerificationTimestamp: null.TimeFromPtr(m.VerificationTimestamp),
		ContractMetadata:      m.ContractMetadata,
		ErrorMessage:          m.ErrorMessage,
		RetryCount:            m.RetryCount,
		IsDeleted:             m.IsDeleted,
		DeletedAt:             null.TimeFromPtr(m.DeletedAt),
		CreatedAt:             m.CreatedAt,
		UpdatedAt:             m.UpdatedAt,
	}
}

// ContractCategoryRepository implements category reference data
type ContractCategoryRepository struct {
	db *gorm.DB
}

// NewContractCategoryRepository creates a new category repository
func NewContractCategoryRepository(db *gorm.DB) *ContractCategoryRepository {
	return &ContractCategoryRepository{db: db}
}

// Create creates a category
func (r *ContractCategoryRepository) Create(ctx context.Context, category *entities.ContractCategory) error {
	m := &models.ContractCategory{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
		Icon:        category.Icon,
		IsActive:    category.IsActive,
		SortOrder:   category.SortOrder,
		CreatedAt:   category.CreatedAt,
	}
	return GetDB(ctx, r.db).WithContext(ctx).Create(m).Error
}

// GetByID gets a category by ID
func (r *ContractCategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.ContractCategory, error) {
	var m models.ContractCategory
	if err := GetDB(ctx, r.db).WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return categoryToEntity(&m), nil
}

// ListActive lists active categories in display order
func (r *ContractCategoryRepository) ListActive(ctx context.Context) ([]*entities.ContractCategory, error) {
	var categoryModels []models.ContractCategory
	err := GetDB(ctx, r.db).WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_order ASC, name ASC").
		Find(&categoryModels).Error
	if err != nil {
		return nil, err
	}

	var categories []*entities.ContractCategory
	for _, m := range categoryModels {
		model := m
		categories = append(categories, categoryToEntity(&model))
	}
	return categories, nil
}

// Delete removes a category. Fails while any contract, deleted or not,
// still references it.
func (r *ContractCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := GetDB(ctx, r.db).WithContext(ctx)

	var refs int64
	if err := db.Model(&models.SmartContract{}).Where("category_id = ?", id).Count(&refs).Error; err != nil {
		return err
	}
	if refs > 0 {
		return domainerrors.ErrProtectedReference
	}

	result := db.Delete(&models.ContractCategory{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func categoryToEntity(m *models.ContractCategory) *entities.ContractCategory {
	return &entities.ContractCategory{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Icon:        m.Icon,
		IsActive:    m.IsActive,
		SortOrder:   m.SortOrder,
		CreatedAt:   m.CreatedAt,
	}
}

// ContractTemplateRepository implements template operations
type ContractTemplateRepository struct {
	db *gorm.DB
}

// NewContractTemplateRepository creates a new template repository
func NewContractTemplateRepository(db *gorm.DB) *ContractTemplateRepository {
	return &ContractTemplateRepository{db: db}
}

// Create creates a template
func (r *ContractTemplateRepository) Create(ctx context.Context, template *entities.ContractTemplate) error {
	m := &models.ContractTemplate{
		ID:           template.ID,
		CategoryID:   template.CategoryID,
		Name:         template.Name,
		Description:  template.Description,
		TemplateCode: template.TemplateCode,
		Variables:    template.Variables,
		IsActive:     template.IsActive,
		CreatedAt:    template.CreatedAt,
		UpdatedAt:    template.UpdatedAt,
	}
	return GetDB(ctx, r.db).WithContext(ctx).Create(m).Error
}

// GetByID gets a template by ID
func (r *ContractTemplateRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.ContractTemplate, error) {
	var m models.ContractTemplate
	if err := GetDB(ctx, r.db).WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return templateToEntity(&m), nil
}

// Update updates a template
func (r *ContractTemplateRepository) Update(ctx context.Context, template *entities.ContractTemplate) error {
	updates := map[string]interface{}{
		"name":          template.Name,
		"description":   template.Description,
		"template_code": template.TemplateCode,
		"variables":     pq.StringArray(template.Variables),
		"is_active":     template.IsActive,
		"updated_at":    time.Now(),
	}

	result := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.ContractTemplate{}).
		Where("id = ?", template.ID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// ListByCategory lists active templates in a category
func (r *ContractTemplateRepository) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*entities.ContractTemplate, error) {
	var templateModels []models.ContractTemplate
	err := GetDB(ctx, r.db).WithContext(ctx).
		Where("category_id = ? AND is_active = ?", categoryID, true).
		Order("name ASC").
		Find(&templateModels).Error
	if err != nil {
		return nil, err
	}

	var templates []*entities.ContractTemplate
	for _, m := range templateModels {
		model := m
		templates = append(templates, templateToEntity(&model))
	}
	return templates, nil
}

func templateToEntity(m *models.ContractTemplate) *entities.ContractTemplate {
	return &entities.ContractTemplate{
		ID:           m.ID,
		CategoryID:   m.CategoryID,
		Name:         m.Name,
		Description:  m.Description,
		TemplateCode: m.TemplateCode,
		Variables:    m.Variables,
		IsActive:     m.IsActive,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// DeploymentLogRepository implements the append-only deployment log
type DeploymentLogRepository struct {
	db *gorm.DB
}

// NewDeploymentLogRepository creates a new deployment log repository
func NewDeploymentLogRepository(db *gorm.DB) *DeploymentLogRepository {
	return &DeploymentLogRepository{db: db}
}

// Create appends one deployment attempt record
func (r *DeploymentLogRepository) Create(ctx context.Context, log *entities.ContractDeploymentLog) error {
	m := &models.ContractDeploymentLog{
		ID:                log.ID,
		ContractID:        log.ContractID,
		DeploymentAttempt: log.DeploymentAttempt,
		Status:            log.Status,
		Message:           log.Message,
		TransactionHash:   log.TransactionHash,
		GasUsed:           log.GasUsed.Ptr(),
		ErrorDetails:      log.ErrorDetails,
		CreatedAt:         log.CreatedAt,
	}
	return GetDB(ctx, r.db).WithContext(ctx).Create(m).Error
}

// ListByContract lists a contract's deployment attempts, newest first
func (r *DeploymentLogRepository) ListByContract(ctx context.Context, contractID uuid.UUID) ([]*entities.ContractDeploymentLog, error) {
	var logModels []models.ContractDeploymentLog
	err := GetDB(ctx, r.db).WithContext(ctx).
		Where("contract_id = ?", contractID).
		Order("created_at DESC").
		Find(&logModels).Error
	if err != nil {
		return nil, err
	}

	var logs []*entities.ContractDeploymentLog
	for _, m := range logModels {
		model := m
		logs = append(logs, &entities.ContractDeploymentLog{
			ID:                model.ID,
			ContractID:        model.ContractID,
			DeploymentAttempt: model.DeploymentAttempt,
			Status:            model.Status,
			Message:           model.Message,
			TransactionHash:   model.TransactionHash,
			GasUsed:           null.Int64FromPtr(model.GasUsed),
			ErrorDetails:      model.ErrorDetails,
			CreatedAt:         model.CreatedAt,
		})
	}
	return logs, nil
}

// CountByContract counts a contract's deployment attempts
func (r *DeploymentLogRepository) CountByContract(ctx context.Context, contractID uuid.UUID) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.ContractDeploymentLog{}).
		Where("contract_id = ?", contractID).
		Count(&count).Error
	return count, err
}
