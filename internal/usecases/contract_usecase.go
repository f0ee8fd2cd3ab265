package usecases

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"blockbustre.backend/internal/domain/entities"
	domainerrors "blockbustre.backend/internal/domain/errors"
	"blockbustre.backend/internal/domain/repositories"
	"blockbustre.backend/internal/infrastructure/blockchain"
	"blockbustre.backend/pkg/metrics"
	"blockbustre.backend/pkg/utils"
)

// ContractUsecase handles document registration records and their reference
// data. Ownership is enforced here: non-staff callers only ever see their own
// records.
type ContractUsecase struct {
	contractRepo repositories.ContractRepository
	categoryRepo repositories.ContractCategoryRepository
	templateRepo repositories.ContractTemplateRepository
	logRepo      repositories.DeploymentLogRepository
	userRepo     repositories.UserRepository
	clients      *blockchain.ClientFactory
}

// NewContractUsecase creates a new contract usecase
func NewContractUsecase(
	contractRepo repositories.ContractRepository,
	categoryRepo repositories.ContractCategoryRepository,
	templateRepo repositories.ContractTemplateRepository,
	logRepo repositories.DeploymentLogRepository,
	userRepo repositories.UserRepository,
	clients *blockchain.ClientFactory,
) *ContractUsecase {
	return &ContractUsecase{
		contractRepo: contractRepo,
		categoryRepo: categoryRepo,
		templateRepo: templateRepo,
		logRepo:      logRepo,
		userRepo:     userRepo,
		clients:      clients,
	}
}

// Create opens a new registration record in draft status
func (u *ContractUsecase) Create(ctx context.Context, userID uuid.UUID, input *entities.CreateContractInput) (*entities.SmartContract, error) {
	categoryID, err := uuid.Parse(input.CategoryID)
	if err != nil {
		return nil, domainerrors.ErrInvalidInput
	}
	if _, err := u.categoryRepo.GetByID(ctx, categoryID); err != nil {
		return nil, err
	}

	network := input.BlockchainNetwork
	if network == "" {
		network = entities.NetworkEthereumSepolia
	}
	if !entities.IsValidNetwork(network) {
		return nil, domainerrors.NewError("unsupported blockchain network", domainerrors.ErrInvalidInput)
	}

	contract := &entities.SmartContract{
		Title:             input.Title,
		Description:       input.Description,
		CategoryID:        categoryID,
		UserID:            userID,
		DocumentName:      input.DocumentName,
		DocumentHash:      input.DocumentHash,
		DocumentMetadata:  input.DocumentMetadata,
		ContractMetadata:  input.ContractMetadata,
		BlockchainNetwork: network,
		Status:            entities.ContractStatusDraft,
	}
	if err := u.contractRepo.Create(ctx, contract); err != nil {
		return nil, err
	}

	metrics.ContractsByStatus.WithLabelValues(string(entities.ContractStatusDraft)).Inc()
	return contract, nil
}

// Get returns one record by key. Direct lookup also returns soft-deleted
// rows so owners can inspect and restore them.
func (u *ContractUsecase) Get(ctx context.Context, userID uuid.UUID, isStaff bool, id uuid.UUID) (*entities.SmartContract, error) {
	contract, err := u.contractRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if contract.UserID != userID && !isStaff {
		return nil, domainerrors.ErrForbidden
	}
	return contract, nil
}

// List pages through non-deleted records. Non-staff callers are pinned to
// their own records whatever filter they send.
func (u *ContractUsecase) List(ctx context.Context, userID uuid.UUID, isStaff bool, filter entities.ContractFilter, p utils.PaginationParams) ([]*entities.SmartContract, int64, error) {
	if !isStaff {
		filter.UserID = uuid.NullUUID{UUID: userID, Valid: true}
	}
	return u.contractRepo.List(ctx, filter, p)
}

// Update patches user-facing fields while the record is still editable
func (u *ContractUsecase) Update(ctx context.Context, userID uuid.UUID, isStaff bool, id uuid.UUID, input *entities.UpdateContractInput) (*entities.SmartContract, error) {
	contract, err := u.Get(ctx, userID, isStaff, id)
	if err != nil {
		return nil, err
	}
	if contract.IsDeleted {
		return nil, domainerrors.ErrNotFound
	}
	if !contract.Editable() {
		return nil, domainerrors.ErrInvalidTransition
	}

	if input.Title != nil {
		contract.Title = *input.Title
	}
	if input.Description != nil {
		contract.Description = *input.Description
	}
	if input.CategoryID != nil {
		categoryID, err := uuid.Parse(*input.CategoryID)
		if err != nil {
			return nil, domainerrors.ErrInvalidInput
		}
		if _, err := u.categoryRepo.GetByID(ctx, categoryID); err != nil {
			return nil, err
		}
		contract.CategoryID = categoryID
	}
	if input.BlockchainNetwork != nil {
		if !entities.IsValidNetwork(*input.BlockchainNetwork) {
			return nil, domainerrors.NewError("unsupported blockchain network", domainerrors.ErrInvalidInput)
		}
		contract.BlockchainNetwork = *input.BlockchainNetwork
	}
	if input.DocumentName != nil {
		contract.DocumentName = *input.DocumentName
	}
	if input.DocumentHash != nil {
		contract.DocumentHash = *input.DocumentHash
	}
	if input.DocumentMetadata != nil {
		contract.DocumentMetadata = *input.DocumentMetadata
	}
	if input.ContractMetadata != nil {
		contract.ContractMetadata = *input.ContractMetadata
	}

	if err := u.contractRepo.Update(ctx, contract); err != nil {
		return nil, err
	}
	return contract, nil
}

// SoftDelete marks a record deleted. Deleting twice is an error surfaced to
// the caller, not a silent no-op.
func (u *ContractUsecase) SoftDelete(ctx context.Context, userID uuid.UUID, isStaff bool, id uuid.UUID) error {
	if _, err := u.Get(ctx, userID, isStaff, id); err != nil {
		return err
	}
	return u.contractRepo.SoftDelete(ctx, id)
}

// Restore clears the deletion state of a soft-deleted record
func (u *ContractUsecase) Restore(ctx context.Context, userID uuid.UUID, isStaff bool, id uuid.UUID) (*entities.SmartContract, error) {
	contract, err := u.Get(ctx, userID, isStaff, id)
	if err != nil {
		return nil, err
	}
	if err := u.contractRepo.Restore(ctx, contract.ID); err != nil {
		return nil, err
	}
	return u.contractRepo.GetByID(ctx, id)
}

// EstimateFees quotes the deployment cost on the record's target network and
// persists the estimate together with the fee split. The service fee percent
// depends on the owner's subscription state at quote time.
func (u *ContractUsecase) EstimateFees(ctx context.Context, userID uuid.UUID, isStaff bool, id uuid.UUID) (*entities.SmartContract, error) {
	contract, err := u.Get(ctx, userID, isStaff, id)
	if err != nil {
		return nil, err
	}
	if contract.IsDeleted {
		return nil, domainerrors.ErrNotFound
	}

	client, err := u.clients.GetClient(contract.BlockchainNetwork)
	if err != nil {
		return nil, err
	}

	estimate, gasPrice, err := client.EstimateDeploymentFee(ctx, 0)
	if err != nil {
		return nil, err
	}

	owner, err := u.userRepo.GetByID(ctx, contract.UserID)
	if err != nil {
		return nil, err
	}

	contract.GasFeeEstimate = null.StringFrom(estimate)
	if gasPrice.IsInt64() {
		contract.GasPrice = null.Int64From(gasPrice.Int64())
	}
	contract.CalculateTotalCost(owner.ServiceFeePercent(time.Now()))

	if err := u.contractRepo.UpdateCosts(ctx, contract); err != nil {
		return nil, err
	}
	return contract, nil
}

// Submit moves a draft into the deployment queue
func (u *ContractUsecase) Submit(ctx context.Context, userID uuid.UUID, isStaff bool, id uuid.UUID) (*entities.SmartContract, error) {
	contract, err := u.Get(ctx, userID, isStaff, id)
	if err != nil {
		return nil, err
	}
	if contract.IsDeleted {
		return nil, domainerrors.ErrNotFound
	}
	if contract.Status != entities.ContractStatusDraft {
		return nil, domainerrors.ErrInvalidTransition
	}

	if err := u.contractRepo.UpdateStatus(ctx, id, entities.ContractStatusPending); err != nil {
		return nil, err
	}
	contract.Status = entities.ContractStatusPending

	metrics.ContractsByStatus.WithLabelValues(string(entities.ContractStatusPending)).Inc()
	return contract, nil
}

// Deploy picks a pending record up for processing and appends the attempt to
// the deployment log. The chain broadcast itself happens out of band.
func (u *ContractUsecase) Deploy(ctx context.Context, id uuid.UUID) (*entities.SmartContract, error) {
	contract, err := u.contractRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if contract.IsDeleted {
		return nil, domainerrors.ErrNotFound
	}
	if contract.Status != entities.ContractStatusPending {
		return nil, domainerrors.ErrInvalidTransition
	}

	attempts, err := u.logRepo.CountByContract(ctx, id)
	if err != nil {
		return nil, err
	}

	entry := &entities.ContractDeploymentLog{
		ContractID:        id,
		DeploymentAttempt: int(attempts) + 1,
		Status:            "started",
		Message:           "deployment picked up for processing",
	}
	if err := u.logRepo.Create(ctx, entry); err != nil {
		return nil, err
	}

	if err := u.contractRepo.UpdateStatus(ctx, id, entities.ContractStatusProcessing); err != nil {
		return nil, err
	}
	contract.Status = entities.ContractStatusProcessing

	metrics.ContractsByStatus.WithLabelValues(string(entities.ContractStatusProcessing)).Inc()
	return contract, nil
}

// ListDeploymentLogs returns the attempt history for one record
func (u *ContractUsecase) ListDeploymentLogs(ctx context.Context, userID uuid.UUID, isStaff bool, id uuid.UUID) ([]*entities.ContractDeploymentLog, error) {
	if _, err := u.Get(ctx, userID, isStaff, id); err != nil {
		return nil, err
	}
	return u.logRepo.ListByContract(ctx, id)
}

// ListCategories returns active categories in display order
func (u *ContractUsecase) ListCategories(ctx context.Context) ([]*entities.ContractCategory, error) {
	return u.categoryRepo.ListActive(ctx)
}

// CreateCategory adds a category
func (u *ContractUsecase) CreateCategory(ctx context.Context, category *entities.ContractCategory) error {
	if category.Name == "" {
		return domainerrors.ErrInvalidInput
	}
	category.IsActive = true
	return u.categoryRepo.Create(ctx, category)
}

// DeleteCategory removes a category unless contracts still reference it
func (u *ContractUsecase) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return u.categoryRepo.Delete(ctx, id)
}

// ListTemplates returns the templates of one category
func (u *ContractUsecase) ListTemplates(ctx context.Context, categoryID uuid.UUID) ([]*entities.ContractTemplate, error) {
	return u.templateRepo.ListByCategory(ctx, categoryID)
}

// CreateTemplate adds a template to a category
func (u *ContractUsecase) CreateTemplate(ctx context.Context, template *entities.ContractTemplate) error {
	if template.Name == "" || template.TemplateCode == "" {
		return domainerrors.ErrInvalidInput
	}
	if _, err := u.categoryRepo.GetByID(ctx, template.CategoryID); err != nil {
		return err
	}
	template.IsActive = true
	return u.templateRepo.Create(ctx, template)
}

// UpdateTemplate replaces a template's content
func (u *ContractUsecase) UpdateTemplate(ctx context.Context, template *entities.ContractTemplate) error {
	if _, err := u.templateRepo.GetByID(ctx, template.ID); err != nil {
		return err
	}
	return u.templateRepo.Update(ctx, template)
}
