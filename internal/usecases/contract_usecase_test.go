package usecases_test

import (
	"context"
	"math/big"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"blockbustre.backend/internal/domain/entities"
	domainerrors "blockbustre.backend/internal/domain/errors"
	"blockbustre.backend/internal/infrastructure/blockchain"
	"blockbustre.backend/internal/usecases"
)

type contractFixture struct {
	contractRepo *MockContractRepository
	categoryRepo *MockContractCategoryRepository
	templateRepo *MockContractTemplateRepository
	logRepo      *MockDeploymentLogRepository
	userRepo     *MockUserRepository
	clients      *blockchain.ClientFactory
	uc           *usecases.ContractUsecase
}

func newContractFixture() *contractFixture {
	f := &contractFixture{
		contractRepo: new(MockContractRepository),
		categoryRepo: new(MockContractCategoryRepository),
		templateRepo: new(MockContractTemplateRepository),
		logRepo:      new(MockDeploymentLogRepository),
		userRepo:     new(MockUserRepository),
		clients:      blockchain.NewClientFactory(nil),
	}
	f.uc = usecases.NewContractUsecase(
		f.contractRepo, f.categoryRepo, f.templateRepo, f.logRepo, f.userRepo, f.clients,
	)
	return f
}

func TestContractUsecase_Create_DefaultsToDraftOnSepolia(t *testing.T) {
	f := newContractFixture()
	userID := uuid.New()
	categoryID := uuid.New()

	f.categoryRepo.On("GetByID", mock.Anything, categoryID).
		Return(&entities.ContractCategory{ID: categoryID, Name: "Legal"}, nil).Once()
	f.contractRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

	contract, err := f.uc.Create(context.Background(), userID, &entities.CreateContractInput{
		Title:       "Supply agreement",
		Description: "Registration of the signed supply agreement",
		CategoryID:  categoryID.String(),
	})

	require.NoError(t, err)
	assert.Equal(t, entities.ContractStatusDraft, contract.Status)
	assert.Equal(t, entities.NetworkEthereumSepolia, contract.BlockchainNetwork)
	assert.Equal(t, userID, contract.UserID)
}

func TestContractUsecase_Create_UnknownCategory(t *testing.T) {
	f := newContractFixture()
	categoryID := uuid.New()

	f.categoryRepo.On("GetByID", mock.Anything, categoryID).
		Return(nil, domainerrors.ErrNotFound).Once()

	_, err := f.uc.Create(context.Background(), uuid.New(), &entities.CreateContractInput{
		Title:       "x",
		Description: "y",
		CategoryID:  categoryID.String(),
	})
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestContractUsecase_Create_BadNetwork(t *testing.T) {
	f := newContractFixture()
	categoryID := uuid.New()

	f.categoryRepo.On("GetByID", mock.Anything, categoryID).
		Return(&entities.ContractCategory{ID: categoryID}, nil).Once()

	_, err := f.uc.Create(context.Background(), uuid.New(), &entities.CreateContractInput{
		Title:             "x",
		Description:       "y",
		CategoryID:        categoryID.String(),
		BlockchainNetwork: "solana",
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
}

func TestContractUsecase_Get_EnforcesOwnership(t *testing.T) {
	f := newContractFixture()
	owner := uuid.New()
	stranger := uuid.New()
	id := uuid.New()

	f.contractRepo.On("GetByID", mock.Anything, id).
		Return(&entities.SmartContract{ID: id, UserID: owner}, nil)

	_, err := f.uc.Get(context.Background(), stranger, false, id)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	_, err = f.uc.Get(context.Background(), stranger, true, id)
	assert.NoError(t, err)

	_, err = f.uc.Get(context.Background(), owner, false, id)
	assert.NoError(t, err)
}

func TestContractUsecase_List_PinsNonStaffToOwnRecords(t *testing.T) {
	f := newContractFixture()
	userID := uuid.New()

	f.contractRepo.On("List", mock.Anything, mock.MatchedBy(func(filter entities.ContractFilter) bool {
		return filter.UserID.Valid && filter.UserID.UUID == userID
	}), mock.Anything).Return([]*entities.SmartContract{}, int64(0), nil).Once()

	_, _, err := f.uc.List(context.Background(), userID, false, entities.ContractFilter{}, pageOne())
	require.NoError(t, err)
	f.contractRepo.AssertExpectations(t)
}

func TestContractUsecase_Update_RejectsAfterSubmission(t *testing.T) {
	f := newContractFixture()
	userID := uuid.New()
	id := uuid.New()

	f.contractRepo.On("GetByID", mock.Anything, id).
		Return(&entities.SmartContract{ID: id, UserID: userID, Status: entities.ContractStatusProcessing}, nil).Once()

	title := "renamed"
	_, err := f.uc.Update(context.Background(), userID, false, id, &entities.UpdateContractInput{Title: &title})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidTransition)
	f.contractRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestContractUsecase_Submit_OnlyFromDraft(t *testing.T) {
	f := newContractFixture()
	userID := uuid.New()
	id := uuid.New()

	f.contractRepo.On("GetByID", mock.Anything, id).
		Return(&entities.SmartContract{ID: id, UserID: userID, Status: entities.ContractStatusDraft}, nil).Once()
	f.contractRepo.On("UpdateStatus", mock.Anything, id, entities.ContractStatusPending).Return(nil).Once()

	contract, err := f.uc.Submit(context.Background(), userID, false, id)
	require.NoError(t, err)
	assert.Equal(t, entities.ContractStatusPending, contract.Status)

	f.contractRepo.On("GetByID", mock.Anything, id).
		Return(&entities.SmartContract{ID: id, UserID: userID, Status: entities.ContractStatusPending}, nil).Once()

	_, err = f.uc.Submit(context.Background(), userID, false, id)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidTransition)
}

func TestContractUsecase_Deploy_AppendsAttemptLog(t *testing.T) {
	f := newContractFixture()
	id := uuid.New()

	f.contractRepo.On("GetByID", mock.Anything, id).
		Return(&entities.SmartContract{ID: id, UserID: uuid.New(), Status: entities.ContractStatusPending}, nil).Once()
	f.logRepo.On("CountByContract", mock.Anything, id).Return(int64(2), nil).Once()
	f.logRepo.On("Create", mock.Anything, mock.MatchedBy(func(entry *entities.ContractDeploymentLog) bool {
		return entry.ContractID == id && entry.DeploymentAttempt == 3 && entry.Status == "started"
	})).Return(nil).Once()
	f.contractRepo.On("UpdateStatus", mock.Anything, id, entities.ContractStatusProcessing).Return(nil).Once()

	contract, err := f.uc.Deploy(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, entities.ContractStatusProcessing, contract.Status)
	f.logRepo.AssertExpectations(t)
}

func TestContractUsecase_Deploy_RejectsDraft(t *testing.T) {
	f := newContractFixture()
	id := uuid.New()

	f.contractRepo.On("GetByID", mock.Anything, id).
		Return(&entities.SmartContract{ID: id, Status: entities.ContractStatusDraft}, nil).Once()

	_, err := f.uc.Deploy(context.Background(), id)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidTransition)
}

func TestContractUsecase_EstimateFees_SubscriberRate(t *testing.T) {
	f := newContractFixture()
	userID := uuid.New()
	id := uuid.New()

	// 20 gwei at the default deployment gas comes to 0.03 ETH.
	f.clients.RegisterClient(entities.NetworkEthereumSepolia, blockchain.NewEVMClientWithGasPrice(
		big.NewInt(11155111),
		func(ctx context.Context) (*big.Int, error) {
			return big.NewInt(20_000_000_000), nil
		},
	))

	f.contractRepo.On("GetByID", mock.Anything, id).Return(&entities.SmartContract{
		ID:                id,
		UserID:            userID,
		Status:            entities.ContractStatusDraft,
		BlockchainNetwork: entities.NetworkEthereumSepolia,
	}, nil).Once()
	f.userRepo.On("GetByID", mock.Anything, userID).
		Return(activeUser(t, "owner@blockbustre.io", "Password123"), nil).Once()
	f.contractRepo.On("UpdateCosts", mock.Anything, mock.Anything).Return(nil).Once()

	contract, err := f.uc.EstimateFees(context.Background(), userID, false, id)
	require.NoError(t, err)

	assert.Equal(t, "0.03000000", contract.GasFeeEstimate.String)
	// Non-subscriber owner pays the default 15 percent service fee.
	assert.Equal(t, "0.00450000", contract.ServiceFee.String)
	assert.Equal(t, "0.03450000", contract.TotalCost.String)
}

func TestContractUsecase_EstimateFees_UnconfiguredNetwork(t *testing.T) {
	f := newContractFixture()
	id := uuid.New()
	userID := uuid.New()

	f.contractRepo.On("GetByID", mock.Anything, id).Return(&entities.SmartContract{
		ID:                id,
		UserID:            userID,
		BlockchainNetwork: entities.NetworkBSCMainnet,
	}, nil).Once()

	_, err := f.uc.EstimateFees(context.Background(), userID, false, id)
	assert.Error(t, err)
	f.contractRepo.AssertNotCalled(t, "UpdateCosts", mock.Anything, mock.Anything)
}

func TestContractUsecase_SoftDeletedRecordsStayReadable(t *testing.T) {
	f := newContractFixture()
	userID := uuid.New()
	id := uuid.New()

	deleted := &entities.SmartContract{ID: id, UserID: userID, IsDeleted: true}
	f.contractRepo.On("GetByID", mock.Anything, id).Return(deleted, nil)

	got, err := f.uc.Get(context.Background(), userID, false, id)
	require.NoError(t, err)
	assert.True(t, got.IsDeleted)

	// But a deleted record cannot be edited or quoted.
	title := "x"
	_, err = f.uc.Update(context.Background(), userID, false, id, &entities.UpdateContractInput{Title: &title})
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	_, err = f.uc.EstimateFees(context.Background(), userID, false, id)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestContractUsecase_CreateTemplate_RequiresCategory(t *testing.T) {
	f := newContractFixture()
	categoryID := uuid.New()

	f.categoryRepo.On("GetByID", mock.Anything, categoryID).
		Return(nil, domainerrors.ErrNotFound).Once()

	err := f.uc.CreateTemplate(context.Background(), &entities.ContractTemplate{
		Name:         "NDA",
		CategoryID:   categoryID,
		TemplateCode: "pragma solidity ^0.8.0;",
	})
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}
