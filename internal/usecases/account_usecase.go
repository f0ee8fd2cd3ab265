package usecases

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"blockbustre.backend/internal/domain/entities"
	domainerrors "blockbustre.backend/internal/domain/errors"
	"blockbustre.backend/internal/domain/repositories"
	"blockbustre.backend/pkg/logger"
	"go.uber.org/zap"
)

// AccountUsecase handles the authenticated user's own account surface
type AccountUsecase struct {
	userRepo        repositories.UserRepository
	profileRepo     repositories.UserProfileRepository
	contractRepo    repositories.ContractRepository
	transactionRepo repositories.TransactionRepository
}

// NewAccountUsecase creates a new account usecase
func NewAccountUsecase(
	userRepo repositories.UserRepository,
	profileRepo repositories.UserProfileRepository,
	contractRepo repositories.ContractRepository,
	transactionRepo repositories.TransactionRepository,
) *AccountUsecase {
	return &AccountUsecase{
		userRepo:        userRepo,
		profileRepo:     profileRepo,
		contractRepo:    contractRepo,
		transactionRepo: transactionRepo,
	}
}

// AccountView is a user together with their profile extension
type AccountView struct {
	User                 *entities.User        `json:"user"`
	Profile              *entities.UserProfile `json:"profile,omitempty"`
	IsSubscriber         bool                  `json:"isSubscriber"`
	ServiceFeePercentage float64               `json:"serviceFeePercentage"`
}

// DashboardStats aggregates the numbers shown on the account dashboard
type DashboardStats struct {
	User                 *entities.User `json:"user"`
	TotalContracts       int64          `json:"totalContracts"`
	TotalTransactions    int64          `json:"totalTransactions"`
	KYCVerified          bool           `json:"kycVerified"`
	SubscriptionActive   bool           `json:"subscriptionActive"`
	ServiceFeePercentage float64        `json:"serviceFeePercentage"`
}

// AdminStatus reports the caller's staff standing and effective permissions
type AdminStatus struct {
	IsStaff     bool     `json:"isStaff"`
	RoleName    string   `json:"roleName,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
}

// GetAccount returns the user with profile and derived billing figures. A
// missing profile row is tolerated: old accounts predate the profile table.
func (u *AccountUsecase) GetAccount(ctx context.Context, userID uuid.UUID) (*AccountView, error) {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile, err := u.profileRepo.GetByUserID(ctx, userID)
	if err != nil && !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	now := time.Now()
	return &AccountView{
		User:                 user,
		Profile:              profile,
		IsSubscriber:         user.IsSubscriber(now),
		ServiceFeePercentage: user.ServiceFeePercent(now),
	}, nil
}

// UpdateAccount patches user fields and, when present, profile fields
func (u *AccountUsecase) UpdateAccount(ctx context.Context, userID uuid.UUID, input *entities.UpdateUserInput) (*AccountView, error) {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.PhoneNumber != nil {
		user.PhoneNumber = *input.PhoneNumber
	}
	if input.Country != nil {
		user.Country = *input.Country
	}
	if input.Language != nil {
		user.Language = *input.Language
	}
	if input.WalletAddress != nil {
		user.WalletAddress = *input.WalletAddress
	}
	if input.WalletType != nil {
		user.WalletType = *input.WalletType
	}
	if input.EmailNotifications != nil {
		user.EmailNotifications = *input.EmailNotifications
	}
	if input.SMSNotifications != nil {
		user.SMSNotifications = *input.SMSNotifications
	}

	if err := u.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	if input.Profile != nil {
		profile, err := u.profileRepo.GetByUserID(ctx, userID)
		switch {
		case err == nil:
			input.Profile.Apply(profile)
			if err := u.profileRepo.Update(ctx, profile); err != nil {
				return nil, err
			}
		case errors.Is(err, domainerrors.ErrNotFound):
			profile = &entities.UserProfile{UserID: userID, Timezone: "UTC"}
			input.Profile.Apply(profile)
			if err := u.profileRepo.Create(ctx, profile); err != nil {
				return nil, err
			}
		default:
			return nil, err
		}
	}

	return u.GetAccount(ctx, userID)
}

// Dashboard aggregates account stats
func (u *AccountUsecase) Dashboard(ctx context.Context, userID uuid.UUID) (*DashboardStats, error) {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	totalContracts, err := u.contractRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	totalTransactions, err := u.transactionRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		User:                 user,
		TotalContracts:       totalContracts,
		TotalTransactions:    totalTransactions,
		KYCVerified:          user.IsKYCVerified,
		SubscriptionActive:   user.SubscriptionActive,
		ServiceFeePercentage: user.ServiceFeePercent(time.Now()),
	}, nil
}

// RequestKYC records a verification request. The provider integration is a
// stub: already-verified accounts are rejected, anything else is accepted
// and logged for manual processing.
func (u *AccountUsecase) RequestKYC(ctx context.Context, userID uuid.UUID) error {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.IsKYCVerified {
		return domainerrors.ErrAlreadyExists
	}

	logger.Info(ctx, "kyc verification requested",
		zap.String("user_id", userID.String()),
		zap.String("email", user.Email))
	return nil
}

// GetAdminStatus reports staff and role flags for the caller
func (u *AccountUsecase) GetAdminStatus(ctx context.Context, userID uuid.UUID) (*AdminStatus, error) {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	status := &AdminStatus{IsStaff: user.IsStaff}
	if user.Role != nil {
		status.RoleName = user.Role.Name
		status.Permissions = user.Role.Permissions
	}
	return status, nil
}
