package usecases

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"blockbustre.backend/internal/domain/entities"
	domainerrors "blockbustre.backend/internal/domain/errors"
	"blockbustre.backend/internal/domain/repositories"
)

// BillingUsecase handles payment instruments and subscription agreements
type BillingUsecase struct {
	paymentMethodRepo repositories.PaymentMethodRepository
	subscriptionRepo  repositories.SubscriptionRepository
	userRepo          repositories.UserRepository
}

// NewBillingUsecase creates a new billing usecase
func NewBillingUsecase(
	paymentMethodRepo repositories.PaymentMethodRepository,
	subscriptionRepo repositories.SubscriptionRepository,
	userRepo repositories.UserRepository,
) *BillingUsecase {
	return &BillingUsecase{
		paymentMethodRepo: paymentMethodRepo,
		subscriptionRepo:  subscriptionRepo,
		userRepo:          userRepo,
	}
}

// AddPaymentMethod stores an instrument. Card instruments need a Stripe
// reference, wallet instruments an address.
func (u *BillingUsecase) AddPaymentMethod(ctx context.Context, userID uuid.UUID, input *entities.CreatePaymentMethodInput) (*entities.PaymentMethod, error) {
	switch input.Type {
	case entities.PaymentMethodStripeCard:
		if input.StripePaymentMethodID == "" {
			return nil, domainerrors.NewError("stripePaymentMethodId is required for card instruments", domainerrors.ErrInvalidInput)
		}
	case entities.PaymentMethodCryptoWallet:
		if input.WalletAddress == "" {
			return nil, domainerrors.NewError("walletAddress is required for wallet instruments", domainerrors.ErrInvalidInput)
		}
	default:
		return nil, domainerrors.ErrInvalidInput
	}

	pm := &entities.PaymentMethod{
		UserID:   userID,
		Type:     input.Type,
		IsActive: true,

		StripePaymentMethodID: input.StripePaymentMethodID,
		CardLastFour:          input.CardLastFour,
		CardBrand:             input.CardBrand,

		WalletAddress: input.WalletAddress,
		WalletType:    input.WalletType,
	}
	if input.CardExpMonth > 0 {
		pm.CardExpMonth = null.IntFrom(input.CardExpMonth)
	}
	if input.CardExpYear > 0 {
		pm.CardExpYear = null.IntFrom(input.CardExpYear)
	}

	if err := u.paymentMethodRepo.Create(ctx, pm); err != nil {
		return nil, err
	}

	if input.IsDefault {
		if err := u.paymentMethodRepo.SetDefault(ctx, userID, pm.ID); err != nil {
			return nil, err
		}
		pm.IsDefault = true
	}
	return pm, nil
}

// ListPaymentMethods lists the caller's active instruments
func (u *BillingUsecase) ListPaymentMethods(ctx context.Context, userID uuid.UUID) ([]*entities.PaymentMethod, error) {
	return u.paymentMethodRepo.ListByUser(ctx, userID)
}

// SetDefaultPaymentMethod makes one instrument the default and clears the
// flag on the caller's others
func (u *BillingUsecase) SetDefaultPaymentMethod(ctx context.Context, userID, id uuid.UUID) error {
	pm, err := u.paymentMethodRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if pm.UserID != userID {
		return domainerrors.ErrNotFound
	}
	return u.paymentMethodRepo.SetDefault(ctx, userID, id)
}

// DeactivatePaymentMethod retires an instrument
func (u *BillingUsecase) DeactivatePaymentMethod(ctx context.Context, userID, id uuid.UUID) error {
	pm, err := u.paymentMethodRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if pm.UserID != userID {
		return domainerrors.ErrNotFound
	}
	return u.paymentMethodRepo.Deactivate(ctx, id)
}

// CreateSubscription opens a billing agreement and activates the user's
// subscription window. One active agreement per user.
func (u *BillingUsecase) CreateSubscription(ctx context.Context, userID uuid.UUID, input *entities.CreateSubscriptionInput) (*entities.Subscription, error) {
	if _, err := u.subscriptionRepo.GetActiveByUser(ctx, userID); err == nil {
		return nil, domainerrors.NewError("an active subscription already exists", domainerrors.ErrAlreadyExists)
	} else if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	interval := input.Interval
	if interval == "" {
		interval = "month"
	}
	periodDays := input.PeriodDays
	if periodDays <= 0 {
		periodDays = 30
		if interval == "year" {
			periodDays = 365
		}
	}

	currency := input.Currency
	if currency == "" {
		currency = "USD"
	}

	now := time.Now()
	sub := &entities.Subscription{
		UserID:               userID,
		StripeSubscriptionID: input.StripeSubscriptionID,
		Status:               entities.SubStatusActive,
		PriceID:              input.PriceID,
		Amount:               input.Amount,
		Currency:             currency,
		Interval:             interval,
		CurrentPeriodStart:   now,
		CurrentPeriodEnd:     now.AddDate(0, 0, periodDays),
	}

	if input.PaymentMethodID != "" {
		pmID, err := uuid.Parse(input.PaymentMethodID)
		if err != nil {
			return nil, domainerrors.ErrInvalidInput
		}
		pm, err := u.paymentMethodRepo.GetByID(ctx, pmID)
		if err != nil {
			return nil, err
		}
		if pm.UserID != userID {
			return nil, domainerrors.ErrNotFound
		}
		sub.PaymentMethodID = uuid.NullUUID{UUID: pmID, Valid: true}
	}

	if err := u.subscriptionRepo.Create(ctx, sub); err != nil {
		return nil, err
	}

	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.SubscriptionType = entities.SubscriptionRecurring
	user.SubscriptionActive = true
	user.SubscriptionStartDate = null.TimeFrom(sub.CurrentPeriodStart)
	user.SubscriptionEndDate = null.TimeFrom(sub.CurrentPeriodEnd)
	if err := u.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return sub, nil
}

// GetCurrentSubscription returns the caller's active agreement
func (u *BillingUsecase) GetCurrentSubscription(ctx context.Context, userID uuid.UUID) (*entities.Subscription, error) {
	return u.subscriptionRepo.GetActiveByUser(ctx, userID)
}

// ListSubscriptions returns the caller's agreement history
func (u *BillingUsecase) ListSubscriptions(ctx context.Context, userID uuid.UUID) ([]*entities.Subscription, error) {
	return u.subscriptionRepo.ListByUser(ctx, userID)
}

// CancelSubscription cancels an agreement. By default the agreement runs out
// its paid period; immediate cancellation closes it now and clears the user's
// subscription flag.
func (u *BillingUsecase) CancelSubscription(ctx context.Context, userID, id uuid.UUID, immediate bool) (*entities.Subscription, error) {
	sub, err := u.subscriptionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub.UserID != userID {
		return nil, domainerrors.ErrNotFound
	}
	if !sub.IsActive() {
		return nil, domainerrors.ErrInvalidTransition
	}

	now := time.Now()
	if immediate {
		sub.Status = entities.SubStatusCancelled
		sub.CancelledAt = null.TimeFrom(now)
		if err := u.subscriptionRepo.Update(ctx, sub); err != nil {
			return nil, err
		}
		if err := u.userRepo.SetSubscriptionState(ctx, userID, false); err != nil {
			return nil, err
		}
		return sub, nil
	}

	sub.CancelAtPeriodEnd = true
	if err := u.subscriptionRepo.Update(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}
