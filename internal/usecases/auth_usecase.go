package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"blockbustre.backend/internal/domain/entities"
	domainerrors "blockbustre.backend/internal/domain/errors"
	"blockbustre.backend/internal/domain/repositories"
	"blockbustre.backend/internal/infrastructure/mail"
	"blockbustre.backend/pkg/crypto"
	"blockbustre.backend/pkg/jwt"
	"blockbustre.backend/pkg/logger"
	"blockbustre.backend/pkg/metrics"
	redispkg "blockbustre.backend/pkg/redis"
)

// AuthOptions carries the tunable pieces of the auth flow
type AuthOptions struct {
	PasswordPolicy    crypto.PasswordPolicy
	FrontendBaseURL   string
	ActionTokenExpiry time.Duration
}

// AuthUsecase handles registration, login and the token lifecycle
type AuthUsecase struct {
	userRepo    repositories.UserRepository
	profileRepo repositories.UserProfileRepository
	sessionRepo repositories.SessionRepository
	attemptRepo repositories.LoginAttemptRepository
	uow         repositories.UnitOfWork
	blacklist   *redispkg.TokenBlacklist
	mailer      mail.Mailer
	jwtService  *jwt.JWTService
	opts        AuthOptions
}

// NewAuthUsecase creates a new auth usecase
func NewAuthUsecase(
	userRepo repositories.UserRepository,
	profileRepo repositories.UserProfileRepository,
	sessionRepo repositories.SessionRepository,
	attemptRepo repositories.LoginAttemptRepository,
	uow repositories.UnitOfWork,
	blacklist *redispkg.TokenBlacklist,
	mailer mail.Mailer,
	jwtService *jwt.JWTService,
	opts AuthOptions,
) *AuthUsecase {
	if opts.ActionTokenExpiry <= 0 {
		opts.ActionTokenExpiry = 24 * time.Hour
	}
	return &AuthUsecase{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		sessionRepo: sessionRepo,
		attemptRepo: attemptRepo,
		uow:         uow,
		blacklist:   blacklist,
		mailer:      mailer,
		jwtService:  jwtService,
		opts:        opts,
	}
}

// Register creates an unverified account with its profile in one transaction
// and sends the verification email. A failed mail send rolls the whole
// registration back.
func (u *AuthUsecase) Register(ctx context.Context, input *entities.RegisterInput) (*entities.User, error) {
	if input.Password != input.PasswordConfirm {
		return nil, domainerrors.ErrPasswordMismatch
	}
	if err := u.opts.PasswordPolicy.Validate(input.Password); err != nil {
		return nil, domainerrors.NewError(err.Error(), domainerrors.ErrWeakPassword)
	}

	_, err := u.userRepo.GetByEmail(ctx, input.Email)
	if err == nil {
		return nil, domainerrors.ErrAlreadyExists
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	passwordHash, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	language := input.Language
	if language == "" {
		language = "en"
	}

	user := &entities.User{
		Email:              input.Email,
		PasswordHash:       passwordHash,
		FirstName:          input.FirstName,
		LastName:           input.LastName,
		PhoneNumber:        input.PhoneNumber,
		Country:            input.Country,
		Language:           language,
		SubscriptionType:   entities.SubscriptionPayAsYouGo,
		IsActive:           true,
		EmailNotifications: true,
	}

	err = u.uow.Do(ctx, func(ctx context.Context) error {
		if err := u.userRepo.Create(ctx, user); err != nil {
			return err
		}

		profile := &entities.UserProfile{
			UserID:   user.ID,
			Timezone: "UTC",
		}
		input.Profile.Apply(profile)
		if err := u.profileRepo.Create(ctx, profile); err != nil {
			return err
		}

		token, err := u.jwtService.GenerateActionToken(user.ID, jwt.PurposeVerifyEmail, u.opts.ActionTokenExpiry)
		if err != nil {
			return err
		}

		link := fmt.Sprintf("%s/verify-email?token=%s", u.opts.FrontendBaseURL, token)
		return u.mailer.SendVerificationEmail(ctx, user.Email, user.FullName(), link)
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// Login verifies credentials and issues a token pair. Every call appends
// exactly one attempt row; the caller-facing error never reveals which check
// rejected. On success the client session row is upserted by session key.
func (u *AuthUsecase) Login(ctx context.Context, input *entities.LoginInput, lc *entities.LoginContext) (*entities.AuthResponse, error) {
	attempt := &entities.LoginAttempt{
		Email:     input.Email,
		IPAddress: lc.IPAddress,
		UserAgent: lc.UserAgent,
	}

	user, err := u.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			attempt.FailureReason = entities.FailureUnknownEmail
			u.recordAttempt(ctx, attempt)
			return nil, domainerrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !crypto.CheckPassword(input.Password, user.PasswordHash) {
		attempt.FailureReason = entities.FailureBadPassword
		u.recordAttempt(ctx, attempt)
		return nil, domainerrors.ErrInvalidCredentials
	}

	if !user.IsActive {
		attempt.FailureReason = entities.FailureAccountDisabled
		u.recordAttempt(ctx, attempt)
		return nil, domainerrors.ErrInvalidCredentials
	}

	attempt.Success = true
	u.recordAttempt(ctx, attempt)

	sessionKey := lc.SessionKey
	if sessionKey == "" {
		sessionKey, err = crypto.GenerateSessionKey()
		if err != nil {
			return nil, err
		}
	}

	session := &entities.UserSession{
		UserID:       user.ID,
		SessionKey:   sessionKey,
		IPAddress:    lc.IPAddress,
		UserAgent:    lc.UserAgent,
		IsActive:     true,
		LastActivity: time.Now(),
	}
	if err := u.sessionRepo.Upsert(ctx, session); err != nil {
		return nil, err
	}

	tokenPair, err := u.jwtService.GenerateTokenPair(user.ID, user.Email, roleName(user))
	if err != nil {
		return nil, err
	}

	return &entities.AuthResponse{
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		SessionKey:   sessionKey,
		User:         user,
	}, nil
}

// recordAttempt appends the audit row. A failure to write the audit log is
// logged but never turns a successful login into an error.
func (u *AuthUsecase) recordAttempt(ctx context.Context, attempt *entities.LoginAttempt) {
	outcome := "failure"
	if attempt.Success {
		outcome = "success"
	}
	metrics.LoginAttemptsTotal.WithLabelValues(outcome).Inc()

	if err := u.attemptRepo.Create(ctx, attempt); err != nil {
		logger.Error(ctx, "failed to record login attempt", zap.Error(err))
	}
}

// RefreshToken exchanges a valid, non-blacklisted refresh token for a new pair
func (u *AuthUsecase) RefreshToken(ctx context.Context, refreshToken string) (*jwt.TokenPair, error) {
	claims, err := u.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, domainerrors.ErrUnauthorized
	}

	blacklisted, err := u.blacklist.Contains(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if blacklisted {
		return nil, domainerrors.ErrTokenBlacklisted
	}

	user, err := u.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, domainerrors.ErrUnauthorized
	}
	if !user.IsActive {
		return nil, domainerrors.ErrUnauthorized
	}

	return u.jwtService.GenerateTokenPair(user.ID, user.Email, roleName(user))
}

// Logout blacklists the refresh token for its remaining lifetime and
// deactivates the caller's session. Both halves are idempotent: an already
// invalid token or an unknown session key is not an error.
func (u *AuthUsecase) Logout(ctx context.Context, refreshToken, sessionKey string) error {
	if claims, err := u.jwtService.ValidateRefreshToken(refreshToken); err == nil {
		ttl := time.Until(claims.ExpiresAt.Time)
		if ttl > 0 {
			if err := u.blacklist.Add(ctx, claims.ID, ttl); err != nil {
				return err
			}
		}
	}

	if sessionKey != "" {
		return u.sessionRepo.Deactivate(ctx, sessionKey)
	}
	return nil
}

// VerifyEmail flips the verified flag for the account named in a valid
// verification token
func (u *AuthUsecase) VerifyEmail(ctx context.Context, token string) error {
	claims, err := u.jwtService.ValidateActionToken(token, jwt.PurposeVerifyEmail)
	if err != nil {
		return domainerrors.ErrInvalidInput
	}
	return u.userRepo.MarkVerified(ctx, claims.UserID)
}

// ChangePassword replaces the password after verifying the old one
func (u *AuthUsecase) ChangePassword(ctx context.Context, userID uuid.UUID, input *entities.ChangePasswordInput) error {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if !crypto.CheckPassword(input.OldPassword, user.PasswordHash) {
		return domainerrors.ErrInvalidCredentials
	}
	if input.NewPassword != input.NewPasswordConfirm {
		return domainerrors.ErrPasswordMismatch
	}
	if err := u.opts.PasswordPolicy.Validate(input.NewPassword); err != nil {
		return domainerrors.NewError(err.Error(), domainerrors.ErrWeakPassword)
	}

	passwordHash, err := crypto.HashPassword(input.NewPassword)
	if err != nil {
		return err
	}
	return u.userRepo.UpdatePassword(ctx, userID, passwordHash)
}

// RequestPasswordReset emails a reset link when the account exists and is
// active. The return value never reveals whether it does: unknown or disabled
// accounts are a silent no-op, only infrastructure failures surface.
func (u *AuthUsecase) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := u.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil
		}
		return err
	}
	if !user.IsActive {
		return nil
	}

	token, err := u.jwtService.GenerateActionToken(user.ID, jwt.PurposePasswordReset, u.opts.ActionTokenExpiry)
	if err != nil {
		return err
	}

	link := fmt.Sprintf("%s/reset-password?token=%s", u.opts.FrontendBaseURL, token)
	return u.mailer.SendPasswordResetEmail(ctx, user.Email, user.FullName(), link)
}

// ConfirmPasswordReset replaces the password named in a valid reset token
func (u *AuthUsecase) ConfirmPasswordReset(ctx context.Context, input *entities.ResetPasswordInput) error {
	claims, err := u.jwtService.ValidateActionToken(input.Token, jwt.PurposePasswordReset)
	if err != nil {
		return domainerrors.ErrInvalidInput
	}

	if input.NewPassword != input.NewPasswordConfirm {
		return domainerrors.ErrPasswordMismatch
	}
	if err := u.opts.PasswordPolicy.Validate(input.NewPassword); err != nil {
		return domainerrors.NewError(err.Error(), domainerrors.ErrWeakPassword)
	}

	passwordHash, err := crypto.HashPassword(input.NewPassword)
	if err != nil {
		return err
	}
	return u.userRepo.UpdatePassword(ctx, claims.UserID, passwordHash)
}

// GetUserByID gets a user by ID
func (u *AuthUsecase) GetUserByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	return u.userRepo.GetByID(ctx, id)
}

func roleName(user *entities.User) string {
	if user.Role != nil {
		return user.Role.Name
	}
	return ""
}
