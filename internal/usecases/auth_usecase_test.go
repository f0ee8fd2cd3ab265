package usecases_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	redisv9 "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"blockbustre.backend/internal/domain/entities"
	domainerrors "blockbustre.backend/internal/domain/errors"
	"blockbustre.backend/internal/usecases"
	"blockbustre.backend/pkg/crypto"
	"blockbustre.backend/pkg/jwt"
	redispkg "blockbustre.backend/pkg/redis"
)

type authFixture struct {
	userRepo    *MockUserRepository
	profileRepo *MockUserProfileRepository
	sessionRepo *MockSessionRepository
	attemptRepo *MockLoginAttemptRepository
	uow         *MockUnitOfWork
	mailer      *MockMailer
	uc          *usecases.AuthUsecase
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		userRepo:    new(MockUserRepository),
		profileRepo: new(MockUserProfileRepository),
		sessionRepo: new(MockSessionRepository),
		attemptRepo: new(MockLoginAttemptRepository),
		uow:         new(MockUnitOfWork),
		mailer:      new(MockMailer),
	}
	jwtSvc := jwt.NewJWTService("test-secret", 15*time.Minute, 24*time.Hour)
	f.uc = usecases.NewAuthUsecase(
		f.userRepo, f.profileRepo, f.sessionRepo, f.attemptRepo,
		f.uow, redispkg.NewTokenBlacklist(), f.mailer, jwtSvc,
		usecases.AuthOptions{
			PasswordPolicy:    crypto.PasswordPolicy{MinLength: 8},
			FrontendBaseURL:   "http://localhost:3000",
			ActionTokenExpiry: 24 * time.Hour,
		},
	)
	return f
}

func useMiniredis(t *testing.T) {
	t.Helper()
	srv, err := miniredis.Run()
	if err != nil {
		t.Skipf("skip: miniredis unavailable: %v", err)
	}
	t.Cleanup(srv.Close)

	redispkg.SetClient(redisv9.NewClient(&redisv9.Options{
		Addr: srv.Addr(),
	}))
}

func validRegisterInput() *entities.RegisterInput {
	return &entities.RegisterInput{
		Email:           "new@blockbustre.io",
		Password:        "Password123",
		PasswordConfirm: "Password123",
		FirstName:       "Ada",
		LastName:        "Lovelace",
	}
}

func TestAuthUsecase_Register_PasswordMismatch(t *testing.T) {
	f := newAuthFixture()

	input := validRegisterInput()
	input.PasswordConfirm = "Different123"

	_, err := f.uc.Register(context.Background(), input)
	assert.ErrorIs(t, err, domainerrors.ErrPasswordMismatch)
}

func TestAuthUsecase_Register_WeakPassword(t *testing.T) {
	f := newAuthFixture()

	input := validRegisterInput()
	input.Password = "allletters"
	input.PasswordConfirm = "allletters"

	_, err := f.uc.Register(context.Background(), input)
	assert.ErrorIs(t, err, domainerrors.ErrWeakPassword)
}

func TestAuthUsecase_Register_DuplicateEmail(t *testing.T) {
	f := newAuthFixture()

	f.userRepo.On("GetByEmail", mock.Anything, "new@blockbustre.io").
		Return(&entities.User{ID: uuid.New()}, nil).Once()

	_, err := f.uc.Register(context.Background(), validRegisterInput())
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyExists)
}

func TestAuthUsecase_Register_CreatesUserAndProfileAtomically(t *testing.T) {
	f := newAuthFixture()

	f.userRepo.On("GetByEmail", mock.Anything, "new@blockbustre.io").
		Return(nil, domainerrors.ErrNotFound).Once()
	f.uow.On("Do", mock.Anything, mock.Anything).Return(nil).Once()
	f.userRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *entities.User) bool {
		return u.Email == "new@blockbustre.io" && u.IsActive && !u.IsVerified &&
			u.SubscriptionType == entities.SubscriptionPayAsYouGo
	})).Return(nil).Once()
	f.profileRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
	f.mailer.On("SendVerificationEmail", mock.Anything, "new@blockbustre.io", "Ada Lovelace", mock.Anything).
		Return(nil).Once()

	user, err := f.uc.Register(context.Background(), validRegisterInput())
	require.NoError(t, err)
	assert.Equal(t, "en", user.Language)
	assert.True(t, crypto.CheckPassword("Password123", user.PasswordHash))

	f.userRepo.AssertExpectations(t)
	f.profileRepo.AssertExpectations(t)
	f.mailer.AssertExpectations(t)
}

func TestAuthUsecase_Register_MailFailureFailsRequest(t *testing.T) {
	f := newAuthFixture()

	f.userRepo.On("GetByEmail", mock.Anything, mock.Anything).
		Return(nil, domainerrors.ErrNotFound).Once()
	f.uow.On("Do", mock.Anything, mock.Anything).Return(nil).Once()
	f.userRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
	f.profileRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
	f.mailer.On("SendVerificationEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(domainerrors.ErrMailDelivery).Once()

	_, err := f.uc.Register(context.Background(), validRegisterInput())
	assert.ErrorIs(t, err, domainerrors.ErrMailDelivery)
}

func activeUser(t *testing.T, email, password string) *entities.User {
	t.Helper()
	hash, err := crypto.HashPassword(password)
	require.NoError(t, err)
	return &entities.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    "Grace",
		LastName:     "Hopper",
		IsActive:     true,
	}
}

func loginCtx() *entities.LoginContext {
	return &entities.LoginContext{
		IPAddress: "203.0.113.9",
		UserAgent: "go-test",
	}
}

func expectAttempt(f *authFixture, success bool, reason string) {
	f.attemptRepo.On("Create", mock.Anything, mock.MatchedBy(func(a *entities.LoginAttempt) bool {
		return a.Success == success && a.FailureReason == reason && a.IPAddress == "203.0.113.9"
	})).Return(nil).Once()
}

func TestAuthUsecase_Login_UnknownEmail(t *testing.T) {
	f := newAuthFixture()

	f.userRepo.On("GetByEmail", mock.Anything, "ghost@blockbustre.io").
		Return(nil, domainerrors.ErrNotFound).Once()
	expectAttempt(f, false, entities.FailureUnknownEmail)

	_, err := f.uc.Login(context.Background(), &entities.LoginInput{
		Email:    "ghost@blockbustre.io",
		Password: "whatever1",
	}, loginCtx())

	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
	f.attemptRepo.AssertExpectations(t)
	f.sessionRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestAuthUsecase_Login_BadPassword(t *testing.T) {
	f := newAuthFixture()
	user := activeUser(t, "grace@blockbustre.io", "Password123")

	f.userRepo.On("GetByEmail", mock.Anything, user.Email).Return(user, nil).Once()
	expectAttempt(f, false, entities.FailureBadPassword)

	_, err := f.uc.Login(context.Background(), &entities.LoginInput{
		Email:    user.Email,
		Password: "WrongPass1",
	}, loginCtx())

	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
	f.attemptRepo.AssertExpectations(t)
	f.sessionRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestAuthUsecase_Login_DisabledAccount(t *testing.T) {
	f := newAuthFixture()
	user := activeUser(t, "grace@blockbustre.io", "Password123")
	user.IsActive = false

	f.userRepo.On("GetByEmail", mock.Anything, user.Email).Return(user, nil).Once()
	expectAttempt(f, false, entities.FailureAccountDisabled)

	_, err := f.uc.Login(context.Background(), &entities.LoginInput{
		Email:    user.Email,
		Password: "Password123",
	}, loginCtx())

	// The response is the same generic error as for a bad password.
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
	f.attemptRepo.AssertExpectations(t)
	f.sessionRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestAuthUsecase_Login_SuccessUpsertsSession(t *testing.T) {
	f := newAuthFixture()
	user := activeUser(t, "grace@blockbustre.io", "Password123")

	f.userRepo.On("GetByEmail", mock.Anything, user.Email).Return(user, nil).Once()
	expectAttempt(f, true, "")
	f.sessionRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(s *entities.UserSession) bool {
		return s.UserID == user.ID && s.SessionKey == "existing-session-key" && s.IsActive
	})).Return(nil).Once()

	lc := loginCtx()
	lc.SessionKey = "existing-session-key"

	resp, err := f.uc.Login(context.Background(), &entities.LoginInput{
		Email:    user.Email,
		Password: "Password123",
	}, lc)

	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "existing-session-key", resp.SessionKey)
	f.sessionRepo.AssertExpectations(t)
	f.attemptRepo.AssertExpectations(t)
}

func TestAuthUsecase_Login_GeneratesSessionKeyWhenAbsent(t *testing.T) {
	f := newAuthFixture()
	user := activeUser(t, "grace@blockbustre.io", "Password123")

	f.userRepo.On("GetByEmail", mock.Anything, user.Email).Return(user, nil).Once()
	expectAttempt(f, true, "")
	f.sessionRepo.On("Upsert", mock.Anything, mock.Anything).Return(nil).Once()

	resp, err := f.uc.Login(context.Background(), &entities.LoginInput{
		Email:    user.Email,
		Password: "Password123",
	}, loginCtx())

	require.NoError(t, err)
	assert.Len(t, resp.SessionKey, 40)
}

func TestAuthUsecase_RefreshToken_RoundTrip(t *testing.T) {
	useMiniredis(t)
	f := newAuthFixture()
	user := activeUser(t, "grace@blockbustre.io", "Password123")

	jwtSvc := jwt.NewJWTService("test-secret", 15*time.Minute, 24*time.Hour)
	pair, err := jwtSvc.GenerateTokenPair(user.ID, user.Email, "")
	require.NoError(t, err)

	f.userRepo.On("GetByID", mock.Anything, user.ID).Return(user, nil).Once()

	next, err := f.uc.RefreshToken(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, next.AccessToken)
	assert.NotEmpty(t, next.RefreshToken)
}

func TestAuthUsecase_RefreshToken_RejectsAccessToken(t *testing.T) {
	useMiniredis(t)
	f := newAuthFixture()

	jwtSvc := jwt.NewJWTService("test-secret", 15*time.Minute, 24*time.Hour)
	pair, err := jwtSvc.GenerateTokenPair(uuid.New(), "a@b.io", "")
	require.NoError(t, err)

	_, err = f.uc.RefreshToken(context.Background(), pair.AccessToken)
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}

func TestAuthUsecase_Logout_BlacklistsRefreshToken(t *testing.T) {
	useMiniredis(t)
	f := newAuthFixture()
	user := activeUser(t, "grace@blockbustre.io", "Password123")

	jwtSvc := jwt.NewJWTService("test-secret", 15*time.Minute, 24*time.Hour)
	pair, err := jwtSvc.GenerateTokenPair(user.ID, user.Email, "")
	require.NoError(t, err)

	f.sessionRepo.On("Deactivate", mock.Anything, "sess-key").Return(nil).Once()

	require.NoError(t, f.uc.Logout(context.Background(), pair.RefreshToken, "sess-key"))

	// The blacklisted token is single use: the refresh now fails.
	_, err = f.uc.RefreshToken(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, domainerrors.ErrTokenBlacklisted)
	f.sessionRepo.AssertExpectations(t)
}

func TestAuthUsecase_Logout_InvalidTokenIsIdempotent(t *testing.T) {
	useMiniredis(t)
	f := newAuthFixture()

	f.sessionRepo.On("Deactivate", mock.Anything, "sess-key").Return(nil).Once()

	assert.NoError(t, f.uc.Logout(context.Background(), "not-a-token", "sess-key"))
	assert.NoError(t, f.uc.Logout(context.Background(), "not-a-token", ""))
}

func TestAuthUsecase_VerifyEmail(t *testing.T) {
	f := newAuthFixture()
	userID := uuid.New()

	jwtSvc := jwt.NewJWTService("test-secret", 15*time.Minute, 24*time.Hour)
	token, err := jwtSvc.GenerateActionToken(userID, jwt.PurposeVerifyEmail, time.Hour)
	require.NoError(t, err)

	f.userRepo.On("MarkVerified", mock.Anything, userID).Return(nil).Once()

	require.NoError(t, f.uc.VerifyEmail(context.Background(), token))
	f.userRepo.AssertExpectations(t)
}

func TestAuthUsecase_VerifyEmail_RejectsResetToken(t *testing.T) {
	f := newAuthFixture()

	jwtSvc := jwt.NewJWTService("test-secret", 15*time.Minute, 24*time.Hour)
	token, err := jwtSvc.GenerateActionToken(uuid.New(), jwt.PurposePasswordReset, time.Hour)
	require.NoError(t, err)

	err = f.uc.VerifyEmail(context.Background(), token)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
	f.userRepo.AssertNotCalled(t, "MarkVerified", mock.Anything, mock.Anything)
}

func TestAuthUsecase_ChangePassword(t *testing.T) {
	f := newAuthFixture()
	user := activeUser(t, "grace@blockbustre.io", "OldPass123")

	f.userRepo.On("GetByID", mock.Anything, user.ID).Return(user, nil)
	f.userRepo.On("UpdatePassword", mock.Anything, user.ID, mock.Anything).Return(nil).Once()

	err := f.uc.ChangePassword(context.Background(), user.ID, &entities.ChangePasswordInput{
		OldPassword:        "OldPass123",
		NewPassword:        "NewPass456",
		NewPasswordConfirm: "NewPass456",
	})
	require.NoError(t, err)

	err = f.uc.ChangePassword(context.Background(), user.ID, &entities.ChangePasswordInput{
		OldPassword:        "WrongOld1",
		NewPassword:        "NewPass456",
		NewPasswordConfirm: "NewPass456",
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestAuthUsecase_RequestPasswordReset_NeverLeaksExistence(t *testing.T) {
	f := newAuthFixture()

	f.userRepo.On("GetByEmail", mock.Anything, "ghost@blockbustre.io").
		Return(nil, domainerrors.ErrNotFound).Once()

	assert.NoError(t, f.uc.RequestPasswordReset(context.Background(), "ghost@blockbustre.io"))
	f.mailer.AssertNotCalled(t, "SendPasswordResetEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthUsecase_RequestPasswordReset_SkipsDisabledAccount(t *testing.T) {
	f := newAuthFixture()
	user := activeUser(t, "grace@blockbustre.io", "Password123")
	user.IsActive = false

	f.userRepo.On("GetByEmail", mock.Anything, user.Email).Return(user, nil).Once()

	assert.NoError(t, f.uc.RequestPasswordReset(context.Background(), user.Email))
	f.mailer.AssertNotCalled(t, "SendPasswordResetEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthUsecase_PasswordResetRoundTrip(t *testing.T) {
	f := newAuthFixture()
	user := activeUser(t, "grace@blockbustre.io", "Password123")

	var resetLink string
	f.userRepo.On("GetByEmail", mock.Anything, user.Email).Return(user, nil).Once()
	f.mailer.On("SendPasswordResetEmail", mock.Anything, user.Email, "Grace Hopper", mock.Anything).
		Run(func(args mock.Arguments) { resetLink = args.String(3) }).
		Return(nil).Once()

	require.NoError(t, f.uc.RequestPasswordReset(context.Background(), user.Email))
	require.Contains(t, resetLink, "token=")
	token := resetLink[len("http://localhost:3000/reset-password?token="):]

	f.userRepo.On("UpdatePassword", mock.Anything, user.ID, mock.Anything).Return(nil).Once()

	err := f.uc.ConfirmPasswordReset(context.Background(), &entities.ResetPasswordInput{
		Token:              token,
		NewPassword:        "Fresh12345",
		NewPasswordConfirm: "Fresh12345",
	})
	require.NoError(t, err)
	f.userRepo.AssertExpectations(t)
}
