package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"blockbustre.backend/internal/domain/entities"
	domainerrors "blockbustre.backend/internal/domain/errors"
	"blockbustre.backend/internal/interfaces/http/middleware"
	"blockbustre.backend/pkg/jwt"
)

type authServiceStub struct {
	registerFn        func(ctx context.Context, input *entities.RegisterInput) (*entities.User, error)
	loginFn           func(ctx context.Context, input *entities.LoginInput, lc *entities.LoginContext) (*entities.AuthResponse, error)
	refreshTokenFn    func(ctx context.Context, refreshToken string) (*jwt.TokenPair, error)
	logoutFn          func(ctx context.Context, refreshToken, sessionKey string) error
	verifyEmailFn     func(ctx context.Context, token string) error
	changePasswordFn  func(ctx context.Context, userID uuid.UUID, input *entities.ChangePasswordInput) error
	requestResetFn    func(ctx context.Context, email string) error
	confirmResetFn    func(ctx context.Context, input *entities.ResetPasswordInput) error
}

func (s authServiceStub) Register(ctx context.Context, input *entities.RegisterInput) (*entities.User, error) {
	return s.registerFn(ctx, input)
}
func (s authServiceStub) Login(ctx context.Context, input *entities.LoginInput, lc *entities.LoginContext) (*entities.AuthResponse, error) {
	return s.loginFn(ctx, input, lc)
}
func (s authServiceStub) RefreshToken(ctx context.Context, refreshToken string) (*jwt.TokenPair, error) {
	return s.refreshTokenFn(ctx, refreshToken)
}
func (s authServiceStub) Logout(ctx context.Context, refreshToken, sessionKey string) error {
	return s.logoutFn(ctx, refreshToken, sessionKey)
}
func (s authServiceStub) VerifyEmail(ctx context.Context, token string) error {
	return s.verifyEmailFn(ctx, token)
}
func (s authServiceStub) ChangePassword(ctx context.Context, userID uuid.UUID, input *entities.ChangePasswordInput) error {
	return s.changePasswordFn(ctx, userID, input)
}
func (s authServiceStub) RequestPasswordReset(ctx context.Context, email string) error {
	return s.requestResetFn(ctx, email)
}
func (s authServiceStub) ConfirmPasswordReset(ctx context.Context, input *entities.ResetPasswordInput) error {
	return s.confirmResetFn(ctx, input)
}

func jsonBody(t *testing.T, v interface{}) *bytes.Buffer {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return bytes.NewBuffer(raw)
}

func TestAuthHandler_Register(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userID := uuid.New()

	h := NewAuthHandler(authServiceStub{
		registerFn: func(_ context.Context, input *entities.RegisterInput) (*entities.User, error) {
			if input.Email == "exists@x.com" {
				return nil, domainerrors.ErrAlreadyExists
			}
			return &entities.User{ID: userID, Email: input.Email, FirstName: input.FirstName}, nil
		},
	})

	r := gin.New()
	r.POST("/register", h.Register)

	body := jsonBody(t, gin.H{
		"email":           "new@x.com",
		"password":        "Password1",
		"passwordConfirm": "Password1",
		"firstName":       "Ada",
		"lastName":        "Lovelace",
	})
	req := httptest.NewRequest(http.MethodPost, "/register", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	// duplicate email maps to conflict
	body = jsonBody(t, gin.H{
		"email":           "exists@x.com",
		"password":        "Password1",
		"passwordConfirm": "Password1",
		"firstName":       "Ada",
		"lastName":        "Lovelace",
	})
	req = httptest.NewRequest(http.MethodPost, "/register", body)
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}

	// missing required fields
	req = httptest.NewRequest(http.MethodPost, "/register", bytes.NewBufferString(`{"email":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandler_LoginForwardsClientContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var captured *entities.LoginContext

	h := NewAuthHandler(authServiceStub{
		loginFn: func(_ context.Context, input *entities.LoginInput, lc *entities.LoginContext) (*entities.AuthResponse, error) {
			if input.Email == "bad@x.com" {
				return nil, domainerrors.ErrInvalidCredentials
			}
			captured = lc
			return &entities.AuthResponse{
				AccessToken:  "access-token",
				RefreshToken: "refresh-token",
				SessionKey:   lc.SessionKey,
				User:         &entities.User{Email: input.Email},
			}, nil
		},
	})

	r := gin.New()
	r.POST("/login", h.Login)

	body := jsonBody(t, gin.H{"email": "user@x.com", "password": "Password1"})
	req := httptest.NewRequest(http.MethodPost, "/login", body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Session-ID", "session-abc")
	req.Header.Set("User-Agent", "test-agent")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured == nil || captured.SessionKey != "session-abc" || captured.UserAgent != "test-agent" {
		t.Fatalf("login context not forwarded: %+v", captured)
	}

	// bad credentials map to 401
	body = jsonBody(t, gin.H{"email": "bad@x.com", "password": "wrong"})
	req = httptest.NewRequest(http.MethodPost, "/login", body)
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthHandler_RefreshToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := NewAuthHandler(authServiceStub{
		refreshTokenFn: func(_ context.Context, refreshToken string) (*jwt.TokenPair, error) {
			if refreshToken == "revoked" {
				return nil, domainerrors.ErrTokenBlacklisted
			}
			return &jwt.TokenPair{AccessToken: "new-access", RefreshToken: "new-refresh"}, nil
		},
	})

	r := gin.New()
	r.POST("/refresh", h.RefreshToken)

	req := httptest.NewRequest(http.MethodPost, "/refresh", jsonBody(t, gin.H{"refreshToken": "ok"}))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/refresh", jsonBody(t, gin.H{"refreshToken": "revoked"}))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for revoked token, got %d", rec.Code)
	}

	// missing body
	req = httptest.NewRequest(http.MethodPost, "/refresh", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandler_LogoutPassesSessionHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var gotToken, gotSession string

	h := NewAuthHandler(authServiceStub{
		logoutFn: func(_ context.Context, refreshToken, sessionKey string) error {
			gotToken = refreshToken
			gotSession = sessionKey
			return nil
		},
	})

	r := gin.New()
	r.POST("/logout", h.Logout)

	req := httptest.NewRequest(http.MethodPost, "/logout", jsonBody(t, gin.H{"refreshToken": "refresh-1"}))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Session-ID", "session-1")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotToken != "refresh-1" || gotSession != "session-1" {
		t.Fatalf("logout args not forwarded: token=%s session=%s", gotToken, gotSession)
	}
}

func TestAuthHandler_VerifyEmail(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := NewAuthHandler(authServiceStub{
		verifyEmailFn: func(_ context.Context, token string) error {
			if token == "stale" {
				return domainerrors.ErrInvalidInput
			}
			return nil
		},
	})

	r := gin.New()
	r.POST("/verify-email", h.VerifyEmail)

	req := httptest.NewRequest(http.MethodPost, "/verify-email", jsonBody(t, gin.H{"token": "good"}))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/verify-email", jsonBody(t, gin.H{"token": "stale"}))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for stale token, got %d", rec.Code)
	}
}

func TestAuthHandler_ChangePasswordRequiresAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userID := uuid.New()
	called := false

	h := NewAuthHandler(authServiceStub{
		changePasswordFn: func(_ context.Context, id uuid.UUID, _ *entities.ChangePasswordInput) error {
			if id != userID {
				t.Fatalf("unexpected user id %s", id)
			}
			called = true
			return nil
		},
	})

	r := gin.New()
	r.POST("/anon", h.ChangePassword)
	r.POST("/authed", func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
	}, h.ChangePassword)

	body := gin.H{"oldPassword": "old", "newPassword": "NewPassword1", "newPasswordConfirm": "NewPassword1"}

	req := httptest.NewRequest(http.MethodPost, "/anon", jsonBody(t, body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without auth context, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/authed", jsonBody(t, body))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !called {
		t.Fatal("expected usecase to be called")
	}
}

func TestAuthHandler_PasswordReset(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := NewAuthHandler(authServiceStub{
		requestResetFn: func(_ context.Context, email string) error { return nil },
		confirmResetFn: func(_ context.Context, input *entities.ResetPasswordInput) error {
			if input.Token == "stale" {
				return domainerrors.ErrInvalidInput
			}
			return nil
		},
	})

	r := gin.New()
	r.POST("/reset", h.RequestPasswordReset)
	r.POST("/reset/confirm", h.ConfirmPasswordReset)

	req := httptest.NewRequest(http.MethodPost, "/reset", jsonBody(t, gin.H{"email": "anyone@x.com"}))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	confirm := gin.H{"token": "good", "newPassword": "NewPassword1", "newPasswordConfirm": "NewPassword1"}
	req = httptest.NewRequest(http.MethodPost, "/reset/confirm", jsonBody(t, confirm))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	confirm["token"] = "stale"
	req = httptest.NewRequest(http.MethodPost, "/reset/confirm", jsonBody(t, confirm))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for stale token, got %d", rec.Code)
	}
}
