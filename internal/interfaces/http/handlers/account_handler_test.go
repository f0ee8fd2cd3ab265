package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"blockbustre.backend/internal/domain/entities"
	domainerrors "blockbustre.backend/internal/domain/errors"
	"blockbustre.backend/internal/usecases"
)

type accountServiceStub struct {
	getFn       func(ctx context.Context, userID uuid.UUID) (*usecases.AccountView, error)
	updateFn    func(ctx context.Context, userID uuid.UUID, input *entities.UpdateUserInput) (*usecases.AccountView, error)
	dashboardFn func(ctx context.Context, userID uuid.UUID) (*usecases.DashboardStats, error)
	kycFn       func(ctx context.Context, userID uuid.UUID) error
	adminFn     func(ctx context.Context, userID uuid.UUID) (*usecases.AdminStatus, error)
}

func (s accountServiceStub) GetAccount(ctx context.Context, userID uuid.UUID) (*usecases.AccountView, error) {
	return s.getFn(ctx, userID)
}

func (s accountServiceStub) UpdateAccount(ctx context.Context, userID uuid.UUID, input *entities.UpdateUserInput) (*usecases.AccountView, error) {
	return s.updateFn(ctx, userID, input)
}

func (s accountServiceStub) Dashboard(ctx context.Context, userID uuid.UUID) (*usecases.DashboardStats, error) {
	return s.dashboardFn(ctx, userID)
}

func (s accountServiceStub) RequestKYC(ctx context.Context, userID uuid.UUID) error {
	return s.kycFn(ctx, userID)
}

func (s accountServiceStub) GetAdminStatus(ctx context.Context, userID uuid.UUID) (*usecases.AdminStatus, error) {
	return s.adminFn(ctx, userID)
}

func TestAccountHandler_MeRequiresAuth(t *testing.T) {
	userID := uuid.New()

	stub := accountServiceStub{
		getFn: func(_ context.Context, id uuid.UUID) (*usecases.AccountView, error) {
			return &usecases.AccountView{
				User:                 &entities.User{ID: id, Email: "owner@example.com"},
				IsSubscriber:         true,
				ServiceFeePercentage: 10,
			}, nil
		},
	}
	h := NewAccountHandler(stub)

	gin.SetMode(gin.TestMode)
	anon := gin.New()
	anon.GET("/me", h.Me)

	w := httptest.NewRecorder()
	anon.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	r := authedRouter(userID, false)
	r.GET("/me", h.Me)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var view usecases.AccountView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, "owner@example.com", view.User.Email)
	assert.True(t, view.IsSubscriber)
	assert.InDelta(t, 10, view.ServiceFeePercentage, 0.001)
}

func TestAccountHandler_UpdateProfileForwardsPatch(t *testing.T) {
	userID := uuid.New()

	var gotInput *entities.UpdateUserInput
	stub := accountServiceStub{
		updateFn: func(_ context.Context, id uuid.UUID, input *entities.UpdateUserInput) (*usecases.AccountView, error) {
			gotInput = input
			return &usecases.AccountView{User: &entities.User{ID: id, FirstName: *input.FirstName}}, nil
		},
	}
	h := NewAccountHandler(stub)

	r := authedRouter(userID, false)
	r.PUT("/account", h.UpdateProfile)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/account", jsonBody(t, gin.H{
		"firstName": "Grace",
		"country":   "NL",
	})))

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, gotInput)
	require.NotNil(t, gotInput.FirstName)
	assert.Equal(t, "Grace", *gotInput.FirstName)
	require.NotNil(t, gotInput.Country)
	assert.Equal(t, "NL", *gotInput.Country)
	assert.Nil(t, gotInput.LastName)
}

func TestAccountHandler_Dashboard(t *testing.T) {
	userID := uuid.New()

	stub := accountServiceStub{
		dashboardFn: func(_ context.Context, id uuid.UUID) (*usecases.DashboardStats, error) {
			return &usecases.DashboardStats{
				User:               &entities.User{ID: id},
				TotalContracts:     4,
				TotalTransactions:  9,
				SubscriptionActive: true,
			}, nil
		},
	}
	h := NewAccountHandler(stub)

	r := authedRouter(userID, false)
	r.GET("/dashboard", h.Dashboard)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var stats usecases.DashboardStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, int64(4), stats.TotalContracts)
	assert.Equal(t, int64(9), stats.TotalTransactions)
	assert.True(t, stats.SubscriptionActive)
}

func TestAccountHandler_RequestKYC(t *testing.T) {
	userID := uuid.New()

	stub := accountServiceStub{
		kycFn: func(_ context.Context, id uuid.UUID) error {
			if id != userID {
				return domainerrors.NotFound("user not found")
			}
			return nil
		},
	}
	h := NewAccountHandler(stub)

	r := authedRouter(userID, false)
	r.POST("/kyc", h.RequestKYC)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/kyc", nil))
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Contains(t, w.Body.String(), "KYC verification requested")
}

func TestAccountHandler_AdminStatus(t *testing.T) {
	userID := uuid.New()

	stub := accountServiceStub{
		adminFn: func(_ context.Context, id uuid.UUID) (*usecases.AdminStatus, error) {
			return &usecases.AdminStatus{
				IsStaff:     true,
				RoleName:    "Admin",
				Permissions: []string{entities.PermUserView, entities.PermContractView},
			}, nil
		},
	}
	h := NewAccountHandler(stub)

	r := authedRouter(userID, true)
	r.GET("/admin-status", h.AdminStatus)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin-status", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var status usecases.AdminStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.True(t, status.IsStaff)
	assert.Equal(t, "Admin", status.RoleName)
	assert.Len(t, status.Permissions, 2)
}
