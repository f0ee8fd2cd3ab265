package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"blockbustre.backend/internal/domain/entities"
	domainerrors "blockbustre.backend/internal/domain/errors"
	"blockbustre.backend/internal/interfaces/http/middleware"
	"blockbustre.backend/internal/interfaces/http/response"
)

// BillingService is the surface of the billing usecase the handler needs
type BillingService interface {
	AddPaymentMethod(ctx context.Context, userID uuid.UUID, input *entities.CreatePaymentMethodInput) (*entities.PaymentMethod, error)
	ListPaymentMethods(ctx context.Context, userID uuid.UUID) ([]*entities.PaymentMethod, error)
	SetDefaultPaymentMethod(ctx context.Context, userID, id uuid.UUID) error
	DeactivatePaymentMethod(ctx context.Context, userID, id uuid.UUID) error
	CreateSubscription(ctx context.Context, userID uuid.UUID, input *entities.CreateSubscriptionInput) (*entities.Subscription, error)
	GetCurrentSubscription(ctx context.Context, userID uuid.UUID) (*entities.Subscription, error)
	ListSubscriptions(ctx context.Context, userID uuid.UUID) ([]*entities.Subscription, error)
	CancelSubscription(ctx context.Context, userID, id uuid.UUID, immediate bool) (*entities.Subscription, error)
}

// BillingHandler handles payment method and subscription endpoints
type BillingHandler struct {
	billingUsecase BillingService
}

// NewBillingHandler creates a new billing handler
func NewBillingHandler(billingUsecase BillingService) *BillingHandler {
	return &BillingHandler{billingUsecase: billingUsecase}
}

func (h *BillingHandler) caller(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("authentication required"))
		return uuid.Nil, false
	}
	return userID, true
}

// AddPaymentMethod stores a payment instrument
// POST /api/v1/billing/payment-methods
func (h *BillingHandler) AddPaymentMethod(c *gin.Context) {
	userID, ok := h.caller(c)
	if !ok {
		return
	}

	var input entities.CreatePaymentMethodInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	pm, err := h.billingUsecase.AddPaymentMethod(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, pm)
}

// ListPaymentMethods returns the caller's active instruments
// GET /api/v1/billing/payment-methods
func (h *BillingHandler) ListPaymentMethods(c *gin.Context) {
	userID, ok := h.caller(c)
	if !ok {
		return
	}

	methods, err := h.billingUsecase.ListPaymentMethods(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"paymentMethods": methods})
}

// SetDefaultPaymentMethod marks one instrument as the default
// POST /api/v1/billing/payment-methods/:id/default
func (h *BillingHandler) SetDefaultPaymentMethod(c *gin.Context) {
	userID, ok := h.caller(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid payment method id")
		return
	}

	if err := h.billingUsecase.SetDefaultPaymentMethod(c.Request.Context(), userID, id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"message": "Default payment method updated",
	})
}

// RemovePaymentMethod deactivates an instrument
// DELETE /api/v1/billing/payment-methods/:id
func (h *BillingHandler) RemovePaymentMethod(c *gin.Context) {
	userID, ok := h.caller(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid payment method id")
		return
	}

	if err := h.billingUsecase.DeactivatePaymentMethod(c.Request.Context(), userID, id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"message": "Payment method removed",
	})
}

// CreateSubscription opens a subscription for the caller
// POST /api/v1/billing/subscriptions
func (h *BillingHandler) CreateSubscription(c *gin.Context) {
	userID, ok := h.caller(c)
	if !ok {
		return
	}

	var input entities.CreateSubscriptionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	sub, err := h.billingUsecase.CreateSubscription(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, sub)
}

// GetCurrentSubscription returns the caller's active subscription
// GET /api/v1/billing/subscriptions/current
func (h *BillingHandler) GetCurrentSubscription(c *gin.Context) {
	userID, ok := h.caller(c)
	if !ok {
		return
	}

	sub, err := h.billingUsecase.GetCurrentSubscription(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, sub)
}

// ListSubscriptions returns the caller's subscription history
// GET /api/v1/billing/subscriptions
func (h *BillingHandler) ListSubscriptions(c *gin.Context) {
	userID, ok := h.caller(c)
	if !ok {
		return
	}

	subs, err := h.billingUsecase.ListSubscriptions(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"subscriptions": subs})
}

// CancelSubscription cancels at period end, or immediately with ?immediate=true
// DELETE /api/v1/billing/subscriptions/:id
func (h *BillingHandler) CancelSubscription(c *gin.Context) {
	userID, ok := h.caller(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid subscription id")
		return
	}
	immediate, _ := strconv.ParseBool(c.DefaultQuery("immediate", "false"))

	sub, err := h.billingUsecase.CancelSubscription(c.Request.Context(), userID, id, immediate)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, sub)
}
