package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	domainerrors "blockbustre.backend/internal/domain/errors"
)

// Success sends a success response
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// Error sends an error response. Domain sentinels map to their HTTP status;
// anything unrecognized becomes a generic 500 without leaking detail.
func Error(c *gin.Context, err error) {
	appErr := toAppError(err)
	c.JSON(appErr.Status, gin.H{
		"code":    appErr.Code,
		"message": appErr.Message,
	})
}

func toAppError(err error) *domainerrors.AppError {
	var appErr *domainerrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, domainerrors.ErrNotFound):
		return domainerrors.NotFound("resource not found")
	case errors.Is(err, domainerrors.ErrAlreadyExists):
		return domainerrors.Conflict("resource already exists")
	case errors.Is(err, domainerrors.ErrInvalidCredentials):
		return domainerrors.NewAppError(http.StatusUnauthorized, domainerrors.CodeInvalidCredentials,
			"Invalid email or password", domainerrors.ErrInvalidCredentials)
	case errors.Is(err, domainerrors.ErrTokenBlacklisted),
		errors.Is(err, domainerrors.ErrTokenExpired),
		errors.Is(err, domainerrors.ErrUnauthorized):
		return domainerrors.Unauthorized("authentication required")
	case errors.Is(err, domainerrors.ErrForbidden):
		return domainerrors.Forbidden("insufficient permissions")
	case errors.Is(err, domainerrors.ErrProtectedReference):
		return domainerrors.NewAppError(http.StatusConflict, domainerrors.CodeConflict,
			"resource is referenced and cannot be deleted", domainerrors.ErrProtectedReference)
	case errors.Is(err, domainerrors.ErrInvalidTransition):
		return domainerrors.NewAppError(http.StatusConflict, domainerrors.CodeConflict,
			"operation not allowed in the current status", domainerrors.ErrInvalidTransition)
	case errors.Is(err, domainerrors.ErrPasswordMismatch):
		return domainerrors.BadRequest("passwords do not match")
	case errors.Is(err, domainerrors.ErrWeakPassword):
		return domainerrors.BadRequest("password does not meet the strength policy")
	case errors.Is(err, domainerrors.ErrInvalidInput),
		errors.Is(err, domainerrors.ErrBadRequest):
		return domainerrors.BadRequest(err.Error())
	}

	return domainerrors.InternalError(err)
}

// BadRequest is a shorthand for binding failures
func BadRequest(c *gin.Context, message string) {
	Error(c, domainerrors.BadRequest(message))
}
