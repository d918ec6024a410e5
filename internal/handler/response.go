package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"bookd/internal/engine"
)

type apiResponse struct {
	Code    int            `json:"code"`
	Message string         `json:"message"`
	Data    any            `json:"data,omitempty"`
	Meta    map[string]any `json:"meta,omitempty"`
}

func Ok(c *gin.Context, data any, meta map[string]any) {
	c.JSON(http.StatusOK, apiResponse{
		Code:    0,
		Message: "ok",
		Data:    data,
		Meta:    meta,
	})
}

func Error(c *gin.Context, status int, message string, meta map[string]any) {
	c.JSON(status, apiResponse{
		Code:    status,
		Message: message,
		Meta:    meta,
	})
}

// Fail maps a settlement error to its HTTP status. Unknown errors are
// infrastructure failures and surface as 500.
func Fail(c *gin.Context, err error) {
	Error(c, statusOf(err), err.Error(), nil)
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, engine.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, engine.ErrMarketNotFound):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrMarketExists),
		errors.Is(err, engine.ErrClaimAlreadyMade):
		return http.StatusConflict
	case errors.Is(err, engine.ErrInvalidOutcome),
		errors.Is(err, engine.ErrInvalidKind),
		errors.Is(err, engine.ErrInvalidOdds),
		errors.Is(err, engine.ErrInvalidPayment),
		errors.Is(err, engine.ErrKindMismatch):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrMarketNotActive),
		errors.Is(err, engine.ErrMarketNotClosed),
		errors.Is(err, engine.ErrMarketNotDrawable),
		errors.Is(err, engine.ErrBetsNotAccepted),
		errors.Is(err, engine.ErrMinimumOdds),
		errors.Is(err, engine.ErrMaxBetExceeded),
		errors.Is(err, engine.ErrNoWinnings):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// actor is the caller's account as authenticated by the gateway. Address
// format validation happens there, not here.
func actor(c *gin.Context) string {
	return c.GetHeader("X-Account")
}
