package handler

import (
	"errors"
	"net/http"

	domainerr "github.com/amirhossein-jamali/seat-hold/internal/domain/error"
	"github.com/amirhossein-jamali/seat-hold/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case domainerr.IsValidationError(err):
		return http.StatusBadRequest
	case domainerr.IsSeatNotFoundError(err):
		return http.StatusNotFound
	case domainerr.IsConflictError(err), errors.Is(err, domainerr.ErrDuplicateSeat):
		return http.StatusConflict
	case domainerr.IsStoreUnavailableError(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// messageFor returns the client-facing message; internal failures are not echoed
func messageFor(err error, status int) string {
	switch status {
	case http.StatusInternalServerError:
		return "Internal server error"
	case http.StatusServiceUnavailable:
		return "Seat store unavailable, retry later"
	}
	if domainerr.IsHoldExpiredError(err) {
		return "Seat hold expired"
	}
	if domainerr.IsConflictError(err) {
		return "Seat state conflict"
	}
	return err.Error()
}

// respondError records err on the context and writes the error response
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	status := statusFor(err)
	resp := dto.ErrorResponse{
		Code:    domainerr.ErrorCode(err),
		Message: messageFor(err, status),
	}

	var conflict *domainerr.ConflictError
	if errors.As(err, &conflict) {
		resp.Reason = string(conflict.Reason)
		resp.Observed = conflict.Observed
	}

	c.JSON(status, resp)
}

// respondBadRequest writes a 400 for malformed input
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
		Message: message,
	})
}
