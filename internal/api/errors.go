package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/dealdeskai/dealdesk/internal/httputil"
	"github.com/dealdeskai/dealdesk/internal/metrics"
	"github.com/dealdeskai/dealdesk/internal/models"
)

// Error code constants for standardized API responses.
const (
	ErrCodeInvalidRequest  = "invalid_request"
	ErrCodeValidationError = "validation_error"
	ErrCodeNotFound        = "not_found"
	ErrCodeConflict        = "conflict"
	ErrCodeForbidden       = "forbidden"
	ErrCodeTimeout         = "timeout"
	ErrCodeInternalError   = "internal_error"
	ErrCodeRateLimited     = "rate_limited"
)

// respondError writes a standardized JSON error response, pulling the request
// ID from the Gin context (set by the request ID middleware).
func respondError(c *gin.Context, status int, code, message string) {
	metrics.ErrorsTotal.WithLabelValues(code).Inc()
	httputil.RespondError(c, status, code, message)
}

// respondDomainError maps a service error to an HTTP response. Bid rejections
// carry the exact reason in the message so callers can correct and resubmit;
// anything unrecognized is logged and returned as a 500.
func respondDomainError(c *gin.Context, log *logrus.Logger, err error) {
	switch {
	case errors.Is(err, models.ErrAuctionNotFound),
		errors.Is(err, models.ErrAnalysisNotFound):
		respondError(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case errors.Is(err, models.ErrInvalidConfig),
		errors.Is(err, models.ErrInvalidAmount),
		errors.Is(err, models.ErrBelowMinimum),
		errors.Is(err, models.ErrBelowIncrement):
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())
	case errors.Is(err, models.ErrAuctionNotActive),
		errors.Is(err, models.ErrAuctionExpired):
		respondError(c, http.StatusConflict, ErrCodeConflict, err.Error())
	case errors.Is(err, models.ErrNotAuctionOwner),
		errors.Is(err, models.ErrSealedAuction):
		respondError(c, http.StatusForbidden, ErrCodeForbidden, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		respondError(c, http.StatusGatewayTimeout, ErrCodeTimeout, "storage operation timed out")
	default:
		log.WithError(err).Error("internal error")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
	}
}
