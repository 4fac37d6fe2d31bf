package handlers

import (
	"errors"
	"net/http"

	"neatly/services/booking"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError translates service-layer errors into HTTP responses.
// Validation problems are 400, authorization failures 403, missing
// resources 404, and both illegal transitions and lost races 409.
func respondError(c *gin.Context, err error) {
	var (
		validationErr *booking.ValidationError
		invalidState  *booking.InvalidStateError
		conflictErr   *booking.ConflictError
		authErr       *booking.AuthorizationError
		notFoundErr   *booking.NotFoundError
	)
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error(), "field": validationErr.Field})
	case errors.As(err, &authErr):
		c.JSON(http.StatusForbidden, gin.H{"error": authErr.Error()})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundErr.Error()})
	case errors.As(err, &invalidState):
		c.JSON(http.StatusConflict, gin.H{
			"error":          invalidState.Error(),
			"current_status": invalidState.Current,
		})
	case errors.As(err, &conflictErr):
		c.JSON(http.StatusConflict, gin.H{"error": conflictErr.Error()})
	default:
		zap.L().Error("unhandled service error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
