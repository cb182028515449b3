package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/wealthdesk/fundmart/internal/domain/errors"
	"github.com/wealthdesk/fundmart/internal/server/http/middleware"
)

// CurrentSubjectID extracts the authenticated subject identifier from context.
func CurrentSubjectID(c *gin.Context) string {
	val, ok := c.Get(middleware.SubjectContextKey)
	if !ok {
		return ""
	}
	id, _ := val.(string)
	return id
}

// statusFromError maps domain errors onto HTTP status codes.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, domainErrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domainErrors.ErrProductUnavailable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domainErrors.ErrInvalidOTP),
		errors.Is(err, domainErrors.ErrOTPExpired),
		errors.Is(err, domainErrors.ErrUnsupportedCartType),
		errors.Is(err, domainErrors.ErrInvalidID),
		errors.Is(err, domainErrors.ErrInvalidTransition):
		return http.StatusBadRequest
	case errors.Is(err, domainErrors.ErrConsentRequired),
		errors.Is(err, domainErrors.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, domainErrors.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, domainErrors.ErrUpstreamUnavailable),
		errors.Is(err, domainErrors.ErrCartInconsistent),
		errors.Is(err, domainErrors.ErrLegMismatch):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// abortWithError writes the mapped status plus a small JSON body carrying the
// message so venue wording reaches API clients unchanged.
func abortWithError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(statusFromError(err), gin.H{"error": err.Error()})
}
