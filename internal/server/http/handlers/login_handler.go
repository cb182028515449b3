package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/wealthdesk/fundmart/internal/domain/errors"
	"github.com/wealthdesk/fundmart/internal/server/http/dto"
	"github.com/wealthdesk/fundmart/internal/server/http/middleware"
)

// LoginHandler processes customer one-time code login.
type LoginHandler struct {
	facade LoginFacade
}

// NewLoginHandler creates LoginHandler instance.
func NewLoginHandler(facade LoginFacade) *LoginHandler {
	return &LoginHandler{facade: facade}
}

// RequestCode handles POST /api/auth/otp/request.
func (h *LoginHandler) RequestCode(c *gin.Context) {
	var req dto.OTPRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Phone == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	if err := h.facade.RequestLoginCode(c.Request.Context(), req.Phone); err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Status(http.StatusOK)
}

// VerifyCode handles POST /api/auth/otp/verify.
func (h *LoginHandler) VerifyCode(c *gin.Context) {
	var req dto.OTPVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Phone == "" || req.Code == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	token, err := h.facade.VerifyLoginCode(c.Request.Context(), req.Phone, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrInvalidOTP), errors.Is(err, domainErrors.ErrOTPExpired):
			c.Status(http.StatusBadRequest)
		case errors.Is(err, domainErrors.ErrNotFound):
			c.Status(http.StatusNotFound)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	middleware.SetAuthCookie(c, token)
	c.Status(http.StatusOK)
}
