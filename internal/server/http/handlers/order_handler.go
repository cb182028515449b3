package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wealthdesk/fundmart/internal/domain/model"
	"github.com/wealthdesk/fundmart/internal/server/http/dto"
	"github.com/wealthdesk/fundmart/internal/usecase"
)

// OrderHandler manages order-related endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Create handles POST /api/orders.
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.CustomerID == "" || req.SubType == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	order, err := h.facade.CreateOrder(c.Request.Context(), usecase.CreateOrderInput{
		CustomerID:     req.CustomerID,
		AdvisorID:      CurrentSubjectID(c),
		AccountID:      req.AccountID,
		ProductType:    model.ProductType(req.ProductType),
		SubType:        model.SubType(req.SubType),
		ISIN:           req.ISIN,
		Units:          req.Units,
		FolioNumber:    req.FolioNumber,
		Installments:   req.Installments,
		InstallmentDay: req.InstallmentDay,
		Frequency:      req.Frequency,
		SourceISIN:     req.SourceISIN,
		TargetISIN:     req.TargetISIN,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToOrderResponse(*order))
}

// List handles GET /api/orders.
func (h *OrderHandler) List(c *gin.Context) {
	customerID := c.Query("customer_id")
	if customerID == "" {
		customerID = CurrentSubjectID(c)
	}

	orders, err := h.facade.Orders(c.Request.Context(), customerID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if len(orders) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	response := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		response = append(response, dto.ToOrderResponse(o))
	}
	c.JSON(http.StatusOK, response)
}

// Get handles GET /api/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.facade.Order(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToOrderResponse(*order))
}

// VerifyConsent handles POST /api/orders/:id/consent/verify.
func (h *OrderHandler) VerifyConsent(c *gin.Context) {
	var req dto.ConsentVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.PhoneCode == "" || req.EmailCode == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	order, result, err := h.facade.VerifyConsent(c.Request.Context(), c.Param("id"), req.PhoneCode, req.EmailCode)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.CheckoutResponse{
		Order:         dto.ToOrderResponse(*order),
		VenueOrderIDs: result.OrderIDs,
	})
}

// ResendConsent handles POST /api/orders/:id/consent/resend.
func (h *OrderHandler) ResendConsent(c *gin.Context) {
	if err := h.facade.ResendConsent(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusOK)
}
