package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/wealthdesk/fundmart/internal/domain/model"
)

// CreateOrderRequest describes a new order payload.
type CreateOrderRequest struct {
	CustomerID  string          `json:"customer_id"`
	AccountID   string          `json:"account_id,omitempty"`
	ProductType string          `json:"product_type"`
	SubType     string          `json:"sub_type"`
	ISIN        string          `json:"isin,omitempty"`
	Units       decimal.Decimal `json:"units"`
	FolioNumber string          `json:"folio_number,omitempty"`

	Installments   int    `json:"installments,omitempty"`
	InstallmentDay int    `json:"installment_day,omitempty"`
	Frequency      string `json:"frequency,omitempty"`
	SourceISIN     string `json:"source_isin,omitempty"`
	TargetISIN     string `json:"target_isin,omitempty"`
}

// ConsentVerifyRequest submits both consent codes for an order.
type ConsentVerifyRequest struct {
	PhoneCode string `json:"phone_code"`
	EmailCode string `json:"email_code"`
}

// OrderResponse describes an order in API responses.
type OrderResponse struct {
	ID            string          `json:"id"`
	GroupID       string          `json:"group_id"`
	ProductType   string          `json:"product_type"`
	SubType       string          `json:"sub_type"`
	Kind          string          `json:"kind"`
	CustomerID    string          `json:"customer_id"`
	ISIN          string          `json:"isin,omitempty"`
	Units         decimal.Decimal `json:"units"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	UserAmount    decimal.Decimal `json:"user_amount"`
	FolioNumber   string          `json:"folio_number,omitempty"`
	Status        string          `json:"status"`
	ConsentGiven  bool            `json:"consent_given"`
	VenueOrderIDs []string        `json:"venue_order_ids,omitempty"`
	LinkedOrderID string          `json:"linked_order_id,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// CheckoutResponse reports a completed consent-and-checkout round trip.
type CheckoutResponse struct {
	Order         OrderResponse `json:"order"`
	VenueOrderIDs []string      `json:"venue_order_ids"`
}

// ToOrderResponse maps the domain order onto its API shape.
func ToOrderResponse(order model.Order) OrderResponse {
	return OrderResponse{
		ID:            order.ID,
		GroupID:       order.GroupID,
		ProductType:   string(order.ProductType),
		SubType:       string(order.SubType),
		Kind:          string(order.Kind),
		CustomerID:    order.CustomerID,
		ISIN:          order.ISIN,
		Units:         order.Units,
		UnitPrice:     order.UnitPrice,
		UserAmount:    order.UserAmount,
		FolioNumber:   order.FolioNumber,
		Status:        string(order.Status),
		ConsentGiven:  order.IsConsentGiven,
		VenueOrderIDs: order.Details.OrderIDs,
		LinkedOrderID: order.Details.LinkedOrderID,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
}
