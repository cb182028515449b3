package handlers

import (
	"context"

	"github.com/wealthdesk/fundmart/internal/adapter/venue"
	"github.com/wealthdesk/fundmart/internal/domain/model"
	"github.com/wealthdesk/fundmart/internal/usecase"
)

// AuthFacade describes advisor authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, login, password string) (string, error)
	Authenticate(ctx context.Context, login, password string) (string, error)
	ParseToken(token string) (string, error)
}

// LoginFacade describes customer one-time code login.
type LoginFacade interface {
	RequestLoginCode(ctx context.Context, phone string) error
	VerifyLoginCode(ctx context.Context, phone, code string) (string, error)
}

// OrderFacade encapsulates order operations exposed via HTTP.
type OrderFacade interface {
	CreateOrder(ctx context.Context, in usecase.CreateOrderInput) (*model.Order, error)
	Orders(ctx context.Context, customerID string) ([]model.Order, error)
	Order(ctx context.Context, id string) (*model.Order, error)
	VerifyConsent(ctx context.Context, orderID, phoneCode, emailCode string) (*model.Order, *venue.CheckoutResult, error)
	ResendConsent(ctx context.Context, orderID string) error
}

// OrderDeskFacade aggregates the full set of operations used across handlers.
type OrderDeskFacade interface {
	AuthFacade
	LoginFacade
	OrderFacade
}
