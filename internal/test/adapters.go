package test

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/wealthdesk/fundmart/internal/adapter/notify"
	"github.com/wealthdesk/fundmart/internal/adapter/venue"
	domainErrors "github.com/wealthdesk/fundmart/internal/domain/errors"
	"github.com/wealthdesk/fundmart/internal/domain/model"
)

// StagedCall stores information about AddStagedItem invocations.
type StagedCall struct {
	CustomerID string
	Kind       model.TransactionKind
	Payload    venue.StagePayload
}

// GatewayStub simulates the execution venue for tests.
type GatewayStub struct {
	ListFn     func(context.Context, string, model.TransactionKind) ([]venue.StagedItem, error)
	AddFn      func(context.Context, string, model.TransactionKind, venue.StagePayload) (string, error)
	RemoveFn   func(context.Context, string, model.TransactionKind, string) error
	CheckoutFn func(context.Context, string, model.TransactionKind, venue.CheckoutPayload) (*venue.CheckoutResult, error)
	StatusFn   func(context.Context, model.TransactionKind, string) (*model.StatusReport, error)

	Items  []venue.StagedItem
	Report *model.StatusReport

	mu        sync.Mutex
	Staged    []StagedCall
	Removed   []string
	Checkouts []venue.CheckoutPayload
}

// ListStagedItems returns configured items.
func (s *GatewayStub) ListStagedItems(ctx context.Context, customerID string, kind model.TransactionKind) ([]venue.StagedItem, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx, customerID, kind)
	}
	return s.Items, nil
}

// AddStagedItem records the staging request and returns a fixed item id.
func (s *GatewayStub) AddStagedItem(ctx context.Context, customerID string, kind model.TransactionKind, payload venue.StagePayload) (string, error) {
	if s.AddFn != nil {
		return s.AddFn(ctx, customerID, kind, payload)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Staged = append(s.Staged, StagedCall{CustomerID: customerID, Kind: kind, Payload: payload})
	return "item-1", nil
}

// RemoveStagedItem records removals.
func (s *GatewayStub) RemoveStagedItem(ctx context.Context, customerID string, kind model.TransactionKind, itemID string) error {
	if s.RemoveFn != nil {
		return s.RemoveFn(ctx, customerID, kind, itemID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Removed = append(s.Removed, itemID)
	return nil
}

// Checkout records the payload and returns one upstream order id.
func (s *GatewayStub) Checkout(ctx context.Context, customerID string, kind model.TransactionKind, payload venue.CheckoutPayload) (*venue.CheckoutResult, error) {
	if s.CheckoutFn != nil {
		return s.CheckoutFn(ctx, customerID, kind, payload)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Checkouts = append(s.Checkouts, payload)
	return &venue.CheckoutResult{OrderIDs: []string{"venue-1"}}, nil
}

// FetchStatus returns the configured report.
func (s *GatewayStub) FetchStatus(ctx context.Context, kind model.TransactionKind, upstreamOrderID string) (*model.StatusReport, error) {
	if s.StatusFn != nil {
		return s.StatusFn(ctx, kind, upstreamOrderID)
	}
	if s.Report == nil {
		return nil, domainErrors.ErrNotFound
	}
	return s.Report, nil
}

// SentCode stores information about dispatched one-time codes.
type SentCode struct {
	Channel     notify.Channel
	Destination string
	Code        string
}

// NotifierStub records notification effects.
type NotifierStub struct {
	SendCodeFn func(context.Context, notify.Channel, string, string) error
	CreatedFn  func(context.Context, *model.Order) error

	mu      sync.Mutex
	Sent    []SentCode
	Created []string
}

// SendCode records the dispatched code.
func (s *NotifierStub) SendCode(ctx context.Context, channel notify.Channel, destination, code string) error {
	if s.SendCodeFn != nil {
		return s.SendCodeFn(ctx, channel, destination, code)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Sent = append(s.Sent, SentCode{Channel: channel, Destination: destination, Code: code})
	return nil
}

// NotifyOrderCreated records which orders were announced.
func (s *NotifierStub) NotifyOrderCreated(ctx context.Context, order *model.Order) error {
	if s.CreatedFn != nil {
		return s.CreatedFn(ctx, order)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Created = append(s.Created, order.ID)
	return nil
}

// ProductClientStub serves product and price lookups from fixtures.
type ProductClientStub struct {
	GetProductFn func(context.Context, string) (*model.Product, error)
	GetPriceFn   func(context.Context, string, decimal.Decimal) (*model.Quote, error)

	Product *model.Product
	Quote   *model.Quote
}

// GetProduct returns the configured product or a tradeable default.
func (s *ProductClientStub) GetProduct(ctx context.Context, isin string) (*model.Product, error) {
	if s.GetProductFn != nil {
		return s.GetProductFn(ctx, isin)
	}
	if s.Product != nil {
		return s.Product, nil
	}
	return &model.Product{ISIN: isin, Name: "Test Fund", Tradeable: true}, nil
}

// GetPrice returns the configured quote or a unit-price default.
func (s *ProductClientStub) GetPrice(ctx context.Context, isin string, units decimal.Decimal) (*model.Quote, error) {
	if s.GetPriceFn != nil {
		return s.GetPriceFn(ctx, isin, units)
	}
	if s.Quote != nil {
		return s.Quote, nil
	}
	return &model.Quote{Price: decimal.NewFromInt(100), UserAmount: units.Mul(decimal.NewFromInt(100))}, nil
}
