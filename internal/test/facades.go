package test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/wealthdesk/fundmart/internal/adapter/venue"
	"github.com/wealthdesk/fundmart/internal/domain/model"
	"github.com/wealthdesk/fundmart/internal/usecase"
)

// AuthFacadeStub simulates advisor authentication facade interactions.
type AuthFacadeStub struct {
	RegisterFn     func(context.Context, string, string) (string, error)
	AuthenticateFn func(context.Context, string, string) (string, error)
	ParseFn        func(string) (string, error)
}

// Register returns token for successful registration scenarios.
func (s AuthFacadeStub) Register(ctx context.Context, login, password string) (string, error) {
	if s.RegisterFn != nil {
		return s.RegisterFn(ctx, login, password)
	}
	return "token", nil
}

// Authenticate returns token for successful authentication scenarios.
func (s AuthFacadeStub) Authenticate(ctx context.Context, login, password string) (string, error) {
	if s.AuthenticateFn != nil {
		return s.AuthenticateFn(ctx, login, password)
	}
	return "token", nil
}

// ParseToken returns the stored subject identifier.
func (s AuthFacadeStub) ParseToken(token string) (string, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	return "subject", nil
}

// LoginFacadeStub simulates customer code login interactions.
type LoginFacadeStub struct {
	RequestFn func(context.Context, string) error
	VerifyFn  func(context.Context, string, string) (string, error)
}

// RequestLoginCode delegates to the override or succeeds.
func (s LoginFacadeStub) RequestLoginCode(ctx context.Context, phone string) error {
	if s.RequestFn != nil {
		return s.RequestFn(ctx, phone)
	}
	return nil
}

// VerifyLoginCode delegates to the override or returns a fixed token.
func (s LoginFacadeStub) VerifyLoginCode(ctx context.Context, phone, code string) (string, error) {
	if s.VerifyFn != nil {
		return s.VerifyFn(ctx, phone, code)
	}
	return "token", nil
}

// OrderFacadeStub provides controllable behaviour for order endpoints.
type OrderFacadeStub struct {
	CreateFn  func(context.Context, usecase.CreateOrderInput) (*model.Order, error)
	OrdersFn  func(context.Context, string) ([]model.Order, error)
	OrderFn   func(context.Context, string) (*model.Order, error)
	VerifyFn  func(context.Context, string, string, string) (*model.Order, *venue.CheckoutResult, error)
	ResendFn  func(context.Context, string) error
	OrderList []model.Order
}

// CreateOrder delegates to provided function or returns a default order.
func (s OrderFacadeStub) CreateOrder(ctx context.Context, in usecase.CreateOrderInput) (*model.Order, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, in)
	}
	return &model.Order{
		ID:         RandomHexID(),
		CustomerID: in.CustomerID,
		SubType:    in.SubType,
		Kind:       model.KindForSubType(in.SubType),
		Status:     model.OrderStatusPending,
	}, nil
}

// Orders returns predefined orders for the given customer.
func (s OrderFacadeStub) Orders(ctx context.Context, customerID string) ([]model.Order, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, customerID)
	}
	return s.OrderList, nil
}

// Order returns one predefined order.
func (s OrderFacadeStub) Order(ctx context.Context, id string) (*model.Order, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, id)
	}
	return &model.Order{ID: id, Status: model.OrderStatusPending}, nil
}

// VerifyConsent delegates to the override or reports a successful checkout.
func (s OrderFacadeStub) VerifyConsent(ctx context.Context, orderID, phoneCode, emailCode string) (*model.Order, *venue.CheckoutResult, error) {
	if s.VerifyFn != nil {
		return s.VerifyFn(ctx, orderID, phoneCode, emailCode)
	}
	return &model.Order{ID: orderID, Status: model.OrderStatusCheckedOut, IsConsentGiven: true},
		&venue.CheckoutResult{OrderIDs: []string{"venue-1"}}, nil
}

// ResendConsent delegates to the override or succeeds.
func (s OrderFacadeStub) ResendConsent(ctx context.Context, orderID string) error {
	if s.ResendFn != nil {
		return s.ResendFn(ctx, orderID)
	}
	return nil
}

// OrderDeskFacadeStub aggregates facade stubs for HTTP layer tests.
type OrderDeskFacadeStub struct {
	AuthFacadeStub
	LoginFacadeStub
	OrderFacadeStub
}

// ReportCall stores information about ApplyStatusReport invocations.
type ReportCall struct {
	OrderID string
	Report  *model.StatusReport
}

// WorkerFacadeStub mimics reconciler interactions with the application facade.
type WorkerFacadeStub struct {
	Batches  [][]model.Order
	BatchFn  func(context.Context, int) ([]model.Order, error)
	CheckFn  func(context.Context, *model.Order) (*model.StatusReport, error)
	ApplyFn  func(context.Context, *model.Order, *model.StatusReport) error
	SweepFn  func(context.Context) (int, error)
	Applied  []ReportCall
	Sweeps   int32
	mu       sync.Mutex
	batchIdx int32
}

// Lock exposes internal mutex for external synchronization.
func (s *WorkerFacadeStub) Lock() { s.mu.Lock() }

// Unlock releases previously acquired lock.
func (s *WorkerFacadeStub) Unlock() { s.mu.Unlock() }

// OrdersForReconciliation returns batches from the configured queue.
func (s *WorkerFacadeStub) OrdersForReconciliation(ctx context.Context, limit int) ([]model.Order, error) {
	if s.BatchFn != nil {
		return s.BatchFn(ctx, limit)
	}
	call := atomic.AddInt32(&s.batchIdx, 1)
	if int(call) <= len(s.Batches) {
		return s.Batches[call-1], nil
	}
	time.Sleep(10 * time.Millisecond)
	return nil, nil
}

// CheckOrderStatus returns the configured report.
func (s *WorkerFacadeStub) CheckOrderStatus(ctx context.Context, order *model.Order) (*model.StatusReport, error) {
	if s.CheckFn != nil {
		return s.CheckFn(ctx, order)
	}
	return &model.StatusReport{OrderID: order.ID, Status: "SUCCESS", AdminAccepted: true}, nil
}

// ApplyStatusReport records applied reports.
func (s *WorkerFacadeStub) ApplyStatusReport(ctx context.Context, order *model.Order, report *model.StatusReport) error {
	if s.ApplyFn != nil {
		return s.ApplyFn(ctx, order, report)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Applied = append(s.Applied, ReportCall{OrderID: order.ID, Report: report})
	return nil
}

// SweepPairs counts sweep invocations.
func (s *WorkerFacadeStub) SweepPairs(ctx context.Context) (int, error) {
	if s.SweepFn != nil {
		return s.SweepFn(ctx)
	}
	atomic.AddInt32(&s.Sweeps, 1)
	return 0, nil
}
