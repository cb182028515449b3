package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/wealthdesk/fundmart/internal/domain/errors"
	"github.com/wealthdesk/fundmart/internal/domain/model"
	"github.com/wealthdesk/fundmart/internal/metrics"
	"github.com/wealthdesk/fundmart/internal/pkg/keylock"
	"github.com/wealthdesk/fundmart/internal/test"
	"github.com/wealthdesk/fundmart/internal/usecase"
)

type facadeFixture struct {
	orders    *test.OrderRepositoryStub
	pairs     *test.PairIntentRepositoryStub
	customers *test.CustomerRepositoryStub
	customer  *model.Customer
	gateway   *test.GatewayStub
	notifier  *test.NotifierStub
	facade    *OrderDeskFacade
}

func newFacadeFixture(t *testing.T) *facadeFixture {
	t.Helper()
	orders := &test.OrderRepositoryStub{}
	pairs := &test.PairIntentRepositoryStub{}
	advisors := test.NewAdvisorRepositoryStub()
	customers := test.NewCustomerRepositoryStub()
	customer := &model.Customer{
		ID:            test.RandomHexID(),
		Name:          "Asha",
		Phone:         test.RandomPhone(),
		Email:         "asha@example.com",
		PAN:           "ABCDE1234F",
		BankAccountID: test.RandomHexID(),
	}
	customers.Add(customer)

	gateway := &test.GatewayStub{}
	notifier := &test.NotifierStub{}
	logger := test.NewLogger()
	locks := keylock.New()

	authUC := usecase.NewAuthUseCase(advisors, test.HasherStub{}, test.StrategyStub{}, logger)
	loginUC := usecase.NewLoginUseCase(customers, test.NewOTPStoreStub(), test.HasherStub{}, test.StrategyStub{}, notifier, 10*time.Minute, logger)
	orderUC := usecase.NewOrderUseCase(orders, customers, &test.ProductClientStub{}, logger)
	consentUC := usecase.NewConsentUseCase(orders, customers, test.HasherStub{}, notifier, 10*time.Minute, logger)
	cart := usecase.NewCartService(gateway, logger)
	checkoutUC := usecase.NewCheckoutUseCase(orders, customers, gateway, cart, consentUC, notifier, locks, "WD01", logger)
	pairUC := usecase.NewPairUseCase(orders, pairs, orderUC, checkoutUC, cart, gateway, consentUC, locks, logger)

	facade := NewOrderDeskFacade(
		authUC, loginUC, orderUC, consentUC, checkoutUC, pairUC,
		gateway, usecase.NewSubstringClassifier(), metrics.New(), logger,
		15*time.Minute, 100,
	)
	return &facadeFixture{
		orders:    orders,
		pairs:     pairs,
		customers: customers,
		customer:  customer,
		gateway:   gateway,
		notifier:  notifier,
		facade:    facade,
	}
}

func TestFacadeCreateOrderSingleLeg(t *testing.T) {
	f := newFacadeFixture(t)

	order, err := f.facade.CreateOrder(context.Background(), usecase.CreateOrderInput{
		CustomerID:  f.customer.ID,
		ProductType: model.ProductMutualFund,
		SubType:     model.SubTypeLumpsum,
		ISIN:        test.RandomISIN(),
		Units:       decimal.NewFromInt(10),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.Status != model.OrderStatusPending {
		t.Fatalf("expected PENDING after staging, got %s", order.Status)
	}
	if len(f.gateway.Staged) != 1 {
		t.Fatalf("expected one staged item, got %d", len(f.gateway.Staged))
	}
	if len(f.notifier.Sent) != 2 {
		t.Fatalf("expected consent codes on both channels, got %d", len(f.notifier.Sent))
	}
}

func TestFacadeCreateOrderSwitchBuildsPair(t *testing.T) {
	f := newFacadeFixture(t)

	redeem, err := f.facade.CreateOrder(context.Background(), usecase.CreateOrderInput{
		CustomerID:  f.customer.ID,
		ProductType: model.ProductMutualFund,
		SubType:     model.SubTypeSwitchOut,
		Units:       decimal.NewFromInt(10),
		SourceISIN:  test.RandomISIN(),
		TargetISIN:  test.RandomISIN(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if redeem.SubType != model.SubTypeSwitchOut {
		t.Fatalf("expected redeem leg returned, got %s", redeem.SubType)
	}
	if len(f.pairs.Intents) != 1 {
		t.Fatalf("expected pair intent, got %d", len(f.pairs.Intents))
	}
	if len(f.orders.Created) != 2 {
		t.Fatalf("expected both legs written, got %d", len(f.orders.Created))
	}
}

func TestFacadeVerifyConsentChecksOut(t *testing.T) {
	f := newFacadeFixture(t)

	order, err := f.facade.CreateOrder(context.Background(), usecase.CreateOrderInput{
		CustomerID:  f.customer.ID,
		ProductType: model.ProductMutualFund,
		SubType:     model.SubTypeLumpsum,
		ISIN:        test.RandomISIN(),
		Units:       decimal.NewFromInt(10),
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	codes := map[string]string{}
	for _, sent := range f.notifier.Sent {
		codes[string(sent.Channel)] = sent.Code
	}

	updated, result, err := f.facade.VerifyConsent(context.Background(), order.ID, codes["phone"], codes["email"])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != model.OrderStatusCheckedOut {
		t.Fatalf("expected CHECKED_OUT, got %s", updated.Status)
	}
	if len(result.OrderIDs) == 0 {
		t.Fatal("expected venue order ids")
	}
}

func TestFacadeVerifyConsentWrongCodes(t *testing.T) {
	f := newFacadeFixture(t)

	order, err := f.facade.CreateOrder(context.Background(), usecase.CreateOrderInput{
		CustomerID:  f.customer.ID,
		ProductType: model.ProductMutualFund,
		SubType:     model.SubTypeLumpsum,
		ISIN:        test.RandomISIN(),
		Units:       decimal.NewFromInt(10),
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, _, err := f.facade.VerifyConsent(context.Background(), order.ID, "wrong", "wrong"); !errors.Is(err, domainErrors.ErrInvalidOTP) {
		t.Fatalf("expected ErrInvalidOTP, got %v", err)
	}
	if len(f.gateway.Checkouts) != 0 {
		t.Fatal("expected no checkout on failed verification")
	}
}

func TestFacadeApplyStatusReportAdvances(t *testing.T) {
	f := newFacadeFixture(t)

	order := &model.Order{ID: test.RandomHexID(), GroupID: "g1", ProductType: model.ProductBond, Status: model.OrderStatusCheckedOut}
	f.orders.Orders = append(f.orders.Orders, *order)

	report := &model.StatusReport{OrderID: "venue-1", Status: "SUCCESS"}
	if err := f.facade.ApplyStatusReport(context.Background(), order, report); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.Status != model.OrderStatusProcessed {
		t.Fatalf("expected PROCESSED, got %s", order.Status)
	}
}

func TestFacadeApplyStatusReportLimitMessageWins(t *testing.T) {
	f := newFacadeFixture(t)

	order := &model.Order{ID: test.RandomHexID(), GroupID: "g1", ProductType: model.ProductIPO, Status: model.OrderStatusCheckedOut}
	report := &model.StatusReport{OrderID: "venue-1", Status: "FAILED", Message: "Maximum 5 bids allowed per investor"}

	if err := f.facade.ApplyStatusReport(context.Background(), order, report); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.orders.GroupCalls) != 1 || f.orders.GroupCalls[0].Status != model.OrderStatusLimitReached {
		t.Fatalf("expected group-wide LIMIT_REACHED, got %+v", f.orders.GroupCalls)
	}
	if len(f.orders.StatusCalls) != 0 {
		t.Fatal("expected no individual transition when limit message matched")
	}
}

func TestFacadeApplyStatusReportUnmapped(t *testing.T) {
	f := newFacadeFixture(t)

	order := &model.Order{ID: test.RandomHexID(), GroupID: "g1", ProductType: model.ProductBond, Status: model.OrderStatusCheckedOut}
	report := &model.StatusReport{OrderID: "venue-1", Status: "SETTLING"}

	if err := f.facade.ApplyStatusReport(context.Background(), order, report); !errors.Is(err, domainErrors.ErrUnmappedStatus) {
		t.Fatalf("expected ErrUnmappedStatus, got %v", err)
	}
	if order.Status != model.OrderStatusCheckedOut {
		t.Fatalf("expected status untouched, got %s", order.Status)
	}
}

func TestFacadeApplyStatusReportUnchanged(t *testing.T) {
	f := newFacadeFixture(t)

	order := &model.Order{ID: test.RandomHexID(), GroupID: "g1", ProductType: model.ProductBond, Status: model.OrderStatusProcessing}
	report := &model.StatusReport{OrderID: "venue-1", Status: "IN_PROCESS"}

	if err := f.facade.ApplyStatusReport(context.Background(), order, report); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.orders.StatusCalls) != 0 {
		t.Fatal("expected no write for unchanged status")
	}
}

func TestFacadeCheckOrderStatusWithoutUpstreamID(t *testing.T) {
	f := newFacadeFixture(t)

	order := &model.Order{ID: test.RandomHexID(), Status: model.OrderStatusCheckedOut}
	if _, err := f.facade.CheckOrderStatus(context.Background(), order); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
