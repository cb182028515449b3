package usecase_test

import (
	"context"
	"errors"
	"github.com/wealthdesk/fundmart/internal/usecase"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/wealthdesk/fundmart/internal/domain/errors"
	"github.com/wealthdesk/fundmart/internal/domain/model"
	"github.com/wealthdesk/fundmart/internal/pkg/keylock"
	"github.com/wealthdesk/fundmart/internal/test"
)

type pairFixture struct {
	orders   *test.OrderRepositoryStub
	pairs    *test.PairIntentRepositoryStub
	customer *model.Customer
	gateway  *test.GatewayStub
	notifier *test.NotifierStub
	uc       *usecase.PairUseCase
}

func newPairFixture(t *testing.T) *pairFixture {
	t.Helper()
	orders := &test.OrderRepositoryStub{}
	pairs := &test.PairIntentRepositoryStub{}
	customers := test.NewCustomerRepositoryStub()
	customer := seedCustomer(customers)
	gateway := &test.GatewayStub{}
	notifier := &test.NotifierStub{}
	logger := test.NewLogger()
	locks := keylock.New()

	orderUC := usecase.NewOrderUseCase(orders, customers, &test.ProductClientStub{}, logger)
	consent := usecase.NewConsentUseCase(orders, customers, test.HasherStub{}, notifier, 10*time.Minute, logger)
	cart := usecase.NewCartService(gateway, logger)
	checkout := usecase.NewCheckoutUseCase(orders, customers, gateway, cart, consent, notifier, locks, "WD01", logger)
	uc := usecase.NewPairUseCase(orders, pairs, orderUC, checkout, cart, gateway, consent, locks, logger)

	return &pairFixture{orders: orders, pairs: pairs, customer: customer, gateway: gateway, notifier: notifier, uc: uc}
}

func switchInput(customerID string) usecase.CreateOrderInput {
	return usecase.CreateOrderInput{
		CustomerID:  customerID,
		ProductType: model.ProductMutualFund,
		Units:       decimal.NewFromInt(10),
		SourceISIN:  test.RandomISIN(),
		TargetISIN:  test.RandomISIN(),
		FolioNumber: "F-100",
	}
}

func TestCreatePairWritesIntentAndBothLegs(t *testing.T) {
	f := newPairFixture(t)

	redeem, purchase, err := f.uc.CreatePair(context.Background(), model.KindSwitch, switchInput(f.customer.ID))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if redeem.SubType != model.SubTypeSwitchOut || purchase.SubType != model.SubTypeSwitchIn {
		t.Fatalf("unexpected leg sub-types: %s / %s", redeem.SubType, purchase.SubType)
	}
	if redeem.GroupID != purchase.GroupID {
		t.Fatal("expected legs to share a group")
	}
	if redeem.Details.LinkedOrderID != purchase.ID || purchase.Details.LinkedOrderID != redeem.ID {
		t.Fatal("expected legs cross-linked")
	}

	if len(f.pairs.Intents) != 1 {
		t.Fatalf("expected one intent, got %d", len(f.pairs.Intents))
	}
	intent := f.pairs.Intents[0]
	if intent.State != model.PairStateStaged {
		t.Fatalf("expected STAGED intent, got %s", intent.State)
	}
	if intent.RedeemLegID != redeem.ID || intent.PurchaseLegID != purchase.ID {
		t.Fatal("expected intent to record both leg ids")
	}

	if len(f.gateway.Staged) != 1 {
		t.Fatalf("expected one combined staged item, got %d", len(f.gateway.Staged))
	}
	if redeem.Details.StagingItemID != purchase.Details.StagingItemID {
		t.Fatal("expected shared staging reference")
	}
	if len(f.orders.SecretCalls) != 1 {
		t.Fatal("expected consent issued once against the redeem leg")
	}
	if f.orders.SecretCalls[0].OrderID != redeem.ID {
		t.Fatal("expected consent codes stored on the redeem leg")
	}
}

func TestCreatePairSTPLegs(t *testing.T) {
	f := newPairFixture(t)

	in := switchInput(f.customer.ID)
	in.Installments = 6
	in.Frequency = "MONTHLY"
	redeem, purchase, err := f.uc.CreatePair(context.Background(), model.KindSTP, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if redeem.SubType != model.SubTypeSTPOut || purchase.SubType != model.SubTypeSTPIn {
		t.Fatalf("unexpected leg sub-types: %s / %s", redeem.SubType, purchase.SubType)
	}
	if redeem.Kind != model.KindSTP {
		t.Fatalf("expected STP kind, got %s", redeem.Kind)
	}
}

func TestCreatePairRejectsUnpairedKind(t *testing.T) {
	f := newPairFixture(t)

	if _, _, err := f.uc.CreatePair(context.Background(), model.KindOneTime, switchInput(f.customer.ID)); !errors.Is(err, domainErrors.ErrUnsupportedCartType) {
		t.Fatalf("expected ErrUnsupportedCartType, got %v", err)
	}
	if len(f.pairs.Intents) != 0 {
		t.Fatal("expected no intent for rejected kind")
	}
}

func TestCreatePairSecondLegFailureMarksDivergent(t *testing.T) {
	f := newPairFixture(t)

	writes := 0
	f.orders.CreateFn = func(ctx context.Context, order *model.Order) error {
		writes++
		if writes == 2 {
			return errors.New("write failed")
		}
		f.orders.Orders = append(f.orders.Orders, *order)
		return nil
	}

	_, _, err := f.uc.CreatePair(context.Background(), model.KindSwitch, switchInput(f.customer.ID))
	if !errors.Is(err, domainErrors.ErrLegMismatch) {
		t.Fatalf("expected ErrLegMismatch, got %v", err)
	}
	if len(f.pairs.States) == 0 || f.pairs.States[len(f.pairs.States)-1] != model.PairStateDivergent {
		t.Fatalf("expected DIVERGENT intent, got %v", f.pairs.States)
	}
}

func createdPair(t *testing.T, f *pairFixture) (*model.Order, *model.Order) {
	t.Helper()
	redeem, purchase, err := f.uc.CreatePair(context.Background(), model.KindSwitch, switchInput(f.customer.ID))
	if err != nil {
		t.Fatalf("pair creation failed: %v", err)
	}
	return redeem, purchase
}

func TestCheckoutPairMirrorsExecutionIDs(t *testing.T) {
	f := newPairFixture(t)
	redeem, purchase := createdPair(t, f)
	redeem.IsConsentGiven = true
	redeem.Status = model.OrderStatusConsentGiven

	result, err := f.uc.CheckoutPair(context.Background(), redeem)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.OrderIDs) == 0 {
		t.Fatal("expected upstream ids")
	}

	if len(f.orders.ExecutionCalls) != 2 {
		t.Fatalf("expected execution ids on both legs, got %d", len(f.orders.ExecutionCalls))
	}
	mirrored := false
	for _, call := range f.orders.ExecutionCalls {
		if call.OrderID == purchase.ID && call.Status == model.OrderStatusCheckedOut {
			mirrored = true
		}
	}
	if !mirrored {
		t.Fatal("expected purchase leg mirrored to CHECKED_OUT")
	}
	if len(f.pairs.States) == 0 || f.pairs.States[len(f.pairs.States)-1] != model.PairStateComplete {
		t.Fatalf("expected COMPLETE intent, got %v", f.pairs.States)
	}
}

func TestCheckoutPairMirrorFailureMarksDivergent(t *testing.T) {
	f := newPairFixture(t)
	redeem, purchase := createdPair(t, f)
	redeem.IsConsentGiven = true
	redeem.Status = model.OrderStatusConsentGiven

	f.orders.UpdateExecutionIDsFn = func(ctx context.Context, orderID string, status model.OrderStatus, ids []string) error {
		if orderID == purchase.ID {
			return errors.New("write failed")
		}
		return nil
	}

	if _, err := f.uc.CheckoutPair(context.Background(), redeem); !errors.Is(err, domainErrors.ErrLegMismatch) {
		t.Fatalf("expected ErrLegMismatch, got %v", err)
	}
	if len(f.pairs.States) == 0 || f.pairs.States[len(f.pairs.States)-1] != model.PairStateDivergent {
		t.Fatalf("expected DIVERGENT intent, got %v", f.pairs.States)
	}
}

func TestMirrorStatusFollowsSibling(t *testing.T) {
	f := newPairFixture(t)
	redeem, purchase := createdPair(t, f)

	redeem.Status = model.OrderStatusProcessing
	if err := f.uc.MirrorStatus(context.Background(), redeem, model.OrderStatusProcessing); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found := false
	for _, call := range f.orders.StatusCalls {
		if call.OrderID == purchase.ID && call.Status == model.OrderStatusProcessing {
			found = true
		}
	}
	if !found {
		t.Fatal("expected sibling transitioned")
	}
}

func TestSweepIntentsFlagsStalePending(t *testing.T) {
	f := newPairFixture(t)
	f.pairs.Intents = append(f.pairs.Intents,
		&model.PairIntent{ID: "intent-old", GroupID: "g1", State: model.PairStatePending, CreatedAt: time.Now().Add(-time.Hour)},
		&model.PairIntent{ID: "intent-new", GroupID: "g2", State: model.PairStatePending, CreatedAt: time.Now()},
		&model.PairIntent{ID: "intent-div", GroupID: "g3", State: model.PairStateDivergent, CreatedAt: time.Now()},
	)

	flagged, err := f.uc.SweepIntents(context.Background(), 15*time.Minute, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if flagged != 2 {
		t.Fatalf("expected 2 flagged intents, got %d", flagged)
	}
}
