package usecase_test

import (
	"context"
	"errors"
	"github.com/wealthdesk/fundmart/internal/usecase"
	"testing"
	"time"

	"github.com/wealthdesk/fundmart/internal/adapter/notify"
	domainErrors "github.com/wealthdesk/fundmart/internal/domain/errors"
	"github.com/wealthdesk/fundmart/internal/domain/model"
	"github.com/wealthdesk/fundmart/internal/test"
)

func newConsentForTest(orders *test.OrderRepositoryStub, customers *test.CustomerRepositoryStub, notifier *test.NotifierStub) *usecase.ConsentUseCase {
	return usecase.NewConsentUseCase(orders, customers, test.HasherStub{}, notifier, 10*time.Minute, test.NewLogger())
}

func consentOrder(customerID string) *model.Order {
	return &model.Order{
		ID:         test.RandomHexID(),
		CustomerID: customerID,
		Status:     model.OrderStatusCreated,
	}
}

func TestConsentIssueStoresHashesAndDispatchesBothChannels(t *testing.T) {
	orders := &test.OrderRepositoryStub{}
	customers := test.NewCustomerRepositoryStub()
	customer := seedCustomer(customers)
	notifier := &test.NotifierStub{}
	uc := newConsentForTest(orders, customers, notifier)

	order := consentOrder(customer.ID)
	if err := uc.Issue(context.Background(), order); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(orders.SecretCalls) != 1 {
		t.Fatalf("expected one secrets update, got %d", len(orders.SecretCalls))
	}
	call := orders.SecretCalls[0]
	if call.PhoneHash == nil || call.EmailHash == nil {
		t.Fatal("expected both hashes persisted")
	}
	if order.ConsentRequestedAt == nil {
		t.Fatal("expected consent request time recorded")
	}

	if len(notifier.Sent) != 2 {
		t.Fatalf("expected two dispatched codes, got %d", len(notifier.Sent))
	}
	channels := map[notify.Channel]string{}
	for _, sent := range notifier.Sent {
		channels[sent.Channel] = sent.Code
	}
	if _, ok := channels[notify.ChannelPhone]; !ok {
		t.Fatal("expected a phone code")
	}
	if _, ok := channels[notify.ChannelEmail]; !ok {
		t.Fatal("expected an email code")
	}
}

func TestConsentIssueDeliveryFailureIsNotFatal(t *testing.T) {
	orders := &test.OrderRepositoryStub{}
	customers := test.NewCustomerRepositoryStub()
	customer := seedCustomer(customers)
	notifier := &test.NotifierStub{
		SendCodeFn: func(context.Context, notify.Channel, string, string) error {
			return errors.New("gateway down")
		},
	}
	uc := newConsentForTest(orders, customers, notifier)

	if err := uc.Issue(context.Background(), consentOrder(customer.ID)); err != nil {
		t.Fatalf("expected success despite delivery failure, got %v", err)
	}
	if len(orders.SecretCalls) != 1 {
		t.Fatal("expected hashes persisted before delivery attempts")
	}
}

func TestConsentIssueRejectedAfterCheckout(t *testing.T) {
	customers := test.NewCustomerRepositoryStub()
	customer := seedCustomer(customers)
	uc := newConsentForTest(&test.OrderRepositoryStub{}, customers, &test.NotifierStub{})

	order := consentOrder(customer.ID)
	order.Status = model.OrderStatusCheckedOut
	if err := uc.Issue(context.Background(), order); !errors.Is(err, domainErrors.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func verifiableOrder(customerID string) *model.Order {
	phone := "hash:1111"
	email := "hash:2222"
	requested := time.Now().Add(-time.Minute)
	return &model.Order{
		ID:                 test.RandomHexID(),
		CustomerID:         customerID,
		Status:             model.OrderStatusPending,
		PhoneSecret:        &phone,
		EmailSecret:        &email,
		ConsentRequestedAt: &requested,
	}
}

func TestConsentVerifySuccess(t *testing.T) {
	orders := &test.OrderRepositoryStub{}
	customers := test.NewCustomerRepositoryStub()
	customer := seedCustomer(customers)
	uc := newConsentForTest(orders, customers, &test.NotifierStub{})

	order := verifiableOrder(customer.ID)
	if err := uc.Verify(context.Background(), order, "1111", "2222"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !order.IsConsentGiven || !order.IsApproved {
		t.Fatal("expected consent recorded")
	}
	if order.Status != model.OrderStatusConsentGiven {
		t.Fatalf("expected CONSENT_GIVEN, got %s", order.Status)
	}
	if order.PhoneSecret != nil || order.EmailSecret != nil {
		t.Fatal("expected secrets cleared after success")
	}
	if len(orders.ConsentGiven) != 1 {
		t.Fatal("expected consent persisted")
	}
}

func TestConsentVerifySingleMismatchRejectsBoth(t *testing.T) {
	customers := test.NewCustomerRepositoryStub()
	customer := seedCustomer(customers)
	uc := newConsentForTest(&test.OrderRepositoryStub{}, customers, &test.NotifierStub{})

	order := verifiableOrder(customer.ID)
	if err := uc.Verify(context.Background(), order, "1111", "9999"); !errors.Is(err, domainErrors.ErrInvalidOTP) {
		t.Fatalf("expected ErrInvalidOTP, got %v", err)
	}
	if order.IsConsentGiven {
		t.Fatal("expected consent not recorded")
	}
}

func TestConsentVerifyExpired(t *testing.T) {
	customers := test.NewCustomerRepositoryStub()
	customer := seedCustomer(customers)
	uc := newConsentForTest(&test.OrderRepositoryStub{}, customers, &test.NotifierStub{})

	order := verifiableOrder(customer.ID)
	stale := time.Now().Add(-11 * time.Minute)
	order.ConsentRequestedAt = &stale
	if err := uc.Verify(context.Background(), order, "1111", "2222"); !errors.Is(err, domainErrors.ErrOTPExpired) {
		t.Fatalf("expected ErrOTPExpired, got %v", err)
	}
}

func TestConsentVerifyWithoutIssuedCodes(t *testing.T) {
	customers := test.NewCustomerRepositoryStub()
	customer := seedCustomer(customers)
	uc := newConsentForTest(&test.OrderRepositoryStub{}, customers, &test.NotifierStub{})

	order := consentOrder(customer.ID)
	if err := uc.Verify(context.Background(), order, "1111", "2222"); !errors.Is(err, domainErrors.ErrInvalidOTP) {
		t.Fatalf("expected ErrInvalidOTP, got %v", err)
	}
}

func TestConsentVerifyRejectedOnTerminalOrder(t *testing.T) {
	customers := test.NewCustomerRepositoryStub()
	customer := seedCustomer(customers)
	uc := newConsentForTest(&test.OrderRepositoryStub{}, customers, &test.NotifierStub{})

	order := verifiableOrder(customer.ID)
	order.Status = model.OrderStatusCancelled
	if err := uc.Verify(context.Background(), order, "1111", "2222"); !errors.Is(err, domainErrors.ErrOTPExpired) {
		t.Fatalf("expected ErrOTPExpired, got %v", err)
	}
}
