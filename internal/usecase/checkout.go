package usecase

import (
	"context"
	"log/slog"

	"github.com/wealthdesk/fundmart/internal/adapter/notify"
	"github.com/wealthdesk/fundmart/internal/adapter/venue"
	domainErrors "github.com/wealthdesk/fundmart/internal/domain/errors"
	"github.com/wealthdesk/fundmart/internal/domain/model"
	"github.com/wealthdesk/fundmart/internal/domain/repository"
	"github.com/wealthdesk/fundmart/internal/pkg/keylock"
)

const defaultPaymentMode = "NETBANKING"

// CheckoutUseCase orchestrates venue staging and checkout for a single order.
// Staging for one (customer, kind) identity is serialized because the venue
// cart is shared mutable state.
type CheckoutUseCase struct {
	orders      repository.OrderRepository
	customers   repository.CustomerRepository
	gateway     venue.Gateway
	cart        *CartService
	consent     *ConsentUseCase
	notifier    notify.Dispatcher
	locks       *keylock.KeyedMutex
	partnerCode string
	logger      *slog.Logger
}

// NewCheckoutUseCase constructs CheckoutUseCase.
func NewCheckoutUseCase(
	orders repository.OrderRepository,
	customers repository.CustomerRepository,
	gateway venue.Gateway,
	cart *CartService,
	consent *ConsentUseCase,
	notifier notify.Dispatcher,
	locks *keylock.KeyedMutex,
	partnerCode string,
	logger *slog.Logger,
) *CheckoutUseCase {
	return &CheckoutUseCase{
		orders:      orders,
		customers:   customers,
		gateway:     gateway,
		cart:        cart,
		consent:     consent,
		notifier:    notifier,
		locks:       locks,
		partnerCode: partnerCode,
		logger:      logger,
	}
}

// stagePayload builds the sub-type specific staging request for one order.
func stagePayload(order *model.Order) venue.StagePayload {
	payload := venue.StagePayload{
		ISIN:      order.ISIN,
		SubType:   order.SubType,
		Units:     order.Units,
		Amount:    order.UserAmount,
		ClientRef: order.ID,
	}

	switch order.SubType {
	case model.SubTypeSIP:
		payload.Installments = order.Details.Installments
		payload.InstallmentDay = order.Details.InstallmentDay
		payload.Frequency = order.Details.Frequency
	case model.SubTypeRedemption:
		payload.FolioNumber = order.FolioNumber
	case model.SubTypeSwitchOut, model.SubTypeSwitchIn:
		payload.FolioNumber = order.FolioNumber
		payload.SourceISIN = order.Details.SourceISIN
		payload.TargetISIN = order.Details.TargetISIN
	case model.SubTypeSTPOut, model.SubTypeSTPIn:
		payload.FolioNumber = order.FolioNumber
		payload.SourceISIN = order.Details.SourceISIN
		payload.TargetISIN = order.Details.TargetISIN
		payload.Installments = order.Details.Installments
		payload.InstallmentDay = order.Details.InstallmentDay
		payload.Frequency = order.Details.Frequency
	case model.SubTypeSWP:
		payload.FolioNumber = order.FolioNumber
		payload.Installments = order.Details.Installments
		payload.InstallmentDay = order.Details.InstallmentDay
		payload.Frequency = order.Details.Frequency
	}

	return payload
}

// StageAndNotify empties the staging area, stages the order's item, records
// the staging reference and kicks off consent collection. The keyed lock
// holds for the whole empty-then-add sequence.
func (u *CheckoutUseCase) StageAndNotify(ctx context.Context, order *model.Order) error {
	identity := order.StagingIdentity()
	u.locks.Lock(identity)
	defer u.locks.Unlock(identity)

	if err := u.cart.Empty(ctx, order.CustomerID, order.Kind); err != nil {
		return err
	}

	itemID, err := u.gateway.AddStagedItem(ctx, order.CustomerID, order.Kind, stagePayload(order))
	if err != nil {
		return err
	}
	if err := u.orders.UpdateStagingItem(ctx, order.ID, itemID); err != nil {
		return err
	}
	order.Details.StagingItemID = itemID

	if err := u.consent.Issue(ctx, order); err != nil {
		return err
	}

	if err := u.notifier.NotifyOrderCreated(ctx, order); err != nil {
		u.logger.Error("order created notification failed",
			slog.String("order", order.ID),
			slog.String("error", err.Error()),
		)
	}

	return nil
}

// Checkout executes the staged cart. It refuses to run without recorded
// consent. A venue failure leaves the order's status untouched so the call
// can be retried; only a successful checkout advances to CHECKED_OUT and
// records the upstream order ids.
func (u *CheckoutUseCase) Checkout(ctx context.Context, order *model.Order) (*venue.CheckoutResult, error) {
	if !order.IsConsentGiven {
		return nil, domainErrors.ErrConsentRequired
	}

	customer, err := u.customers.GetByID(ctx, order.CustomerID)
	if err != nil {
		return nil, err
	}

	payload := venue.CheckoutPayload{
		PaymentMode:   defaultPaymentMode,
		BankAccountID: customer.BankAccountID,
		PAN:           customer.PAN,
		PartnerCode:   u.partnerCode,
	}
	if mode, ok := order.Metadata["payment_mode"].(string); ok && mode != "" {
		payload.PaymentMode = mode
	}

	result, err := u.gateway.Checkout(ctx, order.CustomerID, order.Kind, payload)
	if err != nil {
		return nil, err
	}

	if err := u.orders.UpdateExecutionIDs(ctx, order.ID, model.OrderStatusCheckedOut, result.OrderIDs); err != nil {
		return nil, err
	}
	order.Status = model.OrderStatusCheckedOut
	order.Details.OrderIDs = result.OrderIDs
	if len(result.OrderIDs) > 0 {
		first := result.OrderIDs[0]
		order.OrderID = &first
	}

	return result, nil
}
