package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/wealthdesk/fundmart/internal/adapter/venue"
	domainErrors "github.com/wealthdesk/fundmart/internal/domain/errors"
	"github.com/wealthdesk/fundmart/internal/domain/model"
	"github.com/wealthdesk/fundmart/internal/domain/repository"
	"github.com/wealthdesk/fundmart/internal/pkg/keylock"
)

// PairUseCase coordinates the two legs of a switch or STP as a small saga.
// The intent row is written before either leg so an interrupted creation is
// always discoverable by the sweep.
type PairUseCase struct {
	orders   repository.OrderRepository
	pairs    repository.PairIntentRepository
	orderUC  *OrderUseCase
	checkout *CheckoutUseCase
	cart     *CartService
	gateway  venue.Gateway
	consent  *ConsentUseCase
	locks    *keylock.KeyedMutex
	logger   *slog.Logger
}

// NewPairUseCase constructs PairUseCase.
func NewPairUseCase(
	orders repository.OrderRepository,
	pairs repository.PairIntentRepository,
	orderUC *OrderUseCase,
	checkout *CheckoutUseCase,
	cart *CartService,
	gateway venue.Gateway,
	consent *ConsentUseCase,
	locks *keylock.KeyedMutex,
	logger *slog.Logger,
) *PairUseCase {
	return &PairUseCase{
		orders:   orders,
		pairs:    pairs,
		orderUC:  orderUC,
		checkout: checkout,
		cart:     cart,
		gateway:  gateway,
		consent:  consent,
		locks:    locks,
		logger:   logger,
	}
}

// legSubTypes returns the redeem and purchase sub-types for a pair kind.
func legSubTypes(kind model.TransactionKind) (model.SubType, model.SubType, error) {
	switch kind {
	case model.KindSwitch:
		return model.SubTypeSwitchOut, model.SubTypeSwitchIn, nil
	case model.KindSTP:
		return model.SubTypeSTPOut, model.SubTypeSTPIn, nil
	default:
		return "", "", fmt.Errorf("%w: %s is not a paired kind", domainErrors.ErrUnsupportedCartType, kind)
	}
}

// CreatePair opens both legs of a switch or STP under one group, stages a
// single combined item and starts consent collection against the redeem leg.
// Order of durable writes: intent, staging, redeem leg, purchase leg, intent
// update. Any failure after the intent leaves it in a state the sweep can
// report.
func (u *PairUseCase) CreatePair(ctx context.Context, kind model.TransactionKind, in CreateOrderInput) (*model.Order, *model.Order, error) {
	redeemSub, purchaseSub, err := legSubTypes(kind)
	if err != nil {
		return nil, nil, err
	}

	redeemIn := in
	redeemIn.SubType = redeemSub
	redeemIn.ISIN = in.SourceISIN
	redeem, err := u.orderUC.Prepare(ctx, redeemIn)
	if err != nil {
		return nil, nil, err
	}

	purchaseIn := in
	purchaseIn.SubType = purchaseSub
	purchaseIn.ISIN = in.TargetISIN
	purchase, err := u.orderUC.Prepare(ctx, purchaseIn)
	if err != nil {
		return nil, nil, err
	}

	groupID := uuid.NewString()
	redeem.GroupID = groupID
	purchase.GroupID = groupID
	redeem.Details.LinkedOrderID = purchase.ID
	purchase.Details.LinkedOrderID = redeem.ID

	intent := &model.PairIntent{
		GroupID:       groupID,
		Kind:          kind,
		RedeemLegID:   redeem.ID,
		PurchaseLegID: purchase.ID,
		State:         model.PairStatePending,
	}
	if err := u.pairs.Create(ctx, intent); err != nil {
		return nil, nil, err
	}

	identity := redeem.StagingIdentity()
	u.locks.Lock(identity)
	defer u.locks.Unlock(identity)

	if err := u.cart.Empty(ctx, redeem.CustomerID, kind); err != nil {
		return nil, nil, err
	}

	payload := stagePayload(redeem)
	itemID, err := u.gateway.AddStagedItem(ctx, redeem.CustomerID, kind, payload)
	if err != nil {
		return nil, nil, err
	}
	redeem.Details.StagingItemID = itemID
	purchase.Details.StagingItemID = itemID

	if err := u.orders.Create(ctx, redeem); err != nil {
		return nil, nil, err
	}
	if err := u.orders.Create(ctx, purchase); err != nil {
		u.flagDivergent(ctx, intent, "purchase leg write failed", err)
		return nil, nil, fmt.Errorf("%w: purchase leg not written", domainErrors.ErrLegMismatch)
	}

	intent.StagingItemID = itemID
	intent.State = model.PairStateStaged
	if err := u.pairs.Update(ctx, intent); err != nil {
		return nil, nil, err
	}

	if err := u.consent.Issue(ctx, redeem); err != nil {
		return nil, nil, err
	}

	return redeem, purchase, nil
}

// CheckoutPair executes the redeem leg's checkout and mirrors the execution
// ids onto the purchase leg. A mirror failure marks the pair divergent rather
// than pretending both legs advanced.
func (u *PairUseCase) CheckoutPair(ctx context.Context, redeem *model.Order) (*venue.CheckoutResult, error) {
	intent, err := u.pairs.GetByGroup(ctx, redeem.GroupID)
	if err != nil {
		return nil, err
	}

	result, err := u.checkout.Checkout(ctx, redeem)
	if err != nil {
		return nil, err
	}

	siblingID := redeem.Details.LinkedOrderID
	if siblingID == "" {
		siblingID = intent.PurchaseLegID
	}
	if err := u.orders.UpdateExecutionIDs(ctx, siblingID, model.OrderStatusCheckedOut, result.OrderIDs); err != nil {
		u.flagDivergent(ctx, intent, "execution id mirror failed", err)
		return result, fmt.Errorf("%w: sibling leg %s not updated", domainErrors.ErrLegMismatch, siblingID)
	}

	if err := u.pairs.SetState(ctx, intent.ID, model.PairStateComplete); err != nil {
		return result, err
	}
	return result, nil
}

// MirrorStatus applies a reconciled status to the sibling leg of a paired
// order. A sibling that cannot follow marks the pair divergent.
func (u *PairUseCase) MirrorStatus(ctx context.Context, order *model.Order, status model.OrderStatus) error {
	if order.Details.LinkedOrderID == "" {
		return nil
	}
	sibling, err := u.orders.GetByID(ctx, order.Details.LinkedOrderID)
	if err != nil {
		return err
	}
	if sibling.Status == status {
		return nil
	}
	if err := u.orderUC.Transition(ctx, sibling, status); err != nil {
		intent, getErr := u.pairs.GetByGroup(ctx, order.GroupID)
		if getErr == nil {
			u.flagDivergent(ctx, intent, "sibling status mirror failed", err)
		}
		return fmt.Errorf("%w: sibling %s stuck in %s", domainErrors.ErrLegMismatch, sibling.ID, sibling.Status)
	}
	return nil
}

// SweepIntents reports intents that never settled. PENDING rows older than
// maxAge mean a crash between the leg writes; DIVERGENT rows mean a detected
// mismatch. Both are surfaced for operators, never auto-healed.
func (u *PairUseCase) SweepIntents(ctx context.Context, maxAge time.Duration, limit int) (int, error) {
	intents, err := u.pairs.ListUnsettled(ctx, limit)
	if err != nil {
		return 0, err
	}

	flagged := 0
	now := time.Now()
	for i := range intents {
		intent := &intents[i]
		switch intent.State {
		case model.PairStatePending:
			if now.Sub(intent.CreatedAt) < maxAge {
				continue
			}
			u.logger.Warn("pair intent stuck in PENDING",
				slog.String("intent", intent.ID),
				slog.String("group", intent.GroupID),
				slog.Duration("age", now.Sub(intent.CreatedAt)),
			)
			flagged++
		case model.PairStateDivergent:
			u.logger.Warn("pair intent divergent",
				slog.String("intent", intent.ID),
				slog.String("group", intent.GroupID),
			)
			flagged++
		}
	}
	return flagged, nil
}

func (u *PairUseCase) flagDivergent(ctx context.Context, intent *model.PairIntent, reason string, cause error) {
	u.logger.Error("pair diverged",
		slog.String("intent", intent.ID),
		slog.String("group", intent.GroupID),
		slog.String("reason", reason),
		slog.String("error", cause.Error()),
	)
	if err := u.pairs.SetState(ctx, intent.ID, model.PairStateDivergent); err != nil {
		u.logger.Error("divergent state write failed",
			slog.String("intent", intent.ID),
			slog.String("error", err.Error()),
		)
	}
	intent.State = model.PairStateDivergent
}
