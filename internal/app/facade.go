package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/wealthdesk/fundmart/internal/adapter/venue"
	domainErrors "github.com/wealthdesk/fundmart/internal/domain/errors"
	"github.com/wealthdesk/fundmart/internal/domain/model"
	"github.com/wealthdesk/fundmart/internal/metrics"
	"github.com/wealthdesk/fundmart/internal/usecase"
)

// OrderDeskFacade aggregates the use cases behind one application surface
// consumed by the HTTP layer and the reconciliation worker.
type OrderDeskFacade struct {
	auth       *usecase.AuthUseCase
	login      *usecase.LoginUseCase
	orders     *usecase.OrderUseCase
	consent    *usecase.ConsentUseCase
	checkout   *usecase.CheckoutUseCase
	pairs      *usecase.PairUseCase
	gateway    venue.Gateway
	classifier usecase.MessageClassifier
	metrics    *metrics.Metrics
	logger     *slog.Logger

	pairPendingMaxAge time.Duration
	pairSweepLimit    int
}

// NewOrderDeskFacade constructs the facade.
func NewOrderDeskFacade(
	auth *usecase.AuthUseCase,
	login *usecase.LoginUseCase,
	orders *usecase.OrderUseCase,
	consent *usecase.ConsentUseCase,
	checkout *usecase.CheckoutUseCase,
	pairs *usecase.PairUseCase,
	gateway venue.Gateway,
	classifier usecase.MessageClassifier,
	m *metrics.Metrics,
	logger *slog.Logger,
	pairPendingMaxAge time.Duration,
	pairSweepLimit int,
) *OrderDeskFacade {
	return &OrderDeskFacade{
		auth:              auth,
		login:             login,
		orders:            orders,
		consent:           consent,
		checkout:          checkout,
		pairs:             pairs,
		gateway:           gateway,
		classifier:        classifier,
		metrics:           m,
		logger:            logger,
		pairPendingMaxAge: pairPendingMaxAge,
		pairSweepLimit:    pairSweepLimit,
	}
}

// Register creates an advisor account and returns a session token.
func (f *OrderDeskFacade) Register(ctx context.Context, login, password string) (string, error) {
	return f.auth.Register(ctx, login, password)
}

// Authenticate verifies advisor credentials and returns a session token.
func (f *OrderDeskFacade) Authenticate(ctx context.Context, login, password string) (string, error) {
	return f.auth.Authenticate(ctx, login, password)
}

// ParseToken validates a session token and returns the subject id.
func (f *OrderDeskFacade) ParseToken(token string) (string, error) {
	return f.auth.ParseToken(token)
}

// RequestLoginCode issues a customer login code.
func (f *OrderDeskFacade) RequestLoginCode(ctx context.Context, phone string) error {
	if err := f.login.RequestCode(ctx, phone); err != nil {
		return err
	}
	f.metrics.CodesIssued.WithLabelValues("login").Inc()
	return nil
}

// VerifyLoginCode checks a customer login code and returns a session token.
func (f *OrderDeskFacade) VerifyLoginCode(ctx context.Context, phone, code string) (string, error) {
	return f.login.VerifyCode(ctx, phone, code)
}

// CreateOrder opens one order, or both legs of a switch/STP, stages the cart
// and starts consent collection. The returned order is the consent-bearing
// leg, advanced to PENDING once it sits in the venue cart.
func (f *OrderDeskFacade) CreateOrder(ctx context.Context, in usecase.CreateOrderInput) (*model.Order, error) {
	kind := model.KindForSubType(in.SubType)

	if kind == model.KindSwitch || kind == model.KindSTP {
		redeem, purchase, err := f.pairs.CreatePair(ctx, kind, in)
		if err != nil {
			return nil, err
		}
		f.metrics.OrdersCreated.WithLabelValues(string(kind)).Inc()
		f.metrics.CodesIssued.WithLabelValues("consent").Inc()
		for _, leg := range []*model.Order{redeem, purchase} {
			if err := f.orders.Transition(ctx, leg, model.OrderStatusPending); err != nil {
				f.logger.Error("leg did not advance to PENDING",
					slog.String("order", leg.ID),
					slog.String("error", err.Error()),
				)
			}
		}
		return redeem, nil
	}

	order, err := f.orders.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	f.metrics.OrdersCreated.WithLabelValues(string(kind)).Inc()

	if err := f.checkout.StageAndNotify(ctx, order); err != nil {
		return nil, err
	}
	f.metrics.CodesIssued.WithLabelValues("consent").Inc()

	if err := f.orders.Transition(ctx, order, model.OrderStatusPending); err != nil {
		f.logger.Error("order did not advance to PENDING",
			slog.String("order", order.ID),
			slog.String("error", err.Error()),
		)
	}
	return order, nil
}

// Orders lists a customer's orders.
func (f *OrderDeskFacade) Orders(ctx context.Context, customerID string) ([]model.Order, error) {
	return f.orders.ListByCustomer(ctx, customerID)
}

// Order fetches one order.
func (f *OrderDeskFacade) Order(ctx context.Context, id string) (*model.Order, error) {
	return f.orders.GetByID(ctx, id)
}

// VerifyConsent validates both consent codes and, on success, immediately
// checks the order out at the venue. Paired orders mirror the checkout onto
// the sibling leg.
func (f *OrderDeskFacade) VerifyConsent(ctx context.Context, orderID, phoneCode, emailCode string) (*model.Order, *venue.CheckoutResult, error) {
	order, err := f.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}

	if err := f.consent.Verify(ctx, order, phoneCode, emailCode); err != nil {
		return nil, nil, err
	}

	var result *venue.CheckoutResult
	if order.Kind == model.KindSwitch || order.Kind == model.KindSTP {
		result, err = f.pairs.CheckoutPair(ctx, order)
	} else {
		result, err = f.checkout.Checkout(ctx, order)
	}
	if err != nil {
		f.metrics.Checkouts.WithLabelValues("failure").Inc()
		if errors.Is(err, domainErrors.ErrLegMismatch) {
			f.metrics.PairDivergences.Inc()
		}
		return order, nil, err
	}
	f.metrics.Checkouts.WithLabelValues("success").Inc()
	return order, result, nil
}

// ResendConsent reissues both consent codes for an order.
func (f *OrderDeskFacade) ResendConsent(ctx context.Context, orderID string) error {
	order, err := f.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if err := f.consent.Issue(ctx, order); err != nil {
		return err
	}
	f.metrics.CodesIssued.WithLabelValues("consent").Inc()
	return nil
}

// OrdersForReconciliation returns the next batch of in-flight orders.
func (f *OrderDeskFacade) OrdersForReconciliation(ctx context.Context, limit int) ([]model.Order, error) {
	return f.orders.SelectBatchForReconciliation(ctx, limit)
}

// CheckOrderStatus asks the venue for the current state of an order's
// upstream leg.
func (f *OrderDeskFacade) CheckOrderStatus(ctx context.Context, order *model.Order) (*model.StatusReport, error) {
	if order.OrderID == nil || *order.OrderID == "" {
		return nil, domainErrors.ErrNotFound
	}
	return f.gateway.FetchStatus(ctx, order.Kind, *order.OrderID)
}

// ApplyStatusReport folds one venue report into the canonical ladder. The
// message classifier runs before status translation so known failure wording
// wins over whatever status word accompanies it.
func (f *OrderDeskFacade) ApplyStatusReport(ctx context.Context, order *model.Order, report *model.StatusReport) error {
	if f.classifier.Classify(report.Message) == usecase.ClassBidLimitReached {
		if err := f.orders.MarkGroupLimitReached(ctx, order.GroupID); err != nil {
			f.metrics.Reconciliations.WithLabelValues("error").Inc()
			return err
		}
		f.metrics.Reconciliations.WithLabelValues("limit_reached").Inc()
		return nil
	}

	target, err := usecase.TranslateStatus(report.Status, order.ProductType, report.AdminAccepted)
	if err != nil {
		f.metrics.Reconciliations.WithLabelValues("unmapped").Inc()
		return err
	}

	if target == order.Status {
		f.metrics.Reconciliations.WithLabelValues("unchanged").Inc()
		return nil
	}

	if err := f.orders.Transition(ctx, order, target); err != nil {
		f.metrics.Reconciliations.WithLabelValues("rejected").Inc()
		return err
	}

	if order.Details.LinkedOrderID != "" {
		if err := f.pairs.MirrorStatus(ctx, order, target); err != nil {
			if errors.Is(err, domainErrors.ErrLegMismatch) {
				f.metrics.PairDivergences.Inc()
			}
			f.metrics.Reconciliations.WithLabelValues("mirror_failed").Inc()
			return err
		}
	}

	f.metrics.Reconciliations.WithLabelValues("applied").Inc()
	return nil
}

// SweepPairs reports unsettled pair intents.
func (f *OrderDeskFacade) SweepPairs(ctx context.Context) (int, error) {
	return f.pairs.SweepIntents(ctx, f.pairPendingMaxAge, f.pairSweepLimit)
}
