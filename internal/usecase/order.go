package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wealthdesk/fundmart/internal/adapter/product"
	domainErrors "github.com/wealthdesk/fundmart/internal/domain/errors"
	"github.com/wealthdesk/fundmart/internal/domain/model"
	"github.com/wealthdesk/fundmart/internal/domain/repository"
	"github.com/wealthdesk/fundmart/internal/pkg/ids"
)

// CreateOrderInput carries everything needed to open one transaction leg.
type CreateOrderInput struct {
	CustomerID  string
	AdvisorID   string
	AccountID   string
	ProductType model.ProductType
	SubType     model.SubType
	ISIN        string
	Units       decimal.Decimal
	FolioNumber string

	Installments   int
	InstallmentDay int
	Frequency      string
	SourceISIN     string
	TargetISIN     string
}

// OrderUseCase owns the canonical order lifecycle.
type OrderUseCase struct {
	orders    repository.OrderRepository
	customers repository.CustomerRepository
	products  product.Client
	logger    *slog.Logger
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(orders repository.OrderRepository, customers repository.CustomerRepository, products product.Client, logger *slog.Logger) *OrderUseCase {
	return &OrderUseCase{orders: orders, customers: customers, products: products, logger: logger}
}

// Prepare validates the request against customer and product state and builds
// an unsaved order in CREATED status. Pair creation uses it for each leg.
func (u *OrderUseCase) Prepare(ctx context.Context, in CreateOrderInput) (*model.Order, error) {
	if err := ids.Validate(in.CustomerID); err != nil {
		return nil, err
	}

	if _, err := u.customers.GetByID(ctx, in.CustomerID); err != nil {
		return nil, err
	}

	prod, err := u.products.GetProduct(ctx, in.ISIN)
	if err != nil {
		return nil, err
	}
	if !prod.Tradeable {
		return nil, domainErrors.ErrProductUnavailable
	}

	order := &model.Order{
		ID:          ids.New(),
		GroupID:     uuid.NewString(),
		ProductType: in.ProductType,
		SubType:     in.SubType,
		Kind:        model.KindForSubType(in.SubType),
		CustomerID:  in.CustomerID,
		AdvisorID:   in.AdvisorID,
		AccountID:   in.AccountID,
		ISIN:        in.ISIN,
		Units:       in.Units,
		FolioNumber: in.FolioNumber,
		Status:      model.OrderStatusCreated,
		Details: model.MutualFundDetails{
			Installments:   in.Installments,
			InstallmentDay: in.InstallmentDay,
			Frequency:      in.Frequency,
			SourceISIN:     in.SourceISIN,
			TargetISIN:     in.TargetISIN,
		},
	}

	if !in.Units.IsZero() {
		quote, err := u.products.GetPrice(ctx, in.ISIN, in.Units)
		if err != nil {
			return nil, err
		}
		order.UnitPrice = quote.Price
		order.UserAmount = quote.UserAmount
	}

	return order, nil
}

// Create opens one order record in CREATED status.
func (u *OrderUseCase) Create(ctx context.Context, in CreateOrderInput) (*model.Order, error) {
	order, err := u.Prepare(ctx, in)
	if err != nil {
		return nil, err
	}
	if err := u.orders.Create(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// Transition moves the order to target if the move is legal, persisting the
// change as a single update. Illegal moves are reported and leave the record
// untouched.
func (u *OrderUseCase) Transition(ctx context.Context, order *model.Order, target model.OrderStatus) error {
	if !order.Status.CanTransition(target) {
		u.logger.Warn("illegal status transition rejected",
			slog.String("order", order.ID),
			slog.String("from", order.Status.String()),
			slog.String("to", target.String()),
		)
		return fmt.Errorf("%w: %s -> %s", domainErrors.ErrInvalidTransition, order.Status, target)
	}
	if err := u.orders.UpdateStatus(ctx, order.ID, target); err != nil {
		return err
	}
	order.Status = target
	return nil
}

// GetByID fetches one order.
func (u *OrderUseCase) GetByID(ctx context.Context, id string) (*model.Order, error) {
	if err := ids.Validate(id); err != nil {
		return nil, err
	}
	return u.orders.GetByID(ctx, id)
}

// ListByCustomer returns orders sorted by creation time.
func (u *OrderUseCase) ListByCustomer(ctx context.Context, customerID string) ([]model.Order, error) {
	return u.orders.ListByCustomer(ctx, customerID)
}

// SelectBatchForReconciliation returns in-flight orders to reconcile.
func (u *OrderUseCase) SelectBatchForReconciliation(ctx context.Context, limit int) ([]model.Order, error) {
	return u.orders.SelectBatchForReconciliation(ctx, limit)
}

// MarkGroupLimitReached applies LIMIT_REACHED to every non-terminal order in
// the group.
func (u *OrderUseCase) MarkGroupLimitReached(ctx context.Context, groupID string) error {
	return u.orders.UpdateStatusByGroup(ctx, groupID, model.OrderStatusLimitReached)
}
