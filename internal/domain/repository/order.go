package repository

import (
	"context"

	"github.com/wealthdesk/fundmart/internal/domain/model"
)

// OrderRepository describes persistence operations with orders.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	GetByID(ctx context.Context, id string) (*model.Order, error)
	ListByCustomer(ctx context.Context, customerID string) ([]model.Order, error)
	ListByGroup(ctx context.Context, groupID string) ([]model.Order, error)
	SelectBatchForReconciliation(ctx context.Context, limit int) ([]model.Order, error)
	UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error
	UpdateStatusByGroup(ctx context.Context, groupID string, status model.OrderStatus) error
	UpdateConsentSecrets(ctx context.Context, orderID string, phoneHash, emailHash *string) error
	MarkConsentGiven(ctx context.Context, orderID string) error
	UpdateStagingItem(ctx context.Context, orderID, stagingItemID string) error
	UpdateExecutionIDs(ctx context.Context, orderID string, status model.OrderStatus, upstreamIDs []string) error
}
