package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wealthdesk/fundmart/internal/adapter/venue"
	domainErrors "github.com/wealthdesk/fundmart/internal/domain/errors"
	"github.com/wealthdesk/fundmart/internal/domain/model"
)

// CartService manages the remote staging area for one customer and kind.
type CartService struct {
	gateway venue.Gateway
	logger  *slog.Logger
}

// NewCartService constructs CartService.
func NewCartService(gateway venue.Gateway, logger *slog.Logger) *CartService {
	return &CartService{gateway: gateway, logger: logger}
}

// Empty removes every staged item for the customer and kind. An already empty
// cart is success. If any removal fails the cart is inconsistent and staging
// must not proceed.
func (s *CartService) Empty(ctx context.Context, customerID string, kind model.TransactionKind) error {
	items, err := s.gateway.ListStagedItems(ctx, customerID, kind)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}

	failed := 0
	for _, item := range items {
		if err := s.gateway.RemoveStagedItem(ctx, customerID, kind, item.ID); err != nil {
			s.logger.Error("staged item removal failed",
				slog.String("customer", customerID),
				slog.String("kind", string(kind)),
				slog.String("item", item.ID),
				slog.String("error", err.Error()),
			)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d staged items not removed", domainErrors.ErrCartInconsistent, failed, len(items))
	}
	return nil
}
