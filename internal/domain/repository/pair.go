package repository

import (
	"context"

	"github.com/wealthdesk/fundmart/internal/domain/model"
)

// PairIntentRepository persists multi-leg coordination records.
type PairIntentRepository interface {
	Create(ctx context.Context, intent *model.PairIntent) error
	GetByGroup(ctx context.Context, groupID string) (*model.PairIntent, error)
	Update(ctx context.Context, intent *model.PairIntent) error
	SetState(ctx context.Context, intentID string, state model.PairState) error
	ListUnsettled(ctx context.Context, limit int) ([]model.PairIntent, error)
}
