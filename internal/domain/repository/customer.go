package repository

import (
	"context"

	"github.com/wealthdesk/fundmart/internal/domain/model"
)

// CustomerRepository describes persistence operations for customers.
type CustomerRepository interface {
	Create(ctx context.Context, customer *model.Customer) error
	GetByID(ctx context.Context, id string) (*model.Customer, error)
	GetByPhone(ctx context.Context, phone string) (*model.Customer, error)
}

// AdvisorRepository describes persistence operations for advisors.
type AdvisorRepository interface {
	Create(ctx context.Context, login, passwordHash string) (*model.Advisor, error)
	GetByLogin(ctx context.Context, login string) (*model.Advisor, error)
	GetByID(ctx context.Context, id string) (*model.Advisor, error)
}
