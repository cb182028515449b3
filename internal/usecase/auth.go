package usecase

import (
	"context"
	"errors"
	"log/slog"

	domainErrors "github.com/wealthdesk/fundmart/internal/domain/errors"
	"github.com/wealthdesk/fundmart/internal/domain/model"
	"github.com/wealthdesk/fundmart/internal/domain/repository"
	"github.com/wealthdesk/fundmart/internal/pkg/auth"
)

// AuthUseCase handles advisor registration and credential-based login.
type AuthUseCase struct {
	advisors repository.AdvisorRepository
	hasher   auth.PasswordHasher
	tokens   auth.Strategy
	logger   *slog.Logger
}

// NewAuthUseCase constructs AuthUseCase.
func NewAuthUseCase(advisors repository.AdvisorRepository, hasher auth.PasswordHasher, tokens auth.Strategy, logger *slog.Logger) *AuthUseCase {
	return &AuthUseCase{advisors: advisors, hasher: hasher, tokens: tokens, logger: logger}
}

// Register creates an advisor account and returns a session token.
func (u *AuthUseCase) Register(ctx context.Context, login, password string) (string, error) {
	hash, err := u.hasher.Hash(password)
	if err != nil {
		return "", err
	}

	advisor, err := u.advisors.Create(ctx, login, hash)
	if err != nil {
		return "", err
	}

	return u.tokens.IssueToken(advisor.ID)
}

// Authenticate verifies advisor credentials and returns a session token.
// Unknown logins and wrong passwords are indistinguishable to the caller.
func (u *AuthUseCase) Authenticate(ctx context.Context, login, password string) (string, error) {
	advisor, err := u.advisors.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return "", domainErrors.ErrInvalidCredentials
		}
		return "", err
	}

	if err := u.hasher.Compare(advisor.PasswordHash, password); err != nil {
		return "", domainErrors.ErrInvalidCredentials
	}

	return u.tokens.IssueToken(advisor.ID)
}

// ParseToken validates a session token and returns the subject id.
func (u *AuthUseCase) ParseToken(token string) (string, error) {
	return u.tokens.ParseToken(token)
}

// GetByID loads one advisor.
func (u *AuthUseCase) GetByID(ctx context.Context, id string) (*model.Advisor, error) {
	return u.advisors.GetByID(ctx, id)
}
