package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/wealthdesk/fundmart/internal/adapter/notify"
	"github.com/wealthdesk/fundmart/internal/adapter/otpstore"
	domainErrors "github.com/wealthdesk/fundmart/internal/domain/errors"
	"github.com/wealthdesk/fundmart/internal/domain/repository"
	"github.com/wealthdesk/fundmart/internal/pkg/auth"
	"github.com/wealthdesk/fundmart/internal/pkg/otp"
)

const loginCodeDigits = 4

// LoginUseCase implements passwordless customer login with a phone one-time
// code. Hashes live in the code store under the store's TTL; the order tables
// are never touched.
type LoginUseCase struct {
	customers repository.CustomerRepository
	store     otpstore.Store
	hasher    otp.Hasher
	tokens    auth.Strategy
	notifier  notify.Dispatcher
	ttl       time.Duration
	logger    *slog.Logger
}

// NewLoginUseCase constructs LoginUseCase.
func NewLoginUseCase(customers repository.CustomerRepository, store otpstore.Store, hasher otp.Hasher, tokens auth.Strategy, notifier notify.Dispatcher, ttl time.Duration, logger *slog.Logger) *LoginUseCase {
	return &LoginUseCase{
		customers: customers,
		store:     store,
		hasher:    hasher,
		tokens:    tokens,
		notifier:  notifier,
		ttl:       ttl,
		logger:    logger,
	}
}

// RequestCode issues a login code to the customer's phone. A repeat request
// replaces the previous code.
func (u *LoginUseCase) RequestCode(ctx context.Context, phone string) error {
	customer, err := u.customers.GetByPhone(ctx, phone)
	if err != nil {
		return err
	}

	code, err := otp.GenerateCode(loginCodeDigits)
	if err != nil {
		return err
	}
	hash, err := u.hasher.Hash(code)
	if err != nil {
		return err
	}

	if err := u.store.Put(ctx, customer.ID, hash, u.ttl); err != nil {
		return err
	}

	if err := u.notifier.SendCode(ctx, notify.ChannelPhone, customer.Phone, code); err != nil {
		u.logger.Error("login code dispatch failed",
			slog.String("customer", customer.ID),
			slog.String("error", err.Error()),
		)
	}
	return nil
}

// VerifyCode checks the submitted code and returns a session token. The code
// is single use; the stored hash is deleted on success.
func (u *LoginUseCase) VerifyCode(ctx context.Context, phone, code string) (string, error) {
	customer, err := u.customers.GetByPhone(ctx, phone)
	if err != nil {
		return "", err
	}

	hash, err := u.store.Get(ctx, customer.ID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return "", domainErrors.ErrOTPExpired
		}
		return "", err
	}

	if err := u.hasher.Compare(hash, code); err != nil {
		return "", domainErrors.ErrInvalidOTP
	}

	if err := u.store.Delete(ctx, customer.ID); err != nil {
		u.logger.Error("login code cleanup failed",
			slog.String("customer", customer.ID),
			slog.String("error", err.Error()),
		)
	}

	return u.tokens.IssueToken(customer.ID)
}
