package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/wealthdesk/fundmart/internal/adapter/notify"
	domainErrors "github.com/wealthdesk/fundmart/internal/domain/errors"
	"github.com/wealthdesk/fundmart/internal/domain/model"
	"github.com/wealthdesk/fundmart/internal/domain/repository"
	"github.com/wealthdesk/fundmart/internal/pkg/otp"
)

const consentCodeDigits = 4

// ConsentUseCase issues and verifies the dual-channel consent codes that gate
// checkout. Codes are stored hashed on the order and expire after a fixed TTL.
type ConsentUseCase struct {
	orders    repository.OrderRepository
	customers repository.CustomerRepository
	hasher    otp.Hasher
	notifier  notify.Dispatcher
	ttl       time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

// NewConsentUseCase constructs ConsentUseCase.
func NewConsentUseCase(orders repository.OrderRepository, customers repository.CustomerRepository, hasher otp.Hasher, notifier notify.Dispatcher, ttl time.Duration, logger *slog.Logger) *ConsentUseCase {
	return &ConsentUseCase{
		orders:    orders,
		customers: customers,
		hasher:    hasher,
		notifier:  notifier,
		ttl:       ttl,
		logger:    logger,
		now:       time.Now,
	}
}

// Issue generates fresh phone and email codes, persists their hashes and
// dispatches them. Reissuing invalidates any earlier pair. Delivery failures
// are logged; the hashes are already durable so verification stays possible
// once at least one channel gets through on a retry.
func (u *ConsentUseCase) Issue(ctx context.Context, order *model.Order) error {
	if order.Status.IsTerminal() || !order.Status.CanTransition(model.OrderStatusConsentGiven) {
		return fmt.Errorf("%w: consent not collectable in %s", domainErrors.ErrInvalidTransition, order.Status)
	}

	customer, err := u.customers.GetByID(ctx, order.CustomerID)
	if err != nil {
		return err
	}

	phoneCode, err := otp.GenerateCode(consentCodeDigits)
	if err != nil {
		return err
	}
	emailCode, err := otp.GenerateCode(consentCodeDigits)
	if err != nil {
		return err
	}

	phoneHash, err := u.hasher.Hash(phoneCode)
	if err != nil {
		return err
	}
	emailHash, err := u.hasher.Hash(emailCode)
	if err != nil {
		return err
	}

	if err := u.orders.UpdateConsentSecrets(ctx, order.ID, &phoneHash, &emailHash); err != nil {
		return err
	}
	order.PhoneSecret = &phoneHash
	order.EmailSecret = &emailHash
	requested := u.now()
	order.ConsentRequestedAt = &requested

	if err := u.notifier.SendCode(ctx, notify.ChannelPhone, customer.Phone, phoneCode); err != nil {
		u.logger.Error("phone code dispatch failed", slog.String("order", order.ID), slog.String("error", err.Error()))
	}
	if err := u.notifier.SendCode(ctx, notify.ChannelEmail, customer.Email, emailCode); err != nil {
		u.logger.Error("email code dispatch failed", slog.String("order", order.ID), slog.String("error", err.Error()))
	}

	return nil
}

// Verify checks both submitted codes against the stored hashes. Both must
// match; a single mismatch rejects the attempt without revealing which
// channel failed. Success records consent and clears the secrets, so a
// replayed pair can never verify twice.
func (u *ConsentUseCase) Verify(ctx context.Context, order *model.Order, phoneCode, emailCode string) error {
	if order.Status.IsTerminal() || !order.Status.CanTransition(model.OrderStatusConsentGiven) {
		return domainErrors.ErrOTPExpired
	}
	if order.PhoneSecret == nil || order.EmailSecret == nil {
		return domainErrors.ErrInvalidOTP
	}
	if order.ConsentRequestedAt == nil || u.now().Sub(*order.ConsentRequestedAt) > u.ttl {
		return domainErrors.ErrOTPExpired
	}

	phoneErr := u.hasher.Compare(*order.PhoneSecret, phoneCode)
	emailErr := u.hasher.Compare(*order.EmailSecret, emailCode)
	if phoneErr != nil || emailErr != nil {
		return domainErrors.ErrInvalidOTP
	}

	if err := u.orders.MarkConsentGiven(ctx, order.ID); err != nil {
		return err
	}
	order.IsConsentGiven = true
	order.IsApproved = true
	order.PhoneSecret = nil
	order.EmailSecret = nil
	order.Status = model.OrderStatusConsentGiven
	return nil
}
