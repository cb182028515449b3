package usecase

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/wealthdesk/fundmart/internal/adapter/notify"
	"github.com/wealthdesk/fundmart/internal/adapter/otpstore"
	"github.com/wealthdesk/fundmart/internal/adapter/venue"
	"github.com/wealthdesk/fundmart/internal/config"
	"github.com/wealthdesk/fundmart/internal/domain/repository"
	"github.com/wealthdesk/fundmart/internal/pkg/auth"
	"github.com/wealthdesk/fundmart/internal/pkg/keylock"
	"github.com/wealthdesk/fundmart/internal/pkg/otp"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	NewAuthUseCase,
	NewOrderUseCase,
	NewCartService,
	keylock.New,
	newCodeHasher,
	newConsentUseCase,
	newCheckoutUseCase,
	NewPairUseCase,
	newLoginUseCase,
	func() MessageClassifier { return NewSubstringClassifier() },
)

func newCodeHasher() otp.Hasher {
	return otp.NewBcryptHasher(0)
}

type consentParams struct {
	fx.In

	Orders    repository.OrderRepository
	Customers repository.CustomerRepository
	Hasher    otp.Hasher
	Notifier  notify.Dispatcher
	Config    *config.Config
	Logger    *slog.Logger
}

func newConsentUseCase(p consentParams) *ConsentUseCase {
	return NewConsentUseCase(p.Orders, p.Customers, p.Hasher, p.Notifier, p.Config.OTPTTL, p.Logger)
}

type checkoutParams struct {
	fx.In

	Orders    repository.OrderRepository
	Customers repository.CustomerRepository
	Gateway   venue.Gateway
	Cart      *CartService
	Consent   *ConsentUseCase
	Notifier  notify.Dispatcher
	Locks     *keylock.KeyedMutex
	Config    *config.Config
	Logger    *slog.Logger
}

func newCheckoutUseCase(p checkoutParams) *CheckoutUseCase {
	return NewCheckoutUseCase(p.Orders, p.Customers, p.Gateway, p.Cart, p.Consent, p.Notifier, p.Locks, p.Config.DefaultPartnerCode, p.Logger)
}

type loginParams struct {
	fx.In

	Customers repository.CustomerRepository
	Store     otpstore.Store
	Hasher    otp.Hasher
	Tokens    auth.Strategy
	Notifier  notify.Dispatcher
	Config    *config.Config
	Logger    *slog.Logger
}

func newLoginUseCase(p loginParams) *LoginUseCase {
	return NewLoginUseCase(p.Customers, p.Store, p.Hasher, p.Tokens, p.Notifier, p.Config.OTPTTL, p.Logger)
}
