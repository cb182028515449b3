package otpstore

import (
	"context"

	"go.uber.org/fx"

	"github.com/wealthdesk/fundmart/internal/config"
)

// Module exposes the login OTP store to the fx graph.
var Module = fx.Provide(newStore)

type storeParams struct {
	fx.In

	Context context.Context
	Config  *config.Config
}

func newStore(p storeParams) (Store, error) {
	return NewRedisStore(p.Context, p.Config.RedisAddress)
}
