package product

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/wealthdesk/fundmart/internal/config"
)

// Module exposes product client implementation to fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	return NewHTTPClient(p.Config.ProductAddress, p.Logger)
}
