package venue

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/wealthdesk/fundmart/internal/config"
)

// Module exposes the venue gateway implementation to the fx graph.
var Module = fx.Provide(newGateway)

type gatewayParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newGateway(p gatewayParams) (Gateway, error) {
	return NewHTTPClient(p.Config.VenueAddress, p.Logger)
}
