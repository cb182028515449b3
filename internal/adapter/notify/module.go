package notify

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/wealthdesk/fundmart/internal/config"
)

// Module exposes notification dispatcher implementation to fx graph.
var Module = fx.Provide(newDispatcher)

type dispatcherParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newDispatcher(p dispatcherParams) (Dispatcher, error) {
	return NewHTTPClient(p.Config.NotifyAddress, p.Logger)
}
