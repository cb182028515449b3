package router

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/wealthdesk/fundmart/internal/app"
	"github.com/wealthdesk/fundmart/internal/metrics"
)

// Module registers HTTP router construction for fx runtime.
var Module = fx.Provide(newRouter)

type routerParams struct {
	fx.In

	Facade  *app.OrderDeskFacade
	Metrics *metrics.Metrics
	Logger  *slog.Logger
}

func newRouter(p routerParams) *gin.Engine {
	return Setup(p.Facade, p.Metrics, p.Logger)
}
