package di

import (
	"go.uber.org/fx"

	"github.com/wealthdesk/fundmart/internal/adapter/notify"
	"github.com/wealthdesk/fundmart/internal/adapter/otpstore"
	"github.com/wealthdesk/fundmart/internal/adapter/product"
	"github.com/wealthdesk/fundmart/internal/adapter/venue"
	"github.com/wealthdesk/fundmart/internal/app"
	"github.com/wealthdesk/fundmart/internal/config"
	"github.com/wealthdesk/fundmart/internal/logger"
	"github.com/wealthdesk/fundmart/internal/metrics"
	"github.com/wealthdesk/fundmart/internal/pkg/auth"
	"github.com/wealthdesk/fundmart/internal/server/http/router"
	"github.com/wealthdesk/fundmart/internal/storage/postgres"
	"github.com/wealthdesk/fundmart/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		venue.Module,
		product.Module,
		notify.Module,
		otpstore.Module,
		metrics.Module,
		usecase.Module,
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
