package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/wealthdesk/fundmart/internal/adapter/venue"
	"github.com/wealthdesk/fundmart/internal/config"
	"github.com/wealthdesk/fundmart/internal/metrics"
	"github.com/wealthdesk/fundmart/internal/usecase"
	"github.com/wealthdesk/fundmart/internal/worker"
)

// Module wires application services, runtime components, and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		newFacade,
		newHTTPServer,
		newReconciler,
	),
	fx.Invoke(registerLifecycle),
)

const pairSweepLimit = 100

type facadeParams struct {
	fx.In

	Auth       *usecase.AuthUseCase
	Login      *usecase.LoginUseCase
	Orders     *usecase.OrderUseCase
	Consent    *usecase.ConsentUseCase
	Checkout   *usecase.CheckoutUseCase
	Pairs      *usecase.PairUseCase
	Gateway    venue.Gateway
	Classifier usecase.MessageClassifier
	Metrics    *metrics.Metrics
	Config     *config.Config
	Logger     *slog.Logger
}

func newFacade(p facadeParams) *OrderDeskFacade {
	return NewOrderDeskFacade(
		p.Auth,
		p.Login,
		p.Orders,
		p.Consent,
		p.Checkout,
		p.Pairs,
		p.Gateway,
		p.Classifier,
		p.Metrics,
		p.Logger,
		p.Config.PairPendingMaxAge,
		pairSweepLimit,
	)
}

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

func newHTTPServer(p serverParams) *http.Server {
	return &http.Server{
		Addr:    p.Config.RunAddress,
		Handler: p.Router,
	}
}

type workerParams struct {
	fx.In

	Facade *OrderDeskFacade
	Config *config.Config
	Logger *slog.Logger
}

func newReconciler(p workerParams) *worker.Reconciler {
	return worker.NewReconciler(
		p.Facade,
		p.Config.ReconcileInterval,
		p.Config.PairSweepInterval,
		p.Config.MaxReconcileBatch,
		p.Config.WorkerPoolSize,
		p.Logger,
	)
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Worker     *worker.Reconciler
	Config     *config.Config
}

func registerLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Logger.Info("starting fundmart", slog.String("addr", p.Server.Addr))
			p.Worker.Start(ctx)
			go func() {
				if err := p.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			p.Worker.Stop()

			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			if err := p.Server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			p.Logger.Info("fundmart stopped")
			return nil
		},
	})
}
