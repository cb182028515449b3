package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/wealthdesk/fundmart/internal/metrics"
	"github.com/wealthdesk/fundmart/internal/server/http/handlers"
	"github.com/wealthdesk/fundmart/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.OrderDeskFacade, m *metrics.Metrics, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	authHandler := handlers.NewAuthHandler(facade)
	loginHandler := handlers.NewLoginHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade)

	engine.GET("/metrics", gin.WrapH(m.Handler()))

	api := engine.Group("/api")
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/otp/request", loginHandler.RequestCode)
	auth.POST("/otp/verify", loginHandler.VerifyCode)

	orders := api.Group("/orders")
	orders.Use(middleware.AuthRequired(facade))
	orders.POST("", orderHandler.Create)
	orders.GET("", orderHandler.List)
	orders.GET("/:id", orderHandler.Get)
	orders.POST("/:id/consent/verify", orderHandler.VerifyConsent)
	orders.POST("/:id/consent/resend", orderHandler.ResendConsent)

	return engine
}
