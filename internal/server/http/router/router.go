package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/vkotelnikov/codemart/internal/server/http/handlers"
	"github.com/vkotelnikov/codemart/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware. The webhook and
// the public availability count stay outside the auth group; admin routes are
// gated by the shared admin key.
func Setup(facade handlers.StoreFacade, adminKey string, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	authHandler := handlers.NewAuthHandler(facade)
	checkoutHandler := handlers.NewCheckoutHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade)
	webhookHandler := handlers.NewWebhookHandler(facade)
	stockHandler := handlers.NewStockHandler(facade)

	api := engine.Group("/api")
	api.POST("/user/register", authHandler.Register)
	api.POST("/user/login", authHandler.Login)
	api.POST("/payments/notify", webhookHandler.Notify)
	api.GET("/products/:id/stock", stockHandler.Count)

	authed := api.Group("")
	authed.Use(middleware.AuthRequired(facade))
	authed.POST("/checkout", checkoutHandler.Create)
	authed.GET("/orders", orderHandler.List)
	authed.GET("/orders/:id", orderHandler.Get)
	authed.GET("/orders/:id/status", orderHandler.Status)
	authed.POST("/orders/:id/resume", checkoutHandler.Resume)
	authed.POST("/orders/:id/cancel", checkoutHandler.Cancel)
	authed.POST("/orders/:id/rating", orderHandler.Rate)

	admin := api.Group("/admin")
	admin.Use(middleware.AdminRequired(adminKey))
	admin.POST("/products/:id/stock", stockHandler.Import)
	admin.DELETE("/stock/:id", stockHandler.Delete)

	return engine
}
