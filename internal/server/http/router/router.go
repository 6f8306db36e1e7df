package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/Arvinajith/online-event-server/internal/server/http/handlers"
	"github.com/Arvinajith/online-event-server/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.TicketingFacade, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	eventHandler := handlers.NewEventHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade)
	webhookHandler := handlers.NewWebhookHandler(facade, logger)

	api := engine.Group("/api")

	events := api.Group("/events")
	events.GET("", eventHandler.List)
	events.GET("/:id", eventHandler.Get)
	events.POST("", middleware.AuthRequired(facade), eventHandler.Create)

	orders := api.Group("/orders")
	orders.POST("/webhook", webhookHandler.Handle)

	ordersAuth := orders.Group("")
	ordersAuth.Use(middleware.AuthRequired(facade))
	ordersAuth.POST("/checkout", orderHandler.Checkout)
	ordersAuth.GET("/mine", orderHandler.List)

	return engine
}
