package router

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/Arvinajith/online-event-server/internal/app"
)

// Module registers HTTP router construction for fx runtime.
var Module = fx.Provide(
	func(facade *app.TicketingFacade, logger *slog.Logger) *gin.Engine {
		return Setup(facade, logger)
	},
)
