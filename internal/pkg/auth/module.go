package auth

import (
	"go.uber.org/fx"

	"github.com/Arvinajith/online-event-server/internal/config"
)

// Module wires the token strategy for dependency injection.
var Module = fx.Provide(
	func(cfg *config.Config) TokenStrategy {
		return NewHMACStrategy(cfg.AuthTokenSecret, Options{})
	},
)
