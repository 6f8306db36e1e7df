package payment

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/Arvinajith/online-event-server/internal/config"
)

// Module exposes the payment client to the fx graph. Without a secret key
// the provided Client is nil and the application runs in offline mode.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	if p.Config.StripeSecretKey == "" {
		p.Logger.Warn("payment provider not configured, purchases settle synchronously")
		return nil, nil
	}
	return NewStripeClient(p.Config.StripeSecretKey, p.Config.StripeWebhookSecret, p.Logger)
}
