package usecase

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/Arvinajith/online-event-server/internal/adapter/payment"
	"github.com/Arvinajith/online-event-server/internal/alert"
	"github.com/Arvinajith/online-event-server/internal/config"
	"github.com/Arvinajith/online-event-server/internal/domain/repository"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	NewInventoryUseCase,
	NewEventUseCase,
	newPurchaseUseCase,
)

type purchaseParams struct {
	fx.In

	Events   repository.EventRepository
	Orders   repository.OrderRepository
	Ledger   *InventoryUseCase
	Payments payment.Client `optional:"true"`
	Alerter  alert.Alerter
	Config   *config.Config
	Logger   *slog.Logger
}

func newPurchaseUseCase(p purchaseParams) *PurchaseUseCase {
	return NewPurchaseUseCase(p.Events, p.Orders, p.Ledger, p.Payments, p.Alerter, p.Config.Currency, p.Logger)
}
