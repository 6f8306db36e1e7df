package di

import (
	"go.uber.org/fx"

	"github.com/Arvinajith/online-event-server/internal/adapter/payment"
	"github.com/Arvinajith/online-event-server/internal/alert"
	"github.com/Arvinajith/online-event-server/internal/app"
	"github.com/Arvinajith/online-event-server/internal/config"
	"github.com/Arvinajith/online-event-server/internal/logger"
	pkgAuth "github.com/Arvinajith/online-event-server/internal/pkg/auth"
	"github.com/Arvinajith/online-event-server/internal/server/http/router"
	"github.com/Arvinajith/online-event-server/internal/storage/postgres"
	"github.com/Arvinajith/online-event-server/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		alert.Module,
		pkgAuth.Module,
		postgres.Module,
		payment.Module,
		usecase.Module,
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
