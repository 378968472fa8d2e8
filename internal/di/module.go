package di

import (
	"github.com/vkotelnikov/codemart/internal/adapter/gateway"
	"github.com/vkotelnikov/codemart/internal/app"
	"github.com/vkotelnikov/codemart/internal/config"
	"github.com/vkotelnikov/codemart/internal/logger"
	"github.com/vkotelnikov/codemart/internal/pkg/auth"
	"github.com/vkotelnikov/codemart/internal/server/http/handlers"
	"github.com/vkotelnikov/codemart/internal/server/http/router"
	"github.com/vkotelnikov/codemart/internal/storage/postgres"
	"github.com/vkotelnikov/codemart/internal/usecase"
	"go.uber.org/fx"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		gateway.Module,
		usecase.Module,
		app.Module,
		fx.Provide(func(f *app.StoreFacade) handlers.StoreFacade { return f }),
		router.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
