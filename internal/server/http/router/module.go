package router

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/vkotelnikov/codemart/internal/config"
	"github.com/vkotelnikov/codemart/internal/server/http/handlers"
)

// Module registers HTTP router construction for fx runtime.
var Module = fx.Provide(newEngine)

type routerParams struct {
	fx.In

	Facade handlers.StoreFacade
	Config *config.Config
	Logger *slog.Logger
}

func newEngine(p routerParams) *gin.Engine {
	return Setup(p.Facade, p.Config.AdminKey, p.Logger)
}
