package gateway

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/vkotelnikov/codemart/internal/config"
)

// Module exposes the gateway client implementation to the fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	return NewHTTPClient(p.Config.GatewayBaseURL, p.Config.GatewayServerKey, p.Logger)
}
