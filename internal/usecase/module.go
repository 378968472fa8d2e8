package usecase

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/vkotelnikov/codemart/internal/adapter/gateway"
	"github.com/vkotelnikov/codemart/internal/config"
	"github.com/vkotelnikov/codemart/internal/domain/repository"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	NewAuthUseCase,
	NewOrderUseCase,
	NewStockUseCase,
	newCheckoutUseCase,
	newSettlementUseCase,
)

type checkoutParams struct {
	fx.In

	Orders   repository.OrderRepository
	Products repository.ProductRepository
	Users    repository.UserRepository
	Gateway  gateway.Client
	Config   *config.Config
	Logger   *slog.Logger
}

func newCheckoutUseCase(p checkoutParams) *CheckoutUseCase {
	return NewCheckoutUseCase(p.Orders, p.Products, p.Users, p.Gateway, p.Config.ReservationTTL, p.Logger)
}

type settlementParams struct {
	fx.In

	Orders  repository.OrderRepository
	Gateway gateway.Client
	Config  *config.Config
	Logger  *slog.Logger
}

func newSettlementUseCase(p settlementParams) *SettlementUseCase {
	return NewSettlementUseCase(p.Orders, p.Gateway, p.Config.GatewayServerKey, p.Logger)
}
