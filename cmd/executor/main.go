package main

import (
	"context"

	"equity_trader/internal/modules/config"
	"equity_trader/internal/modules/consumer"
	"equity_trader/internal/modules/executor"
	"equity_trader/internal/modules/health"
	"equity_trader/internal/modules/logging"
	"equity_trader/internal/modules/robinhood"
	"equity_trader/internal/modules/tracing"

	"go.uber.org/fx"
)

const serviceName = "executor"

func main() {
	fx.New(
		fx.Provide(
			func() context.Context {
				return context.Background()
			},
		),
		config.Module(config.RoleExecutor),
		logging.Module(serviceName),
		tracing.Module(serviceName),
		health.Module(),
		robinhood.Module(),
		executor.Module(),
		consumer.Module(),
	).Run()
}
