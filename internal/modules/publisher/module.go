package publisher

import (
	"equity_trader/internal/modules/config"
	"equity_trader/internal/modules/publisher/service"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

func Module() fx.Option {
	return fx.Module("publisher",
		fx.Provide(
			func(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) *service.Kafka {
				k := service.NewKafka(service.Config{
					Brokers: cfg.Kafka.Brokers,
					Topic:   cfg.Kafka.Topic,
				}, log)
				// flushes pending batches
				lc.Append(fx.StopHook(k.Close))
				return k
			},
		),
	)
}
