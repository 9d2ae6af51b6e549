package consumer

import (
	"context"
	"sync"

	"equity_trader/internal/modules/config"
	"equity_trader/internal/modules/consumer/service"
	executor "equity_trader/internal/modules/executor/service"
	health "equity_trader/internal/modules/health/service"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

func newConsumer(cfg *config.Config, exec *executor.Executor, state *health.State, log *zap.Logger) *service.Consumer {
	sub := service.NewKafkaSubscriber(service.KafkaConfig{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.Topic,
		GroupID: cfg.Kafka.GroupID,
	}, log)

	return service.NewConsumer(service.Config{
		RetryDelay:    cfg.Consumer.RetryDelay,
		MaxAge:        cfg.Consumer.MaxAge,
		MaxDeliveries: cfg.Consumer.MaxDeliveries,
	}, sub, exec, state, log)
}

func Module() fx.Option {
	return fx.Module("consumer",
		fx.Provide(
			newConsumer,
		),
		// Запуск цикла чтения через Lifecycle
		fx.Invoke(
			func(lc fx.Lifecycle, c *service.Consumer) {
				var (
					cancel context.CancelFunc
					wg     sync.WaitGroup
				)
				lc.Append(fx.Hook{
					OnStart: func(context.Context) error {
						var ctx context.Context
						ctx, cancel = context.WithCancel(context.Background())
						wg.Add(1)
						go func() {
							defer wg.Done()
							_ = c.Run(ctx)
						}()
						return nil
					},
					OnStop: func(context.Context) error {
						cancel()
						wg.Wait()
						return nil
					},
				})
			},
		),
	)
}
