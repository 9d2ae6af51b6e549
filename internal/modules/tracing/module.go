package tracing

import (
	"equity_trader/internal/modules/config"
	"equity_trader/pkg/tracing"

	"github.com/opentracing/opentracing-go"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module installs the jaeger tracer when tracing.host is set and flushes it on stop.
func Module(service string) fx.Option {
	return fx.Module("tracing",
		fx.Provide(
			// *zap.Logger is required so logger.New has run before InitTracer logs.
			func(lc fx.Lifecycle, cfg *config.Config, _ *zap.Logger) (opentracing.Tracer, error) {
				tracing.SetServiceName(service)
				conf := tracing.Config{Host: cfg.Tracing.Host, Port: cfg.Tracing.Port}

				tracer, closeFn, err := tracing.InitTracer(conf)
				if err != nil {
					return nil, err
				}
				lc.Append(fx.StopHook(closeFn))
				return tracer, nil
			},
		),
		fx.Invoke(func(opentracing.Tracer) {}),
	)
}
