package logging

import (
	"equity_trader/internal/modules/config"
	"equity_trader/pkg/logger"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// Module provides the process *zap.Logger, tagged with service, and routes fx events through it.
func Module(service string) fx.Option {
	return fx.Options(
		fx.Module("logging",
			fx.Provide(
				func(lc fx.Lifecycle, cfg *config.Config) (*zap.Logger, error) {
					logger.SetServiceName(service)
					l, err := logger.New(cfg.LogLevel)
					if err != nil {
						return nil, err
					}
					lc.Append(fx.StopHook(func() {
						_ = l.Sync()
					}))
					return l.With(zap.String("service", service)), nil
				},
			),
		),
		fx.WithLogger(func(l *zap.Logger) fxevent.Logger {
			fl := &fxevent.ZapLogger{Logger: l.Named("fx")}
			fl.UseLogLevel(zap.DebugLevel)
			return fl
		}),
	)
}
