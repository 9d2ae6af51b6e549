package config

import "go.uber.org/fx"

// Module provides *Config and refuses to start when role's settings are incomplete.
func Module(role Role) fx.Option {
	return fx.Module("config",
		fx.Provide(
			NewConfig,
		),
		fx.Invoke(func(cfg *Config) error {
			return cfg.Validate(role)
		}),
	)
}
