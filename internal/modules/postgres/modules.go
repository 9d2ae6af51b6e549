package postgres

import (
	"context"
	"fmt"

	"equity_trader/internal/modules/config"
	"equity_trader/pkg/db"

	"go.uber.org/fx"
)

func poolConfig(cfg *config.Config) db.PoolConfig {
	return db.PoolConfig{
		DSN:      cfg.DB.DSN,
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		Name:     cfg.DB.Name,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		MaxConns: cfg.DB.MaxConns,
	}
}

// Module provides the pgx tx manager as both *db.PgTxManager and db.TxManager.
func Module() fx.Option {
	return fx.Module("postgres",
		fx.Provide(
			func(ctx context.Context, lc fx.Lifecycle, cfg *config.Config) (*db.PgTxManager, error) {
				poolMaster, err := db.NewPool(ctx, poolConfig(cfg))
				if err != nil {
					return nil, fmt.Errorf("failed to create poolMaster: %w", err)
				}

				err = poolMaster.Ping(ctx)
				if err != nil {
					poolMaster.Close()
					return nil, fmt.Errorf("failed to ping postgres: %w", err)
				}

				m := db.NewPgTxManager(poolMaster)
				lc.Append(fx.StopHook(m.Close))
				return m, nil
			},
			func(m *db.PgTxManager) db.TxManager { return m },
		),
	)
}
