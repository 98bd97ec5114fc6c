package app

import (
	"context"
	"log/slog"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/Alijeyrad/eunoia_backend/config"
	"github.com/Alijeyrad/eunoia_backend/internal/repo"
	"github.com/Alijeyrad/eunoia_backend/pkg/constants"
	"github.com/Alijeyrad/eunoia_backend/pkg/database"
	"github.com/Alijeyrad/eunoia_backend/pkg/email"
	"github.com/Alijeyrad/eunoia_backend/pkg/observability"
	pasetotoken "github.com/Alijeyrad/eunoia_backend/pkg/paseto"
	redispkg "github.com/Alijeyrad/eunoia_backend/pkg/redis"
)

// InfraModule provides all infrastructure dependencies.
var InfraModule = fx.Module("infra",
	fx.Provide(ProvideRepoClient),
	fx.Provide(ProvideRedis),
	fx.Provide(ProvidePasetoManager),
	fx.Provide(ProvideEmailClient),
	fx.Provide(ProvideOTel),
	fx.Provide(ProvideNatsClient),
)

func ProvideRepoClient(lc fx.Lifecycle, cfg *config.Config) (*repo.Client, error) {
	client, err := database.NewClient(cfg.Database)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if !cfg.Database.Migrations.AutoMigrate {
				return nil
			}
			applied, err := client.Migrate(ctx)
			if err != nil {
				return err
			}
			if len(applied) > 0 {
				slog.Info("database migrations applied", "versions", applied)
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			slog.Debug("closing main database connection")
			return client.Close()
		},
	})
	return client, nil
}

func ProvideRedis(lc fx.Lifecycle, cfg *config.Config) (*redis.Client, error) {
	rdb, err := redispkg.NewRedisFromCentral(cfg.Redis)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("closing Redis connection")
			return rdb.Close()
		},
	})
	return rdb, nil
}

func ProvidePasetoManager(cfg *config.Config) (*pasetotoken.Manager, error) {
	return pasetotoken.NewPasetoManager(cfg)
}

func ProvideEmailClient(cfg *config.Config) *email.Client {
	return email.NewFromCentral(cfg)
}

// ProvideNatsClient returns a nil connection when nats.url is empty; booking
// events and the notification worker are then disabled.
func ProvideNatsClient(lc fx.Lifecycle, cfg *config.Config) (*nats.Conn, error) {
	if cfg.Nats.URL == "" {
		slog.Info("nats disabled, booking events will not be published")
		return nil, nil
	}
	nc, err := nats.Connect(cfg.Nats.URL,
		nats.Name(constants.AppName),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("draining NATS connection")
			return nc.Drain()
		},
	})
	return nc, nil
}

func ProvideOTel(lc fx.Lifecycle, cfg *config.Config) (*observability.Provider, error) {
	if !cfg.Observability.Enabled {
		return nil, nil
	}
	provider, err := observability.InitTelemetry(context.Background(), observability.FromCentralConfig(cfg))
	if err != nil {
		return nil, err
	}
	slog.Info("observability initialized",
		"tracing", cfg.Observability.Tracing.Enabled,
		"metrics", cfg.Observability.Metrics.Enabled,
	)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("shutting down observability providers")
			return provider.Shutdown(ctx)
		},
	})
	return provider, nil
}
