package components

import (
	"context"
	"log/slog"

	"room-booking/internal/infra/cache"
	"room-booking/internal/infra/mq"
	"room-booking/internal/pkg/config"
	"room-booking/internal/usecase/shared"

	"go.uber.org/fx"
)

var CacheModule = fx.Module("cache",
	fx.Provide(
		NewCalendarCache,
	),
)

var MessagingModule = fx.Module("messaging",
	fx.Provide(
		NewEventPublisher,
	),
)

// NewCalendarCache returns the Redis cache when enabled and a no-op otherwise.
func NewCalendarCache(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (shared.CalendarCache, error) {
	if !cfg.Redis.Enabled {
		return cache.Noop{}, nil
	}
	client, err := cache.NewRedisClient(context.Background(), cfg.Redis)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})
	logger.Info("calendar cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.CalendarTTL)
	return cache.NewRedisCalendarCache(client, cfg.Redis, logger), nil
}

func NewEventPublisher(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (shared.EventPublisher, error) {
	if !cfg.AMQP.Enabled {
		return mq.Noop{}, nil
	}
	publisher, err := mq.NewPublisher(cfg.AMQP, logger)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return publisher.Close()
		},
	})
	return publisher, nil
}
