// Package cache holds CalendarCache adapters.
//
// Invalidation bumps a per-room version counter instead of scanning keys, so
// entries written under an older version simply stop being read and expire
// on their TTL.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"room-booking/internal/pkg/config"
	"room-booking/internal/pkg/errs"
	"room-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "calendar:room"

type RedisCalendarCache struct {
	client redis.Cmdable
	ttl    time.Duration
	logger *slog.Logger
}

var _ shared.CalendarCache = (*RedisCalendarCache)(nil)

func NewRedisCalendarCache(client redis.Cmdable, cfg config.RedisConfig, logger *slog.Logger) *RedisCalendarCache {
	ttl := cfg.CalendarTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisCalendarCache{client: client, ttl: ttl, logger: logger}
}

// NewRedisClient dials and pings the configured server.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, errs.Wrap(err, "redis ping failed")
	}
	return client, nil
}

func (c *RedisCalendarCache) Get(ctx context.Context, roomID uuid.UUID, key string) ([]byte, bool, error) {
	version, err := c.version(ctx, roomID)
	if err != nil {
		return nil, false, err
	}
	payload, err := c.client.Get(ctx, dataKey(roomID, version, key)).Bytes()
	if errs.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errs.Wrap(err, "calendar cache read failed")
	}
	return payload, true, nil
}

func (c *RedisCalendarCache) Set(ctx context.Context, roomID uuid.UUID, key string, payload []byte) error {
	version, err := c.version(ctx, roomID)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, dataKey(roomID, version, key), payload, c.ttl).Err(); err != nil {
		return errs.Wrap(err, "calendar cache write failed")
	}
	return nil
}

func (c *RedisCalendarCache) Invalidate(ctx context.Context, roomID uuid.UUID) error {
	version, err := c.client.Incr(ctx, versionKey(roomID)).Result()
	if err != nil {
		return errs.Wrap(err, "calendar cache invalidation failed")
	}
	c.logger.DebugContext(ctx, "calendar cache invalidated",
		"room_id", roomID.String(),
		"version", version)
	return nil
}

func (c *RedisCalendarCache) version(ctx context.Context, roomID uuid.UUID) (int64, error) {
	version, err := c.client.Get(ctx, versionKey(roomID)).Int64()
	if errs.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, errs.Wrap(err, "calendar cache version read failed")
	}
	return version, nil
}

func versionKey(roomID uuid.UUID) string {
	return fmt.Sprintf("%s:%s:version", keyPrefix, roomID)
}

func dataKey(roomID uuid.UUID, version int64, key string) string {
	return fmt.Sprintf("%s:%s:v%d:%s", keyPrefix, roomID, version, key)
}
