package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/avdeev/channel-scout-go/internal/constants"
	"github.com/avdeev/channel-scout-go/internal/domain"
	"github.com/avdeev/channel-scout-go/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Stats receives cache hit/miss notifications. The engine's metrics collector
// implements it; a nil Stats disables counting.
type Stats interface {
	CacheHit()
	CacheMiss()
}

// Service is a TTL-bounded Redis cache for channel profiles and provider call
// results. Every key carries an expiry, so the cache cannot grow without bound
// the way a process-lifetime map would.
type Service struct {
	client *redis.Client
	stats  Stats
	logger *zap.Logger
}

type Config struct {
	Host     string
	Port     int
	Password string
	DB       int
}

func NewService(cfg Config, logger *zap.Logger) (*Service, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.NewCacheError("failed to connect to Redis", "ping", "", err)
	}

	logger.Info("Redis connected",
		zap.String("addr", fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)),
		zap.Int("db", cfg.DB),
	)

	return &Service{
		client: client,
		logger: logger,
	}, nil
}

// SetStats wires the hit/miss sink. Call before the first lookup.
func (c *Service) SetStats(stats Stats) {
	c.stats = stats
}

func (c *Service) Get(ctx context.Context, key string, dest any) (bool, error) {
	value, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		c.logger.Error("Cache get failed", zap.String("key", key), zap.Error(err))
		return false, errors.NewCacheError("get failed", "get", key, err)
	}

	if dest != nil {
		if err := json.Unmarshal([]byte(value), dest); err != nil {
			c.logger.Error("Cache unmarshal failed", zap.String("key", key), zap.Error(err))
			return false, errors.NewCacheError("unmarshal failed", "get", key, err)
		}
	}

	return true, nil
}

func (c *Service) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	jsonData, err := json.Marshal(value)
	if err != nil {
		return errors.NewCacheError("marshal failed", "set", key, err)
	}

	if err := c.client.Set(ctx, key, jsonData, ttl).Err(); err != nil {
		c.logger.Error("Cache set failed", zap.String("key", key), zap.Error(err))
		return errors.NewCacheError("set failed", "set", key, err)
	}

	return nil
}

func (c *Service) Del(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.logger.Error("Cache delete failed", zap.String("key", key), zap.Error(err))
		return errors.NewCacheError("delete failed", "del", key, err)
	}
	return nil
}

// GetProfile looks up a resolved profile by the handle string used to resolve
// it. Hits and misses are reported to the Stats sink.
func (c *Service) GetProfile(ctx context.Context, handle string) (*domain.ChannelProfile, bool) {
	var profile domain.ChannelProfile
	found, err := c.Get(ctx, profileKey(handle), &profile)
	if err != nil || !found || profile.ID == 0 {
		if c.stats != nil {
			c.stats.CacheMiss()
		}
		return nil, false
	}

	if c.stats != nil {
		c.stats.CacheHit()
	}
	return &profile, true
}

func (c *Service) SetProfile(ctx context.Context, handle string, profile *domain.ChannelProfile) {
	if profile == nil {
		return
	}
	if err := c.Set(ctx, profileKey(handle), profile, constants.CacheTTL.ChannelProfile); err != nil {
		c.logger.Error("Failed to cache profile", zap.String("handle", handle), zap.Error(err))
	}
}

// GetChannels retrieves a cached provider call result (search or
// recommendations). These lookups do not feed the profile hit/miss counters.
func (c *Service) GetChannels(ctx context.Context, key string) ([]*domain.ChannelProfile, bool) {
	var channels []*domain.ChannelProfile
	found, err := c.Get(ctx, key, &channels)
	if err != nil || !found || channels == nil {
		return nil, false
	}
	return channels, true
}

func (c *Service) SetChannels(ctx context.Context, key string, channels []*domain.ChannelProfile, ttl time.Duration) {
	if err := c.Set(ctx, key, channels, ttl); err != nil {
		c.logger.Error("Failed to cache channels", zap.String("key", key), zap.Error(err))
	}
}

func (c *Service) IsConnected(ctx context.Context) bool {
	return c.client.Ping(ctx).Err() == nil
}

func (c *Service) Close() error {
	if err := c.client.Close(); err != nil {
		c.logger.Error("Failed to close Redis connection", zap.Error(err))
		return err
	}
	c.logger.Info("Redis disconnected")
	return nil
}

func profileKey(handle string) string {
	return fmt.Sprintf("profile:%s", handle)
}
