package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/andresuchdata/marginsight/backend-go/internal/config"
	"github.com/andresuchdata/marginsight/backend-go/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	dashboardSummaryKeyPrefix = "dashboard:summary"
	defaultSummaryTTL         = time.Minute
)

// DashboardSummaryCache keeps KPI payloads keyed by the pass
// fingerprint they were computed from, so a stale fingerprint simply
// never gets a hit and expires on its own.
type DashboardSummaryCache interface {
	GetSummary(ctx context.Context, fingerprint string) (*domain.DashboardSummary, bool, error)
	SetSummary(ctx context.Context, fingerprint string, summary *domain.DashboardSummary) error
	InvalidateAll(ctx context.Context) error
}

type redisDashboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopDashboardCache struct{}

func NewDashboardCache(cfg config.CacheConfig) (DashboardSummaryCache, error) {
	if !cfg.Enabled {
		return &noopDashboardCache{}, nil
	}

	client, err := dialRedis(cfg)
	if err != nil {
		return nil, err
	}

	ttl := time.Duration(cfg.DashboardTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = defaultSummaryTTL
	}

	return &redisDashboardCache{client: client, ttl: ttl}, nil
}

func NewNoopDashboardCache() DashboardSummaryCache {
	return &noopDashboardCache{}
}

// dialRedis prefers a full REDIS_URL and falls back to host/port
// settings. The connection is verified with a ping before use.
func dialRedis(cfg config.CacheConfig) (*redis.Client, error) {
	var opts *redis.Options
	if cfg.RedisURL != "" {
		parsed, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		opts = parsed
	} else {
		host, port := cfg.RedisHost, cfg.RedisPort
		if host == "" {
			host = "127.0.0.1"
		}
		if port == "" {
			port = "6379"
		}
		opts = &redis.Options{
			Addr:     net.JoinHostPort(host, port),
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return client, nil
}

func (c *redisDashboardCache) GetSummary(ctx context.Context, fingerprint string) (*domain.DashboardSummary, bool, error) {
	payload, err := c.client.Get(ctx, summaryKey(fingerprint)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var summary domain.DashboardSummary
	if err := json.Unmarshal(payload, &summary); err != nil {
		return nil, false, fmt.Errorf("decode dashboard summary cache: %w", err)
	}

	return &summary, true, nil
}

func (c *redisDashboardCache) SetSummary(ctx context.Context, fingerprint string, summary *domain.DashboardSummary) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("encode dashboard summary cache: %w", err)
	}

	if err := c.client.Set(ctx, summaryKey(fingerprint), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}

	return nil
}

// InvalidateAll drops every cached summary regardless of fingerprint.
func (c *redisDashboardCache) InvalidateAll(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, dashboardSummaryKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("redis delete failed: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan failed: %w", err)
	}
	return nil
}

func (n *noopDashboardCache) GetSummary(ctx context.Context, fingerprint string) (*domain.DashboardSummary, bool, error) {
	return nil, false, nil
}

func (n *noopDashboardCache) SetSummary(ctx context.Context, fingerprint string, summary *domain.DashboardSummary) error {
	return nil
}

func (n *noopDashboardCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func summaryKey(fingerprint string) string {
	if fingerprint == "" {
		return dashboardSummaryKeyPrefix + ":default"
	}
	return dashboardSummaryKeyPrefix + ":" + fingerprint
}
