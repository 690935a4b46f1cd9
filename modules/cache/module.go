package cache

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-monolith/mono"
	"github.com/redis/go-redis/v9"
)

// CacheModule owns the Redis connection shared by the read-side modules.
// When CACHE_DISABLED is set the module starts without Redis and GetCache
// returns nil; consumers then fall through to their backing stores.
type CacheModule struct {
	cache    *Cache
	client   *redis.Client
	addr     string
	prefix   string
	ttl      time.Duration
	disabled bool
}

// Compile-time interface checks.
var _ mono.Module = (*CacheModule)(nil)
var _ mono.HealthCheckableModule = (*CacheModule)(nil)

// NewModule creates a new CacheModule, reading its configuration from the
// environment.
func NewModule() *CacheModule {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	ttl := 10 * time.Minute
	if v := os.Getenv("CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			ttl = d
		} else {
			log.Printf("[cache] Warning: invalid CACHE_TTL %q, using %v", v, ttl)
		}
	}

	return &CacheModule{
		addr:     addr,
		prefix:   "taskbuddy:",
		ttl:      ttl,
		disabled: os.Getenv("CACHE_DISABLED") == "true",
	}
}

// Name returns the module name.
func (m *CacheModule) Name() string {
	return "cache"
}

// Start connects to Redis and builds the cache.
func (m *CacheModule) Start(ctx context.Context) error {
	if m.disabled {
		log.Println("[cache] Module started (caching disabled)")
		return nil
	}

	m.client = redis.NewClient(&redis.Options{
		Addr:         m.addr,
		PoolSize:     50,
		MinIdleConns: 5,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	if err := m.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis at %s: %w", m.addr, err)
	}

	m.cache = New(m.client, m.prefix, m.ttl)
	log.Printf("[cache] Connected to Redis at %s (prefix: %s, TTL: %v)", m.addr, m.prefix, m.ttl)
	return nil
}

// Stop closes the Redis connection.
func (m *CacheModule) Stop(_ context.Context) error {
	if m.client != nil {
		if err := m.client.Close(); err != nil {
			return fmt.Errorf("failed to close Redis connection: %w", err)
		}
	}
	log.Println("[cache] Module stopped")
	return nil
}

// GetCache returns the shared cache instance, or nil when caching is
// disabled.
func (m *CacheModule) GetCache() *Cache {
	return m.cache
}

// Health returns the health status of the module.
func (m *CacheModule) Health(ctx context.Context) mono.HealthStatus {
	if m.disabled {
		return mono.HealthStatus{
			Healthy: true,
			Message: "caching disabled",
		}
	}
	if m.cache == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "cache not initialized",
		}
	}
	if err := m.cache.Ping(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("redis ping failed: %v", err),
		}
	}

	stats := m.cache.Stats()
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"redis":    m.addr,
			"hits":     stats.Hits,
			"misses":   stats.Misses,
			"hit_rate": stats.HitRate,
		},
	}
}
