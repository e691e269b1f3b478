package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/melvsalonga/affiliate-hub-sub000/internal/health"

	"github.com/redis/go-redis/v9"
)

// Config holds Redis cache settings
type Config struct {
	Enabled    bool
	Host       string
	Port       int
	Username   string // Redis 6.0+ ACL username, optional
	Password   string
	ValidTTL   int // valid-result expiry in hours
	InvalidTTL int // invalid-result expiry in hours
}

// Repository caches link validation results in Redis. When Redis is disabled
// or unreachable the repository degrades to a no-op so health checks keep
// working without it.
type Repository struct {
	client     *redis.Client
	enabled    bool
	validTTL   int
	invalidTTL int
}

// NewRepository connects to Redis. Connection failure is not fatal; it
// returns a disabled repository.
func NewRepository(config Config) (*Repository, error) {
	if !config.Enabled {
		log.Println("Redis cache is disabled")
		return &Repository{enabled: false}, nil
	}

	opts := &redis.Options{
		Addr:     fmt.Sprintf("%s:%d", config.Host, config.Port),
		Password: config.Password,
		DB:       0,
	}
	if config.Username != "" {
		opts.Username = config.Username
	}
	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("Failed to connect to Redis: %v, cache will be disabled", err)
		return &Repository{enabled: false}, nil
	}

	log.Println("Redis cache connected successfully")
	return &Repository{
		client:     rdb,
		enabled:    true,
		validTTL:   config.ValidTTL,
		invalidTTL: config.InvalidTTL,
	}, nil
}

// IsEnabled reports whether the cache is usable
func (r *Repository) IsEnabled() bool {
	return r.enabled && r.client != nil
}

// Get returns the cached validation result for a URL, or nil on a miss
func (r *Repository) Get(ctx context.Context, url string) (*health.ValidationResult, error) {
	if !r.IsEnabled() {
		return nil, nil
	}

	key := cacheKey(url)
	val, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var result health.ValidationResult
	if err := json.Unmarshal([]byte(val), &result); err != nil {
		// drop the corrupt entry
		r.client.Del(ctx, key)
		return nil, err
	}

	return &result, nil
}

// Set stores a validation result. Valid and invalid results get different
// TTLs: invalid links stay cached longer so known-dead URLs are not re-probed.
func (r *Repository) Set(ctx context.Context, url string, result *health.ValidationResult) error {
	if !r.IsEnabled() {
		return nil
	}

	val, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	var ttl time.Duration
	if result.IsValid {
		ttl = 24 * time.Hour
		if r.validTTL > 0 {
			ttl = time.Duration(r.validTTL) * time.Hour
		}
	} else {
		ttl = 168 * time.Hour
		if r.invalidTTL > 0 {
			ttl = time.Duration(r.invalidTTL) * time.Hour
		}
	}

	return r.client.Set(ctx, cacheKey(url), val, ttl).Err()
}

// Delete evicts a cached result
func (r *Repository) Delete(ctx context.Context, url string) error {
	if !r.IsEnabled() {
		return nil
	}
	return r.client.Del(ctx, cacheKey(url)).Err()
}

// Close closes the Redis connection
func (r *Repository) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

func cacheKey(url string) string {
	return fmt.Sprintf("link:validate:%s", url)
}
