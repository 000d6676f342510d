package evaluator

import (
	"context"
	"errors"
	"time"

	"github.com/railzwaylabs/featuregate/internal/config"
	"github.com/railzwaylabs/featuregate/internal/featureflag/domain"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Config config.Config
	Log    *zap.Logger
	Redis  *redis.Client `optional:"true"`
}

// Provide returns the store evaluator, wrapped in a redis cache when a
// client is configured and the cache ttl is positive.
func Provide(p Params) domain.GlobalEvaluator {
	base := NewStoreEvaluator()
	if p.Redis == nil || p.Config.FlagCache.TTL <= 0 {
		return base
	}
	return NewCachedEvaluator(base, p.Redis, p.Config.FlagCache.TTL, p.Log)
}

// StoreEvaluator reads the enabled bit of the flag's features row. A flag
// with no row is disabled.
type StoreEvaluator struct{}

func NewStoreEvaluator() *StoreEvaluator {
	return &StoreEvaluator{}
}

func (e *StoreEvaluator) IsEnabled(ctx context.Context, store domain.Repository, key domain.FlagKey) (bool, error) {
	feature, err := store.FindFeature(ctx, key)
	if err != nil {
		return false, err
	}
	if feature == nil {
		return false, nil
	}
	return feature.Enabled, nil
}

const cacheKeyPrefix = "featuregate:flag:"

// CachedEvaluator caches the wrapped evaluator's answers in redis. Cache
// failures fall through to the wrapped evaluator.
type CachedEvaluator struct {
	next  domain.GlobalEvaluator
	redis *redis.Client
	ttl   time.Duration
	log   *zap.Logger
}

func NewCachedEvaluator(next domain.GlobalEvaluator, client *redis.Client, ttl time.Duration, log *zap.Logger) *CachedEvaluator {
	return &CachedEvaluator{
		next:  next,
		redis: client,
		ttl:   ttl,
		log:   log.Named("featureflag.evaluator"),
	}
}

func (e *CachedEvaluator) IsEnabled(ctx context.Context, store domain.Repository, key domain.FlagKey) (bool, error) {
	cacheKey := cacheKeyPrefix + string(key)

	val, err := e.redis.Get(ctx, cacheKey).Result()
	switch {
	case err == nil:
		return val == "1", nil
	case !errors.Is(err, redis.Nil):
		e.log.Warn("flag cache read failed", zap.String("slug", string(key)), zap.Error(err))
	}

	enabled, err := e.next.IsEnabled(ctx, store, key)
	if err != nil {
		return false, err
	}

	encoded := "0"
	if enabled {
		encoded = "1"
	}
	if err := e.redis.Set(ctx, cacheKey, encoded, e.ttl).Err(); err != nil {
		e.log.Warn("flag cache write failed", zap.String("slug", string(key)), zap.Error(err))
	}
	return enabled, nil
}

// Invalidate drops the cached value for key.
func (e *CachedEvaluator) Invalidate(ctx context.Context, key domain.FlagKey) error {
	return e.redis.Del(ctx, cacheKeyPrefix+string(key)).Err()
}
