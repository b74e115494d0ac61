package directory

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const businessKeyPrefix = "kairos:business:"

// CachedRepo wraps a Repository with a Redis read-through cache for business
// records. Service catalogs are fixed per session anyway, so a short TTL is
// safe; cache failures degrade to the inner repository, never to the caller.
//
// Customer operations are writes and pass through uncached.
type CachedRepo struct {
	inner Repository
	rdb   *redis.Client
	ttl   time.Duration
	log   *slog.Logger
}

func NewCachedRepo(inner Repository, rdb *redis.Client, ttl time.Duration, log *slog.Logger) *CachedRepo {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if log == nil {
		log = slog.Default()
	}
	return &CachedRepo{inner: inner, rdb: rdb, ttl: ttl, log: log}
}

func (r *CachedRepo) GetBusiness(ctx context.Context, id string) (Business, error) {
	key := businessKeyPrefix + id

	if raw, err := r.rdb.Get(ctx, key).Bytes(); err == nil {
		var b Business
		if err := json.Unmarshal(raw, &b); err == nil {
			return b, nil
		}
		// Poisoned entry; drop it and fall through.
		_ = r.rdb.Del(ctx, key).Err()
	} else if err != redis.Nil {
		r.log.Warn("business cache read failed", "business_id", id, "err", err)
	}

	b, err := r.inner.GetBusiness(ctx, id)
	if err != nil {
		return Business{}, err
	}

	if raw, err := json.Marshal(b); err == nil {
		if err := r.rdb.Set(ctx, key, raw, r.ttl).Err(); err != nil {
			r.log.Warn("business cache write failed", "business_id", id, "err", err)
		}
	}
	return b, nil
}

func (r *CachedRepo) GetOrCreateCustomer(ctx context.Context, phone, fullName string) (Customer, error) {
	return r.inner.GetOrCreateCustomer(ctx, phone, fullName)
}
