package directory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// unreachableRedis returns a client pointed at a closed port so every
// command fails fast.
func unreachableRedis() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:            "127.0.0.1:1",
		DialTimeout:     50 * time.Millisecond,
		ReadTimeout:     50 * time.Millisecond,
		WriteTimeout:    50 * time.Millisecond,
		MaxRetries:      -1,
		PoolSize:        1,
		MinIdleConns:    0,
		ConnMaxIdleTime: time.Millisecond,
	})
}

func TestCachedRepoDegradesToInnerOnCacheFailure(t *testing.T) {
	inner := NewMemoryRepo()
	inner.Businesses = append(inner.Businesses, Business{
		ID:   "b1",
		Name: "Salon Kairos",
		Services: []Service{
			{ID: "1", Name: "Haircut", Price: 100},
		},
	})

	r := NewCachedRepo(inner, unreachableRedis(), time.Minute, nil)

	b, err := r.GetBusiness(context.Background(), "b1")
	if err != nil {
		t.Fatalf("expected inner repo to serve the lookup, got %v", err)
	}
	if b.Name != "Salon Kairos" || len(b.Services) != 1 {
		t.Fatalf("unexpected business: %+v", b)
	}
}

func TestCachedRepoPropagatesNotFound(t *testing.T) {
	r := NewCachedRepo(NewMemoryRepo(), unreachableRedis(), time.Minute, nil)

	if _, err := r.GetBusiness(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCachedRepoCustomerOpsPassThrough(t *testing.T) {
	inner := NewMemoryRepo()
	r := NewCachedRepo(inner, unreachableRedis(), time.Minute, nil)

	c, err := r.GetOrCreateCustomer(context.Background(), "+905551112233", "Ayşe")
	if err != nil {
		t.Fatalf("expected pass-through create, got %v", err)
	}
	if c.ID == "" {
		t.Fatalf("expected generated customer id")
	}

	again, err := r.GetOrCreateCustomer(context.Background(), "+905551112233", "Ayşe")
	if err != nil {
		t.Fatalf("expected pass-through lookup, got %v", err)
	}
	if again.ID != c.ID {
		t.Fatalf("expected the same customer, got %q and %q", c.ID, again.ID)
	}
}
