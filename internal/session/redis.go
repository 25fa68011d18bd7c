package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"talentmatch-engine/internal/domain"
)

// Redis stores drafts under a TTL so abandoned sessions expire on their
// own instead of needing a sweeper.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(addr string, db int, ttl time.Duration) (*Redis, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, DB: db})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &Redis{client: client, ttl: ttl}, nil
}

func draftKey(key string) string { return "talentmatch:draft:" + key }

func (r *Redis) Get(ctx context.Context, key string) (domain.SearchCriteria, bool, error) {
	var c domain.SearchCriteria

	b, err := r.client.Get(ctx, draftKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return c, false, nil
	}
	if err != nil {
		return c, false, fmt.Errorf("draft get: %w", err)
	}

	if err := json.Unmarshal(b, &c); err != nil {
		return c, false, fmt.Errorf("draft decode: %w", err)
	}
	return c, true, nil
}

func (r *Redis) Put(ctx context.Context, key string, c domain.SearchCriteria) error {
	b, err := json.Marshal(c)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, draftKey(key), b, r.ttl).Err(); err != nil {
		return fmt.Errorf("draft put: %w", err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, draftKey(key)).Err(); err != nil {
		return fmt.Errorf("draft delete: %w", err)
	}
	return nil
}

func (r *Redis) Close() error { return r.client.Close() }
