package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	KeyBeatList = "beatmarket:beats:list"
	KeyBeat     = "beatmarket:beats:"
	KeyPackList = "beatmarket:packs:list"
	KeyPack     = "beatmarket:packs:"
	KeySigned   = "beatmarket:signed:"

	TTLList = 30 * time.Second
	TTLItem = 2 * time.Minute
)

// Cache stores JSON values under a key with a per-key TTL.
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// Get returns false without error on a miss.
func (r *Redis) Get(ctx context.Context, key string, dest any) (bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (r *Redis) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Noop is used when no redis address is configured.
type Noop struct{}

func (Noop) Get(context.Context, string, any) (bool, error) {
	return false, nil
}

func (Noop) Set(context.Context, string, any, time.Duration) error {
	return nil
}
