// Package cache provides an owner-scoped read-through cache for records
// backed by Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

// RecordCache stores JSON-encoded records in Redis under owner-scoped keys.
// Each key has a generation counter so a fill that read the store before an
// eviction never overwrites the eviction.
type RecordCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// New returns a RecordCache writing entries with the given TTL.
func New(rdb *redis.Client, ttl time.Duration) *RecordCache {
	return &RecordCache{rdb: rdb, ttl: ttl}
}

// Key builds the cache key for a record. The owner is part of the key so
// entries of different users never collide.
func Key(kind, owner, id string) string {
	return fmt.Sprintf("%s.%s.%s", kind, owner, id)
}

// generationTTL bounds how long an eviction is remembered. It only has to
// outlive a single store read.
const generationTTL = time.Hour

// generationKey names the counter bumped by every eviction of key. Record
// keys start with the kind, so the prefix never collides with them.
func generationKey(key string) string {
	return "gen:" + key
}

// Load decodes the entry at key into dst. It reports false on a miss and
// always returns the key's current generation, which must be passed to Fill
// when the caller fills the cache after reading the store.
func (c *RecordCache) Load(ctx context.Context, key string, dst any) (bool, int64, error) {
	vals, err := c.rdb.MGet(ctx, key, generationKey(key)).Result()
	if err != nil {
		return false, 0, fmt.Errorf("cache get %s: %w", key, err)
	}

	gen, err := parseGeneration(vals[1])
	if err != nil {
		return false, 0, fmt.Errorf("cache generation %s: %w", key, err)
	}

	raw, ok := vals[0].(string)
	if !ok {
		return false, gen, nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, 0, fmt.Errorf("cache decode %s: %w", key, err)
	}
	return true, gen, nil
}

func parseGeneration(v any) (int64, error) {
	s, ok := v.(string)
	if !ok {
		return 0, nil
	}
	return strconv.ParseInt(s, 10, 64)
}

// Fill writes v at key with the cache TTL, unless key was evicted since the
// Load that returned gen. A skipped fill is not an error.
func (c *RecordCache) Fill(ctx context.Context, key string, v any, gen int64) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}

	genKey := generationKey(key)
	err = c.rdb.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, genKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != gen {
			return errStale
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, key, data, c.ttl)
			return nil
		})
		return err
	}, genKey)

	switch {
	case err == nil, errors.Is(err, errStale), errors.Is(err, redis.TxFailedErr):
		return nil
	default:
		return fmt.Errorf("cache set %s: %w", key, err)
	}
}

// errStale aborts a fill that raced with an eviction.
var errStale = errors.New("cache entry evicted during read")

// Evict removes the entry at key and bumps its generation so that fills
// started before the eviction are dropped. Evicting a missing key is not an
// error.
func (c *RecordCache) Evict(ctx context.Context, key string) error {
	genKey := generationKey(key)
	_, err := c.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Incr(ctx, genKey)
		p.Expire(ctx, genKey, generationTTL)
		p.Del(ctx, key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("cache del %s: %w", key, err)
	}
	return nil
}

// Connect opens a Redis client for addr and verifies it with a ping.
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("could not connect to redis: %w", err)
	}
	return rdb, nil
}
