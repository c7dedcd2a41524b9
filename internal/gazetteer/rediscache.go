package gazetteer

import (
	"context"
	"encoding/json"
	"log"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// RedisCache is an optional look-aside tier in front of a CachedStore,
// letting multiple process instances share one gazetteer cache. Chaining a
// fast remote cache in front of a slower backing store mirrors
// WavesMan-ip-api's internal/localdb/chain package (ChainCache/MultiCache
// try each tier in order); here there are exactly two tiers, wired directly
// rather than through a generic chain, since the gazetteer only ever has
// one cache in front of one backing store.
//
// Redis's per-key EX option gives the "time-expiring" half of the cache
// requirement natively; the "size-bounded" half is an operational property
// of the Redis deployment (maxmemory + an eviction policy), not
// application code.
type RedisCache struct {
	client  *redis.Client
	backing *CachedStore
	ttl     int // seconds
}

// NewRedisCache wraps backing with a Redis look-aside layer. client may be
// nil (e.g. REDIS_ADDR unset), in which case Place/Word fall straight
// through to backing -- same "optional tier" shape as MultiCache.
func NewRedisCache(client *redis.Client, backing *CachedStore) *RedisCache {
	return &RedisCache{client: client, backing: backing, ttl: int(CacheTTL.Seconds())}
}

func (c *RedisCache) Place(id int) (Place, bool) {
	if c.client == nil {
		return c.backing.Place(id)
	}
	ctx := context.Background()
	key := "place:" + strconv.Itoa(id)

	val, err := c.client.Get(ctx, key).Result()
	if err == nil {
		if val == "" {
			return Place{}, false
		}
		var p Place
		if jsonErr := json.Unmarshal([]byte(val), &p); jsonErr == nil {
			return p, true
		}
	} else if err != redis.Nil {
		log.Printf("severe: redis error reading place %d: %v", id, err)
	}

	p, found := c.backing.Place(id)
	c.storePlace(ctx, key, p, found)
	return p, found
}

func (c *RedisCache) storePlace(ctx context.Context, key string, p Place, found bool) {
	payload := []byte("")
	if found {
		encoded, err := json.Marshal(p)
		if err != nil {
			log.Printf("severe: failed to encode place %d for redis: %v", p.ID, err)
			return
		}
		payload = encoded
	}
	if err := c.client.Set(ctx, key, payload, CacheTTL).Err(); err != nil {
		log.Printf("severe: redis error writing place cache key %s: %v", key, err)
	}
}

func (c *RedisCache) Word(word string) ([]int, bool) {
	if c.client == nil {
		return c.backing.Word(word)
	}
	ctx := context.Background()
	key := "word:" + word

	val, err := c.client.Get(ctx, key).Result()
	if err == nil {
		if val == "" {
			return nil, false
		}
		var ids []int
		if jsonErr := json.Unmarshal([]byte(val), &ids); jsonErr == nil {
			return ids, true
		}
	} else if err != redis.Nil {
		log.Printf("severe: redis error reading word %q: %v", word, err)
	}

	ids, found := c.backing.Word(word)
	c.storeWord(ctx, key, ids, found)
	return ids, found
}

func (c *RedisCache) storeWord(ctx context.Context, key string, ids []int, found bool) {
	payload := []byte("")
	if found {
		encoded, err := json.Marshal(ids)
		if err != nil {
			log.Printf("severe: failed to encode word ids for redis: %v", err)
			return
		}
		payload = encoded
	}
	if err := c.client.Set(ctx, key, payload, CacheTTL).Err(); err != nil {
		log.Printf("severe: redis error writing word cache key %s: %v", key, err)
	}
}

// NewRedisClientFromEnv opens a client using REDIS_ADDR / REDIS_PASSWORD /
// REDIS_DB, mirroring WavesMan-ip-api's internal/utils.OpenRedisFromEnv.
// Returns nil, meaning "no remote cache tier", when REDIS_ADDR is unset.
func NewRedisClientFromEnv(getenv func(string) string) *redis.Client {
	addr := getenv("REDIS_ADDR")
	if addr == "" {
		return nil
	}
	db := 0
	if v := getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			db = n
		}
	}
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: getenv("REDIS_PASSWORD"),
		DB:       db,
	})
}
