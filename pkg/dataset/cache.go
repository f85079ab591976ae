package dataset

import (
	"context"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"

	"github.com/mcteamhub/teamhub/pkg/crossfilter"
)

type localEntry struct {
	expires time.Time
	rows    []crossfilter.Row
}

// Cache keeps base datasets in redis, shared between replicas, with a short
// local layer in front of it. Keys are the canonical base-filter keys, so a
// cross-filter toggle never misses.
type Cache struct {
	Addr     string
	Password string
	DB       int
	client   *redis.Client
	ctx      context.Context
	mu       sync.Mutex
	local    map[string]localEntry
}

const localTtl = time.Minute

func NewCache(addr, password string, db int) *Cache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &Cache{
		Addr:     addr,
		Password: password,
		DB:       db,
		client:   rdb,
		ctx:      context.Background(),
		local:    make(map[string]localEntry),
	}
}

func (c *Cache) Get(key string) ([]crossfilter.Row, error) {
	c.mu.Lock()
	entry, found := c.local[key]
	if found {
		if time.Now().Before(entry.expires) {
			c.mu.Unlock()
			return entry.rows, nil
		}
		delete(c.local, key)
	}
	c.mu.Unlock()

	data, err := c.client.Get(c.ctx, key).Result()
	if err != nil {
		return nil, err
	}

	var rows []crossfilter.Row
	if err := sonic.Unmarshal([]byte(data), &rows); err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.local[key] = localEntry{expires: time.Now().Add(localTtl), rows: rows}
	c.mu.Unlock()
	return rows, nil
}

func (c *Cache) Set(key string, rows []crossfilter.Row, expiration time.Duration) error {
	data, err := sonic.Marshal(rows)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.local[key] = localEntry{expires: time.Now().Add(min(localTtl, expiration)), rows: rows}
	c.mu.Unlock()
	return c.client.Set(c.ctx, key, data, expiration).Err()
}

func (c *Cache) Close() {
	c.client.Close()
}
