package cache

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultJobListTTL bounds staleness of cached job listings. Writes also
// invalidate eagerly; the TTL is the backstop.
const DefaultJobListTTL = 60 * time.Second

const jobListPrefix = "jobs:list:"

type Cache struct {
	client *redis.Client
}

func New(addr string) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	log.Printf("Connected to Redis at %s", addr)
	return &Cache{client: client}, nil
}

func (c *Cache) Close() error {
	return c.client.Close()
}

func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *Cache) Get(ctx context.Context, key string) (string, bool) {
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false
	}
	if err != nil {
		log.Printf("[CACHE ERROR] %s: %v", key, err)
		return "", false
	}
	return val, true
}

func (c *Cache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	err := c.client.Set(ctx, key, value, ttl).Err()
	if err != nil {
		log.Printf("[CACHE SET ERROR] %s: %v", key, err)
		return err
	}
	return nil
}

// InvalidateJobLists drops every cached job listing page. Called after any
// job mutation so readers never see a deleted or stale posting for more
// than one request.
func (c *Cache) InvalidateJobLists(ctx context.Context) {
	iter := c.client.Scan(ctx, 0, jobListPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			log.Printf("[CACHE DEL ERROR] %s: %v", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		log.Printf("[CACHE SCAN ERROR] %v", err)
	}
}

// JobListKey builds the cache key for one page of a filtered job listing.
func JobListKey(query, category, location string, limit, offset int) string {
	return fmt.Sprintf("%sq=%s|c=%s|l=%s|n=%d|o=%d", jobListPrefix, query, category, location, limit, offset)
}
