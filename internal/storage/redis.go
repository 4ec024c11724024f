package storage

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisMarkerCache implements the submission and review guards with expiring
// redis keys.
type RedisMarkerCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisMarkerCache(client *redis.Client, ttl time.Duration) *RedisMarkerCache {
	return &RedisMarkerCache{Client: client, TTL: ttl}
}

func (c *RedisMarkerCache) CheckoutMarkerKey(customerID int) string {
	return "checkout:" + strconv.Itoa(customerID)
}

func (c *RedisMarkerCache) ReviewMarkerKey(orderID int64, customerID int) string {
	return "review:" + strconv.FormatInt(orderID, 10) + ":" + strconv.Itoa(customerID)
}

func (c *RedisMarkerCache) Exists(ctx context.Context, key string) (bool, error) {
	res, err := c.Client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return res > 0, nil
}

func (c *RedisMarkerCache) SetMarker(ctx context.Context, key string) error {
	return c.Client.Set(ctx, key, "1", c.TTL).Err()
}

func (c *RedisMarkerCache) ClearMarker(ctx context.Context, key string) error {
	return c.Client.Del(ctx, key).Err()
}
