package infra

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const denylistPrefix = "auth:revocado:"

// RedisDenylist keeps revoked token IDs as expiring keys.
type RedisDenylist struct {
	rdb *redis.Client
}

func NewRedisDenylist(rdb *redis.Client) *RedisDenylist {
	return &RedisDenylist{rdb: rdb}
}

func (d *RedisDenylist) Revocar(ctx context.Context, jti string, ttl time.Duration) error {
	return d.rdb.Set(ctx, denylistPrefix+jti, 1, ttl).Err()
}

func (d *RedisDenylist) Revocado(ctx context.Context, jti string) (bool, error) {
	n, err := d.rdb.Exists(ctx, denylistPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
