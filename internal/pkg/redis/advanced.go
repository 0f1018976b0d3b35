package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Eval 执行 Lua 脚本
func (c *Client) Eval(ctx context.Context, script string, keys []string, args ...interface{}) (interface{}, error) {
	result, err := c.rdb.Eval(ctx, script, keys, args...).Result()
	if err != nil && !IsNil(err) {
		c.logger.Error("redis eval failed", zap.Strings("keys", keys), zap.Error(err))
	}
	return result, err
}

const unlockScript = `
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end
`

// Lock 获取分布式锁，锁已被占用时返回 ErrLockNotAcquired
func (c *Client) Lock(ctx context.Context, key string, expiration time.Duration) (string, error) {
	token := uuid.NewString()

	ok, err := c.rdb.SetNX(ctx, key, token, expiration).Result()
	if err != nil {
		c.logger.Error("redis lock failed", zap.String("key", key), zap.Error(err))
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrLockNotAcquired, key)
	}

	c.logger.Debug("redis lock acquired", zap.String("key", key), zap.Duration("expiration", expiration))
	return token, nil
}

// Unlock 释放分布式锁（Lua 脚本保证只删除自己持有的锁）
func (c *Client) Unlock(ctx context.Context, key, token string) error {
	result, err := c.rdb.Eval(ctx, unlockScript, []string{key}, token).Int64()
	if err != nil {
		c.logger.Error("redis unlock failed", zap.String("key", key), zap.Error(err))
		return err
	}
	if result == 0 {
		return fmt.Errorf("failed to release lock %s: token mismatch or lock expired", key)
	}
	return nil
}

// WithLock 在锁保护下执行函数
func (c *Client) WithLock(ctx context.Context, key string, expiration time.Duration, fn func(ctx context.Context) error) error {
	token, err := c.Lock(ctx, key, expiration)
	if err != nil {
		return err
	}

	defer func() {
		if err := c.Unlock(context.WithoutCancel(ctx), key, token); err != nil {
			c.logger.Warn("failed to unlock", zap.String("key", key), zap.Error(err))
		}
	}()

	return fn(ctx)
}
