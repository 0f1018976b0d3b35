package data

import (
	"context"
	"sync"
	"time"

	"github.com/lk2023060901/yoga-studio-backend/internal/auth/biz"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/logger"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/redis"
)

const denyKeyPrefix = "session:deny:"

// RedisDenyList 以 jti 为 key 的注销黑名单，TTL 与令牌剩余有效期一致
type RedisDenyList struct {
	client *redis.Client
}

func (d *RedisDenyList) Deny(ctx context.Context, jti string, ttl time.Duration) error {
	return d.client.Set(ctx, denyKeyPrefix+jti, 1, ttl)
}

func (d *RedisDenyList) Denied(ctx context.Context, jti string) (bool, error) {
	n, err := d.client.Exists(ctx, denyKeyPrefix+jti)
	return n > 0, err
}

// MemoryDenyList 进程内黑名单，仅在 redis 不可用时使用；多实例部署下注销不会互通
type MemoryDenyList struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

func NewMemoryDenyList() *MemoryDenyList {
	return &MemoryDenyList{entries: make(map[string]time.Time), now: time.Now}
}

func (d *MemoryDenyList) Deny(_ context.Context, jti string, ttl time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.prune()
	d.entries[jti] = d.now().Add(ttl)
	return nil
}

func (d *MemoryDenyList) Denied(_ context.Context, jti string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	until, ok := d.entries[jti]
	return ok && d.now().Before(until), nil
}

func (d *MemoryDenyList) prune() {
	now := d.now()
	for jti, until := range d.entries {
		if !now.Before(until) {
			delete(d.entries, jti)
		}
	}
}

// NewDenyList picks redis when a client is available
func NewDenyList(client *redis.Client, log *logger.Logger) biz.DenyList {
	if client == nil {
		log.Warn("redis unavailable, session revocation is kept in memory")
		return NewMemoryDenyList()
	}
	return &RedisDenyList{client: client}
}
