package data

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/lk2023060901/yoga-studio-backend/internal/dashboard/biz"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/logger"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/redis"
	"go.uber.org/zap"
)

const stateKeyPrefix = "dashboard:state:"

func stateKey(userID string) string {
	return stateKeyPrefix + userID
}

// RedisStateStore 面板状态以 JSON 存储，每次保存刷新 TTL
type RedisStateStore struct {
	client *redis.Client
	log    *logger.Logger
}

func (s *RedisStateStore) Load(ctx context.Context, userID string) (*biz.State, error) {
	raw, err := s.client.Get(ctx, stateKey(userID))
	if redis.IsNil(err) {
		return biz.NewState(userID), nil
	}
	if err != nil {
		return nil, err
	}

	st := &biz.State{}
	if err := json.Unmarshal([]byte(raw), st); err != nil {
		// 无法解析的旧状态直接丢弃
		s.log.WithContext(ctx).Warn("dropping unreadable dashboard state", zap.String("user_id", userID), zap.Error(err))
		return biz.NewState(userID), nil
	}
	st.UserID = userID
	return st, nil
}

func (s *RedisStateStore) Save(ctx context.Context, st *biz.State) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode dashboard state: %w", err)
	}
	return s.client.Set(ctx, stateKey(st.UserID), raw, biz.StateTTL)
}

// MemoryStateStore 进程内状态，redis 不可用时使用
type MemoryStateStore struct {
	mu     sync.Mutex
	states map[string][]byte
}

func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{states: make(map[string][]byte)}
}

// Load returns a copy so callers never share rows with the store
func (s *MemoryStateStore) Load(_ context.Context, userID string) (*biz.State, error) {
	s.mu.Lock()
	raw, ok := s.states[userID]
	s.mu.Unlock()
	if !ok {
		return biz.NewState(userID), nil
	}

	st := &biz.State{}
	if err := json.Unmarshal(raw, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *MemoryStateStore) Save(_ context.Context, st *biz.State) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.states[st.UserID] = raw
	s.mu.Unlock()
	return nil
}

// NewStateStore picks redis when a client is available
func NewStateStore(client *redis.Client, log *logger.Logger) biz.StateStore {
	if client == nil {
		log.Warn("redis unavailable, dashboard state is kept in memory")
		return NewMemoryStateStore()
	}
	return &RedisStateStore{client: client, log: log}
}
