package workerpool

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
)

var ErrPoolClosed = errors.New("worker pool is closed")

// Config Worker Pool 配置
type Config struct {
	Workers int // worker 数量
}

// DefaultConfig 默认配置
func DefaultConfig() *Config {
	return &Config{Workers: 8}
}

// Statistics 统计信息
type Statistics struct {
	Submitted int64
	Completed int64
	Failed    int64
}

// Pool 基于 ants 的任务池；Wait 等待已提交任务全部结束
type Pool struct {
	pool   *ants.Pool
	wg     sync.WaitGroup
	logger *zap.Logger

	submitted atomic.Int64
	completed atomic.Int64
	failed    atomic.Int64
}

// New 创建 Worker Pool
func New(config *Config, logger *zap.Logger) (*Pool, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	size := config.Workers
	if size <= 0 {
		size = DefaultConfig().Workers
	}

	p := &Pool{logger: logger}
	antsPool, err := ants.NewPool(size,
		ants.WithPanicHandler(func(err interface{}) {
			p.failed.Add(1)
			p.wg.Done()
			logger.Error("worker panic", zap.Any("error", err))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create ants pool: %w", err)
	}
	p.pool = antsPool
	return p, nil
}

// Submit 提交任务，任务返回的错误计入失败数
func (p *Pool) Submit(ctx context.Context, task func(ctx context.Context) error) error {
	if p.pool.IsClosed() {
		return ErrPoolClosed
	}

	p.wg.Add(1)
	err := p.pool.Submit(func() {
		err := task(ctx)
		if err != nil {
			p.failed.Add(1)
		} else {
			p.completed.Add(1)
		}
		p.wg.Done()
	})
	if err != nil {
		p.wg.Done()
		if errors.Is(err, ants.ErrPoolClosed) {
			return ErrPoolClosed
		}
		return err
	}

	p.submitted.Add(1)
	return nil
}

// Wait 等待所有已提交任务完成
func (p *Pool) Wait() {
	p.wg.Wait()
}

// Stats 返回统计快照
func (p *Pool) Stats() Statistics {
	return Statistics{
		Submitted: p.submitted.Load(),
		Completed: p.completed.Load(),
		Failed:    p.failed.Load(),
	}
}

// Running 正在运行的 worker 数
func (p *Pool) Running() int {
	return p.pool.Running()
}

// Shutdown 等待任务结束后释放
func (p *Pool) Shutdown() {
	p.wg.Wait()
	p.pool.Release()
}
