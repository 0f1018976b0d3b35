package middleware

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	apperrors "github.com/lk2023060901/yoga-studio-backend/internal/pkg/errors"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/logger"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/redis"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/response"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/validator"
	"go.uber.org/zap"
)

// RateLimiterConfig 限流配置
type RateLimiterConfig struct {
	// 时间窗口内允许的最大请求数
	MaxRequests int
	// 时间窗口
	Window time.Duration
	// 限流策略：user, endpoint, ip（默认）
	Strategy string
}

// 滑动窗口：每次请求以唯一 member 记录，score 为毫秒时间戳
const slidingWindowScript = `
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
local member = ARGV[4]

redis.call('ZREMRANGEBYSCORE', key, 0, now - window)

local current = redis.call('ZCARD', key)
if current < limit then
	redis.call('ZADD', key, now, member)
	redis.call('PEXPIRE', key, window)
	return {1, limit - current - 1, now + window}
end

local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')[2]
return {0, 0, tonumber(oldest) + window}
`

// RateLimiter 基于 Redis 的滑动窗口限流中间件。
// redis 不可用或出错时放行。
func RateLimiter(redisClient *redis.Client, cfg RateLimiterConfig, log *logger.Logger) gin.HandlerFunc {
	if cfg.MaxRequests <= 0 {
		cfg.MaxRequests = 100
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	if cfg.Strategy == "" {
		cfg.Strategy = "ip"
	}

	return func(c *gin.Context) {
		if redisClient == nil {
			c.Next()
			return
		}

		key := buildRateLimitKey(c, cfg.Strategy)
		allowed, remaining, resetAt, err := checkRateLimit(c.Request.Context(), redisClient, key, cfg)
		if err != nil {
			log.Error("rate limiter error", zap.Error(err), zap.String("key", key))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.MaxRequests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))

		if !allowed {
			retryAfter := time.Until(resetAt).Round(time.Second)
			if retryAfter < time.Second {
				retryAfter = time.Second
			}
			c.Header("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
			response.ErrorWithCode(c, apperrors.ErrTooManyRequests,
				fmt.Sprintf("try again in %d seconds", int(retryAfter.Seconds())))
			c.Abort()
			return
		}

		c.Next()
	}
}

func clientIP(c *gin.Context) string {
	return validator.GetIPOrDefault(c.ClientIP(), "unknown")
}

// buildRateLimitKey 构建限流 key
func buildRateLimitKey(c *gin.Context, strategy string) string {
	const prefix = "rate_limit"

	switch strategy {
	case "user":
		if user, ok := CurrentUser(c); ok {
			return fmt.Sprintf("%s:user:%s", prefix, user.ID)
		}
		return fmt.Sprintf("%s:ip:%s", prefix, clientIP(c))
	case "endpoint":
		return fmt.Sprintf("%s:endpoint:%s:%s", prefix, c.FullPath(), clientIP(c))
	default:
		return fmt.Sprintf("%s:ip:%s", prefix, clientIP(c))
	}
}

func checkRateLimit(ctx context.Context, redisClient *redis.Client, key string, cfg RateLimiterConfig) (allowed bool, remaining int, resetAt time.Time, err error) {
	now := time.Now().UnixMilli()
	member := strconv.FormatInt(now, 10) + "-" + uuid.NewString()

	result, err := redisClient.Eval(ctx, slidingWindowScript, []string{key}, now, cfg.Window.Milliseconds(), cfg.MaxRequests, member)
	if err != nil {
		return false, 0, time.Time{}, err
	}

	values, ok := result.([]interface{})
	if !ok || len(values) != 3 {
		return false, 0, time.Time{}, fmt.Errorf("unexpected rate limit result %v", result)
	}
	allowedInt, _ := values[0].(int64)
	remainingInt, _ := values[1].(int64)
	resetMs, _ := values[2].(int64)

	return allowedInt == 1, int(remainingInt), time.UnixMilli(resetMs), nil
}

// LoginRateLimiter 登录端点专用限流：5 次 / 5 分钟（基于 IP）
func LoginRateLimiter(redisClient *redis.Client, log *logger.Logger) gin.HandlerFunc {
	return RateLimiter(redisClient, RateLimiterConfig{
		MaxRequests: 5,
		Window:      5 * time.Minute,
		Strategy:    "ip",
	}, log)
}
