package middleware

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"

	"github.com/yockii/ppt_tools/internal/constant"
	"github.com/yockii/ppt_tools/internal/service"
	"github.com/yockii/ppt_tools/pkg/logger"
)

// Limiter 固定窗口限流
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type rateLimiter struct {
	maxRequests int
	duration    time.Duration
	mu          sync.Mutex
	tokens      map[string]*tokenBucket
	now         func() time.Time
}

type tokenBucket struct {
	tokens    int
	lastReset time.Time
}

// NewRateLimiter 进程内限流器
func NewRateLimiter(maxRequests int, duration time.Duration) *rateLimiter {
	return &rateLimiter{
		maxRequests: maxRequests,
		duration:    duration,
		tokens:      make(map[string]*tokenBucket),
		now:         time.Now,
	}
}

// Allow 检查是否允许请求
func (rl *rateLimiter) Allow(_ context.Context, clientID string) (bool, error) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	bucket, exists := rl.tokens[clientID]

	if !exists {
		// 新客户端，创建令牌桶
		rl.tokens[clientID] = &tokenBucket{
			tokens:    rl.maxRequests - 1, // 减1是因为当前请求
			lastReset: now,
		}
		return rl.maxRequests > 0, nil
	}

	// 检查是否需要重置令牌
	if now.Sub(bucket.lastReset) >= rl.duration {
		bucket.tokens = rl.maxRequests - 1
		bucket.lastReset = now
		return rl.maxRequests > 0, nil
	}

	// 检查令牌是否足够
	if bucket.tokens > 0 {
		bucket.tokens--
		return true, nil
	}
	return false, nil
}

// cleanup 清理过期的令牌桶
func (rl *rateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for clientID, bucket := range rl.tokens {
		if now.Sub(bucket.lastReset) >= rl.duration*2 {
			delete(rl.tokens, clientID)
		}
	}
}

// StartCleanup 启动清理任务，ctx 结束时退出
func (rl *rateLimiter) StartCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				rl.cleanup()
			}
		}
	}()
}

// redisLimiter 多实例共享计数，INCR 后首次设置过期时间
type redisLimiter struct {
	rdb         redis.UniversalClient
	prefix      string
	maxRequests int
	duration    time.Duration
}

// NewRedisLimiter 基于 redis 的限流器
func NewRedisLimiter(rdb redis.UniversalClient, prefix string, maxRequests int, duration time.Duration) *redisLimiter {
	return &redisLimiter{rdb: rdb, prefix: prefix, maxRequests: maxRequests, duration: duration}
}

func (rl *redisLimiter) Allow(ctx context.Context, clientID string) (bool, error) {
	key := rl.prefix + clientID
	count, err := rl.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		if err := rl.rdb.Expire(ctx, key, rl.duration).Err(); err != nil {
			return false, err
		}
	}
	return count <= int64(rl.maxRequests), nil
}

// RateLimit 限流中间件，限流器出错时放行
//
// 之前的认证中间件写入用户ID时按用户计数，否则按IP
func RateLimit(limiter Limiter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		clientID := "ip_" + c.IP()
		if uid := UserID(c); uid != "" {
			clientID = "user_" + uid
		}

		allowed, err := limiter.Allow(c.UserContext(), clientID)
		if err != nil {
			logger.Warn("限流器不可用，放行请求", logger.F("clientId", clientID), logger.F("error", err))
			return c.Next()
		}
		if !allowed {
			logger.Warn("rate limit exceeded",
				logger.F("clientId", clientID),
				logger.F("path", c.Path()),
			)
			return c.Status(fiber.StatusTooManyRequests).JSON(service.Error(constant.ErrTooManyRequests))
		}
		return c.Next()
	}
}
