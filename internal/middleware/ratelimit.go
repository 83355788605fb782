package middleware

import (
	"net/http"
	"sync"
	"time"

	"mindhaven/pkg/response"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type keyLimiter struct {
	lim      *rate.Limiter
	lastSeen time.Time // 最近一次访问时间，用于过期清理
}

// RateLimiter 按 客户端IP+路由模板 的令牌桶限速
// 后台清理 goroutine 随 NewRateLimiter 启动，由创建者调用 Stop 结束
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*keyLimiter
	limit    rate.Limit
	burst    int
	idle     time.Duration // 超过该时长未访问的 limiter 会被清理
	stop     chan struct{}
	done     chan struct{} // 清理 goroutine 退出后关闭
	once     sync.Once
}

// NewRateLimiter 创建限速器并启动后台清理
func NewRateLimiter(limit rate.Limit, burst int, idle time.Duration) *RateLimiter {
	rl := &RateLimiter{
		limiters: make(map[string]*keyLimiter),
		limit:    limit,
		burst:    burst,
		idle:     idle,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go rl.gc(sweepInterval)
	return rl
}

const sweepInterval = 30 * time.Second

func (rl *RateLimiter) allow(key string, now time.Time) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	kl, ok := rl.limiters[key]
	if !ok {
		kl = &keyLimiter{lim: rate.NewLimiter(rl.limit, rl.burst)}
		rl.limiters[key] = kl
	}
	kl.lastSeen = now
	return kl.lim.AllowN(now, 1)
}

// sweep 清理超过 idle 未访问的 limiter
func (rl *RateLimiter) sweep(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for k, v := range rl.limiters {
		if now.Sub(v.lastSeen) > rl.idle {
			delete(rl.limiters, k)
		}
	}
}

func (rl *RateLimiter) gc(interval time.Duration) {
	defer close(rl.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-rl.stop:
			return
		case now := <-ticker.C:
			rl.sweep(now)
		}
	}
}

// Stop 停止后台清理，可重复调用
func (rl *RateLimiter) Stop() {
	rl.once.Do(func() { close(rl.stop) })
	<-rl.done
}

// Middleware 返回限速中间件，可多次调用，共享同一组 limiter
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 未匹配路由时 FullPath 为空，按原始路径计数
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		if !rl.allow(c.ClientIP()+"|"+route, time.Now()) {
			c.Header("Retry-After", "1")
			response.Error(c, http.StatusTooManyRequests, "请求过于频繁，请稍后再试")
			c.Abort()
			return
		}
		c.Next()
	}
}
