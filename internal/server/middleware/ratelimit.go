package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mmvit/garudar/internal/server/metrics"
	"github.com/mmvit/garudar/internal/server/respond"
)

// RateLimiter - лимитер с фиксированным окном: не больше rate запросов
// с одного ключа за period. Окно ключа начинается с первого запроса.
type RateLimiter struct {
	logger   *slog.Logger
	windows  map[string]*limitWindow
	now      func() time.Time
	done     chan struct{}
	trusted  []netip.Prefix
	rate     int
	period   time.Duration
	mu       sync.Mutex
	stopOnce sync.Once
}

type limitWindow struct {
	start time.Time
	count int
}

// LimiterOption настраивает RateLimiter
type LimiterOption func(*RateLimiter)

// WithTrustedProxies задает адреса обратных прокси. Только для соединений
// с этих адресов клиентский IP берется из X-Forwarded-For / X-Real-IP.
func WithTrustedProxies(prefixes []netip.Prefix) LimiterOption {
	return func(rl *RateLimiter) {
		rl.trusted = prefixes
	}
}

// NewRateLimiter создает лимитер и запускает фоновую очистку окон.
// Stop останавливает очистку.
func NewRateLimiter(rate int, period time.Duration, logger *slog.Logger, opts ...LimiterOption) *RateLimiter {
	rl := &RateLimiter{
		logger:  logger,
		windows: make(map[string]*limitWindow),
		now:     time.Now,
		done:    make(chan struct{}),
		rate:    rate,
		period:  period,
	}
	for _, opt := range opts {
		opt(rl)
	}

	go rl.sweepLoop()

	return rl
}

// Stop останавливает фоновую очистку. Повторный вызов безопасен.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() {
		close(rl.done)
	})
}

// Allow учитывает запрос с ключа key и сообщает, укладывается ли он в лимит
func (rl *RateLimiter) Allow(key string) bool {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	w, ok := rl.windows[key]
	if !ok || now.Sub(w.start) >= rl.period {
		rl.windows[key] = &limitWindow{start: now, count: 1}
		return true
	}
	if w.count >= rl.rate {
		return false
	}
	w.count++
	return true
}

func (rl *RateLimiter) sweepLoop() {
	ticker := time.NewTicker(rl.period * 2)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.sweep()
		case <-rl.done:
			return
		}
	}
}

// sweep удаляет окна, закончившиеся больше period назад
func (rl *RateLimiter) sweep() {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	before := len(rl.windows)
	for key, w := range rl.windows {
		if now.Sub(w.start) >= rl.period*2 {
			delete(rl.windows, key)
		}
	}

	if removed := before - len(rl.windows); removed > 0 {
		rl.logger.Debug("rate limiter windows swept", "removed", removed, "active", len(rl.windows))
	}
}

// ClientIP возвращает ключ лимитера для запроса. По умолчанию это адрес
// сокета; заголовки прокси читаются только если сокет принадлежит доверенному прокси.
func (rl *RateLimiter) ClientIP(r *http.Request) string {
	remote := r.RemoteAddr
	if host, _, err := net.SplitHostPort(remote); err == nil {
		remote = host
	}
	if !rl.isTrusted(remote) {
		return remote
	}

	// Прокси дописывают адреса справа: клиент - самый правый недоверенный адрес
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop := strings.TrimSpace(hops[i])
			if hop != "" && !rl.isTrusted(hop) {
				return hop
			}
		}
		if first := strings.TrimSpace(hops[0]); first != "" {
			return first
		}
	}

	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	return remote
}

func (rl *RateLimiter) isTrusted(host string) bool {
	if len(rl.trusted) == 0 {
		return false
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range rl.trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// LimitRecorder учитывает отклоненные лимитером запросы
type LimitRecorder interface {
	LoginAttempt(outcome string)
}

// RateLimitMiddleware ограничивает частоту запросов с одного клиентского IP.
// Лимитер создается вызывающим, чтобы его можно было остановить при shutdown.
func RateLimitMiddleware(limiter *RateLimiter, logger *slog.Logger, recorder LimitRecorder) func(http.Handler) http.Handler {
	retryAfter := strconv.Itoa(int(limiter.period.Seconds()))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := limiter.ClientIP(r)

			if !limiter.Allow(key) {
				logger.WarnContext(r.Context(), "Rate limit exceeded",
					"ip", key,
					"method", r.Method,
					"path", r.URL.Path,
				)
				if recorder != nil {
					recorder.LoginAttempt(metrics.LoginRateLimited)
				}

				w.Header().Set("Retry-After", retryAfter)
				respond.Error(w, logger, "rate limit exceeded, please try again later", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
