package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	defaultWindow = 10 * time.Minute
	defaultMax    = 3
)

// CodeLimiter throttles one-time-code issuance with a fixed-window counter
// per (purpose, email) key. It fails open: if Redis is unreachable the code
// is issued anyway, since blocking logins is worse than allowing a resend.
type CodeLimiter struct {
	client *redis.Client
	window time.Duration
	max    int64
	log    zerolog.Logger
}

// NewCodeLimiter creates a CodeLimiter allowing max issuances per window.
func NewCodeLimiter(client *redis.Client, window time.Duration, max int, log zerolog.Logger) *CodeLimiter {
	if window <= 0 {
		window = defaultWindow
	}
	if max <= 0 {
		max = defaultMax
	}
	return &CodeLimiter{client: client, window: window, max: int64(max), log: log}
}

// Allow reports whether another code may be issued for key right now.
func (l *CodeLimiter) Allow(ctx context.Context, key string) bool {
	if l == nil || l.client == nil {
		return true
	}
	k := l.redisKey(key)

	count, err := l.client.Incr(ctx, k).Result()
	if err != nil {
		l.log.Warn().Err(err).Str("key", k).Msg("code limiter unavailable, allowing")
		return true
	}
	if count == 1 {
		// First issuance in this window starts the clock.
		if err := l.client.Expire(ctx, k, l.window).Err(); err != nil {
			l.log.Warn().Err(err).Str("key", k).Msg("failed to set limiter ttl")
		}
	}
	return count <= l.max
}

func (l *CodeLimiter) redisKey(key string) string {
	return fmt.Sprintf("codes:rl:%s", strings.ToLower(strings.TrimSpace(key)))
}
