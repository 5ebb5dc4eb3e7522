package middleware

import (
	"context"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const (
	warningInterval   = 30 * time.Second
	cleanupInterval   = 10 * time.Minute
	inactiveThreshold = time.Hour
)

// userLimit tracks rate limit state for a single user
type userLimit struct {
	tokens        float64
	lastRefill    time.Time
	warningsSent  int
	lastWarningAt time.Time
	mu            sync.Mutex
}

// RateLimiterMiddleware implements token bucket rate limiting per user
type RateLimiterMiddleware struct {
	limits     map[int64]*userLimit
	mu         sync.Mutex
	maxTokens  float64 // bucket size, the allowed burst
	refillRate float64 // tokens added per second
	bot        Sender
	now        func() time.Time
	stop       chan struct{}
	stopOnce   sync.Once
}

func NewRateLimiterMiddleware(requestsPerMinute, burstSize int, bot Sender) *RateLimiterMiddleware {
	rl := &RateLimiterMiddleware{
		limits:     make(map[int64]*userLimit),
		maxTokens:  float64(burstSize),
		refillRate: float64(requestsPerMinute) / 60.0,
		bot:        bot,
		now:        time.Now,
		stop:       make(chan struct{}),
	}

	go rl.cleanupInactiveUsers()

	return rl
}

// Stop ends the background cleanup.
func (rl *RateLimiterMiddleware) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

// Handle drops the update when the user is over the limit
func (rl *RateLimiterMiddleware) Handle(ctx context.Context, update tgbotapi.Update, next Next) {
	userID, chatID := UpdateParticipants(update)
	if userID == 0 {
		next(ctx, update)
		return
	}

	if !rl.allowRequest(ctx, userID, chatID) {
		ctxzap.Warn(ctx, "rate limit exceeded",
			zap.Int64("user_id", userID),
			zap.Int64("chat_id", chatID),
		)
		return
	}

	next(ctx, update)
}

func (rl *RateLimiterMiddleware) allowRequest(ctx context.Context, userID, chatID int64) bool {
	now := rl.now()

	rl.mu.Lock()
	limit, exists := rl.limits[userID]
	if !exists {
		limit = &userLimit{
			tokens:     rl.maxTokens,
			lastRefill: now,
		}
		rl.limits[userID] = limit
	}
	rl.mu.Unlock()

	limit.mu.Lock()
	defer limit.mu.Unlock()

	elapsed := now.Sub(limit.lastRefill).Seconds()
	limit.tokens += elapsed * rl.refillRate
	if limit.tokens > rl.maxTokens {
		limit.tokens = rl.maxTokens
	}
	limit.lastRefill = now

	if limit.tokens >= 1.0 {
		limit.tokens -= 1.0
		limit.warningsSent = 0
		return true
	}

	if now.Sub(limit.lastWarningAt) > warningInterval {
		limit.warningsSent++
		limit.lastWarningAt = now
		rl.sendRateLimitWarning(ctx, chatID, limit.warningsSent)
	}

	return false
}

func (rl *RateLimiterMiddleware) sendRateLimitWarning(ctx context.Context, chatID int64, warningCount int) {
	if chatID == 0 {
		return
	}

	var text string
	switch {
	case warningCount == 1:
		text = "⚠️ Too many requests. Please wait a moment."
	case warningCount == 2:
		text = "⚠️ Rate limit exceeded. Wait about 30 seconds before trying again."
	default:
		text = "🛑 You are sending requests too often. Please wait a minute."
	}

	if _, err := rl.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		ctxzap.Error(ctx, "failed to send rate limit warning",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
	}
}

func (rl *RateLimiterMiddleware) cleanupInactiveUsers() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.removeInactive(rl.now())
		case <-rl.stop:
			return
		}
	}
}

// removeInactive forgets users that have not sent anything for a while
func (rl *RateLimiterMiddleware) removeInactive(now time.Time) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	removed := 0
	for userID, limit := range rl.limits {
		limit.mu.Lock()
		if now.Sub(limit.lastRefill) > inactiveThreshold {
			delete(rl.limits, userID)
			removed++
		}
		limit.mu.Unlock()
	}
	return removed
}
