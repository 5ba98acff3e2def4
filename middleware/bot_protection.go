package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/dhchun1203/Trend-Analyzer-project/security"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
)

// BotDetectionsKey is the Redis hash of detection counts by reason.
const BotDetectionsKey = "security:bot_detections"

// Health probes and ops tooling never carry a browser agent.
var botExemptPrefixes = []string{"/health", "/cache/metrics", "/security/stats"}

// BotProtection is a middleware that blocks suspected bots
type BotProtection struct {
	detector *security.BotDetector
	enabled  bool
	redis    *redis.Client
}

// NewBotProtection creates the middleware. rdb may be nil, in which case
// detections are only logged.
func NewBotProtection(maxRequestsPerMinute int, enabled bool, rdb *redis.Client) *BotProtection {
	return &BotProtection{
		detector: security.NewBotDetector(maxRequestsPerMinute),
		enabled:  enabled,
		redis:    rdb,
	}
}

// Protect returns a middleware function that blocks bots
func (bp *BotProtection) Protect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !bp.enabled || exempt(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		isBot, reason := bp.detector.IsBot(r)
		if !isBot {
			next.ServeHTTP(w, r)
			return
		}

		log.Warn().
			Str("ip", security.ClientIP(r)).
			Str("user_agent", r.UserAgent()).
			Str("reason", reason).
			Str("path", r.URL.Path).
			Msg("Bot detected - request blocked")

		if bp.redis != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := bp.redis.HIncrBy(ctx, BotDetectionsKey, reason, 1).Err(); err != nil {
				log.Debug().Err(err).Msg("Failed to record bot detection")
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]string{
			"error":   "Bot detected",
			"message": "자동화된 요청으로 판단되어 차단되었습니다.",
			"reason":  reason,
		})
	})
}

func exempt(path string) bool {
	for _, prefix := range botExemptPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// Stats returns the tracker size and, with Redis, detection counts by reason.
func (bp *BotProtection) Stats(ctx context.Context) (map[string]interface{}, error) {
	stats := map[string]interface{}{
		"enabled":     bp.enabled,
		"tracked_ips": bp.detector.TrackedClients(),
		"detections":  map[string]string{},
	}
	if bp.redis == nil {
		return stats, nil
	}

	counts, err := bp.redis.HGetAll(ctx, BotDetectionsKey).Result()
	if err != nil {
		return stats, err
	}
	stats["detections"] = counts
	return stats, nil
}

// Close stops the detector's cleanup loop.
func (bp *BotProtection) Close() {
	bp.detector.Close()
}
