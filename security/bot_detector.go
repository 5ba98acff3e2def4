package security

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Reasons reported by IsBot.
const (
	ReasonScriptedClient = "scripted_client"
	ReasonNoBrowser      = "no_browser_user_agent"
	ReasonRequestRate    = "excessive_request_rate"
)

// Link preview fetchers are allowed so shared analysis permalinks unfurl.
var previewAgents = []string{
	"googlebot",
	"bingbot",
	"yeti", // naver
	"daum",
	"kakaotalk-scrap",
	"slackbot",
	"twitterbot",
	"facebookexternalhit",
	"telegrambot",
	"discordbot",
}

var scriptedAgents = []string{
	"bot",
	"crawler",
	"spider",
	"scraper",
	"curl",
	"wget",
	"python-requests",
	"go-http-client",
	"java/",
	"node-fetch",
	"axios",
	"headlesschrome",
}

var browserMarkers = []string{"Mozilla", "Chrome", "Safari", "Firefox", "Edge", "Opera"}

// BotDetector flags automated clients hammering the analysis pages, each
// of which fans out into several backend calls.
type BotDetector struct {
	requestTracker map[string]*requestHistory
	mu             sync.Mutex

	maxRequestsPerMinute int
	cleanupInterval      time.Duration
	now                  func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

type requestHistory struct {
	requests []time.Time
	lastSeen time.Time
}

// NewBotDetector creates a detector and starts its cleanup loop. Call Close
// to stop it.
func NewBotDetector(maxRequestsPerMinute int) *BotDetector {
	bd := &BotDetector{
		requestTracker:       make(map[string]*requestHistory),
		maxRequestsPerMinute: maxRequestsPerMinute,
		cleanupInterval:      5 * time.Minute,
		now:                  time.Now,
		stop:                 make(chan struct{}),
	}

	go bd.cleanupLoop()

	return bd
}

// IsBot reports whether r looks automated, and why.
func (bd *BotDetector) IsBot(r *http.Request) (bool, string) {
	userAgent := r.UserAgent()
	lower := strings.ToLower(userAgent)

	if containsAny(lower, previewAgents) {
		return false, ""
	}
	if containsAny(lower, scriptedAgents) {
		return true, ReasonScriptedClient
	}
	if !looksLikeBrowser(userAgent) {
		return true, ReasonNoBrowser
	}
	if bd.exceedsRate(ClientIP(r)) {
		return true, ReasonRequestRate
	}
	return false, ""
}

func containsAny(s string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

func looksLikeBrowser(userAgent string) bool {
	if len(userAgent) < 10 {
		return false
	}
	for _, marker := range browserMarkers {
		if strings.Contains(userAgent, marker) {
			return true
		}
	}
	return false
}

// exceedsRate records a request from ip and reports whether the last
// minute holds more than the allowed number.
func (bd *BotDetector) exceedsRate(ip string) bool {
	if bd.maxRequestsPerMinute <= 0 {
		return false
	}

	bd.mu.Lock()
	defer bd.mu.Unlock()

	now := bd.now()
	cutoff := now.Add(-time.Minute)

	history, exists := bd.requestTracker[ip]
	if !exists {
		history = &requestHistory{}
		bd.requestTracker[ip] = history
	}

	recent := history.requests[:0]
	for _, t := range history.requests {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}
	history.requests = append(recent, now)
	history.lastSeen = now

	if len(history.requests) > bd.maxRequestsPerMinute {
		log.Warn().
			Str("ip", ip).
			Int("requests", len(history.requests)).
			Msg("Request rate exceeded - potential bot")
		return true
	}
	return false
}

func (bd *BotDetector) cleanupLoop() {
	ticker := time.NewTicker(bd.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			removed := bd.Cleanup(10 * time.Minute)
			log.Debug().Int("removed", removed).Msg("Cleaned up bot detection tracker")
		case <-bd.stop:
			return
		}
	}
}

// Cleanup drops clients not seen within maxAge and returns how many.
func (bd *BotDetector) Cleanup(maxAge time.Duration) int {
	bd.mu.Lock()
	defer bd.mu.Unlock()

	cutoff := bd.now().Add(-maxAge)
	removed := 0
	for ip, history := range bd.requestTracker {
		if history.lastSeen.Before(cutoff) {
			delete(bd.requestTracker, ip)
			removed++
		}
	}
	return removed
}

// Close stops the cleanup loop.
func (bd *BotDetector) Close() {
	bd.stopOnce.Do(func() { close(bd.stop) })
}

// TrackedClients returns the number of clients with recent history.
func (bd *BotDetector) TrackedClients() int {
	bd.mu.Lock()
	defer bd.mu.Unlock()
	return len(bd.requestTracker)
}

// ClientIP extracts the client address, preferring proxy headers.
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		ips := strings.Split(forwarded, ",")
		return strings.TrimSpace(ips[0])
	}

	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
