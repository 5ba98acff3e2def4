package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

const chromeUA = "Mozilla/5.0 (Macintosh; Intel Mac OS X 14_0) AppleWebKit/605.1.15 Safari/605.1.15"

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	h := rl.Limit(okHandler)

	send := func(ip string) int {
		req := httptest.NewRequest("GET", "/", nil)
		req.RemoteAddr = ip + ":1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	if send("10.0.0.1") != http.StatusOK || send("10.0.0.1") != http.StatusOK {
		t.Fatal("Burst requests should pass")
	}
	if code := send("10.0.0.1"); code != http.StatusTooManyRequests {
		t.Errorf("Expected 429 after burst, got %d", code)
	}
	// Different source port, same client
	if code := send("10.0.0.1"); code != http.StatusTooManyRequests {
		t.Errorf("Limiter should key on IP only, got %d", code)
	}
	if code := send("10.0.0.2"); code != http.StatusOK {
		t.Errorf("Other clients should pass, got %d", code)
	}
}

func TestRateLimiter_Forget(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	now := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.allow("10.0.0.1")
	now = now.Add(5 * time.Minute)
	rl.allow("10.0.0.2")

	if removed := rl.Forget(time.Minute); removed != 1 {
		t.Errorf("Expected 1 idle client removed, got %d", removed)
	}
	if _, ok := rl.clients["10.0.0.2"]; !ok {
		t.Error("Active client should be kept")
	}
}

func TestRateLimiter_Disabled(t *testing.T) {
	h := NewRateLimiter(0, 0).Limit(okHandler)
	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("Disabled limiter rejected request %d", i)
		}
	}
}

func TestBotProtection(t *testing.T) {
	s, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	defer s.Close()
	rdb := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer rdb.Close()

	bp := NewBotProtection(100, true, rdb)
	defer bp.Close()
	h := bp.Protect(okHandler)

	tests := []struct {
		name      string
		path      string
		userAgent string
		want      int
	}{
		{"Browser", "/keyword-analysis", chromeUA, http.StatusOK},
		{"curl on page", "/keyword-analysis", "curl/8.4.0", http.StatusForbidden},
		{"curl on health", "/health", "curl/8.4.0", http.StatusOK},
		{"Empty agent", "/", "", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			req.Header.Set("User-Agent", tt.userAgent)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, rec.Code)
			}
		})
	}

	stats, err := bp.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	detections := stats["detections"].(map[string]string)
	if detections["scripted_client"] != "1" || detections["no_browser_user_agent"] != "1" {
		t.Errorf("Unexpected detection counts: %v", detections)
	}
}

func TestBotProtection_Disabled(t *testing.T) {
	bp := NewBotProtection(1, false, nil)
	defer bp.Close()

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("User-Agent", "curl/8.4.0")
	rec := httptest.NewRecorder()
	bp.Protect(okHandler).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("Disabled protection should pass, got %d", rec.Code)
	}
}

func TestRequestLoggerRecordsStatus(t *testing.T) {
	var seen *statusRecorder
	h := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = w.(*statusRecorder)
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short and stout"))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if rec.Code != http.StatusTeapot {
		t.Errorf("Expected status passed through, got %d", rec.Code)
	}
	if seen.status != http.StatusTeapot || seen.bytes != len("short and stout") {
		t.Errorf("Recorder saw status %d bytes %d", seen.status, seen.bytes)
	}
}

func TestCORSPreflight(t *testing.T) {
	called := false
	h := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/analysis", nil))

	if rec.Code != http.StatusNoContent || called {
		t.Errorf("Preflight should be answered directly, got %d called=%v", rec.Code, called)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("Missing CORS header")
	}
}

func TestOpsAuth(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		header map[string]string
		want   int
	}{
		{"No key configured", "", nil, http.StatusOK},
		{"Missing key", "s3cret", nil, http.StatusUnauthorized},
		{"Header key", "s3cret", map[string]string{"X-Ops-Key": "s3cret"}, http.StatusOK},
		{"Bearer key", "s3cret", map[string]string{"Authorization": "Bearer s3cret"}, http.StatusOK},
		{"Wrong key", "s3cret", map[string]string{"X-Ops-Key": "guess"}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/cache/metrics", nil)
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			NewOpsAuth(tt.key).Protect(okHandler).ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, rec.Code)
			}
		})
	}
}
