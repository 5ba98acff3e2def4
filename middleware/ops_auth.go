package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/dhchun1203/Trend-Analyzer-project/security"

	"github.com/rs/zerolog/log"
)

// OpsAuth guards operational endpoints (cache metrics, bot statistics)
// with a shared API key. Without a key the endpoints stay open.
type OpsAuth struct {
	apiKey string
}

// NewOpsAuth creates the middleware. An empty apiKey disables the check.
func NewOpsAuth(apiKey string) *OpsAuth {
	if apiKey == "" {
		log.Info().Msg("No ops API key configured - operational endpoints are public")
	}
	return &OpsAuth{apiKey: apiKey}
}

// Protect wraps an HTTP handler with key authentication
func (a *OpsAuth) Protect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.apiKey == "" {
			next.ServeHTTP(w, r)
			return
		}

		providedKey := r.Header.Get("X-Ops-Key")
		if providedKey == "" {
			if authHeader := r.Header.Get("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
				providedKey = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		if providedKey == "" {
			log.Warn().
				Str("path", r.URL.Path).
				Str("ip", security.ClientIP(r)).
				Msg("Ops route accessed without API key")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"Missing API key. Provide via X-Ops-Key header or Authorization: Bearer <key>"}`))
			return
		}

		if subtle.ConstantTimeCompare([]byte(providedKey), []byte(a.apiKey)) != 1 {
			log.Warn().
				Str("path", r.URL.Path).
				Str("ip", security.ClientIP(r)).
				Msg("Ops route accessed with invalid API key")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"error":"Invalid API key"}`))
			return
		}

		next.ServeHTTP(w, r)
	})
}
