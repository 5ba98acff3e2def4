package handler

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"syscall"
	"time"

	"github.com/dhchun1203/Trend-Analyzer-project/analysis"
	"github.com/dhchun1203/Trend-Analyzer-project/backend"
	"github.com/dhchun1203/Trend-Analyzer-project/utils"
	"github.com/dhchun1203/Trend-Analyzer-project/view"

	"github.com/rs/zerolog/log"
)

const defaultProxyTimeout = 10 * time.Second

// ProxyError is the body of every failed /api/crawl response.
type ProxyError struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// AnalysisResponse is the /api/analysis payload.
type AnalysisResponse struct {
	analysis.ViewState
	TrendSeries     []view.TrendPoint  `json:"trend_series"`
	SyntheticSeries bool               `json:"synthetic_series"`
	VolumeShares    []view.VolumeShare `json:"volume_shares,omitempty"`
}

// AnalysisJSON handles GET /api/analysis?keyword=K. Each call runs against
// its own store, so JSON clients never share state with page sessions.
func (h *PageHandler) AnalysisJSON(w http.ResponseWriter, r *http.Request) {
	store := analysis.NewStore()
	state, err := h.orchestrator.Analyze(r.Context(), store, analysis.Request{Keyword: r.URL.Query().Get("keyword")})
	if errors.Is(err, utils.ErrEmptyKeyword) {
		SendJSONError(w, http.StatusBadRequest, err, analysis.MsgEmptyKeyword)
		return
	}
	if err != nil {
		SendJSONError(w, http.StatusBadGateway, err, state.Error)
		return
	}

	series, synthetic := view.BuildTrendSeries(state.Report, state.TrendChart, h.now(), h.random)
	SendJSON(w, http.StatusOK, AnalysisResponse{
		ViewState:       state,
		TrendSeries:     series,
		SyntheticSeries: synthetic,
		VolumeShares:    view.SearchVolumeShares(state.Report.SearchVolumeStats),
	})
}

// PopularProductsProxy handles /api/crawl, a pass-through to the backend's
// popular products with its own deadline.
func (h *PageHandler) PopularProductsProxy(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		SendJSON(w, http.StatusMethodNotAllowed, ProxyError{Error: "Method not allowed"})
		return
	}

	timeout := time.Duration(h.config.Backend.ProxyTimeout) * time.Second
	if timeout <= 0 {
		timeout = defaultProxyTimeout
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	body, err := h.backend.PopularProductsRaw(ctx)
	if err != nil {
		resp := h.proxyError(err)
		log.Error().
			Err(err).
			Str("details", resp.Details).
			Msg("Popular products proxy failed")
		SendJSON(w, http.StatusInternalServerError, resp)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

func (h *PageHandler) proxyError(err error) ProxyError {
	var statusErr *backend.StatusError
	var netErr net.Error

	switch {
	case errors.Is(err, syscall.ECONNREFUSED):
		return ProxyError{
			Error:   fmt.Sprintf("백엔드 서버에 연결할 수 없습니다. 백엔드 서버가 %s에서 실행 중인지 확인해주세요.", h.backend.BaseURL()),
			Details: "ECONNREFUSED",
		}
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		return ProxyError{Error: "인기상품 서비스 응답 시간이 초과되었습니다.", Details: "ETIMEDOUT"}
	case errors.Is(err, backend.ErrMalformedResponse):
		return ProxyError{Error: "Invalid data format from backend", Details: "Unknown error"}
	case errors.As(err, &statusErr):
		return ProxyError{Error: fmt.Sprintf("Backend API error: %d", statusErr.StatusCode), Details: "Unknown error"}
	default:
		return ProxyError{Error: "인기상품 서비스에 연결할 수 없습니다.", Details: "Unknown error"}
	}
}

// HealthCheck handles GET /health
func (h *PageHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status":   "healthy",
		"redis":    "disabled",
		"sessions": h.sessions.Len(),
	}

	if h.redis != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := h.redis.Ping(ctx).Err(); err != nil {
			log.Error().Err(err).Msg("Redis health check failed")
			status["status"] = "unhealthy"
			status["redis"] = "unavailable"
			SendJSON(w, http.StatusServiceUnavailable, status)
			return
		}
		status["redis"] = "connected"
	}

	SendJSON(w, http.StatusOK, status)
}

// CacheMetrics handles GET /cache/metrics
func (h *PageHandler) CacheMetrics(w http.ResponseWriter, r *http.Request) {
	metrics := h.cache.GetMetricsSnapshot()
	if !metrics.Enabled {
		SendJSONError(w, http.StatusServiceUnavailable, errors.New("cache is disabled"), "")
		return
	}
	SendJSON(w, http.StatusOK, metrics)
}
