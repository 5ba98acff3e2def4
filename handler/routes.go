package handler

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Routes registers the page and API endpoints on r. Operational endpoints
// such as /cache/metrics are mounted by the caller behind its own auth.
func (h *PageHandler) Routes(r *mux.Router) {
	r.HandleFunc("/", h.Home).Methods(http.MethodGet)
	r.HandleFunc("/categories", h.Categories).Methods(http.MethodGet)
	r.HandleFunc("/keyword-analysis", h.KeywordAnalysis).Methods(http.MethodGet)
	r.HandleFunc("/keyword-analysis/reset", h.ResetAnalysis).Methods(http.MethodPost)
	r.HandleFunc("/test-api", h.TestAPI).Methods(http.MethodGet)

	// The proxy answers every method itself so clients get a JSON 405
	r.HandleFunc("/api/crawl", h.PopularProductsProxy)
	r.HandleFunc("/api/analysis", h.AnalysisJSON).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/qr/keyword-analysis", h.KeywordQR).Methods(http.MethodGet)

	r.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		h.renderError(w, http.StatusNotFound, "/", "페이지를 찾을 수 없습니다.")
	})
}
