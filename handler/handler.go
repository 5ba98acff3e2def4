package handler

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/dhchun1203/Trend-Analyzer-project/analysis"
	"github.com/dhchun1203/Trend-Analyzer-project/backend"
	"github.com/dhchun1203/Trend-Analyzer-project/cache"
	"github.com/dhchun1203/Trend-Analyzer-project/config"
	"github.com/dhchun1203/Trend-Analyzer-project/model"
	"github.com/dhchun1203/Trend-Analyzer-project/session"
	"github.com/dhchun1203/Trend-Analyzer-project/view"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{"index.html", "categories.html", "keyword-analysis.html", "test-api.html", "error.html"}

// navItem is one entry of the top navigation bar.
type navItem struct {
	Label string
	Path  string
}

var navigation = []navItem{
	{Label: "🏠 홈", Path: "/"},
	{Label: "📂 카테고리별 상품", Path: "/categories"},
	{Label: "🔍 키워드 분석", Path: "/keyword-analysis"},
	{Label: "🧪 API 테스트", Path: "/test-api"},
}

// basePage carries what the layout needs on every page.
type basePage struct {
	Title  string
	Active string
	Nav    []navItem
}

func newBasePage(title, active string) basePage {
	return basePage{Title: title, Active: active, Nav: navigation}
}

// PageHandler serves the HTML pages and JSON endpoints of the web client
type PageHandler struct {
	backend      *backend.Client
	orchestrator *analysis.Orchestrator
	cache        *cache.Cache
	sessions     *session.Manager
	redis        *redis.Client
	config       config.Config
	baseURL      string
	pages        map[string]*template.Template

	now   func() time.Time
	rndMu sync.Mutex
	rnd   *rand.Rand
}

// NewPageHandler wires the handler. cacheClient and rdb may be nil.
func NewPageHandler(client *backend.Client, cacheClient *cache.Cache, sessions *session.Manager, rdb *redis.Client, cfg config.Config) (*PageHandler, error) {
	pages, err := parsePages()
	if err != nil {
		return nil, err
	}

	// Use configured base_url if provided, otherwise construct from scheme, IP, and port
	baseURL := cfg.WebServer.BaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("%s://%s:%s", cfg.WebServer.Scheme, cfg.WebServer.IP, cfg.WebServer.Port)
	}

	orchestrator := analysis.NewOrchestrator(client, analysis.Options{
		BlogDisplay:    cfg.Backend.BlogDisplay,
		RealTrendChart: cfg.Features.RealTrendChart,
	})

	return &PageHandler{
		backend:      client,
		orchestrator: orchestrator,
		cache:        cacheClient,
		sessions:     sessions,
		redis:        rdb,
		config:       cfg,
		baseURL:      baseURL,
		pages:        pages,
		now:          time.Now,
		rnd:          rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

var templateFuncs = template.FuncMap{
	"formatPostDate":    view.FormatPostDate,
	"trendIcon":         view.TrendIcon,
	"searchVolumeClass": view.SearchVolumeClass,
	"intentClass":       view.IntentClass,
	"priceRangeClass":   view.PriceRangeClass,
	"competitionClass":  view.CompetitionClass,
	"formatCount":       view.FormatCount,
	"formatStat":        view.FormatStat,
	"formatPrice":       view.FormatPrice,
	"orNA":              view.OrNA,
	"percent": func(v float64) string {
		return fmt.Sprintf("%.1f", v)
	},
}

func parsePages() (map[string]*template.Template, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tmpl, err := template.New(name).Funcs(templateFuncs).ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		pages[name] = tmpl
	}
	return pages, nil
}

// render executes a page into a buffer first so a template failure never
// leaves a half-written page.
func (h *PageHandler) render(w http.ResponseWriter, status int, page string, data interface{}) {
	tmpl, ok := h.pages[page]
	if !ok {
		log.Error().Str("page", page).Msg("Unknown page template")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		log.Error().Err(err).Str("page", page).Msg("Failed to execute page template")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("X-Frame-Options", "DENY")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.Debug().Err(err).Str("page", page).Msg("Failed to write page")
	}
}

type errorPage struct {
	basePage
	Status  int
	Message string
}

func (h *PageHandler) renderError(w http.ResponseWriter, status int, active, message string) {
	h.render(w, status, "error.html", errorPage{
		basePage: newBasePage("오류 - Trend Analyzer", active),
		Status:   status,
		Message:  message,
	})
}

// random is the noise source of the synthetic trend chart.
func (h *PageHandler) random() float64 {
	h.rndMu.Lock()
	defer h.rndMu.Unlock()
	return h.rnd.Float64()
}

// productList serves a listing from the cache, fetching it on a miss.
// refresh evicts the cached listing first.
func (h *PageHandler) productList(key string, refresh bool, fetch func() (*model.ProductList, error)) (*model.ProductList, error) {
	if refresh {
		h.cache.Delete(key)
		log.Debug().Str("key", key).Msg("Product list refresh requested")
	} else if list, ok := h.cache.GetProductList(key); ok {
		log.Debug().Str("key", key).Msg("Cache hit for product list")
		return list, nil
	}

	list, err := fetch()
	if err != nil {
		return nil, err
	}
	h.cache.SetProductList(key, list)
	return list, nil
}
