package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/dhchun1203/Trend-Analyzer-project/analysis"
	"github.com/dhchun1203/Trend-Analyzer-project/cache"
	"github.com/dhchun1203/Trend-Analyzer-project/model"
	"github.com/dhchun1203/Trend-Analyzer-project/utils"
	"github.com/dhchun1203/Trend-Analyzer-project/view"

	"github.com/rs/zerolog/log"
)

const (
	msgProductsFailed      = "상품 목록을 불러오지 못했습니다. 잠시 후 다시 시도해주세요."
	msgUnsupportedCategory = "지원하지 않는 카테고리입니다."
)

// Result tabs of the keyword analysis page.
const (
	tabShopping = "shopping"
	tabAll      = "all"
)

type homePage struct {
	basePage
	Products []model.Product
	Error    string
}

// Home handles GET / - popular products
func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	list, err := h.productList(cache.PopularKey(), wantsRefresh(r), func() (*model.ProductList, error) {
		return h.backend.PopularProducts(r.Context())
	})

	page := homePage{basePage: newBasePage("인기상품 모음 - Trend Analyzer", "/")}
	if err != nil {
		log.Error().Err(err).Msg("Failed to load popular products")
		page.Error = msgProductsFailed
	} else {
		page.Products = list.Items
	}

	h.render(w, http.StatusOK, "index.html", page)
}

// wantsRefresh reports whether the viewer asked to bypass cached listings.
func wantsRefresh(r *http.Request) bool {
	return r.URL.Query().Get("refresh") == "1"
}

type categoriesPage struct {
	basePage
	Categories []model.Category
	Selected   model.Category
	Products   []model.Product
	Error      string
}

// Categories handles GET /categories?category=<id>
func (h *PageHandler) Categories(w http.ResponseWriter, r *http.Request) {
	category, err := utils.ValidateCategory(r.URL.Query().Get("category"))
	if err != nil {
		log.Warn().Str("category", r.URL.Query().Get("category")).Msg("Unsupported category requested")
		h.renderError(w, http.StatusBadRequest, "/categories", msgUnsupportedCategory)
		return
	}

	page := categoriesPage{
		basePage:   newBasePage("카테고리별 상품 - Trend Analyzer", "/categories"),
		Categories: model.Categories,
		Selected:   category,
	}

	list, err := h.productList(cache.CategoryKey(category.ID), wantsRefresh(r), func() (*model.ProductList, error) {
		return h.backend.CategoryProducts(r.Context(), category.ID)
	})
	if err != nil {
		log.Error().Err(err).Str("category", category.ID).Msg("Failed to load category products")
		page.Error = msgProductsFailed
	} else {
		page.Products = list.Items
	}

	h.render(w, http.StatusOK, "categories.html", page)
}

type analysisPage struct {
	basePage
	Input  string
	Notice string
	Tab    string
	State  analysis.ViewState

	RelatedKeywords []model.RelatedKeyword
	Series          []view.TrendPoint
	SyntheticSeries bool
	Polyline        string
	Shares          []view.VolumeShare
}

// KeywordAnalysis handles GET /keyword-analysis. With a keyword parameter it
// runs an analysis for the viewer's session first; without one it renders
// the session's current state.
func (h *PageHandler) KeywordAnalysis(w http.ResponseWriter, r *http.Request) {
	sessionID, store := h.sessions.Store(w, r)
	query := r.URL.Query()

	page := analysisPage{
		basePage: newBasePage("키워드 트렌드 분석 - Trend Analyzer", "/keyword-analysis"),
		Tab:      tabShopping,
	}
	if query.Get("tab") == tabAll {
		page.Tab = tabAll
	}

	state := store.Snapshot()
	if query.Has("keyword") {
		page.Input = query.Get("keyword")
		req := analysis.Request{
			Keyword:     page.Input,
			FromRelated: query.Get("from") == "related",
		}

		var err error
		state, err = h.orchestrator.Analyze(r.Context(), store, req)
		switch {
		case errors.Is(err, utils.ErrEmptyKeyword):
			page.Notice = analysis.MsgEmptyKeyword
		case errors.Is(err, analysis.ErrSuperseded):
			log.Debug().Str("session", sessionID).Msg("Rendering newer analysis")
		case err == nil:
			page.Input = state.Keyword
		}

		if !errors.Is(err, utils.ErrEmptyKeyword) {
			h.sessions.Save(context.WithoutCancel(r.Context()), sessionID, store)
		}
	} else if state.HasResult() {
		page.Input = state.Keyword
	}

	h.fillAnalysisPage(&page, state)
	h.render(w, http.StatusOK, "keyword-analysis.html", page)
}

func (h *PageHandler) fillAnalysisPage(page *analysisPage, state analysis.ViewState) {
	page.State = state
	if !state.HasResult() {
		return
	}

	if page.Tab == tabAll {
		page.RelatedKeywords = state.Report.RelatedKeywords
	} else {
		page.RelatedKeywords = state.ShoppingKeywords
	}

	page.Series, page.SyntheticSeries = view.BuildTrendSeries(state.Report, state.TrendChart, h.now(), h.random)
	page.Polyline = view.ChartPolyline(page.Series, chartWidth, chartHeight)
	page.Shares = view.SearchVolumeShares(state.Report.SearchVolumeStats)
}

// Trend chart canvas, in SVG user units.
const (
	chartWidth  = 600
	chartHeight = 240
)

// ResetAnalysis handles POST /keyword-analysis/reset
func (h *PageHandler) ResetAnalysis(w http.ResponseWriter, r *http.Request) {
	sessionID, store := h.sessions.Store(w, r)
	store.Reset()
	h.sessions.Forget(r.Context(), sessionID)

	log.Info().Str("session", sessionID).Msg("Keyword analysis reset")
	http.Redirect(w, r, "/keyword-analysis", http.StatusSeeOther)
}
