package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dhchun1203/Trend-Analyzer-project/model"
	"github.com/dhchun1203/Trend-Analyzer-project/utils"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// User-facing messages.
const (
	MsgEmptyKeyword   = "키워드를 입력해주세요."
	MsgAnalysisFailed = "키워드 분석 중 오류가 발생했습니다."
)

const DefaultBlogDisplay = 12

// ErrSuperseded is returned when a newer Submit or a Reset landed while the
// analysis was running; its results were discarded.
var ErrSuperseded = errors.New("analysis superseded by a newer request")

// Backend is the subset of the backend client the orchestrator needs.
type Backend interface {
	Trend(ctx context.Context, keyword string) (*model.TrendReport, error)
	Blogs(ctx context.Context, keyword string, display int) (*model.BlogSearchResult, error)
	ShoppingKeywords(ctx context.Context, keyword string) ([]model.RelatedKeyword, error)
	TrendChart(ctx context.Context, keyword string) ([]model.ChartPoint, error)
}

// Request is one analysis trigger.
type Request struct {
	Keyword string
	// FromRelated marks a click on a related keyword; it only changes the
	// failure message.
	FromRelated bool
}

type Options struct {
	BlogDisplay    int
	RealTrendChart bool // also fetch the measured chart series, best effort
}

// Orchestrator fans an analysis out to the backend and applies the merged
// result to a Store.
type Orchestrator struct {
	backend Backend
	opts    Options
	now     func() time.Time
}

func NewOrchestrator(backend Backend, opts Options) *Orchestrator {
	if opts.BlogDisplay <= 0 {
		opts.BlogDisplay = DefaultBlogDisplay
	}
	return &Orchestrator{backend: backend, opts: opts, now: time.Now}
}

// Analyze validates the keyword, runs trend, blog and shopping-keyword
// requests concurrently and, only if all three succeed, replaces the store's
// state. It returns the store snapshot after the transition.
//
// An empty keyword returns utils.ErrEmptyKeyword without touching the store
// or the network.
func (o *Orchestrator) Analyze(ctx context.Context, store *Store, req Request) (ViewState, error) {
	keyword, err := utils.ValidateKeyword(req.Keyword)
	if err != nil {
		return store.Snapshot(), err
	}

	seq, runCtx := store.Submit(ctx, keyword)
	start := o.now()

	var (
		report   *model.TrendReport
		blogs    *model.BlogSearchResult
		shopping []model.RelatedKeyword
		chart    []model.ChartPoint
	)

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		r, err := o.backend.Trend(gctx, keyword)
		if err != nil {
			return fmt.Errorf("trend: %w", err)
		}
		if r == nil || r.TrendAnalysis == nil {
			return errors.New("trend: empty report")
		}
		report = r
		return nil
	})
	g.Go(func() error {
		b, err := o.backend.Blogs(gctx, keyword, o.opts.BlogDisplay)
		if err != nil {
			return fmt.Errorf("blogs: %w", err)
		}
		if b == nil {
			b = &model.BlogSearchResult{Keyword: keyword, Blogs: []model.BlogPost{}}
		}
		blogs = b
		return nil
	})
	g.Go(func() error {
		k, err := o.backend.ShoppingKeywords(gctx, keyword)
		if err != nil {
			return fmt.Errorf("shopping keywords: %w", err)
		}
		shopping = k
		return nil
	})
	if o.opts.RealTrendChart {
		g.Go(func() error {
			points, err := o.backend.TrendChart(gctx, keyword)
			if err != nil {
				if gctx.Err() == nil {
					log.Warn().Err(err).Str("keyword", keyword).Msg("Trend chart unavailable, using fallback series")
				}
				return nil
			}
			chart = points
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			// The caller left; this is not a backend failure.
			if !store.Abandon(seq) {
				return store.Snapshot(), ErrSuperseded
			}
			log.Debug().Str("keyword", keyword).Uint64("seq", seq).Msg("Analysis abandoned by caller")
			return store.Snapshot(), fmt.Errorf("analyze %q: %w", keyword, ctx.Err())
		}
		if !store.Fail(seq, failureMessage(req, keyword)) {
			log.Debug().Str("keyword", keyword).Uint64("seq", seq).Msg("Discarding failure of superseded analysis")
			return store.Snapshot(), ErrSuperseded
		}
		log.Error().
			Err(err).
			Str("keyword", keyword).
			Uint64("seq", seq).
			Msg("Keyword analysis failed")
		return store.Snapshot(), fmt.Errorf("analyze %q: %w", keyword, err)
	}

	next := ViewState{
		Keyword:          keyword,
		Report:           report,
		Blogs:            blogs,
		ShoppingKeywords: shopping,
		TrendChart:       chart,
		CompletedAt:      o.now(),
	}
	if !store.Succeed(seq, next) {
		log.Debug().Str("keyword", keyword).Uint64("seq", seq).Msg("Discarding result of superseded analysis")
		return store.Snapshot(), ErrSuperseded
	}

	log.Info().
		Str("keyword", keyword).
		Uint64("seq", seq).
		Int("blogs", len(blogs.Blogs)).
		Int("shopping_keywords", len(shopping)).
		Bool("measured_chart", len(chart) > 0).
		Dur("elapsed", o.now().Sub(start)).
		Msg("Keyword analysis completed")

	return store.Snapshot(), nil
}

func failureMessage(req Request, keyword string) string {
	if req.FromRelated {
		return "\"" + keyword + "\" " + MsgAnalysisFailed
	}
	return MsgAnalysisFailed
}
