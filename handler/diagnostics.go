package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dhchun1203/Trend-Analyzer-project/utils"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const defaultProbeKeyword = "로봇청소기"

type probe struct {
	Name         string
	Title        string
	Path         string
	NeedsKeyword bool
}

var probes = []probe{
	{Name: "datalab", Title: "1. 네이버 데이터랩 API 테스트", Path: "/api/datalab/test"},
	{Name: "keyword", Title: "2. 키워드 트렌드 분석 테스트", Path: "/api/datalab/trend", NeedsKeyword: true},
	{Name: "related", Title: "3. 연관 키워드 테스트", Path: "/api/datalab/related-keywords", NeedsKeyword: true},
}

// probeResult is the outcome of one diagnostics call.
type probeResult struct {
	probe
	Ran     bool
	Success bool
	Body    string
	Error   string
	Elapsed time.Duration
}

type diagnosticsPage struct {
	basePage
	Keyword string
	Results []probeResult
}

// TestAPI handles GET /test-api?probe=datalab|keyword|related|all&keyword=K,
// calling backend endpoints directly and showing their raw JSON.
func (h *PageHandler) TestAPI(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	keyword := strings.TrimSpace(query.Get("keyword"))
	if keyword == "" {
		keyword = defaultProbeKeyword
	}

	selected, err := selectProbes(query.Get("probe"))
	if err != nil {
		h.renderError(w, http.StatusBadRequest, "/test-api", "알 수 없는 테스트 항목입니다.")
		return
	}

	results := make([]probeResult, len(probes))
	for i, p := range probes {
		results[i].probe = p
	}

	g, ctx := errgroup.WithContext(r.Context())
	for i := range results {
		if !selected[results[i].Name] {
			continue
		}
		res := &results[i]
		g.Go(func() error {
			h.runProbe(ctx, res, keyword)
			return nil
		})
	}
	g.Wait()

	h.render(w, http.StatusOK, "test-api.html", diagnosticsPage{
		basePage: newBasePage("API 테스트 - Trend Analyzer", "/test-api"),
		Keyword:  keyword,
		Results:  results,
	})
}

func selectProbes(name string) (map[string]bool, error) {
	selected := make(map[string]bool)
	switch name {
	case "":
	case "all":
		for _, p := range probes {
			selected[p.Name] = true
		}
	default:
		for _, p := range probes {
			if p.Name == name {
				selected[name] = true
				return selected, nil
			}
		}
		return nil, utils.ErrUnknownProbe
	}
	return selected, nil
}

func (h *PageHandler) runProbe(ctx context.Context, res *probeResult, keyword string) {
	var query url.Values
	if res.NeedsKeyword {
		query = url.Values{"keyword": {keyword}}
	}

	start := time.Now()
	body, err := h.backend.Probe(ctx, res.Path, query)
	res.Ran = true
	res.Elapsed = time.Since(start).Round(time.Millisecond)

	if err != nil {
		res.Error = err.Error()
		log.Warn().Err(err).Str("probe", res.Name).Msg("Diagnostics probe failed")
		return
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, body, "", "  "); err != nil {
		pretty.Reset()
		pretty.Write(body)
	}
	res.Success = true
	res.Body = pretty.String()
}
