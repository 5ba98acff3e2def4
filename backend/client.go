// Package backend is the HTTP client for the trend analysis API that this
// front end renders. Every call is a single GET returning JSON; there are no
// retries, callers decide how a failure is surfaced.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dhchun1203/Trend-Analyzer-project/config"
	"github.com/dhchun1203/Trend-Analyzer-project/model"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const maxErrorBody = 4 << 10

var (
	// ErrMalformedResponse means the backend answered 2xx with a body that
	// does not have the expected shape.
	ErrMalformedResponse = errors.New("malformed backend response")
)

// StatusError is returned for non-2xx backend responses.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Detail     string // FastAPI "detail" field when present
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend %s returned %d: %s", e.Endpoint, e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("backend %s returned %d", e.Endpoint, e.StatusCode)
}

// Client provides access to the trend analysis backend
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration // per-call deadline of typed calls, 0 = none
	limiter    *rate.Limiter
}

// NewClient creates a backend client from configuration. The configured
// timeout bounds each typed call; the raw pass-through used by the proxy
// only follows the caller's context.
func NewClient(cfg config.BackendConfig) *Client {
	c := &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{},
		timeout:    time.Duration(cfg.Timeout) * time.Second,
	}
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	return c
}

// BaseURL returns the backend origin, used in user-facing error messages.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Trend fetches the keyword trend report.
func (c *Client) Trend(ctx context.Context, keyword string) (*model.TrendReport, error) {
	var report model.TrendReport
	if err := c.getJSON(ctx, "/api/datalab/trend", url.Values{"keyword": {keyword}}, &report); err != nil {
		return nil, err
	}
	if report.TrendAnalysis == nil {
		return nil, fmt.Errorf("%w: /api/datalab/trend: missing trend_analysis", ErrMalformedResponse)
	}
	return &report, nil
}

// Blogs searches blog posts for keyword, returning at most display posts.
func (c *Client) Blogs(ctx context.Context, keyword string, display int) (*model.BlogSearchResult, error) {
	query := url.Values{
		"keyword": {keyword},
		"display": {strconv.Itoa(display)},
	}
	var result model.BlogSearchResult
	if err := c.getJSON(ctx, "/api/search/blogs", query, &result); err != nil {
		return nil, err
	}
	if result.Blogs == nil {
		result.Blogs = []model.BlogPost{}
	}
	return &result, nil
}

// ShoppingKeywords fetches shopping-oriented related keywords.
func (c *Client) ShoppingKeywords(ctx context.Context, keyword string) ([]model.RelatedKeyword, error) {
	var payload model.ShoppingKeywords
	if err := c.getJSON(ctx, "/api/keyword/shopping-related", url.Values{"keyword": {keyword}}, &payload); err != nil {
		return nil, err
	}
	if payload.RelatedKeywords == nil {
		return []model.RelatedKeyword{}, nil
	}
	return payload.RelatedKeywords, nil
}

// TrendChart fetches the measured daily trend series.
func (c *Client) TrendChart(ctx context.Context, keyword string) ([]model.ChartPoint, error) {
	var payload struct {
		ChartData []model.ChartPoint `json:"chart_data"`
	}
	if err := c.getJSON(ctx, "/api/datalab/trend-chart", url.Values{"keyword": {keyword}}, &payload); err != nil {
		return nil, err
	}
	return payload.ChartData, nil
}

// CategoryProducts fetches the product listing of one category.
func (c *Client) CategoryProducts(ctx context.Context, category string) (*model.ProductList, error) {
	return c.productList(ctx, "/api/products/category/"+url.PathEscape(category))
}

// PopularProducts fetches the cross-category popular product listing.
func (c *Client) PopularProducts(ctx context.Context) (*model.ProductList, error) {
	return c.productList(ctx, "/api/popular-products")
}

func (c *Client) productList(ctx context.Context, path string) (*model.ProductList, error) {
	var envelope struct {
		Items      *[]model.Product `json:"items"`
		Count      int              `json:"count"`
		Category   string           `json:"category"`
		Categories []string         `json:"categories"`
	}
	if err := c.getJSON(ctx, path, nil, &envelope); err != nil {
		return nil, err
	}
	if envelope.Items == nil {
		return nil, fmt.Errorf("%w: %s: missing items", ErrMalformedResponse, path)
	}
	return &model.ProductList{
		Items:      *envelope.Items,
		Count:      envelope.Count,
		Category:   envelope.Category,
		Categories: envelope.Categories,
	}, nil
}

// PopularProductsRaw returns the popular-products body untouched after
// checking that it carries an items array.
func (c *Client) PopularProductsRaw(ctx context.Context) (json.RawMessage, error) {
	body, err := c.get(ctx, "/api/popular-products", nil)
	if err != nil {
		return nil, err
	}
	var shape struct {
		Items json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(body, &shape); err != nil {
		return nil, fmt.Errorf("%w: /api/popular-products: %v", ErrMalformedResponse, err)
	}
	if len(shape.Items) == 0 || shape.Items[0] != '[' {
		return nil, fmt.Errorf("%w: /api/popular-products: items is not an array", ErrMalformedResponse)
	}
	return json.RawMessage(body), nil
}

// Probe calls an arbitrary backend path and returns its JSON body. Used by
// the diagnostics page.
func (c *Client) Probe(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	body, err := c.get(ctx, path, query)
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: %s: body is not JSON", ErrMalformedResponse, path)
	}
	return json.RawMessage(body), nil
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	body, err := c.get(ctx, path, query)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformedResponse, path, err)
	}
	return nil
}

// get performs a single GET and returns the body of a 2xx response.
func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait for %s: %w", path, err)
		}
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		statusErr := &StatusError{Endpoint: path, StatusCode: resp.StatusCode}
		var detail struct {
			Detail string `json:"detail"`
		}
		if json.Unmarshal(raw, &detail) == nil {
			statusErr.Detail = detail.Detail
		} else {
			statusErr.Detail = string(bytes.TrimSpace(raw))
		}
		return nil, statusErr
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	log.Debug().
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("Backend request completed")

	return body, nil
}
