package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"golang.org/x/time/rate"

	"FundPulse/internal/common"
	"FundPulse/internal/model"
)

const (
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 10 // requests per second
)

// Client implements MarketData against the fund-data REST API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *common.Logger
}

// ClientOption configures the client.
type ClientOption func(*Client)

// WithTimeout sets the HTTP timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithRateLimit sets the outbound request rate.
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithProxy routes requests through an HTTP proxy.
func WithProxy(proxyURL string) ClientOption {
	return func(c *Client) {
		if proxyURL == "" {
			return
		}
		if u, err := url.Parse(proxyURL); err == nil {
			c.httpClient.Transport = &http.Transport{Proxy: http.ProxyURL(u)}
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a rate-limited fund-data client.
func NewClient(baseURL, apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:     common.NewSilentLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError reports a non-2xx response from the data provider.
type APIError struct {
	StatusCode int
	Endpoint   string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("data api: status %d on %s: %s", e.StatusCode, e.Endpoint, e.Body)
}

func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &APIError{StatusCode: resp.StatusCode, Endpoint: path, Body: string(body)}
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// FundList implements MarketData.
func (c *Client) FundList(ctx context.Context) ([]model.Fund, error) {
	var funds []model.Fund
	if err := c.get(ctx, "/api/v1/funds", nil, &funds); err != nil {
		return nil, err
	}
	c.logger.Debug().Int("count", len(funds)).Msg("fund list fetched")
	return funds, nil
}

// holdingsPayload is the wire shape of the holdings endpoint. A null
// daily_change_pct means the quote was missing or stale.
type holdingsPayload struct {
	PositionRatioPct float64 `json:"position_ratio_pct"`
	Holdings         []struct {
		StockCode      string   `json:"stock_code"`
		StockName      string   `json:"stock_name"`
		WeightPct      float64  `json:"weight_pct"`
		DailyChangePct *float64 `json:"daily_change_pct"`
	} `json:"holdings"`
}

// TopHoldings implements MarketData.
func (c *Client) TopHoldings(ctx context.Context, fundCode string) ([]model.TopHoldingStock, float64, error) {
	var payload holdingsPayload
	if err := c.get(ctx, "/api/v1/funds/"+url.PathEscape(fundCode)+"/holdings", nil, &payload); err != nil {
		return nil, 0, err
	}
	holdings := make([]model.TopHoldingStock, 0, len(payload.Holdings))
	for _, h := range payload.Holdings {
		th := model.TopHoldingStock{
			StockCode: h.StockCode,
			StockName: h.StockName,
			WeightPct: h.WeightPct,
		}
		if h.DailyChangePct != nil {
			th.DailyChangePct = *h.DailyChangePct
			th.HasQuote = true
		}
		holdings = append(holdings, th)
	}
	return holdings, payload.PositionRatioPct, nil
}

// IndexQuote implements MarketData.
func (c *Client) IndexQuote(ctx context.Context, indexCode string) (model.IndexQuote, error) {
	var quote model.IndexQuote
	if err := c.get(ctx, "/api/v1/indices/"+url.PathEscape(indexCode), nil, &quote); err != nil {
		return model.IndexQuote{}, err
	}
	return quote, nil
}

// MarketIndices implements MarketData.
func (c *Client) MarketIndices(ctx context.Context) ([]model.IndexQuote, error) {
	var quotes []model.IndexQuote
	if err := c.get(ctx, "/api/v1/indices", nil, &quotes); err != nil {
		return nil, err
	}
	return quotes, nil
}

// navPoint is the wire shape of one NAV record.
type navPoint struct {
	Date string  `json:"date"`
	Nav  float64 `json:"nav"`
}

// NavHistory implements MarketData. Points are sorted ascending, records
// with an unparsable date or non-positive value are dropped, and the series
// is trimmed to the requested day count.
func (c *Client) NavHistory(ctx context.Context, fundCode string, days int) (model.NavSeries, error) {
	params := url.Values{}
	params.Set("days", fmt.Sprintf("%d", days))
	var raw []navPoint
	if err := c.get(ctx, "/api/v1/funds/"+url.PathEscape(fundCode)+"/nav", params, &raw); err != nil {
		return nil, err
	}

	series := make(model.NavSeries, 0, len(raw))
	for _, p := range raw {
		d, err := time.Parse("2006-01-02", p.Date)
		if err != nil || p.Nav <= 0 {
			continue
		}
		series = append(series, model.NavPoint{Date: d, Value: p.Nav})
	}
	// Stable sort so feed order decides ties; the dedupe below keeps the
	// last record the feed sent for a repeated date.
	sort.SliceStable(series, func(i, j int) bool { return series[i].Date.Before(series[j].Date) })
	deduped := series[:0]
	for _, p := range series {
		if n := len(deduped); n > 0 && deduped[n-1].Date.Equal(p.Date) {
			deduped[n-1] = p
			continue
		}
		deduped = append(deduped, p)
	}
	return deduped.Tail(days), nil
}

// RiskFigures implements MarketData.
func (c *Client) RiskFigures(ctx context.Context, fundCode string) (model.RiskFigures, error) {
	var figures model.RiskFigures
	if err := c.get(ctx, "/api/v1/funds/"+url.PathEscape(fundCode)+"/risk", nil, &figures); err != nil {
		return model.RiskFigures{}, err
	}
	return figures, nil
}
