package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "test-key", WithRateLimit(1000))
}

func TestTopHoldingsMarksMissingQuotes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/funds/110011/holdings", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Write([]byte(`{
			"position_ratio_pct": 90.0,
			"holdings": [
				{"stock_code": "600519", "stock_name": "A", "weight_pct": 8.5, "daily_change_pct": 1.2},
				{"stock_code": "000858", "stock_name": "B", "weight_pct": 6.0, "daily_change_pct": null}
			]
		}`))
	})

	holdings, ratio, err := c.TopHoldings(context.Background(), "110011")
	require.NoError(t, err)
	assert.Equal(t, 90.0, ratio)
	require.Len(t, holdings, 2)
	assert.True(t, holdings[0].HasQuote)
	assert.Equal(t, 1.2, holdings[0].DailyChangePct)
	assert.False(t, holdings[1].HasQuote)
}

func TestNavHistorySortsAndFilters(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "30", r.URL.Query().Get("days"))
		w.Write([]byte(`[
			{"date": "2026-08-20", "nav": 1.25},
			{"date": "2026-08-18", "nav": 1.20},
			{"date": "not-a-date", "nav": 1.10},
			{"date": "2026-08-19", "nav": 0}
		]`))
	})

	series, err := c.NavHistory(context.Background(), "110011", 30)
	require.NoError(t, err)
	require.Len(t, series, 2)
	assert.Equal(t, 1.20, series[0].Value)
	assert.Equal(t, 1.25, series[1].Value)
	assert.True(t, series[0].Date.Before(series[1].Date))
}

func TestNavHistoryDropsDuplicateDates(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		// A same-day revision arrives after the original record.
		w.Write([]byte(`[
			{"date": "2026-08-18", "nav": 1.20},
			{"date": "2026-08-19", "nav": 1.21},
			{"date": "2026-08-19", "nav": 1.23},
			{"date": "2026-08-20", "nav": 1.25}
		]`))
	})

	series, err := c.NavHistory(context.Background(), "110011", 30)
	require.NoError(t, err)
	require.Len(t, series, 3)
	// The later record for the repeated date wins.
	assert.Equal(t, 1.23, series[1].Value)
	for i := 1; i < len(series); i++ {
		assert.True(t, series[i-1].Date.Before(series[i].Date))
	}
}

func TestAPIErrorOnBadStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	})

	_, err := c.MarketIndices(context.Background())
	require.Error(t, err)
	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "/api/v1/indices", apiErr.Endpoint)
}

func TestIndexQuoteDecodes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code": "000300", "name": "CSI 300", "change": -0.85}`))
	})

	quote, err := c.IndexQuote(context.Background(), "000300")
	require.NoError(t, err)
	assert.Equal(t, "000300", quote.Code)
	assert.Equal(t, -0.85, quote.DailyChangePct)
}

func TestContextCancellationAborts(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.FundList(ctx)
	require.Error(t, err)
}
