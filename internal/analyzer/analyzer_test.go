package analyzer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FundPulse/internal/directory"
	"FundPulse/internal/engine"
	"FundPulse/internal/model"
	"FundPulse/internal/provider"
)

func testStore() *directory.Store {
	return directory.NewStore(directory.New([]model.Fund{
		{Code: "110011", Name: "易方达优质精选", PhoneticKey: "YFDYZJX", BenchmarkCode: "000300"},
		{Code: "161725", Name: "招商中证白酒", PhoneticKey: "ZSZZBJ", BenchmarkCode: "000300"},
		{Code: "512690", Name: "鹏华酒ETF", PhoneticKey: "PHJETF"},
	}))
}

func seedFund(m *provider.Mock, code string, navs ...float64) {
	m.Holdings[code] = []model.TopHoldingStock{
		{StockCode: "600519", StockName: "贵州茅台", WeightPct: 10, DailyChangePct: 2.0, HasQuote: true},
	}
	m.PositionRatio[code] = 90
	series := make(model.NavSeries, len(navs))
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for i, v := range navs {
		series[i] = model.NavPoint{Date: base.AddDate(0, 0, i), Value: v}
	}
	m.Nav[code] = series
	m.Risk[code] = model.RiskFigures{}
}

func newTestAnalyzer(m *provider.Mock) *Analyzer {
	return New(testStore(), m, Options{Workers: 3, RollingDays: 90})
}

func TestAnalyzePreservesInputOrder(t *testing.T) {
	m := provider.NewMock()
	m.Quotes["000300"] = model.IndexQuote{Code: "000300", Name: "沪深300", DailyChangePct: 1.0}
	seedFund(m, "110011", 1.00, 1.05, 1.02)
	seedFund(m, "161725", 2.00, 1.90, 1.95)

	a := newTestAnalyzer(m)
	resp, err := a.Analyze(context.Background(), []model.Holding{
		{FundCode: "110011", Amount: 10000},
		{FundCode: "999999", Amount: 5000},
		{FundCode: "161725", Amount: 20000},
	})
	require.NoError(t, err)

	require.Len(t, resp.DetailedResults, 3)
	assert.Equal(t, "110011", resp.DetailedResults[0].FundCode)
	assert.Equal(t, "999999", resp.DetailedResults[1].FundCode)
	assert.Equal(t, "161725", resp.DetailedResults[2].FundCode)

	assert.Empty(t, resp.DetailedResults[0].Error)
	assert.Equal(t, engine.ErrLookupMiss.Error(), resp.DetailedResults[1].Error)
	assert.Nil(t, resp.DetailedResults[1].RealTimeEstimate)
	assert.Empty(t, resp.DetailedResults[2].Error)

	assert.Equal(t, 3, resp.Summary.TotalFunds)
	assert.Equal(t, 2, resp.Summary.AnalyzedSuccessfully)
}

func TestAnalyzeComputesSections(t *testing.T) {
	m := provider.NewMock()
	m.Quotes["000300"] = model.IndexQuote{Code: "000300", Name: "沪深300", DailyChangePct: 0.5}
	seedFund(m, "110011", 5.00, 5.20, 5.10)
	sharpe := 1.3
	m.Risk["110011"] = model.RiskFigures{SharpeRatio: &sharpe}

	a := newTestAnalyzer(m)
	resp, err := a.Analyze(context.Background(), []model.Holding{{FundCode: "110011", Amount: 10000}})
	require.NoError(t, err)

	res := resp.DetailedResults[0]
	require.NotNil(t, res.RealTimeEstimate)
	// 10% × 2.0 + 80% × 0.5 = 0.6
	assert.InDelta(t, 0.6, res.RealTimeEstimate.TodayChangePct, 1e-9)
	assert.InDelta(t, 5.10*1.006, res.RealTimeEstimate.EstimatedNav, 1e-9)
	assert.InDelta(t, 10000*0.006, res.RealTimeEstimate.Profit, 1e-9)

	require.NotNil(t, res.HistoricalDrawdown)
	assert.InDelta(t, -1.9230769, res.HistoricalDrawdown.DrawdownToHigh, 1e-6)
	assert.Equal(t, 5.20, res.HistoricalDrawdown.RollingHigh)
	assert.False(t, res.HistoricalDrawdown.IsAtRollingHigh)

	require.NotNil(t, res.SyntheticForecast)
	assert.True(t, res.SyntheticForecast.IsForecast)
	assert.InDelta(t, 0.6, res.SyntheticForecast.DrawdownChangeToday, 1e-9)
	want := ((1 - 1.9230769/100) * (1 + 0.6/100)) - 1
	assert.InDelta(t, want*100, res.SyntheticForecast.EstimatedDrawdownPct, 1e-5)

	require.NotNil(t, res.RiskMetrics)
	require.NotNil(t, res.RiskMetrics.SharpeRatio)
	assert.Equal(t, 1.3, *res.RiskMetrics.SharpeRatio)
}

func TestAnalyzeDegradesWithoutNavHistory(t *testing.T) {
	m := provider.NewMock()
	m.Quotes["000300"] = model.IndexQuote{Code: "000300", Name: "沪深300", DailyChangePct: 0.5}
	seedFund(m, "110011", 1.0)
	m.NavErr["110011"] = errors.New("nav feed down")

	a := newTestAnalyzer(m)
	resp, err := a.Analyze(context.Background(), []model.Holding{{FundCode: "110011", Amount: 1000}})
	require.NoError(t, err)

	res := resp.DetailedResults[0]
	assert.Empty(t, res.Error)
	require.NotNil(t, res.RealTimeEstimate)
	assert.Zero(t, res.RealTimeEstimate.EstimatedNav)
	assert.Nil(t, res.HistoricalDrawdown)
	assert.Nil(t, res.SyntheticForecast)
	require.NotNil(t, res.RiskMetrics)
}

func TestAnalyzeSlotFailsWhenNothingAvailable(t *testing.T) {
	m := provider.NewMock()
	seedFund(m, "110011", 1.0)
	m.HoldingsErr["110011"] = errors.New("holdings down")
	m.NavErr["110011"] = errors.New("nav down")
	m.RiskErr["110011"] = errors.New("risk down")
	m.QuoteErr["000300"] = errors.New("quote down")

	a := newTestAnalyzer(m)
	resp, err := a.Analyze(context.Background(), []model.Holding{{FundCode: "110011", Amount: 1000}})
	require.NoError(t, err)

	res := resp.DetailedResults[0]
	assert.Equal(t, engine.ErrDataUnavailable.Error(), res.Error)
	assert.Equal(t, 0, resp.Summary.AnalyzedSuccessfully)
}

func TestAnalyzePersistenceZeroTrustsPrevious(t *testing.T) {
	m := provider.NewMock()
	m.Quotes["000300"] = model.IndexQuote{Code: "000300", Name: "沪深300", DailyChangePct: 1.0}
	// Previous realized change: (1.05-1.00)/1.00 = +5%.
	seedFund(m, "110011", 1.00, 1.05)

	zero := 0.0
	a := New(testStore(), m, Options{Workers: 1, RollingDays: 90, Persistence: &zero})
	resp, err := a.Analyze(context.Background(), []model.Holding{{FundCode: "110011", Amount: 1000}})
	require.NoError(t, err)

	res := resp.DetailedResults[0]
	require.NotNil(t, res.RealTimeEstimate)
	// Persistence 0 is a valid weight, not "unset": the blend must return
	// the previous realized change, never the raw live estimate.
	assert.InDelta(t, 5.0, res.RealTimeEstimate.TodayChangePct, 1e-9)
}

func TestDetailBreakdown(t *testing.T) {
	m := provider.NewMock()
	m.Quotes["000300"] = model.IndexQuote{Code: "000300", Name: "沪深300", DailyChangePct: 1.0}
	seedFund(m, "110011", 1.00, 1.05)

	zero := 0.0
	a := New(testStore(), m, Options{Workers: 1, Persistence: &zero})
	d, err := a.Detail(context.Background(), "110011")
	require.NoError(t, err)

	assert.Equal(t, "易方达优质精选", d.FundName)
	require.Len(t, d.Holdings, 1)
	assert.InDelta(t, 0.2, d.Holdings[0].ContributionPct, 1e-9)
	assert.Equal(t, 10.0, d.DisclosedWeight)
	assert.Equal(t, 80.0, d.RemainingWeight)
	// The detail view is the raw live breakdown; the confidence blend does
	// not apply here.
	assert.InDelta(t, 1.0, d.EstimatedChangePct, 1e-9)

	_, err = a.Detail(context.Background(), "999999")
	assert.ErrorIs(t, err, engine.ErrLookupMiss)
}

func TestIndicesKeepsSlotsWithoutQuotes(t *testing.T) {
	m := provider.NewMock()
	m.Indices = []model.IndexQuote{
		{Code: "000300", Name: "whatever the feed says", DailyChangePct: -0.5},
	}

	a := newTestAnalyzer(m)
	entries, err := a.Indices(context.Background())
	require.NoError(t, err)

	// All six dashboard slots survive a sparse feed.
	require.Len(t, entries, 6)
	assert.Equal(t, "上证指数", entries[0].Name)
	assert.Nil(t, entries[0].DailyChangePct)
	assert.NotEmpty(t, entries[0].Error)

	assert.Equal(t, "沪深300", entries[3].Name)
	require.NotNil(t, entries[3].DailyChangePct)
	assert.Equal(t, -0.5, *entries[3].DailyChangePct)
	assert.Empty(t, entries[3].Error)
}

func TestAnalyzeValidation(t *testing.T) {
	a := newTestAnalyzer(provider.NewMock())

	_, err := a.Analyze(context.Background(), nil)
	assert.True(t, engine.IsValidation(err))

	_, err = a.Analyze(context.Background(), []model.Holding{{FundCode: "110011", Amount: -1}})
	assert.True(t, engine.IsValidation(err))

	big := make([]model.Holding, 21)
	for i := range big {
		big[i] = model.Holding{FundCode: "110011", Amount: 1}
	}
	_, err = a.Analyze(context.Background(), big)
	assert.True(t, engine.IsValidation(err))
}

func TestEstimateOnlyTotals(t *testing.T) {
	m := provider.NewMock()
	m.Quotes["000300"] = model.IndexQuote{Code: "000300", Name: "沪深300", DailyChangePct: 1.0}
	seedFund(m, "110011", 1.00)
	seedFund(m, "161725", 1.00)

	a := newTestAnalyzer(m)
	resp, err := a.EstimateOnly(context.Background(), []model.Holding{
		{FundCode: "110011", Amount: 10000},
		{FundCode: "161725", Amount: 30000},
		{FundCode: "999999", Amount: 99999},
	})
	require.NoError(t, err)

	require.Len(t, resp.Results, 3)
	assert.Equal(t, engine.ErrLookupMiss.Error(), resp.Results[2].Error)

	// 10%×2.0 + 80%×1.0 = 1.0 for both funds.
	assert.InDelta(t, 1.0, resp.Results[0].TodayChangePct, 1e-9)
	assert.Equal(t, 40000.0, resp.Summary.TotalHolding)
	assert.InDelta(t, 400.0, resp.Summary.TotalProfit, 1e-9)
	assert.InDelta(t, 1.0, resp.Summary.PortfolioChangePct, 1e-9)
}

func TestNavHistoryBatchRejectsFifthCodeBeforeFetching(t *testing.T) {
	m := provider.NewMock()
	a := newTestAnalyzer(m)

	codes := []string{"110011", "161725", "512690", "110011", "161725"}
	_, err := a.NavHistoryBatch(context.Background(), codes, 90)
	require.Error(t, err)
	assert.True(t, engine.IsValidation(err))
	assert.Zero(t, m.Calls.Load(), "a rejected batch must not touch the provider")
}

func TestNavHistoryBatchPerSlotErrors(t *testing.T) {
	m := provider.NewMock()
	seedFund(m, "110011", 1.00, 1.10)
	m.NavErr["161725"] = errors.New("feed down")

	a := newTestAnalyzer(m)
	results, err := a.NavHistoryBatch(context.Background(), []string{"110011", "161725", "999999"}, 30)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Empty(t, results[0].Error)
	require.NotNil(t, results[0].Stats)
	assert.Equal(t, 2, results[0].Stats.DataPoints)
	assert.NotEmpty(t, results[1].Error)
	assert.Equal(t, engine.ErrLookupMiss.Error(), results[2].Error)
}

func TestNavHistoryWindowValidation(t *testing.T) {
	a := newTestAnalyzer(provider.NewMock())

	_, err := a.NavHistory(context.Background(), "110011", 45)
	assert.True(t, engine.IsValidation(err))

	// 60 is a single-fund window but not a batch window.
	_, err = a.NavHistoryBatch(context.Background(), []string{"110011"}, 60)
	assert.True(t, engine.IsValidation(err))
}

func TestDrawdownBatch(t *testing.T) {
	m := provider.NewMock()
	seedFund(m, "110011", 5.00, 5.20, 5.10)

	a := newTestAnalyzer(m)
	entries, err := a.DrawdownBatch(context.Background(), []string{"110011", "999999"}, 90)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.InDelta(t, -1.9230769, entries[0].DrawdownPct, 1e-6)
	assert.Equal(t, 3, entries[0].DataPoints)
	assert.Equal(t, engine.ErrLookupMiss.Error(), entries[1].Error)

	_, err = a.DrawdownBatch(context.Background(), []string{"110011"}, 45)
	assert.True(t, engine.IsValidation(err))
}
