// Package analyzer orchestrates per-fund analysis: it resolves codes
// through the directory, fans fetches out across a bounded worker pool, runs
// the engine computations, and assembles the composite response. Results
// always come back in the caller's portfolio order.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"FundPulse/internal/common"
	"FundPulse/internal/directory"
	"FundPulse/internal/engine"
	"FundPulse/internal/model"
	"FundPulse/internal/provider"
	"FundPulse/internal/recorder"
)

const (
	// DefaultWorkers bounds the per-request fund fan-out.
	DefaultWorkers = 5
	// MaxHoldingAmount rejects implausible portfolio line items.
	MaxHoldingAmount = 1e8

	timeLayout = "2006-01-02 15:04:05"
	dateLayout = "2006-01-02"
)

// DefaultBenchmark backs funds whose directory entry names no benchmark.
const DefaultBenchmark = "000300"

// Analyzer ties the directory, provider, engine and recorder together.
type Analyzer struct {
	store       *directory.Store
	market      provider.MarketData
	rec         recorder.Recorder
	logger      *common.Logger
	workers     int
	rollingDays int
	persistence float64
	maxFunds    int
	blender     engine.Blender
}

// Options tunes a new Analyzer. Zero values fall back to defaults.
// Persistence is a pointer because 0 is a valid weight (trust only the
// previous realized change); nil means the default of 1.
type Options struct {
	Workers      int
	RollingDays  int
	Persistence  *float64
	MaxPortfolio int
	Blender      engine.Blender
	Recorder     recorder.Recorder
	Logger       *common.Logger
}

// New creates an Analyzer over a directory snapshot store and a market-data
// provider.
func New(store *directory.Store, market provider.MarketData, opts Options) *Analyzer {
	a := &Analyzer{
		store:       store,
		market:      market,
		rec:         opts.Recorder,
		logger:      opts.Logger,
		workers:     opts.Workers,
		rollingDays: opts.RollingDays,
		persistence: 1.0,
		maxFunds:    opts.MaxPortfolio,
		blender:     opts.Blender,
	}
	if opts.Persistence != nil {
		a.persistence = *opts.Persistence
	}
	if a.rec == nil {
		a.rec = recorder.NewNoopRecorder()
	}
	if a.logger == nil {
		a.logger = common.NewSilentLogger()
	}
	if a.workers < 1 {
		a.workers = DefaultWorkers
	}
	if a.rollingDays == 0 {
		a.rollingDays = 90
	}
	if a.maxFunds < 1 {
		a.maxFunds = 20
	}
	if a.blender == nil {
		a.blender = engine.LinearBlender{}
	}
	return a
}

// forEach runs fn(i) for i in [0,n) on a bounded pool. fn writes only to its
// own slot, so no result synchronization is needed beyond the WaitGroup.
func (a *Analyzer) forEach(n int, fn func(i int)) {
	workers := a.workers
	if workers > n {
		workers = n
	}
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				fn(i)
			}
		}()
	}
	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
}

func validateHoldings(holdings []model.Holding, maxFunds int) error {
	if len(holdings) == 0 {
		return engine.NewValidationError("funds", "empty portfolio")
	}
	if len(holdings) > maxFunds {
		return engine.NewValidationError("funds", fmt.Sprintf("portfolio exceeds %d funds", maxFunds))
	}
	for _, h := range holdings {
		if h.FundCode == "" {
			return engine.NewValidationError("code", "empty fund code")
		}
		if h.Amount < 0 || h.Amount > MaxHoldingAmount {
			return engine.NewValidationError("holding", fmt.Sprintf("amount out of range for %s", h.FundCode))
		}
	}
	return nil
}

// fundData is everything fetched for one fund before the engine runs.
type fundData struct {
	holdings      []model.TopHoldingStock
	positionRatio float64
	holdingsErr   error
	benchmark     model.IndexQuote
	benchmarkErr  error
	nav           model.NavSeries
	navErr        error
	risk          model.RiskFigures
	riskErr       error
}

// fetchFund issues the four data-kind fetches for one fund concurrently.
func (a *Analyzer) fetchFund(ctx context.Context, fund model.Fund) *fundData {
	benchCode := fund.BenchmarkCode
	if benchCode == "" {
		benchCode = DefaultBenchmark
	}

	d := &fundData{}
	var wg sync.WaitGroup
	wg.Add(4)
	go func() {
		defer wg.Done()
		d.holdings, d.positionRatio, d.holdingsErr = a.market.TopHoldings(ctx, fund.Code)
	}()
	go func() {
		defer wg.Done()
		d.benchmark, d.benchmarkErr = a.market.IndexQuote(ctx, benchCode)
	}()
	go func() {
		defer wg.Done()
		d.nav, d.navErr = a.market.NavHistory(ctx, fund.Code, a.rollingDays)
	}()
	go func() {
		defer wg.Done()
		d.risk, d.riskErr = a.market.RiskFigures(ctx, fund.Code)
	}()
	wg.Wait()
	return d
}

// previousChange derives the last fully-realized daily change from the two
// most recent NAV points.
func previousChange(series model.NavSeries) (float64, bool) {
	if len(series) < 2 {
		return 0, false
	}
	prev := series[len(series)-2].Value
	if prev <= 0 {
		return 0, false
	}
	return (series.Last().Value - prev) / prev * 100, true
}

// analyzeOne fills one result slot. Partial data degrades sections to nil
// instead of failing the slot; the slot Error is set only when nothing at
// all could be produced.
func (a *Analyzer) analyzeOne(ctx context.Context, h model.Holding, res *model.AnalysisResult) {
	res.FundCode = h.FundCode
	res.Holding = h.Amount

	idx := a.store.Snapshot()
	fund, ok := idx.Lookup(h.FundCode)
	if !ok {
		res.FundName = h.FundName
		res.Error = engine.ErrLookupMiss.Error()
		return
	}
	res.FundName = fund.Name

	d := a.fetchFund(ctx, fund)

	var estChange float64
	haveEstimate := false
	if d.holdingsErr == nil && d.benchmarkErr == nil {
		opt := &engine.BlendOptions{
			Persistence: a.persistence,
			Blender:     a.blender,
		}
		if chg, ok := previousChange(d.nav); d.navErr == nil && ok {
			opt.PreviousChangePct = chg
			opt.HasPrevious = true
		}
		est := engine.Estimate(d.holdings, d.benchmark, d.positionRatio, opt)
		estChange = est.EstimatedChangePct
		haveEstimate = true

		rte := &model.RealTimeEstimate{
			TodayChangePct:     est.EstimatedChangePct,
			Benchmark:          est.Benchmark,
			BenchmarkChangePct: est.BenchmarkChangePct,
			Profit:             h.Amount * est.EstimatedChangePct / 100,
			UpdateTime:         est.UpdateTime.Format(timeLayout),
		}
		if d.navErr == nil && len(d.nav) > 0 {
			rte.EstimatedNav = d.nav.Last().Value * (1 + est.EstimatedChangePct/100)
		}
		res.RealTimeEstimate = rte
	} else {
		a.logger.Warn().Str("fund", fund.Code).
			AnErr("holdings_err", d.holdingsErr).
			AnErr("benchmark_err", d.benchmarkErr).
			Msg("estimate unavailable")
	}

	if d.navErr == nil {
		if dd, err := engine.Drawdown(d.nav, a.rollingDays); err == nil {
			res.HistoricalDrawdown = &model.HistoricalDrawdown{
				YesterdayNav:    dd.CurrentNav,
				RollingHigh:     dd.RollingHigh,
				HighDate:        dd.HighDate.Format(dateLayout),
				DrawdownToHigh:  dd.DrawdownPct,
				IsAtRollingHigh: dd.IsAtHigh,
			}
			if haveEstimate {
				fc := engine.Forecast(dd.DrawdownPct, estChange)
				res.SyntheticForecast = &model.SyntheticForecast{
					EstimatedDrawdownPct: fc.EstimatedDrawdownPct,
					DrawdownChangeToday:  fc.DrawdownChangeToday,
					IsForecast:           true,
				}
			}
		} else {
			a.logger.Warn().Str("fund", fund.Code).Err(err).Msg("drawdown unavailable")
		}
	}

	if d.riskErr == nil {
		rm := engine.NormalizeRisk(d.risk)
		res.RiskMetrics = &rm
	}

	if res.RealTimeEstimate == nil && res.HistoricalDrawdown == nil && res.RiskMetrics == nil {
		res.Error = engine.ErrDataUnavailable.Error()
	}
}

// Analyze runs the full composite analysis for a portfolio. Slots come back
// in input order; a failing fund fails only its own slot.
func (a *Analyzer) Analyze(ctx context.Context, holdings []model.Holding) (*model.AnalysisResponse, error) {
	if err := validateHoldings(holdings, a.maxFunds); err != nil {
		return nil, err
	}

	results := make([]model.AnalysisResult, len(holdings))
	a.forEach(len(holdings), func(i int) {
		a.analyzeOne(ctx, holdings[i], &results[i])
	})

	now := time.Now()
	ok := 0
	for i := range results {
		if results[i].Error == "" {
			ok++
		}
	}
	resp := &model.AnalysisResponse{
		DetailedResults: results,
		Summary: model.AnalysisSummary{
			TotalFunds:           len(holdings),
			AnalyzedSuccessfully: ok,
			Timestamp:            now.Format(timeLayout),
		},
	}

	a.record(resp, now)
	return resp, nil
}

// record persists the run best-effort; recording failures never fail the
// request.
func (a *Analyzer) record(resp *model.AnalysisResponse, at time.Time) {
	reqID := uuid.NewString()
	rows := make([]recorder.AnalysisRecord, 0, len(resp.DetailedResults))
	for i := range resp.DetailedResults {
		r := &resp.DetailedResults[i]
		row := recorder.AnalysisRecord{
			RequestID:     reqID,
			FundCode:      r.FundCode,
			FundName:      r.FundName,
			HoldingAmount: r.Holding,
			Error:         r.Error,
		}
		if r.RealTimeEstimate != nil {
			row.EstimatedChangePct = &r.RealTimeEstimate.TodayChangePct
			row.Profit = &r.RealTimeEstimate.Profit
		}
		if r.HistoricalDrawdown != nil {
			row.DrawdownPct = &r.HistoricalDrawdown.DrawdownToHigh
		}
		if r.SyntheticForecast != nil {
			row.ForecastDrawdownPct = &r.SyntheticForecast.EstimatedDrawdownPct
		}
		rows = append(rows, row)
	}
	summary := recorder.RequestSummary{
		RequestID:            reqID,
		TotalFunds:           resp.Summary.TotalFunds,
		AnalyzedSuccessfully: resp.Summary.AnalyzedSuccessfully,
		Timestamp:            at,
	}
	if err := a.rec.RecordAnalysis(summary, rows); err != nil {
		a.logger.Error().Err(err).Str("request_id", reqID).Msg("record analysis failed")
	}
}

// dashboardIndices is the fixed set shown on the market overview, in
// display order. Provider quotes outside this set are dropped; names here
// win over whatever the feed calls them.
var dashboardIndices = []model.IndexQuote{
	{Code: "000001", Name: "上证指数"},
	{Code: "399001", Name: "深证成指"},
	{Code: "399006", Name: "创业板指"},
	{Code: "000300", Name: "沪深300"},
	{Code: "000905", Name: "中证500"},
	{Code: "000688", Name: "科创50"},
}

// Indices returns the live dashboard index quotes in the fixed display
// order. A slot the provider had no quote for is still returned, with a nil
// change and an error marker, so the dashboard keeps its shape.
func (a *Analyzer) Indices(ctx context.Context) ([]model.IndexEntry, error) {
	quotes, err := a.market.MarketIndices(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", engine.ErrDataUnavailable, err)
	}
	byCode := make(map[string]model.IndexQuote, len(quotes))
	for _, q := range quotes {
		byCode[q.Code] = q
	}
	out := make([]model.IndexEntry, 0, len(dashboardIndices))
	for _, want := range dashboardIndices {
		entry := model.IndexEntry{Code: want.Code, Name: want.Name}
		if q, ok := byCode[want.Code]; ok {
			chg := q.DailyChangePct
			entry.DailyChangePct = &chg
		} else {
			entry.Error = "quote unavailable"
		}
		out = append(out, entry)
	}
	return out, nil
}

// mapProviderErr translates a raw provider failure into the shared taxonomy.
func mapProviderErr(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %v", engine.ErrDataUnavailable, err)
}
