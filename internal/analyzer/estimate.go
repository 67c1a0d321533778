package analyzer

import (
	"context"
	"time"

	"FundPulse/internal/engine"
	"FundPulse/internal/model"
)

// EstimateRow is one fund's intraday estimate without the historical
// sections.
type EstimateRow struct {
	FundCode           string                `json:"fund_code"`
	FundName           string                `json:"fund_name"`
	Holding            float64               `json:"holding"`
	TodayChangePct     float64               `json:"today_change_pct"`
	EstimatedNav       float64               `json:"estimated_nav"`
	Benchmark          string                `json:"benchmark"`
	BenchmarkChangePct float64               `json:"benchmark_change_pct"`
	Profit             float64               `json:"profit"`
	Contributions      []engine.Contribution `json:"contributions,omitempty"`
	Error              string                `json:"error,omitempty"`
}

// EstimateSummary aggregates the portfolio-level view of one estimate run.
type EstimateSummary struct {
	TotalHolding       float64 `json:"total_holding"`
	TotalProfit        float64 `json:"total_profit"`
	PortfolioChangePct float64 `json:"portfolio_change_pct"`
	Timestamp          string  `json:"timestamp"`
}

// EstimateResponse is the lightweight estimate-only output.
type EstimateResponse struct {
	Results []EstimateRow   `json:"results"`
	Summary EstimateSummary `json:"summary"`
}

// EstimateOnly runs just the intraday valuation for a portfolio, skipping
// drawdown, forecast and risk. Funds failing individually fail only their
// own row and drop out of the portfolio totals.
func (a *Analyzer) EstimateOnly(ctx context.Context, holdings []model.Holding) (*EstimateResponse, error) {
	if err := validateHoldings(holdings, a.maxFunds); err != nil {
		return nil, err
	}

	rows := make([]EstimateRow, len(holdings))
	a.forEach(len(holdings), func(i int) {
		a.estimateOne(ctx, holdings[i], &rows[i])
	})

	var summary EstimateSummary
	for i := range rows {
		if rows[i].Error != "" {
			continue
		}
		summary.TotalHolding += rows[i].Holding
		summary.TotalProfit += rows[i].Profit
	}
	if summary.TotalHolding > 0 {
		summary.PortfolioChangePct = summary.TotalProfit / summary.TotalHolding * 100
	}
	summary.Timestamp = time.Now().Format(timeLayout)

	return &EstimateResponse{Results: rows, Summary: summary}, nil
}

func (a *Analyzer) estimateOne(ctx context.Context, h model.Holding, row *EstimateRow) {
	row.FundCode = h.FundCode
	row.Holding = h.Amount

	idx := a.store.Snapshot()
	fund, ok := idx.Lookup(h.FundCode)
	if !ok {
		row.FundName = h.FundName
		row.Error = engine.ErrLookupMiss.Error()
		return
	}
	row.FundName = fund.Name

	d := a.fetchFund(ctx, fund)
	if d.holdingsErr != nil || d.benchmarkErr != nil {
		row.Error = engine.ErrDataUnavailable.Error()
		return
	}

	opt := &engine.BlendOptions{Persistence: a.persistence, Blender: a.blender}
	if chg, ok := previousChange(d.nav); d.navErr == nil && ok {
		opt.PreviousChangePct = chg
		opt.HasPrevious = true
	}
	est := engine.Estimate(d.holdings, d.benchmark, d.positionRatio, opt)

	row.TodayChangePct = est.EstimatedChangePct
	row.Benchmark = est.Benchmark
	row.BenchmarkChangePct = est.BenchmarkChangePct
	row.Profit = h.Amount * est.EstimatedChangePct / 100
	row.Contributions = est.Contributions
	if d.navErr == nil && len(d.nav) > 0 {
		row.EstimatedNav = d.nav.Last().Value * (1 + est.EstimatedChangePct/100)
	}
}
