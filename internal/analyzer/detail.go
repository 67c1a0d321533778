package analyzer

import (
	"context"

	"FundPulse/internal/engine"
	"FundPulse/internal/model"
)

// FundDetail is one fund's holdings breakdown: each disclosed stock with its
// weight, live change and contribution, plus how the disclosed and remaining
// weights split against the benchmark.
type FundDetail struct {
	FundCode           string                `json:"fund_code"`
	FundName           string                `json:"fund_name"`
	EstimatedChangePct float64               `json:"estimated_change_pct"`
	Benchmark          string                `json:"benchmark"`
	BenchmarkChangePct float64               `json:"benchmark_change_pct"`
	Holdings           []engine.Contribution `json:"holdings"`
	DisclosedWeight    float64               `json:"disclosed_weight_pct"`
	RemainingWeight    float64               `json:"remaining_weight_pct"`
	PositionRatioPct   float64               `json:"position_ratio_pct"`
	OverDisclosed      bool                  `json:"over_disclosed,omitempty"`
	UpdateTime         string                `json:"update_time"`
}

// Detail fetches one fund's disclosed holdings and benchmark quote and
// returns the raw live breakdown, unblended. Unlike the portfolio paths it
// never degrades: a fund the detail view cannot price is an error.
func (a *Analyzer) Detail(ctx context.Context, code string) (*FundDetail, error) {
	idx := a.store.Snapshot()
	fund, ok := idx.Lookup(code)
	if !ok {
		return nil, engine.ErrLookupMiss
	}

	holdings, positionRatio, err := a.market.TopHoldings(ctx, fund.Code)
	if err != nil {
		return nil, mapProviderErr(err)
	}

	benchCode := fund.BenchmarkCode
	if benchCode == "" {
		benchCode = DefaultBenchmark
	}
	var benchmark model.IndexQuote
	if benchmark, err = a.market.IndexQuote(ctx, benchCode); err != nil {
		return nil, mapProviderErr(err)
	}

	est := engine.Estimate(holdings, benchmark, positionRatio, nil)
	return &FundDetail{
		FundCode:           fund.Code,
		FundName:           fund.Name,
		EstimatedChangePct: est.EstimatedChangePct,
		Benchmark:          est.Benchmark,
		BenchmarkChangePct: est.BenchmarkChangePct,
		Holdings:           est.Contributions,
		DisclosedWeight:    est.DisclosedWeight,
		RemainingWeight:    est.RemainingWeight,
		PositionRatioPct:   est.PositionRatioPct,
		OverDisclosed:      est.OverDisclosed,
		UpdateTime:         est.UpdateTime.Format(timeLayout),
	}, nil
}
