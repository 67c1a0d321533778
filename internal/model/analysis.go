package model

// RealTimeEstimate is the intraday valuation section of an analysis result.
type RealTimeEstimate struct {
	TodayChangePct     float64 `json:"today_change_pct"`
	EstimatedNav       float64 `json:"estimated_nav"`
	Benchmark          string  `json:"benchmark"`
	BenchmarkChangePct float64 `json:"benchmark_change_pct"`
	Profit             float64 `json:"profit"`
	UpdateTime         string  `json:"update_time"`
}

// HistoricalDrawdown is the settled rolling-window drawdown section.
type HistoricalDrawdown struct {
	YesterdayNav    float64 `json:"yesterday_nav"`
	RollingHigh     float64 `json:"rolling_high"`
	HighDate        string  `json:"high_date"`
	DrawdownToHigh  float64 `json:"drawdown_to_high_pct"`
	IsAtRollingHigh bool    `json:"is_at_rolling_high"`
}

// SyntheticForecast projects today's drawdown before the official NAV is
// published. IsForecast is always true; this section never replaces the
// settled drawdown once the real NAV lands.
type SyntheticForecast struct {
	EstimatedDrawdownPct float64 `json:"estimated_drawdown_pct"`
	DrawdownChangeToday  float64 `json:"drawdown_change_today"`
	IsForecast           bool    `json:"is_forecast"`
}

// RiskMetrics is the normalized risk section. Nil fields mean the provider
// had no value for them.
type RiskMetrics struct {
	SharpeRatio      *float64 `json:"sharpe_ratio"`
	AnnualVolatility *float64 `json:"annual_volatility"`
	MaxDrawdown      *float64 `json:"max_drawdown"`
	Rank1Y           *string  `json:"rank_1y"`
	Rank3Y           *string  `json:"rank_3y"`
	Rank5Y           *string  `json:"rank_5y"`
}

// AnalysisResult is the per-fund composite produced by the orchestrator.
// A non-empty Error marks the whole slot as failed; sections may be nil
// individually when only part of the data was available.
type AnalysisResult struct {
	FundCode           string              `json:"fund_code"`
	FundName           string              `json:"fund_name"`
	Holding            float64             `json:"holding"`
	RealTimeEstimate   *RealTimeEstimate   `json:"real_time_estimate,omitempty"`
	HistoricalDrawdown *HistoricalDrawdown `json:"historical_drawdown,omitempty"`
	SyntheticForecast  *SyntheticForecast  `json:"synthetic_forecast,omitempty"`
	RiskMetrics        *RiskMetrics        `json:"risk_metrics,omitempty"`
	Error              string              `json:"error,omitempty"`
}

// AnalysisSummary aggregates one batch run.
type AnalysisSummary struct {
	TotalFunds           int    `json:"total_funds"`
	AnalyzedSuccessfully int    `json:"analyzed_successfully"`
	Timestamp            string `json:"timestamp"`
}

// AnalysisResponse is the full orchestrator output. DetailedResults keeps
// the caller's portfolio order regardless of completion order.
type AnalysisResponse struct {
	DetailedResults []AnalysisResult `json:"detailed_results"`
	Summary         AnalysisSummary  `json:"summary"`
}
