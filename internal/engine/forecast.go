package engine

// ForecastResult projects what the drawdown becomes if today's live estimate
// is realized. It is a forecast against the unchanged rolling high and never
// substitutes for the settled drawdown once the real NAV is published.
type ForecastResult struct {
	EstimatedDrawdownPct float64
	DrawdownChangeToday  float64
}

// Forecast compounds today's estimated change onto yesterday's NAV-to-high
// relationship. Both inputs and the outputs are percentages.
func Forecast(yesterdayDrawdownPct, todayEstimatedChangePct float64) ForecastResult {
	projected := ((1+yesterdayDrawdownPct/100)*(1+todayEstimatedChangePct/100) - 1) * 100
	return ForecastResult{
		EstimatedDrawdownPct: projected,
		DrawdownChangeToday:  todayEstimatedChangePct,
	}
}
