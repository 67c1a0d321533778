package engine

import (
	"strings"

	"FundPulse/internal/model"
)

// NormalizeRisk coerces externally supplied risk figures into the output
// shape. Missing fields stay nil; zero is a meaningful reading for these
// metrics and must not be confused with "unavailable". Max drawdown is
// normalized so a decline reads negative regardless of the feed's sign
// convention.
func NormalizeRisk(raw model.RiskFigures) model.RiskMetrics {
	m := model.RiskMetrics{
		SharpeRatio:      raw.SharpeRatio,
		AnnualVolatility: raw.AnnualVolatility,
		Rank1Y:           cleanRank(raw.Rank1Y),
		Rank3Y:           cleanRank(raw.Rank3Y),
		Rank5Y:           cleanRank(raw.Rank5Y),
	}
	if raw.MaxDrawdown != nil {
		dd := *raw.MaxDrawdown
		if dd > 0 {
			dd = -dd
		}
		m.MaxDrawdown = &dd
	}
	return m
}

func cleanRank(r *string) *string {
	if r == nil {
		return nil
	}
	s := strings.TrimSpace(*r)
	if s == "" {
		return nil
	}
	return &s
}
