package analyzer

import (
	"context"

	"FundPulse/internal/engine"
)

// DrawdownEntry is one fund's rolling drawdown reading.
type DrawdownEntry struct {
	FundCode        string  `json:"fund_code"`
	FundName        string  `json:"fund_name"`
	YesterdayNav    float64 `json:"yesterday_nav"`
	NavDate         string  `json:"nav_date"`
	RollingHigh     float64 `json:"rolling_high"`
	HighDate        string  `json:"high_date"`
	DrawdownPct     float64 `json:"drawdown_to_high_pct"`
	IsAtRollingHigh bool    `json:"is_at_rolling_high"`
	DataPoints      int     `json:"data_points"`
	RollingDays     int     `json:"rolling_days"`
	Error           string  `json:"error,omitempty"`
}

// DrawdownBatch computes the rolling drawdown for each code over the same
// window. The window is validated once up front; per-fund failures fail
// only their slot.
func (a *Analyzer) DrawdownBatch(ctx context.Context, codes []string, rollingDays int) ([]DrawdownEntry, error) {
	if err := engine.ValidateRollingWindow(rollingDays); err != nil {
		return nil, err
	}
	if len(codes) == 0 {
		return nil, engine.NewValidationError("codes", "no fund codes")
	}

	results := make([]DrawdownEntry, len(codes))
	a.forEach(len(codes), func(i int) {
		res := &results[i]
		res.FundCode = codes[i]
		res.RollingDays = rollingDays

		fund, ok := a.store.Snapshot().Lookup(codes[i])
		if !ok {
			res.Error = engine.ErrLookupMiss.Error()
			return
		}
		res.FundCode = fund.Code
		res.FundName = fund.Name

		series, err := a.market.NavHistory(ctx, fund.Code, rollingDays)
		if err != nil {
			res.Error = mapProviderErr(err).Error()
			return
		}
		dd, err := engine.Drawdown(series, rollingDays)
		if err != nil {
			res.Error = err.Error()
			return
		}
		res.YesterdayNav = dd.CurrentNav
		res.NavDate = dd.CurrentDate.Format(dateLayout)
		res.RollingHigh = dd.RollingHigh
		res.HighDate = dd.HighDate.Format(dateLayout)
		res.DrawdownPct = dd.DrawdownPct
		res.IsAtRollingHigh = dd.IsAtHigh
		res.DataPoints = dd.DataPoints
	})
	return results, nil
}
