package model

// IndexQuote is the live daily change of a benchmark index, supplied by the
// market-data provider.
type IndexQuote struct {
	Code           string  `json:"code"`
	Name           string  `json:"name"`
	DailyChangePct float64 `json:"change"`
}

// IndexEntry is one fixed dashboard slot. DailyChangePct is nil when the
// feed had no quote for the index; Error then names the gap so the slot
// still renders.
type IndexEntry struct {
	Code           string   `json:"code"`
	Name           string   `json:"name"`
	DailyChangePct *float64 `json:"change"`
	Error          string   `json:"error,omitempty"`
}

// RiskFigures carries externally computed risk statistics as delivered by
// the data provider. Nil means the provider had no value; zero is a valid
// reading and must not stand in for "unavailable".
type RiskFigures struct {
	SharpeRatio      *float64 `json:"sharpe_ratio"`
	AnnualVolatility *float64 `json:"annual_volatility"`
	MaxDrawdown      *float64 `json:"max_drawdown"`
	Rank1Y           *string  `json:"rank_1y"`
	Rank3Y           *string  `json:"rank_3y"`
	Rank5Y           *string  `json:"rank_5y"`
}
