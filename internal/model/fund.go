package model

// Fund is one entry in the static fund directory. Loaded once per snapshot,
// never mutated by analysis requests.
type Fund struct {
	Code          string `json:"code"`
	Name          string `json:"name"`
	PhoneticKey   string `json:"phonetic_key"`
	Type          string `json:"type"`
	BenchmarkCode string `json:"benchmark_code"`
}

// Holding is a single portfolio line item supplied by the caller.
// Amount is monetary and defaults to 0 when unspecified.
type Holding struct {
	FundCode string  `json:"code"`
	FundName string  `json:"name"`
	Amount   float64 `json:"holding"`
}

// TopHoldingStock is one disclosed equity position of a fund, enriched with
// its live daily change. HasQuote is false when the quote was missing or
// stale; such holdings are excluded from estimation.
type TopHoldingStock struct {
	StockCode      string  `json:"stock_code"`
	StockName      string  `json:"stock_name"`
	WeightPct      float64 `json:"weight_pct"`
	DailyChangePct float64 `json:"daily_change_pct"`
	HasQuote       bool    `json:"has_quote"`
}
