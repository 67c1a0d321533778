// Package provider talks to the external market-data collaborator. All
// engine inputs (live holdings, index quotes, NAV history, risk figures)
// come through here; the engine itself never performs I/O.
package provider

import (
	"context"

	"FundPulse/internal/model"
)

// MarketData is the collaborator boundary. Each method covers one data kind
// so the orchestrator can issue them concurrently per fund.
type MarketData interface {
	// FundList returns the full fund reference table for the directory.
	FundList(ctx context.Context) ([]model.Fund, error)
	// TopHoldings returns a fund's disclosed holdings enriched with live
	// changes, plus the fund's equity position ratio in percent.
	TopHoldings(ctx context.Context, fundCode string) ([]model.TopHoldingStock, float64, error)
	// IndexQuote returns the live change of one benchmark index.
	IndexQuote(ctx context.Context, indexCode string) (model.IndexQuote, error)
	// MarketIndices returns the fixed dashboard set of index quotes.
	MarketIndices(ctx context.Context) ([]model.IndexQuote, error)
	// NavHistory returns up to days most recent NAV points, ascending.
	NavHistory(ctx context.Context, fundCode string, days int) (model.NavSeries, error)
	// RiskFigures returns externally computed risk statistics.
	RiskFigures(ctx context.Context, fundCode string) (model.RiskFigures, error)
}
