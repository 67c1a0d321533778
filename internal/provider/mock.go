package provider

import (
	"context"
	"fmt"
	"sync/atomic"

	"FundPulse/internal/model"
)

// Mock is an in-memory MarketData for tests. Populate the maps with
// per-fund data, or set the Err fields to force failures.
type Mock struct {
	Funds         []model.Fund
	Holdings      map[string][]model.TopHoldingStock
	PositionRatio map[string]float64
	Quotes        map[string]model.IndexQuote
	Indices       []model.IndexQuote
	Nav           map[string]model.NavSeries
	Risk          map[string]model.RiskFigures

	FundListErr error
	HoldingsErr map[string]error
	NavErr      map[string]error
	RiskErr     map[string]error
	QuoteErr    map[string]error

	// Calls counts every MarketData invocation, across all methods.
	Calls atomic.Int64
}

// NewMock returns an empty mock ready for population.
func NewMock() *Mock {
	return &Mock{
		Holdings:      make(map[string][]model.TopHoldingStock),
		PositionRatio: make(map[string]float64),
		Quotes:        make(map[string]model.IndexQuote),
		Nav:           make(map[string]model.NavSeries),
		Risk:          make(map[string]model.RiskFigures),
		HoldingsErr:   make(map[string]error),
		NavErr:        make(map[string]error),
		RiskErr:       make(map[string]error),
		QuoteErr:      make(map[string]error),
	}
}

func (m *Mock) FundList(ctx context.Context) ([]model.Fund, error) {
	m.Calls.Add(1)
	if m.FundListErr != nil {
		return nil, m.FundListErr
	}
	return m.Funds, nil
}

func (m *Mock) TopHoldings(ctx context.Context, fundCode string) ([]model.TopHoldingStock, float64, error) {
	m.Calls.Add(1)
	if err := m.HoldingsErr[fundCode]; err != nil {
		return nil, 0, err
	}
	holdings, ok := m.Holdings[fundCode]
	if !ok {
		return nil, 0, fmt.Errorf("mock: no holdings for %s", fundCode)
	}
	return holdings, m.PositionRatio[fundCode], nil
}

func (m *Mock) IndexQuote(ctx context.Context, indexCode string) (model.IndexQuote, error) {
	m.Calls.Add(1)
	if err := m.QuoteErr[indexCode]; err != nil {
		return model.IndexQuote{}, err
	}
	quote, ok := m.Quotes[indexCode]
	if !ok {
		return model.IndexQuote{}, fmt.Errorf("mock: no quote for %s", indexCode)
	}
	return quote, nil
}

func (m *Mock) MarketIndices(ctx context.Context) ([]model.IndexQuote, error) {
	m.Calls.Add(1)
	return m.Indices, nil
}

func (m *Mock) NavHistory(ctx context.Context, fundCode string, days int) (model.NavSeries, error) {
	m.Calls.Add(1)
	if err := m.NavErr[fundCode]; err != nil {
		return nil, err
	}
	series, ok := m.Nav[fundCode]
	if !ok {
		return nil, fmt.Errorf("mock: no nav history for %s", fundCode)
	}
	return series.Tail(days), nil
}

func (m *Mock) RiskFigures(ctx context.Context, fundCode string) (model.RiskFigures, error) {
	m.Calls.Add(1)
	if err := m.RiskErr[fundCode]; err != nil {
		return model.RiskFigures{}, err
	}
	figures, ok := m.Risk[fundCode]
	if !ok {
		return model.RiskFigures{}, fmt.Errorf("mock: no risk figures for %s", fundCode)
	}
	return figures, nil
}
