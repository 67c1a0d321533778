package analyzer

import (
	"context"
	"fmt"

	"FundPulse/internal/engine"
	"FundPulse/internal/model"
)

// NavEntry is one NAV point with the date flattened for transport.
type NavEntry struct {
	Date string  `json:"date"`
	Nav  float64 `json:"nav"`
}

// NavHistoryResult is one fund's NAV history with summary statistics.
type NavHistoryResult struct {
	FundCode string           `json:"fund_code"`
	FundName string           `json:"fund_name"`
	Days     int              `json:"days"`
	History  []NavEntry       `json:"history"`
	Stats    *engine.NavStats `json:"stats,omitempty"`
	Error    string           `json:"error,omitempty"`
}

func navEntries(series model.NavSeries) []NavEntry {
	entries := make([]NavEntry, len(series))
	for i, p := range series {
		entries[i] = NavEntry{Date: p.Date.Format(dateLayout), Nav: p.Value}
	}
	return entries
}

// NavHistory returns one fund's NAV history over a supported window along
// with its statistics.
func (a *Analyzer) NavHistory(ctx context.Context, code string, days int) (*NavHistoryResult, error) {
	if err := engine.ValidateHistoryWindow(days); err != nil {
		return nil, err
	}

	fund, ok := a.store.Snapshot().Lookup(code)
	if !ok {
		return nil, fmt.Errorf("%w: %s", engine.ErrLookupMiss, code)
	}

	series, err := a.market.NavHistory(ctx, fund.Code, days)
	if err != nil {
		return nil, mapProviderErr(err)
	}

	res := &NavHistoryResult{
		FundCode: fund.Code,
		FundName: fund.Name,
		Days:     days,
		History:  navEntries(series),
	}
	if stats, err := engine.Summarize(series); err == nil {
		res.Stats = stats
	}
	return res, nil
}

// NavHistoryBatch fans NavHistory out over up to MaxBatchCodes funds. The
// day count and code count are validated before any provider call; a fifth
// code therefore costs no fetches. Per-fund failures fail only their slot.
func (a *Analyzer) NavHistoryBatch(ctx context.Context, codes []string, days int) ([]NavHistoryResult, error) {
	if err := engine.ValidateBatchHistoryWindow(days); err != nil {
		return nil, err
	}
	if len(codes) == 0 {
		return nil, engine.NewValidationError("codes", "no fund codes")
	}
	if len(codes) > engine.MaxBatchCodes {
		return nil, engine.NewValidationError("codes",
			fmt.Sprintf("batch exceeds %d codes", engine.MaxBatchCodes))
	}

	results := make([]NavHistoryResult, len(codes))
	a.forEach(len(codes), func(i int) {
		res := &results[i]
		res.FundCode = codes[i]
		res.Days = days

		fund, ok := a.store.Snapshot().Lookup(codes[i])
		if !ok {
			res.Error = engine.ErrLookupMiss.Error()
			return
		}
		res.FundCode = fund.Code
		res.FundName = fund.Name

		series, err := a.market.NavHistory(ctx, fund.Code, days)
		if err != nil {
			res.Error = mapProviderErr(err).Error()
			return
		}
		res.History = navEntries(series)
		if stats, err := engine.Summarize(series); err == nil {
			res.Stats = stats
		}
	})
	return results, nil
}
