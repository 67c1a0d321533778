package engine

import (
	"fmt"
	"time"

	"FundPulse/internal/model"
)

// DrawdownResult measures how far the latest NAV sits below the highest NAV
// in the trailing window.
type DrawdownResult struct {
	CurrentNav  float64
	CurrentDate time.Time
	RollingHigh float64
	HighDate    time.Time
	// DrawdownPct is ≤ 0 by construction; 0 exactly at the rolling high.
	DrawdownPct float64
	IsAtHigh    bool
	// DataPoints is the number of points actually used, which is less than
	// the requested window when history is shorter.
	DataPoints int
}

// Drawdown computes the rolling-high drawdown over the last rollingDays
// points of the series. rollingDays must be one of {30,60,90,120,250}.
func Drawdown(series model.NavSeries, rollingDays int) (*DrawdownResult, error) {
	if err := ValidateRollingWindow(rollingDays); err != nil {
		return nil, err
	}
	if len(series) == 0 {
		return nil, fmt.Errorf("drawdown: %w", ErrInsufficientData)
	}

	window := series.Tail(rollingDays)
	current := window.Last()

	// Earliest date wins on ties, hence strict greater-than.
	high := window[0]
	for _, p := range window[1:] {
		if p.Value > high.Value {
			high = p
		}
	}

	if high.Value <= 0 {
		return nil, &ComputeError{Op: "drawdown", Err: fmt.Errorf("non-positive rolling high %.4f", high.Value)}
	}

	return &DrawdownResult{
		CurrentNav:  current.Value,
		CurrentDate: current.Date,
		RollingHigh: high.Value,
		HighDate:    high.Date,
		DrawdownPct: (current.Value - high.Value) / high.Value * 100,
		IsAtHigh:    current.Value == high.Value,
		DataPoints:  len(window),
	}, nil
}
