package engine

import (
	"fmt"
	"time"

	"FundPulse/internal/model"
)

// NavStats summarizes a NAV series as given; the caller decides the window.
type NavStats struct {
	MaxNav         float64   `json:"max_nav"`
	MaxDate        time.Time `json:"max_date"`
	MinNav         float64   `json:"min_nav"`
	MinDate        time.Time `json:"min_date"`
	CurrentNav     float64   `json:"current_nav"`
	TotalReturnPct float64   `json:"total_return"`
	DataPoints     int       `json:"data_points"`
}

// Summarize derives max/min/current/total-return from a NAV series. The most
// recent date wins max/min ties.
func Summarize(series model.NavSeries) (*NavStats, error) {
	if len(series) == 0 {
		return nil, fmt.Errorf("summarize: %w", ErrInsufficientData)
	}

	max, min := series[0], series[0]
	for _, p := range series[1:] {
		if p.Value >= max.Value {
			max = p
		}
		if p.Value <= min.Value {
			min = p
		}
	}

	first := series[0].Value
	current := series.Last().Value
	var totalReturn float64
	if first > 0 {
		totalReturn = (current - first) / first * 100
	}

	return &NavStats{
		MaxNav:         max.Value,
		MaxDate:        max.Date,
		MinNav:         min.Value,
		MinDate:        min.Date,
		CurrentNav:     current,
		TotalReturnPct: totalReturn,
		DataPoints:     len(series),
	}, nil
}
