// Package recorder persists analysis snapshots for later inspection. Every
// orchestrated run writes one request row plus one row per fund; old rows
// are pruned on a schedule.
package recorder

import "time"

// RequestSummary is the per-run header row.
type RequestSummary struct {
	RequestID            string
	TotalFunds           int
	AnalyzedSuccessfully int
	Timestamp            time.Time
}

// AnalysisRecord is one fund's outcome within a run. Nil pointers mean the
// section was unavailable for that fund.
type AnalysisRecord struct {
	RequestID           string
	FundCode            string
	FundName            string
	HoldingAmount       float64
	EstimatedChangePct  *float64
	Profit              *float64
	DrawdownPct         *float64
	ForecastDrawdownPct *float64
	Error               string
}

// Recorder persists analysis runs.
type Recorder interface {
	RecordAnalysis(summary RequestSummary, rows []AnalysisRecord) error
	// Prune deletes rows older than the cutoff and returns how many went.
	Prune(olderThan time.Time) (int64, error)
	Close() error
}
