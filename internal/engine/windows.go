package engine

import "fmt"

// Supported window enumerations. Requests outside these sets are rejected
// with a validation error, never silently clamped.
var (
	rollingWindows      = map[int]bool{30: true, 60: true, 90: true, 120: true, 250: true}
	historyWindows      = map[int]bool{30: true, 60: true, 90: true, 180: true, 365: true}
	batchHistoryWindows = map[int]bool{30: true, 90: true, 180: true, 365: true}
)

// MaxBatchCodes caps the nav-history batch fan-out. A fifth code is a
// validation error, not a silent truncation.
const MaxBatchCodes = 4

// ValidateRollingWindow checks a drawdown window against {30,60,90,120,250}.
func ValidateRollingWindow(days int) error {
	if !rollingWindows[days] {
		return NewValidationError("rolling_days", fmt.Sprintf("unsupported window %d", days))
	}
	return nil
}

// ValidateHistoryWindow checks a single-fund nav-history day count against
// {30,60,90,180,365}.
func ValidateHistoryWindow(days int) error {
	if !historyWindows[days] {
		return NewValidationError("days", fmt.Sprintf("unsupported day count %d", days))
	}
	return nil
}

// ValidateBatchHistoryWindow checks a batch nav-history day count against
// {30,90,180,365}.
func ValidateBatchHistoryWindow(days int) error {
	if !batchHistoryWindows[days] {
		return NewValidationError("days", fmt.Sprintf("unsupported day count %d", days))
	}
	return nil
}
