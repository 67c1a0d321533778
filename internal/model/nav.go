package model

import "time"

// NavPoint is one published net asset value for a fund.
type NavPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"nav"`
}

// NavSeries is an ordered-by-date NAV history for one fund, sorted ascending
// with no duplicate dates. It is an immutable snapshot per request.
type NavSeries []NavPoint

// Last returns the most recent point. Callers must check Len first.
func (s NavSeries) Last() NavPoint { return s[len(s)-1] }

// Tail returns the last n points, or the whole series if it is shorter.
func (s NavSeries) Tail(n int) NavSeries {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
