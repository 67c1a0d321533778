package engine

import (
	"errors"
	"math"
	"testing"
	"time"

	"FundPulse/internal/model"
)

func day(n int) time.Time {
	return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func series(values ...float64) model.NavSeries {
	s := make(model.NavSeries, len(values))
	for i, v := range values {
		s[i] = model.NavPoint{Date: day(i), Value: v}
	}
	return s
}

func TestDrawdown_Basic(t *testing.T) {
	s := series(5.00, 5.20, 5.10)
	res, err := Drawdown(s, 90)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.RollingHigh != 5.20 {
		t.Errorf("rolling high: expected 5.20, got %.4f", res.RollingHigh)
	}
	if !res.HighDate.Equal(day(1)) {
		t.Errorf("high date: expected %v, got %v", day(1), res.HighDate)
	}
	if res.CurrentNav != 5.10 {
		t.Errorf("current nav: expected 5.10, got %.4f", res.CurrentNav)
	}
	want := (5.10 - 5.20) / 5.20 * 100
	if math.Abs(res.DrawdownPct-want) > 1e-9 {
		t.Errorf("drawdown: expected %.6f, got %.6f", want, res.DrawdownPct)
	}
	if res.IsAtHigh {
		t.Error("expected IsAtHigh=false below the high")
	}
	if res.DataPoints != 3 {
		t.Errorf("data points: expected 3, got %d", res.DataPoints)
	}
}

func TestDrawdown_NeverPositive(t *testing.T) {
	cases := []model.NavSeries{
		series(1.0),
		series(1.0, 1.1, 1.2, 1.3),
		series(2.0, 1.5, 1.8, 1.2),
		series(1.0, 1.0, 1.0),
	}
	for i, s := range cases {
		res, err := Drawdown(s, 30)
		if err != nil {
			t.Fatalf("case %d: unexpected error: %v", i, err)
		}
		if res.DrawdownPct > 0 {
			t.Errorf("case %d: drawdown must be <= 0, got %.4f", i, res.DrawdownPct)
		}
		if res.IsAtHigh != (res.DrawdownPct == 0) {
			t.Errorf("case %d: IsAtHigh=%v inconsistent with drawdown %.4f", i, res.IsAtHigh, res.DrawdownPct)
		}
	}
}

func TestDrawdown_ShortSeriesReportsActualPoints(t *testing.T) {
	s := series(1.0, 1.1, 1.05)
	for _, window := range []int{30, 60, 90, 120, 250} {
		res, err := Drawdown(s, window)
		if err != nil {
			t.Fatalf("window %d: unexpected error: %v", window, err)
		}
		if res.DataPoints != len(s) {
			t.Errorf("window %d: expected %d data points, got %d", window, len(s), res.DataPoints)
		}
	}
}

func TestDrawdown_WindowSelectsTail(t *testing.T) {
	// 40 points climbing then falling; the high inside the last 30 points
	// is not the all-time high.
	s := make(model.NavSeries, 40)
	for i := range s {
		v := 2.0 - float64(i)*0.01
		s[i] = model.NavPoint{Date: day(i), Value: v}
	}
	res, err := Drawdown(s, 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.DataPoints != 30 {
		t.Fatalf("expected 30 data points, got %d", res.DataPoints)
	}
	if !res.HighDate.Equal(day(10)) {
		t.Errorf("expected high at window start %v, got %v", day(10), res.HighDate)
	}
}

func TestDrawdown_EarliestDateWinsTies(t *testing.T) {
	s := series(1.0, 1.5, 1.2, 1.5, 1.3)
	res, err := Drawdown(s, 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.HighDate.Equal(day(1)) {
		t.Errorf("expected earliest high date %v, got %v", day(1), res.HighDate)
	}
}

func TestDrawdown_SinglePoint(t *testing.T) {
	res, err := Drawdown(series(1.23), 90)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.DrawdownPct != 0 || !res.IsAtHigh {
		t.Errorf("single point: expected drawdown 0 at high, got %.4f (at high: %v)", res.DrawdownPct, res.IsAtHigh)
	}
}

func TestDrawdown_EmptySeries(t *testing.T) {
	_, err := Drawdown(nil, 90)
	if !errors.Is(err, ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData, got %v", err)
	}
}

func TestDrawdown_InvalidWindow(t *testing.T) {
	for _, window := range []int{0, -90, 45, 100, 251} {
		_, err := Drawdown(series(1.0, 1.1), window)
		if !IsValidation(err) {
			t.Errorf("window %d: expected validation error, got %v", window, err)
		}
	}
}

func TestDrawdown_NonPositiveHigh(t *testing.T) {
	_, err := Drawdown(series(0, 0), 30)
	var ce *ComputeError
	if !errors.As(err, &ce) {
		t.Errorf("expected ComputeError for zero rolling high, got %v", err)
	}
}
