package engine

import (
	"math"
	"testing"
)

func TestForecast_CompoundsOntoYesterday(t *testing.T) {
	// Yesterday 10% below the high, today estimated -0.61%:
	// (0.90 × 0.9939 − 1) × 100
	res := Forecast(-10.0, -0.61)
	want := ((1-0.10)*(1-0.0061) - 1) * 100
	if math.Abs(res.EstimatedDrawdownPct-want) > 1e-9 {
		t.Errorf("expected %.6f, got %.6f", want, res.EstimatedDrawdownPct)
	}
}

func TestForecast_ChangeTodayEqualsEstimate(t *testing.T) {
	for _, change := range []float64{-3.2, -0.01, 0, 0.5, 2.75} {
		res := Forecast(-5.0, change)
		if res.DrawdownChangeToday != change {
			t.Errorf("drawdown change today must equal the estimator output: expected %.4f, got %.4f", change, res.DrawdownChangeToday)
		}
	}
}

func TestForecast_AtHighNoMove(t *testing.T) {
	res := Forecast(0, 0)
	if res.EstimatedDrawdownPct != 0 {
		t.Errorf("expected 0 drawdown forecast, got %.6f", res.EstimatedDrawdownPct)
	}
}
