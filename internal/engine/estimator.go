package engine

import (
	"time"

	"FundPulse/internal/model"
)

// Contribution is one disclosed holding's share of the estimated change.
type Contribution struct {
	StockCode       string  `json:"code"`
	StockName       string  `json:"name"`
	WeightPct       float64 `json:"ratio"`
	DailyChangePct  float64 `json:"change"`
	ContributionPct float64 `json:"contribution"`
}

// EstimateResult is the intraday valuation estimate for one fund.
type EstimateResult struct {
	EstimatedChangePct float64
	BenchmarkChangePct float64
	Benchmark          string
	Contributions      []Contribution
	DisclosedWeight    float64
	RemainingWeight    float64
	PositionRatioPct   float64
	// OverDisclosed flags disclosed weights exceeding the fund's equity
	// position ratio. The remainder is floored at 0 and the anomaly
	// reported rather than contributing a negative weight.
	OverDisclosed bool
	UpdateTime    time.Time
}

// Blender decides how much of a live intraday estimate to trust against the
// previous fully-realized daily change. persistence is a confidence weight
// in [0,1]; 1 keeps the live estimate untouched.
type Blender interface {
	Blend(livePct, previousPct, persistence float64) float64
}

// LinearBlender is the default strategy:
// persistence×live + (1−persistence)×previous.
type LinearBlender struct{}

func (LinearBlender) Blend(livePct, previousPct, persistence float64) float64 {
	if persistence < 0 {
		persistence = 0
	}
	if persistence > 1 {
		persistence = 1
	}
	return persistence*livePct + (1-persistence)*previousPct
}

// BlendOptions carries the optional confidence blending inputs. A nil
// options value returns the raw estimate unblended, as does a missing
// previous realized change.
type BlendOptions struct {
	Persistence       float64
	PreviousChangePct float64
	HasPrevious       bool
	Blender           Blender
}

// Estimate computes a fund's estimated today's NAV change from its disclosed
// top holdings, the benchmark index as a proxy for undisclosed equity
// exposure, and the fund's equity position ratio. Holdings without a quote
// are excluded and do not count toward the disclosed weight.
func Estimate(holdings []model.TopHoldingStock, benchmark model.IndexQuote, positionRatioPct float64, opt *BlendOptions) EstimateResult {
	res := EstimateResult{
		Benchmark:          benchmark.Name,
		BenchmarkChangePct: benchmark.DailyChangePct,
		PositionRatioPct:   positionRatioPct,
		UpdateTime:         time.Now(),
	}

	var disclosedSum float64
	for _, h := range holdings {
		if !h.HasQuote {
			continue
		}
		c := h.WeightPct / 100 * h.DailyChangePct
		res.Contributions = append(res.Contributions, Contribution{
			StockCode:       h.StockCode,
			StockName:       h.StockName,
			WeightPct:       h.WeightPct,
			DailyChangePct:  h.DailyChangePct,
			ContributionPct: c,
		})
		disclosedSum += h.WeightPct
		res.EstimatedChangePct += c
	}
	res.DisclosedWeight = disclosedSum

	remaining := positionRatioPct - disclosedSum
	if remaining < 0 {
		res.OverDisclosed = true
		remaining = 0
	}
	res.RemainingWeight = remaining
	res.EstimatedChangePct += remaining / 100 * benchmark.DailyChangePct

	if opt != nil && opt.HasPrevious {
		b := opt.Blender
		if b == nil {
			b = LinearBlender{}
		}
		res.EstimatedChangePct = b.Blend(res.EstimatedChangePct, opt.PreviousChangePct, opt.Persistence)
	}

	return res
}
