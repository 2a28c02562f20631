// Package portfolio derives return series from price histories and computes
// per-asset and portfolio-level risk/return statistics.
//
// The pipeline is PriceSeries → returns → AssetStatistics (+ pairwise
// covariance) → PortfolioMetrics, recomputed in full on every call.
package portfolio

import (
	"math"

	"github.com/seenimoa/quantcore/pkg/models"
)

// TradingDaysPerYear annualises daily statistics.
const TradingDaysPerYear = 252

// ComputeReturns returns the simple period-over-period returns of a price
// series. A return is omitted, not zeroed, when either price is missing or
// non-finite or the previous price is zero. Returns that overflow are omitted
// the same way.
func ComputeReturns(points []models.PricePoint) []float64 {
	if len(points) < 2 {
		return []float64{}
	}
	returns := make([]float64, 0, len(points)-1)
	for i := 1; i < len(points); i++ {
		prev, cur := points[i-1].Close, points[i].Close
		if !usable(prev) || !usable(cur) || *prev == 0 {
			continue
		}
		p0, p1 := *prev, *cur
		r := (p1 - p0) / p0
		if math.IsNaN(r) || math.IsInf(r, 0) {
			continue
		}
		returns = append(returns, r)
	}
	return returns
}

// Closes extracts the usable closing prices of a series, in order.
func Closes(points []models.PricePoint) []float64 {
	closes := make([]float64, 0, len(points))
	for _, p := range points {
		if usable(p.Close) {
			closes = append(closes, *p.Close)
		}
	}
	return closes
}

func usable(p *float64) bool {
	return p != nil && !math.IsNaN(*p) && !math.IsInf(*p, 0)
}

// MaxDrawdown returns the largest peak-to-trough decline of closes as a
// fraction of the peak (0.25 means a 25% drawdown).
func MaxDrawdown(closes []float64) float64 {
	if len(closes) == 0 {
		return 0
	}
	peak := closes[0]
	maxDD := 0.0
	for _, c := range closes {
		if c > peak {
			peak = c
		}
		if peak > 0 {
			if dd := (peak - c) / peak; dd > maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD
}
