package fixedincome

import (
	"github.com/seenimoa/quantcore/pkg/models"
)

// DurationConvexity computes Macaulay duration (years), modified duration and
// convexity over the bond's cash-flow schedule:
//
//	macaulay  = Σ (t/m)·PV(CF_t) / P
//	modified  = macaulay / (1+y)
//	convexity = (Σ t(t+1)·PV(CF_t) / m²) / (P·(1+y)²)
//
// where m is payments per year and y the periodic yield.
func DurationConvexity(spec models.BondSpec) (models.DurationConvexity, error) {
	n, err := validateSpec(spec)
	if err != nil {
		return models.DurationConvexity{}, err
	}

	y := spec.PeriodicYield()
	m := float64(spec.PaymentsPerYear)

	var price, weightedTime, convexitySum float64
	for _, cf := range schedule(spec, n) {
		t := float64(cf.Period)
		pv := cf.Amount * discount(y, cf.Period)
		price += pv
		weightedTime += t / m * pv
		convexitySum += t * (t + 1) * pv
	}
	if err := checkFinite("present value", price, weightedTime, convexitySum); err != nil {
		return models.DurationConvexity{}, err
	}

	macaulay := weightedTime / price
	modified := macaulay / (1 + y)
	convexity := (convexitySum / (m * m)) / (price * (1 + y) * (1 + y))
	if err := checkFinite("duration", macaulay, modified, convexity); err != nil {
		return models.DurationConvexity{}, err
	}

	return models.DurationConvexity{
		MacaulayDuration: macaulay,
		ModifiedDuration: modified,
		Convexity:        convexity,
		BondPrice:        price,
	}, nil
}

// PriceChangeEstimate applies the second-order Taylor expansion
//
//	ΔP/P ≈ −D_mod·Δy + ½·C·Δy²
//
// for a yield move from yieldFrom to yieldTo (annual %). It is an
// approximation, not a repricing.
func PriceChangeEstimate(price, modDuration, convexity, yieldFrom, yieldTo float64) (models.PriceChange, error) {
	if !finite(price, modDuration, convexity, yieldFrom, yieldTo) {
		return models.PriceChange{}, invalid("price change inputs must be finite")
	}
	dy := (yieldTo - yieldFrom) / 100
	durationEffect := -modDuration * dy
	convexityEffect := 0.5 * convexity * dy * dy
	total := durationEffect + convexityEffect
	pc := models.PriceChange{
		DurationEffect:  durationEffect,
		ConvexityEffect: convexityEffect,
		TotalChange:     total,
		NewPrice:        price * (1 + total),
	}
	if err := checkFinite("price change", pc.DurationEffect, pc.ConvexityEffect, pc.TotalChange, pc.NewPrice); err != nil {
		return models.PriceChange{}, err
	}
	return pc, nil
}
