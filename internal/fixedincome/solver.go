package fixedincome

import (
	"fmt"
	"math"

	"github.com/seenimoa/quantcore/pkg/models"
)

const (
	solverTolerance = 1e-10
	solverMaxIter   = 100
	solverFloor     = -99.0  // annual %
	solverCeiling   = 1000.0 // annual %
)

// SolveYTM finds the annual yield (%) at which PriceBond(spec) equals price,
// using Newton-Raphson with an analytic derivative. spec.YieldToMaturity is
// ignored. The search is seeded with ApproximateYTM.
func SolveYTM(price float64, spec models.BondSpec) (models.YieldSolution, error) {
	spec.YieldToMaturity = 0
	n, err := validateSpec(spec)
	if err != nil {
		return models.YieldSolution{}, err
	}
	if !finite(price) || price <= 0 {
		return models.YieldSolution{}, invalid("price must be a positive number, got %g", price)
	}

	m := float64(spec.PaymentsPerYear)
	guess, err := ApproximateYTM(price, spec.FaceValue, spec.CouponRate, spec.YearsToMaturity)
	if err != nil {
		return models.YieldSolution{}, err
	}
	y := clamp(guess, solverFloor, solverCeiling) / 100 / m
	lo, hi := solverFloor/100/m, solverCeiling/100/m

	flows := schedule(spec, n)
	y, iterations, ok := newton(flows, price, solverTolerance*spec.FaceValue, y, lo, hi)
	if ok {
		return models.YieldSolution{Yield: y * m * 100, Iterations: iterations}, nil
	}

	// a stalled search is accepted within a looser tolerance
	pv, _ := priceAndDerivative(flows, y)
	if math.Abs(pv-price) < solverTolerance*spec.FaceValue*10 {
		return models.YieldSolution{Yield: y * m * 100, Iterations: iterations}, nil
	}
	return models.YieldSolution{}, fmt.Errorf("%w: price %g", ErrNoConvergence, price)
}

// newton steps the periodic yield y toward price and stops early once the
// present value is within tol or a step stalls. It returns the last yield,
// the number of steps taken and whether tol was met.
func newton(flows []models.CashFlow, price, tol, y, lo, hi float64) (float64, int, bool) {
	for iter := 1; iter <= solverMaxIter; iter++ {
		pv, dPdy := priceAndDerivative(flows, y)
		diff := pv - price
		if math.Abs(diff) < tol {
			return y, iter, true
		}
		if dPdy == 0 || !finite(pv, dPdy) {
			return y, iter, false
		}
		next := clamp(y-diff/dPdy, lo, hi)
		if math.Abs(next-y) < 1e-14 {
			return next, iter, false
		}
		y = next
	}
	return y, solverMaxIter, false
}

// priceAndDerivative returns Σ CF_t(1+y)^-t and its derivative in y.
func priceAndDerivative(flows []models.CashFlow, y float64) (float64, float64) {
	var pv, d float64
	for _, cf := range flows {
		t := float64(cf.Period)
		df := discount(y, cf.Period)
		pv += cf.Amount * df
		d -= t * cf.Amount * df / (1 + y)
	}
	return pv, d
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
