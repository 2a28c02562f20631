// Package curves builds ordered data series for charting by sweeping the
// fixed-income engine across a parameter range.
package curves

import (
	"fmt"
	"math"

	"github.com/seenimoa/quantcore/internal/fixedincome"
	"github.com/seenimoa/quantcore/pkg/models"
)

// MaxCurvePoints bounds the length of a yield sweep.
const MaxCurvePoints = 2000

// MaxDaysInPeriod bounds the coupon period sampled by CleanDirtyTimeline.
const MaxDaysInPeriod = 366

// AccrualSamples is the approximate number of points sampled across a
// coupon period.
const AccrualSamples = 20

// PriceYield prices spec at every yield from yieldStart to yieldEnd
// (inclusive, annual %) in increments of step.
func PriceYield(spec models.BondSpec, yieldStart, yieldEnd, step float64) ([]models.PriceYieldPoint, error) {
	return PriceYieldWithLimit(spec, yieldStart, yieldEnd, step, MaxCurvePoints)
}

// PriceYieldWithLimit is PriceYield with a tighter cap on the number of
// points. A maxPoints outside 1..MaxCurvePoints means MaxCurvePoints.
func PriceYieldWithLimit(spec models.BondSpec, yieldStart, yieldEnd, step float64, maxPoints int) ([]models.PriceYieldPoint, error) {
	n, err := SweepLength(yieldStart, yieldEnd, step, maxPoints)
	if err != nil {
		return nil, err
	}
	if _, err := fixedincome.ValidateSpec(spec.WithYield(yieldStart)); err != nil {
		return nil, err
	}

	points := make([]models.PriceYieldPoint, 0, n)
	for i := 0; i < n; i++ {
		y := yieldStart + float64(i)*step
		val, err := fixedincome.PriceBond(spec.WithYield(y))
		if err != nil {
			return nil, fmt.Errorf("price at yield %g: %w", y, err)
		}
		points = append(points, models.PriceYieldPoint{
			Yield:          y,
			Price:          val.Price,
			PremiumPercent: val.PremiumPercent,
		})
	}
	return points, nil
}

// SweepLength returns the number of yields sampled from start to end by step,
// or ErrInvalidInput when the sweep is malformed or reaches maxPoints.
func SweepLength(start, end, step float64, maxPoints int) (int, error) {
	if maxPoints <= 0 || maxPoints > MaxCurvePoints {
		maxPoints = MaxCurvePoints
	}
	for _, v := range []float64{start, end, step} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("%w: sweep bounds must be finite", fixedincome.ErrInvalidInput)
		}
	}
	if step <= 0 {
		return 0, fmt.Errorf("%w: step must be positive, got %g", fixedincome.ErrInvalidInput, step)
	}
	if end < start {
		return 0, fmt.Errorf("%w: yield end %g is below start %g", fixedincome.ErrInvalidInput, end, start)
	}
	// tolerate float noise so that 2..8 by 0.1 includes 8
	span := (end-start)/step + 1e-9
	if span >= float64(maxPoints) {
		return 0, fmt.Errorf("%w: sweep exceeds %d points", fixedincome.ErrInvalidInput, maxPoints)
	}
	return int(math.Floor(span)) + 1, nil
}

// CashFlowTimeline lists every scheduled payment with its time in years and
// its split into coupon and principal. Only the final entry carries principal.
func CashFlowTimeline(spec models.BondSpec) ([]models.CashFlowPoint, error) {
	flows, err := fixedincome.CashFlows(spec)
	if err != nil {
		return nil, err
	}

	coupon := spec.PeriodicCoupon()
	m := float64(spec.PaymentsPerYear)
	points := make([]models.CashFlowPoint, len(flows))
	for i, cf := range flows {
		principal := 0.0
		if i == len(flows)-1 {
			principal = spec.FaceValue
		}
		points[i] = models.CashFlowPoint{
			Period:    cf.Period,
			Year:      float64(cf.Period) / m,
			CashFlow:  cf.Amount,
			Coupon:    coupon,
			Principal: principal,
		}
	}
	return points, nil
}

// CleanDirtyTimeline samples accrued interest, clean and dirty price across one
// coupon period, every floor(daysInPeriod/20) days starting at day 0. Periods
// shorter than 20 days are sampled daily. The last day of the period is always
// included. daysInPeriod must be in 1..MaxDaysInPeriod.
func CleanDirtyTimeline(spec models.BondSpec, daysInPeriod int) ([]models.AccrualPoint, error) {
	if daysInPeriod <= 0 || daysInPeriod > MaxDaysInPeriod {
		return nil, fmt.Errorf("%w: days in period must be in 1..%d, got %d",
			fixedincome.ErrInvalidInput, MaxDaysInPeriod, daysInPeriod)
	}
	val, err := fixedincome.PriceBond(spec)
	if err != nil {
		return nil, err
	}

	step := max(daysInPeriod/AccrualSamples, 1)
	coupon := spec.PeriodicCoupon()

	samples := daysInPeriod/step + 1
	points := make([]models.AccrualPoint, 0, samples+1)
	sample := func(day int) {
		cd := fixedincome.SplitDirtyPrice(val.Price, coupon, day, daysInPeriod)
		points = append(points, models.AccrualPoint{
			Day:             day,
			AccruedInterest: cd.AccruedInterest,
			CleanPrice:      cd.CleanPrice,
			DirtyPrice:      cd.DirtyPrice,
		})
	}

	for i := 0; i < samples; i++ {
		sample(i * step)
	}
	if (samples-1)*step != daysInPeriod {
		sample(daysInPeriod)
	}
	return points, nil
}
