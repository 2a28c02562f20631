package fixedincome

import (
	"errors"
	"fmt"
	"math"

	"github.com/seenimoa/quantcore/pkg/models"
)

// --- Sentinel errors ---

// ErrInvalidInput is returned when bond terms or day counts are out of range.
// It is raised before any computation takes place.
var ErrInvalidInput = errors.New("invalid input")

// ErrTooManyPeriods is returned when a schedule would exceed MaxTotalPeriods.
var ErrTooManyPeriods = fmt.Errorf("%w: too many coupon periods", ErrInvalidInput)

// ErrOverflow is returned when extreme compounding produces a non-finite result.
var ErrOverflow = errors.New("numeric overflow")

// ErrNoConvergence is returned when the yield solver cannot match the price.
var ErrNoConvergence = errors.New("yield solver did not converge")

// MaxTotalPeriods bounds the number of coupon periods in a schedule
// (1000 years of monthly coupons).
const MaxTotalPeriods = 12000

// periodTolerance is how far YearsToMaturity × PaymentsPerYear may sit from
// an integer and still be treated as whole.
const periodTolerance = 1e-9

// invalid builds an ErrInvalidInput with context.
func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// finite reports whether every value is a real number.
func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// validateSpec checks bond terms and returns the whole number of coupon periods.
// Fractional period counts (e.g. 2.5 years semi-annual = 5 is fine, 2.3 years is
// not) are rejected rather than rounded.
func validateSpec(spec models.BondSpec) (int, error) {
	if !finite(spec.FaceValue, spec.CouponRate, spec.YearsToMaturity, spec.YieldToMaturity) {
		return 0, invalid("bond terms must be finite numbers")
	}
	if spec.FaceValue <= 0 {
		return 0, invalid("face value must be positive, got %g", spec.FaceValue)
	}
	if spec.CouponRate < 0 {
		return 0, invalid("coupon rate must not be negative, got %g", spec.CouponRate)
	}
	if spec.PaymentsPerYear <= 0 {
		return 0, invalid("payments per year must be positive, got %d", spec.PaymentsPerYear)
	}
	if spec.YearsToMaturity <= 0 {
		return 0, invalid("years to maturity must be positive, got %g", spec.YearsToMaturity)
	}
	if err := validateYield(spec.YieldToMaturity); err != nil {
		return 0, err
	}
	return wholePeriods(spec.TotalPeriods())
}

// validateYield rejects yields at or below -100%, where discounting breaks down.
func validateYield(ytm float64) error {
	if !finite(ytm) {
		return invalid("yield must be a finite number")
	}
	if ytm <= -100 {
		return invalid("yield must be greater than -100%%, got %g", ytm)
	}
	return nil
}

func wholePeriods(total float64) (int, error) {
	rounded := math.Round(total)
	if math.Abs(total-rounded) > periodTolerance {
		return 0, invalid("years × payments per year must be a whole number of periods, got %g", total)
	}
	if rounded < 1 {
		return 0, invalid("bond must have at least one coupon period")
	}
	if rounded > MaxTotalPeriods {
		return 0, fmt.Errorf("%w: %g > %d", ErrTooManyPeriods, rounded, MaxTotalPeriods)
	}
	return int(rounded), nil
}

// validateDays checks 0 < daysSince <= daysInPeriod.
func validateDays(daysSince, daysInPeriod int) error {
	if daysInPeriod <= 0 {
		return invalid("days in period must be positive, got %d", daysInPeriod)
	}
	if daysSince <= 0 || daysSince > daysInPeriod {
		return invalid("days since last coupon must be in (0, %d], got %d", daysInPeriod, daysSince)
	}
	return nil
}

// checkFinite converts a non-finite result into ErrOverflow.
func checkFinite(what string, vals ...float64) error {
	if !finite(vals...) {
		return fmt.Errorf("%w: %s is not finite", ErrOverflow, what)
	}
	return nil
}

// ValidateSpec reports whether spec can be valued, returning the number of
// coupon periods. Callers that sweep many yields use it to fail early.
func ValidateSpec(spec models.BondSpec) (int, error) {
	return validateSpec(spec)
}
