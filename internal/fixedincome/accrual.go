package fixedincome

import (
	"github.com/seenimoa/quantcore/pkg/models"
)

// AccruedInterest pro-rates one coupon by daysSince/daysInPeriod.
func AccruedInterest(faceValue, couponRate float64, paymentsPerYear, daysSince, daysInPeriod int) (models.Accrual, error) {
	if !finite(faceValue, couponRate) {
		return models.Accrual{}, invalid("inputs must be finite numbers")
	}
	if faceValue <= 0 {
		return models.Accrual{}, invalid("face value must be positive, got %g", faceValue)
	}
	if couponRate < 0 {
		return models.Accrual{}, invalid("coupon rate must not be negative, got %g", couponRate)
	}
	if paymentsPerYear <= 0 {
		return models.Accrual{}, invalid("payments per year must be positive, got %d", paymentsPerYear)
	}
	if err := validateDays(daysSince, daysInPeriod); err != nil {
		return models.Accrual{}, err
	}

	spec := models.BondSpec{FaceValue: faceValue, CouponRate: couponRate, PaymentsPerYear: paymentsPerYear}
	coupon := spec.PeriodicCoupon()
	fraction := float64(daysSince) / float64(daysInPeriod)

	return models.Accrual{
		AccruedInterest: coupon * fraction,
		PeriodicCoupon:  coupon,
		DaysRemaining:   daysInPeriod - daysSince,
		PercentOfCoupon: fraction * 100,
	}, nil
}

// CleanDirtyPrice splits the bond's present value into a quoted (clean) price
// and accrued interest.
//
// The dirty price is PriceBond's value at the current valuation point; it is
// not rolled forward to the settlement day. Clean = dirty − accrued.
func CleanDirtyPrice(spec models.BondSpec, daysSince, daysInPeriod int) (models.CleanDirty, error) {
	if err := validateDays(daysSince, daysInPeriod); err != nil {
		return models.CleanDirty{}, err
	}
	val, err := PriceBond(spec)
	if err != nil {
		return models.CleanDirty{}, err
	}
	return SplitDirtyPrice(val.Price, spec.PeriodicCoupon(), daysSince, daysInPeriod), nil
}

// SplitDirtyPrice divides dirty into clean price and accrued interest for
// daysSince days into a period of daysInPeriod days. It performs no
// validation; daysSince may be 0.
//
// Accrued interest is taken back from the rounded clean price, so
// CleanPrice + AccruedInterest reproduces DirtyPrice exactly whenever the
// accrual is at most half the dirty price.
func SplitDirtyPrice(dirty, periodicCoupon float64, daysSince, daysInPeriod int) models.CleanDirty {
	accrued := periodicCoupon * (float64(daysSince) / float64(daysInPeriod))
	clean := dirty - accrued
	return models.CleanDirty{
		CleanPrice:      clean,
		DirtyPrice:      dirty,
		AccruedInterest: dirty - clean,
	}
}
