// Package fixedincome implements single-bond valuation arithmetic: price,
// yield, duration and convexity, accrued interest, and clean/dirty prices.
//
// Every function is pure. Rates are annual percentages on input and output
// (6 means 6%); periodic rates are decimals internally.
package fixedincome

import (
	"math"

	"github.com/seenimoa/quantcore/pkg/models"
)

// CashFlows returns the bond's schedule: the periodic coupon for periods
// 1..n-1 and coupon plus face value at period n.
func CashFlows(spec models.BondSpec) ([]models.CashFlow, error) {
	n, err := validateSpec(spec)
	if err != nil {
		return nil, err
	}
	return schedule(spec, n), nil
}

func schedule(spec models.BondSpec, n int) []models.CashFlow {
	coupon := spec.PeriodicCoupon()
	flows := make([]models.CashFlow, n)
	for t := 1; t <= n; t++ {
		flows[t-1] = models.CashFlow{Period: t, Amount: coupon}
	}
	flows[n-1].Amount += spec.FaceValue
	return flows
}

// discount returns 1/(1+y)^t.
func discount(y float64, t int) float64 {
	return math.Pow(1+y, -float64(t))
}

// PriceBond discounts every scheduled cash flow at the periodic yield.
// A zero coupon rate degenerates to a zero-coupon bond through the same loop.
func PriceBond(spec models.BondSpec) (models.BondValuation, error) {
	n, err := validateSpec(spec)
	if err != nil {
		return models.BondValuation{}, err
	}

	y := spec.PeriodicYield()
	coupon := spec.PeriodicCoupon()

	var pvCoupons float64
	for t := 1; t <= n; t++ {
		pvCoupons += coupon * discount(y, t)
	}
	pvFace := spec.FaceValue * discount(y, n)
	price := pvCoupons + pvFace

	if err := checkFinite("bond price", price, pvCoupons, pvFace); err != nil {
		return models.BondValuation{}, err
	}

	premium := price - spec.FaceValue
	return models.BondValuation{
		Price:          price,
		PVCoupons:      pvCoupons,
		PVFaceValue:    pvFace,
		Premium:        premium,
		PremiumPercent: premium / spec.FaceValue * 100,
	}, nil
}

// ApproximateYTM estimates yield to maturity (annual %) with the closed-form
//
//	ytm ≈ [C + (FV − P)/years] / [(FV + P)/2]
//
// where C is the annual coupon. It does not iterate; accuracy degrades for
// bonds priced far from par or close to maturity. Use SolveYTM for an exact
// yield.
func ApproximateYTM(price, faceValue, couponRate, years float64) (float64, error) {
	if !finite(price, faceValue, couponRate, years) {
		return 0, invalid("inputs must be finite numbers")
	}
	if price <= 0 {
		return 0, invalid("price must be positive, got %g", price)
	}
	if faceValue <= 0 {
		return 0, invalid("face value must be positive, got %g", faceValue)
	}
	if couponRate < 0 {
		return 0, invalid("coupon rate must not be negative, got %g", couponRate)
	}
	if years <= 0 {
		return 0, invalid("years to maturity must be positive, got %g", years)
	}

	annualCoupon := faceValue * couponRate / 100
	ytm := (annualCoupon + (faceValue-price)/years) / ((faceValue + price) / 2)
	return ytm * 100, nil
}

// ZeroCouponPrice prices a bond with a single payment of faceValue after
// years, compounded annually at ytm (annual %).
func ZeroCouponPrice(faceValue, ytm, years float64) (models.ZeroCoupon, error) {
	if !finite(faceValue, years) {
		return models.ZeroCoupon{}, invalid("inputs must be finite numbers")
	}
	if faceValue <= 0 {
		return models.ZeroCoupon{}, invalid("face value must be positive, got %g", faceValue)
	}
	if years <= 0 {
		return models.ZeroCoupon{}, invalid("years to maturity must be positive, got %g", years)
	}
	if err := validateYield(ytm); err != nil {
		return models.ZeroCoupon{}, err
	}

	price := faceValue / math.Pow(1+ytm/100, years)
	if err := checkFinite("zero-coupon price", price); err != nil {
		return models.ZeroCoupon{}, err
	}
	return models.ZeroCoupon{Price: price, Discount: faceValue - price}, nil
}
