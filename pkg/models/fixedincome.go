package models

// --- Fixed Income / Bond terms ---

// BondSpec describes a plain fixed-coupon bond.
// Rates are annual percentages (6 means 6%).
type BondSpec struct {
	FaceValue       float64 `json:"face_value"`
	CouponRate      float64 `json:"coupon_rate"`       // annual %, >= 0
	PaymentsPerYear int     `json:"payments_per_year"` // 1, 2, 4, 12
	YearsToMaturity float64 `json:"years_to_maturity"`
	YieldToMaturity float64 `json:"yield_to_maturity"` // annual %, > -100
}

// PeriodicCoupon returns the coupon paid each period.
func (b BondSpec) PeriodicCoupon() float64 {
	if b.PaymentsPerYear <= 0 {
		return 0
	}
	return b.FaceValue * b.CouponRate / 100 / float64(b.PaymentsPerYear)
}

// PeriodicYield returns the yield per coupon period as a decimal.
func (b BondSpec) PeriodicYield() float64 {
	if b.PaymentsPerYear <= 0 {
		return 0
	}
	return b.YieldToMaturity / 100 / float64(b.PaymentsPerYear)
}

// TotalPeriods returns YearsToMaturity × PaymentsPerYear. The value may be
// fractional; the valuation engine decides whether it is acceptable.
func (b BondSpec) TotalPeriods() float64 {
	return b.YearsToMaturity * float64(b.PaymentsPerYear)
}

// WithYield returns a copy of the spec priced at a different yield.
func (b BondSpec) WithYield(ytm float64) BondSpec {
	b.YieldToMaturity = ytm
	return b
}

// CashFlow is one entry of a bond's cash-flow schedule.
type CashFlow struct {
	Period int     `json:"period"` // 1..n
	Amount float64 `json:"amount"`
}

// --- Fixed Income / Valuation results ---

// BondValuation is the result of discounting a bond's cash flows.
type BondValuation struct {
	Price          float64 `json:"price"`
	PVCoupons      float64 `json:"pv_coupons"`
	PVFaceValue    float64 `json:"pv_face_value"`
	Premium        float64 `json:"premium"`         // price - face value
	PremiumPercent float64 `json:"premium_percent"` // premium / face value × 100
}

// DurationConvexity holds first- and second-order yield sensitivities.
type DurationConvexity struct {
	MacaulayDuration float64 `json:"macaulay_duration"` // years
	ModifiedDuration float64 `json:"modified_duration"`
	Convexity        float64 `json:"convexity"`
	BondPrice        float64 `json:"bond_price"`
}

// PriceChange is a second-order Taylor estimate of a price move.
type PriceChange struct {
	DurationEffect  float64 `json:"duration_effect"`
	ConvexityEffect float64 `json:"convexity_effect"`
	TotalChange     float64 `json:"total_change"` // fractional change
	NewPrice        float64 `json:"new_price"`
}

// ZeroCoupon is the price of a zero-coupon bond.
type ZeroCoupon struct {
	Price    float64 `json:"price"`
	Discount float64 `json:"discount"`
}

// CleanDirty splits a settlement price into quoted price and accrual.
type CleanDirty struct {
	CleanPrice      float64 `json:"clean_price"`
	DirtyPrice      float64 `json:"dirty_price"`
	AccruedInterest float64 `json:"accrued_interest"`
}

// Accrual describes the coupon earned since the last payment date.
type Accrual struct {
	AccruedInterest float64 `json:"accrued_interest"`
	PeriodicCoupon  float64 `json:"periodic_coupon"`
	DaysRemaining   int     `json:"days_remaining"`
	PercentOfCoupon float64 `json:"percent_of_coupon"`
}

// YieldSolution is the output of the iterative yield solver.
type YieldSolution struct {
	Yield      float64 `json:"yield"` // annual %
	Iterations int     `json:"iterations"`
}
