package api

import (
	"github.com/seenimoa/quantcore/pkg/models"
)

// ── Bond requests ──

// BondRequest describes a fixed-rate bond. Rates are annual percentages.
type BondRequest struct {
	FaceValue       float64 `json:"face_value"        validate:"gt=0"`
	CouponRate      float64 `json:"coupon_rate"       validate:"gte=0"`
	PaymentsPerYear int     `json:"payments_per_year" validate:"gt=0,lte=365"`
	YearsToMaturity float64 `json:"years_to_maturity" validate:"gt=0"`
	YieldToMaturity float64 `json:"yield_to_maturity" validate:"gt=-100"`
}

// Spec converts the request to the engine's bond description.
func (b BondRequest) Spec() models.BondSpec {
	return models.BondSpec{
		FaceValue:       b.FaceValue,
		CouponRate:      b.CouponRate,
		PaymentsPerYear: b.PaymentsPerYear,
		YearsToMaturity: b.YearsToMaturity,
		YieldToMaturity: b.YieldToMaturity,
	}
}

// ApproxYTMRequest is the body for POST /api/v1/bond/ytm/approx.
type ApproxYTMRequest struct {
	Price           float64 `json:"price"             validate:"gt=0"`
	FaceValue       float64 `json:"face_value"        validate:"gt=0"`
	CouponRate      float64 `json:"coupon_rate"       validate:"gte=0"`
	YearsToMaturity float64 `json:"years_to_maturity" validate:"gt=0"`
}

// SolveYTMRequest is the body for POST /api/v1/bond/ytm/solve. The bond's
// yield_to_maturity is ignored.
type SolveYTMRequest struct {
	Price float64     `json:"price" validate:"gt=0"`
	Bond  BondRequest `json:"bond"`
}

// PriceChangeRequest is the body for POST /api/v1/bond/price-change.
type PriceChangeRequest struct {
	Price            float64 `json:"price"             validate:"gt=0"`
	ModifiedDuration float64 `json:"modified_duration" validate:"gte=0"`
	Convexity        float64 `json:"convexity"         validate:"gte=0"`
	YieldFrom        float64 `json:"yield_from"`
	YieldTo          float64 `json:"yield_to"`
}

// ZeroCouponRequest is the body for POST /api/v1/bond/zero-coupon.
type ZeroCouponRequest struct {
	FaceValue       float64 `json:"face_value"        validate:"gt=0"`
	YieldToMaturity float64 `json:"yield_to_maturity" validate:"gt=-100"`
	YearsToMaturity float64 `json:"years_to_maturity" validate:"gt=0"`
}

// CleanDirtyRequest is the body for POST /api/v1/bond/clean-dirty.
type CleanDirtyRequest struct {
	Bond                BondRequest `json:"bond"`
	DaysSinceLastCoupon int         `json:"days_since_last_coupon" validate:"gt=0,ltefield=DaysInPeriod"`
	DaysInPeriod        int         `json:"days_in_period"         validate:"gt=0"`
}

// AccruedRequest is the body for POST /api/v1/bond/accrued.
type AccruedRequest struct {
	FaceValue           float64 `json:"face_value"             validate:"gt=0"`
	CouponRate          float64 `json:"coupon_rate"            validate:"gte=0"`
	PaymentsPerYear     int     `json:"payments_per_year"      validate:"gt=0,lte=365"`
	DaysSinceLastCoupon int     `json:"days_since_last_coupon" validate:"gt=0,ltefield=DaysInPeriod"`
	DaysInPeriod        int     `json:"days_in_period"         validate:"gt=0"`
}

// ── Portfolio requests ──

// ReturnsRequest is the body for POST /api/v1/portfolio/returns.
type ReturnsRequest struct {
	Prices []models.PricePoint `json:"prices" validate:"required"`
}

// StatisticsRequest is the body for POST /api/v1/portfolio/statistics.
type StatisticsRequest struct {
	Returns []float64 `json:"returns" validate:"required"`
}

// CovarianceRequest is the body for POST /api/v1/portfolio/covariance.
type CovarianceRequest struct {
	ReturnsA []float64 `json:"returns_a" validate:"required"`
	ReturnsB []float64 `json:"returns_b" validate:"required"`
}

// ComponentRequest is one weighted asset with its return series.
type ComponentRequest struct {
	Asset   string    `json:"asset"`
	Weight  float64   `json:"weight"`
	Returns []float64 `json:"returns" validate:"required"`
}

// MetricsRequest is the body for POST /api/v1/portfolio/metrics.
// RiskFreeRate defaults to the configured rate when omitted.
type MetricsRequest struct {
	Components   []ComponentRequest `json:"components"     validate:"required,min=1,dive"`
	RiskFreeRate *float64           `json:"risk_free_rate"`
}

// AnalyzeRequest is the body for POST /api/v1/portfolio/analyze.
type AnalyzeRequest struct {
	Histories    map[string][]models.PricePoint `json:"histories"      validate:"required"`
	Weights      map[string]float64             `json:"weights"        validate:"required,min=1"`
	RiskFreeRate *float64                       `json:"risk_free_rate"`
}

// ── Curve requests ──

// PriceYieldRequest is the body for POST /api/v1/curves/price-yield.
type PriceYieldRequest struct {
	Bond       BondRequest `json:"bond"`
	YieldStart float64     `json:"yield_start" validate:"gt=-100"`
	YieldEnd   float64     `json:"yield_end"   validate:"gtefield=YieldStart"`
	Step       float64     `json:"step"        validate:"gt=0"`
}

// CleanDirtyCurveRequest is the body for POST /api/v1/curves/clean-dirty.
// DaysInPeriod defaults to the configured value when zero.
type CleanDirtyCurveRequest struct {
	Bond         BondRequest `json:"bond"`
	DaysInPeriod int         `json:"days_in_period" validate:"gte=0,lte=366"`
}
