package models

import "time"

// PricePoint is one observation of a price history. A nil Close marks a
// missing quote.
type PricePoint struct {
	Timestamp time.Time `json:"timestamp"`
	Close     *float64  `json:"close"`
}

// Price returns a pointer to v, for building PricePoint values.
func Price(v float64) *float64 { return &v }

// Metric is a value that may be undefined, e.g. a correlation between a
// series and a constant one. Value is 0 whenever Defined is false.
type Metric struct {
	Value   float64 `json:"value"`
	Defined bool    `json:"defined"`
}

// DefinedMetric wraps a computed value.
func DefinedMetric(v float64) Metric { return Metric{Value: v, Defined: true} }

// UndefinedMetric is the neutral value for a degenerate computation.
func UndefinedMetric() Metric { return Metric{} }

// AssetStatistics summarises a return series.
type AssetStatistics struct {
	Mean             float64 `json:"mean"`
	Variance         float64 `json:"variance"` // population
	StdDev           float64 `json:"std_dev"`
	AnnualizedReturn float64 `json:"annualized_return"`
	AnnualizedRisk   float64 `json:"annualized_risk"`
	Observations     int     `json:"observations"`
}

// PortfolioComponent is one weighted asset fed into portfolio aggregation.
type PortfolioComponent struct {
	Asset      string          `json:"asset"`
	Weight     float64         `json:"weight"`
	Statistics AssetStatistics `json:"statistics"`
	Returns    []float64       `json:"returns"`
}

// PortfolioMetrics are annualised portfolio-level risk/return figures.
type PortfolioMetrics struct {
	ExpectedReturn float64 `json:"expected_return"`
	Variance       float64 `json:"variance"`
	Risk           float64 `json:"risk"`
	SharpeRatio    Metric  `json:"sharpe_ratio"`
	RiskFreeRate   float64 `json:"risk_free_rate"`
}

// AssetReport is the per-asset section of a PortfolioReport.
type AssetReport struct {
	Asset       string          `json:"asset"`
	Weight      float64         `json:"weight"`
	Statistics  AssetStatistics `json:"statistics"`
	MaxDrawdown float64         `json:"max_drawdown"` // fraction of peak
}

// PortfolioReport is the full analysis of a set of price histories.
type PortfolioReport struct {
	Assets      []AssetReport    `json:"assets"`
	Correlation [][]Metric       `json:"correlation"` // indexed like Assets
	Metrics     PortfolioMetrics `json:"metrics"`
	WeightSum   float64          `json:"weight_sum"`
}
