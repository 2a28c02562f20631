package portfolio

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seenimoa/quantcore/pkg/models"
)

// series builds a daily price history; nil entries are missing quotes.
func series(prices ...*float64) []models.PricePoint {
	base := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	points := make([]models.PricePoint, len(prices))
	for i, p := range prices {
		points[i] = models.PricePoint{Timestamp: base.AddDate(0, 0, i), Close: p}
	}
	return points
}

var p = models.Price

// alternating returns ±s, so the population std dev is exactly s.
func alternating(n int, s float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		if i%2 == 0 {
			out[i] = s
		} else {
			out[i] = -s
		}
	}
	return out
}

func negate(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = -x
	}
	return out
}

// ── ComputeReturns ──

func TestComputeReturns(t *testing.T) {
	r := ComputeReturns(series(p(100), p(110), p(99)))
	require.Len(t, r, 2)
	assert.InDelta(t, 0.10, r[0], 1e-12)
	assert.InDelta(t, -0.10, r[1], 1e-12)
}

func TestComputeReturnsDropsInvalidEntries(t *testing.T) {
	r := ComputeReturns(series(p(100), nil, p(110), p(0), p(5), p(10)))
	// (100,nil) (nil,110) dropped; (110,0) = -1; (0,5) dropped; (5,10) = 1
	require.Len(t, r, 2)
	assert.InDelta(t, -1.0, r[0], 1e-12)
	assert.InDelta(t, 1.0, r[1], 1e-12)
}

func TestComputeReturnsShortSeries(t *testing.T) {
	assert.Empty(t, ComputeReturns(nil))
	assert.Empty(t, ComputeReturns(series(p(100))))
	assert.Empty(t, ComputeReturns(series(nil, nil, nil)))
}

func TestComputeReturnsDropsOverflowingReturn(t *testing.T) {
	r := ComputeReturns(series(p(1e-300), p(1e300), p(2e300)))
	// the first return is +Inf and is omitted
	require.Len(t, r, 1)
	assert.InDelta(t, 1.0, r[0], 1e-12)
}

func TestMaxDrawdown(t *testing.T) {
	assert.InDelta(t, 0.5, MaxDrawdown([]float64{100, 120, 90, 130, 65}), 1e-12)
	assert.Zero(t, MaxDrawdown([]float64{1, 2, 3}))
	assert.Zero(t, MaxDrawdown(nil))
}

// ── Statistics ──

// stats is Statistics for series known to be representable.
func stats(t *testing.T, returns []float64) models.AssetStatistics {
	t.Helper()
	st, err := Statistics(returns)
	require.NoError(t, err)
	return st
}

func TestStatisticsPopulationMoments(t *testing.T) {
	st := stats(t, []float64{0.01, 0.03, -0.02, 0.02})
	assert.InDelta(t, 0.01, st.Mean, 1e-12)
	// deviations 0, .02, -.03, .01 → squares sum .0014, /4
	assert.InDelta(t, 0.00035, st.Variance, 1e-15)
	assert.InDelta(t, math.Sqrt(0.00035), st.StdDev, 1e-15)
	assert.InDelta(t, 0.01*252, st.AnnualizedReturn, 1e-12)
	assert.InDelta(t, math.Sqrt(0.00035)*math.Sqrt(252), st.AnnualizedRisk, 1e-12)
	assert.Equal(t, 4, st.Observations)
}

func TestStatisticsEmpty(t *testing.T) {
	assert.Equal(t, models.AssetStatistics{}, stats(t, nil))
}

func TestStatisticsOverflow(t *testing.T) {
	tests := []struct {
		name    string
		returns []float64
	}{
		{"variance overflows", []float64{1e308, -1e308}},
		{"mean overflows", []float64{1.5e308, 1.5e308}},
		{"annualised return overflows", []float64{1e307}},
		{"non-finite input", []float64{0.01, math.NaN()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, err := Statistics(tt.returns)
			assert.ErrorIs(t, err, ErrOverflow)
			assert.Equal(t, models.AssetStatistics{}, st)
		})
	}
}

// ── Covariance / Correlation ──

func TestCovarianceOfSelfIsVariance(t *testing.T) {
	x := []float64{0.01, -0.02, 0.015, 0.03, -0.01}
	cov, err := Covariance(x, x)
	require.NoError(t, err)
	assert.InDelta(t, stats(t, x).Variance, cov, 1e-15)
}

func TestCovarianceAlignsByPosition(t *testing.T) {
	a := []float64{1, 2, 3, 100}
	b := []float64{2, 4, 6}
	// only the first three positions are used
	want, err := Covariance(a[:3], b)
	require.NoError(t, err)
	got, err := Covariance(a, b)
	require.NoError(t, err)
	assert.InDelta(t, want, got, 1e-12)

	empty, err := Covariance(nil, b)
	require.NoError(t, err)
	assert.Zero(t, empty)
}

func TestCovarianceOverflow(t *testing.T) {
	_, err := Covariance([]float64{1e308, -1e308}, []float64{-1e308, 1e308})
	assert.ErrorIs(t, err, ErrOverflow)
}

// corr is Correlation for series known to be representable.
func corr(t *testing.T, a, b []float64) models.Metric {
	t.Helper()
	c, err := Correlation(a, b)
	require.NoError(t, err)
	return c
}

func TestCorrelationOfSelfIsOne(t *testing.T) {
	for _, x := range [][]float64{
		{0.01, -0.02, 0.015, 0.03, -0.01},
		alternating(8, 0.013),
		{5, 1, 4, 1, 5, 9, 2, 6},
	} {
		c := corr(t, x, x)
		assert.True(t, c.Defined)
		assert.InDelta(t, 1.0, c.Value, 1e-12)
	}
}

func TestCorrelationNegative(t *testing.T) {
	x := []float64{0.01, -0.02, 0.015, 0.03, -0.01}
	c := corr(t, x, negate(x))
	assert.True(t, c.Defined)
	assert.InDelta(t, -1.0, c.Value, 1e-12)
}

func TestCorrelationGuardsConstantSeries(t *testing.T) {
	c := corr(t, []float64{0.01, 0.02, 0.03}, []float64{0.5, 0.5, 0.5})
	assert.False(t, c.Defined)
	assert.Zero(t, c.Value)

	c = corr(t, nil, nil)
	assert.False(t, c.Defined)
}

func TestCorrelationMatrix(t *testing.T) {
	x := []float64{0.01, -0.02, 0.015, 0.03}
	flat := []float64{0, 0, 0, 0}
	m, err := CorrelationMatrix([][]float64{x, negate(x), flat})
	require.NoError(t, err)
	require.Len(t, m, 3)
	assert.InDelta(t, 1.0, m[0][0].Value, 1e-12)
	assert.InDelta(t, -1.0, m[0][1].Value, 1e-12)
	assert.Equal(t, m[0][1], m[1][0])
	assert.False(t, m[2][2].Defined)
	assert.False(t, m[0][2].Defined)

	_, err = CorrelationMatrix([][]float64{x, {1e308, -1e308}})
	assert.ErrorIs(t, err, ErrOverflow)
}

// ── Metrics ──

func component(t *testing.T, weight float64, returns []float64) models.PortfolioComponent {
	t.Helper()
	return models.PortfolioComponent{Weight: weight, Statistics: stats(t, returns), Returns: returns}
}

// metrics is Metrics for components known to be representable.
func metrics(t *testing.T, components ...models.PortfolioComponent) models.PortfolioMetrics {
	t.Helper()
	m, err := Metrics(components)
	require.NoError(t, err)
	return m
}

func TestMetricsSingleAssetReducesToAsset(t *testing.T) {
	r := []float64{0.01, -0.004, 0.007, 0.012, -0.009, 0.003}
	c := component(t, 1.0, r)
	m := metrics(t, c)

	assert.InDelta(t, c.Statistics.AnnualizedReturn, m.ExpectedReturn, 1e-12)
	assert.InDelta(t, c.Statistics.AnnualizedRisk, m.Risk, 1e-12)
	require.True(t, m.SharpeRatio.Defined)
	assert.InDelta(t, (m.ExpectedReturn-RiskFreeRate)/m.Risk, m.SharpeRatio.Value, 1e-12)
	assert.Equal(t, RiskFreeRate, m.RiskFreeRate)
}

func TestMetricsTwoAssetDiversification(t *testing.T) {
	s := 0.20 / math.Sqrt(TradingDaysPerYear)
	a := alternating(20, s)
	require.InDelta(t, 0.20, stats(t, a).AnnualizedRisk, 1e-12)

	tests := []struct {
		name string
		b    []float64
		risk float64
	}{
		{"perfectly correlated", a, 0.20},
		{"perfectly anti-correlated", negate(a), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := metrics(t, component(t, 0.5, a), component(t, 0.5, tt.b))
			assert.InDelta(t, tt.risk, m.Risk, 1e-9)
		})
	}
}

func TestMetricsZeroRiskSharpeUndefined(t *testing.T) {
	m := metrics(t, component(t, 1, []float64{0.25, 0.25, 0.25, 0.25}))
	assert.Zero(t, m.Risk)
	assert.False(t, m.SharpeRatio.Defined)
	assert.Zero(t, m.SharpeRatio.Value)
	assert.InDelta(t, 63.0, m.ExpectedReturn, 1e-12)
}

func TestMetricsWithRate(t *testing.T) {
	c := component(t, 1, []float64{0.01, -0.01, 0.02})
	m, err := MetricsWithRate([]models.PortfolioComponent{c}, 0.065)
	require.NoError(t, err)
	assert.Equal(t, 0.065, m.RiskFreeRate)
	assert.InDelta(t, (m.ExpectedReturn-0.065)/m.Risk, m.SharpeRatio.Value, 1e-12)
}

func TestMetricsEmpty(t *testing.T) {
	m := metrics(t)
	assert.Zero(t, m.ExpectedReturn)
	assert.Zero(t, m.Risk)
	assert.False(t, m.SharpeRatio.Defined)
}

func TestMetricsOverflow(t *testing.T) {
	big := []float64{1e200, -1e200}
	huge := models.PortfolioComponent{
		Weight:     1e150,
		Statistics: models.AssetStatistics{AnnualizedReturn: 1, Variance: 1e200},
		Returns:    big,
	}
	_, err := MetricsWithRate([]models.PortfolioComponent{huge, huge}, RiskFreeRate)
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestAnalyzeOverflow(t *testing.T) {
	histories := map[string][]models.PricePoint{
		// returns 1e200, -1, 1e200, -1: finite, but their variance is not
		"BIG": series(p(1e-100), p(1e100), p(1e-100), p(1e100), p(1e-100)),
	}
	_, err := Analyze(histories, map[string]float64{"BIG": 1}, RiskFreeRate)
	assert.ErrorIs(t, err, ErrOverflow)
}

// ── Analyze ──

func TestAnalyze(t *testing.T) {
	histories := map[string][]models.PricePoint{
		"BBB": series(p(50), p(51), p(49), p(52), p(53)),
		"AAA": series(p(100), p(102), nil, p(101), p(104)),
		"CCC": series(p(10), p(11)),
	}
	weights := map[string]float64{"AAA": 0.6, "BBB": 0.3}

	report, err := Analyze(histories, weights, RiskFreeRate)
	require.NoError(t, err)
	require.Len(t, report.Assets, 2)
	assert.Equal(t, "AAA", report.Assets[0].Asset)
	assert.Equal(t, "BBB", report.Assets[1].Asset)
	assert.InDelta(t, 0.9, report.WeightSum, 1e-12)
	assert.Equal(t, 2, report.Assets[0].Statistics.Observations)
	assert.Equal(t, 4, report.Assets[1].Statistics.Observations)
	require.Len(t, report.Correlation, 2)
	assert.True(t, report.Correlation[0][0].Defined)
	assert.Positive(t, report.Metrics.Risk)
	assert.InDelta(t, 1.0/102.0, report.Assets[0].MaxDrawdown, 1e-12)
	assert.InDelta(t, 2.0/51.0, report.Assets[1].MaxDrawdown, 1e-12)
}

func TestAnalyzeErrors(t *testing.T) {
	_, err := Analyze(nil, nil, RiskFreeRate)
	assert.ErrorIs(t, err, ErrNoAssets)

	_, err = Analyze(map[string][]models.PricePoint{}, map[string]float64{"XYZ": 1}, RiskFreeRate)
	assert.ErrorIs(t, err, ErrUnknownAsset)
}
