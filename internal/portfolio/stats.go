package portfolio

import (
	"fmt"
	"math"

	"github.com/seenimoa/quantcore/pkg/models"
)

// Statistics summarises a return series using population moments (divisor n,
// not n-1). An empty series yields all zeros. Returns so large that a moment
// is not representable give ErrOverflow.
func Statistics(returns []float64) (models.AssetStatistics, error) {
	n := len(returns)
	if n == 0 {
		return models.AssetStatistics{}, nil
	}

	m := mean(returns)
	variance := 0.0
	for _, r := range returns {
		d := r - m
		variance += d * d
	}
	variance /= float64(n)
	sd := math.Sqrt(variance)

	st := models.AssetStatistics{
		Mean:             m,
		Variance:         variance,
		StdDev:           sd,
		AnnualizedReturn: m * TradingDaysPerYear,
		AnnualizedRisk:   sd * math.Sqrt(TradingDaysPerYear),
		Observations:     n,
	}
	if err := checkFinite("return statistics", st.Mean, st.Variance, st.AnnualizedReturn, st.AnnualizedRisk); err != nil {
		return models.AssetStatistics{}, err
	}
	return st, nil
}

// Covariance aligns a and b by position, up to the shorter length, and
// returns the population covariance over the aligned window. Series with
// gaps on different dates are therefore only approximately aligned.
func Covariance(a, b []float64) (float64, error) {
	a, b = align(a, b)
	if len(a) == 0 {
		return 0, nil
	}
	ma, mb := mean(a), mean(b)
	sum := 0.0
	for i := range a {
		sum += (a[i] - ma) * (b[i] - mb)
	}
	cov := sum / float64(len(a))
	if err := checkFinite("covariance", cov); err != nil {
		return 0, err
	}
	return cov, nil
}

// Correlation is Covariance scaled by both standard deviations over the same
// aligned window. It is undefined when either series is constant or empty.
func Correlation(a, b []float64) (models.Metric, error) {
	a, b = align(a, b)
	sa, err := Statistics(a)
	if err != nil {
		return models.Metric{}, err
	}
	sb, err := Statistics(b)
	if err != nil {
		return models.Metric{}, err
	}
	if sa.StdDev == 0 || sb.StdDev == 0 {
		return models.UndefinedMetric(), nil
	}
	cov, err := Covariance(a, b)
	if err != nil {
		return models.Metric{}, err
	}
	rho := cov / (sa.StdDev * sb.StdDev)
	if err := checkFinite("correlation", rho); err != nil {
		return models.Metric{}, err
	}
	return models.DefinedMetric(math.Max(-1, math.Min(1, rho))), nil
}

// CorrelationMatrix returns the pairwise correlations of series, with a
// defined 1 on the diagonal for every non-constant series.
func CorrelationMatrix(series [][]float64) ([][]models.Metric, error) {
	n := len(series)
	matrix := make([][]models.Metric, n)
	for i := range matrix {
		matrix[i] = make([]models.Metric, n)
	}
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			c, err := Correlation(series[i], series[j])
			if err != nil {
				return nil, fmt.Errorf("series %d and %d: %w", i, j, err)
			}
			matrix[i][j] = c
			matrix[j][i] = c
		}
	}
	return matrix, nil
}

func align(a, b []float64) ([]float64, []float64) {
	n := min(len(a), len(b))
	return a[:n], b[:n]
}

func mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range data {
		sum += v
	}
	return sum / float64(len(data))
}

func checkFinite(what string, vals ...float64) error {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s is not finite", ErrOverflow, what)
		}
	}
	return nil
}
