package portfolio

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/seenimoa/quantcore/pkg/models"
)

// RiskFreeRate is the annual rate used for Sharpe ratios.
const RiskFreeRate = 0.04

// ErrNoAssets is returned by Analyze when no weights are given.
var ErrNoAssets = errors.New("portfolio has no assets")

// ErrUnknownAsset is returned by Analyze when a weighted asset has no prices.
var ErrUnknownAsset = errors.New("no price history for asset")

// ErrOverflow is returned when a statistic is not representable as a finite
// float64.
var ErrOverflow = errors.New("numeric overflow")

// Metrics aggregates weighted components into annualised portfolio metrics
// at the default RiskFreeRate.
func Metrics(components []models.PortfolioComponent) (models.PortfolioMetrics, error) {
	return MetricsWithRate(components, RiskFreeRate)
}

// MetricsWithRate aggregates weighted components:
//
//	E[R]  = Σ w_i · annualizedReturn_i
//	σ²    = Σ_i Σ_j w_i · w_j · Cov_ij · 252
//	Sharpe = (E[R] − rf) / σ
//
// Own variance sits on the diagonal; off-diagonal terms use Covariance.
// Weights are not required to sum to 1. Sharpe is undefined when σ is 0.
func MetricsWithRate(components []models.PortfolioComponent, riskFreeRate float64) (models.PortfolioMetrics, error) {
	var expected, variance float64
	for i, ci := range components {
		expected += ci.Weight * ci.Statistics.AnnualizedReturn
		variance += ci.Weight * ci.Weight * ci.Statistics.Variance * TradingDaysPerYear
		for j := i + 1; j < len(components); j++ {
			cj := components[j]
			cov, err := Covariance(ci.Returns, cj.Returns)
			if err != nil {
				return models.PortfolioMetrics{}, fmt.Errorf("%s/%s: %w", ci.Asset, cj.Asset, err)
			}
			variance += 2 * ci.Weight * cj.Weight * cov * TradingDaysPerYear
		}
	}
	if err := checkFinite("portfolio variance", expected, variance); err != nil {
		return models.PortfolioMetrics{}, err
	}

	// Perfectly offsetting positions can round to a tiny negative variance.
	if variance < 0 {
		variance = 0
	}
	risk := math.Sqrt(variance)

	sharpe := models.UndefinedMetric()
	if risk > 0 {
		sharpe = models.DefinedMetric((expected - riskFreeRate) / risk)
	}
	if err := checkFinite("sharpe ratio", sharpe.Value); err != nil {
		return models.PortfolioMetrics{}, err
	}

	return models.PortfolioMetrics{
		ExpectedReturn: expected,
		Variance:       variance,
		Risk:           risk,
		SharpeRatio:    sharpe,
		RiskFreeRate:   riskFreeRate,
	}, nil
}

// Component builds a PortfolioComponent from an asset's price history.
func Component(asset string, weight float64, prices []models.PricePoint) (models.PortfolioComponent, error) {
	returns := ComputeReturns(prices)
	st, err := Statistics(returns)
	if err != nil {
		return models.PortfolioComponent{}, fmt.Errorf("%s: %w", asset, err)
	}
	return models.PortfolioComponent{
		Asset:      asset,
		Weight:     weight,
		Statistics: st,
		Returns:    returns,
	}, nil
}

// Analyze runs the full pipeline for every weighted asset, in asset-name
// order: statistics, drawdown, correlation matrix and portfolio metrics.
func Analyze(histories map[string][]models.PricePoint, weights map[string]float64, riskFreeRate float64) (models.PortfolioReport, error) {
	if len(weights) == 0 {
		return models.PortfolioReport{}, ErrNoAssets
	}

	assets := make([]string, 0, len(weights))
	for asset := range weights {
		if _, ok := histories[asset]; !ok {
			return models.PortfolioReport{}, fmt.Errorf("%w: %s", ErrUnknownAsset, asset)
		}
		assets = append(assets, asset)
	}
	sort.Strings(assets)

	report := models.PortfolioReport{Assets: make([]models.AssetReport, len(assets))}
	components := make([]models.PortfolioComponent, len(assets))
	series := make([][]float64, len(assets))

	for i, asset := range assets {
		prices := histories[asset]
		c, err := Component(asset, weights[asset], prices)
		if err != nil {
			return models.PortfolioReport{}, err
		}
		components[i] = c
		series[i] = c.Returns
		report.WeightSum += c.Weight
		report.Assets[i] = models.AssetReport{
			Asset:       asset,
			Weight:      c.Weight,
			Statistics:  c.Statistics,
			MaxDrawdown: MaxDrawdown(Closes(prices)),
		}
	}

	var err error
	if report.Correlation, err = CorrelationMatrix(series); err != nil {
		return models.PortfolioReport{}, err
	}
	if report.Metrics, err = MetricsWithRate(components, riskFreeRate); err != nil {
		return models.PortfolioReport{}, err
	}
	return report, nil
}
