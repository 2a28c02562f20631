package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/seenimoa/quantcore/internal/metrics"
	"github.com/seenimoa/quantcore/internal/portfolio"
	"github.com/seenimoa/quantcore/pkg/models"
)

// ReturnsResponse is the payload of POST /api/v1/portfolio/returns.
type ReturnsResponse struct {
	Returns []float64 `json:"returns"`
	Dropped int       `json:"dropped"`
}

// CovarianceResponse is the payload of POST /api/v1/portfolio/covariance.
type CovarianceResponse struct {
	Covariance  float64       `json:"covariance"`
	Correlation models.Metric `json:"correlation"`
	Aligned     int           `json:"aligned"`
}

// PortfolioMetricsResponse is the payload of POST /api/v1/portfolio/metrics.
type PortfolioMetricsResponse struct {
	Components []ComponentSummary      `json:"components"`
	Metrics    models.PortfolioMetrics `json:"metrics"`
}

// ComponentSummary reports the statistics derived for one input component.
type ComponentSummary struct {
	Asset      string                 `json:"asset,omitempty"`
	Weight     float64                `json:"weight"`
	Statistics models.AssetStatistics `json:"statistics"`
}

func (s *Server) handleReturns(w http.ResponseWriter, r *http.Request) {
	var req ReturnsRequest
	if !s.decode(w, r, &req) {
		return
	}
	returns := portfolio.ComputeReturns(req.Prices)
	dropped := 0
	if len(req.Prices) > 1 {
		dropped = len(req.Prices) - 1 - len(returns)
	}
	s.succeed(w, r, CalculationEvent{Kind: KindReturns, Points: len(returns)},
		ReturnsResponse{Returns: returns, Dropped: dropped})
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	var req StatisticsRequest
	if !s.decode(w, r, &req) {
		return
	}
	st, err := portfolio.Statistics(req.Returns)
	if err != nil {
		s.fail(w, r, KindStatistics, err)
		return
	}
	s.succeed(w, r, CalculationEvent{Kind: KindStatistics, Value: st.AnnualizedRisk}, st)
}

func (s *Server) handleCovariance(w http.ResponseWriter, r *http.Request) {
	var req CovarianceRequest
	if !s.decode(w, r, &req) {
		return
	}
	cov, err := portfolio.Covariance(req.ReturnsA, req.ReturnsB)
	if err != nil {
		s.fail(w, r, KindCovariance, err)
		return
	}
	rho, err := portfolio.Correlation(req.ReturnsA, req.ReturnsB)
	if err != nil {
		s.fail(w, r, KindCovariance, err)
		return
	}
	resp := CovarianceResponse{
		Covariance:  cov,
		Correlation: rho,
		Aligned:     min(len(req.ReturnsA), len(req.ReturnsB)),
	}
	s.succeed(w, r, CalculationEvent{Kind: KindCovariance, Value: resp.Correlation.Value}, resp)
}

func (s *Server) handlePortfolioMetrics(w http.ResponseWriter, r *http.Request) {
	var req MetricsRequest
	if !s.decode(w, r, &req) {
		return
	}

	components := make([]models.PortfolioComponent, len(req.Components))
	summaries := make([]ComponentSummary, len(req.Components))
	for i, c := range req.Components {
		st, err := portfolio.Statistics(c.Returns)
		if err != nil {
			s.fail(w, r, KindPortfolio, fmt.Errorf("component %d: %w", i, err))
			return
		}
		components[i] = models.PortfolioComponent{
			Asset:      c.Asset,
			Weight:     c.Weight,
			Statistics: st,
			Returns:    c.Returns,
		}
		summaries[i] = ComponentSummary{Asset: c.Asset, Weight: c.Weight, Statistics: st}
	}

	m, err := portfolio.MetricsWithRate(components, s.riskFreeRate(req.RiskFreeRate))
	if err != nil {
		s.fail(w, r, KindPortfolio, err)
		return
	}
	s.succeed(w, r, CalculationEvent{Kind: KindPortfolio, Value: m.Risk},
		PortfolioMetricsResponse{Components: summaries, Metrics: m})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if !s.decode(w, r, &req) {
		return
	}
	report, err := portfolio.Analyze(req.Histories, req.Weights, s.riskFreeRate(req.RiskFreeRate))
	if err != nil {
		if errors.Is(err, portfolio.ErrNoAssets) || errors.Is(err, portfolio.ErrUnknownAsset) {
			metrics.RecordCalculation(KindAnalyze, metrics.OutcomeInvalid)
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.fail(w, r, KindAnalyze, err)
		return
	}
	s.succeed(w, r, CalculationEvent{Kind: KindAnalyze, Value: report.Metrics.Risk}, report)
}

// riskFreeRate returns the request override or the configured rate.
func (s *Server) riskFreeRate(override *float64) float64 {
	if override != nil {
		return *override
	}
	return s.cfg.Valuation.RiskFreeRate
}
