package api

import (
	"net/http"

	"github.com/seenimoa/quantcore/internal/fixedincome"
)

// Calculation kinds, used as metric labels and in WebSocket events.
const (
	KindBondPrice       = "bond_price"
	KindApproxYTM       = "ytm_approx"
	KindSolveYTM        = "ytm_solve"
	KindDuration        = "duration_convexity"
	KindPriceChange     = "price_change"
	KindZeroCoupon      = "zero_coupon"
	KindCleanDirty      = "clean_dirty"
	KindAccrued         = "accrued_interest"
	KindCashFlows       = "cash_flows"
	KindReturns         = "returns"
	KindStatistics      = "statistics"
	KindCovariance      = "covariance"
	KindPortfolio       = "portfolio_metrics"
	KindAnalyze         = "portfolio_analyze"
	KindPriceYieldCurve = "curve_price_yield"
	KindCashFlowCurve   = "curve_cash_flows"
	KindCleanDirtyCurve = "curve_clean_dirty"
)

// YTMResponse carries an approximate yield to maturity (annual %).
type YTMResponse struct {
	YieldToMaturity float64 `json:"yield_to_maturity"`
	Approximate     bool    `json:"approximate"`
}

func (s *Server) handleBondPrice(w http.ResponseWriter, r *http.Request) {
	var req BondRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.checkPeriods(req); err != nil {
		s.fail(w, r, KindBondPrice, err)
		return
	}
	val, err := fixedincome.PriceBond(req.Spec())
	if err != nil {
		s.fail(w, r, KindBondPrice, err)
		return
	}
	s.succeed(w, r, CalculationEvent{Kind: KindBondPrice, Value: val.Price}, val)
}

func (s *Server) handleApproxYTM(w http.ResponseWriter, r *http.Request) {
	var req ApproxYTMRequest
	if !s.decode(w, r, &req) {
		return
	}
	ytm, err := fixedincome.ApproximateYTM(req.Price, req.FaceValue, req.CouponRate, req.YearsToMaturity)
	if err != nil {
		s.fail(w, r, KindApproxYTM, err)
		return
	}
	s.succeed(w, r, CalculationEvent{Kind: KindApproxYTM, Value: ytm},
		YTMResponse{YieldToMaturity: ytm, Approximate: true})
}

func (s *Server) handleSolveYTM(w http.ResponseWriter, r *http.Request) {
	var req SolveYTMRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.checkPeriods(req.Bond); err != nil {
		s.fail(w, r, KindSolveYTM, err)
		return
	}
	sol, err := fixedincome.SolveYTM(req.Price, req.Bond.Spec())
	if err != nil {
		s.fail(w, r, KindSolveYTM, err)
		return
	}
	s.succeed(w, r, CalculationEvent{Kind: KindSolveYTM, Value: sol.Yield}, sol)
}

func (s *Server) handleDuration(w http.ResponseWriter, r *http.Request) {
	var req BondRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.checkPeriods(req); err != nil {
		s.fail(w, r, KindDuration, err)
		return
	}
	dc, err := fixedincome.DurationConvexity(req.Spec())
	if err != nil {
		s.fail(w, r, KindDuration, err)
		return
	}
	s.succeed(w, r, CalculationEvent{Kind: KindDuration, Value: dc.ModifiedDuration}, dc)
}

func (s *Server) handlePriceChange(w http.ResponseWriter, r *http.Request) {
	var req PriceChangeRequest
	if !s.decode(w, r, &req) {
		return
	}
	pc, err := fixedincome.PriceChangeEstimate(req.Price, req.ModifiedDuration, req.Convexity, req.YieldFrom, req.YieldTo)
	if err != nil {
		s.fail(w, r, KindPriceChange, err)
		return
	}
	s.succeed(w, r, CalculationEvent{Kind: KindPriceChange, Value: pc.NewPrice}, pc)
}

func (s *Server) handleZeroCoupon(w http.ResponseWriter, r *http.Request) {
	var req ZeroCouponRequest
	if !s.decode(w, r, &req) {
		return
	}
	zc, err := fixedincome.ZeroCouponPrice(req.FaceValue, req.YieldToMaturity, req.YearsToMaturity)
	if err != nil {
		s.fail(w, r, KindZeroCoupon, err)
		return
	}
	s.succeed(w, r, CalculationEvent{Kind: KindZeroCoupon, Value: zc.Price}, zc)
}

func (s *Server) handleCleanDirty(w http.ResponseWriter, r *http.Request) {
	var req CleanDirtyRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.checkPeriods(req.Bond); err != nil {
		s.fail(w, r, KindCleanDirty, err)
		return
	}
	cd, err := fixedincome.CleanDirtyPrice(req.Bond.Spec(), req.DaysSinceLastCoupon, req.DaysInPeriod)
	if err != nil {
		s.fail(w, r, KindCleanDirty, err)
		return
	}
	s.succeed(w, r, CalculationEvent{Kind: KindCleanDirty, Value: cd.CleanPrice}, cd)
}

func (s *Server) handleAccrued(w http.ResponseWriter, r *http.Request) {
	var req AccruedRequest
	if !s.decode(w, r, &req) {
		return
	}
	acc, err := fixedincome.AccruedInterest(req.FaceValue, req.CouponRate, req.PaymentsPerYear, req.DaysSinceLastCoupon, req.DaysInPeriod)
	if err != nil {
		s.fail(w, r, KindAccrued, err)
		return
	}
	s.succeed(w, r, CalculationEvent{Kind: KindAccrued, Value: acc.AccruedInterest}, acc)
}

func (s *Server) handleCashFlows(w http.ResponseWriter, r *http.Request) {
	var req BondRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.checkPeriods(req); err != nil {
		s.fail(w, r, KindCashFlows, err)
		return
	}
	flows, err := fixedincome.CashFlows(req.Spec())
	if err != nil {
		s.fail(w, r, KindCashFlows, err)
		return
	}
	s.succeed(w, r, CalculationEvent{Kind: KindCashFlows, Points: len(flows)}, flows)
}
