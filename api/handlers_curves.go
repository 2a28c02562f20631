package api

import (
	"net/http"

	"github.com/seenimoa/quantcore/internal/curves"
	"github.com/seenimoa/quantcore/internal/metrics"
	"github.com/seenimoa/quantcore/pkg/models"
)

// CurveResponse wraps a generated series.
type CurveResponse[T any] struct {
	Points []T  `json:"points"`
	Count  int  `json:"count"`
	Cached bool `json:"cached"`
}

// serveCurve answers from the response cache when possible, otherwise runs
// build and caches its result.
func serveCurve[T any](s *Server, w http.ResponseWriter, r *http.Request, kind string, req interface{}, build func() ([]T, error)) {
	key := cacheKey(kind, req)
	if key != "" && s.cache.Enabled() {
		if v, ok := s.cache.Get(key); ok {
			if points, ok := v.([]T); ok {
				metrics.CacheLookupsTotal.WithLabelValues("hit").Inc()
				s.succeed(w, r, CalculationEvent{Kind: kind, Points: len(points)},
					CurveResponse[T]{Points: points, Count: len(points), Cached: true})
				return
			}
		}
		metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()
	}

	points, err := build()
	if err != nil {
		s.fail(w, r, kind, err)
		return
	}
	if key != "" {
		s.cache.Set(key, points)
	}
	metrics.RecordCurve(kind, len(points))
	s.succeed(w, r, CalculationEvent{Kind: kind, Points: len(points)},
		CurveResponse[T]{Points: points, Count: len(points)})
}

func (s *Server) handlePriceYieldCurve(w http.ResponseWriter, r *http.Request) {
	var req PriceYieldRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.checkPeriods(req.Bond); err != nil {
		s.fail(w, r, KindPriceYieldCurve, err)
		return
	}
	serveCurve(s, w, r, KindPriceYieldCurve, req, func() ([]models.PriceYieldPoint, error) {
		return curves.PriceYieldWithLimit(req.Bond.Spec(), req.YieldStart, req.YieldEnd, req.Step, s.cfg.Valuation.CurveMaxPoints)
	})
}

func (s *Server) handleCashFlowCurve(w http.ResponseWriter, r *http.Request) {
	var req BondRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.checkPeriods(req); err != nil {
		s.fail(w, r, KindCashFlowCurve, err)
		return
	}
	serveCurve(s, w, r, KindCashFlowCurve, req, func() ([]models.CashFlowPoint, error) {
		return curves.CashFlowTimeline(req.Spec())
	})
}

func (s *Server) handleCleanDirtyCurve(w http.ResponseWriter, r *http.Request) {
	var req CleanDirtyCurveRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.DaysInPeriod == 0 {
		req.DaysInPeriod = s.cfg.Valuation.DefaultDaysInPeriod
	}
	if err := s.checkPeriods(req.Bond); err != nil {
		s.fail(w, r, KindCleanDirtyCurve, err)
		return
	}
	serveCurve(s, w, r, KindCleanDirtyCurve, req, func() ([]models.AccrualPoint, error) {
		return curves.CleanDirtyTimeline(req.Bond.Spec(), req.DaysInPeriod)
	})
}
