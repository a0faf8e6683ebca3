package http

import (
	"net/http"

	"github.com/sirupsen/logrus"
)

type RouterConfig struct {
	MortgageHandler  *MortgageHandler
	ValuationHandler *ValuationHandler
	HistoryHandler   *HistoryHandler
	RateLimiter      *RateLimiter // nil disables rate limiting
	Logger           logrus.FieldLogger
}

func NewRouter(cfg RouterConfig) http.Handler {
	limited := func(h http.HandlerFunc) http.Handler {
		if cfg.RateLimiter == nil {
			return h
		}
		return RateLimitMiddleware(cfg.RateLimiter, cfg.Logger, h)
	}

	mux := http.NewServeMux()
	mux.Handle("/mortgage/calculate", limited(cfg.MortgageHandler.Calculate))
	mux.Handle("/mortgage/schedule", limited(cfg.MortgageHandler.Schedule))
	mux.Handle("/mortgage/compare-terms", limited(cfg.MortgageHandler.CompareTerms))
	mux.Handle("/valuation/estimate", limited(cfg.ValuationHandler.Estimate))
	mux.Handle("/valuation/neighborhoods", limited(cfg.ValuationHandler.Neighborhoods))
	mux.Handle("/calculations", limited(cfg.HistoryHandler.Recent))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if !requireGet(w, r) {
			return
		}
		writeJSON(w, cfg.Logger, http.StatusOK, map[string]string{"status": "ok"})
	})

	return LoggingMiddleware(cfg.Logger, mux)
}
