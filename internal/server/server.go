package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"CryptoPulse/internal/calculator"
	"CryptoPulse/internal/market"
)

const (
	defaultPriceDays = 365
	defaultIndexDays = 90
	maxDays          = 2000
)

// Server exposes the dashboard API over HTTP. Handlers never return a 5xx
// for upstream failures; the market service degrades to stale or
// synthetic data and the provenance field tells the client what it got.
type Server struct {
	svc    *market.Service
	log    *zap.Logger
	router *mux.Router
}

// NewServer builds the router and binds handlers.
func NewServer(svc *market.Service, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{svc: svc, log: log, router: mux.NewRouter()}

	api := s.router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/snapshot", s.handleSnapshot).Methods(http.MethodGet)
	api.HandleFunc("/prices/{asset}", s.handlePrices).Methods(http.MethodGet)
	api.HandleFunc("/quotes", s.handleQuotes).Methods(http.MethodGet)
	api.HandleFunc("/rsi", s.handleRSI).Methods(http.MethodGet)
	api.HandleFunc("/funding", s.handleFunding).Methods(http.MethodGet)
	api.HandleFunc("/etf-flows/{asset}", s.handleFlows).Methods(http.MethodGet)
	api.HandleFunc("/dxy", s.handleDXY).Methods(http.MethodGet)
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	s.router.Use(s.logRequests)
	return s
}

func (s *Server) Router() http.Handler { return s.router }

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("took", time.Since(start)))
	})
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap := s.svc.Snapshot(r.Context())
	s.writeJSON(w, http.StatusOK, toSnapshotDTO(snap))
}

func (s *Server) handlePrices(w http.ResponseWriter, r *http.Request) {
	asset := strings.ToUpper(mux.Vars(r)["asset"])
	days, err := daysParam(r, defaultPriceDays)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toPriceSeriesDTO(s.svc.PriceHistory(r.Context(), asset, days)))
}

func (s *Server) handleQuotes(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, toQuotesDTO(s.svc.Quotes(r.Context())))
}

func (s *Server) handleRSI(w http.ResponseWriter, r *http.Request) {
	period := 14
	if raw := r.URL.Query().Get("period"); raw != "" {
		p, err := strconv.Atoi(raw)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, fmt.Errorf("period must be an integer, got %q", raw))
			return
		}
		period = p
	}
	result, err := s.svc.RSIValue(r.Context(), period)
	if err != nil {
		// The only error RSIValue surfaces is an invalid period.
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toRSIDTO(result))
}

func (s *Server) handleFunding(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, toFundingDTO(s.svc.FundingRates(r.Context())))
}

func (s *Server) handleFlows(w http.ResponseWriter, r *http.Request) {
	asset := strings.ToUpper(mux.Vars(r)["asset"])
	s.writeJSON(w, http.StatusOK, toFlowsDTO(s.svc.ETFFlows(r.Context(), asset)))
}

func (s *Server) handleDXY(w http.ResponseWriter, r *http.Request) {
	days, err := daysParam(r, defaultIndexDays)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toIndexDTO(s.svc.DXY(r.Context(), days)))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	stats := s.svc.CacheInfo()
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"cache_total": stats.Total,
		"cache_fresh": stats.Fresh,
		"cache_stale": stats.Stale,
	})
}

func daysParam(r *http.Request, def int) (int, error) {
	raw := r.URL.Query().Get("days")
	if raw == "" {
		return def, nil
	}
	days, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("days must be an integer, got %q", raw)
	}
	if days <= 0 || days > maxDays {
		return 0, fmt.Errorf("%w: days must be in [1, %d], got %d",
			calculator.ErrInvalidArgument, maxDays, days)
	}
	return days, nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
