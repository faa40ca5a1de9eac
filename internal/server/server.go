package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"MarketMonitor/internal/metrics"
	"MarketMonitor/internal/model"
	"MarketMonitor/internal/strategy"
)

// Evaluator scores one instrument.
type Evaluator interface {
	Evaluate(ctx context.Context, symbol string) (*model.ScoreReport, error)
}

// MarketSnapshot quotes the reference indices.
type MarketSnapshot interface {
	Snapshot(ctx context.Context) []model.IndexQuote
}

// NewsSearcher fetches headlines for a query.
type NewsSearcher interface {
	Search(ctx context.Context, query string) []model.NewsItem
}

// ChartSource returns chart candles for a symbol.
type ChartSource interface {
	Chart(ctx context.Context, symbol string) ([]model.ChartPoint, error)
}

// DashboardSource returns the most recent dashboard, or nil before the first poll.
type DashboardSource interface {
	Latest() *model.Dashboard
}

// Deps are the components the HTTP surface reads from. News and Dashboards may be nil.
type Deps struct {
	Evaluator  Evaluator
	Market     MarketSnapshot
	News       NewsSearcher
	Charts     ChartSource
	Dashboards DashboardSource
	Metrics    *metrics.Metrics
}

// Server is the HTTP/JSON and WebSocket surface.
type Server struct {
	router *mux.Router
	server *http.Server
	hub    *Hub
	deps   Deps
}

// New creates a Server listening on addr.
func New(addr string, deps Deps) *Server {
	s := &Server{
		router: mux.NewRouter(),
		hub:    NewHub(),
		deps:   deps,
	}
	s.setupRoutes()
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()
	api.Use(logRequests)

	api.HandleFunc("/score/{symbol}", s.score).Methods(http.MethodGet)
	api.HandleFunc("/indices", s.indices).Methods(http.MethodGet)
	api.HandleFunc("/news", s.news).Methods(http.MethodGet)
	api.HandleFunc("/chart/{symbol}", s.chart).Methods(http.MethodGet)
	api.HandleFunc("/dashboard", s.dashboard).Methods(http.MethodGet)

	s.router.HandleFunc("/ws", s.websocket)
	s.router.Handle("/metrics", s.deps.Metrics.Handler()).Methods(http.MethodGet)
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// Hub returns the WebSocket hub. It is the Publisher that pushes new dashboards.
func (s *Server) Hub() *Hub { return s.hub }

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	log.Info().Str("addr", s.server.Addr).Msg("http server listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and closes every WebSocket client.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Close()
	return s.server.Shutdown(ctx)
}

func (s *Server) score(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(mux.Vars(r)["symbol"])
	report, err := s.deps.Evaluator.Evaluate(r.Context(), symbol)
	if err != nil {
		log.Error().Err(err).Str("symbol", symbol).Msg("evaluation failed")
		writeError(w, evaluationStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// evaluationStatus maps an evaluation failure to an HTTP status.
func evaluationStatus(err error) int {
	switch {
	case errors.Is(err, strategy.ErrDataUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, strategy.ErrIndicatorUnresolvable):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) indices(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Market.Snapshot(r.Context()))
}

func (s *Server) news(w http.ResponseWriter, r *http.Request) {
	if s.deps.News == nil {
		writeError(w, http.StatusNotFound, errors.New("news is disabled"))
		return
	}
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeError(w, http.StatusBadRequest, errors.New("missing query parameter q"))
		return
	}
	writeJSON(w, http.StatusOK, s.deps.News.Search(r.Context(), q))
}

func (s *Server) chart(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(mux.Vars(r)["symbol"])
	points, err := s.deps.Charts.Chart(r.Context(), symbol)
	if err != nil {
		log.Error().Err(err).Str("symbol", symbol).Msg("chart failed")
		writeError(w, http.StatusServiceUnavailable, err)
		return
	}
	writeJSON(w, http.StatusOK, points)
}

func (s *Server) dashboard(w http.ResponseWriter, _ *http.Request) {
	var d *model.Dashboard
	if s.deps.Dashboards != nil {
		d = s.deps.Dashboards.Latest()
	}
	if d == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("no dashboard yet"))
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) websocket(w http.ResponseWriter, r *http.Request) {
	var initial *model.Dashboard
	if s.deps.Dashboards != nil {
		initial = s.deps.Dashboards.Latest()
	}
	s.hub.Serve(w, r, initial)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// logRequests logs method, path, status and duration of each API request.
func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}
