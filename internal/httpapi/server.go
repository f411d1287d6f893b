// Package httpapi exposes the query service as a JSON read API under /api.
package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/wildanre/ponder-etherlink/internal/observability"
	"github.com/wildanre/ponder-etherlink/internal/query"
	"github.com/wildanre/ponder-etherlink/internal/storage"
)

// Server routes read requests to the query service.
type Server struct {
	svc    *query.Service
	log    zerolog.Logger
	router *mux.Router
}

// NewServer builds the API router.
func NewServer(svc *query.Service, log zerolog.Logger) *Server {
	s := &Server{svc: svc, log: log}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.instrument)
	r.NotFoundHandler = http.HandlerFunc(s.handleNotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(s.handleMethodNotAllowed)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	api.HandleFunc("/pools", s.handleListPools).Methods(http.MethodGet)
	api.HandleFunc("/pools/search", s.handleSearchPools).Methods(http.MethodPost)
	api.HandleFunc("/pools/{poolAddress}", s.handleGetPool).Methods(http.MethodGet)
	api.HandleFunc("/pools/{poolAddress}/activities", s.handlePoolActivities).Methods(http.MethodGet)
	api.HandleFunc("/pools/{poolAddress}/positions", s.handlePoolPositions).Methods(http.MethodGet)

	api.HandleFunc("/positions", s.handleListPositions).Methods(http.MethodGet)
	api.HandleFunc("/positions/search", s.handleSearchPositions).Methods(http.MethodPost)
	api.HandleFunc("/positions/health-check", s.handleHealthCheck).Methods(http.MethodPost)
	api.HandleFunc("/positions/liquidation-candidates", s.handleLiquidationCandidates).Methods(http.MethodPost)
	api.HandleFunc("/positions/user/{userAddress}", s.handlePositionsByUser).Methods(http.MethodGet)
	api.HandleFunc("/positions/{positionId}", s.handleGetPosition).Methods(http.MethodGet)
	api.HandleFunc("/positions/{positionId}/history", s.handlePositionHistory).Methods(http.MethodGet)

	api.HandleFunc("/activities", s.handleListActivities).Methods(http.MethodGet)
	api.HandleFunc("/activities/search", s.handleSearchActivities).Methods(http.MethodPost)
	api.HandleFunc("/activities/analytics", s.handleActivityAnalytics).Methods(http.MethodPost)
	api.HandleFunc("/activities/user/{userAddress}", s.handleActivitiesByUser).Methods(http.MethodGet)

	api.HandleFunc("/users/leaderboard", s.handleLeaderboard).Methods(http.MethodPost)
	api.HandleFunc("/users/search", s.handleUserSearch).Methods(http.MethodPost)
	api.HandleFunc("/users/{userAddress}", s.handleUserProfile).Methods(http.MethodGet)
	api.HandleFunc("/users/{userAddress}/positions", s.handlePositionsByUser).Methods(http.MethodGet)

	api.HandleFunc("/stats/overview", s.handleOverview).Methods(http.MethodGet)
	api.HandleFunc("/stats/pools", s.handlePoolStats).Methods(http.MethodGet)
	api.HandleFunc("/stats/tokens", s.handleTokenStats).Methods(http.MethodGet)
	api.HandleFunc("/stats/historical", s.handleHistorical).Methods(http.MethodPost)

	return r
}

// envelope is the uniform response shape.
type envelope struct {
	Success    bool              `json:"success"`
	Data       any               `json:"data,omitempty"`
	Count      *int              `json:"count,omitempty"`
	Total      *int              `json:"total,omitempty"`
	Pagination *query.Pagination `json:"pagination,omitempty"`
	Error      string            `json:"error,omitempty"`
	Message    string            `json:"message,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error().Err(err).Msg("encode response")
	}
}

func (s *Server) writeData(w http.ResponseWriter, data any) {
	s.writeJSON(w, http.StatusOK, envelope{Success: true, Data: data})
}

func (s *Server) writeList(w http.ResponseWriter, data any, count, total int, p query.Pagination) {
	s.writeJSON(w, http.StatusOK, envelope{
		Success: true, Data: data,
		Count: &count, Total: &total, Pagination: &p,
	})
}

// writeServiceError maps query errors to status codes. Internal details
// never reach the client; the fallback message does.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, storage.ErrInvalidInput):
		s.writeJSON(w, http.StatusBadRequest, envelope{Error: "Invalid request", Message: err.Error()})
	case errors.Is(err, storage.ErrNotFound):
		s.writeJSON(w, http.StatusNotFound, envelope{Error: fallback})
	default:
		s.log.Error().Err(err).Str("path", r.URL.Path).Msg("query failed")
		s.writeJSON(w, http.StatusInternalServerError, envelope{Error: fallback})
	}
}

func (s *Server) writeBadRequest(w http.ResponseWriter, msg string) {
	s.writeJSON(w, http.StatusBadRequest, envelope{Error: "Invalid request", Message: msg})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusNotFound, envelope{Error: "Not found"})
}

func (s *Server) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusMethodNotAllowed, envelope{Error: "Method not allowed"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeData(w, map[string]string{"status": "ok"})
}

// decodeBody parses a JSON request body into v. An empty body is allowed;
// every POST filter has usable zero values.
func decodeBody(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// pageFromQuery reads offset/limit query parameters.
func pageFromQuery(r *http.Request) query.Page {
	var p query.Page
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil {
		p.Offset = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil {
		p.Limit = v
	}
	return p
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		route := r.URL.Path
		if cur := mux.CurrentRoute(r); cur != nil {
			if tmpl, err := cur.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}
		elapsed := time.Since(start)
		observability.RecordHTTPRequest(route, r.Method, strconv.Itoa(rec.status), elapsed.Seconds())
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("elapsed", elapsed).
			Msg("request served")
	})
}
