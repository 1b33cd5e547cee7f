package dashboard

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/sells-group/customer360-cli/internal/store"
)

// Server exposes the dashboard API. Store is optional; without it the run
// history endpoint reports an empty list.
type Server struct {
	outputPath string
	store      store.Store
}

// NewServer builds a dashboard server over the given output file.
func NewServer(outputPath string, st store.Store) *Server {
	return &Server{outputPath: outputPath, store: st}
}

// Router builds the HTTP routes.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Get("/api/kpis", s.handleKPIs)
	r.Get("/api/segments", s.handleSegments)
	r.Get("/api/customers", s.handleCustomers)
	r.Get("/api/runs", s.handleRuns)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) handleKPIs(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, ComputeKPIs(loadRows(s.outputPath)))
}

func (s *Server) handleSegments(w http.ResponseWriter, _ *http.Request) {
	segments := SummarizeSegments(loadRows(s.outputPath))
	if segments == nil {
		segments = []SegmentSummary{}
	}
	writeJSON(w, segments)
}

func (s *Server) handleCustomers(w http.ResponseWriter, r *http.Request) {
	rows := loadRows(s.outputPath)
	rows = FilterRows(rows, r.URL.Query().Get("segment"), r.URL.Query().Get("email"))
	writeJSON(w, Customers(rows))
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	runs := []store.Run{}
	if s.store != nil {
		listed, err := s.store.ListRuns(r.Context(), 50)
		if err != nil {
			zap.L().Error("dashboard: list runs", zap.Error(err))
			http.Error(w, `{"error":"run history unavailable"}`, http.StatusInternalServerError)
			return
		}
		runs = listed
	}
	writeJSON(w, runs)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("dashboard: encode response", zap.Error(err))
	}
}
