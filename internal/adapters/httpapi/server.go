package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/marcus-v-rodrigues/pump-monitoring/internal/ports"
)

var errNoSummary = errors.New("summary source not configured")

// SummaryWindow is the trailing window reported by /metrics/summary.
const SummaryWindow = time.Hour

// Server serves the health and summary endpoints. /health never touches the
// store so liveness stays independent of database availability.
type Server struct {
	pumpID  string
	summary ports.SummarySource
	metrics ports.Metrics
	status  ports.StatusSource
	logger  *zap.Logger
	router  *mux.Router
}

type healthResponse struct {
	Status string `json:"status"`
	PumpID string `json:"pump_id"`
}

type ingestionResponse struct {
	Status              string     `json:"status"`
	ConsecutiveFailures int        `json:"consecutive_failures"`
	LastSuccess         *time.Time `json:"last_success"`
}

type summaryResponse struct {
	TotalRecords       int64    `json:"total_records"`
	AveragePressure    *float64 `json:"average_pressure"`
	AverageTemperature *float64 `json:"average_temperature"`
	AverageVibration   *float64 `json:"average_vibration"`
	SystemCPUUsage     float64  `json:"system_cpu_usage"`
	SystemMemoryUsage  float64  `json:"system_memory_usage"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewServer builds the API router. status may be nil, in which case
// /health/ingestion reports a loop that has not run yet. A nil summary makes
// /metrics/summary answer 500.
func NewServer(pumpID string, summary ports.SummarySource, metrics ports.Metrics, status ports.StatusSource, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		pumpID:  pumpID,
		summary: summary,
		metrics: metrics,
		status:  status,
		logger:  logger,
		router:  mux.NewRouter(),
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	routes := []struct {
		endpoint string
		handler  http.HandlerFunc
	}{
		{"/health", s.health},
		{"/health/ingestion", s.ingestionHealth},
		{"/metrics/summary", s.metricsSummary},
	}
	for _, route := range routes {
		s.router.HandleFunc(route.endpoint, route.handler).Methods(http.MethodGet)
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSONResponse(w, http.StatusOK, healthResponse{Status: "healthy", PumpID: s.pumpID})
}

func (s *Server) ingestionHealth(w http.ResponseWriter, _ *http.Request) {
	var st ports.IngestionStatus
	if s.status != nil {
		st = s.status.Status()
	}
	resp := ingestionResponse{Status: "ok", ConsecutiveFailures: st.ConsecutiveFailures}
	if !st.Healthy() {
		resp.Status = "degraded"
	}
	if !st.LastSuccess.IsZero() {
		last := st.LastSuccess.UTC()
		resp.LastSuccess = &last
	}
	writeJSONResponse(w, http.StatusOK, resp)
}

func (s *Server) metricsSummary(w http.ResponseWriter, r *http.Request) {
	if s.summary == nil {
		writeJSONResponse(w, http.StatusInternalServerError, errorResponse{Error: errNoSummary.Error()})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	stats, err := s.summary.Window(ctx, SummaryWindow)
	if err != nil {
		s.logger.Error("summary query failed", zap.Error(err))
		writeJSONResponse(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	var usage ports.SystemUsage
	if s.metrics != nil {
		usage = s.metrics.SystemUsage()
	}
	writeJSONResponse(w, http.StatusOK, summaryResponse{
		TotalRecords:       stats.TotalRecords,
		AveragePressure:    stats.AveragePressure,
		AverageTemperature: stats.AverageTemperature,
		AverageVibration:   stats.AverageVibration,
		SystemCPUUsage:     usage.CPUPercent,
		SystemMemoryUsage:  usage.MemoryPercent,
	})
}

func writeJSONResponse(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}
