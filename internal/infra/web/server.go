package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"telegram-subscription-shop/internal/domain/model"
	"telegram-subscription-shop/internal/usecase"
)

// Server is the ops and read-only admin HTTP surface: health, metrics, and a
// Bearer-token view of the pending queue. It acts on behalf of the configured
// administrator once the token checks out.
type Server struct {
	revUC   usecase.ReviewUseCase
	adminID int64
	apiKey  string
	log     *zerolog.Logger
}

func NewServer(revUC usecase.ReviewUseCase, adminID int64, apiKey string, logger *zerolog.Logger) *Server {
	return &Server{revUC: revUC, adminID: adminID, apiKey: apiKey, log: logger}
}

// Router builds the chi router for the server.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Get("/pending", s.handlePending)
		r.Get("/export", s.handleExport)
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "OK")
}

// authMiddleware provides simple Bearer token authentication for the admin API.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey == "" {
			s.log.Error().Msg("admin API key is not configured")
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || strings.ToLower(tokenParts[0]) != "bearer" || tokenParts[1] != s.apiKey {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type pendingRecordDTO struct {
	UserID        string `json:"user_id"`
	Plan          string `json:"plan"`
	Payment       string `json:"payment"`
	Status        string `json:"status"`
	TransactionID string `json:"transaction_id,omitempty"`
	Timestamp     string `json:"timestamp,omitempty"`
}

type pendingPageDTO struct {
	Page         int                `json:"page"`
	TotalPages   int                `json:"total_pages"`
	TotalPending int                `json:"total_pending"`
	Records      []pendingRecordDTO `json:"records"`
}

func (s *Server) handlePending(w http.ResponseWriter, r *http.Request) {
	page := 1
	if v := r.URL.Query().Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			http.Error(w, "invalid page", http.StatusBadRequest)
			return
		}
		page = n
	}
	pp, err := s.revUC.ListPending(r.Context(), s.adminID, page)
	if err != nil {
		s.log.Error().Err(err).Msg("list pending failed")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	dto := pendingPageDTO{
		Page:         pp.Page,
		TotalPages:   pp.TotalPages,
		TotalPending: pp.TotalPending,
		Records:      make([]pendingRecordDTO, 0, len(pp.Records)),
	}
	for _, rec := range pp.Records {
		dto.Records = append(dto.Records, toDTO(rec))
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(dto); err != nil {
		s.log.Error().Err(err).Msg("encode pending page failed")
	}
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	data, err := s.revUC.BuildReport(r.Context(), s.adminID)
	if err != nil {
		s.log.Error().Err(err).Msg("build report failed")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", usecase.ExportFileName))
	_, _ = w.Write(data)
}

func toDTO(rec *model.SubscriptionRecord) pendingRecordDTO {
	dto := pendingRecordDTO{
		UserID:        rec.UserID,
		Plan:          rec.Plan,
		Payment:       rec.Payment,
		Status:        string(rec.Status),
		TransactionID: rec.TransactionID,
	}
	if rec.Timestamp != nil {
		dto.Timestamp = rec.Timestamp.Format(time.RFC3339)
	}
	return dto
}
