package dashboard

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/studydesk/backend/internal/middleware"
	"github.com/studydesk/backend/internal/respond"
	"go.uber.org/zap"
)

type Handler struct {
	service *Service
	log     *zap.Logger
}

func NewHandler(service *Service, log *zap.Logger) *Handler {
	return &Handler{service: service, log: log}
}

// RegisterRoutes mounts the dashboard views under r.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/dashboard/performance", h.Performance).Methods("GET")
	r.HandleFunc("/dashboard/sessions/summary", h.SessionSummary).Methods("GET")
	r.HandleFunc("/dashboard/sessions/recent", h.RecentSessions).Methods("GET")
	r.HandleFunc("/dashboard/subjects", h.Subjects).Methods("GET")
	r.HandleFunc("/dashboard/error-rates", h.ErrorRates).Methods("GET")
}

func (h *Handler) Performance(w http.ResponseWriter, r *http.Request) {
	view(h, w, r, "Performance", h.service.Performance)
}

func (h *Handler) SessionSummary(w http.ResponseWriter, r *http.Request) {
	view(h, w, r, "SessionSummary", h.service.SessionSummary)
}

func (h *Handler) RecentSessions(w http.ResponseWriter, r *http.Request) {
	view(h, w, r, "RecentSessions", h.service.RecentSessions)
}

func (h *Handler) Subjects(w http.ResponseWriter, r *http.Request) {
	view(h, w, r, "Subjects", h.service.Subjects)
}

func (h *Handler) ErrorRates(w http.ResponseWriter, r *http.Request) {
	view(h, w, r, "ErrorRates", h.service.ErrorRates)
}

func view[T any](h *Handler, w http.ResponseWriter, r *http.Request, op string, load func(context.Context, int64) (T, error)) {
	userID, ok := middleware.UserID(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	resp, err := load(r.Context(), userID)
	if err != nil {
		h.log.Error("[dashboard] "+op+" error", zap.Int64("user_id", userID), zap.Error(err))
		if errors.Is(err, ErrFetchFailed) {
			respond.Retryable(w, "Could not load your progress. Please try again.")
			return
		}
		respond.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respond.JSON(w, http.StatusOK, resp)
}
