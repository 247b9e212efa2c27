package quiz

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/studydesk/backend/internal/middleware"
	"github.com/studydesk/backend/internal/models"
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

// RegisterRoutes mounts the session endpoints on an authenticated router.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/sessions", h.Start).Methods("POST")
	r.HandleFunc("/sessions/{id}", h.Get).Methods("GET")
	r.HandleFunc("/sessions/{id}/select", h.Select).Methods("POST")
	r.HandleFunc("/sessions/{id}/answer", h.Answer).Methods("POST")
	r.HandleFunc("/sessions/{id}/classify", h.Classify).Methods("POST")
	r.HandleFunc("/sessions/{id}/skip-classification", h.SkipClassification).Methods("POST")
	r.HandleFunc("/sessions/{id}/next", h.Next).Methods("POST")
}

func (h *Handler) write(w http.ResponseWriter, op string, view *models.SessionView, err error) {
	if err != nil {
		status := respond.StatusFor(err)
		if status == http.StatusInternalServerError {
			h.log.Error("[quiz] "+op+" error", zap.Error(err))
			respond.Error(w, status, "Internal server error")
			return
		}
		respond.Error(w, status, err.Error())
		return
	}
	respond.JSON(w, http.StatusOK, view)
}

func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req models.StartSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	view, err := h.service.Start(r.Context(), userID, req)
	if err != nil {
		h.write(w, "Start", nil, err)
		return
	}
	respond.JSON(w, http.StatusCreated, view)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	view, err := h.service.Get(r.Context(), userID, mux.Vars(r)["id"])
	h.write(w, "Get", view, err)
}

func (h *Handler) Select(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req models.SelectOptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.OptionID <= 0 {
		respond.Error(w, http.StatusBadRequest, "option_id is required")
		return
	}

	view, err := h.service.Select(r.Context(), userID, mux.Vars(r)["id"], req.OptionID)
	h.write(w, "Select", view, err)
}

func (h *Handler) Answer(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	view, err := h.service.Answer(r.Context(), userID, mux.Vars(r)["id"])
	h.write(w, "Answer", view, err)
}

func (h *Handler) Classify(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req models.ClassifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	view, err := h.service.Classify(r.Context(), userID, mux.Vars(r)["id"], req.ErrorType)
	h.write(w, "Classify", view, err)
}

func (h *Handler) SkipClassification(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	view, err := h.service.SkipClassification(r.Context(), userID, mux.Vars(r)["id"])
	h.write(w, "SkipClassification", view, err)
}

func (h *Handler) Next(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	view, err := h.service.Next(r.Context(), userID, mux.Vars(r)["id"])
	h.write(w, "Next", view, err)
}
