package notebook

import (
	"encoding/json"
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

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	status := respond.StatusFor(err)
	if status == http.StatusInternalServerError {
		h.log.Error("[notebook] "+op+" error", zap.Error(err))
		respond.Error(w, status, "Internal server error")
		return
	}
	respond.Error(w, status, err.Error())
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	resp, err := h.service.List(r.Context(), userID, r.URL.Query().Get("q"))
	if err != nil {
		h.fail(w, "List", err)
		return
	}
	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) AddHighlight(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req models.CreateHighlightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	entry, err := h.service.AddHighlight(r.Context(), userID, req)
	if err != nil {
		h.fail(w, "AddHighlight", err)
		return
	}
	respond.JSON(w, http.StatusCreated, entry)
}

func (h *Handler) AddNote(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req models.CreateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	entry, err := h.service.AddNote(r.Context(), userID, req)
	if err != nil {
		h.fail(w, "AddNote", err)
		return
	}
	respond.JSON(w, http.StatusCreated, entry)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, ok := respond.PathID(mux.Vars(r)["id"])
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Invalid entry ID")
		return
	}

	if err := h.service.Delete(r.Context(), userID, id); err != nil {
		h.fail(w, "Delete", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
