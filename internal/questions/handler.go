package questions

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

// fail writes err with its mapped status and logs unexpected failures.
func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	status := respond.StatusFor(err)
	if status == http.StatusInternalServerError {
		h.log.Error("[questions] "+op+" error", zap.Error(err))
		respond.Error(w, status, "Internal server error")
		return
	}
	respond.Error(w, status, err.Error())
}

func (h *Handler) ListSubjects(w http.ResponseWriter, r *http.Request) {
	subjects, err := h.service.ListSubjects(r.Context())
	if err != nil {
		h.fail(w, "ListSubjects", err)
		return
	}
	respond.JSON(w, http.StatusOK, subjects)
}

func (h *Handler) PracticeQuestions(w http.ResponseWriter, r *http.Request) {
	subjectID, ok := respond.PathID(mux.Vars(r)["id"])
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Invalid subject ID")
		return
	}

	qs, err := h.service.PracticeQuestions(r.Context(), subjectID, respond.IntQuery(r.URL.Query(), "limit", defaultPracticeLimit))
	if err != nil {
		h.fail(w, "PracticeQuestions", err)
		return
	}
	respond.JSON(w, http.StatusOK, qs)
}

func (h *Handler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	questionID, ok := respond.PathID(mux.Vars(r)["id"])
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Invalid question ID")
		return
	}

	userID, ok := middleware.UserID(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req models.SubmitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.SelectedOptionID <= 0 {
		respond.Error(w, http.StatusBadRequest, "selected_option_id is required")
		return
	}

	resp, err := h.service.SubmitAnswer(r.Context(), userID, questionID, req.SelectedOptionID, nil)
	if err != nil {
		h.fail(w, "SubmitAnswer", err)
		return
	}
	respond.JSON(w, http.StatusCreated, resp)
}

func (h *Handler) ClassifyAnswer(w http.ResponseWriter, r *http.Request) {
	answerID, ok := respond.PathID(mux.Vars(r)["id"])
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Invalid answer ID")
		return
	}

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

	answer, err := h.service.ClassifyAnswer(r.Context(), userID, answerID, req.ErrorType)
	if err != nil {
		h.fail(w, "ClassifyAnswer", err)
		return
	}
	respond.JSON(w, http.StatusOK, answer)
}
