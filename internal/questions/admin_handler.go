package questions

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/studydesk/backend/internal/models"
	"github.com/studydesk/backend/internal/respond"
)

func (h *Handler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var subjectID *int64
	if raw := query.Get("subject_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			respond.Error(w, http.StatusBadRequest, "Invalid subject_id")
			return
		}
		subjectID = &id
	}

	qs, err := h.service.ListQuestions(r.Context(), subjectID, respond.IntQuery(query, "limit", defaultPracticeLimit))
	if err != nil {
		h.fail(w, "ListQuestions", err)
		return
	}
	respond.JSON(w, http.StatusOK, qs)
}

func (h *Handler) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	var req models.CreateQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	q, err := h.service.CreateQuestion(r.Context(), req)
	if err != nil {
		h.fail(w, "CreateQuestion", err)
		return
	}
	respond.JSON(w, http.StatusCreated, q)
}

func (h *Handler) DraftExplanation(w http.ResponseWriter, r *http.Request) {
	var req models.DraftExplanationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	draft, err := h.service.DraftExplanation(r.Context(), req)
	if err != nil {
		h.fail(w, "DraftExplanation", err)
		return
	}
	respond.JSON(w, http.StatusOK, draft)
}
