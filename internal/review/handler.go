package review

import (
	"errors"
	"net/http"

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

// GetReview serves GET /review?subject=&errorType=.
func (h *Handler) GetReview(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	query := r.URL.Query()
	filter, err := ParseFilter(query.Get("subject"), query.Get("errorType"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.service.GetReview(r.Context(), userID, filter)
	if err != nil {
		h.log.Error("[review] get review error", zap.Int64("user_id", userID), zap.Error(err))
		if errors.Is(err, ErrFetchFailed) {
			respond.Retryable(w, "Could not load your review list. Please try again.")
			return
		}
		respond.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respond.JSON(w, http.StatusOK, resp)
}
