package review

import (
	"context"
	"errors"
	"fmt"

	"github.com/studydesk/backend/internal/models"
)

// ErrFetchFailed marks a backend failure while loading answers. Callers show
// a retryable message.
var ErrFetchFailed = errors.New("fetch failed")

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) GetReview(ctx context.Context, userID int64, f Filter) (*models.ReviewResponse, error) {
	answers, err := s.store.FetchIncorrectAnswers(ctx, userID, f)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	kept := make([]models.IncorrectAnswer, 0, len(answers))
	for _, a := range answers {
		if f.Matches(a) {
			kept = append(kept, a)
		}
	}

	questions, summary := Aggregate(kept)
	return &models.ReviewResponse{
		Questions: questions,
		Summary:   summary,
		Filtered:  f.Active(),
	}, nil
}
