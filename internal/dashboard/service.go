// Package dashboard serves the user's progress overview.
package dashboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/studydesk/backend/internal/models"
	"github.com/studydesk/backend/internal/stats"
	"go.uber.org/zap"
)

const recentSessionLimit = 5

// ErrFetchFailed marks a backend failure. Callers show a retryable message.
var ErrFetchFailed = errors.New("fetch failed")

// Cache stores computed views per user.
type Cache interface {
	Get(ctx context.Context, userID int64, name string, dest interface{}) (bool, error)
	Set(ctx context.Context, userID int64, name string, value interface{}) error
}

type Service struct {
	store Store
	cache Cache
	log   *zap.Logger
}

func NewService(store Store, cache Cache, log *zap.Logger) *Service {
	return &Service{store: store, cache: cache, log: log}
}

// cached serves name from the cache, or computes and stores it. Cache
// errors only degrade to a recompute.
func cached[T any](ctx context.Context, s *Service, userID int64, name string, compute func() (T, error)) (T, error) {
	var v T
	if s.cache != nil {
		hit, err := s.cache.Get(ctx, userID, name, &v)
		if err != nil {
			s.log.Warn("dashboard cache read failed", zap.String("view", name), zap.Error(err))
		} else if hit {
			return v, nil
		}
	}

	v, err := compute()
	if err != nil {
		var zero T
		return zero, fmt.Errorf("%w: %s: %v", ErrFetchFailed, name, err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, userID, name, v); err != nil {
			s.log.Warn("dashboard cache write failed", zap.String("view", name), zap.Error(err))
		}
	}
	return v, nil
}

func (s *Service) Performance(ctx context.Context, userID int64) (models.PerformanceResponse, error) {
	return cached(ctx, s, userID, "performance", func() (models.PerformanceResponse, error) {
		outcomes, err := s.store.AnswerOutcomes(ctx, userID)
		if err != nil {
			return models.PerformanceResponse{}, err
		}
		return stats.Performance(outcomes), nil
	})
}

func (s *Service) SessionSummary(ctx context.Context, userID int64) (models.SessionSummaryResponse, error) {
	return cached(ctx, s, userID, "sessions-summary", func() (models.SessionSummaryResponse, error) {
		tallies, err := s.store.SessionTallies(ctx, userID)
		if err != nil {
			return models.SessionSummaryResponse{}, err
		}
		return stats.SummarizeSessions(tallies), nil
	})
}

func (s *Service) RecentSessions(ctx context.Context, userID int64) ([]models.RecentSession, error) {
	return cached(ctx, s, userID, "sessions-recent", func() ([]models.RecentSession, error) {
		sessions, err := s.store.RecentSessions(ctx, userID, recentSessionLimit)
		if err != nil {
			return nil, err
		}
		if sessions == nil {
			sessions = []models.RecentSession{}
		}
		for i := range sessions {
			sessions[i].Accuracy = stats.Percent(sessions[i].Score, sessions[i].TotalQuestions)
		}
		return sessions, nil
	})
}

// Subjects lists every subject. Band is set only for subjects the user has
// completed sessions in.
func (s *Service) Subjects(ctx context.Context, userID int64) ([]models.SubjectStat, error) {
	return cached(ctx, s, userID, "subjects", func() ([]models.SubjectStat, error) {
		rows, err := s.store.SubjectRows(ctx, userID)
		if err != nil {
			return nil, err
		}
		out := make([]models.SubjectStat, 0, len(rows))
		for _, r := range rows {
			st := models.SubjectStat{
				ID:              r.ID,
				Name:            r.Name,
				QuestionCount:   r.QuestionCount,
				SessionCount:    r.SessionCount,
				AverageAccuracy: stats.Percent(r.Score, r.Total),
			}
			if r.SessionCount > 0 {
				st.Band = string(stats.AccuracyBand(st.AverageAccuracy))
			}
			out = append(out, st)
		}
		return out, nil
	})
}

func (s *Service) ErrorRates(ctx context.Context, userID int64) ([]models.SubjectErrorRate, error) {
	perf, err := s.Performance(ctx, userID)
	if err != nil {
		return nil, err
	}
	return stats.ErrorRates(perf.SubjectAccuracy), nil
}
