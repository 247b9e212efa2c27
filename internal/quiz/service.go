package quiz

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/studydesk/backend/internal/models"
	"github.com/studydesk/backend/internal/monitoring"
	"go.uber.org/zap"
)

const (
	DefaultQuestionCount = 10
	MaxQuestionCount     = 50
)

// Questions loads and grades questions. Implemented by questions.Service.
type Questions interface {
	GetQuestion(ctx context.Context, id int64) (*models.Question, error)
	RecordAnswer(ctx context.Context, userID int64, question *models.Question, optionID int64, sessionID *string) (*models.SubmitAnswerResponse, error)
	ClassifyAnswer(ctx context.Context, userID, answerID int64, errorType string) (*models.Answer, error)
}

type Invalidator interface {
	InvalidateUser(ctx context.Context, userID int64) error
}

type Service struct {
	store     Store
	questions Questions
	cache     Invalidator
	log       *zap.Logger
	now       func() time.Time
}

func NewService(store Store, questions Questions, cache Invalidator, log *zap.Logger) *Service {
	return &Service{store: store, questions: questions, cache: cache, log: log, now: time.Now}
}

// Start draws the session's questions and returns the first one.
func (s *Service) Start(ctx context.Context, userID int64, req models.StartSessionRequest) (*models.SessionView, error) {
	count := req.Count
	if count <= 0 {
		count = DefaultQuestionCount
	}
	if count > MaxQuestionCount {
		count = MaxQuestionCount
	}

	ids, err := s.store.DrawQuestionIDs(ctx, req.SubjectID, count)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no questions available for this subject", models.ErrNotFound)
	}

	qs := &models.QuizSession{
		ID:             uuid.New().String(),
		UserID:         userID,
		SubjectID:      req.SubjectID,
		QuestionIDs:    ids,
		Phase:          string(PhaseIdle),
		TotalQuestions: len(ids),
		Status:         models.SessionActive,
	}
	if err := s.store.CreateSession(ctx, qs); err != nil {
		return nil, err
	}
	s.log.Info("quiz session started", zap.String("session_id", qs.ID), zap.Int64("user_id", userID), zap.Int("questions", len(ids)))

	return s.view(ctx, qs)
}

func (s *Service) Get(ctx context.Context, userID int64, sessionID string) (*models.SessionView, error) {
	qs, err := s.load(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, qs)
}

func (s *Service) Select(ctx context.Context, userID int64, sessionID string, optionID int64) (*models.SessionView, error) {
	return s.step(ctx, userID, sessionID, func(qs *models.QuizSession, a *Attempt, q *models.Question) error {
		if !q.HasOption(optionID) {
			return fmt.Errorf("%w: option %d does not belong to the current question", models.ErrValidation, optionID)
		}
		return a.Select(optionID)
	})
}

// Answer submits the selected option and records it as an answer.
func (s *Service) Answer(ctx context.Context, userID int64, sessionID string) (*models.SessionView, error) {
	return s.step(ctx, userID, sessionID, func(qs *models.QuizSession, a *Attempt, q *models.Question) error {
		if a.Phase() != PhaseSelected {
			return a.invalid("answer")
		}
		resp, err := s.questions.RecordAnswer(ctx, userID, q, a.SelectedOption(), &qs.ID)
		if err != nil {
			return err
		}
		if err := a.Answer(resp.Correct); err != nil {
			return err
		}
		if resp.Correct {
			qs.Score++
		}
		qs.LastAnswerID = &resp.AnswerID
		return nil
	})
}

func (s *Service) Classify(ctx context.Context, userID int64, sessionID string, errorType string) (*models.SessionView, error) {
	et, err := models.ParseErrorType(errorType)
	if err != nil {
		return nil, err
	}
	return s.step(ctx, userID, sessionID, func(qs *models.QuizSession, a *Attempt, q *models.Question) error {
		if err := a.Classify(et); err != nil {
			return err
		}
		if qs.LastAnswerID == nil {
			return fmt.Errorf("session %s has no recorded answer", qs.ID)
		}
		_, err := s.questions.ClassifyAnswer(ctx, userID, *qs.LastAnswerID, string(et))
		return err
	})
}

func (s *Service) SkipClassification(ctx context.Context, userID int64, sessionID string) (*models.SessionView, error) {
	return s.step(ctx, userID, sessionID, func(qs *models.QuizSession, a *Attempt, q *models.Question) error {
		return a.SkipClassification()
	})
}

// Next advances to the following question, or completes the session after
// the last one.
func (s *Service) Next(ctx context.Context, userID int64, sessionID string) (*models.SessionView, error) {
	completed := false
	view, err := s.step(ctx, userID, sessionID, func(qs *models.QuizSession, a *Attempt, q *models.Question) error {
		if err := a.Advance(); err != nil {
			return err
		}
		if qs.CurrentIndex+1 < len(qs.QuestionIDs) {
			qs.CurrentIndex++
			*a = Attempt{}
			return nil
		}
		now := s.now()
		qs.Status = models.SessionCompleted
		qs.CompletedAt = &now
		completed = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if completed {
		monitoring.SessionsCompleted.Inc()
		if s.cache != nil {
			if err := s.cache.InvalidateUser(ctx, userID); err != nil {
				s.log.Warn("dashboard cache invalidation failed", zap.Int64("user_id", userID), zap.Error(err))
			}
		}
		s.log.Info("quiz session completed", zap.String("session_id", sessionID),
			zap.Int("score", view.Session.Score), zap.Int("total", view.Session.TotalQuestions))
	}
	return view, nil
}

// ExpireStale abandons active sessions older than maxAge.
func (s *Service) ExpireStale(ctx context.Context, maxAge time.Duration) (int64, error) {
	return s.store.ExpireStale(ctx, s.now().Add(-maxAge))
}

func (s *Service) load(ctx context.Context, userID int64, sessionID string) (*models.QuizSession, error) {
	if _, err := uuid.Parse(sessionID); err != nil {
		return nil, fmt.Errorf("%w: invalid session id", models.ErrNotFound)
	}
	qs, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if qs.UserID != userID {
		return nil, models.ErrForbidden
	}
	return qs, nil
}

// step applies one event to the current attempt and persists the result.
func (s *Service) step(ctx context.Context, userID int64, sessionID string, event func(*models.QuizSession, *Attempt, *models.Question) error) (*models.SessionView, error) {
	qs, err := s.load(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if qs.Status != models.SessionActive {
		return nil, fmt.Errorf("%w: session is %s", models.ErrConflict, qs.Status)
	}

	attempt, err := Restore(Phase(qs.Phase), qs.SelectedOptionID, qs.LastCorrect, qs.LastErrorType)
	if err != nil {
		return nil, err
	}
	fromIndex, fromPhase := qs.CurrentIndex, qs.Phase
	question, err := s.questions.GetQuestion(ctx, qs.QuestionIDs[qs.CurrentIndex])
	if err != nil {
		return nil, err
	}

	if err := event(qs, attempt, question); err != nil {
		return nil, err
	}

	qs.Phase = string(attempt.Phase())
	qs.SelectedOptionID = nil
	qs.LastCorrect = nil
	qs.LastErrorType = nil
	if et := attempt.ErrorType(); et != "" {
		qs.LastErrorType = &et
	}
	if attempt.Phase() != PhaseIdle {
		selected := attempt.SelectedOption()
		qs.SelectedOptionID = &selected
	}
	if attempt.Answered() {
		correct := attempt.Correct()
		qs.LastCorrect = &correct
	} else {
		qs.LastAnswerID = nil
	}

	if err := s.store.UpdateSession(ctx, qs, fromIndex, fromPhase); err != nil {
		return nil, err
	}
	return s.view(ctx, qs)
}

func (s *Service) view(ctx context.Context, qs *models.QuizSession) (*models.SessionView, error) {
	v := &models.SessionView{Session: *qs}
	if qs.Status != models.SessionActive {
		return v, nil
	}

	q, err := s.questions.GetQuestion(ctx, qs.QuestionIDs[qs.CurrentIndex])
	if err != nil {
		return nil, err
	}
	practice := q.Practice()
	v.Question = &practice

	if qs.LastCorrect != nil && qs.LastAnswerID != nil {
		fb := &models.SubmitAnswerResponse{
			AnswerID:    *qs.LastAnswerID,
			Correct:     *qs.LastCorrect,
			Explanation: q.Explanation,
			Tips:        q.Tips,
		}
		if correct, ok := q.CorrectOption(); ok {
			fb.CorrectOptionID = correct.ID
		}
		v.Feedback = fb
	}
	return v, nil
}
