package questions

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/studydesk/backend/internal/models"
	"github.com/studydesk/backend/internal/monitoring"
	"go.uber.org/zap"
)

const (
	defaultPracticeLimit = 20
	maxPracticeLimit     = 100
)

// Drafter produces explanation drafts for authored questions.
type Drafter interface {
	DraftExplanation(ctx context.Context, req models.DraftExplanationRequest) (*models.DraftExplanationResponse, error)
}

// Invalidator drops cached per-user views after the user's data changes.
type Invalidator interface {
	InvalidateUser(ctx context.Context, userID int64) error
}

type Service struct {
	store    Store
	drafter  Drafter
	cache    Invalidator
	validate *validator.Validate
	log      *zap.Logger
}

func NewService(store Store, drafter Drafter, cache Invalidator, log *zap.Logger) *Service {
	return &Service{
		store:    store,
		drafter:  drafter,
		cache:    cache,
		validate: validator.New(),
		log:      log,
	}
}

func (s *Service) ListSubjects(ctx context.Context) ([]models.Subject, error) {
	return s.store.ListSubjects(ctx)
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultPracticeLimit
	}
	if limit > maxPracticeLimit {
		return maxPracticeLimit
	}
	return limit
}

// PracticeQuestions lists a subject's questions without revealing answers.
func (s *Service) PracticeQuestions(ctx context.Context, subjectID int64, limit int) ([]models.PracticeQuestion, error) {
	qs, err := s.store.ListQuestions(ctx, &subjectID, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	out := make([]models.PracticeQuestion, len(qs))
	for i := range qs {
		out[i] = qs[i].Practice()
	}
	return out, nil
}

func (s *Service) GetQuestion(ctx context.Context, id int64) (*models.Question, error) {
	return s.store.GetQuestion(ctx, id)
}

// SubmitAnswer records one attempt. Correctness is decided from the stored
// options, never by the client.
func (s *Service) SubmitAnswer(ctx context.Context, userID, questionID, optionID int64, sessionID *string) (*models.SubmitAnswerResponse, error) {
	question, err := s.store.GetQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}
	return s.RecordAnswer(ctx, userID, question, optionID, sessionID)
}

// RecordAnswer is SubmitAnswer for a question the caller already loaded.
func (s *Service) RecordAnswer(ctx context.Context, userID int64, question *models.Question, optionID int64, sessionID *string) (*models.SubmitAnswerResponse, error) {
	if !question.HasOption(optionID) {
		return nil, fmt.Errorf("%w: option %d does not belong to question %d", models.ErrValidation, optionID, question.ID)
	}
	correct, ok := question.CorrectOption()
	if !ok {
		return nil, fmt.Errorf("question %d has no correct option", question.ID)
	}

	answer := &models.Answer{
		UserID:           userID,
		QuestionID:       question.ID,
		SelectedOptionID: optionID,
		IsCorrect:        optionID == correct.ID,
		SessionID:        sessionID,
	}
	if err := s.store.InsertAnswer(ctx, answer); err != nil {
		return nil, err
	}

	monitoring.ObserveAnswer(answer.IsCorrect)
	s.invalidate(ctx, userID)

	return &models.SubmitAnswerResponse{
		AnswerID:        answer.ID,
		Correct:         answer.IsCorrect,
		CorrectOptionID: correct.ID,
		Explanation:     question.Explanation,
		Tips:            question.Tips,
	}, nil
}

// ClassifyAnswer tags a wrong answer with the cause of the error. Repeated
// calls overwrite the previous classification.
func (s *Service) ClassifyAnswer(ctx context.Context, userID, answerID int64, errorType string) (*models.Answer, error) {
	et, err := models.ParseErrorType(errorType)
	if err != nil {
		return nil, err
	}

	answer, err := s.store.GetAnswer(ctx, answerID)
	if err != nil {
		return nil, err
	}
	if answer.UserID != userID {
		return nil, models.ErrForbidden
	}
	if answer.IsCorrect {
		return nil, fmt.Errorf("%w: only incorrect answers can be classified", models.ErrConflict)
	}

	if err := s.store.SetErrorType(ctx, answerID, et); err != nil {
		return nil, err
	}
	answer.ErrorType = &et

	monitoring.ObserveClassification(string(et))
	s.invalidate(ctx, userID)
	return answer, nil
}

func (s *Service) invalidate(ctx context.Context, userID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateUser(ctx, userID); err != nil {
		s.log.Warn("dashboard cache invalidation failed", zap.Int64("user_id", userID), zap.Error(err))
	}
}

// ── Admin ───────────────────────────────────────────────

func (s *Service) ListQuestions(ctx context.Context, subjectID *int64, limit int) ([]models.Question, error) {
	qs, err := s.store.ListQuestions(ctx, subjectID, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	if qs == nil {
		qs = []models.Question{}
	}
	return qs, nil
}

func (s *Service) CreateQuestion(ctx context.Context, req models.CreateQuestionRequest) (*models.Question, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	if req.CorrectOptionIndex >= len(req.Options) {
		return nil, fmt.Errorf("%w: correct_option_index must be between 0 and %d", models.ErrValidation, len(req.Options)-1)
	}

	id, err := s.store.CreateQuestion(ctx, req)
	if err != nil {
		return nil, err
	}
	s.log.Info("question created", zap.Int64("question_id", id), zap.String("subject", req.Subject))
	return s.store.GetQuestion(ctx, id)
}

func (s *Service) DraftExplanation(ctx context.Context, req models.DraftExplanationRequest) (*models.DraftExplanationResponse, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	if s.drafter == nil {
		return nil, errors.New("explanation drafting is not configured")
	}
	return s.drafter.DraftExplanation(ctx, req)
}

// validateRequest runs struct tag validation and reports every failing field.
func (s *Service) validateRequest(req interface{}) error {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", models.ErrValidation, err)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("%w: invalid fields: %s", models.ErrValidation, strings.Join(fields, ", "))
}
