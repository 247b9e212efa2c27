package questions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studydesk/backend/internal/generator"
	"github.com/studydesk/backend/internal/models"
	"go.uber.org/zap"
)

type fakeStore struct {
	questions map[int64]*models.Question
	answers   map[int64]*models.Answer
	created   []models.CreateQuestionRequest
	nextID    int64
}

func newFakeStore() *fakeStore {
	explanation := "Brasília é a capital desde 1960."
	return &fakeStore{
		questions: map[int64]*models.Question{
			1: {
				ID: 1, SubjectID: 10, SubjectName: "Geografia", TopicName: "Capitais",
				Statement: "Qual é a capital do Brasil?", Explanation: &explanation,
				Options: []models.Option{
					{ID: 11, QuestionID: 1, Text: "São Paulo"},
					{ID: 12, QuestionID: 1, Text: "Brasília", IsCorrect: true},
				},
			},
		},
		answers: map[int64]*models.Answer{},
	}
}

func (f *fakeStore) ListSubjects(context.Context) ([]models.Subject, error) {
	return []models.Subject{{ID: 10, Name: "Geografia"}}, nil
}

func (f *fakeStore) ListQuestions(_ context.Context, subjectID *int64, limit int) ([]models.Question, error) {
	var out []models.Question
	for _, q := range f.questions {
		if subjectID == nil || q.SubjectID == *subjectID {
			out = append(out, *q)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeStore) GetQuestion(_ context.Context, id int64) (*models.Question, error) {
	q, ok := f.questions[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *q
	return &cp, nil
}

func (f *fakeStore) InsertAnswer(_ context.Context, a *models.Answer) error {
	f.nextID++
	a.ID = f.nextID
	a.CreatedAt = time.Now()
	cp := *a
	f.answers[a.ID] = &cp
	return nil
}

func (f *fakeStore) GetAnswer(_ context.Context, id int64) (*models.Answer, error) {
	a, ok := f.answers[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeStore) SetErrorType(_ context.Context, id int64, et models.ErrorType) error {
	a, ok := f.answers[id]
	if !ok {
		return models.ErrNotFound
	}
	a.ErrorType = &et
	return nil
}

func (f *fakeStore) CreateQuestion(_ context.Context, req models.CreateQuestionRequest) (int64, error) {
	f.created = append(f.created, req)
	id := int64(100 + len(f.created))
	q := &models.Question{ID: id, SubjectName: req.Subject, TopicName: req.Topic, Statement: req.Statement}
	for i, text := range req.Options {
		q.Options = append(q.Options, models.Option{ID: id*10 + int64(i), QuestionID: id, Text: text, IsCorrect: i == req.CorrectOptionIndex, Position: i})
	}
	f.questions[id] = q
	return id, nil
}

type countingCache struct {
	invalidated []int64
}

func (c *countingCache) InvalidateUser(_ context.Context, userID int64) error {
	c.invalidated = append(c.invalidated, userID)
	return nil
}

func newTestService(store Store, cache Invalidator) *Service {
	return NewService(store, generator.New(generator.NewMockClient(), "mock"), cache, zap.NewNop())
}

func TestSubmitAnswer_ComputesCorrectness(t *testing.T) {
	store := newFakeStore()
	cache := &countingCache{}
	svc := newTestService(store, cache)
	ctx := context.Background()

	resp, err := svc.SubmitAnswer(ctx, 7, 1, 11, nil)
	require.NoError(t, err)
	assert.False(t, resp.Correct)
	assert.Equal(t, int64(12), resp.CorrectOptionID)
	require.NotNil(t, resp.Explanation)
	assert.False(t, store.answers[resp.AnswerID].IsCorrect)

	resp, err = svc.SubmitAnswer(ctx, 7, 1, 12, nil)
	require.NoError(t, err)
	assert.True(t, resp.Correct)

	assert.Equal(t, []int64{7, 7}, cache.invalidated)
}

func TestSubmitAnswer_Errors(t *testing.T) {
	svc := newTestService(newFakeStore(), nil)
	ctx := context.Background()

	_, err := svc.SubmitAnswer(ctx, 7, 99, 11, nil)
	assert.True(t, errors.Is(err, models.ErrNotFound))

	_, err = svc.SubmitAnswer(ctx, 7, 1, 999, nil)
	assert.True(t, errors.Is(err, models.ErrValidation))
}

func TestClassifyAnswer(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, nil)
	ctx := context.Background()

	wrong, err := svc.SubmitAnswer(ctx, 7, 1, 11, nil)
	require.NoError(t, err)
	right, err := svc.SubmitAnswer(ctx, 7, 1, 12, nil)
	require.NoError(t, err)

	a, err := svc.ClassifyAnswer(ctx, 7, wrong.AnswerID, "attention")
	require.NoError(t, err)
	assert.Equal(t, models.ErrorAttention, *a.ErrorType)

	a, err = svc.ClassifyAnswer(ctx, 7, wrong.AnswerID, "knowledge")
	require.NoError(t, err)
	assert.Equal(t, models.ErrorKnowledge, *a.ErrorType)
	assert.Equal(t, models.ErrorKnowledge, *store.answers[wrong.AnswerID].ErrorType)

	tests := []struct {
		name      string
		userID    int64
		answerID  int64
		errorType string
		want      error
	}{
		{"bad type", 7, wrong.AnswerID, "careless", models.ErrValidation},
		{"other user", 8, wrong.AnswerID, "attention", models.ErrForbidden},
		{"correct answer", 7, right.AnswerID, "attention", models.ErrConflict},
		{"missing answer", 7, 999, "attention", models.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ClassifyAnswer(ctx, tt.userID, tt.answerID, tt.errorType)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestPracticeQuestions_HidesCorrectness(t *testing.T) {
	svc := newTestService(newFakeStore(), nil)

	qs, err := svc.PracticeQuestions(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, qs, 1)
	assert.Len(t, qs[0].Options, 2)
	assert.Equal(t, "Brasília", qs[0].Options[1].Text)
}

func validCreateRequest() models.CreateQuestionRequest {
	return models.CreateQuestionRequest{
		Subject:            "Direito Constitucional",
		Topic:              "Direitos Fundamentais",
		Statement:          "A casa é asilo inviolável do indivíduo?",
		Options:            []string{"Certo", "Errado"},
		CorrectOptionIndex: 0,
		Banca:              "CESPE",
		Ano:                2023,
	}
}

func TestCreateQuestion(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, nil)

	q, err := svc.CreateQuestion(context.Background(), validCreateRequest())
	require.NoError(t, err)
	require.Len(t, store.created, 1)

	correct, ok := q.CorrectOption()
	require.True(t, ok)
	assert.Equal(t, "Certo", correct.Text)
}

func TestCreateQuestion_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.CreateQuestionRequest)
	}{
		{"missing subject", func(r *models.CreateQuestionRequest) { r.Subject = "" }},
		{"missing statement", func(r *models.CreateQuestionRequest) { r.Statement = "" }},
		{"one option", func(r *models.CreateQuestionRequest) { r.Options = []string{"Certo"} }},
		{"blank option", func(r *models.CreateQuestionRequest) { r.Options = []string{"Certo", ""} }},
		{"index out of range", func(r *models.CreateQuestionRequest) { r.CorrectOptionIndex = 2 }},
		{"negative index", func(r *models.CreateQuestionRequest) { r.CorrectOptionIndex = -1 }},
		{"bad year", func(r *models.CreateQuestionRequest) { r.Ano = 1200 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			svc := newTestService(store, nil)
			req := validCreateRequest()
			tt.mutate(&req)

			_, err := svc.CreateQuestion(context.Background(), req)
			assert.True(t, errors.Is(err, models.ErrValidation), "got %v", err)
			assert.Empty(t, store.created)
		})
	}
}

func TestDraftExplanation(t *testing.T) {
	svc := newTestService(newFakeStore(), nil)

	draft, err := svc.DraftExplanation(context.Background(), models.DraftExplanationRequest{
		Statement:          "Enunciado",
		Options:            []string{"Certo", "Errado"},
		CorrectOptionIndex: 1,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, draft.Explanation)
	assert.Equal(t, "mock", draft.Model)

	_, err = svc.DraftExplanation(context.Background(), models.DraftExplanationRequest{Statement: "x"})
	assert.True(t, errors.Is(err, models.ErrValidation))
}
