package review

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studydesk/backend/internal/models"
)

func errType(et models.ErrorType) *models.ErrorType { return &et }

func question(id, subjectID int64, subject string) *models.Question {
	return &models.Question{
		ID:          id,
		SubjectID:   subjectID,
		SubjectName: subject,
		TopicName:   "Topic " + subject,
		Statement:   "Statement",
		Options: []models.Option{
			{ID: id*10 + 1, QuestionID: id, Text: "A", IsCorrect: true, Position: 0},
			{ID: id*10 + 2, QuestionID: id, Text: "B", Position: 1},
		},
	}
}

var base = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// sample is ordered most recent first.
func sample() []models.IncorrectAnswer {
	q1 := question(1, 100, "Direito")
	q2 := question(2, 200, "Português")
	return []models.IncorrectAnswer{
		{AnswerID: 5, ErrorType: errType(models.ErrorKnowledge), SelectedOptionID: 12, CreatedAt: base.Add(5 * time.Minute), Question: q1},
		{AnswerID: 4, ErrorType: nil, SelectedOptionID: 22, CreatedAt: base.Add(4 * time.Minute), Question: q2},
		{AnswerID: 3, ErrorType: errType(models.ErrorAttention), SelectedOptionID: 12, CreatedAt: base.Add(3 * time.Minute), Question: q1},
		{AnswerID: 2, ErrorType: errType(models.ErrorAttention), SelectedOptionID: 12, CreatedAt: base.Add(2 * time.Minute), Question: q1},
		{AnswerID: 1, ErrorType: errType(models.ErrorAttention), SelectedOptionID: 22, CreatedAt: base.Add(time.Minute), Question: q2},
	}
}

func TestAggregate_ThreeAnswersSameQuestion(t *testing.T) {
	q := question(7, 1, "Matemática")
	answers := []models.IncorrectAnswer{
		{AnswerID: 3, ErrorType: errType(models.ErrorKnowledge), CreatedAt: base.Add(2 * time.Minute), Question: q},
		{AnswerID: 2, ErrorType: nil, CreatedAt: base.Add(time.Minute), Question: q},
		{AnswerID: 1, ErrorType: errType(models.ErrorAttention), CreatedAt: base, Question: q},
	}

	out, summary := Aggregate(answers)

	require.Len(t, out, 1)
	assert.Equal(t, int64(7), out[0].QuestionID)
	assert.Equal(t, 3, out[0].ErrorCount)
	assert.Equal(t, []models.ErrorType{models.ErrorAttention, models.ErrorKnowledge}, out[0].ErrorTypes)
	assert.Equal(t, base.Add(2*time.Minute), out[0].LastAnsweredAt)
	assert.Equal(t, 1, summary.Unclassified)
	assert.Equal(t, 1, summary.Attention)
	assert.Equal(t, 1, summary.Knowledge)
}

func TestAggregate_Invariants(t *testing.T) {
	answers := sample()
	out, summary := Aggregate(answers)

	distinct := map[int64]bool{}
	for _, a := range answers {
		distinct[a.Question.ID] = true
	}
	assert.Len(t, out, len(distinct))
	assert.Equal(t, len(distinct), summary.DistinctQuestions)

	total := 0
	for _, rq := range out {
		total += rq.ErrorCount

		assigned := map[models.ErrorType]bool{}
		allUnclassified := true
		for _, a := range answers {
			if a.Question.ID != rq.QuestionID || a.ErrorType == nil {
				continue
			}
			assigned[*a.ErrorType] = true
			allUnclassified = false
		}
		for _, et := range rq.ErrorTypes {
			assert.True(t, assigned[et], "error type %s not assigned to question %d", et, rq.QuestionID)
		}
		assert.Equal(t, allUnclassified, len(rq.ErrorTypes) == 0)
	}
	assert.Equal(t, len(answers), total)
	assert.Equal(t, len(answers), summary.TotalAnswers)
	assert.Equal(t, summary.TotalAnswers, summary.Attention+summary.Knowledge+summary.Unclassified)
}

func TestAggregate_MostRecentFirst(t *testing.T) {
	out, _ := Aggregate(sample())

	require.Len(t, out, 2)
	assert.Equal(t, int64(1), out[0].QuestionID)
	assert.Equal(t, int64(2), out[1].QuestionID)

	assert.Equal(t, 3, out[0].ErrorCount)
	assert.Equal(t, base.Add(5*time.Minute), out[0].LastAnsweredAt)
	assert.Equal(t, []models.ErrorType{models.ErrorAttention, models.ErrorKnowledge}, out[0].ErrorTypes)

	assert.Equal(t, 2, out[1].ErrorCount)
	assert.Equal(t, int64(22), out[1].LastSelectedOptionID)
	assert.Equal(t, []models.ErrorType{models.ErrorAttention}, out[1].ErrorTypes)
	assert.Equal(t, "Português", out[1].SubjectName)
	assert.Len(t, out[1].Options, 2)
}

func TestAggregate_Idempotent(t *testing.T) {
	answers := sample()

	first, s1 := Aggregate(answers)
	second, s2 := Aggregate(answers)

	b1, err := json.Marshal(first)
	require.NoError(t, err)
	b2, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(b1), string(b2))
	assert.Equal(t, s1, s2)
}

func TestAggregate_Empty(t *testing.T) {
	out, summary := Aggregate(nil)

	assert.NotNil(t, out)
	assert.Empty(t, out)
	assert.Equal(t, models.ReviewSummary{}, summary)

	b, err := json.Marshal(out)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(b))
}

func TestAggregate_SkipsMissingQuestions(t *testing.T) {
	answers := sample()
	answers = append(answers, models.IncorrectAnswer{AnswerID: 99, CreatedAt: base, Question: nil})

	out, summary := Aggregate(answers)

	assert.Len(t, out, 2)
	assert.Equal(t, 5, summary.TotalAnswers)
}

func TestAggregate_UnclassifiedFilterYieldsNoErrorTypes(t *testing.T) {
	f, err := ParseFilter("", "unclassified")
	require.NoError(t, err)

	var filtered []models.IncorrectAnswer
	for _, a := range sample() {
		if f.Matches(a) {
			filtered = append(filtered, a)
		}
	}

	out, summary := Aggregate(filtered)
	require.Len(t, out, 1)
	assert.Equal(t, int64(2), out[0].QuestionID)
	assert.Empty(t, out[0].ErrorTypes)
	assert.Equal(t, 1, summary.Unclassified)
}

func TestAggregate_EmptyErrorTypesSerializeAsArray(t *testing.T) {
	q := question(3, 1, "Direito")
	out, _ := Aggregate([]models.IncorrectAnswer{{AnswerID: 1, CreatedAt: base, Question: q}})

	b, err := json.Marshal(out[0])
	require.NoError(t, err)
	assert.Contains(t, string(b), `"error_types":[]`)
}
