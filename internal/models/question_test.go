package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleQuestion() *Question {
	return &Question{
		ID:        3,
		SubjectID: 1,
		TopicName: "Crase",
		Statement: "Assinale a alternativa correta.",
		Options: []Option{
			{ID: 10, Text: "A", IsCorrect: false},
			{ID: 11, Text: "B", IsCorrect: true},
		},
	}
}

func TestQuestionOptions(t *testing.T) {
	q := sampleQuestion()

	correct, ok := q.CorrectOption()
	require.True(t, ok)
	assert.Equal(t, int64(11), correct.ID)

	assert.True(t, q.HasOption(10))
	assert.False(t, q.HasOption(99))

	_, ok = (&Question{}).CorrectOption()
	assert.False(t, ok)
}

func TestPracticeHidesCorrectness(t *testing.T) {
	data, err := json.Marshal(sampleQuestion().Practice())
	require.NoError(t, err)
	assert.NotContains(t, string(data), "is_correct")
	assert.Contains(t, string(data), `"option_text":"B"`)
}
