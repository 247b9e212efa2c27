package quiz

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studydesk/backend/internal/models"
)

func TestAttempt_CorrectPath(t *testing.T) {
	a := &Attempt{}
	assert.Equal(t, PhaseIdle, a.Phase())
	assert.False(t, a.Answered())

	require.NoError(t, a.Select(11))
	require.NoError(t, a.Select(12))
	assert.Equal(t, int64(12), a.SelectedOption())

	require.NoError(t, a.Answer(true))
	assert.True(t, a.Answered())

	assert.ErrorIs(t, a.Classify(models.ErrorAttention), ErrInvalidTransition)
	assert.ErrorIs(t, a.SkipClassification(), ErrInvalidTransition)

	require.NoError(t, a.Advance())
	assert.Equal(t, PhaseAdvancing, a.Phase())
}

func TestAttempt_IncorrectClassified(t *testing.T) {
	a := &Attempt{}
	require.NoError(t, a.Select(11))
	require.NoError(t, a.Answer(false))
	require.NoError(t, a.Classify(models.ErrorKnowledge))
	assert.Equal(t, PhaseClassified, a.Phase())
	assert.Equal(t, models.ErrorKnowledge, a.ErrorType())

	assert.ErrorIs(t, a.Classify(models.ErrorAttention), ErrInvalidTransition)
	require.NoError(t, a.Advance())
	assert.Equal(t, PhaseAdvancing, a.Phase())
}

func TestAttempt_IncorrectSkipped(t *testing.T) {
	a := &Attempt{}
	require.NoError(t, a.Select(11))
	require.NoError(t, a.Answer(false))
	require.NoError(t, a.SkipClassification())
	assert.Equal(t, PhaseUnclassified, a.Phase())
	require.NoError(t, a.Advance())
}

func TestAttempt_AdvanceFromWrongAnswerPassesUnclassified(t *testing.T) {
	a := &Attempt{}
	require.NoError(t, a.Select(11))
	require.NoError(t, a.Answer(false))
	require.NoError(t, a.Advance())
	assert.Equal(t, PhaseAdvancing, a.Phase())
	assert.Empty(t, a.ErrorType())
}

func TestAttempt_InvalidTransitions(t *testing.T) {
	tests := []struct {
		name  string
		setup func(a *Attempt)
		event func(a *Attempt) error
	}{
		{"answer while idle", func(a *Attempt) {}, func(a *Attempt) error { return a.Answer(true) }},
		{"advance while idle", func(a *Attempt) {}, func(a *Attempt) error { return a.Advance() }},
		{"classify while idle", func(a *Attempt) {}, func(a *Attempt) error { return a.Classify(models.ErrorAttention) }},
		{"advance while selected", func(a *Attempt) { a.Select(1) }, func(a *Attempt) error { return a.Advance() }},
		{"select after answer", func(a *Attempt) { a.Select(1); a.Answer(false) }, func(a *Attempt) error { return a.Select(2) }},
		{"answer twice", func(a *Attempt) { a.Select(1); a.Answer(false) }, func(a *Attempt) error { return a.Answer(true) }},
		{"advance twice", func(a *Attempt) { a.Select(1); a.Answer(true); a.Advance() }, func(a *Attempt) error { return a.Advance() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Attempt{}
			tt.setup(a)
			before := a.Phase()

			err := tt.event(a)
			assert.True(t, errors.Is(err, ErrInvalidTransition), "got %v", err)
			assert.Equal(t, before, a.Phase(), "phase must not change on a rejected event")
		})
	}
}

func TestRestore(t *testing.T) {
	opt := int64(5)
	wrong := false

	a, err := Restore("", nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, PhaseIdle, a.Phase())

	a, err = Restore(PhaseSelected, &opt, nil, nil)
	require.NoError(t, err)
	require.NoError(t, a.Answer(false))

	a, err = Restore(PhaseAnswered, &opt, &wrong, nil)
	require.NoError(t, err)
	require.NoError(t, a.Classify(models.ErrorAttention))

	_, err = Restore(PhaseAnswered, &opt, nil, nil)
	assert.Error(t, err)
	_, err = Restore(PhaseSelected, nil, nil, nil)
	assert.Error(t, err)
	_, err = Restore("bogus", &opt, &wrong, nil)
	assert.Error(t, err)
}

func TestRestoreKeepsClassification(t *testing.T) {
	opt := int64(5)
	wrong := false
	right := true
	knowledge := models.ErrorKnowledge

	a, err := Restore(PhaseClassified, &opt, &wrong, &knowledge)
	require.NoError(t, err)
	assert.Equal(t, models.ErrorKnowledge, a.ErrorType())
	require.NoError(t, a.Advance())
	assert.Equal(t, models.ErrorKnowledge, a.ErrorType())

	a, err = Restore(PhaseAdvancing, &opt, &wrong, &knowledge)
	require.NoError(t, err)
	assert.Equal(t, models.ErrorKnowledge, a.ErrorType())

	a, err = Restore(PhaseAdvancing, &opt, &right, &knowledge)
	require.NoError(t, err)
	assert.Empty(t, a.ErrorType())

	_, err = Restore(PhaseClassified, &opt, &wrong, nil)
	assert.Error(t, err)
}
