// Package quiz runs question sessions. Each question attempt is driven by an
// explicit state machine.
package quiz

import (
	"fmt"

	"github.com/studydesk/backend/internal/models"
)

// Phase is the state of a single question attempt.
type Phase string

const (
	PhaseIdle         Phase = "idle"         // No option selected yet
	PhaseSelected     Phase = "selected"     // Option chosen, not submitted
	PhaseAnswered     Phase = "answered"     // Submitted, feedback shown
	PhaseClassified   Phase = "classified"   // Wrong answer tagged with an error type
	PhaseUnclassified Phase = "unclassified" // Wrong answer left untagged
	PhaseAdvancing    Phase = "advancing"    // Ready for the next question
)

// ErrInvalidTransition is a conflict: the event is not allowed in the
// attempt's current phase.
var ErrInvalidTransition = fmt.Errorf("%w: invalid transition", models.ErrConflict)

// Attempt tracks one question attempt. The zero value is an idle attempt.
type Attempt struct {
	phase     Phase
	selected  int64
	correct   bool
	errorType models.ErrorType
}

// Restore rebuilds an attempt from persisted fields. errorType is required
// for a classified attempt and kept for an advancing one.
func Restore(phase Phase, selected *int64, correct *bool, errorType *models.ErrorType) (*Attempt, error) {
	a := &Attempt{phase: phase}
	switch phase {
	case "", PhaseIdle:
		a.phase = PhaseIdle
		return a, nil
	case PhaseSelected, PhaseAnswered, PhaseClassified, PhaseUnclassified, PhaseAdvancing:
	default:
		return nil, fmt.Errorf("unknown phase %q", phase)
	}

	if selected == nil {
		return nil, fmt.Errorf("phase %s requires a selected option", phase)
	}
	a.selected = *selected

	if phase != PhaseSelected {
		if correct == nil {
			return nil, fmt.Errorf("phase %s requires an answer result", phase)
		}
		a.correct = *correct
	}

	switch {
	case phase == PhaseClassified && errorType == nil:
		return nil, fmt.Errorf("phase %s requires an error type", phase)
	case errorType != nil && !a.correct && (phase == PhaseClassified || phase == PhaseAdvancing):
		a.errorType = *errorType
	}
	return a, nil
}

func (a *Attempt) Phase() Phase                { return a.phase }
func (a *Attempt) SelectedOption() int64       { return a.selected }
func (a *Attempt) Correct() bool               { return a.correct }
func (a *Attempt) ErrorType() models.ErrorType { return a.errorType }

// Answered reports whether the attempt has been submitted.
func (a *Attempt) Answered() bool {
	switch a.phase {
	case PhaseAnswered, PhaseClassified, PhaseUnclassified, PhaseAdvancing:
		return true
	}
	return false
}

func (a *Attempt) invalid(event string) error {
	return fmt.Errorf("%w: %s while %s", ErrInvalidTransition, event, a.phase)
}

// Select chooses an option. Changing the choice is allowed until submission.
func (a *Attempt) Select(optionID int64) error {
	if a.phase != PhaseIdle && a.phase != PhaseSelected {
		return a.invalid("select")
	}
	a.selected = optionID
	a.phase = PhaseSelected
	return nil
}

// Answer records the graded result of the selected option.
func (a *Attempt) Answer(correct bool) error {
	if a.phase != PhaseSelected {
		return a.invalid("answer")
	}
	a.correct = correct
	a.phase = PhaseAnswered
	return nil
}

func (a *Attempt) Classify(et models.ErrorType) error {
	if a.phase != PhaseAnswered || a.correct {
		return a.invalid("classify")
	}
	a.errorType = et
	a.phase = PhaseClassified
	return nil
}

func (a *Attempt) SkipClassification() error {
	if a.phase != PhaseAnswered || a.correct {
		return a.invalid("skip classification")
	}
	a.phase = PhaseUnclassified
	return nil
}

// Advance moves to the advancing phase. An unclassified wrong answer is
// marked unclassified on the way.
func (a *Attempt) Advance() error {
	switch a.phase {
	case PhaseClassified, PhaseUnclassified:
	case PhaseAnswered:
		if !a.correct {
			a.phase = PhaseUnclassified
		}
	default:
		return a.invalid("advance")
	}
	a.phase = PhaseAdvancing
	return nil
}
