// Package stats computes accuracy figures for the dashboard.
package stats

import (
	"sort"

	"github.com/studydesk/backend/internal/groupby"
	"github.com/studydesk/backend/internal/models"
)

// Percent returns round-half-up(100 * correct / total), or 0 when total is 0.
func Percent(correct, total int) int {
	if total <= 0 || correct <= 0 {
		return 0
	}
	return (200*correct + total) / (2 * total)
}

// SessionTally is the score of one completed quiz session.
type SessionTally struct {
	Score          int
	TotalQuestions int
}

// SummarizeSessions folds completed sessions into overall accuracy.
func SummarizeSessions(tallies []SessionTally) models.SessionSummaryResponse {
	var correct, total int
	for _, t := range tallies {
		correct += t.Score
		total += t.TotalQuestions
	}
	return models.SessionSummaryResponse{
		TotalQuestionsAnswered: total,
		OverallAccuracy:        Percent(correct, total),
		TotalSessions:          len(tallies),
	}
}

// Outcome is one answered question reduced to what accuracy needs. SubjectID
// is zero when the question's subject could not be loaded.
type Outcome struct {
	SubjectID   int64
	SubjectName string
	Correct     bool
}

// Performance returns overall accuracy and the per-subject breakdown.
// Answers without a subject count towards the total only.
func Performance(outcomes []Outcome) models.PerformanceResponse {
	resp := models.PerformanceResponse{
		TotalAnswers:    len(outcomes),
		SubjectAccuracy: []models.SubjectAccuracy{},
	}
	if len(outcomes) == 0 {
		return resp
	}

	correct := 0
	for _, o := range outcomes {
		if o.Correct {
			correct++
		}
	}
	resp.OverallAccuracy = Percent(correct, len(outcomes))
	resp.SubjectAccuracy = BySubject(outcomes)
	return resp
}

// BySubject returns accuracy for every subject with at least one answer,
// sorted by accuracy descending and then by name.
func BySubject(outcomes []Outcome) []models.SubjectAccuracy {
	withSubject := make([]Outcome, 0, len(outcomes))
	for _, o := range outcomes {
		if o.SubjectID != 0 {
			withSubject = append(withSubject, o)
		}
	}

	groups := groupby.Ordered(withSubject, func(o Outcome) int64 { return o.SubjectID })
	out := make([]models.SubjectAccuracy, 0, len(groups))
	for _, g := range groups {
		sa := models.SubjectAccuracy{
			SubjectID: g.Key,
			Name:      g.Items[0].SubjectName,
			Answered:  len(g.Items),
		}
		for _, o := range g.Items {
			if o.Correct {
				sa.Correct++
			}
		}
		sa.Accuracy = Percent(sa.Correct, sa.Answered)
		sa.Band = string(AccuracyBand(sa.Accuracy))
		out = append(out, sa)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Accuracy != out[j].Accuracy {
			return out[i].Accuracy > out[j].Accuracy
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// ErrorRates derives the per-subject error-rate bars from the accuracy breakdown.
func ErrorRates(subjects []models.SubjectAccuracy) []models.SubjectErrorRate {
	out := make([]models.SubjectErrorRate, 0, len(subjects))
	for _, s := range subjects {
		incorrect := s.Answered - s.Correct
		rate := Percent(incorrect, s.Answered)
		out = append(out, models.SubjectErrorRate{
			SubjectID: s.SubjectID,
			Name:      s.Name,
			Answered:  s.Answered,
			Incorrect: incorrect,
			ErrorRate: rate,
			Severity:  string(ErrorSeverity(rate)),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ErrorRate != out[j].ErrorRate {
			return out[i].ErrorRate > out[j].ErrorRate
		}
		return out[i].Name < out[j].Name
	})
	return out
}
