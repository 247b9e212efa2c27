// Package review turns a user's wrong answers into a deduplicated list of
// questions to revisit.
package review

import (
	"github.com/studydesk/backend/internal/groupby"
	"github.com/studydesk/backend/internal/models"
)

// errorTypeOrder fixes the serialization order of ReviewQuestion.ErrorTypes.
var errorTypeOrder = []models.ErrorType{models.ErrorAttention, models.ErrorKnowledge}

// Aggregate groups incorrect answers by question. The input must be ordered
// most recent first; the output keeps that order by first appearance, so the
// most recently missed question comes first. Answers whose question failed to
// load are dropped.
func Aggregate(answers []models.IncorrectAnswer) ([]models.ReviewQuestion, models.ReviewSummary) {
	loaded := make([]models.IncorrectAnswer, 0, len(answers))
	for _, a := range answers {
		if a.Question != nil {
			loaded = append(loaded, a)
		}
	}

	groups := groupby.Ordered(loaded, func(a models.IncorrectAnswer) int64 { return a.Question.ID })

	summary := models.ReviewSummary{
		TotalAnswers:      len(loaded),
		DistinctQuestions: len(groups),
	}
	out := make([]models.ReviewQuestion, 0, len(groups))

	for _, g := range groups {
		latest := g.Items[0]
		q := latest.Question

		seen := make(map[models.ErrorType]bool, len(errorTypeOrder))
		for _, a := range g.Items {
			if a.ErrorType == nil {
				summary.Unclassified++
				continue
			}
			seen[*a.ErrorType] = true
			switch *a.ErrorType {
			case models.ErrorAttention:
				summary.Attention++
			case models.ErrorKnowledge:
				summary.Knowledge++
			}
		}

		types := make([]models.ErrorType, 0, len(seen))
		for _, et := range errorTypeOrder {
			if seen[et] {
				types = append(types, et)
			}
		}

		out = append(out, models.ReviewQuestion{
			QuestionID:           q.ID,
			Statement:            q.Statement,
			Explanation:          q.Explanation,
			SubjectName:          q.SubjectName,
			TopicName:            q.TopicName,
			Options:              q.Options,
			ErrorCount:           len(g.Items),
			ErrorTypes:           types,
			LastAnsweredAt:       latest.CreatedAt,
			LastSelectedOptionID: latest.SelectedOptionID,
		})
	}

	return out, summary
}
