package models

import "time"

// IncorrectAnswer is one wrong answer joined with its question. Question is
// nil when the join failed upstream.
type IncorrectAnswer struct {
	AnswerID         int64
	ErrorType        *ErrorType
	SelectedOptionID int64
	CreatedAt        time.Time
	Question         *Question
}

type ReviewQuestion struct {
	QuestionID           int64       `json:"question_id"`
	Statement            string      `json:"statement"`
	Explanation          *string     `json:"explanation"`
	SubjectName          string      `json:"subject_name"`
	TopicName            string      `json:"topic_name"`
	Options              []Option    `json:"options"`
	ErrorCount           int         `json:"error_count"`
	ErrorTypes           []ErrorType `json:"error_types"`
	LastAnsweredAt       time.Time   `json:"last_answered_at"`
	LastSelectedOptionID int64       `json:"last_selected_option_id"`
}

type ReviewSummary struct {
	TotalAnswers      int `json:"total_answers"`
	DistinctQuestions int `json:"distinct_questions"`
	Attention         int `json:"attention"`
	Knowledge         int `json:"knowledge"`
	Unclassified      int `json:"unclassified"`
}

type ReviewResponse struct {
	Questions []ReviewQuestion `json:"questions"`
	Summary   ReviewSummary    `json:"summary"`
	Filtered  bool             `json:"filtered"`
}
