package models

import "time"

type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionCompleted SessionStatus = "completed"
	SessionAbandoned SessionStatus = "abandoned"
)

type QuizSession struct {
	ID               string        `json:"id"`
	UserID           int64         `json:"-"`
	SubjectID        *int64        `json:"subject_id,omitempty"`
	QuestionIDs      []int64       `json:"question_ids"`
	CurrentIndex     int           `json:"current_index"`
	Phase            string        `json:"phase"`
	SelectedOptionID *int64        `json:"selected_option_id,omitempty"`
	LastAnswerID     *int64        `json:"last_answer_id,omitempty"`
	LastCorrect      *bool         `json:"last_correct,omitempty"`
	LastErrorType    *ErrorType    `json:"last_error_type,omitempty"`
	Score            int           `json:"score"`
	TotalQuestions   int           `json:"total_questions"`
	Status           SessionStatus `json:"status"`
	StartedAt        time.Time     `json:"started_at"`
	CompletedAt      *time.Time    `json:"completed_at,omitempty"`
}

type StartSessionRequest struct {
	SubjectID *int64 `json:"subject_id"`
	Count     int    `json:"count"`
}

type SelectOptionRequest struct {
	OptionID int64 `json:"option_id"`
}

// SessionView is what the quiz client renders: the session plus the current
// question, and the answer feedback once the current question is answered.
type SessionView struct {
	Session  QuizSession           `json:"session"`
	Question *PracticeQuestion     `json:"question,omitempty"`
	Feedback *SubmitAnswerResponse `json:"feedback,omitempty"`
}
