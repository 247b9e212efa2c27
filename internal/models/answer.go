package models

import (
	"fmt"
	"time"
)

type ErrorType string

const (
	ErrorAttention ErrorType = "attention"
	ErrorKnowledge ErrorType = "knowledge"
)

// ParseErrorType accepts only the two user-assignable classifications.
func ParseErrorType(s string) (ErrorType, error) {
	switch ErrorType(s) {
	case ErrorAttention, ErrorKnowledge:
		return ErrorType(s), nil
	}
	return "", fmt.Errorf("%w: error_type must be 'attention' or 'knowledge'", ErrValidation)
}

type Answer struct {
	ID               int64      `json:"id"`
	UserID           int64      `json:"user_id"`
	QuestionID       int64      `json:"question_id"`
	SelectedOptionID int64      `json:"selected_option_id"`
	IsCorrect        bool       `json:"is_correct"`
	ErrorType        *ErrorType `json:"error_type"`
	SessionID        *string    `json:"session_id,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

type SubmitAnswerRequest struct {
	SelectedOptionID int64 `json:"selected_option_id"`
}

type SubmitAnswerResponse struct {
	AnswerID        int64   `json:"answer_id"`
	Correct         bool    `json:"correct"`
	CorrectOptionID int64   `json:"correct_option_id"`
	Explanation     *string `json:"explanation,omitempty"`
	Tips            *string `json:"tips,omitempty"`
}

type ClassifyRequest struct {
	ErrorType string `json:"error_type"`
}
