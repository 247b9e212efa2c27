package models

import "time"

type SubjectAccuracy struct {
	SubjectID int64  `json:"subject_id"`
	Name      string `json:"name"`
	Answered  int    `json:"answered"`
	Correct   int    `json:"correct"`
	Accuracy  int    `json:"accuracy"`
	Band      string `json:"band"`
}

type PerformanceResponse struct {
	TotalAnswers    int               `json:"total_answers"`
	OverallAccuracy int               `json:"overall_accuracy"`
	SubjectAccuracy []SubjectAccuracy `json:"subject_accuracy"`
}

type SessionSummaryResponse struct {
	TotalQuestionsAnswered int `json:"total_questions_answered"`
	OverallAccuracy        int `json:"overall_accuracy"`
	TotalSessions          int `json:"total_sessions"`
}

type RecentSession struct {
	ID             string    `json:"id"`
	SubjectName    *string   `json:"subject_name,omitempty"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	Accuracy       int       `json:"accuracy"`
	CompletedAt    time.Time `json:"completed_at"`
}

type SubjectStat struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	QuestionCount   int    `json:"question_count"`
	SessionCount    int    `json:"session_count"`
	AverageAccuracy int    `json:"average_accuracy"`
	Band            string `json:"band,omitempty"`
}

type SubjectErrorRate struct {
	SubjectID int64  `json:"subject_id"`
	Name      string `json:"name"`
	Answered  int    `json:"answered"`
	Incorrect int    `json:"incorrect"`
	ErrorRate int    `json:"error_rate"`
	Severity  string `json:"severity"`
}
