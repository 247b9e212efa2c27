package models

import "time"

type EntryType string

const (
	EntryHighlight EntryType = "highlight"
	EntryUserNote  EntryType = "user_note"
)

// UnassignedSubject is the bucket name for entries without a subject.
const UnassignedSubject = "Sem Matéria"

type NotebookEntry struct {
	ID                int64     `json:"id"`
	UserID            int64     `json:"-"`
	SubjectID         *int64    `json:"subject_id,omitempty"`
	SubjectName       *string   `json:"subject_name,omitempty"`
	Content           string    `json:"content"`
	EntryType         EntryType `json:"entry_type"`
	SourceQuestionID  *int64    `json:"source_question_id,omitempty"`
	QuestionStatement *string   `json:"question_statement,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

type CreateHighlightRequest struct {
	QuestionID int64  `json:"question_id" validate:"required,gt=0"`
	SubjectID  int64  `json:"subject_id" validate:"omitempty,gt=0"`
	Text       string `json:"text" validate:"required,max=4000"`
}

type CreateNoteRequest struct {
	SubjectID int64  `json:"subject_id" validate:"required,gt=0"`
	Content   string `json:"content" validate:"required,max=10000"`
}

type NotebookGroup struct {
	Subject string          `json:"subject"`
	Entries []NotebookEntry `json:"entries"`
}

type NotebookCounts struct {
	Total      int `json:"total"`
	Highlights int `json:"highlights"`
	Notes      int `json:"notes"`
	Subjects   int `json:"subjects"`
}

type NotebookResponse struct {
	Groups []NotebookGroup `json:"groups"`
	Counts NotebookCounts  `json:"counts"`
}
