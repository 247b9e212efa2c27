package models

import "time"

type Subject struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Option struct {
	ID         int64  `json:"id"`
	QuestionID int64  `json:"question_id"`
	Text       string `json:"option_text"`
	IsCorrect  bool   `json:"is_correct"`
	Position   int    `json:"position"`
}

// ExamMeta describes where a question was originally applied.
type ExamMeta struct {
	Banca *string `json:"banca,omitempty"`
	Ano   *int    `json:"ano,omitempty"`
	Orgao *string `json:"orgao,omitempty"`
	Cargo *string `json:"cargo,omitempty"`
}

type Question struct {
	ID          int64     `json:"id"`
	SubjectID   int64     `json:"subject_id"`
	SubjectName string    `json:"subject_name"`
	TopicID     int64     `json:"topic_id"`
	TopicName   string    `json:"topic_name"`
	Statement   string    `json:"statement"`
	Explanation *string   `json:"explanation,omitempty"`
	Tips        *string   `json:"tips,omitempty"`
	ExamMeta
	Options   []Option  `json:"options"`
	CreatedAt time.Time `json:"created_at"`
}

// CorrectOption returns the first option flagged as correct.
func (q *Question) CorrectOption() (Option, bool) {
	for _, o := range q.Options {
		if o.IsCorrect {
			return o, true
		}
	}
	return Option{}, false
}

// HasOption reports whether optionID belongs to the question.
func (q *Question) HasOption(optionID int64) bool {
	for _, o := range q.Options {
		if o.ID == optionID {
			return true
		}
	}
	return false
}

// ── Practice views ───────────────────────────────────────

// PracticeOption hides correctness from students until they answer.
type PracticeOption struct {
	ID   int64  `json:"id"`
	Text string `json:"option_text"`
}

type PracticeQuestion struct {
	ID        int64  `json:"id"`
	SubjectID int64  `json:"subject_id"`
	TopicName string `json:"topic_name"`
	Statement string `json:"statement"`
	ExamMeta
	Options []PracticeOption `json:"options"`
}

func (q *Question) Practice() PracticeQuestion {
	opts := make([]PracticeOption, len(q.Options))
	for i, o := range q.Options {
		opts[i] = PracticeOption{ID: o.ID, Text: o.Text}
	}
	return PracticeQuestion{
		ID:        q.ID,
		SubjectID: q.SubjectID,
		TopicName: q.TopicName,
		Statement: q.Statement,
		ExamMeta:  q.ExamMeta,
		Options:   opts,
	}
}

// ── Admin authoring ──────────────────────────────────────

type CreateQuestionRequest struct {
	Subject            string   `json:"subject" validate:"required,max=120"`
	Topic              string   `json:"topic" validate:"required,max=120"`
	Statement          string   `json:"statement" validate:"required"`
	Explanation        string   `json:"explanation"`
	Tips               string   `json:"tips"`
	Banca              string   `json:"banca" validate:"max=120"`
	Ano                int      `json:"ano" validate:"omitempty,min=1900,max=2100"`
	Orgao              string   `json:"orgao" validate:"max=120"`
	Cargo              string   `json:"cargo" validate:"max=120"`
	Options            []string `json:"options" validate:"min=2,max=10,dive,required"`
	CorrectOptionIndex int      `json:"correct_option_index" validate:"min=0"`
}

type DraftExplanationRequest struct {
	Statement          string   `json:"statement" validate:"required"`
	Options            []string `json:"options" validate:"min=2,max=10,dive,required"`
	CorrectOptionIndex int      `json:"correct_option_index" validate:"min=0"`
	Subject            string   `json:"subject"`
	Topic              string   `json:"topic"`
}

type DraftExplanationResponse struct {
	Explanation  string `json:"explanation"`
	Tips         string `json:"tips"`
	Model        string `json:"model"`
	PromptTokens int    `json:"prompt_tokens"`
	OutputTokens int    `json:"output_tokens"`
}
