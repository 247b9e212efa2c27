package review

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/studydesk/backend/internal/models"
)

// Store reads incorrect answers joined with their questions.
type Store interface {
	FetchIncorrectAnswers(ctx context.Context, userID int64, f Filter) ([]models.IncorrectAnswer, error)
}

type PGStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

// FetchIncorrectAnswers returns the user's wrong answers, most recent first.
// A question whose row, subject or topic is missing is returned as nil.
func (s *PGStore) FetchIncorrectAnswers(ctx context.Context, userID int64, f Filter) ([]models.IncorrectAnswer, error) {
	conds := []string{"a.user_id = $1", "a.is_correct = FALSE"}
	args := []interface{}{userID}

	if f.SubjectID != nil {
		args = append(args, *f.SubjectID)
		conds = append(conds, fmt.Sprintf("q.subject_id = $%d", len(args)))
	}
	switch f.ErrorType {
	case FilterAll:
	case FilterUnclassified:
		conds = append(conds, "a.error_type IS NULL")
	default:
		args = append(args, string(f.ErrorType))
		conds = append(conds, fmt.Sprintf("a.error_type = $%d", len(args)))
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT a.id, a.error_type, a.selected_option_id, a.created_at,
		        q.id, q.statement, q.explanation, s.id, s.name, t.name
		 FROM answers a
		 LEFT JOIN questions q ON q.id = a.question_id
		 LEFT JOIN subjects s ON s.id = q.subject_id
		 LEFT JOIN topics t ON t.id = q.topic_id
		 WHERE `+strings.Join(conds, " AND ")+`
		 ORDER BY a.created_at DESC, a.id DESC`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("query incorrect answers: %w", err)
	}
	defer rows.Close()

	var answers []models.IncorrectAnswer
	questions := make(map[int64]*models.Question)
	var questionIDs []int64

	for rows.Next() {
		var (
			a           models.IncorrectAnswer
			errorType   sql.NullString
			qID         sql.NullInt64
			statement   sql.NullString
			explanation sql.NullString
			subjectID   sql.NullInt64
			subjectName sql.NullString
			topicName   sql.NullString
		)
		if err := rows.Scan(&a.AnswerID, &errorType, &a.SelectedOptionID, &a.CreatedAt,
			&qID, &statement, &explanation, &subjectID, &subjectName, &topicName); err != nil {
			return nil, fmt.Errorf("scan incorrect answer: %w", err)
		}

		if errorType.Valid {
			et := models.ErrorType(errorType.String)
			a.ErrorType = &et
		}

		if qID.Valid && subjectID.Valid && topicName.Valid {
			q, ok := questions[qID.Int64]
			if !ok {
				q = &models.Question{
					ID:          qID.Int64,
					SubjectID:   subjectID.Int64,
					SubjectName: subjectName.String,
					TopicName:   topicName.String,
					Statement:   statement.String,
				}
				if explanation.Valid {
					q.Explanation = &explanation.String
				}
				questions[q.ID] = q
				questionIDs = append(questionIDs, q.ID)
			}
			a.Question = q
		}

		answers = append(answers, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(questionIDs) > 0 {
		if err := s.attachOptions(ctx, questions, questionIDs); err != nil {
			return nil, err
		}
	}
	return answers, nil
}

func (s *PGStore) attachOptions(ctx context.Context, questions map[int64]*models.Question, ids []int64) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, question_id, option_text, is_correct, position
		 FROM options WHERE question_id = ANY($1)
		 ORDER BY question_id, position, id`,
		pq.Array(ids),
	)
	if err != nil {
		return fmt.Errorf("query options: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var o models.Option
		if err := rows.Scan(&o.ID, &o.QuestionID, &o.Text, &o.IsCorrect, &o.Position); err != nil {
			return fmt.Errorf("scan option: %w", err)
		}
		if q, ok := questions[o.QuestionID]; ok {
			q.Options = append(q.Options, o)
		}
	}
	return rows.Err()
}
