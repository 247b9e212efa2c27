package quiz

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/studydesk/backend/internal/models"
)

// ErrStaleSession means the session moved on between loading and saving it.
var ErrStaleSession = fmt.Errorf("%w: session was modified concurrently, reload it", models.ErrConflict)

type Store interface {
	DrawQuestionIDs(ctx context.Context, subjectID *int64, count int) ([]int64, error)
	CreateSession(ctx context.Context, s *models.QuizSession) error
	GetSession(ctx context.Context, id string) (*models.QuizSession, error)
	// UpdateSession saves s only if the stored session is still active at
	// fromIndex in fromPhase. Otherwise it returns ErrStaleSession.
	UpdateSession(ctx context.Context, s *models.QuizSession, fromIndex int, fromPhase string) error
	ExpireStale(ctx context.Context, startedBefore time.Time) (int64, error)
}

type PGStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

// DrawQuestionIDs picks up to count random questions, optionally from one subject.
func (s *PGStore) DrawQuestionIDs(ctx context.Context, subjectID *int64, count int) ([]int64, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if subjectID != nil {
		rows, err = s.db.QueryContext(ctx,
			`SELECT id FROM questions WHERE subject_id = $1 ORDER BY RANDOM() LIMIT $2`,
			*subjectID, count)
	} else {
		rows, err = s.db.QueryContext(ctx,
			`SELECT id FROM questions ORDER BY RANDOM() LIMIT $1`, count)
	}
	if err != nil {
		return nil, fmt.Errorf("draw questions: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan question id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *PGStore) CreateSession(ctx context.Context, qs *models.QuizSession) error {
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO quiz_sessions (id, user_id, subject_id, question_ids, current_index, phase, total_questions, status)
		 VALUES ($1, $2, $3, $4, 0, $5, $6, $7)
		 RETURNING started_at`,
		qs.ID, qs.UserID, qs.SubjectID, pq.Array(qs.QuestionIDs), qs.Phase, qs.TotalQuestions, string(qs.Status),
	).Scan(&qs.StartedAt)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (s *PGStore) GetSession(ctx context.Context, id string) (*models.QuizSession, error) {
	var (
		qs       models.QuizSession
		status   string
		ids      pq.Int64Array
		selected sql.NullInt64
		answerID sql.NullInt64
		correct  sql.NullBool
		errType  sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, subject_id, question_ids, current_index, phase, selected_option_id,
		        last_answer_id, last_correct, last_error_type, score, total_questions, status,
		        started_at, completed_at
		 FROM quiz_sessions WHERE id = $1`, id,
	).Scan(&qs.ID, &qs.UserID, &qs.SubjectID, &ids, &qs.CurrentIndex, &qs.Phase, &selected,
		&answerID, &correct, &errType, &qs.Score, &qs.TotalQuestions, &status, &qs.StartedAt, &qs.CompletedAt)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	qs.QuestionIDs = []int64(ids)
	qs.Status = models.SessionStatus(status)
	if selected.Valid {
		qs.SelectedOptionID = &selected.Int64
	}
	if answerID.Valid {
		qs.LastAnswerID = &answerID.Int64
	}
	if correct.Valid {
		qs.LastCorrect = &correct.Bool
	}
	if errType.Valid {
		et := models.ErrorType(errType.String)
		qs.LastErrorType = &et
	}
	return &qs, nil
}

func (s *PGStore) UpdateSession(ctx context.Context, qs *models.QuizSession, fromIndex int, fromPhase string) error {
	var errType *string
	if qs.LastErrorType != nil {
		v := string(*qs.LastErrorType)
		errType = &v
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE quiz_sessions
		 SET current_index = $2, phase = $3, selected_option_id = $4, last_answer_id = $5,
		     last_correct = $6, last_error_type = $7, score = $8, status = $9, completed_at = $10
		 WHERE id = $1 AND status = 'active' AND current_index = $11 AND phase = $12`,
		qs.ID, qs.CurrentIndex, qs.Phase, qs.SelectedOptionID, qs.LastAnswerID,
		qs.LastCorrect, errType, qs.Score, string(qs.Status), qs.CompletedAt,
		fromIndex, fromPhase,
	)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	if n == 0 {
		return ErrStaleSession
	}
	return nil
}

// ExpireStale marks active sessions started before the cutoff as abandoned.
func (s *PGStore) ExpireStale(ctx context.Context, startedBefore time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE quiz_sessions SET status = 'abandoned'
		 WHERE status = 'active' AND started_at < $1`, startedBefore)
	if err != nil {
		return 0, fmt.Errorf("expire sessions: %w", err)
	}
	return res.RowsAffected()
}
