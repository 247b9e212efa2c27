package questions

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/studydesk/backend/internal/models"
)

// Store is the persistence the question service needs.
type Store interface {
	ListSubjects(ctx context.Context) ([]models.Subject, error)
	ListQuestions(ctx context.Context, subjectID *int64, limit int) ([]models.Question, error)
	GetQuestion(ctx context.Context, id int64) (*models.Question, error)
	InsertAnswer(ctx context.Context, a *models.Answer) error
	GetAnswer(ctx context.Context, id int64) (*models.Answer, error)
	SetErrorType(ctx context.Context, answerID int64, et models.ErrorType) error
	CreateQuestion(ctx context.Context, req models.CreateQuestionRequest) (int64, error)
}

type PGStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

// ── Subjects ────────────────────────────────────────────

func (s *PGStore) ListSubjects(ctx context.Context) ([]models.Subject, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM subjects ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	defer rows.Close()

	subjects := []models.Subject{}
	for rows.Next() {
		var sub models.Subject
		if err := rows.Scan(&sub.ID, &sub.Name); err != nil {
			return nil, fmt.Errorf("scan subject: %w", err)
		}
		subjects = append(subjects, sub)
	}
	return subjects, rows.Err()
}

// ── Questions ───────────────────────────────────────────

const questionCols = `q.id, q.subject_id, s.name, q.topic_id, t.name, q.statement, q.explanation, q.tips,
	q.banca, q.ano, q.orgao, q.cargo, q.created_at`

func scanQuestion(row interface{ Scan(...interface{}) error }, q *models.Question) error {
	return row.Scan(&q.ID, &q.SubjectID, &q.SubjectName, &q.TopicID, &q.TopicName, &q.Statement,
		&q.Explanation, &q.Tips, &q.Banca, &q.Ano, &q.Orgao, &q.Cargo, &q.CreatedAt)
}

// ListQuestions returns questions newest first, optionally for one subject.
func (s *PGStore) ListQuestions(ctx context.Context, subjectID *int64, limit int) ([]models.Question, error) {
	query := `SELECT ` + questionCols + `
		 FROM questions q
		 JOIN subjects s ON s.id = q.subject_id
		 JOIN topics t ON t.id = q.topic_id`
	args := []interface{}{}
	if subjectID != nil {
		args = append(args, *subjectID)
		query += ` WHERE q.subject_id = $1`
	}
	args = append(args, limit)
	query += fmt.Sprintf(` ORDER BY q.created_at DESC, q.id DESC LIMIT $%d`, len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	var questions []models.Question
	for rows.Next() {
		var q models.Question
		if err := scanQuestion(rows, &q); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.attachOptions(ctx, questions); err != nil {
		return nil, err
	}
	return questions, nil
}

func (s *PGStore) GetQuestion(ctx context.Context, id int64) (*models.Question, error) {
	var q models.Question
	err := scanQuestion(s.db.QueryRowContext(ctx,
		`SELECT `+questionCols+`
		 FROM questions q
		 JOIN subjects s ON s.id = q.subject_id
		 JOIN topics t ON t.id = q.topic_id
		 WHERE q.id = $1`, id), &q)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get question: %w", err)
	}

	qs := []models.Question{q}
	if err := s.attachOptions(ctx, qs); err != nil {
		return nil, err
	}
	return &qs[0], nil
}

func (s *PGStore) attachOptions(ctx context.Context, questions []models.Question) error {
	if len(questions) == 0 {
		return nil
	}
	index := make(map[int64]int, len(questions))
	ids := make([]int64, len(questions))
	for i, q := range questions {
		index[q.ID] = i
		ids[i] = q.ID
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, question_id, option_text, is_correct, position
		 FROM options WHERE question_id = ANY($1)
		 ORDER BY question_id, position, id`,
		pq.Array(ids),
	)
	if err != nil {
		return fmt.Errorf("get options: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var o models.Option
		if err := rows.Scan(&o.ID, &o.QuestionID, &o.Text, &o.IsCorrect, &o.Position); err != nil {
			return fmt.Errorf("scan option: %w", err)
		}
		i := index[o.QuestionID]
		questions[i].Options = append(questions[i].Options, o)
	}
	return rows.Err()
}

// ── Answers ─────────────────────────────────────────────

// InsertAnswer stores an answer. Within a session each question keeps a
// single row, so a repeated submission overwrites the earlier one.
func (s *PGStore) InsertAnswer(ctx context.Context, a *models.Answer) error {
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO answers (user_id, question_id, selected_option_id, is_correct, session_id)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (session_id, question_id) WHERE session_id IS NOT NULL
		 DO UPDATE SET selected_option_id = EXCLUDED.selected_option_id,
		               is_correct = EXCLUDED.is_correct,
		               error_type = NULL
		 RETURNING id, created_at`,
		a.UserID, a.QuestionID, a.SelectedOptionID, a.IsCorrect, a.SessionID,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert answer: %w", err)
	}
	return nil
}

func (s *PGStore) GetAnswer(ctx context.Context, id int64) (*models.Answer, error) {
	var (
		a         models.Answer
		questionID sql.NullInt64
		errorType sql.NullString
		sessionID sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, question_id, selected_option_id, is_correct, error_type, session_id, created_at
		 FROM answers WHERE id = $1`, id,
	).Scan(&a.ID, &a.UserID, &questionID, &a.SelectedOptionID, &a.IsCorrect, &errorType, &sessionID, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get answer: %w", err)
	}

	a.QuestionID = questionID.Int64
	if errorType.Valid {
		et := models.ErrorType(errorType.String)
		a.ErrorType = &et
	}
	if sessionID.Valid {
		a.SessionID = &sessionID.String
	}
	return &a, nil
}

func (s *PGStore) SetErrorType(ctx context.Context, answerID int64, et models.ErrorType) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE answers SET error_type = $1 WHERE id = $2 AND is_correct = FALSE`,
		string(et), answerID,
	)
	if err != nil {
		return fmt.Errorf("set error type: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ── Authoring ───────────────────────────────────────────

// CreateQuestion finds or creates the subject and topic by case-insensitive
// name, then inserts the question and its options in one transaction.
func (s *PGStore) CreateQuestion(ctx context.Context, req models.CreateQuestionRequest) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	subjectID, err := findOrCreate(ctx, tx,
		`SELECT id FROM subjects WHERE LOWER(name) = LOWER($1)`,
		`INSERT INTO subjects (name) VALUES ($1) ON CONFLICT DO NOTHING RETURNING id`,
		strings.TrimSpace(req.Subject),
	)
	if err != nil {
		return 0, fmt.Errorf("subject: %w", err)
	}

	topicID, err := findOrCreate(ctx, tx,
		`SELECT id FROM topics WHERE subject_id = $2 AND LOWER(name) = LOWER($1)`,
		`INSERT INTO topics (name, subject_id) VALUES ($1, $2) ON CONFLICT DO NOTHING RETURNING id`,
		strings.TrimSpace(req.Topic), subjectID,
	)
	if err != nil {
		return 0, fmt.Errorf("topic: %w", err)
	}

	var ano *int
	if req.Ano != 0 {
		ano = &req.Ano
	}

	var questionID int64
	err = tx.QueryRowContext(ctx,
		`INSERT INTO questions (subject_id, topic_id, statement, explanation, tips, banca, ano, orgao, cargo)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id`,
		subjectID, topicID, strings.TrimSpace(req.Statement),
		nullString(req.Explanation), nullString(req.Tips),
		nullString(req.Banca), ano, nullString(req.Orgao), nullString(req.Cargo),
	).Scan(&questionID)
	if err != nil {
		return 0, fmt.Errorf("insert question: %w", err)
	}

	for i, text := range req.Options {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO options (question_id, option_text, is_correct, position)
			 VALUES ($1, $2, $3, $4)`,
			questionID, strings.TrimSpace(text), i == req.CorrectOptionIndex, i,
		)
		if err != nil {
			return 0, fmt.Errorf("insert option: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit question: %w", err)
	}
	return questionID, nil
}

// findOrCreate looks a row up and inserts it when missing. A concurrent
// insert of the same name makes the INSERT return no row, so the lookup is
// retried once.
func findOrCreate(ctx context.Context, tx *sql.Tx, selectSQL, insertSQL string, args ...interface{}) (int64, error) {
	var id int64
	err := tx.QueryRowContext(ctx, selectSQL, args...).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, err
	}

	err = tx.QueryRowContext(ctx, insertSQL, args...).Scan(&id)
	if err == sql.ErrNoRows {
		err = tx.QueryRowContext(ctx, selectSQL, args...).Scan(&id)
	}
	return id, err
}

func nullString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
