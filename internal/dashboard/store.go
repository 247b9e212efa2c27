package dashboard

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/studydesk/backend/internal/models"
	"github.com/studydesk/backend/internal/stats"
)

// SubjectRow aggregates one subject for the subjects overview.
type SubjectRow struct {
	ID            int64
	Name          string
	QuestionCount int
	SessionCount  int
	Score         int
	Total         int
}

type Store interface {
	AnswerOutcomes(ctx context.Context, userID int64) ([]stats.Outcome, error)
	SessionTallies(ctx context.Context, userID int64) ([]stats.SessionTally, error)
	RecentSessions(ctx context.Context, userID int64, limit int) ([]models.RecentSession, error)
	SubjectRows(ctx context.Context, userID int64) ([]SubjectRow, error)
}

type PGStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

// AnswerOutcomes returns every answer of the user with its subject. Answers
// whose question was deleted have SubjectID 0.
func (s *PGStore) AnswerOutcomes(ctx context.Context, userID int64) ([]stats.Outcome, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT COALESCE(s.id, 0), COALESCE(s.name, ''), a.is_correct
		 FROM answers a
		 LEFT JOIN questions q ON q.id = a.question_id
		 LEFT JOIN subjects s ON s.id = q.subject_id
		 WHERE a.user_id = $1`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query answer outcomes: %w", err)
	}
	defer rows.Close()

	var out []stats.Outcome
	for rows.Next() {
		var o stats.Outcome
		if err := rows.Scan(&o.SubjectID, &o.SubjectName, &o.Correct); err != nil {
			return nil, fmt.Errorf("scan answer outcome: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// SessionTallies returns the scores of completed sessions only.
func (s *PGStore) SessionTallies(ctx context.Context, userID int64) ([]stats.SessionTally, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT score, total_questions FROM quiz_sessions
		 WHERE user_id = $1 AND status = 'completed'`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query session tallies: %w", err)
	}
	defer rows.Close()

	var out []stats.SessionTally
	for rows.Next() {
		var t stats.SessionTally
		if err := rows.Scan(&t.Score, &t.TotalQuestions); err != nil {
			return nil, fmt.Errorf("scan session tally: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *PGStore) RecentSessions(ctx context.Context, userID int64, limit int) ([]models.RecentSession, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT qs.id, s.name, qs.score, qs.total_questions, qs.completed_at
		 FROM quiz_sessions qs
		 LEFT JOIN subjects s ON s.id = qs.subject_id
		 WHERE qs.user_id = $1 AND qs.status = 'completed'
		 ORDER BY qs.completed_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query recent sessions: %w", err)
	}
	defer rows.Close()

	out := []models.RecentSession{}
	for rows.Next() {
		var r models.RecentSession
		if err := rows.Scan(&r.ID, &r.SubjectName, &r.Score, &r.TotalQuestions, &r.CompletedAt); err != nil {
			return nil, fmt.Errorf("scan recent session: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// SubjectRows lists every subject with its question count and the user's
// completed session totals in it.
func (s *PGStore) SubjectRows(ctx context.Context, userID int64) ([]SubjectRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT s.id, s.name,
		        (SELECT COUNT(*) FROM questions q WHERE q.subject_id = s.id),
		        COUNT(qs.id),
		        COALESCE(SUM(qs.score), 0),
		        COALESCE(SUM(qs.total_questions), 0)
		 FROM subjects s
		 LEFT JOIN quiz_sessions qs
		        ON qs.subject_id = s.id AND qs.user_id = $1 AND qs.status = 'completed'
		 GROUP BY s.id, s.name
		 ORDER BY s.name`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query subject rows: %w", err)
	}
	defer rows.Close()

	var out []SubjectRow
	for rows.Next() {
		var r SubjectRow
		if err := rows.Scan(&r.ID, &r.Name, &r.QuestionCount, &r.SessionCount, &r.Score, &r.Total); err != nil {
			return nil, fmt.Errorf("scan subject row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
