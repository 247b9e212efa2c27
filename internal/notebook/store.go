package notebook

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/studydesk/backend/internal/models"
)

type Store interface {
	ListEntries(ctx context.Context, userID int64) ([]models.NotebookEntry, error)
	InsertEntry(ctx context.Context, e *models.NotebookEntry) error
	DeleteEntry(ctx context.Context, userID, id int64) error
	QuestionSubject(ctx context.Context, questionID int64) (int64, error)
}

type PGStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

// ListEntries returns the user's entries, newest first.
func (s *PGStore) ListEntries(ctx context.Context, userID int64) ([]models.NotebookEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT n.id, n.user_id, n.subject_id, s.name, n.content, n.entry_type,
		        n.source_question_id, q.statement, n.created_at
		 FROM notebook_entries n
		 LEFT JOIN subjects s ON s.id = n.subject_id
		 LEFT JOIN questions q ON q.id = n.source_question_id
		 WHERE n.user_id = $1
		 ORDER BY n.created_at DESC, n.id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list notebook entries: %w", err)
	}
	defer rows.Close()

	var entries []models.NotebookEntry
	for rows.Next() {
		var e models.NotebookEntry
		var entryType string
		if err := rows.Scan(&e.ID, &e.UserID, &e.SubjectID, &e.SubjectName, &e.Content, &entryType,
			&e.SourceQuestionID, &e.QuestionStatement, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notebook entry: %w", err)
		}
		e.EntryType = models.EntryType(entryType)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *PGStore) InsertEntry(ctx context.Context, e *models.NotebookEntry) error {
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO notebook_entries (user_id, subject_id, source_question_id, entry_type, content)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		e.UserID, e.SubjectID, e.SourceQuestionID, string(e.EntryType), e.Content,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert notebook entry: %w", err)
	}
	return nil
}

// DeleteEntry removes an entry owned by the user. Entries of other users
// are reported as not found.
func (s *PGStore) DeleteEntry(ctx context.Context, userID, id int64) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM notebook_entries WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete notebook entry: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (s *PGStore) QuestionSubject(ctx context.Context, questionID int64) (int64, error) {
	var subjectID int64
	err := s.db.QueryRowContext(ctx,
		`SELECT subject_id FROM questions WHERE id = $1`, questionID,
	).Scan(&subjectID)
	if err == sql.ErrNoRows {
		return 0, models.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("get question subject: %w", err)
	}
	return subjectID, nil
}
